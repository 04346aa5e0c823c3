package usecase

import (
	"context"
	"sort"
	"time"

	"model-versioning-service/internal/domain"
)

// ExportLineage produces the audit projection of one model line: every
// record in creation order, nothing omitted, nothing reordered.
func (uc *RegistryUseCase) ExportLineage(ctx context.Context, modelName string) (*domain.LineageReport, error) {
	reg, err := uc.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	line, err := reg.Line(modelName)
	if err != nil {
		return nil, err
	}

	history := make([]*domain.VersionRecord, 0, len(line))
	for _, rec := range line {
		history = append(history, rec.Clone())
	}

	prod, _ := reg.ProductionVersion(modelName)

	return &domain.LineageReport{
		ModelName:         modelName,
		GeneratedAt:       time.Now().UTC(),
		TotalVersions:     len(history),
		CurrentProduction: prod,
		VersionHistory:    history,
	}, nil
}

// CompareVersions diffs two versions of the same model metric by metric.
// Metrics missing on one side are treated as zero.
func (uc *RegistryUseCase) CompareVersions(ctx context.Context, modelName, version1, version2 string) (*domain.VersionComparison, error) {
	reg, err := uc.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	v1, err := reg.FindVersion(modelName, version1)
	if err != nil {
		return nil, err
	}
	v2, err := reg.FindVersion(modelName, version2)
	if err != nil {
		return nil, err
	}

	metrics := make(map[string]domain.MetricDelta)
	for name := range v1.Metrics {
		metrics[name] = domain.MetricDelta{}
	}
	for name := range v2.Metrics {
		metrics[name] = domain.MetricDelta{}
	}
	for name := range metrics {
		a := v1.Metrics[name]
		b := v2.Metrics[name]
		metrics[name] = domain.MetricDelta{
			V1:       a,
			V2:       b,
			Diff:     b - a,
			Improved: b > a,
		}
	}

	return &domain.VersionComparison{
		ModelName:           modelName,
		Version1:            version1,
		Version2:            version2,
		CreatedAtDiffDays:   int(v2.CreatedAt.Sub(v1.CreatedAt).Hours() / 24),
		Metrics:             metrics,
		TrainingSamplesDiff: v2.TrainingSamples - v1.TrainingSamples,
		FeatureCountDiff:    v2.FeatureCount - v1.FeatureCount,
	}, nil
}

// Summary digests the whole registry: totals plus each model's latest
// version, production pointer and latest metrics.
func (uc *RegistryUseCase) Summary(ctx context.Context) (*domain.RegistrySummary, error) {
	reg, err := uc.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(reg.Models))
	totalVersions := 0
	for name, line := range reg.Models {
		names = append(names, name)
		totalVersions += len(line)
	}
	sort.Strings(names)

	models := make([]domain.ModelSummary, 0, len(names))
	for _, name := range names {
		line := reg.Models[name]
		summary := domain.ModelSummary{
			Name:         name,
			VersionCount: len(line),
		}
		if len(line) > 0 {
			latest := line[len(line)-1]
			summary.LatestVersion = latest.Version
			summary.LatestCreatedAt = latest.CreatedAt
			summary.LatestMetrics = latest.Clone().Metrics
		}
		if prod, ok := reg.ProductionVersion(name); ok {
			summary.CurrentProduction = prod
		}
		models = append(models, summary)
	}

	return &domain.RegistrySummary{
		GeneratedAt:   time.Now().UTC(),
		TotalModels:   len(names),
		TotalVersions: totalVersions,
		Models:        models,
	}, nil
}
