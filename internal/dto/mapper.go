package dto

import (
	"time"

	"model-versioning-service/internal/domain"
)

const timeFormat = time.RFC3339

func ToVersionResponse(v *domain.VersionRecord) VersionResponse {
	return VersionResponse{
		ID:                      v.ID,
		Version:                 v.Version,
		ModelName:               v.ModelName,
		ModelType:               v.ModelType,
		CreatedAt:               v.CreatedAt.Format(timeFormat),
		CreatedBy:               v.CreatedBy,
		Description:             v.Description,
		Metrics:                 v.Metrics,
		Status:                  string(v.Status),
		IsProduction:            v.IsProduction,
		Tags:                    v.Tags,
		TrainingDataHash:        v.TrainingDataHash,
		TrainingSamples:         v.TrainingSamples,
		FeatureCount:            v.FeatureCount,
		TrainingDurationSeconds: v.TrainingDurationSeconds,
		ArtifactLocator:         v.ArtifactLocator,
	}
}

func ToListVersionsResponse(records []*domain.VersionRecord) ListVersionsResponse {
	items := make([]VersionResponse, 0, len(records))
	for _, rec := range records {
		items = append(items, ToVersionResponse(rec))
	}
	return ListVersionsResponse{Items: items, Total: len(items)}
}

func ToLineageResponse(r *domain.LineageReport) LineageResponse {
	history := make([]VersionResponse, 0, len(r.VersionHistory))
	for _, rec := range r.VersionHistory {
		history = append(history, ToVersionResponse(rec))
	}
	return LineageResponse{
		ModelName:         r.ModelName,
		GeneratedAt:       r.GeneratedAt.Format(timeFormat),
		TotalVersions:     r.TotalVersions,
		CurrentProduction: r.CurrentProduction,
		VersionHistory:    history,
	}
}

func ToComparisonResponse(c *domain.VersionComparison) ComparisonResponse {
	metrics := make(map[string]MetricDeltaDTO, len(c.Metrics))
	for name, d := range c.Metrics {
		metrics[name] = MetricDeltaDTO{V1: d.V1, V2: d.V2, Diff: d.Diff, Improved: d.Improved}
	}
	return ComparisonResponse{
		ModelName:           c.ModelName,
		Version1:            c.Version1,
		Version2:            c.Version2,
		CreatedAtDiffDays:   c.CreatedAtDiffDays,
		Metrics:             metrics,
		TrainingSamplesDiff: c.TrainingSamplesDiff,
		FeatureCountDiff:    c.FeatureCountDiff,
	}
}

func ToCleanupResponse(r *domain.CleanupResult) CleanupResponse {
	resp := CleanupResponse{Removed: r.Removed}
	for _, f := range r.Failed {
		resp.Failed = append(resp.Failed, CleanupFailureDTO{Version: f.Version, Reason: f.Reason})
	}
	return resp
}

func ToSummaryResponse(s *domain.RegistrySummary) SummaryResponse {
	models := make([]ModelSummaryDTO, 0, len(s.Models))
	for _, m := range s.Models {
		models = append(models, ModelSummaryDTO{
			Name:              m.Name,
			VersionCount:      m.VersionCount,
			LatestVersion:     m.LatestVersion,
			LatestCreatedAt:   m.LatestCreatedAt.Format(timeFormat),
			CurrentProduction: m.CurrentProduction,
			LatestMetrics:     m.LatestMetrics,
		})
	}
	return SummaryResponse{
		GeneratedAt:   s.GeneratedAt.Format(timeFormat),
		TotalModels:   s.TotalModels,
		TotalVersions: s.TotalVersions,
		Models:        models,
	}
}
