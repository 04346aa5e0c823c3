package domain

import "time"

// LineageReport is the audit-oriented projection of one model line: the
// complete version history in creation order, with nothing omitted or
// reordered.
type LineageReport struct {
	ModelName         string           `json:"model_name"`
	GeneratedAt       time.Time        `json:"generated_at"`
	TotalVersions     int              `json:"total_versions"`
	CurrentProduction string           `json:"current_production,omitempty"`
	VersionHistory    []*VersionRecord `json:"version_history"`
}

// MetricDelta compares a single metric between two versions.
type MetricDelta struct {
	V1       float64 `json:"v1"`
	V2       float64 `json:"v2"`
	Diff     float64 `json:"diff"`
	Improved bool    `json:"improved"`
}

// VersionComparison is the metric-by-metric diff of two versions of the
// same model.
type VersionComparison struct {
	ModelName           string                 `json:"model_name"`
	Version1            string                 `json:"version1"`
	Version2            string                 `json:"version2"`
	CreatedAtDiffDays   int                    `json:"created_at_diff_days"`
	Metrics             map[string]MetricDelta `json:"metrics_comparison"`
	TrainingSamplesDiff int                    `json:"training_samples_diff"`
	FeatureCountDiff    int                    `json:"feature_count_diff"`
}

// CleanupFailure reports one record the retention pass could not remove.
type CleanupFailure struct {
	Version string `json:"version"`
	Reason  string `json:"reason"`
}

// CleanupResult reports retention outcome: how many records were removed
// and which ones were skipped because their artifact could not be
// deleted.
type CleanupResult struct {
	Removed int              `json:"removed"`
	Failed  []CleanupFailure `json:"failed,omitempty"`
}

// ModelSummary is one model's digest within a registry summary.
type ModelSummary struct {
	Name              string             `json:"name"`
	VersionCount      int                `json:"version_count"`
	LatestVersion     string             `json:"latest_version"`
	LatestCreatedAt   time.Time          `json:"latest_created_at"`
	CurrentProduction string             `json:"current_production,omitempty"`
	LatestMetrics     map[string]float64 `json:"latest_metrics,omitempty"`
}

// RegistrySummary digests the whole registry for operators.
type RegistrySummary struct {
	GeneratedAt   time.Time      `json:"generated_at"`
	TotalModels   int            `json:"total_models"`
	TotalVersions int            `json:"total_versions"`
	Models        []ModelSummary `json:"models"`
}
