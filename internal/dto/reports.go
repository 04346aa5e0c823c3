package dto

type LineageResponse struct {
	ModelName         string            `json:"model_name"`
	GeneratedAt       string            `json:"generated_at"`
	TotalVersions     int               `json:"total_versions"`
	CurrentProduction string            `json:"current_production,omitempty"`
	VersionHistory    []VersionResponse `json:"version_history"`
}

type MetricDeltaDTO struct {
	V1       float64 `json:"v1"`
	V2       float64 `json:"v2"`
	Diff     float64 `json:"diff"`
	Improved bool    `json:"improved"`
}

type ComparisonResponse struct {
	ModelName           string                    `json:"model_name"`
	Version1            string                    `json:"version1"`
	Version2            string                    `json:"version2"`
	CreatedAtDiffDays   int                       `json:"created_at_diff_days"`
	Metrics             map[string]MetricDeltaDTO `json:"metrics_comparison"`
	TrainingSamplesDiff int                       `json:"training_samples_diff"`
	FeatureCountDiff    int                       `json:"feature_count_diff"`
}

type ModelSummaryDTO struct {
	Name              string             `json:"name"`
	VersionCount      int                `json:"version_count"`
	LatestVersion     string             `json:"latest_version"`
	LatestCreatedAt   string             `json:"latest_created_at"`
	CurrentProduction string             `json:"current_production,omitempty"`
	LatestMetrics     map[string]float64 `json:"latest_metrics,omitempty"`
}

type SummaryResponse struct {
	GeneratedAt   string            `json:"generated_at"`
	TotalModels   int               `json:"total_models"`
	TotalVersions int               `json:"total_versions"`
	Models        []ModelSummaryDTO `json:"models"`
}
