package dto

import "github.com/google/uuid"

// RegisterVersionRequest is the trainer-facing payload. Artifact bytes
// travel base64-encoded in the JSON body; the registry treats them as
// opaque.
type RegisterVersionRequest struct {
	ModelType   string             `json:"model_type" binding:"required,max=100"`
	Description string             `json:"description"`
	CreatedBy   string             `json:"created_by"`
	Artifact    []byte             `json:"artifact" binding:"required"`
	Metrics     map[string]float64 `json:"metrics"`
	Bump        string             `json:"bump"`
	Tags        []string           `json:"tags"`

	TrainingDataHash        string  `json:"training_data_hash"`
	TrainingSamples         int     `json:"training_samples"`
	FeatureCount            int     `json:"feature_count"`
	TrainingDurationSeconds float64 `json:"training_duration_seconds"`
}

type CleanupRequest struct {
	KeepLastN      int   `json:"keep_last_n" binding:"min=0"`
	KeepProduction *bool `json:"keep_production"`
}

type VersionResponse struct {
	ID           uuid.UUID          `json:"id"`
	Version      string             `json:"version"`
	ModelName    string             `json:"model_name"`
	ModelType    string             `json:"model_type"`
	CreatedAt    string             `json:"created_at"`
	CreatedBy    string             `json:"created_by"`
	Description  string             `json:"description"`
	Metrics      map[string]float64 `json:"metrics"`
	Status       string             `json:"status"`
	IsProduction bool               `json:"is_production"`
	Tags         []string           `json:"tags"`

	TrainingDataHash        string  `json:"training_data_hash,omitempty"`
	TrainingSamples         int     `json:"training_samples,omitempty"`
	FeatureCount            int     `json:"feature_count,omitempty"`
	TrainingDurationSeconds float64 `json:"training_duration_seconds,omitempty"`
	ArtifactLocator         string  `json:"artifact_locator"`
}

type ListVersionsResponse struct {
	Items []VersionResponse `json:"items"`
	Total int               `json:"total"`
}

// ArtifactResponse carries opaque artifact bytes together with the
// record describing them.
type ArtifactResponse struct {
	Artifact []byte          `json:"artifact"`
	Version  VersionResponse `json:"version"`
}

type CleanupFailureDTO struct {
	Version string `json:"version"`
	Reason  string `json:"reason"`
}

type CleanupResponse struct {
	Removed int                 `json:"removed"`
	Failed  []CleanupFailureDTO `json:"failed,omitempty"`
}
