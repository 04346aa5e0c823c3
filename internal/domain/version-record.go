package domain

import (
	"time"

	"github.com/google/uuid"
)

type VersionStatus string

const (
	VersionStatusActive     VersionStatus = "active"
	VersionStatusDeprecated VersionStatus = "deprecated"
	VersionStatusArchived   VersionStatus = "archived"
)

// VersionRecord describes one trained artifact registered under a model
// line. Records are immutable after creation except for the lifecycle
// fields Status and IsProduction.
type VersionRecord struct {
	ID          uuid.UUID `json:"id"`
	Version     string    `json:"version"`
	ModelName   string    `json:"model_name"`
	ModelType   string    `json:"model_type"`
	CreatedAt   time.Time `json:"created_at"`
	CreatedBy   string    `json:"created_by"`
	Description string    `json:"description"`

	// Performance metrics reported by the trainer. Opaque to the
	// registry; no ML semantics are validated here.
	Metrics map[string]float64 `json:"metrics"`

	// Training provenance, all optional.
	TrainingDataHash        string  `json:"training_data_hash,omitempty"`
	TrainingSamples         int     `json:"training_samples,omitempty"`
	FeatureCount            int     `json:"feature_count,omitempty"`
	TrainingDurationSeconds float64 `json:"training_duration_seconds,omitempty"`

	// ArtifactLocator is an opaque key into the artifact store. The
	// registry never inspects artifact content.
	ArtifactLocator string `json:"artifact_locator"`

	Status VersionStatus `json:"status"`

	// IsProduction is a view derived from the registry's production
	// pointer. The pointer is the single source of truth; this flag is
	// recomputed on load and before every commit.
	IsProduction bool `json:"is_production"`

	Tags []string `json:"tags"`
}

// Clone returns a deep copy of the record so read-only projections never
// alias registry state.
func (v *VersionRecord) Clone() *VersionRecord {
	out := *v
	if v.Metrics != nil {
		out.Metrics = make(map[string]float64, len(v.Metrics))
		for k, val := range v.Metrics {
			out.Metrics[k] = val
		}
	}
	if v.Tags != nil {
		out.Tags = append([]string(nil), v.Tags...)
	}
	return &out
}
