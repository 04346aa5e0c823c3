package domain

import "time"

// Registry is the aggregate root of the versioning subsystem: every model
// line keyed by model name, plus the production pointer per model.
// Insertion order of a line is creation order and equals version order.
type Registry struct {
	Models            map[string][]*VersionRecord `json:"models"`
	CurrentProduction map[string]string           `json:"current_production"`
	LastUpdated       time.Time                   `json:"last_updated"`
}

func NewRegistry() *Registry {
	return &Registry{
		Models:            make(map[string][]*VersionRecord),
		CurrentProduction: make(map[string]string),
	}
}

// Line returns the ordered version history for a model name, or
// ErrModelNotFound when no such line exists.
func (r *Registry) Line(name string) ([]*VersionRecord, error) {
	line, ok := r.Models[name]
	if !ok {
		return nil, ErrModelNotFound
	}
	return line, nil
}

// FindVersion locates a single record by model name and version string.
func (r *Registry) FindVersion(name, version string) (*VersionRecord, error) {
	line, err := r.Line(name)
	if err != nil {
		return nil, err
	}
	for _, rec := range line {
		if rec.Version == version {
			return rec, nil
		}
	}
	return nil, ErrVersionNotFound
}

// ProductionVersion returns the production pointer for a model, if set.
func (r *Registry) ProductionVersion(name string) (string, bool) {
	v, ok := r.CurrentProduction[name]
	return v, ok
}

// RefreshProductionFlags recomputes every record's IsProduction flag from
// the production pointer, which is the single source of truth. Called
// after load and before commit so the persisted document can never
// disagree with the pointer.
func (r *Registry) RefreshProductionFlags() {
	for name, line := range r.Models {
		prod := r.CurrentProduction[name]
		for _, rec := range line {
			rec.IsProduction = prod != "" && rec.Version == prod
		}
	}
}
