package usecase

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"model-versioning-service/internal/domain"
)

// RegistryUseCase implements the registry's public operations. Every
// mutating operation runs its read-modify-commit span inside the
// store's exclusive lock.
type RegistryUseCase struct {
	store     domain.RegistryStore
	artifacts domain.ArtifactStore
}

func NewRegistryUseCase(store domain.RegistryStore, artifacts domain.ArtifactStore) *RegistryUseCase {
	return &RegistryUseCase{store: store, artifacts: artifacts}
}

// RegisterParams carries everything the trainer hands over for a new
// version.
type RegisterParams struct {
	ModelName   string
	ModelType   string
	Description string
	CreatedBy   string
	Artifact    []byte
	Metrics     map[string]float64
	Bump        domain.Bump
	Tags        []string

	TrainingDataHash        string
	TrainingSamples         int
	FeatureCount            int
	TrainingDurationSeconds float64
}

// Register allocates the next version for the model line, persists the
// artifact, then appends the record and commits. The artifact is written
// before the registry commit; if it fails the operation aborts with no
// registry mutation.
func (uc *RegistryUseCase) Register(ctx context.Context, p RegisterParams) (*domain.VersionRecord, error) {
	if p.ModelName == "" {
		return nil, domain.ErrInvalidModelName
	}
	if p.CreatedBy == "" {
		p.CreatedBy = "system"
	}
	if p.Metrics == nil {
		p.Metrics = make(map[string]float64)
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}

	var record *domain.VersionRecord
	err := uc.store.WithLock(ctx, func(ctx context.Context) error {
		reg, err := uc.store.Load(ctx)
		if err != nil {
			return err
		}

		next, err := domain.NextVersion(reg.Models[p.ModelName], p.Bump)
		if err != nil {
			return err
		}
		version := next.String()

		locator, err := uc.artifacts.Write(ctx, p.ModelName, version, p.Artifact)
		if err != nil {
			return err
		}

		record = &domain.VersionRecord{
			ID:                      uuid.New(),
			Version:                 version,
			ModelName:               p.ModelName,
			ModelType:               p.ModelType,
			CreatedAt:               time.Now().UTC(),
			CreatedBy:               p.CreatedBy,
			Description:             p.Description,
			Metrics:                 p.Metrics,
			TrainingDataHash:        p.TrainingDataHash,
			TrainingSamples:         p.TrainingSamples,
			FeatureCount:            p.FeatureCount,
			TrainingDurationSeconds: p.TrainingDurationSeconds,
			ArtifactLocator:         locator,
			Status:                  domain.VersionStatusActive,
			Tags:                    p.Tags,
		}

		if err := uc.artifacts.WriteMetadata(ctx, record); err != nil {
			return err
		}

		reg.Models[p.ModelName] = append(reg.Models[p.ModelName], record)
		return uc.store.Commit(ctx, reg)
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"model":   record.ModelName,
		"version": record.Version,
	}).Info("model version registered")

	return record.Clone(), nil
}

// Promote moves the production pointer to an existing version. This is
// the only path that mutates the pointer. Promoting the version that is
// already production is a no-op success.
func (uc *RegistryUseCase) Promote(ctx context.Context, modelName, version string) error {
	return uc.store.WithLock(ctx, func(ctx context.Context) error {
		reg, err := uc.store.Load(ctx)
		if err != nil {
			return err
		}

		rec, err := reg.FindVersion(modelName, version)
		if err != nil {
			return err
		}
		if rec.Status == domain.VersionStatusArchived {
			return domain.ErrVersionArchived
		}

		if current, ok := reg.ProductionVersion(modelName); ok && current == version {
			return nil
		}

		reg.CurrentProduction[modelName] = version
		if err := uc.store.Commit(ctx, reg); err != nil {
			return err
		}

		log.WithFields(log.Fields{
			"model":   modelName,
			"version": version,
		}).Info("version promoted to production")
		return nil
	})
}

// Deprecate marks a version deprecated. A deprecated version may remain
// production; that state is surfaced as a warning for operators, not
// corrected silently.
func (uc *RegistryUseCase) Deprecate(ctx context.Context, modelName, version string) error {
	return uc.store.WithLock(ctx, func(ctx context.Context) error {
		reg, err := uc.store.Load(ctx)
		if err != nil {
			return err
		}

		rec, err := reg.FindVersion(modelName, version)
		if err != nil {
			return err
		}
		rec.Status = domain.VersionStatusDeprecated

		if current, ok := reg.ProductionVersion(modelName); ok && current == version {
			log.WithFields(log.Fields{
				"model":   modelName,
				"version": version,
			}).Warn("deprecated version is still the production version")
		}

		return uc.store.Commit(ctx, reg)
	})
}

// Archive marks a version archived, the last lifecycle state before
// removal. The production version cannot be archived.
func (uc *RegistryUseCase) Archive(ctx context.Context, modelName, version string) error {
	return uc.store.WithLock(ctx, func(ctx context.Context) error {
		reg, err := uc.store.Load(ctx)
		if err != nil {
			return err
		}

		rec, err := reg.FindVersion(modelName, version)
		if err != nil {
			return err
		}
		if current, ok := reg.ProductionVersion(modelName); ok && current == version {
			return domain.ErrCannotArchiveProduction
		}
		rec.Status = domain.VersionStatusArchived

		return uc.store.Commit(ctx, reg)
	})
}

// Load resolves a version's artifact bytes and record. An empty version
// selects the production version when one is promoted, otherwise the
// latest.
func (uc *RegistryUseCase) Load(ctx context.Context, modelName, version string) ([]byte, *domain.VersionRecord, error) {
	reg, err := uc.store.Load(ctx)
	if err != nil {
		return nil, nil, err
	}

	line, err := reg.Line(modelName)
	if err != nil {
		return nil, nil, err
	}

	if version == "" {
		if prod, ok := reg.ProductionVersion(modelName); ok {
			version = prod
		} else if len(line) > 0 {
			version = line[len(line)-1].Version
		} else {
			// a fully cleaned-out line has no latest version
			return nil, nil, domain.ErrVersionNotFound
		}
	}

	rec, err := reg.FindVersion(modelName, version)
	if err != nil {
		return nil, nil, err
	}

	data, err := uc.artifacts.Read(ctx, rec.ArtifactLocator)
	if err != nil {
		return nil, nil, err
	}

	return data, rec.Clone(), nil
}

// GetProductionArtifact returns the artifact and record of the current
// production version, failing with ErrNoProductionModel before any
// promotion has happened.
func (uc *RegistryUseCase) GetProductionArtifact(ctx context.Context, modelName string) ([]byte, *domain.VersionRecord, error) {
	reg, err := uc.store.Load(ctx)
	if err != nil {
		return nil, nil, err
	}

	if _, err := reg.Line(modelName); err != nil {
		return nil, nil, err
	}

	prod, ok := reg.ProductionVersion(modelName)
	if !ok {
		return nil, nil, domain.ErrNoProductionModel
	}

	rec, err := reg.FindVersion(modelName, prod)
	if err != nil {
		return nil, nil, err
	}

	data, err := uc.artifacts.Read(ctx, rec.ArtifactLocator)
	if err != nil {
		return nil, nil, err
	}

	return data, rec.Clone(), nil
}

// List returns records matching the filter, grouped by model name in
// lexical order and by creation order within a line.
func (uc *RegistryUseCase) List(ctx context.Context, filter domain.ListFilter) ([]*domain.VersionRecord, error) {
	reg, err := uc.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(reg.Models))
	for name := range reg.Models {
		if filter.ModelName != "" && name != filter.ModelName {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	var out []*domain.VersionRecord
	for _, name := range names {
		for _, rec := range reg.Models[name] {
			if filter.Status != "" && string(rec.Status) != filter.Status {
				continue
			}
			out = append(out, rec.Clone())
		}
	}
	return out, nil
}

// IsNotFound reports whether err is one of the registry's not-found
// conditions.
func IsNotFound(err error) bool {
	return errors.Is(err, domain.ErrModelNotFound) ||
		errors.Is(err, domain.ErrVersionNotFound) ||
		errors.Is(err, domain.ErrNoProductionModel)
}
