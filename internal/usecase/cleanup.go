package usecase

import (
	"context"

	log "github.com/sirupsen/logrus"

	"model-versioning-service/internal/domain"
)

// Cleanup removes versions outside the retain-set: the most recent
// keepLastN records by creation order, plus the production version when
// keepProduction is set. Artifacts are deleted before their records so a
// record never outlives its artifact; a failed artifact delete skips
// that record and is reported per record rather than failing the pass.
func (uc *RegistryUseCase) Cleanup(ctx context.Context, modelName string, keepLastN int, keepProduction bool) (*domain.CleanupResult, error) {
	if keepLastN < 0 {
		keepLastN = 0
	}

	result := &domain.CleanupResult{}
	err := uc.store.WithLock(ctx, func(ctx context.Context) error {
		reg, err := uc.store.Load(ctx)
		if err != nil {
			return err
		}

		line, err := reg.Line(modelName)
		if err != nil {
			return err
		}

		prod, hasProd := reg.ProductionVersion(modelName)

		cutoff := len(line) - keepLastN
		if cutoff < 0 {
			cutoff = 0
		}

		kept := make([]*domain.VersionRecord, 0, len(line))
		removedAny := false
		for i, rec := range line {
			retain := i >= cutoff
			if keepProduction && hasProd && rec.Version == prod {
				retain = true
			}
			if retain {
				kept = append(kept, rec)
				continue
			}

			if err := uc.artifacts.Delete(ctx, modelName, rec.Version); err != nil {
				log.WithError(err).WithFields(log.Fields{
					"model":   modelName,
					"version": rec.Version,
				}).Warn("artifact delete failed, keeping version record")
				result.Failed = append(result.Failed, domain.CleanupFailure{
					Version: rec.Version,
					Reason:  err.Error(),
				})
				kept = append(kept, rec)
				continue
			}

			result.Removed++
			removedAny = true
		}

		if !removedAny {
			return nil
		}

		if hasProd {
			prodKept := false
			for _, rec := range kept {
				if rec.Version == prod {
					prodKept = true
					break
				}
			}
			if !prodKept {
				delete(reg.CurrentProduction, modelName)
				log.WithFields(log.Fields{
					"model":   modelName,
					"version": prod,
				}).Warn("production version removed, clearing production pointer")
			}
		}

		reg.Models[modelName] = kept
		return uc.store.Commit(ctx, reg)
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"model":   modelName,
		"removed": result.Removed,
		"failed":  len(result.Failed),
	}).Info("cleanup pass completed")

	return result, nil
}
