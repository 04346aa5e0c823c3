package domain

import "errors"

var (
	ErrRegistryCorrupt         = errors.New("registry document is corrupt")
	ErrRegistryBusy            = errors.New("registry is locked by another operation")
	ErrModelNotFound           = errors.New("model not found in registry")
	ErrVersionNotFound         = errors.New("model version not found")
	ErrInvalidVersionFormat    = errors.New("invalid version format")
	ErrInvalidModelName        = errors.New("model name is required")
	ErrArtifactWriteFailed     = errors.New("failed to persist model artifact")
	ErrArtifactDeleteFailed    = errors.New("failed to delete model artifact")
	ErrNoProductionModel       = errors.New("no production version promoted for this model")
	ErrVersionArchived         = errors.New("cannot promote an archived version")
	ErrCannotArchiveProduction = errors.New("cannot archive the current production version")
)
