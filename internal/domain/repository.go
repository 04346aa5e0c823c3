package domain

import "context"

// ListFilter narrows List results. Empty fields match everything.
type ListFilter struct {
	ModelName string
	Status    string
}

// RegistryStore persists the registry as a single atomically-committed
// document. Load on a missing backing document returns an empty registry;
// a malformed document surfaces ErrRegistryCorrupt.
type RegistryStore interface {
	Load(ctx context.Context) (*Registry, error)
	Commit(ctx context.Context, reg *Registry) error

	// WithLock serializes a read-modify-commit span against all other
	// writers of the same registry document. Acquisition waits a bounded
	// time and fails with ErrRegistryBusy on timeout; release is
	// guaranteed however fn exits.
	WithLock(ctx context.Context, fn func(ctx context.Context) error) error
}

// ArtifactStore persists opaque model artifact bytes keyed by
// (modelName, version). It has no knowledge of artifact content.
type ArtifactStore interface {
	// Write persists artifact bytes and returns the opaque locator the
	// registry records for them.
	Write(ctx context.Context, modelName, version string, data []byte) (string, error)

	// WriteMetadata stores the sidecar metadata document mirroring a
	// version record next to its artifact, for human inspection.
	WriteMetadata(ctx context.Context, record *VersionRecord) error

	// Read resolves a locator back to artifact bytes.
	Read(ctx context.Context, locator string) ([]byte, error)

	// Delete removes the artifact (and sidecar) for a model version.
	Delete(ctx context.Context, modelName, version string) error
}
