package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"model-versioning-service/internal/domain"
)

const (
	registryFileName = "registry.json"
	registryLockName = "registry.json.lock"
)

// DefaultLockTimeout bounds how long a writer waits for the registry
// lock before failing with ErrRegistryBusy.
const DefaultLockTimeout = 30 * time.Second

// FileRegistryStore keeps the whole registry in a single JSON document
// on local durable storage. Commits are atomic via write-to-temp then
// rename, so a reader always observes either the pre- or post-commit
// document, never a mix.
type FileRegistryStore struct {
	path        string
	lockPath    string
	lockTimeout time.Duration

	// sem serializes in-process writers with the same bounded wait as
	// the file lock; the file lock covers other processes sharing the
	// same document.
	sem chan struct{}
}

func NewFileRegistryStore(dir string, lockTimeout time.Duration) (*FileRegistryStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create registry directory: %w", err)
	}
	if lockTimeout <= 0 {
		lockTimeout = DefaultLockTimeout
	}
	return &FileRegistryStore{
		path:        filepath.Join(dir, registryFileName),
		lockPath:    filepath.Join(dir, registryLockName),
		lockTimeout: lockTimeout,
		sem:         make(chan struct{}, 1),
	}, nil
}

// Load reads the registry document. A missing document is an empty
// registry, not an error; an unreadable or malformed one surfaces
// ErrRegistryCorrupt rather than being silently rebuilt, since the
// document is the audit trail.
func (s *FileRegistryStore) Load(ctx context.Context) (*domain.Registry, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return domain.NewRegistry(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRegistryCorrupt, err)
	}

	reg := domain.NewRegistry()
	if err := json.Unmarshal(data, reg); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRegistryCorrupt, err)
	}
	if reg.Models == nil {
		reg.Models = make(map[string][]*domain.VersionRecord)
	}
	if reg.CurrentProduction == nil {
		reg.CurrentProduction = make(map[string]string)
	}

	reg.RefreshProductionFlags()
	return reg, nil
}

// Commit durably replaces the registry document. Either the new document
// is fully visible to the next Load or the prior one is left intact.
func (s *FileRegistryStore) Commit(ctx context.Context, reg *domain.Registry) error {
	reg.LastUpdated = time.Now().UTC()
	reg.RefreshProductionFlags()

	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal registry: %w", err)
	}

	return atomicWrite(s.path, data)
}

// WithLock runs fn while holding both the in-process gate and the
// cross-process file lock. Both waits are bounded by the lock timeout
// and surface ErrRegistryBusy; release is guaranteed.
func (s *FileRegistryStore) WithLock(ctx context.Context, fn func(ctx context.Context) error) error {
	select {
	case s.sem <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(s.lockTimeout):
		return fmt.Errorf("%w: lock not acquired within %v", domain.ErrRegistryBusy, s.lockTimeout)
	}
	defer func() { <-s.sem }()

	lock, err := newFileLock(s.lockPath, s.lockTimeout)
	if err != nil {
		return fmt.Errorf("create registry lock: %w", err)
	}
	if err := lock.Lock(); err != nil {
		return err
	}
	defer lock.Unlock()

	return fn(ctx)
}

// atomicWrite writes data using write-then-rename. A crash between the
// temp write and the rename leaves the previous file untouched.
func atomicWrite(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
