package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"model-versioning-service/internal/domain"
)

const (
	artifactFileName = "model.bin"
	metadataFileName = "metadata.json"
)

// FileArtifactStore persists opaque artifact bytes under
// <base>/<model>/<version>/model.bin with a metadata.json sidecar
// mirroring the version record for human inspection.
type FileArtifactStore struct {
	baseDir string
}

func NewFileArtifactStore(dir string) (*FileArtifactStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create artifact directory: %w", err)
	}
	return &FileArtifactStore{baseDir: dir}, nil
}

func (s *FileArtifactStore) versionDir(modelName, version string) string {
	return filepath.Join(s.baseDir, modelName, version)
}

// Write persists artifact bytes and returns the locator recorded in the
// registry. The locator is a path relative to the store's base directory.
func (s *FileArtifactStore) Write(ctx context.Context, modelName, version string, data []byte) (string, error) {
	dir := s.versionDir(modelName, version)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrArtifactWriteFailed, err)
	}

	if err := atomicWrite(filepath.Join(dir, artifactFileName), data); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrArtifactWriteFailed, err)
	}

	return filepath.Join(modelName, version, artifactFileName), nil
}

// WriteMetadata writes the sidecar document next to the artifact.
func (s *FileArtifactStore) WriteMetadata(ctx context.Context, record *domain.VersionRecord) error {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: marshal metadata: %v", domain.ErrArtifactWriteFailed, err)
	}

	path := filepath.Join(s.versionDir(record.ModelName, record.Version), metadataFileName)
	if err := atomicWrite(path, data); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrArtifactWriteFailed, err)
	}
	return nil
}

// Read resolves a locator back to artifact bytes.
func (s *FileArtifactStore) Read(ctx context.Context, locator string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, locator))
	if err != nil {
		return nil, fmt.Errorf("read artifact %s: %w", locator, err)
	}
	return data, nil
}

// Delete removes a version's artifact directory, sidecar included.
func (s *FileArtifactStore) Delete(ctx context.Context, modelName, version string) error {
	dir := s.versionDir(modelName, version)
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrArtifactDeleteFailed, err)
	}
	return nil
}
