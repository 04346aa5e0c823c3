package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"model-versioning-service/internal/domain"
)

// MockRegistryStore is a mock of domain.RegistryStore.
type MockRegistryStore struct {
	mock.Mock
}

func (m *MockRegistryStore) Load(ctx context.Context) (*domain.Registry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Registry), args.Error(1)
}

func (m *MockRegistryStore) Commit(ctx context.Context, reg *domain.Registry) error {
	args := m.Called(ctx, reg)
	return args.Error(0)
}

// WithLock runs fn when the mocked acquisition succeeds, mirroring the
// real stores' scoped-lock contract.
func (m *MockRegistryStore) WithLock(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(ctx)
}

// MockArtifactStore is a mock of domain.ArtifactStore.
type MockArtifactStore struct {
	mock.Mock
}

func (m *MockArtifactStore) Write(ctx context.Context, modelName, version string, data []byte) (string, error) {
	args := m.Called(ctx, modelName, version, data)
	return args.String(0), args.Error(1)
}

func (m *MockArtifactStore) WriteMetadata(ctx context.Context, record *domain.VersionRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockArtifactStore) Read(ctx context.Context, locator string) ([]byte, error) {
	args := m.Called(ctx, locator)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockArtifactStore) Delete(ctx context.Context, modelName, version string) error {
	args := m.Called(ctx, modelName, version)
	return args.Error(0)
}
