package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"model-versioning-service/internal/domain"
)

func newTestStore(t *testing.T) (*FileRegistryStore, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := NewFileRegistryStore(dir, DefaultLockTimeout)
	require.NoError(t, err)
	return store, dir
}

func TestFileRegistryStore_LoadMissing(t *testing.T) {
	store, _ := newTestStore(t)

	reg, err := store.Load(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, reg.Models)
	assert.Empty(t, reg.CurrentProduction)
}

func TestFileRegistryStore_CommitRoundtrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	reg := domain.NewRegistry()
	reg.Models["m1"] = []*domain.VersionRecord{
		{Version: "1.0.0", ModelName: "m1", Status: domain.VersionStatusActive, CreatedAt: time.Now().UTC()},
	}
	reg.CurrentProduction["m1"] = "1.0.0"
	require.NoError(t, store.Commit(ctx, reg))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded.Models["m1"], 1)
	assert.Equal(t, "1.0.0", loaded.Models["m1"][0].Version)
	assert.Equal(t, "1.0.0", loaded.CurrentProduction["m1"])
	assert.True(t, loaded.Models["m1"][0].IsProduction)
	assert.False(t, loaded.LastUpdated.IsZero())
}

func TestFileRegistryStore_LoadCorrupt(t *testing.T) {
	store, dir := newTestStore(t)

	require.NoError(t, os.WriteFile(filepath.Join(dir, registryFileName), []byte("{not json"), 0644))

	_, err := store.Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrRegistryCorrupt)
}

// A leftover temp file from a crash between "write temp" and "rename"
// must not affect what Load observes.
func TestFileRegistryStore_CrashBeforeRenameKeepsPriorDocument(t *testing.T) {
	store, dir := newTestStore(t)
	ctx := context.Background()

	reg := domain.NewRegistry()
	reg.Models["m1"] = []*domain.VersionRecord{{Version: "1.0.0", ModelName: "m1"}}
	require.NoError(t, store.Commit(ctx, reg))

	// simulate the crash: a newer document written to the temp path only
	require.NoError(t, os.WriteFile(filepath.Join(dir, registryFileName+".tmp"), []byte(`{"models":{"m1":[]}}`), 0644))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, loaded.Models["m1"], 1)
}

func TestFileRegistryStore_ProductionFlagsDerivedOnLoad(t *testing.T) {
	store, dir := newTestStore(t)

	// a document whose stored flags disagree with the pointer
	doc := `{
		"models": {"m1": [
			{"version": "1.0.0", "model_name": "m1", "is_production": true, "metrics": {}, "tags": []},
			{"version": "1.0.1", "model_name": "m1", "is_production": false, "metrics": {}, "tags": []}
		]},
		"current_production": {"m1": "1.0.1"}
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, registryFileName), []byte(doc), 0644))

	loaded, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, loaded.Models["m1"][0].IsProduction)
	assert.True(t, loaded.Models["m1"][1].IsProduction)
}

func TestFileRegistryStore_WithLockTimesOut(t *testing.T) {
	dir := t.TempDir()

	holder, err := NewFileRegistryStore(dir, DefaultLockTimeout)
	require.NoError(t, err)
	waiter, err := NewFileRegistryStore(dir, 50*time.Millisecond)
	require.NoError(t, err)

	acquired := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- holder.WithLock(context.Background(), func(ctx context.Context) error {
			close(acquired)
			<-release
			return nil
		})
	}()

	<-acquired
	err = waiter.WithLock(context.Background(), func(ctx context.Context) error { return nil })
	assert.ErrorIs(t, err, domain.ErrRegistryBusy)

	close(release)
	require.NoError(t, <-done)

	// lock released, second acquisition succeeds
	err = waiter.WithLock(context.Background(), func(ctx context.Context) error { return nil })
	assert.NoError(t, err)
}

// Contention between goroutines sharing one store honors the same
// bounded wait as cross-process contention.
func TestFileRegistryStore_WithLockInProcessTimeout(t *testing.T) {
	store, err := NewFileRegistryStore(t.TempDir(), 50*time.Millisecond)
	require.NoError(t, err)

	acquired := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- store.WithLock(context.Background(), func(ctx context.Context) error {
			close(acquired)
			<-release
			return nil
		})
	}()

	<-acquired
	err = store.WithLock(context.Background(), func(ctx context.Context) error { return nil })
	assert.ErrorIs(t, err, domain.ErrRegistryBusy)

	close(release)
	require.NoError(t, <-done)

	err = store.WithLock(context.Background(), func(ctx context.Context) error { return nil })
	assert.NoError(t, err)
}

func TestFileRegistryStore_WithLockReleasesOnError(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	wantErr := assert.AnError
	err := store.WithLock(ctx, func(ctx context.Context) error { return wantErr })
	assert.ErrorIs(t, err, wantErr)

	// lock must be free again
	err = store.WithLock(ctx, func(ctx context.Context) error { return nil })
	assert.NoError(t, err)
}
