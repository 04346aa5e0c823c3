package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"model-versioning-service/internal/domain"
)

// registryAdvisoryLockKey identifies the registry document's advisory
// lock within the database. One registry document per database.
const registryAdvisoryLockKey int64 = 0x4d6f64526567 // "ModReg"

// PostgresRegistryStore keeps the registry as a single JSONB document
// row, with session advisory locking serializing read-modify-commit
// spans across all connected writers.
type PostgresRegistryStore struct {
	pool        *pgxpool.Pool
	lockTimeout time.Duration
}

func NewPostgresRegistryStore(pool *pgxpool.Pool, lockTimeout time.Duration) *PostgresRegistryStore {
	if lockTimeout <= 0 {
		lockTimeout = DefaultLockTimeout
	}
	return &PostgresRegistryStore{pool: pool, lockTimeout: lockTimeout}
}

// EnsureSchema creates the backing table when it does not exist yet.
func (s *PostgresRegistryStore) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS registry_document (
			id         int PRIMARY KEY CHECK (id = 1),
			doc        jsonb NOT NULL,
			updated_at timestamptz NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("ensure registry schema: %w", err)
	}
	return nil
}

// Load reads the registry document. A missing row is an empty registry;
// an undecodable document surfaces ErrRegistryCorrupt.
func (s *PostgresRegistryStore) Load(ctx context.Context) (*domain.Registry, error) {
	var data []byte
	err := s.pool.QueryRow(ctx, `SELECT doc FROM registry_document WHERE id = 1`).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.NewRegistry(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load registry document: %w", err)
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

// Commit replaces the registry document in a single upsert; the row swap
// is transactional, so readers see the prior or the new document.
func (s *PostgresRegistryStore) Commit(ctx context.Context, reg *domain.Registry) error {
	reg.LastUpdated = time.Now().UTC()
	reg.RefreshProductionFlags()

	data, err := json.Marshal(reg)
	if err != nil {
		return fmt.Errorf("marshal registry: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO registry_document (id, doc, updated_at)
		VALUES (1, $1, $2)
		ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc, updated_at = EXCLUDED.updated_at
	`, data, reg.LastUpdated)
	if err != nil {
		return fmt.Errorf("commit registry document: %w", err)
	}
	return nil
}

// WithLock runs fn while holding the registry advisory lock on a
// dedicated connection. Acquisition polls with backoff until the bounded
// wait expires, then fails with ErrRegistryBusy.
func (s *PostgresRegistryStore) WithLock(ctx context.Context, fn func(ctx context.Context) error) error {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	deadline := time.Now().Add(s.lockTimeout)
	sleep := 10 * time.Millisecond
	for {
		var acquired bool
		if err := conn.QueryRow(ctx, `SELECT pg_try_advisory_lock($1)`, registryAdvisoryLockKey).Scan(&acquired); err != nil {
			return fmt.Errorf("acquire registry lock: %w", err)
		}
		if acquired {
			break
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("%w: lock not acquired within %v", domain.ErrRegistryBusy, s.lockTimeout)
		}
		time.Sleep(sleep)
		if sleep < 100*time.Millisecond {
			sleep *= 2
		}
	}
	defer conn.Exec(context.Background(), `SELECT pg_advisory_unlock($1)`, registryAdvisoryLockKey)

	return fn(ctx)
}
