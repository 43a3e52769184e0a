package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/simard-insights/callsync/internal/ingest"
)

// PostgresConfig holds Postgres connection settings.
type PostgresConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// PostgresStore persists call records as jsonb documents keyed by identity
// hash. The jsonb concatenation on conflict gives the same field-level merge
// semantics as the Firestore backend.
type PostgresStore struct {
	db *sql.DB
}

const createCallsTable = `
	CREATE TABLE IF NOT EXISTS calls (
		id         TEXT PRIMARY KEY,
		data       JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)
`

// NewPostgresStore connects to Postgres and ensures the calls table exists.
func NewPostgresStore(ctx context.Context, cfg PostgresConfig) (*PostgresStore, error) {
	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if _, err := db.ExecContext(ctx, createCallsTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("create calls table: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// Upsert creates or merges the record row keyed by its identity hash.
func (s *PostgresStore) Upsert(ctx context.Context, key string, rec ingest.CallRecord) error {
	payload, err := json.Marshal(rec.Fields())
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	query := `
		INSERT INTO calls (id, data, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (id) DO UPDATE
		SET data = calls.data || EXCLUDED.data, updated_at = now()
	`
	if _, err := s.db.ExecContext(ctx, query, key, payload); err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
