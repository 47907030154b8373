package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DataStoreRepository is the server side of the named-record contract: one
// JSON document per key, replaced wholesale on every write. It backs the
// /api/data endpoints that the api-backed datastore facade talks to.
type DataStoreRepository interface {
	Get(ctx context.Context, key string) (json.RawMessage, error)
	Set(ctx context.Context, key string, value json.RawMessage) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	All(ctx context.Context) (map[string]json.RawMessage, error)
}

// PgDataStoreRepository is the PostgreSQL implementation of DataStoreRepository.
type PgDataStoreRepository struct {
	pool *pgxpool.Pool
}

// NewPgDataStoreRepository creates a PgDataStoreRepository backed by the given pool.
func NewPgDataStoreRepository(pool *pgxpool.Pool) *PgDataStoreRepository {
	return &PgDataStoreRepository{pool: pool}
}

var _ DataStoreRepository = (*PgDataStoreRepository)(nil)

// Get returns the stored document for key, or ErrNotFound.
func (r *PgDataStoreRepository) Get(ctx context.Context, key string) (json.RawMessage, error) {
	var value json.RawMessage
	err := r.pool.QueryRow(ctx,
		`SELECT value FROM data_store WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Set stores value under key, fully replacing any prior document.
// Last write wins; there is no version check.
func (r *PgDataStoreRepository) Set(ctx context.Context, key string, value json.RawMessage) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO data_store (key, value) VALUES ($1, $2)
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,
		key, value)
	return err
}

// Delete removes the record under key. Deleting a missing key is not an
// error (delete is idempotent).
func (r *PgDataStoreRepository) Delete(ctx context.Context, key string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM data_store WHERE key = $1`, key)
	return err
}

// Clear removes every named record.
func (r *PgDataStoreRepository) Clear(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM data_store`)
	return err
}

// All returns every named record keyed by name.
func (r *PgDataStoreRepository) All(ctx context.Context) (map[string]json.RawMessage, error) {
	rows, err := r.pool.Query(ctx, `SELECT key, value FROM data_store ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make(map[string]json.RawMessage)
	for rows.Next() {
		var key string
		var value json.RawMessage
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		records[key] = value
	}
	return records, rows.Err()
}
