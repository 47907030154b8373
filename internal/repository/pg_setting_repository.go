package repository

import (
	"context"
	"errors"

	"github.com/chiaview/backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SettingRepository defines persistence for website settings.
type SettingRepository interface {
	List(ctx context.Context) ([]*model.Setting, error)
	Get(ctx context.Context, key string) (*model.Setting, error)
	Upsert(ctx context.Context, s *model.Setting) error
	Delete(ctx context.Context, key string) error
}

// PgSettingRepository is the PostgreSQL implementation of SettingRepository.
type PgSettingRepository struct {
	pool *pgxpool.Pool
}

// NewPgSettingRepository creates a PgSettingRepository backed by the given pool.
func NewPgSettingRepository(pool *pgxpool.Pool) *PgSettingRepository {
	return &PgSettingRepository{pool: pool}
}

var _ SettingRepository = (*PgSettingRepository)(nil)

// List returns every setting ordered by key.
func (r *PgSettingRepository) List(ctx context.Context) ([]*model.Setting, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT key, value, COALESCE(description, ''), updated_at
		 FROM website_settings ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var settings []*model.Setting
	for rows.Next() {
		s := &model.Setting{}
		if err := rows.Scan(&s.Key, &s.Value, &s.Description, &s.UpdatedAt); err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

// Get returns one setting or ErrNotFound.
func (r *PgSettingRepository) Get(ctx context.Context, key string) (*model.Setting, error) {
	s := &model.Setting{}
	err := r.pool.QueryRow(ctx,
		`SELECT key, value, COALESCE(description, ''), updated_at
		 FROM website_settings WHERE key = $1`, key,
	).Scan(&s.Key, &s.Value, &s.Description, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Upsert creates or wholesale-replaces the setting under s.Key and
// populates s.UpdatedAt. Last write wins.
func (r *PgSettingRepository) Upsert(ctx context.Context, s *model.Setting) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO website_settings (key, value, description)
		 VALUES ($1, $2, NULLIF($3, ''))
		 ON CONFLICT (key) DO UPDATE
		 SET value = EXCLUDED.value, description = EXCLUDED.description, updated_at = NOW()
		 RETURNING updated_at`,
		s.Key, s.Value, s.Description,
	).Scan(&s.UpdatedAt)
}

// Delete removes a setting.
func (r *PgSettingRepository) Delete(ctx context.Context, key string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM website_settings WHERE key = $1`, key)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
