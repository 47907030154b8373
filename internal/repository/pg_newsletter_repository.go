package repository

import (
	"context"
	"errors"

	"github.com/chiaview/backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewsletterRepository defines persistence for newsletter subscriptions.
type NewsletterRepository interface {
	GetByEmail(ctx context.Context, email string) (*model.NewsletterSubscription, error)
	Upsert(ctx context.Context, sub *model.NewsletterSubscription) error
}

// PgNewsletterRepository is the PostgreSQL implementation of NewsletterRepository.
type PgNewsletterRepository struct {
	pool *pgxpool.Pool
}

// NewPgNewsletterRepository creates a PgNewsletterRepository backed by the given pool.
func NewPgNewsletterRepository(pool *pgxpool.Pool) *PgNewsletterRepository {
	return &PgNewsletterRepository{pool: pool}
}

var _ NewsletterRepository = (*PgNewsletterRepository)(nil)

// GetByEmail returns the subscription for an email (already lowercased by
// the service) or ErrNotFound.
func (r *PgNewsletterRepository) GetByEmail(ctx context.Context, email string) (*model.NewsletterSubscription, error) {
	sub := &model.NewsletterSubscription{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, email, COALESCE(name, ''), status, email_confirmed, subscription_date
		 FROM newsletter_subscriptions WHERE email = $1`, email,
	).Scan(&sub.ID, &sub.Email, &sub.Name, &sub.Status, &sub.EmailConfirmed, &sub.SubscriptionDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// Upsert inserts the subscription or, if the email already exists,
// refreshes its status and subscription date (covers re-subscribing after
// an unsubscribe).
func (r *PgNewsletterRepository) Upsert(ctx context.Context, sub *model.NewsletterSubscription) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO newsletter_subscriptions (email, name, status, email_confirmed)
		 VALUES ($1, NULLIF($2, ''), $3, $4)
		 ON CONFLICT (email) DO UPDATE
		 SET name = COALESCE(EXCLUDED.name, newsletter_subscriptions.name),
		     status = EXCLUDED.status,
		     subscription_date = NOW()
		 RETURNING id, subscription_date`,
		sub.Email, sub.Name, sub.Status, sub.EmailConfirmed,
	).Scan(&sub.ID, &sub.SubscriptionDate)
}
