package repository

import (
	"context"

	"github.com/chiaview/backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DonationRepository records completed donations reported by the payment
// provider's webhook.
type DonationRepository interface {
	Create(ctx context.Context, d *model.Donation) error
	List(ctx context.Context, limit, offset int) ([]*model.Donation, error)
}

// PgDonationRepository is the PostgreSQL implementation of DonationRepository.
type PgDonationRepository struct {
	pool *pgxpool.Pool
}

// NewPgDonationRepository creates a PgDonationRepository backed by the given pool.
func NewPgDonationRepository(pool *pgxpool.Pool) *PgDonationRepository {
	return &PgDonationRepository{pool: pool}
}

var _ DonationRepository = (*PgDonationRepository)(nil)

// Create inserts a donation row. Webhook retries deliver the same payment
// intent more than once; the unique index on payment_intent_id turns the
// replay into ErrDuplicate.
func (r *PgDonationRepository) Create(ctx context.Context, d *model.Donation) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO donations (payment_intent_id, amount, currency, donation_type, category, is_monthly)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		d.PaymentIntentID, d.Amount, d.Currency, d.DonationType, d.Category, d.IsMonthly,
	).Scan(&d.ID, &d.CreatedAt)
	if isDuplicateKey(err) {
		return ErrDuplicate
	}
	return err
}

// List returns donations newest-first.
func (r *PgDonationRepository) List(ctx context.Context, limit, offset int) ([]*model.Donation, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, payment_intent_id, amount, currency, donation_type, category, is_monthly, created_at
		 FROM donations ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*model.Donation
	for rows.Next() {
		d := &model.Donation{}
		if err := rows.Scan(&d.ID, &d.PaymentIntentID, &d.Amount, &d.Currency,
			&d.DonationType, &d.Category, &d.IsMonthly, &d.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, d)
	}
	return list, rows.Err()
}
