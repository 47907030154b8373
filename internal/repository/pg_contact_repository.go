package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/chiaview/backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ContactRepository defines the persistence interface for contact messages.
// It is defined here (in repository) to avoid an import cycle with service.
type ContactRepository interface {
	Save(ctx context.Context, msg *model.ContactMessage) error
	List(ctx context.Context, opts model.ContactListOptions) ([]*model.ContactMessage, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

// PgContactRepository is the PostgreSQL implementation of ContactRepository.
type PgContactRepository struct {
	pool *pgxpool.Pool
}

// NewPgContactRepository creates a PgContactRepository backed by the given pool.
func NewPgContactRepository(pool *pgxpool.Pool) *PgContactRepository {
	return &PgContactRepository{pool: pool}
}

var _ ContactRepository = (*PgContactRepository)(nil)

// Save inserts a new contacts row and populates msg.ID and timestamps
// from the database RETURNING clause.
func (r *PgContactRepository) Save(ctx context.Context, msg *model.ContactMessage) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO contacts (name, email, phone, subject, message, status, priority, ip_address, user_agent)
		 VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8, $9)
		 RETURNING id, created_at, updated_at`,
		msg.Name, msg.Email, msg.Phone, msg.Subject, msg.Message,
		msg.Status, msg.Priority, msg.IPAddress, msg.UserAgent,
	).Scan(&msg.ID, &msg.CreatedAt, &msg.UpdatedAt)
}

// List returns contact messages newest-first, filtered by status and email
// when given.
func (r *PgContactRepository) List(ctx context.Context, opts model.ContactListOptions) ([]*model.ContactMessage, error) {
	var conditions []string
	var args []any

	if strings.TrimSpace(opts.Status) != "" {
		args = append(args, opts.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if strings.TrimSpace(opts.Email) != "" {
		args = append(args, opts.Email)
		conditions = append(conditions, fmt.Sprintf("email = $%d", len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := `SELECT id, name, email, COALESCE(phone, ''), subject, message, status, priority,
	          COALESCE(ip_address, ''), COALESCE(user_agent, ''), created_at, updated_at
	          FROM contacts ` + where + ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*model.ContactMessage
	for rows.Next() {
		var m model.ContactMessage
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &m.Subject, &m.Message,
			&m.Status, &m.Priority, &m.IPAddress, &m.UserAgent, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, &m)
	}
	return messages, rows.Err()
}

// UpdateStatus changes the status of a contact message.
func (r *PgContactRepository) UpdateStatus(ctx context.Context, id, status string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE contacts SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
