package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/chiaview/backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RegistrationRepository defines persistence for member registrations.
type RegistrationRepository interface {
	Create(ctx context.Context, reg *model.Registration) error
	EmailExists(ctx context.Context, email string) (bool, error)
	GetByID(ctx context.Context, id string) (*model.Registration, error)
	List(ctx context.Context, opts model.RegistrationListOptions) ([]*model.RegistrationSummary, error)
	Patch(ctx context.Context, id string, patch model.RegistrationPatch) (*model.Registration, error)
	Delete(ctx context.Context, id string) error
}

// PgRegistrationRepository is the PostgreSQL implementation of RegistrationRepository.
type PgRegistrationRepository struct {
	pool *pgxpool.Pool
}

// NewPgRegistrationRepository creates a PgRegistrationRepository backed by the given pool.
func NewPgRegistrationRepository(pool *pgxpool.Pool) *PgRegistrationRepository {
	return &PgRegistrationRepository{pool: pool}
}

var _ RegistrationRepository = (*PgRegistrationRepository)(nil)

const registrationSelectCols = `id, name, email, COALESCE(phone, ''), password_hash,
	registration_type, status, email_verified, email_verified_at,
	COALESCE(date_of_birth, ''), COALESCE(address, ''), COALESCE(city, ''),
	COALESCE(state, ''), COALESCE(country, ''), COALESCE(postal_code, ''),
	COALESCE(ip_address, ''), COALESCE(user_agent, ''), created_at, updated_at`

func scanRegistration(scan func(...any) error) (*model.Registration, error) {
	reg := &model.Registration{}
	return reg, scan(
		&reg.ID, &reg.Name, &reg.Email, &reg.Phone, &reg.PasswordHash,
		&reg.RegistrationType, &reg.Status, &reg.EmailVerified, &reg.EmailVerifiedAt,
		&reg.DateOfBirth, &reg.Address, &reg.City, &reg.State, &reg.Country,
		&reg.PostalCode, &reg.IPAddress, &reg.UserAgent, &reg.CreatedAt, &reg.UpdatedAt,
	)
}

// Create inserts a registration and populates reg.ID and timestamps.
// A unique-constraint violation on email is returned as ErrDuplicate.
func (r *PgRegistrationRepository) Create(ctx context.Context, reg *model.Registration) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO registrations
		 (name, email, phone, password_hash, registration_type, status, email_verified,
		  date_of_birth, address, city, state, country, postal_code, ip_address, user_agent)
		 VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, NULLIF($8, ''), NULLIF($9, ''),
		         NULLIF($10, ''), NULLIF($11, ''), NULLIF($12, ''), NULLIF($13, ''), $14, $15)
		 RETURNING id, created_at, updated_at`,
		reg.Name, reg.Email, reg.Phone, reg.PasswordHash, reg.RegistrationType,
		reg.Status, reg.EmailVerified, reg.DateOfBirth, reg.Address, reg.City,
		reg.State, reg.Country, reg.PostalCode, reg.IPAddress, reg.UserAgent,
	).Scan(&reg.ID, &reg.CreatedAt, &reg.UpdatedAt)
	if isDuplicateKey(err) {
		return ErrDuplicate
	}
	return err
}

// EmailExists reports whether a registration with the given email (already
// lowercased by the service) exists.
func (r *PgRegistrationRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM registrations WHERE email = $1)`, email,
	).Scan(&exists)
	return exists, err
}

// GetByID returns a single registration or ErrNotFound.
func (r *PgRegistrationRepository) GetByID(ctx context.Context, id string) (*model.Registration, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+registrationSelectCols+` FROM registrations WHERE id = $1`, id)
	reg, err := scanRegistration(row.Scan)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return reg, nil
}

// List returns non-sensitive registration columns, newest first, filtered
// by status and registration type when given.
func (r *PgRegistrationRepository) List(ctx context.Context, opts model.RegistrationListOptions) ([]*model.RegistrationSummary, error) {
	var conditions []string
	var args []any

	if strings.TrimSpace(opts.Status) != "" {
		args = append(args, opts.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if strings.TrimSpace(opts.Type) != "" {
		args = append(args, opts.Type)
		conditions = append(conditions, fmt.Sprintf("registration_type = $%d", len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := `SELECT id, name, email, COALESCE(phone, ''), registration_type, status,
	          email_verified, created_at, updated_at
	          FROM registrations ` + where + ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*model.RegistrationSummary
	for rows.Next() {
		s := &model.RegistrationSummary{}
		if err := rows.Scan(&s.ID, &s.Name, &s.Email, &s.Phone, &s.RegistrationType,
			&s.Status, &s.EmailVerified, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// Patch applies the non-nil fields of patch and returns the updated row.
// Setting EmailVerified to true also stamps email_verified_at.
func (r *PgRegistrationRepository) Patch(ctx context.Context, id string, patch model.RegistrationPatch) (*model.Registration, error) {
	setClauses := []string{}
	args := []any{}

	add := func(clause string, val any) {
		args = append(args, val)
		setClauses = append(setClauses, fmt.Sprintf(clause, len(args)))
	}
	if patch.Name != nil {
		add("name = $%d", *patch.Name)
	}
	if patch.Phone != nil {
		add("phone = NULLIF($%d, '')", *patch.Phone)
	}
	if patch.Status != nil {
		add("status = $%d", *patch.Status)
	}
	if patch.EmailVerified != nil {
		add("email_verified = $%d", *patch.EmailVerified)
		if *patch.EmailVerified {
			setClauses = append(setClauses, "email_verified_at = NOW()")
		}
	}
	if patch.DateOfBirth != nil {
		add("date_of_birth = NULLIF($%d, '')", *patch.DateOfBirth)
	}
	if patch.Address != nil {
		add("address = NULLIF($%d, '')", *patch.Address)
	}
	if patch.City != nil {
		add("city = NULLIF($%d, '')", *patch.City)
	}
	if patch.State != nil {
		add("state = NULLIF($%d, '')", *patch.State)
	}
	if patch.Country != nil {
		add("country = NULLIF($%d, '')", *patch.Country)
	}
	if patch.PostalCode != nil {
		add("postal_code = NULLIF($%d, '')", *patch.PostalCode)
	}

	setClauses = append(setClauses, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE registrations SET %s WHERE id = $%d RETURNING `+registrationSelectCols,
		strings.Join(setClauses, ", "), len(args))

	row := r.pool.QueryRow(ctx, query, args...)
	reg, err := scanRegistration(row.Scan)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return reg, nil
}

// Delete removes a registration.
func (r *PgRegistrationRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM registrations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
