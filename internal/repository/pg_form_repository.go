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

// FormRepository defines persistence for form submissions and their
// flattened field responses. CreateSubmission and InsertResponses are
// deliberately separate operations: the submission row is the durability
// boundary and the responses are a best-effort secondary write that the
// service layer performs (and tolerates failing) after the primary commit.
type FormRepository interface {
	CreateSubmission(ctx context.Context, s *model.FormSubmission) error
	InsertResponses(ctx context.Context, responses []*model.FieldResponse) error
	List(ctx context.Context, opts model.FormListOptions) ([]*model.FormSubmission, int, error)
	GetByID(ctx context.Context, id string) (*model.FormSubmission, error)
	ResponsesFor(ctx context.Context, submissionID string) ([]*model.FieldResponse, error)
	UpdateStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) error
}

// PgFormRepository is the PostgreSQL implementation of FormRepository.
type PgFormRepository struct {
	pool *pgxpool.Pool
}

// NewPgFormRepository creates a PgFormRepository backed by the given pool.
func NewPgFormRepository(pool *pgxpool.Pool) *PgFormRepository {
	return &PgFormRepository{pool: pool}
}

var _ FormRepository = (*PgFormRepository)(nil)

const submissionSelectCols = `id, form_name, form_type, COALESCE(email, ''),
	COALESCE(name, ''), COALESCE(phone, ''), data, status,
	COALESCE(ip_address, ''), COALESCE(user_agent, ''), created_at`

func scanSubmission(scan func(...any) error) (*model.FormSubmission, error) {
	s := &model.FormSubmission{}
	return s, scan(
		&s.ID, &s.FormName, &s.FormType, &s.Email, &s.Name, &s.Phone,
		&s.Data, &s.Status, &s.IPAddress, &s.UserAgent, &s.CreatedAt,
	)
}

// CreateSubmission inserts the form_submissions row and populates s.ID and
// s.CreatedAt from the RETURNING clause. Once this returns nil the
// submission is accepted regardless of what happens to the response rows.
func (r *PgFormRepository) CreateSubmission(ctx context.Context, s *model.FormSubmission) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO form_submissions
		 (form_name, form_type, email, name, phone, data, status, ip_address, user_agent)
		 VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), $6, $7, $8, $9)
		 RETURNING id, created_at`,
		s.FormName, s.FormType, s.Email, s.Name, s.Phone,
		s.Data, s.Status, s.IPAddress, s.UserAgent,
	).Scan(&s.ID, &s.CreatedAt)
}

// InsertResponses bulk-inserts the flattened field rows for one submission.
func (r *PgFormRepository) InsertResponses(ctx context.Context, responses []*model.FieldResponse) error {
	if len(responses) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, fr := range responses {
		batch.Queue(
			`INSERT INTO form_responses (form_submission_id, field_name, field_value, field_type)
			 VALUES ($1, $2, $3, $4)`,
			fr.FormSubmissionID, fr.FieldName, fr.FieldValue, fr.FieldType,
		)
	}
	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()
	for range responses {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// List returns a page of submissions newest-first along with the total
// number of rows matching the filters. Filters are conjunctive; empty
// filters match everything.
func (r *PgFormRepository) List(ctx context.Context, opts model.FormListOptions) ([]*model.FormSubmission, int, error) {
	var conditions []string
	var args []any

	addFilter := func(col, val string) {
		if strings.TrimSpace(val) == "" {
			return
		}
		args = append(args, val)
		conditions = append(conditions, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	addFilter("form_name", opts.FormName)
	addFilter("form_type", opts.FormType)
	addFilter("status", opts.Status)

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM form_submissions " + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limitArg := len(args) + 1
	offsetArg := len(args) + 2
	args = append(args, opts.Limit, opts.Offset)

	query := `SELECT ` + submissionSelectCols + ` FROM form_submissions ` + where +
		fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, limitArg, offsetArg)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var submissions []*model.FormSubmission
	for rows.Next() {
		s, err := scanSubmission(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		submissions = append(submissions, s)
	}
	return submissions, total, rows.Err()
}

// GetByID returns a single submission or ErrNotFound.
func (r *PgFormRepository) GetByID(ctx context.Context, id string) (*model.FormSubmission, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+submissionSelectCols+` FROM form_submissions WHERE id = $1`, id)
	s, err := scanSubmission(row.Scan)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// ResponsesFor returns the flattened field rows belonging to a submission.
// The projection may be incomplete if the secondary write failed; callers
// treat Data on the submission as authoritative.
func (r *PgFormRepository) ResponsesFor(ctx context.Context, submissionID string) ([]*model.FieldResponse, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, form_submission_id, field_name, field_value, field_type, created_at
		 FROM form_responses WHERE form_submission_id = $1 ORDER BY created_at`,
		submissionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var responses []*model.FieldResponse
	for rows.Next() {
		fr := &model.FieldResponse{}
		if err := rows.Scan(&fr.ID, &fr.FormSubmissionID, &fr.FieldName,
			&fr.FieldValue, &fr.FieldType, &fr.CreatedAt); err != nil {
			return nil, err
		}
		responses = append(responses, fr)
	}
	return responses, rows.Err()
}

// UpdateStatus sets the status of a submission.
func (r *PgFormRepository) UpdateStatus(ctx context.Context, id, status string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE form_submissions SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a submission and its response rows. Responses go first so
// the foreign key never dangles.
func (r *PgFormRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.pool.Exec(ctx,
		`DELETE FROM form_responses WHERE form_submission_id = $1`, id); err != nil {
		return err
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM form_submissions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
