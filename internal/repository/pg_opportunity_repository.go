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

// OpportunityRepository defines persistence for volunteer opportunities.
type OpportunityRepository interface {
	Create(ctx context.Context, opp *model.Opportunity) error
	List(ctx context.Context, opts model.OpportunityListOptions) ([]*model.Opportunity, int, error)
	GetByID(ctx context.Context, id string) (*model.Opportunity, error)
	Patch(ctx context.Context, id string, patch model.OpportunityPatch) (*model.Opportunity, error)
	Delete(ctx context.Context, id string) error
}

// PgOpportunityRepository is the PostgreSQL implementation of OpportunityRepository.
type PgOpportunityRepository struct {
	pool *pgxpool.Pool
}

// NewPgOpportunityRepository creates a PgOpportunityRepository backed by the given pool.
func NewPgOpportunityRepository(pool *pgxpool.Pool) *PgOpportunityRepository {
	return &PgOpportunityRepository{pool: pool}
}

var _ OpportunityRepository = (*PgOpportunityRepository)(nil)

const opportunitySelectCols = `id, title, "time", description, category, published, created_at, updated_at`

func scanOpportunity(scan func(...any) error) (*model.Opportunity, error) {
	o := &model.Opportunity{}
	return o, scan(
		&o.ID, &o.Title, &o.Time, &o.Description, &o.Category,
		&o.Published, &o.CreatedAt, &o.UpdatedAt,
	)
}

// Create inserts an opportunity and populates ID and timestamps.
func (r *PgOpportunityRepository) Create(ctx context.Context, opp *model.Opportunity) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO volunteer_opportunities (title, "time", description, category, published)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		opp.Title, opp.Time, opp.Description, opp.Category, opp.Published,
	).Scan(&opp.ID, &opp.CreatedAt, &opp.UpdatedAt)
}

// List returns a page of opportunities newest-first plus the total count.
func (r *PgOpportunityRepository) List(ctx context.Context, opts model.OpportunityListOptions) ([]*model.Opportunity, int, error) {
	var conditions []string
	var args []any

	if q := strings.TrimSpace(opts.Query); q != "" {
		args = append(args, "%"+q+"%")
		conditions = append(conditions,
			fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d)", len(args), len(args)))
	}
	if c := strings.TrimSpace(opts.Category); c != "" && c != "All" {
		args = append(args, c)
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)))
	}
	if opts.Published != nil {
		args = append(args, *opts.Published)
		conditions = append(conditions, fmt.Sprintf("published = $%d", len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM volunteer_opportunities "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limitArg := len(args) + 1
	offsetArg := len(args) + 2
	args = append(args, opts.Limit, opts.Offset)

	query := `SELECT ` + opportunitySelectCols + ` FROM volunteer_opportunities ` + where +
		fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, limitArg, offsetArg)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var opportunities []*model.Opportunity
	for rows.Next() {
		o, err := scanOpportunity(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		opportunities = append(opportunities, o)
	}
	return opportunities, total, rows.Err()
}

// GetByID returns a single opportunity or ErrNotFound.
func (r *PgOpportunityRepository) GetByID(ctx context.Context, id string) (*model.Opportunity, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+opportunitySelectCols+` FROM volunteer_opportunities WHERE id = $1`, id)
	o, err := scanOpportunity(row.Scan)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

// Patch applies the non-nil fields and returns the updated opportunity.
func (r *PgOpportunityRepository) Patch(ctx context.Context, id string, patch model.OpportunityPatch) (*model.Opportunity, error) {
	setClauses := []string{}
	args := []any{}

	add := func(clause string, val any) {
		args = append(args, val)
		setClauses = append(setClauses, fmt.Sprintf(clause, len(args)))
	}
	if patch.Title != nil {
		add("title = $%d", *patch.Title)
	}
	if patch.Time != nil {
		add(`"time" = $%d`, *patch.Time)
	}
	if patch.Description != nil {
		add("description = $%d", *patch.Description)
	}
	if patch.Category != nil {
		add("category = $%d", *patch.Category)
	}
	if patch.Published != nil {
		add("published = $%d", *patch.Published)
	}

	setClauses = append(setClauses, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE volunteer_opportunities SET %s WHERE id = $%d RETURNING `+opportunitySelectCols,
		strings.Join(setClauses, ", "), len(args))

	row := r.pool.QueryRow(ctx, query, args...)
	o, err := scanOpportunity(row.Scan)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

// Delete removes an opportunity.
func (r *PgOpportunityRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM volunteer_opportunities WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
