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

// TestimonialRepository defines persistence for testimonials.
type TestimonialRepository interface {
	Create(ctx context.Context, t *model.Testimonial) error
	List(ctx context.Context, publishedOnly bool) ([]*model.Testimonial, error)
	Patch(ctx context.Context, id string, patch model.TestimonialPatch) (*model.Testimonial, error)
	Delete(ctx context.Context, id string) error
}

// PgTestimonialRepository is the PostgreSQL implementation of TestimonialRepository.
type PgTestimonialRepository struct {
	pool *pgxpool.Pool
}

// NewPgTestimonialRepository creates a PgTestimonialRepository backed by the given pool.
func NewPgTestimonialRepository(pool *pgxpool.Pool) *PgTestimonialRepository {
	return &PgTestimonialRepository{pool: pool}
}

var _ TestimonialRepository = (*PgTestimonialRepository)(nil)

const testimonialSelectCols = `id, name, role, content, category, rating,
	COALESCE(image, ''), published, created_at, updated_at`

func scanTestimonial(scan func(...any) error) (*model.Testimonial, error) {
	t := &model.Testimonial{}
	return t, scan(
		&t.ID, &t.Name, &t.Role, &t.Content, &t.Category, &t.Rating,
		&t.Image, &t.Published, &t.CreatedAt, &t.UpdatedAt,
	)
}

// Create inserts a testimonial and populates ID and timestamps.
func (r *PgTestimonialRepository) Create(ctx context.Context, t *model.Testimonial) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO testimonials (name, role, content, category, rating, image, published)
		 VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7)
		 RETURNING id, created_at, updated_at`,
		t.Name, t.Role, t.Content, t.Category, t.Rating, t.Image, t.Published,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
}

// List returns testimonials oldest-first (carousel order). With
// publishedOnly, unpublished entries are excluded.
func (r *PgTestimonialRepository) List(ctx context.Context, publishedOnly bool) ([]*model.Testimonial, error) {
	query := `SELECT ` + testimonialSelectCols + ` FROM testimonials`
	if publishedOnly {
		query += ` WHERE published`
	}
	query += ` ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var testimonials []*model.Testimonial
	for rows.Next() {
		t, err := scanTestimonial(rows.Scan)
		if err != nil {
			return nil, err
		}
		testimonials = append(testimonials, t)
	}
	return testimonials, rows.Err()
}

// Patch applies the non-nil fields and returns the updated testimonial.
func (r *PgTestimonialRepository) Patch(ctx context.Context, id string, patch model.TestimonialPatch) (*model.Testimonial, error) {
	setClauses := []string{}
	args := []any{}

	add := func(clause string, val any) {
		args = append(args, val)
		setClauses = append(setClauses, fmt.Sprintf(clause, len(args)))
	}
	if patch.Name != nil {
		add("name = $%d", *patch.Name)
	}
	if patch.Role != nil {
		add("role = $%d", *patch.Role)
	}
	if patch.Content != nil {
		add("content = $%d", *patch.Content)
	}
	if patch.Category != nil {
		add("category = $%d", *patch.Category)
	}
	if patch.Rating != nil {
		add("rating = $%d", *patch.Rating)
	}
	if patch.Image != nil {
		add("image = NULLIF($%d, '')", *patch.Image)
	}
	if patch.Published != nil {
		add("published = $%d", *patch.Published)
	}

	setClauses = append(setClauses, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE testimonials SET %s WHERE id = $%d RETURNING `+testimonialSelectCols,
		strings.Join(setClauses, ", "), len(args))

	row := r.pool.QueryRow(ctx, query, args...)
	t, err := scanTestimonial(row.Scan)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Delete removes a testimonial.
func (r *PgTestimonialRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM testimonials WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
