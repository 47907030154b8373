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

// BlogRepository defines persistence for blog posts.
type BlogRepository interface {
	Create(ctx context.Context, post *model.BlogPost) error
	List(ctx context.Context, opts model.BlogListOptions) ([]*model.BlogPost, int, error)
	GetByID(ctx context.Context, id string) (*model.BlogPost, error)
	Patch(ctx context.Context, id string, patch model.BlogPostPatch) (*model.BlogPost, error)
	Delete(ctx context.Context, id string) error
}

// PgBlogRepository is the PostgreSQL implementation of BlogRepository.
type PgBlogRepository struct {
	pool *pgxpool.Pool
}

// NewPgBlogRepository creates a PgBlogRepository backed by the given pool.
func NewPgBlogRepository(pool *pgxpool.Pool) *PgBlogRepository {
	return &PgBlogRepository{pool: pool}
}

var _ BlogRepository = (*PgBlogRepository)(nil)

const blogSelectCols = `id, title, category, excerpt, content, COALESCE(image_url, ''),
	featured, published, created_at, updated_at`

func scanBlogPost(scan func(...any) error) (*model.BlogPost, error) {
	p := &model.BlogPost{}
	return p, scan(
		&p.ID, &p.Title, &p.Category, &p.Excerpt, &p.Content, &p.ImageURL,
		&p.Featured, &p.Published, &p.CreatedAt, &p.UpdatedAt,
	)
}

// Create inserts a blog post and populates ID and timestamps.
func (r *PgBlogRepository) Create(ctx context.Context, post *model.BlogPost) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO blog_posts (title, category, excerpt, content, image_url, featured, published)
		 VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7)
		 RETURNING id, created_at, updated_at`,
		post.Title, post.Category, post.Excerpt, post.Content,
		post.ImageURL, post.Featured, post.Published,
	).Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt)
}

// blogFilters builds the WHERE clause shared by the page and count queries.
func blogFilters(opts model.BlogListOptions) (string, []any) {
	var conditions []string
	var args []any

	if q := strings.TrimSpace(opts.Query); q != "" {
		args = append(args, "%"+q+"%")
		conditions = append(conditions,
			fmt.Sprintf("(title ILIKE $%d OR excerpt ILIKE $%d)", len(args), len(args)))
	}
	if c := strings.TrimSpace(opts.Category); c != "" && c != "All" {
		args = append(args, c)
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)))
	}
	if opts.Published != nil {
		args = append(args, *opts.Published)
		conditions = append(conditions, fmt.Sprintf("published = $%d", len(args)))
	}
	if opts.Featured != nil {
		args = append(args, *opts.Featured)
		conditions = append(conditions, fmt.Sprintf("featured = $%d", len(args)))
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

// List returns a page of posts newest-first plus the total matching count.
func (r *PgBlogRepository) List(ctx context.Context, opts model.BlogListOptions) ([]*model.BlogPost, int, error) {
	where, args := blogFilters(opts)

	var total int
	if err := r.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM blog_posts "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limitArg := len(args) + 1
	offsetArg := len(args) + 2
	args = append(args, opts.Limit, opts.Offset)

	query := `SELECT ` + blogSelectCols + ` FROM blog_posts ` + where +
		fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, limitArg, offsetArg)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var posts []*model.BlogPost
	for rows.Next() {
		p, err := scanBlogPost(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		posts = append(posts, p)
	}
	return posts, total, rows.Err()
}

// GetByID returns a single post or ErrNotFound.
func (r *PgBlogRepository) GetByID(ctx context.Context, id string) (*model.BlogPost, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+blogSelectCols+` FROM blog_posts WHERE id = $1`, id)
	p, err := scanBlogPost(row.Scan)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Patch applies the non-nil fields and returns the updated post.
func (r *PgBlogRepository) Patch(ctx context.Context, id string, patch model.BlogPostPatch) (*model.BlogPost, error) {
	setClauses := []string{}
	args := []any{}

	add := func(clause string, val any) {
		args = append(args, val)
		setClauses = append(setClauses, fmt.Sprintf(clause, len(args)))
	}
	if patch.Title != nil {
		add("title = $%d", *patch.Title)
	}
	if patch.Category != nil {
		add("category = $%d", *patch.Category)
	}
	if patch.Excerpt != nil {
		add("excerpt = $%d", *patch.Excerpt)
	}
	if patch.Content != nil {
		add("content = $%d", *patch.Content)
	}
	if patch.ImageURL != nil {
		add("image_url = NULLIF($%d, '')", *patch.ImageURL)
	}
	if patch.Featured != nil {
		add("featured = $%d", *patch.Featured)
	}
	if patch.Published != nil {
		add("published = $%d", *patch.Published)
	}

	setClauses = append(setClauses, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE blog_posts SET %s WHERE id = $%d RETURNING `+blogSelectCols,
		strings.Join(setClauses, ", "), len(args))

	row := r.pool.QueryRow(ctx, query, args...)
	p, err := scanBlogPost(row.Scan)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes a post.
func (r *PgBlogRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM blog_posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
