package service

import (
	"context"
	"strings"

	"github.com/chiaview/backend/internal/model"
	"github.com/chiaview/backend/internal/repository"
)

// BlogService defines the business logic for blog posts.
type BlogService interface {
	Create(ctx context.Context, post *model.BlogPost) error
	List(ctx context.Context, opts model.BlogListOptions) ([]*model.BlogPost, int, error)
	Get(ctx context.Context, id string) (*model.BlogPost, error)
	Patch(ctx context.Context, id string, patch model.BlogPostPatch) (*model.BlogPost, error)
	Delete(ctx context.Context, id string) error
}

// blogServiceImpl is the production implementation of BlogService.
type blogServiceImpl struct {
	repo repository.BlogRepository
}

// NewBlogService creates a BlogService backed by the given repository.
func NewBlogService(repo repository.BlogRepository) BlogService {
	return &blogServiceImpl{repo: repo}
}

// Create validates required fields, applies defaults, and sanitizes text
// content before persisting.
func (s *blogServiceImpl) Create(ctx context.Context, post *model.BlogPost) error {
	post.Title = strings.TrimSpace(post.Title)
	post.Excerpt = strings.TrimSpace(post.Excerpt)
	post.Content = strings.TrimSpace(post.Content)
	post.Category = strings.TrimSpace(post.Category)
	post.ImageURL = strings.TrimSpace(post.ImageURL)

	if post.Title == "" || post.Excerpt == "" || post.Content == "" {
		return NewValidationError("Missing required fields: title, excerpt, content")
	}
	if post.Category == "" {
		post.Category = "Testimonies"
	}

	post.Title = sanitizeText(post.Title)
	post.Category = sanitizeText(post.Category)
	post.Excerpt = sanitizeText(post.Excerpt)
	post.Content = sanitizeText(post.Content)

	return s.repo.Create(ctx, post)
}

func (s *blogServiceImpl) List(ctx context.Context, opts model.BlogListOptions) ([]*model.BlogPost, int, error) {
	return s.repo.List(ctx, opts)
}

func (s *blogServiceImpl) Get(ctx context.Context, id string) (*model.BlogPost, error) {
	return s.repo.GetByID(ctx, id)
}

// Patch sanitizes any updated text fields and applies the partial update.
func (s *blogServiceImpl) Patch(ctx context.Context, id string, patch model.BlogPostPatch) (*model.BlogPost, error) {
	sanitizeField(patch.Title)
	sanitizeField(patch.Category)
	sanitizeField(patch.Excerpt)
	sanitizeField(patch.Content)
	return s.repo.Patch(ctx, id, patch)
}

func (s *blogServiceImpl) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// sanitizeField sanitizes an optional text field in place.
func sanitizeField(field *string) {
	if field != nil {
		*field = sanitizeText(strings.TrimSpace(*field))
	}
}
