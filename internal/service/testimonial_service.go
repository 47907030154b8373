package service

import (
	"context"
	"strings"

	"github.com/chiaview/backend/internal/model"
	"github.com/chiaview/backend/internal/repository"
)

// TestimonialService defines the business logic for testimonials.
type TestimonialService interface {
	Create(ctx context.Context, t *model.Testimonial) error
	List(ctx context.Context, publishedOnly bool) ([]*model.Testimonial, error)
	Patch(ctx context.Context, id string, patch model.TestimonialPatch) (*model.Testimonial, error)
	Delete(ctx context.Context, id string) error
}

// testimonialServiceImpl is the production implementation of TestimonialService.
type testimonialServiceImpl struct {
	repo repository.TestimonialRepository
}

// NewTestimonialService creates a TestimonialService backed by the given repository.
func NewTestimonialService(repo repository.TestimonialRepository) TestimonialService {
	return &testimonialServiceImpl{repo: repo}
}

// Create validates that a name and content are present and fills in the
// carousel defaults.
func (s *testimonialServiceImpl) Create(ctx context.Context, t *model.Testimonial) error {
	t.Name = strings.TrimSpace(t.Name)
	t.Content = strings.TrimSpace(t.Content)
	t.Role = strings.TrimSpace(t.Role)
	t.Category = strings.TrimSpace(t.Category)

	if t.Name == "" || t.Content == "" {
		return NewValidationError("Missing name or quote")
	}
	if t.Role == "" {
		t.Role = "Community Member"
	}
	if t.Category == "" {
		t.Category = "General"
	}
	if t.Rating == 0 {
		t.Rating = 5
	}
	t.Content = sanitizeText(t.Content)
	t.Name = sanitizeText(t.Name)

	return s.repo.Create(ctx, t)
}

func (s *testimonialServiceImpl) List(ctx context.Context, publishedOnly bool) ([]*model.Testimonial, error) {
	return s.repo.List(ctx, publishedOnly)
}

// Patch sanitizes updated text fields and applies the partial update.
func (s *testimonialServiceImpl) Patch(ctx context.Context, id string, patch model.TestimonialPatch) (*model.Testimonial, error) {
	sanitizeField(patch.Name)
	sanitizeField(patch.Role)
	sanitizeField(patch.Content)
	sanitizeField(patch.Category)
	return s.repo.Patch(ctx, id, patch)
}

func (s *testimonialServiceImpl) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
