package service

import (
	"context"
	"strings"

	"github.com/chiaview/backend/internal/model"
	"github.com/chiaview/backend/internal/repository"
)

// OpportunityService defines the business logic for volunteer opportunities.
type OpportunityService interface {
	Create(ctx context.Context, opp *model.Opportunity) error
	List(ctx context.Context, opts model.OpportunityListOptions) ([]*model.Opportunity, int, error)
	Get(ctx context.Context, id string) (*model.Opportunity, error)
	Patch(ctx context.Context, id string, patch model.OpportunityPatch) (*model.Opportunity, error)
	Delete(ctx context.Context, id string) error
}

// opportunityServiceImpl is the production implementation of OpportunityService.
type opportunityServiceImpl struct {
	repo repository.OpportunityRepository
}

// NewOpportunityService creates an OpportunityService backed by the given repository.
func NewOpportunityService(repo repository.OpportunityRepository) OpportunityService {
	return &opportunityServiceImpl{repo: repo}
}

// Create validates required fields, applies defaults, and sanitizes text
// content before persisting.
func (s *opportunityServiceImpl) Create(ctx context.Context, opp *model.Opportunity) error {
	opp.Title = strings.TrimSpace(opp.Title)
	opp.Time = strings.TrimSpace(opp.Time)
	opp.Description = strings.TrimSpace(opp.Description)
	opp.Category = strings.TrimSpace(opp.Category)

	if opp.Title == "" || opp.Time == "" || opp.Description == "" {
		return NewValidationError("Missing required fields: title, time, description")
	}
	if opp.Category == "" {
		opp.Category = "Outreach"
	}

	opp.Title = sanitizeText(opp.Title)
	opp.Time = sanitizeText(opp.Time)
	opp.Description = sanitizeText(opp.Description)
	opp.Category = sanitizeText(opp.Category)

	return s.repo.Create(ctx, opp)
}

func (s *opportunityServiceImpl) List(ctx context.Context, opts model.OpportunityListOptions) ([]*model.Opportunity, int, error) {
	return s.repo.List(ctx, opts)
}

func (s *opportunityServiceImpl) Get(ctx context.Context, id string) (*model.Opportunity, error) {
	return s.repo.GetByID(ctx, id)
}

// Patch sanitizes any updated text fields and applies the partial update.
func (s *opportunityServiceImpl) Patch(ctx context.Context, id string, patch model.OpportunityPatch) (*model.Opportunity, error) {
	sanitizeField(patch.Title)
	sanitizeField(patch.Time)
	sanitizeField(patch.Description)
	sanitizeField(patch.Category)
	return s.repo.Patch(ctx, id, patch)
}

func (s *opportunityServiceImpl) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
