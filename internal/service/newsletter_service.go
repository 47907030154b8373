package service

import (
	"context"
	"errors"
	"strings"

	"github.com/chiaview/backend/internal/model"
	"github.com/chiaview/backend/internal/repository"
)

// NewsletterService defines the business logic for newsletter subscriptions.
type NewsletterService interface {
	// Subscribe adds or refreshes a subscription. Returns
	// alreadySubscribed=true when the email is already on the list with an
	// active subscription, in which case nothing is written.
	Subscribe(ctx context.Context, email, name string) (alreadySubscribed bool, err error)
}

// newsletterServiceImpl is the production implementation of NewsletterService.
type newsletterServiceImpl struct {
	repo repository.NewsletterRepository
}

// NewNewsletterService creates a NewsletterService backed by the given repository.
func NewNewsletterService(repo repository.NewsletterRepository) NewsletterService {
	return &newsletterServiceImpl{repo: repo}
}

func (s *newsletterServiceImpl) Subscribe(ctx context.Context, email, name string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailPattern.MatchString(email) {
		return false, NewValidationError("Please provide a valid email address.")
	}

	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return false, err
	}
	if existing != nil && existing.Status == "subscribed" {
		return true, nil
	}

	sub := &model.NewsletterSubscription{
		Email:          email,
		Name:           strings.TrimSpace(name),
		Status:         "subscribed",
		EmailConfirmed: false,
	}
	return false, s.repo.Upsert(ctx, sub)
}
