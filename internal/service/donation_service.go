package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/chiaview/backend/internal/model"
	"github.com/chiaview/backend/internal/repository"
)

// DonationService records donations confirmed by the payment provider.
type DonationService interface {
	// Record persists a confirmed donation. Webhook redeliveries of the
	// same payment intent are absorbed silently.
	Record(ctx context.Context, d *model.Donation) error

	// List returns recorded donations newest-first.
	List(ctx context.Context, limit, offset int) ([]*model.Donation, error)
}

// donationServiceImpl is the production implementation of DonationService.
type donationServiceImpl struct {
	repo repository.DonationRepository
}

// NewDonationService creates a DonationService backed by the given repository.
func NewDonationService(repo repository.DonationRepository) DonationService {
	return &donationServiceImpl{repo: repo}
}

func (s *donationServiceImpl) Record(ctx context.Context, d *model.Donation) error {
	if d.DonationType == "" {
		d.DonationType = "general"
	}
	if d.Category == "" {
		d.Category = "general"
	}
	err := s.repo.Create(ctx, d)
	if errors.Is(err, repository.ErrDuplicate) {
		slog.Info("duplicate webhook delivery ignored", "payment_intent_id", d.PaymentIntentID)
		return nil
	}
	return err
}

func (s *donationServiceImpl) List(ctx context.Context, limit, offset int) ([]*model.Donation, error) {
	return s.repo.List(ctx, limit, offset)
}
