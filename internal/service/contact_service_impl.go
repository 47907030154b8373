package service

import (
	"context"
	"strings"

	"github.com/chiaview/backend/internal/model"
	"github.com/chiaview/backend/internal/repository"
)

// contactServiceImpl is the production implementation of ContactService.
type contactServiceImpl struct {
	repo repository.ContactRepository
}

// NewContactService creates a ContactService backed by the given repository.
func NewContactService(repo repository.ContactRepository) ContactService {
	return &contactServiceImpl{repo: repo}
}

// Submit stores a new contact message. Name, email and message are
// required; the subject defaults to "No Subject" and every new message
// starts with status "new" and normal priority.
func (s *contactServiceImpl) Submit(ctx context.Context, msg *model.ContactMessage) error {
	msg.Name = strings.TrimSpace(msg.Name)
	msg.Email = strings.TrimSpace(msg.Email)
	msg.Phone = strings.TrimSpace(msg.Phone)
	msg.Subject = strings.TrimSpace(msg.Subject)
	msg.Message = strings.TrimSpace(msg.Message)

	if msg.Name == "" || msg.Email == "" || msg.Message == "" {
		return NewValidationError("Missing required fields: name, email, message")
	}
	if msg.Subject == "" {
		msg.Subject = "No Subject"
	}
	msg.Status = "new"
	msg.Priority = "normal"

	return s.repo.Save(ctx, msg)
}

// List returns contact messages according to the given filter options.
func (s *contactServiceImpl) List(ctx context.Context, opts model.ContactListOptions) ([]*model.ContactMessage, error) {
	return s.repo.List(ctx, opts)
}

// UpdateStatus changes the status of a contact message.
func (s *contactServiceImpl) UpdateStatus(ctx context.Context, id, status string) error {
	return s.repo.UpdateStatus(ctx, id, status)
}
