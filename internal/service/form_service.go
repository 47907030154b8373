package service

import (
	"context"

	"github.com/chiaview/backend/internal/model"
)

// FormService defines the business logic for generic form submissions.
type FormService interface {
	// Submit stores a new submission. The submission row is the durability
	// boundary: once it commits, Submit returns nil even if writing the
	// flattened field rows fails. sub.ID, Status and CreatedAt are
	// populated by the implementation.
	Submit(ctx context.Context, sub *model.FormSubmission) error

	// List returns a page of submissions newest-first plus the total count
	// matching the filters.
	List(ctx context.Context, opts model.FormListOptions) ([]*model.FormSubmission, int, error)

	// Get returns one submission and whatever field responses exist for it.
	Get(ctx context.Context, id string) (*model.FormSubmission, []*model.FieldResponse, error)

	// UpdateStatus sets a submission's status (admin workflow).
	UpdateStatus(ctx context.Context, id, status string) error

	// Delete removes a submission and its field responses.
	Delete(ctx context.Context, id string) error
}
