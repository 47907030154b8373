package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/chiaview/backend/internal/model"
	"github.com/chiaview/backend/internal/repository"
	"github.com/chiaview/backend/internal/service"
)

// ---------------------------------------------------------------------------
// Mock RegistrationService
// ---------------------------------------------------------------------------

type mockRegistrationService struct {
	registerFunc func(ctx context.Context, input service.RegisterInput) (*model.Registration, error)
	listFunc     func(ctx context.Context, opts model.RegistrationListOptions) ([]*model.RegistrationSummary, error)
	getFunc      func(ctx context.Context, id string) (*model.Registration, error)
	patchFunc    func(ctx context.Context, id string, patch model.RegistrationPatch) (*model.Registration, error)
	deleteFunc   func(ctx context.Context, id string) error
}

func (m *mockRegistrationService) Register(ctx context.Context, input service.RegisterInput) (*model.Registration, error) {
	if m.registerFunc != nil {
		return m.registerFunc(ctx, input)
	}
	return &model.Registration{
		ID:               "reg-1",
		Name:             input.Name,
		Email:            input.Email,
		RegistrationType: "member",
		Status:           "active",
		PasswordHash:     "$2a$10$fakehash",
	}, nil
}

func (m *mockRegistrationService) List(ctx context.Context, opts model.RegistrationListOptions) ([]*model.RegistrationSummary, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, opts)
	}
	return nil, nil
}

func (m *mockRegistrationService) Get(ctx context.Context, id string) (*model.Registration, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return nil, repository.ErrNotFound
}

func (m *mockRegistrationService) Patch(ctx context.Context, id string, patch model.RegistrationPatch) (*model.Registration, error) {
	if m.patchFunc != nil {
		return m.patchFunc(ctx, id, patch)
	}
	return nil, repository.ErrNotFound
}

func (m *mockRegistrationService) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Register
// ---------------------------------------------------------------------------

func TestRegistrationHandler_Register(t *testing.T) {
	h := NewRegistrationHandler(&mockRegistrationService{})

	body := `{"name":"Alice","email":"alice@example.com","password":"longenough","confirmPassword":"longenough"}`
	req := httptest.NewRequest(http.MethodPost, "/api/register", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Register(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	resp := rec.Body.String()
	if !strings.Contains(resp, `"userId":"reg-1"`) {
		t.Errorf("expected userId in response, got %s", resp)
	}
	if strings.Contains(resp, "fakehash") || strings.Contains(resp, "password") {
		t.Errorf("password hash leaked into response: %s", resp)
	}
}

func TestRegistrationHandler_Register_EmailTaken(t *testing.T) {
	h := NewRegistrationHandler(&mockRegistrationService{
		registerFunc: func(ctx context.Context, input service.RegisterInput) (*model.Registration, error) {
			return nil, service.ErrEmailTaken
		},
	})

	body := `{"name":"Alice","email":"taken@example.com","password":"longenough","confirmPassword":"longenough"}`
	rec := httptest.NewRecorder()
	h.Register(rec, httptest.NewRequest(http.MethodPost, "/api/register", strings.NewReader(body)))

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Email already registered") {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestRegistrationHandler_Register_ValidationError(t *testing.T) {
	h := NewRegistrationHandler(&mockRegistrationService{
		registerFunc: func(ctx context.Context, input service.RegisterInput) (*model.Registration, error) {
			return nil, service.NewValidationError("Password must be at least 8 characters")
		},
	})

	rec := httptest.NewRecorder()
	h.Register(rec, httptest.NewRequest(http.MethodPost, "/api/register", strings.NewReader(`{"name":"A"}`)))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Password must be at least 8 characters") {
		t.Errorf("expected validation message, got %s", rec.Body.String())
	}
}

// ---------------------------------------------------------------------------
// Admin endpoints
// ---------------------------------------------------------------------------

func TestRegistrationHandler_List_ForwardsFilters(t *testing.T) {
	var gotOpts model.RegistrationListOptions
	h := NewRegistrationHandler(&mockRegistrationService{
		listFunc: func(ctx context.Context, opts model.RegistrationListOptions) ([]*model.RegistrationSummary, error) {
			gotOpts = opts
			return nil, nil
		},
	})

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/api/registrations?status=active&type=volunteer", nil))

	if gotOpts.Status != "active" || gotOpts.Type != "volunteer" {
		t.Errorf("filters not forwarded: %+v", gotOpts)
	}
	if !strings.Contains(rec.Body.String(), `"registrations":[]`) {
		t.Errorf("expected empty array, not null: %s", rec.Body.String())
	}
}

func TestRegistrationHandler_Get_NotFound(t *testing.T) {
	h := NewRegistrationHandler(&mockRegistrationService{})

	req := httptest.NewRequest(http.MethodGet, "/api/registrations/missing", nil)
	req.SetPathValue("id", "missing")
	rec := httptest.NewRecorder()
	h.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

// Registration's json tags hide the hash even when the whole struct is
// serialized on the admin read path.
func TestRegistrationHandler_Get_HashNeverSerialized(t *testing.T) {
	h := NewRegistrationHandler(&mockRegistrationService{
		getFunc: func(ctx context.Context, id string) (*model.Registration, error) {
			return &model.Registration{ID: id, Email: "a@b.com", PasswordHash: "$2a$10$fakehash"}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/registrations/reg-1", nil)
	req.SetPathValue("id", "reg-1")
	rec := httptest.NewRecorder()
	h.Get(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "fakehash") {
		t.Errorf("password hash leaked: %s", rec.Body.String())
	}
}

func TestRegistrationHandler_Patch(t *testing.T) {
	var gotPatch model.RegistrationPatch
	h := NewRegistrationHandler(&mockRegistrationService{
		patchFunc: func(ctx context.Context, id string, patch model.RegistrationPatch) (*model.Registration, error) {
			gotPatch = patch
			return &model.Registration{ID: id, Status: "inactive"}, nil
		},
	})

	req := httptest.NewRequest(http.MethodPatch, "/api/registrations/reg-1", strings.NewReader(`{"status":"inactive"}`))
	req.SetPathValue("id", "reg-1")
	rec := httptest.NewRecorder()
	h.Patch(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotPatch.Status == nil || *gotPatch.Status != "inactive" {
		t.Errorf("expected status patch forwarded, got %+v", gotPatch)
	}
}
