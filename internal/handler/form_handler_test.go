package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/chiaview/backend/internal/model"
	"github.com/chiaview/backend/internal/repository"
	"github.com/chiaview/backend/internal/service"
)

// ---------------------------------------------------------------------------
// Mock FormService
// ---------------------------------------------------------------------------

type mockFormService struct {
	submitFunc       func(ctx context.Context, sub *model.FormSubmission) error
	listFunc         func(ctx context.Context, opts model.FormListOptions) ([]*model.FormSubmission, int, error)
	getFunc          func(ctx context.Context, id string) (*model.FormSubmission, []*model.FieldResponse, error)
	updateStatusFunc func(ctx context.Context, id, status string) error
	deleteFunc       func(ctx context.Context, id string) error
}

func (m *mockFormService) Submit(ctx context.Context, sub *model.FormSubmission) error {
	if m.submitFunc != nil {
		return m.submitFunc(ctx, sub)
	}
	sub.ID = "sub-1"
	return nil
}

func (m *mockFormService) List(ctx context.Context, opts model.FormListOptions) ([]*model.FormSubmission, int, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, opts)
	}
	return nil, 0, nil
}

func (m *mockFormService) Get(ctx context.Context, id string) (*model.FormSubmission, []*model.FieldResponse, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return nil, nil, repository.ErrNotFound
}

func (m *mockFormService) UpdateStatus(ctx context.Context, id, status string) error {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, status)
	}
	return nil
}

func (m *mockFormService) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Submit
// ---------------------------------------------------------------------------

func TestFormHandler_Submit(t *testing.T) {
	var captured *model.FormSubmission
	h := NewFormHandler(&mockFormService{
		submitFunc: func(ctx context.Context, sub *model.FormSubmission) error {
			captured = sub
			sub.ID = "sub-42"
			return nil
		},
	})

	body := `{"formName":"volunteer-signup","formType":"volunteer","email":"a@b.com","data":{"role":"driver"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/forms", strings.NewReader(body))
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	req.Header.Set("User-Agent", "test-agent")
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Success      bool   `json:"success"`
		SubmissionID string `json:"submissionId"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if !resp.Success || resp.SubmissionID != "sub-42" {
		t.Errorf("unexpected response: %s", rec.Body.String())
	}

	if captured.FormName != "volunteer-signup" || captured.FormType != "volunteer" {
		t.Errorf("submission fields not forwarded: %+v", captured)
	}
	if captured.IPAddress != "203.0.113.9" {
		t.Errorf("expected first forwarded hop as IP, got %q", captured.IPAddress)
	}
	if captured.UserAgent != "test-agent" {
		t.Errorf("expected user agent captured, got %q", captured.UserAgent)
	}
}

func TestFormHandler_Submit_InvalidJSON(t *testing.T) {
	h := NewFormHandler(&mockFormService{})

	req := httptest.NewRequest(http.MethodPost, "/api/forms", strings.NewReader("{broken"))
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestFormHandler_Submit_ValidationError(t *testing.T) {
	h := NewFormHandler(&mockFormService{
		submitFunc: func(ctx context.Context, sub *model.FormSubmission) error {
			return service.NewValidationError("formName is required")
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/forms", strings.NewReader(`{"formType":"t","data":{}}`))
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "formName is required") {
		t.Errorf("expected validation message in body, got %s", rec.Body.String())
	}
}

// ---------------------------------------------------------------------------
// List
// ---------------------------------------------------------------------------

func TestFormHandler_List_ForwardsParams(t *testing.T) {
	var gotOpts model.FormListOptions
	h := NewFormHandler(&mockFormService{
		listFunc: func(ctx context.Context, opts model.FormListOptions) ([]*model.FormSubmission, int, error) {
			gotOpts = opts
			return []*model.FormSubmission{{ID: "s1"}}, 7, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/forms?formName=contact&status=new&limit=10&offset=20", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotOpts.FormName != "contact" || gotOpts.Status != "new" || gotOpts.Limit != 10 || gotOpts.Offset != 20 {
		t.Errorf("query params not forwarded: %+v", gotOpts)
	}
	if !strings.Contains(rec.Body.String(), `"total":7`) {
		t.Errorf("expected total in body, got %s", rec.Body.String())
	}
}

func TestFormHandler_List_LimitCappedAt100(t *testing.T) {
	var gotOpts model.FormListOptions
	h := NewFormHandler(&mockFormService{
		listFunc: func(ctx context.Context, opts model.FormListOptions) ([]*model.FormSubmission, int, error) {
			gotOpts = opts
			return nil, 0, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/forms?limit=5000", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if gotOpts.Limit != 50 {
		t.Errorf("expected out-of-range limit to fall back to 50, got %d", gotOpts.Limit)
	}
}

func TestFormHandler_List_EmptyIsArray(t *testing.T) {
	h := NewFormHandler(&mockFormService{})

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/api/forms", nil))

	if !strings.Contains(rec.Body.String(), `"submissions":[]`) {
		t.Errorf("expected empty array, not null: %s", rec.Body.String())
	}
}

// ---------------------------------------------------------------------------
// Get / UpdateStatus
// ---------------------------------------------------------------------------

func TestFormHandler_Get_NotFound(t *testing.T) {
	h := NewFormHandler(&mockFormService{})

	req := httptest.NewRequest(http.MethodGet, "/api/forms/missing", nil)
	req.SetPathValue("id", "missing")
	rec := httptest.NewRecorder()
	h.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestFormHandler_UpdateStatus(t *testing.T) {
	var gotID, gotStatus string
	h := NewFormHandler(&mockFormService{
		updateStatusFunc: func(ctx context.Context, id, status string) error {
			gotID, gotStatus = id, status
			return nil
		},
	})

	req := httptest.NewRequest(http.MethodPatch, "/api/forms/sub-1", strings.NewReader(`{"status":"reviewed"}`))
	req.SetPathValue("id", "sub-1")
	rec := httptest.NewRecorder()
	h.UpdateStatus(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotID != "sub-1" || gotStatus != "reviewed" {
		t.Errorf("expected sub-1/reviewed, got %s/%s", gotID, gotStatus)
	}
}

func TestFormHandler_UpdateStatus_MissingStatus(t *testing.T) {
	h := NewFormHandler(&mockFormService{})

	req := httptest.NewRequest(http.MethodPatch, "/api/forms/sub-1", strings.NewReader(`{}`))
	req.SetPathValue("id", "sub-1")
	rec := httptest.NewRecorder()
	h.UpdateStatus(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}
