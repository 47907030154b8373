package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/chiaview/backend/internal/model"
)

// ---------------------------------------------------------------------------
// Mock FormRepository
// ---------------------------------------------------------------------------

type mockFormRepo struct {
	createSubmissionFunc func(ctx context.Context, s *model.FormSubmission) error
	insertResponsesFunc  func(ctx context.Context, responses []*model.FieldResponse) error
	listFunc             func(ctx context.Context, opts model.FormListOptions) ([]*model.FormSubmission, int, error)
	getByIDFunc          func(ctx context.Context, id string) (*model.FormSubmission, error)
	responsesForFunc     func(ctx context.Context, submissionID string) ([]*model.FieldResponse, error)
	updateStatusFunc     func(ctx context.Context, id, status string) error
	deleteFunc           func(ctx context.Context, id string) error
}

func (m *mockFormRepo) CreateSubmission(ctx context.Context, s *model.FormSubmission) error {
	if m.createSubmissionFunc != nil {
		return m.createSubmissionFunc(ctx, s)
	}
	s.ID = "sub-1"
	return nil
}

func (m *mockFormRepo) InsertResponses(ctx context.Context, responses []*model.FieldResponse) error {
	if m.insertResponsesFunc != nil {
		return m.insertResponsesFunc(ctx, responses)
	}
	return nil
}

func (m *mockFormRepo) List(ctx context.Context, opts model.FormListOptions) ([]*model.FormSubmission, int, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, opts)
	}
	return nil, 0, nil
}

func (m *mockFormRepo) GetByID(ctx context.Context, id string) (*model.FormSubmission, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockFormRepo) ResponsesFor(ctx context.Context, submissionID string) ([]*model.FieldResponse, error) {
	if m.responsesForFunc != nil {
		return m.responsesForFunc(ctx, submissionID)
	}
	return nil, nil
}

func (m *mockFormRepo) UpdateStatus(ctx context.Context, id, status string) error {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, status)
	}
	return nil
}

func (m *mockFormRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Submit
// ---------------------------------------------------------------------------

func TestFormService_Submit_Success(t *testing.T) {
	var inserted []*model.FieldResponse
	mock := &mockFormRepo{
		insertResponsesFunc: func(ctx context.Context, responses []*model.FieldResponse) error {
			inserted = responses
			return nil
		},
	}
	svc := NewFormService(mock)

	sub := &model.FormSubmission{
		FormName: "volunteer-signup",
		FormType: "volunteer",
		Data:     json.RawMessage(`{"name":"Alice","age":30,"subscribed":true}`),
	}
	if err := svc.Submit(context.Background(), sub); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if sub.Status != "new" {
		t.Errorf("expected status=new, got %q", sub.Status)
	}
	if len(inserted) != 3 {
		t.Fatalf("expected 3 field rows, got %d", len(inserted))
	}
	for _, fr := range inserted {
		if fr.FormSubmissionID != "sub-1" {
			t.Errorf("field row %q not linked to submission, got %q", fr.FieldName, fr.FormSubmissionID)
		}
	}
}

func TestFormService_Submit_MissingFields(t *testing.T) {
	svc := NewFormService(&mockFormRepo{})

	cases := []model.FormSubmission{
		{FormType: "t", Data: json.RawMessage(`{}`)},
		{FormName: "n", Data: json.RawMessage(`{}`)},
		{FormName: "n", FormType: "t"},
	}
	for i, sub := range cases {
		err := svc.Submit(context.Background(), &sub)
		if !IsValidation(err) {
			t.Errorf("case %d: expected validation error, got %v", i, err)
		}
	}
}

// A failed submission insert is fatal: nothing was persisted.
func TestFormService_Submit_PrimaryWriteFails(t *testing.T) {
	mock := &mockFormRepo{
		createSubmissionFunc: func(ctx context.Context, s *model.FormSubmission) error {
			return errors.New("connection refused")
		},
	}
	svc := NewFormService(mock)

	sub := &model.FormSubmission{
		FormName: "contact",
		FormType: "contact",
		Data:     json.RawMessage(`{"a":1}`),
	}
	if err := svc.Submit(context.Background(), sub); err == nil {
		t.Fatal("expected error when the submission insert fails")
	}
}

// A failed response insert is tolerated: the submission row already
// committed and Data remains authoritative.
func TestFormService_Submit_SecondaryWriteFailureTolerated(t *testing.T) {
	mock := &mockFormRepo{
		insertResponsesFunc: func(ctx context.Context, responses []*model.FieldResponse) error {
			return errors.New("disk full")
		},
	}
	svc := NewFormService(mock)

	sub := &model.FormSubmission{
		FormName: "contact",
		FormType: "contact",
		Data:     json.RawMessage(`{"a":1}`),
	}
	if err := svc.Submit(context.Background(), sub); err != nil {
		t.Fatalf("expected success despite response insert failure, got %v", err)
	}
}

// Non-object payloads persist fine; they just have no field rows.
func TestFormService_Submit_NonObjectData(t *testing.T) {
	insertCalled := false
	mock := &mockFormRepo{
		insertResponsesFunc: func(ctx context.Context, responses []*model.FieldResponse) error {
			insertCalled = true
			return nil
		},
	}
	svc := NewFormService(mock)

	sub := &model.FormSubmission{
		FormName: "raw",
		FormType: "misc",
		Data:     json.RawMessage(`[1,2,3]`),
	}
	if err := svc.Submit(context.Background(), sub); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if insertCalled {
		t.Error("expected no field rows for non-object data")
	}
}

// Clients sometimes double-encode data as a JSON string; the service
// unwraps it before storing.
func TestFormService_Submit_DoubleEncodedData(t *testing.T) {
	mock := &mockFormRepo{}
	svc := NewFormService(mock)

	sub := &model.FormSubmission{
		FormName: "contact",
		FormType: "contact",
		Data:     json.RawMessage(`"{\"name\":\"Bob\"}"`),
	}
	if err := svc.Submit(context.Background(), sub); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if string(sub.Data) != `{"name":"Bob"}` {
		t.Errorf("expected unwrapped data, got %s", sub.Data)
	}
}

// ---------------------------------------------------------------------------
// FlattenFields
// ---------------------------------------------------------------------------

func TestFlattenFields_TypeTags(t *testing.T) {
	data := json.RawMessage(`{
		"name": "Alice",
		"age": 30,
		"height": 1.75,
		"subscribed": true,
		"middleName": null,
		"tags": ["a", "b"],
		"address": {"city": "Lusaka"}
	}`)

	responses, err := FlattenFields("sub-1", data)
	if err != nil {
		t.Fatalf("FlattenFields: %v", err)
	}

	want := []struct {
		name      string
		value     string
		fieldType string
	}{
		{"name", "Alice", "string"},
		{"age", "30", "number"},
		{"height", "1.75", "number"},
		{"subscribed", "true", "boolean"},
		{"middleName", "null", "object"},
		{"tags", `["a","b"]`, "object"},
		{"address", `{"city":"Lusaka"}`, "object"},
	}
	if len(responses) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(responses))
	}
	for i, w := range want {
		got := responses[i]
		if got.FieldName != w.name {
			t.Errorf("row %d: expected name %q, got %q (document order must be preserved)", i, w.name, got.FieldName)
		}
		if got.FieldValue != w.value {
			t.Errorf("row %d (%s): expected value %q, got %q", i, w.name, w.value, got.FieldValue)
		}
		if got.FieldType != w.fieldType {
			t.Errorf("row %d (%s): expected type %q, got %q", i, w.name, w.fieldType, got.FieldType)
		}
	}
}

func TestFlattenFields_EmptyObject(t *testing.T) {
	responses, err := FlattenFields("sub-1", json.RawMessage(`{}`))
	if err != nil {
		t.Fatalf("FlattenFields: %v", err)
	}
	if len(responses) != 0 {
		t.Errorf("expected no rows for empty object, got %d", len(responses))
	}
}

func TestFlattenFields_NotAnObject(t *testing.T) {
	for _, raw := range []string{`42`, `"hi"`, `[1,2]`, `true`} {
		if _, err := FlattenFields("sub-1", json.RawMessage(raw)); err == nil {
			t.Errorf("expected error for non-object %s", raw)
		}
	}
}

// ---------------------------------------------------------------------------
// Get
// ---------------------------------------------------------------------------

// A failure reading the projection must not hide the submission itself.
func TestFormService_Get_ResponsesFailureTolerated(t *testing.T) {
	mock := &mockFormRepo{
		getByIDFunc: func(ctx context.Context, id string) (*model.FormSubmission, error) {
			return &model.FormSubmission{ID: id}, nil
		},
		responsesForFunc: func(ctx context.Context, submissionID string) ([]*model.FieldResponse, error) {
			return nil, errors.New("projection table gone")
		},
	}
	svc := NewFormService(mock)

	sub, responses, err := svc.Get(context.Background(), "sub-9")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if sub == nil || sub.ID != "sub-9" {
		t.Errorf("expected submission sub-9, got %+v", sub)
	}
	if responses != nil {
		t.Errorf("expected nil responses on projection failure, got %v", responses)
	}
}
