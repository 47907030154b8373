package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/chiaview/backend/internal/model"
	"github.com/chiaview/backend/internal/repository"
)

// formServiceImpl is the production implementation of FormService.
type formServiceImpl struct {
	repo repository.FormRepository
}

// NewFormService creates a FormService backed by the given repository.
func NewFormService(repo repository.FormRepository) FormService {
	return &formServiceImpl{repo: repo}
}

// Submit validates and persists a submission, then writes the flattened
// field rows as a best-effort secondary step. A secondary failure is
// logged and swallowed: the authoritative data blob is already safe and
// the projection can be rebuilt from it.
func (s *formServiceImpl) Submit(ctx context.Context, sub *model.FormSubmission) error {
	if strings.TrimSpace(sub.FormName) == "" || strings.TrimSpace(sub.FormType) == "" || len(sub.Data) == 0 {
		return NewValidationError("Missing required fields: formName, formType, data")
	}

	data, err := normalizeData(sub.Data)
	if err != nil {
		return NewValidationError("data must be a JSON value or JSON-encoded string")
	}
	sub.Data = data
	sub.Email = strings.TrimSpace(sub.Email)
	sub.Name = strings.TrimSpace(sub.Name)
	sub.Phone = strings.TrimSpace(sub.Phone)
	sub.Status = "new"

	if err := s.repo.CreateSubmission(ctx, sub); err != nil {
		return fmt.Errorf("create submission: %w", err)
	}

	responses, err := FlattenFields(sub.ID, sub.Data)
	if err != nil {
		// Non-object data has no field rows; nothing to index.
		return nil
	}
	if err := s.repo.InsertResponses(ctx, responses); err != nil {
		slog.Error("storing form responses failed", "submission_id", sub.ID, "error", err)
	}
	return nil
}

// List returns submissions according to the given filter/pagination options.
func (s *formServiceImpl) List(ctx context.Context, opts model.FormListOptions) ([]*model.FormSubmission, int, error) {
	return s.repo.List(ctx, opts)
}

// Get returns a submission with its field responses. A failure reading the
// responses is logged, not surfaced: the projection is non-authoritative.
func (s *formServiceImpl) Get(ctx context.Context, id string) (*model.FormSubmission, []*model.FieldResponse, error) {
	sub, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	responses, err := s.repo.ResponsesFor(ctx, id)
	if err != nil {
		slog.Error("fetching form responses failed", "submission_id", id, "error", err)
		responses = nil
	}
	return sub, responses, nil
}

// UpdateStatus sets a submission's status.
func (s *formServiceImpl) UpdateStatus(ctx context.Context, id, status string) error {
	return s.repo.UpdateStatus(ctx, id, status)
}

// Delete removes a submission and its responses.
func (s *formServiceImpl) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// normalizeData accepts either a JSON value or a JSON string containing
// encoded JSON (clients sometimes double-encode the data field) and
// returns the effective JSON document.
func normalizeData(raw json.RawMessage) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty data")
	}
	if trimmed[0] != '"' {
		if !json.Valid(trimmed) {
			return nil, fmt.Errorf("invalid JSON")
		}
		return trimmed, nil
	}
	var inner string
	if err := json.Unmarshal(trimmed, &inner); err != nil {
		return nil, err
	}
	innerBytes := []byte(inner)
	if !json.Valid(innerBytes) {
		return nil, fmt.Errorf("data string is not valid JSON")
	}
	return innerBytes, nil
}

// FlattenFields derives one FieldResponse per top-level key of a JSON
// object, in document order. FieldValue is the raw string for string
// values and compact JSON for everything else. FieldType follows
// JavaScript typeof semantics: null, arrays and objects all tag "object".
// Returns an error if data is not a JSON object.
func FlattenFields(submissionID string, data json.RawMessage) ([]*model.FieldResponse, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("data is not a JSON object")
	}

	var responses []*model.FieldResponse
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v", keyTok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}
		value, fieldType := classifyValue(raw)
		responses = append(responses, &model.FieldResponse{
			FormSubmissionID: submissionID,
			FieldName:        key,
			FieldValue:       value,
			FieldType:        fieldType,
		})
	}
	return responses, nil
}

// classifyValue renders one JSON value as a (fieldValue, fieldType) pair.
func classifyValue(raw json.RawMessage) (string, string) {
	trimmed := bytes.TrimSpace(raw)
	switch {
	case len(trimmed) == 0:
		return "", "object"
	case trimmed[0] == '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return string(trimmed), "string"
		}
		return s, "string"
	case bytes.Equal(trimmed, []byte("true")), bytes.Equal(trimmed, []byte("false")):
		return string(trimmed), "boolean"
	case bytes.Equal(trimmed, []byte("null")):
		// typeof null === "object"
		return "null", "object"
	case trimmed[0] == '{', trimmed[0] == '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, trimmed); err != nil {
			return string(trimmed), "object"
		}
		return buf.String(), "object"
	default:
		return string(trimmed), "number"
	}
}
