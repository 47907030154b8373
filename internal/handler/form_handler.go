package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/chiaview/backend/internal/model"
	"github.com/chiaview/backend/internal/repository"
	"github.com/chiaview/backend/internal/service"
)

// FormHandler handles generic form submission and the admin submission
// endpoints.
type FormHandler struct {
	formService service.FormService
}

// NewFormHandler creates a FormHandler with the given service.
func NewFormHandler(formService service.FormService) *FormHandler {
	return &FormHandler{formService: formService}
}

// submitFormRequest is the expected JSON body for POST /api/forms.
// Data holds the full form payload; email/name/phone are the optional
// promoted columns.
type submitFormRequest struct {
	FormName string          `json:"formName"`
	FormType string          `json:"formType"`
	Email    string          `json:"email"`
	Name     string          `json:"name"`
	Phone    string          `json:"phone"`
	Data     json.RawMessage `json:"data"`
}

// Submit handles POST /api/forms.
// formName, formType and data are required.
func (h *FormHandler) Submit(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req submitFormRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Invalid JSON body"})
		return
	}

	sub := &model.FormSubmission{
		FormName:  req.FormName,
		FormType:  req.FormType,
		Email:     req.Email,
		Name:      req.Name,
		Phone:     req.Phone,
		Data:      req.Data,
		IPAddress: requestIP(r),
		UserAgent: requestUserAgent(r),
	}

	if err := h.formService.Submit(r.Context(), sub); err != nil {
		if service.IsValidation(err) {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"error":   "Failed to submit form",
			"details": err.Error(),
		})
		return
	}

	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success":      true,
		"message":      "Form submitted successfully",
		"submissionId": sub.ID,
	})
}

// List handles GET /api/forms.
// Supports query params: formName, formType, status, limit (default 50,
// max 100), offset.
func (h *FormHandler) List(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	opts := model.FormListOptions{
		FormName: r.URL.Query().Get("formName"),
		FormType: r.URL.Query().Get("formType"),
		Status:   r.URL.Query().Get("status"),
		Limit:    50,
		Offset:   0,
	}
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 100 {
			opts.Limit = n
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if n, err := strconv.Atoi(o); err == nil && n >= 0 {
			opts.Offset = n
		}
	}

	submissions, total, err := h.formService.List(r.Context(), opts)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Failed to fetch submissions"})
		return
	}

	if submissions == nil {
		submissions = []*model.FormSubmission{}
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success":     true,
		"submissions": submissions,
		"count":       len(submissions),
		"total":       total,
		"limit":       opts.Limit,
		"offset":      opts.Offset,
	})
}

// Get handles GET /api/forms/{id}. Returns the submission with whatever
// field responses exist for it.
func (h *FormHandler) Get(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	sub, responses, err := h.formService.Get(r.Context(), r.PathValue("id"))
	if errors.Is(err, repository.ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Submission not found"})
		return
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Failed to fetch submission"})
		return
	}

	if responses == nil {
		responses = []*model.FieldResponse{}
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success":    true,
		"submission": sub,
		"responses":  responses,
	})
}

// UpdateStatus handles PATCH /api/forms/{id}. The body carries the new
// status, which is stored as-is.
func (h *FormHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Status == "" {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Missing status"})
		return
	}

	err := h.formService.UpdateStatus(r.Context(), r.PathValue("id"), req.Status)
	if errors.Is(err, repository.ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Submission not found"})
		return
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Failed to update submission"})
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": true,
		"message": "Submission updated",
	})
}

// Delete handles DELETE /api/forms/{id}.
func (h *FormHandler) Delete(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	err := h.formService.Delete(r.Context(), r.PathValue("id"))
	if errors.Is(err, repository.ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Submission not found"})
		return
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Failed to delete submission"})
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": true,
		"message": "Submission deleted",
	})
}
