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

// OpportunityHandler handles the volunteer opportunity endpoints.
type OpportunityHandler struct {
	opportunityService service.OpportunityService
}

// NewOpportunityHandler creates an OpportunityHandler with the given service.
func NewOpportunityHandler(opportunityService service.OpportunityService) *OpportunityHandler {
	return &OpportunityHandler{opportunityService: opportunityService}
}

// opportunityRequest is the expected JSON body for create and update.
type opportunityRequest struct {
	Title       *string `json:"title"`
	Time        *string `json:"time"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Published   *bool   `json:"published"`
}

// List handles GET /api/opportunities.
// Supports query params: query, category, published, limit, offset.
func (h *OpportunityHandler) List(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	q := r.URL.Query()
	opts := model.OpportunityListOptions{
		Query:     q.Get("query"),
		Category:  q.Get("category"),
		Published: triState(q.Get("published")),
		Limit:     20,
		Offset:    0,
	}
	if l := q.Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 100 {
			opts.Limit = n
		}
	}
	if o := q.Get("offset"); o != "" {
		if n, err := strconv.Atoi(o); err == nil && n >= 0 {
			opts.Offset = n
		}
	}

	opportunities, total, err := h.opportunityService.List(r.Context(), opts)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Failed to fetch opportunities"})
		return
	}

	if opportunities == nil {
		opportunities = []*model.Opportunity{}
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success":       true,
		"opportunities": opportunities,
		"count":         len(opportunities),
		"total":         total,
	})
}

// Get handles GET /api/opportunities/{id}.
func (h *OpportunityHandler) Get(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	opp, err := h.opportunityService.Get(r.Context(), r.PathValue("id"))
	if errors.Is(err, repository.ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Opportunity not found"})
		return
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Failed to fetch opportunity"})
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "opportunity": opp})
}

// Create handles POST /api/opportunities.
func (h *OpportunityHandler) Create(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req opportunityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Invalid JSON body"})
		return
	}

	opp := &model.Opportunity{
		Title:       strValue(req.Title),
		Time:        strValue(req.Time),
		Description: strValue(req.Description),
		Category:    strValue(req.Category),
		Published:   boolValue(req.Published, true),
	}

	if err := h.opportunityService.Create(r.Context(), opp); err != nil {
		if service.IsValidation(err) {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Failed to create opportunity"})
		return
	}

	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "opportunity": opp})
}

// Patch handles PATCH /api/opportunities/{id}.
func (h *OpportunityHandler) Patch(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req opportunityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Invalid JSON body"})
		return
	}

	opp, err := h.opportunityService.Patch(r.Context(), r.PathValue("id"), model.OpportunityPatch{
		Title:       req.Title,
		Time:        req.Time,
		Description: req.Description,
		Category:    req.Category,
		Published:   req.Published,
	})
	if errors.Is(err, repository.ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Opportunity not found"})
		return
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Failed to update opportunity"})
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "opportunity": opp})
}

// Delete handles DELETE /api/opportunities/{id}.
func (h *OpportunityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	err := h.opportunityService.Delete(r.Context(), r.PathValue("id"))
	if errors.Is(err, repository.ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Opportunity not found"})
		return
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Failed to delete opportunity"})
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "message": "Opportunity deleted"})
}
