package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/chiaview/backend/internal/model"
	"github.com/chiaview/backend/internal/repository"
	"github.com/chiaview/backend/internal/service"
)

// TestimonialHandler handles the testimonial endpoints.
type TestimonialHandler struct {
	testimonialService service.TestimonialService
}

// NewTestimonialHandler creates a TestimonialHandler with the given service.
func NewTestimonialHandler(testimonialService service.TestimonialService) *TestimonialHandler {
	return &TestimonialHandler{testimonialService: testimonialService}
}

// testimonialRequest is the expected JSON body for create and update.
type testimonialRequest struct {
	Name      *string `json:"name"`
	Role      *string `json:"role"`
	Content   *string `json:"content"`
	Category  *string `json:"category"`
	Rating    *int    `json:"rating"`
	Image     *string `json:"image"`
	Published *bool   `json:"published"`
}

// List handles GET /api/testimonials.
// Public requests see published testimonials only; ?all=true returns
// everything (admin dashboard).
func (h *TestimonialHandler) List(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	publishedOnly := r.URL.Query().Get("all") != "true"
	testimonials, err := h.testimonialService.List(r.Context(), publishedOnly)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Failed to fetch testimonials"})
		return
	}

	if testimonials == nil {
		testimonials = []*model.Testimonial{}
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success":      true,
		"testimonials": testimonials,
		"count":        len(testimonials),
	})
}

// Create handles POST /api/testimonials.
func (h *TestimonialHandler) Create(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req testimonialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Invalid JSON body"})
		return
	}

	t := &model.Testimonial{
		Name:      strValue(req.Name),
		Role:      strValue(req.Role),
		Content:   strValue(req.Content),
		Category:  strValue(req.Category),
		Image:     strValue(req.Image),
		Published: boolValue(req.Published, true),
	}
	if req.Rating != nil {
		t.Rating = *req.Rating
	}

	if err := h.testimonialService.Create(r.Context(), t); err != nil {
		if service.IsValidation(err) {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Failed to create testimonial"})
		return
	}

	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "testimonial": t})
}

// Patch handles PATCH /api/testimonials/{id}.
func (h *TestimonialHandler) Patch(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req testimonialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Invalid JSON body"})
		return
	}

	t, err := h.testimonialService.Patch(r.Context(), r.PathValue("id"), model.TestimonialPatch{
		Name:      req.Name,
		Role:      req.Role,
		Content:   req.Content,
		Category:  req.Category,
		Rating:    req.Rating,
		Image:     req.Image,
		Published: req.Published,
	})
	if errors.Is(err, repository.ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Testimonial not found"})
		return
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Failed to update testimonial"})
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "testimonial": t})
}

// Delete handles DELETE /api/testimonials/{id}.
func (h *TestimonialHandler) Delete(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	err := h.testimonialService.Delete(r.Context(), r.PathValue("id"))
	if errors.Is(err, repository.ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Testimonial not found"})
		return
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Failed to delete testimonial"})
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "message": "Testimonial deleted"})
}
