package handler

import (
	"encoding/json"
	"net/http"

	"github.com/chiaview/backend/internal/service"
)

// NewsletterHandler handles newsletter subscription.
type NewsletterHandler struct {
	newsletterService service.NewsletterService
}

// NewNewsletterHandler creates a NewsletterHandler with the given service.
func NewNewsletterHandler(newsletterService service.NewsletterService) *NewsletterHandler {
	return &NewsletterHandler{newsletterService: newsletterService}
}

// Subscribe handles POST /api/newsletter/subscribe.
// Subscribing an already-subscribed email is a 200, not an error.
func (h *NewsletterHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Invalid JSON body"})
		return
	}

	alreadySubscribed, err := h.newsletterService.Subscribe(r.Context(), req.Email, req.Name)
	if err != nil {
		if service.IsValidation(err) {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Failed to subscribe"})
		return
	}

	if alreadySubscribed {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"message": "You are already subscribed",
		})
		return
	}

	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": true,
		"message": "Subscribed successfully",
	})
}
