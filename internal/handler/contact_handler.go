package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/chiaview/backend/internal/model"
	"github.com/chiaview/backend/internal/repository"
	"github.com/chiaview/backend/internal/service"
)

// ContactHandler handles contact form submission and admin listing.
type ContactHandler struct {
	contactService service.ContactService
}

// NewContactHandler creates a ContactHandler with the given service.
func NewContactHandler(contactService service.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

// contactRequest is the expected JSON body for POST /api/contact.
type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Submit handles POST /api/contact.
// name, email and message are required; subject defaults in the service.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req contactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Invalid JSON body"})
		return
	}

	msg := &model.ContactMessage{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Subject:   req.Subject,
		Message:   req.Message,
		IPAddress: requestIP(r),
		UserAgent: requestUserAgent(r),
	}

	if err := h.contactService.Submit(r.Context(), msg); err != nil {
		if service.IsValidation(err) {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Failed to send message"})
		return
	}

	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success":   true,
		"message":   "Message sent successfully",
		"messageId": msg.ID,
	})
}

// AdminList handles GET /api/admin/contacts.
// Supports query params: status, email.
func (h *ContactHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	messages, err := h.contactService.List(r.Context(), model.ContactListOptions{
		Status: r.URL.Query().Get("status"),
		Email:  r.URL.Query().Get("email"),
	})
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Failed to fetch messages"})
		return
	}

	if messages == nil {
		messages = []*model.ContactMessage{}
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success":  true,
		"messages": messages,
		"count":    len(messages),
	})
}

// UpdateStatus handles PATCH /api/admin/contacts/{id}/status.
func (h *ContactHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Status == "" {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Missing status"})
		return
	}

	err := h.contactService.UpdateStatus(r.Context(), r.PathValue("id"), req.Status)
	if errors.Is(err, repository.ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Message not found"})
		return
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Failed to update message"})
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": true,
		"message": "Message updated",
	})
}
