package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/chiaview/backend/internal/model"
	"github.com/chiaview/backend/internal/repository"
	"github.com/chiaview/backend/internal/service"
)

// RegistrationHandler handles public registration and the admin
// registration endpoints.
type RegistrationHandler struct {
	registrationService service.RegistrationService
}

// NewRegistrationHandler creates a RegistrationHandler with the given service.
func NewRegistrationHandler(registrationService service.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{registrationService: registrationService}
}

// registerRequest is the expected JSON body for POST /api/register.
type registerRequest struct {
	Name             string `json:"name"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	Password         string `json:"password"`
	ConfirmPassword  string `json:"confirmPassword"`
	RegistrationType string `json:"registrationType"`
	DateOfBirth      string `json:"dateOfBirth"`
	Address          string `json:"address"`
	City             string `json:"city"`
	State            string `json:"state"`
	Country          string `json:"country"`
	PostalCode       string `json:"postalCode"`
}

// Register handles POST /api/register.
// Duplicate emails get a 409; validation problems a 400 with the message.
func (h *RegistrationHandler) Register(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Invalid JSON body"})
		return
	}

	reg, err := h.registrationService.Register(r.Context(), service.RegisterInput{
		Name:             req.Name,
		Email:            req.Email,
		Phone:            req.Phone,
		Password:         req.Password,
		ConfirmPassword:  req.ConfirmPassword,
		RegistrationType: req.RegistrationType,
		DateOfBirth:      req.DateOfBirth,
		Address:          req.Address,
		City:             req.City,
		State:            req.State,
		Country:          req.Country,
		PostalCode:       req.PostalCode,
		IPAddress:        requestIP(r),
		UserAgent:        requestUserAgent(r),
	})
	if err != nil {
		switch {
		case service.IsValidation(err):
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		case errors.Is(err, service.ErrEmailTaken):
			w.WriteHeader(http.StatusConflict)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "Email already registered"})
		default:
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "Registration failed"})
		}
		return
	}

	// The hash never leaves: Registration serializes without it and the
	// user object here repeats only the public fields.
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": true,
		"message": "Registration successful",
		"userId":  reg.ID,
		"user": map[string]any{
			"id":                reg.ID,
			"name":              reg.Name,
			"email":             reg.Email,
			"registration_type": reg.RegistrationType,
			"status":            reg.Status,
		},
	})
}

// List handles GET /api/registrations.
// Supports query params: status, type.
func (h *RegistrationHandler) List(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	registrations, err := h.registrationService.List(r.Context(), model.RegistrationListOptions{
		Status: r.URL.Query().Get("status"),
		Type:   r.URL.Query().Get("type"),
	})
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Failed to fetch registrations"})
		return
	}

	if registrations == nil {
		registrations = []*model.RegistrationSummary{}
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success":       true,
		"registrations": registrations,
		"count":         len(registrations),
	})
}

// Get handles GET /api/registrations/{id}.
func (h *RegistrationHandler) Get(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	reg, err := h.registrationService.Get(r.Context(), r.PathValue("id"))
	if errors.Is(err, repository.ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Registration not found"})
		return
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Failed to fetch registration"})
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]any{
		"success":      true,
		"registration": reg,
	})
}

// Patch handles PATCH /api/registrations/{id}. Only whitelisted fields
// are updatable; unknown body fields are ignored.
func (h *RegistrationHandler) Patch(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var patch model.RegistrationPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Invalid JSON body"})
		return
	}

	reg, err := h.registrationService.Patch(r.Context(), r.PathValue("id"), patch)
	if errors.Is(err, repository.ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Registration not found"})
		return
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Failed to update registration"})
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]any{
		"success":      true,
		"registration": reg,
	})
}

// Delete handles DELETE /api/registrations/{id}.
func (h *RegistrationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	err := h.registrationService.Delete(r.Context(), r.PathValue("id"))
	if errors.Is(err, repository.ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Registration not found"})
		return
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Failed to delete registration"})
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": true,
		"message": "Registration deleted",
	})
}
