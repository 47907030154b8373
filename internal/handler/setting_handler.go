package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/chiaview/backend/internal/model"
	"github.com/chiaview/backend/internal/repository"
	"github.com/chiaview/backend/internal/service"
)

// SettingHandler handles the website settings endpoints.
type SettingHandler struct {
	settingService service.SettingService
}

// NewSettingHandler creates a SettingHandler with the given service.
func NewSettingHandler(settingService service.SettingService) *SettingHandler {
	return &SettingHandler{settingService: settingService}
}

// List handles GET /api/settings.
func (h *SettingHandler) List(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	settings, err := h.settingService.List(r.Context())
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Failed to fetch settings"})
		return
	}

	if settings == nil {
		settings = []*model.Setting{}
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "settings": settings})
}

// Get handles GET /api/settings/{key}.
func (h *SettingHandler) Get(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	setting, err := h.settingService.Get(r.Context(), r.PathValue("key"))
	if errors.Is(err, repository.ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Setting not found"})
		return
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Failed to fetch setting"})
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "setting": setting})
}

// Upsert handles POST /api/settings. Creates the setting or replaces its
// value wholesale; there is no merging.
func (h *SettingHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var setting model.Setting
	if err := json.NewDecoder(r.Body).Decode(&setting); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Invalid JSON body"})
		return
	}

	if err := h.settingService.Upsert(r.Context(), &setting); err != nil {
		if service.IsValidation(err) {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Failed to save setting"})
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "setting": setting})
}

// Patch handles PATCH /api/settings/{key}. Unlike the upsert, the key
// comes from the path and must already exist; value and description are
// updated only when present in the body.
func (h *SettingHandler) Patch(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req struct {
		Value       json.RawMessage `json:"value"`
		Description *string         `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Invalid JSON body"})
		return
	}

	setting, err := h.settingService.Get(r.Context(), r.PathValue("key"))
	if errors.Is(err, repository.ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Setting not found"})
		return
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Failed to fetch setting"})
		return
	}

	if len(req.Value) > 0 {
		setting.Value = req.Value
	}
	if req.Description != nil {
		setting.Description = *req.Description
	}

	if err := h.settingService.Upsert(r.Context(), setting); err != nil {
		if service.IsValidation(err) {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Failed to update setting"})
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "setting": setting})
}

// Delete handles DELETE /api/settings/{key}.
func (h *SettingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	err := h.settingService.Delete(r.Context(), r.PathValue("key"))
	if errors.Is(err, repository.ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Setting not found"})
		return
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Failed to delete setting"})
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "message": "Setting deleted"})
}
