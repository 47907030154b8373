package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/chiaview/backend/internal/repository"
)

// DataHandler is the server side of the named-record contract the
// api-backed datastore facade talks to. Values are opaque JSON documents
// replaced wholesale on every write.
type DataHandler struct {
	repo repository.DataStoreRepository
}

// NewDataHandler creates a DataHandler with the given repository.
func NewDataHandler(repo repository.DataStoreRepository) *DataHandler {
	return &DataHandler{repo: repo}
}

// Save handles POST /api/data/{key}. The body is the raw JSON document.
func (h *DataHandler) Save(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	body, err := io.ReadAll(r.Body)
	if err != nil || !json.Valid(body) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Body must be valid JSON"})
		return
	}

	if err := h.repo.Set(r.Context(), r.PathValue("key"), body); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Failed to save data"})
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]any{"success": true})
}

// Load handles GET /api/data/{key}. The response body is the stored
// document verbatim; a missing key is a 404 and the facade maps it to the
// caller's default.
func (h *DataHandler) Load(w http.ResponseWriter, r *http.Request) {
	value, err := h.repo.Get(r.Context(), r.PathValue("key"))
	if errors.Is(err, repository.ErrNotFound) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Data not found"})
		return
	}
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Failed to load data"})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(value)
}

// Delete handles DELETE /api/data/{key}. Deleting a missing key succeeds
// so delete stays idempotent across facade backends.
func (h *DataHandler) Delete(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if err := h.repo.Delete(r.Context(), r.PathValue("key")); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Failed to delete data"})
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]any{"success": true})
}

// Clear handles POST /api/data/clear.
func (h *DataHandler) Clear(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if err := h.repo.Clear(r.Context()); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Failed to clear data"})
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]any{"success": true})
}

// Export handles GET /api/data/export. Returns every record as one JSON
// object keyed by record name.
func (h *DataHandler) Export(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	records, err := h.repo.All(r.Context())
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Failed to export data"})
		return
	}

	_ = json.NewEncoder(w).Encode(records)
}

// Import handles POST /api/data/import. The body is a mapping of record
// names to documents; each entry upserts independently.
func (h *DataHandler) Import(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var data map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Body must be a JSON object"})
		return
	}

	for key, value := range data {
		if err := h.repo.Set(r.Context(), key, value); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "Failed to import data"})
			return
		}
	}

	_ = json.NewEncoder(w).Encode(map[string]any{
		"success":  true,
		"imported": len(data),
	})
}
