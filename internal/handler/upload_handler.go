package handler

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"net/http"
	"path"

	"github.com/chiaview/backend/internal/storage"
)

const maxImageSize = 2 << 20 // 2 MB

var allowedContentTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// UploadHandler handles admin media uploads. Returned URLs go into blog
// post image_url and testimonial image fields.
type UploadHandler struct {
	storage storage.Storage
}

// NewUploadHandler creates an UploadHandler with the given storage.
func NewUploadHandler(store storage.Storage) *UploadHandler {
	return &UploadHandler{storage: store}
}

// Upload handles POST /api/admin/uploads (multipart field "image").
// The optional "folder" field groups files (defaults to "media").
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "File too large"})
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Missing image file"})
		return
	}
	defer file.Close()

	if header.Size > maxImageSize {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "File too large"})
		return
	}

	ct := header.Header.Get("Content-Type")
	ext, ok := allowedContentTypes[ct]
	if !ok {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Unsupported image type"})
		return
	}

	folder := r.FormValue("folder")
	if folder == "" || folder != path.Base(folder) {
		folder = "media"
	}

	b := make([]byte, 16)
	_, _ = rand.Read(b)
	key := path.Join(folder, hex.EncodeToString(b)+ext)

	imageURL, err := h.storage.Save(r.Context(), key, file, ct)
	if err != nil {
		slog.Error("image upload failed", "key", key, "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Upload failed"})
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]any{
		"success":   true,
		"image_url": imageURL,
	})
}

// Delete handles DELETE /api/admin/uploads/{key...}.
func (h *UploadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	key := r.PathValue("key")
	if key == "" {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Missing key"})
		return
	}

	if err := h.storage.Delete(r.Context(), key); err != nil {
		slog.Error("image delete failed", "key", key, "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Delete failed"})
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]any{"success": true})
}
