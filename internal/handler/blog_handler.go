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

// BlogHandler handles the public blog listing and the admin CRUD
// endpoints.
type BlogHandler struct {
	blogService service.BlogService
}

// NewBlogHandler creates a BlogHandler with the given service.
func NewBlogHandler(blogService service.BlogService) *BlogHandler {
	return &BlogHandler{blogService: blogService}
}

// triState parses a "true"/"false" query param into an optional filter.
// Any other value (including absence) means "don't filter".
func triState(v string) *bool {
	switch v {
	case "true":
		t := true
		return &t
	case "false":
		f := false
		return &f
	}
	return nil
}

// blogPostRequest is the expected JSON body for create and update.
type blogPostRequest struct {
	Title     *string `json:"title"`
	Category  *string `json:"category"`
	Excerpt   *string `json:"excerpt"`
	Content   *string `json:"content"`
	ImageURL  *string `json:"image_url"`
	Featured  *bool   `json:"featured"`
	Published *bool   `json:"published"`
}

func strValue(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func boolValue(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

// List handles GET /api/blogposts.
// Supports query params: query, category ("All" = no filter),
// published/featured ("true"/"false"), limit (default 20, max 100), offset.
func (h *BlogHandler) List(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	q := r.URL.Query()
	opts := model.BlogListOptions{
		Query:     q.Get("query"),
		Category:  q.Get("category"),
		Published: triState(q.Get("published")),
		Featured:  triState(q.Get("featured")),
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

	posts, total, err := h.blogService.List(r.Context(), opts)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Failed to fetch posts"})
		return
	}

	if posts == nil {
		posts = []*model.BlogPost{}
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": true,
		"posts":   posts,
		"count":   len(posts),
		"total":   total,
	})
}

// Get handles GET /api/blogposts/{id}.
func (h *BlogHandler) Get(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	post, err := h.blogService.Get(r.Context(), r.PathValue("id"))
	if errors.Is(err, repository.ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Post not found"})
		return
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Failed to fetch post"})
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "post": post})
}

// Create handles POST /api/blogposts.
func (h *BlogHandler) Create(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req blogPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Invalid JSON body"})
		return
	}

	post := &model.BlogPost{
		Title:     strValue(req.Title),
		Category:  strValue(req.Category),
		Excerpt:   strValue(req.Excerpt),
		Content:   strValue(req.Content),
		ImageURL:  strValue(req.ImageURL),
		Featured:  boolValue(req.Featured, false),
		Published: boolValue(req.Published, true),
	}

	if err := h.blogService.Create(r.Context(), post); err != nil {
		if service.IsValidation(err) {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Failed to create post"})
		return
	}

	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "post": post})
}

// Patch handles PATCH /api/blogposts/{id}.
func (h *BlogHandler) Patch(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req blogPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Invalid JSON body"})
		return
	}

	post, err := h.blogService.Patch(r.Context(), r.PathValue("id"), model.BlogPostPatch{
		Title:     req.Title,
		Category:  req.Category,
		Excerpt:   req.Excerpt,
		Content:   req.Content,
		ImageURL:  req.ImageURL,
		Featured:  req.Featured,
		Published: req.Published,
	})
	if errors.Is(err, repository.ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Post not found"})
		return
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Failed to update post"})
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "post": post})
}

// Delete handles DELETE /api/blogposts/{id}.
func (h *BlogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	err := h.blogService.Delete(r.Context(), r.PathValue("id"))
	if errors.Is(err, repository.ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Post not found"})
		return
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Failed to delete post"})
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "message": "Post deleted"})
}
