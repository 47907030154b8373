package model

import "time"

// BlogPost is one article on the public blog.
type BlogPost struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Category  string    `json:"category"`
	Excerpt   string    `json:"excerpt"`
	Content   string    `json:"content"`
	ImageURL  string    `json:"image_url,omitempty"`
	Featured  bool      `json:"featured"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BlogListOptions filters and paginates the blog listing.
// Query matches title or excerpt (case-insensitive substring).
// Category "" or "All" matches every category. Published/Featured nil
// means "don't filter".
type BlogListOptions struct {
	Query     string
	Category  string
	Published *bool
	Featured  *bool
	Limit     int
	Offset    int
}

// BlogPostPatch carries partial updates for a blog post. Nil fields are
// left unchanged.
type BlogPostPatch struct {
	Title     *string
	Category  *string
	Excerpt   *string
	Content   *string
	ImageURL  *string
	Featured  *bool
	Published *bool
}
