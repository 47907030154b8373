package model

import "time"

// Testimonial is a community testimonial shown on the homepage carousel.
// Image is an emoji or image URL chosen by the admin.
type Testimonial struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Category  string    `json:"category"`
	Rating    int       `json:"rating"`
	Image     string    `json:"image,omitempty"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TestimonialPatch carries partial updates for a testimonial.
type TestimonialPatch struct {
	Name      *string
	Role      *string
	Content   *string
	Category  *string
	Rating    *int
	Image     *string
	Published *bool
}
