package model

import "time"

// Opportunity is a volunteer opportunity shown on the Volunteer page.
// Time is a free-form schedule description ("Saturdays 9am-12pm"), not a
// timestamp.
type Opportunity struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Time        string    `json:"time"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Published   bool      `json:"published"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// OpportunityListOptions filters and paginates the opportunity listing.
type OpportunityListOptions struct {
	Query     string
	Category  string
	Published *bool
	Limit     int
	Offset    int
}

// OpportunityPatch carries partial updates for an opportunity.
type OpportunityPatch struct {
	Title       *string
	Time        *string
	Description *string
	Category    *string
	Published   *bool
}
