package model

import (
	"encoding/json"
	"time"
)

// FormSubmission is one submission of any public form, stored with its
// full payload intact. Data is the authoritative record; the flattened
// FieldResponse rows are a queryable projection of it.
type FormSubmission struct {
	ID        string          `json:"id"`
	FormName  string          `json:"form_name"`
	FormType  string          `json:"form_type"`
	Email     string          `json:"email,omitempty"`
	Name      string          `json:"name,omitempty"`
	Phone     string          `json:"phone,omitempty"`
	Data      json.RawMessage `json:"data"`
	Status    string          `json:"status"` // "new" | "read" | "processed" | "archived"
	IPAddress string          `json:"ip_address,omitempty"`
	UserAgent string          `json:"user_agent,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// FieldResponse is one top-level field of a submission's payload,
// flattened into its own row for per-field querying.
type FieldResponse struct {
	ID               string    `json:"id"`
	FormSubmissionID string    `json:"form_submission_id"`
	FieldName        string    `json:"field_name"`
	FieldValue       string    `json:"field_value"`
	FieldType        string    `json:"field_type"` // "string" | "number" | "boolean" | "object"
	CreatedAt        time.Time `json:"created_at"`
}

// FormListOptions carries filter and paging parameters for the admin
// submission list. Empty filters match all submissions.
type FormListOptions struct {
	FormName string
	FormType string
	Status   string
	Limit    int
	Offset   int
}
