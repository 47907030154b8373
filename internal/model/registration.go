package model

import "time"

// Registration is a member account created through the public
// registration form. PasswordHash never serializes.
type Registration struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Email            string     `json:"email"`
	Phone            string     `json:"phone,omitempty"`
	PasswordHash     string     `json:"-"`
	RegistrationType string     `json:"registration_type"` // "member" | "volunteer" | "partner"
	Status           string     `json:"status"`            // "active" | "inactive" | "suspended"
	EmailVerified    bool       `json:"email_verified"`
	EmailVerifiedAt  *time.Time `json:"email_verified_at,omitempty"`
	DateOfBirth      string     `json:"date_of_birth,omitempty"`
	Address          string     `json:"address,omitempty"`
	City             string     `json:"city,omitempty"`
	State            string     `json:"state,omitempty"`
	Country          string     `json:"country,omitempty"`
	PostalCode       string     `json:"postal_code,omitempty"`
	IPAddress        string     `json:"ip_address,omitempty"`
	UserAgent        string     `json:"user_agent,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// RegistrationSummary is the non-sensitive projection used by the admin
// list view.
type RegistrationSummary struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Phone            string    `json:"phone,omitempty"`
	RegistrationType string    `json:"registration_type"`
	Status           string    `json:"status"`
	EmailVerified    bool      `json:"email_verified"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// RegistrationListOptions carries filter parameters for the admin
// registration list.
type RegistrationListOptions struct {
	Status string
	Type   string
}

// RegistrationPatch carries the admin-updatable fields. Nil fields are
// left untouched.
type RegistrationPatch struct {
	Name          *string `json:"name"`
	Phone         *string `json:"phone"`
	Status        *string `json:"status"`
	EmailVerified *bool   `json:"email_verified"`
	DateOfBirth   *string `json:"date_of_birth"`
	Address       *string `json:"address"`
	City          *string `json:"city"`
	State         *string `json:"state"`
	Country       *string `json:"country"`
	PostalCode    *string `json:"postal_code"`
}
