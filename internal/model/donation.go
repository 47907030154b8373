package model

import "time"

// Donation records a completed payment reported by the payment provider's
// webhook. Amount is in the currency's smallest unit (cents).
type Donation struct {
	ID              string    `json:"id"`
	PaymentIntentID string    `json:"payment_intent_id"`
	Amount          int       `json:"amount"`
	Currency        string    `json:"currency"`
	DonationType    string    `json:"donation_type"` // "general" | "missions" | ...
	Category        string    `json:"category"`
	IsMonthly       bool      `json:"is_monthly"`
	CreatedAt       time.Time `json:"created_at"`
}
