package model

import "time"

// NewsletterSubscription is one email on the newsletter list.
type NewsletterSubscription struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	Name             string    `json:"name,omitempty"`
	Status           string    `json:"status"` // "subscribed" | "unsubscribed"
	EmailConfirmed   bool      `json:"email_confirmed"`
	SubscriptionDate time.Time `json:"subscription_date"`
}
