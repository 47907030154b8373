// Package payment provides a lightweight Stripe API client for the
// donation checkout. Uses raw HTTP calls (no SDK) to minimize external
// dependencies.
package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// IntentParams carries the parameters for creating a payment intent.
// Amount is in whole currency units (dollars); the client converts to
// cents before calling Stripe.
type IntentParams struct {
	Amount       float64
	Currency     string // defaults to "usd"
	DonationType string // "general" | "missions" | ... — stored as metadata
	Category     string
	IsMonthly    bool
	Metadata     map[string]string
}

// Intent is the subset of a Stripe payment intent the site needs: the
// client secret goes to the browser, the ID is kept for reconciliation.
type Intent struct {
	ID           string
	ClientSecret string
}

// WebhookEventObject is the data.object of a payment_intent event.
type WebhookEventObject struct {
	ID       string            `json:"id"`
	Amount   int               `json:"amount"`
	Currency string            `json:"currency"`
	Metadata map[string]string `json:"metadata"`
}

// WebhookEvent is one Stripe webhook event.
type WebhookEvent struct {
	Type string `json:"type"`
	ID   string `json:"id"`
	Data struct {
		Object WebhookEventObject `json:"object"`
	} `json:"data"`
}

// Client is the payment provider interface.
type Client interface {
	// CreatePaymentIntent creates a Stripe payment intent and returns its
	// ID and client secret.
	CreatePaymentIntent(ctx context.Context, params IntentParams) (Intent, error)
	// VerifyWebhookSignature validates the Stripe-Signature header.
	VerifyWebhookSignature(payload []byte, sigHeader string) error
	// ParseWebhookEvent parses a webhook payload.
	ParseWebhookEvent(payload []byte) (WebhookEvent, error)
}

// ErrNotConfigured is returned when no Stripe keys are configured.
var ErrNotConfigured = errors.New("payment: not configured")

// RealClient is the raw HTTP client implementation of Client.
type RealClient struct {
	SecretKey     string
	WebhookSecret string // whsec_...
	httpClient    *http.Client
}

// NewClient creates a RealClient. Empty keys leave the client in a
// not-configured state where every call returns ErrNotConfigured.
func NewClient(secretKey, webhookSecret string) *RealClient {
	return &RealClient{
		SecretKey:     secretKey,
		WebhookSecret: webhookSecret,
		httpClient:    &http.Client{Timeout: 30 * time.Second},
	}
}

var _ Client = (*RealClient)(nil)

// CreatePaymentIntent creates a payment intent with automatic payment
// methods enabled and the donation attributes attached as metadata.
func (c *RealClient) CreatePaymentIntent(ctx context.Context, params IntentParams) (Intent, error) {
	if c.SecretKey == "" {
		return Intent{}, ErrNotConfigured
	}

	currency := params.Currency
	if currency == "" {
		currency = "usd"
	}
	donationType := params.DonationType
	if donationType == "" {
		donationType = "general"
	}
	category := params.Category
	if category == "" {
		category = "general"
	}

	cents := int(params.Amount*100 + 0.5)

	data := url.Values{}
	data.Set("amount", strconv.Itoa(cents))
	data.Set("currency", currency)
	data.Set("automatic_payment_methods[enabled]", "true")
	data.Set("metadata[donationType]", donationType)
	data.Set("metadata[category]", category)
	data.Set("metadata[isMonthly]", strconv.FormatBool(params.IsMonthly))
	for k, v := range params.Metadata {
		data.Set("metadata["+k+"]", v)
	}

	kind := "One-time"
	if params.IsMonthly {
		kind = "Monthly"
	}
	description := fmt.Sprintf("Chia View %s Donation", kind)
	if params.Category != "" {
		description += " - " + params.Category
	}
	data.Set("description", description)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		"https://api.stripe.com/v1/payment_intents",
		strings.NewReader(data.Encode()))
	if err != nil {
		return Intent{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.SecretKey, "")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Intent{}, err
	}
	defer resp.Body.Close()

	var result struct {
		ID           string `json:"id"`
		ClientSecret string `json:"client_secret"`
		Error        *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Intent{}, err
	}
	if result.Error != nil {
		return Intent{}, fmt.Errorf("stripe payment intent: %s", result.Error.Message)
	}
	if result.ID == "" || result.ClientSecret == "" {
		return Intent{}, errors.New("stripe payment intent: incomplete response")
	}
	return Intent{ID: result.ID, ClientSecret: result.ClientSecret}, nil
}

// VerifyWebhookSignature validates the Stripe-Signature header against the
// webhook secret. Rejects timestamps older than five minutes.
func (c *RealClient) VerifyWebhookSignature(payload []byte, sigHeader string) error {
	if c.WebhookSecret == "" {
		return ErrNotConfigured
	}

	var timestamp string
	var signatures []string
	for _, part := range strings.Split(sigHeader, ",") {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			timestamp = kv[1]
		case "v1":
			signatures = append(signatures, kv[1])
		}
	}
	if timestamp == "" || len(signatures) == 0 {
		return errors.New("payment: invalid signature header format")
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return errors.New("payment: invalid timestamp in signature header")
	}
	if time.Since(time.Unix(ts, 0)) > 5*time.Minute {
		return errors.New("payment: webhook timestamp too old (replay attack protection)")
	}

	mac := hmac.New(sha256.New, []byte(c.WebhookSecret))
	mac.Write([]byte(timestamp + "." + string(payload)))
	expected := hex.EncodeToString(mac.Sum(nil))

	for _, sig := range signatures {
		if hmac.Equal([]byte(sig), []byte(expected)) {
			return nil
		}
	}
	return errors.New("payment: signature verification failed")
}

// ParseWebhookEvent parses a webhook payload's event type and object.
func (c *RealClient) ParseWebhookEvent(payload []byte) (WebhookEvent, error) {
	var event WebhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return WebhookEvent{}, err
	}
	return event, nil
}
