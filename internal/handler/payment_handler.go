package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/chiaview/backend/internal/model"
	"github.com/chiaview/backend/internal/service"
	"github.com/chiaview/backend/pkg/payment"
)

// PaymentHandler handles payment intent creation and the provider
// webhook.
type PaymentHandler struct {
	client          payment.Client
	donationService service.DonationService
}

// NewPaymentHandler creates a PaymentHandler with the given client and
// donation service.
func NewPaymentHandler(client payment.Client, donationService service.DonationService) *PaymentHandler {
	return &PaymentHandler{client: client, donationService: donationService}
}

// createIntentRequest is the expected JSON body for
// POST /api/stripe/create-payment-intent. Amount is in whole dollars.
type createIntentRequest struct {
	Amount       float64 `json:"amount"`
	Currency     string  `json:"currency"`
	DonationType string  `json:"donationType"`
	Category     string  `json:"category"`
	IsMonthly    bool    `json:"isMonthly"`
}

// CreateIntent handles POST /api/stripe/create-payment-intent.
func (h *PaymentHandler) CreateIntent(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req createIntentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Invalid JSON body"})
		return
	}
	if req.Amount < 1 {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Amount must be at least 1"})
		return
	}

	intent, err := h.client.CreatePaymentIntent(r.Context(), payment.IntentParams{
		Amount:       req.Amount,
		Currency:     req.Currency,
		DonationType: req.DonationType,
		Category:     req.Category,
		IsMonthly:    req.IsMonthly,
	})
	if errors.Is(err, payment.ErrNotConfigured) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Payments are not configured"})
		return
	}
	if err != nil {
		slog.Error("payment intent creation failed", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Failed to create payment intent"})
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]any{
		"success":         true,
		"clientSecret":    intent.ClientSecret,
		"paymentIntentId": intent.ID,
	})
}

// Webhook handles POST /api/stripe/webhook.
// Verifies the Stripe-Signature header and records succeeded payment
// intents as donations. Unhandled event types are acknowledged and
// ignored.
func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	sigHeader := r.Header.Get("Stripe-Signature")
	if sigHeader == "" {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "missing_signature"})
		return
	}

	payload, err := io.ReadAll(r.Body)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "read_body_failed"})
		return
	}

	if err := h.client.VerifyWebhookSignature(payload, sigHeader); err != nil {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "signature_verification_failed"})
		return
	}

	event, err := h.client.ParseWebhookEvent(payload)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_payload"})
		return
	}

	if event.Type == "payment_intent.succeeded" {
		obj := event.Data.Object
		donation := &model.Donation{
			PaymentIntentID: obj.ID,
			Amount:          obj.Amount,
			Currency:        obj.Currency,
			DonationType:    obj.Metadata["donationType"],
			Category:        obj.Metadata["category"],
			IsMonthly:       obj.Metadata["isMonthly"] == "true",
		}
		if err := h.donationService.Record(r.Context(), donation); err != nil {
			slog.Error("donation record failed", "payment_intent_id", obj.ID, "error", err)
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "webhook_processing_failed"})
			return
		}
	}

	_ = json.NewEncoder(w).Encode(map[string]bool{"received": true})
}
