package payment

import (
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/charge"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.uber.org/zap"

	"stayhub/models"
	"stayhub/utils"
)

// StripeEventVerifier implements EventVerifier using Stripe webhook
// signatures.
type StripeEventVerifier struct {
	secret string
}

// NewStripeEventVerifier constructs a verifier with the endpoint signing
// secret.
func NewStripeEventVerifier(secret string) EventVerifier {
	return &StripeEventVerifier{secret: secret}
}

// VerifyAndParse checks the payload signature and converts the Stripe event
// into an internal payment event. Event types the platform does not react to
// yield a nil event with a nil error.
func (v *StripeEventVerifier) VerifyAndParse(payload []byte, signatureHeader string) (*models.PaymentEvent, error) {
	event, err := webhook.ConstructEvent(payload, signatureHeader, v.secret)
	if err != nil {
		return nil, fmt.Errorf("verifying webhook signature: %w", err)
	}

	var eventType models.PaymentEventType
	switch event.Type {
	case "payment_intent.succeeded":
		eventType = models.PaymentEventSucceeded
	case "payment_intent.payment_failed":
		eventType = models.PaymentEventFailed
	case "payment_intent.canceled":
		eventType = models.PaymentEventCanceled
	default:
		return nil, nil
	}

	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		return nil, fmt.Errorf("decoding payment intent from event %s: %w", event.ID, err)
	}

	parsed := &models.PaymentEvent{
		Type:      eventType,
		IntentID:  intent.ID,
		BookingID: intent.Metadata["bookingId"],
	}
	if intent.LatestCharge != nil {
		parsed.ReceiptURL = intent.LatestCharge.ReceiptURL
	}
	// Webhook payloads carry latest_charge as a bare id, not an expanded
	// object, so the receipt link has to be fetched. Best effort: a missing
	// receipt never blocks reconciliation.
	if eventType == models.PaymentEventSucceeded && parsed.ReceiptURL == "" &&
		intent.LatestCharge != nil && intent.LatestCharge.ID != "" {
		ch, err := charge.Get(intent.LatestCharge.ID, nil)
		if err != nil {
			utils.GetLogger().Warn("failed to fetch charge for receipt url",
				zap.String("chargeId", intent.LatestCharge.ID), zap.Error(err))
		} else {
			parsed.ReceiptURL = ch.ReceiptURL
		}
	}
	return parsed, nil
}
