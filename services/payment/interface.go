package payment

import (
	"context"

	"stayhub/models"
)

// Gateway is the payment collaborator. The booking engine only ever talks to
// this interface; Stripe specifics stay behind it.
type Gateway interface {
	// CreateIntent registers a new payment intent for the given amount in
	// minor currency units, tagged with the booking reference.
	CreateIntent(ctx context.Context, amountMinor int64, currency, bookingID string) (*models.PaymentIntent, error)

	// RetrieveIntent fetches an existing intent. The returned intent's
	// ClientSecret is populated when the intent is still confirmable.
	RetrieveIntent(ctx context.Context, intentID string) (*models.PaymentIntent, bool, error)

	// CancelIntent abandons an intent that no longer matches the booking.
	CancelIntent(ctx context.Context, intentID string) error

	// Refund refunds the full charge behind a payment intent and returns the
	// refund reference.
	Refund(ctx context.Context, intentID string) (string, error)
}

// EventVerifier authenticates raw webhook payloads and translates them into
// the internal payment event type. Reconciliation never parses transport
// payloads itself.
type EventVerifier interface {
	VerifyAndParse(payload []byte, signatureHeader string) (*models.PaymentEvent, error)
}
