package models

// PaymentEventType classifies verified payment-processor events after the
// webhook boundary has authenticated and parsed them.
type PaymentEventType string

const (
	PaymentEventSucceeded PaymentEventType = "succeeded"
	PaymentEventFailed    PaymentEventType = "failed"
	PaymentEventCanceled  PaymentEventType = "canceled"
)

// PaymentEvent is the internal representation of a payment-processor event.
// Reconciliation never sees transport-level payloads.
type PaymentEvent struct {
	Type       PaymentEventType
	IntentID   string
	BookingID  string // from intent metadata; may be empty
	ReceiptURL string
}

// PaymentIntent is the result of creating (or reusing) a processor intent.
type PaymentIntent struct {
	IntentID     string  `json:"intentId"`
	ClientSecret string  `json:"clientSecret"`
	Amount       int64   `json:"amount"` // minor units
	Currency     string  `json:"currency"`
	AmountMajor  float64 `json:"-"`
}
