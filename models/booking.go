package models

import "time"

// Booking lifecycle statuses.
const (
	BookingPending   = "pending"
	BookingBooked    = "booked"
	BookingCheckedIn = "checkedIn"
	BookingCancelled = "cancelled"
	BookingCompleted = "completed"
)

// Payment statuses. These evolve independently of the booking status and are
// cross-validated by the booking state machine.
const (
	PaymentPending   = "pending"
	PaymentPaid      = "paid"
	PaymentRefunded  = "refunded"
	PaymentFailed    = "failed"
	PaymentCancelled = "cancelled"
)

// HoldStatuses are the booking statuses that hold room inventory for
// availability purposes.
var HoldStatuses = []string{BookingPending, BookingBooked, BookingCheckedIn, BookingCompleted}

// EmergencyContactSnapshot is copied from the hotel at booking time so later
// hotel edits do not retroactively alter historic booking records.
type EmergencyContactSnapshot struct {
	HotelName      string `bson:"hotelName" json:"hotelName"`
	Name           string `bson:"name" json:"name"`
	Phone          string `bson:"phone" json:"phone"`
	Role           string `bson:"role" json:"role"`
	AvailableHours string `bson:"availableHours" json:"availableHours"`
}

// Booking is the central reservation record. The interval [CheckIn, CheckOut)
// is half-open with both endpoints at UTC midnight.
type Booking struct {
	ID      string `bson:"_id" json:"id"`
	UserID  string `bson:"userId" json:"userId"`
	HotelID string `bson:"hotelId" json:"hotelId"`
	RoomID  string `bson:"roomId" json:"roomId"`

	CheckIn  time.Time `bson:"checkIn" json:"checkIn"`
	CheckOut time.Time `bson:"checkOut" json:"checkOut"`

	Guests          int    `bson:"guests" json:"guests"`
	SpecialRequests string `bson:"specialRequests,omitempty" json:"specialRequests,omitempty"`

	// Server-trusted amounts in major currency units. Multiply by 100 when charging.
	TotalAmount    float64 `bson:"totalAmount" json:"totalAmount"`
	DiscountAmount float64 `bson:"discountAmount" json:"discountAmount"`
	FinalAmount    float64 `bson:"finalAmount" json:"finalAmount"`
	Currency       string  `bson:"currency" json:"currency"`

	OfferCode          string `bson:"offerCode,omitempty" json:"offerCode,omitempty"`
	LoyaltyCoinsUsed   int    `bson:"loyaltyCoinsUsed" json:"loyaltyCoinsUsed"`
	LoyaltyCoinsEarned int    `bson:"loyaltyCoinsEarned" json:"loyaltyCoinsEarned"`

	Status        string `bson:"status" json:"status"`
	PaymentStatus string `bson:"paymentStatus" json:"paymentStatus"`

	// Stripe linkage, populated only once payment events occur.
	StripePaymentIntentID string `bson:"stripePaymentIntentId,omitempty" json:"stripePaymentIntentId,omitempty"`
	TransactionID         string `bson:"transactionId,omitempty" json:"transactionId,omitempty"`
	RefundID              string `bson:"refundId,omitempty" json:"refundId,omitempty"`
	PaymentReceiptURL     string `bson:"paymentReceiptUrl,omitempty" json:"paymentReceiptUrl,omitempty"`

	EmergencyContactSnapshot EmergencyContactSnapshot `bson:"emergencyContactSnapshot" json:"emergencyContactSnapshot"`

	// Idempotency guards against duplicate async side effects.
	EmailConfirmedSent bool `bson:"emailConfirmedSent" json:"emailConfirmedSent"`
	ReviewInviteSent   bool `bson:"reviewInviteSent" json:"reviewInviteSent"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// HoldsInventory reports whether this booking blocks its room for other guests.
func (b *Booking) HoldsInventory() bool {
	for _, s := range HoldStatuses {
		if b.Status == s {
			return true
		}
	}
	return false
}

// InvoiceTotals is the canonical money breakdown shown on invoices.
type InvoiceTotals struct {
	Subtotal     float64 `json:"subtotal"`
	Discount     float64 `json:"discount"`
	CoinsApplied int     `json:"coinsApplied"`
	Total        float64 `json:"total"`
	Currency     string  `json:"currency"`
}

// Totals derives the invoice breakdown from the stored snapshot amounts.
func (b *Booking) Totals() InvoiceTotals {
	return InvoiceTotals{
		Subtotal:     b.TotalAmount,
		Discount:     b.DiscountAmount,
		CoinsApplied: b.LoyaltyCoinsUsed,
		Total:        b.FinalAmount,
		Currency:     b.Currency,
	}
}
