package booking

import (
	"context"

	"stayhub/models"

	bookingRepo "stayhub/database/repository/booking"
	hotelRepo "stayhub/database/repository/hotel"
	offerRepo "stayhub/database/repository/offer"
	roomRepo "stayhub/database/repository/room"
	userRepo "stayhub/database/repository/user"
	"stayhub/services/loyalty"
	"stayhub/services/notification"
	"stayhub/services/payment"
)

// CreateInput is the client request to reserve a room. Dates are "YYYY-MM-DD".
type CreateInput struct {
	UserID          string
	HotelID         string
	RoomID          string
	CheckIn         string
	CheckOut        string
	Guests          int
	SpecialRequests string
	OfferCode       string
	CoinsToUse      int
}

// CreateResult carries the new booking plus, for paid bookings, the payment
// intent the client must confirm. Intent is nil for zero-cost bookings.
type CreateResult struct {
	Booking *models.Booking       `json:"booking"`
	Intent  *models.PaymentIntent `json:"paymentIntent,omitempty"`
}

// BookingService is the reservation engine: creation, pricing, lifecycle
// transitions and payment reconciliation.
type BookingService interface {
	// Create validates, prices and persists a new reservation, holding the
	// room for the requested interval.
	Create(ctx context.Context, input CreateInput) (*CreateResult, error)

	// PreviewQuote prices a prospective stay without reserving anything and
	// without consuming offer redemptions or coins.
	PreviewQuote(ctx context.Context, input CreateInput) (*Quote, error)

	// GetByID returns a booking; non-admin requesters may only see their own.
	GetByID(ctx context.Context, bookingID, requesterID string, admin bool) (*models.Booking, error)

	ListForUser(ctx context.Context, userID string) ([]models.Booking, error)
	ListForHotel(ctx context.Context, hotelID string, statuses []string, userID string) ([]models.Booking, error)
	ListAll(ctx context.Context) ([]models.Booking, error)

	// Cancel cancels a booking, refund-first: if the refund fails, the
	// booking is left untouched.
	Cancel(ctx context.Context, bookingID, requesterID string, admin bool) (*models.Booking, error)

	// Refund issues (or idempotently re-reports) a refund without changing
	// the stay status. Admin only.
	Refund(ctx context.Context, bookingID string) (*models.Booking, error)

	// CheckIn and Complete advance the stay through its terminal phases.
	CheckIn(ctx context.Context, bookingID string) (*models.Booking, error)
	Complete(ctx context.Context, bookingID string) (*models.Booking, error)

	// RetryPayment returns a confirmable intent for an unpaid pending
	// booking, reusing the existing intent when possible.
	RetryPayment(ctx context.Context, bookingID, requesterID string) (*models.PaymentIntent, error)

	// ResendConfirmation emails the confirmation for a paid booking again.
	ResendConfirmation(ctx context.Context, bookingID, requesterID string, admin bool) error

	// HandlePaymentEvent applies a verified payment-processor event to the
	// matching booking. It is idempotent: replays change nothing.
	HandlePaymentEvent(ctx context.Context, event *models.PaymentEvent) error
}

// DefaultBookingService is the production implementation.
type DefaultBookingService struct {
	bookings bookingRepo.BookingRepository
	hotels   hotelRepo.HotelRepository
	rooms    roomRepo.RoomRepository
	offers   offerRepo.OfferRepository
	users    userRepo.UserRepository
	loyalty  loyalty.LoyaltyService
	gateway  payment.Gateway
	mailer   notification.Mailer
	locker   Locker
}

// NewBookingService wires the reservation engine.
func NewBookingService(
	bookings bookingRepo.BookingRepository,
	hotels hotelRepo.HotelRepository,
	rooms roomRepo.RoomRepository,
	offers offerRepo.OfferRepository,
	users userRepo.UserRepository,
	loyaltySvc loyalty.LoyaltyService,
	gateway payment.Gateway,
	mailer notification.Mailer,
	locker Locker,
) BookingService {
	return &DefaultBookingService{
		bookings: bookings,
		hotels:   hotels,
		rooms:    rooms,
		offers:   offers,
		users:    users,
		loyalty:  loyaltySvc,
		gateway:  gateway,
		mailer:   mailer,
		locker:   locker,
	}
}
