package handlers

import (
	"stayhub/services/availability"
	"stayhub/services/booking"
	"stayhub/services/hotel"
	"stayhub/services/loyalty"
	"stayhub/services/offer"
	"stayhub/services/payment"
	"stayhub/services/review"
	"stayhub/services/room"
	"stayhub/services/user"
)

// HandlerBundle groups every HTTP handler set with its service dependencies,
// so route registration receives a single value.
type HandlerBundle struct {
	Auth         *AuthHandler
	User         *UserHandler
	Hotel        *HotelHandler
	Room         *RoomHandler
	Offer        *OfferHandler
	Booking      *BookingHandler
	Availability *AvailabilityHandler
	Review       *ReviewHandler
	Webhook      *WebhookHandler
}

// NewHandlerBundle wires handlers over the service layer.
func NewHandlerBundle(
	userSvc user.UserService,
	hotelSvc hotel.HotelService,
	roomSvc room.RoomService,
	offerSvc offer.OfferService,
	bookingSvc booking.BookingService,
	availabilitySvc availability.AvailabilityService,
	reviewSvc review.ReviewService,
	loyaltySvc loyalty.LoyaltyService,
	verifier payment.EventVerifier,
) *HandlerBundle {
	return &HandlerBundle{
		Auth:         &AuthHandler{users: userSvc},
		User:         &UserHandler{users: userSvc, loyalty: loyaltySvc},
		Hotel:        &HotelHandler{hotels: hotelSvc},
		Room:         &RoomHandler{rooms: roomSvc},
		Offer:        &OfferHandler{offers: offerSvc},
		Booking:      &BookingHandler{bookings: bookingSvc},
		Availability: &AvailabilityHandler{availability: availabilitySvc},
		Review:       &ReviewHandler{reviews: reviewSvc},
		Webhook:      &WebhookHandler{verifier: verifier, bookings: bookingSvc},
	}
}
