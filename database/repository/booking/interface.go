package bookingRepo

import (
	"context"
	"time"

	"stayhub/models"
)

// BookingRepository is the persistence contract for booking documents.
type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, bookingID string) (*models.Booking, error)
	GetByIntentID(ctx context.Context, intentID string) (*models.Booking, error)
	Update(ctx context.Context, booking *models.Booking) error
	UpdateFields(ctx context.Context, bookingID string, fields map[string]interface{}) error

	// HasOverlapping reports whether any booking in a hold status for the
	// given room intersects the half-open range [start, end).
	HasOverlapping(ctx context.Context, hotelID, roomID string, start, end time.Time) (bool, error)

	// ListHolds returns all inventory-holding bookings for a hotel whose
	// interval intersects [start, end) (query-level pre-filter; callers run
	// the exact overlap check).
	ListHolds(ctx context.Context, hotelID string, start, end time.Time) ([]models.Booking, error)

	ListAll(ctx context.Context) ([]models.Booking, error)
	ListByUser(ctx context.Context, userID string) ([]models.Booking, error)
	ListByHotel(ctx context.Context, hotelID string, statuses []string, userID string) ([]models.Booking, error)

	// MarkCompletedBefore promotes paid "booked" stays whose checkout has
	// passed to "completed". Returns the number promoted.
	MarkCompletedBefore(ctx context.Context, now time.Time) (int64, error)

	// ListReviewInvitePending returns completed, paid stays that checked out
	// within (since, now) and have not been invited to review yet.
	ListReviewInvitePending(ctx context.Context, since, now time.Time) ([]models.Booking, error)

	// ListStalePending returns pending bookings created before the cutoff.
	ListStalePending(ctx context.Context, cutoff time.Time) ([]models.Booking, error)

	// DeleteStalePending removes pending bookings created before the cutoff
	// (abandoned carts that never completed payment).
	DeleteStalePending(ctx context.Context, cutoff time.Time) (int64, error)

	EnsureIndexes(ctx context.Context) error
}
