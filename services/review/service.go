package review

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	bookingRepo "stayhub/database/repository/booking"
	hotelRepo "stayhub/database/repository/hotel"
	reviewRepo "stayhub/database/repository/review"
	"stayhub/models"
	"stayhub/utils"
)

// ReviewService accepts guest reviews for completed stays and keeps the
// hotel's rating aggregates current.
type ReviewService interface {
	// Create records a review for a completed stay. One review per booking.
	Create(ctx context.Context, userID, bookingID string, rating int, comment string) (*models.Review, error)
	ListByHotel(ctx context.Context, hotelID string) ([]models.Review, error)
}

// DefaultReviewService is the production implementation.
type DefaultReviewService struct {
	reviews  reviewRepo.ReviewRepository
	bookings bookingRepo.BookingRepository
	hotels   hotelRepo.HotelRepository
}

// NewReviewService constructs a DefaultReviewService.
func NewReviewService(
	reviews reviewRepo.ReviewRepository,
	bookings bookingRepo.BookingRepository,
	hotels hotelRepo.HotelRepository,
) ReviewService {
	return &DefaultReviewService{reviews: reviews, bookings: bookings, hotels: hotels}
}

func (s *DefaultReviewService) Create(ctx context.Context, userID, bookingID string, rating int, comment string) (*models.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, utils.ValidationError("rating must be between 1 and 5")
	}

	bkg, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return nil, utils.NotFoundError("booking not found")
		}
		return nil, utils.StoreError("failed to fetch booking", err)
	}
	if bkg.UserID != userID {
		return nil, utils.UnauthorizedError("not your booking")
	}
	if bkg.Status != models.BookingCompleted {
		return nil, utils.ValidationError("only completed stays can be reviewed")
	}

	rev := &models.Review{
		ID:        uuid.NewString(),
		HotelID:   bkg.HotelID,
		UserID:    userID,
		BookingID: bookingID,
		Rating:    rating,
		Comment:   strings.TrimSpace(comment),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.reviews.Create(ctx, rev); err != nil {
		if errors.Is(err, reviewRepo.ErrDuplicate) {
			return nil, utils.ConflictError("this stay has already been reviewed")
		}
		return nil, utils.StoreError("failed to create review", err)
	}

	if err := s.hotels.ApplyRating(ctx, bkg.HotelID, rating); err != nil {
		return nil, utils.StoreError("failed to update hotel rating", err)
	}
	return rev, nil
}

func (s *DefaultReviewService) ListByHotel(ctx context.Context, hotelID string) ([]models.Review, error) {
	reviews, err := s.reviews.ListByHotel(ctx, hotelID)
	if err != nil {
		return nil, utils.StoreError("failed to list reviews", err)
	}
	return reviews, nil
}
