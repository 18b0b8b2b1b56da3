package hotelRepo

import (
	"context"

	"stayhub/models"
)

// HotelRepository is the persistence contract for hotel documents.
type HotelRepository interface {
	Create(ctx context.Context, hotel *models.Hotel) error
	GetByID(ctx context.Context, hotelID string) (*models.Hotel, error)
	Update(ctx context.Context, hotel *models.Hotel) error
	UpdateFields(ctx context.Context, hotelID string, fields map[string]interface{}) error
	Delete(ctx context.Context, hotelID string) error
	List(ctx context.Context, activeOnly bool) ([]models.Hotel, error)

	// ApplyRating folds a new review rating into the hotel's aggregates with
	// a single atomic pipeline update.
	ApplyRating(ctx context.Context, hotelID string, rating int) error

	EnsureIndexes(ctx context.Context) error
}
