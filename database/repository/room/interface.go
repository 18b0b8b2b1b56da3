package roomRepo

import (
	"context"

	"stayhub/models"
)

// RoomRepository is the persistence contract for room documents.
type RoomRepository interface {
	Create(ctx context.Context, room *models.Room) error
	GetByID(ctx context.Context, roomID string) (*models.Room, error)

	// GetForHotel fetches a room only if it belongs to the given hotel.
	GetForHotel(ctx context.Context, roomID, hotelID string) (*models.Room, error)

	// ListByHotel returns a hotel's rooms; minGuests > 0 filters by total
	// occupancy capacity.
	ListByHotel(ctx context.Context, hotelID string, minGuests int) ([]models.Room, error)

	Update(ctx context.Context, room *models.Room) error
	Delete(ctx context.Context, roomID string) error
	EnsureIndexes(ctx context.Context) error
}
