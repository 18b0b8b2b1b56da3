package offerRepo

import (
	"context"

	"stayhub/models"
)

// ListFilter narrows offer listings.
type ListFilter struct {
	HotelID string
	Status  string // "", "active", or "expired"
}

// OfferRepository is the persistence contract for offer documents.
type OfferRepository interface {
	Create(ctx context.Context, offer *models.Offer) error
	GetByID(ctx context.Context, offerID string) (*models.Offer, error)

	// GetByCode resolves an offer by its hotel-scoped normalized code.
	GetByCode(ctx context.Context, hotelID, code string) (*models.Offer, error)

	Update(ctx context.Context, offer *models.Offer) error
	Deactivate(ctx context.Context, offerID string) (*models.Offer, error)
	List(ctx context.Context, filter ListFilter) ([]models.Offer, error)

	// IncrementRedemptions bumps the redemption counter with a single atomic
	// $inc; never read-modify-write.
	IncrementRedemptions(ctx context.Context, hotelID, code string) error

	EnsureIndexes(ctx context.Context) error
}
