package offer

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	hotelRepo "stayhub/database/repository/hotel"
	offerRepo "stayhub/database/repository/offer"
	"stayhub/models"
	"stayhub/utils"
)

// OfferService manages hotel discount codes.
type OfferService interface {
	Create(ctx context.Context, offer *models.Offer) (*models.Offer, error)
	GetByID(ctx context.Context, offerID string) (*models.Offer, error)
	Update(ctx context.Context, offer *models.Offer) error
	Deactivate(ctx context.Context, offerID string) (*models.Offer, error)
	List(ctx context.Context, filter offerRepo.ListFilter) ([]models.Offer, error)
}

// DefaultOfferService is the production implementation.
type DefaultOfferService struct {
	offers offerRepo.OfferRepository
	hotels hotelRepo.HotelRepository
}

// NewOfferService constructs a DefaultOfferService.
func NewOfferService(offers offerRepo.OfferRepository, hotels hotelRepo.HotelRepository) OfferService {
	return &DefaultOfferService{offers: offers, hotels: hotels}
}

func validateOffer(offer *models.Offer) error {
	offer.Code = strings.ToUpper(strings.TrimSpace(offer.Code))
	if offer.Code == "" {
		return utils.ValidationError("offer code is required")
	}
	if offer.DiscountFlat <= 0 && offer.DiscountPercent <= 0 {
		return utils.ValidationError("either a flat or a percentage discount is required")
	}
	if offer.DiscountPercent < 0 || offer.DiscountPercent > 100 {
		return utils.ValidationError("percentage discount must be between 0 and 100")
	}
	if offer.DiscountFlat < 0 || offer.MaxDiscountAmount < 0 || offer.MinBookingAmount < 0 {
		return utils.ValidationError("amounts must not be negative")
	}
	if !offer.ValidTo.After(offer.ValidFrom) {
		return utils.ValidationError("offer validity window is empty")
	}
	return nil
}

func (s *DefaultOfferService) Create(ctx context.Context, offer *models.Offer) (*models.Offer, error) {
	if err := validateOffer(offer); err != nil {
		return nil, err
	}
	if _, err := s.hotels.GetByID(ctx, offer.HotelID); err != nil {
		if errors.Is(err, hotelRepo.ErrNotFound) {
			return nil, utils.NotFoundError("hotel not found")
		}
		return nil, utils.StoreError("failed to fetch hotel", err)
	}

	now := time.Now().UTC()
	offer.ID = uuid.NewString()
	offer.IsActive = true
	offer.RedemptionCount = 0
	offer.CreatedAt = now
	offer.UpdatedAt = now

	if err := s.offers.Create(ctx, offer); err != nil {
		if errors.Is(err, offerRepo.ErrDuplicateCode) {
			return nil, utils.ConflictError("this hotel already has an offer with that code")
		}
		return nil, utils.StoreError("failed to create offer", err)
	}
	return offer, nil
}

func (s *DefaultOfferService) GetByID(ctx context.Context, offerID string) (*models.Offer, error) {
	offer, err := s.offers.GetByID(ctx, offerID)
	if err != nil {
		if errors.Is(err, offerRepo.ErrNotFound) {
			return nil, utils.NotFoundError("offer not found")
		}
		return nil, utils.StoreError("failed to fetch offer", err)
	}
	return offer, nil
}

func (s *DefaultOfferService) Update(ctx context.Context, offer *models.Offer) error {
	if err := validateOffer(offer); err != nil {
		return err
	}
	existing, err := s.GetByID(ctx, offer.ID)
	if err != nil {
		return err
	}
	// The code and hotel binding are immutable; redemption counts are owned
	// by the booking flow.
	offer.HotelID = existing.HotelID
	offer.Code = existing.Code
	offer.RedemptionCount = existing.RedemptionCount
	offer.CreatedAt = existing.CreatedAt
	if err := s.offers.Update(ctx, offer); err != nil {
		return utils.StoreError("failed to update offer", err)
	}
	return nil
}

func (s *DefaultOfferService) Deactivate(ctx context.Context, offerID string) (*models.Offer, error) {
	offer, err := s.offers.Deactivate(ctx, offerID)
	if err != nil {
		if errors.Is(err, offerRepo.ErrNotFound) {
			return nil, utils.NotFoundError("offer not found")
		}
		return nil, utils.StoreError("failed to deactivate offer", err)
	}
	return offer, nil
}

func (s *DefaultOfferService) List(ctx context.Context, filter offerRepo.ListFilter) ([]models.Offer, error) {
	offers, err := s.offers.List(ctx, filter)
	if err != nil {
		return nil, utils.StoreError("failed to list offers", err)
	}
	return offers, nil
}
