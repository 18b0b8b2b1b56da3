package hotel

import (
	"context"
	"errors"
	"mime/multipart"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	hotelRepo "stayhub/database/repository/hotel"
	"stayhub/models"
	"stayhub/utils"
)

// HotelService manages the hotel catalog.
type HotelService interface {
	Create(ctx context.Context, hotel *models.Hotel) (*models.Hotel, error)
	GetByID(ctx context.Context, hotelID string) (*models.Hotel, error)
	Update(ctx context.Context, hotel *models.Hotel) error
	SetActive(ctx context.Context, hotelID string, active bool) error
	Delete(ctx context.Context, hotelID string) error
	List(ctx context.Context, includeInactive bool) ([]models.Hotel, error)
	AddImage(ctx context.Context, hotelID string, file multipart.File) (*models.Image, error)
	RemoveImage(ctx context.Context, hotelID, publicID string) error
}

// DefaultHotelService is the production implementation.
type DefaultHotelService struct {
	hotels hotelRepo.HotelRepository
	images utils.ImageStore
}

// NewHotelService constructs a DefaultHotelService. The image store may be
// nil when no image backend is configured; image operations then fail with a
// validation error.
func NewHotelService(hotels hotelRepo.HotelRepository, images utils.ImageStore) HotelService {
	return &DefaultHotelService{hotels: hotels, images: images}
}

func validateHotel(hotel *models.Hotel) error {
	if strings.TrimSpace(hotel.Name) == "" {
		return utils.ValidationError("hotel name is required")
	}
	if coords := hotel.Location.Coordinates.Coordinates; len(coords) != 0 && len(coords) != 2 {
		return utils.ValidationError("coordinates must be [longitude, latitude]")
	}
	return nil
}

func (s *DefaultHotelService) Create(ctx context.Context, hotel *models.Hotel) (*models.Hotel, error) {
	if err := validateHotel(hotel); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	hotel.ID = uuid.NewString()
	hotel.IsActive = true
	hotel.RatingAvg = 0
	hotel.RatingCount = 0
	hotel.CreatedAt = now
	hotel.UpdatedAt = now
	if len(hotel.Location.Coordinates.Coordinates) == 2 {
		hotel.Location.Coordinates.Type = "Point"
	}
	if err := s.hotels.Create(ctx, hotel); err != nil {
		return nil, utils.StoreError("failed to create hotel", err)
	}
	return hotel, nil
}

func (s *DefaultHotelService) GetByID(ctx context.Context, hotelID string) (*models.Hotel, error) {
	hotel, err := s.hotels.GetByID(ctx, hotelID)
	if err != nil {
		if errors.Is(err, hotelRepo.ErrNotFound) {
			return nil, utils.NotFoundError("hotel not found")
		}
		return nil, utils.StoreError("failed to fetch hotel", err)
	}
	return hotel, nil
}

func (s *DefaultHotelService) Update(ctx context.Context, hotel *models.Hotel) error {
	if err := validateHotel(hotel); err != nil {
		return err
	}
	existing, err := s.GetByID(ctx, hotel.ID)
	if err != nil {
		return err
	}
	// Rating aggregates and image records are owned by their own flows.
	hotel.RatingAvg = existing.RatingAvg
	hotel.RatingCount = existing.RatingCount
	hotel.Images = existing.Images
	hotel.CreatedAt = existing.CreatedAt
	if err := s.hotels.Update(ctx, hotel); err != nil {
		return utils.StoreError("failed to update hotel", err)
	}
	return nil
}

func (s *DefaultHotelService) SetActive(ctx context.Context, hotelID string, active bool) error {
	if err := s.hotels.UpdateFields(ctx, hotelID, map[string]interface{}{"isActive": active}); err != nil {
		if errors.Is(err, hotelRepo.ErrNotFound) {
			return utils.NotFoundError("hotel not found")
		}
		return utils.StoreError("failed to update hotel", err)
	}
	return nil
}

func (s *DefaultHotelService) Delete(ctx context.Context, hotelID string) error {
	hotel, err := s.GetByID(ctx, hotelID)
	if err != nil {
		return err
	}
	if err := s.hotels.Delete(ctx, hotelID); err != nil {
		return utils.StoreError("failed to delete hotel", err)
	}
	if s.images != nil {
		for _, img := range hotel.Images {
			if err := s.images.Delete(ctx, img.PublicID); err != nil {
				utils.GetLogger().Warn("failed to remove hotel image",
					zap.String("hotelId", hotelID), zap.String("publicId", img.PublicID), zap.Error(err))
			}
		}
	}
	return nil
}

func (s *DefaultHotelService) List(ctx context.Context, includeInactive bool) ([]models.Hotel, error) {
	hotels, err := s.hotels.List(ctx, !includeInactive)
	if err != nil {
		return nil, utils.StoreError("failed to list hotels", err)
	}
	return hotels, nil
}

func (s *DefaultHotelService) AddImage(ctx context.Context, hotelID string, file multipart.File) (*models.Image, error) {
	if s.images == nil {
		return nil, utils.ValidationError("image uploads are not configured")
	}
	hotel, err := s.GetByID(ctx, hotelID)
	if err != nil {
		return nil, err
	}
	url, publicID, err := s.images.Upload(ctx, file, "hotels")
	if err != nil {
		return nil, utils.StoreError("failed to upload image", err)
	}
	img := models.Image{URL: url, PublicID: publicID}
	if err := s.hotels.UpdateFields(ctx, hotelID, map[string]interface{}{
		"images": append(hotel.Images, img),
	}); err != nil {
		return nil, utils.StoreError("failed to record image", err)
	}
	return &img, nil
}

func (s *DefaultHotelService) RemoveImage(ctx context.Context, hotelID, publicID string) error {
	if s.images == nil {
		return utils.ValidationError("image uploads are not configured")
	}
	hotel, err := s.GetByID(ctx, hotelID)
	if err != nil {
		return err
	}
	remaining := make([]models.Image, 0, len(hotel.Images))
	found := false
	for _, img := range hotel.Images {
		if img.PublicID == publicID {
			found = true
			continue
		}
		remaining = append(remaining, img)
	}
	if !found {
		return utils.NotFoundError("image not found on hotel")
	}
	if err := s.images.Delete(ctx, publicID); err != nil {
		return utils.StoreError("failed to delete image", err)
	}
	if err := s.hotels.UpdateFields(ctx, hotelID, map[string]interface{}{"images": remaining}); err != nil {
		return utils.StoreError("failed to record image removal", err)
	}
	return nil
}
