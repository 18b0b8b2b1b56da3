package room

import (
	"context"
	"errors"
	"mime/multipart"
	"time"

	"github.com/google/uuid"

	hotelRepo "stayhub/database/repository/hotel"
	roomRepo "stayhub/database/repository/room"
	"stayhub/models"
	"stayhub/utils"
)

// RoomService manages rooms within a hotel.
type RoomService interface {
	Create(ctx context.Context, room *models.Room) (*models.Room, error)
	Get(ctx context.Context, hotelID, roomID string) (*models.Room, error)
	ListByHotel(ctx context.Context, hotelID string, minGuests int) ([]models.Room, error)
	Update(ctx context.Context, room *models.Room) error
	Delete(ctx context.Context, hotelID, roomID string) error
	AddImage(ctx context.Context, hotelID, roomID string, file multipart.File) (*models.Image, error)
}

// DefaultRoomService is the production implementation.
type DefaultRoomService struct {
	rooms  roomRepo.RoomRepository
	hotels hotelRepo.HotelRepository
	images utils.ImageStore
}

// NewRoomService constructs a DefaultRoomService.
func NewRoomService(rooms roomRepo.RoomRepository, hotels hotelRepo.HotelRepository, images utils.ImageStore) RoomService {
	return &DefaultRoomService{rooms: rooms, hotels: hotels, images: images}
}

func validateRoom(room *models.Room) error {
	switch room.Type {
	case models.RoomStandard, models.RoomDeluxe, models.RoomSuite:
	default:
		return utils.ValidationError("room type must be Standard, Deluxe or Suite")
	}
	if room.Price <= 0 {
		return utils.ValidationError("room price must be positive")
	}
	if room.Capacity.Total() < 1 {
		return utils.ValidationError("room capacity must allow at least one guest")
	}
	return nil
}

func (s *DefaultRoomService) Create(ctx context.Context, room *models.Room) (*models.Room, error) {
	if err := validateRoom(room); err != nil {
		return nil, err
	}
	if _, err := s.hotels.GetByID(ctx, room.HotelID); err != nil {
		if errors.Is(err, hotelRepo.ErrNotFound) {
			return nil, utils.NotFoundError("hotel not found")
		}
		return nil, utils.StoreError("failed to fetch hotel", err)
	}
	now := time.Now().UTC()
	room.ID = uuid.NewString()
	room.CreatedAt = now
	room.UpdatedAt = now
	if err := s.rooms.Create(ctx, room); err != nil {
		return nil, utils.StoreError("failed to create room", err)
	}
	return room, nil
}

func (s *DefaultRoomService) Get(ctx context.Context, hotelID, roomID string) (*models.Room, error) {
	room, err := s.rooms.GetForHotel(ctx, roomID, hotelID)
	if err != nil {
		if errors.Is(err, roomRepo.ErrNotFound) {
			return nil, utils.NotFoundError("room not found in this hotel")
		}
		return nil, utils.StoreError("failed to fetch room", err)
	}
	return room, nil
}

func (s *DefaultRoomService) ListByHotel(ctx context.Context, hotelID string, minGuests int) ([]models.Room, error) {
	rooms, err := s.rooms.ListByHotel(ctx, hotelID, minGuests)
	if err != nil {
		return nil, utils.StoreError("failed to list rooms", err)
	}
	return rooms, nil
}

func (s *DefaultRoomService) Update(ctx context.Context, room *models.Room) error {
	if err := validateRoom(room); err != nil {
		return err
	}
	existing, err := s.Get(ctx, room.HotelID, room.ID)
	if err != nil {
		return err
	}
	room.Images = existing.Images
	room.CreatedAt = existing.CreatedAt
	if err := s.rooms.Update(ctx, room); err != nil {
		return utils.StoreError("failed to update room", err)
	}
	return nil
}

func (s *DefaultRoomService) Delete(ctx context.Context, hotelID, roomID string) error {
	if _, err := s.Get(ctx, hotelID, roomID); err != nil {
		return err
	}
	if err := s.rooms.Delete(ctx, roomID); err != nil {
		return utils.StoreError("failed to delete room", err)
	}
	return nil
}

func (s *DefaultRoomService) AddImage(ctx context.Context, hotelID, roomID string, file multipart.File) (*models.Image, error) {
	if s.images == nil {
		return nil, utils.ValidationError("image uploads are not configured")
	}
	room, err := s.Get(ctx, hotelID, roomID)
	if err != nil {
		return nil, err
	}
	url, publicID, err := s.images.Upload(ctx, file, "rooms")
	if err != nil {
		return nil, utils.StoreError("failed to upload image", err)
	}
	img := models.Image{URL: url, PublicID: publicID}
	room.Images = append(room.Images, img)
	if err := s.rooms.Update(ctx, room); err != nil {
		return nil, utils.StoreError("failed to record image", err)
	}
	return &img, nil
}
