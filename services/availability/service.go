package availability

import (
	"context"
	"errors"
	"time"

	bookingRepo "stayhub/database/repository/booking"
	hotelRepo "stayhub/database/repository/hotel"
	roomRepo "stayhub/database/repository/room"
	"stayhub/models"
	"stayhub/utils"
)

// RoomAvailability is one row of a hotel availability summary.
type RoomAvailability struct {
	Room      models.Room `json:"room"`
	Available bool        `json:"available"`
}

// Summary answers "which rooms are free" for a hotel and interval.
type Summary struct {
	HotelID  string             `json:"hotelId"`
	CheckIn  string             `json:"checkIn"`
	CheckOut string             `json:"checkOut"`
	Rooms    []RoomAvailability `json:"rooms"`
}

// CalendarDay is one night in a room's occupancy calendar.
type CalendarDay struct {
	Date   string `json:"date"`
	Booked bool   `json:"booked"`
}

// AvailabilityService derives room availability from the booking holds. There
// is no separate availability table to drift out of sync; bookings in a hold
// status are the only source of truth.
type AvailabilityService interface {
	// Summarize lists a hotel's rooms with a free/occupied flag for the
	// half-open interval [checkIn, checkOut). minGuests > 0 filters rooms by
	// capacity.
	Summarize(ctx context.Context, hotelID, checkIn, checkOut string, minGuests int) (*Summary, error)

	// Calendar returns the per-night occupancy of one room over [from, to).
	Calendar(ctx context.Context, hotelID, roomID, from, to string) ([]CalendarDay, error)
}

// DefaultAvailabilityService is the production implementation.
type DefaultAvailabilityService struct {
	bookings bookingRepo.BookingRepository
	hotels   hotelRepo.HotelRepository
	rooms    roomRepo.RoomRepository
}

// NewAvailabilityService constructs a DefaultAvailabilityService.
func NewAvailabilityService(
	bookings bookingRepo.BookingRepository,
	hotels hotelRepo.HotelRepository,
	rooms roomRepo.RoomRepository,
) AvailabilityService {
	return &DefaultAvailabilityService{bookings: bookings, hotels: hotels, rooms: rooms}
}

func parseRange(fromStr, toStr string) (time.Time, time.Time, error) {
	from, err := utils.ParseYMD(fromStr)
	if err != nil {
		return time.Time{}, time.Time{}, utils.ValidationError("invalid start date, expected YYYY-MM-DD")
	}
	to, err := utils.ParseYMD(toStr)
	if err != nil {
		return time.Time{}, time.Time{}, utils.ValidationError("invalid end date, expected YYYY-MM-DD")
	}
	if !to.After(from) {
		return time.Time{}, time.Time{}, utils.ValidationError("end date must be after start date")
	}
	return from, to, nil
}

func (s *DefaultAvailabilityService) Summarize(ctx context.Context, hotelID, checkIn, checkOut string, minGuests int) (*Summary, error) {
	from, to, err := parseRange(checkIn, checkOut)
	if err != nil {
		return nil, err
	}

	if _, err := s.hotels.GetByID(ctx, hotelID); err != nil {
		if errors.Is(err, hotelRepo.ErrNotFound) {
			return nil, utils.NotFoundError("hotel not found")
		}
		return nil, utils.StoreError("failed to fetch hotel", err)
	}

	rooms, err := s.rooms.ListByHotel(ctx, hotelID, minGuests)
	if err != nil {
		return nil, utils.StoreError("failed to list rooms", err)
	}

	holds, err := s.bookings.ListHolds(ctx, hotelID, from, to)
	if err != nil {
		return nil, utils.StoreError("failed to list bookings", err)
	}

	// Index holding bookings by room; the query pre-filters, the exact
	// half-open overlap test decides.
	occupied := make(map[string]bool, len(holds))
	for _, b := range holds {
		if b.HoldsInventory() && utils.Overlaps(from, to, b.CheckIn, b.CheckOut) {
			occupied[b.RoomID] = true
		}
	}

	summary := &Summary{
		HotelID:  hotelID,
		CheckIn:  utils.FormatYMD(from),
		CheckOut: utils.FormatYMD(to),
		Rooms:    make([]RoomAvailability, 0, len(rooms)),
	}
	for _, room := range rooms {
		summary.Rooms = append(summary.Rooms, RoomAvailability{
			Room:      room,
			Available: !occupied[room.ID],
		})
	}
	return summary, nil
}

func (s *DefaultAvailabilityService) Calendar(ctx context.Context, hotelID, roomID, fromStr, toStr string) ([]CalendarDay, error) {
	from, to, err := parseRange(fromStr, toStr)
	if err != nil {
		return nil, err
	}
	if to.Sub(from) > 366*24*time.Hour {
		return nil, utils.ValidationError("calendar range is limited to one year")
	}

	if _, err := s.rooms.GetForHotel(ctx, roomID, hotelID); err != nil {
		if errors.Is(err, roomRepo.ErrNotFound) {
			return nil, utils.NotFoundError("room not found in this hotel")
		}
		return nil, utils.StoreError("failed to fetch room", err)
	}

	holds, err := s.bookings.ListHolds(ctx, hotelID, from, to)
	if err != nil {
		return nil, utils.StoreError("failed to list bookings", err)
	}

	days := make([]CalendarDay, 0, int(to.Sub(from)/(24*time.Hour)))
	for day := from; day.Before(to); day = day.Add(24 * time.Hour) {
		night := day.Add(24 * time.Hour)
		booked := false
		for _, b := range holds {
			if b.RoomID != roomID || !b.HoldsInventory() {
				continue
			}
			if utils.Overlaps(day, night, b.CheckIn, b.CheckOut) {
				booked = true
				break
			}
		}
		days = append(days, CalendarDay{Date: utils.FormatYMD(day), Booked: booked})
	}
	return days, nil
}
