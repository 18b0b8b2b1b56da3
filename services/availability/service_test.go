package availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bookingRepo "stayhub/database/repository/booking"
	hotelRepo "stayhub/database/repository/hotel"
	roomRepo "stayhub/database/repository/room"
	"stayhub/models"
	"stayhub/utils"
)

// Read-side doubles; only the lookup methods matter here.

type stubBookings struct {
	bookingRepo.BookingRepository
	holds []models.Booking
}

func (s *stubBookings) ListHolds(_ context.Context, hotelID string, start, end time.Time) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range s.holds {
		if b.HotelID == hotelID && utils.Overlaps(start, end, b.CheckIn, b.CheckOut) {
			out = append(out, b)
		}
	}
	return out, nil
}

type stubHotels struct {
	hotelRepo.HotelRepository
	hotel *models.Hotel
}

func (s *stubHotels) GetByID(_ context.Context, id string) (*models.Hotel, error) {
	if s.hotel != nil && s.hotel.ID == id {
		return s.hotel, nil
	}
	return nil, hotelRepo.ErrNotFound
}

type stubRooms struct {
	roomRepo.RoomRepository
	rooms []models.Room
}

func (s *stubRooms) ListByHotel(_ context.Context, hotelID string, minGuests int) ([]models.Room, error) {
	var out []models.Room
	for _, r := range s.rooms {
		if r.HotelID == hotelID && (minGuests <= 0 || r.Capacity.Total() >= minGuests) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *stubRooms) GetForHotel(_ context.Context, roomID, hotelID string) (*models.Room, error) {
	for i := range s.rooms {
		if s.rooms[i].ID == roomID && s.rooms[i].HotelID == hotelID {
			return &s.rooms[i], nil
		}
	}
	return nil, roomRepo.ErrNotFound
}

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := utils.ParseYMD(s)
	require.NoError(t, err)
	return d
}

func newFixture(t *testing.T) AvailabilityService {
	t.Helper()
	hotels := &stubHotels{hotel: &models.Hotel{ID: "hotel-1", Name: "Seaside Grand", IsActive: true}}
	rooms := &stubRooms{rooms: []models.Room{
		{ID: "room-1", HotelID: "hotel-1", Capacity: models.Capacity{Adults: 2}},
		{ID: "room-2", HotelID: "hotel-1", Capacity: models.Capacity{Adults: 2, Children: 2}},
	}}
	bookings := &stubBookings{holds: []models.Booking{
		{
			ID: "b1", HotelID: "hotel-1", RoomID: "room-1",
			CheckIn: date(t, "2026-09-10"), CheckOut: date(t, "2026-09-13"),
			Status: models.BookingBooked,
		},
	}}
	return NewAvailabilityService(bookings, hotels, rooms)
}

func TestSummarizeMarksOverlappingRoomOccupied(t *testing.T) {
	svc := newFixture(t)

	summary, err := svc.Summarize(context.Background(), "hotel-1", "2026-09-12", "2026-09-14", 0)
	require.NoError(t, err)
	require.Len(t, summary.Rooms, 2)

	byID := map[string]bool{}
	for _, r := range summary.Rooms {
		byID[r.Room.ID] = r.Available
	}
	assert.False(t, byID["room-1"])
	assert.True(t, byID["room-2"])
}

func TestSummarizeCheckoutDayIsFree(t *testing.T) {
	svc := newFixture(t)

	// Existing stay ends on the 13th; arriving that day does not collide.
	summary, err := svc.Summarize(context.Background(), "hotel-1", "2026-09-13", "2026-09-15", 0)
	require.NoError(t, err)

	for _, r := range summary.Rooms {
		assert.True(t, r.Available, "room %s should be free", r.Room.ID)
	}
}

func TestSummarizeFiltersByCapacity(t *testing.T) {
	svc := newFixture(t)

	summary, err := svc.Summarize(context.Background(), "hotel-1", "2026-10-01", "2026-10-03", 3)
	require.NoError(t, err)
	require.Len(t, summary.Rooms, 1)
	assert.Equal(t, "room-2", summary.Rooms[0].Room.ID)
}

func TestSummarizeRejectsBadRanges(t *testing.T) {
	svc := newFixture(t)

	_, err := svc.Summarize(context.Background(), "hotel-1", "2026-09-14", "2026-09-12", 0)
	assert.Error(t, err)

	_, err = svc.Summarize(context.Background(), "hotel-1", "2026-09-12", "2026-09-12", 0)
	assert.Error(t, err)

	_, err = svc.Summarize(context.Background(), "hotel-1", "not-a-date", "2026-09-12", 0)
	assert.Error(t, err)
}

func TestSummarizeUnknownHotel(t *testing.T) {
	svc := newFixture(t)

	_, err := svc.Summarize(context.Background(), "nope", "2026-09-12", "2026-09-14", 0)
	require.Error(t, err)
	assert.Equal(t, utils.KindNotFound, utils.ErrorKind(err))
}

func TestCalendarMarksBookedNights(t *testing.T) {
	svc := newFixture(t)

	days, err := svc.Calendar(context.Background(), "hotel-1", "room-1", "2026-09-09", "2026-09-15")
	require.NoError(t, err)
	require.Len(t, days, 6)

	expected := map[string]bool{
		"2026-09-09": false,
		"2026-09-10": true,
		"2026-09-11": true,
		"2026-09-12": true,
		"2026-09-13": false, // checkout day, night is free
		"2026-09-14": false,
	}
	for _, day := range days {
		assert.Equal(t, expected[day.Date], day.Booked, "night of %s", day.Date)
	}
}

func TestCalendarRangeLimit(t *testing.T) {
	svc := newFixture(t)

	_, err := svc.Calendar(context.Background(), "hotel-1", "room-1", "2026-01-01", "2028-01-01")
	assert.Error(t, err)
}
