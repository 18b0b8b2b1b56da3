package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stayhub/config"
	"stayhub/models"
	"stayhub/services/loyalty"
	"stayhub/utils"
)

type testEnv struct {
	svc      BookingService
	bookings *fakeBookingRepo
	hotels   *fakeHotelRepo
	rooms    *fakeRoomRepo
	offers   *fakeOfferRepo
	users    *fakeUserRepo
	gateway  *fakeGateway
	mailer   *fakeMailer
	locker   *fakeLocker
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	config.AppConfig.Currency = "inr"
	config.AppConfig.LoyaltyAwardCoins = 10
	config.AppConfig.LoyaltyAwardThreshold = 1000

	hotel := &models.Hotel{
		ID:       "hotel-1",
		Name:     "Seaside Grand",
		IsActive: true,
		EmergencyContact: models.EmergencyContact{
			Name:           "Front Desk",
			Phone:          "+91-1234567890",
			Role:           "reception",
			AvailableHours: "24x7",
		},
	}
	room := &models.Room{
		ID:       "room-1",
		HotelID:  "hotel-1",
		Type:     models.RoomDeluxe,
		BedType:  "King",
		View:     "sea",
		Price:    2000,
		Capacity: models.Capacity{Adults: 2, Children: 1},
	}
	user := &models.User{
		ID:           "user-1",
		Name:         "Asha",
		Email:        "asha@example.com",
		Role:         models.RoleUser,
		LoyaltyCoins: 500,
	}

	env := &testEnv{
		bookings: newFakeBookingRepo(),
		hotels:   newFakeHotelRepo(hotel),
		rooms:    newFakeRoomRepo(room),
		offers:   newFakeOfferRepo(),
		users:    newFakeUserRepo(user),
		gateway:  &fakeGateway{},
		mailer:   &fakeMailer{},
		locker:   &fakeLocker{},
	}
	env.svc = NewBookingService(
		env.bookings, env.hotels, env.rooms, env.offers, env.users,
		loyalty.NewLoyaltyService(env.users), env.gateway, env.mailer, env.locker,
	)
	return env
}

func futureDate(daysAhead int) string {
	return utils.FormatYMD(time.Now().UTC().Add(time.Duration(daysAhead) * 24 * time.Hour))
}

func baseInput() CreateInput {
	return CreateInput{
		UserID:   "user-1",
		HotelID:  "hotel-1",
		RoomID:   "room-1",
		CheckIn:  futureDate(10),
		CheckOut: futureDate(12),
		Guests:   2,
	}
}

func TestCreatePendingBookingWithIntent(t *testing.T) {
	env := newTestEnv(t)

	result, err := env.svc.Create(context.Background(), baseInput())
	require.NoError(t, err)

	assert.Equal(t, models.BookingPending, result.Booking.Status)
	assert.Equal(t, models.PaymentPending, result.Booking.PaymentStatus)
	assert.Equal(t, 4000.0, result.Booking.TotalAmount)
	assert.Equal(t, 4000.0, result.Booking.FinalAmount)
	assert.Equal(t, "inr", result.Booking.Currency)

	require.NotNil(t, result.Intent)
	assert.Equal(t, int64(400000), result.Intent.Amount)

	stored, err := env.bookings.GetByID(context.Background(), result.Booking.ID)
	require.NoError(t, err)
	assert.Equal(t, result.Intent.IntentID, stored.StripePaymentIntentID)
	assert.Equal(t, "Seaside Grand", stored.EmergencyContactSnapshot.HotelName)
	assert.Equal(t, "+91-1234567890", stored.EmergencyContactSnapshot.Phone)
}

func TestCreateRejectsOverlappingDates(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.Create(context.Background(), baseInput())
	require.NoError(t, err)

	// Same room, intersecting interval.
	input := baseInput()
	input.CheckIn = futureDate(11)
	input.CheckOut = futureDate(13)
	_, err = env.svc.Create(context.Background(), input)
	require.Error(t, err)
	assert.Equal(t, utils.KindConflict, utils.ErrorKind(err))
}

func TestCreateAllowsBackToBackStays(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.Create(context.Background(), baseInput())
	require.NoError(t, err)

	// Check-in on the previous stay's checkout day.
	input := baseInput()
	input.CheckIn = futureDate(12)
	input.CheckOut = futureDate(14)
	_, err = env.svc.Create(context.Background(), input)
	assert.NoError(t, err)
}

func TestCreateRejectsGuestsBeyondCapacity(t *testing.T) {
	env := newTestEnv(t)

	input := baseInput()
	input.Guests = 4 // room sleeps 3
	_, err := env.svc.Create(context.Background(), input)
	require.Error(t, err)
	assert.Equal(t, utils.KindValidation, utils.ErrorKind(err))
}

func TestCreateRejectsPastCheckIn(t *testing.T) {
	env := newTestEnv(t)

	input := baseInput()
	input.CheckIn = utils.FormatYMD(time.Now().UTC().Add(-48 * time.Hour))
	input.CheckOut = futureDate(2)
	_, err := env.svc.Create(context.Background(), input)
	require.Error(t, err)
	assert.Equal(t, utils.KindValidation, utils.ErrorKind(err))
}

func TestCreateRejectsInactiveHotel(t *testing.T) {
	env := newTestEnv(t)
	env.hotels.hotels["hotel-1"].IsActive = false

	_, err := env.svc.Create(context.Background(), baseInput())
	require.Error(t, err)
	assert.Equal(t, utils.KindValidation, utils.ErrorKind(err))
}

func TestCreateConflictWhenRoomLockHeld(t *testing.T) {
	env := newTestEnv(t)
	env.locker.held = true

	_, err := env.svc.Create(context.Background(), baseInput())
	require.Error(t, err)
	assert.Equal(t, utils.KindConflict, utils.ErrorKind(err))
}

func TestCreateClampsCoinsToBalance(t *testing.T) {
	env := newTestEnv(t)
	env.users.users["user-1"].LoyaltyCoins = 50

	input := baseInput()
	input.CoinsToUse = 500
	result, err := env.svc.Create(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, 50, result.Booking.LoyaltyCoinsUsed)
	assert.Equal(t, 3950.0, result.Booking.FinalAmount)

	// Reserved, not debited: the balance only moves at confirmation.
	owner, err := env.users.GetByID(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 50, owner.LoyaltyCoins)
}

func TestCreatePendingBookingHoldsNoCoins(t *testing.T) {
	env := newTestEnv(t)

	input := baseInput()
	input.CoinsToUse = 100
	result, err := env.svc.Create(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, models.BookingPending, result.Booking.Status)
	assert.Equal(t, 100, result.Booking.LoyaltyCoinsUsed)
	assert.Equal(t, 3900.0, result.Booking.FinalAmount)

	owner, err := env.users.GetByID(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 500, owner.LoyaltyCoins)
}

func TestCreateZeroCostBookedImmediately(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.offers.Create(context.Background(), &models.Offer{
		ID:           "offer-1",
		HotelID:      "hotel-1",
		Code:         "FREESTAY",
		DiscountFlat: 4000,
		IsActive:     true,
		ValidFrom:    time.Now().UTC().Add(-24 * time.Hour),
		ValidTo:      time.Now().UTC().Add(30 * 24 * time.Hour),
	}))

	input := baseInput()
	input.OfferCode = "freestay"
	result, err := env.svc.Create(context.Background(), input)
	require.NoError(t, err)

	assert.Nil(t, result.Intent)
	assert.Equal(t, models.BookingBooked, result.Booking.Status)
	assert.Equal(t, models.PaymentPaid, result.Booking.PaymentStatus)
	assert.Equal(t, 0.0, result.Booking.FinalAmount)
	assert.Equal(t, 0, env.gateway.createdCalls)
	assert.Equal(t, 1, env.offers.redemptions["hotel-1:FREESTAY"])
}

func TestCreateZeroCostDebitsCoinsImmediately(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.offers.Create(context.Background(), &models.Offer{
		ID:           "offer-1",
		HotelID:      "hotel-1",
		Code:         "ALMOSTFREE",
		DiscountFlat: 3900,
		IsActive:     true,
		ValidFrom:    time.Now().UTC().Add(-24 * time.Hour),
		ValidTo:      time.Now().UTC().Add(30 * 24 * time.Hour),
	}))

	input := baseInput()
	input.OfferCode = "ALMOSTFREE"
	input.CoinsToUse = 100
	result, err := env.svc.Create(context.Background(), input)
	require.NoError(t, err)

	// No payment leg, so this is the committing transition: coins move now.
	assert.Equal(t, models.BookingBooked, result.Booking.Status)
	assert.Equal(t, 0.0, result.Booking.FinalAmount)
	owner, err := env.users.GetByID(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 400, owner.LoyaltyCoins)
}

func TestCreateIntentFailureVoidsBooking(t *testing.T) {
	env := newTestEnv(t)
	env.gateway.failCreate = true

	input := baseInput()
	input.CoinsToUse = 100
	_, err := env.svc.Create(context.Background(), input)
	require.Error(t, err)
	assert.Equal(t, utils.KindPayment, utils.ErrorKind(err))

	// The reserved coins were never debited.
	owner, err := env.users.GetByID(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 500, owner.LoyaltyCoins)

	// The voided booking no longer blocks the room.
	env.gateway.failCreate = false
	_, err = env.svc.Create(context.Background(), baseInput())
	assert.NoError(t, err)
}

func TestPreviewQuoteDoesNotReserveOrSpend(t *testing.T) {
	env := newTestEnv(t)

	input := baseInput()
	input.CoinsToUse = 100
	quote, err := env.svc.PreviewQuote(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, 100, quote.CoinsApplied)
	assert.Equal(t, 3900.0, quote.FinalAmount)

	owner, err := env.users.GetByID(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 500, owner.LoyaltyCoins)

	overlapping, err := env.bookings.HasOverlapping(context.Background(), "hotel-1", "room-1",
		mustDate(t, futureDate(10)), mustDate(t, futureDate(12)))
	require.NoError(t, err)
	assert.False(t, overlapping)
}
