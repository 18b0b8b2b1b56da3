package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stayhub/models"
)

func createPendingBooking(t *testing.T, env *testEnv, coins int) *models.Booking {
	t.Helper()
	input := baseInput()
	input.CoinsToUse = coins
	result, err := env.svc.Create(context.Background(), input)
	require.NoError(t, err)
	require.Equal(t, models.BookingPending, result.Booking.Status)
	return result.Booking
}

func successEvent(bkg *models.Booking) *models.PaymentEvent {
	return &models.PaymentEvent{
		Type:       models.PaymentEventSucceeded,
		IntentID:   bkg.StripePaymentIntentID,
		BookingID:  bkg.ID,
		ReceiptURL: "https://pay.example.com/receipt/1",
	}
}

func TestPaymentSuccessConfirmsBooking(t *testing.T) {
	env := newTestEnv(t)
	bkg := createPendingBooking(t, env, 0)

	require.NoError(t, env.svc.HandlePaymentEvent(context.Background(), successEvent(bkg)))

	stored, err := env.bookings.GetByID(context.Background(), bkg.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingBooked, stored.Status)
	assert.Equal(t, models.PaymentPaid, stored.PaymentStatus)
	assert.Equal(t, bkg.StripePaymentIntentID, stored.TransactionID)
	assert.Equal(t, "https://pay.example.com/receipt/1", stored.PaymentReceiptURL)

	// The flag lands once the async send goes through.
	assert.Eventually(t, func() bool {
		b, err := env.bookings.GetByID(context.Background(), bkg.ID)
		return err == nil && b.EmailConfirmedSent
	}, time.Second, 10*time.Millisecond)

	// 4000 >= threshold, so coins are awarded.
	assert.Equal(t, 10, stored.LoyaltyCoinsEarned)
	owner, err := env.users.GetByID(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 510, owner.LoyaltyCoins)
}

func TestPaymentSuccessReplayIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.offers.Create(context.Background(), &models.Offer{
		ID:              "offer-1",
		HotelID:         "hotel-1",
		Code:            "SAVE10",
		DiscountPercent: 10,
		IsActive:        true,
		ValidFrom:       time.Now().UTC().Add(-24 * time.Hour),
		ValidTo:         time.Now().UTC().Add(30 * 24 * time.Hour),
	}))

	input := baseInput()
	input.OfferCode = "SAVE10"
	result, err := env.svc.Create(context.Background(), input)
	require.NoError(t, err)
	bkg := result.Booking

	event := successEvent(bkg)
	require.NoError(t, env.svc.HandlePaymentEvent(context.Background(), event))
	require.NoError(t, env.svc.HandlePaymentEvent(context.Background(), event))
	require.NoError(t, env.svc.HandlePaymentEvent(context.Background(), event))

	// One redemption, one coin award, no matter how many deliveries.
	assert.Equal(t, 1, env.offers.redemptions["hotel-1:SAVE10"])
	owner, err := env.users.GetByID(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 510, owner.LoyaltyCoins)

	stored, err := env.bookings.GetByID(context.Background(), bkg.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, stored.LoyaltyCoinsEarned)
}

func TestPaymentSuccessBelowThresholdAwardsNothing(t *testing.T) {
	env := newTestEnv(t)
	env.rooms.rooms["room-1"].Price = 400 // 2 nights = 800 < 1000

	bkg := createPendingBooking(t, env, 0)
	require.NoError(t, env.svc.HandlePaymentEvent(context.Background(), successEvent(bkg)))

	owner, err := env.users.GetByID(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 500, owner.LoyaltyCoins)
}

func TestPaymentSuccessAfterCancelRefunds(t *testing.T) {
	env := newTestEnv(t)
	bkg := createPendingBooking(t, env, 0)

	_, err := env.svc.Cancel(context.Background(), bkg.ID, "user-1", false)
	require.NoError(t, err)

	require.NoError(t, env.svc.HandlePaymentEvent(context.Background(), successEvent(bkg)))

	stored, err := env.bookings.GetByID(context.Background(), bkg.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingCancelled, stored.Status)
	assert.Equal(t, models.PaymentRefunded, stored.PaymentStatus)
	assert.NotEmpty(t, stored.RefundID)
	assert.Equal(t, 1, env.gateway.refundCalls)
}

func TestPaymentSuccessDebitsReservedCoins(t *testing.T) {
	env := newTestEnv(t)
	bkg := createPendingBooking(t, env, 100)

	// Reserved at create, balance untouched until the payment commits.
	owner, err := env.users.GetByID(context.Background(), "user-1")
	require.NoError(t, err)
	require.Equal(t, 500, owner.LoyaltyCoins)

	require.NoError(t, env.svc.HandlePaymentEvent(context.Background(), successEvent(bkg)))

	stored, err := env.bookings.GetByID(context.Background(), bkg.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, stored.LoyaltyCoinsUsed)

	// 500 - 100 used + 10 awarded (3900 >= threshold).
	owner, err = env.users.GetByID(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 410, owner.LoyaltyCoins)
}

func TestPaymentFailureCancelsBooking(t *testing.T) {
	env := newTestEnv(t)
	bkg := createPendingBooking(t, env, 0)

	event := &models.PaymentEvent{
		Type:      models.PaymentEventFailed,
		IntentID:  bkg.StripePaymentIntentID,
		BookingID: bkg.ID,
	}
	require.NoError(t, env.svc.HandlePaymentEvent(context.Background(), event))

	stored, err := env.bookings.GetByID(context.Background(), bkg.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingCancelled, stored.Status)
	assert.Equal(t, models.PaymentFailed, stored.PaymentStatus)
	assert.False(t, stored.HoldsInventory())

	// The room is rebookable for the same dates right away.
	_, err = env.svc.Create(context.Background(), baseInput())
	assert.NoError(t, err)
}

func TestPaymentCancellationReleasesBooking(t *testing.T) {
	env := newTestEnv(t)
	bkg := createPendingBooking(t, env, 100)
	require.Equal(t, 100, bkg.LoyaltyCoinsUsed)

	event := &models.PaymentEvent{
		Type:      models.PaymentEventCanceled,
		IntentID:  bkg.StripePaymentIntentID,
		BookingID: bkg.ID,
	}
	require.NoError(t, env.svc.HandlePaymentEvent(context.Background(), event))

	stored, err := env.bookings.GetByID(context.Background(), bkg.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingCancelled, stored.Status)
	assert.Equal(t, models.PaymentCancelled, stored.PaymentStatus)

	// The reserved coins were never debited, so nothing changes.
	owner, err := env.users.GetByID(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 500, owner.LoyaltyCoins)
}

func TestUnknownIntentIsAcknowledged(t *testing.T) {
	env := newTestEnv(t)

	event := &models.PaymentEvent{
		Type:     models.PaymentEventSucceeded,
		IntentID: "pi_not_ours",
	}
	assert.NoError(t, env.svc.HandlePaymentEvent(context.Background(), event))
}

func TestEventLookupFallsBackToIntentID(t *testing.T) {
	env := newTestEnv(t)
	bkg := createPendingBooking(t, env, 0)

	// No booking id in metadata; the intent id still resolves it.
	event := &models.PaymentEvent{
		Type:     models.PaymentEventSucceeded,
		IntentID: bkg.StripePaymentIntentID,
	}
	require.NoError(t, env.svc.HandlePaymentEvent(context.Background(), event))

	stored, err := env.bookings.GetByID(context.Background(), bkg.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingBooked, stored.Status)
}
