package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stayhub/models"
	"stayhub/utils"
)

func createPaidBooking(t *testing.T, env *testEnv, coins int) *models.Booking {
	t.Helper()
	bkg := createPendingBooking(t, env, coins)
	require.NoError(t, env.svc.HandlePaymentEvent(context.Background(), successEvent(bkg)))
	stored, err := env.bookings.GetByID(context.Background(), bkg.ID)
	require.NoError(t, err)
	return stored
}

func TestCancelPaidBookingRefundsFirst(t *testing.T) {
	env := newTestEnv(t)
	bkg := createPaidBooking(t, env, 100)

	cancelled, err := env.svc.Cancel(context.Background(), bkg.ID, "user-1", false)
	require.NoError(t, err)

	assert.Equal(t, models.BookingCancelled, cancelled.Status)
	assert.Equal(t, models.PaymentRefunded, cancelled.PaymentStatus)
	assert.NotEmpty(t, cancelled.RefundID)
	assert.Equal(t, 1, env.gateway.refundCalls)

	// Used coins come back on top of the earlier award.
	owner, err := env.users.GetByID(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 500-100+10+100, owner.LoyaltyCoins)
}

func TestCancelAbortsWhenRefundFails(t *testing.T) {
	env := newTestEnv(t)
	bkg := createPaidBooking(t, env, 0)
	env.gateway.failRefund = true

	_, err := env.svc.Cancel(context.Background(), bkg.ID, "user-1", false)
	require.Error(t, err)
	assert.Equal(t, utils.KindPayment, utils.ErrorKind(err))

	// Booking untouched: still booked and paid, coins unchanged.
	stored, storeErr := env.bookings.GetByID(context.Background(), bkg.ID)
	require.NoError(t, storeErr)
	assert.Equal(t, models.BookingBooked, stored.Status)
	assert.Equal(t, models.PaymentPaid, stored.PaymentStatus)
	assert.Empty(t, stored.RefundID)
}

func TestCancelDeniedForOtherUsers(t *testing.T) {
	env := newTestEnv(t)
	bkg := createPendingBooking(t, env, 0)

	_, err := env.svc.Cancel(context.Background(), bkg.ID, "someone-else", false)
	require.Error(t, err)
	assert.Equal(t, utils.KindUnauthorized, utils.ErrorKind(err))

	// Admins may cancel on behalf of the guest.
	_, err = env.svc.Cancel(context.Background(), bkg.ID, "someone-else", true)
	assert.NoError(t, err)
}

func TestCancelCheckedInStayRejected(t *testing.T) {
	env := newTestEnv(t)
	bkg := createPaidBooking(t, env, 0)

	_, err := env.svc.CheckIn(context.Background(), bkg.ID)
	require.NoError(t, err)

	_, err = env.svc.Cancel(context.Background(), bkg.ID, "user-1", false)
	require.Error(t, err)
	assert.Equal(t, utils.KindConflict, utils.ErrorKind(err))
}

func TestRefundEndpointIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	bkg := createPaidBooking(t, env, 0)

	first, err := env.svc.Refund(context.Background(), bkg.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentRefunded, first.PaymentStatus)
	require.NotEmpty(t, first.RefundID)

	second, err := env.svc.Refund(context.Background(), bkg.ID)
	require.NoError(t, err)
	assert.Equal(t, first.RefundID, second.RefundID)
	assert.Equal(t, 1, env.gateway.refundCalls)
}

func TestRefundCancelsStayAndReturnsCoins(t *testing.T) {
	env := newTestEnv(t)
	bkg := createPaidBooking(t, env, 100)

	// Paid with 100 coins: 500 - 100 + 10 awarded.
	owner, err := env.users.GetByID(context.Background(), "user-1")
	require.NoError(t, err)
	require.Equal(t, 410, owner.LoyaltyCoins)

	refunded, err := env.svc.Refund(context.Background(), bkg.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingCancelled, refunded.Status)
	assert.Equal(t, models.PaymentRefunded, refunded.PaymentStatus)

	owner, err = env.users.GetByID(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 510, owner.LoyaltyCoins)

	// A replay credits nothing further.
	_, err = env.svc.Refund(context.Background(), bkg.ID)
	require.NoError(t, err)
	owner, err = env.users.GetByID(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 510, owner.LoyaltyCoins)
}

func TestRefundRejectsUnpaidBooking(t *testing.T) {
	env := newTestEnv(t)
	bkg := createPendingBooking(t, env, 0)

	_, err := env.svc.Refund(context.Background(), bkg.ID)
	require.Error(t, err)
	assert.Equal(t, utils.KindValidation, utils.ErrorKind(err))
}

func TestCheckInRequiresPaidBooking(t *testing.T) {
	env := newTestEnv(t)
	bkg := createPendingBooking(t, env, 0)

	_, err := env.svc.CheckIn(context.Background(), bkg.ID)
	require.Error(t, err)
	assert.Equal(t, utils.KindConflict, utils.ErrorKind(err))
}

func TestCompleteRequiresPaidBooking(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.bookings.Create(context.Background(), &models.Booking{
		ID:            "booking-refunded",
		UserID:        "user-1",
		HotelID:       "hotel-1",
		RoomID:        "room-1",
		Status:        models.BookingBooked,
		PaymentStatus: models.PaymentRefunded,
	}))

	_, err := env.svc.Complete(context.Background(), "booking-refunded")
	require.Error(t, err)
	assert.Equal(t, utils.KindConflict, utils.ErrorKind(err))
}

func TestCompleteFollowsCheckIn(t *testing.T) {
	env := newTestEnv(t)
	bkg := createPaidBooking(t, env, 0)

	_, err := env.svc.CheckIn(context.Background(), bkg.ID)
	require.NoError(t, err)

	completed, err := env.svc.Complete(context.Background(), bkg.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingCompleted, completed.Status)

	// Terminal: no further transitions.
	_, err = env.svc.Cancel(context.Background(), bkg.ID, "user-1", false)
	require.Error(t, err)
	assert.Equal(t, utils.KindConflict, utils.ErrorKind(err))
}

func TestResendConfirmationRequiresPaidBooking(t *testing.T) {
	env := newTestEnv(t)
	pending := createPendingBooking(t, env, 0)

	err := env.svc.ResendConfirmation(context.Background(), pending.ID, "user-1", false)
	require.Error(t, err)
	assert.Equal(t, utils.KindValidation, utils.ErrorKind(err))

	require.NoError(t, env.svc.HandlePaymentEvent(context.Background(), successEvent(pending)))
	require.Eventually(t, func() bool {
		return env.mailer.sentConfirmations() == 1
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, env.svc.ResendConfirmation(context.Background(), pending.ID, "user-1", false))
	assert.Eventually(t, func() bool {
		return env.mailer.sentConfirmations() == 2
	}, time.Second, 10*time.Millisecond)
}

func TestRetryPaymentReusesConfirmableIntent(t *testing.T) {
	env := newTestEnv(t)
	bkg := createPendingBooking(t, env, 0)
	env.gateway.confirmable = true

	intent, err := env.svc.RetryPayment(context.Background(), bkg.ID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, bkg.StripePaymentIntentID, intent.IntentID)
	assert.Equal(t, 1, env.gateway.createdCalls)
}

func TestRetryPaymentReplacesDeadIntent(t *testing.T) {
	env := newTestEnv(t)
	bkg := createPendingBooking(t, env, 0)
	env.gateway.confirmable = false

	intent, err := env.svc.RetryPayment(context.Background(), bkg.ID, "user-1")
	require.NoError(t, err)
	assert.NotEqual(t, bkg.StripePaymentIntentID, intent.IntentID)

	stored, err := env.bookings.GetByID(context.Background(), bkg.ID)
	require.NoError(t, err)
	assert.Equal(t, intent.IntentID, stored.StripePaymentIntentID)
}

func TestRetryPaymentRejectedOncePaid(t *testing.T) {
	env := newTestEnv(t)
	bkg := createPaidBooking(t, env, 0)

	_, err := env.svc.RetryPayment(context.Background(), bkg.ID, "user-1")
	require.Error(t, err)
	assert.Equal(t, utils.KindConflict, utils.ErrorKind(err))
}
