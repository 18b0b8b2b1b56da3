package booking

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	bookingRepo "stayhub/database/repository/booking"
	"stayhub/models"
	"stayhub/utils"
)

func (s *DefaultBookingService) load(ctx context.Context, bookingID string) (*models.Booking, error) {
	bkg, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return nil, utils.NotFoundError("booking not found")
		}
		return nil, utils.StoreError("failed to fetch booking", err)
	}
	return bkg, nil
}

func authorize(bkg *models.Booking, requesterID string, admin bool) error {
	if !admin && bkg.UserID != requesterID {
		return utils.UnauthorizedError("not your booking")
	}
	return nil
}

func (s *DefaultBookingService) GetByID(ctx context.Context, bookingID, requesterID string, admin bool) (*models.Booking, error) {
	bkg, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := authorize(bkg, requesterID, admin); err != nil {
		return nil, err
	}
	return bkg, nil
}

func (s *DefaultBookingService) ListForUser(ctx context.Context, userID string) ([]models.Booking, error) {
	bookings, err := s.bookings.ListByUser(ctx, userID)
	if err != nil {
		return nil, utils.StoreError("failed to list bookings", err)
	}
	return bookings, nil
}

func (s *DefaultBookingService) ListForHotel(ctx context.Context, hotelID string, statuses []string, userID string) ([]models.Booking, error) {
	bookings, err := s.bookings.ListByHotel(ctx, hotelID, statuses, userID)
	if err != nil {
		return nil, utils.StoreError("failed to list bookings", err)
	}
	return bookings, nil
}

func (s *DefaultBookingService) ListAll(ctx context.Context) ([]models.Booking, error) {
	bookings, err := s.bookings.ListAll(ctx)
	if err != nil {
		return nil, utils.StoreError("failed to list bookings", err)
	}
	return bookings, nil
}

// Cancel cancels a booking. For paid bookings the refund is issued first and
// a refund failure aborts the whole cancellation, so money is never kept for
// a cancelled stay.
func (s *DefaultBookingService) Cancel(ctx context.Context, bookingID, requesterID string, admin bool) (*models.Booking, error) {
	bkg, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := authorize(bkg, requesterID, admin); err != nil {
		return nil, err
	}
	if err := checkTransition(bkg.Status, models.BookingCancelled); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{
		"status": models.BookingCancelled,
	}

	// Coins are only debited once a booking is paid; a pending cancel has
	// nothing to give back.
	wasPaid := bkg.PaymentStatus == models.PaymentPaid

	refunded := false
	if bkg.PaymentStatus == models.PaymentPaid && bkg.StripePaymentIntentID != "" {
		refundID, err := s.gateway.Refund(ctx, bkg.StripePaymentIntentID)
		if err != nil {
			return nil, utils.PaymentError("refund failed, booking not cancelled", err)
		}
		fields["paymentStatus"] = models.PaymentRefunded
		fields["refundId"] = refundID
		bkg.RefundID = refundID
		bkg.PaymentStatus = models.PaymentRefunded
		refunded = true
	} else if bkg.PaymentStatus == models.PaymentPending {
		fields["paymentStatus"] = models.PaymentCancelled
		bkg.PaymentStatus = models.PaymentCancelled
		if bkg.StripePaymentIntentID != "" {
			if err := s.gateway.CancelIntent(ctx, bkg.StripePaymentIntentID); err != nil {
				utils.GetLogger().Warn("failed to cancel payment intent",
					zap.String("bookingId", bkg.ID), zap.Error(err))
			}
		}
	}

	if err := s.bookings.UpdateFields(ctx, bkg.ID, fields); err != nil {
		return nil, utils.StoreError("failed to cancel booking", err)
	}
	bkg.Status = models.BookingCancelled

	if wasPaid && bkg.LoyaltyCoinsUsed > 0 {
		if err := s.loyalty.Refund(ctx, bkg.UserID, bkg.LoyaltyCoinsUsed); err != nil {
			utils.GetLogger().Error("failed to return coins on cancel",
				zap.String("bookingId", bkg.ID), zap.Error(err))
		}
	}

	s.sendCancellationAsync(bkg, refunded)
	return bkg, nil
}

// Refund issues a refund outside the cancel flow. If a refund reference is
// already recorded the call reports the stored state, which also reconciles
// bookings refunded directly in the processor dashboard.
func (s *DefaultBookingService) Refund(ctx context.Context, bookingID string) (*models.Booking, error) {
	bkg, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if bkg.RefundID != "" {
		fields := map[string]interface{}{}
		if bkg.PaymentStatus != models.PaymentRefunded {
			fields["paymentStatus"] = models.PaymentRefunded
		}
		// Coins go back only on the call that actually reconciles the drifted
		// status, so a repeated refund cannot credit twice.
		creditCoins := bkg.Status != models.BookingCancelled
		if creditCoins {
			fields["status"] = models.BookingCancelled
		}
		if len(fields) > 0 {
			if err := s.bookings.UpdateFields(ctx, bkg.ID, fields); err != nil {
				return nil, utils.StoreError("failed to reconcile refund state", err)
			}
			bkg.PaymentStatus = models.PaymentRefunded
			bkg.Status = models.BookingCancelled
		}
		if creditCoins && bkg.LoyaltyCoinsUsed > 0 {
			if err := s.loyalty.Refund(ctx, bkg.UserID, bkg.LoyaltyCoinsUsed); err != nil {
				utils.GetLogger().Error("failed to return coins on refund",
					zap.String("bookingId", bkg.ID), zap.Error(err))
			}
		}
		return bkg, nil
	}
	if bkg.PaymentStatus != models.PaymentPaid || bkg.StripePaymentIntentID == "" {
		return nil, utils.ValidationError("booking has no refundable payment")
	}

	refundID, err := s.gateway.Refund(ctx, bkg.StripePaymentIntentID)
	if err != nil {
		return nil, utils.PaymentError("refund failed", err)
	}
	if err := s.bookings.UpdateFields(ctx, bkg.ID, map[string]interface{}{
		"status":        models.BookingCancelled,
		"paymentStatus": models.PaymentRefunded,
		"refundId":      refundID,
	}); err != nil {
		return nil, utils.StoreError("failed to record refund", err)
	}
	bkg.Status = models.BookingCancelled
	bkg.PaymentStatus = models.PaymentRefunded
	bkg.RefundID = refundID

	if bkg.LoyaltyCoinsUsed > 0 {
		if err := s.loyalty.Refund(ctx, bkg.UserID, bkg.LoyaltyCoinsUsed); err != nil {
			utils.GetLogger().Error("failed to return coins on refund",
				zap.String("bookingId", bkg.ID), zap.Error(err))
		}
	}
	return bkg, nil
}

func (s *DefaultBookingService) CheckIn(ctx context.Context, bookingID string) (*models.Booking, error) {
	bkg, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := checkTransition(bkg.Status, models.BookingCheckedIn); err != nil {
		return nil, err
	}
	if bkg.PaymentStatus != models.PaymentPaid {
		return nil, utils.ConflictError("booking is not paid")
	}
	if err := s.bookings.UpdateFields(ctx, bkg.ID, map[string]interface{}{
		"status": models.BookingCheckedIn,
	}); err != nil {
		return nil, utils.StoreError("failed to check in booking", err)
	}
	bkg.Status = models.BookingCheckedIn
	return bkg, nil
}

func (s *DefaultBookingService) Complete(ctx context.Context, bookingID string) (*models.Booking, error) {
	bkg, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := checkTransition(bkg.Status, models.BookingCompleted); err != nil {
		return nil, err
	}
	if bkg.PaymentStatus != models.PaymentPaid {
		return nil, utils.ConflictError("booking is not paid")
	}
	if err := s.bookings.UpdateFields(ctx, bkg.ID, map[string]interface{}{
		"status": models.BookingCompleted,
	}); err != nil {
		return nil, utils.StoreError("failed to complete booking", err)
	}
	bkg.Status = models.BookingCompleted
	return bkg, nil
}

// RetryPayment returns a confirmable intent for an unpaid pending booking.
// The stored intent is reused while it can still be confirmed; otherwise it
// is abandoned and replaced.
func (s *DefaultBookingService) RetryPayment(ctx context.Context, bookingID, requesterID string) (*models.PaymentIntent, error) {
	bkg, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := authorize(bkg, requesterID, false); err != nil {
		return nil, err
	}
	if bkg.Status != models.BookingPending || bkg.PaymentStatus == models.PaymentPaid {
		return nil, utils.ConflictError("booking is not awaiting payment")
	}
	if bkg.FinalAmount <= 0 {
		return nil, utils.ValidationError("booking has nothing to pay")
	}

	if bkg.StripePaymentIntentID != "" {
		intent, confirmable, err := s.gateway.RetrieveIntent(ctx, bkg.StripePaymentIntentID)
		if err == nil && confirmable && intent.Amount == toMinorUnits(bkg.FinalAmount) {
			return intent, nil
		}
		if err == nil && confirmable {
			// Amount drifted (e.g. booking repriced); abandon the old intent.
			if cancelErr := s.gateway.CancelIntent(ctx, bkg.StripePaymentIntentID); cancelErr != nil {
				utils.GetLogger().Warn("failed to abandon stale intent",
					zap.String("bookingId", bkg.ID), zap.Error(cancelErr))
			}
		}
	}

	intent, err := s.gateway.CreateIntent(ctx, toMinorUnits(bkg.FinalAmount), bkg.Currency, bkg.ID)
	if err != nil {
		return nil, utils.PaymentError("failed to initiate payment", err)
	}
	if err := s.bookings.UpdateFields(ctx, bkg.ID, map[string]interface{}{
		"stripePaymentIntentId": intent.IntentID,
	}); err != nil {
		return nil, utils.StoreError("failed to persist intent id", err)
	}
	return intent, nil
}

// ResendConfirmation re-sends the confirmation email for a paid booking, for
// guests who lost the original.
func (s *DefaultBookingService) ResendConfirmation(ctx context.Context, bookingID, requesterID string, admin bool) error {
	bkg, err := s.load(ctx, bookingID)
	if err != nil {
		return err
	}
	if err := authorize(bkg, requesterID, admin); err != nil {
		return err
	}
	if bkg.PaymentStatus != models.PaymentPaid {
		return utils.ValidationError("only paid bookings have a confirmation to resend")
	}
	s.sendConfirmationAsync(bkg)
	return nil
}

func (s *DefaultBookingService) sendCancellationAsync(bkg *models.Booking, refunded bool) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		user, err := s.users.GetByID(ctx, bkg.UserID)
		if err != nil {
			utils.GetLogger().Error("cancellation email skipped, user lookup failed",
				zap.String("bookingId", bkg.ID), zap.Error(err))
			return
		}
		hotel, err := s.hotels.GetByID(ctx, bkg.HotelID)
		if err != nil {
			utils.GetLogger().Error("cancellation email skipped, hotel lookup failed",
				zap.String("bookingId", bkg.ID), zap.Error(err))
			return
		}
		if err := s.mailer.SendBookingCancellation(bkg, user, hotel, refunded); err != nil {
			utils.GetLogger().Error("failed to send cancellation email",
				zap.String("bookingId", bkg.ID), zap.Error(err))
		}
	}()
}
