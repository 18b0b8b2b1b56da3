package booking

import (
	"context"
	"errors"

	"go.uber.org/zap"

	bookingRepo "stayhub/database/repository/booking"
	"stayhub/models"
	"stayhub/utils"
)

// HandlePaymentEvent applies a verified payment-processor event to the
// matching booking. Processors redeliver events, so every branch is
// idempotent: a replay observes the already-updated record and does nothing.
func (s *DefaultBookingService) HandlePaymentEvent(ctx context.Context, event *models.PaymentEvent) error {
	if event == nil {
		return nil
	}

	bkg, err := s.lookupForEvent(ctx, event)
	if err != nil {
		return err
	}
	if bkg == nil {
		// Not ours (e.g. an intent created by another system on the same
		// account). Acknowledge so the processor stops redelivering.
		utils.GetLogger().Warn("payment event matched no booking",
			zap.String("intentId", event.IntentID), zap.String("type", string(event.Type)))
		return nil
	}

	switch event.Type {
	case models.PaymentEventSucceeded:
		return s.applyPaymentSuccess(ctx, bkg, event)
	case models.PaymentEventFailed:
		return s.applyPaymentFailure(ctx, bkg)
	case models.PaymentEventCanceled:
		return s.applyPaymentCancellation(ctx, bkg)
	default:
		return nil
	}
}

func (s *DefaultBookingService) lookupForEvent(ctx context.Context, event *models.PaymentEvent) (*models.Booking, error) {
	if event.BookingID != "" {
		bkg, err := s.bookings.GetByID(ctx, event.BookingID)
		if err == nil {
			return bkg, nil
		}
		if !errors.Is(err, bookingRepo.ErrNotFound) {
			return nil, utils.StoreError("failed to fetch booking for event", err)
		}
	}
	bkg, err := s.bookings.GetByIntentID(ctx, event.IntentID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return nil, nil
		}
		return nil, utils.StoreError("failed to fetch booking for event", err)
	}
	return bkg, nil
}

func (s *DefaultBookingService) applyPaymentSuccess(ctx context.Context, bkg *models.Booking, event *models.PaymentEvent) error {
	// Replay guard: once paid, success events are no-ops.
	if bkg.PaymentStatus == models.PaymentPaid || bkg.PaymentStatus == models.PaymentRefunded {
		return nil
	}

	// Payment landed after the booking was cancelled (the guest paid in a
	// race with their own cancel, or an operator cancelled meanwhile).
	// Reconcile by refunding rather than resurrecting the stay.
	if bkg.Status == models.BookingCancelled {
		utils.GetLogger().Warn("payment succeeded for cancelled booking, refunding",
			zap.String("bookingId", bkg.ID), zap.String("intentId", event.IntentID))
		refundID, err := s.gateway.Refund(ctx, event.IntentID)
		if err != nil {
			return utils.PaymentError("failed to refund orphaned payment", err)
		}
		if err := s.bookings.UpdateFields(ctx, bkg.ID, map[string]interface{}{
			"paymentStatus":         models.PaymentRefunded,
			"refundId":              refundID,
			"stripePaymentIntentId": event.IntentID,
		}); err != nil {
			return utils.StoreError("failed to record orphaned refund", err)
		}
		return nil
	}

	if err := checkTransition(bkg.Status, models.BookingBooked); err != nil {
		// Already booked (e.g. a second success event): just make sure the
		// payment linkage is recorded.
		if bkg.Status != models.BookingBooked {
			return err
		}
	}

	// Coins reserved at create are debited only now, on the transition that
	// commits the booking; a pending record holds none of the balance.
	if bkg.Status == models.BookingPending && bkg.LoyaltyCoinsUsed > 0 {
		deducted, err := s.loyalty.Redeem(ctx, bkg.UserID, bkg.LoyaltyCoinsUsed)
		if err != nil {
			utils.GetLogger().Error("failed to debit reserved coins",
				zap.String("bookingId", bkg.ID), zap.Error(err))
		} else if deducted < bkg.LoyaltyCoinsUsed {
			utils.GetLogger().Warn("loyalty balance shrank since booking, partial debit",
				zap.String("bookingId", bkg.ID),
				zap.Int("reserved", bkg.LoyaltyCoinsUsed),
				zap.Int("deducted", deducted))
			bkg.LoyaltyCoinsUsed = deducted
		}
	}

	coinsEarned, err := s.loyalty.AwardForSpend(ctx, bkg.UserID, bkg.FinalAmount)
	if err != nil {
		utils.GetLogger().Error("failed to award loyalty coins",
			zap.String("bookingId", bkg.ID), zap.Error(err))
		coinsEarned = 0
	}

	fields := map[string]interface{}{
		"status":                models.BookingBooked,
		"paymentStatus":         models.PaymentPaid,
		"stripePaymentIntentId": event.IntentID,
		"transactionId":         event.IntentID,
		"loyaltyCoinsEarned":    coinsEarned,
		"loyaltyCoinsUsed":      bkg.LoyaltyCoinsUsed,
	}
	if event.ReceiptURL != "" {
		fields["paymentReceiptUrl"] = event.ReceiptURL
	}
	sendEmail := !bkg.EmailConfirmedSent
	if err := s.bookings.UpdateFields(ctx, bkg.ID, fields); err != nil {
		return utils.StoreError("failed to confirm booking", err)
	}

	bkg.Status = models.BookingBooked
	bkg.PaymentStatus = models.PaymentPaid
	bkg.StripePaymentIntentID = event.IntentID
	bkg.TransactionID = event.IntentID
	bkg.LoyaltyCoinsEarned = coinsEarned
	if event.ReceiptURL != "" {
		bkg.PaymentReceiptURL = event.ReceiptURL
	}

	// Redemptions are counted on the pending->booked transition only, so a
	// replayed event cannot double-count.
	if bkg.OfferCode != "" {
		if err := s.offers.IncrementRedemptions(ctx, bkg.HotelID, bkg.OfferCode); err != nil {
			utils.GetLogger().Error("failed to count offer redemption",
				zap.String("bookingId", bkg.ID), zap.Error(err))
		}
	}

	if sendEmail {
		s.sendConfirmationAsync(bkg)
	}

	utils.GetLogger().Info("booking confirmed",
		zap.String("bookingId", bkg.ID),
		zap.String("intentId", event.IntentID),
		zap.Float64("amount", bkg.FinalAmount))
	return nil
}

func (s *DefaultBookingService) applyPaymentFailure(ctx context.Context, bkg *models.Booking) error {
	// A definitive failure releases the room immediately; the guest rebooks
	// with a fresh booking. No coins to return, pending records hold none.
	if bkg.Status != models.BookingPending || bkg.PaymentStatus != models.PaymentPending {
		return nil
	}
	if err := s.bookings.UpdateFields(ctx, bkg.ID, map[string]interface{}{
		"status":        models.BookingCancelled,
		"paymentStatus": models.PaymentFailed,
	}); err != nil {
		return utils.StoreError("failed to record payment failure", err)
	}
	return nil
}

func (s *DefaultBookingService) applyPaymentCancellation(ctx context.Context, bkg *models.Booking) error {
	if bkg.Status != models.BookingPending {
		return nil
	}
	if err := s.bookings.UpdateFields(ctx, bkg.ID, map[string]interface{}{
		"status":        models.BookingCancelled,
		"paymentStatus": models.PaymentCancelled,
	}); err != nil {
		return utils.StoreError("failed to cancel unpaid booking", err)
	}
	return nil
}
