package booking

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"stayhub/config"
	hotelRepo "stayhub/database/repository/hotel"
	offerRepo "stayhub/database/repository/offer"
	roomRepo "stayhub/database/repository/room"
	"stayhub/models"
	"stayhub/utils"
)

// stayContext is everything resolved and validated about a prospective stay
// before pricing.
type stayContext struct {
	hotel    *models.Hotel
	room     *models.Room
	offer    *models.Offer
	checkIn  time.Time
	checkOut time.Time
}

func (s *DefaultBookingService) resolveStay(ctx context.Context, input CreateInput) (*stayContext, error) {
	checkIn, err := utils.ParseYMD(input.CheckIn)
	if err != nil {
		return nil, utils.ValidationError("invalid check-in date, expected YYYY-MM-DD")
	}
	checkOut, err := utils.ParseYMD(input.CheckOut)
	if err != nil {
		return nil, utils.ValidationError("invalid check-out date, expected YYYY-MM-DD")
	}
	if !checkOut.After(checkIn) {
		return nil, utils.ValidationError("check-out must be after check-in")
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	if checkIn.Before(today) {
		return nil, utils.ValidationError("check-in date is in the past")
	}

	hotel, err := s.hotels.GetByID(ctx, input.HotelID)
	if err != nil {
		if errors.Is(err, hotelRepo.ErrNotFound) {
			return nil, utils.NotFoundError("hotel not found")
		}
		return nil, utils.StoreError("failed to fetch hotel", err)
	}
	if !hotel.IsActive {
		return nil, utils.ValidationError("hotel is not accepting bookings")
	}

	room, err := s.rooms.GetForHotel(ctx, input.RoomID, input.HotelID)
	if err != nil {
		if errors.Is(err, roomRepo.ErrNotFound) {
			return nil, utils.NotFoundError("room not found in this hotel")
		}
		return nil, utils.StoreError("failed to fetch room", err)
	}

	if input.Guests < 1 {
		return nil, utils.ValidationError("at least one guest is required")
	}
	if input.Guests > room.Capacity.Total() {
		return nil, utils.ValidationError("guest count exceeds room capacity")
	}

	stay := &stayContext{hotel: hotel, room: room, checkIn: checkIn, checkOut: checkOut}

	if code := strings.ToUpper(strings.TrimSpace(input.OfferCode)); code != "" {
		offer, err := s.offers.GetByCode(ctx, input.HotelID, code)
		if err != nil {
			if errors.Is(err, offerRepo.ErrNotFound) {
				return nil, utils.ValidationError("offer code not found")
			}
			return nil, utils.StoreError("failed to fetch offer", err)
		}
		stay.offer = offer
	}
	return stay, nil
}

// PreviewQuote prices the stay without reserving inventory, consuming coins
// or counting an offer redemption.
func (s *DefaultBookingService) PreviewQuote(ctx context.Context, input CreateInput) (*Quote, error) {
	stay, err := s.resolveStay(ctx, input)
	if err != nil {
		return nil, err
	}

	coins := input.CoinsToUse
	if coins > 0 {
		balance, err := s.loyalty.Balance(ctx, input.UserID)
		if err != nil {
			return nil, err
		}
		if coins > balance {
			coins = balance
		}
	}

	quote, err := BuildQuote(stay.room.Price, stay.checkIn, stay.checkOut, stay.offer, coins, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

func (s *DefaultBookingService) Create(ctx context.Context, input CreateInput) (*CreateResult, error) {
	stay, err := s.resolveStay(ctx, input)
	if err != nil {
		return nil, err
	}

	release, acquired, err := s.locker.Acquire(ctx, input.HotelID, input.RoomID)
	if err != nil {
		return nil, utils.StoreError("failed to acquire room lock", err)
	}
	if !acquired {
		return nil, utils.ConflictError("room is being booked by another request, try again")
	}
	defer release()

	overlapping, err := s.bookings.HasOverlapping(ctx, input.HotelID, input.RoomID, stay.checkIn, stay.checkOut)
	if err != nil {
		return nil, utils.StoreError("failed to check availability", err)
	}
	if overlapping {
		return nil, utils.ConflictError("room is not available for the selected dates")
	}

	// Coins are only reserved here, clamped to the current balance; the debit
	// happens on the transition that commits the booking (below for zero-cost
	// stays, at payment confirmation otherwise), so an abandoned pending
	// booking never holds any of the guest's balance.
	coins := input.CoinsToUse
	if coins > 0 {
		balance, err := s.loyalty.Balance(ctx, input.UserID)
		if err != nil {
			return nil, err
		}
		if coins > balance {
			coins = balance
		}
	}

	quote, err := BuildQuote(stay.room.Price, stay.checkIn, stay.checkOut, stay.offer, coins, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	bkg := &models.Booking{
		ID:               uuid.NewString(),
		UserID:           input.UserID,
		HotelID:          input.HotelID,
		RoomID:           input.RoomID,
		CheckIn:          stay.checkIn,
		CheckOut:         stay.checkOut,
		Guests:           input.Guests,
		SpecialRequests:  input.SpecialRequests,
		TotalAmount:      quote.BaseAmount,
		DiscountAmount:   quote.DiscountAmount,
		FinalAmount:      quote.FinalAmount,
		Currency:         config.AppConfig.Currency,
		LoyaltyCoinsUsed: quote.CoinsApplied,
		Status:           models.BookingPending,
		PaymentStatus:    models.PaymentPending,
		EmergencyContactSnapshot: models.EmergencyContactSnapshot{
			HotelName:      stay.hotel.Name,
			Name:           stay.hotel.EmergencyContact.Name,
			Phone:          stay.hotel.EmergencyContact.Phone,
			Role:           stay.hotel.EmergencyContact.Role,
			AvailableHours: stay.hotel.EmergencyContact.AvailableHours,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if stay.offer != nil {
		bkg.OfferCode = stay.offer.Code
	}

	// Fully covered by discount and coins: no payment leg at all, so the
	// booking commits here and the reserved coins are debited now.
	if quote.FinalAmount == 0 {
		if quote.CoinsApplied > 0 {
			deducted, err := s.loyalty.Redeem(ctx, input.UserID, quote.CoinsApplied)
			if err != nil {
				return nil, err
			}
			if deducted < quote.CoinsApplied {
				// Balance shrank between quoting and redeeming.
				s.rollbackCoins(input.UserID, deducted)
				return nil, utils.ConflictError("loyalty balance changed, please retry")
			}
		}
		bkg.Status = models.BookingBooked
		bkg.PaymentStatus = models.PaymentPaid

		if err := s.bookings.Create(ctx, bkg); err != nil {
			s.rollbackCoins(input.UserID, quote.CoinsApplied)
			return nil, utils.StoreError("failed to create booking", err)
		}
		if stay.offer != nil {
			if err := s.offers.IncrementRedemptions(ctx, input.HotelID, stay.offer.Code); err != nil {
				utils.GetLogger().Error("failed to count offer redemption",
					zap.String("bookingId", bkg.ID), zap.Error(err))
			}
		}
		s.sendConfirmationAsync(bkg)
		return &CreateResult{Booking: bkg}, nil
	}

	if err := s.bookings.Create(ctx, bkg); err != nil {
		return nil, utils.StoreError("failed to create booking", err)
	}

	intent, err := s.gateway.CreateIntent(ctx, toMinorUnits(quote.FinalAmount), bkg.Currency, bkg.ID)
	if err != nil {
		// Undo the reservation so the room is not held by a booking that can
		// never be paid.
		if updErr := s.bookings.UpdateFields(ctx, bkg.ID, map[string]interface{}{
			"status":        models.BookingCancelled,
			"paymentStatus": models.PaymentFailed,
		}); updErr != nil {
			utils.GetLogger().Error("failed to void booking after intent failure",
				zap.String("bookingId", bkg.ID), zap.Error(updErr))
		}
		return nil, utils.PaymentError("failed to initiate payment", err)
	}

	bkg.StripePaymentIntentID = intent.IntentID
	if err := s.bookings.UpdateFields(ctx, bkg.ID, map[string]interface{}{
		"stripePaymentIntentId": intent.IntentID,
	}); err != nil {
		utils.GetLogger().Error("failed to persist intent id",
			zap.String("bookingId", bkg.ID), zap.Error(err))
	}

	return &CreateResult{Booking: bkg, Intent: intent}, nil
}

// rollbackCoins returns coins taken during a create attempt that failed.
func (s *DefaultBookingService) rollbackCoins(userID string, coins int) {
	if coins <= 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.loyalty.Refund(ctx, userID, coins); err != nil {
		utils.GetLogger().Error("failed to return coins after aborted booking",
			zap.String("userId", userID), zap.Int("coins", coins), zap.Error(err))
	}
}

func (s *DefaultBookingService) sendConfirmationAsync(bkg *models.Booking) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		user, err := s.users.GetByID(ctx, bkg.UserID)
		if err != nil {
			utils.GetLogger().Error("confirmation email skipped, user lookup failed",
				zap.String("bookingId", bkg.ID), zap.Error(err))
			return
		}
		hotel, err := s.hotels.GetByID(ctx, bkg.HotelID)
		if err != nil {
			utils.GetLogger().Error("confirmation email skipped, hotel lookup failed",
				zap.String("bookingId", bkg.ID), zap.Error(err))
			return
		}
		room, err := s.rooms.GetByID(ctx, bkg.RoomID)
		if err != nil {
			utils.GetLogger().Error("confirmation email skipped, room lookup failed",
				zap.String("bookingId", bkg.ID), zap.Error(err))
			return
		}
		if err := s.mailer.SendBookingConfirmation(bkg, user, hotel, room); err != nil {
			utils.GetLogger().Error("failed to send confirmation email",
				zap.String("bookingId", bkg.ID), zap.Error(err))
			return
		}
		// Flagged only after a successful send so a failed one can be retried.
		if err := s.bookings.UpdateFields(ctx, bkg.ID, map[string]interface{}{
			"emailConfirmedSent": true,
		}); err != nil {
			utils.GetLogger().Error("failed to flag confirmation email",
				zap.String("bookingId", bkg.ID), zap.Error(err))
		}
	}()
}

// toMinorUnits converts a major-unit amount to the processor's minor units.
func toMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
