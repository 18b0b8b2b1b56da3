package booking

import (
	"math"
	"time"

	"stayhub/models"
	"stayhub/utils"
)

// Quote is the server-computed price breakdown for a prospective stay. All
// amounts are in major currency units; client-submitted amounts are never
// trusted.
type Quote struct {
	Nights         int     `json:"nights"`
	BaseAmount     float64 `json:"baseAmount"`
	DiscountAmount float64 `json:"discountAmount"`
	CoinsApplied   int     `json:"coinsApplied"`
	FinalAmount    float64 `json:"finalAmount"`
}

// validateOffer applies the redemption gates for an offer against a base
// amount at a given instant.
func validateOffer(offer *models.Offer, base float64, now time.Time) error {
	if !offer.IsActive {
		return utils.ValidationError("offer is no longer active")
	}
	if now.Before(offer.ValidFrom) {
		return utils.ValidationError("offer is not valid yet")
	}
	if offer.Expired(now) {
		return utils.ValidationError("offer has expired")
	}
	if offer.AtRedemptionCap() {
		return utils.ValidationError("offer redemption limit reached")
	}
	if base < offer.MinBookingAmount {
		return utils.ValidationError("booking amount below the offer minimum")
	}
	return nil
}

// offerDiscount computes the discount an offer grants on a base amount.
// A flat amount takes precedence over a percentage; percentage discounts are
// floored and capped by the offer's maximum. The result never exceeds base.
func offerDiscount(offer *models.Offer, base float64) float64 {
	var discount float64
	switch {
	case offer.DiscountFlat > 0:
		discount = offer.DiscountFlat
	case offer.DiscountPercent > 0:
		discount = math.Floor(offer.DiscountPercent / 100 * base)
		if offer.MaxDiscountAmount > 0 && discount > offer.MaxDiscountAmount {
			discount = offer.MaxDiscountAmount
		}
	}
	if discount > base {
		discount = base
	}
	return discount
}

// BuildQuote prices a stay: nights times the room rate, minus the offer
// discount, minus loyalty coins at one major unit each. The offer may be nil.
// Coins are capped at the remaining balance due so none are wasted; the final
// amount never goes below zero.
func BuildQuote(pricePerNight float64, checkIn, checkOut time.Time, offer *models.Offer, coinsRequested int, now time.Time) (Quote, error) {
	nights := utils.Nights(checkIn, checkOut)
	base := pricePerNight * float64(nights)

	var discount float64
	if offer != nil {
		if err := validateOffer(offer, base, now); err != nil {
			return Quote{}, err
		}
		discount = offerDiscount(offer, base)
	}

	coins := coinsRequested
	if coins < 0 {
		coins = 0
	}
	if remaining := int(base - discount); coins > remaining {
		coins = remaining
	}

	final := base - discount - float64(coins)
	if final < 0 {
		final = 0
	}

	return Quote{
		Nights:         nights,
		BaseAmount:     base,
		DiscountAmount: discount,
		CoinsApplied:   coins,
		FinalAmount:    final,
	}, nil
}
