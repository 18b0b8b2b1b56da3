package models

import "time"

// Offer is a hotel-scoped discount code. Codes are unique per (hotelId, code),
// stored uppercase. Either DiscountPercent or DiscountFlat must be set; the
// flat amount takes precedence when both are present.
type Offer struct {
	ID      string `bson:"_id" json:"id"`
	HotelID string `bson:"hotelId" json:"hotelId"`
	Code    string `bson:"code" json:"code"`

	DiscountPercent   float64 `bson:"discountPercent,omitempty" json:"discountPercent,omitempty"`
	DiscountFlat      float64 `bson:"discountFlat,omitempty" json:"discountFlat,omitempty"`
	MaxDiscountAmount float64 `bson:"maxDiscountAmount,omitempty" json:"maxDiscountAmount,omitempty"`

	ValidFrom time.Time `bson:"validFrom" json:"validFrom"`
	ValidTo   time.Time `bson:"validTo" json:"validTo"`

	MinBookingAmount float64 `bson:"minBookingAmount" json:"minBookingAmount"`
	MaxRedemptions   int     `bson:"maxRedemptions" json:"maxRedemptions"`
	RedemptionCount  int     `bson:"redemptionCount" json:"redemptionCount"`

	IsActive    bool   `bson:"isActive" json:"isActive"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
	CreatedBy   string `bson:"createdBy,omitempty" json:"createdBy,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Expired reports whether the offer's validity window has passed.
func (o *Offer) Expired(now time.Time) bool {
	return now.After(o.ValidTo)
}

// AtRedemptionCap reports whether the redemption limit has been reached.
// A zero MaxRedemptions means unlimited.
func (o *Offer) AtRedemptionCap() bool {
	return o.MaxRedemptions > 0 && o.RedemptionCount >= o.MaxRedemptions
}
