package models

import "time"

// Review is a post-stay rating. One review per booking; only completed stays
// are eligible.
type Review struct {
	ID        string    `bson:"_id" json:"id"`
	HotelID   string    `bson:"hotelId" json:"hotelId"`
	UserID    string    `bson:"userId" json:"userId"`
	BookingID string    `bson:"bookingId" json:"bookingId"`
	Rating    int       `bson:"rating" json:"rating"`
	Comment   string    `bson:"comment,omitempty" json:"comment,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
