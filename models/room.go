package models

import (
	"fmt"
	"time"
)

// Room types and attributes follow the catalog enums.
const (
	RoomStandard = "Standard"
	RoomDeluxe   = "Deluxe"
	RoomSuite    = "Suite"
)

type Capacity struct {
	Adults   int `bson:"adults" json:"adults"`
	Children int `bson:"children" json:"children"`
}

// Total is the occupancy limit checked at booking time.
func (c Capacity) Total() int {
	return c.Adults + c.Children
}

type Room struct {
	ID          string   `bson:"_id" json:"id"`
	HotelID     string   `bson:"hotelId" json:"hotelId"`
	Type        string   `bson:"type" json:"type"`
	BedType     string   `bson:"bedType" json:"bedType"`
	View        string   `bson:"view,omitempty" json:"view,omitempty"`
	Description string   `bson:"description,omitempty" json:"description,omitempty"`
	Price       float64  `bson:"price" json:"price"`
	Capacity    Capacity `bson:"capacity" json:"capacity"`
	Amenities   []string `bson:"amenities,omitempty" json:"amenities,omitempty"`
	Images      []Image  `bson:"images,omitempty" json:"images,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// DisplayName renders the customer-facing room name.
func (r *Room) DisplayName() string {
	return fmt.Sprintf("%s %s (%s view)", r.Type, r.BedType, r.View)
}
