package models

import "time"

// GeoPoint is a GeoJSON point, [lng, lat].
type GeoPoint struct {
	Type        string    `bson:"type" json:"type"`
	Coordinates []float64 `bson:"coordinates" json:"coordinates"`
}

type Location struct {
	City        string   `bson:"city,omitempty" json:"city,omitempty"`
	State       string   `bson:"state,omitempty" json:"state,omitempty"`
	Country     string   `bson:"country,omitempty" json:"country,omitempty"`
	Coordinates GeoPoint `bson:"coordinates,omitempty" json:"coordinates,omitempty"`
}

// EmergencyContact is the live contact record on a hotel. Bookings copy it
// into an EmergencyContactSnapshot at creation time.
type EmergencyContact struct {
	Name           string `bson:"name,omitempty" json:"name,omitempty"`
	Phone          string `bson:"phone,omitempty" json:"phone,omitempty"`
	Role           string `bson:"role,omitempty" json:"role,omitempty"`
	AvailableHours string `bson:"availableHours,omitempty" json:"availableHours,omitempty"`
}

// Image is a stored catalog image reference.
type Image struct {
	URL      string `bson:"url" json:"url"`
	PublicID string `bson:"publicId" json:"publicId"`
}

type Hotel struct {
	ID          string   `bson:"_id" json:"id"`
	Name        string   `bson:"name" json:"name"`
	Location    Location `bson:"location,omitempty" json:"location,omitempty"`
	Address     string   `bson:"address,omitempty" json:"address,omitempty"`
	Description string   `bson:"description,omitempty" json:"description,omitempty"`
	Amenities   []string `bson:"amenities,omitempty" json:"amenities,omitempty"`
	Images      []Image  `bson:"images,omitempty" json:"images,omitempty"`

	RatingAvg   float64 `bson:"ratingAvg" json:"ratingAvg"`
	RatingCount int     `bson:"ratingCount" json:"ratingCount"`

	IsActive bool `bson:"isActive" json:"isActive"`

	EmergencyContact EmergencyContact `bson:"emergencyContact,omitempty" json:"emergencyContact,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
