package models

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID       string `bson:"_id" json:"id"`
	Name     string `bson:"name" json:"name"`
	Email    string `bson:"email" json:"email"`
	Password string `bson:"password" json:"-"`
	Role     string `bson:"role" json:"role"`

	IsVerified bool `bson:"isVerified" json:"isVerified"`

	// LoyaltyCoins is mutated only through atomic increments on the store,
	// never via read-modify-write.
	LoyaltyCoins int `bson:"loyaltyCoins" json:"loyaltyCoins"`

	Favorites []string `bson:"favorites,omitempty" json:"favorites,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// IsAdmin reports whether this user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
