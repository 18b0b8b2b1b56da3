package userRepo

import (
	"context"

	"stayhub/models"
)

// UserRepository is the persistence contract for user documents.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, userID string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	UpdateFields(ctx context.Context, userID string, fields map[string]interface{}) error
	ListAll(ctx context.Context) ([]models.User, error)

	// AwardCoins atomically adds coins to the user's balance and returns the
	// new balance.
	AwardCoins(ctx context.Context, userID string, coins int) (int, error)

	// DeductCoins atomically subtracts up to `coins` from the user's balance,
	// clamped so the balance never goes negative. It returns the amount
	// actually deducted.
	DeductCoins(ctx context.Context, userID string, coins int) (int, error)

	EnsureIndexes(ctx context.Context) error
}
