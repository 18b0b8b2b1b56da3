package loyalty

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"stayhub/config"
	userRepo "stayhub/database/repository/user"
	"stayhub/utils"
)

// LoyaltyService manages the per-user coin balance. One coin is worth one
// major currency unit at redemption time.
type LoyaltyService interface {
	// Balance returns the user's current coin balance.
	Balance(ctx context.Context, userID string) (int, error)

	// Redeem atomically deducts up to `requested` coins, clamped to the
	// available balance, and returns the amount actually deducted. Requested
	// amounts <= 0 deduct nothing.
	Redeem(ctx context.Context, userID string, requested int) (int, error)

	// Refund credits previously redeemed coins back to the user.
	Refund(ctx context.Context, userID string, coins int) error

	// AwardForSpend grants the configured bonus when the paid amount meets
	// the qualifying threshold. Returns the number of coins awarded.
	AwardForSpend(ctx context.Context, userID string, finalAmount float64) (int, error)
}

// DefaultLoyaltyService is the production implementation backed by the user
// repository's atomic balance operations.
type DefaultLoyaltyService struct {
	userRepo userRepo.UserRepository
}

// NewLoyaltyService constructs a DefaultLoyaltyService.
func NewLoyaltyService(users userRepo.UserRepository) LoyaltyService {
	return &DefaultLoyaltyService{userRepo: users}
}

func (s *DefaultLoyaltyService) Balance(ctx context.Context, userID string) (int, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, userRepo.ErrNotFound) {
			return 0, utils.NotFoundError("user not found")
		}
		return 0, utils.StoreError("failed to fetch user", err)
	}
	return user.LoyaltyCoins, nil
}

func (s *DefaultLoyaltyService) Redeem(ctx context.Context, userID string, requested int) (int, error) {
	if requested <= 0 {
		return 0, nil
	}
	deducted, err := s.userRepo.DeductCoins(ctx, userID, requested)
	if err != nil {
		if errors.Is(err, userRepo.ErrNotFound) {
			return 0, utils.NotFoundError("user not found")
		}
		return 0, utils.StoreError("failed to redeem coins", err)
	}
	if deducted < requested {
		utils.GetLogger().Debug("coin redemption clamped to balance",
			zap.String("userId", userID),
			zap.Int("requested", requested),
			zap.Int("deducted", deducted))
	}
	return deducted, nil
}

func (s *DefaultLoyaltyService) Refund(ctx context.Context, userID string, coins int) error {
	if coins <= 0 {
		return nil
	}
	if _, err := s.userRepo.AwardCoins(ctx, userID, coins); err != nil {
		return utils.StoreError("failed to refund coins", err)
	}
	return nil
}

func (s *DefaultLoyaltyService) AwardForSpend(ctx context.Context, userID string, finalAmount float64) (int, error) {
	cfg := config.AppConfig
	if finalAmount < cfg.LoyaltyAwardThreshold || cfg.LoyaltyAwardCoins <= 0 {
		return 0, nil
	}
	balance, err := s.userRepo.AwardCoins(ctx, userID, cfg.LoyaltyAwardCoins)
	if err != nil {
		return 0, utils.StoreError("failed to award coins", err)
	}
	utils.GetLogger().Info("loyalty coins awarded",
		zap.String("userId", userID),
		zap.Int("coins", cfg.LoyaltyAwardCoins),
		zap.Int("balance", balance))
	return cfg.LoyaltyAwardCoins, nil
}
