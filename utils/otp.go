package utils

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/go-redis/redis/v8"
)

const otpTTL = 10 * time.Minute

// GenerateOTP produces a numeric one-time code of the given length.
func GenerateOTP(length int) (string, error) {
	digits := make([]byte, length)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to generate OTP digit: %w", err)
		}
		digits[i] = byte('0' + n.Int64())
	}
	return string(digits), nil
}

// StoreOTP caches an OTP for the given purpose ("verify" or "reset") and email.
func StoreOTP(ctx context.Context, purpose, email, otp string) error {
	key := fmt.Sprintf("otp:%s:%s", purpose, email)
	if err := GetAuthCacheClient().Set(ctx, key, otp, otpTTL).Err(); err != nil {
		return fmt.Errorf("failed to cache OTP: %w", err)
	}
	return nil
}

// VerifyOTP compares a provided OTP against the cached one and consumes it on
// success.
func VerifyOTP(ctx context.Context, purpose, email, provided string) error {
	key := fmt.Sprintf("otp:%s:%s", purpose, email)
	client := GetAuthCacheClient()

	stored, err := client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return fmt.Errorf("OTP not found or expired")
		}
		return fmt.Errorf("failed to retrieve OTP: %w", err)
	}
	if stored != provided {
		return fmt.Errorf("OTP does not match")
	}
	if err := client.Del(ctx, key).Err(); err != nil {
		GetLogger().Sugar().Warnf("failed to delete OTP after verification: %v", err)
	}
	return nil
}
