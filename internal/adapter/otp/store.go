// Package otp implements a Redis-backed one-time passcode store (C6):
// email verification during candidate onboarding.
package otp

import (
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ironquill/assesspoint/internal/domain"
)

const (
	codeDigits  = 6
	maxAttempts = 5
)

// Store issues and verifies OTP codes in a single Redis hash per
// (email, purpose), matching the HMSET/HMGET idiom the ratelimiter package
// uses for its token-bucket state.
type Store struct {
	redis *redis.Client
}

// New constructs a Store backed by the given Redis client.
func New(rdb *redis.Client) *Store {
	return &Store{redis: rdb}
}

func key(email, purpose string) string {
	return fmt.Sprintf("otp:%s:%s", purpose, email)
}

// Issue generates a new 6-digit code, overwriting any unverified code
// already issued for this (email, purpose) pair, and resets the attempt
// counter.
func (s *Store) Issue(ctx domain.Context, email, purpose string, ttl time.Duration) (string, error) {
	code, err := randomCode()
	if err != nil {
		return "", fmt.Errorf("op=otp.issue: generate code: %w", err)
	}

	k := key(email, purpose)
	pipe := s.redis.TxPipeline()
	pipe.HSet(ctx, k, "code", code, "attempts", 0)
	pipe.Expire(ctx, k, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", fmt.Errorf("op=otp.issue: %w", err)
	}
	return code, nil
}

// Verify checks the candidate-supplied code against the stored one. A
// generic false/nil result (never a distinguishing error) is returned for
// invalid, expired, and attempts-exhausted cases alike, so callers can't
// be used to enumerate which failure mode occurred.
func (s *Store) Verify(ctx domain.Context, email, purpose, code string, maxAttemptsOverride int) (bool, error) {
	limit := maxAttempts
	if maxAttemptsOverride > 0 {
		limit = maxAttemptsOverride
	}

	k := key(email, purpose)
	vals, err := s.redis.HGetAll(ctx, k).Result()
	if err != nil {
		return false, fmt.Errorf("op=otp.verify: %w", err)
	}
	if len(vals) == 0 {
		return false, nil
	}

	attempts, _ := parseAttempts(vals["attempts"])
	if attempts >= limit {
		return false, nil
	}

	if vals["code"] != code {
		if err := s.redis.HIncrBy(ctx, k, "attempts", 1).Err(); err != nil {
			slog.Warn("otp: failed to record attempt", slog.String("error", err.Error()))
		}
		return false, nil
	}

	if err := s.redis.Del(ctx, k).Err(); err != nil {
		slog.Warn("otp: failed to invalidate verified code", slog.String("error", err.Error()))
	}
	return true, nil
}

func randomCode() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < codeDigits; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", codeDigits, n.Int64()), nil
}

func parseAttempts(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	var n int
	_, err := fmt.Sscanf(s, "%d", &n)
	return n, err
}
