package otp

import (
	"coffee_platform/internal/domain" // Identifier and errors
	"context"                         // Redis calls
	"time"                            // Window length

	"github.com/redis/go-redis/v9" // Redis client
)

// Purpose of a code request
type Purpose string

const (
	PurposeRegistration Purpose = "account_registration"
	PurposeRecovery     Purpose = "password_recovery"
)

// Limiter caps code requests per identifier and purpose within a window
type Limiter struct {
	rdb    redis.Cmdable
	max    int
	window time.Duration
}

// NewLimiter allows max requests per window
func NewLimiter(rdb redis.Cmdable, max int, window time.Duration) *Limiter {
	return &Limiter{rdb: rdb, max: max, window: window}
}

// Allow counts one request, returning domain.ErrTooManyOTPRequests past the cap
func (l *Limiter) Allow(ctx context.Context, id domain.Identifier, purpose Purpose) error {
	if l == nil || l.max <= 0 {
		return nil
	}
	key := "otp:rate:" + string(purpose) + ":" + id.Key()
	n, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		return err
	}
	if n == 1 {
		if err := l.rdb.Expire(ctx, key, l.window).Err(); err != nil {
			return err
		}
	}
	if int(n) > l.max {
		return domain.ErrTooManyOTPRequests
	}
	return nil
}
