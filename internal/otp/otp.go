// Package otp issues and consumes short-lived one-time codes stored in Redis.
//
// Two keys are written per code: otp:id:<identifier> holds the code record and
// otp:code:<code> points back at the identifier. Both expire with the code TTL,
// so an expired code can never be verified and a live code is never handed to
// two identifiers at once.
package otp

import (
	"coffee_platform/internal/domain" // Identifier and code record
	"context"                         // Redis calls
	"crypto/rand"                     // Code generation
	"encoding/json"                   // Record encoding
	"errors"                          // Sentinel errors
	"fmt"                             // Code formatting
	"math/big"                        // Random range
	"time"                            // TTL

	"github.com/redis/go-redis/v9" // Redis client
)

// Defaults for issued codes
const (
	DefaultTTL      = 2 * time.Minute
	DefaultDigits   = 4
	maxRollAttempts = 32
)

// ErrCodeSpaceExhausted is returned when no free code could be claimed
var ErrCodeSpaceExhausted = errors.New("no free one-time code available")

// Deletes the code key only while it still belongs to ARGV[1]
var releaseScript = redis.NewScript(`
if redis.call('GET', KEYS[1]) == ARGV[1] then
	return redis.call('DEL', KEYS[1])
end
return 0
`)

// Deletes the identifier record and its code key when the code belongs to the identifier
var consumeScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return 0
end
if redis.call('GET', KEYS[2]) ~= ARGV[1] then
	return 0
end
redis.call('DEL', KEYS[1], KEYS[2])
return 1
`)

// Issuer hands out one code per identifier at a time
type Issuer struct {
	rdb    redis.Cmdable
	ttl    time.Duration
	digits int
	roll   func(digits int) (string, error)
	now    func() time.Time
}

// NewIssuer returns an Issuer with a 2 minute TTL and 4 digit codes
func NewIssuer(rdb redis.Cmdable) *Issuer {
	return &Issuer{rdb: rdb, ttl: DefaultTTL, digits: DefaultDigits, roll: randomCode, now: time.Now}
}

// TTL is how long an issued code stays valid
func (i *Issuer) TTL() time.Duration {
	return i.ttl
}

func idKey(id domain.Identifier) string {
	return "otp:id:" + id.Key()
}

func codeKey(code string) string {
	return "otp:code:" + code
}

// Issue replaces any outstanding code for id with a fresh one that no other
// identifier currently holds
func (i *Issuer) Issue(ctx context.Context, id domain.Identifier) (string, error) {
	if err := i.revoke(ctx, id); err != nil {
		return "", fmt.Errorf("revoke previous code: %w", err)
	}
	for attempt := 0; attempt < maxRollAttempts; attempt++ {
		code, err := i.roll(i.digits)
		if err != nil {
			return "", err
		}
		claimed, err := i.rdb.SetNX(ctx, codeKey(code), id.Key(), i.ttl).Result()
		if err != nil {
			return "", fmt.Errorf("claim code: %w", err)
		}
		if !claimed {
			continue // Held by another identifier, roll again
		}
		record, err := json.Marshal(domain.OneTimeCode{Identifier: id, Code: code, CreatedAt: i.now()})
		if err != nil {
			return "", err
		}
		if err := i.rdb.Set(ctx, idKey(id), record, i.ttl).Err(); err != nil {
			_ = i.rdb.Del(ctx, codeKey(code)).Err()
			return "", fmt.Errorf("store code: %w", err)
		}
		return code, nil
	}
	return "", ErrCodeSpaceExhausted
}

// revoke drops the outstanding code of id, if any
func (i *Issuer) revoke(ctx context.Context, id domain.Identifier) error {
	raw, err := i.rdb.Get(ctx, idKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return err
	}
	var prev domain.OneTimeCode
	if err := json.Unmarshal(raw, &prev); err == nil && prev.Code != "" {
		if err := releaseScript.Run(ctx, i.rdb, []string{codeKey(prev.Code)}, id.Key()).Err(); err != nil {
			return err
		}
	}
	return i.rdb.Del(ctx, idKey(id)).Err()
}

// Consume verifies code for id and deletes it, so a code verifies at most once.
// A wrong, expired or already used code yields domain.ErrInvalidOTP.
func (i *Issuer) Consume(ctx context.Context, id domain.Identifier, code string) error {
	ok, err := consumeScript.Run(ctx, i.rdb, []string{idKey(id), codeKey(code)}, id.Key()).Int()
	if err != nil {
		return fmt.Errorf("consume code: %w", err)
	}
	if ok == 0 {
		return domain.ErrInvalidOTP
	}
	return nil
}

// Outstanding returns the live code record of id
func (i *Issuer) Outstanding(ctx context.Context, id domain.Identifier) (*domain.OneTimeCode, error) {
	raw, err := i.rdb.Get(ctx, idKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrInvalidOTP
	}
	if err != nil {
		return nil, err
	}
	var rec domain.OneTimeCode
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func randomCode(digits int) (string, error) {
	limit := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits)), nil) // 10^digits
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", digits, n.Int64()), nil
}
