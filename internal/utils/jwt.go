package utils

import (
	"coffee_platform/internal/domain" // Identifier claim
	"errors"                          // Sentinel errors
	"fmt"                             // Error wrapping
	"time"                            // Time for token expiration

	"github.com/golang-jwt/jwt/v5" // JWT library
)

// Actor is the principal class a token is minted for
type Actor string

const (
	ActorUser  Actor = "user"
	ActorAdmin Actor = "admin"
)

// TokenKind is the purpose of a token
type TokenKind string

const (
	KindAccess   TokenKind = "access"
	KindRefresh  TokenKind = "refresh"
	KindRegister TokenKind = "register"
)

var (
	ErrInvalidToken     = errors.New("invalid or expired token")
	ErrUnsupportedToken = errors.New("unsupported token actor/kind")
)

// JWT Claims
type Claims struct {
	Actor                Actor              `json:"actor"`                // Principal class
	Kind                 TokenKind          `json:"kind"`                 // Token purpose
	ID                   uint               `json:"id,omitempty"`         // User or admin ID
	Identifier           *domain.Identifier `json:"identifier,omitempty"` // Verified contact, register tokens only
	jwt.RegisteredClaims                    // Standard JWT claims
}

// TokenSecrets holds one signing secret per actor/kind pair
type TokenSecrets struct {
	UserAccess   string
	UserRefresh  string
	UserRegister string
	AdminAccess  string
	AdminRefresh string
}

type tokenSlot struct {
	actor Actor
	kind  TokenKind
}

type slotConfig struct {
	secret   []byte
	lifetime time.Duration
}

// TokenIssuer mints and verifies the five token families
type TokenIssuer struct {
	slots map[tokenSlot]slotConfig
	now   func() time.Time
}

// NewTokenIssuer builds an issuer with the platform lifetimes
func NewTokenIssuer(s TokenSecrets) *TokenIssuer {
	day := 24 * time.Hour
	return &TokenIssuer{
		slots: map[tokenSlot]slotConfig{
			{ActorUser, KindAccess}:   {[]byte(s.UserAccess), 15 * day},
			{ActorUser, KindRefresh}:  {[]byte(s.UserRefresh), 15 * day},
			{ActorUser, KindRegister}: {[]byte(s.UserRegister), 10 * time.Minute},
			{ActorAdmin, KindAccess}:  {[]byte(s.AdminAccess), 30 * day},
			{ActorAdmin, KindRefresh}: {[]byte(s.AdminRefresh), 15 * day},
		},
		now: time.Now,
	}
}

// Issue signs claims for the actor/kind pair, stamping kind, actor and expiry
func (t *TokenIssuer) Issue(actor Actor, kind TokenKind, claims Claims) (string, error) {
	slot, ok := t.slots[tokenSlot{actor, kind}]
	if !ok {
		return "", ErrUnsupportedToken
	}
	now := t.now()
	claims.Actor = actor
	claims.Kind = kind
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(slot.lifetime)), // Token expiry
		IssuedAt:  jwt.NewNumericDate(now),                    // Issued at current time
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims) // Create token with claims
	return token.SignedString(slot.secret)                     // Sign the token with the secret
}

// Verify parses tokenStr and checks signature, expiry and that it was minted for actor/kind
func (t *TokenIssuer) Verify(actor Actor, kind TokenKind, tokenStr string) (*Claims, error) {
	slot, ok := t.slots[tokenSlot{actor, kind}]
	if !ok {
		return nil, ErrUnsupportedToken
	}
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return slot.secret, nil // Return the secret key for validation
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(t.now), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Actor != actor || claims.Kind != kind {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
