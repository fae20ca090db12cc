package utils

import (
	"coffee_platform/internal/domain"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sharedSecretIssuer() *TokenIssuer {
	return NewTokenIssuer(TokenSecrets{
		UserAccess:   "same",
		UserRefresh:  "same",
		UserRegister: "same",
		AdminAccess:  "same",
		AdminRefresh: "same",
	})
}

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := sharedSecretIssuer()
	tok, err := issuer.Issue(ActorUser, KindAccess, Claims{ID: 42})
	require.NoError(t, err)

	claims, err := issuer.Verify(ActorUser, KindAccess, tok)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.ID)
	assert.Equal(t, KindAccess, claims.Kind)
	assert.Equal(t, ActorUser, claims.Actor)
}

func TestTokenIssuer_RegisterTokenCarriesIdentifier(t *testing.T) {
	issuer := sharedSecretIssuer()
	id := domain.EmailIdentifier("Barista@Example.com")
	tok, err := issuer.Issue(ActorUser, KindRegister, Claims{Identifier: &id})
	require.NoError(t, err)

	claims, err := issuer.Verify(ActorUser, KindRegister, tok)
	require.NoError(t, err)
	require.NotNil(t, claims.Identifier)
	assert.Equal(t, domain.IdentifierEmail, claims.Identifier.Kind)
	assert.Equal(t, "barista@example.com", claims.Identifier.Value)
}

func TestTokenIssuer_RejectsOtherKinds(t *testing.T) {
	issuer := sharedSecretIssuer()
	refresh, err := issuer.Issue(ActorUser, KindRefresh, Claims{ID: 1})
	require.NoError(t, err)
	register, err := issuer.Issue(ActorUser, KindRegister, Claims{})
	require.NoError(t, err)
	adminAccess, err := issuer.Issue(ActorAdmin, KindAccess, Claims{ID: 1})
	require.NoError(t, err)

	for name, tc := range map[string]struct {
		actor Actor
		kind  TokenKind
		tok   string
	}{
		"refresh as access":     {ActorUser, KindAccess, refresh},
		"register as access":    {ActorUser, KindAccess, register},
		"access as refresh":     {ActorUser, KindRefresh, adminAccess},
		"admin access as user":  {ActorUser, KindAccess, adminAccess},
		"user refresh as admin": {ActorAdmin, KindRefresh, refresh},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := issuer.Verify(tc.actor, tc.kind, tc.tok)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestTokenIssuer_DistinctSecrets(t *testing.T) {
	issuer := NewTokenIssuer(TokenSecrets{UserAccess: "a", UserRefresh: "b", UserRegister: "c", AdminAccess: "d", AdminRefresh: "e"})
	other := NewTokenIssuer(TokenSecrets{UserAccess: "x", UserRefresh: "b", UserRegister: "c", AdminAccess: "d", AdminRefresh: "e"})

	tok, err := other.Issue(ActorUser, KindAccess, Claims{ID: 7})
	require.NoError(t, err)
	_, err = issuer.Verify(ActorUser, KindAccess, tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuer_Expired(t *testing.T) {
	issuer := sharedSecretIssuer()
	issuer.now = func() time.Time { return time.Now().Add(-11 * time.Minute) }
	tok, err := issuer.Issue(ActorUser, KindRegister, Claims{})
	require.NoError(t, err)

	issuer.now = time.Now
	_, err = issuer.Verify(ActorUser, KindRegister, tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuer_RejectsNoneAlgorithm(t *testing.T) {
	issuer := sharedSecretIssuer()
	claims := Claims{Actor: ActorUser, Kind: KindAccess, ID: 1, RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = issuer.Verify(ActorUser, KindAccess, tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuer_UnsupportedSlot(t *testing.T) {
	issuer := sharedSecretIssuer()
	_, err := issuer.Issue(ActorAdmin, KindRegister, Claims{})
	assert.ErrorIs(t, err, ErrUnsupportedToken)
}
