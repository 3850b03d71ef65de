package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func TestGenerateParseRoundTrip(t *testing.T) {
	tok, err := Generate(secret, "64f000000000000000000001")
	require.NoError(t, err)

	uid, err := Parse(secret, tok)
	require.NoError(t, err)
	assert.Equal(t, "64f000000000000000000001", uid)
}

func TestParseWrongSecret(t *testing.T) {
	tok, err := Generate(secret, "u1")
	require.NoError(t, err)

	_, err = Parse("other-secret", tok)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestParseGarbage(t *testing.T) {
	_, err := Parse(secret, "not.a.token")
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestParseExpired(t *testing.T) {
	claims := jwt.RegisteredClaims{
		Subject:   "u1",
		IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * TTL)),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-TTL)),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)

	_, err = Parse(secret, tok)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestParseRejectsOtherAlgorithms(t *testing.T) {
	claims := jwt.RegisteredClaims{
		Subject:   "u1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(secret))
	require.NoError(t, err)

	_, err = Parse(secret, tok)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestParseEmptySubject(t *testing.T) {
	claims := jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)

	_, err = Parse(secret, tok)
	assert.ErrorIs(t, err, ErrInvalid)
}
