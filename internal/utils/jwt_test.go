package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func TestJWTRoundTrip(t *testing.T) {
	tok, err := GenerateJWT(testSecret, "sid-1", 7, time.Hour)
	require.NoError(t, err)

	claims, err := ValidateJWT(testSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, 7, claims.UserID)
	assert.Equal(t, "sid-1", claims.SessionID())
}

func TestJWTRejectsWrongSecret(t *testing.T) {
	tok, err := GenerateJWT(testSecret, "sid-1", 7, time.Hour)
	require.NoError(t, err)

	_, err = ValidateJWT([]byte("other"), tok)
	assert.Error(t, err)
}

func TestJWTRejectsExpired(t *testing.T) {
	tok, err := GenerateJWT(testSecret, "sid-1", 7, -time.Minute)
	require.NoError(t, err)

	_, err = ValidateJWT(testSecret, tok)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestJWTRequiresSecret(t *testing.T) {
	_, err := GenerateJWT(nil, "sid", 1, time.Hour)
	assert.Error(t, err)
	_, err = ValidateJWT(nil, "anything")
	assert.Error(t, err)
}

func TestJWTRejectsMissingSessionID(t *testing.T) {
	tok, err := GenerateJWT(testSecret, "", 7, time.Hour)
	require.NoError(t, err)

	_, err = ValidateJWT(testSecret, tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
