package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	for _, pw := range []string{"admin123", "", "pässwörd with spaces", strings.Repeat("x", 200)} {
		hash, err := HashPassword(pw)
		require.NoError(t, err)
		assert.True(t, CheckPasswordHash(pw, hash), "password %q should verify", pw)
		assert.False(t, CheckPasswordHash(pw+"!", hash), "wrong password for %q should not verify", pw)
	}
}

func TestHashPasswordFormat(t *testing.T) {
	hash, err := HashPassword("secret")
	require.NoError(t, err)

	key, salt, ok := strings.Cut(hash, ".")
	require.True(t, ok)
	assert.Len(t, key, keyLength*2)
	assert.Len(t, salt, saltLength*2)
}

func TestHashPasswordFreshSalt(t *testing.T) {
	a, err := HashPassword("same")
	require.NoError(t, err)
	b, err := HashPassword("same")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestCheckPasswordHashMalformed(t *testing.T) {
	good, err := HashPassword("pw")
	require.NoError(t, err)
	key, _, _ := strings.Cut(good, ".")

	tests := []struct {
		name   string
		stored string
	}{
		{"empty", ""},
		{"no separator", key},
		{"empty salt", key + "."},
		{"non hex key", "zz." + "abcd"},
		{"short key", "abcd.abcd"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, CheckPasswordHash("pw", tt.stored))
		})
	}
}
