package utils

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/scrypt"
)

const (
	saltLength = 16
	keyLength  = 64

	// scrypt cost parameters; N=16384, r=8, p=1 keeps hashes compatible with
	// the node:crypto defaults older accounts were created with.
	scryptN = 16384
	scryptR = 8
	scryptP = 1
)

// HashPassword derives a scrypt key from password and a fresh random salt and
// returns them encoded as "<derivedKeyHex>.<saltHex>".
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	saltHex := hex.EncodeToString(salt)

	// The hex form of the salt is the KDF input, matching the stored encoding.
	key, err := scrypt.Key([]byte(password), []byte(saltHex), scryptN, scryptR, scryptP, keyLength)
	if err != nil {
		return "", fmt.Errorf("derive key: %w", err)
	}
	return hex.EncodeToString(key) + "." + saltHex, nil
}

// CheckPasswordHash compares a plain password with a value produced by HashPassword.
func CheckPasswordHash(password, stored string) bool {
	keyHex, saltHex, ok := strings.Cut(stored, ".")
	if !ok || saltHex == "" {
		return false
	}
	want, err := hex.DecodeString(keyHex)
	if err != nil || len(want) != keyLength {
		return false
	}

	got, err := scrypt.Key([]byte(password), []byte(saltHex), scryptN, scryptR, scryptP, keyLength)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(got, want) == 1
}
