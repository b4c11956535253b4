package password

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/pbkdf2"

	"github.com/smallpress/blog-backend/internal/domain"
)

const (
	saltLen    = 32
	keyLen     = 32
	iterations = 100_000

	minLength = 4
)

// encodedLen is the width of a stored hash: 64 hex chars of derived key
// followed by 64 hex chars of salt.
const encodedLen = 2 * (keyLen + saltLen)

// Hash derives a PBKDF2-HMAC-SHA256 key from plaintext under a fresh random
// salt and returns hex(key) + hex(salt).
func Hash(plaintext string) (string, error) {
	if len(plaintext) < minLength {
		return "", domain.ErrWeakPassword
	}

	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	key := pbkdf2.Key([]byte(plaintext), salt, iterations, keyLen, sha256.New)
	return hex.EncodeToString(key) + hex.EncodeToString(salt), nil
}

// Verify re-derives the key from plaintext using the salt encoded in the
// trailing 64 hex characters of stored and compares the full re-encoded
// string in constant time. A malformed stored hash is treated as a mismatch
// rather than an error, matching how login reports bad credentials.
func Verify(plaintext, stored string) bool {
	if len(stored) != encodedLen {
		return false
	}
	salt, err := hex.DecodeString(stored[encodedLen-2*saltLen:])
	if err != nil {
		return false
	}

	key := pbkdf2.Key([]byte(plaintext), salt, iterations, keyLen, sha256.New)
	encoded := hex.EncodeToString(key) + hex.EncodeToString(salt)
	return subtle.ConstantTimeCompare([]byte(encoded), []byte(stored)) == 1
}
