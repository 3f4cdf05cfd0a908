package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"

	"golang.org/x/crypto/argon2"
)

// DeriveKey derives a 32-byte key from a password and salt.
// Argon2id parameters: 1 pass, 64MB memory, 4 threads, 32 bytes key
func DeriveKey(password string, salt []byte) []byte {
	return argon2.IDKey([]byte(password), salt, 1, 64*1024, 4, 32)
}

// HashPassword returns the hex-encoded Argon2id digest of password
// under salt. This is what gets stored; the plaintext never is.
func HashPassword(password string, salt []byte) string {
	return hex.EncodeToString(DeriveKey(password, salt))
}

// VerifyPassword re-derives the digest and compares it against the
// stored hex hash in constant time.
func VerifyPassword(password string, salt []byte, storedHash string) bool {
	derived := DeriveKey(password, salt)
	stored, err := hex.DecodeString(storedHash)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(derived, stored) == 1
}

// GenerateSalt returns a fresh random 16-byte salt, base64-encoded
// for storage alongside the hash.
func GenerateSalt() (string, error) {
	b := make([]byte, 16)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

// GeneratePassword returns a random URL-safe password with n bytes of
// entropy, suitable for the one-time bootstrap credentials.
func GeneratePassword(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
