package utils

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"golang.org/x/crypto/pbkdf2"
)

// The persisted user format keeps the salt next to the hash, so the hash is
// PBKDF2-SHA256 over the password with that explicit salt.
const (
	pbkdf2Iterations = 4096
	pbkdf2KeyLen     = 32
)

// HashPassword derives the stored hash for a password and salt.
func HashPassword(password, salt string) string {
	key := pbkdf2.Key([]byte(password), []byte(salt), pbkdf2Iterations, pbkdf2KeyLen, sha256.New)
	return hex.EncodeToString(key)
}

// CheckPassword compares a plaintext password against a stored hash in
// constant time.
func CheckPassword(password, salt, storedHash string) bool {
	computed := HashPassword(password, salt)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(storedHash)) == 1
}
