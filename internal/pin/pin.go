// Package pin hashes the parent PIN. Only the hash is ever stored.
package pin

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash returns the SHA-256 hex digest of the PIN.
func Hash(pin string) string {
	sum := sha256.Sum256([]byte(pin))
	return hex.EncodeToString(sum[:])
}

// Verify checks a raw PIN against a stored hash.
func Verify(pin, storedHash string) bool {
	return storedHash != "" && Hash(pin) == storedHash
}
