package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashKey returns a stable hex sha256 of s, safe for cache keys and filenames.
func HashKey(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// HashBytes is HashKey for raw bytes.
func HashBytes(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
