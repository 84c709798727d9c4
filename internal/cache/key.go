package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// DeriveKey maps image content to its cache key: the hex-encoded SHA-256 of
// the bytes. Two uploads with identical bytes share a key regardless of
// filename; a cryptographic hash keeps distinct images from colliding and
// keeps keys unforgeable.
func DeriveKey(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
