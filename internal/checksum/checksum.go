// Package checksum fingerprints entry files and cached image artifacts.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
)

// Sum returns the hex-encoded SHA-256 digest of data.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Same reports whether a and b have the same digest.
func Same(a, b []byte) bool {
	return Sum(a) == Sum(b)
}
