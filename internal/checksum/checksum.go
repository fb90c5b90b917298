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

// ETag returns a strong HTTP entity tag for data, quoted as RFC 9110 requires.
// Only the first 16 hex characters of the digest are used.
func ETag(data []byte) string {
	return `"` + Sum(data)[:16] + `"`
}
