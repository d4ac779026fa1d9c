package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// ContentChecksum returns the hex-encoded SHA-256 digest of raw document
// bytes. The digest is the deduplication key.
func ContentChecksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashApplicantKey returns a filesystem-safe identifier for an applicant ID.
func HashApplicantKey(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
