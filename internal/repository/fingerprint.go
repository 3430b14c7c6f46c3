package repository

import (
	"crypto/sha256"
	"encoding/hex"
)

// tokenFingerprint keeps raw identity tokens out of Redis key names.
func tokenFingerprint(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:16])
}
