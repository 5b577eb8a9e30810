package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// HashValue hashes any JSON-serializable value, used to key design options.
func HashValue(v any) string {
	data, _ := json.Marshal(v)
	return Hash(data)
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
