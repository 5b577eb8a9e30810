// Package cache provides result caching for crate design runs.
//
// Crate layouts are deterministic in their inputs, so a design computed once
// for a given parameter set never changes. The pipeline hashes its options
// into a key and stores the full design result plus individual export
// artifacts; the CLI uses the file-backed cache, the HTTP server can share a
// Redis instance across replicas, and NullCache disables caching entirely.
package cache

import (
	"context"
	"time"
)

// Cache stores serialized design results keyed by parameter hash.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key was
	// present; a miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with an optional TTL. A zero TTL means no
	// expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// Keyer generates cache keys for the design pipeline.
type Keyer interface {
	// DesignKey keys a complete design result by the hash of its options.
	DesignKey(optionsHash string) string

	// ExportKey keys a rendered export artifact by design hash and format.
	ExportKey(designHash, format string) string
}

// DefaultKeyer generates versioned cache keys. The embedded version is bumped
// whenever a calculator's output format changes, invalidating stale entries.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// keyVersion invalidates all previously cached entries when bumped.
const keyVersion = "v1"

// DesignKey generates a key for a complete design result.
func (k *DefaultKeyer) DesignKey(optionsHash string) string {
	return keyVersion + ":design:" + optionsHash
}

// ExportKey generates a key for an export artifact.
func (k *DefaultKeyer) ExportKey(designHash, format string) string {
	return keyVersion + ":export:" + format + ":" + designHash
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
