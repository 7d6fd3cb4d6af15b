// Package cache provides render artifact caching with pluggable backends:
// a file cache for CLI usage, a redis cache for serve mode, and a null
// cache that disables caching entirely. Keys are derived from the source
// hash plus every option that affects the artifact.
package cache

import (
	"context"
	"time"
)

// TTLArtifact is how long rendered artifacts stay cached. Renders are
// deterministic, so the TTL only bounds disk usage.
const TTLArtifact = 7 * 24 * time.Hour

// Cache stores and retrieves byte blobs by key.
type Cache interface {
	// Get returns the cached data and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// ArtifactKeyOpts captures every option that changes a rendered artifact.
type ArtifactKeyOpts struct {
	Format        string
	PaddingX      int
	PaddingY      int
	BorderPadding int
	ASCII         bool
	Coords        bool
}

// Keyer builds cache keys.
type Keyer interface {
	// ArtifactKey builds the key for a rendered artifact from the
	// source content hash and the render options.
	ArtifactKey(sourceHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes options into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// ArtifactKey generates a key for a rendered artifact.
func (k *DefaultKeyer) ArtifactKey(sourceHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", sourceHash, opts)
}
