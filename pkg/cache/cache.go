// Package cache provides the render cache used to skip re-rendering
// unchanged diagrams across builds.
//
// The transform from (type, content, options, theme) to HTML is
// deterministic, so hashing the inputs is a sound cache key. Backends share
// one small interface: a directory-backed FileCache for local builds, a
// RedisCache for shared CI runners, and a NullCache for tests or --refresh.
package cache

import (
	"context"
	"time"
)

// TTL values per entry class.
const (
	// TTLRender is how long a rendered fragment stays valid. Entries are
	// content-addressed, so expiry only bounds disk growth.
	TTLRender = 30 * 24 * time.Hour
)

// Cache is the backend interface for storing rendered fragments.
//
// Get returns (data, hit, error); a miss is not an error. Implementations
// must be safe for concurrent use - the build renders diagrams from a
// worker pool.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Keyer generates cache keys for rendered diagrams.
type Keyer interface {
	// RenderKey keys one rendered fragment by everything that can change
	// its bytes: the diagram kind, the raw body, the canonicalized options
	// and the theme fingerprint.
	RenderKey(kind, content, options, theme string) string
}

// DefaultKeyer is the standard key generator.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard key generator.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// RenderKey generates a key of the form render:<sha256>.
func (k *DefaultKeyer) RenderKey(kind, content, options, theme string) string {
	return hashKey("render", kind, content, options, theme)
}
