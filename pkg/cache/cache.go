// Package cache stores rendered documents keyed by the configuration that
// produced them.
//
// Only fully reproducible configurations are cached: the interior seed must
// be fixed and no source image may be involved. The same options then always
// yield the same bytes, regardless of the number of workers.
package cache

import (
	"context"
	"time"
)

// TTLDocument is how long a rendered document stays valid.
const TTLDocument = 30 * 24 * time.Hour

// Cache is a byte store with expiring entries.
type Cache interface {
	// Get returns the stored bytes and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Close() error
}

// RunRecorder is implemented by caches that store the id of the run that
// produced an entry.
type RunRecorder interface {
	SetWithRun(ctx context.Context, key string, data []byte, ttl time.Duration, runID string) error
}

// Keyer derives cache keys.
type Keyer interface {
	// DocumentKey keys a rendered document by output format and the
	// canonical form of its options.
	DocumentKey(format string, opts any) string
}

// DefaultKeyer hashes the JSON encoding of the options.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// DocumentKey returns "doc:<format>:<sha256>".
func (DefaultKeyer) DocumentKey(format string, opts any) string {
	return hashKey("doc:"+format, opts)
}
