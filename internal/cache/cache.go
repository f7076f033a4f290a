// ABOUTME: Response cache interface and the disabled no-op implementation
// ABOUTME: Handlers cache serialized JSON bodies under short TTLs

package cache

import (
	"context"
	"time"
)

// DefaultTTL is the response-cache lifetime. Cached bodies are meant to
// absorb request bursts, not serve as a source of truth, so it stays short.
const DefaultTTL = 10 * time.Second

// Cache stores opaque byte payloads under string keys with per-entry TTLs.
// A miss is not an error: Get returns ok=false.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// Noop satisfies Cache without storing anything. Used when caching is
// disabled so handlers never need a nil check.
type Noop struct{}

func (Noop) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (Noop) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (Noop) Delete(context.Context, ...string) error { return nil }
