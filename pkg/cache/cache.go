// Package cache stores resolved layouts and rendered artifacts so repeated
// runs over an unchanged document skip resolution and rendering.
//
// Three backends implement [Cache]:
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [RedisCache]: shared storage for multi-instance servers
//   - [NullCache]: stores nothing
//
// Keys are built by a [Keyer] from a content hash plus the options that
// influence the cached value, so changing the viewport or output format
// never serves a stale entry.
package cache

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Cache is a byte store with optional expiry.
type Cache interface {
	// Get returns the value for key. A miss is reported as (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Default expirations per entry kind. Resolved layouts are cheap to
// recompute, artifacts less so.
const (
	TTLResolve  = 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Backend names a cache implementation.
type Backend string

const (
	BackendFile  Backend = "file"
	BackendRedis Backend = "redis"
	BackendNone  Backend = "none"
)

// Options selects and configures a backend for [Open].
type Options struct {
	Backend  Backend
	Dir      string // file backend
	RedisURL string // redis backend, e.g. redis://localhost:6379/0
}

// Open creates the cache described by opts. An empty backend means "none".
func Open(ctx context.Context, opts Options) (Cache, error) {
	switch Backend(strings.ToLower(string(opts.Backend))) {
	case BackendNone, "":
		return NewNullCache(), nil
	case BackendFile:
		if opts.Dir == "" {
			return nil, fmt.Errorf("file cache requires a directory")
		}
		return NewFileCache(opts.Dir)
	case BackendRedis:
		return NewRedisCache(ctx, opts.RedisURL)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", opts.Backend)
	}
}

// NullCache misses on every Get and drops every Set. [Open] returns it for
// the "none" backend.
type NullCache struct{}

// NewNullCache returns a cache that stores nothing.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Close() error                                             { return nil }
