// Package cache stores catalog responses between tool calls. Only raw catalog
// payloads are cached; mood simulations are never persisted.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidKey       = errors.New("cache: invalid key")
	ErrUnknownBackend   = errors.New("cache: unknown backend")
	ErrConnectionFailed = errors.New("cache: connection failed")
	ErrOperationTimeout = errors.New("cache: operation timed out")
)

// Backend names accepted by New.
const (
	BackendNone   = "none"
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the value and true on a hit. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores value under key. A ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Close() error
}

// Stats reports hit and miss counters.
type Stats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
}

// StatsProvider is implemented by backends that count hits and misses.
type StatsProvider interface {
	Stats() Stats
}

// Options selects and configures a backend.
type Options struct {
	Backend   string
	RedisAddr string
	Password  string
	DB        int
	KeyPrefix string
}

// New builds the backend named by opts.Backend. It returns a nil Cache for
// BackendNone (and the empty string) so callers can skip caching entirely.
func New(ctx context.Context, opts Options) (Cache, error) {
	switch opts.Backend {
	case "", BackendNone:
		return nil, nil
	case BackendMemory:
		return NewMemory(), nil
	case BackendRedis:
		cfg := DefaultRedisConfig()
		if opts.RedisAddr != "" {
			cfg.Address = opts.RedisAddr
		}
		cfg.Password = opts.Password
		cfg.DB = opts.DB
		if opts.KeyPrefix != "" {
			cfg.KeyPrefix = opts.KeyPrefix
		}
		return NewRedis(ctx, cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}
