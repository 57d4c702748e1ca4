// Package cache stores rendered wardrobe artifacts keyed by their spec.
//
// Three backends share the Cache interface:
//   - Discard: stores nothing, every Get misses
//   - FileCache: one JSON entry per key under a directory
//   - RedisCache: a Redis server shared by several instances
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/soypat/wardrobe/layout"
)

// Cache is a byte store with per-entry expiration.
type Cache interface {
	// Get returns the data stored under key. A miss is not an error.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)
	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Discard is a Cache that drops every entry.
var Discard Cache = discard{}

type discard struct{}

func (discard) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (discard) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (discard) Delete(context.Context, string) error                     { return nil }
func (discard) Close() error                                             { return nil }

// Hash computes the hex encoded SHA-256 of data.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// Key returns the cache key of an artifact kind, such as "stl" or "png",
// built from spec. Specs with equal fields share keys.
func Key(kind string, spec layout.Spec) string {
	data, _ := json.Marshal(spec)
	return fmt.Sprintf("wardrobe:%s:%s", kind, Hash(data))
}

// Config selects and configures a backend.
type Config struct {
	// Kind is one of "none", "file" or "redis". Empty means "none".
	Kind string `toml:"kind"`
	// Dir is the FileCache directory.
	Dir string `toml:"dir"`
	// RedisAddr is the host:port of the Redis server.
	RedisAddr string `toml:"redis_addr"`
	// TTL is the lifetime of stored entries. Zero never expires.
	TTL Duration `toml:"ttl"`
}

// Duration is a time.Duration read from strings such as "1h30m".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) { return []byte(time.Duration(d).String()), nil }

// Open returns the backend described by cfg.
func Open(ctx context.Context, cfg Config) (Cache, error) {
	switch cfg.Kind {
	case "", "none":
		return Discard, nil
	case "file":
		if cfg.Dir == "" {
			return nil, errors.New("cache: file backend needs a directory")
		}
		c, err := NewFileCache(cfg.Dir)
		if err != nil {
			return nil, err
		}
		return c, nil
	case "redis":
		c, err := NewRedisCache(ctx, RedisConfig{Addr: cfg.RedisAddr})
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	return nil, fmt.Errorf("cache: unknown kind %q", cfg.Kind)
}
