// Package cache provides an optional Redis-backed memoization layer in
// front of jsonrepair.Repair for the serve subcommand. It is a pure
// optimization: callers must treat a cache miss, a connection error, and a
// disabled cache identically, and always fall back to calling Repair
// directly.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrDisabled is returned by Get when no Redis address was configured.
var ErrDisabled = errors.New("cache: disabled")

// RepairCache memoizes repaired output keyed by a hash of the input text.
type RepairCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to addr and returns a RepairCache. An empty addr disables
// the cache: Get then returns ErrDisabled and Set does nothing and returns
// nil.
func New(addr string, ttl time.Duration) (*RepairCache, error) {
	if addr == "" {
		return &RepairCache{}, nil
	}

	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RepairCache{client: client, ttl: ttl}, nil
}

// Key hashes text into the cache key used for Get/Set.
func Key(text string) string {
	sum := sha256.Sum256([]byte(text))
	return "jsonrepair:" + hex.EncodeToString(sum[:])
}

// Get looks up the repaired output for text. The bool return reports a
// cache hit; a miss, a disabled cache, or a Redis error are all reported as
// ok == false. err is nil for a plain miss, ErrDisabled for a disabled
// cache, and the Redis error otherwise.
func (c *RepairCache) Get(ctx context.Context, text string) (result string, ok bool, err error) {
	if c.client == nil {
		return "", false, ErrDisabled
	}

	result, err = c.client.Get(ctx, Key(text)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return result, true, nil
}

// Set stores the repaired output for text under the configured TTL. A
// disabled cache silently does nothing.
func (c *RepairCache) Set(ctx context.Context, text, result string) error {
	if c.client == nil {
		return nil
	}
	return c.client.Set(ctx, Key(text), result, c.ttl).Err()
}

// Close releases the underlying Redis connection, if any.
func (c *RepairCache) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}
