package geocoding

import (
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// kv is the part of the Redis client the cache uses.
type kv interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// Cached puts a Redis cache in front of a Geocoder. Only successful
// lookups are stored. With a nil client it is a plain pass-through, so
// callers need not care whether Redis came up.
type Cached struct {
	next   Geocoder
	rdb    kv
	ttl    time.Duration
	prefix string
}

// NewCached wraps next. rdb may be nil.
func NewCached(next Geocoder, rdb *redis.Client, ttl time.Duration) *Cached {
	c := &Cached{next: next, ttl: ttl, prefix: "geocode"}
	if rdb != nil {
		c.rdb = rdb
	}
	if c.ttl <= 0 {
		c.ttl = 24 * time.Hour
	}
	return c
}

func (c *Cached) Search(ctx context.Context, query string) (*Place, error) {
	if c.rdb == nil {
		return c.next.Search(ctx, query)
	}
	sum := sha1.Sum([]byte(strings.ToLower(strings.TrimSpace(query))))
	key := fmt.Sprintf("%s:search:%x", c.prefix, sum[:])

	if bs, err := c.rdb.Get(ctx, key).Bytes(); err == nil {
		var p Place
		if json.Unmarshal(bs, &p) == nil {
			return &p, nil
		}
	}
	p, err := c.next.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	if bs, err := json.Marshal(p); err == nil {
		c.store(ctx, key, bs)
	}
	return p, nil
}

func (c *Cached) Reverse(ctx context.Context, lat, lng float64) (string, error) {
	if c.rdb == nil {
		return c.next.Reverse(ctx, lat, lng)
	}
	// ~1 m resolution
	key := fmt.Sprintf("%s:reverse:%.5f,%.5f", c.prefix, lat, lng)
	if s, err := c.rdb.Get(ctx, key).Result(); err == nil && s != "" {
		return s, nil
	}
	addr, err := c.next.Reverse(ctx, lat, lng)
	if err != nil {
		return "", err
	}
	c.store(ctx, key, addr)
	return addr, nil
}

func (c *Cached) store(ctx context.Context, key string, v any) {
	if err := c.rdb.Set(ctx, key, v, c.ttl).Err(); err != nil {
		log.Printf("geocoding: cache write failed: %v", err)
	}
}
