package cache

import (
	"context"
	"errors"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const (
	NoExpiration      = gocache.NoExpiration
	DefaultExpiration = gocache.DefaultExpiration
)

var ErrNotFound = errors.New("cache: key not found")

// Cache caches values in a persistent or ephemeral backend.
type Cache interface {
	// Get retrieves the data stored at key. ErrNotFound is returned when the
	// key is absent or expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores data at key with an expiration of exp. An existing value at
	// key is overwritten.
	Set(ctx context.Context, key string, data []byte, exp time.Duration) error

	// Delete removes the value at key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

type Config struct {
	Expiry          time.Duration
	CleanupInterval time.Duration
}

// LocalCache is an in-process Cache.
type LocalCache struct {
	c *gocache.Cache
}

var _ Cache = &LocalCache{}

func NewLocalCache(cfg Config) *LocalCache {
	return &LocalCache{c: gocache.New(cfg.Expiry, cfg.CleanupInterval)}
}

func (lc *LocalCache) Get(ctx context.Context, key string) ([]byte, error) {
	v, ok := lc.c.Get(key)
	if !ok {
		return nil, ErrNotFound
	}

	data, ok := v.([]byte)
	if !ok {
		return nil, errors.New("cache: could not read value at key")
	}

	return data, nil
}

func (lc *LocalCache) Set(ctx context.Context, key string, data []byte, exp time.Duration) error {
	lc.c.Set(key, data, exp)
	return nil
}

func (lc *LocalCache) Delete(ctx context.Context, key string) error {
	lc.c.Delete(key)
	return nil
}
