package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by Get when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// NoExpiration keeps an entry for the life of the process (or until the
// backend evicts it). Token metadata uses this: contract parameters do not
// change, so there is no TTL.
const NoExpiration time.Duration = -1

// Cache is the generic cache contract shared by the memory and redis backends.
type Cache interface {
	// Set stores value under key for ttl (NoExpiration for none).
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	// Get loads key and unmarshals the stored value into target.
	Get(ctx context.Context, key string, target interface{}) error
	// Delete removes key.
	Delete(ctx context.Context, key string) error
}
