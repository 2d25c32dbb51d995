package cache

import "time"

// BytesCache stores opaque serialized values under string keys with a
// per-entry TTL.
type BytesCache interface {
	GetBytes(key string) ([]byte, bool, error)
	SetBytes(key string, value []byte, ttl time.Duration) error
}
