package cache

import "time"

// BytesCache stores raw bytes with a TTL. Series responses are cached
// as marshaled JSON so the HTTP layer can also reuse them verbatim.
type BytesCache interface {
	GetBytes(key string) (b []byte, ok bool, err error)
	SetBytes(key string, value []byte, ttl time.Duration) error
}
