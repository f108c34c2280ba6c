package cache

// Store is the durable backing for the result cache. Implementations must
// provide per-key atomicity; no ordering or transactional guarantees are
// required beyond that.
type Store interface {
	// Get returns the stored value for key and whether it was present.
	Get(key string) ([]byte, bool, error)

	// Put stores value under key. Keys are write-once: a Put for an
	// existing key must leave the stored value unchanged.
	Put(key string, value []byte) error

	Close() error
}
