package repository

// KVRepository is the local key-value persistence layer: one text blob per key.
type KVRepository interface {
	// Get returns found=false when the key was never written.
	Get(key string) (value string, found bool, err error)
	Put(key, value string) error
	DeleteAll() error
}
