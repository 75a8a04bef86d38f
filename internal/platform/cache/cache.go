// Package cache provides the application cache used by the settings and
// agreement stores. Entries have no expiry: correctness relies on the owning
// stores refreshing or evicting entries synchronously on every mutation.
//
// A cached "no record" is a first-class state. Callers distinguish three
// outcomes on Get: a hit with a value, a hit on the negative sentinel (the
// record is known not to exist), and a miss (not yet loaded).
package cache

import "context"

// Cache is a shared key/value cache with a materialized negative entry.
// A nil value passed to Set stores the negative sentinel; Get returns a nil
// value with found=true for such entries.
type Cache interface {
	// Get returns the cached value for key. found is false on a miss.
	// A found entry with a nil value is a cached "no record".
	Get(ctx context.Context, key string) (value []byte, found bool, err error)

	// Set stores value under key, overwriting any previous entry. A nil
	// value stores the negative sentinel.
	Set(ctx context.Context, key string, value []byte) error

	// Delete evicts the entry for key. Deleting a missing key is a no-op.
	Delete(ctx context.Context, key string) error

	// Purge drops every entry owned by this cache. Used after administrative
	// bulk deletions where the affected key set is not known in advance.
	Purge(ctx context.Context) error
}

// Entries are tagged so backends that cannot represent nil values (Redis)
// still round-trip the negative sentinel.
const (
	tagNull  = 0x00
	tagValue = 0x01
)

func encode(value []byte) []byte {
	if value == nil {
		return []byte{tagNull}
	}
	buf := make([]byte, 1+len(value))
	buf[0] = tagValue
	copy(buf[1:], value)
	return buf
}

func decode(raw []byte) []byte {
	if len(raw) == 0 || raw[0] == tagNull {
		return nil
	}
	return raw[1:]
}
