package types

import "errors"

// KVStore is the flat key/value capability the storage core persists
// through. Callers check Available before relying on any other method; when
// the store is unavailable reads report absent and writes report false.
type KVStore interface {
	// Available reports whether a backing store is reachable right now.
	Available() bool

	// Get returns the value stored under key. Missing keys report ok=false,
	// never an error.
	Get(key string) (value string, ok bool)

	// Set stores value under key and reports whether the write happened.
	Set(key, value string) bool

	// Remove deletes key and reports whether the store accepted the call.
	// Removing a missing key succeeds.
	Remove(key string) bool

	// Keys lists the stored keys that begin with prefix, sorted.
	Keys(prefix string) []string
}

// Storage errors.
var (
	ErrNotFound         = errors.New("item list not found")
	ErrInvalidData      = errors.New("invalid item list data")
	ErrStoreUnavailable = errors.New("key/value store unavailable")
)
