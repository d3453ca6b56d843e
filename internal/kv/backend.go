// Package kv implements the key/value store adapter the item list core
// persists through, plus the backends it can sit on: an in-memory map, a
// SQLite table, and a JSONL file.
package kv

// Backend is a raw key/value store. Errors mean the store is unusable; a
// missing key is reported with ok=false and a nil error.
type Backend interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Remove(key string) error
	Keys(prefix string) ([]string, error)
	Close() error
}
