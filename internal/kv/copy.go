package kv

import (
	"fmt"
	"maps"
	"slices"
)

// BatchSetter is implemented by backends that can write many records at
// once, atomically.
type BatchSetter interface {
	SetAll(records map[string]string) error
}

// Copy copies every key starting with prefix from src to dst and returns
// the number of keys copied. Existing keys in dst are overwritten; keys
// only in dst are left alone. When dst is a BatchSetter the copy is
// all-or-nothing.
func Copy(dst, src Backend, prefix string) (int, error) {
	keys, err := src.Keys(prefix)
	if err != nil {
		return 0, fmt.Errorf("listing source keys: %w", err)
	}
	records := make(map[string]string, len(keys))
	for _, k := range keys {
		v, ok, err := src.Get(k)
		if err != nil {
			return 0, fmt.Errorf("reading %s: %w", k, err)
		}
		if ok {
			records[k] = v
		}
	}

	if b, ok := dst.(BatchSetter); ok {
		if err := b.SetAll(records); err != nil {
			return 0, err
		}
		return len(records), nil
	}
	for i, k := range slices.Sorted(maps.Keys(records)) {
		if err := dst.Set(k, records[k]); err != nil {
			return i, err
		}
	}
	return len(records), nil
}
