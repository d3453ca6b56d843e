package kv

import (
	"sort"

	"go.uber.org/zap"
)

// Adapter wraps a Backend with the availability semantics the storage core
// expects. It reports unavailable until the host calls MarkReady, and it
// latches unavailable after any backend error so the session continues in
// memory only. No method returns an error.
type Adapter struct {
	backend Backend
	logger  *zap.Logger
	ready   bool
	failed  bool
}

// NewAdapter wraps backend. A nil backend yields an adapter that is never
// available. A nil logger is replaced by a no-op logger.
func NewAdapter(backend Backend, logger *zap.Logger) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{backend: backend, logger: logger}
}

// MarkReady signals that the host environment is interactive and the store
// may be used. It also clears a previous failure latch.
func (a *Adapter) MarkReady() {
	a.ready = true
	a.failed = false
}

// Available reports whether store operations will reach the backend.
func (a *Adapter) Available() bool {
	return a.backend != nil && a.ready && !a.failed
}

// Get returns the value for key, or ok=false when the key is missing or the
// store is unavailable.
func (a *Adapter) Get(key string) (string, bool) {
	if !a.Available() {
		return "", false
	}
	value, ok, err := a.backend.Get(key)
	if err != nil {
		a.fail("get", key, err)
		return "", false
	}
	return value, ok
}

// Set writes value under key and reports whether the write happened.
func (a *Adapter) Set(key, value string) bool {
	if !a.Available() {
		return false
	}
	if err := a.backend.Set(key, value); err != nil {
		a.fail("set", key, err)
		return false
	}
	return true
}

// Remove deletes key and reports whether the store accepted the call.
func (a *Adapter) Remove(key string) bool {
	if !a.Available() {
		return false
	}
	if err := a.backend.Remove(key); err != nil {
		a.fail("remove", key, err)
		return false
	}
	return true
}

// Keys lists the stored keys beginning with prefix in sorted order.
func (a *Adapter) Keys(prefix string) []string {
	if !a.Available() {
		return nil
	}
	keys, err := a.backend.Keys(prefix)
	if err != nil {
		a.fail("keys", prefix, err)
		return nil
	}
	sort.Strings(keys)
	return keys
}

// Close releases the backend.
func (a *Adapter) Close() error {
	if a.backend == nil {
		return nil
	}
	a.ready = false
	return a.backend.Close()
}

func (a *Adapter) fail(op, key string, err error) {
	a.failed = true
	a.logger.Warn("key/value store unusable, continuing in memory only",
		zap.String("op", op),
		zap.String("key", key),
		zap.Error(err),
	)
}
