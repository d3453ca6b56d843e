package kv

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// brokenBackend fails every call.
type brokenBackend struct{ calls int }

var errBroken = errors.New("quota exceeded")

func (b *brokenBackend) Get(string) (string, bool, error) { b.calls++; return "", false, errBroken }
func (b *brokenBackend) Set(string, string) error         { b.calls++; return errBroken }
func (b *brokenBackend) Remove(string) error              { b.calls++; return errBroken }
func (b *brokenBackend) Keys(string) ([]string, error)    { b.calls++; return nil, errBroken }
func (b *brokenBackend) Close() error                     { return nil }

func TestAdapterUnavailableBeforeReady(t *testing.T) {
	mem := NewMemoryBackend()
	require.NoError(t, mem.Set("k", "v"))
	a := NewAdapter(mem, nil)

	assert.False(t, a.Available())
	_, ok := a.Get("k")
	assert.False(t, ok, "reads are skipped before MarkReady")
	assert.False(t, a.Set("k", "w"), "writes are skipped before MarkReady")
	assert.Nil(t, a.Keys(""))

	v, _, _ := mem.Get("k")
	assert.Equal(t, "v", v, "backend untouched before MarkReady")

	a.MarkReady()
	assert.True(t, a.Available())
	got, ok := a.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v", got)
}

func TestAdapterNilBackendNeverAvailable(t *testing.T) {
	a := NewAdapter(nil, nil)
	a.MarkReady()
	assert.False(t, a.Available())
	assert.False(t, a.Set("k", "v"))
	assert.NoError(t, a.Close())
}

func TestAdapterMissingKeyIsAbsent(t *testing.T) {
	a := NewAdapter(NewMemoryBackend(), nil)
	a.MarkReady()

	_, ok := a.Get("missing")
	assert.False(t, ok)
	assert.True(t, a.Available(), "a miss does not degrade the store")
	assert.True(t, a.Remove("missing"))
}

func TestAdapterBackendErrorDegrades(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	b := &brokenBackend{}
	a := NewAdapter(b, zap.New(core))
	a.MarkReady()

	assert.False(t, a.Set("k", "v"))
	assert.False(t, a.Available(), "backend error latches unavailable")

	_, ok := a.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 1, b.calls, "no backend calls after degrading")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "set", entry.ContextMap()["op"])

	a.MarkReady()
	assert.True(t, a.Available(), "MarkReady clears the failure latch")
}

func TestAdapterKeysSorted(t *testing.T) {
	a := NewAdapter(NewMemoryBackend(), nil)
	a.MarkReady()
	require.True(t, a.Set("ns:b", "2"))
	require.True(t, a.Set("ns:a", "1"))
	require.True(t, a.Set("other", "3"))

	assert.Equal(t, []string{"ns:a", "ns:b"}, a.Keys("ns:"))
}
