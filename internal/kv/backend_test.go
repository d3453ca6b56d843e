package kv

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/itemlists/pkg/types"
)

func TestBackends(t *testing.T) {
	tests := []struct {
		name string
		open func(t *testing.T) Backend
	}{
		{
			name: "memory",
			open: func(t *testing.T) Backend { return NewMemoryBackend() },
		},
		{
			name: "sqlite",
			open: func(t *testing.T) Backend {
				b, err := OpenSQLite(t.TempDir())
				require.NoError(t, err)
				return b
			},
		},
		{
			name: "jsonl",
			open: func(t *testing.T) Backend {
				b, err := OpenJSONL(t.TempDir())
				require.NoError(t, err)
				return b
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := tt.open(t)
			defer b.Close()

			_, ok, err := b.Get("missing")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, b.Set("ns", `{"version":"0.1"}`))
			require.NoError(t, b.Set("ns:1", "one"))
			require.NoError(t, b.Set("ns:2", "two"))
			require.NoError(t, b.Set("ns:1", "uno"))

			v, ok, err := b.Get("ns:1")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "uno", v)

			keys, err := b.Keys("ns:")
			require.NoError(t, err)
			assert.ElementsMatch(t, []string{"ns:1", "ns:2"}, keys)

			require.NoError(t, b.Remove("ns:2"))
			require.NoError(t, b.Remove("ns:2"), "removing a missing key succeeds")
			_, ok, err = b.Get("ns:2")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestSQLitePersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	b, err := OpenSQLite(dir)
	require.NoError(t, err)
	require.NoError(t, b.Set("k", "v"))
	require.NoError(t, b.Close())

	b, err = OpenSQLite(dir)
	require.NoError(t, err)
	defer b.Close()
	v, ok, err := b.Get("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)
}

func TestJSONLPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	b, err := OpenJSONL(dir)
	require.NoError(t, err)
	require.NoError(t, b.Set("b", "2"))
	require.NoError(t, b.Set("a", "1"))

	data, err := os.ReadFile(filepath.Join(dir, JSONLFileName))
	require.NoError(t, err)
	assert.Equal(t, "{\"key\":\"a\",\"value\":\"1\"}\n{\"key\":\"b\",\"value\":\"2\"}\n", string(data))

	b, err = OpenJSONL(dir)
	require.NoError(t, err)
	v, ok, err := b.Get("b")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "2", v)
}

func TestJSONLSkipsMalformedLines(t *testing.T) {
	dir := t.TempDir()
	content := "{\"key\":\"a\",\"value\":\"1\"}\nnot json\n\n{\"value\":\"no key\"}\n{\"key\":\"b\",\"value\":\"2\"}\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, JSONLFileName), []byte(content), 0o644))

	b, err := OpenJSONL(dir)
	require.NoError(t, err)

	keys, err := b.Keys("")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, keys)
}

func TestOpen(t *testing.T) {
	tests := []struct {
		name    string
		cfg     types.Config
		wantErr error
		check   func(t *testing.T, dir string)
	}{
		{
			name: "memory",
			cfg:  types.Config{Backend: types.BackendMemory},
		},
		{
			name: "sqlite creates database file",
			cfg:  types.Config{Backend: types.BackendSQLite},
			check: func(t *testing.T, dir string) {
				_, err := os.Stat(filepath.Join(dir, SQLiteFileName))
				assert.NoError(t, err)
			},
		},
		{
			name: "jsonl",
			cfg:  types.Config{Backend: types.BackendJSONL},
		},
		{
			name:    "unknown backend rejected",
			cfg:     types.Config{Backend: "redis"},
			wantErr: types.ErrBackendUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			tt.cfg.DataDir = dir

			a, err := Open(tt.cfg, nil)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			defer a.Close()

			assert.False(t, a.Available(), "adapter starts not ready")
			a.MarkReady()
			assert.True(t, a.Set("k", "v"))
			if tt.check != nil {
				tt.check(t, dir)
			}
		})
	}
}
