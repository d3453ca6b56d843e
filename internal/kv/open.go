package kv

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/itemlists/pkg/types"
)

// OpenBackend validates cfg and opens the selected backend. An empty
// DataDir means the working directory.
func OpenBackend(cfg types.Config) (Backend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = "."
	}

	var (
		backend Backend
		err     error
	)
	switch cfg.Backend {
	case types.BackendMemory:
		backend = NewMemoryBackend()
	case types.BackendSQLite:
		backend, err = OpenSQLite(dataDir)
	case types.BackendJSONL:
		backend, err = OpenJSONL(dataDir)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s backend: %w", cfg.Backend, err)
	}
	return backend, nil
}

// Open opens the backend selected by cfg and wraps it in an Adapter. The
// adapter is not ready; the caller invokes MarkReady once the host is
// interactive.
func Open(cfg types.Config, logger *zap.Logger) (*Adapter, error) {
	backend, err := OpenBackend(cfg)
	if err != nil {
		return nil, err
	}
	return NewAdapter(backend, logger), nil
}
