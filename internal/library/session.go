package library

import (
	"go.uber.org/zap"

	"github.com/mesh-intelligence/itemlists/internal/migrate"
	"github.com/mesh-intelligence/itemlists/pkg/types"
)

// readier is implemented by stores that start unavailable until the host
// signals it is interactive.
type readier interface {
	MarkReady()
}

// Session owns the directory and repository for one store and namespace.
// Construct one per process; nothing in this package is global.
type Session struct {
	Directory  *Directory
	Repository *Repository

	store     types.KVStore
	namespace string
	logger    *zap.Logger
}

// NewSession wires a Directory and Repository to store. An empty namespace
// selects types.DefaultNamespace.
func NewSession(store types.KVStore, namespace string, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	if namespace == "" {
		namespace = types.DefaultNamespace
	}
	m := migrate.New(logger)
	dir := NewDirectory(store, namespace, m, logger)
	return &Session{
		Directory:  dir,
		Repository: NewRepository(store, dir, m, logger),
		store:      store,
		namespace:  namespace,
		logger:     logger,
	}
}

// Start marks the store ready (when it supports readiness), loads the
// directory, and seeds the built-in lists on first run. The only error
// returned wraps migrate.ErrNoMigrationPath.
func (s *Session) Start() error {
	if r, ok := s.store.(readier); ok {
		r.MarkReady()
	}
	if err := s.Directory.Load(); err != nil {
		return err
	}
	s.SeedDefaults()
	return nil
}

// Namespace returns the storage namespace.
func (s *Session) Namespace() string {
	return s.namespace
}

// Persistent reports whether writes currently reach the store.
func (s *Session) Persistent() bool {
	return s.store.Available()
}
