package cli

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mesh-intelligence/itemlists/internal/kv"
	"github.com/mesh-intelligence/itemlists/internal/library"
	"github.com/mesh-intelligence/itemlists/pkg/types"
)

// env is an open store and started session for one command.
type env struct {
	settings settings
	logger   *zap.Logger
	store    *kv.Adapter
	session  *library.Session
}

// newLogger builds a console logger on stderr at level.
func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = true
	return cfg.Build()
}

// open resolves configuration, opens the store, and starts a session. The
// caller must Close the env.
func (f *rootFlags) open() (*env, error) {
	s, err := f.resolve()
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(s.logLevel)
	if err != nil {
		return nil, err
	}

	store, err := kv.Open(s.store, logger)
	if err != nil {
		return nil, systemError("open store", err)
	}
	sess := library.NewSession(store, s.store.GetNamespace(), logger)
	if err := sess.Start(); err != nil {
		store.Close()
		return nil, err
	}
	logger.Debug("session started",
		zap.String("backend", s.store.Backend),
		zap.String("data_dir", s.store.DataDir),
		zap.String("namespace", sess.Namespace()),
	)
	return &env{settings: s, logger: logger, store: store, session: sess}, nil
}

// Close releases the store.
func (e *env) Close() error {
	_ = e.logger.Sync()
	return e.store.Close()
}

// requirePersistent fails when the last write did not reach the store.
func (e *env) requirePersistent(op string) error {
	if !e.session.Persistent() {
		return systemError(op, types.ErrStoreUnavailable)
	}
	return nil
}

// resolveUUID maps ref to a listed UUID. A ref that is not a UUID is
// matched case-insensitively against titles and must match exactly one.
func (e *env) resolveUUID(ref string) (string, error) {
	repo := e.session.Repository
	if repo.HasItemList(ref) {
		return ref, nil
	}
	var matches []string
	for _, entry := range repo.ListItemLists() {
		if strings.EqualFold(entry.Title, ref) {
			matches = append(matches, entry.UUID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("item list %q: %w", ref, types.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%d item lists are titled %q; use a uuid", len(matches), ref)
	}
}

// lookup resolves ref and loads the item list.
func (e *env) lookup(ref string) (types.ItemList, error) {
	uuid, err := e.resolveUUID(ref)
	if err != nil {
		return types.ItemList{}, err
	}
	list, err := e.session.Repository.GetItemList(uuid)
	if err != nil {
		return types.ItemList{}, fmt.Errorf("item list %q: %w", ref, err)
	}
	return list, nil
}
