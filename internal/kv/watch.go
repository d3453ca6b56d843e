package kv

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/itemlists/pkg/types"
)

// DefaultDebounce collapses bursts of file events into one change.
const DefaultDebounce = 200 * time.Millisecond

// StoreFile returns the file a persistent backend keeps in dataDir, or ""
// for backends with no file.
func StoreFile(backend, dataDir string) string {
	switch backend {
	case types.BackendSQLite:
		return filepath.Join(dataDir, SQLiteFileName)
	case types.BackendJSONL:
		return filepath.Join(dataDir, JSONLFileName)
	default:
		return ""
	}
}

// Watch calls onChange after path, or a sibling sharing its name as a
// prefix such as a SQLite WAL file, is written or replaced. Events within
// debounce of each other produce one call. Watch blocks until ctx is done.
func Watch(ctx context.Context, path string, debounce time.Duration, logger *zap.Logger, onChange func()) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	dir, name := filepath.Dir(path), filepath.Base(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	var (
		mu    sync.Mutex
		timer *time.Timer
	)
	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !strings.HasPrefix(filepath.Base(event.Name), name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			logger.Debug("store file changed", zap.String("file", event.Name), zap.String("op", event.Op.String()))
			mu.Lock()
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, onChange)
			mu.Unlock()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("store watcher error", zap.Error(err))
		}
	}
}
