// Package migrate upgrades decoded store records to the current schema
// version by threading them through single-step migration functions.
package migrate

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"go.uber.org/zap"
)

// ErrNoMigrationPath means a record could not be brought to the current
// version with the registered steps. It signals a missing migration step,
// not a runtime condition, and callers must not persist the record.
var ErrNoMigrationPath = errors.New("no migration path")

// Step migrates a record from the version it is registered under to the
// next version, stamping the new version on the returned record.
type Step func(raw map[string]any) map[string]any

// Table maps the version a step migrates from to the step. The empty string
// is the unversioned schema that predates versioning.
type Table map[string]Step

// versions returns the table's from-versions in ascending order.
func (t Table) versions() []string {
	keys := slices.Collect(maps.Keys(t))
	slices.SortFunc(keys, Compare)
	return keys
}

// Migrator runs migrations and logs upgraded records.
type Migrator struct {
	logger *zap.Logger
}

// New returns a Migrator. A nil logger is replaced by a no-op logger.
func New(logger *zap.Logger) *Migrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Migrator{logger: logger}
}

// Migrate brings raw up to currentVersion using table.
//
// A nil or non-object raw returns (false, nil, nil): there is nothing to
// migrate. A record already at currentVersion is returned unchanged with
// changed=false. Otherwise every step whose from-version is not less than
// the record's version runs in ascending order. If the result does not
// carry currentVersion, Migrate returns an error wrapping
// ErrNoMigrationPath. The caller's map is never modified.
func (m *Migrator) Migrate(raw any, typeName, currentVersion string, table Table) (bool, map[string]any, error) {
	obj, ok := raw.(map[string]any)
	if !ok || obj == nil {
		return false, nil, nil
	}

	oldVersion, _ := obj["version"].(string)
	result := obj
	changed := false

	if oldVersion != currentVersion {
		result = maps.Clone(obj)
		for _, from := range table.versions() {
			if Compare(from, oldVersion) < 0 {
				continue
			}
			result = table[from](result)
			changed = true
			if result == nil {
				break
			}
		}
	}

	newVersion, _ := result["version"].(string)
	if result == nil || newVersion != currentVersion {
		return false, nil, fmt.Errorf("%s structure was not migrated from version %q to %q: %w",
			typeName, oldVersion, currentVersion, ErrNoMigrationPath)
	}

	if changed {
		m.logger.Info("record migrated",
			zap.String("type", typeName),
			zap.String("name", label(result)),
			zap.String("from", oldVersion),
			zap.String("to", currentVersion),
		)
	}
	return changed, result, nil
}

// Directory migrates a decoded directory record to DirectoryVersion.
func (m *Migrator) Directory(raw any) (bool, map[string]any, error) {
	return m.Migrate(raw, "Directory", DirectoryVersion, DirectoryMigrations)
}

// ItemList migrates a decoded item list record to ItemListVersion.
func (m *Migrator) ItemList(raw any) (bool, map[string]any, error) {
	return m.Migrate(raw, "ItemList", ItemListVersion, ItemListMigrations)
}

func label(rec map[string]any) string {
	if s, ok := rec["title"].(string); ok && s != "" {
		return s
	}
	if s, ok := rec["name"].(string); ok && s != "" {
		return s
	}
	return "object"
}
