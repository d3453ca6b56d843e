package library

import (
	"time"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/itemlists/internal/migrate"
	"github.com/mesh-intelligence/itemlists/pkg/types"
)

// Directory keeps the index of stored item lists separate from their
// bodies so listing never loads a body. Every mutation rewrites the whole
// directory record.
type Directory struct {
	store     types.KVStore
	migrator  *migrate.Migrator
	logger    *zap.Logger
	namespace string
	now       func() time.Time

	version     string
	lastUpdated time.Time
	entries     []types.DirectoryEntry
}

// NewDirectory returns an empty directory bound to store under namespace.
func NewDirectory(store types.KVStore, namespace string, migrator *migrate.Migrator, logger *zap.Logger) *Directory {
	if logger == nil {
		logger = zap.NewNop()
	}
	if migrator == nil {
		migrator = migrate.New(logger)
	}
	return &Directory{
		store:     store,
		migrator:  migrator,
		logger:    logger,
		namespace: namespace,
		now:       time.Now,
		version:   migrate.DirectoryVersion,
	}
}

// Key returns the store key of the directory record.
func (d *Directory) Key() string {
	return d.namespace
}

// Exists reports whether a directory record is present in the store. It is
// false when the store is unavailable.
func (d *Directory) Exists() bool {
	if !d.store.Available() {
		return false
	}
	_, ok := d.store.Get(d.namespace)
	return ok
}

// Load reads the directory record, migrates it, and replaces the in-memory
// entries with the stored ones. Entries that fail the shape check are
// dropped, as are repeated UUIDs. An entry whose key is not the one derived
// from its UUID is repaired. A record that needed migration or repair is
// written back immediately. The only error returned wraps
// migrate.ErrNoMigrationPath.
func (d *Directory) Load() error {
	if !d.store.Available() {
		return nil
	}
	value, ok := d.store.Get(d.namespace)
	if !ok {
		return nil
	}

	changed, raw, err := d.migrator.Directory(decodeRecord(value))
	if err != nil {
		return err
	}
	if raw == nil || !types.IsDirectory(raw) {
		d.logger.Warn("ignoring malformed directory record", zap.String("key", d.namespace))
		return nil
	}

	rawEntries, _ := raw["entries"].([]any)
	entries := make([]types.DirectoryEntry, 0, len(rawEntries))
	seen := make(map[string]bool, len(rawEntries))
	for i, re := range rawEntries {
		if !types.IsDirectoryEntry(re) {
			d.logger.Debug("dropping malformed directory entry", zap.Int("index", i))
			continue
		}
		entry := entryFromRaw(re.(map[string]any))
		if seen[entry.UUID] {
			d.logger.Debug("dropping duplicate directory entry", zap.String("uuid", entry.UUID))
			continue
		}
		seen[entry.UUID] = true
		if key := types.StorageKey(d.namespace, entry.UUID); entry.Key != key {
			d.logger.Warn("repairing directory entry key",
				zap.String("uuid", entry.UUID),
				zap.String("stored", entry.Key),
				zap.String("key", key),
			)
			entry.Key = key
			changed = true
		}
		entries = append(entries, entry)
	}

	d.entries = entries
	d.version, _ = raw["version"].(string)
	updated, _ := raw["lastUpdated"].(string)
	d.lastUpdated = parseTime(updated)

	if changed {
		d.Persist()
	}
	return nil
}

// Entries returns a copy of the entries in insertion order.
func (d *Directory) Entries() []types.DirectoryEntry {
	out := make([]types.DirectoryEntry, len(d.entries))
	copy(out, d.entries)
	return out
}

// Len returns the number of entries.
func (d *Directory) Len() int {
	return len(d.entries)
}

// Version returns the schema version of the directory record.
func (d *Directory) Version() string {
	return d.version
}

// LastUpdated returns the time the directory was last persisted or loaded.
func (d *Directory) LastUpdated() time.Time {
	return d.lastUpdated
}

// FindEntryIndex returns the index of the entry for uuid, or -1.
func (d *Directory) FindEntryIndex(uuid string) int {
	for i, e := range d.entries {
		if e.UUID == uuid {
			return i
		}
	}
	return -1
}

// FindEntry returns the entry for uuid.
func (d *Directory) FindEntry(uuid string) (types.DirectoryEntry, bool) {
	i := d.FindEntryIndex(uuid)
	if i < 0 {
		return types.DirectoryEntry{}, false
	}
	return d.entries[i], true
}

// UpsertEntry adds an entry for list or refreshes the title and timestamp
// of the existing one, then persists the directory. It reports whether the
// directory was written.
func (d *Directory) UpsertEntry(list types.ItemList) bool {
	now := d.now()
	if i := d.FindEntryIndex(list.UUID); i >= 0 {
		d.entries[i].Title = list.Title
		d.entries[i].Key = types.StorageKey(d.namespace, list.UUID)
		d.entries[i].LastUpdated = now
	} else {
		d.entries = append(d.entries, types.DirectoryEntry{
			Title:       list.Title,
			UUID:        list.UUID,
			Key:         types.StorageKey(d.namespace, list.UUID),
			LastUpdated: now,
		})
	}
	return d.Persist()
}

// RemoveEntry removes the entry for uuid and persists the directory. It
// reports false when no entry exists or the write did not happen.
func (d *Directory) RemoveEntry(uuid string) bool {
	i := d.FindEntryIndex(uuid)
	if i < 0 {
		return false
	}
	d.entries = append(d.entries[:i], d.entries[i+1:]...)
	return d.Persist()
}

// Persist writes the persistable projection of every entry as one record,
// stamping lastUpdated with the current time.
func (d *Directory) Persist() bool {
	if !d.store.Available() {
		return false
	}
	d.lastUpdated = d.now()
	d.version = migrate.DirectoryVersion

	rec := directoryJSON{
		Version:     d.version,
		LastUpdated: formatTime(d.lastUpdated),
		Entries:     make([]directoryEntryJSON, 0, len(d.entries)),
	}
	for _, e := range d.entries {
		rec.Entries = append(rec.Entries, directoryEntryJSON{
			Title:       e.Title,
			Key:         e.Key,
			UUID:        e.UUID,
			LastUpdated: formatTime(e.LastUpdated),
		})
	}

	value, err := encodeChecked(rec, types.IsDirectory)
	if err != nil {
		d.logger.Error("directory failed its shape check, not written", zap.Error(err))
		return false
	}
	if !d.store.Set(d.namespace, value) {
		d.logger.Warn("directory not persisted", zap.String("key", d.namespace))
		return false
	}
	return true
}

// Clear drops every entry and removes the directory record from the store.
func (d *Directory) Clear() {
	d.entries = nil
	d.lastUpdated = time.Time{}
	d.store.Remove(d.namespace)
}
