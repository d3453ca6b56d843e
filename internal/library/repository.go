package library

import (
	"go.uber.org/zap"

	"github.com/mesh-intelligence/itemlists/internal/migrate"
	"github.com/mesh-intelligence/itemlists/pkg/types"
)

// Repository performs create, load, save, and delete on item list bodies.
// Loaded bodies are cached by UUID; the cache is never written to the store
// and is rebuilt lazily after a restart.
type Repository struct {
	store     types.KVStore
	dir       *Directory
	migrator  *migrate.Migrator
	logger    *zap.Logger
	namespace string
	cache     map[string]types.ItemList
}

// NewRepository returns a repository that indexes bodies in dir.
func NewRepository(store types.KVStore, dir *Directory, migrator *migrate.Migrator, logger *zap.Logger) *Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	if migrator == nil {
		migrator = migrate.New(logger)
	}
	return &Repository{
		store:     store,
		dir:       dir,
		migrator:  migrator,
		logger:    logger,
		namespace: dir.namespace,
		cache:     make(map[string]types.ItemList),
	}
}

// HasItemList reports whether the directory lists uuid. The store is not
// consulted.
func (r *Repository) HasItemList(uuid string) bool {
	return r.dir.FindEntryIndex(uuid) >= 0
}

// ListItemLists returns the directory entries without loading any body.
func (r *Repository) ListItemLists() []types.DirectoryEntry {
	return r.dir.Entries()
}

// GetItemList returns the item list for uuid, padded to CellCount.
//
// It returns types.ErrNotFound when the directory has no entry, when the
// body is missing or malformed, or when the stored body carries a different
// UUID. A body whose schema cannot be migrated returns an error wrapping
// migrate.ErrNoMigrationPath.
func (r *Repository) GetItemList(uuid string) (types.ItemList, error) {
	if !r.HasItemList(uuid) {
		return types.ItemList{}, types.ErrNotFound
	}
	if cached, ok := r.cache[uuid]; ok && cachedValid(cached, uuid) {
		return cached.Clone(), nil
	}

	key := types.StorageKey(r.namespace, uuid)
	value, ok := r.store.Get(key)
	if !ok {
		return types.ItemList{}, types.ErrNotFound
	}

	changed, raw, err := r.migrator.ItemList(decodeRecord(value))
	if err != nil {
		return types.ItemList{}, err
	}
	if raw == nil || !types.IsItemList(raw) {
		r.logger.Warn("ignoring malformed item list", zap.String("key", key))
		return types.ItemList{}, types.ErrNotFound
	}
	var rec itemListJSON
	if err := convert(raw, &rec); err != nil {
		r.logger.Warn("ignoring undecodable item list", zap.String("key", key), zap.Error(err))
		return types.ItemList{}, types.ErrNotFound
	}
	if rec.UUID != uuid {
		r.logger.Warn("item list identity mismatch",
			zap.String("key", key),
			zap.String("want", uuid),
			zap.String("got", rec.UUID),
		)
		return types.ItemList{}, types.ErrNotFound
	}

	list := rec.toItemList()
	list.Pad()
	r.cache[uuid] = list.Clone()

	if changed {
		r.writeBody(list)
	}
	r.dir.Persist()

	return list, nil
}

// SaveItemList pads list, assigns a UUID if it still carries DefaultUUID,
// writes the body, and upserts its directory entry. The list is updated in
// place with the assigned UUID and current schema fields. It reports
// whether both writes happened; when the store is unavailable the list is
// kept in memory only and false is returned.
func (r *Repository) SaveItemList(list *types.ItemList) bool {
	list.Pad()
	if list.UUID == types.DefaultUUID || list.UUID == "" {
		list.UUID = types.NewUUID()
	}
	list.Version = migrate.ItemListVersion
	if list.TableType == "" {
		list.TableType = types.TableTypeTriangle
	}
	if list.ProbabilityMax == 0 {
		list.ProbabilityMax = types.ProbabilityMax
	}

	written := r.writeBody(*list)
	if !written && r.store.Available() {
		return false
	}
	r.cache[list.UUID] = list.Clone()
	indexed := r.dir.UpsertEntry(*list)
	return written && indexed
}

// CreateNewItemList builds a blank item list with a fresh identity, saves
// it, and returns it for editing.
func (r *Repository) CreateNewItemList() types.ItemList {
	list := types.NewItemList()
	r.SaveItemList(&list)
	return list
}

// DeleteItemList removes the body and the directory entry for uuid. It
// reports false when uuid is not listed.
func (r *Repository) DeleteItemList(uuid string) bool {
	if !r.HasItemList(uuid) {
		return false
	}
	r.store.Remove(types.StorageKey(r.namespace, uuid))
	delete(r.cache, uuid)
	return r.dir.RemoveEntry(uuid)
}

// ClearCache drops every cached body.
func (r *Repository) ClearCache() {
	clear(r.cache)
}

// writeBody serializes the persistable fields of list and stores them.
func (r *Repository) writeBody(list types.ItemList) bool {
	if !r.store.Available() {
		return false
	}
	value, err := encodeChecked(toItemListJSON(list), types.IsItemList)
	if err != nil {
		r.logger.Error("item list failed its shape check, not written",
			zap.String("uuid", list.UUID), zap.Error(err))
		return false
	}
	key := types.StorageKey(r.namespace, list.UUID)
	if !r.store.Set(key, value) {
		r.logger.Warn("item list not persisted", zap.String("key", key))
		return false
	}
	return true
}

func cachedValid(l types.ItemList, uuid string) bool {
	return l.UUID == uuid && len(l.Items) >= types.CellCount
}
