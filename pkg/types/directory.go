package types

import "time"

// DefaultNamespace is the storage namespace used when none is configured.
// The directory record lives under the namespace itself and each item list
// body under "<namespace>:<uuid>".
const DefaultNamespace = "ttm-random-items"

// DirectoryEntry indexes one stored item list.
type DirectoryEntry struct {
	Title       string    `json:"title"`
	UUID        string    `json:"uuid"`
	Key         string    `json:"key"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// Directory is the index of every known item list. Entry order is insertion
// order; entries are unique by UUID.
type Directory struct {
	Version     string           `json:"version"`
	LastUpdated time.Time        `json:"lastUpdated"`
	Entries     []DirectoryEntry `json:"entries"`
}

// StorageKey derives the key an item list body is stored under.
func StorageKey(namespace, uuid string) string {
	return namespace + ":" + uuid
}
