// Package library manages item lists persisted in a flat key/value store:
// the directory index, the item list repository with its in-memory cache,
// first-run seeding, and the Session that ties them to one store.
package library

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mesh-intelligence/itemlists/pkg/types"
)

// JSON record structures that mirror what is written to the store. Only
// persistable fields appear here; display and cache fields never do.

// directoryJSON is the record stored under the namespace key.
type directoryJSON struct {
	Version     string               `json:"version"`
	LastUpdated string               `json:"lastUpdated"`
	Entries     []directoryEntryJSON `json:"entries"`
}

// directoryEntryJSON is one persisted directory entry.
type directoryEntryJSON struct {
	Title       string `json:"title"`
	Key         string `json:"key"`
	UUID        string `json:"uuid"`
	LastUpdated string `json:"lastUpdated"`
}

// itemListJSON is the record stored under "<namespace>:<uuid>".
type itemListJSON struct {
	UUID           string     `json:"uuid"`
	Title          string     `json:"title"`
	Version        string     `json:"version"`
	TableType      string     `json:"tableType"`
	ProbabilityMax int        `json:"probabilityMax"`
	Items          []itemJSON `json:"items"`
}

// itemJSON keeps only the entry name.
type itemJSON struct {
	Name string `json:"name"`
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func toItemListJSON(l types.ItemList) itemListJSON {
	rec := itemListJSON{
		UUID:           l.UUID,
		Title:          l.Title,
		Version:        l.Version,
		TableType:      l.TableType,
		ProbabilityMax: l.ProbabilityMax,
		Items:          make([]itemJSON, len(l.Items)),
	}
	for i, item := range l.Items {
		rec.Items[i] = itemJSON{Name: item.Name}
	}
	return rec
}

func (r itemListJSON) toItemList() types.ItemList {
	l := types.ItemList{
		UUID:           r.UUID,
		Title:          r.Title,
		Version:        r.Version,
		TableType:      r.TableType,
		ProbabilityMax: r.ProbabilityMax,
		Items:          make([]types.ItemEntry, len(r.Items)),
	}
	for i, item := range r.Items {
		l.Items[i] = types.ItemEntry{Name: item.Name}
	}
	return l
}

func entryFromRaw(raw map[string]any) types.DirectoryEntry {
	title, _ := raw["title"].(string)
	uuid, _ := raw["uuid"].(string)
	key, _ := raw["key"].(string)
	updated, _ := raw["lastUpdated"].(string)
	return types.DirectoryEntry{Title: title, UUID: uuid, Key: key, LastUpdated: parseTime(updated)}
}

// decodeRecord parses a stored value into a generic JSON value. Values that
// are not valid JSON decode to nil.
func decodeRecord(value string) any {
	var raw any
	if err := json.Unmarshal([]byte(value), &raw); err != nil {
		return nil
	}
	return raw
}

// convert re-decodes a validated generic record into a typed record.
func convert(raw map[string]any, dst any) error {
	b, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, dst)
}

// encodeChecked marshals rec and verifies the encoded form passes check
// before it is written. A record that fails its own validator is never
// written.
func encodeChecked(rec any, check func(any) bool) (string, error) {
	b, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("marshal record: %w", err)
	}
	if !check(decodeRecord(string(b))) {
		return "", types.ErrInvalidData
	}
	return string(b), nil
}
