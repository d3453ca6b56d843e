package migrate

import (
	"maps"

	"github.com/mesh-intelligence/itemlists/pkg/types"
)

// Current schema versions. Bump a version only together with a new step in
// the matching table; existing steps are never rewritten.
const (
	DirectoryVersion = "0.1"
	ItemListVersion  = "0.1"
)

// DirectoryMigrations upgrades stored directory records.
var DirectoryMigrations = Table{
	// "" -> "0.1": the active-list pointer was dropped.
	"": func(raw map[string]any) map[string]any {
		out := maps.Clone(raw)
		delete(out, "currentListUuid")
		out["version"] = "0.1"
		return out
	},
}

// ItemListMigrations upgrades stored item list records.
var ItemListMigrations = Table{
	// "" -> "0.1": lists gained a table shape discriminator.
	"": func(raw map[string]any) map[string]any {
		out := maps.Clone(raw)
		out["tableType"] = types.TableTypeTriangle
		out["version"] = "0.1"
		return out
	},
}
