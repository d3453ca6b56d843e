package types

import (
	"slices"

	"github.com/google/uuid"
)

// Table shape constants for the triangle table.
const (
	// CellCount is the number of cells every persisted item list carries.
	CellCount = 15

	// TableTypeTriangle is the only table shape currently supported.
	TableTypeTriangle = "triangle"

	// ProbabilityMax is the probability denominator of a triangle table
	// (four three-sided dice, 3^4 outcomes).
	ProbabilityMax = 81

	// DefaultUUID marks an item list that has not been assigned an
	// identity yet. SaveItemList replaces it with a fresh UUID.
	DefaultUUID = "default"
)

// ItemEntry is a single cell of an item list. Only Name is persisted; the
// remaining fields are display values computed on demand.
type ItemEntry struct {
	Name        string `json:"name"`
	Index       *int   `json:"index,omitempty"`
	Probability *int   `json:"probability,omitempty"`
	D100Range   []int  `json:"d100Range,omitempty"`
}

// ItemList is the persisted aggregate: a titled, ordered list of entries
// used to populate one random table.
type ItemList struct {
	UUID           string      `json:"uuid"`
	Title          string      `json:"title"`
	Version        string      `json:"version"`
	TableType      string      `json:"tableType"`
	ProbabilityMax int         `json:"probabilityMax"`
	Items          []ItemEntry `json:"items"`
}

// NewItemList returns a blank triangle item list with a fresh identity and
// CellCount empty entries. The version is left to the caller.
func NewItemList() ItemList {
	return ItemList{
		UUID:           NewUUID(),
		TableType:      TableTypeTriangle,
		ProbabilityMax: ProbabilityMax,
		Items:          PadItems(nil),
	}
}

// Pad appends empty entries until the list holds at least CellCount items.
// Existing entries are never truncated or reordered.
func (l *ItemList) Pad() {
	l.Items = PadItems(l.Items)
}

// Clone returns a deep copy of the list.
func (l ItemList) Clone() ItemList {
	out := l
	out.Items = make([]ItemEntry, len(l.Items))
	for i, item := range l.Items {
		out.Items[i] = item.clone()
	}
	return out
}

// Names returns the entry names in order.
func (l ItemList) Names() []string {
	names := make([]string, len(l.Items))
	for i, item := range l.Items {
		names[i] = item.Name
	}
	return names
}

func (e ItemEntry) clone() ItemEntry {
	out := e
	if e.Index != nil {
		v := *e.Index
		out.Index = &v
	}
	if e.Probability != nil {
		v := *e.Probability
		out.Probability = &v
	}
	out.D100Range = slices.Clone(e.D100Range)
	return out
}

// PadItems returns items extended with empty-named entries up to CellCount.
func PadItems(items []ItemEntry) []ItemEntry {
	for len(items) < CellCount {
		items = append(items, ItemEntry{Name: ""})
	}
	return items
}

// NewUUID generates a random (version 4) UUID string.
func NewUUID() string {
	return uuid.NewString()
}
