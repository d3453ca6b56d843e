package library

import (
	"go.uber.org/zap"

	"github.com/mesh-intelligence/itemlists/pkg/types"
)

// builtInList describes an item list seeded on first run.
type builtInList struct {
	title string
	items []string
}

// builtInLists are seeded, in order, when the store holds no directory.
var builtInLists = []builtInList{
	{
		title: "Venture City Items",
		items: []string{
			"Spare utility belt", "Cracked power gauntlet", "Press pass", "Encrypted data chip", "Grappling gun",
			"Sidekick's lost mask", "Villain's calling card", "Prototype jet boots", "Police scanner",
			"Vial of glowing ooze", "Signal flare", "Forged ID badge",
			"Mysterious key card", "Tattered cape",
			"Cosmic relic",
		},
	},
	{
		title: "Tavern Rumors",
		items: []string{
			"The miller's well runs red", "A dragon was seen in the hills", "The baron is broke", "Bandits on the east road", "A new temple is hiring guards",
			"The blacksmith forges at midnight", "Ghost lights in the marsh", "A caravan never arrived", "The mayor has a twin",
			"Gold in the old mine", "Wolves that speak", "A map for sale, cheap",
			"The king is dead", "The tower door stands open",
			"The gods are listening",
		},
	},
	{
		title: "Starship Malfunctions",
		items: []string{
			"Flickering lights", "Stuck airlock", "Coffee dispenser jammed", "Comms static", "Sensor ghost",
			"Coolant leak", "Gravity fluctuation", "Navigation drift", "Shield generator hum",
			"Reactor alarm", "Hull breach on deck 3", "Life support at 40%",
			"Jump drive misfire", "AI refuses orders",
			"Core breach imminent",
		},
	},
}

// itemList converts a built-in definition to an unsaved item list.
func (b builtInList) itemList() types.ItemList {
	items := make([]types.ItemEntry, len(b.items))
	for i, name := range b.items {
		items[i] = types.ItemEntry{Name: name}
	}
	return types.ItemList{
		UUID:           types.DefaultUUID,
		Title:          b.title,
		TableType:      types.TableTypeTriangle,
		ProbabilityMax: types.ProbabilityMax,
		Items:          items,
	}
}

// DefaultItemLists returns fresh copies of the built-in item lists, each
// still carrying DefaultUUID.
func DefaultItemLists() []types.ItemList {
	lists := make([]types.ItemList, len(builtInLists))
	for i, b := range builtInLists {
		lists[i] = b.itemList()
	}
	return lists
}

// SeedDefaults saves every built-in item list when the store is available
// and holds no directory record at all. An existing but empty directory is
// left alone. It returns the number of lists saved.
func (s *Session) SeedDefaults() int {
	if !s.store.Available() || s.Directory.Exists() {
		return 0
	}
	return s.seed()
}

// ResetToDefault removes every stored item list body and the directory,
// then seeds the built-in lists unconditionally. It returns the number of
// lists saved.
func (s *Session) ResetToDefault() int {
	removed := 0
	for _, e := range s.Directory.Entries() {
		if s.store.Remove(types.StorageKey(s.namespace, e.UUID)) {
			removed++
		}
	}
	for _, key := range s.store.Keys(s.namespace + ":") {
		if s.store.Remove(key) {
			removed++
		}
	}
	s.Directory.Clear()
	s.Repository.ClearCache()
	s.logger.Info("item lists reset", zap.Int("removed", removed))
	return s.seed()
}

func (s *Session) seed() int {
	saved := 0
	for _, list := range DefaultItemLists() {
		if s.Repository.SaveItemList(&list) {
			saved++
		}
	}
	s.logger.Info("seeded default item lists", zap.Int("count", saved))
	return saved
}
