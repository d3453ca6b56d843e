package triangle

import (
	"math/rand/v2"

	"github.com/mesh-intelligence/itemlists/pkg/types"
)

// DiceCount is the number of Fudge dice rolled for the table.
const DiceCount = 4

// Roll is the outcome of rolling the table's dice.
type Roll struct {
	// Faces holds each die as -1, 0, or +1.
	Faces [DiceCount]int
	Minus int
	Plus  int
	// Index is the flat index of the selected cell.
	Index int
}

// Roller rolls Fudge dice against an item list.
type Roller struct {
	rng *rand.Rand
}

// NewRoller returns a Roller drawing from src. A nil src uses a randomly
// seeded generator.
func NewRoller(src rand.Source) *Roller {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &Roller{rng: rand.New(src)}
}

// Roll throws the dice and selects a cell.
func (r *Roller) Roll() Roll {
	var faces [DiceCount]int
	for i := range faces {
		faces[i] = r.rng.IntN(3) - 1
	}
	return FromFaces(faces)
}

// Pick rolls and returns the entry the dice select from list, annotated
// with its odds.
func (r *Roller) Pick(list types.ItemList) (types.ItemEntry, Roll) {
	roll := r.Roll()
	return Annotate(list).Items[roll.Index], roll
}

// FromFaces reads the cell selected by a set of die faces. Any value below
// zero counts as minus and any value above zero as plus.
func FromFaces(faces [DiceCount]int) Roll {
	roll := Roll{Faces: faces}
	for _, f := range faces {
		switch {
		case f < 0:
			roll.Minus++
		case f > 0:
			roll.Plus++
		}
	}
	roll.Index, _ = RowColToIndex(roll.Minus, roll.Plus)
	return roll
}

// RollD100 rolls a percentile die and returns the result with the index of
// the cell whose d100 range contains it.
func (r *Roller) RollD100() (n, index int) {
	n = r.rng.IntN(100) + 1
	index, _ = D100Index(n)
	return n, index
}
