// Package triangle lays a flat item list out as the triangle table read
// with four Fudge dice: the row is the number of minus faces and the column
// the number of plus faces. It also annotates cells with their odds and
// renders the table for export.
package triangle

import (
	"github.com/mesh-intelligence/itemlists/pkg/types"
)

// RowLengths is the number of cells in each row, top to bottom.
var RowLengths = [...]int{5, 4, 3, 2, 1}

// NumRows is the number of rows in the table.
const NumRows = len(RowLengths)

// weights holds, for each cell, how many of the 81 outcomes of 4dF select
// it.
var weights = [NumRows][]int{
	{1, 4, 6, 4, 1},
	{4, 12, 12, 4},
	{6, 12, 6},
	{4, 4},
	{1},
}

// IndexToRowCol maps a flat index in [0, CellCount) to its row and column.
func IndexToRowCol(index int) (row, col int, ok bool) {
	if index < 0 || index >= types.CellCount {
		return 0, 0, false
	}
	for row, n := range RowLengths {
		if index < n {
			return row, index, true
		}
		index -= n
	}
	return 0, 0, false
}

// RowColToIndex maps a row and column back to the flat index.
func RowColToIndex(row, col int) (int, bool) {
	if row < 0 || row >= NumRows || col < 0 || col >= RowLengths[row] {
		return 0, false
	}
	index := col
	for r := 0; r < row; r++ {
		index += RowLengths[r]
	}
	return index, true
}

// CellWeight returns the number of outcomes out of types.ProbabilityMax
// that select the cell.
func CellWeight(row, col int) (int, bool) {
	if row < 0 || row >= NumRows || col < 0 || col >= len(weights[row]) {
		return 0, false
	}
	return weights[row][col], true
}

// IndexWeight is CellWeight for a flat index.
func IndexWeight(index int) (int, bool) {
	row, col, ok := IndexToRowCol(index)
	if !ok {
		return 0, false
	}
	return CellWeight(row, col)
}

// D100Range returns the inclusive range of a percentile roll that stands in
// for the cell at index. Ranges are contiguous in index order and cover 1
// through 100.
func D100Range(index int) (low, high int, ok bool) {
	if index < 0 || index >= types.CellCount {
		return 0, 0, false
	}
	before := 0
	for i := 0; i < index; i++ {
		w, _ := IndexWeight(i)
		before += w
	}
	w, _ := IndexWeight(index)
	low = before*100/types.ProbabilityMax + 1
	high = (before + w) * 100 / types.ProbabilityMax
	return low, high, true
}

// D100Index returns the flat index whose D100Range contains n.
func D100Index(n int) (int, bool) {
	for i := 0; i < types.CellCount; i++ {
		low, high, _ := D100Range(i)
		if n >= low && n <= high {
			return i, true
		}
	}
	return 0, false
}

// Annotate returns a padded copy of list whose first CellCount entries carry
// their index, probability, and d100 range. Entries past the table are
// copied without annotation. The input is not modified.
func Annotate(list types.ItemList) types.ItemList {
	out := list.Clone()
	out.Pad()
	for i := range out.Items[:types.CellCount] {
		idx := i
		w, _ := IndexWeight(i)
		low, high, _ := D100Range(i)
		out.Items[i].Index = &idx
		out.Items[i].Probability = &w
		out.Items[i].D100Range = []int{low, high}
	}
	return out
}

// Rows splits the annotated list into the five table rows.
func Rows(list types.ItemList) [][]types.ItemEntry {
	annotated := Annotate(list)
	rows := make([][]types.ItemEntry, NumRows)
	start := 0
	for r, n := range RowLengths {
		rows[r] = annotated.Items[start : start+n : start+n]
		start += n
	}
	return rows
}
