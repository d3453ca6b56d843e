package cli

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/itemlists/internal/triangle"
	"github.com/mesh-intelligence/itemlists/pkg/types"
)

// rollResult is the JSON form of a roll.
type rollResult struct {
	Faces []int           `json:"faces,omitempty"`
	Minus int             `json:"minus"`
	Plus  int             `json:"plus"`
	D100  int             `json:"d100,omitempty"`
	Item  types.ItemEntry `json:"item"`
}

func newRollCmd(f *rootFlags) *cobra.Command {
	var (
		seed    uint64
		useD100 bool
	)
	cmd := &cobra.Command{
		Use:   "roll <uuid|title>",
		Short: "Roll on an item list",
		Long: `Roll throws four Fudge dice and prints the selected item: the number of
minus faces picks the row and the number of plus faces the column. With
--d100 a percentile die is read against the d100 ranges instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := f.open()
			if err != nil {
				return err
			}
			defer e.Close()

			list, err := e.lookup(args[0])
			if err != nil {
				return err
			}

			var src rand.Source
			if cmd.Flags().Changed("seed") {
				src = rand.NewPCG(seed, seed)
			}
			roller := triangle.NewRoller(src)

			var res rollResult
			if useD100 {
				n, index := roller.RollD100()
				res.D100 = n
				res.Item = triangle.Annotate(list).Items[index]
				row, col, _ := triangle.IndexToRowCol(index)
				res.Minus, res.Plus = row, col
			} else {
				item, roll := roller.Pick(list)
				res.Faces = roll.Faces[:]
				res.Minus, res.Plus = roll.Minus, roll.Plus
				res.Item = item
			}

			out := cmd.OutOrStdout()
			if f.jsonMode {
				return writeJSON(out, res)
			}
			if useD100 {
				fmt.Fprintf(out, "d100: %d\n", res.D100)
			} else {
				fmt.Fprintf(out, "dice: %s\n", faceString(res.Faces))
			}
			fmt.Fprintf(out, "cell: %d minus, %d plus\n", res.Minus, res.Plus)
			fmt.Fprintf(out, "item: %s\n", cellName(res.Item.Name))
			return nil
		},
	}
	cmd.Flags().Uint64Var(&seed, "seed", 0, "seed the dice for a repeatable roll")
	cmd.Flags().BoolVar(&useD100, "d100", false, "roll a percentile die instead of Fudge dice")
	return cmd
}

func faceString(faces []int) string {
	symbols := make([]string, len(faces))
	for i, f := range faces {
		switch {
		case f < 0:
			symbols[i] = "-"
		case f > 0:
			symbols[i] = "+"
		default:
			symbols[i] = "0"
		}
	}
	return strings.Join(symbols, " ")
}
