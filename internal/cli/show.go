package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/itemlists/internal/triangle"
	"github.com/mesh-intelligence/itemlists/pkg/types"
)

func newShowCmd(f *rootFlags) *cobra.Command {
	var useColor bool
	cmd := &cobra.Command{
		Use:   "show <uuid|title>",
		Short: "Display an item list as a triangle table",
		Long: `Show prints each row of the triangle table with the number of minus
dice that selects it. Every cell shows its odds out of 81 and the d100
range that stands in for it.`,
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
			annotated := triangle.Annotate(list)
			if f.jsonMode {
				return writeJSON(cmd.OutOrStdout(), annotated)
			}
			printTable(cmd.OutOrStdout(), annotated, useColor)
			return nil
		},
	}
	cmd.Flags().BoolVar(&useColor, "color", false, "shade cells by probability")
	return cmd
}

// printTable renders list row by row. Colors, when enabled, go from dim
// for the rarest cells to green for the most likely.
func printTable(w io.Writer, list types.ItemList, useColor bool) {
	fmt.Fprintf(w, "%s\n", displayTitle(list.Title))
	fmt.Fprintf(w, "uuid: %s\n\n", list.UUID)
	for minus, row := range triangle.Rows(list) {
		label := strings.TrimSpace(strings.Repeat("- ", minus))
		if label == "" {
			label = "0"
		}
		fmt.Fprintf(w, "%-8s", label)
		cells := make([]string, len(row))
		for i, item := range row {
			text := fmt.Sprintf("[%2d] %s (%d/%d, %s)",
				*item.Index, cellName(item.Name), *item.Probability, types.ProbabilityMax, d100Label(item.D100Range))
			if useColor {
				text = shade(*item.Probability).Sprint(text)
			}
			cells[i] = text
		}
		fmt.Fprintln(w, strings.Join(cells, "  "))
	}
}

func cellName(name string) string {
	if name == "" {
		return "-"
	}
	return name
}

func d100Label(r []int) string {
	if len(r) != 2 {
		return ""
	}
	if r[0] == r[1] {
		return fmt.Sprintf("%02d", r[0]%100)
	}
	return fmt.Sprintf("%02d-%02d", r[0], r[1]%100)
}

func shade(weight int) *color.Color {
	var c *color.Color
	switch {
	case weight >= 12:
		c = color.New(color.FgGreen, color.Bold)
	case weight >= 6:
		c = color.New(color.FgCyan)
	case weight >= 4:
		c = color.New(color.FgYellow)
	default:
		c = color.New(color.FgHiBlack)
	}
	c.EnableColor()
	return c
}
