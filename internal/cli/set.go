package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/itemlists/pkg/types"
)

func newSetCmd(f *rootFlags) *cobra.Command {
	var (
		title string
		items []string
	)
	cmd := &cobra.Command{
		Use:   "set <uuid|title>",
		Short: "Rename an item list or change its items",
		Long: `Set updates the title and individual cells of an item list. Cells are
addressed by their index as printed by show (0 is the top-left cell, 14
the bottom).

Example:
  itemlists set Loot --title "Dungeon Loot" --item 0=Torch --item 14="Cursed Ring"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			titleSet := cmd.Flags().Changed("title")
			if !titleSet && len(items) == 0 {
				return fmt.Errorf("nothing to change: pass --title or --item")
			}
			edits, err := parseItemEdits(items)
			if err != nil {
				return err
			}

			e, err := f.open()
			if err != nil {
				return err
			}
			defer e.Close()

			list, err := e.lookup(args[0])
			if err != nil {
				return err
			}
			if titleSet {
				list.Title = title
			}
			for index, name := range edits {
				list.Items[index].Name = name
			}
			if !e.session.Repository.SaveItemList(&list) {
				return systemError("set", types.ErrStoreUnavailable)
			}

			if f.jsonMode {
				return writeJSON(cmd.OutOrStdout(), list)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", list.UUID)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringArrayVar(&items, "item", nil, "cell edit as index=name (repeatable)")
	return cmd
}

// parseItemEdits parses index=name pairs. Indexes must address a table
// cell.
func parseItemEdits(args []string) (map[int]string, error) {
	edits := make(map[int]string, len(args))
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("invalid item edit %q (expected index=name)", arg)
		}
		index, err := strconv.Atoi(strings.TrimSpace(k))
		if err != nil || index < 0 || index >= types.CellCount {
			return nil, fmt.Errorf("invalid item index %q (expected 0-%d)", k, types.CellCount-1)
		}
		edits[index] = v
	}
	return edits, nil
}
