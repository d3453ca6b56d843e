package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/itemlists/pkg/types"
)

func newCreateCmd(f *rootFlags) *cobra.Command {
	var (
		title string
		items []string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new item list",
		Long: `Create saves a new item list and prints its uuid. Items fill the table
in order from the top-left cell; the rest stay empty.

Example:
  itemlists create --title "Loot" --item Sword --item Rope`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(items) > types.CellCount {
				return fmt.Errorf("at most %d items fit the table, got %d", types.CellCount, len(items))
			}

			e, err := f.open()
			if err != nil {
				return err
			}
			defer e.Close()

			list := types.NewItemList()
			list.Title = title
			for i, name := range items {
				list.Items[i].Name = name
			}
			if !e.session.Repository.SaveItemList(&list) {
				return systemError("create", types.ErrStoreUnavailable)
			}

			if f.jsonMode {
				return writeJSON(cmd.OutOrStdout(), list)
			}
			fmt.Fprintln(cmd.OutOrStdout(), list.UUID)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "list title")
	cmd.Flags().StringArrayVar(&items, "item", nil, "item name (repeatable)")
	return cmd
}
