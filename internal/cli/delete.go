package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/itemlists/pkg/types"
)

func newDeleteCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <uuid|title>",
		Short: "Delete an item list",
		Long:  "Delete removes the item list body and its directory entry. A list whose body is missing or corrupt can still be deleted.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := f.open()
			if err != nil {
				return err
			}
			defer e.Close()

			uuid, err := e.resolveUUID(args[0])
			if err != nil {
				return err
			}
			if !e.session.Repository.DeleteItemList(uuid) {
				return systemError("delete", types.ErrStoreUnavailable)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", uuid)
			return nil
		},
	}
}
