package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/itemlists/pkg/types"
)

func newListCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored item lists",
		Long:  "List prints the directory of item lists without loading any of them.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := f.open()
			if err != nil {
				return err
			}
			defer e.Close()

			dir := e.session.Directory
			entries := dir.Entries()
			out := cmd.OutOrStdout()
			if f.jsonMode {
				return writeJSON(out, types.Directory{
					Version:     dir.Version(),
					LastUpdated: dir.LastUpdated(),
					Entries:     entries,
				})
			}

			if len(entries) == 0 {
				fmt.Fprintln(out, "No item lists.")
				return nil
			}
			for _, entry := range entries {
				fmt.Fprintf(out, "%-36s  %-20s  %s\n",
					entry.UUID, entry.LastUpdated.Local().Format(time.DateTime), displayTitle(entry.Title))
			}
			return nil
		},
	}
}

func displayTitle(title string) string {
	if title == "" {
		return "(untitled)"
	}
	return title
}
