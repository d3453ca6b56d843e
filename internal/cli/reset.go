package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newResetCmd(f *rootFlags) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every item list and restore the built-in lists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("reset deletes every item list in the namespace; pass --yes to confirm")
			}
			e, err := f.open()
			if err != nil {
				return err
			}
			defer e.Close()

			n := e.session.ResetToDefault()
			if err := e.requirePersistent("reset"); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Restored %d built-in item lists\n", n)
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the reset")
	return cmd
}
