package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/itemlists/internal/paths"
)

func newInitCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the configuration file and seed the built-in lists",
		Long: `Init writes a default config.yaml to the configuration directory when
none exists, opens the store, and seeds the built-in item lists on first
run. Running it again is harmless.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir, err := paths.ResolveConfigDir(f.configDir)
			if err != nil {
				return systemError("resolve config dir", err)
			}
			written, err := writeDefaultConfig(configDir)
			if err != nil {
				return systemError("init", err)
			}

			e, err := f.open()
			if err != nil {
				return err
			}
			defer e.Close()
			if err := e.requirePersistent("init"); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if written {
				fmt.Fprintf(out, "Wrote %s\n", paths.ConfigFile(configDir))
			}
			fmt.Fprintf(out, "Store ready: %s backend, namespace %s, %d item lists\n",
				e.settings.store.Backend, e.session.Namespace(), e.session.Directory.Len())
			return nil
		},
	}
}
