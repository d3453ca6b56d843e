package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/itemlists/internal/triangle"
)

func newExportCmd(f *rootFlags) *cobra.Command {
	var (
		format string
		dir    string
	)
	cmd := &cobra.Command{
		Use:   "export <uuid|title>",
		Short: "Export an item list as Markdown, CSV, or HTML",
		Long: `Export renders the triangle table of an item list. Without --dir the
result is written to stdout; with --dir it is written to a file named after
the list title.

Example:
  itemlists export "Tavern Rumors" --format csv --dir ./out`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch format {
			case triangle.FormatMarkdown, triangle.FormatCSV, triangle.FormatHTML:
			default:
				return fmt.Errorf("unknown format %q (valid: md, csv, html)", format)
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
			text, err := triangle.Render(list, format)
			if err != nil {
				return systemError("export", err)
			}

			if dir == "" {
				fmt.Fprintln(cmd.OutOrStdout(), text)
				return nil
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return systemError("export", err)
			}
			path := filepath.Join(dir, triangle.Filename(list, format))
			if err := os.WriteFile(path, []byte(text+"\n"), 0o644); err != nil {
				return systemError("export", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", triangle.FormatMarkdown, "output format: md, csv, or html")
	cmd.Flags().StringVar(&dir, "dir", "", "write to a file in this directory")
	return cmd
}
