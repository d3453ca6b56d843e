// Package cli implements the itemlists command-line interface.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/itemlists/internal/migrate"
	"github.com/mesh-intelligence/itemlists/internal/paths"
	"github.com/mesh-intelligence/itemlists/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// errSystem marks failures of the environment rather than the request:
// unreadable configuration, an unopenable store, a failed write.
var errSystem = errors.New("system error")

// rootFlags holds the global flag values of one command tree.
type rootFlags struct {
	configDir string
	dataDir   string
	backend   string
	namespace string
	logLevel  string
	jsonMode  bool
}

// NewRootCmd creates the top-level "itemlists" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	f := &rootFlags{}
	root := &cobra.Command{
		Use:     "itemlists",
		Short:   "Manage random item tables for Fudge dice",
		Long:    "itemlists stores named lists of fifteen items laid out as a triangle table\nrolled with four Fudge dice, and exports them as Markdown, CSV, or HTML.",
		Version: Version,
		// Errors are reported by Execute.
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&f.configDir, "config-dir", "", "configuration directory (env "+paths.EnvConfigDir+")")
	pf.StringVar(&f.dataDir, "data-dir", "", "data directory (env "+paths.EnvDataDir+")")
	pf.StringVar(&f.backend, "backend", "", "storage backend: memory, sqlite, or jsonl")
	pf.StringVar(&f.namespace, "namespace", "", "storage namespace (default "+types.DefaultNamespace+")")
	pf.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.BoolVar(&f.jsonMode, "json", false, "output as JSON")

	root.AddCommand(
		newVersionCmd(),
		newInitCmd(f),
		newListCmd(f),
		newShowCmd(f),
		newCreateCmd(f),
		newSetCmd(f),
		newDeleteCmd(f),
		newResetCmd(f),
		newExportCmd(f),
		newRollCmd(f),
		newCopyCmd(f),
		newWatchCmd(f),
	)
	return root
}

// Execute runs the root command and exits with the matching code.
func Execute() {
	os.Exit(run(NewRootCmd(), os.Args[1:], os.Stderr))
}

func run(root *cobra.Command, args []string, stderr io.Writer) int {
	root.SetArgs(args)
	err := root.Execute()
	if err == nil {
		return exitSuccess
	}
	fmt.Fprintln(stderr, "itemlists:", err)
	return exitCode(err)
}

// exitCode maps an error to an exit code. Schema and environment failures
// are system errors; everything else is the caller's.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitSuccess
	case errors.Is(err, migrate.ErrNoMigrationPath), errors.Is(err, errSystem):
		return exitSysError
	default:
		return exitUserError
	}
}

// systemError wraps err so that it exits with exitSysError.
func systemError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, errSystem, err)
}
