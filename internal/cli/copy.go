package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/itemlists/internal/kv"
	"github.com/mesh-intelligence/itemlists/pkg/types"
)

func newCopyCmd(f *rootFlags) *cobra.Command {
	var (
		toBackend string
		toDataDir string
	)
	cmd := &cobra.Command{
		Use:   "copy",
		Short: "Copy the namespace to another backend",
		Long: `Copy writes the directory and every item list body of the current
namespace into another store, overwriting lists with the same uuid there.
Use it to move from one backend to another, or to snapshot a SQLite store
as a JSONL file that diffs cleanly.

Example:
  itemlists copy --to-backend jsonl --to-data-dir ./snapshot`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := f.resolve()
			if err != nil {
				return err
			}
			dst := types.Config{Backend: toBackend, Namespace: s.store.Namespace}
			if toDataDir != "" {
				if dst.DataDir, err = filepath.Abs(toDataDir); err != nil {
					return systemError("resolve target dir", err)
				}
			}
			if dst.Backend == s.store.Backend && dst.DataDir == s.store.DataDir {
				return fmt.Errorf("source and target are the same store")
			}

			from, err := kv.OpenBackend(s.store)
			if err != nil {
				return systemError("open source", err)
			}
			defer from.Close()
			to, err := kv.OpenBackend(dst)
			if err != nil {
				return fmt.Errorf("open target: %w", err)
			}
			defer to.Close()

			ns := s.store.GetNamespace()
			n, err := copyNamespace(to, from, ns)
			if err != nil {
				return systemError("copy", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Copied %d keys of namespace %s to %s\n", n, ns, dst.Backend)
			return nil
		},
	}
	cmd.Flags().StringVar(&toBackend, "to-backend", types.BackendJSONL, "target backend: sqlite or jsonl")
	cmd.Flags().StringVar(&toDataDir, "to-data-dir", "", "target data directory")
	_ = cmd.MarkFlagRequired("to-data-dir")
	return cmd
}

// copyNamespace copies the bodies under "<ns>:" and then the directory
// record, so a reader of the target never sees a directory naming bodies
// that are not there yet.
func copyNamespace(dst, src kv.Backend, ns string) (int, error) {
	n, err := kv.Copy(dst, src, types.StorageKey(ns, ""))
	if err != nil {
		return n, err
	}
	dir, ok, err := src.Get(ns)
	if err != nil || !ok {
		return n, err
	}
	if err := dst.Set(ns, dir); err != nil {
		return n, err
	}
	return n + 1, nil
}
