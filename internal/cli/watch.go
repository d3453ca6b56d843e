package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/itemlists/internal/kv"
	"github.com/mesh-intelligence/itemlists/internal/triangle"
)

func newWatchCmd(f *rootFlags) *cobra.Command {
	var useColor bool
	cmd := &cobra.Command{
		Use:   "watch <uuid|title>",
		Short: "Show an item list and redraw it when the store changes",
		Long: `Watch prints an item list like show, then prints it again whenever
another process writes to the store. It runs until interrupted. Only the
sqlite and jsonl backends can be watched.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := f.open()
			if err != nil {
				return err
			}
			settings, logger := e.settings, e.logger
			path := kv.StoreFile(settings.store.Backend, settings.store.DataDir)
			if path == "" {
				e.Close()
				return fmt.Errorf("the %s backend has no file to watch", settings.store.Backend)
			}

			out := cmd.OutOrStdout()
			var mu sync.Mutex
			draw := func(e *env) error {
				list, err := e.lookup(args[0])
				if err != nil {
					return err
				}
				mu.Lock()
				defer mu.Unlock()
				printTable(out, triangle.Annotate(list), useColor)
				fmt.Fprintln(out)
				return nil
			}

			err = draw(e)
			e.Close()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmdContext(cmd), os.Interrupt)
			defer stop()
			return kv.Watch(ctx, path, kv.DefaultDebounce, logger, func() {
				e, err := f.open()
				if err != nil {
					logger.Warn("reopen store", zap.Error(err))
					return
				}
				defer e.Close()
				if err := draw(e); err != nil {
					logger.Warn("redraw", zap.Error(err))
				}
			})
		},
	}
	cmd.Flags().BoolVar(&useColor, "color", false, "shade cells by probability")
	return cmd
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
