package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	gameplaytags "github.com/mkislenko/com.radiodecadance.gameplaytags"
	"github.com/mkislenko/com.radiodecadance.gameplaytags/source"
	"github.com/spf13/cobra"
)

func newWatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Rebuild the registry whenever the tag source changes",
		Long: `Load the tag universe and keep it current, logging every rebuild.
Works with file and etcd sources. Stops on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			reg, src, release, err := a.openRegistry(ctx)
			if err != nil {
				return err
			}
			defer release()

			reloader := source.ReloadFunc(func(ctx context.Context) (gameplaytags.Stats, error) {
				stats, err := reg.Reload(ctx)
				if err == nil {
					fmt.Fprintf(cmd.OutOrStdout(), "reloaded: %d explicit, %d implicit tags\n", stats.Explicit, stats.Implicit)
				}
				return stats, err
			})

			stats := reg.Stats()
			fmt.Fprintf(cmd.OutOrStdout(), "loaded: %d explicit, %d implicit tags\n", stats.Explicit, stats.Implicit)

			switch s := src.(type) {
			case *source.File:
				w, err := source.NewFileWatcher(s.Path(), reloader,
					source.WithDebounce(a.cfg.Watch.GetDebounce()),
					source.WithWatchLogger(a.logger))
				if err != nil {
					return err
				}
				defer gameplaytags.CloseWithLog(w, a.logger, "tag file watcher")
				return w.Run(ctx)

			case *source.Etcd:
				return s.Watch(ctx, reloader)

			default:
				return fmt.Errorf("source %q cannot be watched", a.cfg.Source.Type)
			}
		},
	}
}
