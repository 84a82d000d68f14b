package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"camsync/internal/catalog"
	"camsync/internal/syncer"
	"camsync/internal/watcher"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Sync automatically whenever a camera is plugged in",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			gateway, err := ctx.newGateway()
			if err != nil {
				return err
			}
			extractor, err := ctx.newExtractor()
			if err != nil {
				return err
			}

			store, err := catalog.Open(cfg)
			if err != nil {
				return fmt.Errorf("open catalog: %w", err)
			}
			defer store.Close()

			window := days
			if window <= 0 {
				window = cfg.Sync.Days
			}

			pipeline := syncer.New(cfg, gateway, store, extractor.Extract, logger)
			handler := func(handlerCtx context.Context) error {
				candidates, err := pipeline.Run(handlerCtx, window, cfg.Paths.StagingDir)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Synced %d file(s), %d preselected\n",
					len(candidates), len(candidates.Preselected()))
				return nil
			}

			w, err := watcher.New(cfg, handler, logger)
			if err != nil {
				return fmt.Errorf("create watcher: %w", err)
			}

			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			if err := w.Start(signalCtx); err != nil {
				return fmt.Errorf("start watcher: %w", err)
			}
			defer w.Stop()

			fmt.Fprintln(cmd.OutOrStdout(), "Watching for camera attach events (Ctrl-C to stop)")
			<-signalCtx.Done()
			return nil
		},
	}

	cmd.Flags().IntVarP(&days, "days", "d", 0, "Recency window in days (defaults to the configured window)")
	return cmd
}
