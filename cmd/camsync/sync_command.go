package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"camsync/internal/camera"
	"camsync/internal/catalog"
	"camsync/internal/syncer"
)

func newSyncCommand(ctx *commandContext) *cobra.Command {
	var days int
	var acceptPreselection bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Pull recent captures from the connected camera into the staging directory",
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
			candidates, err := pipeline.Run(cmd.Context(), window, cfg.Paths.StagingDir)
			if err != nil {
				var stale *camera.StaleHandleError
				switch {
				case errors.Is(err, syncer.ErrNoDevices):
					return errors.New("no cameras detected; connect a camera and retry")
				case errors.As(err, &stale):
					return fmt.Errorf("camera disappeared mid-sync (%s); reconnect and retry", stale.Error())
				default:
					return err
				}
			}

			out := cmd.OutOrStdout()
			if len(candidates) == 0 {
				fmt.Fprintf(out, "No captures newer than %d day(s) on the camera\n", window)
				return nil
			}

			selector := newTerminalSelector(out, cmd.InOrStdin(), acceptPreselection)
			selected, err := selector.Select(cmd.Context(), candidates)
			if err != nil {
				return fmt.Errorf("select captures: %w", err)
			}

			fmt.Fprintf(out, "Synced %d file(s) to %s, %d selected\n",
				len(candidates), cfg.Paths.StagingDir, len(selected))
			for _, path := range selected {
				fmt.Fprintln(out, path)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&days, "days", "d", 0, "Recency window in days (defaults to the configured window)")
	cmd.Flags().BoolVarP(&acceptPreselection, "yes", "y", false, "Accept the rating-based preselection without prompting")
	return cmd
}
