package main

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"camsync/internal/catalog"
)

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Catalog maintenance",
	}

	catalogCmd.AddCommand(newCatalogListCommand(ctx))
	catalogCmd.AddCommand(newCatalogRebuildCommand(ctx))
	catalogCmd.AddCommand(newCatalogClearCommand(ctx))

	return catalogCmd
}

func newCatalogListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cataloged captures",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := catalog.Open(cfg)
			if err != nil {
				return fmt.Errorf("open catalog: %w", err)
			}
			defer store.Close()

			records, err := store.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("list catalog: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, "Catalog is empty")
				return nil
			}

			rows := make([][]string, 0, len(records))
			for _, record := range records {
				rows = append(rows, []string{
					record.FileName,
					strconv.Itoa(record.Rating),
					record.CaptureTime,
					record.LensID,
					formatAperture(record.Aperture),
				})
			}
			fmt.Fprintln(out, renderTable([]string{"File", "Rating", "Captured", "Lens", "Aperture"}, rows, 2))
			fmt.Fprintf(out, "%d record(s) in %s\n", len(records), store.Path())
			return nil
		},
	}
}

func newCatalogRebuildCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rebuild",
		Short: "Rebuild the catalog from files in the staging directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			extractor, err := ctx.newExtractor()
			if err != nil {
				return err
			}

			paths, err := stagedFiles(cfg.Paths.StagingDir)
			if err != nil {
				return fmt.Errorf("scan staging directory: %w", err)
			}

			store, err := catalog.Open(cfg)
			if err != nil {
				return fmt.Errorf("open catalog: %w", err)
			}
			defer store.Close()

			if err := store.Rebuild(cmd.Context(), paths, cfg.Extractor.Workers, extractor.Extract, logger); err != nil {
				return fmt.Errorf("rebuild catalog: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Rebuilt catalog from %d staged file(s)\n", len(paths))
			return nil
		},
	}
}

func newCatalogClearCommand(ctx *commandContext) *cobra.Command {
	var confirmed bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every record from the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirmed {
				return fmt.Errorf("refusing to clear the catalog without --yes")
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := catalog.Open(cfg)
			if err != nil {
				return fmt.Errorf("open catalog: %w", err)
			}
			defer store.Close()

			if err := store.Clear(cmd.Context()); err != nil {
				return fmt.Errorf("clear catalog: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Catalog cleared")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&confirmed, "yes", "y", false, "Confirm clearing the catalog")
	return cmd
}

// stagedFiles returns every regular file under root in lexical walk order.
func stagedFiles(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

func formatAperture(value float64) string {
	if value == 0 {
		return ""
	}
	return "f/" + strconv.FormatFloat(value, 'f', -1, 64)
}
