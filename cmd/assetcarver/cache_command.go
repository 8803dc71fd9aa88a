package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"assetcarver/internal/config"
	"assetcarver/internal/scanner"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the Roblox cache directory",
	}
	cacheCmd.AddCommand(newCacheClearCommand(ctx))
	return cacheCmd
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	var yes bool
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "clear [cache-dir]",
		Short: "Delete cached files that look like assets",
		Long: "Delete cache files whose first 8 KiB contain an asset signature or keyword.\n" +
			"Extracted output and configured exclude directories are never touched.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes && !dryRun {
				return errors.New("refusing to delete cache files without --yes (use --dry-run to preview)")
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			root := cfg.Paths.CacheDir
			if len(args) == 1 {
				if root, err = config.ExpandPath(args[0]); err != nil {
					return fmt.Errorf("resolve cache directory: %w", err)
				}
			}

			result, err := scanner.Purge(cmd.Context(), root, scanner.PurgeOptions{
				ExcludeDirs: cfg.Extraction.ExcludeDirs,
				DryRun:      dryRun,
				Logger:      logger,
			})
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}

			out := cmd.OutOrStdout()
			if dryRun {
				for _, path := range result.Matched {
					fmt.Fprintln(out, path)
				}
				fmt.Fprintf(out, "Would remove %d of %d files\n", len(result.Matched), result.Scanned)
				return nil
			}
			fmt.Fprintf(out, "Removed %d of %d files\n", result.Removed, result.Scanned)
			if result.Failed > 0 {
				fmt.Fprintf(out, "%d files could not be read or removed\n", result.Failed)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm deletion")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "List matching files without deleting them")
	return cmd
}
