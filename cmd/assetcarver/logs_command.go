package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"assetcarver/internal/config"
	"assetcarver/internal/extractor"
	"assetcarver/internal/logging"
	"assetcarver/internal/logs"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var lines int
	var follow bool
	var errorsOnly bool

	cmd := &cobra.Command{
		Use:   "logs [cache-dir]",
		Short: "Show recent application log lines",
		Long: "Print the tail of the assetcarver log. With --errors, print the per-file\n" +
			"failure log kept in the output directory of the given (or configured) cache.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path := filepath.Join(cfg.Paths.LogDir, logging.LogFileName)
			if errorsOnly {
				root := cfg.Paths.CacheDir
				if len(args) == 1 {
					if root, err = config.ExpandPath(args[0]); err != nil {
						return fmt.Errorf("resolve cache directory: %w", err)
					}
				}
				path = extractor.ErrorLogPath(cfg.OutputDir(root))
			}

			out := cmd.OutOrStdout()
			result, err := logs.Tail(path, lines)
			if err != nil {
				return err
			}
			if len(result.Lines) == 0 && !follow {
				fmt.Fprintf(out, "No log entries in %s\n", path)
				return nil
			}
			for _, line := range result.Lines {
				fmt.Fprintln(out, line)
			}
			if !follow {
				return nil
			}
			return logs.Follow(cmd.Context(), path, result.Offset, logs.DefaultPollInterval, func(line string) {
				fmt.Fprintln(out, line)
			})
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of trailing lines to show")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep printing new lines until interrupted")
	cmd.Flags().BoolVar(&errorsOnly, "errors", false, "Show the extraction error log instead of the application log")
	return cmd
}
