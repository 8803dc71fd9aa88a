package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"assetcarver/internal/config"
	"assetcarver/internal/extractor"
	"assetcarver/internal/logging"
	"assetcarver/internal/preflight"
	"assetcarver/internal/progress"
	"assetcarver/internal/runlog"
)

type extractOptions struct {
	types          []string
	classification string
	workers        int
	noHistory      bool
	jsonOutput     bool
}

func newExtractCommand(ctx *commandContext) *cobra.Command {
	var opts extractOptions

	cmd := &cobra.Command{
		Use:   "extract [cache-dir]",
		Short: "Carve assets out of the cache into categorized folders",
		Long: "Scan the cache directory, identify embedded OGG, PNG, WEBP, KTX and RBXM payloads,\n" +
			"and copy each new asset into <cache-dir>/extracted_assets/<category>/.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cfg, err := applyExtractOverrides(cmd, base, opts)
			if err != nil {
				return err
			}
			root := cfg.Paths.CacheDir
			if len(args) == 1 {
				if root, err = config.ExpandPath(args[0]); err != nil {
					return fmt.Errorf("resolve cache directory: %w", err)
				}
			}

			if failed := preflight.Failed(preflight.RunAll(cfg, root)); len(failed) > 0 {
				lines := make([]string, 0, len(failed))
				for _, r := range failed {
					lines = append(lines, fmt.Sprintf("%s: %s", r.Name, r.Detail))
				}
				return fmt.Errorf("preflight failed:\n  %s", strings.Join(lines, "\n  "))
			}

			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			engineOpts := []extractor.Option{
				extractor.WithLogger(logger),
				extractor.WithProgress(progressSink(cmd.ErrOrStderr(), logger, opts.jsonOutput)),
			}
			ledger, err := runlog.Open(cfg.Paths.LedgerPath)
			if err != nil {
				logging.WarnWithContext(logger, "run ledger unavailable", "runlog_open_failed",
					logging.Error(err),
					logging.String(logging.FieldPath, cfg.Paths.LedgerPath),
					logging.String(logging.FieldImpact, "this run will not appear in 'history runs'"))
			} else {
				defer ledger.Close()
				engineOpts = append(engineOpts, extractor.WithLedger(ledger))
			}

			engine, err := extractor.New(cfg, engineOpts...)
			if err != nil {
				return err
			}
			summary, runErr := engine.Run(cmd.Context(), root)
			if runErr != nil && !errors.Is(runErr, extractor.ErrCancelled) {
				return runErr
			}

			if opts.jsonOutput {
				if err := writeJSON(cmd, summaryToJSON(summary)); err != nil {
					return err
				}
			} else {
				renderSummary(cmd.OutOrStdout(), summary)
			}
			return runErr
		},
	}

	cmd.Flags().StringSliceVarP(&opts.types, "types", "t", nil, "Asset types to extract (ogg,png,webp,ktx,rbxm)")
	cmd.Flags().StringVar(&opts.classification, "classify", "", "Classification policy: type, format, size or duration")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 0, "Worker count (default from config)")
	cmd.Flags().BoolVar(&opts.noHistory, "no-history", false, "Ignore and do not update the extraction history")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Print the run summary as JSON")
	return cmd
}

// applyExtractOverrides returns a copy of base with flag overrides applied
// and re-validated.
func applyExtractOverrides(cmd *cobra.Command, base *config.Config, opts extractOptions) (*config.Config, error) {
	cfg := *base
	cfg.Extraction.Types = append([]string(nil), base.Extraction.Types...)
	cfg.Extraction.ExcludeDirs = append([]string(nil), base.Extraction.ExcludeDirs...)

	flags := cmd.Flags()
	if flags.Changed("types") {
		cfg.Extraction.Types = opts.types
	}
	if flags.Changed("classify") {
		cfg.Extraction.Classification = opts.classification
	}
	if flags.Changed("workers") {
		cfg.Workers.Count = opts.workers
	}
	if opts.noHistory {
		cfg.History.Enabled = false
	}
	if err := cfg.Finalize(); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}
	return &cfg, nil
}

func progressSink(w io.Writer, logger *slog.Logger, quiet bool) progress.Sink {
	if quiet {
		return progress.NewLogSink(logging.NewNop())
	}
	if shouldColorize(w) {
		return progress.NewBarSink(w)
	}
	return progress.NewLogSink(logger)
}
