package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"assetcarver/internal/config"
	"assetcarver/internal/deps"
	"assetcarver/internal/history"
	"assetcarver/internal/logging"
	"assetcarver/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show configuration, directory access and external tool availability",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			var lines []string
			lines = append(lines, renderSectionHeader("Configuration", colorize)...)
			lines = append(lines, configStatusLines(ctx, cfg, colorize)...)
			lines = append(lines, "")

			lines = append(lines, renderSectionHeader("Directories", colorize)...)
			root := cfg.Paths.CacheDir
			for _, r := range []preflight.Result{
				preflight.CheckReadableDirectory("Cache", root),
				preflight.CheckDirectoryAccess("Output parent", root),
			} {
				lines = append(lines, preflightLine(r, colorize))
			}
			lines = append(lines, historyStatusLine(cfg, colorize))
			lines = append(lines, "")

			lines = append(lines, renderSectionHeader("Dependencies", colorize)...)
			lines = append(lines, dependencyLines(deps.CheckBinaries(statusRequirements(cfg)), colorize)...)

			fmt.Fprintln(out, strings.Join(lines, "\n"))
			return nil
		},
	}
}

func configStatusLines(ctx *commandContext, cfg *config.Config, colorize bool) []string {
	source := ctx.configPath
	if !ctx.configSeen {
		source = "defaults (no config file)"
	}
	return []string{
		renderStatusLine("Config", statusInfo, source, colorize),
		renderStatusLine("Types", statusInfo, strings.Join(cfg.Extraction.Types, ", "), colorize),
		renderStatusLine("Classification", statusInfo, cfg.Extraction.Classification, colorize),
		renderStatusLine("Workers", statusInfo, fmt.Sprintf("%d", cfg.Workers.Count), colorize),
		renderStatusLine("Output", statusInfo, cfg.OutputDir(cfg.Paths.CacheDir), colorize),
	}
}

func preflightLine(r preflight.Result, colorize bool) string {
	if r.Passed {
		return renderStatusLine(r.Name, statusOK, r.Detail, colorize)
	}
	return renderStatusLine(r.Name, statusError, r.Detail, colorize)
}

func historyStatusLine(cfg *config.Config, colorize bool) string {
	if !cfg.History.Enabled {
		return renderStatusLine("History", statusWarn, "Disabled", colorize)
	}
	store := history.Open(cfg.Paths.HistoryPath, nil)
	detail := fmt.Sprintf("%s (%d entries, %s)", store.Path(), store.Len(), logging.FormatBytes(store.FileSize()))
	return renderStatusLine("History", statusOK, detail, colorize)
}

// statusRequirements lists ffprobe, required only for duration
// classification, and ffmpeg, used by the downstream OGG transcoder.
func statusRequirements(cfg *config.Config) []deps.Requirement {
	return []deps.Requirement{
		deps.FFprobeRequirement(cfg.FFprobeBinary(), cfg.Extraction.Classification == "duration"),
		{
			Name:        "FFmpeg",
			Command:     "ffmpeg",
			Description: "Converts extracted OGG audio for downstream players",
			Optional:    true,
		},
	}
}
