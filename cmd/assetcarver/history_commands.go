package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"assetcarver/internal/history"
	"assetcarver/internal/logging"
	"assetcarver/internal/runlog"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect or reset the extraction history",
	}
	historyCmd.AddCommand(newHistoryShowCommand(ctx))
	historyCmd.AddCommand(newHistoryClearCommand(ctx))
	historyCmd.AddCommand(newHistoryRunsCommand(ctx))
	return historyCmd
}

type historyInfo struct {
	Path      string `json:"path"`
	Enabled   bool   `json:"enabled"`
	Entries   int    `json:"entries"`
	SizeBytes int64  `json:"size_bytes"`
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the history file location and size",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store := history.Open(cfg.Paths.HistoryPath, nil)
			info := historyInfo{
				Path:      store.Path(),
				Enabled:   cfg.History.Enabled,
				Entries:   store.Len(),
				SizeBytes: store.FileSize(),
			}
			if jsonOutput {
				return writeJSON(cmd, info)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "History file: %s\n", info.Path)
			fmt.Fprintf(out, "Enabled:      %s\n", yesNo(info.Enabled))
			fmt.Fprintf(out, "Entries:      %d\n", info.Entries)
			fmt.Fprintf(out, "Size:         %s\n", logging.FormatBytes(info.SizeBytes))
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newHistoryClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Forget every previously extracted file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			store := history.Open(cfg.Paths.HistoryPath, logger)
			before := store.Len()
			if err := store.Clear(); err != nil {
				if errors.Is(err, history.ErrLocked) {
					return fmt.Errorf("clear history: an extraction is running: %w", err)
				}
				return fmt.Errorf("clear history: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d history entries from %s\n", before, store.Path())
			return nil
		},
	}
}

type runJSON struct {
	ID               string         `json:"id"`
	StartedAt        time.Time      `json:"started_at"`
	DurationSeconds  float64        `json:"duration"`
	Root             string         `json:"root"`
	Classification   string         `json:"classification"`
	Types            []string       `json:"types"`
	State            string         `json:"state"`
	Candidates       int            `json:"candidates"`
	Processed        int            `json:"processed"`
	Duplicates       int            `json:"duplicates"`
	AlreadyProcessed int            `json:"already_processed"`
	Skipped          int            `json:"skipped"`
	Errors           int            `json:"errors"`
	ByKind           map[string]int `json:"by_kind"`
}

func newHistoryRunsCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recent extraction runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			ledger, err := runlog.Open(cfg.Paths.LedgerPath)
			if err != nil {
				return fmt.Errorf("open run ledger: %w", err)
			}
			defer ledger.Close()

			runs, err := ledger.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if jsonOutput {
				items := make([]runJSON, 0, len(runs))
				for _, r := range runs {
					items = append(items, runJSON{
						ID:               r.ID,
						StartedAt:        r.StartedAt,
						DurationSeconds:  r.Duration.Seconds(),
						Root:             r.Root,
						Classification:   r.Policy,
						Types:            r.Types,
						State:            r.State,
						Candidates:       r.Candidates,
						Processed:        r.Processed,
						Duplicates:       r.Duplicates,
						AlreadyProcessed: r.AlreadyProcessed,
						Skipped:          r.Skipped,
						Errors:           r.Errors,
						ByKind:           r.ByKind,
					})
				}
				return writeJSON(cmd, items)
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Run", "Started", "State", "Extracted", "Duplicates", "Errors", "Duration"},
				runRows(runs),
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight},
			))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of runs to show (0 for all)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func runRows(runs []runlog.Run) [][]string {
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		id := r.ID
		if len(id) > 8 {
			id = id[:8]
		}
		rows = append(rows, []string{
			id,
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			r.State,
			strconv.Itoa(r.Processed),
			strconv.Itoa(r.Duplicates),
			strconv.Itoa(r.Errors),
			logging.FormatDuration(r.Duration),
		})
	}
	return rows
}
