package main

import (
	"fmt"
	"io"
	"strconv"

	"assetcarver/internal/extractor"
	"assetcarver/internal/logging"
	"assetcarver/internal/signature"
)

type summaryJSON struct {
	RunID            string         `json:"run_id"`
	State            string         `json:"state"`
	Root             string         `json:"root"`
	OutputDir        string         `json:"output_dir"`
	Classification   string         `json:"classification"`
	Types            []string       `json:"types"`
	Candidates       int            `json:"candidates"`
	Processed        int            `json:"processed"`
	Duplicates       int            `json:"duplicates"`
	AlreadyProcessed int            `json:"already_processed"`
	Skipped          int            `json:"skipped"`
	Errors           int            `json:"errors"`
	ByKind           map[string]int `json:"by_kind"`
	ByType           map[string]int `json:"by_type"`
	DurationSeconds  float64        `json:"duration"`
	FilesPerSecond   float64        `json:"files_per_second"`
}

func summaryToJSON(s extractor.Summary) summaryJSON {
	row := s.Ledger()
	byType := make(map[string]int, len(s.ByGroup))
	for g, n := range s.ByGroup {
		byType[string(g)] = n
	}
	return summaryJSON{
		RunID:            s.RunID,
		State:            string(s.State),
		Root:             s.Root,
		OutputDir:        s.OutputDir,
		Classification:   s.Policy.String(),
		Types:            row.Types,
		Candidates:       s.Candidates,
		Processed:        s.Processed,
		Duplicates:       s.Duplicates,
		AlreadyProcessed: s.AlreadyProcessed,
		Skipped:          s.Skipped,
		Errors:           s.Errors,
		ByKind:           row.ByKind,
		ByType:           byType,
		DurationSeconds:  s.Duration.Seconds(),
		FilesPerSecond:   s.FilesPerSecond,
	}
}

func renderSummary(out io.Writer, s extractor.Summary) {
	switch s.State {
	case extractor.StateNoFiles:
		fmt.Fprintf(out, "No candidate files found in %s\n", s.Root)
		return
	case extractor.StateNoAssets:
		fmt.Fprintln(out, "No new assets extracted")
	case extractor.StateCancelled:
		fmt.Fprintln(out, "Extraction cancelled; partial results:")
	default:
		fmt.Fprintln(out, "Extraction complete")
	}

	outcomes := [][]string{
		{"Extracted", strconv.Itoa(s.Processed)},
		{"Duplicates", strconv.Itoa(s.Duplicates)},
		{"Already processed", strconv.Itoa(s.AlreadyProcessed)},
		{"Skipped", strconv.Itoa(s.Skipped)},
		{"Errors", strconv.Itoa(s.Errors)},
		{"Candidates", strconv.Itoa(s.Candidates)},
	}
	fmt.Fprintln(out, renderTable([]string{"Outcome", "Files"}, outcomes, []columnAlignment{alignLeft, alignRight}))

	if s.Processed > 0 {
		groups := []signature.Group{signature.GroupAudio, signature.GroupImages, signature.GroupTextures, signature.GroupModels}
		rows := make([][]string, 0, len(groups))
		for _, g := range groups {
			rows = append(rows, []string{string(g), strconv.Itoa(s.ByGroup[g])})
		}
		fmt.Fprintln(out, renderTable([]string{"Type", "Extracted"}, rows, []columnAlignment{alignLeft, alignRight}))
	}

	fmt.Fprintf(out, "Output:   %s\n", s.OutputDir)
	fmt.Fprintf(out, "Duration: %s (%.1f files/s)\n", logging.FormatDuration(s.Duration), s.FilesPerSecond)
	if s.Errors > 0 {
		fmt.Fprintf(out, "Errors logged to %s\n", extractor.ErrorLogPath(s.OutputDir))
	}
}
