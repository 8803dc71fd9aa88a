package preflight

import (
	"path/filepath"

	"assetcarver/internal/config"
	"assetcarver/internal/deps"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the checks an extraction run needs against root.
func RunAll(cfg *config.Config, root string) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckReadableDirectory("Cache directory", root),
		CheckDirectoryAccess("Output parent", root),
	}
	if cfg.History.Enabled {
		results = append(results, CheckDirectoryAccess("History directory", filepath.Dir(cfg.Paths.HistoryPath)))
	}
	if cfg.Extraction.Classification == "duration" {
		status := deps.CheckBinaries([]deps.Requirement{deps.FFprobeRequirement(cfg.FFprobeBinary(), false)})[0]
		results = append(results, FromStatus(status))
	}
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.Passed {
			out = append(out, r)
		}
	}
	return out
}

// FromStatus converts a dependency status into a preflight result. Optional
// dependencies pass with a note so runs can continue degraded.
func FromStatus(status deps.Status) Result {
	if status.Available {
		return Result{Name: status.Name, Passed: true, Detail: status.Command}
	}
	if status.Optional {
		return Result{Name: status.Name, Passed: true, Detail: status.Detail + " (optional)"}
	}
	return Result{Name: status.Name, Detail: status.Detail}
}
