package extractor

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"assetcarver/internal/classify"
	"assetcarver/internal/logging"
	"assetcarver/internal/progress"
	"assetcarver/internal/runlog"
	"assetcarver/internal/scanner"
	"assetcarver/internal/signature"
	"assetcarver/internal/workpool"
)

const runLockName = ".assetcarver.lock"

// State classifies how a run ended.
type State string

const (
	StateNoFiles   State = "no_files"
	StateNoAssets  State = "no_assets"
	StateCompleted State = "completed"
	StateCancelled State = "cancelled"
)

// Summary is the result of one run.
type Summary struct {
	RunID            string
	State            State
	Root             string
	OutputDir        string
	Policy           classify.Policy
	Types            []signature.Kind
	Candidates       int
	Processed        int
	Duplicates       int
	AlreadyProcessed int
	Skipped          int
	Errors           int
	ByKind           map[signature.Kind]int
	ByGroup          map[signature.Group]int
	StartedAt        time.Time
	ScanDuration     time.Duration
	Duration         time.Duration
	FilesPerSecond   float64
}

// Ledger converts the summary to a run ledger row.
func (s Summary) Ledger() runlog.Run {
	byKind := make(map[string]int, len(s.ByKind))
	for k, n := range s.ByKind {
		byKind[k.String()] = n
	}
	types := make([]string, len(s.Types))
	for i, k := range s.Types {
		types[i] = k.String()
	}
	return runlog.Run{
		ID:               s.RunID,
		StartedAt:        s.StartedAt,
		Duration:         s.Duration,
		Root:             s.Root,
		OutputDir:        s.OutputDir,
		Policy:           s.Policy.String(),
		Types:            types,
		State:            string(s.State),
		Candidates:       s.Candidates,
		Processed:        s.Processed,
		Duplicates:       s.Duplicates,
		AlreadyProcessed: s.AlreadyProcessed,
		Skipped:          s.Skipped,
		Errors:           s.Errors,
		ByKind:           byKind,
	}
}

// ScanCandidates lists the files under root that a run would process.
func (e *Engine) ScanCandidates(ctx context.Context, root string) ([]string, error) {
	return scanner.Scan(ctx, root, scanner.Options{
		ExcludeDirs: e.cfg.Extraction.ExcludeDirs,
		MinSize:     e.cfg.Extraction.MinFileSize,
		Logger:      e.logger,
	})
}

// Run extracts every candidate under root, or the configured cache
// directory when root is empty. A cancelled run still returns its partial
// summary together with an error wrapping ErrCancelled.
func (e *Engine) Run(ctx context.Context, root string) (Summary, error) {
	if !e.running.CompareAndSwap(false, true) {
		return Summary{}, errors.New("extractor: run already in progress")
	}
	defer e.running.Store(false)

	if strings.TrimSpace(root) == "" {
		root = e.cfg.Paths.CacheDir
	}
	runID := uuid.NewString()
	ctx = logging.WithRunID(ctx, runID)
	logger := logging.WithContext(ctx, e.logger)
	outputDir := e.cfg.OutputDir(root)
	e.setOutputDir(outputDir)

	summary := Summary{
		RunID:     runID,
		Root:      root,
		OutputDir: outputDir,
		Policy:    e.classifier.Policy(),
		Types:     e.Kinds(),
		StartedAt: e.now(),
		ByKind:    map[signature.Kind]int{},
		ByGroup:   map[signature.Group]int{},
	}

	files, err := e.ScanCandidates(ctx, root)
	summary.ScanDuration = e.now().Sub(summary.StartedAt)
	if err != nil {
		if ctx.Err() != nil {
			summary.State = StateCancelled
			return summary, fmt.Errorf("%w: %w", ErrCancelled, ctx.Err())
		}
		return summary, fmt.Errorf("scan cache: %w", err)
	}
	summary.Candidates = len(files)
	logger.Info("scan complete",
		logging.String("root", root),
		logging.Int("candidates", len(files)),
		logging.Duration("scan_duration", summary.ScanDuration))

	if len(files) == 0 {
		summary.State = StateNoFiles
		e.recordRun(ctx, summary)
		return summary, nil
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return summary, fmt.Errorf("create output directory: %w", err)
	}
	unlock, err := acquireRunLock(outputDir)
	if err != nil {
		return summary, err
	}
	defer unlock()

	if err := e.ensureCategoryDirs(); err != nil {
		return summary, err
	}
	if err := e.writeReadme(outputDir); err != nil {
		logging.WarnWithContext(logger, "readme not written", "readme_write_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "output directory has no layout description"))
	}

	e.counter.Reset()
	e.seen.Reset()
	reporter := progress.NewReporter(e.sink, e.counter)
	reporter.Start(len(files))

	pool := workpool.New(e.cfg.Workers.Count,
		workpool.WithDequeueTimeout(e.cfg.DequeueTimeout()),
		workpool.WithMonitor(e.cfg.ProgressInterval(), reporter.Observe),
		workpool.WithLogger(e.logger),
	)
	processingStart := e.now()
	runErr := pool.Run(ctx, files, func(ctx context.Context, path string) {
		e.ProcessFile(ctx, path)
	})
	reporter.Finish()

	if err := e.history.Flush(); err != nil {
		logging.WarnWithContext(logger, "history flush skipped", "history_flush_failed",
			logging.Error(err),
			logging.String(logging.FieldPath, e.history.Path()),
			logging.String(logging.FieldErrorHint, "check permissions or close other assetcarver instances"),
			logging.String(logging.FieldImpact, "files from this run will be read again next time"))
	}

	e.fillTotals(&summary, e.now().Sub(processingStart))
	switch {
	case runErr != nil:
		summary.State = StateCancelled
	case summary.Processed == 0:
		summary.State = StateNoAssets
	default:
		summary.State = StateCompleted
	}

	e.recordRun(ctx, summary)
	logger.Info("extraction finished",
		logging.String("state", string(summary.State)),
		logging.Int("processed", summary.Processed),
		logging.Int("duplicates", summary.Duplicates),
		logging.Int("already_processed", summary.AlreadyProcessed),
		logging.Int("skipped", summary.Skipped),
		logging.Int("errors", summary.Errors),
		logging.Duration("duration", summary.Duration))

	if runErr != nil {
		return summary, fmt.Errorf("%w: %w", ErrCancelled, runErr)
	}
	return summary, nil
}

func (e *Engine) fillTotals(summary *Summary, elapsed time.Duration) {
	totals := e.counter.Totals()
	summary.Processed = totals.Processed
	summary.Duplicates = totals.Duplicates
	summary.AlreadyProcessed = totals.AlreadyProcessed
	summary.Skipped = totals.Skipped
	summary.Errors = totals.Errors
	summary.ByKind = maps.Clone(totals.ByKind)
	summary.ByGroup = totals.ByGroup()
	summary.Duration = elapsed
	if secs := elapsed.Seconds(); secs > 0 {
		summary.FilesPerSecond = float64(summary.Processed) / secs
	}
}

func (e *Engine) recordRun(ctx context.Context, summary Summary) {
	if e.ledger == nil {
		return
	}
	if err := e.ledger.Record(context.WithoutCancel(ctx), summary.Ledger()); err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, e.logger), "run ledger not updated", "runlog_record_failed",
			logging.Error(err),
			logging.String(logging.FieldPath, e.ledger.Path()),
			logging.String(logging.FieldImpact, "'history runs' will not list this run"))
	}
}

func acquireRunLock(outputDir string) (func(), error) {
	lock := flock.New(filepath.Join(outputDir, runLockName))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !ok {
		return nil, ErrRunInProgress
	}
	return func() { _ = lock.Unlock() }, nil
}
