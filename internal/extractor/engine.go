package extractor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"assetcarver/internal/classify"
	"assetcarver/internal/config"
	"assetcarver/internal/dedup"
	"assetcarver/internal/fingerprint"
	"assetcarver/internal/history"
	"assetcarver/internal/logging"
	"assetcarver/internal/media/ffprobe"
	"assetcarver/internal/progress"
	"assetcarver/internal/runlog"
	"assetcarver/internal/signature"
	"assetcarver/internal/stats"
)

// Outcome re-exports the per-file outcome.
type Outcome = stats.Outcome

const (
	OutcomeSkipped          = stats.OutcomeSkipped
	OutcomeProcessed        = stats.OutcomeProcessed
	OutcomeDuplicate        = stats.OutcomeDuplicate
	OutcomeAlreadyProcessed = stats.OutcomeAlreadyProcessed
	OutcomeError            = stats.OutcomeError
)

var (
	// ErrCancelled reports a run or file abandoned because ctx was cancelled.
	ErrCancelled = errors.New("extraction cancelled")
	// ErrRunInProgress reports that the output directory is locked by another run.
	ErrRunInProgress = errors.New("another extraction is using this output directory")
)

// Result describes what happened to one file.
type Result struct {
	Path     string
	Outcome  Outcome
	Kind     signature.Kind
	Category string
	Output   string
	Size     int
	Err      error
	// Cancelled is set when the file was never read because the run stopped.
	Cancelled bool
}

// ReadFunc loads a whole cache file.
type ReadFunc func(path string) ([]byte, error)

// Engine extracts assets under one configuration.
type Engine struct {
	cfg        *config.Config
	kinds      []signature.Kind
	classifier *classify.Classifier
	history    *history.Store
	seen       *dedup.Cache
	counter    *stats.Counter
	logger     *slog.Logger
	read       ReadFunc
	prober     classify.DurationProber
	now        func() time.Time
	ledger     *runlog.Store
	sink       progress.Sink
	zstd       *decoderPool

	running atomic.Bool

	mu        sync.Mutex
	outputDir string
	errLog    *errorLog
	dirs      map[string]struct{}
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithReader replaces os.ReadFile.
func WithReader(read ReadFunc) Option {
	return func(e *Engine) { e.read = read }
}

// WithProber replaces the ffprobe duration probe.
func WithProber(prober classify.DurationProber) Option {
	return func(e *Engine) { e.prober = prober }
}

// WithClock replaces time.Now for output names and summaries.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithHistory shares an already opened history store.
func WithHistory(store *history.Store) Option {
	return func(e *Engine) { e.history = store }
}

// WithLedger records each finished run.
func WithLedger(store *runlog.Store) Option {
	return func(e *Engine) { e.ledger = store }
}

// WithProgress sends run progress to sink.
func WithProgress(sink progress.Sink) Option {
	return func(e *Engine) { e.sink = sink }
}

// New builds an engine from a finalized config.
func New(cfg *config.Config, opts ...Option) (*Engine, error) {
	if cfg == nil {
		return nil, errors.New("extractor: nil config")
	}
	kinds, err := signature.ParseKinds(cfg.Extraction.Types)
	if err != nil {
		return nil, fmt.Errorf("extractor: %w", err)
	}
	if len(kinds) == 0 {
		return nil, errors.New("extractor: no asset types selected")
	}
	policy, err := classify.ParsePolicy(cfg.Extraction.Classification)
	if err != nil {
		return nil, fmt.Errorf("extractor: %w", err)
	}

	e := &Engine{
		cfg:     cfg,
		kinds:   kinds,
		seen:    dedup.New(),
		counter: stats.NewCounter(cfg.StatsInterval()),
		read:    os.ReadFile,
		now:     time.Now,
		zstd:    newDecoderPool(cfg.MaxDecompressedBytes()),
		dirs:    make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = logging.NewComponentLogger(e.logger, "extractor")
	if e.history == nil {
		path := ""
		if cfg.History.Enabled {
			path = cfg.Paths.HistoryPath
		}
		e.history = history.Open(path, e.logger)
	}
	if e.prober == nil && policy == classify.ByDuration {
		e.prober = ffprobe.NewProber(cfg.FFprobeBinary(), cfg.ProbeTimeout())
	}
	e.classifier = classify.New(policy, e.prober, e.logger)
	e.setOutputDir(cfg.OutputDir(cfg.Paths.CacheDir))
	return e, nil
}

// Kinds returns the active asset kinds in detection order.
func (e *Engine) Kinds() []signature.Kind {
	return append([]signature.Kind(nil), e.kinds...)
}

// Policy returns the active classification policy.
func (e *Engine) Policy() classify.Policy {
	return e.classifier.Policy()
}

// History exposes the engine's history store.
func (e *Engine) History() *history.Store {
	return e.history
}

// Counter exposes the run statistics.
func (e *Engine) Counter() *stats.Counter {
	return e.counter
}

// OutputDir returns the current output root.
func (e *Engine) OutputDir() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.outputDir
}

func (e *Engine) setOutputDir(dir string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if dir == e.outputDir {
		return
	}
	e.outputDir = dir
	e.errLog = newErrorLog(ErrorLogPath(dir), e.now)
	clear(e.dirs)
}

// ProcessFile runs one file through the pipeline and counts its outcome.
func (e *Engine) ProcessFile(ctx context.Context, path string) Result {
	res := e.process(ctx, path)
	if res.Cancelled {
		return res
	}
	e.counter.Record(res.Outcome, res.Kind)
	if res.Outcome == OutcomeError {
		e.reportError(ctx, res)
	}
	return res
}

func (e *Engine) process(ctx context.Context, path string) Result {
	res := Result{Path: path}

	info, err := os.Stat(path)
	if err != nil {
		return failed(res, fmt.Errorf("stat: %w", err))
	}
	source := fingerprint.SourceIdentity(path, info)
	if e.history.Contains(source) {
		res.Outcome = OutcomeAlreadyProcessed
		return res
	}

	if ctx.Err() != nil {
		res.Cancelled = true
		res.Err = ErrCancelled
		return res
	}
	data, err := e.read(path)
	if err != nil {
		return failed(res, fmt.Errorf("read: %w", err))
	}
	if e.cfg.Extraction.Decompress {
		data = e.decompress(data)
	}

	match, err := signature.Identify(data, e.kinds, e.cfg.Extraction.MinPayloadSize)
	if err != nil {
		res.Outcome = OutcomeSkipped
		return res
	}
	res.Kind = match.Kind
	res.Size = len(match.Payload)

	content := fingerprint.Content(match.Payload)
	if e.seen.SeenOrAdd(content) {
		if e.cfg.Extraction.RecordDuplicates {
			e.history.Add(source)
		}
		res.Outcome = OutcomeDuplicate
		return res
	}

	// In-flight files finish even after cancellation.
	placed, err := e.place(context.WithoutCancel(ctx), path, match)
	if err != nil {
		e.seen.Forget(content)
		return failed(res, err)
	}
	res.Category = placed.category
	res.Output = placed.output

	e.history.Add(source)
	res.Outcome = OutcomeProcessed
	return res
}

func failed(res Result, err error) Result {
	res.Outcome = OutcomeError
	res.Err = err
	return res
}

func (e *Engine) reportError(ctx context.Context, res Result) {
	logger := logging.WithContext(ctx, e.logger)
	logger.Debug("file failed",
		logging.String(logging.FieldPath, res.Path),
		logging.String("outcome", res.Outcome.String()),
		logging.Error(res.Err))

	e.mu.Lock()
	errLog := e.errLog
	e.mu.Unlock()
	if err := errLog.Append(res.Path, res.Err.Error()); err != nil {
		logger.Debug("error log append failed", logging.Error(err))
	}
}
