package progress

import (
	"log/slog"

	"assetcarver/internal/logging"
)

// LogSink writes progress as structured log lines, one per 10% step.
type LogSink struct {
	logger  *slog.Logger
	sampler *logging.ProgressSampler
}

// NewLogSink returns a sink logging through logger.
func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{
		logger:  logging.NewComponentLogger(logger, "progress"),
		sampler: logging.NewProgressSampler(10),
	}
}

func (s *LogSink) Start(total int) {
	s.sampler.Reset()
	s.logger.Info("extraction started", logging.Int("candidates", total))
}

func (s *LogSink) Update(u Update) {
	if !s.sampler.ShouldLog(u.Percent(), "extract") {
		return
	}
	s.logger.Info("extraction progress", logging.Args(attrs(u)...)...)
}

func (s *LogSink) Finish(u Update) {
	s.logger.Info("extraction finished", logging.Args(attrs(u)...)...)
}

func attrs(u Update) []logging.Attr {
	out := []logging.Attr{
		logging.Int("done", u.Done),
		logging.Int("total", u.Total),
		logging.Float64("progress_percent", u.Percent()),
		logging.Int("processed", u.Totals.Processed),
		logging.Int("duplicates", u.Totals.Duplicates),
		logging.Int("errors", u.Totals.Errors),
	}
	if u.Rate > 0 {
		out = append(out, logging.Float64("files_per_second", u.Rate))
	}
	if u.ETA > 0 {
		out = append(out, logging.Duration("progress_eta", u.ETA))
	}
	return out
}
