package progress

import (
	"bytes"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assetcarver/internal/signature"
	"assetcarver/internal/stats"
	"assetcarver/internal/workpool"
)

type recordingSink struct {
	mu       sync.Mutex
	total    int
	updates  []Update
	finished []Update
}

func (s *recordingSink) Start(total int) { s.total = total }
func (s *recordingSink) Update(u Update) {
	s.mu.Lock()
	s.updates = append(s.updates, u)
	s.mu.Unlock()
}
func (s *recordingSink) Finish(u Update) { s.finished = append(s.finished, u) }

func TestReporterFinishUsesExactTotals(t *testing.T) {
	counter := stats.NewCounter(time.Hour)
	sink := &recordingSink{}
	r := NewReporter(sink, counter)
	r.Start(3)

	counter.Record(stats.OutcomeProcessed, signature.KindPNG)
	r.Observe(workpool.Progress{Done: 1, Total: 3})
	counter.Record(stats.OutcomeDuplicate, signature.KindPNG)
	counter.Record(stats.OutcomeSkipped, signature.KindPNG)
	r.Observe(workpool.Progress{Done: 3, Total: 3})
	r.Finish()
	r.Finish()

	assert.Equal(t, 3, sink.total)
	require.Len(t, sink.updates, 2)
	// Snapshot is cached for the interval, so the live view lags.
	assert.Equal(t, 0, sink.updates[1].Totals.Duplicates)

	require.Len(t, sink.finished, 1)
	final := sink.finished[0]
	assert.Equal(t, 3, final.Done)
	assert.Equal(t, 1, final.Totals.Processed)
	assert.Equal(t, 1, final.Totals.Duplicates)
	assert.Equal(t, 1, final.Totals.Skipped)
}

func TestReporterIgnoresSamplesAfterFinish(t *testing.T) {
	sink := &recordingSink{}
	r := NewReporter(sink, nil)
	r.Start(1)
	r.Finish()
	r.Observe(workpool.Progress{Done: 1, Total: 1})
	assert.Empty(t, sink.updates)
}

func TestRender(t *testing.T) {
	line := Render(Update{
		Done: 25, Total: 100, Rate: 12.5, ETA: 6 * time.Second,
		Totals: stats.Totals{Processed: 20, Duplicates: 3, Skipped: 1, Errors: 1},
	})
	assert.Equal(t, "25/100 (25.0%) 12.5 files/s eta 6s | extracted 20, duplicates 3, skipped 1, errors 1", line)
	assert.Contains(t, Render(Update{}), "0/0 (100.0%)")
}

func TestLogSinkSamplesByDecile(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	sink := NewLogSink(logger)

	sink.Start(100)
	for done := 0; done <= 100; done++ {
		sink.Update(Update{Done: done, Total: 100})
	}
	sink.Finish(Update{Done: 100, Total: 100})

	out := buf.String()
	assert.Equal(t, 11, strings.Count(out, `"extraction progress"`))
	assert.Equal(t, 1, strings.Count(out, `"extraction finished"`))
}

func TestBarSinkWritesSummary(t *testing.T) {
	var buf bytes.Buffer
	sink := NewBarSink(&buf)
	sink.Start(2)
	sink.Update(Update{Done: 1, Total: 2})
	sink.Finish(Update{Done: 2, Total: 2, Totals: stats.Totals{Processed: 2}})
	assert.Contains(t, buf.String(), "2/2 (100.0%)")
	assert.Contains(t, buf.String(), "extracted 2")
}
