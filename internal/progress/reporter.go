package progress

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"assetcarver/internal/stats"
	"assetcarver/internal/workpool"
)

// Update is one rendered progress step.
type Update struct {
	Done    int
	Total   int
	Elapsed time.Duration
	Rate    float64
	ETA     time.Duration
	Totals  stats.Totals
}

// Percent returns completion in [0, 100].
func (u Update) Percent() float64 {
	if u.Total <= 0 {
		return 100
	}
	return float64(u.Done) * 100 / float64(u.Total)
}

// Sink receives progress updates.
type Sink interface {
	Start(total int)
	Update(Update)
	Finish(Update)
}

// Reporter adapts pool samples to a Sink.
type Reporter struct {
	sink    Sink
	counter *stats.Counter

	mu       sync.Mutex
	last     Update
	finished bool
}

// NewReporter returns a reporter. A nil sink discards updates.
func NewReporter(sink Sink, counter *stats.Counter) *Reporter {
	if sink == nil {
		sink = discard{}
	}
	return &Reporter{sink: sink, counter: counter}
}

// Start announces the run size.
func (r *Reporter) Start(total int) {
	r.mu.Lock()
	r.finished = false
	r.last = Update{Total: total}
	r.mu.Unlock()
	r.sink.Start(total)
}

// Observe records a pool sample. It is suitable as a workpool.ProgressFunc.
func (r *Reporter) Observe(p workpool.Progress) {
	u := Update{
		Done:    p.Done,
		Total:   p.Total,
		Elapsed: p.Elapsed,
		Rate:    p.Rate,
		ETA:     p.ETA,
	}
	if r.counter != nil {
		u.Totals = r.counter.Snapshot()
	}
	r.mu.Lock()
	if r.finished {
		r.mu.Unlock()
		return
	}
	r.last = u
	r.mu.Unlock()
	r.sink.Update(u)
}

// Finish emits the final update with exact totals. Later calls are ignored.
func (r *Reporter) Finish() {
	r.mu.Lock()
	if r.finished {
		r.mu.Unlock()
		return
	}
	r.finished = true
	u := r.last
	r.mu.Unlock()
	if r.counter != nil {
		u.Totals = r.counter.Totals()
	}
	r.sink.Finish(u)
}

// Render formats an update as a single status line.
func Render(u Update) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d/%d (%.1f%%)", u.Done, u.Total, u.Percent())
	if u.Rate > 0 {
		fmt.Fprintf(&b, " %.1f files/s", u.Rate)
	}
	if u.ETA > 0 {
		fmt.Fprintf(&b, " eta %s", u.ETA.Round(time.Second))
	}
	fmt.Fprintf(&b, " | extracted %d, duplicates %d, skipped %d, errors %d",
		u.Totals.Processed, u.Totals.Duplicates, u.Totals.Skipped, u.Totals.Errors)
	return b.String()
}

type discard struct{}

func (discard) Start(int)     {}
func (discard) Update(Update) {}
func (discard) Finish(Update) {}
