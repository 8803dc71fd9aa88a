// Package stats aggregates per-run extraction outcomes.
//
// Counting is always exact. Only Snapshot is rate limited: it hands display
// code a cached copy when called again within the configured interval, so a
// fast progress loop never contends with workers for the lock.
package stats

import (
	"maps"
	"sync"
	"time"

	"assetcarver/internal/signature"
)

// Outcome is the mutually exclusive result of processing one cache file.
type Outcome int

const (
	OutcomeSkipped Outcome = iota
	OutcomeProcessed
	OutcomeDuplicate
	OutcomeAlreadyProcessed
	OutcomeError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSkipped:
		return "skipped"
	case OutcomeProcessed:
		return "processed"
	case OutcomeDuplicate:
		return "duplicate"
	case OutcomeAlreadyProcessed:
		return "already_processed"
	case OutcomeError:
		return "error"
	default:
		return "unknown"
	}
}

// Totals is a point-in-time copy of the counters.
type Totals struct {
	Processed        int
	Duplicates       int
	AlreadyProcessed int
	Skipped          int
	Errors           int
	ByKind           map[signature.Kind]int
}

// Handled is the number of files that reached any outcome.
func (t Totals) Handled() int {
	return t.Processed + t.Duplicates + t.AlreadyProcessed + t.Skipped + t.Errors
}

// ByGroup folds ByKind into the coarse audio/images/textures/models groups.
func (t Totals) ByGroup() map[signature.Group]int {
	out := map[signature.Group]int{
		signature.GroupAudio:    0,
		signature.GroupImages:   0,
		signature.GroupTextures: 0,
		signature.GroupModels:   0,
	}
	for k, n := range t.ByKind {
		out[k.Group()] += n
	}
	return out
}

func (t Totals) clone() Totals {
	t.ByKind = maps.Clone(t.ByKind)
	if t.ByKind == nil {
		t.ByKind = make(map[signature.Kind]int)
	}
	return t
}

// Counter is a concurrency-safe outcome counter.
type Counter struct {
	mu       sync.Mutex
	totals   Totals
	interval time.Duration
	now      func() time.Time
	lastSnap time.Time
	snap     Totals
}

// NewCounter returns a counter whose Snapshot refreshes at most once per interval.
func NewCounter(interval time.Duration) *Counter {
	c := &Counter{interval: interval, now: time.Now}
	c.Reset()
	return c
}

// Reset zeroes every counter at run start.
func (c *Counter) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.totals = Totals{ByKind: make(map[signature.Kind]int)}
	c.snap = c.totals.clone()
	c.lastSnap = time.Time{}
}

// Record counts one outcome. kind is only consulted for OutcomeProcessed.
func (c *Counter) Record(outcome Outcome, kind signature.Kind) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch outcome {
	case OutcomeProcessed:
		c.totals.Processed++
		c.totals.ByKind[kind]++
	case OutcomeDuplicate:
		c.totals.Duplicates++
	case OutcomeAlreadyProcessed:
		c.totals.AlreadyProcessed++
	case OutcomeError:
		c.totals.Errors++
	default:
		c.totals.Skipped++
	}
}

// Snapshot returns totals that may lag by up to the configured interval.
func (c *Counter) Snapshot() Totals {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	if c.lastSnap.IsZero() || now.Sub(c.lastSnap) >= c.interval {
		c.snap = c.totals.clone()
		c.lastSnap = now
	}
	return c.snap.clone()
}

// Totals returns the exact current counts.
func (c *Counter) Totals() Totals {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totals.clone()
}
