package stats

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"assetcarver/internal/signature"
)

func TestCounterRecordsEveryOutcome(t *testing.T) {
	c := NewCounter(time.Hour)
	c.Record(OutcomeProcessed, signature.KindOgg)
	c.Record(OutcomeProcessed, signature.KindPNG)
	c.Record(OutcomeProcessed, signature.KindWEBP)
	c.Record(OutcomeDuplicate, signature.KindOgg)
	c.Record(OutcomeAlreadyProcessed, 0)
	c.Record(OutcomeSkipped, 0)
	c.Record(OutcomeError, 0)

	got := c.Totals()
	assert.Equal(t, 3, got.Processed)
	assert.Equal(t, 1, got.Duplicates)
	assert.Equal(t, 1, got.AlreadyProcessed)
	assert.Equal(t, 1, got.Skipped)
	assert.Equal(t, 1, got.Errors)
	assert.Equal(t, 7, got.Handled())
	assert.Equal(t, 1, got.ByKind[signature.KindOgg])

	groups := got.ByGroup()
	assert.Equal(t, 1, groups[signature.GroupAudio])
	assert.Equal(t, 2, groups[signature.GroupImages])
	assert.Equal(t, 0, groups[signature.GroupModels])
}

func TestSnapshotIsThrottledButTotalsAreExact(t *testing.T) {
	c := NewCounter(time.Second)
	now := time.Unix(1000, 0)
	c.now = func() time.Time { return now }

	c.Record(OutcomeProcessed, signature.KindOgg)
	assert.Equal(t, 1, c.Snapshot().Processed)

	c.Record(OutcomeProcessed, signature.KindOgg)
	assert.Equal(t, 1, c.Snapshot().Processed, "snapshot within interval should be cached")
	assert.Equal(t, 2, c.Totals().Processed)

	now = now.Add(time.Second)
	assert.Equal(t, 2, c.Snapshot().Processed)
}

func TestSnapshotReturnsIndependentCopies(t *testing.T) {
	c := NewCounter(0)
	c.Record(OutcomeProcessed, signature.KindKTX)
	snap := c.Snapshot()
	snap.ByKind[signature.KindKTX] = 99
	assert.Equal(t, 1, c.Totals().ByKind[signature.KindKTX])
}

func TestCounterConcurrentRecordIsExact(t *testing.T) {
	c := NewCounter(time.Millisecond)
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				c.Record(OutcomeProcessed, signature.KindRBXM)
				_ = c.Snapshot()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 5000, c.Totals().Processed)
}

func TestReset(t *testing.T) {
	c := NewCounter(0)
	c.Record(OutcomeError, 0)
	c.Reset()
	assert.Equal(t, 0, c.Totals().Handled())
	assert.Equal(t, 0, c.Snapshot().Errors)
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "already_processed", OutcomeAlreadyProcessed.String())
	assert.Equal(t, "unknown", Outcome(42).String())
}
