package runlog

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "state", "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecordAndRecentNewestFirst(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, id := range []string{"run-a", "run-b", "run-c"} {
		require.NoError(t, store.Record(ctx, Run{
			ID:         id,
			StartedAt:  base.Add(time.Duration(i) * time.Minute),
			Duration:   1500 * time.Millisecond,
			Root:       "/cache",
			OutputDir:  "/cache/extracted_assets",
			Policy:     "type",
			Types:      []string{"ogg", "png"},
			State:      "completed",
			Candidates: 10,
			Processed:  i,
			ByKind:     map[string]int{"png": i},
		}))
	}

	runs, err := store.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-c", runs[0].ID)
	assert.Equal(t, "run-b", runs[1].ID)

	got := runs[0]
	assert.True(t, got.StartedAt.Equal(base.Add(2*time.Minute)))
	assert.Equal(t, 1500*time.Millisecond, got.Duration)
	assert.Equal(t, []string{"ogg", "png"}, got.Types)
	assert.Equal(t, map[string]int{"png": 2}, got.ByKind)

	all, err := store.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestRecordRejectsMissingID(t *testing.T) {
	store := openTestStore(t)
	assert.Error(t, store.Record(context.Background(), Run{}))
}

func TestRecordDuplicateIDFails(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	run := Run{ID: "same", StartedAt: time.Now(), State: "completed"}
	require.NoError(t, store.Record(ctx, run))
	assert.Error(t, store.Record(ctx, run))
}

func TestReopenKeepsRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Record(context.Background(), Run{ID: "keep", StartedAt: time.Now(), State: "no_files"}))
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()
	runs, err := reopened.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "no_files", runs[0].State)
	assert.Empty(t, runs[0].Types)
}

func TestSchemaMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	store, err := Open(path)
	require.NoError(t, err)
	_, err = store.db.Exec("UPDATE schema_version SET version = 99")
	require.NoError(t, err)
	require.NoError(t, store.Close())

	_, err = Open(path)
	assert.True(t, errors.Is(err, ErrSchemaMismatch))
}

func TestRetryOnBusyStopsOnOtherErrors(t *testing.T) {
	calls := 0
	boom := errors.New("boom")
	err := retryOnBusy(context.Background(), func() error {
		calls++
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)

	calls = 0
	err = retryOnBusy(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("database is locked")
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}
