package sync

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"notion-calendar-sync/core/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeSource serves a fixed snapshot and stamp feed, counting fetches so
// tests can prove the short-circuit skipped the expensive path.
type fakeSource struct {
	items  []Item
	stamps []EditStamp

	fetchErr  error
	stampsErr error

	// fetchStarted receives one value when FetchAll is entered, and
	// fetchGate blocks FetchAll until closed. Used to hold a run open while
	// another one is attempted.
	fetchStarted chan struct{}
	fetchGate    chan struct{}

	fetchCalls  int
	stampsCalls int
}

func (f *fakeSource) FetchAll(ctx context.Context) ([]Item, error) {
	f.fetchCalls++
	if f.fetchStarted != nil {
		f.fetchStarted <- struct{}{}
	}
	if f.fetchGate != nil {
		<-f.fetchGate
	}
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.items, nil
}

func (f *fakeSource) EditStamps(ctx context.Context) ([]EditStamp, error) {
	f.stampsCalls++
	if f.stampsErr != nil {
		return nil, f.stampsErr
	}
	return f.stamps, nil
}

func newTestOrchestrator(t *testing.T, source *fakeSource, target *fakeTarget) (*Orchestrator, *state.Store) {
	t.Helper()
	store := state.NewStore(filepath.Join(t.TempDir(), "synced_events.json"), zap.NewNop())
	return NewOrchestrator(source, target, store, zap.NewNop()), store
}

func TestOrchestrator_FirstRunCreatesAndPersists(t *testing.T) {
	source := &fakeSource{
		items:  []Item{{ID: "p1", Title: "a", Start: "2026-01-01", End: "2026-01-01"}},
		stamps: []EditStamp{{ID: "p1", LastEdited: "2026-01-01T00:00:00Z"}},
	}
	target := &fakeTarget{}
	orch, store := newTestOrchestrator(t, source, target)

	ran, err := orch.Run(context.Background(), Options{})
	require.NoError(t, err)
	assert.True(t, ran)

	doc, err := store.Load()
	require.NoError(t, err)
	require.Contains(t, doc.Records, "p1")
	assert.Equal(t, "ev-new-1", doc.Records["p1"].EventID)
	assert.Equal(t, Fingerprint(source.stamps), doc.Fingerprint)
	assert.NotEmpty(t, doc.LastRun)
}

func TestOrchestrator_FingerprintShortCircuit(t *testing.T) {
	source := &fakeSource{
		items:  []Item{{ID: "p1", Title: "a", Start: "2026-01-01", End: "2026-01-01"}},
		stamps: []EditStamp{{ID: "p1", LastEdited: "2026-01-01T00:00:00Z"}},
	}
	target := &fakeTarget{}
	orch, _ := newTestOrchestrator(t, source, target)

	ran, err := orch.Run(context.Background(), Options{})
	require.NoError(t, err)
	require.True(t, ran)

	ran, err = orch.Run(context.Background(), Options{})
	require.NoError(t, err)
	assert.False(t, ran)

	// The second run fetched no items and made no calendar calls.
	assert.Equal(t, 1, source.fetchCalls)
	assert.Len(t, target.inserts, 1)
}

func TestOrchestrator_ForceSkipsShortCircuit(t *testing.T) {
	source := &fakeSource{
		items:  []Item{{ID: "p1", Title: "a", Start: "2026-01-01", End: "2026-01-01"}},
		stamps: []EditStamp{{ID: "p1", LastEdited: "2026-01-01T00:00:00Z"}},
	}
	target := &fakeTarget{}
	orch, _ := newTestOrchestrator(t, source, target)

	_, err := orch.Run(context.Background(), Options{})
	require.NoError(t, err)

	ran, err := orch.Run(context.Background(), Options{Force: true})
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Equal(t, 2, source.fetchCalls)
}

func TestOrchestrator_Idempotence(t *testing.T) {
	// With no usable fingerprint every run takes the full diff path; the
	// second run must still be a no-op.
	source := &fakeSource{
		items:     []Item{{ID: "p1", Title: "a", Start: "2026-01-01", End: "2026-01-01"}},
		stampsErr: errors.New("feed unavailable"),
	}
	target := &fakeTarget{}
	orch, store := newTestOrchestrator(t, source, target)

	_, err := orch.Run(context.Background(), Options{})
	require.NoError(t, err)
	docAfterFirst, err := store.Load()
	require.NoError(t, err)

	ran, err := orch.Run(context.Background(), Options{})
	require.NoError(t, err)
	assert.True(t, ran)

	// Exactly one insert ever; no updates or deletes on the second pass.
	assert.Len(t, target.inserts, 1)
	assert.Empty(t, target.updates)
	assert.Empty(t, target.deletes)

	docAfterSecond, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, docAfterFirst.Records, docAfterSecond.Records)
}

func TestOrchestrator_FailedUpdateRetriedOnNextRun(t *testing.T) {
	source := &fakeSource{
		items:  []Item{{ID: "p1", Title: "a", Start: "2026-01-01", End: "2026-01-01"}},
		stamps: []EditStamp{{ID: "p1", LastEdited: "2026-01-01T00:00:00Z"}},
	}
	target := &fakeTarget{updateErrs: map[string]error{"ev-1": errors.New("backend exploded")}}
	orch, store := newTestOrchestrator(t, source, target)

	doc := state.NewDocument()
	doc.Records["p1"] = state.Record{EventID: "ev-1", Hash: "stale"}
	require.NoError(t, store.Save(doc))

	ran, err := orch.Run(context.Background(), Options{})
	require.NoError(t, err)
	assert.True(t, ran)

	// The update failed, so the fresh fingerprint must not be persisted:
	// it would short-circuit the retry while the source is unchanged.
	afterFirst, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "stale", afterFirst.Records["p1"].Hash)
	assert.Empty(t, afterFirst.Fingerprint)

	// Backend recovers; a plain second run re-fetches and retries the update.
	target.updateErrs = nil
	ran, err = orch.Run(context.Background(), Options{})
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Equal(t, 2, source.fetchCalls)

	afterSecond, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, ItemHash(source.items[0]), afterSecond.Records["p1"].Hash)
	assert.Equal(t, Fingerprint(source.stamps), afterSecond.Fingerprint)
}

func TestOrchestrator_GuardVetoLeavesStateUntouched(t *testing.T) {
	source := &fakeSource{
		items:     nil, // anomalously empty fetch
		stampsErr: errors.New("feed unavailable"),
	}
	target := &fakeTarget{}
	orch, store := newTestOrchestrator(t, source, target)

	// Seed a store with more records than the guard threshold.
	doc := state.NewDocument()
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k"} {
		doc.Records[id] = state.Record{EventID: "ev-" + id, Hash: "h"}
	}
	require.NoError(t, store.Save(doc))
	before, err := os.ReadFile(store.Path())
	require.NoError(t, err)

	ran, err := orch.Run(context.Background(), Options{})
	require.NoError(t, err)
	assert.False(t, ran)

	// No deletes were issued and the file is byte-identical.
	assert.Empty(t, target.deletes)
	after, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestOrchestrator_ForcedEmptySnapshotDeletes(t *testing.T) {
	source := &fakeSource{stampsErr: errors.New("feed unavailable")}
	target := &fakeTarget{}
	orch, store := newTestOrchestrator(t, source, target)

	doc := state.NewDocument()
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k"} {
		doc.Records[id] = state.Record{EventID: "ev-" + id, Hash: "h"}
	}
	require.NoError(t, store.Save(doc))

	ran, err := orch.Run(context.Background(), Options{Force: true})
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Len(t, target.deletes, 11)

	reloaded, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, reloaded.Records)
}

func TestOrchestrator_FetchFailureAbortsBeforeMutation(t *testing.T) {
	source := &fakeSource{
		fetchErr:  errors.New("notion timeout"),
		stampsErr: errors.New("feed unavailable"),
	}
	target := &fakeTarget{}
	orch, store := newTestOrchestrator(t, source, target)

	_, err := orch.Run(context.Background(), Options{})
	require.Error(t, err)

	// No state file was ever written.
	_, statErr := os.Stat(store.Path())
	assert.True(t, os.IsNotExist(statErr))
}

func TestOrchestrator_DryRunDoesNotPersist(t *testing.T) {
	source := &fakeSource{
		items:  []Item{{ID: "p1", Title: "a", Start: "2026-01-01", End: "2026-01-01"}},
		stamps: []EditStamp{{ID: "p1", LastEdited: "2026-01-01T00:00:00Z"}},
	}
	target := &fakeTarget{}
	orch, store := newTestOrchestrator(t, source, target)

	ran, err := orch.Run(context.Background(), Options{DryRun: true})
	require.NoError(t, err)
	assert.True(t, ran)

	assert.Empty(t, target.inserts)
	_, statErr := os.Stat(store.Path())
	assert.True(t, os.IsNotExist(statErr))
}

func TestOrchestrator_DryRunIgnoresShortCircuit(t *testing.T) {
	source := &fakeSource{
		items:  []Item{{ID: "p1", Title: "a", Start: "2026-01-01", End: "2026-01-01"}},
		stamps: []EditStamp{{ID: "p1", LastEdited: "2026-01-01T00:00:00Z"}},
	}
	target := &fakeTarget{}
	orch, _ := newTestOrchestrator(t, source, target)

	_, err := orch.Run(context.Background(), Options{})
	require.NoError(t, err)

	// Fingerprint is unchanged, but a dry run still plans.
	ran, err := orch.Run(context.Background(), Options{DryRun: true})
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Equal(t, 2, source.fetchCalls)
}
