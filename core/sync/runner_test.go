package sync

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRunner_OverlappingRunAbortsEarly(t *testing.T) {
	started := make(chan struct{})
	gate := make(chan struct{})
	source := &fakeSource{
		items:        []Item{{ID: "p1", Title: "a", Start: "2026-01-01", End: "2026-01-01"}},
		stampsErr:    errors.New("feed unavailable"),
		fetchStarted: started,
		fetchGate:    gate,
	}
	orch, _ := newTestOrchestrator(t, source, &fakeTarget{})
	runner := NewRunner(orch, zap.NewNop())

	firstDone := make(chan error, 1)
	go func() {
		_, err := runner.Run(context.Background(), Options{})
		firstDone <- err
	}()

	// Wait until the first run is provably mid-execution.
	<-started

	_, err := runner.Run(context.Background(), Options{})
	assert.ErrorIs(t, err, ErrRunInProgress)

	close(gate)
	require.NoError(t, <-firstDone)
}

func TestRunner_RunsAgainAfterRelease(t *testing.T) {
	source := &fakeSource{
		items:     []Item{{ID: "p1", Title: "a", Start: "2026-01-01", End: "2026-01-01"}},
		stampsErr: errors.New("feed unavailable"),
	}
	orch, _ := newTestOrchestrator(t, source, &fakeTarget{})
	runner := NewRunner(orch, zap.NewNop())

	_, err := runner.Run(context.Background(), Options{})
	require.NoError(t, err)

	ran, err := runner.Run(context.Background(), Options{})
	require.NoError(t, err)
	assert.True(t, ran)
}
