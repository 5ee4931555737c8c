package worker

import (
	"context"
	stderrors "errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSweeper struct {
	calls atomic.Int32
	err   error
}

func (f *fakeSweeper) CompleteDue(ctx context.Context) (int, error) {
	f.calls.Add(1)
	if _, ok := ctx.Deadline(); !ok {
		return 0, stderrors.New("sweep without deadline")
	}
	return 3, f.err
}

func TestNewSchedulerRejectsBadSpec(t *testing.T) {
	_, err := NewScheduler("every now and then", &fakeSweeper{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid completion sweep")
}

func TestSweepCallsSweeper(t *testing.T) {
	sweeper := &fakeSweeper{}
	s, err := NewScheduler("*/10 * * * *", sweeper)
	require.NoError(t, err)

	s.sweep()
	sweeper.err = stderrors.New("db down")
	s.sweep()

	assert.Equal(t, int32(2), sweeper.calls.Load())
}

func TestSchedulerStopsWithContext(t *testing.T) {
	s, err := NewScheduler("@every 1h", &fakeSweeper{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}
