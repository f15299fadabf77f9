package background

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTicker struct {
	ch      chan time.Time
	stopped atomic.Bool
}

func (t *fakeTicker) C() <-chan time.Time { return t.ch }
func (t *fakeTicker) Stop()               { t.stopped.Store(true) }

type fakeClock struct {
	ticker   *fakeTicker
	interval atomic.Int64
}

func newFakeClock() *fakeClock {
	return &fakeClock{ticker: &fakeTicker{ch: make(chan time.Time)}}
}

func (c *fakeClock) NewTicker(d time.Duration) Ticker {
	c.interval.Store(int64(d))
	return c.ticker
}

func (c *fakeClock) tick() {
	c.ticker.ch <- time.Now()
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func startScheduler(t *testing.T, s *Scheduler) (context.CancelFunc, <-chan error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()
	return cancel, done
}

func waitDone(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
		return nil
	}
}

func TestSchedulerRunsJobOnEveryTick(t *testing.T) {
	clock := newFakeClock()
	runs := make(chan struct{}, 10)
	s := NewScheduler(5*time.Minute, func(context.Context) { runs <- struct{}{} }, clock, quietLogger())

	cancel, done := startScheduler(t, s)
	clock.tick()
	clock.tick()
	clock.tick()
	cancel()

	require.NoError(t, waitDone(t, done))
	assert.Len(t, runs, 3)
	assert.Equal(t, int64(5*time.Minute), clock.interval.Load())
	assert.True(t, clock.ticker.stopped.Load())
	assert.Equal(t, StateStopped, s.State())
}

func TestSchedulerSurvivesPanickingJob(t *testing.T) {
	clock := newFakeClock()
	var calls atomic.Int32
	s := NewScheduler(time.Minute, func(context.Context) {
		if calls.Add(1) == 1 {
			panic("first run fails")
		}
	}, clock, quietLogger())

	cancel, done := startScheduler(t, s)
	clock.tick()
	clock.tick()
	cancel()

	require.NoError(t, waitDone(t, done))
	assert.Equal(t, int32(2), calls.Load())
}

func TestSchedulerRejectsSecondStart(t *testing.T) {
	clock := newFakeClock()
	started := make(chan struct{})
	s := NewScheduler(time.Minute, func(context.Context) { close(started) }, clock, quietLogger())

	cancel, done := startScheduler(t, s)
	clock.tick()
	<-started

	assert.Equal(t, StateRunning, s.State())
	assert.ErrorIs(t, s.Start(context.Background()), ErrSchedulerRunning)

	cancel()
	require.NoError(t, waitDone(t, done))
	assert.ErrorIs(t, s.Start(context.Background()), ErrSchedulerStopped)
}

func TestSchedulerStopsBeforeFirstTick(t *testing.T) {
	var calls atomic.Int32
	s := NewScheduler(time.Hour, func(context.Context) { calls.Add(1) }, newFakeClock(), quietLogger())
	assert.Equal(t, StateIdle, s.State())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, s.Start(ctx))
	assert.Zero(t, calls.Load())
	assert.Equal(t, StateStopped, s.State())
}

func TestRealClockTicks(t *testing.T) {
	ticker := realClock{}.NewTicker(time.Millisecond)
	defer ticker.Stop()

	select {
	case <-ticker.C():
	case <-time.After(time.Second):
		t.Fatal("real ticker did not fire")
	}
}
