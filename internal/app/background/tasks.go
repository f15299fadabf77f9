package background

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

var (
	ErrSchedulerRunning = errors.New("scheduler is already running")
	ErrSchedulerStopped = errors.New("scheduler has been stopped")
)

type State int

const (
	StateIdle State = iota
	StateRunning
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	}
	return "unknown"
}

type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type Clock interface {
	NewTicker(d time.Duration) Ticker
}

type realClock struct{}

func (realClock) NewTicker(d time.Duration) Ticker {
	return &realTicker{ticker: time.NewTicker(d)}
}

type realTicker struct {
	ticker *time.Ticker
}

func (t *realTicker) C() <-chan time.Time { return t.ticker.C }
func (t *realTicker) Stop()               { t.ticker.Stop() }

// Job is one unit of scheduled work. It must honour ctx.
type Job func(ctx context.Context)

type Scheduler struct {
	interval time.Duration
	job      Job
	clock    Clock
	log      *slog.Logger

	mu    sync.Mutex
	state State
}

func NewScheduler(interval time.Duration, job Job, clock Clock, log *slog.Logger) *Scheduler {
	if clock == nil {
		clock = realClock{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Scheduler{
		interval: interval,
		job:      job,
		clock:    clock,
		log:      log,
	}
}

func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Start runs the job on every tick until ctx is cancelled. The first run
// happens one interval after Start. Start blocks; runs never overlap, and a
// run that outlasts the interval is followed by the next one at once.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	switch s.state {
	case StateRunning:
		s.mu.Unlock()
		return ErrSchedulerRunning
	case StateStopped:
		s.mu.Unlock()
		return ErrSchedulerStopped
	}
	s.state = StateRunning
	s.mu.Unlock()

	ticker := s.clock.NewTicker(s.interval)
	defer func() {
		ticker.Stop()
		s.mu.Lock()
		s.state = StateStopped
		s.mu.Unlock()
		s.log.Info("scheduler stopped")
	}()

	s.log.Info("scheduler started", "interval", s.interval.String())
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C():
			s.runJob(ctx)
		}
	}
}

func (s *Scheduler) runJob(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("scheduled job panicked", "panic", r)
		}
	}()
	s.job(ctx)
}
