package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"vvnews/internal/ports"
)

// Interval runs a job immediately and then every fixed period. The wait
// between runs is sliced into one-second ticks so shutdown never blocks for
// a full period.
type Interval struct {
	period time.Duration
	logger *slog.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	started bool
}

var _ ports.Scheduler = (*Interval)(nil)

func NewInterval(period time.Duration, log *slog.Logger) *Interval {
	return &Interval{
		period: period,
		logger: log.With("component", "scheduler"),
	}
}

func (s *Interval) Start(ctx context.Context, job func(time.Time)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return errors.New("scheduler already started")
	}
	if s.period <= 0 {
		return errors.New("scheduler period must be positive")
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	s.started = true

	go s.loop(runCtx, job)
	s.logger.Info("scheduler started", "period", s.period)
	return nil
}

func (s *Interval) loop(ctx context.Context, job func(time.Time)) {
	defer close(s.done)
	for {
		job(time.Now())
		if !s.sleep(ctx) {
			return
		}
	}
}

// sleep waits one period, returning false when the context is cancelled.
func (s *Interval) sleep(ctx context.Context) bool {
	deadline := time.Now().Add(s.period)
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return false
		case now := <-ticker.C:
			if !now.Before(deadline) {
				return true
			}
		}
	}
}

func (s *Interval) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil
	}
	cancel, done := s.cancel, s.done
	s.started = false
	s.mu.Unlock()

	cancel()
	select {
	case <-done:
		s.logger.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
