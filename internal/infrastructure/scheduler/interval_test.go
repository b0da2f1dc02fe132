package scheduler

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestIntervalRunsImmediately(t *testing.T) {
	t.Parallel()

	s := NewInterval(time.Hour, testLogger())
	ran := make(chan time.Time, 1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := s.Start(ctx, func(at time.Time) {
		select {
		case ran <- at:
		default:
		}
	}); err != nil {
		t.Fatalf("start: %v", err)
	}

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatalf("first run did not happen immediately")
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer stopCancel()
	if err := s.Stop(stopCtx); err != nil {
		t.Fatalf("stop: %v", err)
	}
}

func TestIntervalStopPreventsFurtherRuns(t *testing.T) {
	t.Parallel()

	var runs atomic.Int32
	s := NewInterval(time.Hour, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := s.Start(ctx, func(time.Time) { runs.Add(1) }); err != nil {
		t.Fatalf("start: %v", err)
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer stopCancel()
	if err := s.Stop(stopCtx); err != nil {
		t.Fatalf("stop: %v", err)
	}

	got := runs.Load()
	time.Sleep(50 * time.Millisecond)
	if runs.Load() != got {
		t.Fatalf("job ran after stop")
	}
}

func TestIntervalRejectsDoubleStart(t *testing.T) {
	t.Parallel()

	s := NewInterval(time.Hour, testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := s.Start(ctx, func(time.Time) {}); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := s.Start(ctx, func(time.Time) {}); err == nil {
		t.Fatalf("second start accepted")
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer stopCancel()
	_ = s.Stop(stopCtx)
}

func TestIntervalRejectsNonPositivePeriod(t *testing.T) {
	t.Parallel()

	s := NewInterval(0, testLogger())
	if err := s.Start(context.Background(), func(time.Time) {}); err == nil {
		t.Fatalf("zero period accepted")
	}
}
