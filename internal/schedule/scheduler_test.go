package schedule

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestNew_ClampsInterval(t *testing.T) {
	s := New(RunnerFunc(func(context.Context) error { return nil }), time.Second)
	if s.Interval != time.Minute {
		t.Fatalf("sub-minute interval should clamp to a minute, got %v", s.Interval)
	}
	s = New(RunnerFunc(func(context.Context) error { return nil }), 2*time.Hour)
	if s.Interval != 2*time.Hour {
		t.Fatalf("interval changed: %v", s.Interval)
	}
}

func TestScheduler_RunsImmediatelyAndStops(t *testing.T) {
	var runs atomic.Int32
	started := make(chan struct{})
	s := New(RunnerFunc(func(context.Context) error {
		if runs.Add(1) == 1 {
			close(started)
		}
		return nil
	}), time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("initial pass did not run")
	}

	cancel()
	done := make(chan struct{})
	go func() { s.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop after cancel")
	}

	if runs.Load() != 1 {
		t.Fatalf("expected exactly the initial pass, got %d", runs.Load())
	}
}

func TestScheduler_SurvivesPassFailure(t *testing.T) {
	var runs atomic.Int32
	s := New(RunnerFunc(func(context.Context) error {
		runs.Add(1)
		return errors.New("boom")
	}), time.Hour)
	// Drive ticks fast by bypassing the clamp.
	s.Interval = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)

	deadline := time.After(2 * time.Second)
	for runs.Load() < 3 {
		select {
		case <-deadline:
			t.Fatalf("loop stalled after failures, runs=%d", runs.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	s.Wait()
}

func TestScheduler_PassTimeoutApplied(t *testing.T) {
	sawDeadline := make(chan bool, 1)
	s := New(RunnerFunc(func(ctx context.Context) error {
		_, ok := ctx.Deadline()
		sawDeadline <- ok
		return nil
	}), time.Hour)
	s.PassTimeout = time.Minute

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	select {
	case ok := <-sawDeadline:
		if !ok {
			t.Fatal("pass context should carry a deadline")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("initial pass did not run")
	}
	cancel()
	s.Wait()
}

func TestRunnerFunc(t *testing.T) {
	want := errors.New("sentinel")
	f := RunnerFunc(func(context.Context) error { return want })
	if got := f.Run(context.Background()); !errors.Is(got, want) {
		t.Fatalf("RunnerFunc did not pass through: %v", got)
	}
}
