// Package schedule drives periodic inventory sync passes. One goroutine, one
// ticker; an initial pass runs immediately on start so a fresh deployment
// serves data without waiting a full interval. Pass failures are logged and
// absorbed; the loop only stops when its context is cancelled.
package schedule

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
)

// Runner is the sync capability the scheduler drives.
type Runner interface {
	Run(ctx context.Context) (err error)
}

// RunnerFunc adapts a plain function to the Runner interface.
type RunnerFunc func(ctx context.Context) error

// Run calls f.
func (f RunnerFunc) Run(ctx context.Context) error { return f(ctx) }

// Scheduler periodically triggers sync passes.
type Scheduler struct {
	Runner   Runner
	Interval time.Duration

	// PassTimeout bounds each individual pass; zero means no per-pass
	// deadline beyond the loop context.
	PassTimeout time.Duration

	done chan struct{}
}

// New constructs a Scheduler. Intervals under a minute are clamped to a
// minute to keep a misconfigured deployment from hammering the source.
func New(r Runner, interval time.Duration) *Scheduler {
	if interval < time.Minute {
		interval = time.Minute
	}
	return &Scheduler{
		Runner:      r,
		Interval:    interval,
		PassTimeout: 10 * time.Minute,
		done:        make(chan struct{}),
	}
}

// Start launches the loop. It returns immediately; cancel ctx to stop, then
// Wait for the in-flight pass to finish.
func (s *Scheduler) Start(ctx context.Context) {
	go s.loop(ctx)
}

// Wait blocks until the loop has exited.
func (s *Scheduler) Wait() { <-s.done }

func (s *Scheduler) loop(ctx context.Context) {
	defer close(s.done)

	log.Info().Dur("interval", s.Interval).Msg("sync scheduler started")
	s.pass(ctx)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("sync scheduler stopped")
			return
		case <-ticker.C:
			s.pass(ctx)
		}
	}
}

func (s *Scheduler) pass(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	pctx := ctx
	if s.PassTimeout > 0 {
		var cancel context.CancelFunc
		pctx, cancel = context.WithTimeout(ctx, s.PassTimeout)
		defer cancel()
	}

	if err := s.Runner.Run(pctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		// Keep ticking; the next interval is the retry.
		log.Error().Err(err).Msg("scheduled sync pass failed")
	}
}
