// Package scheduler runs the aggregation pipeline periodically on a single
// background worker and exposes an on-demand trigger.
package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-pkgz/lgr"
)

// Runner is the pipeline surface the scheduler drives
type Runner interface {
	Run(ctx context.Context) (added int, err error)
	RunDedup() error
}

// Scheduler owns the background pipeline worker. Overlapping runs are
// prevented by an atomic guard; requests arriving during a run are rejected
// rather than queued, the next periodic tick covers them.
type Scheduler struct {
	pipeline Runner
	interval time.Duration

	trigger chan struct{}
	running atomic.Bool
	wg      sync.WaitGroup
	cancel  context.CancelFunc
}

// New creates a scheduler running the pipeline every interval
func New(pipeline Runner, interval time.Duration) *Scheduler {
	if interval == 0 {
		interval = 15 * time.Minute
	}
	return &Scheduler{
		pipeline: pipeline,
		interval: interval,
		trigger:  make(chan struct{}, 1),
	}
}

// Start begins the background worker; the first run happens immediately
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(1)
	go s.worker(ctx)

	lgr.Printf("[INFO] scheduler started with refresh interval %v", s.interval)
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	lgr.Printf("[INFO] stopping scheduler...")
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	lgr.Printf("[INFO] scheduler stopped")
}

// TriggerNow requests an immediate pipeline run. Reports false when a run is
// already in flight.
func (s *Scheduler) TriggerNow() bool {
	if s.running.Load() {
		return false
	}
	select {
	case s.trigger <- struct{}{}:
		return true
	default:
		return true // trigger already pending
	}
}

// Running reports whether a pipeline run is in flight
func (s *Scheduler) Running() bool {
	return s.running.Load()
}

func (s *Scheduler) worker(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// run immediately on start
	s.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runOnce(ctx)
		case <-s.trigger:
			s.runOnce(ctx)
		}
	}
}

// runOnce executes one pipeline pass followed by the deduplication pass
func (s *Scheduler) runOnce(ctx context.Context) {
	if !s.running.CompareAndSwap(false, true) {
		return
	}
	defer s.running.Store(false)

	if _, err := s.pipeline.Run(ctx); err != nil {
		lgr.Printf("[ERROR] pipeline run failed: %v", err)
		return
	}

	if err := s.pipeline.RunDedup(); err != nil {
		lgr.Printf("[WARN] deduplication pass failed: %v", err)
	}
}
