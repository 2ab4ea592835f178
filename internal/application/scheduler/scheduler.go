// Package scheduler runs the ingest and rebuild jobs on cron specs, one run at a time.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/diillson/ticket-ledger/internal/metrics"
	"github.com/diillson/ticket-ledger/internal/shared/types"
	"github.com/robfig/cron/v3"
)

// Job is one schedulable unit of work.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Locker is a lock shared with other processes writing the same store.
type Locker interface {
	TryLock(ctx context.Context) (release func(), ok bool, err error)
}

// Outcome of RunOnce.
type Outcome string

const (
	Ran     Outcome = metrics.StatusSuccess
	Failed  Outcome = metrics.StatusFailure
	Skipped Outcome = metrics.StatusSkipped
)

// Scheduler serializes every run through one mutex and, when set, the shared lock.
// A run that finds either taken is skipped, never queued.
type Scheduler struct {
	cron    *cron.Cron
	console types.ConsoleInterface
	locker  Locker

	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a scheduler. locker may be nil.
func New(console types.ConsoleInterface, locker Locker) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:    cron.New(),
		console: console,
		locker:  locker,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Add registers job on a standard five-field cron spec.
func (s *Scheduler) Add(spec string, job Job) error {
	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("%w: schedule for %s: %w", types.ErrConfig, job.Name(), err)
	}
	if _, err := s.cron.AddFunc(spec, func() { s.RunOnce(s.ctx, job) }); err != nil {
		return fmt.Errorf("%w: schedule for %s: %w", types.ErrConfig, job.Name(), err)
	}
	s.console.LogInfo("Scheduled %s at %q", job.Name(), spec)
	return nil
}

// Start runs the cron loop in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops scheduling, cancels the running job and waits for it to return.
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()
}

// RunOnce runs job now unless another run holds the lock.
func (s *Scheduler) RunOnce(ctx context.Context, job Job) Outcome {
	started := time.Now()

	if !s.mu.TryLock() {
		s.console.LogWarning("Skipping %s: another run is in progress", job.Name())
		metrics.ObserveRun(job.Name(), metrics.StatusSkipped, started)
		return Skipped
	}
	defer s.mu.Unlock()

	if s.locker != nil {
		release, ok, err := s.locker.TryLock(ctx)
		if err != nil {
			s.console.LogError("Skipping %s: %v", job.Name(), err)
			metrics.ObserveRun(job.Name(), metrics.StatusFailure, started)
			return Failed
		}
		if !ok {
			s.console.LogWarning("Skipping %s: the store is locked by another process", job.Name())
			metrics.ObserveRun(job.Name(), metrics.StatusSkipped, started)
			return Skipped
		}
		defer release()
	}

	if err := job.Run(ctx); err != nil {
		s.console.LogError("%s failed after %s: %v", job.Name(), time.Since(started).Round(time.Millisecond), err)
		metrics.ObserveRun(job.Name(), metrics.StatusFailure, started)
		return Failed
	}
	metrics.ObserveRun(job.Name(), metrics.StatusSuccess, started)
	return Ran
}
