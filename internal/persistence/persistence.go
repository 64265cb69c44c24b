// Package persistence implements the poll/holdoff/backoff scheduler that
// flushes CONFIG-category state to durable storage (spec.md's supplemented
// persistence feature, drawn from original_source/'s save-thread timing).
// The storage format and the write path itself are an external
// collaborator (spec.md §1); this package only decides *when* to call it.
package persistence

import (
	"time"

	"github.com/fieldhub/fbserver/internal/change"
	"github.com/fieldhub/fbserver/internal/classes"
	"github.com/fieldhub/fbserver/internal/regctx"
	"github.com/fieldhub/fbserver/internal/registry"
	"github.com/go-co-op/gocron/v2"
)

// Sink durably writes the current CONFIG-category state. Its file format
// is deliberately unspecified here; a real deployment supplies its own
// implementation.
type Sink interface {
	Persist(ctx *regctx.Context, reg *registry.Registry) error
}

// Timing is the "-t poll:holdoff:backoff" flag of cmd/fbserver: Poll is
// how often to check for CONFIG changes, Holdoff is how long to let a
// burst of changes settle before writing, and Backoff is how long to wait
// before retrying a failed write.
type Timing struct {
	Poll    time.Duration
	Holdoff time.Duration
	Backoff time.Duration
}

// Scheduler drives Sink.Persist on gocron's scheduler per Timing, tracking
// its own private view of CONFIG changes so the main connection-facing
// "*CHANGES" trackers are never perturbed by persistence's own bookkeeping.
type Scheduler struct {
	ctx  *regctx.Context
	reg  *registry.Registry
	sink Sink
	t    Timing

	tracker change.Tracker
	sched   gocron.Scheduler

	pending bool
	dueAt   time.Time
}

func New(ctx *regctx.Context, reg *registry.Registry, sink Sink, t Timing) (*Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	return &Scheduler{ctx: ctx, reg: reg, sink: sink, t: t, sched: sched}, nil
}

// Start registers the poll job and starts the underlying gocron scheduler.
func (s *Scheduler) Start() error {
	_, err := s.sched.NewJob(gocron.DurationJob(s.t.Poll), gocron.NewTask(s.tick))
	if err != nil {
		return err
	}
	s.sched.Start()
	return nil
}

// Shutdown stops the scheduler, blocking until its running job (if any)
// returns.
func (s *Scheduler) Shutdown() error {
	return s.sched.Shutdown()
}

// tick runs once per Poll interval. It has no return value because
// gocron.NewTask's func signature carries no error channel back to the
// caller; failures are instead observed as the write staying "pending"
// and retried after Backoff.
func (s *Scheduler) tick() {
	now := time.Now()

	if !s.pending {
		if !s.tracker.HasChanges(s.ctx, s.reg, classes.CatConfig) {
			return
		}
		s.pending = true
		s.dueAt = now.Add(s.t.Holdoff)
		return
	}

	if now.Before(s.dueAt) {
		return
	}

	if err := s.sink.Persist(s.ctx, s.reg); err != nil {
		s.dueAt = now.Add(s.t.Backoff)
		return
	}
	s.tracker.AdvanceCategory(s.ctx.Clock, classes.CatConfig)
	s.pending = false
}
