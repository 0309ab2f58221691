package props

import (
	"context"
	"sync"
	"time"

	"github.com/datawire/dlib/dgroup"
	"github.com/datawire/dlib/dlog"
)

// Scheduler owns one dgroup.Group and uses it both to run periodic source
// refreshes (spec.md §4.9) and, via dgroupWorkerPool, to offload
// SubscriberProxy handler dispatch for Props created with its WorkerPool
// (spec.md §4.10).
type Scheduler struct {
	g   *dgroup.Group
	sem chan struct{} // nil means unbounded dispatch

	mu        sync.Mutex
	scheduled map[string]bool
}

// NewScheduler creates a Scheduler whose goroutines are children of ctx; the
// caller is responsible for eventually calling Wait. workers bounds the
// number of SubscriberProxy dispatches the returned WorkerPool runs
// concurrently (RegistryOptions.Workers); workers <= 0 leaves dispatch
// unbounded, spawning one goroutine per Submit as before.
func NewScheduler(ctx context.Context, workers int) *Scheduler {
	var sem chan struct{}
	if workers > 0 {
		sem = make(chan struct{}, workers)
	}
	return &Scheduler{
		g:         dgroup.NewGroup(ctx, dgroup.GroupConfig{}),
		sem:       sem,
		scheduled: map[string]bool{},
	}
}

// Wait blocks until every scheduled goroutine has returned, same contract as
// dgroup.Group.Wait.
func (s *Scheduler) Wait() error { return s.g.Wait() }

// WorkerPool returns a WorkerPool backed by this scheduler's dgroup.Group,
// bounded to the worker count NewScheduler was given, for Registries
// configured to offload SubscriberProxy dispatch instead of spawning a bare
// goroutine per call.
func (s *Scheduler) WorkerPool() WorkerPool { return dgroupWorkerPool{g: s.g, sem: s.sem} }

type dgroupWorkerPool struct {
	g   *dgroup.Group
	sem chan struct{}
}

func (p dgroupWorkerPool) Submit(fn func()) {
	p.g.Go("subscriber-dispatch", func(ctx context.Context) error {
		// The slot is taken inside the goroutine so that Submit itself never
		// blocks the caller while every slot is busy.
		if p.sem != nil {
			p.sem <- struct{}{}
			defer func() { <-p.sem }()
		}
		fn()
		return nil
	})
}

// Schedule starts a single named goroutine that refreshes source once after
// initialDelay and then every period thereafter, until ctx is done. A source
// is scheduled at most once regardless of how many times Schedule is called
// for the same id — subsequent calls are a no-op (spec.md §4.9's idempotent
// single-scheduling requirement).
func (s *Scheduler) Schedule(source Source, initialDelay, period time.Duration) {
	id := source.ID()

	s.mu.Lock()
	if s.scheduled[id] {
		s.mu.Unlock()
		return
	}
	s.scheduled[id] = true
	s.mu.Unlock()

	var busy sync.Mutex
	s.g.Go("refresh-"+id, func(ctx context.Context) error {
		timer := time.NewTimer(initialDelay)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return nil
			case <-timer.C:
				// Non-blocking reentrancy guard: if the previous refresh of
				// this source is still running when the next tick fires,
				// skip this tick rather than queue up behind it.
				if busy.TryLock() {
					func() {
						defer busy.Unlock()
						source.PushUpdate(ctx)
					}()
				} else {
					dlog.Warnf(ctx, "skipping scheduled refresh of source %q: previous refresh still running", id)
				}
				timer.Reset(period)
			}
		}
	})
}
