package props_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/datawire/dlib/dlog"
	"github.com/stretchr/testify/assert"

	"github.com/props-sh/props/pkg/props"
)

type countingSource struct {
	id    string
	count int64
	subs  []func(map[string]string)
}

func (s *countingSource) ID() string { return s.id }
func (s *countingSource) Snapshot(ctx context.Context) map[string]string {
	return map[string]string{"n": ""}
}
func (s *countingSource) Register(subscriber func(map[string]string)) {
	s.subs = append(s.subs, subscriber)
}
func (s *countingSource) PushUpdate(ctx context.Context) {
	atomic.AddInt64(&s.count, 1)
}

func TestScheduler_IdempotentScheduling(t *testing.T) {
	ctx, cancel := context.WithTimeout(dlog.NewTestContext(t, false), 300*time.Millisecond)
	defer cancel()

	src := &countingSource{id: "s"}
	sched := props.NewScheduler(ctx, 0)
	sched.Schedule(src, time.Millisecond, 20*time.Millisecond)
	sched.Schedule(src, time.Millisecond, 20*time.Millisecond) // must be a no-op

	<-ctx.Done()
	_ = sched.Wait()

	// One refresh goroutine means roughly ctx-lifetime/period refreshes; two
	// goroutines racing the same source would roughly double that. Assert a
	// generous upper bound rather than an exact count to avoid timing
	// flakiness.
	assert.Less(t, atomic.LoadInt64(&src.count), int64(30))
}

// TestScheduler_WorkerPoolBoundsConcurrency exercises the WorkerPool path
// TestScheduler_IdempotentScheduling doesn't: a WorkerPool built with
// RegistryOptions.Workers == 2 never runs more than 2 submitted dispatches
// at once, even when far more than 2 are submitted at the same time.
func TestScheduler_WorkerPoolBoundsConcurrency(t *testing.T) {
	ctx, cancel := context.WithTimeout(dlog.NewTestContext(t, false), 2*time.Second)
	defer cancel()

	sched := props.NewScheduler(ctx, 2)
	pool := sched.WorkerPool()

	var mu sync.Mutex
	var current, maxSeen int
	release := make(chan struct{})
	var wg sync.WaitGroup

	const submissions = 8
	wg.Add(submissions)
	for i := 0; i < submissions; i++ {
		pool.Submit(func() {
			defer wg.Done()
			mu.Lock()
			current++
			if current > maxSeen {
				maxSeen = current
			}
			mu.Unlock()

			<-release

			mu.Lock()
			current--
			mu.Unlock()
		})
	}

	time.Sleep(100 * time.Millisecond)
	mu.Lock()
	assert.LessOrEqual(t, maxSeen, 2, "worker pool must not exceed its configured concurrency")
	mu.Unlock()

	close(release)
	wg.Wait()
}
