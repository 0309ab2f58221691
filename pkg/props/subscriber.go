package props

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// WorkerPool is the seam the SubscriberProxy dispatches offloaded handler
// calls through, so a Registry can share one pool (e.g. a dgroup.Group, see
// Scheduler) across every Prop's proxy instead of spawning an unbounded
// number of goroutines.
type WorkerPool interface {
	Submit(fn func())
}

// goWorkerPool is the default WorkerPool: one goroutine per submission. Fine
// for modest fan-out; a Prop created with a Scheduler's WorkerPool dispatches
// through that Scheduler's dgroup.Group instead (see scheduler.go).
type goWorkerPool struct{}

func (goWorkerPool) Submit(fn func()) { go fn() }

// DefaultWorkerPool is shared by SubscriberProxy instances that aren't given
// one explicitly.
var DefaultWorkerPool WorkerPool = goWorkerPool{}

// SubscriberProxy is the per-prop multicast described in spec.md §4.4: it
// delivers value and error events to subscribers with epoch-ordered,
// staleness-rejecting, monotonic semantics, and isolates a throwing handler
// from the rest.
type SubscriberProxy[V any] struct {
	mu             sync.Mutex
	updateHandlers []func(V)
	errorHandlers  []func(error)

	epoch      int64
	lastEpoch  int64
	errEpoch   int64
	lastErrEpoch int64

	parallelThreshold int
	pool              WorkerPool
}

// NewSubscriberProxy creates a proxy that dispatches synchronously while it
// has fewer than parallelThreshold handlers of a given kind, and on pool once
// it has parallelThreshold or more. A nil pool uses DefaultWorkerPool.
func NewSubscriberProxy[V any](parallelThreshold int, pool WorkerPool) *SubscriberProxy[V] {
	if pool == nil {
		pool = DefaultWorkerPool
	}
	return &SubscriberProxy[V]{parallelThreshold: parallelThreshold, pool: pool}
}

// Subscribe appends onUpdate/onError to their respective handler sequences.
// Both are wrapped so that a panic inside onUpdate is recovered and routed to
// onError instead of propagating to the caller or to other subscribers; a
// panic inside onError is recovered and silently dropped, since there is no
// further channel to route it through without breaking isolation.
func (p *SubscriberProxy[V]) Subscribe(onUpdate func(V), onError func(error)) {
	wrappedError := func(err error) {
		defer func() { _ = recover() }()
		if onError != nil {
			onError(err)
		}
	}
	wrappedUpdate := func(v V) {
		defer func() {
			if r := recover(); r != nil {
				wrappedError(panicError(r))
			}
		}()
		if onUpdate != nil {
			onUpdate(v)
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.updateHandlers = append(p.updateHandlers, wrappedUpdate)
	p.errorHandlers = append(p.errorHandlers, wrappedError)
}

func panicError(r interface{}) error {
	if err, ok := r.(error); ok {
		return err
	}
	return fmt.Errorf("%v", r)
}

// casMax atomically sets *addr = max(*addr, e) and reports whether e became
// the new maximum — i.e. whether e is still the freshest epoch seen.
func casMax(addr *int64, e int64) bool {
	for {
		old := atomic.LoadInt64(addr)
		if e <= old {
			return false
		}
		if atomic.CompareAndSwapInt64(addr, old, e) {
			return true
		}
	}
}

// SendUpdate atomically assigns value a fresh epoch and dispatches it to
// every update handler, unless a fresher event has already claimed the
// "latest" slot (spec.md §4.4 Last-writer-wins).
func (p *SubscriberProxy[V]) SendUpdate(value V) {
	e := atomic.AddInt64(&p.epoch, 1)
	if !casMax(&p.lastEpoch, e) {
		return
	}
	p.mu.Lock()
	handlers := make([]func(V), len(p.updateHandlers))
	copy(handlers, p.updateHandlers)
	p.mu.Unlock()

	if len(handlers) < p.parallelThreshold {
		for _, h := range handlers {
			h(value)
		}
		return
	}
	for _, h := range handlers {
		h := h
		p.pool.Submit(func() { h(value) })
	}
}

// HandleError runs the identical epoch/staleness protocol over the error
// handlers.
func (p *SubscriberProxy[V]) HandleError(err error) {
	e := atomic.AddInt64(&p.errEpoch, 1)
	if !casMax(&p.lastErrEpoch, e) {
		return
	}
	p.mu.Lock()
	handlers := make([]func(error), len(p.errorHandlers))
	copy(handlers, p.errorHandlers)
	p.mu.Unlock()

	if len(handlers) < p.parallelThreshold {
		for _, h := range handlers {
			h(err)
		}
		return
	}
	for _, h := range handlers {
		h := h
		p.pool.Submit(func() { h(err) })
	}
}
