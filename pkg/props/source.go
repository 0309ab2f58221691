package props

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Source is the external collaborator contract from spec.md §4.1 and §6: a
// producer of a current snapshot map[string]string that pushes updates to
// registered subscribers.
type Source interface {
	// ID returns a stable identifier for this source.
	ID() string

	// Snapshot returns all currently-defined key->value pairs. It may
	// perform I/O and may return an empty map if the backing store is
	// unavailable; implementation errors are not returned to the caller
	// (spec.md §4.1 Failure semantics) — a Source that fails internally
	// logs the cause and returns an empty map.
	Snapshot(ctx context.Context) map[string]string

	// Register adds a downstream callback to receive future snapshots.
	// Register is not required to be safe for use after PushUpdate has
	// begun delivering to previously registered subscribers concurrently,
	// but Layer only calls it once, at construction.
	Register(subscriber func(map[string]string))

	// PushUpdate collects the current snapshot and delivers it to every
	// registered subscriber.
	PushUpdate(ctx context.Context)
}

// OnDemandSource is the optional extension from spec.md §4.1 and §6: a
// Source whose Snapshot only returns keys previously requested.
type OnDemandSource interface {
	Source

	// LoadOnDemand reports whether this source operates in on-demand mode.
	LoadOnDemand() bool

	// RegisterKey requests that key be loaded, returning a Completion that
	// resolves once the key's value (or absence) has been confirmed, or
	// resolves with an error if the load for that key specifically failed.
	RegisterKey(ctx context.Context, key string) *Completion
}

// Completion is an explicit completion handle for an asynchronous, possibly
// source-specific, load — the "coroutine control flow / futures for
// on-demand loads" contract from spec.md §9: modeled as an explicit handle
// with Then composition rather than assuming cooperative single-threaded
// semantics.
type Completion struct {
	id   uuid.UUID
	mu   sync.Mutex
	done bool
	val  string
	err  error
	subs []func(string, error)
}

// NewCompletion creates an unresolved completion handle.
func NewCompletion() *Completion {
	id, _ := uuid.NewRandom()
	return &Completion{id: id}
}

// ID returns the stable identity of this completion handle.
func (c *Completion) ID() uuid.UUID { return c.id }

// Resolve completes the handle with a value, or an error specific to this
// key's load (spec.md §4.1: "errors specific to one key in an on-demand
// source resolve that key's completion handle with the error"). Resolving an
// already-resolved handle is a no-op.
func (c *Completion) Resolve(val string, err error) {
	c.mu.Lock()
	if c.done {
		c.mu.Unlock()
		return
	}
	c.done, c.val, c.err = true, val, err
	subs := c.subs
	c.subs = nil
	c.mu.Unlock()
	for _, f := range subs {
		f(val, err)
	}
}

// Then registers a callback invoked once the completion resolves. If it has
// already resolved, f is invoked synchronously and immediately.
func (c *Completion) Then(f func(val string, err error)) {
	c.mu.Lock()
	if c.done {
		val, err := c.val, c.err
		c.mu.Unlock()
		f(val, err)
		return
	}
	c.subs = append(c.subs, f)
	c.mu.Unlock()
}

// Wait blocks until the completion resolves and returns its result.
func (c *Completion) Wait() (string, error) {
	ch := make(chan struct{})
	var val string
	var err error
	c.Then(func(v string, e error) {
		val, err = v, e
		close(ch)
	})
	<-ch
	return val, err
}
