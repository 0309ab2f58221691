package props

import (
	"context"
	"sync"

	"github.com/datawire/dlib/dlog"
)

// Fetcher is the backing collaborator for a RemoteSecretStore: given a key,
// it returns the current value and whether the key exists, or an error
// specific to that one lookup (spec.md §4.1's on-demand failure semantics).
type Fetcher func(ctx context.Context, key string) (value string, found bool, err error)

// RemoteSecretStore is the on-demand Source spec.md §4.1 and §9 describe: a
// stand-in for a remote secret manager (Vault, AWS Secrets Manager, and
// similar), where mirroring the entire backing store into Snapshot up front
// is neither possible nor desirable. Snapshot only ever reports keys a prior
// RegisterKey call has confirmed present; everything else is fetched lazily,
// one key at a time, dispatched through a WorkerPool so a slow or hanging
// backend can't block the caller.
type RemoteSecretStore struct {
	id    string
	fetch Fetcher
	pool  WorkerPool

	mu       sync.Mutex
	resolved map[string]string
	pending  map[string]*Completion
	subs     []func(map[string]string)
}

// NewRemoteSecretStore creates an on-demand source with the given id,
// dispatching lookups through fetch. A nil pool uses DefaultWorkerPool.
func NewRemoteSecretStore(id string, fetch Fetcher, pool WorkerPool) *RemoteSecretStore {
	if pool == nil {
		pool = DefaultWorkerPool
	}
	return &RemoteSecretStore{
		id:       id,
		fetch:    fetch,
		pool:     pool,
		resolved: map[string]string{},
		pending:  map[string]*Completion{},
	}
}

func (r *RemoteSecretStore) ID() string { return r.id }

// LoadOnDemand always reports true: this Source never proactively mirrors
// its backing store.
func (r *RemoteSecretStore) LoadOnDemand() bool { return true }

// Snapshot returns only the keys previously confirmed present via RegisterKey
// (spec.md §4.1: "snapshot() returns only the set of keys previously
// requested").
func (r *RemoteSecretStore) Snapshot(ctx context.Context) map[string]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]string, len(r.resolved))
	for k, v := range r.resolved {
		out[k] = v
	}
	return out
}

// Register adds a downstream callback to receive future snapshots, delivered
// whenever a RegisterKey fetch confirms a new key.
func (r *RemoteSecretStore) Register(subscriber func(map[string]string)) {
	r.mu.Lock()
	r.subs = append(r.subs, subscriber)
	r.mu.Unlock()
}

func (r *RemoteSecretStore) PushUpdate(ctx context.Context) {
	r.push(ctx, r.Snapshot(ctx))
}

func (r *RemoteSecretStore) push(ctx context.Context, snap map[string]string) {
	r.mu.Lock()
	subs := append([]func(map[string]string)(nil), r.subs...)
	r.mu.Unlock()
	for _, s := range subs {
		s(snap)
	}
}

// RegisterKey queues an asynchronous fetch for key and returns a Completion
// that resolves once the fetch confirms the key's value or absence, or fails
// with an error specific to that key (spec.md §4.1). A key already in flight
// shares the in-flight Completion rather than starting a second fetch.
func (r *RemoteSecretStore) RegisterKey(ctx context.Context, key string) *Completion {
	r.mu.Lock()
	if c, ok := r.pending[key]; ok {
		r.mu.Unlock()
		return c
	}
	c := NewCompletion()
	r.pending[key] = c
	r.mu.Unlock()

	r.pool.Submit(func() {
		val, found, err := r.fetch(ctx, key)

		r.mu.Lock()
		delete(r.pending, key)
		if err == nil && found {
			r.resolved[key] = val
		}
		snap := make(map[string]string, len(r.resolved))
		for k, v := range r.resolved {
			snap[k] = v
		}
		r.mu.Unlock()

		if err != nil {
			dlog.Errorf(ctx, "remote secret store %q: key %q: %v", r.id, key, err)
			c.Resolve("", err)
			return
		}
		if !found {
			c.Resolve("", nil)
			return
		}
		c.Resolve(val, nil)
		r.push(ctx, snap)
	})
	return c
}

var _ OnDemandSource = (*RemoteSecretStore)(nil)
