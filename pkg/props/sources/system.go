package sources

import (
	"context"
	"sync"
)

// System stands in for Java "system properties": an explicitly-set
// map[string]string a process populates at startup (e.g. from -D-style
// flags), distinct from the OS environment (spec.md §9 Supplemented
// Features).
type System struct {
	pushable
	id string

	mu   sync.RWMutex
	vals map[string]string
}

// NewSystem creates an empty System source with the given id.
func NewSystem(id string) *System {
	return &System{id: id, vals: map[string]string{}}
}

func (s *System) ID() string { return s.id }

// Set assigns key=value and pushes the updated snapshot to subscribers.
func (s *System) Set(ctx context.Context, key, value string) {
	s.mu.Lock()
	s.vals[key] = value
	s.mu.Unlock()
	s.PushUpdate(ctx)
}

// Unset removes key and pushes the updated snapshot to subscribers.
func (s *System) Unset(ctx context.Context, key string) {
	s.mu.Lock()
	delete(s.vals, key)
	s.mu.Unlock()
	s.PushUpdate(ctx)
}

func (s *System) Snapshot(ctx context.Context) map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.vals))
	for k, v := range s.vals {
		out[k] = v
	}
	return out
}

func (s *System) PushUpdate(ctx context.Context) {
	s.push(ctx, s.Snapshot(ctx))
}
