package props

import (
	"context"
	"sync"
)

// EffectiveValue is the winning assignment for a key: the value held by the
// highest-priority layer that currently maps it (spec.md §3).
type EffectiveValue struct {
	Value Value
	Layer *Layer
}

// ownershipEntry pairs one key's current EffectiveValue with the mutex that
// linearizes every operation against it — the "per-key atomic region" spec.md
// §4.3 requires.
type ownershipEntry struct {
	mu      sync.Mutex
	current *EffectiveValue
}

// KeyOwnership is the resolver core described in spec.md §4.3: for every
// known key, it tracks which layer currently owns the effective value and
// what that value is, and recomputes ownership transitions as layers report
// sets and unsets.
type KeyOwnership struct {
	mu      sync.RWMutex
	entries map[string]*ownershipEntry

	// emit is called, inside the per-key lock, whenever a key's effective
	// value changes. ev is nil when the key has no effective value at all.
	emit func(ctx context.Context, key string, ev *EffectiveValue)

	// layersBelow returns every layer with strictly lower priority than p,
	// ordered from the nearest (highest priority below p) to the farthest.
	layersBelow func(p int) []*Layer
}

func newKeyOwnership(emit func(context.Context, string, *EffectiveValue), layersBelow func(int) []*Layer) *KeyOwnership {
	return &KeyOwnership{
		entries:     map[string]*ownershipEntry{},
		emit:        emit,
		layersBelow: layersBelow,
	}
}

func (ko *KeyOwnership) entry(key string) *ownershipEntry {
	ko.mu.RLock()
	e, ok := ko.entries[key]
	ko.mu.RUnlock()
	if ok {
		return e
	}
	ko.mu.Lock()
	defer ko.mu.Unlock()
	if e, ok = ko.entries[key]; ok {
		return e
	}
	e = &ownershipEntry{}
	ko.entries[key] = e
	return e
}

// Apply implements the ownership-transition algorithm of spec.md §4.3 for a
// single (key, value, originLayer) operation, where value may be Absent.
func (ko *KeyOwnership) Apply(ctx context.Context, key string, value Value, origin *Layer) {
	e := ko.entry(key)
	e.mu.Lock()
	defer e.mu.Unlock()

	current := e.current

	// 1. First mapping.
	if current == nil {
		if value.IsAbsent() {
			return
		}
		e.current = &EffectiveValue{Value: value, Layer: origin}
		ko.emit(ctx, key, e.current)
		return
	}

	switch cmpLayers(origin, current.Layer) {
	case -1:
		// 2. Originating layer has lower priority than current owner: no-op.
		return

	case 0:
		// 3. Originating layer equals current owner.
		if value.IsAbsent() {
			if ev := ko.findPrevMapping(key, current.Layer); ev != nil {
				e.current = ev
				ko.emit(ctx, key, ev)
			} else {
				e.current = nil
				ko.emit(ctx, key, nil)
			}
			return
		}
		if value.Equal(current.Value) {
			return
		}
		e.current = &EffectiveValue{Value: value, Layer: origin}
		ko.emit(ctx, key, e.current)

	case 1:
		// 4. Originating layer has higher priority than current owner.
		if value.IsAbsent() {
			return
		}
		e.current = &EffectiveValue{Value: value, Layer: origin}
		ko.emit(ctx, key, e.current)
	}
}

// findPrevMapping implements the "walk prev links from the current owner"
// search of spec.md §4.3: the nearest lower-priority layer whose source
// currently maps key, if any.
func (ko *KeyOwnership) findPrevMapping(key string, owner *Layer) *EffectiveValue {
	for _, l := range ko.layersBelow(owner.Priority()) {
		if v := l.CurrentValue(key); !v.IsAbsent() {
			return &EffectiveValue{Value: v, Layer: l}
		}
	}
	return nil
}

// Get returns the current effective value for key, or Absent.
func (ko *KeyOwnership) Get(key string) Value {
	ko.mu.RLock()
	e, ok := ko.entries[key]
	ko.mu.RUnlock()
	if !ok {
		return AbsentValue()
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current == nil {
		return AbsentValue()
	}
	return e.current.Value
}

// GetEffective returns the key's current EffectiveValue, or nil if unowned.
func (ko *KeyOwnership) GetEffective(key string) *EffectiveValue {
	ko.mu.RLock()
	e, ok := ko.entries[key]
	ko.mu.RUnlock()
	if !ok {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}

// GetFromLayer returns the value that layer would define for key regardless
// of which layer currently owns it (spec.md §4.3's "lookup get(key, layer)").
func GetFromLayer(key string, layer *Layer) Value {
	return layer.CurrentValue(key)
}
