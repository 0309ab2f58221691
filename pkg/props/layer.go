package props

import (
	"context"
	"sync"
	"sync/atomic"
)

var layerSeq int64

// Layer pairs a Source with a priority and participates in a registry's
// ordered chain (spec.md §3, §4.2). Per the REDESIGN FLAG in spec.md §9, the
// chain is represented as a priority-sorted slice owned by the Registry
// rather than explicit prev/next pointers; Prev/Next below are computed
// accessors over that slice. KeyOwnership's previous-owner walk (spec.md
// §4.3) does not call them: it iterates Registry.layersBelow instead.
type Layer struct {
	source   Source
	priority int
	seq      int64 // registration order, for the defensive tie-break rule

	registry registryLink // back-reference only, not ownership (spec.md §9)

	mu   sync.Mutex
	last map[string]string
}

// registryLink is the narrow back-reference a Layer needs: look up
// neighbors in priority order, and feed diffed updates back into ownership.
type registryLink interface {
	layerBefore(l *Layer) *Layer
	layerAfter(l *Layer) *Layer
	applyLayerUpdate(ctx context.Context, key string, value Value, origin *Layer)
}

func newLayer(source Source, priority int, reg registryLink) *Layer {
	return &Layer{
		source:   source,
		priority: priority,
		seq:      atomic.AddInt64(&layerSeq, 1),
		registry: reg,
		last:     map[string]string{},
	}
}

// Source returns the wrapped source.
func (l *Layer) Source() Source { return l.source }

// Priority returns this layer's priority; lower values were added earlier.
func (l *Layer) Priority() int { return l.priority }

// Prev returns the layer with the next-lower priority, or nil if l has the
// lowest priority in its chain.
func (l *Layer) Prev() *Layer {
	if l.registry == nil {
		return nil
	}
	return l.registry.layerBefore(l)
}

// Next returns the layer with the next-higher priority, or nil if l has the
// highest priority in its chain.
func (l *Layer) Next() *Layer {
	if l.registry == nil {
		return nil
	}
	return l.registry.layerAfter(l)
}

// CurrentValue returns this layer's most recently pushed value for key, or
// Absent. This is "a source's current mapping" as referenced by spec.md
// §4.3 — the registry caches one snapshot per layer rather than re-querying
// the source on every lookup.
func (l *Layer) CurrentValue(key string) Value {
	l.mu.Lock()
	defer l.mu.Unlock()
	if v, ok := l.last[key]; ok {
		return StringValue(v)
	}
	return AbsentValue()
}

// onSourceUpdate diffs a freshly pushed snapshot against the previous one and
// feeds a (set|unset) operation per differing key into the registry
// (spec.md §4.2).
func (l *Layer) onSourceUpdate(ctx context.Context, snap map[string]string) {
	l.mu.Lock()
	old := l.last
	l.last = snap
	l.mu.Unlock()

	for k, v := range snap {
		if ov, ok := old[k]; !ok || ov != v {
			l.registry.applyLayerUpdate(ctx, k, StringValue(v), l)
		}
	}
	for k := range old {
		if _, ok := snap[k]; !ok {
			l.registry.applyLayerUpdate(ctx, k, AbsentValue(), l)
		}
	}
}

// cmpLayers orders a relative to b: -1 if a is lower priority, 0 if they are
// the same layer, 1 if a is higher priority. Priorities are unique within a
// chain by invariant; the seq tie-break only fires under the defensive guard
// spec.md §4.3 calls for.
func cmpLayers(a, b *Layer) int {
	if a == b {
		return 0
	}
	switch {
	case a.priority < b.priority:
		return -1
	case a.priority > b.priority:
		return 1
	case a.seq < b.seq:
		return -1
	default:
		return 1
	}
}
