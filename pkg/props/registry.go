package props

import (
	"context"
	"sort"
	"sync"
	"time"
)

// boundProp is the narrow, type-erased view a Registry needs of a bound
// Prop[T]; *Prop[T] satisfies it directly.
type boundProp interface {
	Key() string
	SetValue(Value)
}

// Registry is the assembly point described in spec.md §4.8: it owns the
// layer chain, the KeyOwnership resolver, and the set of Props bound to
// keys, and wires source updates through to prop notifications.
type Registry struct {
	ctx context.Context

	chain     []*Layer
	ownership *KeyOwnership

	mu    sync.RWMutex
	bound map[string][]boundProp
}

// NewRegistry builds the layer chain from sources in order (priorities 1..N,
// lowest first) and registers each layer as a subscriber of its source, per
// spec.md §4.8's construction algorithm.
func NewRegistry(ctx context.Context, sources ...Source) *Registry {
	r := &Registry{ctx: ctx, bound: map[string][]boundProp{}}
	r.ownership = newKeyOwnership(r.emitOwnership, r.layersBelow)

	for i, src := range sources {
		r.chain = append(r.chain, newLayer(src, i+1, r))
	}
	for _, layer := range r.chain {
		layer := layer
		layer.Source().Register(func(snap map[string]string) {
			layer.onSourceUpdate(r.ctx, snap)
		})
	}
	return r
}

// Layers returns the registry's layer chain, lowest priority first.
func (r *Registry) Layers() []*Layer { return append([]*Layer(nil), r.chain...) }

// indexOf binary-searches the chain, which is sorted ascending by cmpLayers.
func (r *Registry) indexOf(l *Layer) int {
	i := sort.Search(len(r.chain), func(i int) bool { return cmpLayers(r.chain[i], l) >= 0 })
	if i < len(r.chain) && r.chain[i] == l {
		return i
	}
	return -1
}

// layerBefore/layerAfter/applyLayerUpdate implement the registryLink
// contract layer.go depends on.
func (r *Registry) layerBefore(l *Layer) *Layer {
	if i := r.indexOf(l); i > 0 {
		return r.chain[i-1]
	}
	return nil
}

func (r *Registry) layerAfter(l *Layer) *Layer {
	if i := r.indexOf(l); i >= 0 && i+1 < len(r.chain) {
		return r.chain[i+1]
	}
	return nil
}

func (r *Registry) applyLayerUpdate(ctx context.Context, key string, value Value, origin *Layer) {
	r.ownership.Apply(ctx, key, value, origin)
}

// layersBelow implements the KeyOwnership contract: every layer with
// strictly lower priority than p, nearest first. The chain is kept sorted
// ascending by priority, so scanning it back-to-front and filtering
// naturally yields nearest-to-farthest order.
func (r *Registry) layersBelow(p int) []*Layer {
	var out []*Layer
	for i := len(r.chain) - 1; i >= 0; i-- {
		if r.chain[i].Priority() < p {
			out = append(out, r.chain[i])
		}
	}
	return out
}

// emitOwnership is KeyOwnership's notification callback: it fans the new
// effective value out to every Prop bound to key.
func (r *Registry) emitOwnership(ctx context.Context, key string, ev *EffectiveValue) {
	r.mu.RLock()
	props := append([]boundProp(nil), r.bound[key]...)
	r.mu.RUnlock()

	v := AbsentValue()
	if ev != nil {
		v = ev.Value
	}
	for _, p := range props {
		p.SetValue(v)
	}
}

// Bind inserts p into the registry's bound set and performs the synchronous
// initial read spec.md §4.8 specifies; every subsequent ownership change for
// p.Key() calls p.SetValue again.
func (r *Registry) Bind(p boundProp) {
	key := p.Key()
	r.mu.Lock()
	r.bound[key] = append(r.bound[key], p)
	r.mu.Unlock()
	p.SetValue(r.ownership.Get(key))
}

// RegistryGet implements spec.md §4.8's get(key, converter): the current
// effective value run through converter, including its null handling when
// the key is absent. It is a free function, not a Registry method, because
// Go methods cannot introduce their own type parameters.
func RegistryGet[T any](r *Registry, key string, converter Converter[T]) (T, error) {
	v := r.ownership.Get(key)
	return converter.Decode(v.String(), v.IsAbsent())
}

// ScheduleRefresh arranges periodic refresh of every layer's source on
// scheduler, per spec.md §4.7/§4.9. Sources that only ever push updates
// reactively (e.g. the file-watched source, or a Source with no meaningful
// poll) can simply ignore repeated PushUpdate calls.
func (r *Registry) ScheduleRefresh(scheduler *Scheduler, initialDelay, period time.Duration) {
	for _, l := range r.chain {
		scheduler.Schedule(l.Source(), initialDelay, period)
	}
}
