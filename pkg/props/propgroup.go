package props

import (
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/hashicorp/go-multierror"

	"github.com/props-sh/props/pkg/errs"
)

// propMember is the narrow, type-erased view a PropGroup needs of one of its
// 2-5 member Props, so groupCore can hold a slice of heterogeneous Prop[T]s.
type propMember interface {
	snapshot() (any, error)
	subscribe(onUpdate func(any), onError func(error))
	encodedNow() string
}

type propAdapter[T any] struct{ p *Prop[T] }

func (a propAdapter[T]) snapshot() (any, error) {
	v, err := a.p.Get()
	return v, err
}

func (a propAdapter[T]) subscribe(onUpdate func(any), onError func(error)) {
	a.p.Subscribe(func(v T) { onUpdate(v) }, onError)
}

func (a propAdapter[T]) encodedNow() string { return a.p.EncodedString() }

func member[T any](p *Prop[T]) propMember { return propAdapter[T]{p: p} }

// groupHolder is PropGroupHolder from spec.md §3: exactly one of tuple and
// err is authoritative at any moment.
type groupHolder struct {
	tuple []any
	err   error
}

func sameHolder(a, b *groupHolder) bool {
	if a == nil || b == nil {
		return a == b
	}
	if (a.err == nil) != (b.err == nil) {
		return false
	}
	if a.err != nil {
		return a.err.Error() == b.err.Error()
	}
	return reflect.DeepEqual(a.tuple, b.tuple)
}

// groupCore implements spec.md §4.6's convergence algorithm, independent of
// how many members there are or their concrete types; Group2..Group5 below
// are thin, type-safe facades over it.
type groupCore struct {
	members []propMember

	holderRef atomic.Pointer[groupHolder]
	lastSent  atomic.Pointer[groupHolder]

	opsMu sync.Mutex
	ops   []func(*groupHolder) *groupHolder

	sendStage sync.Mutex

	proxy *SubscriberProxy[[]any]
}

func newGroupCore(members []propMember, parallelThreshold int, pool WorkerPool) *groupCore {
	tuple := make([]any, len(members))
	var causes []error
	for i, m := range members {
		v, err := m.snapshot()
		tuple[i] = v
		if err != nil {
			causes = append(causes, err)
		}
	}

	g := &groupCore{members: members, proxy: NewSubscriberProxy[[]any](parallelThreshold, pool)}
	initial := &groupHolder{tuple: tuple}
	if len(causes) > 0 {
		initial.err = multiValueReadError(causes)
	}
	g.holderRef.Store(initial)

	for i, m := range members {
		i := i
		m.subscribe(
			func(v any) {
				g.enqueue(func(h *groupHolder) *groupHolder {
					nt := append([]any(nil), h.tuple...)
					nt[i] = v
					return &groupHolder{tuple: nt}
				})
			},
			func(err error) {
				g.enqueue(func(h *groupHolder) *groupHolder {
					return &groupHolder{tuple: h.tuple, err: err}
				})
			},
		)
	}
	return g
}

func multiValueReadError(causes []error) error {
	var me *multierror.Error
	for _, c := range causes {
		me = multierror.Append(me, c)
	}
	return errs.MultiValueRead.Newf("prop group: %d member(s) failed during construction: %w", len(causes), me)
}

// enqueue appends op to the pending-operations FIFO and triggers
// applyOpsAndNotify (spec.md §4.6).
func (g *groupCore) enqueue(op func(*groupHolder) *groupHolder) {
	g.opsMu.Lock()
	g.ops = append(g.ops, op)
	g.opsMu.Unlock()
	g.applyOpsAndNotify()
}

// drain applies every currently-queued op to holderRef via compare-and-swap,
// so concurrent enqueues never lose an update.
func (g *groupCore) drain() {
	for {
		g.opsMu.Lock()
		ops := g.ops
		g.ops = nil
		g.opsMu.Unlock()
		if len(ops) == 0 {
			return
		}
		for _, op := range ops {
			for {
				old := g.holderRef.Load()
				next := op(old)
				if g.holderRef.CompareAndSwap(old, next) {
					break
				}
			}
		}
	}
}

// applyOpsAndNotify is the convergence algorithm: drain, check against the
// last delivered tuple without locking (fast path), and only under sendStage
// re-drain (to absorb anything that landed while waiting) and actually
// deliver. Both duplicate suppression and post-lock re-draining are mandated
// by spec.md §9's resolution of the open question over the source's
// drifting Quad/Tuple iterations.
func (g *groupCore) applyOpsAndNotify() {
	g.drain()
	if sameHolder(g.holderRef.Load(), g.lastSent.Load()) {
		return
	}

	g.sendStage.Lock()
	defer g.sendStage.Unlock()

	g.drain()
	final := g.holderRef.Load()
	if sameHolder(final, g.lastSent.Load()) {
		return
	}
	g.lastSent.Store(final)

	if final.err != nil {
		g.proxy.HandleError(final.err)
	} else {
		g.proxy.SendUpdate(append([]any(nil), final.tuple...))
	}
}

// get returns the current tuple, or an error if the group is in error state.
func (g *groupCore) get() ([]any, error) {
	h := g.holderRef.Load()
	if h.err != nil {
		return nil, h.err
	}
	return h.tuple, nil
}

func (g *groupCore) subscribe(onUpdate func([]any), onError func(error)) {
	g.proxy.Subscribe(onUpdate, onError)
}

// identityConverter is the pass-through Converter[string] that backs a
// PropGroup's renderTemplate output: the raw string it decodes is always
// already the rendered template, never user-supplied text to re-parse.
type identityConverter struct{}

func (identityConverter) Decode(raw string, absent bool) (string, error) {
	if absent {
		return "", nil
	}
	return raw, nil
}

func (identityConverter) Encode(v string) string { return v }

// renderTemplate implements spec.md §4.6: a derived Prop<string> holding
// format with positional %s placeholders substituted by each member's
// converter-encoded string form, "null" for a member with no value.
func (g *groupCore) renderTemplate(format string, parallelThreshold int, pool WorkerPool) *Prop[string] {
	out := NewProp[string]("template", identityConverter{}, nil, parallelThreshold, pool)
	render := func() {
		args := make([]any, len(g.members))
		for i, m := range g.members {
			args[i] = m.encodedNow()
		}
		out.SetValue(StringValue(fmt.Sprintf(format, args...)))
	}
	g.subscribe(func([]any) { render() }, func(error) { render() })
	render()
	return out
}
