package props

// Group2 is an atomic tuple of 2 Props (spec.md §4.6): it publishes a new
// pair after each member update that changes the tuple, coalesced through
// groupCore; it does not wait for every member to have a value.
type Group2[A, B any] struct{ g *groupCore }

// NewGroup2 builds a Group2 over a and b, performing the synchronous initial
// read spec.md §4.6 describes (a MultiValueRead error if either member is
// currently unset).
func NewGroup2[A, B any](a *Prop[A], b *Prop[B], parallelThreshold int, pool WorkerPool) *Group2[A, B] {
	return &Group2[A, B]{g: newGroupCore([]propMember{member(a), member(b)}, parallelThreshold, pool)}
}

// Get returns the current tuple, or the group's error while it is in error
// state (a MultiValueRead from construction, or a member's error). The next
// successful member update clears that state; a member that is still unset
// then contributes its zero value.
func (g *Group2[A, B]) Get() (A, B, error) {
	var za A
	var zb B
	tuple, err := g.g.get()
	if err != nil {
		return za, zb, err
	}
	return tuple[0].(A), tuple[1].(B), nil
}

// Subscribe delivers every settled tuple, or the group's current error.
func (g *Group2[A, B]) Subscribe(onUpdate func(A, B), onError func(error)) {
	g.g.subscribe(func(t []any) {
		if onUpdate != nil {
			onUpdate(t[0].(A), t[1].(B))
		}
	}, onError)
}

// RenderTemplate returns a derived Prop<string>, per spec.md §4.6.
func (g *Group2[A, B]) RenderTemplate(format string, parallelThreshold int, pool WorkerPool) *Prop[string] {
	return g.g.renderTemplate(format, parallelThreshold, pool)
}

// Group3 is the 3-member analogue of Group2.
type Group3[A, B, C any] struct{ g *groupCore }

func NewGroup3[A, B, C any](a *Prop[A], b *Prop[B], c *Prop[C], parallelThreshold int, pool WorkerPool) *Group3[A, B, C] {
	return &Group3[A, B, C]{g: newGroupCore([]propMember{member(a), member(b), member(c)}, parallelThreshold, pool)}
}

func (g *Group3[A, B, C]) Get() (A, B, C, error) {
	var za A
	var zb B
	var zc C
	tuple, err := g.g.get()
	if err != nil {
		return za, zb, zc, err
	}
	return tuple[0].(A), tuple[1].(B), tuple[2].(C), nil
}

func (g *Group3[A, B, C]) Subscribe(onUpdate func(A, B, C), onError func(error)) {
	g.g.subscribe(func(t []any) {
		if onUpdate != nil {
			onUpdate(t[0].(A), t[1].(B), t[2].(C))
		}
	}, onError)
}

func (g *Group3[A, B, C]) RenderTemplate(format string, parallelThreshold int, pool WorkerPool) *Prop[string] {
	return g.g.renderTemplate(format, parallelThreshold, pool)
}

// Group4 is the 4-member analogue of Group2.
type Group4[A, B, C, D any] struct{ g *groupCore }

func NewGroup4[A, B, C, D any](a *Prop[A], b *Prop[B], c *Prop[C], d *Prop[D], parallelThreshold int, pool WorkerPool) *Group4[A, B, C, D] {
	return &Group4[A, B, C, D]{g: newGroupCore([]propMember{member(a), member(b), member(c), member(d)}, parallelThreshold, pool)}
}

func (g *Group4[A, B, C, D]) Get() (A, B, C, D, error) {
	var za A
	var zb B
	var zc C
	var zd D
	tuple, err := g.g.get()
	if err != nil {
		return za, zb, zc, zd, err
	}
	return tuple[0].(A), tuple[1].(B), tuple[2].(C), tuple[3].(D), nil
}

func (g *Group4[A, B, C, D]) Subscribe(onUpdate func(A, B, C, D), onError func(error)) {
	g.g.subscribe(func(t []any) {
		if onUpdate != nil {
			onUpdate(t[0].(A), t[1].(B), t[2].(C), t[3].(D))
		}
	}, onError)
}

func (g *Group4[A, B, C, D]) RenderTemplate(format string, parallelThreshold int, pool WorkerPool) *Prop[string] {
	return g.g.renderTemplate(format, parallelThreshold, pool)
}

// Group5 is the 5-member analogue of Group2, the spec's upper bound on
// tuple arity (spec.md §4.6).
type Group5[A, B, C, D, E any] struct{ g *groupCore }

func NewGroup5[A, B, C, D, E any](a *Prop[A], b *Prop[B], c *Prop[C], d *Prop[D], e *Prop[E], parallelThreshold int, pool WorkerPool) *Group5[A, B, C, D, E] {
	return &Group5[A, B, C, D, E]{g: newGroupCore([]propMember{member(a), member(b), member(c), member(d), member(e)}, parallelThreshold, pool)}
}

func (g *Group5[A, B, C, D, E]) Get() (A, B, C, D, E, error) {
	var za A
	var zb B
	var zc C
	var zd D
	var ze E
	tuple, err := g.g.get()
	if err != nil {
		return za, zb, zc, zd, ze, err
	}
	return tuple[0].(A), tuple[1].(B), tuple[2].(C), tuple[3].(D), tuple[4].(E), nil
}

func (g *Group5[A, B, C, D, E]) Subscribe(onUpdate func(A, B, C, D, E), onError func(error)) {
	g.g.subscribe(func(t []any) {
		if onUpdate != nil {
			onUpdate(t[0].(A), t[1].(B), t[2].(C), t[3].(D), t[4].(E))
		}
	}, onError)
}

func (g *Group5[A, B, C, D, E]) RenderTemplate(format string, parallelThreshold int, pool WorkerPool) *Prop[string] {
	return g.g.renderTemplate(format, parallelThreshold, pool)
}
