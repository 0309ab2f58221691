package props

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/props-sh/props/pkg/errs"
)

// Converter is the pluggable string<->typed-value contract from spec.md §6.
// Concrete converters live in pkg/props/convert; they are treated as an
// external collaborator, same as the spec specifies.
type Converter[T any] interface {
	// Decode converts a raw value. absent is true when the key has no
	// mapping at all, as opposed to being mapped to "".
	Decode(raw string, absent bool) (T, error)
	Encode(v T) string
}

// Prop is the typed, named view over the registry described in spec.md §4.5:
// it holds the last successfully converted value, an error state, and a
// monotonic epoch, and republishes through an embedded SubscriberProxy.
type Prop[T any] struct {
	key       string
	converter Converter[T]
	validate  func(T) error

	proxy *SubscriberProxy[T]

	mu       sync.Mutex
	value    T
	hasValue bool
	err      error

	epoch int64
}

// NewProp creates a Prop bound to no registry yet; Registry.Bind completes
// the wiring described in spec.md §4.8.
func NewProp[T any](key string, converter Converter[T], validate func(T) error, parallelThreshold int, pool WorkerPool) *Prop[T] {
	return &Prop[T]{
		key:       key,
		converter: converter,
		validate:  validate,
		proxy:     NewSubscriberProxy[T](parallelThreshold, pool),
	}
}

// Key returns the prop's bound name.
func (p *Prop[T]) Key() string { return p.key }

// Epoch returns the monotonically non-decreasing counter incremented on
// every observed value or error event.
func (p *Prop[T]) Epoch() int64 { return atomic.LoadInt64(&p.epoch) }

// SetValue runs the converter (and validator, if any) over raw and either
// stores the typed result and publishes an update, or enters the error state
// and publishes an error (spec.md §4.5, §7 ConversionFailed/ValidationFailed).
func (p *Prop[T]) SetValue(raw Value) {
	typed, err := p.converter.Decode(raw.String(), raw.IsAbsent())
	if err == nil && p.validate != nil {
		if verr := p.validate(typed); verr != nil {
			err = errs.ValidationFailed.Newf("prop %q: validation failed: %w", p.key, verr)
		}
	} else if err != nil {
		err = errs.ConversionFailed.Newf("prop %q: conversion failed: %w", p.key, err)
	}

	atomic.AddInt64(&p.epoch, 1)
	p.mu.Lock()
	if err != nil {
		p.err = err
	} else {
		p.value, p.hasValue, p.err = typed, true, nil
	}
	p.mu.Unlock()

	if err != nil {
		p.proxy.HandleError(err)
	} else {
		p.proxy.SendUpdate(typed)
	}
}

// Get returns the last successfully stored value, or an error if the prop is
// currently in an error state or has never received a value.
func (p *Prop[T]) Get() (T, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		var zero T
		return zero, p.err
	}
	if !p.hasValue {
		var zero T
		return zero, fmt.Errorf("prop %q: no value", p.key)
	}
	return p.value, nil
}

// EncodedString returns the converter-encoded string form of the current
// value, or "null" if the prop has no value — the substitution rule
// PropGroup.renderTemplate uses for an unset slot (spec.md §4.6).
func (p *Prop[T]) EncodedString() string {
	v, err := p.Get()
	if err != nil {
		return "null"
	}
	return p.converter.Encode(v)
}

// Subscribe forwards to the embedded SubscriberProxy (spec.md §4.5).
func (p *Prop[T]) Subscribe(onUpdate func(T), onError func(error)) {
	p.proxy.Subscribe(onUpdate, onError)
}
