// Package errs implements the error taxonomy from which every user-facing
// failure in the props registry is built: a small Category enum attached to
// an underlying error, so callers can branch on "what kind of thing went
// wrong" with errors.As/GetCategory while still retaining the original cause
// through Unwrap.
package errs

import (
	"errors"
	"fmt"
)

// Category classifies a registry error into one of the kinds enumerated in
// the error handling design: where it originated and what a consumer should
// do about it.
type Category int

const (
	// OK is the category of a nil error.
	OK = Category(iota)
	// SourceUnavailable: a source's backing store could not be read. The
	// prior snapshot for that layer remains authoritative.
	SourceUnavailable
	// ConversionFailed: a converter rejected a raw value for a bound prop.
	ConversionFailed
	// ValidationFailed: a prop-specific validator rejected a value.
	ValidationFailed
	// MultiValueRead: one or more PropGroup members failed during the
	// group's construction-time synchronous read.
	MultiValueRead
	// InvalidConfig: the source-declaration parser encountered an unknown
	// type or malformed line.
	InvalidConfig
	// SubscriberException: an installed handler panicked or returned an
	// error; isolated and routed to its paired error handler.
	SubscriberException
	// Unknown is returned by GetCategory for errors this package didn't mint.
	Unknown
)

func (c Category) String() string {
	switch c {
	case OK:
		return "OK"
	case SourceUnavailable:
		return "SourceUnavailable"
	case ConversionFailed:
		return "ConversionFailed"
	case ValidationFailed:
		return "ValidationFailed"
	case MultiValueRead:
		return "MultiValueRead"
	case InvalidConfig:
		return "InvalidConfig"
	case SubscriberException:
		return "SubscriberException"
	default:
		return "Unknown"
	}
}

type categorized struct {
	error
	category Category
}

// New creates a new categorized error from an error or a string. A nil
// argument yields a nil error, matching the convention that wrapping "no
// error" should stay "no error".
func (c Category) New(v interface{}) error {
	var err error
	switch v := v.(type) {
	case nil:
		return nil
	case error:
		err = v
	case string:
		err = errors.New(v)
	default:
		err = fmt.Errorf("%v", v)
	}
	return &categorized{error: err, category: c}
}

// Newf creates a categorized error from a format string, honoring %w the same
// way fmt.Errorf does.
func (c Category) Newf(format string, a ...interface{}) error {
	return &categorized{error: fmt.Errorf(format, a...), category: c}
}

// Unwrap exposes the underlying cause to errors.Is/errors.As.
func (ce *categorized) Unwrap() error {
	return ce.error
}

// GetCategory returns the category attached by New/Newf, OK for a nil error,
// and Unknown for any other error (including one wrapping a categorized error
// nowhere in its chain).
func GetCategory(err error) Category {
	if err == nil {
		return OK
	}
	for {
		if ce, ok := err.(*categorized); ok {
			return ce.category
		}
		if err = errors.Unwrap(err); err == nil {
			return Unknown
		}
	}
}
