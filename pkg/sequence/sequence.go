// Package sequence provides the time-series abstraction used by flow and
// transformer parameters. A Sequence is an index-addressable series of
// float64 values backed either by a constant (valid at every index) or by an
// explicit slice (bounded, out-of-range access is an error).
package sequence

import (
	"errors"
	"fmt"
)

// ErrIndexOutOfRange is returned when an explicit sequence is indexed beyond
// its defined length.
var ErrIndexOutOfRange = errors.New("sequence index out of range")

// IndexError provides structured information about a failed sequence access.
type IndexError struct {
	Index int
	Len   int
}

// Error implements the error interface.
func (e *IndexError) Error() string {
	return fmt.Sprintf("sequence index %d out of range [0,%d)", e.Index, e.Len)
}

// Unwrap returns ErrIndexOutOfRange for error chain support.
func (e *IndexError) Unwrap() error {
	return ErrIndexOutOfRange
}

// Sequence is an immutable, 0-indexed series of float64 values.
type Sequence interface {
	// At returns the value at index i. Constant-backed sequences never fail
	// for non-negative i; explicit sequences fail with ErrIndexOutOfRange
	// beyond their length.
	At(i int) (float64, error)

	// Len returns the number of defined entries, or -1 when the sequence is
	// backed by a constant and valid at every index.
	Len() int

	// IsConstant reports whether the sequence is backed by a single value.
	IsConstant() bool

	// Values materializes the first n entries. For constant-backed sequences
	// the constant is broadcast n times; for explicit sequences n must not
	// exceed Len.
	Values(n int) ([]float64, error)
}

type constant struct {
	value float64
}

type series struct {
	values []float64
}

// Constant returns a Sequence that yields v at every non-negative index.
func Constant(v float64) Sequence {
	return constant{value: v}
}

// FromSlice returns a Sequence backed by an explicit copy of values.
func FromSlice(values []float64) Sequence {
	copied := make([]float64, len(values))
	copy(copied, values)
	return series{values: copied}
}

func (c constant) At(i int) (float64, error) {
	if i < 0 {
		return 0, &IndexError{Index: i, Len: -1}
	}
	return c.value, nil
}

func (c constant) Len() int         { return -1 }
func (c constant) IsConstant() bool { return true }

func (c constant) Values(n int) ([]float64, error) {
	if n < 0 {
		return nil, &IndexError{Index: n, Len: -1}
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = c.value
	}
	return out, nil
}

func (s series) At(i int) (float64, error) {
	if i < 0 || i >= len(s.values) {
		return 0, &IndexError{Index: i, Len: len(s.values)}
	}
	return s.values[i], nil
}

func (s series) Len() int         { return len(s.values) }
func (s series) IsConstant() bool { return false }

func (s series) Values(n int) ([]float64, error) {
	if n < 0 || n > len(s.values) {
		return nil, &IndexError{Index: n, Len: len(s.values)}
	}
	out := make([]float64, n)
	copy(out, s.values)
	return out, nil
}

// MustAt returns the value at index i and panics on out-of-range access.
// Intended for callers that have already validated the index against the
// time horizon.
func MustAt(s Sequence, i int) float64 {
	v, err := s.At(i)
	if err != nil {
		panic(err)
	}
	return v
}
