package sequence

import (
	"errors"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestSequenceLaws uses property-based testing to verify the indexing laws
// every parameter in the model relies on
func TestSequenceLaws(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	// Law 1: a constant broadcasts to every non-negative index
	properties.Property("constant broadcasts to any index", prop.ForAll(
		func(v float64, i int) bool {
			got, err := Constant(v).At(i)
			return err == nil && got == v
		},
		gen.Float64(),
		gen.IntRange(0, 1<<20),
	))

	// Law 2: an explicit sequence delegates to its backing slice
	properties.Property("slice indexing delegates", prop.ForAll(
		func(values []float64) bool {
			s := FromSlice(values)
			for i, want := range values {
				got, err := s.At(i)
				if err != nil || got != want {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Float64()),
	))

	// Law 3: indexing past the end always fails with ErrIndexOutOfRange
	properties.Property("overrun fails with ErrIndexOutOfRange", prop.ForAll(
		func(values []float64, past int) bool {
			_, err := FromSlice(values).At(len(values) + past)
			return errors.Is(err, ErrIndexOutOfRange)
		},
		gen.SliceOf(gen.Float64()),
		gen.IntRange(0, 1000),
	))

	// Law 4: re-deriving a sequence from the same param yields equal values
	properties.Property("derivation is deterministic", prop.ForAll(
		func(values []float64) bool {
			p := Series(values...)
			a, _ := p.Sequence()
			b, _ := p.Sequence()
			if a.Len() != b.Len() {
				return false
			}
			for i := range values {
				av, aerr := a.At(i)
				bv, berr := b.At(i)
				if aerr != nil || berr != nil || av != bv {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Float64()),
	))

	properties.TestingRun(t)
}
