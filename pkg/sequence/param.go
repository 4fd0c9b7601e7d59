package sequence

// Param is a scalar-or-series parameter value as supplied by the modeler.
// The zero value means "not supplied", which lets configuration structs
// distinguish an omitted parameter from an explicit zero.
type Param struct {
	set     bool
	isSlice bool
	scalar  float64
	slice   []float64
}

// Scalar wraps a single value; the resulting sequence broadcasts it to every
// index.
func Scalar(v float64) Param {
	return Param{set: true, scalar: v}
}

// Series wraps an ordered collection of values; the resulting sequence is
// bounded by its length.
func Series(values ...float64) Param {
	copied := make([]float64, len(values))
	copy(copied, values)
	return Param{set: true, isSlice: true, slice: copied}
}

// IsSet reports whether the parameter was supplied.
func (p Param) IsSet() bool { return p.set }

// Sequence derives a new Sequence from the parameter. It returns (nil, false)
// when the parameter was not supplied.
func (p Param) Sequence() (Sequence, bool) {
	if !p.set {
		return nil, false
	}
	if p.isSlice {
		return FromSlice(p.slice), true
	}
	return Constant(p.scalar), true
}

// SequenceOr derives a Sequence, falling back to a constant default when the
// parameter was not supplied.
func (p Param) SequenceOr(def float64) Sequence {
	if s, ok := p.Sequence(); ok {
		return s
	}
	return Constant(def)
}
