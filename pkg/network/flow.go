// Package network holds the typed graph entities of an energy-supply
// network: flows (directed, time-indexed edges) and the node variants they
// connect (buses, sinks, sources and transformers). All invariants are
// checked once, at construction; instances are read-only afterwards and are
// handed to the external model builder as-is.
package network

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/voltaic-labs/gridgraph/pkg/sequence"
)

// validate checks FlowConfig struct tags; shared, validator instances are
// safe for concurrent use.
var validate = validator.New()

// FlowConfig carries the recognized flow options. Scalar options are stored
// verbatim; sequence-typed options are wrapped through the sequence package.
// Extra holds forward-compatible custom scalar attributes that downstream
// builders may interpret.
type FlowConfig struct {
	// Scalar options
	NominalValue *float64 `validate:"omitempty,gte=0"`
	FixedCosts   *float64
	SummedMax    *float64      `validate:"omitempty,gte=0"`
	SummedMin    *float64      `validate:"omitempty,gte=0"`
	Investment   *Investment   `validate:"omitempty"`
	Binary       *BinaryFlow   `validate:"omitempty"`
	Discrete     *DiscreteFlow `validate:"omitempty"`
	Fixed        bool

	// Sequence options (scalar values broadcast to every time step)
	ActualValue      sequence.Param
	PositiveGradient sequence.Param
	NegativeGradient sequence.Param
	VariableCosts    sequence.Param
	Min              sequence.Param
	Max              sequence.Param

	// Extra custom scalar attributes, stored verbatim under their key.
	Extra map[string]float64
}

// Flow is a directed, time-indexed edge between two nodes carrying bounds,
// costs and optional investment/binary modeling descriptors. A flow is not
// graph-aware; the node pair it connects owns it.
type Flow struct {
	nominalValue *float64
	fixedCosts   *float64
	summedMax    *float64
	summedMin    *float64
	investment   *Investment
	binary       *BinaryFlow
	discrete     *DiscreteFlow
	fixed        bool

	actualValue      sequence.Sequence // nil when not supplied
	positiveGradient sequence.Sequence // nil when not supplied
	negativeGradient sequence.Sequence // nil when not supplied
	variableCosts    sequence.Sequence // nil when not supplied
	min              sequence.Sequence
	max              sequence.Sequence

	extra map[string]float64
}

// NewFlow constructs a flow from cfg, running the normalization and
// validation pipeline in a fixed order:
//
//  1. resolve defaults (fixed=false, min=0, max=1) and wrap sequence options
//  2. fixed without an actual value is a ConfigError
//  3. fixed forces min to constant 0 and max to constant 1
//  4. investment clears a set nominal value and emits an advisory
//  5. investment combined with binary is a ConfigError
//
// Later steps assume earlier ones passed. Advisories are non-fatal and never
// alter control flow; a returned error means the flow must be reconstructed
// with corrected input.
func NewFlow(cfg FlowConfig) (*Flow, []Advisory, error) {
	if err := validate.Struct(cfg); err != nil {
		return nil, nil, &ConfigError{Op: "NewFlow", Entity: "flow", Cause: fmt.Errorf("%w: %v", ErrInvalidConfig, err)}
	}

	f := &Flow{
		nominalValue: cfg.NominalValue,
		fixedCosts:   cfg.FixedCosts,
		summedMax:    cfg.SummedMax,
		summedMin:    cfg.SummedMin,
		investment:   cfg.Investment,
		binary:       cfg.Binary,
		discrete:     cfg.Discrete,
		fixed:        cfg.Fixed,
		min:          cfg.Min.SequenceOr(0),
		max:          cfg.Max.SequenceOr(1),
	}
	if s, ok := cfg.ActualValue.Sequence(); ok {
		f.actualValue = s
	}
	if s, ok := cfg.PositiveGradient.Sequence(); ok {
		f.positiveGradient = s
	}
	if s, ok := cfg.NegativeGradient.Sequence(); ok {
		f.negativeGradient = s
	}
	if s, ok := cfg.VariableCosts.Sequence(); ok {
		f.variableCosts = s
	}
	if len(cfg.Extra) > 0 {
		f.extra = make(map[string]float64, len(cfg.Extra))
		for k, v := range cfg.Extra {
			f.extra[k] = v
		}
	}

	if f.fixed && f.actualValue == nil {
		return nil, nil, &ConfigError{Op: "NewFlow", Entity: "flow", Field: "actual_value", Cause: ErrFixedWithoutValue}
	}

	if f.fixed {
		// The exogenous profile supersedes bound semantics.
		f.min = sequence.Constant(0)
		f.max = sequence.Constant(1)
	}

	var advisories []Advisory
	if f.investment != nil && f.nominalValue != nil {
		f.nominalValue = nil
		advisories = append(advisories, Advisory{
			Code:    AdvisoryNominalValueCleared,
			Message: "nominal value is ignored when an investment descriptor is present",
		})
	}

	if f.investment != nil && f.binary != nil {
		return nil, nil, &ConfigError{Op: "NewFlow", Entity: "flow", Field: "investment", Cause: ErrInvestmentWithBinary}
	}

	return f, advisories, nil
}

// NominalValue returns the optional upper-scale value; nil when the flow is
// unscaled or scale is decided by an investment descriptor.
func (f *Flow) NominalValue() *float64 { return f.nominalValue }

// FixedCosts returns the optional whole-period costs tied to the nominal value.
func (f *Flow) FixedCosts() *float64 { return f.fixedCosts }

// SummedMax returns the optional specific maximum summed over all time steps.
func (f *Flow) SummedMax() *float64 { return f.summedMax }

// SummedMin returns the optional specific minimum summed over all time steps.
func (f *Flow) SummedMin() *float64 { return f.summedMin }

// Investment returns the investment descriptor, or nil.
func (f *Flow) Investment() *Investment { return f.investment }

// Binary returns the binary-flow descriptor, or nil.
func (f *Flow) Binary() *BinaryFlow { return f.binary }

// Discrete returns the discrete-flow descriptor, or nil.
func (f *Flow) Discrete() *DiscreteFlow { return f.discrete }

// Fixed reports whether the flow is fixed to its actual value.
func (f *Flow) Fixed() bool { return f.fixed }

// ActualValue returns the exogenous profile, or nil when not supplied.
func (f *Flow) ActualValue() sequence.Sequence { return f.actualValue }

// PositiveGradient returns the max positive step change, or nil.
func (f *Flow) PositiveGradient() sequence.Sequence { return f.positiveGradient }

// NegativeGradient returns the max negative step change, or nil.
func (f *Flow) NegativeGradient() sequence.Sequence { return f.negativeGradient }

// VariableCosts returns the per-unit costs, or nil.
func (f *Flow) VariableCosts() sequence.Sequence { return f.variableCosts }

// Min returns the normed lower bound (default constant 0).
func (f *Flow) Min() sequence.Sequence { return f.min }

// Max returns the normed upper bound (default constant 1).
func (f *Flow) Max() sequence.Sequence { return f.max }

// Extra returns the custom scalar attribute stored under key.
func (f *Flow) Extra(key string) (float64, bool) {
	v, ok := f.extra[key]
	return v, ok
}

// Extras returns a copy of all custom scalar attributes, or nil when none
// were supplied.
func (f *Flow) Extras() map[string]float64 {
	if len(f.extra) == 0 {
		return nil
	}
	out := make(map[string]float64, len(f.extra))
	for k, v := range f.extra {
		out[k] = v
	}
	return out
}

// Attribute provides read-only lookup by attribute name for the model
// builder. Recognized names return the scalar (possibly nil pointer) or
// sequence value; unknown names fall through to the custom attribute map.
func (f *Flow) Attribute(name string) (any, bool) {
	switch name {
	case "nominal_value":
		return f.nominalValue, true
	case "fixed_costs":
		return f.fixedCosts, true
	case "summed_max":
		return f.summedMax, true
	case "summed_min":
		return f.summedMin, true
	case "investment":
		return f.investment, true
	case "binary":
		return f.binary, true
	case "discrete":
		return f.discrete, true
	case "fixed":
		return f.fixed, true
	case "actual_value":
		return f.actualValue, true
	case "positive_gradient":
		return f.positiveGradient, true
	case "negative_gradient":
		return f.negativeGradient, true
	case "variable_costs":
		return f.variableCosts, true
	case "min":
		return f.min, true
	case "max":
		return f.max, true
	}
	v, ok := f.extra[name]
	if !ok {
		return nil, false
	}
	return v, true
}
