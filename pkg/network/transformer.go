package network

import (
	"github.com/voltaic-labs/gridgraph/pkg/sequence"
)

// BusFlow pairs a bus endpoint with the flow attached to it. Slices of
// BusFlow keep attachment order deterministic.
type BusFlow struct {
	Bus  *Bus
	Flow *Flow
}

// TransformerConfig describes a transformer's connections and its per-output
// conversion factors. Conversion factor values are wrapped through the
// sequence package; no cross-check against the outbound flow set is done
// here, that boundary belongs to the external constraint builder.
type TransformerConfig struct {
	Label             string
	Inputs            []BusFlow
	Outputs           []BusFlow
	ConversionFactors map[*Bus]sequence.Param
}

// transformer carries the state shared by the linear transformer variants.
type transformer struct {
	node
	conversionFactors map[*Bus]sequence.Sequence
}

func makeTransformer(op, entity string, cfg TransformerConfig) (transformer, error) {
	t := transformer{node: newNode(cfg.Label)}

	for _, in := range cfg.Inputs {
		if in.Bus == nil {
			return transformer{}, &ConfigError{Op: op, Entity: entity, Label: t.label, Field: "inputs", Cause: ErrNilEndpoint}
		}
		if in.Flow == nil {
			return transformer{}, &ConfigError{Op: op, Entity: entity, Label: t.label, Field: "inputs", Cause: ErrNilFlow}
		}
	}
	for _, out := range cfg.Outputs {
		if out.Bus == nil {
			return transformer{}, &ConfigError{Op: op, Entity: entity, Label: t.label, Field: "outputs", Cause: ErrNilEndpoint}
		}
		if out.Flow == nil {
			return transformer{}, &ConfigError{Op: op, Entity: entity, Label: t.label, Field: "outputs", Cause: ErrNilFlow}
		}
	}

	if len(cfg.ConversionFactors) > 0 {
		t.conversionFactors = make(map[*Bus]sequence.Sequence, len(cfg.ConversionFactors))
		for bus, p := range cfg.ConversionFactors {
			s, ok := p.Sequence()
			if !ok {
				return transformer{}, &ConfigError{Op: op, Entity: entity, Label: t.label, Field: "conversion_factors", Cause: ErrInvalidConfig}
			}
			t.conversionFactors[bus] = s
		}
	}

	return t, nil
}

// wire attaches the configured flows once the concrete node exists; edges
// need the concrete Node value as endpoint.
func (t *transformer) wire(self Node, cfg TransformerConfig) {
	for _, in := range cfg.Inputs {
		connect(in.Bus, self, in.Flow, &in.Bus.node, &t.node)
	}
	for _, out := range cfg.Outputs {
		connect(self, out.Bus, out.Flow, &t.node, &out.Bus.node)
	}
}

// ConversionFactors returns the per-output-bus conversion factor sequences.
func (t *transformer) ConversionFactors() map[*Bus]sequence.Sequence {
	return t.conversionFactors
}

// ConversionFactor returns the conversion factor sequence for one output bus.
func (t *transformer) ConversionFactor(bus *Bus) (sequence.Sequence, bool) {
	s, ok := t.conversionFactors[bus]
	return s, ok
}

// LinearTransformer converts one inflow into one or more outflows, each
// scaled by a per-time-step conversion factor keyed by output bus.
type LinearTransformer struct {
	transformer
}

// NewLinearTransformer creates a linear transformer from cfg.
func NewLinearTransformer(cfg TransformerConfig) (*LinearTransformer, error) {
	base, err := makeTransformer("NewLinearTransformer", "linear_transformer", cfg)
	if err != nil {
		return nil, err
	}
	lt := &LinearTransformer{transformer: base}
	lt.wire(lt, cfg)
	return lt, nil
}

// Kind returns KindLinearTransformer.
func (t *LinearTransformer) Kind() Kind { return KindLinearTransformer }

// LinearN1Transformer combines multiple inflows into the conversion
// relationship (N inputs, one output group).
type LinearN1Transformer struct {
	transformer
}

// NewLinearN1Transformer creates a linear N:1 transformer from cfg.
func NewLinearN1Transformer(cfg TransformerConfig) (*LinearN1Transformer, error) {
	base, err := makeTransformer("NewLinearN1Transformer", "linear_n1_transformer", cfg)
	if err != nil {
		return nil, err
	}
	nt := &LinearN1Transformer{transformer: base}
	nt.wire(nt, cfg)
	return nt, nil
}

// Kind returns KindLinearN1Transformer.
func (t *LinearN1Transformer) Kind() Kind { return KindLinearN1Transformer }
