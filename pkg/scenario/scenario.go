// Package scenario assembles an energy system from a declarative YAML
// document. It is a thin front door: every node and flow goes through the
// regular constructors, so scenario-built graphs pass exactly the same
// validation as hand-built ones.
package scenario

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/voltaic-labs/gridgraph/pkg/energysystem"
	"github.com/voltaic-labs/gridgraph/pkg/network"
	"github.com/voltaic-labs/gridgraph/pkg/sequence"
)

var validate = validator.New()

// Common sentinel errors
var (
	ErrUnknownBus           = errors.New("scenario references an unknown bus")
	ErrUnknownTransformType = errors.New("unknown transformer type")
	ErrBadParam             = errors.New("parameter must be a scalar or a list of scalars")
)

// param decodes a YAML scalar or list into a sequence parameter.
type param struct {
	sequence.Param
}

func (p *param) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var v float64
		if err := value.Decode(&v); err != nil {
			return fmt.Errorf("%w: %v", ErrBadParam, err)
		}
		p.Param = sequence.Scalar(v)
		return nil
	case yaml.SequenceNode:
		var vs []float64
		if err := value.Decode(&vs); err != nil {
			return fmt.Errorf("%w: %v", ErrBadParam, err)
		}
		p.Param = sequence.Series(vs...)
		return nil
	default:
		return fmt.Errorf("%w: line %d", ErrBadParam, value.Line)
	}
}

type flowSpec struct {
	NominalValue *float64            `yaml:"nominal_value"`
	FixedCosts   *float64            `yaml:"fixed_costs"`
	SummedMax    *float64            `yaml:"summed_max"`
	SummedMin    *float64            `yaml:"summed_min"`
	Investment   *network.Investment `yaml:"investment"`
	Binary       *network.BinaryFlow `yaml:"binary"`
	Discrete     bool                `yaml:"discrete"`
	Fixed        bool                `yaml:"fixed"`

	ActualValue      param `yaml:"actual_value"`
	PositiveGradient param `yaml:"positive_gradient"`
	NegativeGradient param `yaml:"negative_gradient"`
	VariableCosts    param `yaml:"variable_costs"`
	Min              param `yaml:"min"`
	Max              param `yaml:"max"`

	Extra map[string]float64 `yaml:"extra"`
}

func (s flowSpec) config() network.FlowConfig {
	cfg := network.FlowConfig{
		NominalValue:     s.NominalValue,
		FixedCosts:       s.FixedCosts,
		SummedMax:        s.SummedMax,
		SummedMin:        s.SummedMin,
		Investment:       s.Investment,
		Binary:           s.Binary,
		Fixed:            s.Fixed,
		ActualValue:      s.ActualValue.Param,
		PositiveGradient: s.PositiveGradient.Param,
		NegativeGradient: s.NegativeGradient.Param,
		VariableCosts:    s.VariableCosts.Param,
		Min:              s.Min.Param,
		Max:              s.Max.Param,
		Extra:            s.Extra,
	}
	if s.Discrete {
		cfg.Discrete = &network.DiscreteFlow{}
	}
	return cfg
}

type busSpec struct {
	Label    string `yaml:"label" validate:"required"`
	Balanced *bool  `yaml:"balanced"`
}

type sourceSpec struct {
	Label  string   `yaml:"label" validate:"required"`
	Output string   `yaml:"output" validate:"required"`
	Flow   flowSpec `yaml:"flow"`
}

type sinkSpec struct {
	Label string   `yaml:"label" validate:"required"`
	Input string   `yaml:"input" validate:"required"`
	Flow  flowSpec `yaml:"flow"`
}

type edgeSpec struct {
	Bus  string   `yaml:"bus" validate:"required"`
	Flow flowSpec `yaml:"flow"`
}

type transformerSpec struct {
	Label             string           `yaml:"label" validate:"required"`
	Type              string           `yaml:"type" validate:"omitempty,oneof=linear linear_n1"`
	Inputs            []edgeSpec       `yaml:"inputs" validate:"min=1,dive"`
	Outputs           []edgeSpec       `yaml:"outputs" validate:"dive"`
	ConversionFactors map[string]param `yaml:"conversion_factors"`
}

type timeIndexSpec struct {
	Start time.Time `yaml:"start" validate:"required"`
	Step  string    `yaml:"step" validate:"required"`
	Steps int       `yaml:"steps" validate:"required,gt=0"`
}

type document struct {
	TimeIndex    *timeIndexSpec    `yaml:"time_index"`
	Buses        []busSpec         `yaml:"buses" validate:"min=1,dive"`
	Sources      []sourceSpec      `yaml:"sources" validate:"dive"`
	Sinks        []sinkSpec        `yaml:"sinks" validate:"dive"`
	Transformers []transformerSpec `yaml:"transformers" validate:"dive"`
}

// Load decodes a scenario document and builds the energy system. Advisories
// emitted while constructing flows are aggregated and returned; they never
// abort the load.
func Load(r io.Reader, opts ...energysystem.Option) (*energysystem.EnergySystem, []network.Advisory, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, nil, fmt.Errorf("decode scenario: %w", err)
	}
	if err := validate.Struct(doc); err != nil {
		return nil, nil, fmt.Errorf("invalid scenario: %w", err)
	}

	if doc.TimeIndex != nil {
		step, err := time.ParseDuration(doc.TimeIndex.Step)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid scenario: time_index.step: %w", err)
		}
		opts = append(opts, energysystem.WithTimeIndex(
			energysystem.TimeIndex(doc.TimeIndex.Start, step, doc.TimeIndex.Steps)))
	}

	es := energysystem.New(opts...)

	buses := make(map[string]*network.Bus, len(doc.Buses))
	for _, spec := range doc.Buses {
		bus := network.NewBus(spec.Label)
		if spec.Balanced != nil {
			bus.Balanced = *spec.Balanced
		}
		buses[spec.Label] = bus
		if err := es.Add(bus); err != nil {
			return nil, nil, err
		}
	}

	lookupBus := func(label string) (*network.Bus, error) {
		bus, ok := buses[label]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownBus, label)
		}
		return bus, nil
	}

	var advisories []network.Advisory
	newFlow := func(spec flowSpec) (*network.Flow, error) {
		f, adv, err := es.CreateFlow(spec.config())
		if err != nil {
			return nil, err
		}
		advisories = append(advisories, adv...)
		return f, nil
	}

	for _, spec := range doc.Sources {
		bus, err := lookupBus(spec.Output)
		if err != nil {
			return nil, nil, fmt.Errorf("source %q: %w", spec.Label, err)
		}
		f, err := newFlow(spec.Flow)
		if err != nil {
			return nil, nil, fmt.Errorf("source %q: %w", spec.Label, err)
		}
		src, err := network.NewSource(spec.Label, bus, f)
		if err != nil {
			return nil, nil, err
		}
		if err := es.Add(src); err != nil {
			return nil, nil, err
		}
	}

	for _, spec := range doc.Sinks {
		bus, err := lookupBus(spec.Input)
		if err != nil {
			return nil, nil, fmt.Errorf("sink %q: %w", spec.Label, err)
		}
		f, err := newFlow(spec.Flow)
		if err != nil {
			return nil, nil, fmt.Errorf("sink %q: %w", spec.Label, err)
		}
		sink, err := network.NewSink(spec.Label, bus, f)
		if err != nil {
			return nil, nil, err
		}
		if err := es.Add(sink); err != nil {
			return nil, nil, err
		}
	}

	for _, spec := range doc.Transformers {
		cfg := network.TransformerConfig{Label: spec.Label}

		for _, in := range spec.Inputs {
			bus, err := lookupBus(in.Bus)
			if err != nil {
				return nil, nil, fmt.Errorf("transformer %q: %w", spec.Label, err)
			}
			f, err := newFlow(in.Flow)
			if err != nil {
				return nil, nil, fmt.Errorf("transformer %q: %w", spec.Label, err)
			}
			cfg.Inputs = append(cfg.Inputs, network.BusFlow{Bus: bus, Flow: f})
		}
		for _, out := range spec.Outputs {
			bus, err := lookupBus(out.Bus)
			if err != nil {
				return nil, nil, fmt.Errorf("transformer %q: %w", spec.Label, err)
			}
			f, err := newFlow(out.Flow)
			if err != nil {
				return nil, nil, fmt.Errorf("transformer %q: %w", spec.Label, err)
			}
			cfg.Outputs = append(cfg.Outputs, network.BusFlow{Bus: bus, Flow: f})
		}
		if len(spec.ConversionFactors) > 0 {
			cfg.ConversionFactors = make(map[*network.Bus]sequence.Param, len(spec.ConversionFactors))
			for label, p := range spec.ConversionFactors {
				bus, err := lookupBus(label)
				if err != nil {
					return nil, nil, fmt.Errorf("transformer %q: %w", spec.Label, err)
				}
				cfg.ConversionFactors[bus] = p.Param
			}
		}

		var (
			node network.Node
			err  error
		)
		switch spec.Type {
		case "", "linear":
			node, err = network.NewLinearTransformer(cfg)
		case "linear_n1":
			node, err = network.NewLinearN1Transformer(cfg)
		default:
			return nil, nil, fmt.Errorf("%w: %q", ErrUnknownTransformType, spec.Type)
		}
		if err != nil {
			return nil, nil, err
		}
		if err := es.Add(node); err != nil {
			return nil, nil, err
		}
	}

	return es, advisories, nil
}
