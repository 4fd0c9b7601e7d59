package snapshot

import (
	"fmt"
	"sort"
	"time"

	"github.com/voltaic-labs/gridgraph/pkg/energysystem"
	"github.com/voltaic-labs/gridgraph/pkg/network"
	"github.com/voltaic-labs/gridgraph/pkg/sequence"
)

// document is the JSON shape of a snapshot.
type document struct {
	TimeIndex []time.Time  `json:"time_index,omitempty"`
	Nodes     []nodeRecord `json:"nodes"`
}

type nodeRecord struct {
	Kind              string         `json:"kind"`
	Label             string         `json:"label"`
	Balanced          *bool          `json:"balanced,omitempty"`
	Inputs            []edgeRecord   `json:"inputs,omitempty"`
	Outputs           []edgeRecord   `json:"outputs,omitempty"`
	ConversionFactors []factorRecord `json:"conversion_factors,omitempty"`
}

type edgeRecord struct {
	Bus  string     `json:"bus"`
	Flow flowRecord `json:"flow"`
}

type factorRecord struct {
	Bus   string    `json:"bus"`
	Value seqRecord `json:"value"`
}

// seqRecord serializes a sequence as either a constant or an explicit series.
type seqRecord struct {
	Constant *float64  `json:"constant,omitempty"`
	Series   []float64 `json:"series,omitempty"`
}

type flowRecord struct {
	NominalValue *float64            `json:"nominal_value,omitempty"`
	FixedCosts   *float64            `json:"fixed_costs,omitempty"`
	SummedMax    *float64            `json:"summed_max,omitempty"`
	SummedMin    *float64            `json:"summed_min,omitempty"`
	Investment   *network.Investment `json:"investment,omitempty"`
	Binary       *network.BinaryFlow `json:"binary,omitempty"`
	Discrete     bool                `json:"discrete,omitempty"`
	Fixed        bool                `json:"fixed,omitempty"`

	ActualValue      *seqRecord `json:"actual_value,omitempty"`
	PositiveGradient *seqRecord `json:"positive_gradient,omitempty"`
	NegativeGradient *seqRecord `json:"negative_gradient,omitempty"`
	VariableCosts    *seqRecord `json:"variable_costs,omitempty"`
	Min              *seqRecord `json:"min,omitempty"`
	Max              *seqRecord `json:"max,omitempty"`

	Extra map[string]float64 `json:"extra,omitempty"`
}

func encodeSequence(s sequence.Sequence) (*seqRecord, error) {
	if s == nil {
		return nil, nil
	}
	if s.IsConstant() {
		v, err := s.At(0)
		if err != nil {
			return nil, err
		}
		return &seqRecord{Constant: &v}, nil
	}
	values, err := s.Values(s.Len())
	if err != nil {
		return nil, err
	}
	if values == nil {
		values = []float64{}
	}
	return &seqRecord{Series: values}, nil
}

func (r *seqRecord) param() sequence.Param {
	if r == nil {
		return sequence.Param{}
	}
	if r.Constant != nil {
		return sequence.Scalar(*r.Constant)
	}
	return sequence.Series(r.Series...)
}

func encodeFlow(f *network.Flow) (flowRecord, error) {
	rec := flowRecord{
		NominalValue: f.NominalValue(),
		FixedCosts:   f.FixedCosts(),
		SummedMax:    f.SummedMax(),
		SummedMin:    f.SummedMin(),
		Investment:   f.Investment(),
		Binary:       f.Binary(),
		Discrete:     f.Discrete() != nil,
		Fixed:        f.Fixed(),
	}

	var err error
	if rec.ActualValue, err = encodeSequence(f.ActualValue()); err != nil {
		return rec, err
	}
	if rec.PositiveGradient, err = encodeSequence(f.PositiveGradient()); err != nil {
		return rec, err
	}
	if rec.NegativeGradient, err = encodeSequence(f.NegativeGradient()); err != nil {
		return rec, err
	}
	if rec.VariableCosts, err = encodeSequence(f.VariableCosts()); err != nil {
		return rec, err
	}
	if rec.Min, err = encodeSequence(f.Min()); err != nil {
		return rec, err
	}
	if rec.Max, err = encodeSequence(f.Max()); err != nil {
		return rec, err
	}

	rec.Extra = f.Extras()
	return rec, nil
}

// decodeFlow rebuilds a flow through the regular construction pipeline, so
// restored flows pass the same validation as hand-built ones.
func (r flowRecord) flow() (*network.Flow, error) {
	cfg := network.FlowConfig{
		NominalValue:     r.NominalValue,
		FixedCosts:       r.FixedCosts,
		SummedMax:        r.SummedMax,
		SummedMin:        r.SummedMin,
		Investment:       r.Investment,
		Binary:           r.Binary,
		Fixed:            r.Fixed,
		ActualValue:      r.ActualValue.param(),
		PositiveGradient: r.PositiveGradient.param(),
		NegativeGradient: r.NegativeGradient.param(),
		VariableCosts:    r.VariableCosts.param(),
		Min:              r.Min.param(),
		Max:              r.Max.param(),
		Extra:            r.Extra,
	}
	if r.Discrete {
		cfg.Discrete = &network.DiscreteFlow{}
	}

	f, _, err := network.NewFlow(cfg)
	return f, err
}

func encodeSystem(es *energysystem.EnergySystem) (*document, error) {
	doc := &document{TimeIndex: es.TimeSteps()}

	for _, n := range es.Nodes() {
		rec := nodeRecord{Kind: n.Kind().String(), Label: n.Label()}

		switch node := n.(type) {
		case *network.Bus:
			balanced := node.Balanced
			rec.Balanced = &balanced

		case *network.Sink:
			for _, e := range n.Inputs() {
				fr, err := encodeFlow(e.Flow)
				if err != nil {
					return nil, err
				}
				rec.Inputs = append(rec.Inputs, edgeRecord{Bus: e.From.Label(), Flow: fr})
			}

		case *network.Source:
			for _, e := range n.Outputs() {
				fr, err := encodeFlow(e.Flow)
				if err != nil {
					return nil, err
				}
				rec.Outputs = append(rec.Outputs, edgeRecord{Bus: e.To.Label(), Flow: fr})
			}

		case *network.LinearTransformer:
			var err error
			if rec.Inputs, rec.Outputs, err = encodeTransformerEdges(n); err != nil {
				return nil, err
			}
			if rec.ConversionFactors, err = encodeFactors(node.ConversionFactors()); err != nil {
				return nil, err
			}

		case *network.LinearN1Transformer:
			var err error
			if rec.Inputs, rec.Outputs, err = encodeTransformerEdges(n); err != nil {
				return nil, err
			}
			if rec.ConversionFactors, err = encodeFactors(node.ConversionFactors()); err != nil {
				return nil, err
			}

		default:
			return nil, fmt.Errorf("%w: %T", ErrUnknownKind, n)
		}

		doc.Nodes = append(doc.Nodes, rec)
	}

	return doc, nil
}

func encodeTransformerEdges(n network.Node) (inputs, outputs []edgeRecord, err error) {
	for _, e := range n.Inputs() {
		fr, err := encodeFlow(e.Flow)
		if err != nil {
			return nil, nil, err
		}
		inputs = append(inputs, edgeRecord{Bus: e.From.Label(), Flow: fr})
	}
	for _, e := range n.Outputs() {
		fr, err := encodeFlow(e.Flow)
		if err != nil {
			return nil, nil, err
		}
		outputs = append(outputs, edgeRecord{Bus: e.To.Label(), Flow: fr})
	}
	return inputs, outputs, nil
}

// encodeFactors sorts by bus label so snapshots are byte-stable.
func encodeFactors(factors map[*network.Bus]sequence.Sequence) ([]factorRecord, error) {
	recs := make([]factorRecord, 0, len(factors))
	for bus, s := range factors {
		sr, err := encodeSequence(s)
		if err != nil {
			return nil, err
		}
		recs = append(recs, factorRecord{Bus: bus.Label(), Value: *sr})
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].Bus < recs[j].Bus })
	return recs, nil
}

func decodeSystem(doc *document, opts []energysystem.Option) (*energysystem.EnergySystem, error) {
	es := energysystem.New(append(opts, energysystem.WithTimeIndex(doc.TimeIndex))...)

	// Buses first; every other variant references them by label.
	buses := make(map[string]*network.Bus)
	for _, rec := range doc.Nodes {
		if rec.Kind != network.KindBus.String() {
			continue
		}
		bus := network.NewBus(rec.Label)
		if rec.Balanced != nil {
			bus.Balanced = *rec.Balanced
		}
		buses[rec.Label] = bus
	}

	lookupBus := func(label string) (*network.Bus, error) {
		bus, ok := buses[label]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownBus, label)
		}
		return bus, nil
	}

	decodeEdges := func(recs []edgeRecord) ([]network.BusFlow, error) {
		out := make([]network.BusFlow, 0, len(recs))
		for _, er := range recs {
			bus, err := lookupBus(er.Bus)
			if err != nil {
				return nil, err
			}
			f, err := er.Flow.flow()
			if err != nil {
				return nil, err
			}
			out = append(out, network.BusFlow{Bus: bus, Flow: f})
		}
		return out, nil
	}

	for _, rec := range doc.Nodes {
		var (
			node network.Node
			err  error
		)

		switch rec.Kind {
		case network.KindBus.String():
			node = buses[rec.Label]

		case network.KindSink.String():
			if len(rec.Inputs) != 1 {
				return nil, fmt.Errorf("sink %q has %d inputs in snapshot, want 1", rec.Label, len(rec.Inputs))
			}
			var inputs []network.BusFlow
			if inputs, err = decodeEdges(rec.Inputs); err == nil {
				node, err = network.NewSink(rec.Label, inputs[0].Bus, inputs[0].Flow)
			}

		case network.KindSource.String():
			if len(rec.Outputs) != 1 {
				return nil, fmt.Errorf("source %q has %d outputs in snapshot, want 1", rec.Label, len(rec.Outputs))
			}
			var outputs []network.BusFlow
			if outputs, err = decodeEdges(rec.Outputs); err == nil {
				node, err = network.NewSource(rec.Label, outputs[0].Bus, outputs[0].Flow)
			}

		case network.KindLinearTransformer.String(), network.KindLinearN1Transformer.String():
			cfg := network.TransformerConfig{Label: rec.Label}
			if cfg.Inputs, err = decodeEdges(rec.Inputs); err != nil {
				return nil, err
			}
			if cfg.Outputs, err = decodeEdges(rec.Outputs); err != nil {
				return nil, err
			}
			if len(rec.ConversionFactors) > 0 {
				cfg.ConversionFactors = make(map[*network.Bus]sequence.Param, len(rec.ConversionFactors))
				for _, fr := range rec.ConversionFactors {
					bus, lerr := lookupBus(fr.Bus)
					if lerr != nil {
						return nil, lerr
					}
					cfg.ConversionFactors[bus] = fr.Value.param()
				}
			}
			if rec.Kind == network.KindLinearTransformer.String() {
				node, err = network.NewLinearTransformer(cfg)
			} else {
				node, err = network.NewLinearN1Transformer(cfg)
			}

		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownKind, rec.Kind)
		}

		if err != nil {
			return nil, fmt.Errorf("restore node %q: %w", rec.Label, err)
		}
		if err := es.Add(node); err != nil {
			return nil, err
		}
	}

	return es, nil
}
