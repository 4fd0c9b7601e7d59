package network

import (
	"github.com/google/uuid"
)

// Kind identifies a node variant. The grouping engine and the downstream
// model builder dispatch on it.
type Kind int

const (
	KindBus Kind = iota
	KindSink
	KindSource
	KindLinearTransformer
	KindLinearN1Transformer
)

// String returns the string representation of a node kind
func (k Kind) String() string {
	switch k {
	case KindBus:
		return "bus"
	case KindSink:
		return "sink"
	case KindSource:
		return "source"
	case KindLinearTransformer:
		return "linear_transformer"
	case KindLinearN1Transformer:
		return "linear_n1_transformer"
	default:
		return "unknown"
	}
}

// Node is a vertex in the energy-system graph. Every flow endpoint
// references a Bus; non-Bus nodes never connect directly to each other,
// which the typed constructors below enforce by shape.
type Node interface {
	// Label returns the unique node label.
	Label() string
	// Kind returns the node variant.
	Kind() Kind
	// Inputs returns the inbound edges in attachment order.
	Inputs() []*Edge
	// Outputs returns the outbound edges in attachment order.
	Outputs() []*Edge
}

// Edge ties one flow to the ordered node pair it connects. The same *Edge is
// visible from both endpoints, so edge identity is pointer identity.
type Edge struct {
	From Node
	To   Node
	Flow *Flow
}

// node carries the state shared by all variants.
type node struct {
	label   string
	inputs  []*Edge
	outputs []*Edge
}

// newNode assigns a fresh uuid label when none is given, mirroring
// identity-labeled nodes in hand-built models.
func newNode(label string) node {
	if label == "" {
		label = uuid.NewString()
	}
	return node{label: label}
}

func (n *node) Label() string { return n.label }

func (n *node) Inputs() []*Edge { return n.inputs }

func (n *node) Outputs() []*Edge { return n.outputs }

// connect attaches f as an edge from one node to another, registering it on
// both endpoints. Duplicate flows between the same pair simply accumulate.
func connect(from, to Node, f *Flow, fromN, toN *node) *Edge {
	e := &Edge{From: from, To: to, Flow: f}
	fromN.outputs = append(fromN.outputs, e)
	toN.inputs = append(toN.inputs, e)
	return e
}

// Bus is a balance vertex. Every other node variant connects to the rest of
// the graph through buses only.
type Bus struct {
	node
	// Balanced marks whether total inflow must equal total outflow per time
	// step. It is a pass-through marker for the external constraint builder;
	// the data model does not enforce it.
	Balanced bool
}

// NewBus creates a bus. Balanced defaults to true.
func NewBus(label string) *Bus {
	return &Bus{node: newNode(label), Balanced: true}
}

// Kind returns KindBus.
func (b *Bus) Kind() Kind { return KindBus }

// Sink is a node with exactly one inbound flow and no outbound flows,
// typically a demand.
type Sink struct {
	node
}

// NewSink creates a sink fed by exactly one flow from a bus.
func NewSink(label string, from *Bus, f *Flow) (*Sink, error) {
	if from == nil {
		return nil, &ConfigError{Op: "NewSink", Entity: "sink", Label: label, Field: "input", Cause: ErrNilEndpoint}
	}
	if f == nil {
		return nil, &ConfigError{Op: "NewSink", Entity: "sink", Label: label, Field: "input", Cause: ErrNilFlow}
	}
	s := &Sink{node: newNode(label)}
	connect(from, s, f, &from.node, &s.node)
	return s, nil
}

// Kind returns KindSink.
func (s *Sink) Kind() Kind { return KindSink }

// Source is a node with exactly one outbound flow and no inbound flows,
// typically a supply.
type Source struct {
	node
}

// NewSource creates a source feeding exactly one flow into a bus.
func NewSource(label string, to *Bus, f *Flow) (*Source, error) {
	if to == nil {
		return nil, &ConfigError{Op: "NewSource", Entity: "source", Label: label, Field: "output", Cause: ErrNilEndpoint}
	}
	if f == nil {
		return nil, &ConfigError{Op: "NewSource", Entity: "source", Label: label, Field: "output", Cause: ErrNilFlow}
	}
	s := &Source{node: newNode(label)}
	connect(s, to, f, &s.node, &to.node)
	return s, nil
}

// Kind returns KindSource.
func (s *Source) Kind() Kind { return KindSource }
