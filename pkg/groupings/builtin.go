package groupings

import (
	"github.com/voltaic-labs/gridgraph/pkg/network"
)

// Group keys produced by the built-in structural groupings.
const (
	KeyFlows           = "flows"
	KeyInvestmentFlows = "investment_flows"
	KeyBinaryFlows     = "binary_flows"
	KeyDiscreteFlows   = "discrete_flows"
)

// Builtins returns the built-in structural groupings in the order they run.
// The energy system prepends these ahead of any user-supplied groupings.
func Builtins() []Grouping {
	return []Grouping{
		Kinds{},
		Flows{},
		DescriptorFlows{},
	}
}

// Kinds groups every node under the name of its variant ("bus", "sink",
// "source", "linear_transformer", "linear_n1_transformer"). The model
// builder picks its constraint block per group.
type Kinds struct{}

// Name returns the grouping name.
func (Kinds) Name() string { return "kinds" }

// Classify puts n into the group named after its kind.
func (Kinds) Classify(n network.Node) []Entry {
	return []Entry{{Key: n.Kind().String(), Member: n}}
}

// Flows collects every edge under the "flows" key. Only outbound edges are
// classified; every edge has exactly one From node, so each edge enters the
// group once, ordered by its source node's registration.
type Flows struct{}

// Name returns the grouping name.
func (Flows) Name() string { return "flows" }

// Classify contributes n's outbound edges.
func (Flows) Classify(n network.Node) []Entry {
	outputs := n.Outputs()
	entries := make([]Entry, 0, len(outputs))
	for _, e := range outputs {
		entries = append(entries, Entry{Key: KeyFlows, Member: e})
	}
	return entries
}

// DescriptorFlows groups edges by their modeling descriptors so the builder
// can emit the investment, binary and discrete formulations over the right
// edge sets.
type DescriptorFlows struct{}

// Name returns the grouping name.
func (DescriptorFlows) Name() string { return "descriptor_flows" }

// Classify contributes n's outbound edges keyed by descriptor presence.
func (DescriptorFlows) Classify(n network.Node) []Entry {
	var entries []Entry
	for _, e := range n.Outputs() {
		if e.Flow.Investment() != nil {
			entries = append(entries, Entry{Key: KeyInvestmentFlows, Member: e})
		}
		if e.Flow.Binary() != nil {
			entries = append(entries, Entry{Key: KeyBinaryFlows, Member: e})
		}
		if e.Flow.Discrete() != nil {
			entries = append(entries, Entry{Key: KeyDiscreteFlows, Member: e})
		}
	}
	return entries
}
