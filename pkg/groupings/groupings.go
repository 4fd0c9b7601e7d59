// Package groupings classifies graph elements into named collections for the
// downstream model builder. A grouping is a pure function from a node to
// zero, one or many (key, member) entries; an ordered list of groupings is
// applied to every registered node, with the built-in structural groupings
// always running first so custom groupings can rely on structural
// classification being available.
package groupings

import (
	"github.com/voltaic-labs/gridgraph/pkg/network"
)

// Entry is a single classification produced by a grouping: member belongs to
// the group named by Key.
type Entry struct {
	Key    string
	Member any
}

// Grouping classifies one node into zero or more groups. Implementations
// must be pure: same node in, same entries out.
type Grouping interface {
	// Name identifies the grouping in logs.
	Name() string
	// Classify returns the entries contributed by n.
	Classify(n network.Node) []Entry
}

// Func adapts a plain function to the Grouping interface.
type Func struct {
	GroupingName string
	ClassifyFunc func(network.Node) []Entry
}

// Name returns the grouping name.
func (f Func) Name() string { return f.GroupingName }

// Classify applies the wrapped function.
func (f Func) Classify(n network.Node) []Entry { return f.ClassifyFunc(n) }

// Groups maps a group key to its members. Member order follows node
// registration order; membership has set semantics, so a member classified
// twice under one key keeps its first position.
type Groups map[string][]any

// Nodes returns the members of key that are nodes, in order.
func (g Groups) Nodes(key string) []network.Node {
	members, ok := g[key]
	if !ok {
		return nil
	}
	nodes := make([]network.Node, 0, len(members))
	for _, m := range members {
		if n, ok := m.(network.Node); ok {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

// Edges returns the members of key that are edges, in order.
func (g Groups) Edges(key string) []*network.Edge {
	members, ok := g[key]
	if !ok {
		return nil
	}
	edges := make([]*network.Edge, 0, len(members))
	for _, m := range members {
		if e, ok := m.(*network.Edge); ok {
			edges = append(edges, e)
		}
	}
	return edges
}

// Apply runs the ordered grouping list over nodes (in the given order) and
// merges the results. For a fixed node list and grouping list the output is
// fully deterministic.
func Apply(nodes []network.Node, gs []Grouping) Groups {
	groups := make(Groups)
	seen := make(map[string]map[any]struct{})

	for _, grouping := range gs {
		for _, n := range nodes {
			for _, entry := range grouping.Classify(n) {
				members, ok := seen[entry.Key]
				if !ok {
					members = make(map[any]struct{})
					seen[entry.Key] = members
				}
				if _, dup := members[entry.Member]; dup {
					continue
				}
				members[entry.Member] = struct{}{}
				groups[entry.Key] = append(groups[entry.Key], entry.Member)
			}
		}
	}

	return groups
}
