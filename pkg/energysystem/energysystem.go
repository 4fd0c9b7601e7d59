// Package energysystem holds the root aggregate of an energy-supply model:
// the canonical node registry, the time index and the ordered grouping list.
// Groupings are recomputed from scratch whenever the registry changed, never
// incrementally, so reads always reflect the full node set.
package energysystem

import (
	"errors"
	"fmt"
	"time"

	"github.com/voltaic-labs/gridgraph/pkg/groupings"
	"github.com/voltaic-labs/gridgraph/pkg/logging"
	"github.com/voltaic-labs/gridgraph/pkg/metrics"
	"github.com/voltaic-labs/gridgraph/pkg/network"
)

// ErrDuplicateLabel is returned when a node label is already registered.
var ErrDuplicateLabel = errors.New("node label already registered")

// DuplicateLabelError reports which label collided.
type DuplicateLabelError struct {
	Label string
}

// Error implements the error interface.
func (e *DuplicateLabelError) Error() string {
	return fmt.Sprintf("node label %q already registered", e.Label)
}

// Unwrap returns ErrDuplicateLabel for error chain support.
func (e *DuplicateLabelError) Unwrap() error {
	return ErrDuplicateLabel
}

// EnergySystem owns the node registry (insertion order preserved, labels
// unique), the time index and the grouping engine. One instance is created
// per optimization run and assumes single-writer access; callers needing
// concurrent mutation must serialize externally.
type EnergySystem struct {
	order   []network.Node
	byLabel map[string]network.Node

	timeIndex []time.Time
	groupings []groupings.Grouping

	logger  logging.Logger
	metrics *metrics.Registry

	groups groupings.Groups
	dirty  bool
}

// Option configures an EnergySystem at construction.
type Option func(*EnergySystem)

// WithTimeIndex sets the ordered sequence of time steps. Its length bounds
// valid indices into explicit flow sequences; constants stay valid for any
// length.
func WithTimeIndex(steps []time.Time) Option {
	return func(es *EnergySystem) {
		es.timeIndex = append([]time.Time(nil), steps...)
	}
}

// WithGroupings appends user groupings. The built-in structural groupings
// always run first, so custom groupings can assume structural classification
// is available.
func WithGroupings(gs ...groupings.Grouping) Option {
	return func(es *EnergySystem) {
		es.groupings = append(es.groupings, gs...)
	}
}

// WithLogger sets the logger. Defaults to a nop logger.
func WithLogger(l logging.Logger) Option {
	return func(es *EnergySystem) {
		es.logger = l
	}
}

// WithMetrics sets the metrics registry. A nil registry records nothing.
func WithMetrics(m *metrics.Registry) Option {
	return func(es *EnergySystem) {
		es.metrics = m
	}
}

// New creates an empty energy system with the built-in groupings prepended
// ahead of any user-supplied ones.
func New(opts ...Option) *EnergySystem {
	es := &EnergySystem{
		byLabel:   make(map[string]network.Node),
		groupings: groupings.Builtins(),
		logger:    logging.NewNopLogger(),
		dirty:     true,
	}
	for _, opt := range opts {
		opt(es)
	}
	return es
}

// TimeIndex builds an ordered index of n steps spaced by step, starting at
// start. Convenience for the common uniform-resolution case.
func TimeIndex(start time.Time, step time.Duration, n int) []time.Time {
	steps := make([]time.Time, n)
	for i := range steps {
		steps[i] = start.Add(time.Duration(i) * step)
	}
	return steps
}

// Add registers nodes in order. Registration fails with DuplicateLabelError
// on a label collision; nodes before the offending one stay registered.
func (es *EnergySystem) Add(nodes ...network.Node) error {
	for _, n := range nodes {
		if _, exists := es.byLabel[n.Label()]; exists {
			return &DuplicateLabelError{Label: n.Label()}
		}
		es.byLabel[n.Label()] = n
		es.order = append(es.order, n)
		es.dirty = true

		es.metrics.RecordNodeRegistered(n.Kind().String())
		es.logger.Debug("node registered",
			logging.String("label", n.Label()),
			logging.String("kind", n.Kind().String()))
	}
	return nil
}

// CreateFlow constructs a flow, logging any advisories at Advisory level and
// recording them on the metrics registry. Advisories never alter control
// flow; the flow is returned alongside them.
func (es *EnergySystem) CreateFlow(cfg network.FlowConfig) (*network.Flow, []network.Advisory, error) {
	f, advisories, err := network.NewFlow(cfg)
	if err != nil {
		return nil, nil, err
	}
	for _, a := range advisories {
		es.metrics.RecordAdvisory(a.Code)
		es.logger.Advisory(a.Message, logging.String("code", a.Code))
	}
	es.metrics.RecordFlowCreated()
	return f, advisories, nil
}

// Node returns the registered node with the given label.
func (es *EnergySystem) Node(label string) (network.Node, bool) {
	n, ok := es.byLabel[label]
	return n, ok
}

// Nodes returns all registered nodes in registration order.
func (es *EnergySystem) Nodes() []network.Node {
	out := make([]network.Node, len(es.order))
	copy(out, es.order)
	return out
}

// Len returns the number of registered nodes.
func (es *EnergySystem) Len() int {
	return len(es.order)
}

// TimeSteps returns the time index.
func (es *EnergySystem) TimeSteps() []time.Time {
	out := make([]time.Time, len(es.timeIndex))
	copy(out, es.timeIndex)
	return out
}

// Groupings returns the full ordered grouping list, built-ins first.
func (es *EnergySystem) Groupings() []groupings.Grouping {
	out := make([]groupings.Grouping, len(es.groupings))
	copy(out, es.groupings)
	return out
}

// Groups returns the classification of the current node set. The result is
// recomputed from scratch after any registry mutation, so a read after Add
// always reflects the new node.
func (es *EnergySystem) Groups() groupings.Groups {
	if es.dirty {
		es.groups = groupings.Apply(es.order, es.groupings)
		es.dirty = false

		es.metrics.RecordGroupingRun(len(es.groups))
		es.logger.Debug("groupings recomputed",
			logging.Int("nodes", len(es.order)),
			logging.Int("groups", len(es.groups)))
	}
	return es.groups
}

// Flows returns every edge in the graph, ordered by the registration of its
// source node.
func (es *EnergySystem) Flows() []*network.Edge {
	return es.Groups().Edges(groupings.KeyFlows)
}
