// Package metrics exposes prometheus instrumentation for the modeling core.
// Collection is optional: a nil *Registry is valid everywhere and records
// nothing, so library users without a scrape endpoint pay no cost.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds all metrics for the modeling core
type Registry struct {
	// Graph construction metrics
	NodesRegisteredTotal *prometheus.CounterVec
	FlowsCreatedTotal    prometheus.Counter
	FlowAdvisoriesTotal  *prometheus.CounterVec

	// Grouping engine metrics
	GroupingRunsTotal prometheus.Counter
	GroupingGroups    prometheus.Gauge

	registry *prometheus.Registry
}

// NewRegistry creates a metrics registry backed by its own prometheus registry
func NewRegistry() *Registry {
	return NewRegistryWith(prometheus.NewRegistry())
}

// NewRegistryWith creates a metrics registry backed by the given prometheus
// registry, letting callers share one scrape endpoint across components
func NewRegistryWith(reg *prometheus.Registry) *Registry {
	r := &Registry{registry: reg}

	r.NodesRegisteredTotal = promauto.With(reg).NewCounterVec(
		prometheus.CounterOpts{
			Name: "gridgraph_nodes_registered_total",
			Help: "Total number of nodes registered on the energy system",
		},
		[]string{"kind"},
	)

	r.FlowsCreatedTotal = promauto.With(reg).NewCounter(
		prometheus.CounterOpts{
			Name: "gridgraph_flows_created_total",
			Help: "Total number of flows constructed successfully",
		},
	)

	r.FlowAdvisoriesTotal = promauto.With(reg).NewCounterVec(
		prometheus.CounterOpts{
			Name: "gridgraph_flow_advisories_total",
			Help: "Total number of non-fatal advisories emitted during flow construction",
		},
		[]string{"code"},
	)

	r.GroupingRunsTotal = promauto.With(reg).NewCounter(
		prometheus.CounterOpts{
			Name: "gridgraph_grouping_runs_total",
			Help: "Total number of full grouping recomputations",
		},
	)

	r.GroupingGroups = promauto.With(reg).NewGauge(
		prometheus.GaugeOpts{
			Name: "gridgraph_grouping_groups",
			Help: "Number of distinct groups produced by the last grouping run",
		},
	)

	return r
}

// Prometheus returns the underlying prometheus registry for exposition
func (r *Registry) Prometheus() *prometheus.Registry {
	return r.registry
}

// RecordNodeRegistered records a node registration by kind
func (r *Registry) RecordNodeRegistered(kind string) {
	if r == nil {
		return
	}
	r.NodesRegisteredTotal.WithLabelValues(kind).Inc()
}

// RecordFlowCreated records a successful flow construction
func (r *Registry) RecordFlowCreated() {
	if r == nil {
		return
	}
	r.FlowsCreatedTotal.Inc()
}

// RecordAdvisory records a non-fatal construction advisory by code
func (r *Registry) RecordAdvisory(code string) {
	if r == nil {
		return
	}
	r.FlowAdvisoriesTotal.WithLabelValues(code).Inc()
}

// RecordGroupingRun records one full grouping recomputation and its group count
func (r *Registry) RecordGroupingRun(groups int) {
	if r == nil {
		return
	}
	r.GroupingRunsTotal.Inc()
	r.GroupingGroups.Set(float64(groups))
}
