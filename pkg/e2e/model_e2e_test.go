package e2e

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voltaic-labs/gridgraph/pkg/energysystem"
	"github.com/voltaic-labs/gridgraph/pkg/groupings"
	"github.com/voltaic-labs/gridgraph/pkg/logging"
	"github.com/voltaic-labs/gridgraph/pkg/metrics"
	"github.com/voltaic-labs/gridgraph/pkg/network"
	"github.com/voltaic-labs/gridgraph/pkg/scenario"
	"github.com/voltaic-labs/gridgraph/pkg/snapshot"
)

const combinedHeatAndPower = `
time_index:
  start: 2026-06-01T00:00:00Z
  step: 1h
  steps: 4
buses:
  - label: gas
  - label: electricity
  - label: heat
sources:
  - label: gas-import
    output: gas
    flow:
      variable_costs: 30
  - label: pv
    output: electricity
    flow:
      nominal_value: 80
      investment:
        maximum: 200
        ep_costs: 15
sinks:
  - label: el-demand
    input: electricity
    flow:
      fixed: true
      actual_value: [40, 50, 45, 60]
  - label: heat-demand
    input: heat
    flow:
      fixed: true
      actual_value: [10, 10, 12, 8]
transformers:
  - label: chp
    inputs:
      - bus: gas
        flow: {}
    outputs:
      - bus: electricity
        flow:
          binary:
            startup_costs: 100
            minimum_uptime: 2
      - bus: heat
        flow: {}
    conversion_factors:
      electricity: 0.3
      heat: [0.5, 0.5, 0.4, 0.4]
`

// TestModelWorkflow walks the complete modeling journey: declarative load,
// grouping inspection, snapshot round trip and metrics observation.
func TestModelWorkflow(t *testing.T) {
	reg := metrics.NewRegistry()
	var logBuf bytes.Buffer
	logger := logging.NewJSONLogger(&logBuf, logging.DebugLevel)

	// Step 1: load the scenario.
	es, advisories, err := scenario.Load(strings.NewReader(combinedHeatAndPower),
		energysystem.WithLogger(logger),
		energysystem.WithMetrics(reg),
	)
	require.NoError(t, err)
	require.Len(t, advisories, 1, "pv nominal value must be cleared by its investment descriptor")
	assert.Equal(t, network.AdvisoryNominalValueCleared, advisories[0].Code)
	assert.Contains(t, logBuf.String(), `"ADVISORY"`)

	require.Equal(t, 8, es.Len())
	require.Len(t, es.TimeSteps(), 4)
	assert.Equal(t, time.Date(2026, 6, 1, 3, 0, 0, 0, time.UTC), es.TimeSteps()[3])

	// Step 2: inspect the groupings the model builder would consume.
	groups := es.Groups()
	assert.Len(t, groups.Nodes("bus"), 3)
	assert.Len(t, groups.Nodes("source"), 2)
	assert.Len(t, groups.Nodes("sink"), 2)
	assert.Len(t, groups.Nodes("linear_transformer"), 1)
	assert.Len(t, groups.Edges(groupings.KeyFlows), 7)
	assert.Len(t, groups.Edges(groupings.KeyInvestmentFlows), 1)
	assert.Len(t, groups.Edges(groupings.KeyBinaryFlows), 1)

	// The chp's electricity factor broadcasts; its heat factor is bounded.
	chpNode, ok := es.Node("chp")
	require.True(t, ok)
	chp := chpNode.(*network.LinearTransformer)
	elBus, _ := es.Node("electricity")
	factor, ok := chp.ConversionFactor(elBus.(*network.Bus))
	require.True(t, ok)
	v, err := factor.At(1000)
	require.NoError(t, err)
	assert.Equal(t, 0.3, v)

	// Step 3: snapshot round trip.
	var buf bytes.Buffer
	require.NoError(t, snapshot.Dump(&buf, es))

	restored, err := snapshot.Restore(&buf)
	require.NoError(t, err)
	require.Equal(t, es.Len(), restored.Len())

	restoredGroups := restored.Groups()
	require.Len(t, restoredGroups, len(groups))
	for key, members := range groups {
		assert.Len(t, restoredGroups[key], len(members), "group %q size after restore", key)
	}

	// Step 4: mutation after restore is still validated.
	err = restored.Add(network.NewBus("gas"))
	assert.ErrorIs(t, err, energysystem.ErrDuplicateLabel)

	extra := network.NewBus("hydrogen")
	require.NoError(t, restored.Add(extra))
	assert.Len(t, restored.Groups().Nodes("bus"), 4, "groups must reflect the new bus")

	// Step 5: metrics observed construction.
	families, err := reg.Prometheus().Gather()
	require.NoError(t, err)
	names := make(map[string]bool, len(families))
	for _, mf := range families {
		names[mf.GetName()] = true
	}
	assert.True(t, names["gridgraph_nodes_registered_total"])
	assert.True(t, names["gridgraph_flow_advisories_total"])
	assert.True(t, names["gridgraph_grouping_runs_total"])
}
