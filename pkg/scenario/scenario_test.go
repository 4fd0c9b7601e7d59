package scenario

import (
	"errors"
	"strings"
	"testing"

	"github.com/voltaic-labs/gridgraph/pkg/groupings"
	"github.com/voltaic-labs/gridgraph/pkg/network"
)

const districtHeating = `
time_index:
  start: 2026-01-01T00:00:00Z
  step: 1h
  steps: 3
buses:
  - label: gas
  - label: heat
    balanced: false
sources:
  - label: import
    output: gas
    flow:
      nominal_value: 100
      variable_costs: 30
  - label: solar
    output: heat
    flow:
      fixed: true
      actual_value: [2, 5, 3]
sinks:
  - label: demand
    input: heat
    flow:
      fixed: true
      actual_value: [10, 4, 4]
transformers:
  - label: boiler
    inputs:
      - bus: gas
        flow: {}
    outputs:
      - bus: heat
        flow: {}
    conversion_factors:
      heat: 0.9
`

// TestLoad_DistrictHeating verifies a full scenario assembles correctly
func TestLoad_DistrictHeating(t *testing.T) {
	es, advisories, err := Load(strings.NewReader(districtHeating))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(advisories) != 0 {
		t.Errorf("unexpected advisories: %v", advisories)
	}

	want := []string{"gas", "heat", "import", "solar", "demand", "boiler"}
	nodes := es.Nodes()
	if len(nodes) != len(want) {
		t.Fatalf("got %d nodes, want %d", len(nodes), len(want))
	}
	for i, n := range nodes {
		if n.Label() != want[i] {
			t.Errorf("node %d = %q, want %q", i, n.Label(), want[i])
		}
	}

	if steps := es.TimeSteps(); len(steps) != 3 {
		t.Errorf("time steps = %d, want 3", len(steps))
	}

	heatNode, _ := es.Node("heat")
	if heatNode.(*network.Bus).Balanced {
		t.Errorf("heat bus Balanced = true, want false from scenario")
	}

	boiler, _ := es.Node("boiler")
	factor, ok := boiler.(*network.LinearTransformer).ConversionFactor(heatNode.(*network.Bus))
	if !ok {
		t.Fatalf("boiler missing heat conversion factor")
	}
	if v, _ := factor.At(50); v != 0.9 {
		t.Errorf("conversion factor = %v, want 0.9", v)
	}

	groups := es.Groups()
	if got := groups.Edges(groupings.KeyFlows); len(got) != 5 {
		t.Errorf("flows group = %d members, want 5", len(got))
	}
}

// TestLoad_AdvisoriesSurface verifies advisories are returned, not fatal
func TestLoad_AdvisoriesSurface(t *testing.T) {
	doc := `
buses:
  - label: el
sources:
  - label: wind
    output: el
    flow:
      nominal_value: 100
      investment:
        maximum: 500
        ep_costs: 12
`
	es, advisories, err := Load(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(advisories) != 1 || advisories[0].Code != network.AdvisoryNominalValueCleared {
		t.Fatalf("advisories = %v, want one nominal_value_cleared", advisories)
	}

	wind, _ := es.Node("wind")
	flow := wind.Outputs()[0].Flow
	if flow.NominalValue() != nil {
		t.Errorf("nominal value = %v, want nil", *flow.NominalValue())
	}
	if flow.Investment() == nil || flow.Investment().Maximum != 500 {
		t.Errorf("investment not decoded: %+v", flow.Investment())
	}
}

// TestLoad_ConstructionErrorsPropagate verifies flow validation fires
func TestLoad_ConstructionErrorsPropagate(t *testing.T) {
	doc := `
buses:
  - label: el
sinks:
  - label: demand
    input: el
    flow:
      fixed: true
`
	_, _, err := Load(strings.NewReader(doc))
	if !errors.Is(err, network.ErrFixedWithoutValue) {
		t.Fatalf("error = %v, want ErrFixedWithoutValue", err)
	}
}

// TestLoad_UnknownBus verifies dangling references fail
func TestLoad_UnknownBus(t *testing.T) {
	doc := `
buses:
  - label: el
sources:
  - label: wind
    output: missing
    flow: {}
`
	_, _, err := Load(strings.NewReader(doc))
	if !errors.Is(err, ErrUnknownBus) {
		t.Fatalf("error = %v, want ErrUnknownBus", err)
	}
}

// TestLoad_UnknownField verifies strict decoding rejects typos
func TestLoad_UnknownField(t *testing.T) {
	doc := `
buses:
  - label: el
    ballanced: false
`
	_, _, err := Load(strings.NewReader(doc))
	if err == nil {
		t.Fatalf("Load accepted a misspelled field")
	}
}

// TestLoad_MissingBuses verifies document validation
func TestLoad_MissingBuses(t *testing.T) {
	_, _, err := Load(strings.NewReader(`sources: []`))
	if err == nil {
		t.Fatalf("Load accepted a scenario without buses")
	}
}

// TestLoad_BadStep verifies time index parsing errors surface
func TestLoad_BadStep(t *testing.T) {
	doc := `
time_index:
  start: 2026-01-01T00:00:00Z
  step: quickly
  steps: 3
buses:
  - label: el
`
	_, _, err := Load(strings.NewReader(doc))
	if err == nil {
		t.Fatalf("Load accepted an unparseable step duration")
	}
}

// TestLoad_ScalarAndListParams verifies both param shapes decode
func TestLoad_ScalarAndListParams(t *testing.T) {
	doc := `
buses:
  - label: el
sources:
  - label: plant
    output: el
    flow:
      min: 0.2
      max: [0.9, 0.8, 0.7]
`
	es, _, err := Load(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	plant, _ := es.Node("plant")
	flow := plant.Outputs()[0].Flow
	if v, _ := flow.Min().At(33); v != 0.2 {
		t.Errorf("min[33] = %v, want scalar 0.2", v)
	}
	if v, _ := flow.Max().At(2); v != 0.7 {
		t.Errorf("max[2] = %v, want 0.7", v)
	}
	if flow.Max().Len() != 3 {
		t.Errorf("max len = %d, want 3", flow.Max().Len())
	}
}
