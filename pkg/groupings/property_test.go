package groupings

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/voltaic-labs/gridgraph/pkg/network"
)

// TestGroupingDeterminism verifies that applying the same ordered grouping
// list twice to an unchanged node list yields identical group contents and
// member ordering, for arbitrary graph shapes
func TestGroupingDeterminism(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	properties.Property("repeated application is identical", prop.ForAll(
		func(sources, sinks uint8) bool {
			bus := network.NewBus("bus")
			nodes := []network.Node{bus}

			for i := 0; i < int(sources)%8; i++ {
				f, _, err := network.NewFlow(network.FlowConfig{})
				if err != nil {
					return false
				}
				src, err := network.NewSource(fmt.Sprintf("source-%d", i), bus, f)
				if err != nil {
					return false
				}
				nodes = append(nodes, src)
			}
			for i := 0; i < int(sinks)%8; i++ {
				f, _, err := network.NewFlow(network.FlowConfig{})
				if err != nil {
					return false
				}
				snk, err := network.NewSink(fmt.Sprintf("sink-%d", i), bus, f)
				if err != nil {
					return false
				}
				nodes = append(nodes, snk)
			}

			first := Apply(nodes, Builtins())
			second := Apply(nodes, Builtins())

			if len(first) != len(second) {
				return false
			}
			for key, members := range first {
				others, ok := second[key]
				if !ok || len(others) != len(members) {
					return false
				}
				for i := range members {
					if members[i] != others[i] {
						return false
					}
				}
			}
			return true
		},
		gen.UInt8(),
		gen.UInt8(),
	))

	properties.TestingRun(t)
}
