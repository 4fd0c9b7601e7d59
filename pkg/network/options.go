package network

import "math"

// Investment lets the optimizer determine a flow's capacity instead of
// fixing it ex-ante through a nominal value. When present on a flow the
// nominal value is cleared and the investment variable takes over scale
// determination.
type Investment struct {
	// Maximum is the upper bound of the investment variable.
	Maximum float64 `json:"maximum" yaml:"maximum" validate:"gte=0"`
	// EPCosts are the equivalent periodical costs per unit of invested
	// capacity, added to the objective by the downstream builder.
	EPCosts float64 `json:"ep_costs" yaml:"ep_costs" validate:"gte=0"`
}

// NewInvestment creates an investment descriptor with an unbounded maximum.
func NewInvestment() *Investment {
	return &Investment{Maximum: math.Inf(1)}
}

// BinaryFlow introduces discrete on/off behavior for a flow. The downstream
// builder swaps the plain flow constraints for the binary formulation when
// this descriptor is present.
type BinaryFlow struct {
	StartupCosts    float64 `json:"startup_costs" yaml:"startup_costs" validate:"gte=0"`
	ShutdownCosts   float64 `json:"shutdown_costs" yaml:"shutdown_costs" validate:"gte=0"`
	MinimumUptime   int     `json:"minimum_uptime" yaml:"minimum_uptime" validate:"gte=0"`
	MinimumDowntime int     `json:"minimum_downtime" yaml:"minimum_downtime" validate:"gte=0"`
	// InitialStatus is the on/off state at the first time step.
	InitialStatus bool `json:"initial_status" yaml:"initial_status"`
}

// DiscreteFlow marks a flow whose value is restricted to integers.
type DiscreteFlow struct{}
