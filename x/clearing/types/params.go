package types

import (
	"fmt"

	"cosmossdk.io/math"
)

// DefaultReferenceLength is the context length priced as one unit.
const DefaultReferenceLength uint32 = 1024

var (
	// DefaultLatencyWeight scores one millisecond of route latency.
	DefaultLatencyWeight = math.LegacyNewDecWithPrec(1, 3)
	// DefaultCostWeight scores one unit of route cost.
	DefaultCostWeight = math.LegacyNewDecWithPrec(1, 6)
)

// Params configures pricing and route selection.
type Params struct {
	ReferenceLength uint32         `json:"reference_length"`
	LatencyWeight   math.LegacyDec `json:"latency_weight"`
	CostWeight      math.LegacyDec `json:"cost_weight"`
}

// DefaultParams returns the default clearing parameters.
func DefaultParams() Params {
	return Params{
		ReferenceLength: DefaultReferenceLength,
		LatencyWeight:   DefaultLatencyWeight,
		CostWeight:      DefaultCostWeight,
	}
}

// Validate validates the set of params.
func (p Params) Validate() error {
	if p.ReferenceLength == 0 {
		return fmt.Errorf("reference length must be positive")
	}
	if p.LatencyWeight.IsNil() || p.LatencyWeight.IsNegative() {
		return fmt.Errorf("latency weight must be non-negative: %s", p.LatencyWeight)
	}
	if p.CostWeight.IsNil() || p.CostWeight.IsNegative() {
		return fmt.Errorf("cost weight must be non-negative: %s", p.CostWeight)
	}
	return nil
}
