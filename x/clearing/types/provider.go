package types

import (
	"fmt"
	"slices"
)

// ComputeProvider is a supplier of inference capacity. Utilization counts the
// jobs matched to the provider and never exceeds Capacity.
type ComputeProvider struct {
	ID                  string      `cbor:"1,keyasint" json:"id"`
	Region              string      `cbor:"2,keyasint" json:"region"`
	SupportedPrecisions []Precision `cbor:"3,keyasint" json:"supported_precisions"`
	Capacity            uint32      `cbor:"4,keyasint" json:"capacity"`
	Utilization         uint32      `cbor:"5,keyasint" json:"utilization"`
	BasePrice           uint64      `cbor:"6,keyasint" json:"base_price"`
}

// Supports reports whether the provider can run jobs at precision p.
func (p ComputeProvider) Supports(precision Precision) bool {
	return slices.Contains(p.SupportedPrecisions, precision)
}

// HasCapacity reports whether one more job fits.
func (p ComputeProvider) HasCapacity() bool {
	return p.Utilization < p.Capacity
}

// AvailableCapacity returns the remaining job slots.
func (p ComputeProvider) AvailableCapacity() uint32 {
	if p.Utilization >= p.Capacity {
		return 0
	}
	return p.Capacity - p.Utilization
}

// CanHandle reports whether the provider is eligible for job.
func (p ComputeProvider) CanHandle(job Job) bool {
	return p.Supports(job.Precision) && p.HasCapacity()
}

// Copy returns a deep copy.
func (p ComputeProvider) Copy() ComputeProvider {
	p.SupportedPrecisions = slices.Clone(p.SupportedPrecisions)
	return p
}

// Validate checks the provider record is well formed.
func (p ComputeProvider) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("provider id cannot be empty")
	}
	if p.Utilization > p.Capacity {
		return fmt.Errorf("provider %s utilization %d exceeds capacity %d", p.ID, p.Utilization, p.Capacity)
	}
	for _, precision := range p.SupportedPrecisions {
		if !precision.IsValid() {
			return fmt.Errorf("provider %s lists unsupported precision %s", p.ID, precision)
		}
	}
	return nil
}
