package types

import (
	"fmt"
	"slices"
)

// Route is a network path through a lane. Routes are read-only once loaded.
type Route struct {
	ID        string   `cbor:"1,keyasint" json:"id"`
	LaneID    uint8    `cbor:"2,keyasint" json:"lane_id"`
	Hops      []string `cbor:"3,keyasint" json:"hops"`
	LatencyMs uint64   `cbor:"4,keyasint" json:"latency_ms"`
	Cost      uint64   `cbor:"5,keyasint" json:"cost"`
}

// Copy returns a deep copy.
func (r Route) Copy() Route {
	r.Hops = slices.Clone(r.Hops)
	return r
}

// Validate checks the route record is well formed.
func (r Route) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("route id cannot be empty")
	}
	if len(r.Hops) == 0 {
		return fmt.Errorf("route %s has no hops", r.ID)
	}
	for i, hop := range r.Hops {
		if hop == "" {
			return fmt.Errorf("route %s hop %d is empty", r.ID, i)
		}
	}
	return nil
}
