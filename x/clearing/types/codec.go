package types

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// Records are stored as deterministic CBOR with integer field keys so the
// on-disk layout is independent of the wire format.
var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("clearing: cbor encoder: %v", err))
	}
	decMode, err = cbor.DecOptions{
		DupMapKey: cbor.DupMapKeyEnforcedAPF,
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("clearing: cbor decoder: %v", err))
	}
}

// MarshalProvider encodes a provider record.
func MarshalProvider(p ComputeProvider) ([]byte, error) {
	return encMode.Marshal(p)
}

// UnmarshalProvider decodes and validates a provider record.
func UnmarshalProvider(bz []byte) (ComputeProvider, error) {
	var p ComputeProvider
	if err := decMode.Unmarshal(bz, &p); err != nil {
		return ComputeProvider{}, err
	}
	if err := p.Validate(); err != nil {
		return ComputeProvider{}, err
	}
	return p, nil
}

// MarshalRoute encodes a route record.
func MarshalRoute(r Route) ([]byte, error) {
	return encMode.Marshal(r)
}

// UnmarshalRoute decodes and validates a route record.
func UnmarshalRoute(bz []byte) (Route, error) {
	var r Route
	if err := decMode.Unmarshal(bz, &r); err != nil {
		return Route{}, err
	}
	if err := r.Validate(); err != nil {
		return Route{}, err
	}
	return r, nil
}

// MarshalStats encodes the statistics record.
func MarshalStats(s AuctionStats) ([]byte, error) {
	return encMode.Marshal(s)
}

// UnmarshalStats decodes and validates the statistics record.
func UnmarshalStats(bz []byte) (AuctionStats, error) {
	var s AuctionStats
	if err := decMode.Unmarshal(bz, &s); err != nil {
		return AuctionStats{}, err
	}
	s.Normalize()
	if err := s.Validate(); err != nil {
		return AuctionStats{}, err
	}
	return s, nil
}
