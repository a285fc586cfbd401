package types

import (
	"encoding/json"
	"fmt"
	"os"
)

// GenesisState is the provider and route set seeded into an empty store.
type GenesisState struct {
	Providers []ComputeProvider `json:"providers"`
	Routes    []Route           `json:"routes"`
}

// DefaultGenesis returns the default seed set.
func DefaultGenesis() GenesisState {
	return GenesisState{
		Providers: []ComputeProvider{
			{
				ID:                  "slp-us-east-1",
				Region:              "US",
				SupportedPrecisions: []Precision{PrecisionBF16, PrecisionFP8, PrecisionE5M2, PrecisionINT8},
				Capacity:            100,
				Utilization:         30,
				BasePrice:           1000,
			},
			{
				ID:                  "slp-eu-west-1",
				Region:              "EU",
				SupportedPrecisions: []Precision{PrecisionBF16, PrecisionFP8, PrecisionINT8},
				Capacity:            80,
				Utilization:         20,
				BasePrice:           1200,
			},
		},
		Routes: []Route{
			{
				ID:        "route-flash-1",
				LaneID:    LaneFlash,
				Hops:      []string{"node-1", "node-2"},
				LatencyMs: 50,
				Cost:      100,
			},
			{
				ID:        "route-deep-1",
				LaneID:    LaneDeep,
				Hops:      []string{"node-3", "node-4", "node-5"},
				LatencyMs: 150,
				Cost:      80,
			},
		},
	}
}

// Validate performs basic genesis state validation returning an error upon any
// failure.
func (gs GenesisState) Validate() error {
	providerIDs := make(map[string]struct{}, len(gs.Providers))
	for _, p := range gs.Providers {
		if err := p.Validate(); err != nil {
			return ErrInvalidGenesis.Wrap(err.Error())
		}
		if _, dup := providerIDs[p.ID]; dup {
			return ErrInvalidGenesis.Wrapf("duplicate provider id %s", p.ID)
		}
		providerIDs[p.ID] = struct{}{}
	}

	routeIDs := make(map[string]struct{}, len(gs.Routes))
	for _, r := range gs.Routes {
		if err := r.Validate(); err != nil {
			return ErrInvalidGenesis.Wrap(err.Error())
		}
		if _, dup := routeIDs[r.ID]; dup {
			return ErrInvalidGenesis.Wrapf("duplicate route id %s", r.ID)
		}
		routeIDs[r.ID] = struct{}{}
	}
	return nil
}

// LoadGenesisFile reads and validates a JSON genesis file.
func LoadGenesisFile(path string) (GenesisState, error) {
	bz, err := os.ReadFile(path)
	if err != nil {
		return GenesisState{}, fmt.Errorf("read genesis file: %w", err)
	}

	var gs GenesisState
	if err := json.Unmarshal(bz, &gs); err != nil {
		return GenesisState{}, ErrInvalidGenesis.Wrapf("decode %s: %v", path, err)
	}
	if err := gs.Validate(); err != nil {
		return GenesisState{}, err
	}
	return gs, nil
}

// WriteGenesisFile writes gs as indented JSON.
func WriteGenesisFile(path string, gs GenesisState) error {
	bz, err := json.MarshalIndent(gs, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, bz, 0o600)
}
