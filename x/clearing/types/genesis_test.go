package types

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultGenesis(t *testing.T) {
	gs := DefaultGenesis()
	require.NoError(t, gs.Validate())
	require.Len(t, gs.Providers, 2)
	require.Len(t, gs.Routes, 2)
}

func TestGenesisValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*GenesisState)
	}{
		{"duplicate provider", func(gs *GenesisState) { gs.Providers[1].ID = gs.Providers[0].ID }},
		{"empty provider id", func(gs *GenesisState) { gs.Providers[0].ID = "" }},
		{"over capacity", func(gs *GenesisState) { gs.Providers[0].Utilization = gs.Providers[0].Capacity + 1 }},
		{"bad precision", func(gs *GenesisState) { gs.Providers[0].SupportedPrecisions = []Precision{Precision(42)} }},
		{"duplicate route", func(gs *GenesisState) { gs.Routes[1].ID = gs.Routes[0].ID }},
		{"route without hops", func(gs *GenesisState) { gs.Routes[0].Hops = nil }},
		{"empty hop", func(gs *GenesisState) { gs.Routes[0].Hops = []string{"node-1", ""} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gs := DefaultGenesis()
			tt.mutate(&gs)
			require.ErrorIs(t, gs.Validate(), ErrInvalidGenesis)
		})
	}
}

func TestGenesisFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "genesis.json")
	gs := DefaultGenesis()
	gs.Providers = gs.Providers[:1]

	require.NoError(t, WriteGenesisFile(path, gs))

	loaded, err := LoadGenesisFile(path)
	require.NoError(t, err)
	require.Equal(t, gs, loaded)

	_, err = LoadGenesisFile(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}
