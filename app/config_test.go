package app

import (
	"os"
	"path/filepath"
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"github.com/gix-network/gcam/x/clearing/types"
)

func writeConfig(t *testing.T, home, body string) {
	t.Helper()
	path := ConfigPath(home)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
}

func TestDefaultConfig(t *testing.T) {
	home := t.TempDir()
	cfg := DefaultConfig(home)

	require.NoError(t, cfg.Validate())
	require.Equal(t, filepath.Join(home, "data"), cfg.Clearing.DBDir)
	require.Equal(t, "goleveldb", cfg.Clearing.DBBackend)
	require.False(t, cfg.Clearing.SyncWrites)
	require.Equal(t, defaultGRPCAddress, cfg.GRPC.Address)
	require.True(t, cfg.API.Enable)
	require.Equal(t, []string{"*"}, cfg.API.CORSOrigins)
	require.Equal(t, defaultMetricsPort, cfg.Telemetry.MetricsPort)
	require.Equal(t, "info", cfg.Log.Level)
	require.Empty(t, cfg.Genesis.File)

	params, err := cfg.Params()
	require.NoError(t, err)
	require.Equal(t, types.DefaultParams().ReferenceLength, params.ReferenceLength)
	require.True(t, types.DefaultParams().LatencyWeight.Equal(params.LatencyWeight))
	require.True(t, types.DefaultParams().CostWeight.Equal(params.CostWeight))
}

func TestLoadConfigWithoutFile(t *testing.T) {
	home := t.TempDir()
	cfg, err := LoadConfig(home)
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(home), cfg)
}

func TestLoadConfigFromFile(t *testing.T) {
	home := t.TempDir()
	writeConfig(t, home, `
[clearing]
db-dir = "/var/lib/gcam"
db-backend = "memdb"
sync-writes = true
reference-length = 2048
latency-weight = "0.002"
cost-weight = "0.0"

[grpc]
address = "127.0.0.1:6000"

[api]
enable = false
cors-origins = ["https://a.example", "https://b.example"]

[log]
level = "DEBUG"
format = "json"

[genesis]
file = "config/seeds.json"
`)

	cfg, err := LoadConfig(home)
	require.NoError(t, err)
	require.Equal(t, "/var/lib/gcam", cfg.Clearing.DBDir)
	require.Equal(t, "memdb", cfg.Clearing.DBBackend)
	require.True(t, cfg.Clearing.SyncWrites)
	require.Equal(t, uint32(2048), cfg.Clearing.ReferenceLength)
	require.Equal(t, "127.0.0.1:6000", cfg.GRPC.Address)
	require.False(t, cfg.API.Enable)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.API.CORSOrigins)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, "json", cfg.Log.Format)
	require.Equal(t, filepath.Join(home, "config", "seeds.json"), cfg.Genesis.File)

	params, err := cfg.Params()
	require.NoError(t, err)
	require.True(t, math.LegacyNewDecWithPrec(2, 3).Equal(params.LatencyWeight))
	require.True(t, params.CostWeight.IsZero())

	require.True(t, cfg.StoreConfig().SyncWrites)
}

func TestLoadConfigEnvironmentOverrides(t *testing.T) {
	home := t.TempDir()
	writeConfig(t, home, `
[grpc]
address = "127.0.0.1:6000"
`)
	t.Setenv("GCAM_GRPC_ADDRESS", "127.0.0.1:7000")
	t.Setenv("GCAM_CLEARING_SYNC_WRITES", "true")
	t.Setenv("GCAM_API_CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("GCAM_TELEMETRY_METRICS_PORT", "9100")

	cfg, err := LoadConfig(home)
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:7000", cfg.GRPC.Address)
	require.True(t, cfg.Clearing.SyncWrites)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.API.CORSOrigins)
	require.Equal(t, 9100, cfg.Telemetry.MetricsPort)
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown backend", "[clearing]\ndb-backend = \"rocksdb\"\n"},
		{"zero reference length", "[clearing]\nreference-length = 0\n"},
		{"negative weight", "[clearing]\nlatency-weight = \"-1\"\n"},
		{"bad weight", "[clearing]\ncost-weight = \"cheap\"\n"},
		{"bad grpc address", "[grpc]\naddress = \"nowhere\"\n"},
		{"sample rate", "[telemetry]\nsample-rate = 2.0\n"},
		{"port range", "[telemetry]\nhealth-port = 70000\n"},
		{"log level", "[log]\nlevel = \"loud\"\n"},
		{"log format", "[log]\nformat = \"xml\"\n"},
		{"not toml", "[clearing\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			home := t.TempDir()
			writeConfig(t, home, tt.body)
			_, err := LoadConfig(home)
			require.Error(t, err)
		})
	}
}

func TestWriteDefaultConfig(t *testing.T) {
	home := t.TempDir()

	path, err := WriteDefaultConfig(home, false, nil)
	require.NoError(t, err)
	require.FileExists(t, path)

	cfg, err := LoadConfig(home)
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(home), cfg)

	_, err = WriteDefaultConfig(home, false, nil)
	require.Error(t, err)

	_, err = WriteDefaultConfig(home, true, map[string]interface{}{"grpc.address": "127.0.0.1:6001"})
	require.NoError(t, err)

	cfg, err = LoadConfig(home)
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:6001", cfg.GRPC.Address)
}

func TestGenesisStateFromFile(t *testing.T) {
	home := t.TempDir()
	cfg := DefaultConfig(home)

	gs, err := cfg.GenesisState()
	require.NoError(t, err)
	require.Equal(t, types.DefaultGenesis(), gs)

	custom := types.DefaultGenesis()
	custom.Providers = custom.Providers[:1]
	cfg.Genesis.File = filepath.Join(home, "seeds.json")
	require.NoError(t, types.WriteGenesisFile(cfg.Genesis.File, custom))

	gs, err = cfg.GenesisState()
	require.NoError(t, err)
	require.Equal(t, custom, gs)
}

func TestNewLogger(t *testing.T) {
	_, err := NewLogger(os.Stderr, LogConfig{Level: "warn", Format: "json"})
	require.NoError(t, err)

	_, err = NewLogger(os.Stderr, LogConfig{Level: "verbose"})
	require.Error(t, err)
}
