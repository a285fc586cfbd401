package app

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"strings"

	"cosmossdk.io/math"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"github.com/gix-network/gcam/x/clearing/store"
	"github.com/gix-network/gcam/x/clearing/types"
)

const (
	// EnvPrefix prefixes environment overrides, e.g. GCAM_GRPC_ADDRESS.
	EnvPrefix = "GCAM"

	configDirName  = "config"
	configFileName = "gcam.toml"

	defaultGRPCAddress = "0.0.0.0:50052"
	defaultAPIAddress  = "0.0.0.0:1318"
	defaultMetricsPort = 9002
	defaultHealthPort  = 9003
)

// DefaultNodeHome is the default home directory for gcamd.
var DefaultNodeHome = defaultNodeHome()

func defaultNodeHome() string {
	userHome, err := os.UserHomeDir()
	if err != nil {
		return ".gcam"
	}
	return filepath.Join(userHome, ".gcam")
}

// Config is the full daemon configuration.
type Config struct {
	Home      string
	Clearing  ClearingConfig
	GRPC      GRPCConfig
	API       APIConfig
	Telemetry TelemetryConfig
	Log       LogConfig
	Genesis   GenesisConfig
}

// ClearingConfig configures the state database and pricing weights.
type ClearingConfig struct {
	DBDir           string
	DBBackend       string
	SyncWrites      bool
	ReferenceLength uint32
	LatencyWeight   string
	CostWeight      string
}

// GRPCConfig configures the AuctionService listener.
type GRPCConfig struct {
	Address string
	// RateLimitRPS caps accepted calls per second across all clients. Zero disables it.
	RateLimitRPS float64
	RateBurst    int
}

// APIConfig configures the REST gateway.
type APIConfig struct {
	Enable       bool
	Address      string
	CORSOrigins  []string
	RateLimitRPS float64
	RateBurst    int
}

// LogConfig configures the process logger.
type LogConfig struct {
	Level  string
	Format string
}

// GenesisConfig names an optional JSON seed file.
type GenesisConfig struct {
	File string
}

// ConfigPath returns the config file location under home.
func ConfigPath(home string) string {
	return filepath.Join(home, configDirName, configFileName)
}

func setDefaults(v *viper.Viper) {
	params := types.DefaultParams()

	v.SetDefault("clearing.db-dir", "data")
	v.SetDefault("clearing.db-backend", string(dbm.GoLevelDBBackend))
	v.SetDefault("clearing.sync-writes", false)
	v.SetDefault("clearing.reference-length", params.ReferenceLength)
	v.SetDefault("clearing.latency-weight", params.LatencyWeight.String())
	v.SetDefault("clearing.cost-weight", params.CostWeight.String())

	v.SetDefault("grpc.address", defaultGRPCAddress)
	v.SetDefault("grpc.rate-limit-rps", 0)
	v.SetDefault("grpc.rate-burst", 0)

	v.SetDefault("api.enable", true)
	v.SetDefault("api.address", defaultAPIAddress)
	v.SetDefault("api.cors-origins", []string{"*"})
	v.SetDefault("api.rate-limit-rps", 100)
	v.SetDefault("api.rate-burst", 200)

	v.SetDefault("telemetry.metrics-port", defaultMetricsPort)
	v.SetDefault("telemetry.health-port", defaultHealthPort)
	v.SetDefault("telemetry.tracing-enabled", false)
	v.SetDefault("telemetry.otlp-endpoint", "localhost:4318")
	v.SetDefault("telemetry.sample-rate", 0.1)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "plain")

	v.SetDefault("genesis.file", "")
}

func newViper(home string) *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetConfigType("toml")
	v.SetConfigFile(ConfigPath(home))
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// DefaultConfig returns the configuration used when no file or environment
// override is present.
func DefaultConfig(home string) Config {
	cfg, err := configFromViper(home, newViperDefaults())
	if err != nil {
		panic(fmt.Sprintf("default config is invalid: %v", err))
	}
	return cfg
}

func newViperDefaults() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

// LoadConfig reads home/config/gcam.toml, applies GCAM_* environment
// overrides, and validates the result. A missing file is not an error.
func LoadConfig(home string) (Config, error) {
	v := newViper(home)
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read %s: %w", ConfigPath(home), err)
		}
	}

	cfg, err := configFromViper(home, v)
	if err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func configFromViper(home string, v *viper.Viper) (Config, error) {
	refLen, err := cast.ToUint32E(v.Get("clearing.reference-length"))
	if err != nil {
		return Config{}, fmt.Errorf("clearing.reference-length: %w", err)
	}
	metricsPort, err := cast.ToIntE(v.Get("telemetry.metrics-port"))
	if err != nil {
		return Config{}, fmt.Errorf("telemetry.metrics-port: %w", err)
	}
	healthPort, err := cast.ToIntE(v.Get("telemetry.health-port"))
	if err != nil {
		return Config{}, fmt.Errorf("telemetry.health-port: %w", err)
	}
	sampleRate, err := cast.ToFloat64E(v.Get("telemetry.sample-rate"))
	if err != nil {
		return Config{}, fmt.Errorf("telemetry.sample-rate: %w", err)
	}
	apiRPS, err := cast.ToFloat64E(v.Get("api.rate-limit-rps"))
	if err != nil {
		return Config{}, fmt.Errorf("api.rate-limit-rps: %w", err)
	}
	grpcRPS, err := cast.ToFloat64E(v.Get("grpc.rate-limit-rps"))
	if err != nil {
		return Config{}, fmt.Errorf("grpc.rate-limit-rps: %w", err)
	}

	cfg := Config{
		Home: home,
		Clearing: ClearingConfig{
			DBDir:           resolvePath(home, cast.ToString(v.Get("clearing.db-dir"))),
			DBBackend:       cast.ToString(v.Get("clearing.db-backend")),
			SyncWrites:      cast.ToBool(v.Get("clearing.sync-writes")),
			ReferenceLength: refLen,
			LatencyWeight:   cast.ToString(v.Get("clearing.latency-weight")),
			CostWeight:      cast.ToString(v.Get("clearing.cost-weight")),
		},
		GRPC: GRPCConfig{
			Address:      cast.ToString(v.Get("grpc.address")),
			RateLimitRPS: grpcRPS,
			RateBurst:    cast.ToInt(v.Get("grpc.rate-burst")),
		},
		API: APIConfig{
			Enable:       cast.ToBool(v.Get("api.enable")),
			Address:      cast.ToString(v.Get("api.address")),
			CORSOrigins:  splitList(v.Get("api.cors-origins")),
			RateLimitRPS: apiRPS,
			RateBurst:    cast.ToInt(v.Get("api.rate-burst")),
		},
		Telemetry: TelemetryConfig{
			MetricsPort:    metricsPort,
			HealthPort:     healthPort,
			TracingEnabled: cast.ToBool(v.Get("telemetry.tracing-enabled")),
			OTLPEndpoint:   cast.ToString(v.Get("telemetry.otlp-endpoint")),
			SampleRate:     sampleRate,
		},
		Log: LogConfig{
			Level:  strings.ToLower(cast.ToString(v.Get("log.level"))),
			Format: strings.ToLower(cast.ToString(v.Get("log.format"))),
		},
	}
	if file := cast.ToString(v.Get("genesis.file")); file != "" {
		cfg.Genesis.File = resolvePath(home, file)
	}
	return cfg, nil
}

// splitList accepts a TOML array or a comma separated environment value.
func splitList(raw interface{}) []string {
	if s, ok := raw.(string); ok {
		raw = strings.Split(s, ",")
	}
	var out []string
	for _, item := range cast.ToStringSlice(raw) {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func resolvePath(home, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(home, path)
}

// Validate checks the configuration for values the daemon cannot start with.
func (c Config) Validate() error {
	switch dbm.BackendType(c.Clearing.DBBackend) {
	case dbm.GoLevelDBBackend, dbm.MemDBBackend:
	default:
		return fmt.Errorf("clearing.db-backend %q is not supported", c.Clearing.DBBackend)
	}
	if _, err := c.Params(); err != nil {
		return err
	}
	if _, _, err := net.SplitHostPort(c.GRPC.Address); err != nil {
		return fmt.Errorf("grpc.address: %w", err)
	}
	if c.API.Enable {
		if _, _, err := net.SplitHostPort(c.API.Address); err != nil {
			return fmt.Errorf("api.address: %w", err)
		}
	}
	if c.API.RateLimitRPS < 0 || c.GRPC.RateLimitRPS < 0 {
		return fmt.Errorf("rate limits must be non-negative")
	}
	for name, port := range map[string]int{
		"telemetry.metrics-port": c.Telemetry.MetricsPort,
		"telemetry.health-port":  c.Telemetry.HealthPort,
	} {
		if port < 0 || port > 65535 {
			return fmt.Errorf("%s out of range: %d", name, port)
		}
	}
	if c.Telemetry.SampleRate < 0 || c.Telemetry.SampleRate > 1 {
		return fmt.Errorf("telemetry.sample-rate must be within [0, 1]: %v", c.Telemetry.SampleRate)
	}
	if _, err := ParseLogLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "plain", "json":
	default:
		return fmt.Errorf("log.format must be plain or json: %q", c.Log.Format)
	}
	return nil
}

// Params builds the clearing parameters from the [clearing] section.
func (c Config) Params() (types.Params, error) {
	latency, err := math.LegacyNewDecFromStr(c.Clearing.LatencyWeight)
	if err != nil {
		return types.Params{}, fmt.Errorf("clearing.latency-weight: %w", err)
	}
	cost, err := math.LegacyNewDecFromStr(c.Clearing.CostWeight)
	if err != nil {
		return types.Params{}, fmt.Errorf("clearing.cost-weight: %w", err)
	}
	params := types.Params{
		ReferenceLength: c.Clearing.ReferenceLength,
		LatencyWeight:   latency,
		CostWeight:      cost,
	}
	if err := params.Validate(); err != nil {
		return types.Params{}, err
	}
	return params, nil
}

// StoreConfig returns the state database settings.
func (c Config) StoreConfig() store.Config {
	return store.Config{
		Backend:    c.Clearing.DBBackend,
		SyncWrites: c.Clearing.SyncWrites,
	}
}

// GenesisState returns the seed set, read from the configured file when one
// is named and the built-in defaults otherwise.
func (c Config) GenesisState() (types.GenesisState, error) {
	if c.Genesis.File == "" {
		return types.DefaultGenesis(), nil
	}
	return types.LoadGenesisFile(c.Genesis.File)
}

// WriteDefaultConfig writes a config file holding every default, with
// overrides applied, to home/config/gcam.toml. An existing file is left alone
// unless overwrite is set.
func WriteDefaultConfig(home string, overwrite bool, overrides map[string]interface{}) (string, error) {
	path := ConfigPath(home)
	if _, err := os.Stat(path); err == nil && !overwrite {
		return path, fmt.Errorf("config file already exists: %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return path, fmt.Errorf("create config directory: %w", err)
	}

	v := newViperDefaults()
	for key, value := range overrides {
		v.Set(key, value)
	}
	v.SetConfigType("toml")
	if err := v.WriteConfigAs(path); err != nil {
		return path, fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
