// Package config loads the benchmark settings and builds the stores, sinks and
// logger they describe.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	BackendRotating  = "rotating"
	BackendSharded   = "sharded"
	BackendRistretto = "ristretto"
	BackendMemDB     = "memdb"

	SinkLog     = "log"
	SinkMetrics = "metrics"
)

var (
	ErrUnknownBackend = errors.New("config: unknown cache backend")
	ErrUnknownSink    = errors.New("config: unknown sink")
	ErrInvalid        = errors.New("config: invalid value")
)

type Config struct {
	Log            LogConfig    `yaml:"log"`
	Cache          CacheConfig  `yaml:"cache"`
	Sinks          []string     `yaml:"sinks"`
	AsyncBuffer    int          `yaml:"async_buffer"`
	SeedFromDirect bool         `yaml:"seed_from_direct"`
	Target         TargetConfig `yaml:"target"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // console or json
}

type CacheConfig struct {
	Backend     string `yaml:"backend"`
	MaxSize     uint32 `yaml:"max_size"`
	Shards      int    `yaml:"shards"`
	NumCounters int64  `yaml:"num_counters"`
	MaxCost     int64  `yaml:"max_cost"`
}

type TargetConfig struct {
	BusyWait time.Duration `yaml:"busy_wait"`
}

func Default() Config {
	return Config{
		Log: LogConfig{Level: "info", Format: "console"},
		Cache: CacheConfig{
			Backend:     BackendRotating,
			MaxSize:     64,
			Shards:      4,
			NumCounters: 1000,
			MaxCost:     1_000_000,
		},
		Sinks:       []string{SinkLog},
		AsyncBuffer: 0,
		Target:      TargetConfig{BusyWait: 5 * time.Millisecond},
	}
}

// Parse overlays YAML onto the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads and parses a YAML file. An empty path yields the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		cfg := Default()
		return cfg, cfg.Validate()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

func (c Config) Validate() error {
	switch c.Cache.Backend {
	case BackendRotating, BackendSharded, BackendRistretto, BackendMemDB:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.Cache.Backend)
	}
	if c.Cache.MaxSize == 0 {
		return fmt.Errorf("%w: cache.max_size must be positive", ErrInvalid)
	}
	if c.Cache.Backend == BackendRistretto && (c.Cache.NumCounters <= 0 || c.Cache.MaxCost <= 0) {
		return fmt.Errorf("%w: ristretto needs positive num_counters and max_cost", ErrInvalid)
	}
	for _, s := range c.Sinks {
		switch s {
		case SinkLog, SinkMetrics:
		default:
			return fmt.Errorf("%w: %q", ErrUnknownSink, s)
		}
	}
	if c.AsyncBuffer < 0 {
		return fmt.Errorf("%w: async_buffer must not be negative", ErrInvalid)
	}
	if c.Target.BusyWait < 0 {
		return fmt.Errorf("%w: target.busy_wait must not be negative", ErrInvalid)
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}
