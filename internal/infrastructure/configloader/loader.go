package configloader

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ServerConfig holds server-specific configurations.
type ServerConfig struct {
	Port string `yaml:"port"`
}

// LoggingConfig holds logging-specific configurations.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// ChainlistConfig controls the remote enrichment fetch.
type ChainlistConfig struct {
	Enabled             bool   `yaml:"enabled"`
	URL                 string `yaml:"url"`
	FetchTimeoutSeconds int    `yaml:"fetchTimeoutSeconds"`
}

// ProbeConfig holds the RPC probing knobs.
type ProbeConfig struct {
	TimeoutMillis        int64   `yaml:"timeoutMillis"`        // single-endpoint probe
	ResolveTimeoutMillis int64   `yaml:"resolveTimeoutMillis"` // per-endpoint during resolution
	RatePerSecond        float64 `yaml:"ratePerSecond"`
	Burst                int     `yaml:"burst"`
}

// NetworkOverride pins preferred RPC endpoints for one network.
type NetworkOverride struct {
	Identifier       string   `yaml:"identifier"` // name, decimal id or hex id
	PreferredRPCURLs []string `yaml:"preferredRpcUrls"`
	OnlyPreferred    bool     `yaml:"onlyPreferred"`
}

// ResolverConfig bounds the multi-network resolution fan-out.
type ResolverConfig struct {
	MaxConcurrentResolves int `yaml:"maxConcurrentResolves"`
}

// Config is the top-level configuration structure.
type Config struct {
	Server    ServerConfig      `yaml:"server"`
	Logging   LoggingConfig     `yaml:"logging"`
	Chainlist ChainlistConfig   `yaml:"chainlist"`
	Probe     ProbeConfig       `yaml:"probe"`
	Resolver  ResolverConfig    `yaml:"resolver"`
	Networks  []NetworkOverride `yaml:"networks"`
}

// Load reads the YAML configuration file from the given path and unmarshals
// it, filling in defaults for anything unset.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config data from %s: %w", path, err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// Default returns a config with every default applied, for running without a
// config file.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	cfg.Chainlist.Enabled = true
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "INFO"
	}
	if cfg.Chainlist.FetchTimeoutSeconds <= 0 {
		cfg.Chainlist.FetchTimeoutSeconds = 15
	}
	if cfg.Probe.TimeoutMillis <= 0 {
		cfg.Probe.TimeoutMillis = 5000
	}
	if cfg.Probe.ResolveTimeoutMillis <= 0 {
		cfg.Probe.ResolveTimeoutMillis = 3000
	}
	if cfg.Probe.RatePerSecond <= 0 {
		cfg.Probe.RatePerSecond = 25
	}
	if cfg.Probe.Burst <= 0 {
		cfg.Probe.Burst = 50
	}
	if cfg.Resolver.MaxConcurrentResolves <= 0 {
		cfg.Resolver.MaxConcurrentResolves = 4
	}
}
