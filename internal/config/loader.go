package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"failover-constructor/internal/supervisor"
)

const DefaultCatalog = "classes.yaml"

// Load reads configuration from a YAML file. Environment variables in the
// file are expanded before parsing.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// LoadOrDefault behaves like Load but returns the defaults when path does not
// exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}

	return cfg, err
}

// Parse decodes configuration from YAML bytes.
func Parse(data []byte) (*Config, error) {
	var cfg Config

	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	return &cfg, nil
}

// Default returns the configuration used without a config file.
func Default() *Config {
	var cfg Config
	applyDefaults(&cfg)

	return &cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Catalog == "" {
		cfg.Catalog = DefaultCatalog
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}

	if cfg.Supervisor.MaxDepth == 0 {
		cfg.Supervisor.MaxDepth = supervisor.DefaultConfig().MaxDepth
	}
}

// SupervisorConfig converts the loaded settings into a supervisor config.
func (c *Config) SupervisorConfig() supervisor.Config {
	sc := supervisor.DefaultConfig()
	sc.MaxDepth = c.Supervisor.MaxDepth
	sc.InheritDefaultFailover = c.Supervisor.InheritDefaultFailover

	return sc
}
