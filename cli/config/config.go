package config

import (
	"fmt"
	"time"
)

// DefaultPort is the catalog service port used when none is configured.
const DefaultPort = 1247

// Config represents a crozier.yaml configuration file.
// All values are optional and act as defaults for crozier flags.
// CLI flags always override config values.
type Config struct {
	Catalog CatalogConfig `yaml:"catalog"`
	// MaxConnectTime bounds a catalog connection's lifetime; zero or
	// negative disables rotation.
	MaxConnectTime Duration `yaml:"max_connect_time"`
	// BufferSize is the transfer chunk size in bytes.
	BufferSize int `yaml:"buffer_size"`
	// Unbuffered flushes the output after every item.
	Unbuffered bool `yaml:"unbuffered"`
}

// CatalogConfig holds the catalog connection defaults.
type CatalogConfig struct {
	Host   string `yaml:"host"`
	Port   int    `yaml:"port"`
	Zone   string `yaml:"zone"`
	User   string `yaml:"user"`
	Secret string `yaml:"secret"`
}

// Duration wraps time.Duration for YAML string parsing (e.g. "10s", "5m").
type Duration struct {
	time.Duration
}

// UnmarshalYAML parses a duration string like "10s" or "5m30s".
func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

// Default returns the built-in configuration defaults.
func Default() *Config {
	return &Config{
		Catalog:        CatalogConfig{Port: DefaultPort},
		MaxConnectTime: Duration{10 * time.Minute},
	}
}
