// Package config loads the server configuration file.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the top-level configuration structure.
type Config struct {
	Server  ServerConfig            `toml:"server"`
	Plugins map[string]PluginConfig `toml:"plugins"`
}

// ServerConfig contains transport and identity settings.
type ServerConfig struct {
	Name      string `toml:"name"`
	Transport string `toml:"transport"`
	Host      string `toml:"host"`
	Port      int    `toml:"port"`
	Debug     bool   `toml:"debug"`
}

// PluginConfig holds per-plugin switches. A plugin absent from the file is
// enabled; it must be disabled explicitly.
type PluginConfig struct {
	Enabled *bool `toml:"enabled"`
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Name:      "Pero MCP Server",
			Transport: "stdio",
			Host:      "0.0.0.0",
			Port:      8000,
		},
		Plugins: make(map[string]PluginConfig),
	}
}

// Load reads the configuration file at path on top of the defaults. An
// empty path returns the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if cfg.Plugins == nil {
		cfg.Plugins = make(map[string]PluginConfig)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	switch c.Server.Transport {
	case "stdio", "http":
	default:
		return fmt.Errorf("unknown transport %q (use 'stdio' or 'http')", c.Server.Transport)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Server.Port)
	}
	if c.Server.Name == "" {
		return fmt.Errorf("server name must not be empty")
	}
	return nil
}

// PluginEnabled reports whether the named plugin should be loaded.
func (c *Config) PluginEnabled(name string) bool {
	pc, ok := c.Plugins[name]
	if !ok || pc.Enabled == nil {
		return true
	}
	return *pc.Enabled
}
