// Package config loads the dashboard server settings.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"go-chart-dashboard/internal/suggest"
)

// Config holds all server configuration options.
type Config struct {
	Addr         string         `koanf:"addr"`
	DatabasePath string         `koanf:"database"`
	SaveQuietMS  int            `koanf:"save_quiet_ms"`
	Suggest      suggest.Config `koanf:"suggest"`
}

// Default configuration values.
const (
	DefaultAddr        = ":8080"
	DefaultDatabase    = "dashboard.db"
	DefaultSaveQuietMS = 500
)

// envPrefix namespaces the server's environment variables
const envPrefix = "DASH_"

// envTransform maps DASH_SAVE_QUIET_MS to save_quiet_ms and
// DASH_SUGGEST_API_KEY to suggest.api_key
func envTransform(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
	if after, ok := strings.CutPrefix(s, "suggest_"); ok {
		return "suggest." + after
	}
	return s
}

// findConfigFile finds the config file to use.
// Priority: explicit path > dashboard.yaml > dashboard.yml
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range []string{"dashboard.yaml", "dashboard.yml"} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// Load loads configuration from file and environment variables.
// Precedence (highest to lowest): env vars > config file > defaults
func Load(cfgFile string) (*Config, error) {
	k := koanf.New(".")

	// 1. Load defaults
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"addr":          DefaultAddr,
		"database":      DefaultDatabase,
		"save_quiet_ms": DefaultSaveQuietMS,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Load config file if one exists
	if path := findConfigFile(cfgFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	// 3. Load environment variables (DASH_ prefix)
	if err := k.Load(env.Provider(envPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// GEMINI_API_KEY is the conventional home for the key, honor it
	// when the namespaced variable is absent
	if cfg.Suggest.APIKey == "" {
		cfg.Suggest.APIKey = os.Getenv("GEMINI_API_KEY")
	}

	return &cfg, nil
}

// SaveQuiet returns the debounce window for snapshot writes.
func (c *Config) SaveQuiet() time.Duration {
	return time.Duration(c.SaveQuietMS) * time.Millisecond
}
