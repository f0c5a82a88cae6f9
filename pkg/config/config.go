// Package config loads the runner's configuration: a YAML file overlaid
// with environment variables, the way dukex-operion's receiver config
// loader worked before the CLI took over per-flag environment binding.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RunnerConfig holds everything the background runner needs to start:
// where leaf nodes resolve relative asset paths from, how fast to tick,
// where to serve the control-plane HTTP binding, and which persistence
// backend backs the tree document store.
type RunnerConfig struct {
	ProjectDir      string  `yaml:"project_dir"`
	TickRateHz      float64 `yaml:"tick_rate_hz"`
	ListenAddress   string  `yaml:"listen_address"`
	Persistence     string  `yaml:"persistence"`
	PluginDir       string  `yaml:"plugin_dir"`
	LogLevel        string  `yaml:"log_level"`
	OTLPServiceName string  `yaml:"otlp_service_name"`
}

// Default returns the configuration a fresh checkout runs with when no
// file or environment overlay is present.
func Default() RunnerConfig {
	return RunnerConfig{
		ProjectDir:      ".",
		TickRateHz:      10,
		ListenAddress:   ":8080",
		Persistence:     "file",
		PluginDir:       "./plugins",
		LogLevel:        "info",
		OTLPServiceName: "betula",
	}
}

// Load reads path as YAML into Default's values, then applies the
// BETULA_* environment overlay. A missing file is not an error — Load
// falls back to Default and still applies the overlay.
func Load(path string) (RunnerConfig, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return RunnerConfig{}, fmt.Errorf("config: read %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return RunnerConfig{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	applyEnvOverlay(&cfg)

	if err := Validate(cfg); err != nil {
		return RunnerConfig{}, err
	}

	return cfg, nil
}

func applyEnvOverlay(cfg *RunnerConfig) {
	if v := os.Getenv("BETULA_PROJECT_DIR"); v != "" {
		cfg.ProjectDir = v
	}

	if v := os.Getenv("BETULA_LISTEN_ADDRESS"); v != "" {
		cfg.ListenAddress = v
	}

	if v := os.Getenv("BETULA_PERSISTENCE"); v != "" {
		cfg.Persistence = v
	}

	if v := os.Getenv("BETULA_PLUGIN_DIR"); v != "" {
		cfg.PluginDir = v
	}

	if v := os.Getenv("BETULA_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}

// Validate rejects configurations the runner and its persistence layer
// can't start from.
func Validate(cfg RunnerConfig) error {
	if cfg.ProjectDir == "" {
		return fmt.Errorf("config: project_dir is required")
	}

	if cfg.TickRateHz <= 0 {
		return fmt.Errorf("config: tick_rate_hz must be positive, got %v", cfg.TickRateHz)
	}

	switch cfg.Persistence {
	case "file", "postgresql":
	default:
		return fmt.Errorf("config: unknown persistence backend %q", cfg.Persistence)
	}

	return nil
}
