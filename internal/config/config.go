// # internal/config/config.go
package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// DefaultMoodleRoot is the fallback installation path used when neither
// the config file nor the command line names one.
const DefaultMoodleRoot = "/var/www/html/moodle"

type Config struct {
	MoodleRoot string    `toml:"moodle_root"`
	Component  string    `toml:"component"`
	Exclude    Exclude   `toml:"exclude"`
	Watch      Watch     `toml:"watch"`
	Output     Output    `toml:"output"`
	Reconcile  Reconcile `toml:"reconcile"`
	History    History   `toml:"history"`
	Metrics    Metrics   `toml:"metrics"`
	Alerts     Alerts    `toml:"alerts"`
}

type Exclude struct {
	Dirs  []string `toml:"dirs"`
	Files []string `toml:"files"`
}

type Watch struct {
	Debounce time.Duration `toml:"debounce"`
	// RescansPerMinute caps full rescans in watch mode. Zero means default.
	RescansPerMinute float64 `toml:"rescans_per_minute"`
}

type Output struct {
	Markdown string `toml:"markdown"`
	SARIF    string `toml:"sarif"`
	TSV      string `toml:"tsv"`
}

type Reconcile struct {
	// Reference selects the coverage reference set: "union" (default)
	// measures each language against every string defined anywhere,
	// "usages" measures against the strings actually referenced in code.
	Reference string `toml:"reference"`
	// Permissive loads every PHP file in a language directory instead of
	// only the conventionally named one.
	Permissive bool `toml:"permissive"`
}

type History struct {
	Path string `toml:"path"`
}

type Metrics struct {
	Addr string `toml:"addr"`
}

type Alerts struct {
	Beep bool `toml:"beep"`
	// Quiet suppresses the terminal summary; reports and exit codes are
	// unaffected.
	Quiet bool `toml:"quiet"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// Default returns a config with defaults applied, used when no config file
// exists alongside the invocation.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.MoodleRoot == "" {
		cfg.MoodleRoot = DefaultMoodleRoot
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}
	if cfg.Watch.RescansPerMinute == 0 {
		cfg.Watch.RescansPerMinute = 12
	}
	if len(cfg.Exclude.Dirs) == 0 {
		cfg.Exclude.Dirs = []string{".git", "vendor", "node_modules"}
	}
	if cfg.Reconcile.Reference == "" {
		cfg.Reconcile.Reference = "union"
	}
}
