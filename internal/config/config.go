// Package config loads and validates the smsfix configuration file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/example/smsfix/internal/core/offset"
	"github.com/example/smsfix/internal/core/stamp"
)

// Config represents the flat smsfix configuration.
type Config struct {
	// OffsetMode is "automatic", "phone" or "manual".
	OffsetMode string `json:"offset_mode"`
	// ManualOffsetHours is kept as a string because the provider settings
	// it mirrors store it as text; it is parsed (and rejected) at load
	// time, never downstream.
	ManualOffsetHours string `json:"manual_offset_hours"`
	// AlternateNetwork enables the CDMA grace-window behavior.
	AlternateNetwork bool `json:"alternate_network"`
	// Magic is the sentinel embedded in adjusted timestamps, 0..999.
	Magic int64 `json:"magic"`
	// DBPath overrides the default database location when set.
	DBPath string `json:"db_path,omitempty"`
	// PollIntervalMS is the change-watcher poll cadence.
	PollIntervalMS int `json:"poll_interval_ms"`
	// MetricsListen is the host:port for the /metrics endpoint; empty
	// disables metrics serving.
	MetricsListen string `json:"metrics_listen,omitempty"`
	// LogLevel is a logrus level string.
	LogLevel string `json:"log_level"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		OffsetMode:        string(offset.ModeAutomatic),
		ManualOffsetHours: "0",
		Magic:             stamp.DefaultMagic,
		PollIntervalMS:    1000,
		LogLevel:          "info",
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".smsfix", "config.json"), nil
}

// Load reads and validates the config at path. A missing file is not an
// error: the defaults apply. A present but malformed or invalid file fails
// fast so no garbage offset ever reaches the engine.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the config to path, creating parent directories as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Validate checks every field that could propagate a bad value.
func (c *Config) Validate() error {
	if _, err := c.Policy(); err != nil {
		return err
	}
	if !stamp.Valid(c.Magic) {
		return fmt.Errorf("invalid configuration: magic %d out of range [0,1000)", c.Magic)
	}
	if c.PollIntervalMS <= 0 {
		return fmt.Errorf("invalid configuration: poll_interval_ms must be positive, got %d", c.PollIntervalMS)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid configuration: unknown log level %q", c.LogLevel)
	}
	return nil
}

// Policy resolves the offset policy from the raw fields. The manual hours
// string is only parsed when manual mode asks for it.
func (c *Config) Policy() (offset.Policy, error) {
	mode, err := offset.ParseMode(c.OffsetMode)
	if err != nil {
		return offset.Policy{}, err
	}

	p := offset.Policy{
		Mode:             mode,
		AlternateNetwork: c.AlternateNetwork,
	}

	if mode == offset.ModeManual {
		hours, err := strconv.Atoi(c.ManualOffsetHours)
		if err != nil {
			return offset.Policy{}, fmt.Errorf("invalid configuration: manual offset hours %q is not numeric", c.ManualOffsetHours)
		}
		p.ManualHours = hours
	}

	return p, nil
}
