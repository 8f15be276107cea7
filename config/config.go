/*
Package config loads the server configuration.

PURPOSE:
  One YAML file drives the whole binary: HTTP listen address, SQLite path,
  drag tuning (pixel scale, throttle rates), the maintenance cron schedule
  and the logging setup. Every field has a sensible default so a missing
  config file still yields a runnable server.

USAGE:
  cfg, err := config.Load("config.yaml")
  if err != nil {
      log.Fatal(err)
  }
*/
package config

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"
)

type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Database    DatabaseConfig    `yaml:"database"`
	Drag        DragConfig        `yaml:"drag"`
	Maintenance MaintenanceConfig `yaml:"maintenance"`
	Logging     LoggingConfig     `yaml:"logging"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type DragConfig struct {
	// DayWidthPx is the pixel width of one calendar day; pixel deltas are
	// converted to day deltas by rounding px/DayWidthPx.
	DayWidthPx int `yaml:"day_width_px"`
	// FramesPerSec caps tentative recomputation during a drag.
	FramesPerSec int `yaml:"frames_per_sec"`
	// PersistEvery throttles silent mid-drag write-throughs.
	PersistEvery Duration `yaml:"persist_every"`
}

// Duration accepts time.ParseDuration scalars like "75ms" in YAML.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

type MaintenanceConfig struct {
	// Schedule is a cron expression for the background maintenance job.
	Schedule string `yaml:"schedule"`
	// OverrideRetainDays keeps week overrides this many days past their week.
	OverrideRetainDays int `yaml:"override_retain_days"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server:   ServerConfig{Port: 8080},
		Database: DatabaseConfig{Path: "./data/timeline.db"},
		Drag: DragConfig{
			DayWidthPx:   24,
			FramesPerSec: 60,
			PersistEvery: Duration(75 * time.Millisecond),
		},
		Maintenance: MaintenanceConfig{
			Schedule:           "0 3 * * *",
			OverrideRetainDays: 90,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads the YAML config at path, layered over the defaults. A missing
// file is not an error; the defaults are returned.
func Load(path string) (Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Drag.DayWidthPx <= 0 {
		return fmt.Errorf("day_width_px must be positive")
	}
	if c.Drag.FramesPerSec <= 0 {
		return fmt.Errorf("frames_per_sec must be positive")
	}
	if c.Drag.PersistEvery <= 0 {
		return fmt.Errorf("persist_every must be positive")
	}
	if c.Maintenance.OverrideRetainDays < 0 {
		return fmt.Errorf("override_retain_days must not be negative")
	}
	return nil
}
