// Package config loads and saves the bench/CLI tools' YAML configuration:
// which pin drives the DShot wire, at what bit rate, whether bidirectional
// telemetry is enabled, the ESC's magnet count, and how often the bench
// dashboard polls.
//
// Grounded on sagostin-goefidash's internal/server/config.go: a plain
// struct with yaml tags, a DefaultConfig constructor, and a
// LoadConfig that falls back to defaults rather than failing when the
// file is missing.
package config

import (
	"fmt"
	"log"
	"os"

	"github.com/go-dshot/dshot/dshot"
	"gopkg.in/yaml.v3"
)

// Config holds the settings shared by cmd/dshotctl and cmd/dshotbench.
type Config struct {
	Pin            string `yaml:"pin"`
	Mode           string `yaml:"mode"` // "150", "300", "600", "1200"
	Bidirectional  bool   `yaml:"bidirectional"`
	MagnetCount    int    `yaml:"magnet_count"`
	PollHz         int    `yaml:"poll_hz"`
	LogLevel       string `yaml:"log_level"` // "debug", "info", "warn"
	CommandRepeat  int    `yaml:"command_repeat"`
	CommandDelayUs int    `yaml:"command_delay_us"`

	path string
}

// DefaultConfig returns a Config with sensible defaults: DSHOT600,
// bidirectional telemetry on, a 14-magnet motor (the common 12N14P
// layout), polling at 50Hz.
func DefaultConfig() *Config {
	return &Config{
		Pin:            "GPIO18",
		Mode:           "600",
		Bidirectional:  true,
		MagnetCount:    14,
		PollHz:         50,
		LogLevel:       "info",
		CommandRepeat:  10,
		CommandDelayUs: 1000,
	}
}

// LoadConfig reads Config from a YAML file, falling back to defaults if
// the file doesn't exist or fails to parse.
func LoadConfig(path string) *Config {
	cfg := DefaultConfig()
	cfg.path = path

	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("[config] no config at %s, using defaults", path)
		return cfg
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		log.Printf("[config] error parsing %s: %v, using defaults", path, err)
		cfg = DefaultConfig()
		cfg.path = path
		return cfg
	}
	log.Printf("[config] loaded from %s", path)
	return cfg
}

// DShotMode parses the Mode field into a dshot.Mode.
func (c *Config) DShotMode() (dshot.Mode, error) {
	switch c.Mode {
	case "150":
		return dshot.Mode150, nil
	case "300":
		return dshot.Mode300, nil
	case "600":
		return dshot.Mode600, nil
	case "1200":
		return dshot.Mode1200, nil
	default:
		return dshot.Off, fmt.Errorf("config: unknown mode %q (want 150, 300, 600, or 1200)", c.Mode)
	}
}

// Save writes the config back to its YAML file.
func (c *Config) Save() error {
	if c.path == "" {
		return fmt.Errorf("config: no path to save to")
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(c.path, data, 0644)
}
