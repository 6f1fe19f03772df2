// Package userconfig manages the NAH CLI's own preferences, stored at
// $NAH_HOME/config.toml and editable via `nah config get/set`. These are
// host-operator preferences for the CLI's own behavior, distinct from the
// Host Environment (host.json) that composition reads.
package userconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/nah-project/nah/internal/config"
	"github.com/nah-project/nah/internal/log"
)

// OutputFormat selects how CLI commands render their results.
type OutputFormat string

const (
	OutputHuman OutputFormat = "human"
	OutputJSON  OutputFormat = "json"
)

// Config holds CLI-level preferences.
type Config struct {
	Telemetry bool         `toml:"telemetry" json:"telemetry"`
	Output    OutputFormat `toml:"output" json:"output"`
	Color     bool         `toml:"color" json:"color"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Telemetry: true,
		Output:    OutputHuman,
		Color:     true,
	}
}

// Load reads the CLI config file at cfg.UserConfigFile. Returns defaults
// if the file doesn't exist; returns an error only for parse failures.
func Load(cfg *config.Config) (*Config, error) {
	return loadFromPath(cfg.UserConfigFile)
}

func loadFromPath(path string) (*Config, error) {
	userCfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return userCfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if info, statErr := os.Stat(path); statErr == nil {
		if mode := info.Mode().Perm(); mode&0077 != 0 {
			log.Default().Warn("config file has permissive permissions",
				"path", path, "mode", fmt.Sprintf("%04o", mode), "expected", "0600")
		}
	}

	if _, err := toml.Decode(string(data), userCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return userCfg, nil
}

// Save writes c to cfg.UserConfigFile atomically with 0600 permissions.
func (c *Config) Save(cfg *config.Config) error {
	return c.saveToPath(cfg.UserConfigFile)
}

func (c *Config) saveToPath(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, ".config.toml.tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	if err := tmpFile.Chmod(0600); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to set temp file permissions: %w", err)
	}

	if err := toml.NewEncoder(tmpFile).Encode(c); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write config file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// Get returns the value of a config key as a string.
func (c *Config) Get(key string) (string, bool) {
	switch strings.ToLower(key) {
	case "telemetry":
		return strconv.FormatBool(c.Telemetry), true
	case "output":
		return string(c.Output), true
	case "color":
		return strconv.FormatBool(c.Color), true
	default:
		return "", false
	}
}

// Set updates a config value from a string.
func (c *Config) Set(key, value string) error {
	switch strings.ToLower(key) {
	case "telemetry":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for telemetry: must be true or false")
		}
		c.Telemetry = b
		return nil
	case "output":
		switch OutputFormat(value) {
		case OutputHuman, OutputJSON:
			c.Output = OutputFormat(value)
			return nil
		default:
			return fmt.Errorf("invalid value for output: must be human or json")
		}
	case "color":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for color: must be true or false")
		}
		c.Color = b
		return nil
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
}

// AvailableKeys returns every configurable key with a short description.
func AvailableKeys() map[string]string {
	return map[string]string{
		"telemetry": "Enable anonymous usage statistics (true/false)",
		"output":    "Default output format: human or json",
		"color":     "Enable colored output (true/false)",
	}
}
