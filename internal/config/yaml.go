// SPDX-License-Identifier: MIT
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidLogLevel = errors.New("config: invalid log level")
	ErrInvalidBackend  = errors.New("config: invalid backend")
)

// Config represents the main application configuration structure, loaded from YAML.
type Config struct {
	Debug    bool        `yaml:"debug"`     // Force debug logging.
	LogLevel string      `yaml:"log_level"` // One of "debug", "info", "warn", "error".
	Audio    AudioConfig `yaml:"audio"`     // Audio backend settings.

	// Path is the file the configuration was read from, empty for defaults.
	Path string `yaml:"-"`
}

// AudioConfig holds settings related to the audio backend.
type AudioConfig struct {
	Backend         string `yaml:"backend"`          // "auto", "coreaudio", "pulse" or "portaudio".
	PulseServer     string `yaml:"pulse_server"`     // PulseAudio server address, empty for the default socket.
	ApplicationName string `yaml:"application_name"` // Client name announced to the sound server.
}

// LoadConfig loads configuration from a YAML file specified by path. If path is
// empty it looks for audiyo.yaml in the working directory, then for
// audiyo/config.yaml in the XDG config directories. If no file is found the
// built-in defaults are used. Environment overrides are applied last and the
// result is validated.
func LoadConfig(path string) (*Config, error) {
	cfg := NewConfig()

	if path == "" {
		path = searchConfigFile()
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
		cfg.Path = path
	}

	// Apply environment variable overrides AFTER loading from file.
	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func searchConfigFile() string {
	if _, err := os.Stat(FileName); err == nil {
		return FileName
	}
	if path, err := xdg.SearchConfigFile(XDGFileName); err == nil {
		return path
	}
	return ""
}

// Validate normalises case and rejects unknown log levels and backends.
func (c *Config) Validate() error {
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if !slices.Contains(LogLevels, c.LogLevel) {
		return fmt.Errorf("%w: %q (want one of %s)", ErrInvalidLogLevel, c.LogLevel, strings.Join(LogLevels, ", "))
	}

	c.Audio.Backend = strings.ToLower(strings.TrimSpace(c.Audio.Backend))
	if c.Audio.Backend == "" {
		c.Audio.Backend = DefaultBackend
	}
	if !slices.Contains(Backends, c.Audio.Backend) {
		return fmt.Errorf("%w: %q (want one of %s)", ErrInvalidBackend, c.Audio.Backend, strings.Join(Backends, ", "))
	}

	if c.Audio.ApplicationName == "" {
		c.Audio.ApplicationName = DefaultApplicationName
	}

	return nil
}

// applyEnvOverrides reads AUDIYO_* variables over the file values.
// Unparseable booleans are ignored.
func (c *Config) applyEnvOverrides() {
	// AUDIYO_DEBUG
	if val, ok := os.LookupEnv("AUDIYO_DEBUG"); ok {
		if bVal, err := strconv.ParseBool(val); err == nil {
			c.Debug = bVal
		}
	}
	// AUDIYO_LOG_LEVEL
	if val, ok := os.LookupEnv("AUDIYO_LOG_LEVEL"); ok {
		c.LogLevel = val
	}

	// AUDIYO_BACKEND
	if val, ok := os.LookupEnv("AUDIYO_BACKEND"); ok {
		c.Audio.Backend = val
	}
	// AUDIYO_PULSE_SERVER
	if val, ok := os.LookupEnv("AUDIYO_PULSE_SERVER"); ok {
		c.Audio.PulseServer = val
	}
}
