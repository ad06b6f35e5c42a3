// SPDX-License-Identifier: MIT
package config

// Defaults applied before the config file and environment are read.
const (
	DefaultLogLevel        = "info"
	DefaultBackend         = "auto"
	DefaultApplicationName = "audiyo"

	// FileName is looked up in the working directory before the XDG
	// config directories are searched for XDGFileName.
	FileName    = "audiyo.yaml"
	XDGFileName = "audiyo/config.yaml"
)

// LogLevels lists the accepted values of log_level.
var LogLevels = []string{"debug", "info", "warn", "error"}

// Backends lists the accepted values of audio.backend.
var Backends = []string{"auto", "coreaudio", "pulse", "portaudio"}

// LogConfig is the subset of the configuration the logger needs.
type LogConfig struct {
	Level string
	Debug bool
}

// NewConfig returns a Config holding the built-in defaults.
func NewConfig() *Config {
	return &Config{
		Debug:    false,
		LogLevel: DefaultLogLevel,
		Audio: AudioConfig{
			Backend:         DefaultBackend,
			PulseServer:     "", // library default
			ApplicationName: DefaultApplicationName,
		},
	}
}

// Logging returns the logger settings.
func (c *Config) Logging() LogConfig {
	return LogConfig{Level: c.LogLevel, Debug: c.Debug}
}
