// SPDX-License-Identifier: MIT
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"eqscope/internal/filter"
	applog "eqscope/internal/log"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// DefaultPath is the file LoadConfig looks for when no path is given.
const DefaultPath = "config.yaml"

// LoadConfig loads configuration from a YAML file specified by path. If path is empty,
// it looks for DefaultPath in the working directory. If no file is found, it uses
// built-in defaults. Environment variable overrides are applied last, then the
// result is validated.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		if _, err := os.Stat(DefaultPath); err == nil {
			path = DefaultPath
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
		applog.Infof("Config: Loaded %s", path)
	}

	// Apply environment variable overrides AFTER loading from file.
	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every section and returns the first problem found.
func (c *Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
	}

	if c.LogLevel != "" {
		if _, ok := applog.ParseLevel(c.LogLevel); !ok {
			return invalid("log_level %q not recognised", c.LogLevel)
		}
	}

	// Analyzer
	if err := c.ScopeConfig().Validate(); err != nil {
		return invalid("analyzer: %v", err)
	}
	if c.Display.Width <= 0 || c.Display.Height <= 0 {
		return invalid("display size %dx%d must be positive", c.Display.Width, c.Display.Height)
	}

	// Source
	switch c.Source.Kind {
	case SourceTone:
		if c.Source.SampleRate < MinSampleRate || c.Source.SampleRate > MaxSampleRate {
			return invalid("source.sample_rate %v outside [%d, %d]", c.Source.SampleRate, MinSampleRate, MaxSampleRate)
		}
		if len(c.Source.ToneHz) == 0 || len(c.Source.ToneHz) > 2 {
			return invalid("source.tone_hz needs one or two frequencies, got %d", len(c.Source.ToneHz))
		}
		if c.Source.Amplitude < 0 || c.Source.Amplitude > 1 {
			return invalid("source.amplitude %v outside [0, 1]", c.Source.Amplitude)
		}
	case SourceWav:
		if c.Source.Path == "" {
			return invalid("source.path must be set for a wav source")
		}
	default:
		return invalid("source.kind %q must be %q or %q", c.Source.Kind, SourceTone, SourceWav)
	}
	if c.Source.Gate < 0 || c.Source.Gate > 1 {
		return invalid("source.gate %v outside [0, 1]", c.Source.Gate)
	}
	if c.Source.BlockSize < 1 || c.Source.BlockSize > MaxBlockSize {
		return invalid("source.block_size %d outside [1, %d]", c.Source.BlockSize, MaxBlockSize)
	}

	// EQ
	if _, err := filter.ParseSlope(c.EQ.LowCutSlope); err != nil {
		return invalid("eq.low_cut_slope: %v", err)
	}
	if _, err := filter.ParseSlope(c.EQ.HighCutSlope); err != nil {
		return invalid("eq.high_cut_slope: %v", err)
	}

	// Transport
	if c.Transport.UDPEnabled {
		if !strings.Contains(c.Transport.UDPTargetAddress, ":") {
			return invalid("transport.udp_target_address %q appears invalid (missing port?)", c.Transport.UDPTargetAddress)
		}
		if c.Transport.UDPSendInterval <= 0 {
			return invalid("transport.udp_send_interval must be positive when UDP is enabled")
		}
	}
	if c.Transport.WebSocketEnabled && c.Transport.WebSocketAddress == "" {
		return invalid("transport.websocket_address must be set when the websocket is enabled")
	}

	return nil
}

// Level returns the configured log level; Debug forces LevelDebug.
func (c *Config) Level() applog.LogLevel {
	if c.Debug {
		return applog.LevelDebug
	}
	level, _ := applog.ParseLevel(c.LogLevel)
	return level
}

// applyEnvOverrides replaces values with ENV_* environment variables.
// Unparseable values are ignored with a warning.
func (c *Config) applyEnvOverrides() {
	overrideBool := func(name string, dst *bool) {
		if val, ok := os.LookupEnv(name); ok {
			b, err := strconv.ParseBool(val)
			if err != nil {
				applog.Warnf("Config: Ignoring %s=%q: %v", name, val, err)
				return
			}
			*dst = b
			applog.Infof("Config: Overriding from %s: %v", name, b)
		}
	}
	overrideString := func(name string, dst *string) {
		if val, ok := os.LookupEnv(name); ok {
			*dst = val
			applog.Infof("Config: Overriding from %s: %s", name, val)
		}
	}
	overrideDuration := func(name string, dst *time.Duration) {
		if val, ok := os.LookupEnv(name); ok {
			d, err := time.ParseDuration(val)
			if err != nil {
				applog.Warnf("Config: Ignoring %s=%q: %v", name, val, err)
				return
			}
			*dst = d
			applog.Infof("Config: Overriding from %s: %s", name, d)
		}
	}
	overrideInt := func(name string, dst *int) {
		if val, ok := os.LookupEnv(name); ok {
			n, err := strconv.Atoi(val)
			if err != nil {
				applog.Warnf("Config: Ignoring %s=%q: %v", name, val, err)
				return
			}
			*dst = n
			applog.Infof("Config: Overriding from %s: %d", name, n)
		}
	}

	// ENV_{...} general
	overrideBool("ENV_DEBUG", &c.Debug)
	overrideString("ENV_LOG_LEVEL", &c.LogLevel)

	// ENV_FFT_ORDER, ENV_SOURCE_*
	overrideInt("ENV_FFT_ORDER", &c.Analyzer.FFTOrder)
	overrideString("ENV_SOURCE_KIND", &c.Source.Kind)
	overrideString("ENV_SOURCE_PATH", &c.Source.Path)

	// ENV_WS_{...}, ENV_UDP_{...} transport
	overrideBool("ENV_WS_ENABLED", &c.Transport.WebSocketEnabled)
	overrideString("ENV_WS_ADDRESS", &c.Transport.WebSocketAddress)
	overrideBool("ENV_UDP_ENABLED", &c.Transport.UDPEnabled)
	overrideString("ENV_UDP_TARGET_ADDRESS", &c.Transport.UDPTargetAddress)
	overrideDuration("ENV_UDP_SEND_INTERVAL", &c.Transport.UDPSendInterval)
}
