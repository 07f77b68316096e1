// SPDX-License-Identifier: MIT
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"eqscope/internal/analysis"
	"eqscope/internal/filter"
	applog "eqscope/internal/log"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	tmp := t.TempDir()
	path := filepath.Join(tmp, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	return path
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	t.Parallel()
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if cfg.Source.Kind != SourceTone || cfg.Analyzer.FFTOrder != int(analysis.DefaultOrder) {
		t.Errorf("expected built-in defaults, got %+v", cfg)
	}
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	t.Parallel()
	cfg, err := LoadConfig("nonexistent.yaml")
	if err == nil {
		t.Errorf("expected error for missing file, got nil")
	}
	if cfg != nil {
		t.Errorf("expected nil config on error, got %+v", cfg)
	}
}

func TestLoadConfig_UnmarshalError(t *testing.T) {
	t.Parallel()
	path := writeTempConfig(t, ":\n:bad")
	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "failed to parse config file") {
		t.Errorf("expected parse error, got %v", err)
	}
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	t.Parallel()
	path := writeTempConfig(t, `
log_level: debug
analyzer:
  fft_order: 13
  path_stride: 4
display:
  width: 800
eq:
  peak_freq: 2000
  peak_gain: 6
  low_cut_slope: 48
  high_cut_bypassed: true
transport:
  udp_enabled: true
  udp_send_interval: 10ms
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Level() != applog.LevelDebug {
		t.Errorf("Level = %v, expected DEBUG", cfg.Level())
	}
	if cfg.Transport.UDPSendInterval != 10*time.Millisecond {
		t.Errorf("udp_send_interval = %v, expected 10ms", cfg.Transport.UDPSendInterval)
	}

	sc := cfg.ScopeConfig()
	if sc.Analyzer.Order != analysis.Order8192 || sc.Analyzer.PathStride != 4 {
		t.Errorf("analyzer = %+v", sc.Analyzer)
	}
	if sc.Bounds.Width != 800 || sc.Bounds.Height != DefaultHeight {
		t.Errorf("bounds = %+v, expected 800x%d", sc.Bounds, DefaultHeight)
	}
	// Untouched keys keep their defaults.
	if sc.Analyzer.DecibelFloor != analysis.DefaultDecibelFloor || !sc.AnalysisEnabled {
		t.Errorf("defaults lost: %+v", sc)
	}

	eq := cfg.ChainSettings()
	if eq.PeakFreq != 2000 || eq.PeakGainInDecibels != 6 {
		t.Errorf("peak = %v Hz / %v dB", eq.PeakFreq, eq.PeakGainInDecibels)
	}
	if eq.LowCutSlope != filter.Slope48 || eq.HighCutSlope != filter.Slope12 {
		t.Errorf("slopes = %v / %v", eq.LowCutSlope, eq.HighCutSlope)
	}
	if !eq.HighCutBypassed || eq.PeakBypassed {
		t.Errorf("bypass flags = %+v", eq)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("ENV_DEBUG", "true")
	t.Setenv("ENV_FFT_ORDER", "12")
	t.Setenv("ENV_UDP_ENABLED", "1")
	t.Setenv("ENV_UDP_TARGET_ADDRESS", "10.0.0.1:7000")
	t.Setenv("ENV_UDP_SEND_INTERVAL", "not-a-duration")

	path := writeTempConfig(t, "analyzer:\n  fft_order: 11\n")
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if !cfg.Debug || cfg.Level() != applog.LevelDebug {
		t.Error("expected ENV_DEBUG to enable debug")
	}
	if cfg.Analyzer.FFTOrder != 12 {
		t.Errorf("fft_order = %d, expected env value 12", cfg.Analyzer.FFTOrder)
	}
	if !cfg.Transport.UDPEnabled || cfg.Transport.UDPTargetAddress != "10.0.0.1:7000" {
		t.Errorf("udp transport = %+v", cfg.Transport)
	}
	if cfg.Transport.UDPSendInterval != Default().Transport.UDPSendInterval {
		t.Errorf("bad duration should be ignored, got %v", cfg.Transport.UDPSendInterval)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"log level", func(c *Config) { c.LogLevel = "loud" }},
		{"fft order", func(c *Config) { c.Analyzer.FFTOrder = 10 }},
		{"floor", func(c *Config) { c.Analyzer.DecibelFloor = 0 }},
		{"stride", func(c *Config) { c.Analyzer.PathStride = 0 }},
		{"tick rate", func(c *Config) { c.Analyzer.TickRate = -1 }},
		{"display", func(c *Config) { c.Display.Width = 0 }},
		{"source kind", func(c *Config) { c.Source.Kind = "mic" }},
		{"wav without path", func(c *Config) { c.Source.Kind = SourceWav }},
		{"sample rate", func(c *Config) { c.Source.SampleRate = 100 }},
		{"tones", func(c *Config) { c.Source.ToneHz = nil }},
		{"amplitude", func(c *Config) { c.Source.Amplitude = 2 }},
		{"gate", func(c *Config) { c.Source.Gate = 1.5 }},
		{"block size", func(c *Config) { c.Source.BlockSize = 0 }},
		{"slope", func(c *Config) { c.EQ.LowCutSlope = 18 }},
		{"udp address", func(c *Config) {
			c.Transport.UDPEnabled = true
			c.Transport.UDPTargetAddress = "localhost"
		}},
		{"udp interval", func(c *Config) {
			c.Transport.UDPEnabled = true
			c.Transport.UDPSendInterval = 0
		}},
		{"websocket address", func(c *Config) { c.Transport.WebSocketAddress = "" }},
	}

	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}
