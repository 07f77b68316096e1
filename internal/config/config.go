// SPDX-License-Identifier: MIT
package config

import (
	"time"

	"eqscope/internal/analysis"
	"eqscope/internal/filter"
	"eqscope/internal/plot"
	"eqscope/internal/scope"
)

// Source kinds.
const (
	SourceTone = "tone"
	SourceWav  = "wav"
)

// Defaults and limits for the runtime configuration.
const (
	DefaultSampleRate = 48000.0
	DefaultBlockSize  = 512
	DefaultToneHz     = 1000.0
	DefaultWidth      = 600
	DefaultHeight     = 300

	MinSampleRate = 8000
	MaxSampleRate = 192000
	MaxBlockSize  = 8192
)

// Config represents the main application configuration structure, loaded from YAML.
type Config struct {
	Debug     bool            `yaml:"debug"`     // Shorthand for log_level: debug.
	LogLevel  string          `yaml:"log_level"` // "debug", "info", "warn" or "error".
	Analyzer  AnalyzerConfig  `yaml:"analyzer"`
	Display   DisplayConfig   `yaml:"display"`
	Source    SourceConfig    `yaml:"source"`
	EQ        EQConfig        `yaml:"eq"`
	Transport TransportConfig `yaml:"transport"`
}

// AnalyzerConfig holds the spectrum analyzer settings.
type AnalyzerConfig struct {
	FFTOrder     int     `yaml:"fft_order"`     // 11, 12 or 13 (2048, 4096, 8192 points).
	DecibelFloor float64 `yaml:"decibel_floor"` // Bottom of the spectrum display, negative.
	PathStride   int     `yaml:"path_stride"`   // Draw every n-th bin.
	TickRate     float64 `yaml:"tick_rate"`     // UI refresh rate in Hz.
	Enabled      bool    `yaml:"enabled"`       // Start with the analyzer on.
}

// DisplayConfig is the size of the response component in pixels.
type DisplayConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// SourceConfig selects what feeds the analyzer.
type SourceConfig struct {
	Kind       string    `yaml:"kind"`        // "tone" or "wav".
	Path       string    `yaml:"path"`        // WAV file, kind "wav" only.
	Loop       bool      `yaml:"loop"`        // Rewind the WAV file at the end.
	SampleRate float64   `yaml:"sample_rate"` // Tone source rate in Hz.
	BlockSize  int       `yaml:"block_size"`  // Frames per producer block.
	ToneHz     []float64 `yaml:"tone_hz"`     // One frequency per channel; one value is shared.
	Amplitude  float64   `yaml:"amplitude"`   // Tone amplitude in [0, 1].
	Record     string    `yaml:"record"`      // Optional WAV file the producer input is written to.
	Gate       float64   `yaml:"gate"`        // Noise gate threshold in [0, 1]; 0 leaves the gate off.
}

// EQConfig is the initial equalizer state. Slopes are in dB/oct.
type EQConfig struct {
	PeakFreq        float64 `yaml:"peak_freq"`
	PeakGain        float64 `yaml:"peak_gain"`
	PeakQuality     float64 `yaml:"peak_quality"`
	LowCutFreq      float64 `yaml:"low_cut_freq"`
	LowCutSlope     int     `yaml:"low_cut_slope"`
	HighCutFreq     float64 `yaml:"high_cut_freq"`
	HighCutSlope    int     `yaml:"high_cut_slope"`
	LowCutBypassed  bool    `yaml:"low_cut_bypassed"`
	PeakBypassed    bool    `yaml:"peak_bypassed"`
	HighCutBypassed bool    `yaml:"high_cut_bypassed"`
}

// TransportConfig holds settings related to sending frames over the network.
type TransportConfig struct {
	WebSocketEnabled  bool          `yaml:"websocket_enabled"`
	WebSocketAddress  string        `yaml:"websocket_address"`  // Listen address, e.g. ":8080".
	WebSocketInterval time.Duration `yaml:"websocket_interval"` // Minimum time between broadcasts.

	UDPEnabled       bool          `yaml:"udp_enabled"`
	UDPTargetAddress string        `yaml:"udp_target_address"` // e.g. "127.0.0.1:9090".
	UDPSendInterval  time.Duration `yaml:"udp_send_interval"`

	LogFrames bool `yaml:"log_frames"` // Log a summary of every frame at debug level.
}

// Default returns the built-in configuration.
func Default() Config {
	eq := filter.DefaultChainSettings()
	return Config{
		LogLevel: "info",
		Analyzer: AnalyzerConfig{
			FFTOrder:     int(analysis.DefaultOrder),
			DecibelFloor: analysis.DefaultDecibelFloor,
			PathStride:   analysis.DefaultPathStride,
			TickRate:     scope.DefaultTickRate,
			Enabled:      true,
		},
		Display: DisplayConfig{
			Width:  DefaultWidth,
			Height: DefaultHeight,
		},
		Source: SourceConfig{
			Kind:       SourceTone,
			SampleRate: DefaultSampleRate,
			BlockSize:  DefaultBlockSize,
			ToneHz:     []float64{DefaultToneHz},
			Amplitude:  0.5,
			Loop:       true,
		},
		EQ: EQConfig{
			PeakFreq:     eq.PeakFreq,
			PeakGain:     eq.PeakGainInDecibels,
			PeakQuality:  eq.PeakQuality,
			LowCutFreq:   eq.LowCutFreq,
			LowCutSlope:  eq.LowCutSlope.DecibelsPerOctave(),
			HighCutFreq:  eq.HighCutFreq,
			HighCutSlope: eq.HighCutSlope.DecibelsPerOctave(),
		},
		Transport: TransportConfig{
			WebSocketEnabled:  true,
			WebSocketAddress:  ":8080",
			WebSocketInterval: 16 * time.Millisecond,
			UDPEnabled:        false,
			UDPTargetAddress:  "127.0.0.1:9090",
			UDPSendInterval:   33 * time.Millisecond, // ~30Hz.
		},
	}
}

// ChainSettings converts the eq section. Validate must have succeeded.
func (c *Config) ChainSettings() filter.ChainSettings {
	lowSlope, _ := filter.ParseSlope(c.EQ.LowCutSlope)
	highSlope, _ := filter.ParseSlope(c.EQ.HighCutSlope)
	return filter.ChainSettings{
		PeakFreq:           c.EQ.PeakFreq,
		PeakGainInDecibels: c.EQ.PeakGain,
		PeakQuality:        c.EQ.PeakQuality,
		LowCutFreq:         c.EQ.LowCutFreq,
		HighCutFreq:        c.EQ.HighCutFreq,
		LowCutSlope:        lowSlope,
		HighCutSlope:       highSlope,
		LowCutBypassed:     c.EQ.LowCutBypassed,
		PeakBypassed:       c.EQ.PeakBypassed,
		HighCutBypassed:    c.EQ.HighCutBypassed,
	}.Clamped()
}

// ScopeConfig converts the analyzer and display sections.
func (c *Config) ScopeConfig() scope.Config {
	return scope.Config{
		Analyzer: analysis.ProducerConfig{
			Order:        analysis.Order(c.Analyzer.FFTOrder),
			DecibelFloor: c.Analyzer.DecibelFloor,
			PathStride:   c.Analyzer.PathStride,
		},
		TickRate:        c.Analyzer.TickRate,
		Bounds:          plot.Rect{Width: float64(c.Display.Width), Height: float64(c.Display.Height)},
		AnalysisEnabled: c.Analyzer.Enabled,
	}
}
