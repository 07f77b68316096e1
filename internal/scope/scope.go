// SPDX-License-Identifier: MIT
/*
Package scope is the surface the presentation layer talks to. A Scope owns
one spectrum pipeline per channel and the response curve component, and is
driven by a single periodic tick.

Threading:
  - Tick, LatestPath, ResponseCurve, Frame and SetBounds belong to the tick
    goroutine (Run, or a UI framework's timer)
  - SetAnalysisEnabled and ParameterChanged may be called from any goroutine
*/
package scope

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"eqscope/internal/analysis"
	applog "eqscope/internal/log"
	"eqscope/internal/plot"
	"eqscope/internal/response"
)

// Channel selects one of the two analyzed channels.
type Channel int

const (
	Left Channel = iota
	Right
	NumChannels
)

func (c Channel) String() string {
	switch c {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return fmt.Sprintf("Channel(%d)", int(c))
	}
}

// DefaultTickRate is the UI refresh rate in Hz.
const DefaultTickRate = 60.0

// Config fixes the analyzer parameters and the initial geometry.
type Config struct {
	Analyzer        analysis.ProducerConfig
	TickRate        float64   // Hz.
	Bounds          plot.Rect // Bounds of the whole response component.
	AnalysisEnabled bool
}

// DefaultConfig returns a 60 Hz scope with the default analyzer.
func DefaultConfig() Config {
	return Config{
		Analyzer:        analysis.DefaultProducerConfig(),
		TickRate:        DefaultTickRate,
		Bounds:          plot.Rect{Width: 600, Height: 300},
		AnalysisEnabled: true,
	}
}

// Validate checks every field.
func (c Config) Validate() error {
	if err := c.Analyzer.Validate(); err != nil {
		return err
	}
	if !(c.TickRate > 0) {
		return fmt.Errorf("scope: tick rate must be positive, got %v", c.TickRate)
	}
	return nil
}

// FrameSink receives a frame after every tick. The frame is only valid for
// the duration of the call; sinks that keep it must copy it.
type FrameSink interface {
	Publish(f *Frame)
}

// Scope is the visualization engine of one equalizer instance.
type Scope struct {
	cfg       Config
	processor response.Processor

	producers       [NumChannels]*analysis.PathProducer
	response        *response.Component
	analysisEnabled atomic.Bool

	bounds   plot.Rect
	sequence uint64
	frame    Frame // Reused by Run.
}

// New builds a scope reading the left and right sample buffers and the
// equalizer parameters of processor.
func New(cfg Config, processor response.Processor, left, right analysis.BlockSource) (*Scope, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("scope: %w", err)
	}

	s := &Scope{
		cfg:       cfg,
		processor: processor,
		bounds:    cfg.Bounds,
		response:  response.NewComponent(processor, cfg.Bounds),
	}
	for ch, src := range [NumChannels]analysis.BlockSource{left, right} {
		p, err := analysis.NewPathProducer(src, cfg.Analyzer)
		if err != nil {
			return nil, fmt.Errorf("scope: %s channel: %w", Channel(ch), err)
		}
		s.producers[ch] = p
	}
	s.analysisEnabled.Store(cfg.AnalysisEnabled)

	applog.Infof("Scope: Initializing (FFT: %d, Floor: %.0f dB, Stride: %d, Tick: %.0f Hz)",
		cfg.Analyzer.Order.Size(), cfg.Analyzer.DecibelFloor, cfg.Analyzer.PathStride, cfg.TickRate)
	return s, nil
}

// Tick advances the response curve and, when analysis is enabled, both
// channel pipelines. Idle ticks do no work.
func (s *Scope) Tick() {
	s.response.Tick()

	if !s.analysisEnabled.Load() {
		return
	}
	area := plot.AnalysisArea(s.bounds)
	sampleRate := s.processor.SampleRate()
	for _, p := range s.producers {
		p.Process(area, sampleRate)
	}
}

// LatestPath returns the newest spectrum path of ch, empty until the first
// block was analyzed. The points are reused by the next Tick.
func (s *Scope) LatestPath(ch Channel) plot.Path {
	if ch < 0 || ch >= NumChannels {
		return plot.Path{}
	}
	return s.producers[ch].Path()
}

// ResponseCurve returns the equalizer response in dB at width columns.
func (s *Scope) ResponseCurve(width int) []float64 {
	return s.response.ResponseCurve(width)
}

// ResponsePath returns the response curve mapped into the analysis area.
func (s *Scope) ResponsePath() plot.Path {
	return s.response.Path()
}

// SetAnalysisEnabled turns the spectrum pipelines on or off.
func (s *Scope) SetAnalysisEnabled(enabled bool) {
	if s.analysisEnabled.Swap(enabled) != enabled {
		applog.Debugf("Scope: Analysis enabled = %v", enabled)
	}
}

// AnalysisEnabled reports whether the spectrum pipelines run on Tick.
func (s *Scope) AnalysisEnabled() bool {
	return s.analysisEnabled.Load()
}

// ParameterChanged marks the response curve dirty. Register it as a
// parameter listener.
func (s *Scope) ParameterChanged() {
	s.response.ParameterChanged()
}

// SetBounds resizes the component. The response curve is recomputed at once;
// spectrum paths follow on the next block.
func (s *Scope) SetBounds(bounds plot.Rect) {
	s.bounds = bounds
	s.response.SetBounds(bounds)
}

// Bounds returns the component bounds.
func (s *Scope) Bounds() plot.Rect {
	return s.bounds
}

// AnalysisArea returns the region paths are mapped into.
func (s *Scope) AnalysisArea() plot.Rect {
	return plot.AnalysisArea(s.bounds)
}

// SetFFTOrder resets both channel pipelines for a new transform size.
func (s *Scope) SetFFTOrder(order analysis.Order) error {
	for ch, p := range s.producers {
		if err := p.ChangeOrder(order); err != nil {
			return fmt.Errorf("scope: %s channel: %w", Channel(ch), err)
		}
	}
	s.cfg.Analyzer.Order = order
	return nil
}

// Config returns the active configuration.
func (s *Scope) Config() Config {
	return s.cfg
}

// Frame fills dst with a snapshot of the current state, reusing its slices.
func (s *Scope) Frame(dst *Frame) {
	s.sequence++
	dst.Sequence = s.sequence
	dst.Timestamp = time.Now()
	dst.Area = plot.AnalysisArea(s.bounds)
	dst.Left.CopyFrom(s.producers[Left].Path())
	dst.Right.CopyFrom(s.producers[Right].Path())
	dst.Response = append(dst.Response[:0], s.response.Magnitudes()...)
	dst.AnalysisEnabled = s.analysisEnabled.Load()
}

// Run ticks at the configured rate and publishes a frame to every sink after
// each tick, until ctx is cancelled.
func (s *Scope) Run(ctx context.Context, sinks ...FrameSink) error {
	ticker := time.NewTicker(time.Duration(float64(time.Second) / s.cfg.TickRate))
	defer ticker.Stop()

	applog.Infof("Scope: Running at %.0f Hz with %d sinks", s.cfg.TickRate, len(sinks))
	for {
		select {
		case <-ctx.Done():
			applog.Infof("Scope: Stopped after %d frames", s.sequence)
			return nil
		case <-ticker.C:
			s.Tick()
			if len(sinks) == 0 {
				continue
			}
			s.Frame(&s.frame)
			for _, sink := range sinks {
				sink.Publish(&s.frame)
			}
		}
	}
}
