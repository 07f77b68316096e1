// SPDX-License-Identifier: MIT
package analysis

import (
	"fmt"

	applog "eqscope/internal/log"
	"eqscope/internal/plot"
)

// ProducerConfig fixes the analyzer parameters of one channel. Changing any
// of them requires a pipeline reset.
type ProducerConfig struct {
	Order        Order
	DecibelFloor float64
	PathStride   int
}

// DefaultProducerConfig returns a 2048-point analyzer with a -48 dB floor
// drawing every other bin.
func DefaultProducerConfig() ProducerConfig {
	return ProducerConfig{
		Order:        DefaultOrder,
		DecibelFloor: DefaultDecibelFloor,
		PathStride:   DefaultPathStride,
	}
}

// Validate checks the configuration against the supported ranges.
func (c ProducerConfig) Validate() error {
	if err := c.Order.Validate(); err != nil {
		return err
	}
	if c.PathStride < 1 {
		return fmt.Errorf("%w, got %d", ErrInvalidStride, c.PathStride)
	}
	if !(c.DecibelFloor < 0) || !plot.IsFinite(c.DecibelFloor) {
		return fmt.Errorf("%w, got %v", ErrInvalidFloor, c.DecibelFloor)
	}
	return nil
}

// PathProducer runs the spectrum pipeline for one channel: it drains sample
// blocks into a sliding window, transforms the window after every block and
// keeps the newest path. Everything except the BlockSource is owned by the
// producer, so two channels never share state.
//
// PathProducer is not safe for concurrent use; call it from the UI tick.
type PathProducer struct {
	source BlockSource
	cfg    ProducerConfig

	window   []float32 // Sliding mono window, always FFT size samples.
	block    []float32 // Scratch for the block being pulled.
	spectrum []float32 // Scratch for the spectrum being pulled.

	fft    *FFTDataGenerator
	paths  *PathGenerator
	latest plot.Path
}

// NewPathProducer builds the pipeline reading from source.
func NewPathProducer(source BlockSource, cfg ProducerConfig) (*PathProducer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	fft, err := NewFFTDataGenerator(cfg.Order)
	if err != nil {
		return nil, err
	}

	p := &PathProducer{
		source: source,
		fft:    fft,
	}
	if err := p.reset(cfg); err != nil {
		return nil, err
	}
	return p, nil
}

// ChangeOrder resizes the pipeline for a new transform size. The window,
// pending spectra, pending paths and the latest path are all discarded.
func (p *PathProducer) ChangeOrder(order Order) error {
	if err := order.Validate(); err != nil {
		return err
	}
	if err := p.fft.ChangeOrder(order); err != nil {
		return err
	}
	cfg := p.cfg
	cfg.Order = order
	applog.Infof("Analysis: FFT order changed to %d (%d samples)", int(order), order.Size())
	return p.reset(cfg)
}

func (p *PathProducer) reset(cfg ProducerConfig) error {
	size := cfg.Order.Size()

	paths, err := NewPathGenerator(cfg.PathStride, size)
	if err != nil {
		return err
	}

	p.cfg = cfg
	p.window = make([]float32, size)
	p.spectrum = make([]float32, size)
	p.paths = paths
	p.latest = plot.NewPath(size/2/cfg.PathStride + 2)
	return nil
}

// Process advances the pipeline with whatever the producer has delivered
// since the last call. bounds is the analysis area the path is mapped into.
// It never blocks; with no new blocks it does nothing.
func (p *PathProducer) Process(bounds plot.Rect, sampleRate float64) {
	for p.source.NumCompleteBlocksAvailable() > 0 {
		if !p.source.PullBlock(&p.block) {
			break
		}
		shiftIn(p.window, p.block)
		p.fft.Produce(p.window, p.cfg.DecibelFloor)
	}

	fftSize := p.fft.FFTSize()
	binWidth := sampleRate / float64(fftSize)
	for p.fft.NumAvailableBlocks() > 0 {
		if !p.fft.Pull(&p.spectrum) {
			break
		}
		p.paths.Generate(p.spectrum, bounds, fftSize, binWidth, p.cfg.DecibelFloor)
	}

	// Only the newest path is kept.
	for p.paths.NumPathsAvailable() > 0 {
		if !p.paths.Pull(&p.latest) {
			break
		}
	}
}

// Path returns the newest path, empty until the first block was analyzed.
// The points are reused by the next Process call.
func (p *PathProducer) Path() plot.Path {
	return p.latest
}

// Window returns the current sliding window. Callers must not modify it.
func (p *PathProducer) Window() []float32 {
	return p.window
}

// Config returns the active configuration.
func (p *PathProducer) Config() ProducerConfig {
	return p.cfg
}

// shiftIn slides block into the tail of window, discarding the oldest
// samples. Blocks longer than the window keep only their newest samples.
func shiftIn(window, block []float32) {
	if len(block) >= len(window) {
		copy(window, block[len(block)-len(window):])
		return
	}
	n := copy(window, window[len(block):])
	copy(window[n:], block)
}
