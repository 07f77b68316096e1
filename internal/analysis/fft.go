// SPDX-License-Identifier: MIT
package analysis

import (
	"fmt"
	"math/cmplx"

	"eqscope/internal/decibels"
	"eqscope/internal/fifo"
	applog "eqscope/internal/log"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/dsp/window"
	"gonum.org/v1/gonum/floats"
)

// spectrumQueueCapacity is the number of spectra buffered between the FFT
// stage and the path generator.
const spectrumQueueCapacity = 20

// FFTDataGenerator turns a full sample window into a magnitude spectrum in
// decibels. Only the first FFTSize()/2 bins of a spectrum are meaningful; the
// upper half is held at the floor.
//
// All buffers are sized by ChangeOrder, so Produce does not allocate.
type FFTDataGenerator struct {
	order  Order
	fft    *fourier.FFT // Reusable real transform for the current order.
	window []float64    // Blackman-Harris coefficients normalised to unit mean.
	input  []float64    // Windowed working copy of the samples.
	coeffs []complex128 // N/2+1 transform outputs.
	data   []float32    // Spectrum being built, N bins.
	queue  *fifo.Fifo[[]float32]
}

// NewFFTDataGenerator builds a generator for the given order.
func NewFFTDataGenerator(order Order) (*FFTDataGenerator, error) {
	g := &FFTDataGenerator{}
	if err := g.ChangeOrder(order); err != nil {
		return nil, err
	}
	applog.Infof("Analysis: Initializing FFTDataGenerator (Size: %d, Window: Blackman-Harris)", order.Size())
	return g, nil
}

// ChangeOrder re-derives every size-dependent buffer and replaces the output
// queue. Spectra produced for the previous order are discarded.
func (g *FFTDataGenerator) ChangeOrder(order Order) error {
	if err := order.Validate(); err != nil {
		return err
	}
	size := order.Size()

	queue, err := fifo.NewSliceFifo[float32](spectrumQueueCapacity, size)
	if err != nil {
		return fmt.Errorf("analysis: spectrum queue: %w", err)
	}

	g.order = order
	g.fft = fourier.NewFFT(size)
	g.window = blackmanHarris(size)
	g.input = make([]float64, size)
	g.coeffs = make([]complex128, size/2+1)
	g.data = make([]float32, size)
	g.queue = queue
	return nil
}

// blackmanHarris returns the window scaled so its coefficients average to
// one, which keeps a full-scale sine near 0 dB after normalisation.
func blackmanHarris(size int) []float64 {
	coeffs := make([]float64, size)
	// gonum windows multiply in place, so start from ones.
	for i := range coeffs {
		coeffs[i] = 1
	}
	window.BlackmanHarris(coeffs)
	if sum := floats.Sum(coeffs); sum > 0 {
		floats.Scale(float64(size)/sum, coeffs)
	}
	return coeffs
}

// Produce windows samples, transforms them and pushes one spectrum. Missing
// samples are treated as silence; extra samples beyond the window are ignored.
// Bins are clamped below at negativeInfinity dB.
func (g *FFTDataGenerator) Produce(samples []float32, negativeInfinity float64) {
	size := len(g.input)
	for i := range g.input {
		var s float64
		if i < len(samples) {
			s = float64(samples[i])
		}
		g.input[i] = s * g.window[i]
	}

	g.fft.Coefficients(g.coeffs, g.input)

	numBins := size / 2
	scale := 1 / float64(numBins)
	for i := range numBins {
		mag := cmplx.Abs(g.coeffs[i]) * scale
		g.data[i] = float32(decibels.FromGain(mag, negativeInfinity))
	}
	floor := float32(negativeInfinity)
	for i := numBins; i < size; i++ {
		g.data[i] = floor
	}

	g.queue.Push(g.data)
}

// NumAvailableBlocks returns how many spectra are waiting to be pulled.
func (g *FFTDataGenerator) NumAvailableBlocks() int {
	return g.queue.NumAvailableForReading()
}

// Pull copies the oldest pending spectrum into dst.
func (g *FFTDataGenerator) Pull(dst *[]float32) bool {
	return g.queue.Pull(dst)
}

// FFTSize returns the transform size in samples.
func (g *FFTDataGenerator) FFTSize() int {
	return g.order.Size()
}

// Order returns the current transform order.
func (g *FFTDataGenerator) Order() Order {
	return g.order
}

// Dropped returns the number of spectra overwritten before being pulled.
func (g *FFTDataGenerator) Dropped() uint64 {
	return g.queue.Dropped()
}
