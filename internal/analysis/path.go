// SPDX-License-Identifier: MIT
package analysis

import (
	"fmt"

	"eqscope/internal/fifo"
	"eqscope/internal/plot"
)

// Path generator defaults.
const (
	DefaultPathStride   = 2
	DefaultDecibelFloor = -48.0
	pathQueueCapacity   = 20
)

// PathGenerator maps spectra onto log-frequency polylines.
type PathGenerator struct {
	stride int
	path   plot.Path // Path being built.
	queue  *fifo.Fifo[plot.Path]
}

// NewPathGenerator returns a generator that emits every stride-th bin after
// bin 0. Paths are pre-sized for spectra of up to maxFFTSize bins.
func NewPathGenerator(stride, maxFFTSize int) (*PathGenerator, error) {
	if stride < 1 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidStride, stride)
	}
	points := maxFFTSize/2/stride + 2

	queue, err := fifo.New(pathQueueCapacity,
		fifo.WithAssign(plot.AssignPath),
		fifo.WithSlotInit(func(slot *plot.Path) { *slot = plot.NewPath(points) }),
	)
	if err != nil {
		return nil, fmt.Errorf("analysis: path queue: %w", err)
	}

	return &PathGenerator{
		stride: stride,
		path:   plot.NewPath(points),
		queue:  queue,
	}, nil
}

// Generate builds one path from the first fftSize/2 bins of spectrum and
// pushes it. x follows the log frequency axis without clamping, so bins
// outside 20 Hz to 20 kHz land outside bounds. y maps [negativeInfinity, 0] dB
// onto [bottom, top]. Points with a non-finite coordinate are skipped.
func (g *PathGenerator) Generate(spectrum []float32, bounds plot.Rect, fftSize int, binWidth, negativeInfinity float64) {
	numBins := min(fftSize/2, len(spectrum))
	g.path.Clear()
	if numBins == 0 {
		return
	}

	mapY := func(db float32) float64 {
		return plot.Jmap(float64(db), negativeInfinity, 0, bounds.Bottom(), bounds.Top())
	}

	started := false
	add := func(x, y float64) {
		if !plot.IsFinite(x) || !plot.IsFinite(y) {
			return
		}
		if !started {
			g.path.StartNewSubPath(x, y)
			started = true
			return
		}
		g.path.LineTo(x, y)
	}

	// Bin 0 sits at 0 Hz, which has no log position; pin it to the left edge.
	add(bounds.Left(), mapY(spectrum[0]))

	for bin := 1; bin < numBins; bin += g.stride {
		add(plot.FrequencyToX(float64(bin)*binWidth, bounds), mapY(spectrum[bin]))
	}

	g.queue.Push(g.path)
}

// NumPathsAvailable returns how many paths are waiting to be pulled.
func (g *PathGenerator) NumPathsAvailable() int {
	return g.queue.NumAvailableForReading()
}

// Pull copies the oldest pending path into dst.
func (g *PathGenerator) Pull(dst *plot.Path) bool {
	return g.queue.Pull(dst)
}

// Stride returns the bin step between emitted points.
func (g *PathGenerator) Stride() int {
	return g.stride
}
