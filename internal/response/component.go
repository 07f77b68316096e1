// SPDX-License-Identifier: MIT
package response

import (
	"sync/atomic"

	"eqscope/internal/filter"
	applog "eqscope/internal/log"
	"eqscope/internal/plot"
)

// Processor is the audio-graph side the response curve reads from: the
// current equalizer parameters and the sample rate they run at.
type Processor interface {
	ChainSettings() filter.ChainSettings
	SampleRate() float64
}

// Component keeps a UI-side mirror of the filter chain and the curve derived
// from it. ParameterChanged may be called from any goroutine; every other
// method belongs to the UI tick goroutine.
type Component struct {
	processor         Processor
	parametersChanged atomic.Bool

	chain  *filter.Chain
	bounds plot.Rect
	mags   []float64
	path   plot.Path
}

// NewComponent builds the chain from the processor's current parameters.
func NewComponent(processor Processor, bounds plot.Rect) *Component {
	c := &Component{
		processor: processor,
		chain:     filter.NewChain(),
		bounds:    bounds,
	}
	c.updateChain()
	c.recompute()
	return c
}

// ParameterChanged marks the chain dirty. The next Tick rebuilds it.
func (c *Component) ParameterChanged() {
	c.parametersChanged.Store(true)
}

// Tick rebuilds the chain and curve if a parameter changed since the last
// tick. It reports whether anything was recomputed.
func (c *Component) Tick() bool {
	if !c.parametersChanged.CompareAndSwap(true, false) {
		return false
	}
	c.updateChain()
	c.recompute()
	applog.Debugf("Response: Curve recomputed (%d columns)", len(c.mags))
	return true
}

// SetBounds resizes the component and recomputes the curve for the new
// analysis area.
func (c *Component) SetBounds(bounds plot.Rect) {
	c.bounds = bounds
	c.recompute()
}

// Chain returns the UI-side chain. Callers must not modify it.
func (c *Component) Chain() *filter.Chain {
	return c.chain
}

// ResponseCurve evaluates the chain across width pixel columns.
func (c *Component) ResponseCurve(width int) []float64 {
	return Magnitudes(c.chain, c.processor.SampleRate(), width, nil)
}

// Magnitudes returns the per-column decibel values for the current bounds.
// The slice is owned by the component and replaced on the next recompute.
func (c *Component) Magnitudes() []float64 {
	return c.mags
}

// Path returns the response curve mapped into the analysis area.
func (c *Component) Path() plot.Path {
	return c.path
}

func (c *Component) updateChain() {
	c.chain.Update(c.processor.ChainSettings(), c.processor.SampleRate())
}

func (c *Component) recompute() {
	area := plot.AnalysisArea(c.bounds)
	c.mags = Magnitudes(c.chain, c.processor.SampleRate(), int(area.Width), c.mags)
	CurvePath(c.mags, area, &c.path)
}
