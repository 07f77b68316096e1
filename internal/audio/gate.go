// SPDX-License-Identifier: MIT
package audio

import "math"

// defaultGateThreshold is ~0.1% of full scale.
const defaultGateThreshold = 0.001

func (e *Engine) EnableGate() {
	e.gateEnabled.Store(true)
}

func (e *Engine) DisableGate() {
	e.gateEnabled.Store(false)
}

// GateEnabled reports whether the noise gate is active.
func (e *Engine) GateEnabled() bool {
	return e.gateEnabled.Load()
}

// SetGateThreshold adjusts the noise gate threshold.
// The value is in the range of 0.0-1.0 where 0=always open, 1=always closed.
func (e *Engine) SetGateThreshold(threshold float64) {
	if threshold < 0.0 {
		threshold = 0.0
	}
	if threshold > 1.0 {
		threshold = 1.0
	}

	e.gateThreshold.Store(math.Float32bits(float32(threshold)))
}

// GetGateThreshold returns the current noise gate threshold as a float64.
// The value is in the range of 0.0-1.0 where 0=always open, 1=always closed.
func (e *Engine) GetGateThreshold() float64 {
	return float64(math.Float32frombits(e.gateThreshold.Load()))
}

// gateOpen reports whether the peak of the first frames samples of any
// channel exceeds the threshold.
func (e *Engine) gateOpen(frames int) bool {
	threshold := math.Float32frombits(e.gateThreshold.Load())
	for ch := range e.planar {
		if peakAmplitude(e.planar[ch][:frames]) > threshold {
			return true
		}
	}
	return false
}

// peakAmplitude returns the largest absolute sample value.
func peakAmplitude(buffer []float32) float32 {
	var peak float32
	for _, s := range buffer {
		// Clear the sign bit instead of branching on it.
		if a := math.Float32frombits(math.Float32bits(s) &^ (1 << 31)); a > peak {
			peak = a
		}
	}
	return peak
}
