// SPDX-License-Identifier: MIT
//
// Package response turns the equalizer's filter chain into the response curve
// drawn over the spectrum analyzer.
package response

import (
	"eqscope/internal/decibels"
	"eqscope/internal/filter"
	"eqscope/internal/plot"
)

// Fixed decibel range of the response curve display.
const (
	MinDecibels = -24.0
	MaxDecibels = 24.0
)

// Magnitudes evaluates chain at width log-spaced columns between 20 Hz and
// 20 kHz and returns one decibel value per column. dst is reused when it has
// enough capacity.
func Magnitudes(chain *filter.Chain, sampleRate float64, width int, dst []float64) []float64 {
	if width <= 0 {
		return dst[:0]
	}
	if cap(dst) < width {
		dst = make([]float64, width)
	}
	dst = dst[:width]

	w := float64(width)
	for i := range dst {
		freq := plot.MapToLog10(float64(i)/w, plot.MinFrequency, plot.MaxFrequency)
		dst[i] = decibels.FromGain(chain.Magnitude(freq, sampleRate), decibels.DefaultMinusInfinity)
	}
	return dst
}

// CurvePath maps per-column decibel values into bounds through the fixed
// [-24, +24] dB range, one point per column starting at the left edge.
func CurvePath(mags []float64, bounds plot.Rect, path *plot.Path) {
	path.Clear()
	for i, db := range mags {
		path.LineTo(bounds.Left()+float64(i), plot.DecibelsToY(db, MinDecibels, MaxDecibels, bounds))
	}
}
