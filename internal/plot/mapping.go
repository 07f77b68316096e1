// SPDX-License-Identifier: MIT
package plot

import (
	"math"
	"strconv"
)

// MapFromLog10 maps v from the logarithmic range [min, max] to [0, 1].
// Values outside the range are not clamped.
func MapFromLog10(v, min, max float64) float64 {
	return math.Log10(v/min) / math.Log10(max/min)
}

// MapToLog10 maps a proportion in [0, 1] onto the logarithmic range [min, max].
func MapToLog10(proportion, min, max float64) float64 {
	return min * math.Pow(max/min, proportion)
}

// Jmap linearly maps v from [srcMin, srcMax] to [dstMin, dstMax].
func Jmap(v, srcMin, srcMax, dstMin, dstMax float64) float64 {
	return dstMin + (v-srcMin)*(dstMax-dstMin)/(srcMax-srcMin)
}

// FrequencyToX maps a frequency onto the horizontal extent of bounds.
func FrequencyToX(freq float64, bounds Rect) float64 {
	return bounds.Left() + bounds.Width*MapFromLog10(freq, MinFrequency, MaxFrequency)
}

// DecibelsToY maps a level in [minDB, maxDB] onto bounds, maxDB at the top.
func DecibelsToY(db, minDB, maxDB float64, bounds Rect) float64 {
	return Jmap(db, minDB, maxDB, bounds.Bottom(), bounds.Top())
}

// IsFinite reports whether v is neither NaN nor infinite.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Grid lines drawn behind the curves.
var (
	FrequencyGrid = []float64{20, 50, 100, 200, 500, 1000, 2000, 5000, 10000, 20000}
	GainGrid      = []float64{-24, -12, 0, 12, 24}
)

// FrequencyLabel formats a grid frequency, e.g. 50 -> "50Hz", 2000 -> "2kHz".
func FrequencyLabel(freq float64) string {
	suffix := "Hz"
	if freq > 999 {
		freq /= 1000
		suffix = "kHz"
	}
	return strconv.FormatFloat(freq, 'f', -1, 64) + suffix
}

// RenderArea is the drawable region inside a response component of the given
// bounds, leaving room for the frequency labels.
func RenderArea(bounds Rect) Rect {
	return bounds.Trimmed(20, 12, 20, 2)
}

// AnalysisArea is the region the curves are mapped into.
func AnalysisArea(bounds Rect) Rect {
	return RenderArea(bounds).Trimmed(0, 4, 0, 4)
}
