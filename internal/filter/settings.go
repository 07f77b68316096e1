// SPDX-License-Identifier: MIT
package filter

import (
	"errors"
	"fmt"
	"math"
)

// Slope of a cut band. Each step adds one 2nd-order section (12 dB/oct).
type Slope int

const (
	Slope12 Slope = iota
	Slope24
	Slope36
	Slope48
)

// ErrInvalidSlope is returned for slopes other than 12, 24, 36 or 48 dB/oct.
var ErrInvalidSlope = errors.New("filter: slope must be 12, 24, 36 or 48 dB/oct")

// ParseSlope converts a dB/oct value into a Slope.
func ParseSlope(dbPerOctave int) (Slope, error) {
	switch dbPerOctave {
	case 12:
		return Slope12, nil
	case 24:
		return Slope24, nil
	case 36:
		return Slope36, nil
	case 48:
		return Slope48, nil
	default:
		return Slope12, fmt.Errorf("%w, got %d", ErrInvalidSlope, dbPerOctave)
	}
}

// Sections returns the number of active 2nd-order sections.
func (s Slope) Sections() int { return int(s) + 1 }

// Order returns the Butterworth order of the band.
func (s Slope) Order() int { return 2 * s.Sections() }

// DecibelsPerOctave returns the asymptotic roll-off.
func (s Slope) DecibelsPerOctave() int { return 12 * s.Sections() }

func (s Slope) String() string {
	return fmt.Sprintf("%d dB/Oct", s.DecibelsPerOctave())
}

// Parameter ranges exposed by the equalizer.
const (
	MinFrequency   = 20.0
	MaxFrequency   = 20000.0
	MinPeakGain    = -24.0
	MaxPeakGain    = 24.0
	MinPeakQuality = 0.1
	MaxPeakQuality = 10.0
)

// ChainSettings mirrors the equalizer parameters the filter chain is built
// from.
type ChainSettings struct {
	PeakFreq           float64
	PeakGainInDecibels float64
	PeakQuality        float64
	LowCutFreq         float64
	HighCutFreq        float64
	LowCutSlope        Slope
	HighCutSlope       Slope

	LowCutBypassed  bool
	PeakBypassed    bool
	HighCutBypassed bool
}

// DefaultChainSettings returns the equalizer's initial parameter values.
func DefaultChainSettings() ChainSettings {
	return ChainSettings{
		PeakFreq:           750,
		PeakGainInDecibels: 0,
		PeakQuality:        1,
		LowCutFreq:         MinFrequency,
		HighCutFreq:        MaxFrequency,
		LowCutSlope:        Slope12,
		HighCutSlope:       Slope12,
	}
}

// Clamped returns s with every parameter limited to its range.
func (s ChainSettings) Clamped() ChainSettings {
	clamp := func(v, lo, hi float64) float64 { return math.Min(hi, math.Max(lo, v)) }
	clampSlope := func(v Slope) Slope { return Slope(min(int(Slope48), max(int(Slope12), int(v)))) }

	s.PeakFreq = clamp(s.PeakFreq, MinFrequency, MaxFrequency)
	s.PeakGainInDecibels = clamp(s.PeakGainInDecibels, MinPeakGain, MaxPeakGain)
	s.PeakQuality = clamp(s.PeakQuality, MinPeakQuality, MaxPeakQuality)
	s.LowCutFreq = clamp(s.LowCutFreq, MinFrequency, MaxFrequency)
	s.HighCutFreq = clamp(s.HighCutFreq, MinFrequency, MaxFrequency)
	s.LowCutSlope = clampSlope(s.LowCutSlope)
	s.HighCutSlope = clampSlope(s.HighCutSlope)
	return s
}
