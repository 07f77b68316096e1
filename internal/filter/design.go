// SPDX-License-Identifier: MIT
package filter

import (
	"math"

	"eqscope/internal/decibels"
)

// minDesignFrequency keeps the bilinear prewarp away from DC.
const minDesignFrequency = 2.0

// maxDesignRatio caps design frequencies just below Nyquist. The prewarp
// tan(pi*f/sr) changes sign past sr/2 and yields unstable sections.
const maxDesignRatio = 0.49

// designFrequency limits freq to the band a section can be designed for at
// sampleRate.
func designFrequency(freq, sampleRate float64) float64 {
	return math.Min(math.Max(freq, minDesignFrequency), maxDesignRatio*sampleRate)
}

// PeakFilter designs a peaking section centred on freq. gainFactor is linear.
func PeakFilter(sampleRate, freq, q, gainFactor float64) Coefficients {
	a := math.Sqrt(math.Max(0, gainFactor))
	omega := 2 * math.Pi * math.Max(freq, minDesignFrequency) / sampleRate
	alpha := math.Sin(omega) / (2 * q)
	c2 := -2 * math.Cos(omega)
	alphaTimesA := alpha * a
	alphaOverA := alpha / a

	return normalised(
		1+alphaTimesA, c2, 1-alphaTimesA,
		1+alphaOverA, c2, 1-alphaOverA,
	)
}

// HighPass designs a 2nd-order high-pass section with the given Q.
func HighPass(sampleRate, freq, q float64) Coefficients {
	n := math.Tan(math.Pi * freq / sampleRate)
	nSquared := n * n
	invQ := 1 / q
	c1 := 1 / (1 + invQ*n + nSquared)

	return Coefficients{
		B0: c1,
		B1: -2 * c1,
		B2: c1,
		A1: c1 * 2 * (nSquared - 1),
		A2: c1 * (1 - invQ*n + nSquared),
	}
}

// LowPass designs a 2nd-order low-pass section with the given Q.
func LowPass(sampleRate, freq, q float64) Coefficients {
	n := 1 / math.Tan(math.Pi*freq/sampleRate)
	nSquared := n * n
	invQ := 1 / q
	c1 := 1 / (1 + invQ*n + nSquared)

	return Coefficients{
		B0: c1,
		B1: 2 * c1,
		B2: c1,
		A1: c1 * 2 * (1 - nSquared),
		A2: c1 * (1 - invQ*n + nSquared),
	}
}

// butterworthQ returns the Q of section k in an even-order Butterworth cascade.
func butterworthQ(k, order int) float64 {
	return 1 / (2 * math.Cos(float64(2*k+1)*math.Pi/float64(2*order)))
}

// ButterworthHighPass designs an even-order Butterworth high-pass as order/2
// cascaded sections.
func ButterworthHighPass(sampleRate, freq float64, order int) []Coefficients {
	sections := make([]Coefficients, order/2)
	for k := range sections {
		sections[k] = HighPass(sampleRate, freq, butterworthQ(k, order))
	}
	return sections
}

// ButterworthLowPass designs an even-order Butterworth low-pass as order/2
// cascaded sections.
func ButterworthLowPass(sampleRate, freq float64, order int) []Coefficients {
	sections := make([]Coefficients, order/2)
	for k := range sections {
		sections[k] = LowPass(sampleRate, freq, butterworthQ(k, order))
	}
	return sections
}

// MakePeakFilter designs the peak band for the given settings.
func MakePeakFilter(s ChainSettings, sampleRate float64) Coefficients {
	return PeakFilter(sampleRate, designFrequency(s.PeakFreq, sampleRate), s.PeakQuality,
		decibels.ToGain(s.PeakGainInDecibels, decibels.DefaultMinusInfinity))
}

// MakeLowCutFilter designs the low-cut band: one section per 12 dB/oct.
func MakeLowCutFilter(s ChainSettings, sampleRate float64) []Coefficients {
	return ButterworthHighPass(sampleRate, designFrequency(s.LowCutFreq, sampleRate), s.LowCutSlope.Order())
}

// MakeHighCutFilter designs the high-cut band: one section per 12 dB/oct.
func MakeHighCutFilter(s ChainSettings, sampleRate float64) []Coefficients {
	return ButterworthLowPass(sampleRate, designFrequency(s.HighCutFreq, sampleRate), s.HighCutSlope.Order())
}
