// SPDX-License-Identifier: MIT
//
// Package filter evaluates the magnitude response of the equalizer's filter
// chain: a low-cut band of up to four 2nd-order sections, one peak section and
// a high-cut band of up to four sections. Only frequency-response evaluation
// lives here; the audio graph that runs the filters owns its own copy.
package filter

import "math"

// Coefficients of one 2nd-order IIR section, normalised so that a0 == 1.
//
//	H(z) = (B0 + B1 z^-1 + B2 z^-2) / (1 + A1 z^-1 + A2 z^-2)
type Coefficients struct {
	B0, B1, B2 float64
	A1, A2     float64
}

// Identity passes every frequency through unchanged.
var Identity = Coefficients{B0: 1}

// normalised builds Coefficients from raw b/a terms, dividing by a0.
func normalised(b0, b1, b2, a0, a1, a2 float64) Coefficients {
	inv := 1 / a0
	return Coefficients{
		B0: b0 * inv,
		B1: b1 * inv,
		B2: b2 * inv,
		A1: a1 * inv,
		A2: a2 * inv,
	}
}

// MagnitudeSquared returns |H(f)|^2 from the closed-form expansion of the
// numerator and denominator on the unit circle.
func (c Coefficients) MagnitudeSquared(freq, sampleRate float64) float64 {
	cw := 2 * math.Cos(2*math.Pi*freq/sampleRate)
	b0, b1, b2 := c.B0, c.B1, c.B2
	a1, a2 := c.A1, c.A2

	num := (b0-b2)*(b0-b2) + b1*b1 + (b1*(b0+b2)+b0*b2*cw)*cw
	den := (1-a2)*(1-a2) + a1*a1 + (a1*(a2+1)+a2*cw)*cw
	return num / den
}

// Magnitude returns |H(f)| at freq for the given sample rate.
func (c Coefficients) Magnitude(freq, sampleRate float64) float64 {
	return math.Sqrt(c.MagnitudeSquared(freq, sampleRate))
}
