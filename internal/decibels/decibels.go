// SPDX-License-Identifier: MIT
//
// Package decibels converts between linear gain and decibels with a finite
// floor standing in for negative infinity.
package decibels

import "math"

// DefaultMinusInfinity is the floor used when no other value is configured.
const DefaultMinusInfinity = -100.0

// FromGain returns 20*log10(gain), or minusInfinity when the result would be
// lower (including gain <= 0).
func FromGain(gain, minusInfinity float64) float64 {
	if gain <= 0 {
		return minusInfinity
	}
	return math.Max(minusInfinity, 20*math.Log10(gain))
}

// ToGain returns the linear gain for db, or 0 when db is at or below
// minusInfinity.
func ToGain(db, minusInfinity float64) float64 {
	if db <= minusInfinity {
		return 0
	}
	return math.Pow(10, db*0.05)
}
