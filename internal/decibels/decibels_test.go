// SPDX-License-Identifier: MIT
package decibels

import (
	"math"
	"testing"
)

func TestFromGain(t *testing.T) {
	tests := []struct {
		name     string
		gain     float64
		floor    float64
		expected float64
	}{
		{"unity", 1, -100, 0},
		{"zero clamps", 0, -48, -48},
		{"negative clamps", -1, -48, -48},
		{"below floor", 1e-6, -48, -48},
		{"half", 0.5, -100, 20 * math.Log10(0.5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FromGain(tt.gain, tt.floor); got != tt.expected {
				t.Errorf("FromGain(%v, %v) = %v, expected %v", tt.gain, tt.floor, got, tt.expected)
			}
		})
	}
}

func TestToGain(t *testing.T) {
	if got := ToGain(-100, -100); got != 0 {
		t.Errorf("ToGain at floor = %v, expected 0", got)
	}
	if got := ToGain(6, -100); math.Abs(got-1.9953) > 1e-4 {
		t.Errorf("ToGain(6) = %v", got)
	}
	if got := FromGain(ToGain(-12, -100), -100); math.Abs(got+12) > 1e-12 {
		t.Errorf("round trip -12 dB = %v", got)
	}
}
