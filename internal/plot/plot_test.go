// SPDX-License-Identifier: MIT
package plot

import (
	"math"
	"testing"
)

func TestMapFromLog10_Endpoints(t *testing.T) {
	if got := MapFromLog10(20, 20, 20000); got != 0.0 {
		t.Errorf("MapFromLog10(20) = %v, expected 0", got)
	}
	if got := MapFromLog10(20000, 20, 20000); got != 1.0 {
		t.Errorf("MapFromLog10(20000) = %v, expected 1", got)
	}
}

func TestMapFromLog10_OutsideRangeNotClamped(t *testing.T) {
	if got := MapFromLog10(10, 20, 20000); got >= 0 {
		t.Errorf("MapFromLog10(10) = %v, expected negative", got)
	}
	if got := MapFromLog10(24000, 20, 20000); got <= 1 {
		t.Errorf("MapFromLog10(24000) = %v, expected > 1", got)
	}
}

func TestMapToLog10_InvertsMapFromLog10(t *testing.T) {
	for _, freq := range []float64{20, 63.5, 440, 1000, 12345, 20000} {
		p := MapFromLog10(freq, MinFrequency, MaxFrequency)
		if back := MapToLog10(p, MinFrequency, MaxFrequency); math.Abs(back-freq) > 1e-9*freq {
			t.Errorf("round trip %v -> %v -> %v", freq, p, back)
		}
	}
}

func TestJmap(t *testing.T) {
	tests := []struct {
		name                              string
		v, srcMin, srcMax, dstMin, dstMax float64
		expected                          float64
	}{
		{"floor maps to bottom", -48, -48, 0, 200, 0, 200},
		{"zero maps to top", 0, -48, 0, 200, 0, 0},
		{"midpoint", -24, -48, 0, 200, 0, 100},
		{"response +24 at top", 24, -24, 24, 150, 10, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Jmap(tt.v, tt.srcMin, tt.srcMax, tt.dstMin, tt.dstMax); got != tt.expected {
				t.Errorf("Jmap = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestPath_CopyFromIsIndependent(t *testing.T) {
	src := NewPath(4)
	src.StartNewSubPath(0, 1)
	src.LineTo(2, 3)

	var dst Path
	dst.CopyFrom(src)
	src.Points[0].X = 100

	if dst.Len() != 2 || dst.Points[0].X != 0 {
		t.Errorf("CopyFrom shares storage: %+v", dst.Points)
	}

	dst.StartNewSubPath(5, 5)
	if dst.Len() != 1 {
		t.Errorf("StartNewSubPath should reset the path, got %d points", dst.Len())
	}
}

func TestAnalysisArea(t *testing.T) {
	got := AnalysisArea(Rect{Width: 500, Height: 200})
	want := Rect{X: 20, Y: 16, Width: 460, Height: 178}
	if got != want {
		t.Errorf("AnalysisArea = %+v, expected %+v", got, want)
	}
}

func TestFrequencyLabel(t *testing.T) {
	tests := map[float64]string{
		20:    "20Hz",
		500:   "500Hz",
		1000:  "1kHz",
		20000: "20kHz",
	}
	for freq, want := range tests {
		if got := FrequencyLabel(freq); got != want {
			t.Errorf("FrequencyLabel(%v) = %q, expected %q", freq, got, want)
		}
	}
}
