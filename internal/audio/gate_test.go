// SPDX-License-Identifier: MIT
package audio

import (
	"strconv"
	"testing"
)

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func absFloat(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

func TestGateEnable(t *testing.T) {
	engine := &Engine{}

	if engine.GateEnabled() {
		t.Error("Gate should be disabled initially")
	}

	engine.EnableGate()
	if !engine.GateEnabled() {
		t.Error("Gate should be enabled after EnableGate()")
	}

	engine.DisableGate()
	if engine.GateEnabled() {
		t.Error("Gate should be disabled after DisableGate()")
	}

	engine.EnableGate()
	engine.EnableGate() // Multiple calls should be idempotent
	if !engine.GateEnabled() {
		t.Error("Gate should remain enabled after multiple EnableGate()")
	}
}

func TestGateThresholdBoundaries(t *testing.T) {
	tests := []struct {
		input    float64
		expected float64
	}{
		{-0.1, 0.0}, // Below min
		{0.0, 0.0},  // Minimum
		{0.25, 0.25},
		{0.5, 0.5}, // Middle
		{1.0, 1.0}, // Maximum
		{1.5, 1.0}, // Above max
	}

	engine := &Engine{}

	for _, tt := range tests {
		t.Run(formatFloat(tt.input), func(t *testing.T) {
			engine.SetGateThreshold(tt.input)
			got := engine.GetGateThreshold()

			if absFloat(got-tt.expected) > 1e-6 {
				t.Errorf("Gate threshold conversion: got %.6f, want %.6f", got, tt.expected)
			}
		})
	}
}

func TestPeakAmplitude(t *testing.T) {
	tests := []struct {
		desc   string
		buffer []float32
		want   float32
	}{
		{"Empty", nil, 0},
		{"Positive peak", []float32{0.1, 0.7, -0.2}, 0.7},
		{"Negative peak", []float32{0.1, -0.9, 0.3}, 0.9},
		{"Silence", []float32{0, 0, 0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			if got := peakAmplitude(tt.buffer); got != tt.want {
				t.Errorf("peakAmplitude() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGateSilencesQuietBlocks(t *testing.T) {
	tests := []struct {
		desc       string
		amplitude  float64
		gate       bool
		threshold  float64
		wantSilent bool
	}{
		{"Gate disabled/Quiet signal", 0.0005, false, 0.1, false},
		{"Gate enabled/Quiet signal/Mid threshold", 0.0005, true, 0.1, true},
		{"Gate enabled/Loud signal/Mid threshold", 0.8, true, 0.1, false},
		{"Gate enabled/Loud signal/Max threshold", 0.8, true, 1.0, true},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			engine := newTestEngine(t, tt.amplitude, 1000)
			engine.SetGateThreshold(tt.threshold)
			if tt.gate {
				engine.EnableGate()
			}

			if err := engine.ProcessBlock(); err != nil {
				t.Fatalf("ProcessBlock: %v", err)
			}
			block := pullBlock(t, engine.Left())

			silent := peakAmplitude(block) == 0
			if silent != tt.wantSilent {
				t.Errorf("silent = %v, want %v (peak %v)", silent, tt.wantSilent, peakAmplitude(block))
			}
		})
	}
}

func BenchmarkGateProcessingHotPath(b *testing.B) {
	engine := newTestEngine(b, 0.5, 1000, 2000)
	engine.EnableGate()
	_ = engine.ProcessBlock()

	b.ReportAllocs()

	for b.Loop() {
		_ = engine.gateOpen(testFrameSize)
	}
}
