// SPDX-License-Identifier: MIT
package scope

import (
	"time"

	"eqscope/internal/plot"
)

// Frame is a snapshot of everything drawn in one tick.
type Frame struct {
	Sequence        uint64    `json:"seq"`
	Timestamp       time.Time `json:"timestamp"`
	Area            plot.Rect `json:"area"`
	Left            plot.Path `json:"left"`
	Right           plot.Path `json:"right"`
	Response        []float64 `json:"response"` // dB per column of Area.
	AnalysisEnabled bool      `json:"analysis_enabled"`
}

// Clone returns a deep copy of f.
func (f *Frame) Clone() Frame {
	out := *f
	out.Left = plot.Path{}
	out.Right = plot.Path{}
	out.Left.CopyFrom(f.Left)
	out.Right.CopyFrom(f.Right)
	out.Response = append([]float64(nil), f.Response...)
	return out
}

// CopyFrom replaces f with src, reusing f's slices.
func (f *Frame) CopyFrom(src *Frame) {
	f.Sequence = src.Sequence
	f.Timestamp = src.Timestamp
	f.Area = src.Area
	f.Left.CopyFrom(src.Left)
	f.Right.CopyFrom(src.Right)
	f.Response = append(f.Response[:0], src.Response...)
	f.AnalysisEnabled = src.AnalysisEnabled
}

// Path returns the spectrum path of ch.
func (f *Frame) Path(ch Channel) plot.Path {
	if ch == Right {
		return f.Right
	}
	return f.Left
}
