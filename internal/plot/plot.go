// SPDX-License-Identifier: MIT
//
// Package plot holds the screen-space primitives shared by the spectrum
// analyzer and the response curve: rectangles, polylines and the mappings
// between frequency, decibels and pixels.
package plot

import "math"

// Audible frequency range drawn on the x-axis.
const (
	MinFrequency = 20.0
	MaxFrequency = 20000.0
)

// Point is a position in screen space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is an axis-aligned rectangle; Y grows downwards.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (r Rect) Left() float64   { return r.X }
func (r Rect) Right() float64  { return r.X + r.Width }
func (r Rect) Top() float64    { return r.Y }
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Trimmed returns r with the given margins removed. Margins larger than the
// rectangle collapse it to zero size.
func (r Rect) Trimmed(left, top, right, bottom float64) Rect {
	out := Rect{
		X:      r.X + left,
		Y:      r.Y + top,
		Width:  math.Max(0, r.Width-left-right),
		Height: math.Max(0, r.Height-top-bottom),
	}
	return out
}

// Path is a polyline. It is a value object: producers build a fresh path and
// consumers replace theirs wholesale.
type Path struct {
	Points []Point `json:"points"`
}

// NewPath returns an empty path with room for n points.
func NewPath(n int) Path {
	return Path{Points: make([]Point, 0, n)}
}

// StartNewSubPath discards the current points and starts at (x, y).
func (p *Path) StartNewSubPath(x, y float64) {
	p.Points = append(p.Points[:0], Point{X: x, Y: y})
}

// LineTo appends a segment ending at (x, y).
func (p *Path) LineTo(x, y float64) {
	p.Points = append(p.Points, Point{X: x, Y: y})
}

// Clear removes all points, keeping the allocation.
func (p *Path) Clear() {
	p.Points = p.Points[:0]
}

// Len returns the number of points.
func (p Path) Len() int {
	return len(p.Points)
}

// IsEmpty reports whether the path has no points.
func (p Path) IsEmpty() bool {
	return len(p.Points) == 0
}

// CopyFrom replaces the points of p with a copy of src's points.
func (p *Path) CopyFrom(src Path) {
	p.Points = append(p.Points[:0], src.Points...)
}

// AssignPath is the copy function handoff queues of paths use.
func AssignPath(dst *Path, src Path) {
	dst.CopyFrom(src)
}
