// SPDX-License-Identifier: MIT
package tui

import (
	"fmt"
	"math"

	"eqscope/internal/filter"
)

// WidgetKind is the closed set of controls on the editor strip.
type WidgetKind int

const (
	Knob WidgetKind = iota
	PowerButton
	AnalyzerButton
)

func (k WidgetKind) String() string {
	switch k {
	case Knob:
		return "Knob"
	case PowerButton:
		return "PowerButton"
	case AnalyzerButton:
		return "AnalyzerButton"
	default:
		return fmt.Sprintf("WidgetKind(%d)", int(k))
	}
}

// Param identifies the chain setting a knob edits.
type Param int

const (
	LowCutFreq Param = iota
	LowCutSlope
	PeakFreq
	PeakGain
	PeakQuality
	HighCutFreq
	HighCutSlope
)

// Widget is one control. Band is used by power buttons, Param by knobs.
type Widget struct {
	Kind  WidgetKind
	Label string
	Band  filter.Band
	Param Param
}

// DefaultWidgets returns the editor strip in display order.
func DefaultWidgets() []Widget {
	return []Widget{
		{Kind: PowerButton, Label: "LowCut", Band: filter.LowCut},
		{Kind: Knob, Label: "Freq", Param: LowCutFreq},
		{Kind: Knob, Label: "Slope", Param: LowCutSlope},
		{Kind: PowerButton, Label: "Peak", Band: filter.Peak},
		{Kind: Knob, Label: "Freq", Param: PeakFreq},
		{Kind: Knob, Label: "Gain", Param: PeakGain},
		{Kind: Knob, Label: "Q", Param: PeakQuality},
		{Kind: PowerButton, Label: "HighCut", Band: filter.HighCut},
		{Kind: Knob, Label: "Freq", Param: HighCutFreq},
		{Kind: Knob, Label: "Slope", Param: HighCutSlope},
		{Kind: AnalyzerButton, Label: "Analyzer"},
	}
}

// semitone is the frequency knob step ratio.
var semitone = math.Pow(2, 1.0/12)

// Adjust turns the knob param by steps detents. The caller clamps.
func Adjust(s *filter.ChainSettings, p Param, steps int) {
	n := float64(steps)
	switch p {
	case LowCutFreq:
		s.LowCutFreq *= math.Pow(semitone, n)
	case HighCutFreq:
		s.HighCutFreq *= math.Pow(semitone, n)
	case PeakFreq:
		s.PeakFreq *= math.Pow(semitone, n)
	case PeakGain:
		s.PeakGainInDecibels += 0.5 * n
	case PeakQuality:
		s.PeakQuality *= math.Pow(1.1, n)
	case LowCutSlope:
		s.LowCutSlope += filter.Slope(steps)
	case HighCutSlope:
		s.HighCutSlope += filter.Slope(steps)
	}
}

// ParamValue formats the current value of p.
func ParamValue(s filter.ChainSettings, p Param) string {
	switch p {
	case LowCutFreq:
		return formatFrequency(s.LowCutFreq)
	case HighCutFreq:
		return formatFrequency(s.HighCutFreq)
	case PeakFreq:
		return formatFrequency(s.PeakFreq)
	case PeakGain:
		return fmt.Sprintf("%+.1fdB", s.PeakGainInDecibels)
	case PeakQuality:
		return fmt.Sprintf("%.2f", s.PeakQuality)
	case LowCutSlope:
		return s.LowCutSlope.String()
	case HighCutSlope:
		return s.HighCutSlope.String()
	default:
		return "?"
	}
}

func formatFrequency(freq float64) string {
	if freq > 999 {
		return fmt.Sprintf("%.2fkHz", freq/1000)
	}
	return fmt.Sprintf("%.0fHz", freq)
}

// BandBypassed returns the bypass flag of b in s.
func BandBypassed(s *filter.ChainSettings, b filter.Band) *bool {
	switch b {
	case filter.LowCut:
		return &s.LowCutBypassed
	case filter.HighCut:
		return &s.HighCutBypassed
	default:
		return &s.PeakBypassed
	}
}

// renderWidget draws w for the current state.
func renderWidget(w Widget, s filter.ChainSettings, analysisEnabled, selected bool) string {
	style := widgetStyle
	if selected {
		style = selectedStyle
	}

	switch w.Kind {
	case Knob:
		return style.Render(fmt.Sprintf("%s %s", w.Label, ParamValue(s, w.Param)))
	case PowerButton:
		on := !*BandBypassed(&s, w.Band)
		return style.Render(powerGlyph(on) + " " + w.Label)
	case AnalyzerButton:
		return style.Render(powerGlyph(analysisEnabled) + " " + w.Label)
	default:
		return ""
	}
}

func powerGlyph(on bool) string {
	if on {
		return onStyle.Render("●")
	}
	return offStyle.Render("○")
}
