// SPDX-License-Identifier: MIT
package filter

import "fmt"

// Band identifies one of the equalizer's three bands, in signal order.
type Band int

const (
	LowCut Band = iota
	Peak
	HighCut
	NumBands
)

func (b Band) String() string {
	switch b {
	case LowCut:
		return "LowCut"
	case Peak:
		return "Peak"
	case HighCut:
		return "HighCut"
	default:
		return fmt.Sprintf("Band(%d)", int(b))
	}
}

const (
	// MaxCutSections is the number of sections in each cut band (48 dB/oct).
	MaxCutSections = 4
	// NumSections counts every section in the chain.
	NumSections = 2*MaxCutSections + 1
)

// Section is one biquad stage with its own bypass flag. A bypassed section
// contributes a factor of exactly 1 at every frequency.
type Section struct {
	Coefficients
	Bypassed bool
}

// Chain is the cascade LowCut -> Peak -> HighCut. Each of the nine sections
// and each of the three bands is independently bypassable.
type Chain struct {
	lowCut  [MaxCutSections]Section
	peak    [1]Section
	highCut [MaxCutSections]Section

	bandBypassed [NumBands]bool
}

// NewChain returns a chain of identity sections with nothing bypassed.
func NewChain() *Chain {
	c := &Chain{}
	for b := range NumBands {
		for i := range c.sections(b) {
			c.sections(b)[i].Coefficients = Identity
		}
	}
	return c
}

func (c *Chain) sections(b Band) []Section {
	switch b {
	case LowCut:
		return c.lowCut[:]
	case Peak:
		return c.peak[:]
	case HighCut:
		return c.highCut[:]
	default:
		return nil
	}
}

// Sections returns a copy of the band's sections.
func (c *Chain) Sections(b Band) []Section {
	return append([]Section(nil), c.sections(b)...)
}

// SetSection replaces section i of band b.
func (c *Chain) SetSection(b Band, i int, s Section) {
	c.sections(b)[i] = s
}

// SetSectionBypassed sets the bypass flag of section i of band b.
func (c *Chain) SetSectionBypassed(b Band, i int, bypassed bool) {
	c.sections(b)[i].Bypassed = bypassed
}

// IsSectionBypassed reports the bypass flag of section i of band b.
func (c *Chain) IsSectionBypassed(b Band, i int) bool {
	return c.sections(b)[i].Bypassed
}

// SetBandBypassed sets the bypass flag of a whole band. Section flags are
// left untouched.
func (c *Chain) SetBandBypassed(b Band, bypassed bool) {
	c.bandBypassed[b] = bypassed
}

// IsBandBypassed reports the bypass flag of a whole band.
func (c *Chain) IsBandBypassed(b Band) bool {
	return c.bandBypassed[b]
}

// BandMagnitude returns the linear magnitude contributed by band b at freq,
// ignoring the band's own bypass flag.
func (c *Chain) BandMagnitude(b Band, freq, sampleRate float64) float64 {
	mag := 1.0
	for _, s := range c.sections(b) {
		if !s.Bypassed {
			mag *= s.Magnitude(freq, sampleRate)
		}
	}
	return mag
}

// Magnitude returns the linear magnitude of the whole chain at freq.
func (c *Chain) Magnitude(freq, sampleRate float64) float64 {
	mag := 1.0
	for b := range NumBands {
		if c.bandBypassed[b] {
			continue
		}
		mag *= c.BandMagnitude(b, freq, sampleRate)
	}
	return mag
}

// Update rebuilds every section from settings: the peak section is
// redesigned, each cut band enables its first slope+1 sections and bypasses
// the rest, and the band bypass flags follow the settings.
func (c *Chain) Update(s ChainSettings, sampleRate float64) {
	c.peak[0].Coefficients = MakePeakFilter(s, sampleRate)
	c.peak[0].Bypassed = false

	updateCutFilter(c.lowCut[:], MakeLowCutFilter(s, sampleRate))
	updateCutFilter(c.highCut[:], MakeHighCutFilter(s, sampleRate))

	c.bandBypassed[LowCut] = s.LowCutBypassed
	c.bandBypassed[Peak] = s.PeakBypassed
	c.bandBypassed[HighCut] = s.HighCutBypassed
}

func updateCutFilter(band []Section, coeffs []Coefficients) {
	for i := range band {
		band[i].Bypassed = true
	}
	for i := 0; i < len(coeffs) && i < len(band); i++ {
		band[i].Coefficients = coeffs[i]
		band[i].Bypassed = false
	}
}
