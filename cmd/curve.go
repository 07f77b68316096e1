// SPDX-License-Identifier: MIT
package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"eqscope/internal/filter"
	"eqscope/internal/plot"
	"eqscope/internal/response"
)

// runCurveCommand prints one line per column: the column's frequency and
// the response of the configured EQ there. --width sets the column count.
func runCurveCommand(cmd *cobra.Command, opts *options) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}

	sampleRate := cfg.Source.SampleRate
	chain := filter.NewChain()
	chain.Update(cfg.ChainSettings(), sampleRate)

	width := cfg.Display.Width
	mags := response.Magnitudes(chain, sampleRate, width, nil)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "column\tfrequency (Hz)\tgain (dB)\t")
	for i, db := range mags {
		freq := plot.MapToLog10(float64(i)/float64(width), plot.MinFrequency, plot.MaxFrequency)
		fmt.Fprintf(w, "%d\t%.1f\t%+.2f\t\n", i, freq, db)
	}
	return w.Flush()
}
