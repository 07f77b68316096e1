// SPDX-License-Identifier: MIT
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"eqscope/internal/analysis"
	"eqscope/internal/config"
	applog "eqscope/internal/log"
	"eqscope/pkg/bitint"
	"eqscope/pkg/build"
)

// options collects every flag. Only flags set on the command line replace
// values from the configuration file.
type options struct {
	configPath string
	logLevel   string
	verbose    bool

	// Source
	source     string
	file       string
	loop       bool
	tones      []float64
	sampleRate float64
	blockSize  int
	gate       float64

	// Analyzer
	fftSize    int
	floor      float64
	stride     int
	tickRate   float64
	noAnalyzer bool
	width      int
	height     int

	// EQ
	peakFreq  float64
	peakGain  float64
	peakQ     float64
	lowCut    float64
	highCut   float64
	lowSlope  int
	highSlope int

	// Outputs
	ws        string
	udp       string
	record    string
	logFrames bool
	logFile   string
}

// Execute runs the command line against os.Args.
func Execute() error {
	root := NewRootCommand()
	root.SetArgs(os.Args[1:])
	return root.Execute()
}

// NewRootCommand builds the command tree. Running the root command without a
// subcommand starts the terminal UI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&options{})
}

func newRootCommand(opts *options) *cobra.Command {
	buildInfo := build.GetBuildFlags()

	rootCmd := &cobra.Command{
		Use:           buildInfo.Name,
		Short:         buildInfo.Description,
		Version:       buildInfo.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd:   true,
			DisableDescriptions: true,
			DisableNoDescFlag:   true,
			HiddenDefaultCmd:    true,
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUICommand(cmd, opts)
		},
	}

	// Display help message
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "",
		"Configuration file. Default is ./"+config.DefaultPath+" when present")
	pf.StringVar(&opts.logLevel, "log-level", "",
		"Log level: debug, info, warn or error")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false,
		"Show verbose output (same as --log-level debug)")
	addEQFlags(rootCmd, opts)
	addSourceFlags(rootCmd, opts)

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the analyzer and publish frames over WebSocket and UDP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServeCommand(cmd, opts)
		},
	}
	serveCmd.Flags().StringVar(&opts.ws, "ws", "",
		"WebSocket listen address, e.g. :8080. An empty value disables the WebSocket")
	serveCmd.Flags().StringVar(&opts.udp, "udp", "",
		"Send frames as UDP packets to host:port")
	serveCmd.Flags().StringVarP(&opts.record, "record", "r", "",
		"Record the analyzed input to a WAV file")
	serveCmd.Flags().BoolVar(&opts.logFrames, "log-frames", false,
		"Log a summary of every frame at debug level")

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "Show the analyzer and EQ controls in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUICommand(cmd, opts)
		},
	}

	curveCmd := &cobra.Command{
		Use:   "curve",
		Short: "Print the EQ response curve",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCurveCommand(cmd, opts)
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), build.GetBuildFlags().String())
		},
	}

	for _, c := range []*cobra.Command{tuiCmd, rootCmd} {
		c.Flags().StringVar(&opts.logFile, "log-file", "eqscope.log",
			"File receiving log output while the terminal UI runs")
	}

	rootCmd.AddCommand(serveCmd, tuiCmd, curveCmd, versionCmd)
	return rootCmd
}

func addSourceFlags(cmd *cobra.Command, opts *options) {
	pf := cmd.PersistentFlags()

	// Sample source
	pf.StringVar(&opts.source, "source", config.SourceTone,
		"Sample source: tone or wav")
	pf.StringVarP(&opts.file, "file", "f", "",
		"WAV file to analyze (implies --source wav)")
	pf.BoolVar(&opts.loop, "loop", true,
		"Restart the WAV file when it ends")
	pf.Float64SliceVar(&opts.tones, "tone", []float64{config.DefaultToneHz},
		"Tone frequencies in Hz, one per channel")
	pf.Float64VarP(&opts.sampleRate, "sample-rate", "s", config.DefaultSampleRate,
		"Tone sample rate, measured in Hertz (Hz)")
	pf.IntVarP(&opts.blockSize, "block-size", "b", config.DefaultBlockSize,
		"The number of frames per producer block")
	pf.Float64Var(&opts.gate, "gate", 0,
		"Noise gate threshold in [0, 1]; blocks below it are analyzed as silence")

	// Analyzer
	pf.IntVar(&opts.fftSize, "fft-size", analysis.DefaultOrder.Size(),
		"FFT size, rounded up to 2048, 4096 or 8192")
	pf.Float64Var(&opts.floor, "floor", analysis.DefaultDecibelFloor,
		"Spectrum floor in dB")
	pf.IntVar(&opts.stride, "stride", analysis.DefaultPathStride,
		"Draw every n-th FFT bin")
	pf.Float64Var(&opts.tickRate, "tick-rate", 60,
		"UI refresh rate in Hz")
	pf.BoolVar(&opts.noAnalyzer, "no-analyzer", false,
		"Start with the spectrum analyzer switched off")
	pf.IntVar(&opts.width, "width", config.DefaultWidth,
		"Width of the response component in pixels (curve: number of columns)")
	pf.IntVar(&opts.height, "height", config.DefaultHeight,
		"Height of the response component in pixels")
}

func addEQFlags(cmd *cobra.Command, opts *options) {
	pf := cmd.PersistentFlags()
	pf.Float64Var(&opts.peakFreq, "peak-freq", 750, "Peak band frequency in Hz")
	pf.Float64Var(&opts.peakGain, "peak-gain", 0, "Peak band gain in dB")
	pf.Float64Var(&opts.peakQ, "peak-q", 1, "Peak band quality")
	pf.Float64Var(&opts.lowCut, "low-cut", 20, "Low cut frequency in Hz")
	pf.Float64Var(&opts.highCut, "high-cut", 20000, "High cut frequency in Hz")
	pf.IntVar(&opts.lowSlope, "low-slope", 12, "Low cut slope in dB/oct (12, 24, 36, 48)")
	pf.IntVar(&opts.highSlope, "high-slope", 12, "High cut slope in dB/oct (12, 24, 36, 48)")
}

// loadConfig reads the configuration file, applies the flags that were set
// and configures logging.
func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return nil, err
	}
	if err := opts.apply(cmd, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	applog.SetLevel(cfg.Level())
	return cfg, nil
}

func (o *options) apply(cmd *cobra.Command, cfg *config.Config) error {
	changed := cmd.Flags().Changed

	if changed("log-level") {
		cfg.LogLevel = o.logLevel
	}
	if changed("verbose") {
		cfg.Debug = o.verbose
	}

	if changed("source") {
		cfg.Source.Kind = o.source
	}
	if changed("file") {
		cfg.Source.Kind = config.SourceWav
		cfg.Source.Path = o.file
	}
	if changed("loop") {
		cfg.Source.Loop = o.loop
	}
	if changed("tone") {
		cfg.Source.ToneHz = o.tones
	}
	if changed("sample-rate") {
		cfg.Source.SampleRate = o.sampleRate
	}
	if changed("block-size") {
		cfg.Source.BlockSize = o.blockSize
	}
	if changed("gate") {
		cfg.Source.Gate = o.gate
	}

	if changed("fft-size") {
		order, err := analysis.OrderForSize(bitint.NextPowerOfTwo(o.fftSize))
		if err != nil {
			return fmt.Errorf("--fft-size %d: %w", o.fftSize, err)
		}
		cfg.Analyzer.FFTOrder = int(order)
	}
	if changed("floor") {
		cfg.Analyzer.DecibelFloor = o.floor
	}
	if changed("stride") {
		cfg.Analyzer.PathStride = o.stride
	}
	if changed("tick-rate") {
		cfg.Analyzer.TickRate = o.tickRate
	}
	if changed("no-analyzer") {
		cfg.Analyzer.Enabled = !o.noAnalyzer
	}
	if changed("width") {
		cfg.Display.Width = o.width
	}
	if changed("height") {
		cfg.Display.Height = o.height
	}

	if changed("peak-freq") {
		cfg.EQ.PeakFreq = o.peakFreq
	}
	if changed("peak-gain") {
		cfg.EQ.PeakGain = o.peakGain
	}
	if changed("peak-q") {
		cfg.EQ.PeakQuality = o.peakQ
	}
	if changed("low-cut") {
		cfg.EQ.LowCutFreq = o.lowCut
	}
	if changed("high-cut") {
		cfg.EQ.HighCutFreq = o.highCut
	}
	if changed("low-slope") {
		cfg.EQ.LowCutSlope = o.lowSlope
	}
	if changed("high-slope") {
		cfg.EQ.HighCutSlope = o.highSlope
	}

	if changed("ws") {
		cfg.Transport.WebSocketEnabled = o.ws != ""
		cfg.Transport.WebSocketAddress = o.ws
	}
	if changed("udp") {
		cfg.Transport.UDPEnabled = o.udp != ""
		cfg.Transport.UDPTargetAddress = o.udp
	}
	if changed("record") {
		cfg.Source.Record = o.record
	}
	if changed("log-frames") {
		cfg.Transport.LogFrames = o.logFrames
	}
	return nil
}
