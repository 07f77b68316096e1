// SPDX-License-Identifier: MIT
package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"eqscope/internal/analysis"
	"eqscope/internal/config"
)

func execute(t *testing.T, ctx context.Context, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, context.Background(), "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out, "eqscope ") {
		t.Errorf("output = %q", out)
	}
}

func TestCurveCommand(t *testing.T) {
	out, err := execute(t, context.Background(),
		"curve", "--width", "30", "--peak-freq", "1000", "--peak-gain", "12")
	if err != nil {
		t.Fatalf("curve: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 31 {
		t.Fatalf("got %d lines, expected header and 30 columns", len(lines))
	}

	peak := -100.0
	for _, line := range lines[1:] {
		fields := strings.Fields(line)
		db, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			t.Fatalf("line %q: %v", line, err)
		}
		peak = max(peak, db)
	}
	if peak < 11 || peak > 12.01 {
		t.Errorf("curve maximum = %.2f dB, expected close to 12", peak)
	}
}

func TestCurveCommand_RejectsBadSlope(t *testing.T) {
	if _, err := execute(t, context.Background(), "curve", "--low-slope", "18"); err == nil {
		t.Error("expected error for an 18 dB/oct slope")
	}
}

func TestOptions_Apply(t *testing.T) {
	opts := &options{}
	root := newRootCommand(opts)
	serve, _, err := root.Find([]string{"serve"})
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	args := []string{"--fft-size", "3000", "--file", "in.wav", "--ws", "", "--udp", "127.0.0.1:9999", "--no-analyzer"}
	if err := serve.ParseFlags(args); err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}

	cfg := config.Default()
	if err := opts.apply(serve, &cfg); err != nil {
		t.Fatalf("apply: %v", err)
	}

	if cfg.Analyzer.FFTOrder != int(analysis.Order4096) {
		t.Errorf("fft order = %d, expected %d", cfg.Analyzer.FFTOrder, analysis.Order4096)
	}
	if cfg.Source.Kind != config.SourceWav || cfg.Source.Path != "in.wav" {
		t.Errorf("source = %+v", cfg.Source)
	}
	if cfg.Transport.WebSocketEnabled || !cfg.Transport.UDPEnabled {
		t.Errorf("transport = %+v", cfg.Transport)
	}
	if cfg.Analyzer.Enabled {
		t.Error("expected analyzer disabled")
	}
	if cfg.EQ.PeakFreq != config.Default().EQ.PeakFreq {
		t.Error("unset flags must keep configuration values")
	}
}

func TestServeCommand_RunsUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	record := filepath.Join(t.TempDir(), "capture.wav")
	out, err := execute(t, ctx, "serve", "--ws", "", "--log-frames", "--record", record, "--block-size", "256")
	if err != nil {
		t.Fatalf("serve: %v", err)
	}
	if !strings.Contains(out, "Recording saved to: "+record) {
		t.Errorf("output = %q", out)
	}
}
