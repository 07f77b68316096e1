// SPDX-License-Identifier: MIT
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"eqscope/internal/audio"
	"eqscope/internal/config"
	applog "eqscope/internal/log"
	"eqscope/internal/scope"
	"eqscope/internal/transport"
	"eqscope/internal/transport/udp"
	"eqscope/internal/tui"
)

// pipeline is the producer side (source and engine), the parameters and the
// scope reading from them.
type pipeline struct {
	engine *audio.Engine
	params *audio.ParameterStore
	scope  *scope.Scope
}

func newPipeline(cfg *config.Config) (*pipeline, error) {
	src, err := openSource(cfg.Source)
	if err != nil {
		return nil, err
	}

	engine, err := audio.NewEngine(src, cfg.Source.BlockSize)
	if err != nil {
		if c, ok := src.(io.Closer); ok {
			c.Close()
		}
		return nil, err
	}
	if cfg.Source.Gate > 0 {
		engine.SetGateThreshold(cfg.Source.Gate)
		engine.EnableGate()
	}

	params := audio.NewParameterStore(cfg.ChainSettings(), engine.SampleRate())
	sc, err := scope.New(cfg.ScopeConfig(), params, engine.Left(), engine.Right())
	if err != nil {
		engine.Close()
		return nil, err
	}
	params.AddListener(sc.ParameterChanged)

	return &pipeline{engine: engine, params: params, scope: sc}, nil
}

func openSource(cfg config.SourceConfig) (audio.Source, error) {
	switch cfg.Kind {
	case config.SourceWav:
		return audio.OpenWavSource(cfg.Path, cfg.Loop)
	case config.SourceTone:
		return audio.NewToneSource(cfg.SampleRate, cfg.Amplitude, cfg.ToneHz...)
	default:
		return nil, fmt.Errorf("unknown source kind %q", cfg.Kind)
	}
}

// run drives the engine in its own goroutine while fn runs on the calling
// goroutine. When either returns the other is stopped.
func (p *pipeline) run(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg        sync.WaitGroup
		engineErr error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer cancel()
		engineErr = p.engine.Run(ctx)
	}()

	err := fn(ctx)
	cancel()
	wg.Wait()
	applog.Infof("Pipeline: %d blocks produced, %d dropped left / %d right",
		p.engine.BlocksProduced(), p.engine.Left().Dropped(), p.engine.Right().Dropped())
	return errors.Join(err, engineErr)
}

// Close stops any recording and releases the source.
func (p *pipeline) Close() error {
	return p.engine.Close()
}

func runServeCommand(cmd *cobra.Command, opts *options) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p, err := newPipeline(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := p.Close(); err != nil {
			applog.Errorf("Serve: Error closing audio engine: %v", err)
		}
	}()

	sinks, closers, err := buildSinks(cfg.Transport)
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i].Close(); err != nil {
				applog.Errorf("Serve: Error closing transport: %v", err)
			}
		}
	}()
	if err != nil {
		return err
	}

	if cfg.Source.Record != "" {
		if err := p.engine.StartRecording(cfg.Source.Record); err != nil {
			return err
		}
	}

	err = p.run(ctx, func(ctx context.Context) error {
		return p.scope.Run(ctx, sinks...)
	})
	if cfg.Source.Record != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Recording saved to: %s\n", cfg.Source.Record)
	}
	return err
}

// buildSinks creates the enabled transports. closers is valid even when err
// is not nil.
func buildSinks(cfg config.TransportConfig) (sinks []scope.FrameSink, closers []io.Closer, err error) {
	if cfg.WebSocketEnabled {
		ws := transport.NewWebSocketTransport(cfg.WebSocketAddress, cfg.WebSocketInterval)
		closers = append(closers, ws)
		sinks = append(sinks, transport.NewFrameSink(ws))
	}

	if cfg.UDPEnabled {
		sender, err := udp.NewUDPSender(cfg.UDPTargetAddress)
		if err != nil {
			return sinks, closers, err
		}
		closers = append(closers, sender)

		publisher, err := udp.NewUDPPublisher(cfg.UDPSendInterval, sender)
		if err != nil {
			return sinks, closers, err
		}
		publisher.Start()
		closers = append(closers, publisher)
		sinks = append(sinks, publisher)
	}

	if cfg.LogFrames {
		lt := transport.NewLoggingTransport()
		closers = append(closers, lt)
		sinks = append(sinks, transport.NewFrameSink(lt))
	}

	if len(sinks) == 0 {
		applog.Warnf("Serve: No transport enabled; frames are computed but not published")
	}
	return sinks, closers, nil
}

func runTUICommand(cmd *cobra.Command, opts *options) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}

	// Keep log lines off the alternate screen.
	logFile, err := os.OpenFile(opts.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()
	applog.SetOutput(logFile)
	defer applog.SetOutput(os.Stderr)

	p, err := newPipeline(cfg)
	if err != nil {
		return err
	}
	defer p.Close()

	return p.run(cmd.Context(), func(ctx context.Context) error {
		return tui.Run(ctx, p.scope, p.params)
	})
}
