// SPDX-License-Identifier: MIT
/*
Package audio implements the producer side of the analyzer:
- Sample sources (test tones and WAV files) standing in for a live input
- A paced producer goroutine that de-interleaves blocks per channel
- Lock-free per-channel block buffers read by the UI tick
- Noise gate and WAV recording tap on the produced signal
- The equalizer parameter store

Thread Safety:
- Uses atomic operations for state shared with the UI goroutine
- Pre-allocates buffers to avoid GC in hot path
- Locks OS thread while producing
*/
package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	applog "eqscope/internal/log"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Channel indices of the stereo pair the engine produces.
const (
	LeftChannel = iota
	RightChannel
	numChannels
)

type Engine struct {
	source    Source
	blockSize int

	// Per-channel handoff to the analyzer.
	channels [numChannels]*ChannelFifo

	// Pre-allocated producer buffers.
	interleaved []float32
	planar      [numChannels][]float32

	// Noise gate for signal conditioning.
	gateEnabled   atomic.Bool
	gateThreshold atomic.Uint32 // math.Float32bits of the peak threshold (0-1).

	// Recording state and buffers.
	recMu      sync.Mutex
	recording  bool
	outputFile *os.File
	wavEncoder *wav.Encoder
	sampleBuf  *audio.IntBuffer // Reusable buffer for format conversion

	blocks atomic.Uint64 // Blocks produced since start.
}

// NewEngine prepares an engine producing blocks of blockSize frames from
// source.
func NewEngine(source Source, blockSize int) (*Engine, error) {
	if source == nil {
		return nil, errors.New("audio: engine needs a source")
	}
	if blockSize < 1 {
		return nil, fmt.Errorf("audio: block size must be positive, got %d", blockSize)
	}
	if source.NumChannels() < 1 {
		return nil, fmt.Errorf("audio: source has %d channels", source.NumChannels())
	}

	e := &Engine{
		source:      source,
		blockSize:   blockSize,
		interleaved: make([]float32, blockSize*source.NumChannels()),
	}
	for ch := range e.channels {
		fifo, err := NewChannelFifo(blockSize)
		if err != nil {
			return nil, err
		}
		e.channels[ch] = fifo
		e.planar[ch] = make([]float32, blockSize)
	}
	e.SetGateThreshold(defaultGateThreshold)

	applog.Infof("Audio: Initializing Engine (SampleRate: %.0f Hz, Channels: %d, Block: %d frames)",
		source.SampleRate(), source.NumChannels(), blockSize)
	return e, nil
}

// Left returns the left channel's block buffer.
func (e *Engine) Left() *ChannelFifo { return e.channels[LeftChannel] }

// Right returns the right channel's block buffer.
func (e *Engine) Right() *ChannelFifo { return e.channels[RightChannel] }

// SampleRate returns the source's sample rate.
func (e *Engine) SampleRate() float64 { return e.source.SampleRate() }

// BlocksProduced returns the number of blocks handed to the channels.
func (e *Engine) BlocksProduced() uint64 { return e.blocks.Load() }

// Run produces one block per block period until ctx is cancelled or the
// source is exhausted. It returns nil in both cases.
func (e *Engine) Run(ctx context.Context) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	period := time.Duration(float64(e.blockSize) / e.source.SampleRate() * float64(time.Second))
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	applog.Infof("Audio: Engine running (block period %v)", period)
	for {
		select {
		case <-ctx.Done():
			applog.Infof("Audio: Engine stopped after %d blocks", e.blocks.Load())
			return nil
		case <-ticker.C:
			if err := e.ProcessBlock(); err != nil {
				if errors.Is(err, io.EOF) {
					applog.Infof("Audio: Source exhausted after %d blocks", e.blocks.Load())
					return nil
				}
				return err
			}
		}
	}
}

// ProcessBlock reads one block from the source and hands it to both
// channels. A mono source feeds the same samples to left and right.
//
// Performance Critical (Hot Path):
// - No allocations
// - Never blocks on the consumer
func (e *Engine) ProcessBlock() error {
	n, err := e.source.Read(e.interleaved)
	if n > 0 {
		e.processBuffer(e.interleaved[:n])
	}
	return err
}

func (e *Engine) processBuffer(buffer []float32) {
	srcChannels := e.source.NumChannels()
	frames := len(buffer) / srcChannels

	for ch := range e.planar {
		src := min(ch, srcChannels-1)
		out := e.planar[ch][:frames]
		for i := range out {
			out[i] = buffer[i*srcChannels+src]
		}
	}

	if e.gateEnabled.Load() && !e.gateOpen(frames) {
		for ch := range e.planar {
			clear(e.planar[ch][:frames])
		}
	}

	e.writeRecording(frames)

	for ch, fifo := range e.channels {
		fifo.Update(e.planar[ch][:frames])
	}
	e.blocks.Add(1)
}
