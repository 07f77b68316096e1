// SPDX-License-Identifier: MIT
package audio

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	applog "eqscope/internal/log"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// ErrInvalidWav is returned for files the WAV decoder cannot read as PCM.
var ErrInvalidWav = errors.New("audio: not a readable PCM wav file")

// Source yields interleaved float32 frames in [-1, 1].
type Source interface {
	SampleRate() float64
	NumChannels() int
	// Read fills dst with interleaved samples and returns how many were
	// written. It returns io.EOF once the source is exhausted.
	Read(dst []float32) (int, error)
}

// ToneSource generates a sine per channel. It never ends.
type ToneSource struct {
	sampleRate  float64
	frequencies []float64
	amplitude   float64
	phases      []float64
}

var _ Source = (*ToneSource)(nil)

// NewToneSource returns one sine channel per frequency.
func NewToneSource(sampleRate, amplitude float64, frequencies ...float64) (*ToneSource, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("audio: sample rate must be positive, got %f", sampleRate)
	}
	if len(frequencies) == 0 {
		return nil, errors.New("audio: tone source needs at least one frequency")
	}
	return &ToneSource{
		sampleRate:  sampleRate,
		frequencies: frequencies,
		amplitude:   amplitude,
		phases:      make([]float64, len(frequencies)),
	}, nil
}

func (t *ToneSource) SampleRate() float64 { return t.sampleRate }
func (t *ToneSource) NumChannels() int    { return len(t.frequencies) }

// Read writes whole frames only; a trailing partial frame of dst is left as is.
func (t *ToneSource) Read(dst []float32) (int, error) {
	channels := len(t.frequencies)
	frames := len(dst) / channels
	for f := range frames {
		for ch, freq := range t.frequencies {
			dst[f*channels+ch] = float32(t.amplitude * math.Sin(t.phases[ch]))
			t.phases[ch] += 2 * math.Pi * freq / t.sampleRate
			if t.phases[ch] >= 2*math.Pi {
				t.phases[ch] -= 2 * math.Pi
			}
		}
	}
	return frames * channels, nil
}

// WavSource streams PCM samples from a WAV file, optionally looping.
type WavSource struct {
	file    *os.File
	decoder *wav.Decoder
	loop    bool

	sampleRate float64
	channels   int
	scale      float32 // Converts decoded integers to [-1, 1].
	buf        *audio.IntBuffer
}

var _ Source = (*WavSource)(nil)

// OpenWavSource opens path for streaming. Supported bit depths are 16, 24
// and 32.
func OpenWavSource(path string, loop bool) (*WavSource, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("audio: open wav: %w", err)
	}

	decoder := wav.NewDecoder(file)
	if !decoder.IsValidFile() {
		file.Close()
		return nil, fmt.Errorf("%w: %s", ErrInvalidWav, path)
	}

	bitDepth := int(decoder.BitDepth)
	switch bitDepth {
	case 16, 24, 32:
	default:
		file.Close()
		return nil, fmt.Errorf("%w: unsupported bit depth %d", ErrInvalidWav, bitDepth)
	}

	s := &WavSource{
		file:       file,
		decoder:    decoder,
		loop:       loop,
		sampleRate: float64(decoder.SampleRate),
		channels:   int(decoder.NumChans),
		scale:      1 / float32(int64(1)<<(bitDepth-1)),
		buf: &audio.IntBuffer{
			Format: &audio.Format{
				NumChannels: int(decoder.NumChans),
				SampleRate:  int(decoder.SampleRate),
			},
		},
	}
	applog.Infof("Audio: Streaming %s (%d Hz, %d channels, %d bit, loop: %v)",
		path, decoder.SampleRate, decoder.NumChans, bitDepth, loop)
	return s, nil
}

func (s *WavSource) SampleRate() float64 { return s.sampleRate }
func (s *WavSource) NumChannels() int    { return s.channels }

// Read decodes up to len(dst) samples. At the end of the file it rewinds
// when looping, otherwise it returns io.EOF.
func (s *WavSource) Read(dst []float32) (int, error) {
	written := 0
	rewound := false
	for written < len(dst) {
		n, err := s.decode(dst[written:])
		written += n
		if err != nil {
			return written, err
		}
		if n > 0 {
			rewound = false
			continue
		}
		// End of data. A file with no samples would rewind forever.
		if !s.loop || rewound {
			if written == 0 {
				return 0, io.EOF
			}
			return written, nil
		}
		if err := s.rewind(); err != nil {
			return written, err
		}
		rewound = true
	}
	return written, nil
}

func (s *WavSource) decode(dst []float32) (int, error) {
	if cap(s.buf.Data) < len(dst) {
		s.buf.Data = make([]int, len(dst))
	}
	s.buf.Data = s.buf.Data[:len(dst)]

	n, err := s.decoder.PCMBuffer(s.buf)
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("audio: decode wav: %w", err)
	}
	for i := range n {
		dst[i] = float32(s.buf.Data[i]) * s.scale
	}
	return n, nil
}

// rewind restarts decoding from the beginning of the file.
func (s *WavSource) rewind() error {
	if _, err := s.file.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("audio: rewind wav: %w", err)
	}
	s.decoder = wav.NewDecoder(s.file)
	if !s.decoder.IsValidFile() {
		return fmt.Errorf("%w: rewind", ErrInvalidWav)
	}
	return nil
}

// Close releases the underlying file.
func (s *WavSource) Close() error {
	return s.file.Close()
}
