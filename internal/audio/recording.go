// SPDX-License-Identifier: MIT
package audio

import (
	"errors"
	"fmt"
	"os"

	applog "eqscope/internal/log"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// recordingBitDepth is the sample size of recorded WAV files.
const recordingBitDepth = 16

// ErrAlreadyRecording is returned when a recording is started twice.
var ErrAlreadyRecording = errors.New("audio: already recording")

// StartRecording writes the stereo signal handed to the analyzer to a WAV
// file at filename until StopRecording.
func (e *Engine) StartRecording(filename string) error {
	e.recMu.Lock()
	defer e.recMu.Unlock()

	if e.recording {
		return ErrAlreadyRecording
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("audio: create recording: %w", err)
	}
	e.outputFile = file

	sampleRate := int(e.source.SampleRate())
	e.wavEncoder = wav.NewEncoder(file, sampleRate, recordingBitDepth, numChannels, 1)

	e.sampleBuf = &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: numChannels,
			SampleRate:  sampleRate,
		},
		Data:           make([]int, e.blockSize*numChannels),
		SourceBitDepth: recordingBitDepth,
	}

	e.recording = true
	applog.Infof("Audio: Recording to %s", filename)
	return nil
}

// IsRecording reports whether a recording is in progress.
func (e *Engine) IsRecording() bool {
	e.recMu.Lock()
	defer e.recMu.Unlock()
	return e.recording
}

func (e *Engine) StopRecording() error {
	e.recMu.Lock()
	defer e.recMu.Unlock()

	if !e.recording {
		return nil
	}
	e.recording = false

	if e.wavEncoder != nil {
		if err := e.wavEncoder.Close(); err != nil {
			return err
		}
		e.wavEncoder = nil
	}

	if e.outputFile != nil {
		if err := e.outputFile.Close(); err != nil {
			return err
		}
		e.outputFile = nil
	}

	applog.Infof("Audio: Recording stopped")
	return nil
}

// writeRecording appends the first frames of the planar buffers, interleaved.
func (e *Engine) writeRecording(frames int) {
	e.recMu.Lock()
	defer e.recMu.Unlock()

	if !e.recording || e.wavEncoder == nil {
		return
	}

	const fullScale = 1<<(recordingBitDepth-1) - 1
	data := e.sampleBuf.Data[:frames*numChannels]
	for i := range frames {
		for ch := range e.planar {
			s := max(-1, min(1, e.planar[ch][i]))
			data[i*numChannels+ch] = int(s * fullScale)
		}
	}
	e.sampleBuf.Data = data

	if err := e.wavEncoder.Write(e.sampleBuf); err != nil {
		applog.Errorf("Audio: Error writing to WAV file: %v", err)
	}
}

// Close stops any recording and closes the source if it holds resources.
func (e *Engine) Close() error {
	if err := e.StopRecording(); err != nil {
		return err
	}
	if c, ok := e.source.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
