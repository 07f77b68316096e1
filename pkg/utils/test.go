// SPDX-License-Identifier: MIT
package utils

import (
	"math"
	"sync"
)

// MockTransport implements the Transport interface for testing. It records
// every payload it is handed.
type MockTransport struct {
	mu     sync.Mutex
	Sent   []any
	Closed bool
}

// Send stores data for later inspection instead of transmitting.
func (m *MockTransport) Send(data any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, data)
	return nil
}

// Close marks the transport closed.
func (m *MockTransport) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
	return nil
}

// Count returns how many payloads were sent.
func (m *MockTransport) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Sent)
}

// Last returns the most recent payload, or nil.
func (m *MockTransport) Last() any {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Sent) == 0 {
		return nil
	}
	return m.Sent[len(m.Sent)-1]
}

// SliceBlockSource serves pre-built sample blocks in order. It satisfies the
// analyzer's BlockSource contract without a real-time producer.
type SliceBlockSource struct {
	Blocks [][]float32
}

// NumCompleteBlocksAvailable returns the number of blocks left.
func (s *SliceBlockSource) NumCompleteBlocksAvailable() int {
	return len(s.Blocks)
}

// PullBlock copies the next block into dst.
func (s *SliceBlockSource) PullBlock(dst *[]float32) bool {
	if len(s.Blocks) == 0 {
		return false
	}
	*dst = append((*dst)[:0], s.Blocks[0]...)
	s.Blocks = s.Blocks[1:]
	return true
}

// GenerateComplexWave returns a 440 Hz tone with its second and third
// harmonics, peaking at 0.9 full scale.
func GenerateComplexWave(size int, sampleRate float64) []float32 {
	buffer := make([]float32, size)
	for i := range buffer {
		tm := float64(i) / sampleRate
		signal := math.Sin(2*math.Pi*440*tm)*0.5 +
			math.Sin(2*math.Pi*880*tm)*0.3 +
			math.Sin(2*math.Pi*1320*tm)*0.2 // 440Hz fundamental + harmonics
		buffer[i] = float32(signal * 0.9)
	}
	return buffer
}

// GenerateSineWave returns size samples of a sine at frequency Hz.
func GenerateSineWave(size int, sampleRate, frequency, amplitude float64) []float32 {
	buffer := make([]float32, size)
	for i := range buffer {
		t := float64(i) / sampleRate
		buffer[i] = float32(amplitude * math.Sin(2*math.Pi*frequency*t))
	}
	return buffer
}

// GenerateConstant returns size samples all equal to value.
func GenerateConstant(size int, value float32) []float32 {
	buffer := make([]float32, size)
	for i := range buffer {
		buffer[i] = value
	}
	return buffer
}

// FindPeakBin returns the index of the largest value in [startBin, endBin].
// The range is clipped to the slice.
func FindPeakBin[T ~float32 | ~float64](magnitudes []T, startBin, endBin int) int {
	if len(magnitudes) == 0 {
		return 0
	}

	if startBin < 0 {
		startBin = 0
	}

	if endBin >= len(magnitudes) {
		endBin = len(magnitudes) - 1
	}

	peakBin := startBin
	peakValue := magnitudes[startBin]

	for bin := startBin + 1; bin <= endBin; bin++ {
		if magnitudes[bin] > peakValue {
			peakValue = magnitudes[bin]
			peakBin = bin
		}
	}

	return peakBin
}
