// SPDX-License-Identifier: MIT
package audio

import (
	"math"
	"sync"
	"sync/atomic"

	"eqscope/internal/filter"
)

// ParameterStore holds the equalizer parameters the audio side runs with.
// Reads are lock-free; writers notify registered listeners so UI mirrors can
// mark themselves dirty.
type ParameterStore struct {
	settings   atomic.Pointer[filter.ChainSettings]
	sampleRate atomic.Uint64 // math.Float64bits of the rate in Hz.

	mu        sync.Mutex
	listeners []func()
}

// NewParameterStore returns a store holding settings (clamped to range).
func NewParameterStore(settings filter.ChainSettings, sampleRate float64) *ParameterStore {
	p := &ParameterStore{}
	s := settings.Clamped()
	p.settings.Store(&s)
	p.sampleRate.Store(math.Float64bits(sampleRate))
	return p
}

// ChainSettings returns a copy of the current parameters.
func (p *ParameterStore) ChainSettings() filter.ChainSettings {
	return *p.settings.Load()
}

// SampleRate returns the rate the filters are designed for.
func (p *ParameterStore) SampleRate() float64 {
	return math.Float64frombits(p.sampleRate.Load())
}

// SetChainSettings replaces all parameters and notifies listeners.
func (p *ParameterStore) SetChainSettings(settings filter.ChainSettings) {
	s := settings.Clamped()
	p.settings.Store(&s)
	p.notify()
}

// Update applies fn to a copy of the current parameters and stores the result.
func (p *ParameterStore) Update(fn func(*filter.ChainSettings)) filter.ChainSettings {
	s := p.ChainSettings()
	fn(&s)
	s = s.Clamped()
	p.settings.Store(&s)
	p.notify()
	return s
}

// SetSampleRate changes the design rate and notifies listeners.
func (p *ParameterStore) SetSampleRate(sampleRate float64) {
	p.sampleRate.Store(math.Float64bits(sampleRate))
	p.notify()
}

// AddListener registers fn to run after every change. Listeners run on the
// writer's goroutine and must not block.
func (p *ParameterStore) AddListener(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listeners = append(p.listeners, fn)
}

func (p *ParameterStore) notify() {
	p.mu.Lock()
	listeners := p.listeners
	p.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}
