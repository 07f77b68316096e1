// SPDX-License-Identifier: MIT
// Package transport publishes scope frames to clients outside the process.
package transport

import (
	"errors"

	applog "eqscope/internal/log"
	"eqscope/internal/scope"
)

// ErrClosed is returned by Send after Close.
var ErrClosed = errors.New("transport: closed")

// Transport defines a generic interface for sending processed data or events.
// Implementations should be thread-safe.
type Transport interface {
	Send(data any) error
	Close() error
}

// FrameSink adapts a Transport to the scope's per-tick frame callback. The
// frame is copied before it leaves the tick goroutine.
type FrameSink struct {
	transport Transport
}

var _ scope.FrameSink = (*FrameSink)(nil)

// NewFrameSink returns a sink sending every frame through t.
func NewFrameSink(t Transport) *FrameSink {
	return &FrameSink{transport: t}
}

// Publish sends a copy of f. Errors are logged, never returned to the tick.
func (s *FrameSink) Publish(f *scope.Frame) {
	if err := s.transport.Send(f.Clone()); err != nil {
		applog.Debugf("Transport: Dropped frame %d: %v", f.Sequence, err)
	}
}
