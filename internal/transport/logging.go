// SPDX-License-Identifier: MIT
package transport

import (
	"sync/atomic"

	applog "eqscope/internal/log"
	"eqscope/internal/scope"
)

// LoggingTransport implements the Transport interface by logging a summary of
// each payload at debug level.
type LoggingTransport struct {
	sent atomic.Uint64
}

// NewLoggingTransport creates a new LoggingTransport instance.
func NewLoggingTransport() *LoggingTransport {
	applog.Infof("Transport: Using LoggingTransport")
	return &LoggingTransport{}
}

// Send logs the received data.
func (lt *LoggingTransport) Send(data any) error {
	n := lt.sent.Add(1)
	switch v := data.(type) {
	case scope.Frame:
		applog.Debugf("LoggingTransport: frame %d (left %d pts, right %d pts, response %d cols)",
			v.Sequence, v.Left.Len(), v.Right.Len(), len(v.Response))
	default:
		applog.Debugf("LoggingTransport: message %d (%T)", n, data)
	}
	return nil // Logging transport never fails to "send"
}

// Sent returns the number of payloads handed to Send.
func (lt *LoggingTransport) Sent() uint64 {
	return lt.sent.Load()
}

// Close is a no-op for LoggingTransport.
func (lt *LoggingTransport) Close() error {
	applog.Infof("LoggingTransport: Close called after %d messages", lt.sent.Load())
	return nil
}

// Ensure LoggingTransport satisfies the interface at compile time.
var _ Transport = (*LoggingTransport)(nil)
