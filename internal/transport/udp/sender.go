// SPDX-License-Identifier: MIT
package udp

import (
	"errors"
	"fmt"
	"net"
	"sync"

	applog "eqscope/internal/log"
)

// ErrSenderClosed is returned by Send after Close.
var ErrSenderClosed = errors.New("udp: sender is closed")

// PacketSender transmits one datagram.
type PacketSender interface {
	Send(data []byte) error
}

// UDPSender handles sending data packets over UDP.
type UDPSender struct {
	conn       *net.UDPConn
	targetAddr *net.UDPAddr
	mu         sync.Mutex // Protects conn during Close
	closed     bool
}

var _ PacketSender = (*UDPSender)(nil)

// NewUDPSender creates a new UDPSender targeting the specified address.
// The address should be in the format "host:port", e.g., "127.0.0.1:9090".
func NewUDPSender(targetAddress string) (*UDPSender, error) {
	udpAddr, err := net.ResolveUDPAddr("udp", targetAddress)
	if err != nil {
		return nil, fmt.Errorf("udp: resolve target address '%s': %w", targetAddress, err)
	}

	// No local port is needed for sending.
	conn, err := net.DialUDP("udp", nil, udpAddr)
	if err != nil {
		return nil, fmt.Errorf("udp: dial target '%s': %w", targetAddress, err)
	}

	applog.Infof("UDPSender: Connection established to %s", conn.RemoteAddr().String())

	return &UDPSender{
		conn:       conn,
		targetAddr: udpAddr,
	}, nil
}

// Send transmits the given byte slice as a UDP packet.
// It is safe for concurrent use, although typically called sequentially by the publisher.
func (s *UDPSender) Send(data []byte) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSenderClosed
	}
	// Keep the lock during the write operation to prevent concurrent Close/Write issues.
	_, err := s.conn.Write(data)
	s.mu.Unlock()

	if err != nil {
		applog.Warnf("UDPSender: Error sending packet: %v", err)
		return fmt.Errorf("udp: send packet: %w", err)
	}
	return nil
}

// Target returns the destination address.
func (s *UDPSender) Target() string {
	return s.targetAddr.String()
}

// Close closes the underlying UDP connection.
func (s *UDPSender) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil // Already closed
	}

	s.closed = true
	if s.conn != nil {
		applog.Infof("UDPSender: Closing connection to %s", s.conn.RemoteAddr().String())
		err := s.conn.Close()
		s.conn = nil // Prevent further use
		if err != nil {
			return fmt.Errorf("udp: close connection: %w", err)
		}
	}
	return nil
}

// Ensure UDPSender satisfies the io.Closer interface (useful for engine closables)
var _ interface{ Close() error } = (*UDPSender)(nil)
