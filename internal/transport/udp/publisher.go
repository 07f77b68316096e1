// SPDX-License-Identifier: MIT
package udp

import (
	"bytes"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"eqscope/internal/fifo"
	applog "eqscope/internal/log"
	"eqscope/internal/plot"
	"eqscope/internal/scope"
)

// frameQueueCapacity is the number of frames buffered between the scope tick
// and the publisher goroutine.
const frameQueueCapacity = 4

// Slot sizes of the frame queue. An 8192-point transform yields at most 4096
// path points per channel. Larger frames would not fit one datagram anyway.
const (
	maxFramePoints  = 4096
	maxFrameColumns = 4096
)

// UDPPublisher receives frames from the scope tick through a lock-free queue
// and, on its own ticker, packs the newest one into a datagram sent with a
// PacketSender. It runs in a separate goroutine managed by Start and Stop.
type UDPPublisher struct {
	sender   PacketSender  // The underlying UDP sender instance.
	interval time.Duration // The interval at which packets are sent.
	frames   *fifo.Fifo[scope.Frame]

	ticker   *time.Ticker   // Ticker that triggers packet sending.
	doneChan chan struct{}  // Channel used to signal the publisher goroutine to stop.
	stopOnce sync.Once      // Ensures the stop logic runs only once per Start/Stop cycle.
	wg       sync.WaitGroup // Waits for the publisher goroutine to finish during Stop.
	mu       sync.Mutex     // Protects access to ticker and doneChan during Start/Stop.

	sequenceNum uint32        // Monotonically increasing sequence number for packets.
	oversized   atomic.Uint64 // Frames rejected by Publish for exceeding the slot sizes.

	// Pre-allocated buffers to reduce allocations in the hot path (buildAndSendPacket).
	latest       scope.Frame   // Newest frame pulled from the queue.
	f32Buffer    []float32     // Buffer to hold float32 values for binary packing.
	packetBuffer *bytes.Buffer // Reusable buffer for constructing the binary packet.
}

var _ scope.FrameSink = (*UDPPublisher)(nil)

// NewUDPPublisher creates and initializes a new UDPPublisher.
// If the provided interval is invalid (<= 0), it defaults to 16ms (~60Hz).
func NewUDPPublisher(interval time.Duration, sender PacketSender) (*UDPPublisher, error) {
	if sender == nil {
		return nil, fmt.Errorf("UDPPublisher: UDP sender cannot be nil")
	}

	if interval <= 0 {
		interval = 16 * time.Millisecond // Default to ~60Hz if invalid
		applog.Warnf("UDPPublisher: Invalid interval provided, defaulting to %s", interval)
	}

	frames, err := fifo.New(frameQueueCapacity,
		fifo.WithAssign(func(dst *scope.Frame, src scope.Frame) { dst.CopyFrom(&src) }),
		fifo.WithSlotInit(func(slot *scope.Frame) {
			slot.Left = plot.NewPath(maxFramePoints)
			slot.Right = plot.NewPath(maxFramePoints)
			slot.Response = make([]float64, 0, maxFrameColumns)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("UDPPublisher: frame queue: %w", err)
	}

	applog.Infof("UDPPublisher: Initializing (Interval: %s)", interval)
	return &UDPPublisher{
		sender:       sender,
		interval:     interval,
		frames:       frames,
		packetBuffer: new(bytes.Buffer),
	}, nil
}

// Publish hands a frame to the publisher goroutine. It never blocks; when
// the publisher falls behind the oldest queued frame is dropped. Frames
// larger than the pre-sized queue slots are rejected so a slot's backing
// arrays never move while the publisher reads them.
func (p *UDPPublisher) Publish(f *scope.Frame) {
	if f.Left.Len() > maxFramePoints || f.Right.Len() > maxFramePoints || len(f.Response) > maxFrameColumns {
		if p.oversized.Add(1) == 1 {
			applog.Warnf("UDPPublisher: Dropping frame %d with %d+%d points and %d columns",
				f.Sequence, f.Left.Len(), f.Right.Len(), len(f.Response))
		}
		return
	}
	p.frames.Push(*f)
}

// Oversized returns how many frames Publish rejected for their size.
func (p *UDPPublisher) Oversized() uint64 {
	return p.oversized.Load()
}

// Start begins the periodic publishing process.
// It is safe to call Start multiple times; subsequent calls are no-ops if already started.
func (p *UDPPublisher) Start() {
	p.mu.Lock()
	// Prevent starting if already running
	if p.ticker != nil {
		p.mu.Unlock()
		applog.Warnf("UDPPublisher: Start called but already running.")
		return
	}

	// Initialize resources for this run
	p.ticker = time.NewTicker(p.interval)
	p.doneChan = make(chan struct{})
	p.stopOnce = sync.Once{} // Reset stopOnce for this run

	// Capture local variables for the goroutine to avoid data races on p.ticker/p.doneChan
	ticker := p.ticker
	doneChan := p.doneChan

	p.mu.Unlock()

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		applog.Infof("UDPPublisher: Publisher goroutine started (Interval: %s)", p.interval)
		for {
			select {
			case <-ticker.C:
				p.buildAndSendPacket()
			case <-doneChan:
				applog.Infof("UDPPublisher: Publisher goroutine received stop signal.")
				return
			}
		}
	}()
}

// Stop gracefully signals the publisher goroutine to terminate and waits for it to exit.
// It is safe to call Stop multiple times; subsequent calls are no-ops.
func (p *UDPPublisher) Stop() error {
	p.mu.Lock()
	// Check if already stopped or never started
	if p.ticker == nil {
		p.mu.Unlock()
		applog.Debugf("UDPPublisher: Stop called but not running.")
		return nil
	}

	p.stopOnce.Do(func() {
		applog.Infof("UDPPublisher: Initiating stop sequence...")
		close(p.doneChan) // Signal the goroutine to exit
		p.ticker.Stop()
		p.ticker = nil // Mark as stopped
	})

	p.mu.Unlock()

	p.wg.Wait()
	applog.Infof("UDPPublisher: Publisher goroutine finished.")
	return nil
}

// buildAndSendPacket drains the frame queue, keeping only the newest frame,
// and sends it. Ticks without a new frame send nothing.
func (p *UDPPublisher) buildAndSendPacket() {
	fresh := false
	for p.frames.Pull(&p.latest) {
		fresh = true
	}
	if !fresh {
		return
	}

	p.sequenceNum++
	var err error
	p.f32Buffer, err = encodePacket(p.packetBuffer, p.f32Buffer, p.sequenceNum, time.Now().UnixNano(), &p.latest)
	if err != nil {
		applog.Errorf("UDPPublisher: Error packing frame %d: %v", p.latest.Sequence, err)
		return // Skip sending this packet
	}

	packetBytes := p.packetBuffer.Bytes()
	if err := p.sender.Send(packetBytes); err == nil {
		// Log successful sends only at Debug level to avoid flooding logs.
		applog.Debugf("UDPPublisher: Sent packet %d (%d bytes)", p.sequenceNum, len(packetBytes))
	}
}

// Close implements the io.Closer interface. It gracefully stops the publisher goroutine.
func (p *UDPPublisher) Close() error {
	applog.Debugf("UDPPublisher: Close called, stopping publisher...")
	return p.Stop()
}

// Ensure UDPPublisher satisfies the io.Closer interface at compile time.
var _ interface{ Close() error } = (*UDPPublisher)(nil)
