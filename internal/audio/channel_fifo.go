// SPDX-License-Identifier: MIT
package audio

import (
	"fmt"

	"eqscope/internal/fifo"
)

// blockQueueCapacity is the number of complete blocks buffered per channel
// between the producer and the UI tick.
const blockQueueCapacity = 30

// ChannelFifo accumulates one channel's samples into fixed-size blocks and
// hands complete blocks to the analyzer. Update belongs to the producer
// goroutine; the pull side belongs to the UI tick.
type ChannelFifo struct {
	buffer []float32 // Block being filled.
	fill   int
	blocks *fifo.Fifo[[]float32]
}

// NewChannelFifo returns a buffer producing blocks of blockSize samples.
func NewChannelFifo(blockSize int) (*ChannelFifo, error) {
	c := &ChannelFifo{}
	if err := c.Prepare(blockSize); err != nil {
		return nil, err
	}
	return c, nil
}

// Prepare resizes the block and discards everything buffered. It must not
// run concurrently with Update or PullBlock.
func (c *ChannelFifo) Prepare(blockSize int) error {
	if blockSize < 1 {
		return fmt.Errorf("audio: block size must be positive, got %d", blockSize)
	}
	blocks, err := fifo.NewSliceFifo[float32](blockQueueCapacity, blockSize)
	if err != nil {
		return fmt.Errorf("audio: block queue: %w", err)
	}
	c.buffer = make([]float32, blockSize)
	c.fill = 0
	c.blocks = blocks
	return nil
}

// Update appends samples, pushing every block that fills up. It never blocks
// or allocates; when the analyzer falls behind the oldest block is dropped.
func (c *ChannelFifo) Update(samples []float32) {
	for len(samples) > 0 {
		n := copy(c.buffer[c.fill:], samples)
		c.fill += n
		samples = samples[n:]

		if c.fill == len(c.buffer) {
			c.blocks.Push(c.buffer)
			c.fill = 0
		}
	}
}

// NumCompleteBlocksAvailable returns how many blocks are ready to pull.
func (c *ChannelFifo) NumCompleteBlocksAvailable() int {
	return c.blocks.NumAvailableForReading()
}

// PullBlock copies the oldest complete block into dst.
func (c *ChannelFifo) PullBlock(dst *[]float32) bool {
	return c.blocks.Pull(dst)
}

// BlockSize returns the number of samples per block.
func (c *ChannelFifo) BlockSize() int {
	return len(c.buffer)
}

// Dropped returns how many blocks were overwritten before being pulled.
func (c *ChannelFifo) Dropped() uint64 {
	return c.blocks.Dropped()
}
