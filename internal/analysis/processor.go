// SPDX-License-Identifier: MIT
package analysis

import (
	"errors"
	"fmt"

	"eqscope/pkg/bitint"
)

// BlockSource is the per-channel sample buffer filled by the real-time
// producer. The analyzer only ever pulls from it on the UI tick.
type BlockSource interface {
	// NumCompleteBlocksAvailable reports how many full blocks can be pulled.
	NumCompleteBlocksAvailable() int
	// PullBlock copies the oldest complete block into dst and reports true,
	// or reports false and leaves dst untouched when none is buffered.
	PullBlock(dst *[]float32) bool
}

// Configuration errors returned by the constructors in this package.
var (
	ErrInvalidOrder  = errors.New("analysis: fft order must be 11, 12 or 13")
	ErrInvalidStride = errors.New("analysis: path stride must be at least 1")
	ErrInvalidFloor  = errors.New("analysis: decibel floor must be negative")
)

// Order is the log2 of the transform size.
type Order int

// Supported transform sizes.
const (
	Order2048 Order = 11
	Order4096 Order = 12
	Order8192 Order = 13
)

// DefaultOrder is the transform size used when none is configured.
const DefaultOrder = Order2048

// Size returns the number of samples in one transform window.
func (o Order) Size() int { return 1 << o }

// Validate reports ErrInvalidOrder for unsupported orders.
func (o Order) Validate() error {
	switch o {
	case Order2048, Order4096, Order8192:
		return nil
	}
	return fmt.Errorf("%w, got %d", ErrInvalidOrder, int(o))
}

// OrderForSize converts a transform size (2048, 4096 or 8192) to its order.
func OrderForSize(size int) (Order, error) {
	if !bitint.IsPowerOfTwo(size) {
		return 0, fmt.Errorf("%w: size %d is not a power of two", ErrInvalidOrder, size)
	}
	o := Order(bitint.Log2(size))
	if err := o.Validate(); err != nil {
		return 0, err
	}
	return o, nil
}
