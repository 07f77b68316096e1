// SPDX-License-Identifier: MIT
/*
Package bitint provides the power-of-2 helpers used to size transforms and
buffers.

Design Principles:
  - Zero Allocations: All operations use stack memory only
  - Predictable Performance: O(1) constant time operations
  - Real-Time Safe: No locks, syscalls, or blocking operations

Usage:

	// Round a requested FFT size up to a supported transform
	size := bitint.NextPowerOfTwo(3000) // Returns 4096

	// Verify FFT window size is valid
	isValid := bitint.IsPowerOfTwo(windowSize)

	// Transform order for a power-of-2 size
	order := bitint.Log2(4096) // Returns 12

NextPowerOfTwo subtracts 1 before taking the bit length so that exact powers
of 2 are preserved: for 8, bits.Len(7) = 3 and 1<<3 = 8, whereas bits.Len(8)
would give 4 and double the input.
*/
package bitint

import "math/bits"

// NextPowerOfTwo returns the next power of 2 >= size.
//
// Examples:
//
//	Input  Output  Explanation
//	4      4      Already power of 2 (preserved)
//	5      8      Next power after 5
//	0      1      Handle zero case
//	-1     1      Handle negative case
func NextPowerOfTwo(size int) int {
	if size <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(size-1))
}

// IsPowerOfTwo reports whether n is a positive power of 2.
//
// Examples:
//
//	Input  Output  Binary
//	8      true    1000 & 0111 = 0000
//	7      false   0111 & 0110 = 0110
//	0      false   Not positive
//	-8     false   Not positive
func IsPowerOfTwo(n int) bool {
	return n > 0 && (n&(n-1)) == 0
}

// Log2 returns the position of the highest set bit of n, which is the exact
// base-2 logarithm for powers of 2. It returns -1 for n <= 0.
func Log2(n int) int {
	if n <= 0 {
		return -1
	}
	return bits.Len(uint(n)) - 1
}
