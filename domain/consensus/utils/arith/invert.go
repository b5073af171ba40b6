package arith

import "github.com/pkg/errors"

// InvertCompact returns a compact approximation of 2^256 divided by the
// target encoded in compact. The mantissa of the result comes from a 64 bit
// division which is then renormalized into 3 bytes.
//
// Summing the results over a window approximates the sum of difficulties,
// so the result is not the exact inverse, only an approximation that every
// node computes identically.
func InvertCompact(compact uint32) uint32 {
	size := uint8(compact >> 24)
	word := compact & 0x007fffff
	if word == 0 {
		panic(errors.Errorf("cannot invert compact target %08x with a zero mantissa", compact))
	}

	// Exponent arithmetic is done on a single byte and wraps like one.
	invertedSize := 33 - size
	invertedWord := uint64(0x10000000000) / uint64(word)
	for invertedWord >= 0x800000 {
		invertedWord >>= 8
		invertedSize++
	}
	return uint32(invertedSize)<<24 | uint32(invertedWord)
}
