package arith

import (
	"math/big"

	"github.com/pkg/errors"
)

// The helpers below implement the arithmetic shared by Uint256 and Uint512.
// Every operation that can grow its operand reduces the result modulo
// 2^width, so overflow wraps around the same way a fixed-size machine
// integer does.

const (
	width256 = 256
	width512 = 512
)

var errDivisionByZero = errors.New("division by zero")

func truncate(value *big.Int, width uint) {
	if value.Sign() >= 0 && uint(value.BitLen()) <= width {
		return
	}
	mask := new(big.Int).Lsh(big.NewInt(1), width)
	mask.Sub(mask, big.NewInt(1))
	// big.Int.And uses two's complement semantics for negative values, which
	// is exactly the wrap-around we want after a subtraction underflow.
	value.And(value, mask)
}

func quo(value *big.Int, divisor *big.Int) {
	if divisor.Sign() == 0 {
		panic(errors.WithStack(errDivisionByZero))
	}
	value.Quo(value, divisor)
}

// setCompact decodes a compact target into value. The mantissa is the low
// 23 bits, bit 24 is the sign and the high byte is the exponent: the encoded
// value is mantissa * 256^(exponent-3).
//
// The negative and overflow flags are computed after a small exponent has
// already shifted the mantissa down.
func setCompact(value *big.Int, compact uint32, width uint) (isNegative bool, isOverflow bool) {
	size := compact >> 24
	word := compact & 0x007fffff
	if size <= 3 {
		word >>= 8 * (3 - size)
		value.SetUint64(uint64(word))
	} else {
		value.SetUint64(uint64(word))
		value.Lsh(value, uint(8*(size-3)))
		truncate(value, width)
	}
	isNegative = word != 0 && compact&0x00800000 != 0
	isOverflow = word != 0 && (size > 34 ||
		(word > 0xff && size > 33) ||
		(word > 0xffff && size > 32))
	return isNegative, isOverflow
}

// toCompact encodes value in compact form. Mantissa bits that do not fit in
// 3 bytes are truncated.
func toCompact(value *big.Int) uint32 {
	size := uint32((value.BitLen() + 7) / 8)
	var compact uint32
	if size <= 3 {
		compact = uint32(value.Uint64() << (8 * (3 - size)))
	} else {
		shifted := new(big.Int).Rsh(value, uint(8*(size-3)))
		compact = uint32(shifted.Uint64())
	}

	// The 0x00800000 bit denotes the sign. Thus, if it is already set,
	// divide the mantissa by 256 and increase the exponent.
	if compact&0x00800000 != 0 {
		compact >>= 8
		size++
	}
	compact |= size << 24
	return compact
}
