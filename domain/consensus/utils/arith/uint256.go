package arith

import (
	"fmt"
	"math/big"
)

// Uint256 is an unsigned 256 bit integer with wrap-around semantics.
// The zero value is ready to use and holds zero.
type Uint256 struct {
	value big.Int
}

// NewUint256 returns a Uint256 holding v
func NewUint256(v uint64) *Uint256 {
	u := &Uint256{}
	u.value.SetUint64(v)
	return u
}

// Uint256FromBig returns a Uint256 holding v reduced modulo 2^256
func Uint256FromBig(v *big.Int) *Uint256 {
	u := &Uint256{}
	u.value.Set(v)
	truncate(&u.value, width256)
	return u
}

// Uint256FromCompact decodes a compact target and reports whether the
// encoding was negative or overflowed
func Uint256FromCompact(compact uint32) (u *Uint256, isNegative bool, isOverflow bool) {
	u = &Uint256{}
	isNegative, isOverflow = u.SetCompact(compact)
	return u, isNegative, isOverflow
}

// Big returns a copy of the value as a big.Int
func (u *Uint256) Big() *big.Int {
	return new(big.Int).Set(&u.value)
}

// Set sets u to other and returns u
func (u *Uint256) Set(other *Uint256) *Uint256 {
	u.value.Set(&other.value)
	return u
}

// SetCompact sets u to the decoded compact value
func (u *Uint256) SetCompact(compact uint32) (isNegative bool, isOverflow bool) {
	return setCompact(&u.value, compact, width256)
}

// Compact returns the compact encoding of u
func (u *Uint256) Compact() uint32 {
	return toCompact(&u.value)
}

// Add sets u to u+other and returns u
func (u *Uint256) Add(other *Uint256) *Uint256 {
	u.value.Add(&u.value, &other.value)
	truncate(&u.value, width256)
	return u
}

// Sub sets u to u-other and returns u
func (u *Uint256) Sub(other *Uint256) *Uint256 {
	u.value.Sub(&u.value, &other.value)
	truncate(&u.value, width256)
	return u
}

// Lsh sets u to u<<shift and returns u
func (u *Uint256) Lsh(shift uint) *Uint256 {
	u.value.Lsh(&u.value, shift)
	truncate(&u.value, width256)
	return u
}

// Rsh sets u to u>>shift and returns u
func (u *Uint256) Rsh(shift uint) *Uint256 {
	u.value.Rsh(&u.value, shift)
	return u
}

// MulUint64 sets u to u*v and returns u
func (u *Uint256) MulUint64(v uint64) *Uint256 {
	u.value.Mul(&u.value, new(big.Int).SetUint64(v))
	truncate(&u.value, width256)
	return u
}

// DivUint64 sets u to u/v and returns u. It panics if v is zero.
func (u *Uint256) DivUint64(v uint64) *Uint256 {
	quo(&u.value, new(big.Int).SetUint64(v))
	return u
}

// Div sets u to u/other and returns u. It panics if other is zero.
func (u *Uint256) Div(other *Uint256) *Uint256 {
	quo(&u.value, &other.value)
	return u
}

// Cmp compares u and other and returns -1, 0 or +1
func (u *Uint256) Cmp(other *Uint256) int {
	return u.value.Cmp(&other.value)
}

// Bits returns the position of the highest set bit plus one, or zero if u
// is zero
func (u *Uint256) Bits() uint {
	return uint(u.value.BitLen())
}

// IsZero returns whether u is zero
func (u *Uint256) IsZero() bool {
	return u.value.Sign() == 0
}

// String returns u as a zero padded hexadecimal string
func (u *Uint256) String() string {
	return fmt.Sprintf("%064x", &u.value)
}

// BigToCompact converts a non-negative big integer to its compact form,
// truncating it to 256 bits first
func BigToCompact(v *big.Int) uint32 {
	return Uint256FromBig(v).Compact()
}

// CompactToBig decodes a compact value to a big integer, ignoring the
// negative and overflow flags
func CompactToBig(compact uint32) *big.Int {
	u, _, _ := Uint256FromCompact(compact)
	return u.Big()
}
