package arith

import (
	"fmt"
	"math/big"
)

// Uint512 is an unsigned 512 bit integer with wrap-around semantics. It is
// wide enough to accumulate inverted 256 bit targets and to divide a value
// shifted left by 256 bits without overflowing.
// The zero value is ready to use and holds zero.
type Uint512 struct {
	value big.Int
}

// NewUint512 returns a Uint512 holding v
func NewUint512(v uint64) *Uint512 {
	u := &Uint512{}
	u.value.SetUint64(v)
	return u
}

// SetCompact sets u to the decoded compact value
func (u *Uint512) SetCompact(compact uint32) (isNegative bool, isOverflow bool) {
	return setCompact(&u.value, compact, width512)
}

// Compact returns the compact encoding of u
func (u *Uint512) Compact() uint32 {
	return toCompact(&u.value)
}

// Add sets u to u+other and returns u
func (u *Uint512) Add(other *Uint512) *Uint512 {
	u.value.Add(&u.value, &other.value)
	truncate(&u.value, width512)
	return u
}

// Lsh sets u to u<<shift and returns u
func (u *Uint512) Lsh(shift uint) *Uint512 {
	u.value.Lsh(&u.value, shift)
	truncate(&u.value, width512)
	return u
}

// Rsh sets u to u>>shift and returns u
func (u *Uint512) Rsh(shift uint) *Uint512 {
	u.value.Rsh(&u.value, shift)
	return u
}

// Div sets u to u/other and returns u. It panics if other is zero.
func (u *Uint512) Div(other *Uint512) *Uint512 {
	quo(&u.value, &other.value)
	return u
}

// Cmp compares u and other and returns -1, 0 or +1
func (u *Uint512) Cmp(other *Uint512) int {
	return u.value.Cmp(&other.value)
}

// Bits returns the position of the highest set bit plus one
func (u *Uint512) Bits() uint {
	return uint(u.value.BitLen())
}

// IsZero returns whether u is zero
func (u *Uint512) IsZero() bool {
	return u.value.Sign() == 0
}

// Trim256 returns the low 256 bits of u
func (u *Uint512) Trim256() *Uint256 {
	return Uint256FromBig(&u.value)
}

// String returns u as a zero padded hexadecimal string
func (u *Uint512) String() string {
	return fmt.Sprintf("%0128x", &u.value)
}
