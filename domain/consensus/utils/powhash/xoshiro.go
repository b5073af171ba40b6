package powhash

import (
	"encoding/binary"
	"math/bits"
)

// xoShiRo256PlusPlus drives the table-position rounds of the later digest
// generations.
type xoShiRo256PlusPlus struct {
	s0 uint64
	s1 uint64
	s2 uint64
	s3 uint64
}

func newxoShiRo256PlusPlus(seed *[32]byte) *xoShiRo256PlusPlus {
	return &xoShiRo256PlusPlus{
		s0: binary.LittleEndian.Uint64(seed[:8]),
		s1: binary.LittleEndian.Uint64(seed[8:16]),
		s2: binary.LittleEndian.Uint64(seed[16:24]),
		s3: binary.LittleEndian.Uint64(seed[24:32]),
	}
}

func (x *xoShiRo256PlusPlus) Uint64() uint64 {
	res := bits.RotateLeft64(x.s0+x.s3, 23) + x.s0
	t := x.s1 << 17
	x.s2 ^= x.s0
	x.s3 ^= x.s1
	x.s1 ^= x.s2
	x.s0 ^= x.s3

	x.s2 ^= t
	x.s3 = bits.RotateLeft64(x.s3, 45)
	return res
}

// mixRounds runs rounds+1 generator steps seeded by digest and folds the
// outputs back into it.
func mixRounds(digest *[32]byte, rounds uint32) {
	generator := newxoShiRo256PlusPlus(digest)
	var words [4]uint64
	for i := uint32(0); i <= rounds; i++ {
		words[i%4] ^= generator.Uint64()
	}
	for i, word := range words {
		offset := i * 8
		binary.LittleEndian.PutUint64(digest[offset:offset+8],
			binary.LittleEndian.Uint64(digest[offset:offset+8])^word)
	}
}
