package hashes

import (
	"math/big"

	"github.com/spreadcoin/spreadd/domain/consensus/model/externalapi"
)

// ToBig converts a hash into a big.Int treated as a little endian
// unsigned number.
func ToBig(hash *externalapi.DomainHash) *big.Int {
	// A Hash is in little-endian, but the big package wants the bytes in
	// big-endian, so reverse them.
	buf := *hash
	blen := len(buf)
	for i := 0; i < blen/2; i++ {
		buf[i], buf[blen-1-i] = buf[blen-1-i], buf[i]
	}

	return new(big.Int).SetBytes(buf[:])
}
