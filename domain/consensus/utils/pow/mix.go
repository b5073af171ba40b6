package pow

import (
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/spreadcoin/spreadd/domain/consensus/model/externalapi"
)

// TablePositions is the number of distinct table positions a height can
// map to.
const TablePositions = 64

// MixParams are the inputs a digest variant takes besides the header bytes.
// Fields the selected variant does not use are left zero.
type MixParams struct {
	A             uint8
	B             uint8
	TablePosition uint32
	PrevBlockKey  *externalapi.DomainHash
}

// NewMixParams collects the mixing inputs of algorithm from header
func NewMixParams(algorithm Algorithm, header *externalapi.BlockHeader) *MixParams {
	mix := &MixParams{}
	if algorithm.UsesSelector() {
		mix.A = header.Selector.A
		mix.B = header.Selector.B
	}
	if algorithm.UsesTablePosition() {
		mix.TablePosition = header.Height % TablePositions
	}
	if algorithm.UsesPrevBlockKey() {
		mix.PrevBlockKey = PrevBlockKey(&header.PrevBlockHash)
	}
	return mix
}

// PrevBlockKey derives the public key whose private key is the previous
// block hash, and returns its x-coordinate. The hash is reduced modulo the
// group order first. A hash that reduces to zero yields the zero key.
func PrevBlockKey(prevBlockHash *externalapi.DomainHash) *externalapi.DomainHash {
	var scalar secp256k1.ModNScalar
	scalar.SetByteSlice(prevBlockHash[:])

	var point secp256k1.JacobianPoint
	secp256k1.ScalarBaseMultNonConst(&scalar, &point)
	point.ToAffine()

	key := externalapi.DomainHash(*point.X.Bytes())
	return &key
}
