package chaincfg

import (
	"github.com/spreadcoin/spreadd/domain/consensus/model/externalapi"
)

// genesisMerkleRoot is the merkle root of the genesis coinbase. The genesis
// block is hardcoded and never validated, so it is shared by all networks.
var genesisMerkleRoot = externalapi.DomainHash{
	0x8a, 0x2c, 0x1f, 0x6e, 0x03, 0x91, 0xd4, 0x57,
	0xb2, 0x0e, 0x6d, 0x9a, 0x41, 0xc3, 0x78, 0x15,
	0xe9, 0x62, 0x0b, 0xf4, 0x27, 0x5d, 0xa0, 0x33,
	0xcc, 0x86, 0x19, 0x4e, 0x7b, 0xd2, 0x05, 0x6f,
}

var mainnetGenesisHeader = externalapi.BlockHeader{
	Version:    1,
	MerkleRoot: genesisMerkleRoot,
	Time:       1397768193,
	Bits:       0x1e0fffff,
	Height:     0,
	Nonce:      0,
}

var testnetGenesisHeader = externalapi.BlockHeader{
	Version:    1,
	MerkleRoot: genesisMerkleRoot,
	Time:       1397768193,
	Bits:       0x1f00ffff,
	Height:     0,
	Nonce:      0,
}

var regtestGenesisHeader = externalapi.BlockHeader{
	Version:    1,
	MerkleRoot: genesisMerkleRoot,
	Time:       1397768193,
	Bits:       0x207fffff,
	Height:     0,
	Nonce:      0,
}
