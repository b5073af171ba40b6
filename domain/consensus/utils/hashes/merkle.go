package hashes

import (
	"github.com/spreadcoin/spreadd/domain/consensus/model/externalapi"
)

// TransactionHash returns the double SHA-256 of a transaction's serialized
// bytes
func TransactionHash(tx *externalapi.DomainTransaction) *externalapi.DomainHash {
	return DoubleSHA256(tx.Serialized)
}

// MerkleRoot calculates the merkle root of the given transactions. A level
// with an odd number of nodes pairs its last node with itself. The merkle
// root of no transactions is the zero hash.
func MerkleRoot(transactions []*externalapi.DomainTransaction) *externalapi.DomainHash {
	if len(transactions) == 0 {
		return &externalapi.DomainHash{}
	}

	level := make([]*externalapi.DomainHash, len(transactions))
	for i, tx := range transactions {
		level[i] = TransactionHash(tx)
	}

	for len(level) > 1 {
		nextLevel := make([]*externalapi.DomainHash, 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			left := level[i]
			right := left
			if i+1 < len(level) {
				right = level[i+1]
			}
			writer := NewHashWriter()
			writer.InfallibleWrite(left[:])
			writer.InfallibleWrite(right[:])
			nextLevel = append(nextLevel, writer.Finalize())
		}
		level = nextLevel
	}
	return level[0]
}
