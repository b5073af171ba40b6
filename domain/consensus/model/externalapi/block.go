package externalapi

import (
	"encoding/hex"
	"fmt"
)

// MinerSignatureSize is the size of a compact recoverable miner signature:
// one header byte followed by the r and s components.
const MinerSignatureSize = 65

// MinerSignature is the signature a miner attaches to the header. It proves
// knowledge of the private key behind the block reward.
type MinerSignature [MinerSignatureSize]byte

// String returns the signature as a hexadecimal string
func (signature MinerSignature) String() string {
	return hex.EncodeToString(signature[:])
}

// SelectorBytes is the algorithm-selector record. A and B parametrize the
// proof-of-work digest of later hash generations, C is only used as the
// filler byte of the proof-of-knowledge buffer.
type SelectorBytes struct {
	A uint8
	B uint8
	C uint8
}

// IsNull returns whether the record is unset
func (selector SelectorBytes) IsNull() bool {
	return selector.A == 0
}

// String returns a human readable representation of the record
func (selector SelectorBytes) String() string {
	return fmt.Sprintf("SelectorBytes(A=%d, B=%d, C=%d)", selector.A, selector.B, selector.C)
}

// BlockHeader represents the header part of a block
type BlockHeader struct {
	Version        int32
	PrevBlockHash  DomainHash
	MerkleRoot     DomainHash
	Time           uint64
	Bits           uint32
	Height         uint32
	Nonce          uint32
	WholeBlockHash DomainHash
	MinerSignature MinerSignature
	Selector       SelectorBytes
}

// Clone returns a clone of BlockHeader
func (header *BlockHeader) Clone() *BlockHeader {
	clone := *header
	return &clone
}

// If this doesn't compile, it means the type definition has been changed, so it's
// an indication to update Equal and Clone accordingly.
var _ = BlockHeader{0, DomainHash{}, DomainHash{}, 0, 0, 0, 0, DomainHash{}, MinerSignature{}, SelectorBytes{}}

// Equal returns whether header equals to other
func (header *BlockHeader) Equal(other *BlockHeader) bool {
	if header == nil || other == nil {
		return header == other
	}
	return *header == *other
}

// IsNull returns whether the header was never filled in
func (header *BlockHeader) IsNull() bool {
	return header.Bits == 0
}

// BlockTime returns the header time as a signed unix timestamp
func (header *BlockHeader) BlockTime() int64 {
	return int64(header.Time)
}

// DomainTransaction is a transaction as seen by the consensus core: its
// serialized bytes and nothing more.
type DomainTransaction struct {
	Serialized []byte
}

// Clone returns a clone of DomainTransaction
func (tx *DomainTransaction) Clone() *DomainTransaction {
	serializedClone := make([]byte, len(tx.Serialized))
	copy(serializedClone, tx.Serialized)
	return &DomainTransaction{Serialized: serializedClone}
}

// Equal returns whether tx equals to other
func (tx *DomainTransaction) Equal(other *DomainTransaction) bool {
	if tx == nil || other == nil {
		return tx == other
	}
	return string(tx.Serialized) == string(other.Serialized)
}

// DomainBlock represents a block: a header, its transactions and a
// caller-managed flag memoizing a successful validation. The flag is not
// part of the wire format.
type DomainBlock struct {
	Header       BlockHeader
	Transactions []*DomainTransaction
	Validated    bool
}

// Clone returns a clone of DomainBlock
func (block *DomainBlock) Clone() *DomainBlock {
	transactionClone := make([]*DomainTransaction, len(block.Transactions))
	for i, tx := range block.Transactions {
		transactionClone[i] = tx.Clone()
	}

	return &DomainBlock{
		Header:       block.Header,
		Transactions: transactionClone,
		Validated:    block.Validated,
	}
}

// Equal returns whether block equals to other. The Validated flag is ignored.
func (block *DomainBlock) Equal(other *DomainBlock) bool {
	if block == nil || other == nil {
		return block == other
	}

	if len(block.Transactions) != len(other.Transactions) {
		return false
	}

	if !block.Header.Equal(&other.Header) {
		return false
	}

	for i, tx := range block.Transactions {
		if !tx.Equal(other.Transactions[i]) {
			return false
		}
	}

	return true
}
