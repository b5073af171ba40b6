package model

import "github.com/spreadcoin/spreadd/domain/consensus/model/externalapi"

// BlockHeaderStore represents a store of block headers that keeps track of
// the highest stored header
type BlockHeaderStore interface {
	Stage(header *externalapi.BlockHeader) *externalapi.DomainHash
	IsStaged() bool
	Discard()
	Commit(dbTx DBTransaction) error
	BlockHeader(dbContext DBReader, blockHash *externalapi.DomainHash) (*externalapi.BlockHeader, error)
	HasBlockHeader(dbContext DBReader, blockHash *externalapi.DomainHash) (bool, error)
	Tip(dbContext DBReader) (*externalapi.DomainHash, error)
	ChainView(dbContext DBReader, tipHash *externalapi.DomainHash, depth uint32) (*externalapi.HeaderNode, error)
	Count() uint64
}
