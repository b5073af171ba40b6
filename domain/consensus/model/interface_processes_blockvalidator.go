package model

import "github.com/spreadcoin/spreadd/domain/consensus/model/externalapi"

// BlockValidator exposes a set of validation functions for blocks and
// their headers
type BlockValidator interface {
	ValidateHeader(header *externalapi.BlockHeader, parent externalapi.ChainEntry) error
	ValidateBlock(block *externalapi.DomainBlock, parent externalapi.ChainEntry) error
}
