package blockvalidator

import (
	"github.com/spreadcoin/spreadd/domain/chaincfg"
	"github.com/spreadcoin/spreadd/domain/consensus/model"
	"github.com/spreadcoin/spreadd/domain/consensus/model/externalapi"
	"github.com/spreadcoin/spreadd/domain/consensus/utils/pow"
)

// blockValidator exposes a set of validation classes, after which
// it's possible to determine whether either a block is valid
type blockValidator struct {
	params            *chaincfg.Params
	difficultyManager model.DifficultyManager
	hashFamily        pow.HashFamily
}

// New instantiates a new BlockValidator
func New(params *chaincfg.Params, difficultyManager model.DifficultyManager,
	hashFamily pow.HashFamily) model.BlockValidator {

	return &blockValidator{
		params:            params,
		difficultyManager: difficultyManager,
		hashFamily:        hashFamily,
	}
}

// ValidateHeader validates header as the child of parent. A nil parent
// means header is the genesis header.
func (v *blockValidator) ValidateHeader(header *externalapi.BlockHeader, parent externalapi.ChainEntry) error {
	err := v.validateHeaderInIsolation(header)
	if err != nil {
		return err
	}
	return v.validateHeaderInContext(header, parent)
}

// ValidateBlock validates the header and the body of block. A block whose
// Validated flag is set is accepted as is, and the flag is set once a
// block passes.
func (v *blockValidator) ValidateBlock(block *externalapi.DomainBlock, parent externalapi.ChainEntry) error {
	if block.Validated {
		return nil
	}

	err := v.ValidateHeader(&block.Header, parent)
	if err != nil {
		return err
	}
	err = v.validateBodyInIsolation(block)
	if err != nil {
		return err
	}

	block.Validated = true
	return nil
}
