package blockvalidator

import (
	"github.com/pkg/errors"
	"github.com/spreadcoin/spreadd/domain/consensus/model/externalapi"
	"github.com/spreadcoin/spreadd/domain/consensus/ruleerrors"
	"github.com/spreadcoin/spreadd/domain/consensus/utils/hashes"
	"github.com/spreadcoin/spreadd/domain/consensus/utils/pok"
)

func (v *blockValidator) validateBodyInIsolation(block *externalapi.DomainBlock) error {
	err := checkBlockContainsAtLeastOneTransaction(block)
	if err != nil {
		return err
	}

	err = checkBlockHashMerkleRoot(block)
	if err != nil {
		return err
	}

	return v.checkWholeBlockHash(block)
}

func checkBlockContainsAtLeastOneTransaction(block *externalapi.DomainBlock) error {
	if len(block.Transactions) == 0 {
		return errors.Wrapf(ruleerrors.ErrNoTransactions, "block does not contain "+
			"any transactions")
	}
	return nil
}

func checkBlockHashMerkleRoot(block *externalapi.DomainBlock) error {
	calculatedHashMerkleRoot := hashes.MerkleRoot(block.Transactions)
	if !block.Header.MerkleRoot.Equal(calculatedHashMerkleRoot) {
		return errors.Wrapf(ruleerrors.ErrBadMerkleRoot, "block hash merkle root is invalid - block "+
			"header indicates %s, but calculated value is %s",
			block.Header.MerkleRoot, calculatedHashMerkleRoot)
	}
	return nil
}

// checkWholeBlockHash ensures the header commits to the whole block
func (v *blockValidator) checkWholeBlockHash(block *externalapi.DomainBlock) error {
	calculatedWholeBlockHash := pok.Hash(block, v.params)
	if !block.Header.WholeBlockHash.Equal(calculatedWholeBlockHash) {
		return errors.Wrapf(ruleerrors.ErrBadWholeBlockHash, "whole-block hash is invalid - block "+
			"header indicates %s, but calculated value is %s",
			block.Header.WholeBlockHash, calculatedWholeBlockHash)
	}
	return nil
}
