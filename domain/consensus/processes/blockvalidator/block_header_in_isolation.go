package blockvalidator

import (
	"github.com/pkg/errors"
	"github.com/spreadcoin/spreadd/domain/consensus/model/externalapi"
	"github.com/spreadcoin/spreadd/domain/consensus/ruleerrors"
	"github.com/spreadcoin/spreadd/domain/consensus/utils/arith"
	"github.com/spreadcoin/spreadd/domain/consensus/utils/hashes"
	"github.com/spreadcoin/spreadd/domain/consensus/utils/minerkey"
	"github.com/spreadcoin/spreadd/domain/consensus/utils/pow"
)

func (v *blockValidator) validateHeaderInIsolation(header *externalapi.BlockHeader) error {
	err := v.checkSelector(header)
	if err != nil {
		return err
	}

	err = v.checkProofOfWork(header)
	if err != nil {
		return err
	}

	return checkMinerSignature(header)
}

// checkSelector ensures the selector record is set exactly from the
// selector fork on
func (v *blockValidator) checkSelector(header *externalapi.BlockHeader) error {
	if header.Height < v.params.SelectorForkHeight {
		if header.Selector != (externalapi.SelectorBytes{}) {
			return errors.Wrapf(ruleerrors.ErrUnexpectedAlgorithmSelector, "block at height %d "+
				"carries %s before the selector fork at height %d",
				header.Height, header.Selector, v.params.SelectorForkHeight)
		}
		return nil
	}

	if header.Selector.IsNull() {
		return errors.Wrapf(ruleerrors.ErrUnexpectedAlgorithmSelector, "block at height %d "+
			"has no selector", header.Height)
	}
	return nil
}

func (v *blockValidator) checkProofOfWork(header *externalapi.BlockHeader) error {
	// The target difficulty must be larger than zero.
	var target arith.Uint256
	isNegative, isOverflow := target.SetCompact(header.Bits)
	if isNegative || isOverflow || target.IsZero() {
		return errors.Wrapf(ruleerrors.ErrNegativeTarget, "block bits %08x do not decode "+
			"to a positive target", header.Bits)
	}

	// The target difficulty must be less than the maximum allowed.
	targetBig := target.Big()
	if targetBig.Cmp(v.params.PowLimit) > 0 {
		return errors.Wrapf(ruleerrors.ErrTargetTooHigh, "block target difficulty of %064x is "+
			"higher than max of %064x", targetBig, v.params.PowLimit)
	}

	// The block hash must be less than the claimed target.
	hash := pow.PowHash(header, v.hashFamily, v.params)
	if !pow.CheckProofOfWorkWithTarget(hash, targetBig) {
		return errors.Wrapf(ruleerrors.ErrHighHash, "block hash of %064x is higher than "+
			"expected max of %064x", hashes.ToBig(hash), targetBig)
	}

	return nil
}

func checkMinerSignature(header *externalapi.BlockHeader) error {
	_, err := minerkey.RecoverRewardKey(header)
	if err != nil {
		return errors.Wrapf(ruleerrors.ErrBadMinerSignature, "%s", err)
	}
	return nil
}
