package blockvalidator

import (
	"sort"

	"github.com/pkg/errors"
	"github.com/spreadcoin/spreadd/domain/consensus/model/externalapi"
	"github.com/spreadcoin/spreadd/domain/consensus/ruleerrors"
)

// medianTimeBlocks is the number of previous blocks which should be
// used to calculate the median time used to validate block timestamps.
const medianTimeBlocks = 11

func (v *blockValidator) validateHeaderInContext(header *externalapi.BlockHeader,
	parent externalapi.ChainEntry) error {

	err := checkHeight(header, parent)
	if err != nil {
		return err
	}

	err = checkTimestamp(header, parent)
	if err != nil {
		return err
	}

	return v.checkDifficulty(header, parent)
}

func checkHeight(header *externalapi.BlockHeader, parent externalapi.ChainEntry) error {
	expectedHeight := uint32(0)
	if parent != nil {
		expectedHeight = parent.Height() + 1
	}
	if header.Height != expectedHeight {
		return errors.Wrapf(ruleerrors.ErrUnexpectedHeight, "block height of %d is not the "+
			"expected %d", header.Height, expectedHeight)
	}
	return nil
}

// checkTimestamp ensures the block is timestamped after the median time of
// the last medianTimeBlocks blocks
func checkTimestamp(header *externalapi.BlockHeader, parent externalapi.ChainEntry) error {
	if parent == nil {
		return nil
	}
	medianTime := pastMedianTime(parent)
	if header.BlockTime() <= medianTime {
		return errors.Wrapf(ruleerrors.ErrTimeTooOld, "block timestamp of %d is not after "+
			"expected %d", header.BlockTime(), medianTime)
	}
	return nil
}

func pastMedianTime(tip externalapi.ChainEntry) int64 {
	timestamps := make([]int64, 0, medianTimeBlocks)
	for entry := tip; entry != nil && len(timestamps) < medianTimeBlocks; entry = entry.Parent() {
		timestamps = append(timestamps, entry.Timestamp())
	}
	sort.Slice(timestamps, func(i, j int) bool { return timestamps[i] < timestamps[j] })
	return timestamps[len(timestamps)/2]
}

func (v *blockValidator) checkDifficulty(header *externalapi.BlockHeader, parent externalapi.ChainEntry) error {
	expectedBits, err := v.difficultyManager.NextTarget(parent, header.BlockTime())
	if err != nil {
		return err
	}
	if header.Bits != expectedBits {
		return errors.Wrapf(ruleerrors.ErrUnexpectedDifficulty, "block difficulty of %08x "+
			"is not the expected value of %08x", header.Bits, expectedBits)
	}
	return nil
}
