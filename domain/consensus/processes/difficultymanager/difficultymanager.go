package difficultymanager

import (
	"github.com/pkg/errors"
	"github.com/spreadcoin/spreadd/domain/chaincfg"
	"github.com/spreadcoin/spreadd/domain/consensus/model"
	"github.com/spreadcoin/spreadd/domain/consensus/model/externalapi"
	"github.com/spreadcoin/spreadd/domain/consensus/utils/arith"
)

// difficultyManager resolves the target a block must satisfy from the
// chain it extends
type difficultyManager struct {
	params *chaincfg.Params
}

// New instantiates a new DifficultyManager
func New(params *chaincfg.Params) model.DifficultyManager {
	return &difficultyManager{
		params: params,
	}
}

// NextTarget returns the compact target required from a block that extends
// tip and is timestamped candidateTime. A nil tip means the block is the
// genesis block.
//
// The target is the harmonic mean of the targets of the last
// RetargetInterval blocks, scaled by how long those blocks took to mine.
func (dm *difficultyManager) NextTarget(tip externalapi.ChainEntry, candidateTime int64) (uint32, error) {
	if tip == nil {
		return dm.params.PowLimitBits, nil
	}

	interval := dm.params.RetargetInterval()
	if tip.Height() <= interval+2 {
		return dm.params.PowLimitBits, nil
	}

	// Disabled retargeting keeps the tip's target even for late blocks.
	if dm.params.AllowMinDifficultyBlocks && !dm.params.NoRetargeting &&
		candidateTime > tip.Timestamp()+2*dm.params.TargetSpacingSeconds() {
		log.Debugf("Block at height %d is timestamped more than twice the target spacing after "+
			"its parent, allowing the minimum difficulty", tip.Height()+1)
		return dm.params.PowLimitBits, nil
	}

	accumulator := &arith.Uint512{}
	first := tip
	for i := uint32(0); i < interval; i++ {
		if first == nil {
			return 0, errors.Errorf("the chain view ends %d blocks below height %d, while "+
				"%d blocks are required", i, tip.Height(), interval)
		}
		bits := first.Bits()
		if bits&0x007fffff == 0 {
			return 0, errors.Errorf("block at height %d has a zero target %08x", first.Height(), bits)
		}
		var inverted arith.Uint512
		inverted.SetCompact(arith.InvertCompact(bits))
		accumulator.Add(&inverted)
		first = first.Parent()
	}
	if first == nil {
		return 0, errors.Errorf("the chain view ends before the first block of the "+
			"retarget window below height %d", tip.Height())
	}

	harmonicTarget := arith.NewUint512(uint64(interval)).Lsh(256).Div(accumulator).Trim256()
	return dm.CalculateNextWorkRequired(harmonicTarget, tip, first.Timestamp()), nil
}

// CalculateNextWorkRequired scales harmonicTarget by the time the retarget
// window actually took, bounded to a factor of 3 in either direction, and
// returns it in compact form. harmonicTarget is not modified.
func (dm *difficultyManager) CalculateNextWorkRequired(harmonicTarget *arith.Uint256,
	tip externalapi.ChainEntry, firstBlockTime int64) uint32 {

	if dm.params.NoRetargeting {
		return tip.Bits()
	}

	targetTimespan := dm.params.TargetTimespanSeconds()
	actualTimespan := tip.Timestamp() - firstBlockTime
	if actualTimespan < targetTimespan/3 {
		actualTimespan = targetTimespan / 3
	}
	if actualTimespan > targetTimespan*3 {
		actualTimespan = targetTimespan * 3
	}

	powLimit := arith.Uint256FromBig(dm.params.PowLimit)
	newTarget := (&arith.Uint256{}).Set(harmonicTarget)

	// The intermediate product can overflow 256 bits by one bit.
	shift := newTarget.Bits() > powLimit.Bits()-1
	if shift {
		newTarget.Rsh(1)
	}
	newTarget.MulUint64(uint64(actualTimespan))
	newTarget.DivUint64(uint64(targetTimespan))
	if shift {
		newTarget.Lsh(1)
	}

	if newTarget.Cmp(powLimit) > 0 {
		newTarget = powLimit
	}

	log.Tracef("Retarget at height %d: timespan %d, target %s", tip.Height()+1, actualTimespan, newTarget)
	return newTarget.Compact()
}
