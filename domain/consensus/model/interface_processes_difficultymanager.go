package model

import (
	"github.com/spreadcoin/spreadd/domain/consensus/model/externalapi"
	"github.com/spreadcoin/spreadd/domain/consensus/utils/arith"
)

// DifficultyManager provides a method to resolve the
// difficulty value of a block
type DifficultyManager interface {
	NextTarget(tip externalapi.ChainEntry, candidateTime int64) (uint32, error)
	CalculateNextWorkRequired(harmonicTarget *arith.Uint256, tip externalapi.ChainEntry, firstBlockTime int64) uint32
}
