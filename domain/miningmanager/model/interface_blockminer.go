package model

import (
	"context"

	"github.com/spreadcoin/spreadd/domain/consensus/model/externalapi"
)

// BlockMiner solves block templates: it finds a nonce satisfying the
// proof of work, signs the header and commits to the whole block
type BlockMiner interface {
	SolveBlock(ctx context.Context, block *externalapi.DomainBlock) error
}
