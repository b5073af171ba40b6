package miningmanager

import (
	"context"

	"github.com/pkg/errors"
	"github.com/spreadcoin/spreadd/domain/consensus/model/externalapi"
	"github.com/spreadcoin/spreadd/domain/miningmanager/blockminer"
	miningmanagermodel "github.com/spreadcoin/spreadd/domain/miningmanager/model"
)

// MiningManager creates block templates and solves them
type MiningManager interface {
	GetBlockTemplate(parent *externalapi.HeaderNode, transactions []*externalapi.DomainTransaction,
		timestamp int64) (*externalapi.DomainBlock, error)
	SolveBlock(ctx context.Context, block *externalapi.DomainBlock) error
	MineBlock(ctx context.Context, parent *externalapi.HeaderNode, transactions []*externalapi.DomainTransaction,
		timestamp int64) (*externalapi.DomainBlock, error)
}

type miningManager struct {
	blockTemplateBuilder miningmanagermodel.BlockTemplateBuilder
	blockMiner           miningmanagermodel.BlockMiner
}

// GetBlockTemplate creates a block template for a miner to consume
func (mm *miningManager) GetBlockTemplate(parent *externalapi.HeaderNode,
	transactions []*externalapi.DomainTransaction, timestamp int64) (*externalapi.DomainBlock, error) {

	return mm.blockTemplateBuilder.GetBlockTemplate(parent, transactions, timestamp)
}

// SolveBlock solves the given block template in place
func (mm *miningManager) SolveBlock(ctx context.Context, block *externalapi.DomainBlock) error {
	return mm.blockMiner.SolveBlock(ctx, block)
}

// MineBlock builds a template on top of parent and solves it. When the
// nonce space of a template is exhausted, a new one is built one second
// later.
func (mm *miningManager) MineBlock(ctx context.Context, parent *externalapi.HeaderNode,
	transactions []*externalapi.DomainTransaction, timestamp int64) (*externalapi.DomainBlock, error) {

	for {
		block, err := mm.blockTemplateBuilder.GetBlockTemplate(parent, transactions, timestamp)
		if err != nil {
			return nil, err
		}
		err = mm.blockMiner.SolveBlock(ctx, block)
		if err == nil {
			return block, nil
		}
		if !errors.Is(err, blockminer.ErrNonceSpaceExhausted) {
			return nil, err
		}
		log.Debugf("Nonce space of the template at height %d exhausted, rebuilding", block.Header.Height)
		timestamp = block.Header.BlockTime() + 1
	}
}
