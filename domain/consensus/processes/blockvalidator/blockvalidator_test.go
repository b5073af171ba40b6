package blockvalidator_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/spreadcoin/spreadd/domain/chaincfg"
	"github.com/spreadcoin/spreadd/domain/consensus/model"
	"github.com/spreadcoin/spreadd/domain/consensus/model/externalapi"
	"github.com/spreadcoin/spreadd/domain/consensus/processes/blockvalidator"
	"github.com/spreadcoin/spreadd/domain/consensus/processes/difficultymanager"
	"github.com/spreadcoin/spreadd/domain/consensus/ruleerrors"
	"github.com/spreadcoin/spreadd/domain/consensus/utils/powhash"
	"github.com/spreadcoin/spreadd/domain/miningmanager"
	"github.com/spreadcoin/spreadd/domain/miningmanager/blocktemplatebuilder"
)

type testContext struct {
	t             *testing.T
	params        *chaincfg.Params
	miningManager miningmanager.MiningManager
	validator     model.BlockValidator
}

func newTestContext(t *testing.T) *testContext {
	params := &chaincfg.RegtestParams
	family := powhash.New()
	privateKey := make([]byte, 32)
	privateKey[0] = 0x42

	miningManager, err := miningmanager.NewFactory().NewMiningManager(params, family, privateKey, nil)
	if err != nil {
		t.Fatalf("NewMiningManager: %+v", err)
	}
	return &testContext{
		t:             t,
		params:        params,
		miningManager: miningManager,
		validator:     blockvalidator.New(params, difficultymanager.New(params), family),
	}
}

func (tc *testContext) genesis() *externalapi.HeaderNode {
	return externalapi.NewHeaderNode(tc.params.GenesisHeader, nil)
}

// mineBlock builds a template on tip, lets mutate change it and solves it
func (tc *testContext) mineBlock(tip *externalapi.HeaderNode,
	mutate func(block *externalapi.DomainBlock)) *externalapi.DomainBlock {

	transactions := []*externalapi.DomainTransaction{
		blocktemplatebuilder.NewCoinbaseTransaction(tip.Height()+1, []byte{0xde, 0xad}),
		{Serialized: []byte{0xbe, 0xef}},
	}
	block, err := tc.miningManager.GetBlockTemplate(tip, transactions, tip.Timestamp()+60)
	if err != nil {
		tc.t.Fatalf("GetBlockTemplate: %+v", err)
	}
	if mutate != nil {
		mutate(block)
	}
	err = tc.miningManager.SolveBlock(context.Background(), block)
	if err != nil {
		tc.t.Fatalf("SolveBlock: %+v", err)
	}
	return block
}

// chain mines length blocks on top of the genesis block
func (tc *testContext) chain(length int) *externalapi.HeaderNode {
	tip := tc.genesis()
	for i := 0; i < length; i++ {
		block := tc.mineBlock(tip, nil)
		err := tc.validator.ValidateBlock(block, tip)
		if err != nil {
			tc.t.Fatalf("ValidateBlock at height %d: %+v", block.Header.Height, err)
		}
		tip = externalapi.NewHeaderNode(&block.Header, tip)
	}
	return tip
}

func TestValidateBlockAcrossForks(t *testing.T) {
	tc := newTestContext(t)
	tip := tc.genesis()
	for height := uint32(1); height <= tc.params.PrevKeyForkHeight+2; height++ {
		block := tc.mineBlock(tip, nil)
		err := tc.validator.ValidateBlock(block, tip)
		if err != nil {
			t.Fatalf("ValidateBlock at height %d: %+v", height, err)
		}
		if !block.Validated {
			t.Fatalf("block at height %d was not marked as validated", height)
		}
		tip = externalapi.NewHeaderNode(&block.Header, tip)
	}
}

func TestValidateHeaderErrors(t *testing.T) {
	tc := newTestContext(t)
	genesis := tc.genesis()
	beforeFork := tc.chain(int(tc.params.SelectorForkHeight) - 1)

	tests := []struct {
		name          string
		parent        *externalapi.HeaderNode
		block         func() *externalapi.DomainBlock
		expectedError error
	}{
		{
			name:   "unexpected height",
			parent: genesis,
			block: func() *externalapi.DomainBlock {
				return tc.mineBlock(genesis, func(block *externalapi.DomainBlock) { block.Header.Height++ })
			},
			expectedError: ruleerrors.ErrUnexpectedHeight,
		},
		{
			name:   "unexpected difficulty",
			parent: genesis,
			block: func() *externalapi.DomainBlock {
				return tc.mineBlock(genesis, func(block *externalapi.DomainBlock) { block.Header.Bits = 0x207ffffe })
			},
			expectedError: ruleerrors.ErrUnexpectedDifficulty,
		},
		{
			name:   "time too old",
			parent: genesis,
			block: func() *externalapi.DomainBlock {
				return tc.mineBlock(genesis, func(block *externalapi.DomainBlock) {
					block.Header.Time = genesis.Header().Time
				})
			},
			expectedError: ruleerrors.ErrTimeTooOld,
		},
		{
			name:   "target too high",
			parent: genesis,
			block: func() *externalapi.DomainBlock {
				block := tc.mineBlock(genesis, nil)
				block.Header.Bits = 0x2100ffff
				return block
			},
			expectedError: ruleerrors.ErrTargetTooHigh,
		},
		{
			name:   "negative target",
			parent: genesis,
			block: func() *externalapi.DomainBlock {
				block := tc.mineBlock(genesis, nil)
				block.Header.Bits = 0x01803456
				return block
			},
			expectedError: ruleerrors.ErrNegativeTarget,
		},
		{
			name:   "high hash",
			parent: genesis,
			block: func() *externalapi.DomainBlock {
				block := tc.mineBlock(genesis, nil)
				block.Header.Bits = 0x03000001
				return block
			},
			expectedError: ruleerrors.ErrHighHash,
		},
		{
			name:   "bad miner signature",
			parent: genesis,
			block: func() *externalapi.DomainBlock {
				block := tc.mineBlock(genesis, nil)
				block.Header.MinerSignature[0] = 0
				return block
			},
			expectedError: ruleerrors.ErrBadMinerSignature,
		},
		{
			name:   "selector before the fork",
			parent: genesis,
			block: func() *externalapi.DomainBlock {
				return tc.mineBlock(genesis, func(block *externalapi.DomainBlock) { block.Header.Selector.A = 5 })
			},
			expectedError: ruleerrors.ErrUnexpectedAlgorithmSelector,
		},
		{
			name:   "missing selector after the fork",
			parent: beforeFork,
			block: func() *externalapi.DomainBlock {
				return tc.mineBlock(beforeFork, func(block *externalapi.DomainBlock) {
					block.Header.Selector = externalapi.SelectorBytes{}
				})
			},
			expectedError: ruleerrors.ErrUnexpectedAlgorithmSelector,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			block := test.block()
			err := tc.validator.ValidateHeader(&block.Header, test.parent)
			if !errors.Is(err, test.expectedError) {
				t.Fatalf("ValidateHeader: expected %s, got %+v", test.expectedError, err)
			}
		})
	}
}

func TestValidateBlockBodyErrors(t *testing.T) {
	tc := newTestContext(t)
	genesis := tc.genesis()

	tests := []struct {
		name          string
		corrupt       func(block *externalapi.DomainBlock)
		expectedError error
	}{
		{
			name:          "no transactions",
			corrupt:       func(block *externalapi.DomainBlock) { block.Transactions = nil },
			expectedError: ruleerrors.ErrNoTransactions,
		},
		{
			name: "bad merkle root",
			corrupt: func(block *externalapi.DomainBlock) {
				block.Transactions[0], block.Transactions[1] = block.Transactions[1], block.Transactions[0]
			},
			expectedError: ruleerrors.ErrBadMerkleRoot,
		},
		{
			name:          "bad whole-block hash",
			corrupt:       func(block *externalapi.DomainBlock) { block.Header.WholeBlockHash[0] ^= 1 },
			expectedError: ruleerrors.ErrBadWholeBlockHash,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			block := tc.mineBlock(genesis, nil)
			test.corrupt(block)
			err := tc.validator.ValidateBlock(block, genesis)
			if !errors.Is(err, test.expectedError) {
				t.Fatalf("ValidateBlock: expected %s, got %+v", test.expectedError, err)
			}
			if block.Validated {
				t.Fatalf("an invalid block was marked as validated")
			}
		})
	}
}

func TestValidateBlockSkipsValidatedBlocks(t *testing.T) {
	tc := newTestContext(t)
	genesis := tc.genesis()

	block := tc.mineBlock(genesis, nil)
	block.Header.WholeBlockHash = externalapi.DomainHash{}
	block.Validated = true
	err := tc.validator.ValidateBlock(block, genesis)
	if err != nil {
		t.Fatalf("ValidateBlock of a block marked as validated: %+v", err)
	}
}
