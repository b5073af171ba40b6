package main

import (
	"context"
	"time"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/pkg/errors"
	"github.com/spreadcoin/spreadd/domain/chaincfg"
	"github.com/spreadcoin/spreadd/domain/consensus/model"
	"github.com/spreadcoin/spreadd/domain/consensus/model/externalapi"
	"github.com/spreadcoin/spreadd/domain/consensus/utils/minerkey"
	"github.com/spreadcoin/spreadd/domain/miningmanager"
	"github.com/spreadcoin/spreadd/domain/miningmanager/blocktemplatebuilder"
	"github.com/spreadcoin/spreadd/infrastructure/db/database/ldb"
)

// miner mines blocks on top of the highest stored header and stores every
// block it solves
type miner struct {
	params        *chaincfg.Params
	db            *ldb.LevelDB
	headerStore   model.BlockHeaderStore
	miningManager miningmanager.MiningManager
	validator     model.BlockValidator
	publicKeyHash []byte
}

// newMiner returns a miner whose coinbases pay to miningAddr, or to the
// address of privateKey if miningAddr is empty
func newMiner(params *chaincfg.Params, db *ldb.LevelDB, headerStore model.BlockHeaderStore,
	miningManager miningmanager.MiningManager, validator model.BlockValidator, privateKey []byte,
	miningAddr string) (*miner, error) {

	if miningAddr == "" {
		_, publicKey := btcec.PrivKeyFromBytes(privateKey)
		miningAddr = minerkey.EncodeAddress(publicKey, params)
	}
	publicKeyHash, err := minerkey.DecodeAddress(miningAddr, params)
	if err != nil {
		return nil, errors.Wrap(err, "invalid --miningaddr")
	}
	log.Infof("Mining to address %s", miningAddr)

	return &miner{
		params:        params,
		db:            db,
		headerStore:   headerStore,
		miningManager: miningManager,
		validator:     validator,
		publicKeyHash: publicKeyHash,
	}, nil
}

// mineLoop mines numberOfBlocks blocks, or until ctx is done if
// numberOfBlocks is 0
func (m *miner) mineLoop(ctx context.Context, numberOfBlocks uint64) error {
	tipHash, err := m.tip()
	if err != nil {
		return err
	}

	for i := uint64(0); numberOfBlocks == 0 || i < numberOfBlocks; i++ {
		tipHash, err = m.mineNextBlock(ctx, tipHash)
		if err != nil {
			return err
		}
	}
	log.Infof("Mined %d blocks", numberOfBlocks)
	return nil
}

// tip returns the highest stored header, storing the genesis header first
// if the store is empty
func (m *miner) tip() (*externalapi.DomainHash, error) {
	tipHash, err := m.headerStore.Tip(m.db)
	if err != nil {
		return nil, err
	}
	if tipHash != nil {
		return tipHash, nil
	}

	log.Infof("Storing the genesis header of %s", m.params.Name)
	genesisHash := m.headerStore.Stage(m.params.GenesisHeader)
	err = m.commit()
	if err != nil {
		return nil, err
	}
	return genesisHash, nil
}

func (m *miner) mineNextBlock(ctx context.Context, tipHash *externalapi.DomainHash) (*externalapi.DomainHash, error) {
	parent, err := m.headerStore.ChainView(m.db, tipHash, m.params.RetargetInterval()+2)
	if err != nil {
		return nil, err
	}

	transactions := []*externalapi.DomainTransaction{
		blocktemplatebuilder.NewCoinbaseTransaction(parent.Height()+1, m.publicKeyHash),
	}
	block, err := m.miningManager.MineBlock(ctx, parent, transactions, time.Now().Unix())
	if err != nil {
		return nil, err
	}

	err = m.validator.ValidateBlock(block, parent)
	if err != nil {
		return nil, err
	}

	blockHash := m.headerStore.Stage(&block.Header)
	err = m.commit()
	if err != nil {
		return nil, err
	}
	signer, err := minerkey.RewardAddress(&block.Header, m.params)
	if err != nil {
		return nil, err
	}
	log.Infof("Mined block %s at height %d with bits %08x, signed by %s",
		blockHash, block.Header.Height, block.Header.Bits, signer)
	return blockHash, nil
}

func (m *miner) commit() error {
	dbTx, err := m.db.Begin()
	if err != nil {
		return err
	}
	defer dbTx.RollbackUnlessClosed()

	err = m.headerStore.Commit(dbTx)
	if err != nil {
		return err
	}
	return dbTx.Commit()
}
