package miningmanager

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spreadcoin/spreadd/domain/chaincfg"
	"github.com/spreadcoin/spreadd/domain/consensus/processes/difficultymanager"
	"github.com/spreadcoin/spreadd/domain/consensus/utils/pow"
	"github.com/spreadcoin/spreadd/domain/miningmanager/blockminer"
	"github.com/spreadcoin/spreadd/domain/miningmanager/blocktemplatebuilder"
)

// Factory instantiates new mining managers
type Factory interface {
	NewMiningManager(params *chaincfg.Params, hashFamily pow.HashFamily, privateKey []byte,
		registerer prometheus.Registerer) (MiningManager, error)
}

type factory struct{}

// NewMiningManager instantiate a new mining manager mining with privateKey.
// registerer may be nil to leave the miner metrics unregistered.
func (f *factory) NewMiningManager(params *chaincfg.Params, hashFamily pow.HashFamily, privateKey []byte,
	registerer prometheus.Registerer) (MiningManager, error) {

	blockMiner, err := blockminer.New(params, hashFamily, privateKey, registerer)
	if err != nil {
		return nil, err
	}
	blockTemplateBuilder := blocktemplatebuilder.New(params, difficultymanager.New(params))

	return &miningManager{
		blockTemplateBuilder: blockTemplateBuilder,
		blockMiner:           blockMiner,
	}, nil
}

// NewFactory creates a new mining manager factory
func NewFactory() Factory {
	return &factory{}
}
