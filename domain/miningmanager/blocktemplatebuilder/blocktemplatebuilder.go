package blocktemplatebuilder

import (
	"encoding/binary"

	"github.com/pkg/errors"
	"github.com/spreadcoin/spreadd/domain/chaincfg"
	consensusmodel "github.com/spreadcoin/spreadd/domain/consensus/model"
	"github.com/spreadcoin/spreadd/domain/consensus/model/externalapi"
	"github.com/spreadcoin/spreadd/domain/consensus/utils/consensushashing"
	"github.com/spreadcoin/spreadd/domain/consensus/utils/hashes"
	"github.com/spreadcoin/spreadd/domain/miningmanager/model"
)

// BlockVersion is the version of the blocks built by this package
const BlockVersion = 1

// blockTemplateBuilder creates block templates for a miner to consume
type blockTemplateBuilder struct {
	params            *chaincfg.Params
	difficultyManager consensusmodel.DifficultyManager
}

// New creates a new blockTemplateBuilder
func New(params *chaincfg.Params, difficultyManager consensusmodel.DifficultyManager) model.BlockTemplateBuilder {
	return &blockTemplateBuilder{
		params:            params,
		difficultyManager: difficultyManager,
	}
}

// GetBlockTemplate creates an unsolved block extending parent. The
// timestamp is moved past the parent's if needed.
func (btb *blockTemplateBuilder) GetBlockTemplate(parent *externalapi.HeaderNode,
	transactions []*externalapi.DomainTransaction, timestamp int64) (*externalapi.DomainBlock, error) {

	if parent == nil {
		return nil, errors.New("cannot build a template without a parent block")
	}
	if len(transactions) == 0 {
		return nil, errors.New("cannot build a template without transactions")
	}
	if timestamp <= parent.Timestamp() {
		timestamp = parent.Timestamp() + 1
	}

	bits, err := btb.difficultyManager.NextTarget(parent, timestamp)
	if err != nil {
		return nil, err
	}

	header := externalapi.BlockHeader{
		Version:       BlockVersion,
		PrevBlockHash: *consensushashing.HeaderHash(parent.Header()),
		MerkleRoot:    *hashes.MerkleRoot(transactions),
		Time:          uint64(timestamp),
		Bits:          bits,
		Height:        parent.Height() + 1,
	}
	if header.Height >= btb.params.SelectorForkHeight {
		header.Selector = selectorFor(&header.PrevBlockHash)
	}

	return &externalapi.DomainBlock{
		Header:       header,
		Transactions: transactions,
	}, nil
}

// selectorFor derives the selector record from the previous block hash. A
// is kept non-zero so the record is never mistaken for an unset one.
func selectorFor(prevBlockHash *externalapi.DomainHash) externalapi.SelectorBytes {
	return externalapi.SelectorBytes{
		A: prevBlockHash[0] | 1,
		B: prevBlockHash[1],
		C: prevBlockHash[2],
	}
}

// NewCoinbaseTransaction returns the transaction paying the block reward of
// the block at height to publicKeyHash. Its serialization is the height
// followed by the public key hash.
func NewCoinbaseTransaction(height uint32, publicKeyHash []byte) *externalapi.DomainTransaction {
	serialized := make([]byte, 4, 4+len(publicKeyHash))
	binary.LittleEndian.PutUint32(serialized, height)
	return &externalapi.DomainTransaction{Serialized: append(serialized, publicKeyHash...)}
}
