package blockminer

import (
	"context"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spreadcoin/spreadd/domain/chaincfg"
	"github.com/spreadcoin/spreadd/domain/consensus/model/externalapi"
	"github.com/spreadcoin/spreadd/domain/consensus/utils/consensushashing"
	"github.com/spreadcoin/spreadd/domain/consensus/utils/pok"
	"github.com/spreadcoin/spreadd/domain/consensus/utils/pow"
	"github.com/spreadcoin/spreadd/domain/miningmanager/fastsigner"
	"github.com/spreadcoin/spreadd/domain/miningmanager/model"
	"github.com/spreadcoin/spreadd/infrastructure/logger"
)

// ErrNonceSpaceExhausted is returned when no nonce from the header's nonce
// up to the largest one satisfies the target. The caller is expected to
// build a new template with a later timestamp.
var ErrNonceSpaceExhausted = errors.New("went over all the nonce space and couldn't find a single one that gives a valid block")

// nonceGroupSize is the number of nonces that share a signature hash and a
// proof-of-knowledge buffer
const nonceGroupSize = chaincfg.NonceMask + 1

type blockMiner struct {
	params     *chaincfg.Params
	hashFamily pow.HashFamily
	privateKey []byte
	metrics    *metrics
}

// New creates a BlockMiner signing with privateKey. Metrics are registered
// with registerer unless it is nil.
func New(params *chaincfg.Params, hashFamily pow.HashFamily, privateKey []byte,
	registerer prometheus.Registerer) (model.BlockMiner, error) {

	metrics, err := newMetrics(registerer)
	if err != nil {
		return nil, err
	}
	return &blockMiner{
		params:     params,
		hashFamily: hashFamily,
		privateKey: privateKey,
		metrics:    metrics,
	}, nil
}

// SolveBlock searches the nonces of block from its current nonce upwards.
// On success the header holds the winning nonce, its miner signature and
// the whole-block hash. One signer is used per call and erased on return.
func (bm *blockMiner) SolveBlock(ctx context.Context, block *externalapi.DomainBlock) error {
	onEnd := logger.LogAndMeasureExecutionTime(log, "SolveBlock")
	defer onEnd()

	header := &block.Header
	return fastsigner.WithSigner(bm.privateKey, &header.MinerSignature, func(signer *fastsigner.Signer) error {
		nonce, err := bm.searchNonce(ctx, header)
		if err != nil {
			return err
		}
		header.Nonce = nonce

		err = signer.SignFast(consensushashing.SignatureHash(header), &header.MinerSignature)
		if err != nil {
			return err
		}
		bm.metrics.signatures.Inc()

		header.WholeBlockHash = *pok.Hash(block, bm.params)
		bm.metrics.blocks.Inc()
		log.Debugf("Solved block at height %d with nonce %d", header.Height, header.Nonce)
		return nil
	})
}

func (bm *blockMiner) searchNonce(ctx context.Context, header *externalapi.BlockHeader) (uint32, error) {
	state := pow.NewState(header, bm.hashFamily, bm.params)
	log.Tracef("Searching nonces of block at height %d with %s", header.Height, state.Algorithm())

	for group := uint64(header.Nonce &^ chaincfg.NonceMask); group <= uint64(^uint32(0)); group += nonceGroupSize {
		if err := ctx.Err(); err != nil {
			return 0, errors.WithStack(err)
		}
		for low := uint64(0); low < nonceGroupSize; low++ {
			state.Nonce = uint32(group | low)
			if _, ok := state.CheckProofOfWork(); ok {
				bm.metrics.hashes.Add(float64(low + 1))
				return state.Nonce, nil
			}
		}
		bm.metrics.hashes.Add(nonceGroupSize)
	}
	return 0, errors.WithStack(ErrNonceSpaceExhausted)
}
