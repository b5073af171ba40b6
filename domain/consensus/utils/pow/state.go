package pow

import (
	"math/big"

	"github.com/spreadcoin/spreadd/domain/chaincfg"
	"github.com/spreadcoin/spreadd/domain/consensus/model/externalapi"
	"github.com/spreadcoin/spreadd/domain/consensus/utils/consensushashing"
	"github.com/spreadcoin/spreadd/domain/consensus/utils/hashes"
)

// nonceOffset is the position of the nonce in the proof-of-work input
const nonceOffset = consensushashing.PowInputSize - 4

// State is an intermediate data structure with pre-computed values to speed
// up proof-of-work calculation when only the nonce changes. The algorithm,
// its mixing parameters and the serialized header are derived once.
type State struct {
	algorithm   Algorithm
	mix         *MixParams
	headerBytes []byte
	family      HashFamily
	target      *big.Int
	validTarget bool

	Nonce uint32
}

// NewState creates a new state with pre-computed values for header
func NewState(header *externalapi.BlockHeader, family HashFamily, params *chaincfg.Params) *State {
	algorithm := SelectAlgorithm(header.Height, params)
	target, validTarget := TargetFromBits(header.Bits, params)
	return &State{
		algorithm:   algorithm,
		mix:         NewMixParams(algorithm, header),
		headerBytes: consensushashing.PowHeaderBytes(header),
		family:      family,
		target:      target,
		validTarget: validTarget,
		Nonce:       header.Nonce,
	}
}

// Algorithm returns the digest variant the state hashes with
func (state *State) Algorithm() Algorithm {
	return state.algorithm
}

// CalculateProofOfWorkValue hashes the header with the current nonce
func (state *State) CalculateProofOfWorkValue() *externalapi.DomainHash {
	state.headerBytes[nonceOffset] = byte(state.Nonce)
	state.headerBytes[nonceOffset+1] = byte(state.Nonce >> 8)
	state.headerBytes[nonceOffset+2] = byte(state.Nonce >> 16)
	state.headerBytes[nonceOffset+3] = byte(state.Nonce >> 24)
	return state.family.Digest(state.algorithm, state.headerBytes, state.mix)
}

// IncrementNonce increments the nonce in State by 1
func (state *State) IncrementNonce() {
	state.Nonce++
}

// CheckProofOfWork checks if the current nonce satisfies the header target.
// It returns the proof-of-work hash alongside the verdict.
func (state *State) CheckProofOfWork() (*externalapi.DomainHash, bool) {
	hash := state.CalculateProofOfWorkValue()
	if !state.validTarget {
		return hash, false
	}
	return hash, hashes.ToBig(hash).Cmp(state.target) <= 0
}
