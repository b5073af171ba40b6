package pow

import (
	"math/big"

	"github.com/spreadcoin/spreadd/domain/chaincfg"
	"github.com/spreadcoin/spreadd/domain/consensus/model/externalapi"
	"github.com/spreadcoin/spreadd/domain/consensus/utils/arith"
	"github.com/spreadcoin/spreadd/domain/consensus/utils/consensushashing"
	"github.com/spreadcoin/spreadd/domain/consensus/utils/hashes"
)

// HashFamily supplies the raw digest functions behind every Algorithm.
// Implementations must be safe for concurrent use.
type HashFamily interface {
	Digest(algorithm Algorithm, headerBytes []byte, mix *MixParams) *externalapi.DomainHash
}

// PowHash returns the proof-of-work hash of header, computed with the
// algorithm active at the header's height.
func PowHash(header *externalapi.BlockHeader, family HashFamily, params *chaincfg.Params) *externalapi.DomainHash {
	algorithm := SelectAlgorithm(header.Height, params)
	return family.Digest(algorithm, consensushashing.PowHeaderBytes(header), NewMixParams(algorithm, header))
}

// CheckProofOfWork returns whether hash satisfies the target encoded in
// bits. Targets that decode as negative, zero, overflowing or above the
// network's proof-of-work limit are rejected.
func CheckProofOfWork(hash *externalapi.DomainHash, bits uint32, params *chaincfg.Params) bool {
	target, ok := TargetFromBits(bits, params)
	if !ok {
		return false
	}
	return CheckProofOfWorkWithTarget(hash, target)
}

// CheckProofOfWorkWithTarget returns whether hash is lower than or equal to
// target. It does not check if the target is valid for any network.
func CheckProofOfWorkWithTarget(hash *externalapi.DomainHash, target *big.Int) bool {
	return hashes.ToBig(hash).Cmp(target) <= 0
}

// TargetFromBits decodes bits and reports whether the result is a usable
// target for the given network.
func TargetFromBits(bits uint32, params *chaincfg.Params) (*big.Int, bool) {
	target, isNegative, isOverflow := arith.Uint256FromCompact(bits)
	if isNegative || isOverflow || target.IsZero() {
		return nil, false
	}
	targetBig := target.Big()
	if targetBig.Cmp(params.PowLimit) > 0 {
		return nil, false
	}
	return targetBig, true
}
