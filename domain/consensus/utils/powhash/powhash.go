// Package powhash provides the reference digest family behind the
// proof-of-work algorithms of package pow.
package powhash

import (
	"github.com/spreadcoin/spreadd/domain/consensus/model/externalapi"
	"github.com/spreadcoin/spreadd/domain/consensus/utils/pow"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
	"lukechampine.com/blake3"
)

// Family implements pow.HashFamily
type Family struct{}

// New returns the reference digest family
func New() *Family {
	return &Family{}
}

// Digest hashes headerBytes with the given algorithm. Every algorithm is
// domain separated by its own tag, so even and odd variants never agree.
func (f *Family) Digest(algorithm pow.Algorithm, headerBytes []byte, mix *pow.MixParams) *externalapi.DomainHash {
	var digest [32]byte
	switch {
	case algorithm == pow.AlgorithmLegacy:
		digest = sha3.Sum256(headerBytes)

	case !algorithm.UsesTablePosition():
		data := make([]byte, 0, len(headerBytes)+3)
		data = append(data, byte(algorithm), mix.A, mix.B)
		digest = blake2b.Sum256(append(data, headerBytes...))

	default:
		hasher := blake3.New(32, nil)
		_, _ = hasher.Write([]byte{byte(algorithm), mix.A, mix.B})
		if algorithm.UsesPrevBlockKey() {
			_, _ = hasher.Write(mix.PrevBlockKey[:])
		}
		_, _ = hasher.Write(headerBytes)
		hasher.Sum(digest[:0])
		mixRounds(&digest, mix.TablePosition)
	}

	hash := externalapi.DomainHash(digest)
	return &hash
}
