// Package fastsigner implements ECDSA signing over secp256k1 split into a
// message independent precomputation and a cheap per-message finalization.
//
// A Signer is tied to exactly one ephemeral nonce k. Reusing the same
// instance (same k) to sign two or more messages is cryptographically
// unsafe if more than one of the resulting signatures is ever published,
// because it leaks the private key via the shared r. It is safe
// specifically in the mining use case because many candidate nonces are
// hashed and signed speculatively but only the one satisfying the
// proof-of-work target is ever broadcast; the others are discarded before
// leaving the process. Any future use of this signer outside a "produce
// many candidates, publish at most one" pattern is a misuse.
package fastsigner

import (
	"crypto/rand"
	"io"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/pkg/errors"
	"github.com/spreadcoin/spreadd/domain/consensus/model/externalapi"
)

// ErrSignerInit is returned, wrapped, by every failed Signer construction
var ErrSignerInit = errors.New("failed to initialize the fast signer")

var errSignerClosed = errors.New("the fast signer was closed")

const (
	// compactSigMagicOffset is the value added to the recovery code in the
	// first signature byte.
	compactSigMagicOffset = 27

	// compactSigCompPubKey marks the recovered public key as compressed.
	compactSigCompPubKey = 4

	// maxNonceAttempts bounds the retries on a nonce that is zero, above
	// the group order or yields r == 0.
	maxNonceAttempts = 8
)

// Signer holds the precomputed state of one signing nonce
type Signer struct {
	r            secp256k1.ModNScalar
	kInverse     secp256k1.ModNScalar
	rTimesKey    secp256k1.ModNScalar
	recoveryCode byte
	closed       bool
}

// New creates a Signer for privateKey with a nonce drawn from crypto/rand
// and writes the message independent part of the signature into
// partialSignature.
func New(privateKey []byte, partialSignature *externalapi.MinerSignature) (*Signer, error) {
	return NewWithRand(rand.Reader, privateKey, partialSignature)
}

// NewWithRand is like New but draws the nonce from randReader
func NewWithRand(randReader io.Reader, privateKey []byte,
	partialSignature *externalapi.MinerSignature) (*Signer, error) {

	if len(privateKey) != 32 {
		return nil, errors.Wrapf(ErrSignerInit, "private key is %d bytes long instead of 32", len(privateKey))
	}
	var key secp256k1.ModNScalar
	defer key.Zero()
	if overflow := key.SetByteSlice(privateKey); overflow || key.IsZero() {
		return nil, errors.Wrap(ErrSignerInit, "private key is not in the range of the group order")
	}

	signer := &Signer{}
	var k secp256k1.ModNScalar
	defer k.Zero()
	var nonceBytes [32]byte
	defer func() { nonceBytes = [32]byte{} }()

	for attempt := 0; ; attempt++ {
		if attempt == maxNonceAttempts {
			return nil, errors.Wrapf(ErrSignerInit, "no usable nonce after %d attempts", maxNonceAttempts)
		}
		if _, err := io.ReadFull(randReader, nonceBytes[:]); err != nil {
			return nil, errors.Wrapf(ErrSignerInit, "failed to read a nonce: %s", err)
		}
		if overflow := k.SetByteSlice(nonceBytes[:]); overflow || k.IsZero() {
			continue
		}

		var point secp256k1.JacobianPoint
		secp256k1.ScalarBaseMultNonConst(&k, &point)
		point.ToAffine()

		xOverflow := signer.r.SetByteSlice(point.X.Bytes()[:])
		if signer.r.IsZero() {
			continue
		}
		signer.recoveryCode = 0
		if point.Y.IsOdd() {
			signer.recoveryCode |= 1
		}
		if xOverflow {
			signer.recoveryCode |= 2
		}
		break
	}

	signer.kInverse.InverseValNonConst(&k)
	signer.rTimesKey.Mul2(&signer.r, &key)

	partialSignature[0] = compactSigMagicOffset + compactSigCompPubKey + signer.recoveryCode
	signer.r.PutBytesUnchecked(partialSignature[1:33])
	return signer, nil
}

// WithSigner creates a Signer, hands it to f and erases it once f returns,
// whether f fails or not
func WithSigner(privateKey []byte, partialSignature *externalapi.MinerSignature, f func(signer *Signer) error) error {
	signer, err := New(privateKey, partialSignature)
	if err != nil {
		return err
	}
	defer signer.Close()
	return f(signer)
}

// SignFast completes the signature of hash into signature:
// s = kInverse * (hash + r * privateKey). The signature is normalized to a
// low s. The signer itself is not modified.
func (signer *Signer) SignFast(hash *externalapi.DomainHash, signature *externalapi.MinerSignature) error {
	if signer.closed {
		return errors.WithStack(errSignerClosed)
	}

	var s secp256k1.ModNScalar
	s.SetByteSlice(hash[:])
	s.Add(&signer.rTimesKey).Mul(&signer.kInverse)
	if s.IsZero() {
		return errors.Errorf("hash %s produces a zero signature", hash)
	}

	recoveryCode := signer.recoveryCode
	if s.IsOverHalfOrder() {
		s.Negate()
		recoveryCode ^= 1
	}

	signature[0] = compactSigMagicOffset + compactSigCompPubKey + recoveryCode
	signer.r.PutBytesUnchecked(signature[1:33])
	s.PutBytesUnchecked(signature[33:65])
	s.Zero()
	return nil
}

// Close erases the precomputed state. The signer can't be used afterwards.
func (signer *Signer) Close() {
	signer.r.Zero()
	signer.kInverse.Zero()
	signer.rTimesKey.Zero()
	signer.recoveryCode = 0
	signer.closed = true
}
