package consensushashing

import (
	"bytes"
	"io"

	"github.com/pkg/errors"
	"github.com/spreadcoin/spreadd/domain/chaincfg"
	"github.com/spreadcoin/spreadd/domain/consensus/model/externalapi"
	"github.com/spreadcoin/spreadd/domain/consensus/utils/hashes"
	"github.com/spreadcoin/spreadd/domain/consensus/utils/serialization"
)

// Serialized sizes of the hashed header layouts
const (
	HeaderHashInputSize = 4 + 32 + 32 + 8 + 4 + 4 + 4 + 32 + externalapi.MinerSignatureSize
	SignatureInputSize  = 4 + 32 + 32 + 8 + 4 + 4 + 4
	PowInputSize        = SignatureInputSize
)

// BlockHash returns the given block's hash
func BlockHash(block *externalapi.DomainBlock) *externalapi.DomainHash {
	return HeaderHash(&block.Header)
}

// HeaderHash returns the identity hash of the given header: the double
// SHA-256 of every header field except the algorithm selector.
func HeaderHash(header *externalapi.BlockHeader) *externalapi.DomainHash {
	data := fixedSize(HeaderHashInputSize, func(w io.Writer) error {
		return serialization.WriteElements(w, header.Version, header.PrevBlockHash, header.MerkleRoot,
			header.Time, header.Bits, header.Height, header.Nonce, header.WholeBlockHash, header.MinerSignature)
	})
	return hashes.DoubleSHA256(data)
}

// SignatureHash returns the digest the miner signs. The low nonce bits are
// masked out so that every nonce of a group shares one digest.
func SignatureHash(header *externalapi.BlockHeader) *externalapi.DomainHash {
	return hashes.DoubleSHA256(SignatureHashBytes(header))
}

// SignatureHashBytes returns the serialized input of SignatureHash
func SignatureHashBytes(header *externalapi.BlockHeader) []byte {
	return fixedSize(SignatureInputSize, func(w io.Writer) error {
		return serialization.WriteElements(w, header.Version, header.PrevBlockHash, header.MerkleRoot,
			header.Time, header.Bits, header.Height, header.Nonce&^chaincfg.NonceMask)
	})
}

// PowHeaderBytes returns the header bytes fed to the proof-of-work
// algorithm, including the complete nonce.
func PowHeaderBytes(header *externalapi.BlockHeader) []byte {
	return fixedSize(PowInputSize, func(w io.Writer) error {
		return serialization.WriteElements(w, header.Version, header.PrevBlockHash, header.MerkleRoot,
			header.Time, header.Bits, header.Height, header.Nonce)
	})
}

func fixedSize(size int, serialize func(w io.Writer) error) []byte {
	buf := bytes.NewBuffer(make([]byte, 0, size))
	err := serialize(buf)
	if err != nil {
		// Writing to a bytes.Buffer never fails, so only an unknown type
		// in WriteElements can get here.
		panic(errors.Wrap(err, "this should never happen. Header serialization should never return an error"))
	}
	if buf.Len() != size {
		panic(errors.Errorf("serialized header is %d bytes long instead of %d", buf.Len(), size))
	}
	return buf.Bytes()
}
