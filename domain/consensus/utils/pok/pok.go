// Package pok builds the proof-of-knowledge commitment over a whole block.
//
// The commitment forces a miner to hold the complete block: the serialized
// block is padded to a fixed size and the padding is entangled word by word
// before being hashed, so a pool cannot hand out a partial hash state
// instead of the transactions.
package pok

import (
	"bytes"
	"encoding/binary"

	"github.com/pkg/errors"
	"github.com/spreadcoin/spreadd/domain/chaincfg"
	"github.com/spreadcoin/spreadd/domain/consensus/model/externalapi"
	"github.com/spreadcoin/spreadd/domain/consensus/utils/hashes"
	"github.com/spreadcoin/spreadd/domain/consensus/utils/serialization"
)

const (
	wordSize    = 4
	footerWords = 8

	// legacyFiller pads the payload of blocks mined before the selector
	// record was introduced.
	legacyFiller = 0x07
)

// Hash returns the whole-block commitment hash of block
func Hash(block *externalapi.DomainBlock, params *chaincfg.Params) *externalapi.DomainHash {
	return HashData(BuildData(block, params))
}

// BuildData serializes block into the proof-of-knowledge buffer. The
// returned buffer is a multiple of 4 bytes long and never shorter than
// chaincfg.MaxBlockSize.
func BuildData(block *externalapi.DomainBlock, params *chaincfg.Params) []byte {
	header := &block.Header
	buf := bytes.NewBuffer(make([]byte, 0, chaincfg.MaxBlockSize))

	// The fields that change while mining come first.
	err := serialization.WriteElements(buf, header.Nonce&^chaincfg.NonceMask, header.Time, header.MinerSignature,
		header.Version, header.PrevBlockHash, header.MerkleRoot, header.Bits, header.Height)
	if err != nil {
		panic(errors.Wrap(err, "this should never happen. Writing to a bytes.Buffer should never fail"))
	}
	err = serialization.SerializeTransactions(buf, block.Transactions)
	if err != nil {
		panic(errors.Wrap(err, "this should never happen. Writing to a bytes.Buffer should never fail"))
	}

	data := buf.Bytes()
	fillBegin := (len(data) + wordSize - 1) / wordSize
	if len(data) < chaincfg.MaxBlockSize {
		data = append(data, make([]byte, chaincfg.MaxBlockSize-len(data))...)
	}
	// Only a payload that reaches MaxBlockSize can end off a word boundary.
	filler := fillerByte(header, params)
	for len(data)%wordSize != 0 {
		data = append(data, filler)
	}

	entangleFill(data, fillBegin, &header.PrevBlockHash)
	return data
}

func fillerByte(header *externalapi.BlockHeader, params *chaincfg.Params) byte {
	if header.Height >= params.SelectorForkHeight {
		return header.Selector.C
	}
	return legacyFiller
}

// entangleFill overwrites the words from fillBegin to the end of data. A
// word holding the tail of the payload is never part of the fill. The
// last up to 8 words are taken from prevBlockHash with their low bit set,
// and every word before them is the product of the words 3 and 7 positions
// ahead.
func entangleFill(data []byte, fillBegin int, prevBlockHash *externalapi.DomainHash) {
	fillEnd := len(data) / wordSize
	footer := fillEnd - footerWords
	if footer < fillBegin {
		footer = fillBegin
	}

	for i := footer; i < fillEnd; i++ {
		offset := (i - footer) * wordSize
		word := binary.LittleEndian.Uint32(prevBlockHash[offset:offset+wordSize]) | 1
		putWord(data, i, word)
	}

	for i := footer - 1; i >= fillBegin; i-- {
		putWord(data, i, getWord(data, i+3)*getWord(data, i+7))
	}
}

func getWord(data []byte, index int) uint32 {
	return binary.LittleEndian.Uint32(data[index*wordSize:])
}

func putWord(data []byte, index int, word uint32) {
	binary.LittleEndian.PutUint32(data[index*wordSize:], word)
}

// HashData hashes a buffer built by BuildData. The buffer is written twice
// into a single double SHA-256 writer, with the low nonce bits of its first
// byte masked each time, and the writer is finalized once.
func HashData(data []byte) *externalapi.DomainHash {
	writer := hashes.NewHashWriter()
	for i := 0; i < 2; i++ {
		writer.InfallibleWrite([]byte{data[0] &^ chaincfg.NonceMask})
		writer.InfallibleWrite(data[1:])
	}
	return writer.Finalize()
}
