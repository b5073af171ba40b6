package serialization

import (
	"io"

	"github.com/spreadcoin/spreadd/domain/chaincfg"
	"github.com/spreadcoin/spreadd/domain/consensus/model/externalapi"
)

// HeaderHasSelector returns whether headers exchanged at the given protocol
// version carry the algorithm-selector record. Readers must decide this from
// the negotiated version, never from the header bytes.
func HeaderHasSelector(protocolVersion uint32) bool {
	return protocolVersion >= chaincfg.SelectorProtocolVersion
}

// SerializeHeader writes the wire representation of header to w
func SerializeHeader(w io.Writer, header *externalapi.BlockHeader, protocolVersion uint32) error {
	err := WriteElements(w, header.Version, header.PrevBlockHash, header.MerkleRoot, header.Time,
		header.Bits, header.Height, header.Nonce, header.WholeBlockHash, header.MinerSignature)
	if err != nil {
		return err
	}
	if HeaderHasSelector(protocolVersion) {
		return WriteElement(w, header.Selector)
	}
	return nil
}

// DeserializeHeader reads a header written by SerializeHeader with the same
// protocol version
func DeserializeHeader(r io.Reader, protocolVersion uint32) (*externalapi.BlockHeader, error) {
	header := &externalapi.BlockHeader{}
	err := ReadElements(r, &header.Version, &header.PrevBlockHash, &header.MerkleRoot, &header.Time,
		&header.Bits, &header.Height, &header.Nonce, &header.WholeBlockHash, &header.MinerSignature)
	if err != nil {
		return nil, err
	}
	if HeaderHasSelector(protocolVersion) {
		err = ReadElement(r, &header.Selector)
		if err != nil {
			return nil, err
		}
	}
	return header, nil
}
