package serialization

import (
	"io"

	"github.com/pkg/errors"
	"github.com/spreadcoin/spreadd/domain/consensus/model/externalapi"
)

// SerializeTransactions writes the transaction count followed by the
// serialized bytes of every transaction
func SerializeTransactions(w io.Writer, transactions []*externalapi.DomainTransaction) error {
	err := WriteCompactSize(w, uint64(len(transactions)))
	if err != nil {
		return err
	}
	for _, tx := range transactions {
		_, err := w.Write(tx.Serialized)
		if err != nil {
			return errors.WithStack(err)
		}
	}
	return nil
}

// SerializeBlock writes the wire representation of block to w
func SerializeBlock(w io.Writer, block *externalapi.DomainBlock, protocolVersion uint32) error {
	err := SerializeHeader(w, &block.Header, protocolVersion)
	if err != nil {
		return err
	}
	return SerializeTransactions(w, block.Transactions)
}
