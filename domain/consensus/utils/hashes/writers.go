package hashes

import (
	"hash"

	"github.com/minio/sha256-simd"
	"github.com/pkg/errors"
	"github.com/spreadcoin/spreadd/domain/consensus/model/externalapi"
)

// HashWriter is used to incrementally hash data without concatenating all of the data to a single buffer
// it exposes an io.Writer api and a Finalize function to get the resulting hash.
// The resulting hash is a double SHA-256 of everything written.
type HashWriter struct {
	hash.Hash
}

// NewHashWriter returns a new HashWriter
func NewHashWriter() HashWriter {
	return HashWriter{sha256.New()}
}

// InfallibleWrite is just like write but doesn't return anything
func (h HashWriter) InfallibleWrite(p []byte) {
	// This write can never return an error, this is part of the hash.Hash interface contract.
	_, err := h.Write(p)
	if err != nil {
		panic(errors.Wrap(err, "this should never happen. hash.Hash interface promises to not return errors."))
	}
}

// Finalize returns the resulting hash
func (h HashWriter) Finalize() *externalapi.DomainHash {
	var first [sha256.Size]byte
	copy(first[:], h.Sum(first[:0]))
	sum := externalapi.DomainHash(sha256.Sum256(first[:]))
	return &sum
}

// DoubleSHA256 returns the double SHA-256 of data
func DoubleSHA256(data []byte) *externalapi.DomainHash {
	writer := NewHashWriter()
	writer.InfallibleWrite(data)
	return writer.Finalize()
}
