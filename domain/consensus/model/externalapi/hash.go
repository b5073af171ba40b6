package externalapi

import (
	"encoding/hex"

	"github.com/pkg/errors"
)

// DomainHashSize of array used to store hashes.
const DomainHashSize = 32

// DomainHash is the domain representation of a Hash. The bytes are stored
// in little-endian order, so the byte at index 31 is the most significant
// one when the hash is interpreted as a number.
type DomainHash [DomainHashSize]byte

// NewDomainHashFromByteSlice creates a DomainHash from the given slice. The
// slice is expected to already be in internal (little-endian) order.
func NewDomainHashFromByteSlice(hashBytes []byte) (*DomainHash, error) {
	if len(hashBytes) != DomainHashSize {
		return nil, errors.Errorf("invalid hash size. Want: %d, got: %d",
			DomainHashSize, len(hashBytes))
	}
	var domainHash DomainHash
	copy(domainHash[:], hashBytes)
	return &domainHash, nil
}

// NewDomainHashFromString parses a hash from its display form, which is the
// byte-reversed hexadecimal representation.
func NewDomainHashFromString(hashString string) (*DomainHash, error) {
	expectedLength := DomainHashSize * 2
	if len(hashString) != expectedLength {
		return nil, errors.Errorf("hash string length is %d, while it should be be %d",
			len(hashString), expectedLength)
	}

	hashBytes, err := hex.DecodeString(hashString)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	var domainHash DomainHash
	for i, b := range hashBytes {
		domainHash[DomainHashSize-1-i] = b
	}
	return &domainHash, nil
}

// String returns the Hash as the byte-reversed hexadecimal string of the hash.
func (hash DomainHash) String() string {
	for i := 0; i < DomainHashSize/2; i++ {
		hash[i], hash[DomainHashSize-1-i] = hash[DomainHashSize-1-i], hash[i]
	}
	return hex.EncodeToString(hash[:])
}

// ByteSlice returns a copy of the hash bytes in internal order.
func (hash *DomainHash) ByteSlice() []byte {
	clone := *hash
	return clone[:]
}

// Equal returns whether hash equals to other
func (hash *DomainHash) Equal(other *DomainHash) bool {
	if hash == nil || other == nil {
		return hash == other
	}

	return *hash == *other
}

// IsZero returns whether all the bytes of the hash are zero
func (hash *DomainHash) IsZero() bool {
	return *hash == DomainHash{}
}
