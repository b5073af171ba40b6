// Package minerkey recovers the block reward key from the miner signature
// of a header.
package minerkey

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcutil"
	"github.com/btcsuite/btcutil/base58"
	"github.com/pkg/errors"
	"github.com/spreadcoin/spreadd/domain/chaincfg"
	"github.com/spreadcoin/spreadd/domain/consensus/model/externalapi"
	"github.com/spreadcoin/spreadd/domain/consensus/utils/consensushashing"
)

// RecoverRewardKey returns the public key that produced the header's miner
// signature over its signature hash
func RecoverRewardKey(header *externalapi.BlockHeader) (*btcec.PublicKey, error) {
	hash := consensushashing.SignatureHash(header)
	publicKey, _, err := ecdsa.RecoverCompact(header.MinerSignature[:], hash[:])
	if err != nil {
		return nil, errors.Wrapf(err, "failed to recover the reward key of block at height %d", header.Height)
	}
	return publicKey, nil
}

// EncodeAddress returns the base58check reward address of publicKey on the
// given network
func EncodeAddress(publicKey *btcec.PublicKey, params *chaincfg.Params) string {
	return base58.CheckEncode(btcutil.Hash160(publicKey.SerializeCompressed()), params.AddressPrefix)
}

// DecodeAddress returns the public key hash behind address, checking it
// belongs to the given network
func DecodeAddress(address string, params *chaincfg.Params) ([]byte, error) {
	publicKeyHash, version, err := base58.CheckDecode(address)
	if err != nil {
		return nil, errors.Wrapf(err, "malformed address %s", address)
	}
	if version != params.AddressPrefix {
		return nil, errors.Errorf("address %s belongs to a network with prefix %d instead of %s",
			address, version, params.Name)
	}
	if len(publicKeyHash) != 20 {
		return nil, errors.Errorf("address %s holds a %d byte hash", address, len(publicKeyHash))
	}
	return publicKeyHash, nil
}

// RewardAddress returns the reward address of the block with the given
// header
func RewardAddress(header *externalapi.BlockHeader, params *chaincfg.Params) (string, error) {
	publicKey, err := RecoverRewardKey(header)
	if err != nil {
		return "", err
	}
	return EncodeAddress(publicKey, params), nil
}
