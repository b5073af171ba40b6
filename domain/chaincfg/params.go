// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"math/big"
	"time"

	"github.com/spreadcoin/spreadd/domain/consensus/model/externalapi"
)

// These variables are the proof-of-work limit parameters for each default
// network.
var (
	// bigOne is 1 represented as a big.Int. It is defined here to avoid
	// the overhead of creating it multiple times.
	bigOne = big.NewInt(1)

	// mainPowLimit is the highest proof of work value a block can have for
	// the main network. It is the value 2^236 - 1.
	mainPowLimit = new(big.Int).Sub(new(big.Int).Lsh(bigOne, 236), bigOne)

	// testnetPowLimit is the highest proof of work value a block can have
	// for the test network. It is the value 2^240 - 1.
	testnetPowLimit = new(big.Int).Sub(new(big.Int).Lsh(bigOne, 240), bigOne)

	// regtestPowLimit is the highest proof of work value a block can have
	// for the regression test network. It is the value 2^255 - 1.
	regtestPowLimit = new(big.Int).Sub(new(big.Int).Lsh(bigOne, 255), bigOne)
)

// Consensus constants shared by all networks. They are part of the block
// format and must never become per-network settings.
const (
	// MaxBlockSize is the size the proof-of-knowledge buffer is padded to.
	MaxBlockSize = 200000

	// NonceMask selects the low nonce bits that can be enumerated without
	// recomputing the signature and the whole-block commitment.
	NonceMask = 0x3F

	// SelectorProtocolVersion is the first protocol version in which
	// serialized headers carry the algorithm-selector record.
	SelectorProtocolVersion = 70016

	// ProtocolVersion is the protocol version spoken by this node
	ProtocolVersion = SelectorProtocolVersion
)

// Params defines a network by its consensus parameters. A Params value is
// never mutated while consensus code is reading it.
type Params struct {
	// Name defines a human-readable identifier for the network.
	Name string

	// PowLimit defines the highest allowed proof of work value for a block
	// as a uint256.
	PowLimit *big.Int

	// PowLimitBits defines the highest allowed proof of work value for a
	// block in compact form.
	PowLimitBits uint32

	// TargetTimespan is the amount of time a full retarget window is
	// expected to take.
	TargetTimespan time.Duration

	// TargetSpacing is the desired amount of time to generate each block.
	TargetSpacing time.Duration

	// NoRetargeting disables difficulty retargeting entirely.
	NoRetargeting bool

	// AllowMinDifficultyBlocks allows a block to be mined at the proof of
	// work limit when it is timestamped more than twice the target spacing
	// after its parent.
	AllowMinDifficultyBlocks bool

	// The following heights are inclusive lower bounds at which a new
	// proof-of-work hash generation activates. Each is greater than the
	// previous one. SelectorForkHeight also activates the selector filler
	// byte in the proof-of-knowledge buffer.
	SelectorForkHeight   uint32
	PositionForkHeight   uint32
	PositionV2ForkHeight uint32
	PrevKeyForkHeight    uint32

	// AddressPrefix is the version byte of base58check reward addresses
	AddressPrefix byte

	// GenesisHeader is the header of the first block of the chain.
	GenesisHeader *externalapi.BlockHeader
}

// RetargetInterval returns the number of blocks in a retarget window
func (p *Params) RetargetInterval() uint32 {
	return uint32(p.TargetTimespan / p.TargetSpacing)
}

// TargetTimespanSeconds returns TargetTimespan in whole seconds
func (p *Params) TargetTimespanSeconds() int64 {
	return int64(p.TargetTimespan / time.Second)
}

// TargetSpacingSeconds returns TargetSpacing in whole seconds
func (p *Params) TargetSpacingSeconds() int64 {
	return int64(p.TargetSpacing / time.Second)
}

// Clone returns a deep copy of the params, allowing a caller to derive a
// modified network without touching the shared defaults.
func (p *Params) Clone() *Params {
	clone := *p
	clone.PowLimit = new(big.Int).Set(p.PowLimit)
	clone.GenesisHeader = p.GenesisHeader.Clone()
	return &clone
}

// MainnetParams defines the network parameters for the main network.
var MainnetParams = Params{
	Name:                     "mainnet",
	PowLimit:                 mainPowLimit,
	PowLimitBits:             0x1e0fffff,
	TargetTimespan:           20 * time.Minute,
	TargetSpacing:            time.Minute,
	NoRetargeting:            false,
	AllowMinDifficultyBlocks: false,
	SelectorForkHeight:       100000,
	PositionForkHeight:       200000,
	PositionV2ForkHeight:     300000,
	PrevKeyForkHeight:        400000,
	AddressPrefix:            63,
	GenesisHeader:            &mainnetGenesisHeader,
}

// TestnetParams defines the network parameters for the test network.
var TestnetParams = Params{
	Name:                     "testnet",
	PowLimit:                 testnetPowLimit,
	PowLimitBits:             0x1f00ffff,
	TargetTimespan:           20 * time.Minute,
	TargetSpacing:            time.Minute,
	NoRetargeting:            false,
	AllowMinDifficultyBlocks: false,
	SelectorForkHeight:       1000,
	PositionForkHeight:       2000,
	PositionV2ForkHeight:     3000,
	PrevKeyForkHeight:        4000,
	AddressPrefix:            111,
	GenesisHeader:            &testnetGenesisHeader,
}

// RegtestParams defines the network parameters for the regression test
// network. Every hash generation activates within the first few dozen
// blocks so that short test chains exercise all of them.
var RegtestParams = Params{
	Name:                     "regtest",
	PowLimit:                 regtestPowLimit,
	PowLimitBits:             0x207fffff,
	TargetTimespan:           10 * time.Minute,
	TargetSpacing:            time.Minute,
	NoRetargeting:            true,
	AllowMinDifficultyBlocks: true,
	SelectorForkHeight:       10,
	PositionForkHeight:       20,
	PositionV2ForkHeight:     30,
	PrevKeyForkHeight:        40,
	AddressPrefix:            111,
	GenesisHeader:            &regtestGenesisHeader,
}
