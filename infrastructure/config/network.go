package config

import (
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
	"github.com/spreadcoin/spreadd/domain/chaincfg"
	"github.com/spreadcoin/spreadd/domain/consensus/utils/arith"
)

// NetworkFlags holds the network configuration, that is which network is selected.
type NetworkFlags struct {
	Testnet            bool   `long:"testnet" description:"Use the test network"`
	Regtest            bool   `long:"regtest" description:"Use the regression test network"`
	OverrideParamsFile string `long:"override-params-file" description:"Overrides network params (allowed only on regtest)"`

	ActiveNetParams *chaincfg.Params
}

type overrideParamsConfig struct {
	PowLimit                 *string `json:"powLimit"`
	TargetTimespanSeconds    *int64  `json:"targetTimespanSeconds"`
	TargetSpacingSeconds     *int64  `json:"targetSpacingSeconds"`
	NoRetargeting            *bool   `json:"noRetargeting"`
	AllowMinDifficultyBlocks *bool   `json:"allowMinDifficultyBlocks"`
	SelectorForkHeight       *uint32 `json:"selectorForkHeight"`
	PositionForkHeight       *uint32 `json:"positionForkHeight"`
	PositionV2ForkHeight     *uint32 `json:"positionV2ForkHeight"`
	PrevKeyForkHeight        *uint32 `json:"prevKeyForkHeight"`
}

// ResolveNetwork parses the network command line argument and sets ActiveNetParams accordingly.
// It returns error if more than one network was selected, nil otherwise.
func (networkFlags *NetworkFlags) ResolveNetwork(parser *flags.Parser) error {
	// default net is main net
	networkFlags.ActiveNetParams = chaincfg.MainnetParams.Clone()
	// Multiple networks can't be selected simultaneously.
	numNets := 0
	if networkFlags.Testnet {
		numNets++
		networkFlags.ActiveNetParams = chaincfg.TestnetParams.Clone()
	}
	if networkFlags.Regtest {
		numNets++
		networkFlags.ActiveNetParams = chaincfg.RegtestParams.Clone()
	}
	if numNets > 1 {
		message := "Multiple networks parameters (testnet, regtest) cannot be used " +
			"together. Please choose only one network"
		err := errors.Errorf(message)
		if parser != nil {
			fmt.Fprintln(os.Stderr, err)
			parser.WriteHelp(os.Stderr)
		}
		return err
	}

	return networkFlags.overrideParams()
}

// NetParams returns the ActiveNetParams
func (networkFlags *NetworkFlags) NetParams() *chaincfg.Params {
	return networkFlags.ActiveNetParams
}

func (networkFlags *NetworkFlags) overrideParams() error {
	if networkFlags.OverrideParamsFile == "" {
		return nil
	}

	if !networkFlags.Regtest {
		return errors.Errorf("override-params-file is allowed only when using regtest")
	}

	overrideParamsFile, err := os.Open(networkFlags.OverrideParamsFile)
	if err != nil {
		return errors.WithStack(err)
	}
	defer overrideParamsFile.Close()

	decoder := json.NewDecoder(overrideParamsFile)
	decoder.DisallowUnknownFields()
	config := &overrideParamsConfig{}
	err = decoder.Decode(config)
	if err != nil {
		return errors.Wrapf(err, "failed to parse %s", networkFlags.OverrideParamsFile)
	}

	return applyOverrides(networkFlags.ActiveNetParams, config)
}

func applyOverrides(params *chaincfg.Params, config *overrideParamsConfig) error {
	if config.PowLimit != nil {
		powLimit, ok := big.NewInt(0).SetString(*config.PowLimit, 16)
		if !ok {
			return errors.Errorf("couldn't convert %s to big int", *config.PowLimit)
		}
		if powLimit.Sign() <= 0 || powLimit.BitLen() > 256 {
			return errors.Errorf("powLimit %s is not a positive 256-bit number", *config.PowLimit)
		}

		genesisTarget := arith.CompactToBig(params.GenesisHeader.Bits)
		if powLimit.Cmp(genesisTarget) < 0 {
			return errors.Errorf("powLimit (%s) is smaller than genesis's target (%s)", powLimit.Text(16),
				genesisTarget.Text(16))
		}
		params.PowLimit = powLimit
		params.PowLimitBits = arith.BigToCompact(powLimit)
	}

	if config.TargetTimespanSeconds != nil {
		params.TargetTimespan = time.Duration(*config.TargetTimespanSeconds) * time.Second
	}

	if config.TargetSpacingSeconds != nil {
		params.TargetSpacing = time.Duration(*config.TargetSpacingSeconds) * time.Second
	}

	if params.TargetSpacing <= 0 || params.TargetTimespan < params.TargetSpacing {
		return errors.Errorf("target timespan %s must be at least the target spacing %s, which must be positive",
			params.TargetTimespan, params.TargetSpacing)
	}

	if config.NoRetargeting != nil {
		params.NoRetargeting = *config.NoRetargeting
	}

	if config.AllowMinDifficultyBlocks != nil {
		params.AllowMinDifficultyBlocks = *config.AllowMinDifficultyBlocks
	}

	if config.SelectorForkHeight != nil {
		params.SelectorForkHeight = *config.SelectorForkHeight
	}

	if config.PositionForkHeight != nil {
		params.PositionForkHeight = *config.PositionForkHeight
	}

	if config.PositionV2ForkHeight != nil {
		params.PositionV2ForkHeight = *config.PositionV2ForkHeight
	}

	if config.PrevKeyForkHeight != nil {
		params.PrevKeyForkHeight = *config.PrevKeyForkHeight
	}

	if !(params.SelectorForkHeight < params.PositionForkHeight &&
		params.PositionForkHeight < params.PositionV2ForkHeight &&
		params.PositionV2ForkHeight < params.PrevKeyForkHeight) {

		return errors.Errorf("fork heights %d, %d, %d and %d are not strictly increasing",
			params.SelectorForkHeight, params.PositionForkHeight,
			params.PositionV2ForkHeight, params.PrevKeyForkHeight)
	}

	return nil
}
