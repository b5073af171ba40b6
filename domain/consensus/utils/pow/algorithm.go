package pow

import (
	"fmt"

	"github.com/spreadcoin/spreadd/domain/chaincfg"
)

// Algorithm identifies one of the proof-of-work digest variants. Every
// hard-fork generation after the legacy one comes as an even-height and an
// odd-height variant.
type Algorithm uint8

// The proof-of-work digest variants, in activation order.
const (
	AlgorithmLegacy Algorithm = iota
	AlgorithmSelectorEven
	AlgorithmSelectorOdd
	AlgorithmPositionEven
	AlgorithmPositionOdd
	AlgorithmPositionV2Even
	AlgorithmPositionV2Odd
	AlgorithmPrevKeyEven
	AlgorithmPrevKeyOdd
)

var algorithmStrings = map[Algorithm]string{
	AlgorithmLegacy:         "Legacy",
	AlgorithmSelectorEven:   "SelectorEven",
	AlgorithmSelectorOdd:    "SelectorOdd",
	AlgorithmPositionEven:   "PositionEven",
	AlgorithmPositionOdd:    "PositionOdd",
	AlgorithmPositionV2Even: "PositionV2Even",
	AlgorithmPositionV2Odd:  "PositionV2Odd",
	AlgorithmPrevKeyEven:    "PrevKeyEven",
	AlgorithmPrevKeyOdd:     "PrevKeyOdd",
}

// String returns the Algorithm in human-readable form.
func (algorithm Algorithm) String() string {
	if s, ok := algorithmStrings[algorithm]; ok {
		return s
	}
	return fmt.Sprintf("Unknown Algorithm (%d)", uint8(algorithm))
}

// UsesSelector returns whether the digest is parametrized by the A and B
// selector bytes.
func (algorithm Algorithm) UsesSelector() bool {
	return algorithm != AlgorithmLegacy
}

// UsesTablePosition returns whether the digest is parametrized by the
// height modulo 64.
func (algorithm Algorithm) UsesTablePosition() bool {
	return algorithm >= AlgorithmPositionEven
}

// UsesPrevBlockKey returns whether the digest is parametrized by the public
// key derived from the previous block hash.
func (algorithm Algorithm) UsesPrevBlockKey() bool {
	return algorithm >= AlgorithmPrevKeyEven
}

// SelectAlgorithm returns the digest variant for a block at the given
// height. Fork heights are inclusive lower bounds and the highest activated
// fork wins.
func SelectAlgorithm(height uint32, params *chaincfg.Params) Algorithm {
	var even Algorithm
	switch {
	case height >= params.PrevKeyForkHeight:
		even = AlgorithmPrevKeyEven
	case height >= params.PositionV2ForkHeight:
		even = AlgorithmPositionV2Even
	case height >= params.PositionForkHeight:
		even = AlgorithmPositionEven
	case height >= params.SelectorForkHeight:
		even = AlgorithmSelectorEven
	default:
		return AlgorithmLegacy
	}

	if height%2 == 1 {
		return even + 1
	}
	return even
}
