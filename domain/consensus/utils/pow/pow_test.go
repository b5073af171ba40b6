package pow_test

import (
	"encoding/hex"
	"testing"

	"github.com/spreadcoin/spreadd/domain/chaincfg"
	"github.com/spreadcoin/spreadd/domain/consensus/model/externalapi"
	"github.com/spreadcoin/spreadd/domain/consensus/utils/consensushashing"
	"github.com/spreadcoin/spreadd/domain/consensus/utils/pow"
	"github.com/spreadcoin/spreadd/domain/consensus/utils/powhash"
)

type recordingFamily struct {
	algorithm pow.Algorithm
	mix       *pow.MixParams
}

func (f *recordingFamily) Digest(algorithm pow.Algorithm, headerBytes []byte, mix *pow.MixParams) *externalapi.DomainHash {
	f.algorithm = algorithm
	f.mix = mix
	return &externalapi.DomainHash{}
}

func TestSelectAlgorithm(t *testing.T) {
	params := &chaincfg.MainnetParams
	t1, t2, t3, t4 := params.SelectorForkHeight, params.PositionForkHeight,
		params.PositionV2ForkHeight, params.PrevKeyForkHeight

	tests := []struct {
		height   uint32
		expected pow.Algorithm
	}{
		{0, pow.AlgorithmLegacy},
		{1, pow.AlgorithmLegacy},
		{t1 - 2, pow.AlgorithmLegacy},
		{t1 - 1, pow.AlgorithmLegacy},
		{t1, pow.AlgorithmSelectorEven},
		{t1 + 1, pow.AlgorithmSelectorOdd},
		{t2 - 1, pow.AlgorithmSelectorOdd},
		{t2, pow.AlgorithmPositionEven},
		{t2 + 1, pow.AlgorithmPositionOdd},
		{t3 - 1, pow.AlgorithmPositionOdd},
		{t3, pow.AlgorithmPositionV2Even},
		{t3 + 1, pow.AlgorithmPositionV2Odd},
		{t4 - 1, pow.AlgorithmPositionV2Odd},
		{t4, pow.AlgorithmPrevKeyEven},
		{t4 + 1, pow.AlgorithmPrevKeyOdd},
		{^uint32(0), pow.AlgorithmPrevKeyOdd},
	}

	for _, test := range tests {
		algorithm := pow.SelectAlgorithm(test.height, params)
		if algorithm != test.expected {
			t.Errorf("SelectAlgorithm(%d): expected %s but got %s", test.height, test.expected, algorithm)
		}
	}
}

func TestSelectAlgorithmForkHeightsInOrder(t *testing.T) {
	for _, params := range []*chaincfg.Params{&chaincfg.MainnetParams, &chaincfg.TestnetParams, &chaincfg.RegtestParams} {
		if !(params.SelectorForkHeight < params.PositionForkHeight &&
			params.PositionForkHeight < params.PositionV2ForkHeight &&
			params.PositionV2ForkHeight < params.PrevKeyForkHeight) {
			t.Errorf("%s: fork heights are not strictly increasing", params.Name)
		}
	}
}

func TestNewMixParams(t *testing.T) {
	header := &externalapi.BlockHeader{
		Height:   130,
		Selector: externalapi.SelectorBytes{A: 5, B: 6, C: 7},
	}
	header.PrevBlockHash[31] = 1

	legacy := pow.NewMixParams(pow.AlgorithmLegacy, header)
	if legacy.A != 0 || legacy.B != 0 || legacy.TablePosition != 0 || legacy.PrevBlockKey != nil {
		t.Errorf("legacy mix params must be empty, got %+v", legacy)
	}

	selector := pow.NewMixParams(pow.AlgorithmSelectorEven, header)
	if selector.A != 5 || selector.B != 6 || selector.TablePosition != 0 {
		t.Errorf("unexpected selector mix params %+v", selector)
	}

	position := pow.NewMixParams(pow.AlgorithmPositionEven, header)
	if position.TablePosition != 130%64 || position.PrevBlockKey != nil {
		t.Errorf("unexpected position mix params %+v", position)
	}

	prevKey := pow.NewMixParams(pow.AlgorithmPrevKeyEven, header)
	if prevKey.PrevBlockKey == nil || !prevKey.PrevBlockKey.Equal(pow.PrevBlockKey(&header.PrevBlockHash)) {
		t.Errorf("expected the previous block key to be derived")
	}
}

func TestPrevBlockKey(t *testing.T) {
	// A previous block hash of 1 yields the generator point.
	var one externalapi.DomainHash
	one[31] = 1
	expected, err := hex.DecodeString("79be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798")
	if err != nil {
		t.Fatalf("DecodeString: %s", err)
	}
	key := pow.PrevBlockKey(&one)
	if hex.EncodeToString(key[:]) != hex.EncodeToString(expected) {
		t.Errorf("expected %x but got %x", expected, key[:])
	}

	if zeroKey := pow.PrevBlockKey(&externalapi.DomainHash{}); !zeroKey.IsZero() {
		t.Errorf("expected the zero key for a zero hash but got %x", zeroKey[:])
	}
}

func TestCheckProofOfWork(t *testing.T) {
	params := &chaincfg.MainnetParams

	// 0x1e0fffff decodes to 0x0fffff << 216.
	var atTarget externalapi.DomainHash
	atTarget[27], atTarget[28], atTarget[29] = 0xff, 0xff, 0x0f
	aboveTarget := atTarget
	aboveTarget[30] = 1
	belowTarget := atTarget
	belowTarget[29] = 0x0e

	tests := []struct {
		name     string
		hash     *externalapi.DomainHash
		bits     uint32
		expected bool
	}{
		{"below target", &belowTarget, 0x1e0fffff, true},
		{"at target", &atTarget, 0x1e0fffff, true},
		{"above target", &aboveTarget, 0x1e0fffff, false},
		{"zero hash", &externalapi.DomainHash{}, 0x1e0fffff, true},
		{"negative target", &externalapi.DomainHash{}, 0x01803456, false},
		{"zero target", &externalapi.DomainHash{}, 0x00000000, false},
		{"overflowing target", &externalapi.DomainHash{}, 0xff123456, false},
		{"target above limit", &externalapi.DomainHash{}, 0x1f00ffff, false},
	}

	for _, test := range tests {
		result := pow.CheckProofOfWork(test.hash, test.bits, params)
		if result != test.expected {
			t.Errorf("%s: expected %t but got %t", test.name, test.expected, result)
		}
	}
}

func TestPowHashAlgorithmSwitch(t *testing.T) {
	params := &chaincfg.MainnetParams
	family := powhash.New()

	header := &externalapi.BlockHeader{
		Version:  2,
		Time:     1500000000,
		Bits:     params.PowLimitBits,
		Nonce:    77,
		Selector: externalapi.SelectorBytes{A: 3, B: 9, C: 1},
	}
	header.PrevBlockHash[0] = 0x42

	before := header.Clone()
	before.Height = params.SelectorForkHeight - 1
	after := header.Clone()
	after.Height = params.SelectorForkHeight

	legacyHash := pow.PowHash(before, family, params)
	expectedLegacy := family.Digest(pow.AlgorithmLegacy, consensushashing.PowHeaderBytes(before), &pow.MixParams{})
	if !legacyHash.Equal(expectedLegacy) {
		t.Fatalf("expected the legacy digest below the selector fork")
	}

	selectorHash := pow.PowHash(after, family, params)
	expectedSelector := family.Digest(pow.AlgorithmSelectorEven, consensushashing.PowHeaderBytes(after),
		&pow.MixParams{A: 3, B: 9})
	if !selectorHash.Equal(expectedSelector) {
		t.Fatalf("expected the selector digest at the selector fork")
	}
	if selectorHash.Equal(legacyHash) {
		t.Fatalf("proof-of-work hash did not change across the selector fork")
	}

	// The signature hash never depends on the selector record.
	withoutSelector := after.Clone()
	withoutSelector.Selector = externalapi.SelectorBytes{}
	if !consensushashing.SignatureHash(after).Equal(consensushashing.SignatureHash(withoutSelector)) {
		t.Fatalf("signature hash must not depend on the selector record")
	}
}

func TestPowHashIgnoresSignatureAndWholeBlockHash(t *testing.T) {
	params := &chaincfg.MainnetParams
	family := powhash.New()
	header := &externalapi.BlockHeader{Height: params.PrevKeyForkHeight, Bits: params.PowLimitBits}
	expected := pow.PowHash(header, family, params)

	header.MinerSignature[0] = 31
	header.WholeBlockHash[0] = 1
	if !pow.PowHash(header, family, params).Equal(expected) {
		t.Fatalf("proof-of-work hash must not cover the signature or the whole-block hash")
	}
}

func TestVariantsAreDistinct(t *testing.T) {
	family := powhash.New()
	headerBytes := make([]byte, consensushashing.PowInputSize)
	key := &externalapi.DomainHash{1}
	seen := make(map[externalapi.DomainHash]pow.Algorithm)
	for algorithm := pow.AlgorithmLegacy; algorithm <= pow.AlgorithmPrevKeyOdd; algorithm++ {
		mix := &pow.MixParams{A: 1, B: 2, TablePosition: 3, PrevBlockKey: key}
		digest := family.Digest(algorithm, headerBytes, mix)
		if other, ok := seen[*digest]; ok {
			t.Fatalf("%s and %s produced the same digest", algorithm, other)
		}
		seen[*digest] = algorithm
	}
}

func TestStateMatchesPowHash(t *testing.T) {
	params := &chaincfg.RegtestParams
	family := powhash.New()
	header := &externalapi.BlockHeader{
		Version:  1,
		Height:   params.PositionForkHeight + 3,
		Bits:     params.PowLimitBits,
		Nonce:    0x100,
		Selector: externalapi.SelectorBytes{A: 1, B: 2},
	}

	state := pow.NewState(header, family, params)
	if state.Algorithm() != pow.AlgorithmPositionOdd {
		t.Fatalf("expected %s but got %s", pow.AlgorithmPositionOdd, state.Algorithm())
	}
	for i := 0; i < 5; i++ {
		hash, _ := state.CheckProofOfWork()
		header.Nonce = state.Nonce
		if expected := pow.PowHash(header, family, params); !hash.Equal(expected) {
			t.Fatalf("nonce %d: state hash %s differs from %s", state.Nonce, hash, expected)
		}
		state.IncrementNonce()
	}
}

func TestStateInvalidTarget(t *testing.T) {
	params := &chaincfg.RegtestParams
	family := &recordingFamily{}
	header := &externalapi.BlockHeader{Height: params.PrevKeyForkHeight, Bits: 0x01803456}
	state := pow.NewState(header, family, params)
	if _, ok := state.CheckProofOfWork(); ok {
		t.Fatalf("a negative target must never be satisfied")
	}
	if family.algorithm != pow.AlgorithmPrevKeyEven || family.mix.PrevBlockKey == nil {
		t.Fatalf("unexpected digest inputs %s %+v", family.algorithm, family.mix)
	}
}
