package difficultymanager_test

import (
	"testing"

	"github.com/spreadcoin/spreadd/domain/chaincfg"
	"github.com/spreadcoin/spreadd/domain/consensus/model/externalapi"
	"github.com/spreadcoin/spreadd/domain/consensus/processes/difficultymanager"
)

const baseTime = 1500000000

// buildChain returns the tip of a chain of length blocks starting at
// startHeight, where every block has the given bits and is mined spacing
// seconds after its parent.
func buildChain(startHeight uint32, length int, bits uint32, spacing int64) *externalapi.HeaderNode {
	var tip *externalapi.HeaderNode
	for i := 0; i < length; i++ {
		header := &externalapi.BlockHeader{
			Height: startHeight + uint32(i),
			Time:   uint64(baseTime + int64(i)*spacing),
			Bits:   bits,
		}
		tip = externalapi.NewHeaderNode(header, tip)
	}
	return tip
}

func TestNextTargetSteadyState(t *testing.T) {
	params := &chaincfg.MainnetParams
	dm := difficultymanager.New(params)
	spacing := params.TargetSpacingSeconds()

	tip := buildChain(0, 30, 0x1d00ffff, spacing)
	bits, err := dm.NextTarget(tip, tip.Timestamp()+spacing)
	if err != nil {
		t.Fatalf("NextTarget: %+v", err)
	}
	if bits != 0x1d00ffff {
		t.Fatalf("expected the target to stay at 1d00ffff but got %08x", bits)
	}
}

func TestNextTargetBootstrap(t *testing.T) {
	params := &chaincfg.MainnetParams
	dm := difficultymanager.New(params)
	interval := int(params.RetargetInterval())

	bits, err := dm.NextTarget(nil, baseTime)
	if err != nil {
		t.Fatalf("NextTarget: %+v", err)
	}
	if bits != params.PowLimitBits {
		t.Fatalf("genesis: expected %08x but got %08x", params.PowLimitBits, bits)
	}

	// The tip height equals interval+2 on the last bootstrap block.
	tip := buildChain(0, interval+3, 0x1d00ffff, 120)
	bits, err = dm.NextTarget(tip, tip.Timestamp())
	if err != nil {
		t.Fatalf("NextTarget: %+v", err)
	}
	if bits != params.PowLimitBits {
		t.Fatalf("height %d: expected %08x but got %08x", tip.Height(), params.PowLimitBits, bits)
	}

	tip = buildChain(0, interval+4, 0x1d00ffff, 120)
	bits, err = dm.NextTarget(tip, tip.Timestamp())
	if err != nil {
		t.Fatalf("NextTarget: %+v", err)
	}
	if bits != 0x1d01fffe {
		t.Fatalf("height %d: expected a retarget to 1d01fffe but got %08x", tip.Height(), bits)
	}
}

func TestNextTargetClamp(t *testing.T) {
	params := &chaincfg.MainnetParams
	dm := difficultymanager.New(params)
	spacing := params.TargetSpacingSeconds()

	tests := []struct {
		name         string
		spacing      int64
		expectedBits uint32
	}{
		{"twice as slow", spacing * 2, 0x1d01fffe},
		{"three times as slow", spacing * 3, 0x1d02fffd},
		{"a hundred times as slow", spacing * 100, 0x1d02fffd},
		{"twice as fast", spacing / 2, 0x1c7fff80},
		{"three times as fast", spacing / 3, 0x1c555500},
		{"instant", 0, 0x1c555500},
	}

	for _, test := range tests {
		tip := buildChain(0, 30, 0x1d00ffff, test.spacing)
		bits, err := dm.NextTarget(tip, tip.Timestamp()+spacing)
		if err != nil {
			t.Fatalf("%s: NextTarget: %+v", test.name, err)
		}
		if bits != test.expectedBits {
			t.Errorf("%s: expected %08x but got %08x", test.name, test.expectedBits, bits)
		}
	}
}

func TestNextTargetNearLimit(t *testing.T) {
	// The harmonic target of a window mined at the testnet limit is as
	// long as the limit itself, which takes the overflow-avoiding shift.
	params := &chaincfg.TestnetParams
	dm := difficultymanager.New(params)
	spacing := params.TargetSpacingSeconds()

	tests := []struct {
		name         string
		spacing      int64
		expectedBits uint32
	}{
		{"on time", spacing, 0x1f00ffff},
		{"too slow", spacing * 3, params.PowLimitBits},
		{"too fast", spacing / 3, 0x1e555500},
	}

	for _, test := range tests {
		tip := buildChain(0, 30, params.PowLimitBits, test.spacing)
		bits, err := dm.NextTarget(tip, tip.Timestamp()+spacing)
		if err != nil {
			t.Fatalf("%s: NextTarget: %+v", test.name, err)
		}
		if bits != test.expectedBits {
			t.Errorf("%s: expected %08x but got %08x", test.name, test.expectedBits, bits)
		}
	}
}

func TestNextTargetNoRetargeting(t *testing.T) {
	params := chaincfg.RegtestParams.Clone()
	params.AllowMinDifficultyBlocks = false
	dm := difficultymanager.New(params)

	tip := buildChain(0, 30, 0x1d00ffff, 1)
	bits, err := dm.NextTarget(tip, tip.Timestamp()+1)
	if err != nil {
		t.Fatalf("NextTarget: %+v", err)
	}
	if bits != 0x1d00ffff {
		t.Fatalf("expected the tip bits but got %08x", bits)
	}
}

func TestNextTargetMinDifficulty(t *testing.T) {
	params := chaincfg.RegtestParams.Clone()
	params.NoRetargeting = false
	dm := difficultymanager.New(params)
	spacing := params.TargetSpacingSeconds()

	tip := buildChain(0, 30, 0x1d00ffff, spacing)
	bits, err := dm.NextTarget(tip, tip.Timestamp()+2*spacing+1)
	if err != nil {
		t.Fatalf("NextTarget: %+v", err)
	}
	if bits != params.PowLimitBits {
		t.Fatalf("expected the minimum difficulty but got %08x", bits)
	}

	bits, err = dm.NextTarget(tip, tip.Timestamp()+2*spacing)
	if err != nil {
		t.Fatalf("NextTarget: %+v", err)
	}
	if bits == params.PowLimitBits {
		t.Fatalf("a block exactly twice the target spacing after its parent must be retargeted")
	}
}

func TestNextTargetNoRetargetingOverridesMinDifficulty(t *testing.T) {
	params := chaincfg.RegtestParams.Clone()
	if !params.NoRetargeting || !params.AllowMinDifficultyBlocks {
		t.Fatalf("regtest is expected to set both NoRetargeting and AllowMinDifficultyBlocks")
	}
	dm := difficultymanager.New(params)
	spacing := params.TargetSpacingSeconds()

	tip := buildChain(0, 30, 0x1d00ffff, spacing)
	bits, err := dm.NextTarget(tip, tip.Timestamp()+10*spacing)
	if err != nil {
		t.Fatalf("NextTarget: %+v", err)
	}
	if bits != 0x1d00ffff {
		t.Fatalf("expected the tip bits for a late block but got %08x", bits)
	}
}

func TestNextTargetShortChainView(t *testing.T) {
	params := &chaincfg.MainnetParams
	dm := difficultymanager.New(params)

	tip := buildChain(100, 10, 0x1d00ffff, 60)
	_, err := dm.NextTarget(tip, tip.Timestamp()+60)
	if err == nil {
		t.Fatalf("expected an error for a chain view shorter than the retarget window")
	}

	// The window itself is available but the block that starts it isn't.
	tip = buildChain(100, int(params.RetargetInterval()), 0x1d00ffff, 60)
	_, err = dm.NextTarget(tip, tip.Timestamp()+60)
	if err == nil {
		t.Fatalf("expected an error for a missing first block")
	}
}

func TestNextTargetZeroMantissa(t *testing.T) {
	params := &chaincfg.MainnetParams
	dm := difficultymanager.New(params)

	tip := buildChain(0, 30, 0x1d000000, 60)
	_, err := dm.NextTarget(tip, tip.Timestamp()+60)
	if err == nil {
		t.Fatalf("expected an error for a zero target in the window")
	}
}
