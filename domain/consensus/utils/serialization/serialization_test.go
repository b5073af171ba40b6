package serialization

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/spreadcoin/spreadd/domain/chaincfg"
	"github.com/spreadcoin/spreadd/domain/consensus/model/externalapi"
)

func testHeader() *externalapi.BlockHeader {
	header := &externalapi.BlockHeader{
		Version:  2,
		Time:     1397768193,
		Bits:     0x1e0fffff,
		Height:   123456,
		Nonce:    0xdeadbeef,
		Selector: externalapi.SelectorBytes{A: 1, B: 2, C: 3},
	}
	header.PrevBlockHash[0] = 0x11
	header.MerkleRoot[31] = 0x22
	header.WholeBlockHash[5] = 0x33
	header.MinerSignature[0] = 31
	header.MinerSignature[64] = 0x44
	return header
}

func TestCompactSize(t *testing.T) {
	tests := []struct {
		value    uint64
		expected []byte
	}{
		{0, []byte{0x00}},
		{0xfc, []byte{0xfc}},
		{0xfd, []byte{0xfd, 0xfd, 0x00}},
		{0xffff, []byte{0xfd, 0xff, 0xff}},
		{0x10000, []byte{0xfe, 0x00, 0x00, 0x01, 0x00}},
		{0xffffffff, []byte{0xfe, 0xff, 0xff, 0xff, 0xff}},
		{0x100000000, []byte{0xff, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00}},
	}

	for _, test := range tests {
		var buf bytes.Buffer
		err := WriteCompactSize(&buf, test.value)
		if err != nil {
			t.Fatalf("WriteCompactSize(%d): %s", test.value, err)
		}
		if !bytes.Equal(buf.Bytes(), test.expected) {
			t.Errorf("WriteCompactSize(%d): expected %x but got %x", test.value, test.expected, buf.Bytes())
		}
		value, err := ReadCompactSize(&buf)
		if err != nil {
			t.Fatalf("ReadCompactSize(%x): %s", test.expected, err)
		}
		if value != test.value {
			t.Errorf("ReadCompactSize(%x): expected %d but got %d", test.expected, test.value, value)
		}
	}
}

func TestCompactSizeNonCanonical(t *testing.T) {
	encodings := [][]byte{
		{0xfd, 0xfc, 0x00},
		{0xfe, 0xff, 0xff, 0x00, 0x00},
		{0xff, 0xff, 0xff, 0xff, 0xff, 0x00, 0x00, 0x00, 0x00},
	}
	for _, encoding := range encodings {
		_, err := ReadCompactSize(bytes.NewReader(encoding))
		if !IsMalformedError(err) {
			t.Errorf("ReadCompactSize(%x): expected a malformed error but got %v", encoding, err)
		}
	}
}

func TestHeaderSelectorGate(t *testing.T) {
	header := testHeader()

	var withoutSelector bytes.Buffer
	err := SerializeHeader(&withoutSelector, header, chaincfg.SelectorProtocolVersion-1)
	if err != nil {
		t.Fatalf("SerializeHeader: %s", err)
	}
	const baseSize = 4 + 32 + 32 + 8 + 4 + 4 + 4 + 32 + externalapi.MinerSignatureSize
	if withoutSelector.Len() != baseSize {
		t.Fatalf("expected %d bytes before the selector version but got %d", baseSize, withoutSelector.Len())
	}

	var withSelector bytes.Buffer
	err = SerializeHeader(&withSelector, header, chaincfg.SelectorProtocolVersion)
	if err != nil {
		t.Fatalf("SerializeHeader: %s", err)
	}
	if withSelector.Len() != baseSize+3 {
		t.Fatalf("expected %d bytes at the selector version but got %d", baseSize+3, withSelector.Len())
	}
	if !bytes.Equal(withSelector.Bytes()[:baseSize], withoutSelector.Bytes()) {
		t.Fatalf("selector record must only be appended")
	}
	if !bytes.Equal(withSelector.Bytes()[baseSize:], []byte{1, 2, 3}) {
		t.Fatalf("unexpected selector record %x", withSelector.Bytes()[baseSize:])
	}
}

func TestHeaderDeserialize(t *testing.T) {
	header := testHeader()

	var buf bytes.Buffer
	err := SerializeHeader(&buf, header, chaincfg.SelectorProtocolVersion)
	if err != nil {
		t.Fatalf("SerializeHeader: %s", err)
	}
	decoded, err := DeserializeHeader(&buf, chaincfg.SelectorProtocolVersion)
	if err != nil {
		t.Fatalf("DeserializeHeader: %s", err)
	}
	if !reflect.DeepEqual(decoded, header) {
		t.Errorf("decoded header mismatch - got %v, want %v", spew.Sdump(decoded), spew.Sdump(header))
	}

	// An old peer never sends the selector, so it must come back empty.
	buf.Reset()
	err = SerializeHeader(&buf, header, chaincfg.SelectorProtocolVersion-1)
	if err != nil {
		t.Fatalf("SerializeHeader: %s", err)
	}
	decoded, err = DeserializeHeader(&buf, chaincfg.SelectorProtocolVersion-1)
	if err != nil {
		t.Fatalf("DeserializeHeader: %s", err)
	}
	if !decoded.Selector.IsNull() {
		t.Errorf("expected a null selector but got %s", decoded.Selector)
	}
}

func TestHeaderDeserializeTruncated(t *testing.T) {
	var buf bytes.Buffer
	err := SerializeHeader(&buf, testHeader(), chaincfg.SelectorProtocolVersion)
	if err != nil {
		t.Fatalf("SerializeHeader: %s", err)
	}
	truncated := buf.Bytes()[:buf.Len()-1]
	_, err = DeserializeHeader(bytes.NewReader(truncated), chaincfg.SelectorProtocolVersion)
	if !IsMalformedError(err) {
		t.Errorf("expected a malformed error but got %v", err)
	}
}

func TestSerializeTransactions(t *testing.T) {
	transactions := []*externalapi.DomainTransaction{
		{Serialized: []byte{1, 2, 3}},
		{Serialized: []byte{4}},
	}
	var buf bytes.Buffer
	err := SerializeTransactions(&buf, transactions)
	if err != nil {
		t.Fatalf("SerializeTransactions: %s", err)
	}
	expected := []byte{2, 1, 2, 3, 4}
	if !bytes.Equal(buf.Bytes(), expected) {
		t.Errorf("expected %x but got %x", expected, buf.Bytes())
	}
}

func TestWriteElementUnknownType(t *testing.T) {
	var buf bytes.Buffer
	err := WriteElement(&buf, "string")
	if err == nil {
		t.Fatalf("expected an error for an unsupported type")
	}
}
