package lzhuf

import (
	"bytes"
	"testing"
)

func TestBitWriterReaderRoundTrip(t *testing.T) {
	groups := []struct {
		bits  int
		value uint16
	}{
		{3, 0x05 << 13},
		{9, 0x1A3 << 7},
		{4, 0x0C << 12},
		{16, 0xBEEF},
		{1, 0x8000},
		{7, 0x2A << 9},
	}

	var buf bytes.Buffer
	bw := newBitWriter(&buf)
	for _, g := range groups {
		bw.put(g.bits, g.value)
	}
	bw.flush()

	br := newBitReader(bytes.NewReader(buf.Bytes()))
	for _, g := range groups {
		var got uint16
		for i := 0; i < g.bits; i++ {
			got = (got << 1) | uint16(br.getBit())
		}
		want := g.value >> uint(16-g.bits)
		if got != want {
			t.Errorf("bits=%d: got %#x, want %#x", g.bits, got, want)
		}
	}
}

func TestBitWriterGetByteAlignment(t *testing.T) {
	var buf bytes.Buffer
	bw := newBitWriter(&buf)
	bw.put(8, 0xAB<<8)
	bw.put(8, 0xCD<<8)
	bw.flush()

	br := newBitReader(bytes.NewReader(buf.Bytes()))
	if got := br.getByte(); got != 0xAB {
		t.Errorf("first byte = %#x, want 0xab", got)
	}
	if got := br.getByte(); got != 0xCD {
		t.Errorf("second byte = %#x, want 0xcd", got)
	}
}

func TestBitReaderPastEndOfStreamReturnsZero(t *testing.T) {
	br := newBitReader(bytes.NewReader(nil))
	for i := 0; i < 16; i++ {
		if bit := br.getBit(); bit != 0 {
			t.Fatalf("bit %d past end of stream = %d, want 0", i, bit)
		}
	}
}

func TestBitWriterFlushNoopWhenAligned(t *testing.T) {
	var buf bytes.Buffer
	bw := newBitWriter(&buf)
	bw.put(8, 0x42<<8)
	before := buf.Len()
	bw.flush()
	if buf.Len() != before {
		t.Errorf("flush after byte-aligned put wrote %d extra bytes, want 0", buf.Len()-before)
	}
}
