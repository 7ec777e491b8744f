package lzhuf

import (
	"bytes"
	"io"
	"math/rand"
	"os"
	"testing"

	"gotest.tools/v3/assert"
)

func encodeToTemp(t *testing.T, input []byte, b2f bool) (*os.File, Stats) {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "lzhuf-*.bin")
	assert.NilError(t, err)
	t.Cleanup(func() { f.Close() })

	stats, err := Encode(bytes.NewReader(input), f, b2f, nil)
	assert.NilError(t, err)
	_, err = f.Seek(0, io.SeekStart)
	assert.NilError(t, err)
	return f, stats
}

func TestRoundTripShortText(t *testing.T) {
	for _, b2f := range []bool{false, true} {
		input := []byte("Hello, world!\n")
		f, _ := encodeToTemp(t, input, b2f)

		var out bytes.Buffer
		_, err := Decode(f, &out, b2f, nil)
		assert.NilError(t, err)
		assert.DeepEqual(t, out.Bytes(), input)
	}
}

func TestRoundTripHighlyCompressible(t *testing.T) {
	input := bytes.Repeat([]byte{0x00}, 10000)
	f, stats := encodeToTemp(t, input, false)

	if stats.OutputBytes > 200 {
		t.Errorf("compressed size = %d, want <= 200 for all-zero input", stats.OutputBytes)
	}

	var out bytes.Buffer
	_, err := Decode(f, &out, false, nil)
	assert.NilError(t, err)
	assert.DeepEqual(t, out.Bytes(), input)
}

func TestRoundTripRandomData(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	input := make([]byte, 10000)
	rng.Read(input)

	f, _ := encodeToTemp(t, input, false)

	var out bytes.Buffer
	_, err := Decode(f, &out, false, nil)
	assert.NilError(t, err)
	assert.DeepEqual(t, out.Bytes(), input)
}

func TestRoundTripBoundarySizes(t *testing.T) {
	sizes := []int{1, F - 1, F, F + 1, N - 1, N, N + 1, 2*N + 7}
	rng := rand.New(rand.NewSource(99))
	for _, size := range sizes {
		input := make([]byte, size)
		rng.Read(input)

		f, _ := encodeToTemp(t, input, false)

		var out bytes.Buffer
		_, err := Decode(f, &out, false, nil)
		assert.NilError(t, err)
		assert.DeepEqual(t, out.Bytes(), input)
	}
}

func TestEncodeEmptyInputFails(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "lzhuf-*.bin")
	assert.NilError(t, err)
	defer f.Close()

	_, err = Encode(bytes.NewReader(nil), f, false, nil)
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestEncodeB2FHeaderCarriesCRC(t *testing.T) {
	input := bytes.Repeat([]byte("A"), 1024)
	f, _ := encodeToTemp(t, input, true)

	all, err := os.ReadFile(f.Name())
	assert.NilError(t, err)

	storedCRC := uint16(all[0]) | uint16(all[1])<<8
	want := crc16B2F(all[2:])
	assert.Equal(t, storedCRC, want)
}

func TestYieldCalledDuringEncode(t *testing.T) {
	input := bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog "), 200)
	f, err := os.CreateTemp(t.TempDir(), "lzhuf-*.bin")
	assert.NilError(t, err)
	defer f.Close()

	calls := 0
	_, err = Encode(bytes.NewReader(input), f, false, &Options{
		Yield:         func() { calls++ },
		YieldInterval: 64,
	})
	assert.NilError(t, err)
	if calls == 0 {
		t.Error("expected Yield to be called at least once for a multi-kilobyte input")
	}
}

func TestDecodeZeroLengthFails(t *testing.T) {
	var hdr [4]byte
	_, err := Decode(bytes.NewReader(hdr[:]), io.Discard, false, nil)
	assert.ErrorIs(t, err, ErrZeroLength)
}

func TestDecodeTruncatedHeaderFails(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte{1, 2}), io.Discard, false, nil)
	assert.ErrorIs(t, err, ErrTruncatedHeader)
}
