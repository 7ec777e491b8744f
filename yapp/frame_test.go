package yapp

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeSubjectPayloadLegacy(t *testing.T) {
	payload := encodeSubjectPayload("Test Message")
	require.Equal(t, "Test Message", decodeSubjectPayload(payload))
}

func TestDecodeSubjectPayloadRevisedVariant(t *testing.T) {
	var payload []byte
	payload = append(payload, "Test Message"...)
	payload = append(payload, 0)
	payload = append(payload, "     0"...)
	payload = append(payload, 0)
	require.Equal(t, "Test Message", decodeSubjectPayload(payload))
}

func TestEncodeSubjectPayloadTruncatesOverLength(t *testing.T) {
	long := bytes.Repeat([]byte{'x'}, MaxSubjectLen+20)
	payload := encodeSubjectPayload(string(long))
	require.Equal(t, MaxSubjectLen, len(decodeSubjectPayload(payload)))
}

func TestEotChecksum(t *testing.T) {
	require.Equal(t, byte(0), eotChecksum(0))
	require.Equal(t, byte(0xFF), eotChecksum(1))
	require.Equal(t, byte(0), eotChecksum(256))
}

func TestWriteReadFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeFrame(&buf, STX, []byte("hello")))

	typ, payload, err := readFrame(context.Background(), &buf, time.Second)
	require.NoError(t, err)
	require.Equal(t, byte(STX), typ)
	require.Equal(t, []byte("hello"), payload)
}

func TestWriteReadFrameZeroLengthMeans256(t *testing.T) {
	var buf bytes.Buffer
	payload := bytes.Repeat([]byte{0x42}, 256)
	require.NoError(t, writeFrame(&buf, STX, payload))

	typ, got, err := readFrame(context.Background(), &buf, time.Second)
	require.NoError(t, err)
	require.Equal(t, byte(STX), typ)
	require.Equal(t, payload, got)
}

func TestWriteFrameRejectsOversizedPayload(t *testing.T) {
	var buf bytes.Buffer
	err := writeFrame(&buf, STX, make([]byte, 257))
	require.Error(t, err)
}

func TestReadFrameEarlyDisconnectOnMissingLength(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteByte(SOH)

	_, _, err := readFrame(context.Background(), &buf, time.Second)
	require.ErrorIs(t, err, ErrEarlyDisconnect)
}

func TestReadFrameEarlyDisconnectOnTruncatedPayload(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteByte(STX)
	buf.WriteByte(5)
	buf.Write([]byte("ab"))

	_, _, err := readFrame(context.Background(), &buf, time.Second)
	require.ErrorIs(t, err, ErrEarlyDisconnect)
}

// writeEOT must emit exactly two bytes (type, checksum) — no length byte
// and no payload, unlike SOH/STX — so a real legacy peer's 2-byte EOT is
// never misread as a frame with a phantom payload.
func TestWriteEOTIsExactlyTwoBytes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeEOT(&buf, 0x7f))
	require.Equal(t, []byte{EOT, 0x7f}, buf.Bytes())
}

func TestReadEOTRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeEOT(&buf, 0x7f))

	typ, err := readFrameType(context.Background(), &buf, time.Second)
	require.NoError(t, err)
	require.Equal(t, byte(EOT), typ)

	ck, err := readEOT(context.Background(), &buf, time.Second)
	require.NoError(t, err)
	require.Equal(t, byte(0x7f), ck)
	require.Equal(t, 0, buf.Len())
}
