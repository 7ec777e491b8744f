package yapp

import (
	"bytes"
	"context"
	"time"

	"github.com/pkg/errors"
)

// Frame type bytes (§6.4).
const (
	SOH = 0x01
	STX = 0x02
	EOT = 0x04
)

const (
	// MaxSubjectLen is the legacy SLEN: Send rejects longer subjects with
	// ErrSubjectTooLong, and encodeSubjectPayload truncates to it.
	MaxSubjectLen = 79
	// MaxSendChunk is the largest STX payload Send will emit.
	MaxSendChunk = 250
	// maxRecvChunk is the largest STX/SOH payload Recv will accept; a
	// length byte of 0 always means 256, never 0.
	maxRecvChunk = 256
)

// writeFrame emits type, a length byte (payload length, 0 meaning 256),
// and payload as a single Write.
func writeFrame(ch Channel, typ byte, payload []byte) error {
	length := len(payload)
	if length > maxRecvChunk {
		return errors.Errorf("yapp: frame payload too large (%d bytes)", length)
	}
	lenByte := byte(length)
	if length == maxRecvChunk {
		lenByte = 0
	}

	buf := make([]byte, 0, length+2)
	buf = append(buf, typ, lenByte)
	buf = append(buf, payload...)
	_, err := ch.Write(buf)
	return err
}

// readFrameType reads just the one-byte frame type that leads every frame
// (SOH/STX/EOT alike), applying timeout to the read — mirroring the legacy
// recv_yapp's j2alarm(timeoutms)-wrapped recvchar() call that fetches the
// type byte before recv_yapp branches on it.
func readFrameType(ctx context.Context, ch Channel, timeout time.Duration) (typ byte, err error) {
	var hdr [1]byte
	if _, err := readFull(ctx, ch, hdr[:], timeout); err != nil {
		return 0, errors.Wrap(ErrEarlyDisconnect, err.Error())
	}
	return hdr[0], nil
}

// readFramePayload reads a SOH/STX frame's length byte and payload, given
// the type byte has already been read via readFrameType. EOT has no length
// byte or payload and is read with readEOT instead (see below).
func readFramePayload(ctx context.Context, ch Channel, timeout time.Duration) (payload []byte, err error) {
	var lenBuf [1]byte
	if _, err := readFull(ctx, ch, lenBuf[:], timeout); err != nil {
		return nil, errors.Wrap(ErrEarlyDisconnect, err.Error())
	}
	length := int(lenBuf[0])
	if length == 0 {
		length = maxRecvChunk
	}

	payload = make([]byte, length)
	if _, err := readFull(ctx, ch, payload, timeout); err != nil {
		return nil, errors.Wrap(ErrEarlyDisconnect, err.Error())
	}
	return payload, nil
}

// readFrame reads one SOH/STX frame's type byte, length byte, and payload,
// applying timeout to each blocking read in turn. EOT is not read through
// here: unlike SOH/STX it carries no length byte (see writeEOT/readEOT).
func readFrame(ctx context.Context, ch Channel, timeout time.Duration) (typ byte, payload []byte, err error) {
	typ, err = readFrameType(ctx, ch, timeout)
	if err != nil {
		return 0, nil, err
	}
	payload, err = readFramePayload(ctx, ch, timeout)
	if err != nil {
		return 0, nil, err
	}
	return typ, payload, nil
}

// writeEOT emits the terminator frame: just the type byte and the checksum
// byte, with no length byte and no payload (§4.6, §6.4; unlike SOH/STX
// frames, per original_source/lzhuf/lzhuf.c's send_yapp, which writes
// buffer[0]=EOT, buffer[1]=checksum as a flat 2-byte send).
func writeEOT(ch Channel, checksum byte) error {
	_, err := ch.Write([]byte{EOT, checksum})
	return err
}

// readEOT reads the 2-byte EOT terminator's checksum byte, mirroring
// recv_yapp's single recvchar() in the EOT branch rather than the
// type+length+payload path used for SOH/STX.
func readEOT(ctx context.Context, ch Channel, timeout time.Duration) (checksum byte, err error) {
	var buf [1]byte
	if _, err := readFull(ctx, ch, buf[:], timeout); err != nil {
		return 0, errors.Wrap(ErrEarlyDisconnect, err.Error())
	}
	return buf[0], nil
}

// encodeSubjectPayload builds the SOH payload for subj, truncated to
// MaxSubjectLen, using the legacy non-REVISED layout:
// subject NUL '0' NUL — the branch actually compiled by the peers this
// interoperates with (SPEC_FULL.md §9).
func encodeSubjectPayload(subj string) []byte {
	if len(subj) > MaxSubjectLen {
		subj = subj[:MaxSubjectLen]
	}
	payload := make([]byte, 0, len(subj)+3)
	payload = append(payload, subj...)
	payload = append(payload, 0, '0', 0)
	return payload
}

// decodeSubjectPayload recovers the subject string from a SOH payload,
// accepting both the legacy "<subj>\0'0'\0" layout and the revised
// "<subj>\0     0\0" layout (SPEC_FULL.md §9): the subject is always
// everything before the first NUL.
func decodeSubjectPayload(payload []byte) string {
	if i := bytes.IndexByte(payload, 0); i >= 0 {
		return string(payload[:i])
	}
	return string(payload)
}

// eotChecksum computes the EOT checksum byte for a running sum of STX
// payload bytes: (-sum) & 0xFF.
func eotChecksum(sum int) byte {
	return byte(-sum) & 0xff
}
