package yapp

import (
	"bytes"
	"context"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// memRWS is a minimal in-memory io.ReadWriteSeeker standing in for the
// staging file Recv assembles a message into.
type memRWS struct {
	buf bytes.Buffer
	pos int
}

func (m *memRWS) Write(p []byte) (int, error) {
	n, err := m.buf.Write(p)
	m.pos = m.buf.Len()
	return n, err
}

func (m *memRWS) Read(p []byte) (int, error) {
	data := m.buf.Bytes()
	if m.pos >= len(data) {
		return 0, io.EOF
	}
	n := copy(p, data[m.pos:])
	m.pos += n
	return n, nil
}

func (m *memRWS) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		m.pos = int(offset)
	case io.SeekCurrent:
		m.pos += int(offset)
	case io.SeekEnd:
		m.pos = m.buf.Len() + int(offset)
	}
	return int64(m.pos), nil
}

func TestSendRecvRoundTrip(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	defer serverConn.Close()

	message := bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog, repeated. "), 40)

	errc := make(chan error, 1)
	go func() {
		errc <- Send(context.Background(), clientConn, bytes.NewReader(message), "test subject", &Options{Timeout: 2 * time.Second})
	}()

	staged := &memRWS{}
	subject, err := Recv(context.Background(), serverConn, staged, &Options{Timeout: 2 * time.Second})
	require.NoError(t, err)
	require.Equal(t, "test subject", subject)
	require.NoError(t, <-errc)

	var out bytes.Buffer
	_, err = Decode(staged, &out, nil)
	require.NoError(t, err)
	require.Equal(t, message, out.Bytes())
}

func TestSendRejectsOversizedSubject(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	defer serverConn.Close()

	longSubject := string(bytes.Repeat([]byte{'x'}, MaxSubjectLen+1))
	err := Send(context.Background(), clientConn, bytes.NewReader([]byte("data")), longSubject, nil)
	require.ErrorIs(t, err, ErrSubjectTooLong)
}

func TestRecvChecksumMismatchKeepsStagedData(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	defer serverConn.Close()

	go func() {
		writeFrame(clientConn, SOH, encodeSubjectPayload("subj"))
		writeFrame(clientConn, STX, []byte("payload"))
		writeEOT(clientConn, 0x00)
	}()

	staged := &memRWS{}
	subject, err := Recv(context.Background(), serverConn, staged, &Options{Timeout: 2 * time.Second})
	require.ErrorIs(t, err, ErrChecksumMismatch)
	require.Equal(t, "subj", subject)
	require.Equal(t, "payload", staged.buf.String())
}

func TestRecvProtocolErrorOnWrongFirstFrame(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	defer serverConn.Close()

	go writeFrame(clientConn, STX, []byte("oops"))

	staged := &memRWS{}
	_, err := Recv(context.Background(), serverConn, staged, &Options{Timeout: 2 * time.Second})
	require.ErrorIs(t, err, ErrProtocol)
}

func TestLimiterBoundsConcurrentSessions(t *testing.T) {
	lim := NewLimiter(1)
	ctx := context.Background()

	require.NoError(t, lim.acquire(ctx))

	ctx2, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	err := lim.acquire(ctx2)
	require.Error(t, err)

	lim.release()
	require.NoError(t, lim.acquire(context.Background()))
	lim.release()
}
