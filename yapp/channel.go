// Package yapp implements the YAPP/B2F framed transport that carries an
// lzhuf-compressed message over an 8-bit-clean byte stream: a subject
// header, fixed-size data chunks, and a trailing checksum frame.
package yapp

import (
	"context"
	"io"
	"time"
)

// Channel is the abstract bidirectional byte stream the frame engine and
// session glue operate over — a serial port, AX.25 socket, or TCP
// connection. It replaces the legacy code's raw usock file descriptor.
type Channel interface {
	io.Reader
	io.Writer
}

// DeadlineChannel is a Channel that can bound an individual read. This is
// the idiomatic replacement for the legacy j2alarm(timeoutms)/j2alarm(0)
// arm/disarm pairing wrapped around recvchar/recvbuf; net.Conn satisfies
// it directly.
type DeadlineChannel interface {
	Channel
	SetReadDeadline(t time.Time) error
}

// readFull fills buf from ch, arming a per-call deadline when ch supports
// one (falling back to ctx's own deadline when no explicit timeout was
// given) and then reading synchronously. It is the one place a blocking
// read can fail with EarlyDisconnect.
//
// Cancellation is only honored for a DeadlineChannel: arming its read
// deadline makes the blocking Read itself return promptly, so no extra
// goroutine is needed to race it against ctx.Done(). A plain Channel with
// no deadline support has no way to interrupt an in-flight Read short of
// spawning a goroutine that would leak past cancellation and keep writing
// into buf after the caller has moved on — so for a plain Channel, ctx and
// timeout are best-effort only: readFull reads synchronously and returns
// whenever the underlying Read does.
func readFull(ctx context.Context, ch Channel, buf []byte, timeout time.Duration) (int, error) {
	if dc, ok := ch.(DeadlineChannel); ok {
		switch {
		case timeout > 0:
			if err := dc.SetReadDeadline(time.Now().Add(timeout)); err != nil {
				return 0, err
			}
			defer dc.SetReadDeadline(time.Time{})
		default:
			if dl, ok := ctx.Deadline(); ok {
				if err := dc.SetReadDeadline(dl); err != nil {
					return 0, err
				}
				defer dc.SetReadDeadline(time.Time{})
			}
		}
	}

	return io.ReadFull(ch, buf)
}
