package yapp

import "github.com/pkg/errors"

// ErrEarlyDisconnect is returned when the channel closes or times out
// before the frame state machine reaches S2 (done) — the Go equivalent of
// the legacy "lzhuf: unexpected disconnect" log line.
var ErrEarlyDisconnect = errors.New("yapp: unexpected disconnect")

// ErrProtocol is returned when a frame of an unexpected type arrives for
// the current state (e.g. STX before the subject SOH), mirroring the
// legacy FBBerror() protocol-violation paths.
var ErrProtocol = errors.New("yapp: protocol error")

// ErrChecksumMismatch is returned by Recv when the EOT checksum does not
// match the running sum of received STX payloads. The already-written
// output file is NOT removed — the legacy behavior logs but does not
// discard, leaving the choice to the caller (see SPEC_FULL.md §9).
var ErrChecksumMismatch = errors.New("yapp: eot checksum mismatch")

// ErrSubjectTooLong is returned by Send when the subject exceeds the
// legacy 79-byte limit.
var ErrSubjectTooLong = errors.New("yapp: subject exceeds maximum length")
