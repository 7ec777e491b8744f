package yapp

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"

	"github.com/wl2kgo/lzhuf"
)

// Limiter bounds how many concurrent Send/Recv sessions a host process
// runs against a single serial/AX.25 link multiplexer — the idiomatic
// replacement for the legacy code's cooperative pwait(NULL) yield points
// (SPEC_FULL.md §5). A nil *Limiter imposes no limit.
type Limiter struct {
	sem *semaphore.Weighted
}

// NewLimiter returns a Limiter admitting at most n concurrent sessions.
func NewLimiter(n int64) *Limiter {
	return &Limiter{sem: semaphore.NewWeighted(n)}
}

func (l *Limiter) acquire(ctx context.Context) error {
	if l == nil {
		return nil
	}
	return l.sem.Acquire(ctx, 1)
}

func (l *Limiter) release() {
	if l == nil {
		return
	}
	l.sem.Release(1)
}

// Options configures Send and Recv.
type Options struct {
	// B2F prefixes a CRC-16/CCITT-XMODEM over the compressed payload, per
	// the B2F extension.
	B2F bool
	// Timeout bounds every individual frame read. Zero means no deadline
	// beyond ctx's own.
	Timeout time.Duration
	// TempDir selects where the compressed staging file is created.
	// Empty means os.TempDir().
	TempDir string
	// Limiter, if set, bounds concurrent sessions sharing a link.
	Limiter *Limiter
	// Log receives protocol-violation and completion diagnostics. A nil
	// Log discards them.
	Log *logrus.Logger
	// CodecOpts is forwarded to the underlying lzhuf.Encode/Decode calls.
	CodecOpts *lzhuf.Options
}

var discardLogger = func() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}()

func (o *Options) log() *logrus.Logger {
	if o == nil || o.Log == nil {
		return discardLogger
	}
	return o.Log
}

func (o *Options) tempDir() string {
	if o == nil || o.TempDir == "" {
		return os.TempDir()
	}
	return o.TempDir
}

func (o *Options) timeout() time.Duration {
	if o == nil {
		return 0
	}
	return o.Timeout
}

func (o *Options) b2f() bool {
	return o != nil && o.B2F
}

func (o *Options) codecOpts() *lzhuf.Options {
	if o == nil {
		return nil
	}
	return o.CodecOpts
}

func (o *Options) limiter() *Limiter {
	if o == nil {
		return nil
	}
	return o.Limiter
}

// tempFile creates a uniquely-named staging file under dir, replacing the
// legacy tmpnam()/mktemp() naming with a collision-free UUID.
func tempFile(dir string) (*os.File, error) {
	name := filepath.Join(dir, "yapp-"+uuid.NewString()+".tmp")
	return os.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o600)
}

// Send compresses src and writes it to ch as a YAPP/B2F message under the
// given subject (§4.7 send_yapp): encode to a staging file, send the
// subject frame, stream 250-byte STX frames while tracking the running
// checksum, then send EOT.
func Send(ctx context.Context, ch Channel, src io.Reader, subject string, opts *Options) error {
	if len(subject) > MaxSubjectLen {
		return ErrSubjectTooLong
	}
	if err := opts.limiter().acquire(ctx); err != nil {
		return err
	}
	defer opts.limiter().release()

	tmp, err := tempFile(opts.tempDir())
	if err != nil {
		return errors.Wrap(err, "yapp: create staging file")
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	if _, err := lzhuf.Encode(src, tmp, opts.b2f(), opts.codecOpts()); err != nil {
		return errors.Wrap(err, "yapp: encode message")
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return errors.Wrap(err, "yapp: rewind staging file")
	}

	if err := writeFrame(ch, SOH, encodeSubjectPayload(subject)); err != nil {
		return errors.Wrap(err, "yapp: send subject frame")
	}

	chunk := make([]byte, MaxSendChunk)
	sum := 0
	for {
		n, rerr := tmp.Read(chunk)
		if n > 0 {
			for _, b := range chunk[:n] {
				sum += int(b)
			}
			if werr := writeFrame(ch, STX, chunk[:n]); werr != nil {
				return errors.Wrap(werr, "yapp: send data frame")
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return errors.Wrap(rerr, "yapp: read staging file")
		}
	}

	if err := writeEOT(ch, eotChecksum(sum)); err != nil {
		return errors.Wrap(err, "yapp: send eot frame")
	}

	opts.log().WithField("subject", subject).Debug("yapp: send complete")
	return nil
}

// recvState is the receive-side frame state machine position (§4.6).
type recvState int

const (
	stateAwaitSubject recvState = iota
	stateAwaitDataOrEnd
	stateDone
)

// Recv drives the YAPP/B2F state machine to reassemble one message from ch
// into dst, returning the sender's subject (§4.7 recv_yapp). dst must be
// seekable: on return it is rewound to the start so the caller can pass it
// straight to Decode. A checksum mismatch is returned as
// ErrChecksumMismatch but dst is left intact — the caller decides whether
// to discard it (SPEC_FULL.md §9).
func Recv(ctx context.Context, ch Channel, dst io.ReadWriteSeeker, opts *Options) (subject string, err error) {
	if err := opts.limiter().acquire(ctx); err != nil {
		return "", err
	}
	defer opts.limiter().release()

	state := stateAwaitSubject
	sum := 0

	for state != stateDone {
		typ, terr := readFrameType(ctx, ch, opts.timeout())
		if terr != nil {
			return "", terr
		}

		switch state {
		case stateAwaitSubject:
			if typ != SOH {
				perr := errors.Wrapf(ErrProtocol, "expected SOH, got %#x", typ)
				opts.log().WithError(perr).Warn("yapp: protocol error")
				return "", perr
			}
			payload, perr := readFramePayload(ctx, ch, opts.timeout())
			if perr != nil {
				return "", perr
			}
			subject = decodeSubjectPayload(payload)
			state = stateAwaitDataOrEnd

		case stateAwaitDataOrEnd:
			switch typ {
			case STX:
				payload, perr := readFramePayload(ctx, ch, opts.timeout())
				if perr != nil {
					return "", perr
				}
				for _, b := range payload {
					sum += int(b)
				}
				if _, werr := dst.Write(payload); werr != nil {
					return "", errors.Wrap(werr, "yapp: write staging file")
				}
			case EOT:
				want, eerr := readEOT(ctx, ch, opts.timeout())
				if eerr != nil {
					return "", eerr
				}
				state = stateDone
				if got := eotChecksum(sum); got != want {
					opts.log().WithFields(logrus.Fields{
						"want": want,
						"got":  got,
					}).Warn("yapp: eot checksum mismatch")
					if _, serr := dst.Seek(0, io.SeekStart); serr != nil {
						return subject, errors.Wrap(serr, "yapp: rewind staging file")
					}
					return subject, ErrChecksumMismatch
				}
			default:
				perr := errors.Wrapf(ErrProtocol, "expected STX or EOT, got %#x", typ)
				opts.log().WithError(perr).Warn("yapp: protocol error")
				return "", perr
			}
		}
	}

	if _, err := dst.Seek(0, io.SeekStart); err != nil {
		return subject, errors.Wrap(err, "yapp: rewind staging file")
	}

	opts.log().WithField("subject", subject).Debug("yapp: recv complete")
	return subject, nil
}

// Decode decompresses the staged file produced by Recv into plaintext.
// Split from Recv per §4.7 step 3 ("if no error, run Decode into the
// message file") so a caller can inspect a checksum mismatch before
// deciding whether to decode the staged data anyway.
func Decode(staged io.Reader, dst io.Writer, opts *Options) (lzhuf.Stats, error) {
	return lzhuf.Decode(staged, dst, opts.b2f(), opts.codecOpts())
}
