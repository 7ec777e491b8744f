package lzhuf

import (
	"bufio"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Stats reports the input/output byte counts of a completed Encode or
// Decode call — the Go-native form of the legacy codesize/iFileSize
// bookkeeping behind the "lzhuf compress N/M = P percent" log line.
// For Encode, OutputBytes counts the compressed bitstream only, not the
// length or CRC header. For Decode, InputBytes is the original length taken
// from the header (less 2 when b2f is set), not the number of compressed
// bytes read from src.
type Stats struct {
	InputBytes  int64
	OutputBytes int64
}

// Options configures an Encode or Decode call. A nil *Options is valid
// everywhere and selects the defaults.
type Options struct {
	// Yield, if non-nil, is called periodically from the encode/decode
	// inner loop (see YieldInterval). It is the cooperative-multiplexing
	// hook a host process uses to interleave sessions on one link,
	// replacing the legacy pwait(NULL) call in the C inner loops.
	Yield func()
	// YieldInterval sets how many processed bytes elapse between Yield
	// calls. Zero selects the default of 256.
	YieldInterval int
	// Log receives compression-ratio and diagnostic entries. A nil Log
	// discards them.
	Log *logrus.Logger
}

const defaultYieldInterval = 256

func (o *Options) yieldInterval() int {
	if o == nil || o.YieldInterval <= 0 {
		return defaultYieldInterval
	}
	return o.YieldInterval
}

func (o *Options) yield() {
	if o != nil && o.Yield != nil {
		o.Yield()
	}
}

func (o *Options) log() *logrus.Logger {
	if o == nil || o.Log == nil {
		return discardLogger
	}
	return o.Log
}

var discardLogger = func() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}()

// Encode compresses all of src into dst. dst must be seekable: when b2f is
// set, a CRC-16/CCITT-XMODEM of the compressed payload is back-patched into
// the first two bytes after the full payload has been written (§6.1), which
// requires rewinding dst rather than streaming it directly to a socket.
func Encode(src io.Reader, dst io.ReadWriteSeeker, b2f bool, opts *Options) (Stats, error) {
	log := opts.log()

	input, err := io.ReadAll(src)
	if err != nil {
		return Stats{}, errors.Wrap(err, "lzhuf: read input")
	}
	if len(input) == 0 {
		return Stats{}, ErrEmptyInput
	}

	if b2f {
		var placeholder [2]byte
		if _, err := dst.Write(placeholder[:]); err != nil {
			return Stats{}, errors.Wrap(err, "lzhuf: write crc placeholder")
		}
	}

	storedLen := uint32(len(input))
	if b2f {
		storedLen += 2
	}
	var lenHdr [4]byte
	binary.LittleEndian.PutUint32(lenHdr[:], storedLen)
	if _, err := dst.Write(lenHdr[:]); err != nil {
		return Stats{}, errors.Wrap(err, "lzhuf: write length header")
	}

	w := &window{}
	w.reset()
	var h huffman
	h.start()
	out := bufio.NewWriter(dst)
	bw := newBitWriter(out)

	srcPos := 0
	readByte := func() (byte, bool) {
		if srcPos >= len(input) {
			return 0, false
		}
		b := input[srcPos]
		srcPos++
		return b, true
	}

	s := 0
	r := N - F
	dataLen := 0
	for dataLen < F {
		c, ok := readByte()
		if !ok {
			break
		}
		w.textBuf[r+dataLen] = c
		dataLen++
	}
	for i := 1; i <= F; i++ {
		w.insertNode(r - i)
	}
	w.insertNode(r)

	yieldEvery := opts.yieldInterval()
	processed := 0

	for dataLen > 0 {
		if w.matchLength > dataLen {
			w.matchLength = dataLen
		}
		if w.matchLength <= Threshold {
			w.matchLength = 1
			h.encodeChar(bw, int(w.textBuf[r]))
		} else {
			h.encodeChar(bw, 255-Threshold+w.matchLength)
			encodePosition(bw, w.matchPosition)
		}

		lastMatchLength := w.matchLength
		i := 0
		for ; i < lastMatchLength; i++ {
			c, ok := readByte()
			if !ok {
				break
			}
			w.deleteNode(s)
			w.textBuf[s] = c
			if s < F-1 {
				w.textBuf[s+N] = c
			}
			s = (s + 1) & (N - 1)
			r = (r + 1) & (N - 1)
			w.insertNode(r)

			processed++
			if processed%yieldEvery == 0 {
				opts.yield()
			}
		}
		for ; i < lastMatchLength; i++ {
			w.deleteNode(s)
			s = (s + 1) & (N - 1)
			r = (r + 1) & (N - 1)
			dataLen--
			if dataLen > 0 {
				w.insertNode(r)
			}
		}
	}
	bw.flush()
	if bw.lastErr != nil {
		return Stats{}, errors.Wrap(bw.lastErr, "lzhuf: write compressed stream")
	}
	if err := out.Flush(); err != nil {
		return Stats{}, errors.Wrap(err, "lzhuf: flush compressed stream")
	}

	stats := Stats{InputBytes: int64(len(input)), OutputBytes: bw.nbytes}

	if b2f {
		if err := backpatchCRC(dst); err != nil {
			return Stats{}, err
		}
	}

	log.WithFields(logrus.Fields{
		"codesize": stats.OutputBytes,
		"filesize": stats.InputBytes,
		"percent":  (stats.InputBytes - stats.OutputBytes) * 100 / stats.InputBytes,
	}).Debug("lzhuf compress")

	return stats, nil
}

// backpatchCRC rewinds to offset 2, sums a CRC-16/CCITT-XMODEM over every
// byte written since, then rewrites the first two bytes with it. Called
// once, after the full compressed payload is on dst.
func backpatchCRC(dst io.ReadWriteSeeker) error {
	if _, err := dst.Seek(2, io.SeekStart); err != nil {
		return errors.Wrap(err, "lzhuf: seek past crc placeholder")
	}
	payload, err := io.ReadAll(dst)
	if err != nil {
		return errors.Wrap(err, "lzhuf: read compressed payload for crc")
	}
	crc := crc16B2F(payload)

	if _, err := dst.Seek(0, io.SeekStart); err != nil {
		return errors.Wrap(err, "lzhuf: seek to crc header")
	}
	var hdr [2]byte
	binary.LittleEndian.PutUint16(hdr[:], crc)
	if _, err := dst.Write(hdr[:]); err != nil {
		return errors.Wrap(err, "lzhuf: write crc header")
	}
	return nil
}

// Decode decompresses src into dst. src is consumed sequentially — no
// seeking is required on decode, since the 2-byte CRC header (when b2f is
// set) is read and skipped, not recomputed or checked here (see yapp.Recv
// for the frame-level checksum, which is the one the legacy code actually
// checks on receive).
func Decode(src io.Reader, dst io.Writer, b2f bool, opts *Options) (Stats, error) {
	log := opts.log()

	if b2f {
		var crcHdr [2]byte
		if _, err := io.ReadFull(src, crcHdr[:]); err != nil {
			return Stats{}, errors.Wrap(ErrTruncatedHeader, err.Error())
		}
	}

	var lenHdr [4]byte
	if _, err := io.ReadFull(src, lenHdr[:]); err != nil {
		return Stats{}, errors.Wrap(ErrTruncatedHeader, err.Error())
	}
	storedLen := binary.LittleEndian.Uint32(lenHdr[:])
	if storedLen == 0 {
		return Stats{}, ErrZeroLength
	}
	filesize := int64(storedLen)
	if b2f {
		filesize -= 2
	}

	var h huffman
	h.start()
	var textBuf [N + F - 1]byte
	for i := 0; i < N-F; i++ {
		textBuf[i] = ' '
	}
	r := N - F

	br := newBitReader(src)
	out := bufio.NewWriter(dst)
	yieldEvery := opts.yieldInterval()

	var count int64
	for count < filesize {
		opts.yield()

		c := h.decodeChar(br)
		if c < 256 {
			if err := out.WriteByte(byte(c)); err != nil {
				return Stats{}, errors.Wrap(err, "lzhuf: write decoded byte")
			}
			textBuf[r] = byte(c)
			r = (r + 1) & (N - 1)
			count++
		} else {
			i := (r - decodePosition(br) - 1) & (N - 1)
			j := c - 255 + Threshold
			for k := 0; k < j; k++ {
				b := textBuf[(i+k)&(N-1)]
				if err := out.WriteByte(b); err != nil {
					return Stats{}, errors.Wrap(err, "lzhuf: write decoded byte")
				}
				textBuf[r] = b
				r = (r + 1) & (N - 1)
				count++
			}
		}

		if count%int64(yieldEvery) == 0 {
			opts.yield()
		}
	}

	if err := out.Flush(); err != nil {
		return Stats{}, errors.Wrap(err, "lzhuf: flush decoded output")
	}

	stats := Stats{InputBytes: filesize, OutputBytes: count}
	log.WithFields(logrus.Fields{
		"stored":  filesize,
		"decoded": count,
	}).Debug("lzhuf uncompress")

	return stats, nil
}
