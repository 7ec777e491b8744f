package lzhuf

import "github.com/pkg/errors"

// ErrEmptyInput is returned by Encode when the source stream contains zero
// bytes. The legacy encoder treats this as a failure rather than producing
// a degenerate empty archive.
var ErrEmptyInput = errors.New("lzhuf: empty input")

// ErrTruncatedHeader is returned by Decode when the source stream ends
// before the CRC/length header is fully read.
var ErrTruncatedHeader = errors.New("lzhuf: truncated header")

// ErrZeroLength is returned by Decode when the stored original-length field
// is zero, mirroring the legacy decoder's errxit on a zero fbb_filesize.
var ErrZeroLength = errors.New("lzhuf: stored length is zero")
