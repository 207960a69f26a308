package jpegdecoder

import (
	"errors"
	"fmt"
)

// Sentinel errors for the closed set of decode failure kinds. Callers that
// only care about the kind should use errors.Is against these; callers that
// need the byte offset should type-assert to *DecodeError.
var (
	ErrNotJPEG             = errors.New("jpegdecoder: not a JPEG file")
	ErrUnexpectedEOF       = errors.New("jpegdecoder: unexpected end of input")
	ErrTruncatedSegment    = errors.New("jpegdecoder: truncated segment")
	ErrUnsupportedMode     = errors.New("jpegdecoder: unsupported mode")
	ErrUnknownMarker       = errors.New("jpegdecoder: unknown marker")
	ErrMissingTable        = errors.New("jpegdecoder: missing quantization or Huffman table")
	ErrInvalidHuffmanTable = errors.New("jpegdecoder: invalid Huffman table")
	ErrInvalidBitstream    = errors.New("jpegdecoder: invalid entropy-coded bitstream")
	ErrRestartOutOfSync    = errors.New("jpegdecoder: restart marker out of sync")
	ErrInternal            = errors.New("jpegdecoder: internal error")
)

// DecodeError wraps one of the sentinels above with the byte offset at which
// the fault was detected, per the error model in the decoder specification.
type DecodeError struct {
	Offset int
	Detail string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s (offset %d)", e.Err, e.Offset)
	}

	return fmt.Sprintf("%s (offset %d): %s", e.Err, e.Offset, e.Detail)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// newErr builds a *DecodeError for sentinel at the given offset with an
// optional formatted detail.
func newErr(sentinel error, offset int, format string, args ...interface{}) *DecodeError {
	return &DecodeError{
		Offset: offset,
		Detail: fmt.Sprintf(format, args...),
		Err:    sentinel,
	}
}
