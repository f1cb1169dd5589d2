package radiance

import (
	"errors"
	"fmt"
	"io"

	"radiance-gl/libio"
)

// Error categories. Every error returned by this package matches exactly one
// of them with errors.Is.
var (
	ErrIO          = errors.New("radiance i/o error")
	ErrFormat      = errors.New("radiance format error")
	ErrCorruptData = errors.New("corrupt radiance pixel data")
)

// Format errors, each matching ErrFormat.
var (
	ErrInvalidMagic        = fmt.Errorf("%w: invalid magic", ErrFormat)
	ErrUnsupportedFormat   = fmt.Errorf("%w: unsupported pixel format", ErrFormat)
	ErrMissingResolution   = fmt.Errorf("%w: missing resolution", ErrFormat)
	ErrMalformedResolution = fmt.Errorf("%w: malformed resolution", ErrFormat)
)

// ErrEndOfStream is reported by the header token reader when the stream ends
// before another token.
var ErrEndOfStream = errors.New("end of header stream")

func isEOF(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}

// corruptError classifies a failed read in the pixel region. Running out of
// data is corruption, anything else is an i/o failure.
func corruptError(br *libio.BinaryReader, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if br.Err != nil && !isEOF(br.Err) {
		return fmt.Errorf("%w: %s; byte 0x%08x: %w", ErrIO, msg, br.LastIndex, br.Err)
	}
	return fmt.Errorf("%w: %s; byte 0x%08x", ErrCorruptData, msg, br.LastIndex)
}
