package radiance

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"radiance-gl/libio"
)

const (
	magic       = "#?RADIANCE\n"
	formatToken = "FORMAT=32-bit_rle_rgbe"
)

// Header holds the image dimensions declared by a radiance file.
type Header struct {
	Width, Height int
}

func readHeader(br *libio.BinaryReader, capacity int) (Header, error) {
	if !br.ReadBytes(len(magic)) {
		if isEOF(br.Err) {
			return Header{}, fmt.Errorf("%w; byte 0x%08x", ErrInvalidMagic, br.LastIndex)
		}
		return Header{}, fmt.Errorf("%w: reading magic: %w", ErrIO, br.Err)
	}
	if !bytes.Equal(br.Bytes(), []byte(magic)) {
		return Header{}, fmt.Errorf("%w %q; byte 0x%08x", ErrInvalidMagic, br.Bytes(), br.LastIndex)
	}

	tokens := newTokenReader(br, capacity)

	token, err := tokens.Next()
	if errors.Is(err, ErrEndOfStream) {
		return Header{}, fmt.Errorf("%w: expected %q; byte 0x%08x", ErrUnsupportedFormat, formatToken, br.Index)
	}
	if err != nil {
		return Header{}, err
	}
	if token != formatToken {
		return Header{}, fmt.Errorf("%w %q; byte 0x%08x", ErrUnsupportedFormat, token, br.Index)
	}

	for {
		token, err = tokens.Next()
		if errors.Is(err, ErrEndOfStream) {
			return Header{}, fmt.Errorf("%w; byte 0x%08x", ErrMissingResolution, br.Index)
		}
		if err != nil {
			return Header{}, err
		}
		if strings.HasPrefix(token, "-Y") {
			break
		}
		logger().Debug("skipped header variable", "token", token)
	}

	header, err := parseResolution(token)
	if err != nil {
		return Header{}, fmt.Errorf("%w; byte 0x%08x", err, br.Index)
	}
	return header, nil
}

// parseResolution accepts exactly "-Y <height> +X <width>".
func parseResolution(s string) (Header, error) {
	fields := strings.Split(s, " ")
	if len(fields) != 4 || fields[0] != "-Y" || fields[2] != "+X" {
		return Header{}, fmt.Errorf("%w %q", ErrMalformedResolution, s)
	}

	height, ok := parseDimension(fields[1])
	if !ok {
		return Header{}, fmt.Errorf("%w: height %q", ErrMalformedResolution, fields[1])
	}
	width, ok := parseDimension(fields[3])
	if !ok {
		return Header{}, fmt.Errorf("%w: width %q", ErrMalformedResolution, fields[3])
	}

	// the pixel buffer needs width*height*3 floats
	if width > math.MaxInt/3/height {
		return Header{}, fmt.Errorf("%w: %dx%d is too large", ErrMalformedResolution, width, height)
	}

	return Header{Width: width, Height: height}, nil
}

func parseDimension(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}
