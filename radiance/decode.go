// Package radiance decodes Radiance HDR (RGBE) images into linear float RGB
// pixels.
//
// Only files declaring FORMAT=32-bit_rle_rgbe with a "-Y <height> +X <width>"
// resolution are accepted. Pixel data may be flat or run-length encoded.
package radiance

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"radiance-gl/libio"
)

// Size of the buffer header lines are read into. Longer lines are truncated.
const DefaultTokenCapacity = 128

type Configuration struct {
	// TokenCapacity bounds the length of a header line, including a
	// terminator. Values below 2 select DefaultTokenCapacity.
	TokenCapacity int
	// FlipVertically stores the bottom row first, for OpenGL uploads.
	FlipVertically bool
}

var Default Configuration = Configuration{
	TokenCapacity:  DefaultTokenCapacity,
	FlipVertically: false,
}

func (conf *Configuration) tokenCapacity() int {
	if conf.TokenCapacity < 2 {
		return DefaultTokenCapacity
	}
	return conf.TokenCapacity
}

// Decode reads a radiance image from r. The returned image has three
// channels and exactly Width*Height*3 floats. On error no image is returned.
func (conf *Configuration) Decode(r io.Reader) (*libio.FloatImage, error) {
	br := libio.NewBinaryReader(r, binary.LittleEndian)

	header, err := readHeader(br, conf.tokenCapacity())
	if err != nil {
		return nil, err
	}
	logger().Debug("parsed header", "width", header.Width, "height", header.Height)

	pix, err := newScanlineDecoder(br, header).Decode()
	if err != nil {
		return nil, err
	}

	img := libio.NewFloatImage(pix, 3, header.Width, header.Height)
	if conf.FlipVertically {
		img.FlipVertically()
	}
	return img, nil
}

// DecodeFile opens and decodes the file at path.
func (conf *Configuration) DecodeFile(path string) (*libio.FloatImage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	defer f.Close()

	return conf.Decode(f)
}

// DecodeHeader reads only the header of a radiance image.
func (conf *Configuration) DecodeHeader(r io.Reader) (Header, error) {
	br := libio.NewBinaryReader(r, binary.LittleEndian)
	return readHeader(br, conf.tokenCapacity())
}

func Decode(r io.Reader) (*libio.FloatImage, error) {
	return Default.Decode(r)
}

func DecodeFile(path string) (*libio.FloatImage, error) {
	return Default.DecodeFile(path)
}

func DecodeHeader(r io.Reader) (Header, error) {
	return Default.DecodeHeader(r)
}
