package libio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/chewxy/math32"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// DecodeFloatImage reads a float image cache file written by EncodeFloatImage.
func DecodeFloatImage(r io.Reader) (img *FloatImage, err error) {
	var br *BinaryReader
	var ok bool

	if br, ok = r.(*BinaryReader); !ok {
		br = &BinaryReader{
			Src:   r,
			Order: binary.LittleEndian,
		}

		defer func() {
			if br.Err != nil {
				if err == nil {
					err = br.Err
				} else {
					err = fmt.Errorf("%v: %w", err, br.Err)
				}
			}
		}()
	}

	header := FloatImageHeader{}
	if !br.ReadRef(&header) {
		return nil, fmt.Errorf("expected rgbf header; byte 0x%08x", br.LastIndex)
	}

	if header.Check != MagicNumberRgbf {
		return nil, fmt.Errorf("rgbf header is corrupt; byte 0x%08x", br.LastIndex)
	}

	if header.Version != RgbfVersion1_000_000 {
		return nil, fmt.Errorf("rgbf version %d unsupported; byte 0x%08x", header.Version, br.LastIndex)
	}

	if header.Channels == 0 {
		return nil, fmt.Errorf("rgbf image has no channels; byte 0x%08x", br.LastIndex)
	}

	count := int(header.Width) * int(header.Height)
	data := make([]float32, count*int(header.Channels))

	switch header.Compression {
	case FloatImageCompressionNone:
		err = binary.Read(br, br.Order, data)
	case FloatImageCompressionLZ4:
		err = binary.Read(lz4.NewReader(br), br.Order, data)
	case FloatImageCompressionFixedPoint16LZ4:
		rangeBytes := 4 * 2 * int(header.Channels)
		dataBytes := count * int(header.Channels) * 2
		buf := make([]byte, rangeBytes+dataBytes)
		_, err = io.ReadFull(lz4.NewReader(br), buf)
		if err != nil {
			break
		}
		err = decompressFixedPoint16(int(header.Channels), count, buf, data)
	case FloatImageCompressionZstd:
		var zr *zstd.Decoder
		zr, err = zstd.NewReader(br, zstd.WithDecoderConcurrency(1))
		if err != nil {
			break
		}
		err = binary.Read(zr, br.Order, data)
		zr.Close()
	default:
		return nil, fmt.Errorf("rgbf compression %v unsupported; byte 0x%08x", header.Compression, br.LastIndex)
	}

	if err != nil {
		return nil, fmt.Errorf("could not decompress rgbf pixels: %w", err)
	}

	return NewFloatImage(data, int(header.Channels), int(header.Width), int(header.Height)), nil
}

func decompressFixedPoint16(channels, count int, data []byte, pix []float32) error {
	br := &BinaryReader{
		Src:   bytes.NewReader(data),
		Order: binary.LittleEndian,
	}
	for ch := 0; ch < channels; ch++ {
		decompressChannelFixedPoint16(channels, count, pix, br, ch)
		if br.Err != nil {
			return br.Err
		}
	}
	return nil
}

func decompressChannelFixedPoint16(channels, count int, pix []float32, br *BinaryReader, ch int) {
	var imin, imax int
	br.ReadUInt32(&imin)
	br.ReadUInt32(&imax)

	min := math32.Float32frombits(uint32(imin))
	max := math32.Float32frombits(uint32(imax))

	fixed := make([]uint16, count)
	if !br.ReadRef(fixed) {
		return
	}

	r := max - min
	for i := 0; i < count; i++ {
		pix[i*channels+ch] = (float32(fixed[i])/0xffff)*r + min
	}
}
