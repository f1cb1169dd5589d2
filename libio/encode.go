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

// EncodeFloatImage writes img as a float image cache file.
func EncodeFloatImage(w io.Writer, img *FloatImage, compression FloatImageCompression) (err error) {
	var bw *BinaryWriter
	var ok bool

	if bw, ok = w.(*BinaryWriter); !ok {
		bw = &BinaryWriter{
			Dst:   w,
			Order: binary.LittleEndian,
		}

		defer func() {
			if bw.Err != nil {
				if err == nil {
					err = bw.Err
				} else {
					err = fmt.Errorf("%v: %w", err, bw.Err)
				}
			}
		}()
	}

	if len(img.Pix) != img.Count()*img.Channels {
		return fmt.Errorf("image has %d floats but %dx%dx%d expected", len(img.Pix), img.Width, img.Height, img.Channels)
	}

	header := FloatImageHeader{
		Check:       MagicNumberRgbf,
		Version:     RgbfVersion1_000_000,
		Width:       uint32(img.Width),
		Height:      uint32(img.Height),
		Channels:    uint8(img.Channels),
		Compression: compression,
	}

	if !bw.WriteRef(header) {
		return fmt.Errorf("could not write rgbf header: %w", bw.Err)
	}

	var pixw io.WriteCloser

	switch compression {
	case FloatImageCompressionNone:
		err = binary.Write(bw, bw.Order, img.Pix)
	case FloatImageCompressionLZ4:
		pixw, err = newPixelWriter(bw, compression)
		if err != nil {
			break
		}
		err = binary.Write(pixw, bw.Order, img.Pix)
	case FloatImageCompressionFixedPoint16LZ4:
		var data []byte
		data, err = compressFixedPoint16(img.Channels, img.Count(), img.Pix)
		if err != nil {
			break
		}
		pixw, err = newPixelWriter(bw, compression)
		if err != nil {
			break
		}
		_, err = pixw.Write(data)
	case FloatImageCompressionZstd:
		pixw, err = newPixelWriter(bw, compression)
		if err != nil {
			break
		}
		err = binary.Write(pixw, bw.Order, img.Pix)
	default:
		return fmt.Errorf("rgbf compression %v unsupported", compression)
	}

	if pixw != nil {
		if cerr := pixw.Close(); err == nil {
			err = cerr
		}
	}

	if err != nil {
		return fmt.Errorf("could not write rgbf pixels: %w", err)
	}

	return nil
}

func newPixelWriter(w io.Writer, compression FloatImageCompression) (io.WriteCloser, error) {
	switch compression {
	case FloatImageCompressionLZ4, FloatImageCompressionFixedPoint16LZ4:
		lzw := lz4.NewWriter(w)
		if err := lzw.Apply(lz4.CompressionLevelOption(lz4.Fast)); err != nil {
			return nil, err
		}
		return lzw, nil
	case FloatImageCompressionZstd:
		zw, err := zstd.NewWriter(w,
			zstd.WithEncoderConcurrency(1),
			zstd.WithEncoderLevel(zstd.SpeedBetterCompression),
		)
		if err != nil {
			return nil, err
		}
		return zw, nil
	}
	return nil, fmt.Errorf("rgbf compression %v unsupported", compression)
}

func compressFixedPoint16(channels int, count int, pix []float32) ([]byte, error) {
	rangeBytes := 4 * 2 * channels
	dataBytes := count * channels * 2
	buf := bytes.NewBuffer(make([]byte, 0, rangeBytes+dataBytes))
	bw := &BinaryWriter{Order: binary.LittleEndian, Dst: buf}
	for ch := 0; ch < channels; ch++ {
		compressChannelFixedPoint16(channels, count, pix, bw, ch)
		if bw.Err != nil {
			return nil, bw.Err
		}
	}
	return buf.Bytes(), nil
}

// Each channel is stored as its min and max followed by count 16 bit values
// spanning that range.
func compressChannelFixedPoint16(channels int, count int, pix []float32, bw *BinaryWriter, ch int) {
	var min, max float32 = math32.Inf(1), math32.Inf(-1)

	for i := 0; i < count; i++ {
		v := pix[i*channels+ch]
		min = math32.Min(min, v)
		max = math32.Max(max, v)
	}
	if count == 0 {
		min, max = 0, 0
	}

	bw.WriteUInt32(math32.Float32bits(min))
	bw.WriteUInt32(math32.Float32bits(max))

	r := max - min
	for i := 0; i < count; i++ {
		var fix uint16
		if r > 0 {
			fix = uint16((pix[i*channels+ch]-min)/r*0xffff + 0.5)
		}
		bw.WriteUInt16(fix)
	}
}
