package libio

import (
	"fmt"
	"strings"
)

// MagicNumberRgbf identifies a float image cache file.
const MagicNumberRgbf = 0x66626772

type FloatImageVersion uint32

const (
	RgbfVersion1_000_000 = FloatImageVersion(1_000_000)
)

type FloatImageCompression uint32

const (
	FloatImageCompressionNone = FloatImageCompression(iota)
	FloatImageCompressionLZ4
	FloatImageCompressionFixedPoint16LZ4
	FloatImageCompressionZstd
)

var compressionNames = map[FloatImageCompression]string{
	FloatImageCompressionNone:            "none",
	FloatImageCompressionLZ4:             "lz4",
	FloatImageCompressionFixedPoint16LZ4: "fp16-lz4",
	FloatImageCompressionZstd:            "zstd",
}

func (c FloatImageCompression) String() string {
	if name, ok := compressionNames[c]; ok {
		return name
	}
	return fmt.Sprintf("compression(%d)", uint32(c))
}

// ParseCompression accepts the names printed by FloatImageCompression.String.
func ParseCompression(s string) (FloatImageCompression, error) {
	for c, name := range compressionNames {
		if strings.EqualFold(name, s) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%s is not a valid compression", s)
}

type FloatImageHeader struct {
	Check         uint32
	Version       FloatImageVersion
	Width, Height uint32
	Channels      uint8
	Compression   FloatImageCompression
	Unused        [11]uint8
}
