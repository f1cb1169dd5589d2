package radiance

import (
	"image"
	"io"

	"github.com/mdouchement/hdr/hdrcolor"
)

func init() {
	image.RegisterFormat("hdr", magic, decodeImage, decodeConfig)
}

// decodeImage returns an *hdr.RGB so that image.Decode keeps the full range.
func decodeImage(r io.Reader) (image.Image, error) {
	img, err := Decode(r)
	if err != nil {
		return nil, err
	}
	return img.HDR(), nil
}

func decodeConfig(r io.Reader) (image.Config, error) {
	header, err := DecodeHeader(r)
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{
		ColorModel: hdrcolor.RGBModel,
		Width:      header.Width,
		Height:     header.Height,
	}, nil
}
