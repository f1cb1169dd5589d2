package libio

import (
	goimg "image"
	"unsafe"

	"github.com/chewxy/math32"
	"github.com/mdouchement/hdr"
	"github.com/mdouchement/hdr/hdrcolor"
)

type image struct {
	Channels      int
	Width, Height int
}

// Calculates the tuple index into the images data.
//
// Rows are stored in the order they were decoded; see FlipVertically.
func (img *image) Index(x, y int) int {
	return x*img.Channels + y*img.Channels*img.Width
}

func (img *image) Count() int {
	return img.Width * img.Height
}

type IntImage struct {
	image
	Pix []uint8
}

func NewIntImage(pix []uint8, channels int, width, height int) *IntImage {
	return &IntImage{
		Pix: pix,
		image: image{
			Channels: channels,
			Width:    width,
			Height:   height,
		},
	}
}

// ToRGBA copies the pixels into a Go image. Missing color channels are zero
// and a missing alpha channel is opaque.
func (img *IntImage) ToRGBA() *goimg.RGBA {
	rgba := goimg.NewRGBA(goimg.Rect(0, 0, img.Width, img.Height))

	for i := 0; i < img.Count(); i++ {
		src := img.Pix[i*img.Channels : i*img.Channels+img.Channels]
		dst := rgba.Pix[i*4 : i*4+4]
		for c := 0; c < 4; c++ {
			switch {
			case c < len(src):
				dst[c] = src[c]
			case c == 3:
				dst[c] = 0xff
			default:
				dst[c] = 0
			}
		}
	}

	return rgba
}

// FloatImage holds linear float pixels, Channels floats per pixel.
type FloatImage struct {
	image
	Pix []float32
}

func NewFloatImage(pix []float32, channels int, width, height int) *FloatImage {
	return &FloatImage{
		Pix: pix,
		image: image{
			Channels: channels,
			Width:    width,
			Height:   height,
		},
	}
}

// Pointer returns the address of the first float, for uploads to the GPU.
func (img *FloatImage) Pointer() unsafe.Pointer {
	return unsafe.Pointer(&img.Pix[0])
}

// FlipVertically reverses the row order in place.
func (img *FloatImage) FlipVertically() {
	stride := img.Width * img.Channels
	tmp := make([]float32, stride)
	for y := 0; y < img.Height/2; y++ {
		top := img.Pix[y*stride : y*stride+stride]
		bottom := img.Pix[(img.Height-y-1)*stride : (img.Height-y)*stride]
		copy(tmp, top)
		copy(top, bottom)
		copy(bottom, tmp)
	}
}

// Reinhard applies x / (1 + x) to the color channels in place.
func (img *FloatImage) Reinhard() {
	colors := img.Channels
	if colors > 3 {
		colors = 3
	}
	for i := 0; i < img.Count(); i++ {
		for c := 0; c < colors; c++ {
			v := img.Pix[i*img.Channels+c]
			img.Pix[i*img.Channels+c] = v / (1 + v)
		}
	}
}

// Luminance returns the Rec. 709 luminance of every pixel.
func (img *FloatImage) Luminance() []float32 {
	lum := make([]float32, img.Count())
	if img.Channels < 3 {
		for i := range lum {
			lum[i] = img.Pix[i*img.Channels]
		}
		return lum
	}
	for i := range lum {
		p := img.Pix[i*img.Channels:]
		lum[i] = 0.2126*p[0] + 0.7152*p[1] + 0.0722*p[2]
	}
	return lum
}

func (img *FloatImage) ToIntImage(gamma, scale float32) *IntImage {
	pix := make([]uint8, len(img.Pix))

	for i := 0; i < len(img.Pix); i++ {
		pix[i] = uint8(tonemap(img.Pix[i], 1.0/gamma, scale) * 0xff)
	}

	return NewIntImage(pix, img.Channels, img.Width, img.Height)
}

func tonemap(value, gamma, scale float32) float32 {
	value = math32.Pow(value*scale, gamma)
	return math32.Min(math32.Max(0.0, value), 1.0)
}

// HDR copies a three channel image into an hdr.RGB.
func (img *FloatImage) HDR() *hdr.RGB {
	m := hdr.NewRGB(goimg.Rect(0, 0, img.Width, img.Height))
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			i := img.Index(x, y)
			m.SetRGB(x, y, hdrcolor.RGB{
				R: float64(img.Pix[i+0]),
				G: float64(img.Pix[i+1]),
				B: float64(img.Pix[i+2]),
			})
		}
	}
	return m
}
