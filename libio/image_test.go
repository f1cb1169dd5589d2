package libio_test

import (
	"bytes"
	"math"
	"math/rand"
	"testing"

	"radiance-gl/libio"
)

func TestFlipVertically(t *testing.T) {
	img := libio.NewFloatImage([]float32{
		1, 1, 1, 2, 2, 2,
		3, 3, 3, 4, 4, 4,
		5, 5, 5, 6, 6, 6,
	}, 3, 2, 3)

	img.FlipVertically()

	should := []float32{
		5, 5, 5, 6, 6, 6,
		3, 3, 3, 4, 4, 4,
		1, 1, 1, 2, 2, 2,
	}
	for i := range should {
		if img.Pix[i] != should[i] {
			t.Fatalf("float %d should be %g but was %g\n", i, should[i], img.Pix[i])
		}
	}
}

func TestToIntImage(t *testing.T) {
	img := libio.NewFloatImage([]float32{0, 0.25, 1, 4}, 1, 4, 1)
	ints := img.ToIntImage(1.0, 1.0)

	should := []uint8{0, 63, 255, 255}
	for i := range should {
		if ints.Pix[i] != should[i] {
			t.Errorf("byte %d should be %d but was %d\n", i, should[i], ints.Pix[i])
		}
	}

	rgba := libio.NewFloatImage([]float32{1, 0, 0}, 3, 1, 1).ToIntImage(2.2, 1.0).ToRGBA()
	if rgba.Pix[0] != 0xff || rgba.Pix[1] != 0 || rgba.Pix[3] != 0xff {
		t.Errorf("rgba should be opaque red but was %v\n", rgba.Pix)
	}
}

func TestReinhard(t *testing.T) {
	img := libio.NewFloatImage([]float32{1, 3, 0}, 3, 1, 1)
	img.Reinhard()
	should := []float32{0.5, 0.75, 0}
	for i := range should {
		if img.Pix[i] != should[i] {
			t.Errorf("float %d should be %g but was %g\n", i, should[i], img.Pix[i])
		}
	}
}

func TestHDR(t *testing.T) {
	img := libio.NewFloatImage([]float32{1, 2, 3, 4, 5, 6}, 3, 2, 1)
	m := img.HDR()

	if m.Bounds().Dx() != 2 || m.Bounds().Dy() != 1 {
		t.Fatalf("bounds should be 2x1 but were %v\n", m.Bounds())
	}
	r, g, b, _ := m.HDRAt(1, 0).HDRRGBA()
	if r != 4 || g != 5 || b != 6 {
		t.Errorf("pixel (1,0) should be (4, 5, 6) but was (%g, %g, %g)\n", r, g, b)
	}
}

func TestEncodeDecodeFloatImage(t *testing.T) {
	compressions := []libio.FloatImageCompression{
		libio.FloatImageCompressionNone,
		libio.FloatImageCompressionLZ4,
		libio.FloatImageCompressionFixedPoint16LZ4,
		libio.FloatImageCompressionZstd,
	}

	rng := rand.New(rand.NewSource(0))
	pix := make([]float32, 3*17*5)
	for i := range pix {
		pix[i] = rng.Float32() * 100
	}
	img := libio.NewFloatImage(pix, 3, 17, 5)

	for _, c := range compressions {
		t.Run(c.String(), func(t *testing.T) {
			buf := new(bytes.Buffer)
			if err := libio.EncodeFloatImage(buf, img, c); err != nil {
				t.Fatal(err)
			}

			result, err := libio.DecodeFloatImage(buf)
			if err != nil {
				t.Fatal(err)
			}

			if result.Width != img.Width || result.Height != img.Height || result.Channels != img.Channels {
				t.Fatalf("dimensions should be %dx%dx%d but were %dx%dx%d\n",
					img.Width, img.Height, img.Channels, result.Width, result.Height, result.Channels)
			}

			tolerance := 0.0
			if c == libio.FloatImageCompressionFixedPoint16LZ4 {
				tolerance = 100.0 / 0xffff
			}
			for i := range pix {
				if math.Abs(float64(result.Pix[i]-pix[i])) > tolerance {
					t.Fatalf("float %d should be %.6f but was %.6f\n", i, pix[i], result.Pix[i])
				}
			}
		})
	}
}

func TestDecodeFloatImageCorrupt(t *testing.T) {
	_, err := libio.DecodeFloatImage(bytes.NewReader([]byte("not an image at all, not at all.")))
	if err == nil {
		t.Error("corrupt header should fail")
	}

	_, err = libio.DecodeFloatImage(bytes.NewReader(nil))
	if err == nil {
		t.Error("empty input should fail")
	}
}

func TestParseCompression(t *testing.T) {
	c, err := libio.ParseCompression("FP16-LZ4")
	if err != nil || c != libio.FloatImageCompressionFixedPoint16LZ4 {
		t.Errorf("fp16-lz4 should parse but was %v, %v\n", c, err)
	}
	if _, err := libio.ParseCompression("gzip"); err == nil {
		t.Error("gzip should not parse")
	}
}
