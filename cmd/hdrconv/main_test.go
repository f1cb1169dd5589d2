package main

import (
	"bytes"
	"errors"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"radiance-gl/libio"
	"radiance-gl/radiance"
	"radiance-gl/rgbe"
)

// writeTestImage writes a flat radiance file with a horizontal gradient.
func writeTestImage(t *testing.T, dir string, width, height int) (string, []float32) {
	buf := bytes.NewBufferString(fmt.Sprintf("#?RADIANCE\nFORMAT=32-bit_rle_rgbe\n\n-Y %d +X %d\n", height, width))
	expected := make([]float32, 0, width*height*3)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			q := rgbe.FromFloat(float32(x), float32(y), 0.5)
			buf.Write(q[:])
			r, g, b := rgbe.ToFloat(q)
			expected = append(expected, r, g, b)
		}
	}

	p := filepath.Join(dir, "test.hdr")
	err := os.WriteFile(p, buf.Bytes(), 0666)
	if err != nil {
		t.Fatal(err)
	}
	return p, expected
}

func setupArgs(t *testing.T, ext string) string {
	out := t.TempDir()
	cargs = &commonArgs{out: out, quiet: true, supress: true, jobs: 2, ext: ext}
	return out
}

func TestConvertFile(t *testing.T) {
	for _, c := range []libio.FloatImageCompression{
		libio.FloatImageCompressionNone,
		libio.FloatImageCompressionLZ4,
		libio.FloatImageCompressionZstd,
	} {
		t.Run(c.String(), func(t *testing.T) {
			out := setupArgs(t, ".rgbf")
			p, expected := writeTestImage(t, t.TempDir(), 12, 5)

			args := convertArgs{commonArgs: *cargs, compression: compression(c)}
			err := convertFile(args, p)
			if err != nil {
				t.Fatal(err)
			}

			f, err := os.Open(filepath.Join(out, "test.rgbf"))
			if err != nil {
				t.Fatal(err)
			}
			defer f.Close()

			img, err := libio.DecodeFloatImage(f)
			if err != nil {
				t.Fatal(err)
			}
			if img.Width != 12 || img.Height != 5 {
				t.Errorf("image should be 12x5 but was %dx%d\n", img.Width, img.Height)
			}
			for i := range expected {
				if img.Pix[i] != expected[i] {
					t.Fatalf("float %d should be %g but was %g\n", i, expected[i], img.Pix[i])
				}
			}
		})
	}
}

func TestConvertFileCorrupt(t *testing.T) {
	out := setupArgs(t, ".rgbf")
	p := filepath.Join(t.TempDir(), "broken.hdr")
	err := os.WriteFile(p, []byte("#?RADIANCE\nFORMAT=32-bit_rle_rgbe\n\n-Y 2 +X 2\n\x01\x02"), 0666)
	if err != nil {
		t.Fatal(err)
	}

	err = convertFile(convertArgs{commonArgs: *cargs}, p)
	if err == nil {
		t.Fatal("truncated input should fail")
	}
	if _, err := os.Stat(filepath.Join(out, "broken.rgbf")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("no output should be written but stat was %v\n", err)
	}
}

func TestCreateOutputRemovesFailed(t *testing.T) {
	name := filepath.Join(t.TempDir(), "out.bin")
	f, finish, err := createOutput(name)
	if err != nil {
		t.Fatal(err)
	}
	f.Write([]byte("partial"))

	failure := errors.New("encoder failed")
	if err := finish(failure); err != failure {
		t.Errorf("finish should return %v but was %v\n", failure, err)
	}
	if _, err := os.Stat(name); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("failed output should be removed but stat was %v\n", err)
	}
}

func TestPreviewFile(t *testing.T) {
	out := setupArgs(t, ".png")
	cargs.suffix = "_small"
	p, _ := writeTestImage(t, t.TempDir(), 32, 8)

	args := previewArgs{commonArgs: *cargs, gamma: 2.2, scale: 1, reinhard: true, width: 16}
	err := previewFile(args, p)
	if err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(filepath.Join(out, "test_small.png"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 16 || img.Bounds().Dy() != 4 {
		t.Errorf("preview should be 16x4 but was %v\n", img.Bounds())
	}
}

func TestInfoFile(t *testing.T) {
	setupArgs(t, "")
	p, _ := writeTestImage(t, t.TempDir(), 4, 1)

	line, err := infoFile(p)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(line, "4x1") || !strings.Contains(line, "min=") {
		t.Errorf("info should list size and luminance but was %q\n", line)
	}
}

func TestMissingInputIsIOError(t *testing.T) {
	setupArgs(t, "")
	p := filepath.Join(t.TempDir(), "missing.hdr")

	_, err := infoFile(p)
	if !errors.Is(err, radiance.ErrIO) {
		t.Errorf("info of a missing file should fail with %v but was %v\n", radiance.ErrIO, err)
	}
	err = convertFile(convertArgs{commonArgs: *cargs}, p)
	if !errors.Is(err, radiance.ErrIO) {
		t.Errorf("convert of a missing file should fail with %v but was %v\n", radiance.ErrIO, err)
	}
	err = previewFile(previewArgs{commonArgs: *cargs, gamma: 2.2, scale: 1}, p)
	if !errors.Is(err, radiance.ErrIO) {
		t.Errorf("preview of a missing file should fail with %v but was %v\n", radiance.ErrIO, err)
	}
}

func TestMeasureLuminance(t *testing.T) {
	img := libio.NewFloatImage([]float32{0, 0, 0, 1, 1, 1}, 3, 2, 1)
	stats := measureLuminance(img)
	if stats.Min != 0 || stats.Max < 0.999 || stats.Max > 1.001 || stats.Mean < 0.499 || stats.Mean > 0.501 {
		t.Errorf("stats should be 0/1/0.5 but were %+v\n", stats)
	}
}

func TestProcessFiles(t *testing.T) {
	setupArgs(t, "")
	files := []string{"a", "b", "c", "d", "e"}

	success := processFiles("Tested", files, func(p string) error {
		if p == "c" {
			return errors.New("failed")
		}
		return nil
	})
	if success != 4 {
		t.Errorf("success should be 4 but was %d\n", success)
	}
}

func TestCompressionFlag(t *testing.T) {
	var c compression
	if err := c.Set("FP16-LZ4"); err != nil {
		t.Fatal(err)
	}
	if c.String() != "fp16-lz4" {
		t.Errorf("compression should be fp16-lz4 but was %s\n", c.String())
	}
	if err := c.Set("gzip"); err == nil {
		t.Error("gzip should not be a valid compression")
	}
}
