package radiance_test

import (
	"bytes"
	"fmt"
	"math/rand"

	"radiance-gl/rgbe"
)

const testHeader = "#?RADIANCE\n# written by the radiance tests\nFORMAT=32-bit_rle_rgbe\n\n-Y %d +X %d\n"

// hdrFile prepends a valid header to the encoded pixels.
func hdrFile(width, height int, pixels []byte) []byte {
	buf := bytes.NewBufferString(fmt.Sprintf(testHeader, height, width))
	buf.Write(pixels)
	return buf.Bytes()
}

func encodeFlat(quads []rgbe.Quad) []byte {
	buf := make([]byte, 0, len(quads)*4)
	for _, q := range quads {
		buf = append(buf, q[:]...)
	}
	return buf
}

// encodeRle writes every scanline with a run-length marker followed by the
// four encoded channel planes.
func encodeRle(width int, quads []rgbe.Quad) []byte {
	var buf []byte
	plane := make([]byte, width)
	for y := 0; y*width < len(quads); y++ {
		row := quads[y*width : (y+1)*width]
		buf = append(buf, 2, 2, byte(width>>8), byte(width&0xff))
		for ch := 0; ch < 4; ch++ {
			for x := range row {
				plane[x] = row[x][ch]
			}
			buf = append(buf, encodePlane(plane)...)
		}
	}
	return buf
}

// runs of at least 4 equal bytes are repeated, everything else is literal
func encodePlane(plane []byte) []byte {
	runAt := func(pos int) int {
		run := 1
		for pos+run < len(plane) && run < 127 && plane[pos+run] == plane[pos] {
			run++
		}
		return run
	}

	var out []byte
	for pos := 0; pos < len(plane); {
		if run := runAt(pos); run >= 4 {
			out = append(out, byte(128+run), plane[pos])
			pos += run
			continue
		}

		end := pos
		for end < len(plane) && end-pos < 128 && runAt(end) < 4 {
			end++
		}
		out = append(out, byte(end-pos))
		out = append(out, plane[pos:end]...)
		pos = end
	}
	return out
}

func randomFloats(count int, min, max float32) []float32 {
	rng := rand.New(rand.NewSource(0))
	ret := make([]float32, count)
	for i := range ret {
		ret[i] = rng.Float32()*(max-min) + min
	}
	return ret
}

func toQuads(data []float32) []rgbe.Quad {
	quads := make([]rgbe.Quad, len(data)/3)
	for i := range quads {
		quads[i] = rgbe.FromFloat(data[i*3+0], data[i*3+1], data[i*3+2])
	}
	return quads
}

// expectedFloats converts quads the way the decoder must.
func expectedFloats(quads []rgbe.Quad) []float32 {
	ret := make([]float32, 0, len(quads)*3)
	for _, q := range quads {
		r, g, b := rgbe.ToFloat(q)
		ret = append(ret, r, g, b)
	}
	return ret
}

// gradient produces quads with long runs in the exponent plane and noisy
// mantissas, so both run kinds are exercised.
func gradient(width, height int) []rgbe.Quad {
	rng := rand.New(rand.NewSource(1))
	quads := make([]rgbe.Quad, width*height)
	for i := range quads {
		x := i % width
		quads[i] = rgbe.Quad{byte(x), byte(rng.Intn(4) * 60), 0x80, byte(120 + x/16)}
	}
	return quads
}
