// Package rgbe converts between Radiance RGBE quadruplets and linear floats.
//
// A quadruplet stores three mantissa bytes and one shared exponent byte. An
// exponent byte of zero encodes black.
package rgbe

import (
	"fmt"
	"math"

	"github.com/chewxy/math32"
)

// Quad is one packed pixel in R, G, B, E order.
type Quad [4]byte

// exponent bias including the implicit 1/256 mantissa scale
const bias = 128 + 8

// ToFloat reconstructs the linear RGB triplet of q.
//
// The scale factor is computed in double precision and only the final
// products are narrowed to float32.
func ToFloat(q Quad) (r, g, b float32) {
	if q[3] == 0 {
		return 0, 0, 0
	}
	f := math.Ldexp(1.0, int(q[3])-bias)
	return float32(float64(q[0]) * f), float32(float64(q[1]) * f), float32(float64(q[2]) * f)
}

// FromFloat packs a linear RGB triplet. Negative channels are clamped to zero.
// See: https://www.graphics.cornell.edu/~bjw/rgbe/rgbe.c
func FromFloat(r, g, b float32) Quad {
	r, g, b = math32.Max(r, 0), math32.Max(g, 0), math32.Max(b, 0)

	max := math32.Max(r, math32.Max(g, b))
	if max < 1e-32 {
		return Quad{}
	}

	frac, exp := math32.Frexp(max)
	if exp+128 > 0xff {
		return Quad{0xff, 0xff, 0xff, 0xff}
	}
	f := frac * 256.0 / max
	return Quad{byte(r * f), byte(g * f), byte(b * f), byte(exp + 128)}
}

// DecodeChunk converts the packed quads in data into buf, writing components
// floats per quad. With 4 components the alpha channel is set to 1.
// It returns the number of floats written.
func DecodeChunk(components int, data []byte, buf []float32) int {
	required := len(data) / 4 * components
	if len(buf) < required {
		panic(fmt.Errorf("buffer too small, only %d of %d", len(buf), required))
	}

	n := 0
	for i := 0; i+4 <= len(data); i += 4 {
		r, g, b := ToFloat(Quad{data[i], data[i+1], data[i+2], data[i+3]})
		buf[n+0] = r
		buf[n+1] = g
		buf[n+2] = b
		if components == 4 {
			buf[n+3] = 1.0
		}
		n += components
	}
	return n
}
