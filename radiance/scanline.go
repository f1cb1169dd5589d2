package radiance

import (
	"radiance-gl/libio"
	"radiance-gl/rgbe"

	"golang.org/x/exp/slices"
)

// Run-length encoded scanlines are only legal for widths in this range.
const (
	minRleWidth = 8
	maxRleWidth = 0x7fff
)

// quads per flat read
const flatChunk = 4096

// Upper bound of the floats reserved before any pixel data was read.
// The output grows with the data, so a header alone cannot exhaust memory.
const maxReservedFloats = 1 << 22

type scanlineDecoder struct {
	br     *libio.BinaryReader
	width  int
	height int
	// four planes of width bytes each, in R, G, B, E order
	planes []byte
	pix    []float32
}

func newScanlineDecoder(br *libio.BinaryReader, header Header) *scanlineDecoder {
	return &scanlineDecoder{
		br:     br,
		width:  header.Width,
		height: header.Height,
	}
}

// Decode returns width*height*3 floats in row order.
func (d *scanlineDecoder) Decode() ([]float32, error) {
	d.pix = make([]float32, 0, min(d.width*d.height*3, maxReservedFloats))
	defer func() { d.pix = nil }()

	if err := d.decode(); err != nil {
		return nil, err
	}
	return d.pix, nil
}

func (d *scanlineDecoder) decode() error {
	if d.width < minRleWidth || d.width > maxRleWidth {
		logger().Debug("decoding flat pixels", "width", d.width, "height", d.height)
		return d.readFlat(d.width * d.height)
	}

	d.planes = make([]byte, 4*d.width)
	defer func() { d.planes = nil }()

	var marker rgbe.Quad
	for y := 0; y < d.height; y++ {
		if !d.br.ReadFull(marker[:]) {
			return corruptError(d.br, "expected scanline %d", y)
		}

		if !isRleMarker(marker) {
			if y != 0 {
				return corruptError(d.br, "scanline %d is not run-length encoded", y)
			}
			// files without a marker on the first scanline are flat throughout
			logger().Debug("decoding legacy flat pixels", "width", d.width, "height", d.height)
			first := d.extend(3)
			first[0], first[1], first[2] = rgbe.ToFloat(marker)
			return d.readFlat(d.width*d.height - 1)
		}
		if y == 0 {
			logger().Debug("decoding run-length encoded pixels", "width", d.width, "height", d.height)
		}

		if encoded := int(marker[2])<<8 | int(marker[3]); encoded != d.width {
			return corruptError(d.br, "scanline %d width %d does not match image width %d", y, encoded, d.width)
		}

		if err := d.readPlanes(y); err != nil {
			return err
		}

		row := d.extend(d.width * 3)
		for x := 0; x < d.width; x++ {
			row[x*3+0], row[x*3+1], row[x*3+2] = rgbe.ToFloat(d.quad(x))
		}
	}

	return nil
}

// extend appends n floats to the output and returns them.
func (d *scanlineDecoder) extend(n int) []float32 {
	d.pix = slices.Grow(d.pix, n)
	d.pix = d.pix[:len(d.pix)+n]
	return d.pix[len(d.pix)-n:]
}

func isRleMarker(q rgbe.Quad) bool {
	return q[0] == 2 && q[1] == 2 && q[2]&0x80 == 0
}

// quad reassembles pixel x of the current scanline from the planes.
func (d *scanlineDecoder) quad(x int) rgbe.Quad {
	return rgbe.Quad{
		d.plane(0)[x],
		d.plane(1)[x],
		d.plane(2)[x],
		d.plane(3)[x],
	}
}

func (d *scanlineDecoder) plane(ch int) []byte {
	return d.planes[ch*d.width : (ch+1)*d.width]
}

func (d *scanlineDecoder) readPlanes(y int) error {
	var unit [2]byte
	for ch := 0; ch < 4; ch++ {
		plane := d.plane(ch)
		pos := 0
		for pos < len(plane) {
			if !d.br.ReadFull(unit[:]) {
				return corruptError(d.br, "truncated scanline %d", y)
			}

			count, value := int(unit[0]), unit[1]
			if count > 128 {
				count -= 128
				if count > len(plane)-pos {
					return corruptError(d.br, "run of %d overflows scanline %d channel %d at %d", count, y, ch, pos)
				}
				for i := 0; i < count; i++ {
					plane[pos+i] = value
				}
				pos += count
				continue
			}

			if count == 0 {
				return corruptError(d.br, "zero length run in scanline %d channel %d at %d", y, ch, pos)
			}
			if count > len(plane)-pos {
				return corruptError(d.br, "literal of %d overflows scanline %d channel %d at %d", count, y, ch, pos)
			}
			plane[pos] = value
			if count > 1 && !d.br.ReadFull(plane[pos+1:pos+count]) {
				return corruptError(d.br, "truncated scanline %d", y)
			}
			pos += count
		}
	}
	return nil
}

// readFlat appends count raw quads to the output.
func (d *scanlineDecoder) readFlat(count int) error {
	buf := make([]byte, 4*min(count, flatChunk))
	for done := 0; done < count; {
		n := min(count-done, flatChunk)
		if !d.br.ReadFull(buf[:4*n]) {
			return corruptError(d.br, "expected %d flat pixels but got %d", count, done+(d.br.Index-d.br.LastIndex)/4)
		}
		rgbe.DecodeChunk(3, buf[:4*n], d.extend(n*3))
		done += n
	}
	return nil
}
