package main

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestViewFit(t *testing.T) {
	cases := []struct {
		name     string
		img, win [2]int
		scale    mgl32.Vec2
	}{
		{"wide image", [2]int{200, 50}, [2]int{100, 100}, mgl32.Vec2{1, 0.25}},
		{"tall image", [2]int{50, 200}, [2]int{100, 100}, mgl32.Vec2{0.25, 1}},
		{"same aspect", [2]int{32, 18}, [2]int{1600, 900}, mgl32.Vec2{1, 1}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			v := NewView(c.img[0], c.img[1], c.win[0], c.win[1])
			m := v.Matrix()
			if !mgl32.FloatEqual(m[0], c.scale.X()) || !mgl32.FloatEqual(m[5], c.scale.Y()) {
				t.Errorf("scale should be %v but was (%g, %g)\n", c.scale, m[0], m[5])
			}
		})
	}
}

func TestViewZoomKeepsCursorPoint(t *testing.T) {
	v := NewView(400, 300, 800, 600)
	v.Pan(mgl32.Vec2{37, -12})
	cursor := mgl32.Vec2{610, 145}

	before, ok := imagePoint(v, cursor)
	if !ok {
		t.Fatal("cursor should be inside the image")
	}
	v.ZoomAt(cursor, 3)
	after, _ := imagePoint(v, cursor)

	if !before.ApproxEqualThreshold(after, 1e-4) {
		t.Errorf("image point under the cursor should stay %v but was %v\n", before, after)
	}
	if v.Zoom <= 1 {
		t.Errorf("zoom should increase but was %g\n", v.Zoom)
	}
}

func TestViewZoomClamped(t *testing.T) {
	v := NewView(10, 10, 100, 100)
	v.ZoomAt(mgl32.Vec2{50, 50}, 1000)
	if v.Zoom != maxZoom {
		t.Errorf("zoom should be clamped to %g but was %g\n", float32(maxZoom), v.Zoom)
	}
	v.ZoomAt(mgl32.Vec2{50, 50}, -5000)
	if v.Zoom != minZoom {
		t.Errorf("zoom should be clamped to %g but was %g\n", float32(minZoom), v.Zoom)
	}
}

func TestViewPixelAt(t *testing.T) {
	v := NewView(4, 2, 400, 200)

	x, y, ok := v.PixelAt(mgl32.Vec2{0, 0})
	if !ok || x != 0 || y != 0 {
		t.Errorf("top left should be pixel 0,0 but was %d,%d (%v)\n", x, y, ok)
	}
	x, y, ok = v.PixelAt(mgl32.Vec2{399, 199})
	if !ok || x != 3 || y != 1 {
		t.Errorf("bottom right should be pixel 3,1 but was %d,%d (%v)\n", x, y, ok)
	}

	v.Pan(mgl32.Vec2{200, 0})
	if _, _, ok = v.PixelAt(mgl32.Vec2{10, 100}); ok {
		t.Error("left edge should be outside the panned image")
	}

	v.Reset()
	if _, _, ok = v.PixelAt(mgl32.Vec2{10, 100}); !ok {
		t.Error("reset should restore the fitted image")
	}
}

// imagePoint maps a cursor position to image space through the inverse view matrix.
func imagePoint(v *View, cursor mgl32.Vec2) (mgl32.Vec2, bool) {
	clip := v.toClip(cursor)
	p := v.Matrix().Inv().Mul4x1(mgl32.Vec4{clip.X(), clip.Y(), 0, 1})
	inside := p.X() >= -1 && p.X() <= 1 && p.Y() >= -1 && p.Y() <= 1
	return mgl32.Vec2{p.X(), p.Y()}, inside
}
