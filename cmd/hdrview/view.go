package main

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	minZoom = 1.0 / 64
	maxZoom = 256
	// zoom factor per scroll step
	zoomStep = 1.125
)

// View maps the unit quad of the image into clip space. The image is fitted
// into the window keeping its aspect ratio, then scaled by Zoom and moved by
// Offset, which is in clip space units.
type View struct {
	Zoom   float32
	Offset mgl32.Vec2
	image  mgl32.Vec2
	window mgl32.Vec2
}

func NewView(imageWidth, imageHeight, windowWidth, windowHeight int) *View {
	v := &View{
		image: mgl32.Vec2{float32(imageWidth), float32(imageHeight)},
	}
	v.Resize(windowWidth, windowHeight)
	v.Reset()
	return v
}

func (v *View) Reset() {
	v.Zoom = 1
	v.Offset = mgl32.Vec2{}
}

func (v *View) Resize(windowWidth, windowHeight int) {
	v.window = mgl32.Vec2{float32(max(windowWidth, 1)), float32(max(windowHeight, 1))}
}

// fit is the scale that letterboxes the image into the window.
func (v *View) fit() mgl32.Vec2 {
	imageAspect := v.image.X() / v.image.Y()
	windowAspect := v.window.X() / v.window.Y()
	if imageAspect > windowAspect {
		return mgl32.Vec2{1, windowAspect / imageAspect}
	}
	return mgl32.Vec2{imageAspect / windowAspect, 1}
}

// toClip converts window pixel coordinates, origin top-left, to clip space.
func (v *View) toClip(p mgl32.Vec2) mgl32.Vec2 {
	return mgl32.Vec2{
		p.X()/v.window.X()*2 - 1,
		1 - p.Y()/v.window.Y()*2,
	}
}

// Pan moves the image by a cursor delta in window pixels.
func (v *View) Pan(delta mgl32.Vec2) {
	v.Offset = v.Offset.Add(mgl32.Vec2{
		delta.X() / v.window.X() * 2,
		-delta.Y() / v.window.Y() * 2,
	})
}

// ZoomAt scales by zoomStep per step and keeps the image point under cursor
// in place.
func (v *View) ZoomAt(cursor mgl32.Vec2, steps float32) {
	zoom := v.Zoom * math32.Pow(zoomStep, steps)
	zoom = math32.Min(math32.Max(zoom, minZoom), maxZoom)
	factor := zoom / v.Zoom

	p := v.toClip(cursor)
	v.Offset = p.Sub(p.Sub(v.Offset).Mul(factor))
	v.Zoom = zoom
}

func (v *View) Matrix() mgl32.Mat4 {
	scale := v.fit().Mul(v.Zoom)
	return mgl32.Translate3D(v.Offset.X(), v.Offset.Y(), 0).
		Mul4(mgl32.Scale3D(scale.X(), scale.Y(), 1))
}

// PixelAt returns the image pixel under the cursor, origin top-left, and
// whether it is inside the image.
func (v *View) PixelAt(cursor mgl32.Vec2) (x, y int, ok bool) {
	p := v.toClip(cursor).Sub(v.Offset)
	scale := v.fit().Mul(v.Zoom)
	u := (p.X()/scale.X() + 1) / 2
	w := (1 - p.Y()/scale.Y()) / 2
	if u < 0 || u >= 1 || w < 0 || w >= 1 {
		return 0, 0, false
	}
	return int(u * v.image.X()), int(w * v.image.Y()), true
}
