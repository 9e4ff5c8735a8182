/*
Package layout maps an image onto a display surface.

Positions are in normalized device coordinates where the surface spans -1 to
1 on both axes. The image is drawn as a quad centred on the origin reaching
out to the offsets held in a Geometry.
*/
package layout

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Mode selects how the image is fitted to the surface.
type Mode int

const (
	// FitPreserveAspect shrinks one axis so the image keeps its aspect
	// ratio, leaving bars either side.
	FitPreserveAspect Mode = iota
	// FillWindow stretches the image over the whole surface.
	FillWindow
)

func (m Mode) String() string {
	if m == FillWindow {
		return "fill"
	}
	return "fit"
}

// Toggle returns the other mode.
func (m Mode) Toggle() Mode {
	if m == FillWindow {
		return FitPreserveAspect
	}
	return FillWindow
}

// Geometry holds the horizontal and vertical extent of the image quad.
type Geometry struct {
	X, Y float64
}

// Full is the geometry covering the whole surface.
var Full = Geometry{1, 1}

// Vertices returns the corners of the quad, starting top-left and going
// anti-clockwise, along with the texture coordinate for each corner.
func (g Geometry) Vertices() (pos, tex [4]mgl64.Vec2) {
	pos = [4]mgl64.Vec2{
		{-g.X, g.Y},
		{-g.X, -g.Y},
		{g.X, -g.Y},
		{g.X, g.Y},
	}
	tex = [4]mgl64.Vec2{
		{0, 0},
		{0, 1},
		{1, 1},
		{1, 0},
	}
	return
}

// AspectRatio returns height divided by width.
func AspectRatio(width, height int) float64 {
	return float64(height) / float64(width)
}

// Compute returns the geometry of an image with the given aspect ratio
// (height / width) on a surface of the given size. It returns false if the
// surface has no area, in which case there is nothing to lay out.
func Compute(aspectRatio, surfaceWidth, surfaceHeight float64, mode Mode) (Geometry, bool) {
	if surfaceWidth <= 0 || surfaceHeight <= 0 {
		return Geometry{}, false
	}

	if mode == FillWindow {
		return Full, true
	}

	surfaceRatio := surfaceHeight / surfaceWidth
	if surfaceRatio > aspectRatio {
		return Geometry{1, aspectRatio / surfaceRatio}, true
	}
	return Geometry{surfaceRatio / aspectRatio, 1}, true
}

// Rect converts g to a pixel rectangle on a surface of the given size,
// returned as the minimum and maximum corners. The minimum corner is where
// texture coordinate (0, 0) lands.
func (g Geometry) Rect(surfaceWidth, surfaceHeight int) (min, max mgl64.Vec2) {
	size := mgl64.Vec2{float64(surfaceWidth), float64(surfaceHeight)}
	pos, _ := g.Vertices()

	// Top-left and bottom-right corners
	return toPixel(pos[0], size), toPixel(pos[2], size)
}

// toPixel maps a position to pixels on a surface of the given size. Pixel
// rows run downwards so the Y axis is flipped.
func toPixel(v, size mgl64.Vec2) mgl64.Vec2 {
	return vecMul(mgl64.Vec2{v[0] + 1, 1 - v[1]}, size.Mul(0.5))
}

func vecMul(a, b mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{a[0] * b[0], a[1] * b[1]}
}
