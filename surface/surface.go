/*
Package surface implements a display surface that renders into memory.

The uploaded texture is scaled into the pixel rectangle covered by the quad
and everything outside of it is cleared to black, the same picture a window
would show.
*/
package surface

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/bodgit/pnmview"
	"github.com/bodgit/pnmview/layout"
	"github.com/nfnt/resize"
)

var errNoTexture = errors.New("surface: no texture uploaded")

// Raster is an in-memory Surface.
type Raster struct {
	canvas  *image.RGBA
	texture image.Image

	// Interpolation used when scaling the texture
	Interpolation resize.InterpolationFunction
}

// New returns a Raster of the given size.
func New(width, height int) *Raster {
	return &Raster{
		canvas:        image.NewRGBA(image.Rect(0, 0, width, height)),
		Interpolation: resize.Bilinear,
	}
}

// UploadTexture keeps a copy of the texture samples.
func (r *Raster) UploadTexture(t pnmview.Texture) error {
	if t.Image == nil {
		return errNoTexture
	}
	r.texture = t.Image.Image()
	return nil
}

// RenderQuad clears the canvas and draws the texture into the area covered
// by g.
func (r *Raster) RenderQuad(g layout.Geometry) error {
	if r.texture == nil {
		return errNoTexture
	}

	b := r.canvas.Bounds()
	draw.Draw(r.canvas, b, &image.Uniform{color.Black}, image.Point{}, draw.Src)

	min, max := g.Rect(b.Dx(), b.Dy())
	dst := image.Rect(
		int(math.Round(min[0])), int(math.Round(min[1])),
		int(math.Round(max[0])), int(math.Round(max[1])),
	).Intersect(b)
	if dst.Empty() {
		return nil
	}

	scaled := resize.Resize(uint(dst.Dx()), uint(dst.Dy()), r.texture, r.Interpolation)
	draw.Draw(r.canvas, dst, scaled, scaled.Bounds().Min, draw.Src)

	return nil
}

// Resize replaces the canvas with a blank one of the given size. The
// texture is kept.
func (r *Raster) Resize(width, height int) {
	r.canvas = image.NewRGBA(image.Rect(0, 0, width, height))
}

// Image returns the canvas.
func (r *Raster) Image() *image.RGBA {
	return r.canvas
}
