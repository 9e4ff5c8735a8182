/*
Package export writes decoded images in formats other tools understand.

PNG keeps 16-bit samples intact, GIF reduces the image to a single palette of
at most 256 colors and PPM always writes 8-bit samples.
*/
package export

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/ericpauley/go-quantize/quantize"
	"github.com/lmittmann/ppm"
)

// Format is an output file format.
type Format int

const (
	PNG Format = iota
	GIF
	PPM
)

const maxColors = 256

func (f Format) String() string {
	switch f {
	case PNG:
		return "png"
	case GIF:
		return "gif"
	case PPM:
		return "ppm"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// ParseFormat returns the Format with the given name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "png":
		return PNG, nil
	case "gif":
		return GIF, nil
	case "ppm", "pnm":
		return PPM, nil
	}
	return 0, fmt.Errorf("export: unknown format %q", s)
}

// FormatFromPath returns the Format matching the extension of path.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
}

// Encode writes m to w in the given format.
func Encode(w io.Writer, m image.Image, f Format) error {
	switch f {
	case PNG:
		return png.Encode(w, m)
	case GIF:
		return gif.Encode(w, paletted(m), nil)
	case PPM:
		return ppm.Encode(w, m)
	default:
		return fmt.Errorf("export: unsupported format %v", f)
	}
}

// paletted converts m to a paletted image, using a median cut quantizer
// when it has more colors than a GIF can hold.
func paletted(m image.Image) *image.Paletted {
	if pm, ok := m.(*image.Paletted); ok && len(pm.Palette) <= maxColors {
		return pm
	}

	b := m.Bounds()

	if p := uniqueColors(m, maxColors); p != nil {
		pm := image.NewPaletted(b, p)
		draw.Draw(pm, b, m, b.Min, draw.Src)
		return pm
	}

	q := quantize.MedianCutQuantizer{}
	pm := image.NewPaletted(b, q.Quantize(make(color.Palette, 0, maxColors), m))
	draw.Draw(pm, b, m, b.Min, draw.Src)

	return pm
}

// uniqueColors returns the palette of m, or nil if it has more than max
// colors.
func uniqueColors(m image.Image, max int) color.Palette {
	seen := make(map[color.Color]struct{})
	p := make(color.Palette, 0, max)

	b := m.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := m.At(x, y)
			if _, ok := seen[c]; ok {
				continue
			}
			if len(p) == max {
				return nil
			}
			seen[c] = struct{}{}
			p = append(p, c)
		}
	}

	return p
}
