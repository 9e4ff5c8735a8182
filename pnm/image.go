package pnm

import (
	"image"
	"image/color"
)

// Image is a decoded image. Exactly one of Pix8 and Pix16 is set depending on
// Header.SampleSize, holding Header.Samples() samples in row-major order with
// the channels of each pixel adjacent. The samples are normalized so the
// maximum value is always 255 or 65535; Header.MaxVal keeps the value read
// from the file.
type Image struct {
	Header

	Pix8  []uint8
	Pix16 []uint16
}

// Layout returns the channel layout of the samples.
func (m *Image) Layout() ChannelLayout {
	return m.Magic.Layout()
}

// AspectRatio returns the height divided by the width.
func (m *Image) AspectRatio() float64 {
	return float64(m.Height) / float64(m.Width)
}

// Sample returns channel c of the pixel at (x, y) widened to 16 bits.
func (m *Image) Sample(x, y, c int) uint16 {
	i := y*m.RowLength() + x*m.Magic.Channels() + c
	if m.Pix16 != nil {
		return m.Pix16[i]
	}
	return uint16(m.Pix8[i])
}

// Bounds returns the image rectangle anchored at the origin.
func (m *Image) Bounds() image.Rectangle {
	return image.Rect(0, 0, m.Width, m.Height)
}

// Image returns a standard library view of m. The samples are copied.
func (m *Image) Image() image.Image {
	r := m.Bounds()

	switch {
	case m.Magic == Gray && m.Pix8 != nil:
		img := image.NewGray(r)
		copy(img.Pix, m.Pix8)
		return img
	case m.Magic == Gray:
		img := image.NewGray16(r)
		for i, v := range m.Pix16 {
			img.Pix[i<<1+0] = uint8(v >> 8)
			img.Pix[i<<1+1] = uint8(v)
		}
		return img
	case m.Pix8 != nil:
		img := image.NewRGBA(r)
		for y := 0; y < m.Height; y++ {
			for x := 0; x < m.Width; x++ {
				i := y*m.RowLength() + x*3
				img.SetRGBA(x, y, color.RGBA{m.Pix8[i], m.Pix8[i+1], m.Pix8[i+2], 0xff})
			}
		}
		return img
	default:
		img := image.NewRGBA64(r)
		for y := 0; y < m.Height; y++ {
			for x := 0; x < m.Width; x++ {
				i := y*m.RowLength() + x*3
				img.SetRGBA64(x, y, color.RGBA64{m.Pix16[i], m.Pix16[i+1], m.Pix16[i+2], 0xffff})
			}
		}
		return img
	}
}
