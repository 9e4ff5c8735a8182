/*
Package pnm implements a decoder and encoder for the binary members of the
portable anymap family: P5 (graymap) and P6 (pixmap).

The header is a magic number followed by the width, height and maximum sample
value as whitespace separated decimal numbers. A '#' outside of a number
starts a comment that runs to the end of the line. A single whitespace byte
separates the header from the raw samples, which are one byte each when the
maximum sample value is below 256 and two bytes each otherwise.

Decoded samples are always normalized to one of two fixed depths: 8-bit
samples are rescaled to the full 0-255 range and 16-bit samples to the full
0-65535 range, so consumers only ever deal with two texel formats.
*/
package pnm

import (
	"encoding/binary"
	"image"
	"io"
)

const (
	maxVal8  = 0xff
	maxVal16 = 0xffff

	// Upper bound on width*height*channels accepted by the decoder
	maxSamples = 1 << 28
)

// Magic identifies the variant of the file.
type Magic int

const (
	// Gray is a P5 graymap with one channel per pixel.
	Gray Magic = iota + 1
	// RGB is a P6 pixmap with three channels per pixel.
	RGB
)

func (m Magic) String() string {
	switch m {
	case Gray:
		return "P5"
	case RGB:
		return "P6"
	default:
		return "unknown"
	}
}

// Channels returns the number of samples per pixel.
func (m Magic) Channels() int {
	if m == RGB {
		return 3
	}
	return 1
}

// Layout returns the channel layout used to upload the samples.
func (m Magic) Layout() ChannelLayout {
	if m == RGB {
		return LayoutRGB
	}
	return LayoutLuminance
}

func parseMagic(s string) (Magic, bool) {
	switch s {
	case "P5":
		return Gray, true
	case "P6":
		return RGB, true
	}
	return 0, false
}

// ChannelLayout describes how consecutive samples make up a pixel.
type ChannelLayout int

const (
	LayoutLuminance ChannelLayout = iota
	LayoutRGB
)

func (l ChannelLayout) String() string {
	if l == LayoutRGB {
		return "RGB"
	}
	return "Luminance"
}

// Header is the parsed file header.
type Header struct {
	Magic  Magic
	Width  int
	Height int
	MaxVal int
}

// SampleSize returns the number of bytes used to store each raw sample.
func (h Header) SampleSize() int {
	if h.MaxVal < 256 {
		return 1
	}
	return 2
}

// RowLength returns the number of samples in a single row.
func (h Header) RowLength() int {
	return h.Width * h.Magic.Channels()
}

// Samples returns the total number of samples in the image.
func (h Header) Samples() int {
	return h.Height * h.RowLength()
}

// Options control the byte layout of 16-bit samples.
type Options struct {
	// ByteOrder composes each 16-bit sample from its two raw bytes. A nil
	// ByteOrder means little-endian.
	ByteOrder binary.ByteOrder
}

func (o Options) byteOrder() binary.ByteOrder {
	if o.ByteOrder == nil {
		return binary.LittleEndian
	}
	return o.ByteOrder
}

func init() {
	image.RegisterFormat("pgm", "P5", func(r io.Reader) (image.Image, error) {
		m, err := Decode(r)
		if err != nil {
			return nil, err
		}
		return m.Image(), nil
	}, DecodeConfig)
	image.RegisterFormat("ppm", "P6", func(r io.Reader) (image.Image, error) {
		m, err := Decode(r)
		if err != nil {
			return nil, err
		}
		return m.Image(), nil
	}, DecodeConfig)
}
