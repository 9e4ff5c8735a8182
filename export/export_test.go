package export

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"testing"

	"github.com/bodgit/pnmview/pnm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gradient(width, height int) *pnm.Image {
	m := &pnm.Image{Header: pnm.Header{Magic: pnm.RGB, Width: width, Height: height, MaxVal: 65535}}
	m.Pix16 = make([]uint16, m.Samples())
	for i := range m.Pix16 {
		m.Pix16[i] = uint16(i * 997)
	}
	return m
}

func TestParseFormat(t *testing.T) {
	tables := map[string]Format{
		"png": PNG,
		"PNG": PNG,
		"gif": GIF,
		"ppm": PPM,
		"pnm": PPM,
	}
	for in, want := range tables {
		f, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, f, in)
	}

	_, err := ParseFormat("jpeg")
	assert.Error(t, err)

	f, err := FormatFromPath("/tmp/out.gif")
	require.NoError(t, err)
	assert.Equal(t, GIF, f)

	_, err = FormatFromPath("/tmp/out")
	assert.Error(t, err)
}

func TestEncodePNGKeepsDepth(t *testing.T) {
	src := gradient(5, 4)

	buf := new(bytes.Buffer)
	require.NoError(t, Encode(buf, src.Image(), PNG))

	m, err := png.Decode(buf)
	require.NoError(t, err)
	require.Equal(t, src.Bounds(), m.Bounds())

	for y := 0; y < 4; y++ {
		for x := 0; x < 5; x++ {
			r, g, b, _ := m.At(x, y).RGBA()
			assert.Equal(t, uint32(src.Sample(x, y, 0)), r)
			assert.Equal(t, uint32(src.Sample(x, y, 1)), g)
			assert.Equal(t, uint32(src.Sample(x, y, 2)), b)
		}
	}
}

func TestEncodeGIF(t *testing.T) {
	src := gradient(32, 32)

	b := new(bytes.Buffer)
	require.NoError(t, Encode(b, src.Image(), GIF))

	m, err := gif.Decode(b)
	require.NoError(t, err)
	assert.Equal(t, src.Bounds(), m.Bounds())

	pm, ok := m.(*image.Paletted)
	require.True(t, ok)
	assert.LessOrEqual(t, len(pm.Palette), maxColors)
}

func TestEncodeGIFExactPalette(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 4, 1))
	for x := 0; x < 4; x++ {
		src.SetGray(x, 0, color.Gray{Y: uint8(x * 80)})
	}

	b := new(bytes.Buffer)
	require.NoError(t, Encode(b, src, GIF))

	m, err := gif.Decode(b)
	require.NoError(t, err)
	for x := 0; x < 4; x++ {
		r, _, _, _ := m.At(x, 0).RGBA()
		assert.Equal(t, uint32(x*80)*0x101, r)
	}
}

func TestEncodePPM(t *testing.T) {
	src, err := pnm.Decode(bytes.NewReader(append([]byte("P5 3 1 15\n"), 0, 5, 15)))
	require.NoError(t, err)

	b := new(bytes.Buffer)
	require.NoError(t, Encode(b, src.Image(), PPM))

	m, err := pnm.Decode(b)
	require.NoError(t, err)
	assert.Equal(t, pnm.RGB, m.Magic)
	assert.Equal(t, []uint8{0, 0, 0, 85, 85, 85, 255, 255, 255}, m.Pix8)
}

func TestEncodeUnknownFormat(t *testing.T) {
	assert.Error(t, Encode(new(bytes.Buffer), image.NewGray(image.Rect(0, 0, 1, 1)), Format(42)))
}
