package main

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/bodgit/pnmview/export"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteImage(t *testing.T) {
	m := image.NewGray(image.Rect(0, 0, 2, 1))
	m.SetGray(1, 0, color.Gray{Y: 200})

	file := filepath.Join(t.TempDir(), "out.png")
	require.NoError(t, writeImage(file, m, export.PNG))

	f, err := os.Open(file)
	require.NoError(t, err)
	defer f.Close()

	got, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, color.Gray{Y: 200}, color.GrayModel.Convert(got.At(1, 0)))
}

func TestWriteImageErrors(t *testing.T) {
	m := image.NewGray(image.Rect(0, 0, 1, 1))

	// Directory doesn't exist
	assert.Error(t, writeImage(filepath.Join(t.TempDir(), "missing", "out.png"), m, export.PNG))

	// The output is a directory
	assert.Error(t, writeImage(t.TempDir(), m, export.PNG))
}

func TestWriteImageFull(t *testing.T) {
	full, err := os.OpenFile("/dev/full", os.O_WRONLY, 0)
	if err != nil {
		t.Skip("no /dev/full")
	}
	full.Close()

	// Buffered writes can fail late, either in the encoder or on close
	assert.Error(t, writeImage("/dev/full", image.NewGray(image.Rect(0, 0, 64, 64)), export.PPM))
}
