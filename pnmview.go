/*
Package pnmview displays binary PGM and PPM images.

A Session owns a decoded image and the current fit mode and drives a Surface,
the collaborator that actually puts pixels on screen. The texture is uploaded
once and the image quad is recomputed and rendered again whenever the surface
is resized or the fit mode is toggled.
*/
package pnmview

import (
	"path/filepath"

	"github.com/bodgit/pnmview/layout"
	"github.com/bodgit/pnmview/pnm"
	"go.uber.org/zap"
)

const titleSuffix = " - PGM, PPM Viewer"

// Texture describes the decoded samples handed to a Surface. Image is
// borrowed for the duration of the upload and must not be modified.
type Texture struct {
	Width      int
	Height     int
	Layout     pnm.ChannelLayout
	SampleSize int
	Image      *pnm.Image
}

// Surface is implemented by anything that can display a texture as a quad.
type Surface interface {
	UploadTexture(t Texture) error
	RenderQuad(g layout.Geometry) error
}

// Session holds the state of viewing a single image. It is not safe for
// concurrent use; events are expected to arrive from a single loop.
type Session struct {
	image   *pnm.Image
	surface Surface
	logger  *zap.SugaredLogger

	mode     layout.Mode
	width    int
	height   int
	geometry layout.Geometry
}

// NewSession uploads img to surface and renders it for a surface of the
// given size in the FitPreserveAspect mode.
func NewSession(img *pnm.Image, surface Surface, width, height int, logger *zap.SugaredLogger) (*Session, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	s := &Session{
		image:   img,
		surface: surface,
		logger:  logger,
		mode:    layout.FitPreserveAspect,
		width:   width,
		height:  height,
	}

	if err := surface.UploadTexture(Texture{
		Width:      img.Width,
		Height:     img.Height,
		Layout:     img.Layout(),
		SampleSize: img.SampleSize(),
		Image:      img,
	}); err != nil {
		return nil, err
	}
	s.logger.Debugw("Uploaded texture", "width", img.Width, "height", img.Height, "layout", img.Layout(), "sample_size", img.SampleSize())

	if err := s.render(); err != nil {
		return nil, err
	}

	return s, nil
}

// Mode returns the current fit mode.
func (s *Session) Mode() layout.Mode {
	return s.mode
}

// Geometry returns the most recently rendered geometry.
func (s *Session) Geometry() layout.Geometry {
	return s.geometry
}

// OnResize handles the surface changing size.
func (s *Session) OnResize(width, height int) error {
	s.width, s.height = width, height
	return s.render()
}

// OnToggleFitMode flips between preserving the aspect ratio and filling the
// surface.
func (s *Session) OnToggleFitMode() error {
	s.mode = s.mode.Toggle()
	s.logger.Debugw("Toggled fit mode", "mode", s.mode)
	return s.render()
}

func (s *Session) render() error {
	g, ok := layout.Compute(s.image.AspectRatio(), float64(s.width), float64(s.height), s.mode)
	if !ok {
		s.logger.Debugw("Skipping layout for empty surface", "width", s.width, "height", s.height)
		return nil
	}
	s.geometry = g

	s.logger.Debugw("Rendering quad", "x", g.X, "y", g.Y, "mode", s.mode)

	return s.surface.RenderQuad(g)
}

// Title returns the window title for the image at path.
func Title(path string) string {
	return filepath.Base(path) + titleSuffix
}
