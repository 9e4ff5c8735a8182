package layout

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func TestCompute(t *testing.T) {
	tables := map[string]struct {
		aspect        float64
		width, height float64
		mode          Mode
		want          Geometry
	}{
		"tall image square surface": {2.0, 100, 100, FitPreserveAspect, Geometry{0.5, 1}},
		"wide image square surface": {0.5, 100, 100, FitPreserveAspect, Geometry{1, 0.5}},
		"same shape":                {0.75, 800, 600, FitPreserveAspect, Geometry{1, 1}},
		"tall surface":              {1, 100, 400, FitPreserveAspect, Geometry{1, 0.25}},
		"wide surface":              {1, 400, 100, FitPreserveAspect, Geometry{0.25, 1}},
		"fill tall image":           {2.0, 100, 100, FillWindow, Full},
		"fill wide surface":         {1, 400, 100, FillWindow, Full},
	}

	for name, table := range tables {
		t.Run(name, func(t *testing.T) {
			g, ok := Compute(table.aspect, table.width, table.height, table.mode)
			assert.True(t, ok)
			assert.InDelta(t, table.want.X, g.X, 1e-12)
			assert.InDelta(t, table.want.Y, g.Y, 1e-12)
		})
	}
}

func TestComputeDegenerateSurface(t *testing.T) {
	for _, size := range [][2]float64{{0, 0}, {0, 100}, {100, 0}, {-1, 100}, {100, -5}} {
		for _, mode := range []Mode{FitPreserveAspect, FillWindow} {
			_, ok := Compute(1.5, size[0], size[1], mode)
			assert.False(t, ok, "%v %v", size, mode)
		}
	}
}

func TestComputeExclusive(t *testing.T) {
	aspects := []float64{0.01, 0.3, 0.5625, 0.75, 1, 1.333, 2, 17}
	sizes := []float64{1, 3, 64, 480, 640, 1080, 1920, 4096}

	for _, aspect := range aspects {
		for _, w := range sizes {
			for _, h := range sizes {
				g, ok := Compute(aspect, w, h, FitPreserveAspect)
				assert.True(t, ok)
				assert.True(t, g.X == 1 || g.Y == 1, "aspect %v surface %vx%v: %v", aspect, w, h, g)
				assert.LessOrEqual(t, g.X, 1.0)
				assert.LessOrEqual(t, g.Y, 1.0)
				assert.Greater(t, g.X, 0.0)
				assert.Greater(t, g.Y, 0.0)

				g, ok = Compute(aspect, w, h, FillWindow)
				assert.True(t, ok)
				assert.Equal(t, Full, g)
			}
		}
	}
}

func TestModeToggle(t *testing.T) {
	var m Mode
	assert.Equal(t, FitPreserveAspect, m)
	assert.Equal(t, FillWindow, m.Toggle())
	assert.Equal(t, FitPreserveAspect, m.Toggle().Toggle())
	assert.Equal(t, "fit", m.String())
	assert.Equal(t, "fill", m.Toggle().String())
}

func TestAspectRatio(t *testing.T) {
	assert.Equal(t, 0.75, AspectRatio(640, 480))
	assert.Equal(t, 2.0, AspectRatio(1, 2))
}

func TestVertices(t *testing.T) {
	pos, tex := Geometry{0.5, 1}.Vertices()
	assert.Equal(t, [4]mgl64.Vec2{{-0.5, 1}, {-0.5, -1}, {0.5, -1}, {0.5, 1}}, pos)
	assert.Equal(t, [4]mgl64.Vec2{{0, 0}, {0, 1}, {1, 1}, {1, 0}}, tex)
}

func TestRect(t *testing.T) {
	min, max := Geometry{0.5, 1}.Rect(200, 100)
	assert.Equal(t, mgl64.Vec2{50, 0}, min)
	assert.Equal(t, mgl64.Vec2{150, 100}, max)

	min, max = Full.Rect(64, 32)
	assert.Equal(t, mgl64.Vec2{0, 0}, min)
	assert.Equal(t, mgl64.Vec2{64, 32}, max)
}

func TestRectFollowsVertices(t *testing.T) {
	g := Geometry{0.25, 0.5}
	size := mgl64.Vec2{400, 200}

	pos, tex := g.Vertices()
	min, max := g.Rect(400, 200)

	// Each corner lands on the pixel its texture coordinate says it should
	for i := range pos {
		want := min.Add(vecMul(tex[i], max.Sub(min)))
		assert.Equal(t, want, toPixel(pos[i], size), "vertex %d", i)
	}

	assert.Equal(t, mgl64.Vec2{150, 50}, min)
	assert.Equal(t, mgl64.Vec2{250, 150}, max)
}
