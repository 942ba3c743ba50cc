package orbit

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taigrr/datejust/pkg/math3d"
	"github.com/taigrr/datejust/pkg/stage"
)

func TestSyncKeepsPose(t *testing.T) {
	cam := stage.DefaultCamera()
	cam.Position = math3d.V3(4, 2, 4)
	c := New(cam, 60)

	assert.InDelta(t, 6, c.Distance(), 1e-9)
	c.Update(&cam)
	assert.True(t, cam.Position.ApproxEqual(math3d.V3(4, 2, 4), 1e-9), "got %v", cam.Position)
	assert.False(t, c.Moving())
}

func TestRotateCoastsToStop(t *testing.T) {
	cam := stage.DefaultCamera()
	c := New(cam, 60)

	c.Rotate(0.05, 0)
	assert.True(t, c.Moving())
	assert.True(t, c.Update(&cam))
	assert.Greater(t, cam.Position.X, 0.0, "positive azimuth swings toward +X")

	for range 600 {
		c.Update(&cam)
	}
	assert.False(t, c.Moving())
	assert.InDelta(t, 8, cam.Position.Len(), 1e-9, "rotation keeps the distance")

	settled := cam.Position
	assert.False(t, c.Update(&cam))
	assert.True(t, settled.ApproxEqual(cam.Position, 1e-9))
}

func TestZoomIsClamped(t *testing.T) {
	cam := stage.DefaultCamera()
	c := New(cam, 60)

	c.Zoom(-100)
	for range 300 {
		c.Update(&cam)
	}
	assert.InDelta(t, MinDistance, cam.Position.Sub(cam.Target).Len(), 1e-9)

	c.Zoom(100)
	for range 300 {
		c.Update(&cam)
	}
	assert.InDelta(t, MaxDistance, cam.Position.Sub(cam.Target).Len(), 1e-9)
}

func TestCloserPresetIsPushedToMinimum(t *testing.T) {
	cam := stage.DefaultCamera()
	cam.Position, cam.Target = math3d.V3(3, 0, 0), math3d.V3(1.5, 0, 0)
	c := New(cam, 60)

	c.Update(&cam)
	assert.Equal(t, math3d.V3(1.5, 0, 0), cam.Target)
	assert.True(t, cam.Position.ApproxEqual(math3d.V3(4.5, 0, 0), 1e-9), "got %v", cam.Position)
}

func TestPolarStaysOffThePoles(t *testing.T) {
	cam := stage.DefaultCamera()
	c := New(cam, 60)

	c.Rotate(0, -10)
	for range 100 {
		c.Update(&cam)
	}
	dir := cam.Position.Sub(cam.Target).Normalize()
	assert.Less(t, dir.Y, 1.0)
	assert.InDelta(t, math.Cos(polarMargin), dir.Y, 1e-9)
}
