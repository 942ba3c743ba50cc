package control

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/datejust/pkg/material"
	"github.com/taigrr/datejust/pkg/math3d"
	"github.com/taigrr/datejust/pkg/parts"
	"github.com/taigrr/datejust/pkg/watch"
)

const eps = 1e-9

// fakeRenderer records what the controller sends.
type fakeRenderer struct {
	position, target math3d.Vec3
	poses            int
	lights           []float64
	environment      float64
}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{
		position:    math3d.V3(0, 0, 8),
		lights:      []float64{1, 0.5, 0.8, 0.5, 0.5},
		environment: 1,
	}
}

func (f *fakeRenderer) SetCameraPose(p, t math3d.Vec3) {
	f.position, f.target = p, t
	f.poses++
}
func (f *fakeRenderer) SetLightIntensity(i int, v float64) { f.lights[i] = v }
func (f *fakeRenderer) SetEnvironment(m float64)           { f.environment = m }
func (f *fakeRenderer) LightCount() int                    { return len(f.lights) }

func setup(t *testing.T, o Options) (*Controller, *watch.Model, *fakeRenderer) {
	t.Helper()
	m, err := watch.Assemble(material.MustRegistry(), parts.DetailStandard)
	require.NoError(t, err)
	r := newFakeRenderer()
	return New(m, r, o), m, r
}

func TestExplodeIsSelfInverse(t *testing.T) {
	c, m, _ := setup(t, Options{})
	rest := map[string]math3d.Transform{}
	for _, n := range m.Movable() {
		rest[n.Name()] = n.Transform()
	}
	crystal := m.Crystal.Transform()

	c.ToggleExplode()
	assert.True(t, c.State().Exploded)
	assert.InDelta(t, -0.5, m.Case.Transform().Position.Y, eps)
	assert.InDelta(t, 0.25, m.Dial.Transform().Position.Y, eps)
	assert.InDelta(t, 0.28+0.5, m.Hands.Transform().Position.Y, eps)
	assert.InDelta(t, -0.75, m.Bracelet.Transform().Position.Y, eps)
	assert.Equal(t, crystal, m.Crystal.Transform(), "the crystal stays on the case")

	c.ToggleExplode()
	assert.False(t, c.State().Exploded)
	for _, n := range m.Movable() {
		assert.Equal(t, rest[n.Name()], n.Transform(), n.Name())
	}
}

func TestEasedExplodeSettles(t *testing.T) {
	c, m, _ := setup(t, Options{EaseExplode: true, FPS: 60})
	c.ToggleExplode()
	assert.InDelta(t, 0, m.Case.Transform().Position.Y, eps, "no jump before the first tick")

	for range 600 {
		c.Tick(0)
	}
	assert.InDelta(t, -0.5, m.Case.Transform().Position.Y, 1e-3)

	c.ToggleExplode()
	for range 600 {
		c.Tick(0)
	}
	assert.InDelta(t, 0, m.Case.Transform().Position.Y, 1e-3)
	assert.InDelta(t, 0.28, m.Hands.Transform().Position.Y, 1e-3)
}

func TestCameraPreset(t *testing.T) {
	c, _, r := setup(t, Options{})
	require.NoError(t, c.SetCameraPreset("crown"))
	assert.Equal(t, math3d.V3(3, 0, 0), r.position)
	assert.Equal(t, math3d.V3(1.5, 0, 0), r.target)
	assert.Equal(t, "crown", c.State().Camera)

	err := c.SetCameraPreset("wrist")
	assert.ErrorIs(t, err, ErrUnknownPreset)
	assert.Equal(t, math3d.V3(3, 0, 0), r.position)
	assert.Equal(t, 1, r.poses)
	assert.Equal(t, "crown", c.State().Camera)

	c.ResetView(Pose{Position: math3d.V3(0, 0, 8)})
	assert.Equal(t, math3d.V3(0, 0, 8), r.position)
	assert.Empty(t, c.State().Camera)
}

func TestCameraPresetTable(t *testing.T) {
	assert.Equal(t, []string{"bracelet", "case", "crown", "dial"}, CameraPresets())
	p, ok := CameraPreset("bracelet")
	require.True(t, ok)
	assert.Equal(t, Pose{Position: math3d.V3(0, -4, 6), Target: math3d.V3(0, -1, 0)}, p)
}

func TestLightingPresets(t *testing.T) {
	c, _, r := setup(t, Options{})
	cases := map[string][]float64{
		"studio":  {1, 0.5, 0.5, 0.5, 0.5},
		"jewelry": {0.7, 0.7, 1, 1, 1},
		"natural": {0.6, 0.6, 0.6, 0.6, 0.6},
	}
	for name, want := range cases {
		require.NoError(t, c.SetLightingPreset(name))
		assert.Equal(t, want, r.lights, name)
		assert.Equal(t, name, c.State().Lighting)
	}

	before := append([]float64(nil), r.lights...)
	assert.ErrorIs(t, c.SetLightingPreset("candle"), ErrUnknownPreset)
	assert.Equal(t, before, r.lights)
}

func TestEnvironmentIntensityIsNotCumulative(t *testing.T) {
	c, _, r := setup(t, Options{})
	require.NoError(t, c.SetEnvironmentIntensity(50))
	require.NoError(t, c.SetEnvironmentIntensity(50))
	assert.InDelta(t, 0.5, r.environment, eps)

	for _, v := range []float64{-1, 101, math.NaN()} {
		assert.ErrorIs(t, c.SetEnvironmentIntensity(v), ErrInvalidParameter)
	}
	assert.InDelta(t, 50, c.State().Environment, eps)
}

func TestTimeAnimationRates(t *testing.T) {
	c, m, _ := setup(t, Options{TimeAnimation: true})
	start := 10 * time.Minute

	c.Tick(start)
	sec0 := m.HandSet.Second.Transform().Rotation.Z
	min0 := m.HandSet.Minute.Transform().Rotation.Z
	hour0 := m.HandSet.Hour.Transform().Rotation.Z

	c.Tick(start + 60*time.Second)
	assert.InDelta(t, -2*math.Pi, m.HandSet.Second.Transform().Rotation.Z-sec0, 1e-9)
	assert.InDelta(t, -2*math.Pi/60, m.HandSet.Minute.Transform().Rotation.Z-min0, 1e-9)
	assert.InDelta(t, -2*math.Pi/720, m.HandSet.Hour.Transform().Rotation.Z-hour0, 1e-9)
}

func TestSweepWithoutTimeAnimation(t *testing.T) {
	c, m, _ := setup(t, Options{})
	hour := m.HandSet.Hour.Transform()

	for range 10 {
		c.Tick(time.Hour)
	}
	assert.InDelta(t, -0.1, m.HandSet.Second.Transform().Rotation.Z, eps)
	assert.Equal(t, hour, m.HandSet.Hour.Transform())

	c.ToggleTimeAnimation()
	c.Tick(15 * time.Second)
	assert.InDelta(t, -math.Pi/2, m.HandSet.Second.Transform().Rotation.Z, eps)

	// The sweep continues from where the animation left the hand.
	c.ToggleTimeAnimation()
	c.Tick(0)
	assert.InDelta(t, -math.Pi/2-SweepStep, m.HandSet.Second.Transform().Rotation.Z, eps)
}

func TestRotationTogglePairing(t *testing.T) {
	steady, ms, _ := setup(t, Options{Rotate: true})
	toggled, mt, _ := setup(t, Options{Rotate: true})

	for i := range 50 {
		if i == 20 {
			toggled.ToggleRotation()
			toggled.ToggleRotation()
			toggled.ToggleRotation()
			toggled.ToggleRotation()
		}
		steady.Tick(0)
		toggled.Tick(0)
	}
	assert.InDelta(t, steady.State().Yaw, toggled.State().Yaw, eps)
	assert.InDelta(t, 50*YawStep, steady.State().Yaw, eps)
	assert.Equal(t, ms.Root.Transform(), mt.Root.Transform())
	assert.InDelta(t, watch.Tilt, ms.Root.Transform().Rotation.X, eps)

	toggled.ToggleRotation()
	for range 10 {
		toggled.Tick(0)
	}
	assert.InDelta(t, 50*YawStep, toggled.State().Yaw, eps)
}
