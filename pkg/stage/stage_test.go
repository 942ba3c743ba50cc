package stage

import (
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/datejust/pkg/material"
	"github.com/taigrr/datejust/pkg/math3d"
	"github.com/taigrr/datejust/pkg/parts"
	"github.com/taigrr/datejust/pkg/watch"
)

func compose(t *testing.T) *Stage {
	t.Helper()
	m, err := watch.Assemble(material.MustRegistry(), parts.DetailStandard)
	require.NoError(t, err)
	return Compose(m, colorful.Color{})
}

func TestComposeDefaults(t *testing.T) {
	s := compose(t)
	assert.Len(t, s.Lights, 6)
	assert.Equal(t, 5, s.LightCount())
	assert.Equal(t, math3d.V3(0, 0, 8), s.Camera.Position)
	assert.InDelta(t, 35, s.Camera.FOV, 0)
	assert.InDelta(t, 1, s.Environment, 0)
	assert.NotNil(t, s.Model)
}

func TestSetLightIntensitySkipsAmbient(t *testing.T) {
	s := compose(t)
	s.SetLightIntensity(3, 0.9)

	assert.InDelta(t, 0.3, s.Lights[3].Intensity, 0, "ambient untouched")
	assert.InDelta(t, 0.9, s.Lights[4].Intensity, 0)
	assert.Equal(t, "spot-right", s.Lights[4].Name)

	s.SetLightIntensity(17, 2)
	s.SetLightIntensity(-1, 2)
	for _, l := range s.Lights {
		assert.LessOrEqual(t, l.Intensity, 1.0)
	}
}

func TestSetCameraPose(t *testing.T) {
	s := compose(t)
	s.SetCameraPose(math3d.V3(3, 0, 0), math3d.V3(1.5, 0, 0))
	assert.Equal(t, math3d.V3(3, 0, 0), s.Camera.Position)
	assert.Equal(t, math3d.V3(1.5, 0, 0), s.Camera.Target)
	assert.InDelta(t, 35, s.Camera.FOV, 0)
}
