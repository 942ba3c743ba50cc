// Package stage composes a watch model with its lights, camera and
// environment into the renderable scene.
package stage

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/taigrr/datejust/pkg/math3d"
	"github.com/taigrr/datejust/pkg/watch"
)

// LightKind distinguishes how a light contributes to shading.
type LightKind int

const (
	Directional LightKind = iota
	Ambient
	Spot
)

func (k LightKind) String() string {
	switch k {
	case Directional:
		return "directional"
	case Ambient:
		return "ambient"
	case Spot:
		return "spot"
	}
	return "unknown"
}

// Light is one light of the studio rig.
type Light struct {
	Name      string
	Kind      LightKind
	Position  math3d.Vec3 // Directional lights shine from Position toward the origin
	Color     colorful.Color
	Intensity float64
	Angle     float64 // Spot cone half-angle in radians
	Penumbra  float64 // Spot edge softness, 0-1
}

// Camera is the viewing pose and lens.
type Camera struct {
	Position math3d.Vec3
	Target   math3d.Vec3
	FOV      float64 // Vertical field of view in degrees
	Near     float64
	Far      float64
}

// Stage is the composed scene handed to the renderer every frame.
type Stage struct {
	Model      *watch.Model
	Lights     []Light
	Camera     Camera
	Background colorful.Color

	// Environment scales every material's env map intensity, 0-1.
	Environment float64
}

// DefaultCamera returns the opening camera: 35° lens at (0, 0, 8).
func DefaultCamera() Camera {
	return Camera{
		Position: math3d.V3(0, 0, 8),
		FOV:      35,
		Near:     0.1,
		Far:      1000,
	}
}

// StudioRig returns the six-light rig: key, fill, rim, ambient and two
// sparkle spots.
func StudioRig() []Light {
	white := colorful.Color{R: 1, G: 1, B: 1}
	return []Light{
		{Name: "key", Kind: Directional, Position: math3d.V3(5, 8, 5), Color: white, Intensity: 1.0},
		{Name: "fill", Kind: Directional, Position: math3d.V3(-5, 5, -5), Color: white, Intensity: 0.5},
		{Name: "rim", Kind: Directional, Position: math3d.V3(0, 10, -10), Color: white, Intensity: 0.8},
		{Name: "ambient", Kind: Ambient, Color: white, Intensity: 0.3},
		{Name: "spot-right", Kind: Spot, Position: math3d.V3(3, 5, 3), Color: white, Intensity: 0.5, Angle: 0.5236, Penumbra: 0.5},
		{Name: "spot-left", Kind: Spot, Position: math3d.V3(-3, 5, 3), Color: white, Intensity: 0.5, Angle: 0.5236, Penumbra: 0.5},
	}
}

// Compose places the model on a stage with the studio rig, default camera
// and full environment intensity.
func Compose(m *watch.Model, background colorful.Color) *Stage {
	return &Stage{
		Model:       m,
		Lights:      StudioRig(),
		Camera:      DefaultCamera(),
		Background:  background,
		Environment: 1,
	}
}

// SetCameraPose moves the camera and its orbit target.
func (s *Stage) SetCameraPose(position, target math3d.Vec3) {
	s.Camera.Position = position
	s.Camera.Target = target
}

// LightCount returns the number of non-ambient lights.
func (s *Stage) LightCount() int {
	n := 0
	for _, l := range s.Lights {
		if l.Kind != Ambient {
			n++
		}
	}
	return n
}

// SetLightIntensity sets the intensity of the i-th non-ambient light.
// Indices out of range are ignored.
func (s *Stage) SetLightIntensity(i int, intensity float64) {
	n := 0
	for j := range s.Lights {
		if s.Lights[j].Kind == Ambient {
			continue
		}
		if n == i {
			s.Lights[j].Intensity = intensity
			return
		}
		n++
	}
}

// SetEnvironment sets the env map intensity multiplier.
func (s *Stage) SetEnvironment(multiplier float64) {
	s.Environment = multiplier
}
