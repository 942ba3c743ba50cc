package control

import (
	"maps"
	"slices"

	"github.com/taigrr/datejust/pkg/math3d"
)

// Pose is a camera position and the point it orbits.
type Pose struct {
	Position math3d.Vec3
	Target   math3d.Vec3
}

var cameraPresets = map[string]Pose{
	"dial":     {Position: math3d.V3(0, 0, 5)},
	"case":     {Position: math3d.V3(4, 2, 4)},
	"crown":    {Position: math3d.V3(3, 0, 0), Target: math3d.V3(1.5, 0, 0)},
	"bracelet": {Position: math3d.V3(0, -4, 6), Target: math3d.V3(0, -1, 0)},
}

// lightingPresets give the intensity of the i-th non-ambient light.
var lightingPresets = map[string]func(i int) float64{
	"studio": func(i int) float64 {
		if i == 0 {
			return 1.0
		}
		return 0.5
	},
	"jewelry": func(i int) float64 {
		if i < 2 {
			return 0.7
		}
		return 1.0
	},
	"natural": func(int) float64 { return 0.6 },
}

// CameraPreset returns the named camera pose.
func CameraPreset(name string) (Pose, bool) {
	p, ok := cameraPresets[name]
	return p, ok
}

// CameraPresets lists the camera preset names in order.
func CameraPresets() []string {
	return slices.Sorted(maps.Keys(cameraPresets))
}

// LightingPresets lists the lighting preset names in order.
func LightingPresets() []string {
	return slices.Sorted(maps.Keys(lightingPresets))
}
