package parts

import (
	"math"

	"github.com/taigrr/datejust/pkg/material"
	"github.com/taigrr/datejust/pkg/math3d"
	"github.com/taigrr/datejust/pkg/scene"
)

// CrystalParams shapes the sapphire crystal and its cyclops lens.
type CrystalParams struct {
	Radius        float64
	Depth         float64
	Bevel         float64
	CurveSegments int
	Lens          math3d.Vec3 // Cyclops lens center, over the date window
	LensRadius    float64
}

// DefaultCrystalParams returns the reference crystal.
func DefaultCrystalParams() CrystalParams {
	return CrystalParams{
		Radius:        1.3,
		Depth:         0.15,
		Bevel:         0.1,
		CurveSegments: 64,
		Lens:          math3d.V3(0.9, 0.45, 0),
		LensRadius:    0.15,
	}
}

// BuildCrystal builds the crystal disc and the half-sphere cyclops lens,
// flattened to half height.
func BuildCrystal(mats Materials, p CrystalParams) (*scene.Node, error) {
	if p.Radius <= 0 || p.LensRadius <= 0 {
		return nil, invalid("crystal radius %g lens radius %g", p.Radius, p.LensRadius)
	}
	if p.CurveSegments < 3 {
		return nil, invalid("crystal curve segments %d", p.CurveSegments)
	}
	a := newAssembly(mats, "crystal")
	a.add("glass", scene.Extrusion{
		Profile: circleProfile(p.Radius, p.CurveSegments),
		Depth:   p.Depth,
		Bevel:   p.Bevel,
	}, material.Crystal, math3d.At(math3d.V3(0, 0.3, 0)))
	a.add("cyclops", scene.Sphere{
		Radius:         p.LensRadius,
		WidthSegments:  32,
		HeightSegments: 16,
		PhiLength:      math.Pi,
	}, material.Lens, math3d.At(p.Lens).Rotated(math3d.E(-math.Pi/2, 0, 0)).Scaled(math3d.V3(1, 1, 0.5)))
	return a.result()
}
