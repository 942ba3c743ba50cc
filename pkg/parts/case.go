package parts

import (
	"fmt"
	"math"

	"github.com/taigrr/datejust/pkg/material"
	"github.com/taigrr/datejust/pkg/math3d"
	"github.com/taigrr/datejust/pkg/scene"
)

// BezelParams shapes the fluted bezel.
type BezelParams struct {
	Facets       int     // Number of flutes around the bezel
	Radius       float64 // Distance of each flute from the center
	RingRadius   float64 // Torus ring radius
	RingTube     float64 // Torus tube radius
	RingSegments int     // Tubular segments of the ring
}

// DefaultBezelParams returns the 40-flute reference bezel.
func DefaultBezelParams() BezelParams {
	return BezelParams{
		Facets:       40,
		Radius:       1.3,
		RingRadius:   1.35,
		RingTube:     0.1,
		RingSegments: 64,
	}
}

// fluteProfile is the triangular cross-section of one flute.
var fluteProfile = []math3d.Vec2{
	{X: 0, Y: 0},
	{X: 0.1, Y: 0},
	{X: 0.05, Y: 0.08},
}

// BuildBezel builds the fluted bezel: one torus ring followed by Facets flutes.
func BuildBezel(mats Materials, p BezelParams) (*scene.Node, error) {
	if p.Facets < 1 {
		return nil, invalid("bezel facets %d", p.Facets)
	}
	if p.Radius <= 0 {
		return nil, invalid("bezel radius %g", p.Radius)
	}
	a := newAssembly(mats, "bezel")
	a.add("ring", scene.Torus{
		Radius:          p.RingRadius,
		Tube:            p.RingTube,
		RadialSegments:  8,
		TubularSegments: p.RingSegments,
	}, material.WhiteGold, math3d.IdentityTransform())

	flute := scene.Extrusion{Profile: fluteProfile, Depth: 0.02, Bevel: 0.005}
	for i := range p.Facets {
		angle := float64(i) / float64(p.Facets) * 2 * math.Pi
		t := math3d.At(ringPosition(angle, p.Radius, 0)).Rotated(facingOutward(angle))
		a.add(fmt.Sprintf("flute-%02d", i), flute, material.WhiteGold, t)
	}
	return a.result()
}

// CrownParams shapes the winding crown.
type CrownParams struct {
	Ridges int           // Grip ridges around the crown tube, zero for a smooth crown
	Role   material.Role // Finish of the crown tube
}

// DefaultCrownParams returns the 12-ridge steel crown.
func DefaultCrownParams() CrownParams {
	return CrownParams{Ridges: 12, Role: material.SteelPolished}
}

// BuildCrown builds the crown tube, its grip ridges and the five-sided logo.
func BuildCrown(mats Materials, p CrownParams) (*scene.Node, error) {
	if p.Ridges < 0 {
		return nil, invalid("crown ridges %d", p.Ridges)
	}
	a := newAssembly(mats, "crown")
	a.add("tube", scene.Cylinder{RadiusTop: 0.15, RadiusBottom: 0.18, Height: 0.4, Segments: 16},
		p.Role, math3d.IdentityTransform().Rotated(math3d.E(0, 0, math.Pi/2)))
	for i := range p.Ridges {
		angle := float64(i) / float64(p.Ridges) * 2 * math.Pi
		t := math3d.At(math3d.V3(math.Cos(angle)*0.16, 0, math.Sin(angle)*0.16)).Rotated(math3d.E(0, angle, 0))
		a.add(fmt.Sprintf("ridge-%02d", i), scene.Box{Width: 0.02, Height: 0.35, Depth: 0.05}, p.Role, t)
	}
	a.add("logo", scene.Cone{Radius: 0.05, Height: 0.08, Segments: 5}, material.WhiteGold,
		math3d.At(math3d.V3(0.2, 0, 0)).Rotated(math3d.E(0, 0, -math.Pi/2)))
	return a.result()
}

// CaseParams shapes the case body and carries the bezel and crown.
type CaseParams struct {
	Radius        float64
	Depth         float64
	Bevel         float64
	CurveSegments int // Polygon resolution of the case outline
	Bezel         BezelParams
	Crown         CrownParams
}

// DefaultCaseParams returns the 28 mm reference case.
func DefaultCaseParams() CaseParams {
	return CaseParams{
		Radius:        1.4,
		Depth:         0.5,
		Bevel:         0.05,
		CurveSegments: 64,
		Bezel:         DefaultBezelParams(),
		Crown:         DefaultCrownParams(),
	}
}

// BuildCase builds the case body, bezel, crown and case back.
func BuildCase(mats Materials, p CaseParams) (*scene.Node, error) {
	if p.Radius <= 0 {
		return nil, invalid("case radius %g", p.Radius)
	}
	if p.CurveSegments < 3 {
		return nil, invalid("case curve segments %d", p.CurveSegments)
	}
	a := newAssembly(mats, "case")
	a.add("body", scene.Extrusion{
		Profile: circleProfile(p.Radius, p.CurveSegments),
		Depth:   p.Depth,
		Bevel:   p.Bevel,
	}, material.SteelPolished, math3d.IdentityTransform())

	bezel, err := BuildBezel(mats, p.Bezel)
	a.attach(bezel, err, math3d.At(math3d.V3(0, 0.25, 0)))

	crown, err := BuildCrown(mats, p.Crown)
	a.attach(crown, err, math3d.At(math3d.V3(1.5, 0, 0)))

	a.add("back", scene.Cylinder{RadiusTop: 1.35, RadiusBottom: 1.35, Height: 0.05, Segments: p.CurveSegments},
		material.SteelBrushed, math3d.At(math3d.V3(0, -0.25, 0)))
	return a.result()
}
