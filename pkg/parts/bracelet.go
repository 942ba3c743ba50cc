package parts

import (
	"fmt"
	"math"

	"github.com/taigrr/datejust/pkg/material"
	"github.com/taigrr/datejust/pkg/math3d"
	"github.com/taigrr/datejust/pkg/scene"
)

// link is one box of a jubilee row.
type link struct {
	name                 string
	x                    float64
	width, height, depth float64
	role                 material.Role
}

// jubilee is the five-piece row: outer, inner, center, inner, outer.
var jubilee = []link{
	{"outer-left", -0.56, 0.12, 0.10, 0.24, material.SteelPolished},
	{"inner-left", -0.36, 0.22, 0.11, 0.26, material.SteelBrushed},
	{"center", 0, 0.5, 0.12, 0.28, material.SteelPolished},
	{"inner-right", 0.36, 0.22, 0.11, 0.26, material.SteelBrushed},
	{"outer-right", 0.56, 0.12, 0.10, 0.24, material.SteelPolished},
}

// BuildLinkRow builds one jubilee row named name for a row sitting at offset
// along the bracelet. The connecting pin sits on the side facing the case.
func BuildLinkRow(mats Materials, name string, offset float64) (*scene.Node, error) {
	a := newAssembly(mats, name)
	for _, l := range jubilee {
		a.add(l.name, scene.Box{Width: l.width, Height: l.height, Depth: l.depth}, l.role,
			math3d.At(math3d.V3(l.x, 0, 0)))
	}
	pinY := 0.06
	if offset > 0 {
		pinY = -0.06
	}
	a.add("pin", scene.Cylinder{RadiusTop: 0.015, RadiusBottom: 0.015, Height: 1.3, Segments: 8},
		material.SteelPolished, math3d.At(math3d.V3(0, pinY, 0)).Rotated(math3d.E(0, 0, math.Pi/2)))
	return a.result()
}

// BraceletParams shapes the two bracelet arms.
type BraceletParams struct {
	Rows  int     // Rows per arm
	Start float64 // Distance of the end links from the case center
	Pitch float64 // Distance between rows
	Curl  float64 // Extra X rotation per row
	Sag   float64 // Z drop per squared row index
	Clasp float64 // Y position of the clasp under the lower arm
}

// DefaultBraceletParams returns ten rows per arm.
func DefaultBraceletParams() BraceletParams {
	return BraceletParams{
		Rows:  10,
		Start: 0.3,
		Pitch: 0.13,
		Curl:  0.02,
		Sag:   0.001,
		Clasp: -2.0,
	}
}

// BuildBracelet builds both arms, the end links and the clasp. Row i of the
// lower arm sits at −(Start + i·Pitch) and curls by −i·Curl; the upper arm
// mirrors it.
func BuildBracelet(mats Materials, p BraceletParams) (*scene.Node, error) {
	if p.Rows < 1 {
		return nil, invalid("bracelet rows %d", p.Rows)
	}
	if p.Pitch <= 0 {
		return nil, invalid("bracelet pitch %g", p.Pitch)
	}
	a := newAssembly(mats, "bracelet")
	for _, side := range []struct {
		name string
		sign float64
	}{{"lower", -1}, {"upper", 1}} {
		for i := 1; i <= p.Rows; i++ {
			fi := float64(i)
			y := side.sign * (p.Start + fi*p.Pitch)
			row, err := BuildLinkRow(mats, fmt.Sprintf("%s-row-%02d", side.name, i), y)
			t := math3d.At(math3d.V3(0, y, -fi*fi*p.Sag)).Rotated(math3d.E(side.sign*fi*p.Curl, 0, 0))
			a.attach(row, err, t)
		}
	}
	endLink := scene.Box{Width: 1.2, Height: 0.15, Depth: 0.3}
	a.add("end-link-upper", endLink, material.SteelPolished, math3d.At(math3d.V3(0, p.Start, 0)))
	a.add("end-link-lower", endLink, material.SteelPolished, math3d.At(math3d.V3(0, -p.Start, 0)))

	a.add("clasp", scene.Box{Width: 0.8, Height: 0.2, Depth: 0.35}, material.SteelPolished,
		math3d.At(math3d.V3(0, p.Clasp, 0)))
	a.add("clasp-logo", scene.Cone{Radius: 0.03, Height: 0.05, Segments: 5}, material.WhiteGold,
		math3d.At(math3d.V3(0, p.Clasp, 0.18)).Rotated(math3d.E(math.Pi/2, 0, 0)))
	return a.result()
}
