package parts

import (
	"math"

	"github.com/taigrr/datejust/pkg/material"
	"github.com/taigrr/datejust/pkg/math3d"
	"github.com/taigrr/datejust/pkg/scene"
)

// HandSet holds the three hand nodes the controller turns.
type HandSet struct {
	Hour   *scene.Node
	Minute *scene.Node
	Second *scene.Node
}

// HandsParams sets the initial hand angles (radians about Z, clockwise negative).
type HandsParams struct {
	Hour      float64
	Minute    float64
	Second    float64
	RedSecond bool // Use the red second-hand material
}

// DefaultHandsParams shows roughly 10:10.
func DefaultHandsParams() HandsParams {
	return HandsParams{Hour: -math.Pi / 3, Minute: -math.Pi / 6}
}

// BuildHands builds the hour, minute and second hands and the center cap.
func BuildHands(mats Materials, p HandsParams) (*scene.Node, HandSet, error) {
	var set HandSet
	a := newAssembly(mats, "hands")

	hour := newAssembly(mats, "hour")
	hour.add("body", scene.Box{Width: 0.04, Height: 0.5, Depth: 0.01}, material.SteelPolished,
		math3d.At(math3d.V3(0, 0.25, 0)))
	hour.add("ring", scene.Ring{Inner: 0.06, Outer: 0.08, Segments: 32}, material.SteelPolished,
		math3d.At(math3d.V3(0, 0.4, 0)))
	hour.add("lume", scene.Circle{Radius: 0.05, Segments: 32}, material.Luminescent,
		math3d.At(math3d.V3(0, 0.4, 0.005)))
	var err error
	set.Hour, err = hour.result()
	a.attach(set.Hour, err, math3d.IdentityTransform().Rotated(math3d.E(0, 0, p.Hour)))

	minute := newAssembly(mats, "minute")
	minute.add("body", scene.Box{Width: 0.03, Height: 0.7, Depth: 0.01}, material.SteelPolished,
		math3d.At(math3d.V3(0, 0.35, 0)))
	minute.add("lume", scene.Box{Width: 0.03, Height: 0.1, Depth: 0.01}, material.Luminescent,
		math3d.At(math3d.V3(0, 0.65, 0)))
	set.Minute, err = minute.result()
	a.attach(set.Minute, err, math3d.At(math3d.V3(0, 0.01, 0)).Rotated(math3d.E(0, 0, p.Minute)))

	secondRole := material.SteelPolished
	if p.RedSecond {
		secondRole = material.SecondHand
	}
	second := newAssembly(mats, "second")
	second.add("body", scene.Box{Width: 0.01, Height: 0.9, Depth: 0.005}, secondRole,
		math3d.At(math3d.V3(0, 0.35, 0)))
	second.add("counterweight", scene.Circle{Radius: 0.05, Segments: 32}, secondRole,
		math3d.At(math3d.V3(0, -0.1, 0)))
	set.Second, err = second.result()
	a.attach(set.Second, err, math3d.At(math3d.V3(0, 0.02, 0)).Rotated(math3d.E(0, 0, p.Second)))

	a.add("cap", scene.Cylinder{RadiusTop: 0.04, RadiusBottom: 0.04, Height: 0.03, Segments: 32},
		material.SteelPolished, math3d.At(math3d.V3(0, 0.03, 0)))

	node, err := a.result()
	if err != nil {
		return nil, HandSet{}, err
	}
	return node, set, nil
}
