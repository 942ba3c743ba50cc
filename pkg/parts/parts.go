// Package parts builds the watch sub-assemblies. Every builder is a pure
// function of its parameters: the same parameters always yield the same tree.
package parts

import (
	"errors"
	"fmt"
	"math"

	"github.com/taigrr/datejust/pkg/material"
	"github.com/taigrr/datejust/pkg/math3d"
	"github.com/taigrr/datejust/pkg/scene"
)

// ErrInvalidParameter is returned for out-of-range builder parameters.
var ErrInvalidParameter = errors.New("invalid parameter")

// Materials resolves surface roles to descriptors. *material.Registry satisfies it.
type Materials interface {
	Get(role material.Role) (*material.Descriptor, error)
}

// invalid wraps ErrInvalidParameter with a formatted reason.
func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidParameter, fmt.Sprintf(format, args...))
}

// assembly accumulates children onto a node and remembers the first error,
// so builders can be written as a flat list of parts.
type assembly struct {
	mats Materials
	node *scene.Node
	err  error
}

func newAssembly(mats Materials, name string) *assembly {
	return &assembly{mats: mats, node: scene.NewNode(name)}
}

// add binds shape to the descriptor for role and appends it.
func (a *assembly) add(name string, shape scene.Shape, role material.Role, t math3d.Transform) {
	if a.err != nil {
		return
	}
	mat, err := a.mats.Get(role)
	if err != nil {
		a.err = fmt.Errorf("%s/%s: %w", a.node.Name(), name, err)
		return
	}
	a.addWith(name, shape, mat, t)
}

// addWith appends shape bound to an explicit descriptor.
func (a *assembly) addWith(name string, shape scene.Shape, mat *material.Descriptor, t math3d.Transform) {
	if a.err != nil {
		return
	}
	p, err := scene.NewPrimitive(name, shape, mat, t)
	if err != nil {
		if errors.Is(err, scene.ErrInvalidShape) {
			err = fmt.Errorf("%w: %w", ErrInvalidParameter, err)
		}
		a.err = fmt.Errorf("%s: %w", a.node.Name(), err)
		return
	}
	a.err = a.node.Add(p)
}

// attach places a sub-assembly at t, or records the error that built it.
func (a *assembly) attach(child *scene.Node, err error, t math3d.Transform) {
	if a.err != nil {
		return
	}
	if err != nil {
		a.err = fmt.Errorf("%s: %w", a.node.Name(), err)
		return
	}
	child.SetTransform(t)
	a.err = a.node.Add(child)
}

func (a *assembly) result() (*scene.Node, error) {
	if a.err != nil {
		return nil, a.err
	}
	return a.node, nil
}

// ringPosition places an object on a circle of radius r in the XZ plane at height y.
func ringPosition(angle, r, y float64) math3d.Vec3 {
	return math3d.V3(math.Cos(angle)*r, y, math.Sin(angle)*r)
}

// facingOutward is the Y rotation that turns a part placed at angle to face away from the center.
func facingOutward(angle float64) math3d.Euler {
	return math3d.E(0, -angle+math.Pi/2, 0)
}

// circleProfile returns a closed polygon approximating a circle of radius r.
func circleProfile(r float64, segments int) []math3d.Vec2 {
	pts := make([]math3d.Vec2, segments)
	for i := range segments {
		a := float64(i) / float64(segments) * 2 * math.Pi
		pts[i] = math3d.V2(math.Cos(a)*r, math.Sin(a)*r)
	}
	return pts
}
