// Package scene is the retained scene graph: named assembly nodes owning
// primitives bound to material descriptors.
package scene

import (
	"errors"
	"fmt"
	"math"

	"github.com/taigrr/datejust/pkg/math3d"
)

// ErrInvalidShape is returned for shapes with out-of-range dimensions.
var ErrInvalidShape = errors.New("invalid shape")

// Kind identifies the primitive shape family.
type Kind int

const (
	KindBox Kind = iota
	KindCylinder
	KindCone
	KindTorus
	KindExtrusion
	KindSphere
	KindOctahedron
	KindRing
	KindCircle
	KindPlane
)

func (k Kind) String() string {
	switch k {
	case KindBox:
		return "box"
	case KindCylinder:
		return "cylinder"
	case KindCone:
		return "cone"
	case KindTorus:
		return "torus"
	case KindExtrusion:
		return "extrusion"
	case KindSphere:
		return "sphere"
	case KindOctahedron:
		return "octahedron"
	case KindRing:
		return "ring"
	case KindCircle:
		return "circle"
	case KindPlane:
		return "plane"
	default:
		return "unknown"
	}
}

// Shape is a kind-specific dimension set.
type Shape interface {
	Kind() Kind
	Validate() error
}

// Box is an axis-aligned box centered on the origin.
type Box struct {
	Width, Height, Depth float64
}

// Cylinder is a Y-aligned cylinder (or frustum) centered on the origin.
type Cylinder struct {
	RadiusTop, RadiusBottom float64
	Height                  float64
	Segments                int
}

// Cone is a Y-aligned cone with its apex at +Height/2.
type Cone struct {
	Radius   float64
	Height   float64
	Segments int
}

// Torus lies in the XY plane around the Z axis.
type Torus struct {
	Radius          float64 // Distance from the center to the tube center
	Tube            float64 // Tube radius
	RadialSegments  int
	TubularSegments int
}

// Extrusion sweeps a closed XY profile along +Z by Depth, with an optional
// chamfer-style bevel grown outward by Bevel.
type Extrusion struct {
	Profile []math3d.Vec2
	Depth   float64
	Bevel   float64
}

// Sphere is a UV sphere. PhiLength limits the horizontal sweep
// (2π for a full sphere, π for a hemisphere).
type Sphere struct {
	Radius         float64
	WidthSegments  int
	HeightSegments int
	PhiLength      float64
}

// Octahedron is a regular octahedron with vertices at distance Radius.
type Octahedron struct {
	Radius float64
}

// Ring is a flat annulus in the XY plane facing +Z.
type Ring struct {
	Inner, Outer float64
	Segments     int
}

// Circle is a flat disc in the XY plane facing +Z.
type Circle struct {
	Radius   float64
	Segments int
}

// Plane is a flat rectangle in the XY plane facing +Z.
type Plane struct {
	Width, Height float64
}

func (Box) Kind() Kind        { return KindBox }
func (Cylinder) Kind() Kind   { return KindCylinder }
func (Cone) Kind() Kind       { return KindCone }
func (Torus) Kind() Kind      { return KindTorus }
func (Extrusion) Kind() Kind  { return KindExtrusion }
func (Sphere) Kind() Kind     { return KindSphere }
func (Octahedron) Kind() Kind { return KindOctahedron }
func (Ring) Kind() Kind       { return KindRing }
func (Circle) Kind() Kind     { return KindCircle }
func (Plane) Kind() Kind      { return KindPlane }

func (s Box) Validate() error {
	return positive(s.Kind(), "width", s.Width, "height", s.Height, "depth", s.Depth)
}

func (s Cylinder) Validate() error {
	if s.RadiusTop < 0 || s.RadiusBottom < 0 || s.RadiusTop+s.RadiusBottom == 0 {
		return fmt.Errorf("%w: cylinder radii %.3f/%.3f", ErrInvalidShape, s.RadiusTop, s.RadiusBottom)
	}
	if err := positive(s.Kind(), "height", s.Height); err != nil {
		return err
	}
	return segments(s.Kind(), s.Segments, 3)
}

func (s Cone) Validate() error {
	if err := positive(s.Kind(), "radius", s.Radius, "height", s.Height); err != nil {
		return err
	}
	return segments(s.Kind(), s.Segments, 3)
}

func (s Torus) Validate() error {
	if err := positive(s.Kind(), "radius", s.Radius, "tube", s.Tube); err != nil {
		return err
	}
	if err := segments(s.Kind(), s.RadialSegments, 3); err != nil {
		return err
	}
	return segments(s.Kind(), s.TubularSegments, 3)
}

func (s Extrusion) Validate() error {
	if len(s.Profile) < 3 {
		return fmt.Errorf("%w: extrusion profile has %d points", ErrInvalidShape, len(s.Profile))
	}
	if s.Bevel < 0 {
		return fmt.Errorf("%w: extrusion bevel %.3f", ErrInvalidShape, s.Bevel)
	}
	return positive(s.Kind(), "depth", s.Depth)
}

func (s Sphere) Validate() error {
	if err := positive(s.Kind(), "radius", s.Radius, "phi length", s.PhiLength); err != nil {
		return err
	}
	if s.PhiLength > 2*math.Pi+1e-9 {
		return fmt.Errorf("%w: sphere phi length %.3f exceeds 2π", ErrInvalidShape, s.PhiLength)
	}
	if err := segments(s.Kind(), s.WidthSegments, 3); err != nil {
		return err
	}
	return segments(s.Kind(), s.HeightSegments, 2)
}

func (s Octahedron) Validate() error {
	return positive(s.Kind(), "radius", s.Radius)
}

func (s Ring) Validate() error {
	if s.Inner < 0 || s.Outer <= s.Inner {
		return fmt.Errorf("%w: ring radii %.3f/%.3f", ErrInvalidShape, s.Inner, s.Outer)
	}
	return segments(s.Kind(), s.Segments, 3)
}

func (s Circle) Validate() error {
	if err := positive(s.Kind(), "radius", s.Radius); err != nil {
		return err
	}
	return segments(s.Kind(), s.Segments, 3)
}

func (s Plane) Validate() error {
	return positive(s.Kind(), "width", s.Width, "height", s.Height)
}

// positive checks name/value pairs for strictly positive values.
func positive(k Kind, pairs ...any) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		v := pairs[i+1].(float64)
		if !(v > 0) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s %s %v", ErrInvalidShape, k, pairs[i], v)
		}
	}
	return nil
}

func segments(k Kind, n, least int) error {
	if n < least {
		return fmt.Errorf("%w: %s needs at least %d segments, got %d", ErrInvalidShape, k, least, n)
	}
	return nil
}
