package render

import (
	"github.com/taigrr/datejust/pkg/math3d"
)

// Bounds is an axis-aligned box in world space.
type Bounds struct {
	Min, Max math3d.Vec3
}

// WorldBounds returns the box enclosing mesh once placed by world. All eight
// corners of the local box are transformed, so rotated parts such as bezel
// flutes and bracelet links get a box that still contains them.
func WorldBounds(mesh MeshRenderer, world math3d.Mat4) Bounds {
	lo, hi := mesh.GetBounds()
	var b Bounds
	for i := range 8 {
		c := lo
		if i&1 != 0 {
			c.X = hi.X
		}
		if i&2 != 0 {
			c.Y = hi.Y
		}
		if i&4 != 0 {
			c.Z = hi.Z
		}
		p := world.MulVec3(c)
		if i == 0 {
			b = Bounds{Min: p, Max: p}
			continue
		}
		b.Min, b.Max = b.Min.Min(p), b.Max.Max(p)
	}
	return b
}

// ViewVolume is the region a camera sees, as six planes with inward normals.
// A point p is inside plane k when Dot(normal, p) + W >= 0.
type ViewVolume [6]math3d.Vec4

// NewViewVolume extracts the clip planes of a column-major view-projection
// matrix: each plane is the w row plus or minus the x, y or z row.
func NewViewVolume(vp math3d.Mat4) ViewVolume {
	row := func(i int) math3d.Vec4 {
		return math3d.Vec4{X: vp[i], Y: vp[i+4], Z: vp[i+8], W: vp[i+12]}
	}
	w := row(3)
	var v ViewVolume
	for axis := range 3 {
		r := row(axis)
		v[2*axis] = normalizePlane(math3d.Vec4{X: w.X + r.X, Y: w.Y + r.Y, Z: w.Z + r.Z, W: w.W + r.W})
		v[2*axis+1] = normalizePlane(math3d.Vec4{X: w.X - r.X, Y: w.Y - r.Y, Z: w.Z - r.Z, W: w.W - r.W})
	}
	return v
}

func normalizePlane(p math3d.Vec4) math3d.Vec4 {
	l := math3d.V3(p.X, p.Y, p.Z).Len()
	if l == 0 {
		return p
	}
	return math3d.Vec4{X: p.X / l, Y: p.Y / l, Z: p.Z / l, W: p.W / l}
}

func planeDistance(p math3d.Vec4, q math3d.Vec3) float64 {
	return p.X*q.X + p.Y*q.Y + p.Z*q.Z + p.W
}

// Overlaps reports whether any part of b may be visible. For each plane it
// tests the corner of b furthest along the plane normal; if even that corner
// is outside, the whole box is.
func (v ViewVolume) Overlaps(b Bounds) bool {
	for _, p := range v {
		far := b.Min
		if p.X >= 0 {
			far.X = b.Max.X
		}
		if p.Y >= 0 {
			far.Y = b.Max.Y
		}
		if p.Z >= 0 {
			far.Z = b.Max.Z
		}
		if planeDistance(p, far) < 0 {
			return false
		}
	}
	return true
}

// Contains reports whether q lies inside every plane.
func (v ViewVolume) Contains(q math3d.Vec3) bool {
	for _, p := range v {
		if planeDistance(p, q) < 0 {
			return false
		}
	}
	return true
}
