package math3d

import "math"

// Euler holds rotation angles in radians around the X, Y and Z axes,
// applied in XYZ order (the matrix is Rx * Ry * Rz).
type Euler struct {
	X, Y, Z float64
}

// E creates a new Euler.
func E(x, y, z float64) Euler {
	return Euler{x, y, z}
}

// Matrix returns the rotation matrix for the Euler angles.
func (e Euler) Matrix() Mat4 {
	return RotateX(e.X).Mul(RotateY(e.Y)).Mul(RotateZ(e.Z))
}

// Quaternion returns the rotation as a unit quaternion in (x, y, z, w) order.
func (e Euler) Quaternion() [4]float64 {
	c1, s1 := math.Cos(e.X/2), math.Sin(e.X/2)
	c2, s2 := math.Cos(e.Y/2), math.Sin(e.Y/2)
	c3, s3 := math.Cos(e.Z/2), math.Sin(e.Z/2)

	return [4]float64{
		s1*c2*c3 + c1*s2*s3,
		c1*s2*c3 - s1*c2*s3,
		c1*c2*s3 + s1*s2*c3,
		c1*c2*c3 - s1*s2*s3,
	}
}

// Transform is a local rigid transform plus scale: position, Euler rotation
// and per-axis scale.
type Transform struct {
	Position Vec3
	Rotation Euler
	Scale    Vec3
}

// IdentityTransform returns the rest transform: origin, no rotation, unit scale.
func IdentityTransform() Transform {
	return Transform{Scale: One3()}
}

// At returns the identity transform translated to p.
func At(p Vec3) Transform {
	return Transform{Position: p, Scale: One3()}
}

// Rotated returns a copy of t with the given rotation.
func (t Transform) Rotated(r Euler) Transform {
	t.Rotation = r
	return t
}

// Scaled returns a copy of t with the given scale.
func (t Transform) Scaled(s Vec3) Transform {
	t.Scale = s
	return t
}

// Matrix composes the transform as T * R * S.
func (t Transform) Matrix() Mat4 {
	return Translate(t.Position).Mul(t.Rotation.Matrix()).Mul(Scale(t.Scale))
}

// ApproxEqual reports whether two transforms match within eps.
func (t Transform) ApproxEqual(o Transform, eps float64) bool {
	return t.Position.ApproxEqual(o.Position, eps) &&
		V3(t.Rotation.X, t.Rotation.Y, t.Rotation.Z).ApproxEqual(V3(o.Rotation.X, o.Rotation.Y, o.Rotation.Z), eps) &&
		t.Scale.ApproxEqual(o.Scale, eps)
}
