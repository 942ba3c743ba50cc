package models

import (
	"fmt"
	"math"

	"github.com/taigrr/datejust/pkg/math3d"
	"github.com/taigrr/datejust/pkg/scene"
)

// Tessellate converts a shape into a mesh in the shape's local space.
// Faces wind counter-clockwise seen from the side their normals point to.
func Tessellate(s scene.Shape) (*Mesh, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	b := &meshBuilder{m: NewMesh(s.Kind().String())}
	switch v := s.(type) {
	case scene.Box:
		b.box(v)
	case scene.Cylinder:
		b.cylinder(v.RadiusTop, v.RadiusBottom, v.Height, v.Segments)
	case scene.Cone:
		b.cylinder(0, v.Radius, v.Height, v.Segments)
	case scene.Torus:
		b.torus(v)
	case scene.Extrusion:
		b.extrusion(v)
	case scene.Sphere:
		b.sphere(v)
	case scene.Octahedron:
		b.octahedron(v.Radius)
	case scene.Ring:
		b.ring(v.Inner, v.Outer, v.Segments)
	case scene.Circle:
		b.ring(0, v.Radius, v.Segments)
	case scene.Plane:
		b.plane(v)
	default:
		return nil, fmt.Errorf("tessellate %s: unsupported shape", s.Kind())
	}
	b.m.CalculateBounds()
	return b.m, nil
}

type meshBuilder struct {
	m *Mesh
}

func (b *meshBuilder) vertex(p, n math3d.Vec3, uv math3d.Vec2) int {
	b.m.Vertices = append(b.m.Vertices, MeshVertex{Position: p, Normal: n, UV: uv})
	return len(b.m.Vertices) - 1
}

// tri appends a triangle, flipping it when its winding disagrees with the
// vertex normals.
func (b *meshBuilder) tri(i0, i1, i2 int) {
	v := b.m.Vertices
	face := v[i1].Position.Sub(v[i0].Position).Cross(v[i2].Position.Sub(v[i0].Position))
	if face.Len() < 1e-14 {
		return
	}
	n := v[i0].Normal.Add(v[i1].Normal).Add(v[i2].Normal)
	if face.Dot(n) < 0 {
		i1, i2 = i2, i1
	}
	b.m.Faces = append(b.m.Faces, Face{V: [3]int{i0, i1, i2}, Material: -1})
}

func (b *meshBuilder) quad(i0, i1, i2, i3 int) {
	b.tri(i0, i1, i2)
	b.tri(i0, i2, i3)
}

func (b *meshBuilder) box(s scene.Box) {
	hx, hy, hz := s.Width/2, s.Height/2, s.Depth/2
	faces := []struct {
		n, u, v math3d.Vec3
		d       float64
		hu, hv  float64
	}{
		{math3d.V3(1, 0, 0), math3d.V3(0, 0, -1), math3d.V3(0, 1, 0), hx, hz, hy},
		{math3d.V3(-1, 0, 0), math3d.V3(0, 0, 1), math3d.V3(0, 1, 0), hx, hz, hy},
		{math3d.V3(0, 1, 0), math3d.V3(1, 0, 0), math3d.V3(0, 0, -1), hy, hx, hz},
		{math3d.V3(0, -1, 0), math3d.V3(1, 0, 0), math3d.V3(0, 0, 1), hy, hx, hz},
		{math3d.V3(0, 0, 1), math3d.V3(1, 0, 0), math3d.V3(0, 1, 0), hz, hx, hy},
		{math3d.V3(0, 0, -1), math3d.V3(-1, 0, 0), math3d.V3(0, 1, 0), hz, hx, hy},
	}
	for _, f := range faces {
		c := f.n.Scale(f.d)
		var idx [4]int
		for k, corner := range [4][2]float64{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}} {
			p := c.Add(f.u.Scale(corner[0] * f.hu)).Add(f.v.Scale(corner[1] * f.hv))
			idx[k] = b.vertex(p, f.n, math3d.V2((corner[0]+1)/2, (corner[1]+1)/2))
		}
		b.quad(idx[0], idx[1], idx[2], idx[3])
	}
}

// cylinder builds a Y-aligned frustum with caps. A zero radius collapses
// that end to an apex.
func (b *meshBuilder) cylinder(rTop, rBottom, height float64, segments int) {
	half := height / 2
	slope := (rBottom - rTop) / height
	var top, bottom []int
	for i := 0; i <= segments; i++ {
		u := float64(i) / float64(segments)
		theta := u * 2 * math.Pi
		sin, cos := math.Sincos(theta)
		n := math3d.V3(sin, slope, cos).Normalize()
		top = append(top, b.vertex(math3d.V3(rTop*sin, half, rTop*cos), n, math3d.V2(u, 1)))
		bottom = append(bottom, b.vertex(math3d.V3(rBottom*sin, -half, rBottom*cos), n, math3d.V2(u, 0)))
	}
	for i := range segments {
		b.quad(top[i], bottom[i], bottom[i+1], top[i+1])
	}
	b.cap(rTop, half, segments, math3d.V3(0, 1, 0))
	b.cap(rBottom, -half, segments, math3d.V3(0, -1, 0))
}

func (b *meshBuilder) cap(r, y float64, segments int, n math3d.Vec3) {
	if r <= 0 {
		return
	}
	center := b.vertex(math3d.V3(0, y, 0), n, math3d.V2(0.5, 0.5))
	var rim []int
	for i := 0; i <= segments; i++ {
		sin, cos := math.Sincos(float64(i) / float64(segments) * 2 * math.Pi)
		rim = append(rim, b.vertex(math3d.V3(r*sin, y, r*cos), n, math3d.V2((sin+1)/2, (cos+1)/2)))
	}
	for i := range segments {
		b.tri(center, rim[i], rim[i+1])
	}
}

func (b *meshBuilder) torus(s scene.Torus) {
	rows := make([][]int, s.RadialSegments+1)
	for j := 0; j <= s.RadialSegments; j++ {
		v := float64(j) / float64(s.RadialSegments) * 2 * math.Pi
		for i := 0; i <= s.TubularSegments; i++ {
			u := float64(i) / float64(s.TubularSegments) * 2 * math.Pi
			center := math3d.V3(s.Radius*math.Cos(u), s.Radius*math.Sin(u), 0)
			p := math3d.V3(
				(s.Radius+s.Tube*math.Cos(v))*math.Cos(u),
				(s.Radius+s.Tube*math.Cos(v))*math.Sin(u),
				s.Tube*math.Sin(v),
			)
			uv := math3d.V2(float64(i)/float64(s.TubularSegments), float64(j)/float64(s.RadialSegments))
			rows[j] = append(rows[j], b.vertex(p, p.Sub(center).Normalize(), uv))
		}
	}
	for j := range s.RadialSegments {
		for i := range s.TubularSegments {
			b.quad(rows[j][i], rows[j+1][i], rows[j+1][i+1], rows[j][i+1])
		}
	}
}

func (b *meshBuilder) sphere(s scene.Sphere) {
	rows := make([][]int, s.HeightSegments+1)
	for y := 0; y <= s.HeightSegments; y++ {
		v := float64(y) / float64(s.HeightSegments)
		theta := v * math.Pi
		for x := 0; x <= s.WidthSegments; x++ {
			u := float64(x) / float64(s.WidthSegments)
			phi := u * s.PhiLength
			n := math3d.V3(
				-math.Cos(phi)*math.Sin(theta),
				math.Cos(theta),
				math.Sin(phi)*math.Sin(theta),
			)
			rows[y] = append(rows[y], b.vertex(n.Scale(s.Radius), n, math3d.V2(u, 1-v)))
		}
	}
	for y := range s.HeightSegments {
		for x := range s.WidthSegments {
			b.quad(rows[y][x], rows[y+1][x], rows[y+1][x+1], rows[y][x+1])
		}
	}
}

func (b *meshBuilder) octahedron(r float64) {
	px, nx := math3d.V3(r, 0, 0), math3d.V3(-r, 0, 0)
	py, ny := math3d.V3(0, r, 0), math3d.V3(0, -r, 0)
	pz, nz := math3d.V3(0, 0, r), math3d.V3(0, 0, -r)
	faces := [8][3]math3d.Vec3{
		{px, py, pz}, {pz, py, nx}, {nx, py, nz}, {nz, py, px},
		{px, pz, ny}, {pz, nx, ny}, {nx, nz, ny}, {nz, px, ny},
	}
	for _, f := range faces {
		n := f[0].Add(f[1]).Add(f[2]).Normalize()
		i0 := b.vertex(f[0], n, math3d.V2(0, 0))
		i1 := b.vertex(f[1], n, math3d.V2(0.5, 1))
		i2 := b.vertex(f[2], n, math3d.V2(1, 0))
		b.tri(i0, i1, i2)
	}
}

// ring builds a flat annulus facing +Z; inner 0 makes a disc.
func (b *meshBuilder) ring(inner, outer float64, segments int) {
	n := math3d.V3(0, 0, 1)
	uv := func(p math3d.Vec3) math3d.Vec2 {
		return math3d.V2((p.X/outer+1)/2, (p.Y/outer+1)/2)
	}
	if inner == 0 {
		center := b.vertex(math3d.Vec3{}, n, math3d.V2(0.5, 0.5))
		var rim []int
		for i := 0; i <= segments; i++ {
			sin, cos := math.Sincos(float64(i) / float64(segments) * 2 * math.Pi)
			p := math3d.V3(outer*cos, outer*sin, 0)
			rim = append(rim, b.vertex(p, n, uv(p)))
		}
		for i := range segments {
			b.tri(center, rim[i], rim[i+1])
		}
		return
	}
	var in, out []int
	for i := 0; i <= segments; i++ {
		sin, cos := math.Sincos(float64(i) / float64(segments) * 2 * math.Pi)
		pi := math3d.V3(inner*cos, inner*sin, 0)
		po := math3d.V3(outer*cos, outer*sin, 0)
		in = append(in, b.vertex(pi, n, uv(pi)))
		out = append(out, b.vertex(po, n, uv(po)))
	}
	for i := range segments {
		b.quad(in[i], out[i], out[i+1], in[i+1])
	}
}

func (b *meshBuilder) plane(s scene.Plane) {
	n := math3d.V3(0, 0, 1)
	hw, hh := s.Width/2, s.Height/2
	i0 := b.vertex(math3d.V3(-hw, -hh, 0), n, math3d.V2(0, 0))
	i1 := b.vertex(math3d.V3(hw, -hh, 0), n, math3d.V2(1, 0))
	i2 := b.vertex(math3d.V3(hw, hh, 0), n, math3d.V2(1, 1))
	i3 := b.vertex(math3d.V3(-hw, hh, 0), n, math3d.V2(0, 1))
	b.quad(i0, i1, i2, i3)
}

// smoothCorner is the cosine above which adjacent extrusion walls share a
// normal (about 30°).
const smoothCorner = 0.866

// extrusion sweeps the profile from z=0 to z=Depth. A bevel insets the caps
// by Bevel at z=-Bevel and z=Depth+Bevel and chamfers the walls out to the
// full profile. Caps are fanned from the centroid, so the profile must be
// star-shaped about it.
func (b *meshBuilder) extrusion(s scene.Extrusion) {
	profile := counterClockwise(s.Profile)
	n := len(profile)

	edgeNormals := make([]math3d.Vec2, n)
	for i := range n {
		e := profile[(i+1)%n].Sub(profile[i])
		edgeNormals[i] = math3d.V2(e.Y, -e.X).Scale(1 / e.Len())
	}
	// Outward direction at each corner, averaged over its two edges.
	cornerDirs := make([]math3d.Vec2, n)
	smooth := make([]bool, n)
	for i := range n {
		prev, next := edgeNormals[(i+n-1)%n], edgeNormals[i]
		d := prev.Add(next)
		cornerDirs[i] = d.Scale(1 / d.Len())
		smooth[i] = prev.X*next.X+prev.Y*next.Y > smoothCorner
	}
	inset := func(i int) math3d.Vec2 {
		return profile[i].Sub(cornerDirs[i].Scale(s.Bevel))
	}

	// Each layer is a ring of points at one z: the bevel rings carry the
	// inset profile, the wall rings the full one.
	type layer struct {
		z     float64
		point func(int) math3d.Vec2
	}
	full := func(i int) math3d.Vec2 { return profile[i] }
	layers := []layer{{0, full}, {s.Depth, full}}
	if s.Bevel > 0 {
		layers = []layer{{-s.Bevel, inset}, {0, full}, {s.Depth, full}, {s.Depth + s.Bevel, inset}}
	}

	to3 := func(p math3d.Vec2, z float64) math3d.Vec3 { return math3d.V3(p.X, p.Y, z) }
	for l := 0; l+1 < len(layers); l++ {
		lo, hi := layers[l], layers[l+1]
		for i := range n {
			j := (i + 1) % n
			wall := edgeNormals[i]
			ni, nj := wall, wall
			if smooth[i] {
				ni = cornerDirs[i]
			}
			if smooth[j] {
				nj = cornerDirs[j]
			}
			tilt := 0.0
			if lo.z < 0 {
				tilt = -1
			} else if hi.z > s.Depth {
				tilt = 1
			}
			norm := func(d math3d.Vec2) math3d.Vec3 {
				return math3d.V3(d.X, d.Y, tilt).Normalize()
			}
			u0, u1 := float64(i)/float64(n), float64(i+1)/float64(n)
			a := b.vertex(to3(lo.point(i), lo.z), norm(ni), math3d.V2(u0, 0))
			c := b.vertex(to3(lo.point(j), lo.z), norm(nj), math3d.V2(u1, 0))
			d := b.vertex(to3(hi.point(j), hi.z), norm(nj), math3d.V2(u1, 1))
			e := b.vertex(to3(hi.point(i), hi.z), norm(ni), math3d.V2(u0, 1))
			b.quad(a, c, d, e)
		}
	}

	bottom, top := layers[0], layers[len(layers)-1]
	b.polygonCap(n, bottom.point, bottom.z, math3d.V3(0, 0, -1))
	b.polygonCap(n, top.point, top.z, math3d.V3(0, 0, 1))
}

func (b *meshBuilder) polygonCap(n int, point func(int) math3d.Vec2, z float64, normal math3d.Vec3) {
	var centroid math3d.Vec2
	lo, hi := point(0), point(0)
	for i := range n {
		p := point(i)
		centroid = centroid.Add(p)
		lo = math3d.V2(math.Min(lo.X, p.X), math.Min(lo.Y, p.Y))
		hi = math3d.V2(math.Max(hi.X, p.X), math.Max(hi.Y, p.Y))
	}
	centroid = centroid.Scale(1 / float64(n))
	size := hi.Sub(lo)
	uv := func(p math3d.Vec2) math3d.Vec2 {
		return math3d.V2((p.X-lo.X)/size.X, (p.Y-lo.Y)/size.Y)
	}
	c := b.vertex(math3d.V3(centroid.X, centroid.Y, z), normal, uv(centroid))
	rim := make([]int, n)
	for i := range n {
		p := point(i)
		rim[i] = b.vertex(math3d.V3(p.X, p.Y, z), normal, uv(p))
	}
	for i := range n {
		b.tri(c, rim[i], rim[(i+1)%n])
	}
}

// counterClockwise returns the profile wound counter-clockwise.
func counterClockwise(p []math3d.Vec2) []math3d.Vec2 {
	area := 0.0
	for i := range p {
		area += p[i].Cross(p[(i+1)%len(p)])
	}
	if area >= 0 {
		return p
	}
	out := make([]math3d.Vec2, len(p))
	for i := range p {
		out[i] = p[len(p)-1-i]
	}
	return out
}
