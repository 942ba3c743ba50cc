// Package render draws a composed watch stage with a software rasterizer.
package render

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/taigrr/datejust/pkg/math3d"
)

// Vertex is a world-space vertex ready for rasterization.
type Vertex struct {
	Position math3d.Vec3
	Normal   math3d.Vec3
	UV       math3d.Vec2
}

// Triangle is three world-space vertices, counter-clockwise seen from the front.
type Triangle struct {
	V [3]Vertex
}

// Paint says how a triangle is colored.
type Paint struct {
	// Shade lights one vertex. The normal already faces the viewer.
	Shade   func(position, normal math3d.Vec3) colorful.Color
	Texture *Texture // Optional, modulates the shaded color
	Alpha   float64  // 1 is opaque; lower values blend without writing depth
}

// MeshRenderer is the mesh surface the rasterizer reads.
type MeshRenderer interface {
	VertexCount() int
	TriangleCount() int
	GetVertex(i int) (pos, normal math3d.Vec3, uv math3d.Vec2)
	GetFace(i int) [3]int
	GetBounds() (min, max math3d.Vec3)
}

// Rasterizer handles software triangle rasterization.
type Rasterizer struct {
	camera        *Camera
	fb            *Framebuffer
	zbuffer       []float64 // Depth buffer (1D array, row-major)
	CullBackfaces bool      // Skip triangles facing away from the camera
}

// NewRasterizer creates a new rasterizer.
func NewRasterizer(camera *Camera, fb *Framebuffer) *Rasterizer {
	r := &Rasterizer{camera: camera, fb: fb}
	r.Resize()
	return r
}

// Resize resizes the rasterizer's buffer to match the framebuffer.
func (r *Rasterizer) Resize() {
	if r.fb == nil {
		r.zbuffer = nil
		return
	}
	r.zbuffer = make([]float64, r.fb.Width*r.fb.Height)
}

// Width returns the framebuffer width.
func (r *Rasterizer) Width() int {
	if r.fb == nil {
		return 0
	}
	return r.fb.Width
}

// Height returns the framebuffer height.
func (r *Rasterizer) Height() int {
	if r.fb == nil {
		return 0
	}
	return r.fb.Height
}

// ClearDepth clears the Z-buffer (call before each frame).
func (r *Rasterizer) ClearDepth() {
	// Use copy-doubling for faster clearing
	n := len(r.zbuffer)
	if n == 0 {
		return
	}
	r.zbuffer[0] = math.MaxFloat64
	for i := 1; i < n; i *= 2 {
		copy(r.zbuffer[i:], r.zbuffer[:i])
	}
}

// screenVertex holds a vertex transformed to screen space.
type screenVertex struct {
	X, Y  float64 // Screen coordinates
	Z     float64 // NDC depth (for Z-buffer)
	InvW  float64 // 1/w for perspective-correct interpolation
	Color colorful.Color
	UV    math3d.Vec2
}

// DrawMesh draws every face of mesh under transform with one paint.
func (r *Rasterizer) DrawMesh(mesh MeshRenderer, transform math3d.Mat4, p Paint) {
	normals := transform.NormalMatrix()
	for i := range mesh.TriangleCount() {
		face := mesh.GetFace(i)
		var tri Triangle
		for k, idx := range face {
			pos, n, uv := mesh.GetVertex(idx)
			tri.V[k] = Vertex{
				Position: transform.MulVec3(pos),
				Normal:   normals.MulVec3Dir(n).Normalize(),
				UV:       uv,
			}
		}
		r.DrawTriangle(tri, p)
	}
}

// DrawTriangle shades and rasterizes one triangle. Back faces are drawn
// with flipped normals unless CullBackfaces is set.
func (r *Rasterizer) DrawTriangle(tri Triangle, p Paint) {
	viewProj := r.camera.ViewProjectionMatrix()
	w, h := float64(r.Width()), float64(r.Height())

	var sv [3]screenVertex
	for i := range 3 {
		clip := viewProj.MulVec4(math3d.V4FromV3(tri.V[i].Position, 1))
		// The orbit never brings the camera close enough to need clipping.
		if clip.W <= r.camera.Near {
			return
		}
		invW := 1 / clip.W
		sv[i] = screenVertex{
			X:    (clip.X*invW + 1) * 0.5 * w,
			Y:    (1 - clip.Y*invW) * 0.5 * h, // Y flipped
			Z:    clip.Z * invW,
			InvW: invW,
			UV:   tri.V[i].UV,
		}
	}

	p0, p1, p2 := tri.V[0].Position, tri.V[1].Position, tri.V[2].Position
	facing := p1.Sub(p0).Cross(p2.Sub(p0)).Dot(r.camera.Position.Sub(p0))
	back := facing < 0
	if back && r.CullBackfaces {
		return
	}
	for i := range 3 {
		n := tri.V[i].Normal
		if back {
			n = n.Negate()
		}
		sv[i].Color = p.Shade(tri.V[i].Position, n)
	}

	r.fill(&sv, p)
}

// edgeCoeffs returns A, B, C for the edge function A*x + B*y + C.
func edgeCoeffs(x0, y0, x1, y1 float64) (A, B, C float64) {
	A = y0 - y1 // dy
	B = x1 - x0 // -dx
	C = x0*y1 - x1*y0
	return
}

// fill rasterizes a screen-space triangle with incremental edge functions.
func (r *Rasterizer) fill(sv *[3]screenVertex, p Paint) {
	minX := int(math.Max(0, math.Floor(min3(sv[0].X, sv[1].X, sv[2].X))))
	maxX := int(math.Min(float64(r.Width()-1), math.Ceil(max3(sv[0].X, sv[1].X, sv[2].X))))
	minY := int(math.Max(0, math.Floor(min3(sv[0].Y, sv[1].Y, sv[2].Y))))
	maxY := int(math.Min(float64(r.Height()-1), math.Ceil(max3(sv[0].Y, sv[1].Y, sv[2].Y))))
	if minX > maxX || minY > maxY {
		return
	}

	// Edge 0: v1 -> v2, Edge 1: v2 -> v0, Edge 2: v0 -> v1
	A0, B0, C0 := edgeCoeffs(sv[1].X, sv[1].Y, sv[2].X, sv[2].Y)
	A1, B1, C1 := edgeCoeffs(sv[2].X, sv[2].Y, sv[0].X, sv[0].Y)
	A2, B2, C2 := edgeCoeffs(sv[0].X, sv[0].Y, sv[1].X, sv[1].Y)

	area2 := A2*sv[2].X + B2*sv[2].Y + C2
	if area2 == 0 {
		return
	}
	invArea := 1.0 / area2

	px := float64(minX) + 0.5
	py := float64(minY) + 0.5
	w0Row := A0*px + B0*py + C0
	w1Row := A1*px + B1*py + C1
	w2Row := A2*px + B2*py + C2

	alpha := p.Alpha
	blend := alpha < 1
	width := r.Width()

	for y := minY; y <= maxY; y++ {
		w0, w1, w2 := w0Row, w1Row, w2Row
		for x := minX; x <= maxX; x++ {
			// Barycentrics are positive inside for either winding
			b0, b1, b2 := w0*invArea, w1*invArea, w2*invArea
			if b0 >= 0 && b1 >= 0 && b2 >= 0 {
				idx := y*width + x
				z := b0*sv[0].Z + b1*sv[1].Z + b2*sv[2].Z
				if z < r.zbuffer[idx] {
					q0, q1, q2 := b0*sv[0].InvW, b1*sv[1].InvW, b2*sv[2].InvW
					inv := 1 / (q0 + q1 + q2)
					q0, q1, q2 = q0*inv, q1*inv, q2*inv

					c := colorful.Color{
						R: q0*sv[0].Color.R + q1*sv[1].Color.R + q2*sv[2].Color.R,
						G: q0*sv[0].Color.G + q1*sv[1].Color.G + q2*sv[2].Color.G,
						B: q0*sv[0].Color.B + q1*sv[1].Color.B + q2*sv[2].Color.B,
					}
					a := alpha
					if p.Texture != nil {
						u := q0*sv[0].UV.X + q1*sv[1].UV.X + q2*sv[2].UV.X
						v := q0*sv[0].UV.Y + q1*sv[1].UV.Y + q2*sv[2].UV.Y
						t := p.Texture.Sample(u, v)
						c = mul(c, t.Color)
						a *= t.A
					}

					if blend {
						r.fb.Blend(x, y, encode(c, a))
					} else {
						r.zbuffer[idx] = z
						r.fb.Pixels[idx] = encode(c, 1)
					}
				}
			}
			w0 += A0
			w1 += A1
			w2 += A2
		}
		w0Row += B0
		w1Row += B1
		w2Row += B2
	}
}

func min3(a, b, c float64) float64 {
	return math.Min(a, math.Min(b, c))
}

func max3(a, b, c float64) float64 {
	return math.Max(a, math.Max(b, c))
}
