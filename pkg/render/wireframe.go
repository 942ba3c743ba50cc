package render

import (
	"github.com/taigrr/datejust/pkg/math3d"
)

// Wireframe draws triangle edges without depth testing, for inspecting the
// tessellation of a part.
type Wireframe struct {
	camera *Camera
	fb     *Framebuffer
}

// NewWireframe creates a new wireframe renderer.
func NewWireframe(camera *Camera, fb *Framebuffer) *Wireframe {
	return &Wireframe{
		camera: camera,
		fb:     fb,
	}
}

// DrawLine3D draws a line in 3D space.
func (w *Wireframe) DrawLine3D(p1, p2 math3d.Vec3, color Color) {
	x1, y1, _, vis1 := w.camera.WorldToScreen(p1, w.fb.Width, w.fb.Height)
	x2, y2, _, vis2 := w.camera.WorldToScreen(p2, w.fb.Width, w.fb.Height)

	// Lines leaving the screen are dropped rather than clipped
	if !vis1 || !vis2 {
		return
	}
	w.fb.DrawLine(int(x1), int(y1), int(x2), int(y2), color)
}

// DrawMesh draws every triangle edge of mesh under transform.
func (w *Wireframe) DrawMesh(mesh MeshRenderer, transform math3d.Mat4, color Color) {
	for i := range mesh.TriangleCount() {
		face := mesh.GetFace(i)
		var v [3]math3d.Vec3
		for k, idx := range face {
			p, _, _ := mesh.GetVertex(idx)
			v[k] = transform.MulVec3(p)
		}
		w.DrawLine3D(v[0], v[1], color)
		w.DrawLine3D(v[1], v[2], color)
		w.DrawLine3D(v[2], v[0], color)
	}
}

// DrawAxes draws the coordinate axes at the origin.
func (w *Wireframe) DrawAxes(length float64) {
	var origin math3d.Vec3
	w.DrawLine3D(origin, math3d.V3(length, 0, 0), ColorRed)   // X axis
	w.DrawLine3D(origin, math3d.V3(0, length, 0), ColorGreen) // Y axis
	w.DrawLine3D(origin, math3d.V3(0, 0, length), ColorBlue)  // Z axis
}
