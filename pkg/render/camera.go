package render

import (
	"math"

	"github.com/taigrr/datejust/pkg/math3d"
	"github.com/taigrr/datejust/pkg/stage"
)

// Camera is a perspective camera looking from Position at Target.
type Camera struct {
	Position math3d.Vec3
	Target   math3d.Vec3

	// Projection parameters
	FOV         float64 // Vertical field of view in radians
	AspectRatio float64 // Width / Height
	Near        float64 // Near clipping plane
	Far         float64 // Far clipping plane

	// Cached matrices (computed on demand)
	viewMatrix     math3d.Mat4
	projMatrix     math3d.Mat4
	viewProjMatrix math3d.Mat4
	viewDirty      bool
	projDirty      bool
}

// NewCamera creates a camera at (0, 0, 8) looking at the origin.
func NewCamera() *Camera {
	return &Camera{
		Position:    math3d.V3(0, 0, 8),
		FOV:         35 * math.Pi / 180,
		AspectRatio: 16.0 / 9.0,
		Near:        0.1,
		Far:         1000,
		viewDirty:   true,
		projDirty:   true,
	}
}

// SetPose moves the camera and the point it looks at.
func (c *Camera) SetPose(position, target math3d.Vec3) {
	if c.Position == position && c.Target == target {
		return
	}
	c.Position = position
	c.Target = target
	c.viewDirty = true
}

// SetFOV sets the vertical field of view in radians.
func (c *Camera) SetFOV(fov float64) {
	if c.FOV == fov {
		return
	}
	c.FOV = fov
	c.projDirty = true
}

// SetAspectRatio sets the aspect ratio.
func (c *Camera) SetAspectRatio(aspect float64) {
	if c.AspectRatio == aspect {
		return
	}
	c.AspectRatio = aspect
	c.projDirty = true
}

// SetClipPlanes sets the near and far clipping planes.
func (c *Camera) SetClipPlanes(near, far float64) {
	if c.Near == near && c.Far == far {
		return
	}
	c.Near = near
	c.Far = far
	c.projDirty = true
}

// Apply copies a stage camera's pose and lens. The stage FOV is in degrees.
func (c *Camera) Apply(sc stage.Camera) {
	c.SetPose(sc.Position, sc.Target)
	c.SetFOV(sc.FOV * math.Pi / 180)
	c.SetClipPlanes(sc.Near, sc.Far)
}

// Forward returns the unit view direction.
func (c *Camera) Forward() math3d.Vec3 {
	return c.Target.Sub(c.Position).Normalize()
}

// up returns a world up vector that is never parallel to the view direction.
func (c *Camera) up() math3d.Vec3 {
	f := c.Forward()
	if math.Abs(f.Dot(math3d.Up())) > 0.999 {
		return math3d.V3(0, 0, -1)
	}
	return math3d.Up()
}

// ViewMatrix returns the view matrix.
func (c *Camera) ViewMatrix() math3d.Mat4 {
	if c.viewDirty {
		c.viewMatrix = math3d.LookAt(c.Position, c.Target, c.up())
	}
	return c.viewMatrix
}

// ProjectionMatrix returns the projection matrix.
func (c *Camera) ProjectionMatrix() math3d.Mat4 {
	if c.projDirty {
		c.projMatrix = math3d.Perspective(c.FOV, c.AspectRatio, c.Near, c.Far)
	}
	return c.projMatrix
}

// ViewProjectionMatrix returns the combined view-projection matrix.
func (c *Camera) ViewProjectionMatrix() math3d.Mat4 {
	if c.viewDirty || c.projDirty {
		c.viewProjMatrix = c.ProjectionMatrix().Mul(c.ViewMatrix())
		c.viewDirty = false
		c.projDirty = false
	}
	return c.viewProjMatrix
}

// WorldToScreen transforms a world point to screen coordinates.
// Returns (screenX, screenY, depth, visible).
func (c *Camera) WorldToScreen(worldPos math3d.Vec3, screenWidth, screenHeight int) (x, y, depth float64, visible bool) {
	clipPos := c.ViewProjectionMatrix().MulVec4(math3d.V4FromV3(worldPos, 1))

	// Behind the camera
	if clipPos.W <= 0 {
		return 0, 0, 0, false
	}

	ndc := clipPos.PerspectiveDivide()
	if ndc.X < -1 || ndc.X > 1 || ndc.Y < -1 || ndc.Y > 1 || ndc.Z < -1 || ndc.Z > 1 {
		return 0, 0, 0, false
	}

	x = (ndc.X + 1) * 0.5 * float64(screenWidth)
	y = (1 - ndc.Y) * 0.5 * float64(screenHeight) // Y is flipped
	return x, y, ndc.Z, true
}
