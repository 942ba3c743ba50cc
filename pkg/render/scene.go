package render

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/taigrr/datejust/pkg/material"
	"github.com/taigrr/datejust/pkg/math3d"
	"github.com/taigrr/datejust/pkg/models"
	"github.com/taigrr/datejust/pkg/scene"
	"github.com/taigrr/datejust/pkg/stage"
)

// FrameStats describes the last submitted frame.
type FrameStats struct {
	Primitives  int
	Triangles   int
	Culled      int
	Transparent int
}

// SceneRenderer draws stages into a framebuffer. Primitives are tessellated
// on first sight and reused every frame after.
type SceneRenderer struct {
	Camera     *Camera
	Rasterizer *Rasterizer
	Wireframe  bool // Draw triangle edges instead of shaded surfaces

	fb       *Framebuffer
	cache    *models.Cache
	surfaces map[*material.Descriptor]*surface
	textures map[*material.Descriptor]*Texture
	env      float64
	stats    FrameStats
}

// NewSceneRenderer creates a renderer with a width×height framebuffer.
func NewSceneRenderer(width, height int) *SceneRenderer {
	r := &SceneRenderer{
		Camera:   NewCamera(),
		cache:    models.NewCache(),
		surfaces: make(map[*material.Descriptor]*surface),
		textures: make(map[*material.Descriptor]*Texture),
		env:      -1,
	}
	r.Resize(width, height)
	return r
}

// Resize replaces the framebuffer.
func (r *SceneRenderer) Resize(width, height int) {
	r.fb = NewFramebuffer(width, height)
	r.Rasterizer = NewRasterizer(r.Camera, r.fb)
	if height > 0 {
		r.Camera.SetAspectRatio(float64(width) / float64(height))
	}
}

// Framebuffer returns the image of the last frame.
func (r *SceneRenderer) Framebuffer() *Framebuffer {
	return r.fb
}

// SetWireframe switches between shaded surfaces and triangle edges.
func (r *SceneRenderer) SetWireframe(on bool) {
	r.Wireframe = on
}

// Stats returns counters for the last frame.
func (r *SceneRenderer) Stats() FrameStats {
	return r.stats
}

type drawCall struct {
	prim  *scene.Primitive
	mesh  *models.Mesh
	world math3d.Mat4
	depth float64
}

// SubmitFrame renders s. Opaque primitives are drawn in tree order, then
// transparent ones back to front with blending.
func (r *SceneRenderer) SubmitFrame(s *stage.Stage) error {
	r.Camera.Apply(s.Camera)
	r.Rasterizer.ClearDepth()
	r.fb.Clear(background(s.Background))
	r.stats = FrameStats{}

	if s.Environment != r.env {
		clear(r.surfaces)
		r.env = s.Environment
	}
	shader := &Shader{Lights: s.Lights, Eye: r.Camera.Position, Environment: s.Environment}
	wire := NewWireframe(r.Camera, r.fb)
	view := NewViewVolume(r.Camera.ViewProjectionMatrix())

	var transparent []drawCall
	var err error
	scene.Walk(s.Model.Root, func(o scene.Object, world math3d.Mat4) bool {
		p, ok := o.(*scene.Primitive)
		if !ok {
			return true
		}
		var mesh *models.Mesh
		if mesh, err = r.cache.Mesh(p); err != nil {
			return false
		}
		r.stats.Primitives++
		if !view.Overlaps(WorldBounds(mesh, world)) {
			r.stats.Culled++
			return true
		}
		dc := drawCall{prim: p, mesh: mesh, world: world}
		switch {
		case r.Wireframe:
			wire.DrawMesh(mesh, world, wireColor(p.Material))
		case p.Material.Transparent():
			center := world.MulVec3(mesh.Center())
			dc.depth = center.Distance(r.Camera.Position)
			transparent = append(transparent, dc)
		default:
			r.draw(shader, dc)
		}
		return true
	})
	if err != nil {
		return fmt.Errorf("submit frame: %w", err)
	}
	if r.Wireframe {
		wire.DrawAxes(2)
	}

	slices.SortStableFunc(transparent, func(a, b drawCall) int {
		return cmp.Compare(b.depth, a.depth)
	})
	for _, dc := range transparent {
		r.draw(shader, dc)
		r.stats.Transparent++
	}
	return nil
}

func (r *SceneRenderer) draw(shader *Shader, dc drawCall) {
	d := dc.prim.Material
	sf, ok := r.surfaces[d]
	if !ok {
		s := newSurface(d, shader.Environment)
		sf = &s
		r.surfaces[d] = sf
	}
	p := Paint{
		Shade: func(pos, n math3d.Vec3) colorful.Color {
			return shader.Shade(sf, pos, n)
		},
		Texture: r.texture(d),
		Alpha:   float64(d.BaseColor().A) / 255,
	}
	r.Rasterizer.DrawMesh(dc.mesh, dc.world, p)
	r.stats.Triangles += dc.mesh.TriangleCount()
}

func (r *SceneRenderer) texture(d *material.Descriptor) *Texture {
	img := d.Texture()
	if img == nil {
		return nil
	}
	tex, ok := r.textures[d]
	if !ok {
		tex = TextureFromImage(img)
		r.textures[d] = tex
	}
	return tex
}

func background(c colorful.Color) Color {
	r, g, b := c.Clamped().RGB255()
	return RGB(r, g, b)
}

func wireColor(d *material.Descriptor) Color {
	c := d.BaseColor()
	c.A = 255
	return c
}

// Snapshot renders s once at width×height pixels and writes a PNG to path.
func Snapshot(s *stage.Stage, width, height int, path string) error {
	r := NewSceneRenderer(width, height)
	if err := r.SubmitFrame(s); err != nil {
		return err
	}
	if err := r.fb.SavePNG(path); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}
