package models

import (
	"fmt"

	"github.com/taigrr/datejust/pkg/material"
	"github.com/taigrr/datejust/pkg/math3d"
	"github.com/taigrr/datejust/pkg/scene"
)

// Cache tessellates each primitive once. Primitive shapes never change after
// assembly, so entries stay valid for the primitive's lifetime.
type Cache struct {
	meshes map[*scene.Primitive]*Mesh
}

// NewCache creates an empty mesh cache.
func NewCache() *Cache {
	return &Cache{meshes: make(map[*scene.Primitive]*Mesh)}
}

// Mesh returns the local-space mesh for p, tessellating it on first use.
func (c *Cache) Mesh(p *scene.Primitive) (*Mesh, error) {
	if m, ok := c.meshes[p]; ok {
		return m, nil
	}
	m, err := Tessellate(p.Shape)
	if err != nil {
		return nil, fmt.Errorf("tessellate %s: %w", p.Name(), err)
	}
	m.Name = p.Name()
	c.meshes[p] = m
	return m, nil
}

// Len returns the number of cached meshes.
func (c *Cache) Len() int {
	return len(c.meshes)
}

// Bake flattens every primitive beneath root into one world-space mesh with
// one material per distinct descriptor.
func (c *Cache) Bake(root *scene.Node) (*Mesh, error) {
	out := NewMesh(root.Name())
	index := make(map[*material.Descriptor]int)
	var err error
	scene.Walk(root, func(o scene.Object, world math3d.Mat4) bool {
		p, ok := o.(*scene.Primitive)
		if !ok || err != nil {
			return err == nil
		}
		var local *Mesh
		local, err = c.Mesh(p)
		if err != nil {
			return false
		}
		mi, seen := index[p.Material]
		if !seen {
			mi = len(out.Materials)
			index[p.Material] = mi
			out.Materials = append(out.Materials, MaterialFrom(p.Material))
		}
		m := local.Clone()
		m.Transform(world)
		out.Append(m, mi)
		return true
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// MaterialFrom summarizes a descriptor as a glTF-style PBR material with
// linear color factors.
func MaterialFrom(d *material.Descriptor) Material {
	spec := d.Spec()
	r, g, b := spec.Color.Clamped().LinearRgb()
	e := d.EmissiveColor()
	return Material{
		Name:        d.Role().String(),
		BaseColor:   [4]float64{r, g, b, float64(d.BaseColor().A) / 255},
		Metallic:    d.Metalness(),
		Roughness:   d.Roughness(),
		Emissive:    [3]float64{clamp01(e.R), clamp01(e.G), clamp01(e.B)},
		BaseMap:     d.Texture(),
		HasTexture:  d.Texture() != nil,
		Transparent: d.Transparent(),
	}
}

func clamp01(v float64) float64 {
	return max(0, min(1, v))
}
