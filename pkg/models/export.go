package models

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/taigrr/datejust/pkg/material"
	"github.com/taigrr/datejust/pkg/scene"
)

// Export writes the tree under root to path as binary glTF.
func Export(root *scene.Node, cache *Cache, path string) error {
	doc, err := Document(root, cache)
	if err != nil {
		return err
	}
	if err := gltf.SaveBinary(doc, path); err != nil {
		return fmt.Errorf("save glb: %w", err)
	}
	return nil
}

// Document converts the tree under root into a glTF document. Assembly
// nodes become glTF nodes with the same local transforms; each primitive
// becomes a node with its own mesh. Materials are shared per descriptor.
func Document(root *scene.Node, cache *Cache) (*gltf.Document, error) {
	e := &exporter{
		doc:       gltf.NewDocument(),
		cache:     cache,
		materials: make(map[*material.Descriptor]int),
	}
	idx, err := e.object(root)
	if err != nil {
		return nil, fmt.Errorf("export %s: %w", root.Name(), err)
	}
	e.doc.Scenes[0].Nodes = append(e.doc.Scenes[0].Nodes, idx)
	return e.doc, nil
}

type exporter struct {
	doc       *gltf.Document
	cache     *Cache
	materials map[*material.Descriptor]int
}

func (e *exporter) object(o scene.Object) (int, error) {
	t := o.Transform()
	node := &gltf.Node{
		Name:        o.Name(),
		Translation: [3]float64{t.Position.X, t.Position.Y, t.Position.Z},
		Rotation:    t.Rotation.Quaternion(),
		Scale:       [3]float64{t.Scale.X, t.Scale.Y, t.Scale.Z},
	}
	switch v := o.(type) {
	case *scene.Node:
		for _, c := range v.Children() {
			ci, err := e.object(c)
			if err != nil {
				return 0, err
			}
			node.Children = append(node.Children, ci)
		}
	case *scene.Primitive:
		mi, err := e.mesh(v)
		if err != nil {
			return 0, err
		}
		node.Mesh = gltf.Index(mi)
	}
	e.doc.Nodes = append(e.doc.Nodes, node)
	return len(e.doc.Nodes) - 1, nil
}

func (e *exporter) mesh(p *scene.Primitive) (int, error) {
	m, err := e.cache.Mesh(p)
	if err != nil {
		return 0, err
	}
	mat, err := e.material(p.Material)
	if err != nil {
		return 0, err
	}

	positions := make([][3]float32, len(m.Vertices))
	normals := make([][3]float32, len(m.Vertices))
	uvs := make([][2]float32, len(m.Vertices))
	for i, v := range m.Vertices {
		positions[i] = [3]float32{float32(v.Position.X), float32(v.Position.Y), float32(v.Position.Z)}
		normals[i] = [3]float32{float32(v.Normal.X), float32(v.Normal.Y), float32(v.Normal.Z)}
		// glTF puts V=0 at the top of the image.
		uvs[i] = [2]float32{float32(v.UV.X), float32(1 - v.UV.Y)}
	}
	indices := make([]uint32, 0, len(m.Faces)*3)
	for _, f := range m.Faces {
		indices = append(indices, uint32(f.V[0]), uint32(f.V[1]), uint32(f.V[2]))
	}

	e.doc.Meshes = append(e.doc.Meshes, &gltf.Mesh{
		Name: p.Name(),
		Primitives: []*gltf.Primitive{{
			Indices: gltf.Index(modeler.WriteIndices(e.doc, indices)),
			Attributes: map[string]int{
				gltf.POSITION:   modeler.WritePosition(e.doc, positions),
				gltf.NORMAL:     modeler.WriteNormal(e.doc, normals),
				gltf.TEXCOORD_0: modeler.WriteTextureCoord(e.doc, uvs),
			},
			Material: gltf.Index(mat),
		}},
	})
	return len(e.doc.Meshes) - 1, nil
}

func (e *exporter) material(d *material.Descriptor) (int, error) {
	if i, ok := e.materials[d]; ok {
		return i, nil
	}
	m := MaterialFrom(d)
	gm := &gltf.Material{
		Name: m.Name,
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &m.BaseColor,
			MetallicFactor:  gltf.Float(m.Metallic),
			RoughnessFactor: gltf.Float(m.Roughness),
		},
		EmissiveFactor: m.Emissive,
		DoubleSided:    true,
	}
	if m.Transparent {
		gm.AlphaMode = gltf.AlphaBlend
	}
	if m.BaseMap != nil {
		var buf bytes.Buffer
		if err := png.Encode(&buf, m.BaseMap); err != nil {
			return 0, fmt.Errorf("encode %s texture: %w", m.Name, err)
		}
		img, err := modeler.WriteImage(e.doc, m.Name, "image/png", &buf)
		if err != nil {
			return 0, fmt.Errorf("write %s texture: %w", m.Name, err)
		}
		e.doc.Textures = append(e.doc.Textures, &gltf.Texture{Source: gltf.Index(img)})
		gm.PBRMetallicRoughness.BaseColorTexture = &gltf.TextureInfo{Index: len(e.doc.Textures) - 1}
	}
	e.doc.Materials = append(e.doc.Materials, gm)
	e.materials[d] = len(e.doc.Materials) - 1
	return e.materials[d], nil
}
