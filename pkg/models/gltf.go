package models

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"path/filepath"

	"github.com/qmuntal/gltf"

	"github.com/taigrr/datejust/pkg/math3d"
)

// GLTFLoader loads GLTF/GLB files into Mesh format.
type GLTFLoader struct {
	// Options
	CalculateNormals bool // Fill smooth normals when the file has none
	LoadTextures     bool // Decode embedded base color textures
}

// NewGLTFLoader creates a new GLTF loader with default options.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{
		CalculateNormals: true,
		LoadTextures:     true,
	}
}

// LoadGLB loads a binary GLTF (.glb) file.
func LoadGLB(path string) (*Mesh, error) {
	loader := NewGLTFLoader()
	return loader.Load(path)
}

// Load loads a GLTF or GLB file and returns a single world-space Mesh.
// Node transforms of the default scene are applied; documents without
// scenes fall back to their raw meshes.
func (l *GLTFLoader) Load(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	mesh := NewMesh(filepath.Base(path))
	mesh.Materials = l.readMaterials(doc)

	roots := sceneRoots(doc)
	if len(roots) == 0 {
		for _, m := range doc.Meshes {
			if err := l.processMesh(doc, m, math3d.Identity(), mesh); err != nil {
				return nil, fmt.Errorf("process mesh %q: %w", m.Name, err)
			}
		}
	}
	for _, root := range roots {
		if err := l.processNode(doc, root, math3d.Identity(), mesh); err != nil {
			return nil, err
		}
	}

	// Calculate normals if needed
	hasNormals := false
	for _, v := range mesh.Vertices {
		if v.Normal.Len() > 0.001 {
			hasNormals = true
			break
		}
	}
	if l.CalculateNormals && !hasNormals {
		mesh.CalculateSmoothNormals()
	}

	mesh.CalculateBounds()

	return mesh, nil
}

func sceneRoots(doc *gltf.Document) []int {
	if len(doc.Scenes) == 0 {
		return nil
	}
	s := 0
	if doc.Scene != nil {
		s = *doc.Scene
	}
	return doc.Scenes[s].Nodes
}

// nodeMatrix returns the local matrix of a glTF node.
func nodeMatrix(n *gltf.Node) math3d.Mat4 {
	if n.Matrix != [16]float64{} && n.Matrix != [16]float64(math3d.Identity()) {
		return math3d.Mat4(n.Matrix)
	}
	t := math3d.V3(n.Translation[0], n.Translation[1], n.Translation[2])
	s := math3d.V3(n.Scale[0], n.Scale[1], n.Scale[2])
	if s == (math3d.Vec3{}) {
		s = math3d.One3()
	}
	r := n.Rotation
	if r == [4]float64{} {
		r = [4]float64{0, 0, 0, 1}
	}
	return math3d.Translate(t).Mul(math3d.FromQuaternion(r)).Mul(math3d.Scale(s))
}

func (l *GLTFLoader) processNode(doc *gltf.Document, idx int, parent math3d.Mat4, mesh *Mesh) error {
	if idx < 0 || idx >= len(doc.Nodes) {
		return fmt.Errorf("node index %d out of range", idx)
	}
	n := doc.Nodes[idx]
	world := parent.Mul(nodeMatrix(n))
	if n.Mesh != nil {
		m := doc.Meshes[*n.Mesh]
		if err := l.processMesh(doc, m, world, mesh); err != nil {
			return fmt.Errorf("process mesh %q: %w", m.Name, err)
		}
	}
	for _, c := range n.Children {
		if err := l.processNode(doc, c, world, mesh); err != nil {
			return err
		}
	}
	return nil
}

// readMaterials converts the document's materials, decoding base color
// textures when enabled.
func (l *GLTFLoader) readMaterials(doc *gltf.Document) []Material {
	out := make([]Material, 0, len(doc.Materials))
	for _, gm := range doc.Materials {
		m := Material{
			Name:        gm.Name,
			BaseColor:   [4]float64{1, 1, 1, 1},
			Metallic:    1,
			Roughness:   1,
			Emissive:    gm.EmissiveFactor,
			Transparent: gm.AlphaMode == gltf.AlphaBlend,
		}
		if pbr := gm.PBRMetallicRoughness; pbr != nil {
			if pbr.BaseColorFactor != nil {
				m.BaseColor = *pbr.BaseColorFactor
			}
			if pbr.MetallicFactor != nil {
				m.Metallic = *pbr.MetallicFactor
			}
			if pbr.RoughnessFactor != nil {
				m.Roughness = *pbr.RoughnessFactor
			}
			if l.LoadTextures && pbr.BaseColorTexture != nil {
				if img := textureImage(doc, pbr.BaseColorTexture.Index); img != nil {
					m.BaseMap = img
					m.HasTexture = true
				}
			}
		}
		out = append(out, m)
	}
	return out
}

// textureImage decodes an embedded texture image, or returns nil.
func textureImage(doc *gltf.Document, texture int) image.Image {
	if texture < 0 || texture >= len(doc.Textures) || doc.Textures[texture].Source == nil {
		return nil
	}
	src := doc.Images[*doc.Textures[texture].Source]
	if src.BufferView == nil {
		return nil
	}
	bv := doc.BufferViews[*src.BufferView]
	buf := doc.Buffers[bv.Buffer]
	if buf.Data == nil {
		return nil
	}
	img, _, err := image.Decode(bytes.NewReader(buf.Data[bv.ByteOffset : bv.ByteOffset+bv.ByteLength]))
	if err != nil {
		return nil
	}
	return img
}

// processMesh extracts geometry from a GLTF mesh, transformed by world.
func (l *GLTFLoader) processMesh(doc *gltf.Document, m *gltf.Mesh, world math3d.Mat4, mesh *Mesh) error {
	normalMatrix := world.NormalMatrix()
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
			// Skip non-triangle primitives (lines, points, etc)
			continue
		}

		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}

		positions, err := readVec3Accessor(doc, posIdx)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}

		var normals []math3d.Vec3
		if normIdx, ok := prim.Attributes[gltf.NORMAL]; ok {
			normals, err = readVec3Accessor(doc, normIdx)
			if err != nil {
				return fmt.Errorf("read normals: %w", err)
			}
		}

		var uvs []math3d.Vec2
		if uvIdx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
			uvs, err = readVec2Accessor(doc, uvIdx)
			if err != nil {
				return fmt.Errorf("read uvs: %w", err)
			}
		}

		material := -1
		if prim.Material != nil && *prim.Material < len(mesh.Materials) {
			material = *prim.Material
		}

		baseVertex := len(mesh.Vertices)
		for i := range positions {
			v := MeshVertex{Position: world.MulVec3(positions[i])}
			if i < len(normals) {
				v.Normal = normalMatrix.MulVec3Dir(normals[i]).Normalize()
			}
			if i < len(uvs) {
				// GLTF uses top-left origin (V=0 at top), flip V for bottom-left origin
				v.UV = math3d.V2(uvs[i].X, 1.0-uvs[i].Y)
			}
			mesh.Vertices = append(mesh.Vertices, v)
		}

		var indices []int
		if prim.Indices != nil {
			indices, err = readIndices(doc, *prim.Indices)
			if err != nil {
				return fmt.Errorf("read indices: %w", err)
			}
		} else {
			// No indices, assume sequential triangles
			indices = make([]int, len(positions))
			for i := range indices {
				indices[i] = i
			}
		}

		// A mirroring transform flips winding.
		flip := world.Determinant() < 0
		for i := 0; i+2 < len(indices); i += 3 {
			f := Face{
				V:        [3]int{baseVertex + indices[i], baseVertex + indices[i+1], baseVertex + indices[i+2]},
				Material: material,
			}
			if flip {
				f.V[1], f.V[2] = f.V[2], f.V[1]
			}
			mesh.Faces = append(mesh.Faces, f)
		}
	}

	return nil
}

// readVec3Accessor reads Vec3 data from a GLTF accessor.
func readVec3Accessor(doc *gltf.Document, accessorIdx int) ([]math3d.Vec3, error) {
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorVec3 {
		return nil, fmt.Errorf("expected VEC3, got %v", accessor.Type)
	}

	data, err := readAccessorData(doc, accessor)
	if err != nil {
		return nil, err
	}

	floats, ok := data.([][3]float32)
	if !ok {
		return nil, fmt.Errorf("unexpected data type for VEC3")
	}

	result := make([]math3d.Vec3, len(floats))
	for i, f := range floats {
		result[i] = math3d.V3(float64(f[0]), float64(f[1]), float64(f[2]))
	}

	return result, nil
}

// readVec2Accessor reads Vec2 data from a GLTF accessor.
func readVec2Accessor(doc *gltf.Document, accessorIdx int) ([]math3d.Vec2, error) {
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorVec2 {
		return nil, fmt.Errorf("expected VEC2, got %v", accessor.Type)
	}

	data, err := readAccessorData(doc, accessor)
	if err != nil {
		return nil, err
	}

	floats, ok := data.([][2]float32)
	if !ok {
		return nil, fmt.Errorf("unexpected data type for VEC2")
	}

	result := make([]math3d.Vec2, len(floats))
	for i, f := range floats {
		result[i] = math3d.V2(float64(f[0]), float64(f[1]))
	}

	return result, nil
}

// readIndices reads index data from a GLTF accessor.
func readIndices(doc *gltf.Document, accessorIdx int) ([]int, error) {
	accessor := doc.Accessors[accessorIdx]

	data, err := readAccessorData(doc, accessor)
	if err != nil {
		return nil, err
	}

	switch v := data.(type) {
	case []uint8:
		return widen(v), nil
	case []uint16:
		return widen(v), nil
	case []uint32:
		return widen(v), nil
	default:
		return nil, fmt.Errorf("unexpected index type: %T", data)
	}
}

func widen[T uint8 | uint16 | uint32](v []T) []int {
	result := make([]int, len(v))
	for i, x := range v {
		result[i] = int(x)
	}
	return result
}

// readAccessorData reads raw data from a GLTF accessor.
func readAccessorData(doc *gltf.Document, accessor *gltf.Accessor) (any, error) {
	if accessor.BufferView == nil {
		return nil, fmt.Errorf("accessor has no buffer view")
	}

	bufferView := doc.BufferViews[*accessor.BufferView]
	buffer := doc.Buffers[bufferView.Buffer]

	if buffer.URI != "" && buffer.Data == nil {
		return nil, fmt.Errorf("external buffers not supported")
	}
	bufData := buffer.Data
	if bufData == nil {
		return nil, fmt.Errorf("buffer has no data")
	}

	start := bufferView.ByteOffset + accessor.ByteOffset
	stride := bufferView.ByteStride
	count := accessor.Count
	le := binary.LittleEndian

	switch accessor.Type {
	case gltf.AccessorVec3:
		if stride == 0 {
			stride = 12 // 3 floats * 4 bytes
		}
		result := make([][3]float32, count)
		for i := range count {
			offset := start + i*stride
			for j := range 3 {
				result[i][j] = math.Float32frombits(le.Uint32(bufData[offset+j*4:]))
			}
		}
		return result, nil

	case gltf.AccessorVec2:
		if stride == 0 {
			stride = 8 // 2 floats * 4 bytes
		}
		result := make([][2]float32, count)
		for i := range count {
			offset := start + i*stride
			for j := range 2 {
				result[i][j] = math.Float32frombits(le.Uint32(bufData[offset+j*4:]))
			}
		}
		return result, nil

	case gltf.AccessorScalar:
		if stride == 0 {
			switch accessor.ComponentType {
			case gltf.ComponentUbyte:
				stride = 1
			case gltf.ComponentUshort:
				stride = 2
			case gltf.ComponentUint:
				stride = 4
			}
		}

		switch accessor.ComponentType {
		case gltf.ComponentUbyte:
			result := make([]uint8, count)
			for i := range count {
				result[i] = bufData[start+i*stride]
			}
			return result, nil
		case gltf.ComponentUshort:
			result := make([]uint16, count)
			for i := range count {
				result[i] = le.Uint16(bufData[start+i*stride:])
			}
			return result, nil
		case gltf.ComponentUint:
			result := make([]uint32, count)
			for i := range count {
				result[i] = le.Uint32(bufData[start+i*stride:])
			}
			return result, nil
		}
	}

	return nil, fmt.Errorf("unsupported accessor type: %v / %v", accessor.Type, accessor.ComponentType)
}
