package models

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/datejust/pkg/material"
	"github.com/taigrr/datejust/pkg/math3d"
	"github.com/taigrr/datejust/pkg/scene"
)

func TestLoadGLBInvalidPath(t *testing.T) {
	_, err := LoadGLB("/nonexistent/path.glb")
	assert.Error(t, err)
}

func TestGLTFLoaderCreation(t *testing.T) {
	loader := NewGLTFLoader()
	require.NotNil(t, loader)
	assert.True(t, loader.CalculateNormals)
	assert.True(t, loader.LoadTextures)
}

// sample builds a small two-level tree with a textured primitive.
func sample(t *testing.T) *scene.Node {
	t.Helper()
	reg := material.MustRegistry()
	steel, err := reg.Get(material.SteelPolished)
	require.NoError(t, err)
	disc, err := reg.Get(material.DateDisc)
	require.NoError(t, err)

	label := image.NewRGBA(image.Rect(0, 0, 8, 4))
	label.Set(1, 1, color.Black)

	root := scene.NewNode("root")
	arm := scene.NewNode("arm")
	arm.SetTransform(math3d.At(math3d.V3(0, 2, 0)).Rotated(math3d.E(0, 0, 0.5)))

	box, err := scene.NewPrimitive("box", scene.Box{Width: 1, Height: 2, Depth: 0.5}, steel,
		math3d.At(math3d.V3(1, 0, 0)))
	require.NoError(t, err)
	plane, err := scene.NewPrimitive("plane", scene.Plane{Width: 0.4, Height: 0.2}, disc.WithTexture(label),
		math3d.IdentityTransform().Scaled(math3d.V3(2, 1, 1)))
	require.NoError(t, err)

	require.NoError(t, arm.Add(box))
	require.NoError(t, root.Add(arm, plane))
	return root
}

func TestExportRoundTrip(t *testing.T) {
	root := sample(t)
	cache := NewCache()
	path := filepath.Join(t.TempDir(), "sample.glb")
	require.NoError(t, Export(root, cache, path))

	baked, err := cache.Bake(root)
	require.NoError(t, err)

	loaded, err := LoadGLB(path)
	require.NoError(t, err)

	assert.Equal(t, baked.TriangleCount(), loaded.TriangleCount())
	assert.Equal(t, baked.VertexCount(), loaded.VertexCount())
	assert.True(t, baked.BoundsMin.ApproxEqual(loaded.BoundsMin, 1e-4), "min %v vs %v", baked.BoundsMin, loaded.BoundsMin)
	assert.True(t, baked.BoundsMax.ApproxEqual(loaded.BoundsMax, 1e-4), "max %v vs %v", baked.BoundsMax, loaded.BoundsMax)

	require.Len(t, loaded.Materials, 2)
	names := []string{loaded.Materials[0].Name, loaded.Materials[1].Name}
	assert.ElementsMatch(t, []string{"steel-polished", "date-disc"}, names)
	for _, m := range loaded.Materials {
		assert.Equal(t, m.Name == "date-disc", m.HasTexture, m.Name)
	}
}

func TestDocumentMirrorsTree(t *testing.T) {
	root := sample(t)
	doc, err := Document(root, NewCache())
	require.NoError(t, err)

	assert.Len(t, doc.Nodes, 4)
	assert.Len(t, doc.Meshes, 2)
	assert.Len(t, doc.Materials, 2)
	assert.Len(t, doc.Textures, 1)

	top := doc.Nodes[doc.Scenes[0].Nodes[0]]
	assert.Equal(t, "root", top.Name)
	assert.Len(t, top.Children, 2)

	arm := doc.Nodes[top.Children[0]]
	assert.Equal(t, "arm", arm.Name)
	assert.Equal(t, [3]float64{0, 2, 0}, arm.Translation)
	q := math3d.E(0, 0, 0.5).Quaternion()
	assert.InDeltaSlice(t, q[:], arm.Rotation[:], 1e-12)
}
