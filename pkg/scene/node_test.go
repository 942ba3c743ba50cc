package scene

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taigrr/datejust/pkg/material"
	"github.com/taigrr/datejust/pkg/math3d"
)

func steel(t *testing.T) *material.Descriptor {
	t.Helper()
	d, err := material.MustRegistry().Get(material.SteelPolished)
	require.NoError(t, err)
	return d
}

func TestAddRejectsSecondParent(t *testing.T) {
	a, b := NewNode("a"), NewNode("b")
	child := NewNode("child")

	require.NoError(t, a.Add(child))
	err := b.Add(child)
	assert.ErrorIs(t, err, ErrAttached)
	assert.Equal(t, 0, b.Len())
	assert.Same(t, a, child.Parent())
}

func TestAddRejectsCycles(t *testing.T) {
	self := NewNode("self")
	assert.ErrorIs(t, self.Add(self), ErrCycle)

	detached := NewNode("detached")
	require.NoError(t, detached.Add(NewNode("leaf")))
	assert.ErrorIs(t, detached.Children()[0].(*Node).Add(detached), ErrCycle)
}

func TestAddIsAllOrNothing(t *testing.T) {
	owner := NewNode("owner")
	taken := NewNode("taken")
	require.NoError(t, owner.Add(taken))

	n := NewNode("n")
	fresh := NewNode("fresh")
	assert.Error(t, n.Add(fresh, taken))
	assert.Equal(t, 0, n.Len())
	assert.Nil(t, fresh.Parent())
}

func TestNewPrimitiveValidation(t *testing.T) {
	mat := steel(t)

	_, err := NewPrimitive("bad", Box{Width: -1, Height: 1, Depth: 1}, mat, math3d.IdentityTransform())
	assert.ErrorIs(t, err, ErrInvalidShape)

	_, err = NewPrimitive("nomat", Box{Width: 1, Height: 1, Depth: 1}, nil, math3d.IdentityTransform())
	assert.ErrorIs(t, err, ErrNoMaterial)

	_, err = NewPrimitive("few", Cylinder{RadiusTop: 1, RadiusBottom: 1, Height: 1, Segments: 2}, mat, math3d.IdentityTransform())
	assert.ErrorIs(t, err, ErrInvalidShape)

	_, err = NewPrimitive("ring", Ring{Inner: 0.08, Outer: 0.06, Segments: 32}, mat, math3d.IdentityTransform())
	assert.ErrorIs(t, err, ErrInvalidShape)
}

func TestWorldMatrixComposesAncestors(t *testing.T) {
	root := NewNode("root")
	root.SetPosition(math3d.V3(0, 1, 0))
	arm := NewNode("arm")
	arm.SetTransform(math3d.At(math3d.V3(1, 0, 0)).Rotated(math3d.E(0, 0, math.Pi/2)))
	require.NoError(t, root.Add(arm))

	tip, err := NewPrimitive("tip", Box{Width: 1, Height: 1, Depth: 1}, steel(t), math3d.At(math3d.V3(1, 0, 0)))
	require.NoError(t, err)
	require.NoError(t, arm.Add(tip))

	got := WorldMatrix(tip).Translation()
	assert.True(t, got.ApproxEqual(math3d.V3(1, 2, 0), 1e-9), "got %v", got)

	var walked math3d.Vec3
	Walk(root, func(o Object, world math3d.Mat4) bool {
		if o == Object(tip) {
			walked = world.Translation()
		}
		return true
	})
	assert.True(t, walked.ApproxEqual(got, 1e-12))
}

func TestFindAndCount(t *testing.T) {
	root := NewNode("root")
	a := NewNode("a")
	b := NewNode("b")
	require.NoError(t, root.Add(a))
	require.NoError(t, a.Add(b))

	p, err := NewPrimitive("p", Octahedron{Radius: 0.03}, steel(t), math3d.IdentityTransform())
	require.NoError(t, err)
	require.NoError(t, b.Add(p))

	assert.Same(t, b, root.Find("b"))
	assert.Nil(t, root.Find("missing"))
	assert.Same(t, a, root.Child("a"))
	assert.Nil(t, root.Child("b"))

	s := Count(root)
	assert.Equal(t, 3, s.Nodes)
	assert.Equal(t, 1, s.Primitives)
	assert.Equal(t, 1, s.ByKind[KindOctahedron])
	assert.Equal(t, 1, s.ByRole[material.SteelPolished])
	assert.Equal(t, []*Primitive{p}, Primitives(root))
}

func TestFlattenOrder(t *testing.T) {
	root := NewNode("root")
	first, _ := NewPrimitive("first", Circle{Radius: 1, Segments: 8}, steel(t), math3d.IdentityTransform())
	group := NewNode("group")
	second, _ := NewPrimitive("second", Plane{Width: 1, Height: 1}, steel(t), math3d.IdentityTransform())
	require.NoError(t, root.Add(first, group))
	require.NoError(t, group.Add(second))

	entries := Flatten(root)
	require.Len(t, entries, 4)
	names := []string{entries[0].Name, entries[1].Name, entries[2].Name, entries[3].Name}
	assert.Equal(t, []string{"root", "first", "group", "second"}, names)
	assert.Equal(t, 2, entries[3].Depth)
	assert.Equal(t, "plane", entries[3].Kind)
	assert.Equal(t, material.Role(-1), entries[2].Role)
}
