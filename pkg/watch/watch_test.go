package watch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/datejust/pkg/material"
	"github.com/taigrr/datejust/pkg/math3d"
	"github.com/taigrr/datejust/pkg/parts"
	"github.com/taigrr/datejust/pkg/scene"
)

type missing struct {
	reg  *material.Registry
	role material.Role
}

func (m missing) Get(r material.Role) (*material.Descriptor, error) {
	if r == m.role {
		return nil, material.ErrUnknownRole
	}
	return m.reg.Get(r)
}

func TestAssembleOrder(t *testing.T) {
	m, err := Assemble(material.MustRegistry(), parts.DetailHigh)
	require.NoError(t, err)

	var names []string
	for _, c := range m.Root.Children() {
		names = append(names, c.Name())
	}
	assert.Equal(t, []string{"case", "dial", "hands", "bracelet", "crystal"}, names)
	assert.InDelta(t, Tilt, m.Root.Transform().Rotation.X, 1e-12)
	assert.InDelta(t, 0.28, m.Hands.Transform().Position.Y, 1e-12)

	// The crystal is the last primitive drawn.
	prims := scene.Primitives(m.Root)
	last := prims[len(prims)-1]
	assert.Equal(t, material.Lens, last.Material.Role())
}

func TestAssembleIsIndependent(t *testing.T) {
	reg := material.MustRegistry()
	a, err := Assemble(reg, parts.DetailHigh)
	require.NoError(t, err)
	b, err := Assemble(reg, parts.DetailHigh)
	require.NoError(t, err)

	assert.Equal(t, scene.Flatten(a.Root), scene.Flatten(b.Root))

	a.Dial.SetPosition(math3d.V3(0, 9, 0))
	assert.NotEqual(t, a.Dial.Transform(), b.Dial.Transform())
}

func TestAssembleDetailLevels(t *testing.T) {
	reg := material.MustRegistry()
	high, err := Assemble(reg, parts.DetailHigh)
	require.NoError(t, err)
	std, err := Assemble(reg, parts.DetailStandard)
	require.NoError(t, err)

	hs, ss := high.Stats(), std.Stats()
	assert.Greater(t, hs.Primitives, ss.Primitives)
	assert.Equal(t, 41, high.Case.Child("bezel").Len())
	assert.Equal(t, 2, ss.ByRole[material.SecondHand])
	assert.Zero(t, hs.ByRole[material.SecondHand])
}

func TestAssembleAbortsOnFirstError(t *testing.T) {
	_, err := Assemble(missing{reg: material.MustRegistry(), role: material.Print}, parts.DetailHigh)
	assert.ErrorIs(t, err, material.ErrUnknownRole)
	assert.ErrorContains(t, err, "assemble dial")

	o := parts.DefaultOptions(parts.DetailHigh)
	o.Bracelet.Rows = -1
	_, err = AssembleWith(material.MustRegistry(), o)
	assert.ErrorIs(t, err, parts.ErrInvalidParameter)
}

func TestResetRestoresRest(t *testing.T) {
	m, err := Assemble(material.MustRegistry(), parts.DetailHigh)
	require.NoError(t, err)
	rest := m.Rest(m.HandSet.Second)

	m.HandSet.Second.SetRotation(math3d.E(0, 0, 3))
	m.Case.SetPosition(math3d.V3(0, -1, 0))
	m.Reset()

	assert.Equal(t, rest, m.HandSet.Second.Transform())
	assert.Equal(t, math3d.IdentityTransform(), m.Case.Transform())
}
