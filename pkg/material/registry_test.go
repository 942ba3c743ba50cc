package material

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryCoversEveryRole(t *testing.T) {
	reg, err := NewRegistry()
	require.NoError(t, err)
	assert.Equal(t, len(Roles()), reg.Len())

	for _, role := range Roles() {
		d, err := reg.Get(role)
		require.NoError(t, err, role.String())
		assert.Equal(t, role, d.Role())
	}
}

func TestRegistryUnknownRole(t *testing.T) {
	reg := MustRegistry()

	_, err := reg.Get(Role(99))
	assert.ErrorIs(t, err, ErrUnknownRole)

	_, err = reg.Get(Role(-1))
	assert.ErrorIs(t, err, ErrUnknownRole)
}

func TestRegistrySharesDescriptors(t *testing.T) {
	reg := MustRegistry()
	a, _ := reg.Get(SteelPolished)
	b, _ := reg.Get(SteelPolished)
	assert.Same(t, a, b)
}

func TestDescriptorValidation(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
	}{
		{"metalness high", Spec{Metalness: 1.2}},
		{"roughness negative", Spec{Roughness: -0.1}},
		{"transmission without ior", Spec{Transmission: 0.5}},
		{"negative env", Spec{EnvMapIntensity: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(SteelPolished, tt.spec)
			assert.ErrorIs(t, err, ErrInvalidDescriptor)
		})
	}
}

func TestWithTextureLeavesOriginal(t *testing.T) {
	reg := MustRegistry()
	disc, _ := reg.Get(DateDisc)

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	textured := disc.WithTexture(img)

	assert.Nil(t, disc.Texture())
	assert.Equal(t, img, textured.Texture())
	assert.Equal(t, disc.Role(), textured.Role())
	assert.NotSame(t, disc, textured)
}

func TestTransparentMedia(t *testing.T) {
	reg := MustRegistry()
	for _, role := range []Role{Crystal, Lens} {
		d, _ := reg.Get(role)
		assert.True(t, d.Transparent(), role.String())
		assert.Less(t, d.BaseColor().A, uint8(128), role.String())
	}
	steel, _ := reg.Get(SteelPolished)
	assert.False(t, steel.Transparent())
	assert.Equal(t, uint8(255), steel.BaseColor().A)
}

func TestRoleString(t *testing.T) {
	assert.Equal(t, "steel-polished", SteelPolished.String())
	assert.Equal(t, "date-disc", DateDisc.String())
	assert.Equal(t, "unknown", Role(42).String())
}
