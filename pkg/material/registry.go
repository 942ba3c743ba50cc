package material

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// Registry maps every Role to its Descriptor. It is filled once by
// NewRegistry and never mutated afterwards.
type Registry struct {
	byRole [roleCount]*Descriptor
}

// NewRegistry builds the fixed material table.
func NewRegistry() (*Registry, error) {
	reg := &Registry{}
	for role, spec := range table() {
		d, err := New(role, spec)
		if err != nil {
			return nil, fmt.Errorf("build registry: %w", err)
		}
		reg.byRole[role] = d
	}
	for _, role := range Roles() {
		if reg.byRole[role] == nil {
			return nil, fmt.Errorf("build registry: %w: %s has no entry", ErrUnknownRole, role)
		}
	}
	return reg, nil
}

// MustRegistry is like NewRegistry but panics on error.
// The table is a compile-time constant, so failure is a programming error.
func MustRegistry() *Registry {
	reg, err := NewRegistry()
	if err != nil {
		panic(err)
	}
	return reg
}

// Get returns the descriptor for role.
func (r *Registry) Get(role Role) (*Descriptor, error) {
	if !role.Valid() || r.byRole[role] == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRole, role)
	}
	return r.byRole[role], nil
}

// Len returns the number of registered descriptors.
func (r *Registry) Len() int {
	n := 0
	for _, d := range r.byRole {
		if d != nil {
			n++
		}
	}
	return n
}

func hex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(fmt.Sprintf("material table: bad color %q: %v", s, err))
	}
	return c
}

func table() map[Role]Spec {
	white := hex("#FFFFFF")
	return map[Role]Spec{
		SteelPolished: {
			Color:              hex("#E5E5E5"),
			Metalness:          0.95,
			Roughness:          0.05,
			Clearcoat:          1.0,
			ClearcoatRoughness: 0.01,
			EnvMapIntensity:    1.5,
		},
		SteelBrushed: {
			Color:              hex("#D0D0D0"),
			Metalness:          0.9,
			Roughness:          0.3,
			Clearcoat:          0.5,
			ClearcoatRoughness: 0.2,
			EnvMapIntensity:    1.0,
		},
		SteelSatin: {
			Color:              hex("#DADADA"),
			Metalness:          0.85,
			Roughness:          0.15,
			Clearcoat:          0.8,
			ClearcoatRoughness: 0.1,
			EnvMapIntensity:    1.2,
		},
		Dial: {
			Color:              hex("#F5C3C8"),
			Metalness:          0.2,
			Roughness:          0.3,
			Clearcoat:          0.9,
			ClearcoatRoughness: 0.05,
			Sheen:              0.5,
			SheenColor:         hex("#FFB6C1"),
			EnvMapIntensity:    0.5,
		},
		WhiteGold: {
			Color:           hex("#F5F5F0"),
			Metalness:       0.98,
			Roughness:       0.02,
			Clearcoat:       1.0,
			EnvMapIntensity: 2.0,
		},
		Gold: {
			Color:           hex("#FFD700"),
			Metalness:       0.8,
			Roughness:       0.2,
			EnvMapIntensity: 1.0,
		},
		Crystal: {
			Color:           white,
			Transmission:    0.95,
			Thickness:       0.5,
			IOR:             1.77,
			Clearcoat:       1.0,
			EnvMapIntensity: 1.0,
		},
		Lens: {
			Color:           white,
			Transmission:    0.98,
			Thickness:       1.0,
			IOR:             1.52,
			Clearcoat:       1.0,
			EnvMapIntensity: 1.0,
		},
		Print: {
			Color:     hex("#000000"),
			Roughness: 1,
			Unlit:     true,
		},
		Luminescent: {
			Color:             hex("#C5E8B7"),
			Roughness:         1,
			Emissive:          hex("#C5E8B7"),
			EmissiveIntensity: 0.2,
			Unlit:             true,
		},
		DateDisc: {
			Color:     white,
			Roughness: 1,
			Unlit:     true,
		},
		SecondHand: {
			Color:           hex("#FF0000"),
			Metalness:       0.5,
			Roughness:       0.3,
			EnvMapIntensity: 1.0,
		},
	}
}
