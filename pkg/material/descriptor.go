package material

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

var (
	// ErrUnknownRole is returned when a registry has no descriptor for a role.
	ErrUnknownRole = errors.New("unknown material role")
	// ErrInvalidDescriptor is returned when descriptor parameters are out of range.
	ErrInvalidDescriptor = errors.New("invalid material descriptor")
)

// Spec is the set of parameters a Descriptor is built from.
// Zero values mean "not used" for the optional groups.
type Spec struct {
	Color     colorful.Color // Base color
	Metalness float64        // 0 = dielectric, 1 = metal
	Roughness float64        // 0 = mirror, 1 = diffuse

	Clearcoat          float64
	ClearcoatRoughness float64

	// Transparent media. Transmission > 0 marks the descriptor transparent.
	Transmission float64
	IOR          float64
	Thickness    float64

	Emissive          colorful.Color
	EmissiveIntensity float64

	Sheen      float64
	SheenColor colorful.Color

	EnvMapIntensity float64
	Unlit           bool        // Ignores scene lighting (printing, lume, date disc)
	Texture         image.Image // Optional surface decoration
}

// Descriptor is an immutable appearance description shared by many primitives.
// Its parameters are read through accessors; variants are new descriptors.
type Descriptor struct {
	role Role
	spec Spec
}

// New validates spec and returns a descriptor for role.
func New(role Role, spec Spec) (*Descriptor, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownRole, int(role))
	}
	if err := checkUnit("metalness", spec.Metalness); err != nil {
		return nil, fmt.Errorf("%s: %w", role, err)
	}
	if err := checkUnit("roughness", spec.Roughness); err != nil {
		return nil, fmt.Errorf("%s: %w", role, err)
	}
	if err := checkUnit("transmission", spec.Transmission); err != nil {
		return nil, fmt.Errorf("%s: %w", role, err)
	}
	if spec.Transmission > 0 && spec.IOR < 1 {
		return nil, fmt.Errorf("%s: %w: ior %.2f below 1 for transparent medium", role, ErrInvalidDescriptor, spec.IOR)
	}
	if spec.EnvMapIntensity < 0 {
		return nil, fmt.Errorf("%s: %w: negative env map intensity", role, ErrInvalidDescriptor)
	}
	return &Descriptor{role: role, spec: spec}, nil
}

func checkUnit(name string, v float64) error {
	if v < 0 || v > 1 {
		return fmt.Errorf("%w: %s %.3f outside [0,1]", ErrInvalidDescriptor, name, v)
	}
	return nil
}

// WithTexture returns a new descriptor identical to d but decorated with img.
// d itself is left untouched.
func (d *Descriptor) WithTexture(img image.Image) *Descriptor {
	spec := d.spec
	spec.Texture = img
	return &Descriptor{role: d.role, spec: spec}
}

// Role returns the surface role.
func (d *Descriptor) Role() Role { return d.role }

// Spec returns a copy of the descriptor parameters.
func (d *Descriptor) Spec() Spec { return d.spec }

// BaseColor returns the base color as 8-bit RGBA.
// Transparent media carry their transmission in the alpha channel.
func (d *Descriptor) BaseColor() color.RGBA {
	r, g, b := d.spec.Color.Clamped().RGB255()
	a := uint8(255 - d.spec.Transmission*255*0.85)
	return color.RGBA{R: r, G: g, B: b, A: a}
}

// EmissiveColor returns the emissive color scaled by its intensity.
func (d *Descriptor) EmissiveColor() colorful.Color {
	e := d.spec.Emissive
	return colorful.Color{
		R: e.R * d.spec.EmissiveIntensity,
		G: e.G * d.spec.EmissiveIntensity,
		B: e.B * d.spec.EmissiveIntensity,
	}
}

func (d *Descriptor) Metalness() float64       { return d.spec.Metalness }
func (d *Descriptor) Roughness() float64       { return d.spec.Roughness }
func (d *Descriptor) Clearcoat() float64       { return d.spec.Clearcoat }
func (d *Descriptor) EnvMapIntensity() float64 { return d.spec.EnvMapIntensity }
func (d *Descriptor) Unlit() bool              { return d.spec.Unlit }
func (d *Descriptor) Texture() image.Image     { return d.spec.Texture }

// Transparent reports whether the descriptor describes a transmissive medium.
func (d *Descriptor) Transparent() bool {
	return d.spec.Transmission > 0
}

func (d *Descriptor) String() string {
	return fmt.Sprintf("%s(%s m=%.2f r=%.2f)", d.role, d.spec.Color.Hex(), d.spec.Metalness, d.spec.Roughness)
}
