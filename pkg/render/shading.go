package render

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/taigrr/datejust/pkg/material"
	"github.com/taigrr/datejust/pkg/math3d"
	"github.com/taigrr/datejust/pkg/stage"
)

// Shader evaluates PBR-lite lighting for the stage's light rig. All colors
// are linear RGB; conversion to sRGB happens when pixels are written.
type Shader struct {
	Lights      []stage.Light
	Eye         math3d.Vec3
	Environment float64 // Multiplier on every material's env map intensity
}

// surface caches the per-material terms of the shading equation.
type surface struct {
	unlit     bool
	diffuse   colorful.Color
	specular  colorful.Color // F0
	shininess float64
	envWeight float64
	clearcoat float64
	coatShine float64
	sheen     colorful.Color
	emissive  colorful.Color
}

func newSurface(d *material.Descriptor, env float64) surface {
	spec := d.Spec()
	r, g, b := spec.Color.Clamped().LinearRgb()
	base := colorful.Color{R: r, G: g, B: b}
	if spec.Unlit {
		return surface{unlit: true, diffuse: base}
	}

	m := d.Metalness()
	dielectric := colorful.Color{R: 0.04, G: 0.04, B: 0.04}
	sr, sg, sb := spec.SheenColor.LinearRgb()
	return surface{
		diffuse:   scaled(base, 1-m),
		specular:  lerp(dielectric, base, m),
		shininess: shininess(d.Roughness()),
		envWeight: d.EnvMapIntensity() * env * (1 - 0.8*d.Roughness()),
		clearcoat: d.Clearcoat(),
		coatShine: shininess(spec.ClearcoatRoughness),
		sheen:     scaled(colorful.Color{R: sr, G: sg, B: sb}, spec.Sheen),
		emissive:  d.EmissiveColor(),
	}
}

// shininess maps perceptual roughness to a Blinn-Phong exponent.
func shininess(roughness float64) float64 {
	a := math.Max(roughness*roughness, 0.02)
	return math.Min(2/(a*a)-2, 2048)
}

// Shade returns the lit color of a surface point with unit normal n.
func (s *Shader) Shade(sf *surface, p, n math3d.Vec3) colorful.Color {
	if sf.unlit {
		return sf.diffuse
	}

	v := s.Eye.Sub(p).Normalize()
	nv := math.Max(n.Dot(v), 0)
	fresnel := math.Pow(1-nv, 5)

	var out colorful.Color
	for _, l := range s.Lights {
		radiance := scaled(lightColor(l), l.Intensity)

		if l.Kind == stage.Ambient {
			out = add(out, mul(sf.diffuse, radiance))
			out = add(out, scaled(mul(sf.specular, radiance), 0.5))
			continue
		}

		var dir math3d.Vec3
		switch l.Kind {
		case stage.Directional:
			dir = l.Position.Normalize()
		case stage.Spot:
			dir = l.Position.Sub(p).Normalize()
			radiance = scaled(radiance, spotFactor(l, dir))
		}
		nl := n.Dot(dir)
		if nl <= 0 {
			continue
		}
		h := dir.Add(v).Normalize()
		nh := math.Max(n.Dot(h), 0)

		// Normalized Blinn-Phong with a Schlick Fresnel term
		f := lerp(sf.specular, colorful.Color{R: 1, G: 1, B: 1}, math.Pow(1-math.Max(dir.Dot(h), 0), 5))
		spec := scaled(f, (sf.shininess+8)/(8*math.Pi)*math.Pow(nh, sf.shininess))
		lit := add(scaled(sf.diffuse, 1/math.Pi), spec)
		if sf.clearcoat > 0 {
			coat := 0.04 * sf.clearcoat * (sf.coatShine + 8) / (8 * math.Pi) * math.Pow(nh, sf.coatShine)
			lit = add(lit, colorful.Color{R: coat, G: coat, B: coat})
		}
		out = add(out, scaled(mul(lit, radiance), nl*math.Pi))
	}

	// Studio environment: bright softbox overhead, dark floor
	r := v.Negate().Sub(n.Scale(2 * v.Negate().Dot(n)))
	sky := 0.15 + 0.85*smoothstep(-0.2, 0.8, r.Y)
	envSpec := lerp(sf.specular, colorful.Color{R: 1, G: 1, B: 1}, fresnel)
	out = add(out, scaled(envSpec, sky*sf.envWeight))
	out = add(out, scaled(sf.diffuse, 0.1*sf.envWeight))

	out = add(out, scaled(sf.sheen, math.Pow(1-nv, 2)))
	return add(out, sf.emissive)
}

func lightColor(l stage.Light) colorful.Color {
	r, g, b := l.Color.LinearRgb()
	return colorful.Color{R: r, G: g, B: b}
}

// spotFactor attenuates a spot light outside its cone. Spots aim at the origin.
func spotFactor(l stage.Light, toLight math3d.Vec3) float64 {
	axis := l.Position.Negate().Normalize()
	cosTheta := toLight.Negate().Dot(axis)
	outer := math.Cos(l.Angle)
	inner := math.Cos(l.Angle * (1 - l.Penumbra))
	return smoothstep(outer, inner, cosTheta)
}

func smoothstep(e0, e1, x float64) float64 {
	if e0 == e1 {
		if x < e0 {
			return 0
		}
		return 1
	}
	t := math.Max(0, math.Min(1, (x-e0)/(e1-e0)))
	return t * t * (3 - 2*t)
}

func add(a, b colorful.Color) colorful.Color {
	return colorful.Color{R: a.R + b.R, G: a.G + b.G, B: a.B + b.B}
}

func mul(a, b colorful.Color) colorful.Color {
	return colorful.Color{R: a.R * b.R, G: a.G * b.G, B: a.B * b.B}
}

func scaled(c colorful.Color, s float64) colorful.Color {
	return colorful.Color{R: c.R * s, G: c.G * s, B: c.B * s}
}

func lerp(a, b colorful.Color, t float64) colorful.Color {
	return colorful.Color{
		R: a.R + (b.R-a.R)*t,
		G: a.G + (b.G-a.G)*t,
		B: a.B + (b.B-a.B)*t,
	}
}

// encode tone maps a linear color and converts it to 8-bit sRGB.
func encode(c colorful.Color, alpha float64) Color {
	tm := func(x float64) float64 { return x / (1 + x) * 1.25 }
	out := colorful.LinearRgb(tm(c.R), tm(c.G), tm(c.B)).Clamped()
	r, g, b := out.RGB255()
	return Color{R: r, G: g, B: b, A: uint8(math.Round(math.Max(0, math.Min(1, alpha)) * 255))}
}
