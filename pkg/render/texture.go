package render

import (
	"image"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// WrapMode determines how texture coordinates outside [0,1] are handled.
type WrapMode int

const (
	WrapRepeat WrapMode = iota // Tile the texture
	WrapClamp                  // Clamp to edge
)

// FilterMode determines how texture sampling is performed.
type FilterMode int

const (
	FilterNearest  FilterMode = iota // Nearest-neighbor (pixelated)
	FilterBilinear                   // Bilinear interpolation (smooth)
)

// Texel is a linear-light texture sample with coverage.
type Texel struct {
	colorful.Color
	A float64
}

// Texture holds a 2D image in linear light for texture mapping.
type Texture struct {
	Width      int
	Height     int
	Texels     []Texel    // Row-major, top row first
	WrapU      WrapMode   // Horizontal wrap mode
	WrapV      WrapMode   // Vertical wrap mode
	FilterMode FilterMode // Sampling filter mode
}

// NewTexture creates an empty texture with the given dimensions.
func NewTexture(width, height int) *Texture {
	return &Texture{
		Width:      width,
		Height:     height,
		Texels:     make([]Texel, width*height),
		WrapU:      WrapClamp,
		WrapV:      WrapClamp,
		FilterMode: FilterBilinear,
	}
}

// TextureFromImage converts an sRGB image into a linear texture.
func TextureFromImage(img image.Image) *Texture {
	bounds := img.Bounds()
	tex := NewTexture(bounds.Dx(), bounds.Dy())

	for y := range tex.Height {
		for x := range tex.Width {
			px := img.At(bounds.Min.X+x, bounds.Min.Y+y)
			c, ok := colorful.MakeColor(px)
			_, _, _, a := px.RGBA()
			if !ok {
				continue // Fully transparent
			}
			r, g, b := c.LinearRgb()
			tex.Texels[y*tex.Width+x] = Texel{Color: colorful.Color{R: r, G: g, B: b}, A: float64(a) / 0xffff}
		}
	}
	return tex
}

// At returns the texel at (x, y) with bounds checking.
func (t *Texture) At(x, y int) Texel {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return Texel{}
	}
	return t.Texels[y*t.Width+x]
}

// Sample samples the texture at UV coordinates (0-1 range).
func (t *Texture) Sample(u, v float64) Texel {
	u = wrapCoord(u, t.WrapU)
	v = wrapCoord(v, t.WrapV)

	// Image Y=0 is at the top, UV V=0 at the bottom
	v = 1.0 - v

	if t.FilterMode == FilterBilinear {
		return t.sampleBilinear(u, v)
	}
	return t.sampleNearest(u, v)
}

func wrapCoord(coord float64, mode WrapMode) float64 {
	if mode == WrapRepeat {
		return coord - math.Floor(coord)
	}
	return math.Max(0, math.Min(1, coord))
}

func (t *Texture) sampleNearest(u, v float64) Texel {
	x := min(int(u*float64(t.Width)), t.Width-1)
	y := min(int(v*float64(t.Height)), t.Height-1)
	return t.At(x, y)
}

func (t *Texture) sampleBilinear(u, v float64) Texel {
	fx := u*float64(t.Width) - 0.5
	fy := v*float64(t.Height) - 0.5

	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	tx := fx - float64(x0)
	ty := fy - float64(y0)

	x1 := t.wrapPixel(x0+1, t.Width, t.WrapU)
	y1 := t.wrapPixel(y0+1, t.Height, t.WrapV)
	x0 = t.wrapPixel(x0, t.Width, t.WrapU)
	y0 = t.wrapPixel(y0, t.Height, t.WrapV)

	top := lerpTexel(t.At(x0, y0), t.At(x1, y0), tx)
	bot := lerpTexel(t.At(x0, y1), t.At(x1, y1), tx)
	return lerpTexel(top, bot, ty)
}

func (t *Texture) wrapPixel(x, size int, mode WrapMode) int {
	if mode == WrapRepeat {
		x %= size
		if x < 0 {
			x += size
		}
		return x
	}
	return max(0, min(size-1, x))
}

func lerpTexel(a, b Texel, t float64) Texel {
	return Texel{
		Color: colorful.Color{
			R: a.R + (b.R-a.R)*t,
			G: a.G + (b.G-a.G)*t,
			B: a.B + (b.B-a.B)*t,
		},
		A: a.A + (b.A-a.A)*t,
	}
}
