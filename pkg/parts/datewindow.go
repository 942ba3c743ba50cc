package parts

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/taigrr/datejust/pkg/material"
	"github.com/taigrr/datejust/pkg/math3d"
	"github.com/taigrr/datejust/pkg/scene"
)

// Date label raster size and glyph size in pixels.
const (
	LabelWidth  = 128
	LabelHeight = 96
	labelSize   = 60
)

// DateWindowParams configures the date aperture.
type DateWindowParams struct {
	Day      int // Day of month shown, 1-31
	Position math3d.Vec3
}

// DefaultDateWindowParams shows the 28th at three o'clock.
func DefaultDateWindowParams() DateWindowParams {
	return DateWindowParams{Day: 28, Position: math3d.V3(0.9, dialFace, 0)}
}

// BuildDateWindow builds the window frame and the date disc. The disc carries
// the rasterized day on a descriptor derived from the date disc material.
func BuildDateWindow(mats Materials, p DateWindowParams) (*scene.Node, error) {
	label, err := DateLabel(p.Day)
	if err != nil {
		return nil, err
	}
	disc, err := mats.Get(material.DateDisc)
	if err != nil {
		return nil, fmt.Errorf("date-window: %w", err)
	}
	a := newAssembly(mats, "date-window")
	a.add("frame", scene.Box{Width: 0.2, Height: 0.15, Depth: 0.02}, material.SteelPolished, math3d.IdentityTransform())
	a.addWith("disc", scene.Plane{Width: 0.18, Height: 0.13}, disc.WithTexture(label),
		math3d.At(math3d.V3(0, 0.001, 0)))
	return a.result()
}

// DateLabel renders day as black bold digits centered on a white 128×96 image.
func DateLabel(day int) (*image.RGBA, error) {
	if day < 1 || day > 31 {
		return nil, invalid("date day %d", day)
	}
	f, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse label font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    labelSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("label face: %w", err)
	}
	defer face.Close()

	img := image.NewRGBA(image.Rect(0, 0, LabelWidth, LabelHeight))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	text := fmt.Sprintf("%02d", day)
	d := &font.Drawer{Dst: img, Src: image.Black, Face: face}
	m := face.Metrics()
	x := (fixed.I(LabelWidth) - d.MeasureString(text)) / 2
	y := (fixed.I(LabelHeight) + m.Ascent - m.Descent) / 2
	d.Dot = fixed.Point26_6{X: x, Y: y}
	d.DrawString(text)
	return img, nil
}
