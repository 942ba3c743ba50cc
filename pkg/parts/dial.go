package parts

import (
	"fmt"
	"math"
	"slices"

	"github.com/taigrr/datejust/pkg/material"
	"github.com/taigrr/datejust/pkg/math3d"
	"github.com/taigrr/datejust/pkg/scene"
)

// dialFace is the height of everything printed or applied on the dial.
const dialFace = 0.27

// NumeralParams places the Roman numerals.
type NumeralParams struct {
	Radius     float64
	Simplified bool // One bar per numeral instead of stroke geometry
}

// MarkerParams places the diamond hour markers.
type MarkerParams struct {
	Hours  []int // Hour positions (1-12) that carry a diamond
	Radius float64
	Size   float64 // Octahedron radius
}

// MinuteTrackParams places the printed minute track.
type MinuteTrackParams struct {
	Markers   int     // Total markers around the dial
	HourEvery int     // Every HourEvery-th marker uses hour dimensions
	Radius    float64 // Distance from the center
}

// DialParams shapes the dial and everything applied to it.
type DialParams struct {
	Radius      float64
	Segments    int
	Numerals    NumeralParams
	Markers     MarkerParams
	DateWindow  DateWindowParams
	MinuteTrack MinuteTrackParams
}

// DefaultDialParams returns the reference dial layout.
func DefaultDialParams() DialParams {
	return DialParams{
		Radius:   1.3,
		Segments: 128,
		Numerals: NumeralParams{Radius: 0.9},
		Markers: MarkerParams{
			Hours:  []int{1, 2, 4, 5, 7, 8, 10, 11},
			Radius: 0.9,
			Size:   0.03,
		},
		DateWindow:  DefaultDateWindowParams(),
		MinuteTrack: MinuteTrackParams{Markers: 60, HourEvery: 5, Radius: 1.15},
	}
}

// BuildDial builds the dial disc with numerals, diamond markers, date window,
// branding and minute track.
func BuildDial(mats Materials, p DialParams) (*scene.Node, error) {
	if p.Radius <= 0 {
		return nil, invalid("dial radius %g", p.Radius)
	}
	a := newAssembly(mats, "dial")
	a.add("face", scene.Circle{Radius: p.Radius, Segments: p.Segments}, material.Dial,
		math3d.At(math3d.V3(0, 0.26, 0)))

	numerals, err := BuildNumerals(mats, p.Numerals)
	a.attach(numerals, err, math3d.IdentityTransform())

	markers, err := BuildMarkers(mats, p.Markers)
	a.attach(markers, err, math3d.IdentityTransform())

	date, err := BuildDateWindow(mats, p.DateWindow)
	a.attach(date, err, math3d.At(p.DateWindow.Position))

	branding, err := BuildBranding(mats)
	a.attach(branding, err, math3d.IdentityTransform())

	track, err := BuildMinuteTrack(mats, p.MinuteTrack)
	a.attach(track, err, math3d.IdentityTransform())
	return a.result()
}

// numeral describes one Roman numeral on the dial.
type numeral struct {
	name  string
	angle float64
	scale float64
}

var numerals = []numeral{
	{"XII", math.Pi / 2, 1.2},
	{"VI", -math.Pi / 2, 1},
	{"IX", math.Pi, 1},
}

// stroke is one bar of a numeral, offset along the numeral's width and
// optionally slanted.
type stroke struct {
	x     float64
	slant float64
}

// numeralStrokes spells each numeral as I and slanted V/X strokes.
var numeralStrokes = map[string][]stroke{
	"XII": {{-0.06, math.Pi / 6}, {-0.02, math.Pi / 6}, {0.02, 0}, {0.06, 0}},
	"VI":  {{-0.05, math.Pi / 10}, {-0.01, -math.Pi / 10}, {0.05, 0}},
	"IX":  {{-0.05, 0}, {0.03, math.Pi / 6}, {0.03, -math.Pi / 6}},
}

// BuildNumerals builds XII, VI and IX. Each numeral is its own node turned to
// face outward.
func BuildNumerals(mats Materials, p NumeralParams) (*scene.Node, error) {
	if p.Radius <= 0 {
		return nil, invalid("numeral radius %g", p.Radius)
	}
	a := newAssembly(mats, "numerals")
	for _, n := range numerals {
		width := 0.02 * n.scale
		height := 0.15 * n.scale
		g := newAssembly(mats, n.name)
		if p.Simplified {
			g.add("bar", scene.Box{Width: width * 2, Height: height, Depth: 0.01},
				material.SteelPolished, math3d.IdentityTransform())
		} else {
			for i, s := range numeralStrokes[n.name] {
				t := math3d.At(math3d.V3(s.x*n.scale, 0, 0)).Rotated(math3d.E(0, 0, s.slant))
				g.add(fmt.Sprintf("stroke-%d", i), scene.Box{Width: width, Height: height, Depth: 0.01},
					material.SteelPolished, t)
			}
		}
		node, err := g.result()
		a.attach(node, err, math3d.At(ringPosition(n.angle, p.Radius, dialFace)).Rotated(facingOutward(n.angle)))
	}
	return a.result()
}

// BuildMarkers builds one diamond octahedron per listed hour.
func BuildMarkers(mats Materials, p MarkerParams) (*scene.Node, error) {
	if p.Radius <= 0 || p.Size <= 0 {
		return nil, invalid("marker radius %g size %g", p.Radius, p.Size)
	}
	seen := make(map[int]bool, len(p.Hours))
	for _, h := range p.Hours {
		if h < 1 || h > 12 || seen[h] {
			return nil, invalid("marker hour %d", h)
		}
		seen[h] = true
	}
	hours := slices.Clone(p.Hours)
	slices.Sort(hours)

	a := newAssembly(mats, "markers")
	for _, h := range hours {
		angle := float64(h)/12*2*math.Pi - math.Pi/2
		t := math3d.At(ringPosition(angle, p.Radius, dialFace)).Rotated(math3d.E(math.Pi/4, 0, math.Pi/4))
		a.add(fmt.Sprintf("diamond-%02d", h), scene.Octahedron{Radius: p.Size}, material.SteelPolished, t)
	}
	return a.result()
}

// printLine is one thin printed line of the dial text block.
type printLine struct {
	name          string
	width, height float64
	z             float64
}

var printLines = []printLine{
	{"crown-text", 0.3, 0.02, -0.5},
	{"maker", 0.4, 0.015, -0.35},
	{"model", 0.25, 0.015, -0.25},
	{"swiss-made", 0.5, 0.01, 0.45},
}

// BuildBranding builds the printed text block as flat boxes.
func BuildBranding(mats Materials) (*scene.Node, error) {
	a := newAssembly(mats, "branding")
	for _, l := range printLines {
		a.add(l.name, scene.Box{Width: l.width, Height: l.height, Depth: 0.001}, material.Print,
			math3d.At(math3d.V3(0, dialFace, l.z)))
	}
	return a.result()
}

// BuildMinuteTrack builds the printed track. Marker i sits at angle
// i/Markers·2π − π/2; every HourEvery-th marker is longer and wider.
func BuildMinuteTrack(mats Materials, p MinuteTrackParams) (*scene.Node, error) {
	if p.Markers < 1 || p.HourEvery < 1 {
		return nil, invalid("minute track markers %d hour every %d", p.Markers, p.HourEvery)
	}
	if p.Radius <= 0 {
		return nil, invalid("minute track radius %g", p.Radius)
	}
	hourMark := scene.Box{Width: 0.02, Height: 0.06, Depth: 0.001}
	minuteMark := scene.Box{Width: 0.01, Height: 0.03, Depth: 0.001}

	a := newAssembly(mats, "minute-track")
	for i := range p.Markers {
		angle := float64(i)/float64(p.Markers)*2*math.Pi - math.Pi/2
		shape := minuteMark
		if i%p.HourEvery == 0 {
			shape = hourMark
		}
		t := math3d.At(ringPosition(angle, p.Radius, dialFace)).Rotated(facingOutward(angle))
		a.add(fmt.Sprintf("mark-%02d", i), shape, material.Print, t)
	}
	return a.result()
}
