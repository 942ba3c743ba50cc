// Package orbit implements damped orbit controls around a camera target.
package orbit

import (
	"math"

	"github.com/charmbracelet/harmonica"

	"github.com/taigrr/datejust/pkg/math3d"
	"github.com/taigrr/datejust/pkg/stage"
)

// Distance limits and the polar margin that keeps the camera off the poles.
const (
	MinDistance = 3.0
	MaxDistance = 15.0
	polarMargin = 0.01
)

// Controls turns drag and zoom input into camera motion that coasts to a
// stop. Panning is not supported; the target only changes through Sync.
type Controls struct {
	target   math3d.Vec3
	azimuth  float64 // Around +Y, 0 looking from +Z
	polar    float64 // From +Y, π/2 on the horizon
	distance float64

	// Angular and zoom velocities, in radians and units per frame.
	velAzimuth, velPolar, velZoom float64
	accAzimuth, accPolar, accZoom float64
	damping                       harmonica.Spring
}

// New creates controls starting from cam's pose, updated fps times a second.
func New(cam stage.Camera, fps int) *Controls {
	if fps <= 0 {
		fps = 60
	}
	c := &Controls{damping: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0)}
	c.Sync(cam)
	return c
}

// Sync adopts cam's pose, dropping any motion in progress. Call it after
// the camera was moved by something other than the controls.
func (c *Controls) Sync(cam stage.Camera) {
	c.target = cam.Target
	offset := cam.Position.Sub(cam.Target)
	c.distance = offset.Len()
	if c.distance > 0 {
		c.polar = math.Acos(math.Max(-1, math.Min(1, offset.Y/c.distance)))
		c.azimuth = math.Atan2(offset.X, offset.Z)
	}
	c.velAzimuth, c.velPolar, c.velZoom = 0, 0, 0
	c.accAzimuth, c.accPolar, c.accZoom = 0, 0, 0
}

// Rotate adds angular velocity: positive dAzimuth swings the camera to the
// right around the target, positive dPolar lowers it.
func (c *Controls) Rotate(dAzimuth, dPolar float64) {
	c.velAzimuth += dAzimuth
	c.velPolar += dPolar
}

// Zoom adds radial velocity; positive moves the camera away.
func (c *Controls) Zoom(delta float64) {
	c.velZoom += delta
}

// Moving reports whether the controls still have velocity to apply.
func (c *Controls) Moving() bool {
	const eps = 1e-5
	return math.Abs(c.velAzimuth) > eps || math.Abs(c.velPolar) > eps || math.Abs(c.velZoom) > eps
}

// Distance returns the current camera distance from the target.
func (c *Controls) Distance() float64 {
	return c.distance
}

// Update advances one frame, writes the pose into cam and reports whether
// the pose changed. The distance is clamped on every update.
func (c *Controls) Update(cam *stage.Camera) bool {
	before := cam.Position

	c.azimuth += c.velAzimuth
	c.polar = math.Max(polarMargin, math.Min(math.Pi-polarMargin, c.polar+c.velPolar))
	c.distance = math.Max(MinDistance, math.Min(MaxDistance, c.distance+c.velZoom))

	// Velocities spring back to rest (harmonica handles timing internally)
	c.velAzimuth, c.accAzimuth = c.damping.Update(c.velAzimuth, c.accAzimuth, 0)
	c.velPolar, c.accPolar = c.damping.Update(c.velPolar, c.accPolar, 0)
	c.velZoom, c.accZoom = c.damping.Update(c.velZoom, c.accZoom, 0)

	sin := math.Sin(c.polar)
	offset := math3d.V3(
		c.distance*sin*math.Sin(c.azimuth),
		c.distance*math.Cos(c.polar),
		c.distance*sin*math.Cos(c.azimuth),
	)
	cam.Position = c.target.Add(offset)
	cam.Target = c.target
	return !cam.Position.ApproxEqual(before, 1e-9)
}
