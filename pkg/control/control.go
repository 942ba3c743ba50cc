// Package control owns the interactive view state of a watch and projects it
// onto the model's transforms once per tick.
package control

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/charmbracelet/harmonica"

	"github.com/taigrr/datejust/pkg/math3d"
	"github.com/taigrr/datejust/pkg/scene"
	"github.com/taigrr/datejust/pkg/watch"
)

var (
	// ErrUnknownPreset is returned for camera or lighting preset names that do not exist.
	ErrUnknownPreset = errors.New("unknown preset")
	// ErrInvalidParameter is returned for out-of-range settings.
	ErrInvalidParameter = errors.New("invalid parameter")
)

// Per-tick steps and explode geometry.
const (
	YawStep         = 0.005 // Model yaw per tick while rotating
	SweepStep       = 0.01  // Second hand advance per tick
	ExplodeDistance = 0.5
)

// Hand rates in radians per second; negative turns clockwise seen from the dial.
const (
	HourRate   = -2 * math.Pi / 43200
	MinuteRate = -2 * math.Pi / 3600
	SecondRate = -2 * math.Pi / 60
)

// Renderer receives the changes the controller makes outside the model.
type Renderer interface {
	SetCameraPose(position, target math3d.Vec3)
	SetLightIntensity(i int, intensity float64)
	SetEnvironment(multiplier float64)
	LightCount() int
}

// Options configures a Controller.
type Options struct {
	Rotate        bool // Start with auto-rotation on
	TimeAnimation bool // Start with real-time hands on
	EaseExplode   bool // Spring into and out of the exploded view
	FPS           int  // Tick rate the explode spring is tuned for
}

// State is a snapshot of the controller's view state.
type State struct {
	Rotating      bool
	TimeAnimation bool
	Exploded      bool
	Lighting      string
	Camera        string // Empty when the camera was moved freely
	Environment   float64
	Yaw           float64
}

// Controller drives a single watch. It is not safe for concurrent use: the
// viewer calls actions and Tick from one goroutine.
type Controller struct {
	model    *watch.Model
	renderer Renderer

	rotating    bool
	timeAnim    bool
	exploded    bool
	lighting    string
	camera      string
	environment float64

	yaw    float64
	second float64 // Second hand angle carried between ticks

	// Explode progress, 0 at rest and 1 fully exploded.
	ease     bool
	spring   harmonica.Spring
	progress float64
	velocity float64
}

// New creates a controller for m that reports view changes to r.
func New(m *watch.Model, r Renderer, o Options) *Controller {
	fps := o.FPS
	if fps <= 0 {
		fps = 60
	}
	c := &Controller{
		model:       m,
		renderer:    r,
		rotating:    o.Rotate,
		timeAnim:    o.TimeAnimation,
		ease:        o.EaseExplode,
		spring:      harmonica.NewSpring(harmonica.FPS(fps), 6.0, 0.8),
		lighting:    "studio",
		environment: 100,
		second:      m.Rest(m.HandSet.Second).Rotation.Z,
	}
	return c
}

// State returns the current view state.
func (c *Controller) State() State {
	return State{
		Rotating:      c.rotating,
		TimeAnimation: c.timeAnim,
		Exploded:      c.exploded,
		Lighting:      c.lighting,
		Camera:        c.camera,
		Environment:   c.environment,
		Yaw:           c.yaw,
	}
}

// ToggleRotation flips auto-rotation.
func (c *Controller) ToggleRotation() {
	c.rotating = !c.rotating
}

// ToggleTimeAnimation flips real-time hand animation.
func (c *Controller) ToggleTimeAnimation() {
	c.timeAnim = !c.timeAnim
}

// ToggleExplode flips the exploded view. Without easing the offsets apply
// immediately; with easing the next ticks spring toward them.
func (c *Controller) ToggleExplode() {
	c.exploded = !c.exploded
	if !c.ease {
		c.progress, c.velocity = c.explodeTarget(), 0
		c.applyExplode()
	}
}

func (c *Controller) explodeTarget() float64 {
	if c.exploded {
		return 1
	}
	return 0
}

// SetCameraPreset moves the camera to a named pose. Unknown names change nothing.
func (c *Controller) SetCameraPreset(name string) error {
	p, ok := cameraPresets[name]
	if !ok {
		return fmt.Errorf("camera %q: %w", name, ErrUnknownPreset)
	}
	c.camera = name
	c.renderer.SetCameraPose(p.Position, p.Target)
	return nil
}

// ResetView returns the camera to its opening pose.
func (c *Controller) ResetView(home Pose) {
	c.camera = ""
	c.renderer.SetCameraPose(home.Position, home.Target)
}

// ReleaseCamera records that the camera left its preset pose.
func (c *Controller) ReleaseCamera() {
	c.camera = ""
}

// SetLightingPreset sets every non-ambient light from a named preset.
func (c *Controller) SetLightingPreset(name string) error {
	intensity, ok := lightingPresets[name]
	if !ok {
		return fmt.Errorf("lighting %q: %w", name, ErrUnknownPreset)
	}
	c.lighting = name
	for i := range c.renderer.LightCount() {
		c.renderer.SetLightIntensity(i, intensity(i))
	}
	return nil
}

// SetEnvironmentIntensity sets the reflection strength from 0 to 100. The
// multiplier replaces the previous one rather than compounding it.
func (c *Controller) SetEnvironmentIntensity(v float64) error {
	if v < 0 || v > 100 || math.IsNaN(v) {
		return fmt.Errorf("environment intensity %g: %w", v, ErrInvalidParameter)
	}
	c.environment = v
	c.renderer.SetEnvironment(v / 100)
	return nil
}

// Tick advances one frame. elapsed is the wall-clock time the hands should
// show when time animation is on.
func (c *Controller) Tick(elapsed time.Duration) {
	m := c.model
	if c.rotating {
		c.yaw += YawStep
	}
	rootRest := m.Rest(m.Root)
	m.Root.SetRotation(math3d.E(rootRest.Rotation.X, rootRest.Rotation.Y+c.yaw, rootRest.Rotation.Z))

	c.second -= SweepStep
	if c.timeAnim {
		s := elapsed.Seconds()
		setHand(m, m.HandSet.Hour, HourRate*s)
		setHand(m, m.HandSet.Minute, MinuteRate*s)
		c.second = SecondRate * s
	}
	setHand(m, m.HandSet.Second, c.second)

	if c.ease {
		c.progress, c.velocity = c.spring.Update(c.progress, c.velocity, c.explodeTarget())
		c.applyExplode()
	}
}

func setHand(m *watch.Model, hand *scene.Node, angle float64) {
	r := m.Rest(hand).Rotation
	hand.SetRotation(math3d.E(r.X, r.Y, angle))
}

// explodeOffsets are the Y offsets at full explode, in units of ExplodeDistance.
func explodeOffsets(m *watch.Model) map[*scene.Node]float64 {
	return map[*scene.Node]float64{
		m.Case:     -1,
		m.Dial:     0.5,
		m.Hands:    1,
		m.Bracelet: -1.5,
	}
}

func (c *Controller) applyExplode() {
	for n, k := range explodeOffsets(c.model) {
		rest := c.model.Rest(n)
		n.SetPosition(rest.Position.Add(math3d.V3(0, k*ExplodeDistance*c.progress, 0)))
	}
}
