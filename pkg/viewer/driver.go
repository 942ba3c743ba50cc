// Package viewer runs the interactive frame loop: it advances the
// controller and orbit controls, submits the stage and presents it on a
// terminal.
package viewer

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	uv "github.com/charmbracelet/ultraviolet"

	"github.com/taigrr/datejust/pkg/control"
	"github.com/taigrr/datejust/pkg/orbit"
	"github.com/taigrr/datejust/pkg/render"
	"github.com/taigrr/datejust/pkg/stage"
)

// Input tuning.
const (
	EnvironmentStep = 10   // Environment intensity change per key press
	DragSpeed       = 0.01 // Radians of orbit velocity per dragged cell
	ZoomStep        = 0.5  // Orbit velocity per wheel notch
	dragAspect      = 2.0  // Terminal cells are twice as tall as wide
	defaultFPS      = 30
)

// Submitter accepts one composed stage per frame.
type Submitter interface {
	SubmitFrame(s *stage.Stage) error
}

// Canvas is a Submitter whose frames can be read back and resized.
type Canvas interface {
	Submitter
	Resize(width, height int)
	Framebuffer() *render.Framebuffer
}

// wireframer is implemented by canvases that can draw edges only.
type wireframer interface {
	SetWireframe(on bool)
}

// Terminal is the screen the driver presents on. *uv.Terminal satisfies it.
type Terminal interface {
	render.Display
	Events() <-chan uv.Event
	Resize(width, height int) error
	Erase()
}

// Options configures a Driver.
type Options struct {
	FPS       int
	HUD       bool
	Wireframe bool
	Logger    *slog.Logger
	Clock     func() time.Time // Defaults to time.Now
	Live      <-chan Live      // Settings reloaded while running; may be nil
}

// Live holds the settings that can change while the viewer runs.
type Live struct {
	Lighting    string
	Environment float64
	Camera      string // Empty leaves the camera alone
	Wireframe   bool
	HUD         bool
}

// Driver owns the per-frame loop for one watch.
type Driver struct {
	stage      *stage.Stage
	controller *control.Controller
	canvas     Canvas
	orbit      *orbit.Controls
	home       control.Pose
	log        *slog.Logger
	clock      func() time.Time
	fps        int
	live       <-chan Live

	wireframe bool
	hud       *HUD

	dragging bool
	lastX    int
	lastY    int
}

// New creates a driver. The orbit starts from the stage camera's current
// pose; resetting the view returns to the opening camera.
func New(s *stage.Stage, c *control.Controller, canvas Canvas, o Options) *Driver {
	fps := o.FPS
	if fps <= 0 {
		fps = defaultFPS
	}
	log := o.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	clock := o.Clock
	if clock == nil {
		clock = time.Now
	}
	home := stage.DefaultCamera()
	d := &Driver{
		stage:      s,
		controller: c,
		canvas:     canvas,
		orbit:      orbit.New(s.Camera, fps),
		home:       control.Pose{Position: home.Position, Target: home.Target},
		log:        log,
		clock:      clock,
		fps:        fps,
		live:       o.Live,
		hud:        NewHUD(clock()),
	}
	d.hud.Visible = o.HUD
	d.setWireframe(o.Wireframe)
	return d
}

// HUD returns the overlay state.
func (d *Driver) HUD() *HUD {
	return d.hud
}

// Wireframe reports whether edges are drawn instead of surfaces.
func (d *Driver) Wireframe() bool {
	return d.wireframe
}

func (d *Driver) setWireframe(on bool) {
	d.wireframe = on
	if w, ok := d.canvas.(wireframer); ok {
		w.SetWireframe(on)
	}
}

// Apply performs an action and reports whether the viewer should quit.
// Failed actions are logged and leave the state unchanged.
func (d *Driver) Apply(a Action) (quit bool) {
	c := d.controller
	var err error
	switch a {
	case ActionQuit:
		return true
	case ActionRotate:
		c.ToggleRotation()
	case ActionTime:
		c.ToggleTimeAnimation()
	case ActionExplode:
		c.ToggleExplode()
	case ActionCameraDial, ActionCameraCase, ActionCameraCrown, ActionCameraBracelet:
		if err = c.SetCameraPreset(cameraActions[a]); err == nil {
			d.orbit.Sync(d.stage.Camera)
		}
	case ActionLighting:
		err = c.SetLightingPreset(nextLighting(c.State().Lighting))
	case ActionBrighter:
		err = c.SetEnvironmentIntensity(min(100, c.State().Environment+EnvironmentStep))
	case ActionDimmer:
		err = c.SetEnvironmentIntensity(max(0, c.State().Environment-EnvironmentStep))
	case ActionResetView:
		c.ResetView(d.home)
		d.orbit.Sync(d.stage.Camera)
	case ActionWireframe:
		d.setWireframe(!d.wireframe)
	case ActionHUD:
		d.hud.Visible = !d.hud.Visible
	default:
		return false
	}
	if err != nil {
		d.log.Warn("action failed", "action", a, "err", err)
		return false
	}
	d.log.Debug("action", "action", a)
	return false
}

// ApplyLive moves the viewer to reloaded settings. Only settings that differ
// from the current state are touched, so a reload does not snap the camera
// back unless its preset changed.
func (d *Driver) ApplyLive(l Live) error {
	c := d.controller
	st := c.State()
	if l.Lighting != st.Lighting {
		if err := c.SetLightingPreset(l.Lighting); err != nil {
			return err
		}
	}
	if l.Environment != st.Environment {
		if err := c.SetEnvironmentIntensity(l.Environment); err != nil {
			return err
		}
	}
	if l.Camera != "" && l.Camera != st.Camera {
		if err := c.SetCameraPreset(l.Camera); err != nil {
			return err
		}
		d.orbit.Sync(d.stage.Camera)
	}
	if l.Wireframe != d.wireframe {
		d.setWireframe(l.Wireframe)
	}
	d.hud.Visible = l.HUD
	return nil
}

// nextLighting returns the preset after current, wrapping around.
func nextLighting(current string) string {
	names := control.LightingPresets()
	i := slices.Index(names, current)
	return names[(i+1)%len(names)]
}

// HandleEvent applies one input event and reports whether the viewer
// should quit. Dragging orbits the camera and the wheel zooms it.
func (d *Driver) HandleEvent(ev uv.Event) (quit bool) {
	switch ev := ev.(type) {
	case uv.KeyPressEvent:
		return d.Apply(ActionFor(ev))
	case uv.MouseClickEvent:
		if ev.Button == uv.MouseLeft {
			d.dragging = true
			d.lastX, d.lastY = ev.X, ev.Y
		}
	case uv.MouseReleaseEvent:
		d.dragging = false
	case uv.MouseMotionEvent:
		if !d.dragging {
			return false
		}
		dx, dy := ev.X-d.lastX, ev.Y-d.lastY
		d.lastX, d.lastY = ev.X, ev.Y
		d.orbit.Rotate(-float64(dx)*DragSpeed, -float64(dy)*DragSpeed*dragAspect)
		d.controller.ReleaseCamera()
	case uv.MouseWheelEvent:
		switch ev.Button {
		case uv.MouseWheelUp:
			d.orbit.Zoom(-ZoomStep)
		case uv.MouseWheelDown:
			d.orbit.Zoom(ZoomStep)
		default:
			return false
		}
		d.controller.ReleaseCamera()
	}
	return false
}

// Step advances the controller and the orbit by one frame and submits the
// stage. elapsed is the time of day the hands show when time animation is on.
func (d *Driver) Step(elapsed time.Duration) error {
	d.controller.Tick(elapsed)
	d.orbit.Update(&d.stage.Camera)
	if err := d.canvas.SubmitFrame(d.stage); err != nil {
		return fmt.Errorf("render frame: %w", err)
	}
	return nil
}

// sinceMidnight returns the wall-clock time of day.
func (d *Driver) sinceMidnight() time.Duration {
	now := d.clock()
	y, m, day := now.Date()
	return now.Sub(time.Date(y, m, day, 0, 0, 0, 0, now.Location()))
}

// Run drives the frame loop on term until ctx is done or the user quits.
// Input events are applied between frames on the same goroutine.
func (d *Driver) Run(ctx context.Context, term Terminal, width, height int) error {
	tr := render.NewTerminalRenderer(term, width, height)
	d.canvas.Resize(tr.FramebufferSize())
	d.log.Info("viewer started", "cols", width, "rows", height, "fps", d.fps)

	ticker := time.NewTicker(time.Second / time.Duration(d.fps))
	defer ticker.Stop()
	events := term.Events()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if sz, ok := ev.(uv.WindowSizeEvent); ok {
				width, height = sz.Width, sz.Height
				term.Erase()
				if err := term.Resize(width, height); err != nil {
					return fmt.Errorf("resize terminal: %w", err)
				}
				tr = render.NewTerminalRenderer(term, width, height)
				d.canvas.Resize(tr.FramebufferSize())
				d.log.Debug("resized", "cols", width, "rows", height)
				continue
			}
			if d.HandleEvent(ev) {
				d.log.Info("viewer stopped")
				return nil
			}

		case l, ok := <-d.live:
			if !ok {
				d.live = nil
				continue
			}
			if err := d.ApplyLive(l); err != nil {
				d.log.Warn("reload failed", "err", err)
				continue
			}
			d.log.Info("settings reloaded", "lighting", l.Lighting, "environment", l.Environment)

		case <-ticker.C:
			if err := d.Step(d.sinceMidnight()); err != nil {
				return err
			}
			tr.Render(d.canvas.Framebuffer())
			d.hud.Frame(d.clock())
			d.hud.Draw(tr, height, d.status())
			if err := tr.Flush(); err != nil {
				return fmt.Errorf("flush: %w", err)
			}
		}
	}
}

func (d *Driver) status() Status {
	st := Status{State: d.controller.State(), Wireframe: d.wireframe}
	if r, ok := d.canvas.(interface{ Stats() render.FrameStats }); ok {
		st.Frame = r.Stats()
	}
	return st
}
