package viewer

import (
	"fmt"
	"strings"
	"time"

	"github.com/taigrr/datejust/pkg/control"
	"github.com/taigrr/datejust/pkg/render"
)

// Status is what the HUD shows about the current frame.
type Status struct {
	State     control.State
	Frame     render.FrameStats
	Wireframe bool
}

// HUD renders an overlay with frame rate, scene counts and toggles.
type HUD struct {
	Visible bool

	fps       float64
	fpsFrames int
	fpsTime   time.Time
}

// NewHUD creates a hidden HUD whose FPS window starts at now.
func NewHUD(now time.Time) *HUD {
	return &HUD{fpsTime: now}
}

// Frame counts one presented frame (call once per frame).
func (h *HUD) Frame(now time.Time) {
	h.fpsFrames++
	elapsed := now.Sub(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = now
	}
}

// FPS returns the frame rate measured over the last full second.
func (h *HUD) FPS() float64 {
	return h.fps
}

// Lines returns the top and bottom HUD rows.
func (h *HUD) Lines(st Status) (top, bottom string) {
	top = fmt.Sprintf(" %.0f FPS  %d parts  %d tris  %d culled ",
		h.fps, st.Frame.Primitives, st.Frame.Triangles, st.Frame.Culled)

	camera := st.State.Camera
	if camera == "" {
		camera = "free"
	}
	bottom = strings.Join([]string{
		check(st.State.Rotating) + " rotate",
		check(st.State.TimeAnimation) + " time",
		check(st.State.Exploded) + " explode",
		check(st.Wireframe) + " wire",
		"light: " + st.State.Lighting,
		"cam: " + camera,
		fmt.Sprintf("env: %.0f", st.State.Environment),
	}, "  ")
	return top, " " + bottom + " "
}

func check(on bool) string {
	if on {
		return "[✓]"
	}
	return "[ ]"
}

// Draw writes the HUD rows over the first and last terminal rows.
func (h *HUD) Draw(tr *render.TerminalRenderer, height int, st Status) {
	if !h.Visible {
		return
	}
	top, bottom := h.Lines(st)
	tr.Text(0, 0, top)
	tr.Text(0, height-1, bottom)
}
