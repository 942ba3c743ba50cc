package render

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/taigrr/datejust/pkg/material"
	"github.com/taigrr/datejust/pkg/math3d"
	"github.com/taigrr/datejust/pkg/parts"
	"github.com/taigrr/datejust/pkg/stage"
	"github.com/taigrr/datejust/pkg/watch"
)

func testStage(t testing.TB) *stage.Stage {
	t.Helper()
	m, err := watch.Assemble(material.MustRegistry(), parts.DetailStandard)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	return stage.Compose(m, colorful.Color{R: 0.1, G: 0.1, B: 0.12})
}

func luminance(c Color) int {
	return int(c.R) + int(c.G) + int(c.B)
}

func TestShaderLitSideIsBrighter(t *testing.T) {
	d, _ := material.MustRegistry().Get(material.SteelBrushed)
	sh := &Shader{Lights: stage.StudioRig(), Eye: math3d.V3(0, 0, 8), Environment: 1}
	sf := newSurface(d, 1)

	up := sh.Shade(&sf, math3d.V3(0, 0, 0), math3d.V3(0, 1, 0))
	down := sh.Shade(&sf, math3d.V3(0, 0, 0), math3d.V3(0, -1, 0))
	if up.R+up.G+up.B <= down.R+down.G+down.B {
		t.Errorf("upward face %v should be brighter than downward face %v", up, down)
	}
}

func TestShaderUnlitIgnoresLights(t *testing.T) {
	d, _ := material.MustRegistry().Get(material.Print)
	dark := &Shader{Eye: math3d.V3(0, 0, 8)}
	bright := &Shader{Lights: stage.StudioRig(), Eye: math3d.V3(0, 0, 8), Environment: 1}
	sf := newSurface(d, 1)

	a := dark.Shade(&sf, math3d.V3(0, 0, 0), math3d.V3(0, 0, 1))
	b := bright.Shade(&sf, math3d.V3(0, 0, 0), math3d.V3(0, 0, 1))
	if a != b {
		t.Errorf("unlit color changed with lighting: %v vs %v", a, b)
	}
}

func TestShaderEnvironmentScalesReflections(t *testing.T) {
	d, _ := material.MustRegistry().Get(material.WhiteGold)
	sh := &Shader{Eye: math3d.V3(0, 0, 8)}
	off, full := newSurface(d, 0), newSurface(d, 1)

	a := sh.Shade(&off, math3d.V3(0, 0, 0), math3d.V3(0, 0, 1))
	b := sh.Shade(&full, math3d.V3(0, 0, 0), math3d.V3(0, 0, 1))
	if b.R <= a.R {
		t.Errorf("full environment %v should be brighter than none %v", b, a)
	}
}

func TestSpotFactor(t *testing.T) {
	l := stage.Light{Kind: stage.Spot, Position: math3d.V3(0, 5, 0), Angle: 0.5, Penumbra: 0.5}
	if f := spotFactor(l, math3d.V3(0, 1, 0)); f != 1 {
		t.Errorf("on-axis factor = %v, want 1", f)
	}
	if f := spotFactor(l, math3d.V3(1, 0, 0)); f != 0 {
		t.Errorf("outside cone factor = %v, want 0", f)
	}
}

func TestSubmitFrame(t *testing.T) {
	s := testStage(t)
	r := NewSceneRenderer(80, 80)

	if err := r.SubmitFrame(s); err != nil {
		t.Fatalf("SubmitFrame: %v", err)
	}

	stats := r.Stats()
	want := s.Model.Stats().Primitives
	if stats.Primitives != want {
		t.Errorf("primitives = %d, want %d", stats.Primitives, want)
	}
	if stats.Transparent != 2 {
		t.Errorf("transparent = %d, want crystal and lens", stats.Transparent)
	}
	if stats.Triangles == 0 {
		t.Error("no triangles drawn")
	}

	bg := background(s.Background)
	if r.Framebuffer().GetPixel(40, 40) == bg {
		t.Error("center of the frame shows background, want the dial")
	}
	if r.Framebuffer().GetPixel(0, 0) != bg {
		t.Error("corner of the frame should show background")
	}
}

func TestSubmitFrameFollowsStageCamera(t *testing.T) {
	s := testStage(t)
	r := NewSceneRenderer(60, 60)

	s.SetCameraPose(math3d.V3(0, 0, 100), math3d.V3(0, 0, 0))
	if err := r.SubmitFrame(s); err != nil {
		t.Fatal(err)
	}
	far := 0
	for _, c := range r.Framebuffer().Pixels {
		if c != background(s.Background) {
			far++
		}
	}

	s.SetCameraPose(math3d.V3(0, 0, 8), math3d.V3(0, 0, 0))
	if err := r.SubmitFrame(s); err != nil {
		t.Fatal(err)
	}
	near := 0
	for _, c := range r.Framebuffer().Pixels {
		if c != background(s.Background) {
			near++
		}
	}

	if near <= far {
		t.Errorf("close camera covers %d pixels, far camera %d; want more when close", near, far)
	}
}

func TestSubmitFrameCullsOutOfView(t *testing.T) {
	s := testStage(t)
	r := NewSceneRenderer(40, 40)
	s.SetCameraPose(math3d.V3(0, 0, 30), math3d.V3(0, 0, 60))
	if err := r.SubmitFrame(s); err != nil {
		t.Fatalf("SubmitFrame: %v", err)
	}

	stats := r.Stats()
	if stats.Culled != stats.Primitives {
		t.Errorf("culled = %d of %d, want every primitive behind the camera", stats.Culled, stats.Primitives)
	}
	if stats.Triangles != 0 || stats.Transparent != 0 {
		t.Errorf("stats = %+v, want nothing drawn", stats)
	}
	bg := background(s.Background)
	for _, c := range r.Framebuffer().Pixels {
		if c != bg {
			t.Fatalf("pixel %v drawn while looking away", c)
		}
	}

	s.SetCameraPose(math3d.V3(0, 0, 8), math3d.Vec3{})
	if err := r.SubmitFrame(s); err != nil {
		t.Fatalf("SubmitFrame: %v", err)
	}
	if got := r.Stats(); got.Culled >= got.Primitives {
		t.Errorf("culled = %d of %d facing the watch", got.Culled, got.Primitives)
	}
}

func TestLightIntensityChangesFrame(t *testing.T) {
	s := testStage(t)
	r := NewSceneRenderer(60, 60)

	total := func() int {
		if err := r.SubmitFrame(s); err != nil {
			t.Fatal(err)
		}
		sum := 0
		for _, c := range r.Framebuffer().Pixels {
			sum += luminance(c)
		}
		return sum
	}

	lit := total()
	for i := range s.LightCount() {
		s.SetLightIntensity(i, 0)
	}
	s.SetEnvironment(0)
	if dark := total(); dark >= lit {
		t.Errorf("unlit frame luminance %d should be below lit %d", dark, lit)
	}
}

func TestWireframeMode(t *testing.T) {
	s := testStage(t)
	r := NewSceneRenderer(60, 60)
	r.SetWireframe(true)

	if err := r.SubmitFrame(s); err != nil {
		t.Fatal(err)
	}
	if r.Stats().Triangles != 0 {
		t.Errorf("wireframe frame shaded %d triangles", r.Stats().Triangles)
	}
	if r.Framebuffer().GetPixel(0, 0) != background(s.Background) {
		t.Error("wireframe corner should show background")
	}
}

func TestSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watch.png")
	if err := Snapshot(testStage(t), 48, 32, path); err != nil {
		t.Fatalf("Snapshot: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 48 || b.Dy() != 32 {
		t.Errorf("snapshot size = %v, want 48x32", b.Size())
	}
}

// fakeDisplay records presentations of a screen buffer.
type fakeDisplay struct {
	uv.ScreenBuffer
	shown int
}

func (f *fakeDisplay) Display() error {
	f.shown++
	return nil
}

func TestTerminalRenderer(t *testing.T) {
	d := &fakeDisplay{ScreenBuffer: uv.NewScreenBuffer(4, 2)}
	tr := NewTerminalRenderer(d, 4, 2)

	w, h := tr.FramebufferSize()
	if w != 4 || h != 4 {
		t.Fatalf("framebuffer size = %dx%d, want 4x4", w, h)
	}

	fb := NewFramebuffer(w, h)
	fb.SetPixel(1, 2, ColorRed)  // Top half of cell (1, 1)
	fb.SetPixel(1, 3, ColorBlue) // Bottom half
	tr.Render(fb)

	cell := d.CellAt(1, 1)
	if cell == nil || cell.Content != "▀" {
		t.Fatalf("cell = %+v, want a half block", cell)
	}
	if cell.Style.Fg != ColorRed || cell.Style.Bg != ColorBlue {
		t.Errorf("cell colors = %v/%v, want red over blue", cell.Style.Fg, cell.Style.Bg)
	}

	if err := tr.Flush(); err != nil || d.shown != 1 {
		t.Errorf("Flush = %v, shown %d times", err, d.shown)
	}
}
