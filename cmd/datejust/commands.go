package main

import (
	"context"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"text/tabwriter"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/charmbracelet/x/ansi"

	"github.com/taigrr/datejust/internal/config"
	"github.com/taigrr/datejust/pkg/control"
	"github.com/taigrr/datejust/pkg/material"
	"github.com/taigrr/datejust/pkg/models"
	"github.com/taigrr/datejust/pkg/render"
	"github.com/taigrr/datejust/pkg/scene"
	"github.com/taigrr/datejust/pkg/stage"
	"github.com/taigrr/datejust/pkg/viewer"
	"github.com/taigrr/datejust/pkg/watch"
)

// build assembles the watch, composes the stage and applies the configured
// presets.
func (a *app) build() (*stage.Stage, *control.Controller, error) {
	opts, err := a.cfg.PartOptions()
	if err != nil {
		return nil, nil, err
	}
	reg, err := material.NewRegistry()
	if err != nil {
		return nil, nil, fmt.Errorf("material registry: %w", err)
	}
	start := time.Now()
	m, err := watch.AssembleWith(reg, opts)
	if err != nil {
		return nil, nil, err
	}
	st := m.Stats()
	a.log.Debug("assembled watch",
		"detail", opts.Detail, "nodes", st.Nodes, "primitives", st.Primitives,
		"took", time.Since(start))

	s := stage.Compose(m, a.cfg.BackgroundColor())
	c := control.New(m, s, a.cfg.ControlOptions())
	if err := c.SetLightingPreset(a.cfg.Lighting); err != nil {
		return nil, nil, err
	}
	if err := c.SetEnvironmentIntensity(a.cfg.Environment); err != nil {
		return nil, nil, err
	}
	if a.cfg.Camera != "" {
		if err := c.SetCameraPreset(a.cfg.Camera); err != nil {
			return nil, nil, err
		}
	}
	return s, c, nil
}

func (a *app) runView(ctx context.Context) error {
	s, c, err := a.build()
	if err != nil {
		return err
	}

	term := uv.DefaultTerminal()
	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	defer a.restoreTerminal(os.Stdout, term)
	term.EnterAltScreen()
	term.HideCursor()
	// Any-event mouse tracking with SGR coordinates
	fmt.Fprint(os.Stdout, ansi.SetModeMouseAnyEvent+ansi.SetModeMouseExtSgr)
	if err := term.Resize(width, height); err != nil {
		return fmt.Errorf("resize terminal: %w", err)
	}

	live, err := a.watchConfig(ctx)
	if err != nil {
		return err
	}
	canvas := render.NewSceneRenderer(width, height*2)
	d := viewer.New(s, c, canvas, viewer.Options{
		FPS:       a.cfg.FPS,
		HUD:       a.cfg.HUD,
		Wireframe: a.cfg.Wireframe,
		Logger:    a.log,
		Live:      live,
	})
	return d.Run(ctx, term, width, height)
}

// screen is the part of *uv.Terminal the viewer sets up and tears down.
type screen interface {
	ExitAltScreen()
	ShowCursor()
	Shutdown(ctx context.Context) error
}

// restoreTerminal leaves the alt screen, disables mouse tracking and returns
// the terminal to cooked mode.
func (a *app) restoreTerminal(out io.Writer, term screen) {
	fmt.Fprint(out, ansi.ResetModeMouseAnyEvent+ansi.ResetModeMouseExtSgr)
	term.ExitAltScreen()
	term.ShowCursor()
	if err := term.Shutdown(context.Background()); err != nil {
		a.log.Warn("terminal shutdown", "err", err)
	}
}

// watchConfig follows the config file when --watch is set. Reloaded files
// get the same flag overrides as at startup.
func (a *app) watchConfig(ctx context.Context) (<-chan viewer.Live, error) {
	if !a.watch || a.configPath == "" {
		return nil, nil
	}
	updates, err := config.Watch(ctx, a.configPath, func(err error) {
		a.log.Warn("config reload", "err", err)
	})
	if err != nil {
		return nil, err
	}
	live := make(chan viewer.Live)
	go func() {
		defer close(live)
		for cfg := range updates {
			cfg = a.overrides(a.cmd, cfg)
			if err := cfg.Validate(); err != nil {
				a.log.Warn("config reload", "err", err)
				continue
			}
			select {
			case live <- liveSettings(cfg):
			case <-ctx.Done():
				return
			}
		}
	}()
	a.log.Info("watching config", "path", a.configPath)
	return live, nil
}

func liveSettings(c config.Config) viewer.Live {
	return viewer.Live{
		Lighting:    c.Lighting,
		Environment: c.Environment,
		Camera:      c.Camera,
		Wireframe:   c.Wireframe,
		HUD:         c.HUD,
	}
}

func (a *app) runSnapshot(path string, width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("snapshot size %dx%d: %w", width, height, control.ErrInvalidParameter)
	}
	s, c, err := a.build()
	if err != nil {
		return err
	}
	if a.cfg.TimeAnimation {
		now := time.Now()
		midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		c.Tick(now.Sub(midnight))
	}
	if err := render.Snapshot(s, width, height, path); err != nil {
		return err
	}
	a.log.Info("wrote snapshot", "path", path, "width", width, "height", height)
	return nil
}

func (a *app) runExport(path string) error {
	s, _, err := a.build()
	if err != nil {
		return err
	}
	if err := models.Export(s.Model.Root, models.NewCache(), path); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	a.log.Info("exported", "path", path)
	return nil
}

func (a *app) runInspect(out io.Writer) error {
	s, _, err := a.build()
	if err != nil {
		return err
	}
	m := s.Model
	mesh, err := models.NewCache().Bake(m.Root)
	if err != nil {
		return fmt.Errorf("tessellate: %w", err)
	}
	st := m.Stats()

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Detail:\t%s\n", a.cfg.Detail)
	fmt.Fprintf(w, "Date:\t%d\n", a.cfg.Date)
	fmt.Fprintf(w, "Nodes:\t%d\n", st.Nodes)
	fmt.Fprintf(w, "Primitives:\t%d\n", st.Primitives)
	fmt.Fprintf(w, "Vertices:\t%d\n", mesh.VertexCount())
	fmt.Fprintf(w, "Triangles:\t%d\n", mesh.TriangleCount())
	fmt.Fprintf(w, "Materials:\t%d\n", mesh.MaterialCount())
	size := mesh.Size()
	fmt.Fprintf(w, "Bounds:\t%.2f x %.2f x %.2f\n", size.X, size.Y, size.Z)

	fmt.Fprintln(w, "\nSub-assembly\tNodes\tPrimitives")
	for _, n := range []*scene.Node{m.Case, m.Dial, m.Hands, m.Bracelet, m.Crystal} {
		sub := scene.Count(n)
		fmt.Fprintf(w, "%s\t%d\t%d\n", n.Name(), sub.Nodes, sub.Primitives)
	}

	fmt.Fprintln(w, "\nShape\tCount")
	for _, k := range slices.Sorted(maps.Keys(st.ByKind)) {
		fmt.Fprintf(w, "%s\t%d\n", k, st.ByKind[k])
	}

	reg, err := material.NewRegistry()
	if err != nil {
		return fmt.Errorf("material registry: %w", err)
	}
	fmt.Fprintln(w, "\nMaterial\tUses\tColor\tMetal\tRough\tEnv")
	for _, role := range material.Roles() {
		d, err := reg.Get(role)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%.2f\t%.2f\t%.2f\n",
			role, st.ByRole[role], d.Spec().Color.Hex(), d.Metalness(), d.Roughness(), d.EnvMapIntensity())
	}
	return w.Flush()
}

// runInspectFile summarizes a GLB written by export.
func runInspectFile(out io.Writer, path string) error {
	mesh, err := models.LoadGLB(path)
	if err != nil {
		return fmt.Errorf("load model: %w", err)
	}
	mesh.CalculateBounds()
	size := mesh.Size()

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "File:\t%s\n", path)
	fmt.Fprintf(w, "Vertices:\t%d\n", mesh.VertexCount())
	fmt.Fprintf(w, "Triangles:\t%d\n", mesh.TriangleCount())
	fmt.Fprintf(w, "Bounds:\t%.2f x %.2f x %.2f\n", size.X, size.Y, size.Z)
	fmt.Fprintln(w, "\nMaterial\tColor\tMetal\tRough\tTexture")
	for i := range mesh.MaterialCount() {
		m := mesh.GetMaterial(i)
		fmt.Fprintf(w, "%s\t%.2f %.2f %.2f\t%.2f\t%.2f\t%t\n",
			m.Name, m.BaseColor[0], m.BaseColor[1], m.BaseColor[2], m.Metallic, m.Roughness, m.HasTexture)
	}
	return w.Flush()
}
