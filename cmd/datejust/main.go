// datejust - procedural wristwatch in your terminal
// Renders a Lady-Datejust style watch built from primitives and PBR-lite
// materials, with orbit controls and view presets.
//
// Controls:
//
//	Mouse drag  - Orbit the camera
//	Scroll      - Zoom in/out
//	R           - Toggle auto-rotation
//	T           - Toggle real-time hands
//	E           - Toggle exploded view
//	1/2/3/4     - Camera: dial, case, crown, bracelet
//	0           - Reset view
//	L           - Next lighting preset
//	+/-         - More/fewer reflections
//	W or X      - Toggle wireframe
//	?           - Toggle HUD overlay
//	Q or Esc    - Quit
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/taigrr/datejust/internal/config"
	"github.com/taigrr/datejust/internal/logx"
	"github.com/taigrr/datejust/pkg/viewer"
)

var version = "dev"

// app holds the settings shared by every command.
type app struct {
	configPath string
	logPath    string
	logLevel   string
	watch      bool

	flags config.Config // Flag values; only changed flags override the file
	cfg   config.Config // Effective settings after PersistentPreRunE
	log   *slog.Logger
	logW  io.Closer
	cmd   *cobra.Command // Command being run, for re-applying flag overrides
}

func main() {
	root := newRootCmd()
	if err := fang.Execute(context.Background(), root,
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM),
	); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{flags: config.Default()}

	root := &cobra.Command{
		Use:   "datejust",
		Short: "Procedural wristwatch viewer for the terminal",
		Long:  "datejust builds a Lady-Datejust style watch from primitives and shows it in the terminal.\n\nControls:\n" + controlsHelp(),
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if a.logW != nil {
				return a.logW.Close()
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runView(cmd.Context())
		},
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.configPath, "config", "c", "", "YAML config file")
	pf.StringVar(&a.logPath, "log", "", "Write logs to this file (view logs nowhere by default)")
	pf.StringVar(&a.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	pf.BoolVar(&a.watch, "watch", false, "Reload lighting, camera and display settings when the config file changes")
	pf.StringVar(&a.flags.Detail, "detail", a.flags.Detail, "Geometry detail: high or standard")
	pf.IntVar(&a.flags.FPS, "fps", a.flags.FPS, "Target frames per second")
	pf.StringVar(&a.flags.Background, "bg", a.flags.Background, "Background color (#rrggbb)")
	pf.StringVar(&a.flags.Lighting, "lighting", a.flags.Lighting, "Lighting preset: studio, jewelry, natural")
	pf.StringVar(&a.flags.Camera, "camera", a.flags.Camera, "Camera preset: dial, case, crown, bracelet")
	pf.Float64Var(&a.flags.Environment, "environment", a.flags.Environment, "Reflection intensity, 0-100")
	pf.IntVar(&a.flags.Date, "date", a.flags.Date, "Day shown in the date window")
	pf.BoolVar(&a.flags.Rotate, "rotate", a.flags.Rotate, "Start with auto-rotation")
	pf.BoolVar(&a.flags.TimeAnimation, "time", a.flags.TimeAnimation, "Start with real-time hands")
	pf.BoolVar(&a.flags.EaseExplode, "ease", a.flags.EaseExplode, "Spring into and out of the exploded view")
	pf.BoolVar(&a.flags.Wireframe, "wireframe", a.flags.Wireframe, "Start in wireframe mode")
	pf.BoolVar(&a.flags.HUD, "hud", a.flags.HUD, "Start with the HUD visible")

	root.AddCommand(
		&cobra.Command{
			Use:   "view",
			Short: "Show the watch interactively (default)",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.runView(cmd.Context())
			},
		},
		newSnapshotCmd(a),
		&cobra.Command{
			Use:   "export <watch.glb>",
			Short: "Write the watch as a binary glTF file",
			Args:  cobra.ExactArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				return a.runExport(args[0])
			},
		},
		&cobra.Command{
			Use:   "inspect [watch.glb]",
			Short: "Print the watch's structure and materials, or summarize an exported file",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if len(args) == 1 {
					return runInspectFile(cmd.OutOrStdout(), args[0])
				}
				return a.runInspect(cmd.OutOrStdout())
			},
		},
		&cobra.Command{
			Use:   "config [path]",
			Short: "Print the effective config, or save it to path",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if len(args) == 1 {
					return config.Save(args[0], a.cfg)
				}
				return config.Encode(cmd.OutOrStdout(), a.cfg)
			},
		},
	)
	return root
}

func newSnapshotCmd(a *app) *cobra.Command {
	var width, height int
	cmd := &cobra.Command{
		Use:   "snapshot <out.png>",
		Short: "Render one frame to a PNG file",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return a.runSnapshot(args[0], width, height)
		},
	}
	cmd.Flags().IntVar(&width, "width", 640, "Image width in pixels")
	cmd.Flags().IntVar(&height, "height", 480, "Image height in pixels")
	return cmd
}

// setup loads the config file, applies changed flags on top and opens the log.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cmd = cmd
	a.cfg = a.overrides(cmd, cfg)
	if err := a.cfg.Validate(); err != nil {
		return err
	}

	level, err := logx.ParseLevel(a.logLevel)
	if err != nil {
		return err
	}
	var w io.Writer
	switch {
	case a.logPath != "":
		f, err := os.OpenFile(a.logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log: %w", err)
		}
		w, a.logW = f, f
	case cmd.Name() != "view" && cmd != cmd.Root():
		// The viewer owns stdout and stderr while it runs.
		w = cmd.ErrOrStderr()
	}
	a.log = logx.New(w, level)
	return nil
}

// overrides copies the flags the user set onto cfg.
func (a *app) overrides(cmd *cobra.Command, cfg config.Config) config.Config {
	f := cmd.Flags()
	set := func(name string, apply func()) {
		if f.Changed(name) {
			apply()
		}
	}
	set("detail", func() { cfg.Detail = a.flags.Detail })
	set("fps", func() { cfg.FPS = a.flags.FPS })
	set("bg", func() { cfg.Background = a.flags.Background })
	set("lighting", func() { cfg.Lighting = a.flags.Lighting })
	set("camera", func() { cfg.Camera = a.flags.Camera })
	set("environment", func() { cfg.Environment = a.flags.Environment })
	set("date", func() { cfg.Date = a.flags.Date })
	set("rotate", func() { cfg.Rotate = a.flags.Rotate })
	set("time", func() { cfg.TimeAnimation = a.flags.TimeAnimation })
	set("ease", func() { cfg.EaseExplode = a.flags.EaseExplode })
	set("wireframe", func() { cfg.Wireframe = a.flags.Wireframe })
	set("hud", func() { cfg.HUD = a.flags.HUD })
	return cfg
}

func controlsHelp() string {
	var b strings.Builder
	for _, k := range viewer.Bindings {
		fmt.Fprintf(&b, "  %-12s %s\n", strings.Join(k.Keys, " "), k.Help)
	}
	b.WriteString("  mouse drag   orbit the camera\n")
	b.WriteString("  scroll       zoom in/out\n")
	return b.String()
}
