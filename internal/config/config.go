// Package config loads viewer settings from a YAML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"github.com/taigrr/datejust/pkg/control"
	"github.com/taigrr/datejust/pkg/parts"
)

// ErrInvalidConfig is returned when a setting is out of range.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds everything the commands can be told from a file or flags.
type Config struct {
	Detail        string  `yaml:"detail"`
	FPS           int     `yaml:"fps"`
	Background    string  `yaml:"background"` // #rrggbb
	Lighting      string  `yaml:"lighting"`
	Camera        string  `yaml:"camera,omitempty"` // Empty keeps the opening pose
	Environment   float64 `yaml:"environment"`      // 0-100
	Date          int     `yaml:"date"`
	Rotate        bool    `yaml:"rotate"`
	TimeAnimation bool    `yaml:"time_animation"`
	EaseExplode   bool    `yaml:"ease_explode"`
	Wireframe     bool    `yaml:"wireframe"`
	HUD           bool    `yaml:"hud"`
}

// Default returns the opening settings: high detail, studio lighting, full
// reflections and the 28th in the date window.
func Default() Config {
	return Config{
		Detail:      parts.DetailHigh.String(),
		FPS:         30,
		Background:  "#1a1a24",
		Lighting:    "studio",
		Environment: 100,
		Date:        28,
		Rotate:      true,
	}
}

// Load reads path on top of Default. An empty path returns Default.
func Load(path string) (Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("read config: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return c, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return c, fmt.Errorf("config %s: %w", path, err)
	}
	return c, nil
}

// Encode writes c to w as YAML.
func Encode(w io.Writer, c Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return enc.Close()
}

// Save writes c to path as YAML, creating the directory if needed.
func Save(path string, c Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	var buf bytes.Buffer
	if err := Encode(&buf, c); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	return nil
}

// Validate reports the first setting that is out of range.
func (c Config) Validate() error {
	if _, err := parts.ParseDetail(c.Detail); err != nil {
		return fmt.Errorf("%w: detail %q", ErrInvalidConfig, c.Detail)
	}
	if c.FPS < 1 || c.FPS > 240 {
		return fmt.Errorf("%w: fps %d not in 1-240", ErrInvalidConfig, c.FPS)
	}
	if _, err := colorful.Hex(c.Background); err != nil {
		return fmt.Errorf("%w: background %q", ErrInvalidConfig, c.Background)
	}
	if !slices.Contains(control.LightingPresets(), c.Lighting) {
		return fmt.Errorf("%w: lighting %q", ErrInvalidConfig, c.Lighting)
	}
	if c.Camera != "" && !slices.Contains(control.CameraPresets(), c.Camera) {
		return fmt.Errorf("%w: camera %q", ErrInvalidConfig, c.Camera)
	}
	if c.Environment < 0 || c.Environment > 100 {
		return fmt.Errorf("%w: environment %g not in 0-100", ErrInvalidConfig, c.Environment)
	}
	if c.Date < 1 || c.Date > 31 {
		return fmt.Errorf("%w: date %d not in 1-31", ErrInvalidConfig, c.Date)
	}
	return nil
}

// PartOptions returns the builder parameters for the configured detail and date.
func (c Config) PartOptions() (parts.Options, error) {
	d, err := parts.ParseDetail(c.Detail)
	if err != nil {
		return parts.Options{}, fmt.Errorf("%w: detail %q", ErrInvalidConfig, c.Detail)
	}
	o := parts.DefaultOptions(d)
	o.Dial.DateWindow.Day = c.Date
	return o, nil
}

// BackgroundColor returns the parsed background, black if it does not parse.
func (c Config) BackgroundColor() colorful.Color {
	bg, err := colorful.Hex(c.Background)
	if err != nil {
		return colorful.Color{}
	}
	return bg
}

// ControlOptions returns the controller's starting toggles.
func (c Config) ControlOptions() control.Options {
	return control.Options{
		Rotate:        c.Rotate,
		TimeAnimation: c.TimeAnimation,
		EaseExplode:   c.EaseExplode,
		FPS:           c.FPS,
	}
}
