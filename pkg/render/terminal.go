package render

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// Draw converts the internal framebuffer to terminal cells and draws them on
// the screen.
// The framebuffer height should be 2x the terminal height.
func (r *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	// Each terminal row represents 2 framebuffer rows
	// We use ▀ (upper half block) with fg=top color and bg=bottom color

	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := (row - area.Min.Y) * 2
		botY := topY + 1

		for col := area.Min.X; col < area.Max.X && col-area.Min.X < r.Width; col++ {
			x := col - area.Min.X
			cell := &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: rgbaToColor(r.GetPixel(x, topY)),
					Bg: rgbaToColor(r.GetPixel(x, botY)),
				},
			}
			scr.SetCell(col, row, cell)
		}
	}
}

// rgbaToColor converts color.RGBA to Go's color.Color interface.
func rgbaToColor(c color.RGBA) color.Color {
	if c.A == 0 {
		return nil // Transparent = no color
	}
	return c
}

// Display is a screen that can present what was drawn on it.
// *uv.Terminal satisfies it.
type Display interface {
	uv.Screen
	Display() error
}

// TerminalRenderer presents framebuffers on a terminal, two pixels per cell.
type TerminalRenderer struct {
	screen        Display
	width, height int // In cells
}

// NewTerminalRenderer creates a renderer for a width×height cell screen.
func NewTerminalRenderer(screen Display, width, height int) *TerminalRenderer {
	return &TerminalRenderer{screen: screen, width: width, height: height}
}

// FramebufferSize returns the pixel size that fills the screen.
func (t *TerminalRenderer) FramebufferSize() (width, height int) {
	return t.width, t.height * 2
}

// Render draws fb onto the screen buffer.
func (t *TerminalRenderer) Render(fb *Framebuffer) {
	fb.Draw(t.screen, uv.Rect(0, 0, t.width, t.height))
}

// Text draws a line of text at cell (x, y), clipped to the screen.
func (t *TerminalRenderer) Text(x, y int, s string) {
	if y < 0 || y >= t.height || x >= t.width {
		return
	}
	ss := uv.NewStyledString(s)
	ss.Draw(t.screen, uv.Rect(x, y, min(ss.UnicodeWidth(), t.width-x), 1))
}

// Flush presents the screen buffer on the terminal.
func (t *TerminalRenderer) Flush() error {
	return t.screen.Display()
}

// Color is an alias for color.RGBA for convenience.
type Color = color.RGBA

// Colors for convenience
var (
	ColorBlack = color.RGBA{0, 0, 0, 255}
	ColorWhite = color.RGBA{255, 255, 255, 255}
	ColorRed   = color.RGBA{255, 0, 0, 255}
	ColorGreen = color.RGBA{0, 255, 0, 255}
	ColorBlue  = color.RGBA{0, 0, 255, 255}
)

// RGB creates a color from RGB values.
func RGB(r, g, b uint8) color.RGBA {
	return color.RGBA{r, g, b, 255}
}
