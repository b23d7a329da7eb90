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
		topY := row * 2
		botY := topY + 1

		for col := area.Min.X; col < area.Max.X && col < r.Width; col++ {
			topColor := r.GetPixel(col, topY)
			botColor := r.GetPixel(col, botY)

			cell := &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: rgbaToColor(topColor),
					Bg: rgbaToColor(botColor),
				},
			}
			scr.SetCell(col, row, cell)
		}
	}
}

// TerminalRenderer presents a framebuffer on a terminal screen, two pixel
// rows per cell, with optional text lines on top.
type TerminalRenderer struct {
	scr    uv.Screen
	cols   int
	rows   int
	textBg color.RGBA
}

// NewTerminalRenderer creates a presenter for a cols x rows screen.
func NewTerminalRenderer(scr uv.Screen, cols, rows int) *TerminalRenderer {
	return &TerminalRenderer{
		scr:    scr,
		cols:   cols,
		rows:   rows,
		textBg: RGBA(0, 0, 0, 255),
	}
}

// FramebufferSize returns the framebuffer dimensions matching the screen.
func (t *TerminalRenderer) FramebufferSize() (int, int) {
	return t.cols, t.rows * 2
}

// Render draws fb over the whole screen.
func (t *TerminalRenderer) Render(fb *Framebuffer) {
	fb.Draw(t.scr, uv.Rect(0, 0, t.cols, t.rows))
}

// Flush displays everything drawn since the last flush when the screen
// supports it.
func (t *TerminalRenderer) Flush() error {
	if d, ok := t.scr.(interface{ Display() error }); ok {
		return d.Display()
	}
	return nil
}

// DrawText writes a single line of text at (col, row). Text past the right
// edge is cut.
func (t *TerminalRenderer) DrawText(col, row int, text string, fg color.RGBA) {
	if row < 0 || row >= t.rows {
		return
	}
	for _, r := range text {
		if col >= t.cols {
			return
		}
		if col >= 0 {
			t.scr.SetCell(col, row, &uv.Cell{
				Content: string(r),
				Width:   1,
				Style:   uv.Style{Fg: fg, Bg: t.textBg},
			})
		}
		col++
	}
}

// rgbaToColor converts color.RGBA to Go's color.Color interface.
func rgbaToColor(c color.RGBA) color.Color {
	if c.A == 0 {
		return nil // Transparent = no color
	}
	return c
}

// Color is an alias for color.RGBA for convenience.
type Color = color.RGBA

// Colors for convenience
var (
	ColorBlack  = color.RGBA{0, 0, 0, 255}
	ColorWhite  = color.RGBA{255, 255, 255, 255}
	ColorRed    = color.RGBA{255, 0, 0, 255}
	ColorGreen  = color.RGBA{0, 255, 0, 255}
	ColorBlue   = color.RGBA{0, 0, 255, 255}
	ColorYellow = color.RGBA{255, 255, 0, 255}
	ColorCyan   = color.RGBA{0, 255, 255, 255}
	ColorGray   = color.RGBA{128, 128, 128, 255}
)

// RGB creates a color from RGB values.
func RGB(r, g, b uint8) color.RGBA {
	return color.RGBA{r, g, b, 255}
}

// RGBA creates a color from RGBA values.
func RGBA(r, g, b, a uint8) color.RGBA {
	return color.RGBA{r, g, b, a}
}
