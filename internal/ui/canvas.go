package ui

import (
	"io"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/cellbuf"
)

// canvas composes the base frame and floating blocks (toasts, overlays) in a
// cell buffer so overlays keep the content around them intact.
type canvas struct {
	screen *cellbuf.Screen
	writer *cellbuf.ScreenWriter
	width  int
	height int
}

func newCanvas(width, height int) *canvas {
	width = max(width, 1)
	height = max(height, 1)
	screen := cellbuf.NewScreen(io.Discard, width, height, &cellbuf.ScreenOptions{
		ShowCursor: false,
		AltScreen:  false,
	})
	return &canvas{
		screen: screen,
		writer: cellbuf.NewScreenWriter(screen),
		width:  width,
		height: height,
	}
}

// drawBlock writes content with its top-left corner at x,y, cropping at the
// canvas edge.
func (c *canvas) drawBlock(x, y int, content string) {
	for i, line := range splitLines(content) {
		row := y + i
		if row >= c.height {
			break
		}
		if row < 0 || line == "" {
			continue
		}
		c.writer.PrintCropAt(max(x, 0), row, line, "")
	}
}

// center places block in the middle of the rows between top and bottom
// margins.
func (c *canvas) center(block string, topMargin, bottomMargin int) {
	lines := splitLines(block)
	if len(lines) == 0 {
		return
	}
	h := len(lines)
	w := blockWidth(lines)

	usable := c.height - max(topMargin, 0) - max(bottomMargin, 0)
	y := max(topMargin, 0)
	if usable > h {
		y += (usable - h) / 2
	}
	x := max((c.width-w)/2, 0)
	c.drawBlock(x, y, block)
}

// bottomRight anchors block to the bottom-right corner, keeping padding
// cells free on both sides.
func (c *canvas) bottomRight(block string, padding int) {
	lines := splitLines(block)
	if len(lines) == 0 {
		return
	}
	y := max(c.height-len(lines)-padding, 0)
	x := max(c.width-blockWidth(lines)-padding, 0)
	c.drawBlock(x, y, block)
}

// render returns the composed frame for Bubble Tea.
func (c *canvas) render() string {
	raw := cellbuf.Render(c.screen)
	_ = c.screen.Close()
	return strings.ReplaceAll(raw, "\r\n", "\n")
}

func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	return strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
}

func blockWidth(lines []string) int {
	w := 0
	for _, line := range lines {
		w = max(w, ansi.StringWidth(line))
	}
	return w
}
