package render

import (
	uv "github.com/charmbracelet/ultraviolet"
)

// Draw paints the framebuffer onto a terminal screen using half-block cells:
// every terminal row shows two framebuffer rows, the upper as foreground of
// "▀" and the lower as background.
//
// Framebuffer row 0 is the bottom of the image (the same convention bitmap
// viewers apply to the exported file), so rows are read from the end.
func (fb *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := fb.Height - 1 - (row-area.Min.Y)*2
		botY := topY - 1
		if topY < 0 {
			break
		}

		for col := area.Min.X; col < area.Max.X && col-area.Min.X < fb.Width; col++ {
			x := col - area.Min.X
			cell := &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: fb.At(x, topY),
				},
			}
			if botY >= 0 {
				cell.Style.Bg = fb.At(x, botY)
			}
			scr.SetCell(col, row, cell)
		}
	}
}

// TerminalSize returns the framebuffer size that fills a cols x rows
// terminal with half-block cells.
func TerminalSize(cols, rows int) (width, height int) {
	return cols, rows * 2
}
