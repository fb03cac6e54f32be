// Package render implements a small GL-style drawing API over an in-memory
// framebuffer together with a depth-buffered ray tracer that renders into it.
package render

import (
	"image"
	"image/png"
	"os"
)

// Framebuffer is a height x width grid of colors stored row-major.
// Row 0 is the bottom of the image, as in OpenGL: it is the first row written
// to an exported bitmap, which viewers also display at the bottom.
type Framebuffer struct {
	Width  int
	Height int
	Pixels []Color
}

// NewFramebuffer creates a framebuffer filled with c.
func NewFramebuffer(width, height int, c Color) *Framebuffer {
	fb := &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]Color, width*height),
	}
	fb.Fill(c)
	return fb
}

// Fill sets every pixel to c.
func (fb *Framebuffer) Fill(c Color) {
	n := len(fb.Pixels)
	if n == 0 {
		return
	}
	fb.Pixels[0] = c
	for i := 1; i < n; i *= 2 {
		copy(fb.Pixels[i:], fb.Pixels[:i])
	}
}

// InBounds reports whether (x, y) addresses a pixel.
func (fb *Framebuffer) InBounds(x, y int) bool {
	return x >= 0 && x < fb.Width && y >= 0 && y < fb.Height
}

// Set sets the pixel at column x, row y. Out-of-bounds writes are dropped.
func (fb *Framebuffer) Set(x, y int, c Color) {
	if !fb.InBounds(x, y) {
		return
	}
	fb.Pixels[y*fb.Width+x] = c
}

// At returns the color at column x, row y, or transparent black when out of bounds.
func (fb *Framebuffer) At(x, y int) Color {
	if !fb.InBounds(x, y) {
		return Color{}
	}
	return fb.Pixels[y*fb.Width+x]
}

// Row returns the pixels of row y. The slice aliases the framebuffer.
func (fb *Framebuffer) Row(y int) []Color {
	return fb.Pixels[y*fb.Width : (y+1)*fb.Width]
}

// ToImage converts the framebuffer to a standard Go image.RGBA.
// Rows are flipped so row 0 ends up at the bottom of the image.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := range fb.Height {
		for x, c := range fb.Row(y) {
			img.SetRGBA(x, fb.Height-1-y, c)
		}
	}
	return img
}

// SavePNG saves the framebuffer as a PNG file.
func (fb *Framebuffer) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, fb.ToImage()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
