package render

import "math"

// ZBuffer holds, per pixel, the distance of the nearest surface accepted so
// far. Cells start at +Inf so the first hit always passes the depth test, and
// a stored depth only ever decreases.
type ZBuffer struct {
	Width  int
	Height int
	Depth  []float64
}

// NewZBuffer creates a depth buffer with every cell at +Inf.
func NewZBuffer(width, height int) *ZBuffer {
	zb := &ZBuffer{
		Width:  width,
		Height: height,
		Depth:  make([]float64, width*height),
	}
	zb.Reset()
	return zb
}

// Reset sets every cell back to +Inf.
func (zb *ZBuffer) Reset() {
	n := len(zb.Depth)
	if n == 0 {
		return
	}
	// copy-doubling is noticeably faster than a plain loop on large buffers
	zb.Depth[0] = math.Inf(1)
	for i := 1; i < n; i *= 2 {
		copy(zb.Depth[i:], zb.Depth[:i])
	}
}

// At returns the depth stored at (x, y), or +Inf when out of bounds.
func (zb *ZBuffer) At(x, y int) float64 {
	if x < 0 || x >= zb.Width || y < 0 || y >= zb.Height {
		return math.Inf(1)
	}
	return zb.Depth[y*zb.Width+x]
}

// Test stores d at (x, y) and reports true when d is strictly nearer than the
// current value. Ties keep the existing value.
func (zb *ZBuffer) Test(x, y int, d float64) bool {
	if x < 0 || x >= zb.Width || y < 0 || y >= zb.Height {
		return false
	}
	i := y*zb.Width + x
	if d < zb.Depth[i] {
		zb.Depth[i] = d
		return true
	}
	return false
}
