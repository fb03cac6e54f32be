package render

// Viewport is the sub-rectangle of the framebuffer that normalized device
// coordinates map onto. It is not validated against the framebuffer; writes
// that fall outside are dropped when they happen.
type Viewport struct {
	X, Y          int
	Width, Height int
}

// Contains reports whether pixel (x, y) lies inside the viewport.
func (v Viewport) Contains(x, y int) bool {
	return x >= v.X && x < v.X+v.Width && y >= v.Y && y < v.Y+v.Height
}

// ToPixel maps NDC coordinates in [-1, 1] to unrounded pixel coordinates.
func (v Viewport) ToPixel(ndcX, ndcY float64) (px, py float64) {
	px = (ndcX+1)*(float64(v.Width)/2) + float64(v.X)
	py = (ndcY+1)*(float64(v.Height)/2) + float64(v.Y)
	return px, py
}
