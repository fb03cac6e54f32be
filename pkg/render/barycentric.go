package render

import (
	"math"

	"github.com/taigrr/glray/pkg/math3d"
)

// Barycentric returns the weights (w, v, u) with P = w*A + v*B + u*C, using
// only the X and Y components of each point. When A, B and C are collinear
// or coincident the weights cannot be computed and (-1, -1, -1) is returned;
// callers must treat that as "outside".
func Barycentric(a, b, c, p math3d.Vec3) (w, v, u float64) {
	cr := math3d.V3(b.X-a.X, c.X-a.X, a.X-p.X).Cross(
		math3d.V3(b.Y-a.Y, c.Y-a.Y, a.Y-p.Y))

	if cr.Z == 0 {
		return -1, -1, -1
	}

	// cr is parallel to (weight of B, weight of C, 1)
	v = cr.X / cr.Z
	u = cr.Y / cr.Z
	w = 1 - (u + v)

	return w, v, u
}

// Triangle fills the triangle with vertices a, b and c given in NDC relative
// to the viewport, with Z as depth. Pixels whose centers fall inside pass a
// strict depth test against the z-buffer before being written through the
// pixel path, so fragments outside the viewport are discarded as well.
func (s *Session) Triangle(a, b, c math3d.Vec3, col Color) {
	var sv [3]math3d.Vec3
	for i, p := range [3]math3d.Vec3{a, b, c} {
		px, py := s.viewport.ToPixel(p.X, p.Y)
		sv[i] = math3d.V3(px, py, p.Z)
	}

	if s.fb.Width == 0 || s.fb.Height == 0 {
		return
	}
	for _, p := range sv {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) {
			return
		}
	}

	// clamp in float64; converting an out-of-range float to int is undefined
	right, top := float64(s.fb.Width-1), float64(s.fb.Height-1)
	minX := int(math.Floor(math3d.Clamp(min(sv[0].X, sv[1].X, sv[2].X), 0, right)))
	maxX := int(math.Ceil(math3d.Clamp(max(sv[0].X, sv[1].X, sv[2].X), 0, right)))
	minY := int(math.Floor(math3d.Clamp(min(sv[0].Y, sv[1].Y, sv[2].Y), 0, top)))
	maxY := int(math.Ceil(math3d.Clamp(max(sv[0].Y, sv[1].Y, sv[2].Y), 0, top)))

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			if !s.viewport.Contains(x, y) {
				continue
			}
			p := math3d.V3(float64(x)+0.5, float64(y)+0.5, 0)
			w, v, u := Barycentric(sv[0], sv[1], sv[2], p)
			if w < 0 || v < 0 || u < 0 {
				continue
			}

			z := w*sv[0].Z + v*sv[1].Z + u*sv[2].Z
			if !s.zb.Test(x, y, z) {
				continue
			}
			s.WritePixel(x, y, col)
		}
	}
}
