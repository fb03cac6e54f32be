package render

import (
	"math"
	"testing"

	"github.com/taigrr/glray/pkg/math3d"
)

func TestBarycentric(t *testing.T) {
	a := math3d.V3(0, 0, 0)
	b := math3d.V3(1, 0, 0)
	c := math3d.V3(0, 1, 0)

	tests := []struct {
		name    string
		p       math3d.Vec3
		w, v, u float64
	}{
		{"vertex A", a, 1, 0, 0},
		{"vertex B", b, 0, 1, 0},
		{"vertex C", c, 0, 0, 1},
		{"centroid", math3d.V3(1.0/3, 1.0/3, 0), 1.0 / 3, 1.0 / 3, 1.0 / 3},
		{"edge midpoint", math3d.V3(0.5, 0.5, 0), 0, 0.5, 0.5},
		{"z ignored", math3d.V3(0, 0, 42), 1, 0, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w, v, u := Barycentric(a, b, c, tc.p)
			if math.Abs(w-tc.w) > 1e-9 || math.Abs(v-tc.v) > 1e-9 || math.Abs(u-tc.u) > 1e-9 {
				t.Errorf("Barycentric(%v) = (%v, %v, %v), want (%v, %v, %v)", tc.p, w, v, u, tc.w, tc.v, tc.u)
			}
		})
	}

	t.Run("outside triangle", func(t *testing.T) {
		w, v, u := Barycentric(a, b, c, math3d.V3(-1, -1, 0))
		if w >= 0 && v >= 0 && u >= 0 {
			t.Error("point outside triangle should have a negative coordinate")
		}
	})
}

func TestBarycentricRoundTrip(t *testing.T) {
	a := math3d.V3(-3.5, 1, 0)
	b := math3d.V3(4, -2, 0)
	c := math3d.V3(0.5, 6, 0)

	weights := [][3]float64{
		{0.2, 0.3, 0.5},
		{0.7, 0.1, 0.2},
		{1, 0, 0},
		{-0.5, 1, 0.5}, // outside, still affine
	}

	for _, wt := range weights {
		p := a.Scale(wt[0]).Add(b.Scale(wt[1])).Add(c.Scale(wt[2]))
		w, v, u := Barycentric(a, b, c, p)
		if math.Abs(w-wt[0]) > 1e-9 || math.Abs(v-wt[1]) > 1e-9 || math.Abs(u-wt[2]) > 1e-9 {
			t.Errorf("weights %v: got (%v, %v, %v)", wt, w, v, u)
		}
	}
}

func TestBarycentricDegenerate(t *testing.T) {
	tests := []struct {
		name    string
		a, b, c math3d.Vec3
	}{
		{"collinear", math3d.V3(0, 0, 0), math3d.V3(1, 1, 0), math3d.V3(2, 2, 0)},
		{"coincident", math3d.V3(1, 1, 0), math3d.V3(1, 1, 0), math3d.V3(1, 1, 0)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w, v, u := Barycentric(tc.a, tc.b, tc.c, math3d.V3(0.5, 0.5, 0))
			if w != -1 || v != -1 || u != -1 {
				t.Errorf("got (%v, %v, %v), want (-1, -1, -1)", w, v, u)
			}
		})
	}
}

func TestTriangleFill(t *testing.T) {
	s := NewSession(10, 10)
	// Lower-left half of the frame.
	s.Triangle(math3d.V3(-1, -1, 0.5), math3d.V3(1, -1, 0.5), math3d.V3(-1, 1, 0.5), ColorRed)

	if c := s.Framebuffer().At(1, 1); c != ColorRed {
		t.Errorf("inside pixel = %v, want red", c)
	}
	if d := s.ZBuffer().At(1, 1); math.Abs(d-0.5) > 1e-12 {
		t.Errorf("inside depth = %v, want 0.5", d)
	}
	if c := s.Framebuffer().At(8, 8); c != ColorBlack {
		t.Errorf("outside pixel = %v, want black", c)
	}
}

func TestTriangleDepthTest(t *testing.T) {
	s := NewSession(10, 10)
	full := [3]math3d.Vec3{math3d.V3(-1, -1, 0), math3d.V3(3, -1, 0), math3d.V3(-1, 3, 0)}

	at := func(z float64) [3]math3d.Vec3 {
		var tri [3]math3d.Vec3
		for i, p := range full {
			tri[i] = math3d.V3(p.X, p.Y, z)
		}
		return tri
	}

	near := at(1)
	far := at(2)
	s.Triangle(near[0], near[1], near[2], ColorGreen)
	s.Triangle(far[0], far[1], far[2], ColorRed)

	for i, c := range s.Framebuffer().Pixels {
		if c != ColorGreen {
			t.Fatalf("pixel %d = %v, farther triangle must not overwrite", i, c)
		}
	}
}

func TestTriangleDegenerateDrawsNothing(t *testing.T) {
	s := NewSession(8, 8)
	s.Triangle(math3d.V3(-1, -1, 0), math3d.V3(0, 0, 0), math3d.V3(1, 1, 0), ColorRed)
	for i, c := range s.Framebuffer().Pixels {
		if c != ColorBlack {
			t.Fatalf("pixel %d = %v, degenerate triangle should be rejected", i, c)
		}
	}
}

func TestTriangleClippedByViewport(t *testing.T) {
	s := NewSession(10, 10)
	s.SetViewport(0, 0, 5, 5)
	// Covers NDC well past the viewport.
	s.Triangle(math3d.V3(-1, -1, 0), math3d.V3(5, -1, 0), math3d.V3(-1, 5, 0), ColorRed)

	if c := s.Framebuffer().At(4, 4); c != ColorRed {
		t.Errorf("pixel in viewport = %v, want red", c)
	}
	if c := s.Framebuffer().At(6, 1); c != ColorBlack {
		t.Errorf("pixel outside viewport = %v, want black", c)
	}
	if d := s.ZBuffer().At(6, 1); !math.IsInf(d, 1) {
		t.Errorf("depth outside viewport = %v, want +Inf", d)
	}
}

func TestTriangleFarVertex(t *testing.T) {
	s := NewSession(10, 10)
	// The right vertex lies far beyond the frame; the visible part is the
	// lower half, narrowing towards the top-left corner at (0, 5).
	s.Triangle(math3d.V3(-1, -1, 0), math3d.V3(1e30, -1, 0), math3d.V3(-1, 0, 0), ColorRed)

	for _, p := range [][2]int{{0, 0}, {9, 0}, {9, 4}, {0, 4}} {
		if c := s.Framebuffer().At(p[0], p[1]); c != ColorRed {
			t.Errorf("pixel %v = %v, want red", p, c)
		}
	}
	for _, p := range [][2]int{{5, 7}, {9, 9}} {
		if c := s.Framebuffer().At(p[0], p[1]); c != ColorBlack {
			t.Errorf("pixel %v = %v, want black", p, c)
		}
	}

	t.Run("infinite vertex", func(t *testing.T) {
		s := NewSession(10, 10)
		s.Triangle(math3d.V3(-1, -1, 0), math3d.V3(math.Inf(1), -1, 0), math3d.V3(-1, 0, 0), ColorRed)
		if c := s.Framebuffer().At(5, 9); c != ColorBlack {
			t.Errorf("pixel (5, 9) = %v, want black", c)
		}
	})
}
