package anim

import (
	"testing"

	"github.com/taigrr/glray/pkg/math3d"
)

func TestDollyConverges(t *testing.T) {
	from := math3d.V3(0, 0, 0)
	to := math3d.V3(1, 2, -3)
	d := NewDolly(30, DefaultFrequency, DefaultDamping, from, to)

	for range 300 {
		d.Step()
	}
	if !d.Settled(1e-3) {
		t.Errorf("not settled after 10s: position %v", d.Position())
	}
}

func TestDollyCriticallyDampedNoOvershoot(t *testing.T) {
	d := NewDolly(60, DefaultFrequency, DefaultDamping, math3d.V3(0, 0, 0), math3d.V3(0, 0, -10))

	prev := 0.0
	for i := range 240 {
		z := d.Step().Z
		if z < -10-1e-9 {
			t.Fatalf("frame %d overshot: z = %f", i, z)
		}
		if z > prev+1e-12 {
			t.Fatalf("frame %d moved backwards: %f after %f", i, z, prev)
		}
		prev = z
	}
}

func TestDollyRetarget(t *testing.T) {
	d := NewDolly(30, DefaultFrequency, DefaultDamping, math3d.V3(0, 0, 0), math3d.V3(5, 0, 0))
	for range 5 {
		d.Step()
	}
	d.SetTarget(math3d.V3(-5, 0, 0))
	for range 300 {
		d.Step()
	}
	if !d.Position().ApproxEqual(math3d.V3(-5, 0, 0), 1e-3) {
		t.Errorf("position = %v, want (-5, 0, 0)", d.Position())
	}
}

func TestPath(t *testing.T) {
	from := math3d.V3(0, 0, 2)
	to := math3d.V3(0, 0, -2)

	tests := []struct {
		frames int
		want   int
	}{
		{0, 0},
		{1, 1},
		{24, 24},
	}
	for _, tt := range tests {
		got := Path(from, to, tt.frames, 24)
		if len(got) != tt.want {
			t.Errorf("Path(%d frames) returned %d positions", tt.frames, len(got))
			continue
		}
		if len(got) > 0 && got[0] != from {
			t.Errorf("first position = %v, want %v", got[0], from)
		}
	}

	long := Path(from, to, 240, 24)
	if last := long[len(long)-1]; !last.ApproxEqual(to, 1e-3) {
		t.Errorf("last position = %v, want %v", last, to)
	}
}
