// Package anim moves the camera between positions with harmonica springs,
// producing one camera position per rendered frame.
package anim

import (
	"github.com/charmbracelet/harmonica"
	"github.com/taigrr/glray/pkg/math3d"
)

// Spring parameters for a smooth move without overshoot.
const (
	DefaultFrequency = 4.0
	DefaultDamping   = 1.0 // critically damped
)

// axis tracks one coordinate and its spring velocity.
type axis struct {
	pos, vel float64
}

// Dolly springs a position toward a target, one step per frame.
type Dolly struct {
	spring  harmonica.Spring
	x, y, z axis
	target  math3d.Vec3
}

// NewDolly creates a dolly at from heading to to. Damping below 1 overshoots.
func NewDolly(fps int, frequency, damping float64, from, to math3d.Vec3) *Dolly {
	return &Dolly{
		spring: harmonica.NewSpring(harmonica.FPS(fps), frequency, damping),
		x:      axis{pos: from.X},
		y:      axis{pos: from.Y},
		z:      axis{pos: from.Z},
		target: to,
	}
}

// Position returns the current position.
func (d *Dolly) Position() math3d.Vec3 {
	return math3d.V3(d.x.pos, d.y.pos, d.z.pos)
}

// Target returns where the dolly is heading.
func (d *Dolly) Target() math3d.Vec3 { return d.target }

// SetTarget retargets the dolly, keeping its current velocity.
func (d *Dolly) SetTarget(to math3d.Vec3) { d.target = to }

// Step advances one frame and returns the new position.
func (d *Dolly) Step() math3d.Vec3 {
	d.x.pos, d.x.vel = d.spring.Update(d.x.pos, d.x.vel, d.target.X)
	d.y.pos, d.y.vel = d.spring.Update(d.y.pos, d.y.vel, d.target.Y)
	d.z.pos, d.z.vel = d.spring.Update(d.z.pos, d.z.vel, d.target.Z)
	return d.Position()
}

// Settled reports whether the dolly is within eps of the target and
// moving slower than eps per second on every axis.
func (d *Dolly) Settled(eps float64) bool {
	if d.Position().Distance(d.target) > eps {
		return false
	}
	return max(abs(d.x.vel), abs(d.y.vel), abs(d.z.vel)) <= eps
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

// Path returns the camera positions for frames frames of a dolly move,
// starting with from itself.
func Path(from, to math3d.Vec3, frames, fps int) []math3d.Vec3 {
	if frames <= 0 {
		return nil
	}
	d := NewDolly(fps, DefaultFrequency, DefaultDamping, from, to)
	out := make([]math3d.Vec3, 0, frames)
	out = append(out, from)
	for len(out) < frames {
		out = append(out, d.Step())
	}
	return out
}
