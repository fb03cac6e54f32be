package render

import (
	"math"

	"github.com/taigrr/glray/pkg/math3d"
)

// DefaultFOV is the vertical field of view, in degrees, of a new camera.
const DefaultFOV = 60.0

// Camera is a pinhole camera that always looks down -Z. It has no rotation.
type Camera struct {
	Position math3d.Vec3
	FOV      float64 // Field of view in degrees
}

// NewCamera creates a camera at the origin with the default field of view.
func NewCamera() Camera {
	return Camera{FOV: DefaultFOV}
}

// RayDirection returns the normalized direction of the primary ray through
// the center of pixel (x, y) in a width x height image.
func (c Camera) RayDirection(x, y, width, height int) math3d.Vec3 {
	// NDC of the pixel center
	px := 2*((float64(x)+0.5)/float64(width)) - 1
	py := 2*((float64(y)+0.5)/float64(height)) - 1

	t := math.Tan(c.FOV * math.Pi / 180 / 2)
	px *= t * float64(width) / float64(height)
	py *= t

	return math3d.V3(px, py, -1).Normalize()
}
