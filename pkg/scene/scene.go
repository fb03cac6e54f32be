// Package scene provides the ray-intersectable shapes a render.Session
// traces: spheres, planes, disks, triangles and triangle meshes.
package scene

import (
	"math"

	"github.com/taigrr/glray/pkg/math3d"
	"github.com/taigrr/glray/pkg/render"
)

// epsilon rejects self-intersections and grazing hits at the ray origin.
const epsilon = 1e-9

// Material is the surface description shared by all shapes.
type Material = render.Material

// NewMaterial creates a named material with the given diffuse color.
func NewMaterial(name string, diffuse render.Color) *Material {
	return &Material{Name: name, Diffuse: diffuse}
}

// Sphere is a sphere with a single material.
type Sphere struct {
	Center   math3d.Vec3
	Radius   float64
	Material *Material
}

// NewSphere creates a new sphere.
func NewSphere(center math3d.Vec3, radius float64, material *Material) *Sphere {
	return &Sphere{Center: center, Radius: radius, Material: material}
}

// RayIntersect returns the nearest intersection in front of the origin. A ray
// starting inside the sphere hits the far side.
func (s *Sphere) RayIntersect(orig, dir math3d.Vec3) (render.Hit, bool) {
	oc := orig.Sub(s.Center)

	// at² + 2bt + c = 0
	a := dir.Dot(dir)
	halfB := oc.Dot(dir)
	c := oc.Dot(oc) - s.Radius*s.Radius

	disc := halfB*halfB - a*c
	if disc < 0 || a == 0 {
		return render.Hit{}, false
	}
	sqrtD := math.Sqrt(disc)

	t := (-halfB - sqrtD) / a
	if t < 0 {
		t = (-halfB + sqrtD) / a
		if t < 0 {
			return render.Hit{}, false
		}
	}

	p := orig.Add(dir.Scale(t))
	return render.Hit{
		Distance: t,
		Point:    p,
		Normal:   p.Sub(s.Center).Normalize(),
		Material: s.Material,
	}, true
}

// Plane is an infinite plane through Point with the given Normal.
type Plane struct {
	Point    math3d.Vec3
	Normal   math3d.Vec3
	Material *Material
}

// NewPlane creates a plane; the normal is normalized.
func NewPlane(point, normal math3d.Vec3, material *Material) *Plane {
	return &Plane{Point: point, Normal: normal.Normalize(), Material: material}
}

// RayIntersect hits the plane from either side. Rays parallel to the plane miss.
func (p *Plane) RayIntersect(orig, dir math3d.Vec3) (render.Hit, bool) {
	t, ok := planeDistance(p.Point, p.Normal, orig, dir)
	if !ok {
		return render.Hit{}, false
	}
	return render.Hit{
		Distance: t,
		Point:    orig.Add(dir.Scale(t)),
		Normal:   p.Normal,
		Material: p.Material,
	}, true
}

func planeDistance(point, normal, orig, dir math3d.Vec3) (float64, bool) {
	denom := normal.Dot(dir)
	if math.Abs(denom) < epsilon {
		return 0, false
	}
	t := point.Sub(orig).Dot(normal) / denom
	if t < epsilon {
		return 0, false
	}
	return t, true
}

// Disk is the part of a plane within Radius of Center.
type Disk struct {
	Center   math3d.Vec3
	Normal   math3d.Vec3
	Radius   float64
	Material *Material
}

// NewDisk creates a disk; the normal is normalized.
func NewDisk(center, normal math3d.Vec3, radius float64, material *Material) *Disk {
	return &Disk{Center: center, Normal: normal.Normalize(), Radius: radius, Material: material}
}

// RayIntersect hits the disk from either side.
func (d *Disk) RayIntersect(orig, dir math3d.Vec3) (render.Hit, bool) {
	t, ok := planeDistance(d.Center, d.Normal, orig, dir)
	if !ok {
		return render.Hit{}, false
	}
	p := orig.Add(dir.Scale(t))
	if p.Sub(d.Center).LenSq() > d.Radius*d.Radius {
		return render.Hit{}, false
	}
	return render.Hit{Distance: t, Point: p, Normal: d.Normal, Material: d.Material}, true
}
