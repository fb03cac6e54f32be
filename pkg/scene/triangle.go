package scene

import (
	"math"

	"github.com/taigrr/glray/pkg/math3d"
	"github.com/taigrr/glray/pkg/models"
	"github.com/taigrr/glray/pkg/render"
)

// Triangle is a double-sided triangle.
type Triangle struct {
	V0, V1, V2 math3d.Vec3
	Material   *Material
}

// NewTriangle creates a new triangle.
func NewTriangle(v0, v1, v2 math3d.Vec3, material *Material) *Triangle {
	return &Triangle{V0: v0, V1: v1, V2: v2, Material: material}
}

// RayIntersect uses the Möller–Trumbore test.
func (t *Triangle) RayIntersect(orig, dir math3d.Vec3) (render.Hit, bool) {
	d, ok := intersectTriangle(t.V0, t.V1, t.V2, orig, dir)
	if !ok {
		return render.Hit{}, false
	}
	return render.Hit{
		Distance: d,
		Point:    orig.Add(dir.Scale(d)),
		Normal:   t.V1.Sub(t.V0).Cross(t.V2.Sub(t.V0)).Normalize(),
		Material: t.Material,
	}, true
}

func intersectTriangle(v0, v1, v2, orig, dir math3d.Vec3) (float64, bool) {
	e1 := v1.Sub(v0)
	e2 := v2.Sub(v0)

	p := dir.Cross(e2)
	det := e1.Dot(p)
	if math.Abs(det) < epsilon {
		return 0, false
	}
	inv := 1 / det

	s := orig.Sub(v0)
	u := s.Dot(p) * inv
	if u < 0 || u > 1 {
		return 0, false
	}

	q := s.Cross(e1)
	v := dir.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return 0, false
	}

	d := e2.Dot(q) * inv
	if d < epsilon {
		return 0, false
	}
	return d, true
}

// MeshObject traces a loaded triangle mesh. Faces carry their own material;
// faces without one use Default.
type MeshObject struct {
	Mesh      *models.Mesh
	Materials []*Material
	Default   *Material

	// bounding sphere, rays that miss it skip the face scan
	center math3d.Vec3
	radius float64
}

// NewMeshObject wraps a mesh, converting its materials' base colors to
// diffuse colors. The mesh must not be transformed afterwards.
func NewMeshObject(mesh *models.Mesh, def *Material) *MeshObject {
	mesh.CalculateBounds()
	obj := &MeshObject{
		Mesh:    mesh,
		Default: def,
		center:  mesh.Center(),
		radius:  mesh.Size().Len()/2 + epsilon,
	}
	for _, m := range mesh.Materials {
		obj.Materials = append(obj.Materials, NewMaterial(m.Name, baseColor(m.BaseColor)))
	}
	return obj
}

func baseColor(c [4]float64) render.Color {
	ch := func(v float64) uint8 {
		return uint8(math.Round(255 * math3d.Clamp(v, 0, 1)))
	}
	return render.RGB(ch(c[0]), ch(c[1]), ch(c[2]))
}

// RayIntersect tests every face and returns the nearest hit. On equal
// distances the earlier face wins.
func (m *MeshObject) RayIntersect(orig, dir math3d.Vec3) (render.Hit, bool) {
	if !m.mayHit(orig, dir) {
		return render.Hit{}, false
	}

	best := math.Inf(1)
	bestFace := -1

	for i := range m.Mesh.TriangleCount() {
		f := m.Mesh.GetFace(i)
		d, ok := intersectTriangle(
			m.Mesh.Vertices[f[0]].Position,
			m.Mesh.Vertices[f[1]].Position,
			m.Mesh.Vertices[f[2]].Position,
			orig, dir)
		if ok && d < best {
			best = d
			bestFace = i
		}
	}
	if bestFace < 0 {
		return render.Hit{}, false
	}

	f := m.Mesh.GetFace(bestFace)
	v0 := m.Mesh.Vertices[f[0]].Position
	normal := m.Mesh.Vertices[f[1]].Position.Sub(v0).Cross(m.Mesh.Vertices[f[2]].Position.Sub(v0)).Normalize()

	mat := m.Default
	if idx := m.Mesh.GetFaceMaterial(bestFace); idx >= 0 && idx < len(m.Materials) {
		mat = m.Materials[idx]
	}

	return render.Hit{
		Distance: best,
		Point:    orig.Add(dir.Scale(best)),
		Normal:   normal,
		Material: mat,
	}, true
}

// mayHit reports whether the ray passes through the bounding sphere.
func (m *MeshObject) mayHit(orig, dir math3d.Vec3) bool {
	oc := orig.Sub(m.center)
	c := oc.Dot(oc) - m.radius*m.radius
	if c <= 0 {
		return true // origin inside
	}
	halfB := oc.Dot(dir)
	if halfB > 0 {
		return false // sphere behind the origin
	}
	return halfB*halfB-dir.Dot(dir)*c >= 0
}
