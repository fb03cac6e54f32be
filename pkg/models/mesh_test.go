package models

import (
	"testing"

	"github.com/taigrr/glray/pkg/math3d"
)

// TestFaceMaterialIndex verifies per-face material assignment.
func TestFaceMaterialIndex(t *testing.T) {
	mesh := NewMesh("test")

	mesh.Materials = []Material{
		{Name: "red", BaseColor: [4]float64{1, 0, 0, 1}},
		{Name: "green", BaseColor: [4]float64{0, 1, 0, 1}},
	}
	mesh.Faces = []Face{
		{V: [3]int{0, 1, 2}, Material: 0},
		{V: [3]int{3, 4, 5}, Material: 1},
		{V: [3]int{6, 7, 8}, Material: -1},
	}

	if mesh.GetFaceMaterial(1) != 1 {
		t.Errorf("Face 1 should have material 1, got %d", mesh.GetFaceMaterial(1))
	}
	if mesh.GetFaceMaterial(2) != -1 {
		t.Errorf("Face 2 should have material -1, got %d", mesh.GetFaceMaterial(2))
	}
	if mat := mesh.GetMaterial(0); mat == nil || mat.Name != "red" {
		t.Errorf("GetMaterial(0) should return 'red' material")
	}
	if mesh.GetMaterial(-1) != nil {
		t.Errorf("GetMaterial(-1) should return nil")
	}
	if mesh.GetMaterial(99) != nil {
		t.Errorf("GetMaterial(99) should return nil for out-of-bounds")
	}
}

func TestMaterialIndexReuses(t *testing.T) {
	mesh := NewMesh("test")
	a := mesh.materialIndex("steel")
	b := mesh.materialIndex("brass")
	c := mesh.materialIndex("steel")

	if a != c || a == b {
		t.Errorf("indices = %d, %d, %d; want first and third equal", a, b, c)
	}
	if got := mesh.Materials[b].BaseColor; got != [4]float64{1, 1, 1, 1} {
		t.Errorf("new material color = %v, want white", got)
	}
}

func TestFitTransform(t *testing.T) {
	mesh := NewMesh("box")
	mesh.Vertices = []MeshVertex{
		{Position: math3d.V3(2, 2, 2)},
		{Position: math3d.V3(6, 4, 3)},
	}
	mesh.CalculateBounds()

	mesh.Transform(mesh.FitTransform(2))

	if !mesh.Center().ApproxEqual(math3d.Zero3(), 1e-9) {
		t.Errorf("center = %v, want origin", mesh.Center())
	}
	if got := mesh.Size().X; got < 2-1e-9 || got > 2+1e-9 {
		t.Errorf("largest dimension = %f, want 2", got)
	}
	if got := mesh.Size().Y; got < 1-1e-9 || got > 1+1e-9 {
		t.Errorf("Y dimension = %f, want 1", got)
	}
}

func TestLoadUnsupportedExtension(t *testing.T) {
	if _, err := Load("teapot.stl"); err == nil {
		t.Error("expected error for .stl")
	}
}
