package models

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/taigrr/glray/pkg/math3d"
)

const quadOBJ = `# unit quad
mtllib quad.mtl
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vn 0 0 1
usemtl red
f 1//1 2//1 3//1 4//1
`

func TestParseOBJQuad(t *testing.T) {
	mesh, err := ParseOBJ(strings.NewReader(quadOBJ))
	if err != nil {
		t.Fatalf("ParseOBJ: %v", err)
	}

	if mesh.TriangleCount() != 2 {
		t.Fatalf("TriangleCount = %d, want 2", mesh.TriangleCount())
	}
	if mesh.VertexCount() != 4 {
		t.Errorf("VertexCount = %d, want 4", mesh.VertexCount())
	}
	if got := mesh.GetFace(1); got != [3]int{0, 2, 3} {
		t.Errorf("second fan triangle = %v, want [0 2 3]", got)
	}
	if n := mesh.Vertices[0].Normal; n != math3d.V3(0, 0, 1) {
		t.Errorf("normal = %v, want +Z", n)
	}
	if mesh.GetFaceMaterial(0) != 0 || mesh.Materials[0].Name != "red" {
		t.Errorf("face material = %d (%v), want red", mesh.GetFaceMaterial(0), mesh.Materials)
	}
	if !mesh.BoundsMax.ApproxEqual(math3d.V3(1, 1, 0), 1e-12) {
		t.Errorf("BoundsMax = %v", mesh.BoundsMax)
	}
}

func TestParseOBJFaceForms(t *testing.T) {
	src := `v 0 0 0
v 1 0 0
v 0 1 0
vt 0 0
f 1/1 2/1 3/1
f -3 -2 -1
f 1/1/ 2 3
`
	mesh, err := ParseOBJ(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseOBJ: %v", err)
	}
	if mesh.TriangleCount() != 3 {
		t.Fatalf("TriangleCount = %d, want 3", mesh.TriangleCount())
	}
	for i := range 3 {
		if got := mesh.GetFace(i); got != [3]int{0, 1, 2} {
			t.Errorf("face %d = %v, want [0 1 2]", i, got)
		}
		if mesh.GetFaceMaterial(i) != -1 {
			t.Errorf("face %d material = %d, want -1", i, mesh.GetFaceMaterial(i))
		}
	}
}

func TestParseOBJErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"no faces", "v 0 0 0\n", ErrEmptyMesh},
		{"two vertex face", "v 0 0 0\nv 1 0 0\nf 1 2\n", ErrBadFace},
		{"index out of range", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 4\n", ErrBadFace},
		{"zero index", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n", ErrBadFace},
		{"bad vertex", "v 0 zero 0\n", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseOBJ(strings.NewReader(tt.src))
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParseMTL(t *testing.T) {
	src := `newmtl red
Kd 1 0 0
newmtl glass
Kd 0.5 0.5 1
d 0.25
`
	colors, err := ParseMTL(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseMTL: %v", err)
	}
	if got := colors["red"]; got != [4]float64{1, 0, 0, 1} {
		t.Errorf("red = %v", got)
	}
	if got := colors["glass"]; got != [4]float64{0.5, 0.5, 1, 0.25} {
		t.Errorf("glass = %v", got)
	}
}

func TestLoadOBJWithLibrary(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "quad.obj"), []byte(quadOBJ), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "quad.mtl"), []byte("newmtl red\nKd 1 0 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	mesh, err := Load(filepath.Join(dir, "quad.obj"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := mesh.Materials[0].BaseColor; got != [4]float64{1, 0, 0, 1} {
		t.Errorf("base color = %v, want red from quad.mtl", got)
	}
	if mesh.Name != "quad.obj" {
		t.Errorf("Name = %q", mesh.Name)
	}
}

func TestLoadOBJMissingLibrary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quad.obj")
	if err := os.WriteFile(path, []byte(quadOBJ), 0o644); err != nil {
		t.Fatal(err)
	}

	mesh, err := LoadOBJ(path)
	if err != nil {
		t.Fatalf("LoadOBJ: %v", err)
	}
	if got := mesh.Materials[0].BaseColor; got != [4]float64{1, 1, 1, 1} {
		t.Errorf("base color = %v, want white fallback", got)
	}
}
