package models

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/taigrr/glray/pkg/math3d"
)

// ErrBadFace is returned for a face with too few or unresolvable vertices.
var ErrBadFace = errors.New("invalid face")

// LoadOBJ reads a Wavefront OBJ file. Material libraries named by mtllib
// are resolved relative to the OBJ file; a missing library is not an error.
func LoadOBJ(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj: %w", err)
	}
	defer f.Close()

	mesh, libs, err := parseOBJ(f, filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	for _, lib := range libs {
		colors, err := loadMTL(filepath.Join(filepath.Dir(path), lib))
		if err != nil {
			continue
		}
		for i := range mesh.Materials {
			if c, ok := colors[mesh.Materials[i].Name]; ok {
				mesh.Materials[i].BaseColor = c
			}
		}
	}
	return mesh, nil
}

// ParseOBJ reads OBJ geometry from r. Materials named by usemtl get a white
// base color since no library is loaded.
func ParseOBJ(r io.Reader) (*Mesh, error) {
	mesh, _, err := parseOBJ(r, "obj")
	return mesh, err
}

func parseOBJ(r io.Reader, name string) (*Mesh, []string, error) {
	mesh := NewMesh(name)
	var (
		positions []math3d.Vec3
		normals   []math3d.Vec3
		libs      []string
		material  = -1
		// OBJ indexes positions and normals separately; vertices are
		// deduplicated per (position, normal) pair.
		seen = map[[2]int]int{}
	)

	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "v":
			v, err := parseVec3(fields[1:])
			if err != nil {
				return nil, nil, fmt.Errorf("line %d: vertex: %w", lineNo, err)
			}
			positions = append(positions, v)
		case "vn":
			n, err := parseVec3(fields[1:])
			if err != nil {
				return nil, nil, fmt.Errorf("line %d: normal: %w", lineNo, err)
			}
			normals = append(normals, n)
		case "usemtl":
			if len(fields) > 1 {
				material = mesh.materialIndex(fields[1])
			}
		case "mtllib":
			libs = append(libs, fields[1:]...)
		case "f":
			if len(fields) < 4 {
				return nil, nil, fmt.Errorf("line %d: %w: %d vertices", lineNo, ErrBadFace, len(fields)-1)
			}
			idx := make([]int, 0, len(fields)-1)
			for _, ref := range fields[1:] {
				p, n, err := parseFaceRef(ref, len(positions), len(normals))
				if err != nil {
					return nil, nil, fmt.Errorf("line %d: %w", lineNo, err)
				}
				key := [2]int{p, n}
				vi, ok := seen[key]
				if !ok {
					v := MeshVertex{Position: positions[p]}
					if n >= 0 {
						v.Normal = normals[n]
					}
					vi = len(mesh.Vertices)
					mesh.Vertices = append(mesh.Vertices, v)
					seen[key] = vi
				}
				idx = append(idx, vi)
			}
			// fan triangulation
			for i := 1; i+1 < len(idx); i++ {
				mesh.Faces = append(mesh.Faces, Face{
					V:        [3]int{idx[0], idx[i], idx[i+1]},
					Material: material,
				})
			}
		}
		// vt, o, g, s and the rest carry nothing the tracer uses
	}
	if err := sc.Err(); err != nil {
		return nil, nil, fmt.Errorf("read obj: %w", err)
	}
	if len(mesh.Faces) == 0 {
		return nil, nil, ErrEmptyMesh
	}

	mesh.CalculateBounds()
	return mesh, libs, nil
}

func parseVec3(fields []string) (math3d.Vec3, error) {
	if len(fields) < 3 {
		return math3d.Vec3{}, fmt.Errorf("need 3 components, got %d", len(fields))
	}
	var c [3]float64
	for i := range c {
		f, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return math3d.Vec3{}, err
		}
		c[i] = f
	}
	return math3d.V3(c[0], c[1], c[2]), nil
}

// parseFaceRef parses v, v/vt, v/vt/vn or v//vn into zero-based position
// and normal indices. The normal index is -1 when absent.
func parseFaceRef(ref string, nPos, nNorm int) (int, int, error) {
	parts := strings.Split(ref, "/")
	p, err := resolveIndex(parts[0], nPos)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: position %q: %w", ErrBadFace, ref, err)
	}
	n := -1
	if len(parts) == 3 && parts[2] != "" {
		n, err = resolveIndex(parts[2], nNorm)
		if err != nil {
			return 0, 0, fmt.Errorf("%w: normal %q: %w", ErrBadFace, ref, err)
		}
	}
	return p, n, nil
}

// resolveIndex converts a one-based or negative (relative) OBJ index.
func resolveIndex(s string, count int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	switch {
	case i > 0 && i <= count:
		return i - 1, nil
	case i < 0 && -i <= count:
		return count + i, nil
	default:
		return 0, fmt.Errorf("index %d out of range (%d defined)", i, count)
	}
}

func loadMTL(path string) (map[string][4]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseMTL(f)
}

// ParseMTL reads the diffuse color (Kd) and dissolve (d) of each material
// in an MTL library.
func ParseMTL(r io.Reader) (map[string][4]float64, error) {
	colors := map[string][4]float64{}
	current := ""

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		switch fields[0] {
		case "newmtl":
			if len(fields) > 1 {
				current = fields[1]
				colors[current] = [4]float64{1, 1, 1, 1}
			}
		case "Kd":
			if current == "" {
				continue
			}
			v, err := parseVec3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("material %q: Kd: %w", current, err)
			}
			c := colors[current]
			c[0], c[1], c[2] = v.X, v.Y, v.Z
			colors[current] = c
		case "d":
			if current == "" || len(fields) < 2 {
				continue
			}
			a, err := strconv.ParseFloat(fields[1], 64)
			if err != nil {
				return nil, fmt.Errorf("material %q: d: %w", current, err)
			}
			c := colors[current]
			c[3] = a
			colors[current] = c
		}
	}
	return colors, sc.Err()
}
