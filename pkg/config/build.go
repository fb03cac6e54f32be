package config

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"

	"github.com/taigrr/glray/pkg/math3d"
	"github.com/taigrr/glray/pkg/models"
	"github.com/taigrr/glray/pkg/render"
	"github.com/taigrr/glray/pkg/scene"
)

func dirOf(path string) string {
	return filepath.Dir(path)
}

func (s *Scene) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || s.dir == "" {
		return path
	}
	return filepath.Join(s.dir, path)
}

// Files returns the resolved paths of every file the scene reads besides
// itself: the background image and model files.
func (s *Scene) Files() []string {
	var files []string
	if _, _, gen := s.procedural(); s.Background != "" && !gen {
		files = append(files, s.resolve(s.Background))
	}
	for _, o := range s.Objects {
		if o.Type == "model" && o.Path != "" {
			files = append(files, s.resolve(o.Path))
		}
	}
	return files
}

// Build creates a session from the scene: buffers sized and cleared, camera
// placed, background painted and every object added in file order.
func (s *Scene) Build(opts ...render.Option) (*render.Session, error) {
	sess := render.NewSession(s.Width, s.Height, opts...)
	sess.SetFOV(s.FOV)
	sess.SetCameraPosition(vec(s.Camera))

	// A channel out of range keeps the previous color; the session logs it.
	if s.ClearColor != nil {
		c, err := ParseColor(s.ClearColor)
		if err != nil {
			return nil, fmt.Errorf("clear_color: %w", err)
		}
		if err := sess.SetClearColor(c[0], c[1], c[2]); err != nil && !errors.Is(err, render.ErrChannelOutOfRange) {
			return nil, fmt.Errorf("clear_color: %w", err)
		}
	}
	if s.Color != nil {
		c, err := ParseColor(s.Color)
		if err != nil {
			return nil, fmt.Errorf("color: %w", err)
		}
		if err := sess.SetColor(c[0], c[1], c[2]); err != nil && !errors.Is(err, render.ErrChannelOutOfRange) {
			return nil, fmt.Errorf("color: %w", err)
		}
	}
	if len(s.Viewport) == 4 {
		sess.SetViewport(s.Viewport[0], s.Viewport[1], s.Viewport[2], s.Viewport[3])
	}

	if s.Background != "" {
		tex, err := s.loadBackground()
		if err != nil {
			return nil, fmt.Errorf("background: %w", err)
		}
		s.bg = tex
	}
	s.Reset(sess)

	materials, err := s.buildMaterials()
	if err != nil {
		return nil, err
	}

	for i, o := range s.Objects {
		obj, err := s.buildObject(o, materials[o.Material])
		if err != nil {
			return nil, fmt.Errorf("object %d (%s): %w", i, o.Type, err)
		}
		sess.Add(obj)
	}
	return sess, nil
}

// Reset clears the session's buffers and repaints the background, ready for
// another Render. The scene objects and camera are kept.
func (s *Scene) Reset(sess *render.Session) {
	sess.Clear()
	if s.bg != nil {
		sess.Background(s.bg)
	}
}

func (s *Scene) buildMaterials() (map[string]*scene.Material, error) {
	out := make(map[string]*scene.Material, len(s.Materials))
	for _, m := range s.Materials {
		ch, err := ParseColor(m.Diffuse)
		if err != nil {
			return nil, fmt.Errorf("material %q: %w", m.Name, err)
		}
		c, err := render.ColorFromFloat(ch[0], ch[1], ch[2])
		if err != nil {
			return nil, fmt.Errorf("material %q: %w", m.Name, err)
		}
		out[m.Name] = scene.NewMaterial(m.Name, c)
	}
	return out, nil
}

func (s *Scene) buildObject(o Object, mat *scene.Material) (render.Object, error) {
	switch o.Type {
	case "sphere":
		if o.Radius <= 0 {
			return nil, fmt.Errorf("radius must be positive, got %g", o.Radius)
		}
		return scene.NewSphere(vec(o.Center), o.Radius, mat), nil
	case "plane":
		return scene.NewPlane(vec(o.Point), normal(o.Normal), mat), nil
	case "disk":
		if o.Radius <= 0 {
			return nil, fmt.Errorf("radius must be positive, got %g", o.Radius)
		}
		return scene.NewDisk(vec(o.Center), normal(o.Normal), o.Radius, mat), nil
	case "triangle":
		if len(o.Vertices) != 3 {
			return nil, fmt.Errorf("triangle needs 3 vertices, got %d", len(o.Vertices))
		}
		return scene.NewTriangle(vec(o.Vertices[0]), vec(o.Vertices[1]), vec(o.Vertices[2]), mat), nil
	case "model":
		return s.buildModel(o, mat)
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownObject, o.Type)
	}
}

func (s *Scene) buildModel(o Object, mat *scene.Material) (render.Object, error) {
	if o.Path == "" {
		return nil, fmt.Errorf("model needs a path")
	}
	mesh, err := models.Load(s.resolve(o.Path))
	if err != nil {
		return nil, err
	}

	scale := o.Scale
	if scale == 0 {
		scale = 1
	}
	xf := math3d.Translate(vec(o.Position)).
		Mul(math3d.RotateY(o.RotateY * math.Pi / 180)).
		Mul(math3d.RotateX(o.RotateX * math.Pi / 180)).
		Mul(math3d.RotateZ(o.RotateZ * math.Pi / 180)).
		Mul(math3d.ScaleUniform(scale))
	if o.Fit > 0 {
		xf = xf.Mul(mesh.FitTransform(o.Fit))
	}
	mesh.Transform(xf)

	return scene.NewMeshObject(mesh, mat), nil
}

func vec(a [3]float64) math3d.Vec3 {
	return math3d.V3(a[0], a[1], a[2])
}

// normal defaults an unset normal to +Y.
func normal(a [3]float64) math3d.Vec3 {
	if a == [3]float64{} {
		return math3d.V3(0, 1, 0)
	}
	return vec(a)
}
