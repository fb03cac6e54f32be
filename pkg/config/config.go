// Package config reads TOML scene descriptions and turns them into a ready
// render.Session.
//
// A scene file looks like:
//
//	width = 200
//	height = 100
//	clear_color = "#101018"
//	camera = [0.0, 0.0, 0.0]
//	background = "gradient:#000010:#303060"
//	background_filter = "bilinear"
//
//	[[materials]]
//	name = "ivory"
//	diffuse = [0.4, 0.4, 0.3]
//
//	[[objects]]
//	type = "sphere"
//	center = [0.0, 0.0, -5.0]
//	radius = 1.0
//	material = "ivory"
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/taigrr/glray/pkg/render"
)

// Defaults applied to fields a scene file leaves out.
const (
	DefaultWidth  = 100
	DefaultHeight = 100
	DefaultFOV    = 60.0
)

var (
	// ErrUnknownObject is returned for an object type Build cannot create.
	ErrUnknownObject = errors.New("unknown object type")
	// ErrUnknownMaterial is returned when an object names an undefined material.
	ErrUnknownMaterial = errors.New("unknown material")
	// ErrBadColor is returned for a color that is neither hex nor a 3-float array.
	ErrBadColor = errors.New("invalid color")
	// ErrBadBackground is returned for a malformed procedural background.
	ErrBadBackground = errors.New("invalid background")
)

// Scene is the decoded form of a scene file.
type Scene struct {
	Width      int        `toml:"width"`
	Height     int        `toml:"height"`
	FOV        float64    `toml:"fov"`
	Camera     [3]float64 `toml:"camera"`
	Viewport   []int      `toml:"viewport"` // x, y, width, height
	Color      any        `toml:"color"`
	ClearColor any        `toml:"clear_color"`
	Background string     `toml:"background"` // image path, or "checker:SIZE:C1:C2" / "gradient:BOTTOM:TOP"

	BackgroundFilter string `toml:"background_filter"` // nearest (default) or bilinear
	BackgroundWrap   string `toml:"background_wrap"`   // repeat (default) or clamp

	Materials []Material `toml:"materials"`
	Objects   []Object   `toml:"objects"`

	// dir resolves relative paths; set by Load.
	dir string
	bg  *render.Texture
}

// Material names a diffuse color.
type Material struct {
	Name    string `toml:"name"`
	Diffuse any    `toml:"diffuse"`
}

// Object describes one scene shape. Which fields apply depends on Type.
type Object struct {
	Type     string `toml:"type"` // sphere, plane, disk, triangle or model
	Material string `toml:"material"`

	// sphere, disk
	Center [3]float64 `toml:"center"`
	Radius float64    `toml:"radius"`

	// plane, disk
	Point  [3]float64 `toml:"point"`
	Normal [3]float64 `toml:"normal"`

	// triangle
	Vertices [][3]float64 `toml:"vertices"`

	// model
	Path     string     `toml:"path"`
	Position [3]float64 `toml:"position"`
	Scale    float64    `toml:"scale"`
	RotateX  float64    `toml:"rotate_x"` // degrees, applied after rotate_z
	RotateY  float64    `toml:"rotate_y"` // degrees, applied last
	RotateZ  float64    `toml:"rotate_z"` // degrees, applied first
	Fit      float64    `toml:"fit"`      // largest dimension after centering; 0 keeps the file's size
}

// Load reads and decodes a scene file. Relative paths inside it resolve
// against the file's directory.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	s, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	s.dir = dirOf(path)
	return s, nil
}

// Decode reads a scene from r. Unknown keys are an error.
func Decode(r io.Reader) (*Scene, error) {
	var s Scene
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, fmt.Errorf("decode scene: %s", strict.String())
		}
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	s.applyDefaults()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Scene) applyDefaults() {
	if s.Width == 0 {
		s.Width = DefaultWidth
	}
	if s.Height == 0 {
		s.Height = DefaultHeight
	}
	if s.FOV == 0 {
		s.FOV = DefaultFOV
	}
}

// Validate checks sizes and that every material reference resolves.
func (s *Scene) Validate() error {
	if s.Width < 0 || s.Height < 0 {
		return fmt.Errorf("invalid size %dx%d", s.Width, s.Height)
	}
	if s.FOV <= 0 || s.FOV >= 180 {
		return fmt.Errorf("fov %g out of range (0, 180)", s.FOV)
	}
	if len(s.Viewport) != 0 && len(s.Viewport) != 4 {
		return fmt.Errorf("viewport needs 4 values, got %d", len(s.Viewport))
	}
	if _, ok := filterModes[s.BackgroundFilter]; !ok {
		return fmt.Errorf("unknown background_filter %q", s.BackgroundFilter)
	}
	if _, ok := wrapModes[s.BackgroundWrap]; !ok {
		return fmt.Errorf("unknown background_wrap %q", s.BackgroundWrap)
	}

	names := make(map[string]bool, len(s.Materials))
	for _, m := range s.Materials {
		if m.Name == "" {
			return errors.New("material without a name")
		}
		names[m.Name] = true
	}
	for i, o := range s.Objects {
		if o.Material != "" && !names[o.Material] {
			return fmt.Errorf("object %d (%s): %w %q", i, o.Type, ErrUnknownMaterial, o.Material)
		}
	}
	return nil
}
