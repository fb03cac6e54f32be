package render

import (
	"io"
	"math"
	"runtime"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/taigrr/glray/pkg/math3d"
)

// Session owns the state of one rendering context: framebuffer, depth
// buffer, viewport, drawing colors, camera and scene. A Session is not safe
// for concurrent use; Render parallelizes internally.
type Session struct {
	id      uuid.UUID
	log     *log.Logger
	workers int

	fb       *Framebuffer
	zb       *ZBuffer
	viewport Viewport

	current Color
	clear   Color

	camera Camera
	scene  []Object

	stats RenderStats
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger used for warnings and render statistics.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// WithWorkers sets how many goroutines Render uses. Values below 1 select
// runtime.NumCPU().
func WithWorkers(n int) Option {
	return func(s *Session) {
		s.workers = n
	}
}

// NewSession creates a width x height session. The framebuffer is cleared to
// black, the drawing color is white, the viewport covers the whole frame and
// the camera sits at the origin with a 60° field of view.
func NewSession(width, height int, opts ...Option) *Session {
	s := &Session{
		id:      uuid.New(),
		log:     log.New(io.Discard),
		current: ColorWhite,
		clear:   ColorBlack,
		camera:  NewCamera(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.workers < 1 {
		s.workers = runtime.NumCPU()
	}
	s.log = s.log.With("session", s.id.String()[:8])
	s.Resize(width, height)
	return s
}

// Resize reallocates the buffers at the new size, clears them and resets the
// viewport to the full frame.
func (s *Session) Resize(width, height int) {
	s.fb = &Framebuffer{Width: width, Height: height}
	s.zb = &ZBuffer{Width: width, Height: height}
	s.Clear()
	s.SetViewport(0, 0, width, height)
}

// ID returns the unique identifier of the session.
func (s *Session) ID() uuid.UUID { return s.id }

// Width returns the framebuffer width in pixels.
func (s *Session) Width() int { return s.fb.Width }

// Height returns the framebuffer height in pixels.
func (s *Session) Height() int { return s.fb.Height }

// Framebuffer returns the color buffer.
func (s *Session) Framebuffer() *Framebuffer { return s.fb }

// ZBuffer returns the depth buffer.
func (s *Session) ZBuffer() *ZBuffer { return s.zb }

// Viewport returns the active viewport.
func (s *Session) Viewport() Viewport { return s.viewport }

// Clear replaces both buffers with freshly allocated ones: every pixel takes
// the clear color and every depth becomes +Inf.
func (s *Session) Clear() {
	s.fb = NewFramebuffer(s.fb.Width, s.fb.Height, s.clear)
	s.zb = NewZBuffer(s.zb.Width, s.zb.Height)
}

// SetViewport sets the rectangle NDC coordinates map onto.
func (s *Session) SetViewport(x, y, width, height int) {
	s.viewport = Viewport{X: x, Y: y, Width: width, Height: height}
}

// SetColor sets the drawing color from normalized channels. On error the
// previous color is kept.
func (s *Session) SetColor(r, g, b float64) error {
	c, err := ColorFromFloat(r, g, b)
	if err != nil {
		s.log.Warn("drawing color unchanged", "err", err)
		return err
	}
	s.current = c
	return nil
}

// SetClearColor sets the color Clear fills with. On error the previous color
// is kept.
func (s *Session) SetClearColor(r, g, b float64) error {
	c, err := ColorFromFloat(r, g, b)
	if err != nil {
		s.log.Warn("clear color unchanged", "err", err)
		return err
	}
	s.clear = c
	return nil
}

// Color returns the current drawing color.
func (s *Session) Color() Color { return s.current }

// ClearColor returns the current clear color.
func (s *Session) ClearColor() Color { return s.clear }

// WritePixel sets pixel (x, y) to c. Writes outside the viewport, and then
// outside the framebuffer, are silently dropped.
func (s *Session) WritePixel(x, y int, c Color) {
	if !s.viewport.Contains(x, y) {
		return
	}
	if !s.fb.InBounds(x, y) {
		return
	}
	s.fb.Pixels[y*s.fb.Width+x] = c
}

// Pixel sets pixel (x, y) to the current drawing color.
func (s *Session) Pixel(x, y int) {
	s.WritePixel(x, y, s.current)
}

// WriteNDC maps (ndcX, ndcY) through the viewport and sets the nearest pixel
// to c. Only the framebuffer bounds are checked, not the viewport's, so a
// viewport that extends past the frame still maps coordinates.
func (s *Session) WriteNDC(ndcX, ndcY float64, c Color) {
	px, py := s.viewport.ToPixel(ndcX, ndcY)
	if !(px >= 0 && px < float64(s.fb.Width) && py >= 0 && py < float64(s.fb.Height)) {
		return
	}
	// rounding may still land one past the last column or row
	s.fb.Set(int(math.RoundToEven(px)), int(math.RoundToEven(py)), c)
}

// Vertex sets the pixel at NDC (x, y) to the current drawing color.
func (s *Session) Vertex(x, y float64) {
	s.WriteNDC(x, y, s.current)
}

// Background fills the framebuffer from a texture, sampling it at
// (x/width, y/height) for every pixel. Depth is left untouched.
func (s *Session) Background(tex *Texture) {
	w, h := float64(s.fb.Width), float64(s.fb.Height)
	for y := range s.fb.Height {
		row := s.fb.Row(y)
		for x := range row {
			row[x] = tex.Sample(float64(x)/w, float64(y)/h)
		}
	}
}

// Camera returns the camera used by Render.
func (s *Session) Camera() Camera { return s.camera }

// SetCamera replaces the camera.
func (s *Session) SetCamera(c Camera) { s.camera = c }

// SetCameraPosition moves the camera.
func (s *Session) SetCameraPosition(p math3d.Vec3) { s.camera.Position = p }

// SetFOV sets the vertical field of view in degrees.
func (s *Session) SetFOV(deg float64) { s.camera.FOV = deg }

// Add appends objects to the scene. Order matters only for ties: the first
// object hit at the minimum distance wins.
func (s *Session) Add(objs ...Object) {
	s.scene = append(s.scene, objs...)
}

// Scene returns the scene objects in insertion order.
func (s *Session) Scene() []Object { return s.scene }

// ResetScene removes every object.
func (s *Session) ResetScene() { s.scene = nil }
