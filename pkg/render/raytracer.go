package render

import (
	"context"
	"slices"
	"sync/atomic"
	"time"

	"github.com/taigrr/glray/pkg/math3d"
	"golang.org/x/sync/errgroup"
)

// Material describes how a surface is drawn. Only the diffuse color is used:
// there is no lighting model.
type Material struct {
	Name    string
	Diffuse Color
}

// Hit describes a ray/object intersection.
type Hit struct {
	Distance float64     // Distance from the ray origin, non-negative
	Point    math3d.Vec3 // World-space hit point
	Normal   math3d.Vec3 // Surface normal at Point
	Material *Material
}

// Object is anything a ray can be intersected with. RayIntersect must be a
// pure, total function: it reports false for a miss and otherwise returns a
// hit with a finite, non-negative distance. dir is normalized.
type Object interface {
	RayIntersect(orig, dir math3d.Vec3) (Hit, bool)
}

// RenderStats summarizes the last Render call.
type RenderStats struct {
	Pixels  int           // Pixels traced
	Tests   int64         // Ray/object intersection tests
	Hits    int64         // Pixels resolved to a material
	Workers int           // Goroutines used
	Elapsed time.Duration // Wall time
}

// Stats returns the statistics of the last Render.
func (s *Session) Stats() RenderStats { return s.stats }

// Render traces one primary ray per pixel of the framebuffer against every
// scene object, keeping the nearest hit in the z-buffer, and writes the
// winning material's diffuse color. Pixels nothing hits keep their current
// color and depth.
//
// Rows are split into contiguous bands, one per worker; every band owns its
// rows of both buffers so no locking is needed. Cancellation is checked
// between rows and the output for the rows already traced is kept.
func (s *Session) Render(ctx context.Context) error {
	start := time.Now()
	width, height := s.fb.Width, s.fb.Height
	cam := s.camera
	objects := slices.Clone(s.scene)

	workers := min(s.workers, max(height, 1))
	band := (height + workers - 1) / max(workers, 1)

	var tests, hits atomic.Int64
	g, ctx := errgroup.WithContext(ctx)
	for y0 := 0; y0 < height; y0 += band {
		y1 := min(y0+band, height)
		g.Go(func() error {
			for y := y0; y < y1; y++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				t, h := s.traceRow(y, width, height, cam, objects)
				tests.Add(t)
				hits.Add(h)
			}
			return nil
		})
	}
	err := g.Wait()

	s.stats = RenderStats{
		Pixels:  width * height,
		Tests:   tests.Load(),
		Hits:    hits.Load(),
		Workers: workers,
		Elapsed: time.Since(start),
	}
	if err != nil {
		s.log.Warn("render interrupted", "err", err)
		return err
	}
	s.log.Debug("render finished",
		"size", [2]int{width, height},
		"objects", len(objects),
		"hits", s.stats.Hits,
		"workers", workers,
		"elapsed", s.stats.Elapsed)
	return nil
}

// traceRow resolves every pixel of row y and returns the number of
// intersection tests made and pixels hit.
func (s *Session) traceRow(y, width, height int, cam Camera, objects []Object) (tests, hits int64) {
	for x := range width {
		dir := cam.RayDirection(x, y, width, height)

		var material *Material
		for _, obj := range objects {
			tests++
			h, ok := obj.RayIntersect(cam.Position, dir)
			if !ok {
				continue
			}
			if s.zb.Test(x, y, h.Distance) {
				material = h.Material
			}
		}

		if material != nil {
			s.WritePixel(x, y, material.Diffuse)
			hits++
		}
	}
	return tests, hits
}
