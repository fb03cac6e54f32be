package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/taigrr/glray/pkg/anim"
	"github.com/taigrr/glray/pkg/bmp"
	"github.com/taigrr/glray/pkg/math3d"
)

func newAnimateCmd(opts *options) *cobra.Command {
	var (
		to     string
		dir    string
		frames int
		fps    int
	)

	cmd := &cobra.Command{
		Use:   "animate <scene.toml>",
		Short: "Render a camera dolly as numbered BMP frames",
		Long: "Spring the camera from the scene's position to --to over --frames\n" +
			"frames and write each one as frame_NNNN.bmp in --dir.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := parseVec3(to)
			if err != nil {
				return fmt.Errorf("--to: %w", err)
			}
			sc, err := opts.loadScene(args[0])
			if err != nil {
				return err
			}
			sess, err := opts.build(sc)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create frame dir: %w", err)
			}

			path := anim.Path(sess.Camera().Position, target, frames, fps)
			for i, pos := range path {
				sc.Reset(sess)
				sess.SetCameraPosition(pos)
				if err := sess.Render(cmd.Context()); err != nil {
					return err
				}
				out := filepath.Join(dir, fmt.Sprintf("frame_%04d.bmp", i))
				if err := bmp.WriteFile(out, sess.Framebuffer()); err != nil {
					return err
				}
				opts.logger.Debug("frame", "n", i, "camera", pos, "elapsed", sess.Stats().Elapsed)
			}
			opts.logger.Info("wrote frames", "count", len(path), "dir", dir)
			return nil
		},
	}

	cmd.Flags().StringVar(&to, "to", "0,0,-2", "camera destination as x,y,z")
	cmd.Flags().StringVar(&dir, "dir", "frames", "output directory")
	cmd.Flags().IntVarP(&frames, "frames", "n", 48, "number of frames")
	cmd.Flags().IntVar(&fps, "fps", 24, "frames per second the spring is stepped at")
	return cmd
}

// parseVec3 parses "x,y,z".
func parseVec3(s string) (math3d.Vec3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return math3d.Vec3{}, fmt.Errorf("want x,y,z, got %q", s)
	}
	var c [3]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return math3d.Vec3{}, fmt.Errorf("component %d: %w", i, err)
		}
		c[i] = f
	}
	return math3d.V3(c[0], c[1], c[2]), nil
}
