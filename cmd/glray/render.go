package main

import (
	"github.com/spf13/cobra"
	"github.com/taigrr/glray/pkg/bmp"
)

func newRenderCmd(opts *options) *cobra.Command {
	var out, depth, png string

	cmd := &cobra.Command{
		Use:   "render <scene.toml>",
		Short: "Render a scene to a BMP file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := opts.loadScene(args[0])
			if err != nil {
				return err
			}
			sess, err := opts.build(sc)
			if err != nil {
				return err
			}
			if err := sess.Render(cmd.Context()); err != nil {
				return err
			}

			if err := bmp.WriteFile(out, sess.Framebuffer()); err != nil {
				return err
			}
			opts.logStats(sess, out)

			if depth != "" {
				if err := bmp.WriteDepthFile(depth, sess.ZBuffer()); err != nil {
					return err
				}
				opts.logger.Info("wrote " + depth)
			}
			if png != "" {
				if err := sess.Framebuffer().SavePNG(png); err != nil {
					return err
				}
				opts.logger.Info("wrote " + png)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "output", "o", "out.bmp", "output bitmap")
	cmd.Flags().StringVar(&depth, "depth", "", "also write the depth map to this bitmap")
	cmd.Flags().StringVar(&png, "png", "", "also write the image as PNG")
	return cmd
}

func newDepthCmd(opts *options) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "depth <scene.toml>",
		Short: "Render only the depth map of a scene",
		Long: "Render a scene and write its z-buffer as a grayscale bitmap: near\n" +
			"surfaces are dark, far ones light, and pixels that hit nothing white.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := opts.loadScene(args[0])
			if err != nil {
				return err
			}
			sess, err := opts.build(sc)
			if err != nil {
				return err
			}
			if err := sess.Render(cmd.Context()); err != nil {
				return err
			}
			if err := bmp.WriteDepthFile(out, sess.ZBuffer()); err != nil {
				return err
			}
			opts.logStats(sess, out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "output", "o", "depth.bmp", "output bitmap")
	return cmd
}
