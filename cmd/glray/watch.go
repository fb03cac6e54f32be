package main

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/taigrr/glray/pkg/bmp"
	"github.com/taigrr/glray/pkg/watch"
)

func newWatchCmd(opts *options) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "watch <scene.toml>",
		Short: "Re-render whenever the scene or its models change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			w, err := watch.New([]string{path}, watch.WithLogger(opts.logger))
			if err != nil {
				return err
			}
			defer w.Close()

			opts.logger.Info("watching", "scene", path, "output", out)
			return w.Run(cmd.Context(), func(ctx context.Context) error {
				sc, err := opts.loadScene(path)
				if err != nil {
					return err
				}
				// models and backgrounds may have been added since the last run
				if err := w.Add(sc.Files()...); err != nil {
					return err
				}
				sess, err := opts.build(sc)
				if err != nil {
					return err
				}
				if err := sess.Render(ctx); err != nil {
					return err
				}
				if err := bmp.WriteFile(out, sess.Framebuffer()); err != nil {
					return err
				}
				opts.logStats(sess, out)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&out, "output", "o", "out.bmp", "output bitmap")
	return cmd
}
