// glray - depth-buffered software ray tracer.
// Renders TOML scene files to 24-bit BMP images, depth maps, animation
// frames, or straight into the terminal.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/taigrr/glray/pkg/bmp"
	"github.com/taigrr/glray/pkg/config"
	"github.com/taigrr/glray/pkg/logging"
	"github.com/taigrr/glray/pkg/render"
)

var version = "dev"

// options shared by every command.
type options struct {
	logLevel string
	workers  int
	width    int
	height   int
	fov      float64

	logger *log.Logger
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := fang.Execute(ctx, newRootCmd(), fang.WithVersion(version)); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "glray",
		Short: "Depth-buffered software ray tracer",
		Long: "glray traces spheres, planes, disks, triangles and OBJ/glTF models\n" +
			"described in a TOML scene file and writes 24-bit BMP images.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			lvl, err := logging.ParseLevel(opts.logLevel)
			if err != nil {
				return err
			}
			opts.logger = logging.New(os.Stderr, lvl)
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	pf.IntVarP(&opts.workers, "workers", "j", 0, "render workers (0 = one per CPU)")
	pf.IntVar(&opts.width, "width", 0, "override the scene width")
	pf.IntVar(&opts.height, "height", 0, "override the scene height")
	pf.Float64Var(&opts.fov, "fov", 0, "override the field of view in degrees")

	root.AddCommand(
		newRenderCmd(opts),
		newDepthCmd(opts),
		newAnimateCmd(opts),
		newPreviewCmd(opts),
		newWatchCmd(opts),
	)
	return root
}

// loadScene reads a scene file and applies the size and fov overrides.
func (o *options) loadScene(path string) (*config.Scene, error) {
	sc, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if o.width > 0 {
		sc.Width = o.width
	}
	if o.height > 0 {
		sc.Height = o.height
	}
	if o.fov > 0 {
		sc.FOV = o.fov
	}
	if err := sc.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

// build creates the session for a scene and warns about widths that
// produce unpadded bitmap rows.
func (o *options) build(sc *config.Scene) (*render.Session, error) {
	sess, err := sc.Build(render.WithLogger(o.logger), render.WithWorkers(o.workers))
	if err != nil {
		return nil, err
	}
	if !bmp.Padded(sc.Width) {
		o.logger.Warn("width*3 is not a multiple of 4; strict BMP readers may reject the output", "width", sc.Width)
	}
	return sess, nil
}

func (o *options) logStats(sess *render.Session, out string) {
	st := sess.Stats()
	o.logger.Info("wrote "+out,
		"size", fmt.Sprintf("%dx%d", sess.Width(), sess.Height()),
		"hits", st.Hits,
		"tests", st.Tests,
		"workers", st.Workers,
		"elapsed", st.Elapsed.Round(time.Millisecond))
}
