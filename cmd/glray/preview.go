package main

import (
	"context"
	"fmt"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/spf13/cobra"
	"github.com/taigrr/glray/pkg/anim"
	"github.com/taigrr/glray/pkg/math3d"
	"github.com/taigrr/glray/pkg/render"
)

// moveStep is how far one key press moves the camera target.
const moveStep = 0.5

func newPreviewCmd(opts *options) *cobra.Command {
	var fps int

	cmd := &cobra.Command{
		Use:   "preview <scene.toml>",
		Short: "Trace a scene into the terminal",
		Long: "Trace a scene at terminal resolution using half-block cells.\n\n" +
			"Controls:\n" +
			"  W/S         - Move camera forward/back\n" +
			"  A/D         - Move camera left/right\n" +
			"  R/F         - Move camera up/down\n" +
			"  Space       - Reset camera\n" +
			"  Esc, Q      - Quit",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreview(cmd.Context(), opts, args[0], fps)
		},
	}

	cmd.Flags().IntVar(&fps, "fps", 30, "frame rate while the camera is moving")
	return cmd
}

func runPreview(ctx context.Context, opts *options, path string, fps int) error {
	sc, err := opts.loadScene(path)
	if err != nil {
		return err
	}

	term := uv.DefaultTerminal()
	cols, rows, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	// size the trace to the terminal, not the scene file
	sc.Width, sc.Height = render.TerminalSize(cols, rows)
	sess, err := sc.Build(render.WithLogger(opts.logger), render.WithWorkers(opts.workers))
	if err != nil {
		return err
	}
	home := sess.Camera().Position
	dolly := anim.NewDolly(fps, anim.DefaultFrequency, anim.DefaultDamping, home, home)

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(cols, rows)
	defer func() {
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	resized := make(chan [2]int, 1)
	// a nil move returns the camera home
	moves := make(chan *math3d.Vec3, 16)
	go func() {
		for ev := range term.Events() {
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				select {
				case resized <- [2]int{ev.Width, ev.Height}:
				default:
				}
			case uv.KeyPressEvent:
				var d *math3d.Vec3
				switch {
				case ev.MatchString("escape"), ev.MatchString("q"), ev.MatchString("ctrl+c"):
					cancel()
					return
				case ev.MatchString("w"):
					d = &math3d.Vec3{Z: -moveStep}
				case ev.MatchString("s"):
					d = &math3d.Vec3{Z: moveStep}
				case ev.MatchString("a"):
					d = &math3d.Vec3{X: -moveStep}
				case ev.MatchString("d"):
					d = &math3d.Vec3{X: moveStep}
				case ev.MatchString("r"):
					d = &math3d.Vec3{Y: moveStep}
				case ev.MatchString("f"):
					d = &math3d.Vec3{Y: -moveStep}
				case ev.MatchString("space"):
				default:
					continue
				}
				select {
				case moves <- d:
				default:
				}
			}
		}
	}()

	frame := func() error {
		sc.Reset(sess)
		sess.SetCameraPosition(dolly.Position())
		if err := sess.Render(ctx); err != nil {
			return err
		}
		sess.Framebuffer().Draw(term, uv.Rect(0, 0, cols, rows))
		return term.Display()
	}
	if err := frame(); err != nil && ctx.Err() == nil {
		return err
	}

	tick := time.NewTicker(time.Second / time.Duration(max(fps, 1)))
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil

		case size := <-resized:
			cols, rows = size[0], size[1]
			term.Erase()
			term.Resize(cols, rows)
			sess.Resize(render.TerminalSize(cols, rows))
			if err := frame(); err != nil && ctx.Err() == nil {
				return err
			}

		case d := <-moves:
			if d == nil {
				dolly.SetTarget(home)
			} else {
				dolly.SetTarget(dolly.Target().Add(*d))
			}

		case <-tick.C:
			if dolly.Settled(1e-3) {
				continue
			}
			dolly.Step()
			if err := frame(); err != nil && ctx.Err() == nil {
				return err
			}
		}
	}
}
