package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/taigrr/glray/pkg/render"
)

var filterModes = map[string]render.FilterMode{
	"":         render.FilterNearest,
	"nearest":  render.FilterNearest,
	"bilinear": render.FilterBilinear,
}

var wrapModes = map[string]render.WrapMode{
	"":       render.WrapRepeat,
	"repeat": render.WrapRepeat,
	"clamp":  render.WrapClamp,
}

// procedural splits a generated background into its kind and arguments.
func (s *Scene) procedural() (kind, args string, ok bool) {
	kind, args, ok = strings.Cut(s.Background, ":")
	if !ok || (kind != "checker" && kind != "gradient") {
		return "", "", false
	}
	return kind, args, true
}

// loadBackground builds the background texture, either generated at the
// frame size or read from an image file, with the scene's sampling modes.
func (s *Scene) loadBackground() (*render.Texture, error) {
	var (
		tex *render.Texture
		err error
	)
	if kind, args, ok := s.procedural(); ok {
		switch kind {
		case "checker":
			tex, err = checker(args, s.Width, s.Height)
		case "gradient":
			tex, err = gradient(args, s.Width, s.Height)
		}
	} else {
		tex, err = render.LoadTexture(s.resolve(s.Background))
	}
	if err != nil {
		return nil, err
	}

	tex.FilterMode = filterModes[s.BackgroundFilter]
	tex.WrapU = wrapModes[s.BackgroundWrap]
	tex.WrapV = tex.WrapU
	return tex, nil
}

// checker parses "SIZE:C1:C2", SIZE being the square edge in pixels.
func checker(args string, width, height int) (*render.Texture, error) {
	parts := strings.Split(args, ":")
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: checker wants SIZE:C1:C2, got %q", ErrBadBackground, args)
	}
	size, err := strconv.Atoi(parts[0])
	if err != nil || size <= 0 {
		return nil, fmt.Errorf("%w: checker size %q", ErrBadBackground, parts[0])
	}
	c1, err := textureColor(parts[1])
	if err != nil {
		return nil, err
	}
	c2, err := textureColor(parts[2])
	if err != nil {
		return nil, err
	}
	return render.NewCheckerTexture(width, height, size, c1, c2), nil
}

// gradient parses "BOTTOM:TOP".
func gradient(args string, width, height int) (*render.Texture, error) {
	bottom, top, ok := strings.Cut(args, ":")
	if !ok {
		return nil, fmt.Errorf("%w: gradient wants BOTTOM:TOP, got %q", ErrBadBackground, args)
	}
	cb, err := textureColor(bottom)
	if err != nil {
		return nil, err
	}
	ct, err := textureColor(top)
	if err != nil {
		return nil, err
	}
	return render.NewGradientTexture(width, height, cb, ct), nil
}

func textureColor(hex string) (render.Color, error) {
	ch, err := ParseColor(hex)
	if err != nil {
		return render.Color{}, err
	}
	return render.ColorFromFloat(ch[0], ch[1], ch[2])
}
