package config

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// ParseColor converts a decoded TOML color into normalized channels. It
// accepts a hex string ("#ff8000") or an array of three numbers.
// Range checking is left to render.ColorFromFloat.
func ParseColor(v any) ([3]float64, error) {
	switch c := v.(type) {
	case string:
		col, err := colorful.Hex(c)
		if err != nil {
			return [3]float64{}, fmt.Errorf("%w %q: %w", ErrBadColor, c, err)
		}
		return [3]float64{col.R, col.G, col.B}, nil
	case []any:
		if len(c) != 3 {
			return [3]float64{}, fmt.Errorf("%w: need 3 channels, got %d", ErrBadColor, len(c))
		}
		var out [3]float64
		for i, ch := range c {
			f, ok := number(ch)
			if !ok {
				return [3]float64{}, fmt.Errorf("%w: channel %d is %T", ErrBadColor, i, ch)
			}
			out[i] = f
		}
		return out, nil
	default:
		return [3]float64{}, fmt.Errorf("%w: %T", ErrBadColor, v)
	}
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
