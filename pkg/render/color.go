package render

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"github.com/taigrr/glray/pkg/math3d"
)

// ErrChannelOutOfRange is returned when a normalized color channel is not in [0, 1].
var ErrChannelOutOfRange = errors.New("color channel out of range [0, 1]")

// Color is an 8-bit RGB color. Alpha is always opaque; it is carried only so
// a Color can be handed to image and terminal APIs directly.
type Color = color.RGBA

// Colors for convenience
var (
	ColorBlack = color.RGBA{0, 0, 0, 255}
	ColorWhite = color.RGBA{255, 255, 255, 255}
	ColorRed   = color.RGBA{255, 0, 0, 255}
	ColorGreen = color.RGBA{0, 255, 0, 255}
	ColorBlue  = color.RGBA{0, 0, 255, 255}
	ColorGray  = color.RGBA{128, 128, 128, 255}
)

// RGB creates a color from 8-bit channel values.
func RGB(r, g, b uint8) Color {
	return color.RGBA{r, g, b, 255}
}

// ColorFromFloat converts normalized channels to a Color, rounding 255*c to
// the nearest integer (ties to even). Any channel outside [0, 1] yields an
// error wrapping ErrChannelOutOfRange.
func ColorFromFloat(r, g, b float64) (Color, error) {
	var ch [3]uint8
	for i, v := range [3]float64{r, g, b} {
		if !(v >= 0 && v <= 1) {
			return Color{}, fmt.Errorf("%w: got %v", ErrChannelOutOfRange, v)
		}
		ch[i] = uint8(math.RoundToEven(255 * v))
	}
	return RGB(ch[0], ch[1], ch[2]), nil
}

// Gray returns a gray color for an intensity in [0, 1]. Values outside the
// range are clamped.
func Gray(intensity float64) Color {
	if math.IsNaN(intensity) {
		intensity = 0.5
	}
	v := uint8(math.Round(255 * math.Max(0, math.Min(1, intensity))))
	return RGB(v, v, v)
}

// lerpColor linearly interpolates between two colors. Channels truncate.
func lerpColor(a, b Color, t float64) Color {
	v := colorVec(a).Lerp(colorVec(b), t)
	return RGB(uint8(v.X), uint8(v.Y), uint8(v.Z))
}

func colorVec(c Color) math3d.Vec3 {
	return math3d.V3(float64(c.R), float64(c.G), float64(c.B))
}
