package colorfade

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"regexp"
	"strconv"
)

// ErrInvalidColor indicates a string that is not an rgb()/rgba() color.
var ErrInvalidColor = errors.New("invalid rgba color")

var rgbaPattern = regexp.MustCompile(`^\s*rgba?\(\s*(\d+)\s*,\s*(\d+)\s*,\s*(\d+)\s*(?:,\s*([\d.]+)\s*)?\)\s*$`)

// RGBA is an 8-bit color with a floating point alpha in [0,1].
type RGBA struct {
	R uint8
	G uint8
	B uint8
	A float64
}

// ParseRGBA parses "rgba(r, g, b, a)" or "rgb(r, g, b)".
func ParseRGBA(value string) (RGBA, error) {
	match := rgbaPattern.FindStringSubmatch(value)
	if match == nil {
		return RGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, value)
	}

	var channels [3]uint8
	for i := range channels {
		parsed, err := strconv.ParseUint(match[i+1], 10, 8)
		if err != nil {
			return RGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, value)
		}
		channels[i] = uint8(parsed)
	}

	alpha := 1.0
	if match[4] != "" {
		parsed, err := strconv.ParseFloat(match[4], 64)
		if err != nil || parsed > 1 {
			return RGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, value)
		}
		alpha = parsed
	}

	return RGBA{R: channels[0], G: channels[1], B: channels[2], A: alpha}, nil
}

// String renders the color in CSS rgba() notation.
func (c RGBA) String() string {
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", c.R, c.G, c.B, strconv.FormatFloat(c.A, 'f', -1, 64))
}

// NRGBA converts to a non-premultiplied image color.
func (c RGBA) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(math.Round(clamp01(c.A) * 255))}
}

// MarshalText lets the color travel as its CSS string.
func (c RGBA) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText parses the CSS string form.
func (c *RGBA) UnmarshalText(text []byte) error {
	parsed, err := ParseRGBA(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Interpolate blends start toward end. Progress is clamped to [0,1] and eased
// before blending; RGB channels are rounded and alpha stays fractional.
func Interpolate(start, end RGBA, progress float64, ease Easing) RGBA {
	if ease == nil {
		ease = Linear
	}
	t := clamp01(ease(clamp01(progress)))
	return RGBA{
		R: lerpChannel(start.R, end.R, t),
		G: lerpChannel(start.G, end.G, t),
		B: lerpChannel(start.B, end.B, t),
		A: start.A + (end.A-start.A)*t,
	}
}

func lerpChannel(start, end uint8, t float64) uint8 {
	return uint8(math.Round(float64(start) + (float64(end)-float64(start))*t))
}

func clamp01(value float64) float64 {
	if math.IsNaN(value) || value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}
