package model

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is a CSS-style color value. It keeps the string it was parsed
// from so themes can be handed back to hosts verbatim.
type Color struct {
	src     string
	r, g, b uint8
	a       float64
	valid   bool
}

// ParseColor accepts "#rrggbb", "#rgb", "rgb(r, g, b)" and "rgba(r, g, b, a)".
func ParseColor(s string) (Color, error) {
	src := strings.TrimSpace(s)
	if src == "" {
		return Color{}, fmt.Errorf("empty color")
	}
	lower := strings.ToLower(src)

	switch {
	case strings.HasPrefix(lower, "#"):
		hex := lower
		if len(hex) == 4 {
			hex = "#" + strings.Repeat(hex[1:2], 2) + strings.Repeat(hex[2:3], 2) + strings.Repeat(hex[3:4], 2)
		}
		c, err := colorful.Hex(hex)
		if err != nil {
			return Color{}, fmt.Errorf("invalid hex color %q: %w", src, err)
		}
		r, g, b := c.RGB255()
		return Color{src: src, r: r, g: g, b: b, a: 1, valid: true}, nil

	case strings.HasPrefix(lower, "rgba(") || strings.HasPrefix(lower, "rgb("):
		open := strings.IndexByte(lower, '(')
		if !strings.HasSuffix(lower, ")") {
			return Color{}, fmt.Errorf("invalid color %q: missing ')'", src)
		}
		parts := strings.Split(lower[open+1:len(lower)-1], ",")
		if len(parts) != 3 && len(parts) != 4 {
			return Color{}, fmt.Errorf("invalid color %q: want 3 or 4 components, got %d", src, len(parts))
		}
		var ch [3]uint8
		for i := 0; i < 3; i++ {
			v, err := strconv.ParseFloat(strings.TrimSpace(parts[i]), 64)
			if err != nil {
				return Color{}, fmt.Errorf("invalid color %q: %w", src, err)
			}
			ch[i] = uint8(math.Round(clampf(v, 0, 255)))
		}
		alpha := 1.0
		if len(parts) == 4 {
			v, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
			if err != nil {
				return Color{}, fmt.Errorf("invalid color %q: %w", src, err)
			}
			alpha = clampf(v, 0, 1)
		}
		return Color{src: src, r: ch[0], g: ch[1], b: ch[2], a: alpha, valid: true}, nil
	}

	return Color{}, fmt.Errorf("unsupported color format %q", src)
}

// MustParseColor is ParseColor for constants; it panics on bad input.
func MustParseColor(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// String returns the color as it was written.
func (c Color) String() string {
	return c.src
}

// IsZero reports whether the color was never set.
func (c Color) IsZero() bool {
	return !c.valid
}

// Alpha returns the opacity in [0, 1].
func (c Color) Alpha() float64 {
	return c.a
}

// NRGBA returns the non-premultiplied color.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.r, G: c.g, B: c.b, A: uint8(math.Round(c.a * 255))}
}

// Hex returns the opaque "#rrggbb" form, ignoring alpha.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.r, c.g, c.b)
}

// Over composites c on top of an opaque backdrop and returns an opaque
// color. Terminals cannot blend, so translucent deck colors are flattened
// this way before display.
func (c Color) Over(backdrop Color) Color {
	if !c.valid {
		return backdrop
	}
	if c.a >= 1 || !backdrop.valid {
		return Color{src: c.Hex(), r: c.r, g: c.g, b: c.b, a: 1, valid: true}
	}
	top := colorful.Color{R: float64(c.r) / 255, G: float64(c.g) / 255, B: float64(c.b) / 255}
	bottom := colorful.Color{R: float64(backdrop.r) / 255, G: float64(backdrop.g) / 255, B: float64(backdrop.b) / 255}
	blended := bottom.BlendRgb(top, c.a).Clamped()
	r, g, b := blended.RGB255()
	out := Color{r: r, g: g, b: b, a: 1, valid: true}
	out.src = out.Hex()
	return out
}

// MarshalText implements encoding.TextMarshaler.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.src), nil
}

// UnmarshalText implements encoding.TextUnmarshaler, so colors can be
// decoded straight from YAML and JSON deck files.
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func clampf(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
