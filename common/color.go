package common

import (
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color is a linear-space RGB color with components in [0, 1].
// Scene colors are authored as sRGB hex values and converted once so that shading happens in linear space.
type Color [3]float32

// White is linear white.
var White = Color{1, 1, 1}

// HexColor converts a 24-bit sRGB hex value such as 0x4d7541 into a linear Color.
//
// Parameters:
//   - hex: the packed 0xRRGGBB value
//
// Returns:
//   - Color: the linearized color
func HexColor(hex uint32) Color {
	c, err := ParseHexColor(fmt.Sprintf("#%06x", hex&0xffffff))
	if err != nil {
		// unreachable for a masked 24-bit value
		return White
	}
	return c
}

// ParseHexColor parses a "#rrggbb" or "#rgb" string into a linear Color.
//
// Parameters:
//   - s: the hex string
//
// Returns:
//   - Color: the linearized color
//   - error: error if s is not a valid hex color
func ParseHexColor(s string) (Color, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	r, g, b := c.LinearRgb()
	return Color{float32(r), float32(g), float32(b)}, nil
}

// Vec4 returns the color with the given alpha appended.
func (c Color) Vec4(alpha float32) [4]float32 {
	return [4]float32{c[0], c[1], c[2], alpha}
}
