package imaging

import (
	"fmt"
	"math"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// RGBColor represents an RGB color with 8-bit components.
//
// Each component ranges from 0 to 255, where:
//   - 0 represents no intensity (black for all components)
//   - 255 represents full intensity (white for all components)
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// DefaultReplacement is the neutral light gray written over detected red
// pixels: (220, 220, 220), #DCDCDC.
var DefaultReplacement = RGBColor{R: 220, G: 220, B: 220}

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// ColorResult contains a color value in several representations.
type ColorResult struct {
	Hex string   `json:"hex"` // Hex format "#RRGGBB"
	RGB RGBColor `json:"rgb"` // RGB components
	HSL HSLColor `json:"hsl"` // HSL representation
}

// ParseColor parses a replacement color given as "#RRGGBB", "RRGGBB" or the
// three-digit short form "#RGB".
//
// Parameters:
//   - s: The color string. Surrounding whitespace is ignored and hex digits
//     may be upper or lower case.
//
// Returns:
//   - RGBColor: The parsed 8-bit components.
//   - error: Non-nil if s is not a valid hex color.
func ParseColor(s string) (RGBColor, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return RGBColor{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return RGBColor{R: r, G: g, B: b}, nil
}

// Hex formats the color as "#RRGGBB" with upper-case digits.
func (c RGBColor) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// HSL converts the color to HSL with integer degrees and percentages.
func (c RGBColor) HSL() HSLColor {
	h, s, l := c.toColorful().Hsl()
	if math.IsNaN(h) {
		h = 0
	}
	return HSLColor{
		H: int(h),
		S: int(s * 100),
		L: int(l * 100),
	}
}

// Result expands the color into all of its reported representations.
func (c RGBColor) Result() ColorResult {
	return ColorResult{Hex: c.Hex(), RGB: c, HSL: c.HSL()}
}

func (c RGBColor) toColorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
}
