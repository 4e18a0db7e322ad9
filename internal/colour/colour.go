// Package colour provides the colour value type and perceptual maths used by
// background resolution and contrast checking.
package colour

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"golang.org/x/image/colornames"
)

// RGB represents a colour in RGB format.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// String returns the RGB colour as a string in the format "rgb(r, g, b)".
func (rgb RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", rgb.R, rgb.G, rgb.B)
}

// Hex returns the RGB colour as a hex string (e.g., "#1a2b3c").
func (rgb RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", rgb.R, rgb.G, rgb.B)
}

// ToColor converts an RGB value to a color.Color (RGBA, full opacity).
func (rgb RGB) ToColor() color.Color {
	return color.RGBA{R: rgb.R, G: rgb.G, B: rgb.B, A: 255}
}

// FromColor converts a color.Color to RGB.
func FromColor(c color.Color) RGB {
	r, g, b, _ := c.RGBA()
	// RGBA returns values in the range [0, 65535], convert to [0, 255].
	return RGB{
		R: uint8(r >> 8),
		G: uint8(g >> 8),
		B: uint8(b >> 8),
	}
}

// ParseHex parses a "#rgb" or "#rrggbb" hex string into an RGB value.
// The leading "#" is optional and parsing is case-insensitive.
func ParseHex(s string) (RGB, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")

	switch len(h) {
	case 3:
		// Shorthand: each digit doubles (#abc -> #aabbcc).
		expanded := make([]byte, 6)
		for i := 0; i < 3; i++ {
			expanded[i*2] = h[i]
			expanded[i*2+1] = h[i]
		}
		h = string(expanded)
	case 6:
	default:
		return RGB{}, fmt.Errorf("invalid hex colour %q: expected 3 or 6 hex digits", s)
	}

	var r, g, b uint8
	if _, err := fmt.Sscanf(strings.ToLower(h), "%02x%02x%02x", &r, &g, &b); err != nil {
		return RGB{}, fmt.Errorf("invalid hex colour %q: %w", s, err)
	}

	return RGB{R: r, G: g, B: b}, nil
}

// Parse parses a colour from either a hex string ("#1e1e1e") or a CSS/SVG
// colour name ("rebeccapurple"). Names are matched case-insensitively
// against the x/image/colornames table.
func Parse(s string) (RGB, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return RGB{}, fmt.Errorf("empty colour value")
	}

	if strings.HasPrefix(s, "#") {
		return ParseHex(s)
	}

	if named, ok := colornames.Map[strings.ToLower(s)]; ok {
		return RGB{R: named.R, G: named.G, B: named.B}, nil
	}

	// Bare hex without the leading "#" is accepted as a convenience.
	if rgb, err := ParseHex(s); err == nil {
		return rgb, nil
	}

	return RGB{}, fmt.Errorf("unknown colour %q: not a hex value or a named colour", s)
}

// Luminance calculates the relative luminance of a colour according to WCAG 2.0.
// Returns a value between 0 (darkest) and 1 (lightest).
// https://www.w3.org/TR/WCAG20/#relativeluminancedef.
func Luminance(rgb RGB) float64 {
	rf := gammaCorrect(float64(rgb.R) / 255.0)
	gf := gammaCorrect(float64(rgb.G) / 255.0)
	bf := gammaCorrect(float64(rgb.B) / 255.0)

	return 0.2126*rf + 0.7152*gf + 0.0722*bf
}

// gammaCorrect applies gamma correction to a colour component.
func gammaCorrect(v float64) float64 {
	if v <= 0.03928 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

// ContrastRatio calculates the contrast ratio between two colours according to
// WCAG 2.0. Returns a value between 1 and 21, where 21 is maximum contrast
// (black vs white). Meets WCAG AA for normal text at 4.5:1, large text at 3:1.
// https://www.w3.org/TR/WCAG20/#contrast-ratiodef.
func ContrastRatio(c1, c2 RGB) float64 {
	l1 := Luminance(c1)
	l2 := Luminance(c2)

	// Ensure l1 is the lighter colour.
	if l1 < l2 {
		l1, l2 = l2, l1
	}

	return (l1 + 0.05) / (l2 + 0.05)
}
