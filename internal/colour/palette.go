// Package colour provides the colour model used by the palette client.
package colour

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// RGB represents a colour in 8-bit RGB format.
type RGB struct {
	R uint8 `json:"r" yaml:"r"`
	G uint8 `json:"g" yaml:"g"`
	B uint8 `json:"b" yaml:"b"`
}

// String returns the RGB colour as a string in the format "rgb(r, g, b)".
func (rgb RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", rgb.R, rgb.G, rgb.B)
}

// Hex returns the RGB colour as a lowercase hex string (e.g., "#1a2b3c").
func (rgb RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", rgb.R, rgb.G, rgb.B)
}

// HexUpper returns the RGB colour as an uppercase hex string (e.g., "#1A2B3C").
// This is the form printed on exported palette images.
func (rgb RGB) HexUpper() string {
	return fmt.Sprintf("#%02X%02X%02X", rgb.R, rgb.G, rgb.B)
}

// RGBA returns the colour as an opaque color.RGBA.
func (rgb RGB) RGBA() color.RGBA {
	return color.RGBA{R: rgb.R, G: rgb.G, B: rgb.B, A: 255}
}

// ToRGB converts a color.Color to RGB, discarding alpha.
func ToRGB(c color.Color) RGB {
	r, g, b, _ := c.RGBA()
	// RGBA returns values in the range [0, 65535], convert to [0, 255]
	return RGB{
		R: uint8(r >> 8),
		G: uint8(g >> 8),
		B: uint8(b >> 8),
	}
}

// FromTriple builds an RGB from a component triple as returned by the
// extraction service. Components outside 0-255 are clamped.
func FromTriple(v [3]int) RGB {
	return RGB{R: clampByte(v[0]), G: clampByte(v[1]), B: clampByte(v[2])}
}

func clampByte(v int) uint8 {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	default:
		return uint8(v)
	}
}

// ParseHex parses "#rgb" or "#rrggbb" (the leading # is optional, case is
// ignored) into an RGB value.
func ParseHex(s string) (RGB, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	if len(s) == 4 {
		s = "#" + strings.Repeat(s[1:2], 2) + strings.Repeat(s[2:3], 2) + strings.Repeat(s[3:4], 2)
	}

	c, err := colorful.Hex(strings.ToLower(s))
	if err != nil {
		return RGB{}, fmt.Errorf("invalid hex colour %q: %w", s, err)
	}

	r, g, b := c.RGB255()
	return RGB{R: r, G: g, B: b}, nil
}

// ParseCSS parses a resolved CSS colour as a style engine reports it:
// "rgb(r, g, b)", "rgba(r, g, b, a)" or a hex string.
func ParseCSS(s string) (RGB, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		return ParseHex(s)
	}

	var body string
	switch {
	case strings.HasPrefix(s, "rgba(") && strings.HasSuffix(s, ")"):
		body = s[len("rgba(") : len(s)-1]
	case strings.HasPrefix(s, "rgb(") && strings.HasSuffix(s, ")"):
		body = s[len("rgb(") : len(s)-1]
	default:
		return RGB{}, fmt.Errorf("unsupported colour syntax: %q", s)
	}

	parts := strings.Split(body, ",")
	if len(parts) < 3 {
		return RGB{}, fmt.Errorf("expected at least 3 components in %q", s)
	}

	var v [3]int
	for i := range v {
		if _, err := fmt.Sscanf(strings.TrimSpace(parts[i]), "%d", &v[i]); err != nil {
			return RGB{}, fmt.Errorf("invalid component %q in %q: %w", parts[i], s, err)
		}
	}
	return FromTriple(v), nil
}
