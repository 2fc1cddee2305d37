package colour

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// LuminanceThreshold is the perceived-luminance cut-off (0-255 scale) used to
// pick a readable foreground. Values at or below it get light text.
const LuminanceThreshold = 150.0

var (
	// White is the light foreground used on dark swatches.
	White = RGB{R: 0xff, G: 0xff, B: 0xff}

	// Black is the dark foreground used on light swatches in cards.
	Black = RGB{R: 0x00, G: 0x00, B: 0x00}

	// Charcoal is the dark foreground used for labels on exported images.
	Charcoal = RGB{R: 0x33, G: 0x33, B: 0x33}
)

// PerceivedLuminance returns 0.299R + 0.587G + 0.114B on a 0-255 scale.
func PerceivedLuminance(rgb RGB) float64 {
	return 0.299*float64(rgb.R) + 0.587*float64(rgb.G) + 0.114*float64(rgb.B)
}

// IsLight reports whether a swatch is bright enough to need dark text.
func IsLight(rgb RGB) bool {
	return PerceivedLuminance(rgb) > LuminanceThreshold
}

// Foreground returns the card text colour for a swatch: Black on light
// swatches, White otherwise.
func Foreground(bg RGB) RGB {
	return ForegroundWith(bg, Black, White)
}

// ForegroundWith picks dark when the background is light and light otherwise.
func ForegroundWith(bg, dark, light RGB) RGB {
	if IsLight(bg) {
		return dark
	}
	return light
}

// CMYK holds whole-percent CMYK components.
type CMYK struct {
	C, M, Y, K int
}

// String returns "cmyk(c%, m%, y%, k%)".
func (c CMYK) String() string {
	return fmt.Sprintf("cmyk(%d%%, %d%%, %d%%, %d%%)", c.C, c.M, c.Y, c.K)
}

// ToCMYK converts RGB to rounded CMYK percentages. Pure black maps to
// 0/0/0/100 to avoid dividing by zero.
func ToCMYK(rgb RGB) CMYK {
	r := float64(rgb.R) / 255.0
	g := float64(rgb.G) / 255.0
	b := float64(rgb.B) / 255.0

	k := 1 - math.Max(r, math.Max(g, b))
	if k == 1 {
		return CMYK{K: 100}
	}

	c := (1 - r - k) / (1 - k)
	m := (1 - g - k) / (1 - k)
	y := (1 - b - k) / (1 - k)

	return CMYK{
		C: int(math.RoundToEven(c * 100)),
		M: int(math.RoundToEven(m * 100)),
		Y: int(math.RoundToEven(y * 100)),
		K: int(math.RoundToEven(k * 100)),
	}
}

// Name returns a coarse English name for a colour based on its HSV
// coordinates. Greys are split by value, chromatic colours by hue band.
func Name(rgb RGB) string {
	h, s, v := colorful.Color{
		R: float64(rgb.R) / 255.0,
		G: float64(rgb.G) / 255.0,
		B: float64(rgb.B) / 255.0,
	}.Hsv()

	if s < 0.1 {
		switch {
		case v < 0.2:
			return "Black"
		case v < 0.5:
			return "Dark Gray"
		case v < 0.8:
			return "Gray"
		default:
			return "White"
		}
	}

	switch {
	case h < 30:
		if s > 0.6 {
			return "Red"
		}
		return "Brown"
	case h < 50:
		return "Orange"
	case h < 90:
		return "Yellow"
	case h < 150:
		return "Green"
	case h < 210:
		return "Cyan"
	case h < 270:
		return "Blue"
	case h < 330:
		return "Purple"
	default:
		if v > 0.8 {
			return "Pink"
		}
		return "Red"
	}
}
