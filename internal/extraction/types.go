// Package extraction is the client for the remote colour extraction service.
package extraction

import (
	"fmt"

	"github.com/jmylchreest/brandstream/internal/colour"
	"github.com/jmylchreest/brandstream/internal/selection"
)

// Params is one extraction request. It is built fresh per request and not
// modified afterwards.
type Params struct {
	NumColors int
	Image     *selection.File
}

// NewParams validates and builds request parameters.
func NewParams(f *selection.File, numColors int) (Params, error) {
	if f == nil {
		return Params{}, selection.ErrNoFile
	}
	if numColors < 1 {
		return Params{}, fmt.Errorf("color count must be at least 1, got %d", numColors)
	}
	return Params{NumColors: numColors, Image: f}, nil
}

// ColorResult is one palette entry returned by the service.
type ColorResult struct {
	Hex        string  `json:"hex" yaml:"hex"`
	RGB        string  `json:"rgb" yaml:"rgb"`
	RGBValues  [3]int  `json:"rgb_values" yaml:"rgb_values"`
	CMYK       string  `json:"cmyk" yaml:"cmyk"`
	CMYKValues []int   `json:"cmyk_values,omitempty" yaml:"cmyk_values,omitempty"`
	ColorName  string  `json:"color_name" yaml:"color_name"`
	Percentage float64 `json:"percentage" yaml:"percentage"`
}

// Value returns the entry's colour from its component triple.
func (c ColorResult) Value() colour.RGB {
	return colour.FromTriple(c.RGBValues)
}

// Palette is the ordered result of one extraction.
type Palette []ColorResult

// response is the wire shape: either an error or a list of colours.
type response struct {
	Error  *string      `json:"error"`
	Colors []wireColour `json:"colors"`
}

// wireColour keeps rgb_values loose so a short or missing triple can be
// repaired from the hex field.
type wireColour struct {
	Hex        string  `json:"hex"`
	RGB        string  `json:"rgb"`
	RGBValues  []int   `json:"rgb_values"`
	CMYK       string  `json:"cmyk"`
	CMYKValues []int   `json:"cmyk_values"`
	ColorName  string  `json:"color_name"`
	Percentage float64 `json:"percentage"`
}

// normalise fills fields the service left out so every card is complete.
func (w wireColour) normalise() (ColorResult, error) {
	var rgb colour.RGB
	switch {
	case len(w.RGBValues) >= 3:
		rgb = colour.FromTriple([3]int{w.RGBValues[0], w.RGBValues[1], w.RGBValues[2]})
	case w.Hex != "":
		parsed, err := colour.ParseHex(w.Hex)
		if err != nil {
			return ColorResult{}, err
		}
		rgb = parsed
	default:
		return ColorResult{}, fmt.Errorf("colour has neither rgb_values nor hex")
	}

	c := ColorResult{
		Hex:        w.Hex,
		RGB:        w.RGB,
		RGBValues:  [3]int{int(rgb.R), int(rgb.G), int(rgb.B)},
		CMYK:       w.CMYK,
		CMYKValues: w.CMYKValues,
		ColorName:  w.ColorName,
		Percentage: w.Percentage,
	}
	if c.Hex == "" {
		c.Hex = rgb.Hex()
	}
	if c.RGB == "" {
		c.RGB = rgb.String()
	}
	if c.CMYK == "" {
		c.CMYK = colour.ToCMYK(rgb).String()
	}
	if c.ColorName == "" {
		c.ColorName = colour.Name(rgb)
	}
	return c, nil
}

// ServiceError is an error the service reported in its response body.
type ServiceError struct {
	Message    string
	StatusCode int
}

// Error returns the service's message.
func (e *ServiceError) Error() string {
	return e.Message
}
