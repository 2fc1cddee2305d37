// Package export renders a palette into a flat PNG image.
package export

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/jmylchreest/brandstream/internal/colour"
)

const (
	// Width and Height are the fixed canvas size.
	Width  = 1000
	Height = 500

	// FooterHeight is the branded band across the bottom.
	FooterHeight = 60

	// DefaultFilename is the name of the downloaded image.
	DefaultFilename = "brand-palette.png"

	// DefaultCaption is the footer text.
	DefaultCaption = "Brand Palette | Generated with BrandStream"

	labelSize   = 14
	captionSize = 20

	// labelOffset is the baseline distance of swatch labels above the canvas bottom.
	labelOffset = 75
	// captionOffset is the baseline distance of the caption above the canvas bottom.
	captionOffset = 25
)

// ErrNoSwatches is returned when there is nothing to export.
var ErrNoSwatches = errors.New("no palette to export")

// BrandColour is the footer band colour, 90% opaque.
var BrandColour = color.NRGBA{R: 0, G: 102, B: 204, A: 230}

// Renderer draws palette images. The zero value is not usable; use NewRenderer.
type Renderer struct {
	caption     string
	labelFace   font.Face
	captionFace font.Face
}

// NewRenderer parses the bundled Go fonts.
func NewRenderer(caption string) (*Renderer, error) {
	if caption == "" {
		caption = DefaultCaption
	}

	regular, err := loadFace(goregular.TTF, labelSize)
	if err != nil {
		return nil, fmt.Errorf("failed to load label font: %w", err)
	}
	bold, err := loadFace(gobold.TTF, captionSize)
	if err != nil {
		return nil, fmt.Errorf("failed to load caption font: %w", err)
	}

	return &Renderer{caption: caption, labelFace: regular, captionFace: bold}, nil
}

func loadFace(ttf []byte, size float64) (font.Face, error) {
	f, err := opentype.Parse(ttf)
	if err != nil {
		return nil, err
	}
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// Render draws swatches left to right in the given order on a white
// canvas. Each band spans the canvas height minus the footer and carries
// its uppercase hex code centred near the bottom, dark on light swatches
// and white on dark ones. The branded footer is drawn last, over the bands.
func (r *Renderer) Render(swatches []colour.RGB) (*image.RGBA, error) {
	if len(swatches) == 0 {
		return nil, ErrNoSwatches
	}

	canvas := image.NewRGBA(image.Rect(0, 0, Width, Height))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)

	colourWidth := float64(Width) / float64(len(swatches))
	for i, sw := range swatches {
		x0 := int(math.Round(float64(i) * colourWidth))
		x1 := int(math.Round(float64(i+1) * colourWidth))
		band := image.Rect(x0, 0, x1, Height-FooterHeight)
		draw.Draw(canvas, band, image.NewUniform(sw.RGBA()), image.Point{}, draw.Src)

		label := colour.ForegroundWith(sw, colour.Charcoal, colour.White)
		centre := (float64(i) + 0.5) * colourWidth
		drawCentred(canvas, r.labelFace, sw.HexUpper(), label.RGBA(), centre, Height-labelOffset)
	}

	footer := image.Rect(0, Height-FooterHeight, Width, Height)
	draw.Draw(canvas, footer, image.NewUniform(BrandColour), image.Point{}, draw.Over)
	drawCentred(canvas, r.captionFace, r.caption, color.White, float64(Width)/2, Height-captionOffset)

	return canvas, nil
}

// drawCentred draws text with its advance centred on x and its baseline at y.
func drawCentred(dst draw.Image, face font.Face, text string, c color.Color, x float64, y int) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
	}
	advance := d.MeasureString(text)
	d.Dot = fixed.Point26_6{
		X: fixed.Int26_6(x*64) - advance/2,
		Y: fixed.I(y),
	}
	d.DrawString(text)
}

// WritePNG renders swatches and encodes the image to w.
func (r *Renderer) WritePNG(w io.Writer, swatches []colour.RGB) error {
	img, err := r.Render(swatches)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}

// Save writes the PNG into dir under filename (DefaultFilename if empty)
// and returns the full path. The file is written to a temporary name first
// so a failed export never leaves a truncated image behind.
func (r *Renderer) Save(dir, filename string, swatches []colour.RGB) (string, error) {
	if len(swatches) == 0 {
		return "", ErrNoSwatches
	}
	if filename == "" {
		filename = DefaultFilename
	}
	if err := os.MkdirAll(dir, 0o755); err != nil { // #nosec G301 - Download directory needs standard permissions
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".brand-palette-*.png")
	if err != nil {
		return "", fmt.Errorf("failed to create export file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := r.WritePNG(tmp, swatches); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	path := filepath.Join(dir, filename)
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("failed to save export file: %w", err)
	}
	if err := os.Chmod(path, 0o644); err != nil { // #nosec G302 - Exported images need standard read permissions
		return "", fmt.Errorf("failed to set export file permissions: %w", err)
	}
	return path, nil
}
