package image

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"golang.org/x/image/draw"
)

// ANSI escape codes for terminal colours.
const (
	ansiReset    = "\033[0m"
	ansiFgPrefix = "\033[38;2;"
	ansiBgPrefix = "\033[48;2;"
	ansiSuffix   = "m"
	halfBlock    = "▀"
)

// Thumbnail scales img to fit within maxW x maxH, preserving aspect ratio.
// Transparent areas are composited onto white as the service does.
func Thumbnail(img image.Image, maxW, maxH int) *image.RGBA {
	b := img.Bounds()
	if maxW <= 0 || maxH <= 0 || b.Empty() {
		return image.NewRGBA(image.Rect(0, 0, 0, 0))
	}

	w, h := maxW, b.Dy()*maxW/b.Dx()
	if h > maxH {
		w, h = b.Dx()*maxH/b.Dy(), maxH
	}
	w = max(w, 1)
	h = max(h, 1)

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

// HalfBlocks renders img as rows of "▀" characters, packing two pixel rows
// into one terminal line (top pixel as foreground, bottom as background).
func HalfBlocks(img image.Image) string {
	b := img.Bounds()
	var sb strings.Builder
	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		for x := b.Min.X; x < b.Max.X; x++ {
			top := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			bottom := color.RGBA{R: 255, G: 255, B: 255, A: 255}
			if y+1 < b.Max.Y {
				bottom = color.RGBAModel.Convert(img.At(x, y+1)).(color.RGBA)
			}
			fmt.Fprintf(&sb, "%s%d;%d;%d%s%s%d;%d;%d%s%s",
				ansiFgPrefix, top.R, top.G, top.B, ansiSuffix,
				ansiBgPrefix, bottom.R, bottom.G, bottom.B, ansiSuffix,
				halfBlock)
		}
		sb.WriteString(ansiReset)
		if y+2 < b.Max.Y {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
