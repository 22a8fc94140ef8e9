package components

import (
	"image"
	"image/color"
	"image/draw"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const placeholderLineHeight = 16

// NewPlaceholder draws a bordered panel-sized bitmap with centred text lines.
// Lines wider than the bitmap are wrapped on spaces.
func NewPlaceholder(width, height int, background, ink color.Color, lines ...string) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	border := color.RGBA{R: 200, G: 200, B: 200, A: 255}
	for x := 0; x < width; x++ {
		img.Set(x, 0, border)
		img.Set(x, height-1, border)
	}
	for y := 0; y < height; y++ {
		img.Set(0, y, border)
		img.Set(width-1, y, border)
	}

	face := basicfont.Face7x13
	drawer := &font.Drawer{Dst: img, Src: image.NewUniform(ink), Face: face}

	wrapped := wrapLines(drawer, lines, width-16)
	y := (height-len(wrapped)*placeholderLineHeight)/2 + face.Ascent
	for _, line := range wrapped {
		w := drawer.MeasureString(line).Ceil()
		drawer.Dot = fixed.Point26_6{X: fixed.I((width - w) / 2), Y: fixed.I(y)}
		drawer.DrawString(line)
		y += placeholderLineHeight
	}

	return img
}

func wrapLines(drawer *font.Drawer, lines []string, maxWidth int) []string {
	var out []string
	for _, line := range lines {
		words := strings.Fields(line)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		current := words[0]
		for _, word := range words[1:] {
			candidate := current + " " + word
			if drawer.MeasureString(candidate).Ceil() > maxWidth {
				out = append(out, current)
				current = word
				continue
			}
			current = candidate
		}
		out = append(out, current)
	}
	return out
}
