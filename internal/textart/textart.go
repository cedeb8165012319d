// Package textart renders raster images as density-ramp text.
//
// The image is sampled on a grid: every scale-th column and every
// (2*scale)-th row, the doubled vertical stride compensating for character
// cells being about twice as tall as they are wide. Each sample's intensity
// picks a glyph from Ramp, and each sampled row ends with a newline.
package textart

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
)

// Ramp maps intensity bands of width 32 to glyphs, lightest to densest.
// The first band is the empty string, so dark and transparent samples
// produce no output at all.
var Ramp = [8]string{"", ".", ",", "-", "~", "+", "=", "@"}

// ErrInvalidScale is returned for a sampling stride below 1.
var ErrInvalidScale = errors.New("text art scale must be at least 1")

// Intensity returns R/3 + G/3 + B/3, each term truncated before summing.
// Fully transparent samples have intensity 0.
func Intensity(c color.NRGBA) uint8 {
	if c.A == 0 {
		return 0
	}
	return c.R/3 + c.G/3 + c.B/3
}

// Glyph returns the ramp glyph for an intensity.
func Glyph(intensity uint8) string {
	return Ramp[intensity/32]
}

// Render writes the text-art rendering of img to w.
//
// Output streams through a fixed-size buffered writer; the whole rendering is
// never held in memory. A scale wider than the image samples only the first
// row and column, so it is reduced to the larger image dimension.
func Render(w io.Writer, img image.Image, scale int) error {
	if scale < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidScale, scale)
	}

	bw := bufio.NewWriter(w)
	b := img.Bounds()
	if limit := max(b.Dx(), b.Dy(), 1); scale > limit {
		scale = limit
	}
	for y := 0; y < b.Dy(); y += 2 * scale {
		for x := 0; x < b.Dx(); x += scale {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			if _, err := bw.WriteString(Glyph(Intensity(c))); err != nil {
				return err
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}
