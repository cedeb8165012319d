package imaging

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Grayscale converts img to grayscale using the ITU-R BT.601 luminance
// weights (0.299*R + 0.587*G + 0.114*B, rounded). The output has R=G=B at
// every pixel and the alpha channel of the input.
func Grayscale(img image.Image) *image.NRGBA {
	return imaging.Grayscale(img)
}

// Invert replaces every R, G and B sample v with 255-v. Alpha is left
// untouched, so Invert(Invert(img)) reproduces img exactly.
func Invert(img image.Image) *image.NRGBA {
	return imaging.Invert(img)
}

// HueRotate shifts the hue of every pixel by degrees on the HSV color wheel.
//
// Saturation, value and alpha are preserved. Pixels with no saturation
// (grays, black, white) have no hue and come back unchanged. Negative angles
// rotate the other way; any angle is reduced modulo 360.
func HueRotate(img image.Image, degrees float64) *image.NRGBA {
	src := imaging.Clone(img)
	dst := image.NewNRGBA(src.Bounds())

	shift := normalizeDegrees(degrees)
	for i := 0; i+3 < len(src.Pix); i += 4 {
		s := src.Pix[i : i+4 : i+4]
		d := dst.Pix[i : i+4 : i+4]
		d[3] = s[3]

		if shift == 0 || (s[0] == s[1] && s[1] == s[2]) {
			d[0], d[1], d[2] = s[0], s[1], s[2]
			continue
		}

		c := colorful.Color{
			R: float64(s[0]) / 255,
			G: float64(s[1]) / 255,
			B: float64(s[2]) / 255,
		}
		h, sat, v := c.Hsv()
		d[0], d[1], d[2] = colorful.Hsv(normalizeDegrees(h+shift), sat, v).Clamped().RGB255()
	}
	return dst
}

// normalizeDegrees reduces an angle to [0, 360).
func normalizeDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	if deg >= 360 {
		deg = 0
	}
	return deg
}
