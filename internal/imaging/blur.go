package imaging

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/blur"
	"github.com/disintegration/imaging"
)

// Blur smooths img with a Gaussian kernel of the given radius.
//
// The convolution itself is done by bild; this function only normalizes the
// result back to NRGBA. A radius of zero or less returns an unblurred copy.
// Radii beyond the image diagonal are reduced to it, since a wider kernel
// reaches no further pixels.
func Blur(img image.Image, radius float64) *image.NRGBA {
	if radius <= 0 || math.IsNaN(radius) {
		return imaging.Clone(img)
	}
	if limit := MaxBlurRadius(img.Bounds()); radius > limit {
		radius = limit
	}
	return imaging.Clone(blur.Gaussian(img, radius))
}

// MaxBlurRadius returns the largest radius Blur applies to an image with
// bounds b: the length of its diagonal.
func MaxBlurRadius(b image.Rectangle) float64 {
	return math.Max(1, math.Hypot(float64(b.Dx()), float64(b.Dy())))
}
