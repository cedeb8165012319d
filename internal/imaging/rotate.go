package imaging

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// Rotate turns img about its center by degrees using inverse mapping.
//
// The output canvas is the bounding box of the rotated image:
//
//	newW = floor(|cos θ|*w + |sin θ|*h)
//	newH = floor(|sin θ|*w + |cos θ|*h)
//
// For every destination pixel, its center's offset from the new canvas center
// is rotated by -θ and added to the source center; the source pixel
// containing that point is copied (nearest neighbour, no interpolation).
// Destination pixels whose source point lies outside the original bounds stay
// fully transparent.
//
// Rotation by 0 is an exact copy. Rotation by 360 yields the original size
// and content.
func Rotate(img image.Image, degrees float64) *image.NRGBA {
	src := imaging.Clone(img)
	w, h := src.Bounds().Dx(), src.Bounds().Dy()

	theta := degrees * math.Pi / 180
	sin, cos := math.Sincos(theta)

	newW := int(math.Floor(math.Abs(cos)*float64(w) + math.Abs(sin)*float64(h)))
	newH := int(math.Floor(math.Abs(sin)*float64(w) + math.Abs(cos)*float64(h)))
	dst := image.NewNRGBA(image.Rect(0, 0, newW, newH))

	cx, cy := float64(w)/2, float64(h)/2
	ncx, ncy := float64(newW)/2, float64(newH)/2

	for y := 0; y < newH; y++ {
		dy := float64(y) + 0.5 - ncy
		for x := 0; x < newW; x++ {
			dx := float64(x) + 0.5 - ncx

			sx := int(math.Floor(dx*cos + dy*sin + cx))
			sy := int(math.Floor(-dx*sin + dy*cos + cy))
			if sx < 0 || sx >= w || sy < 0 || sy >= h {
				continue
			}

			si := src.PixOffset(sx, sy)
			di := dst.PixOffset(x, y)
			copy(dst.Pix[di:di+4], src.Pix[si:si+4])
		}
	}
	return dst
}
