package imaging

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// DefaultCutoff is the luminance above which Threshold marks a pixel as
// foreground.
const DefaultCutoff uint8 = 127

var (
	maskBlack = color.NRGBA{0, 0, 0, 255}
	maskWhite = color.NRGBA{255, 255, 255, 255}
)

// Threshold builds a binary mask from img: pixels whose grayscale luminance
// exceeds cutoff become opaque black (0,0,0,255), every other pixel becomes
// opaque white (255,255,255,255). No other color ever appears in the result.
func Threshold(img image.Image, cutoff uint8) *image.NRGBA {
	gray := imaging.Grayscale(img)
	dst := image.NewNRGBA(gray.Bounds())
	for i := 0; i+3 < len(gray.Pix); i += 4 {
		c := maskWhite
		if gray.Pix[i] > cutoff {
			c = maskBlack
		}
		dst.Pix[i+0] = c.R
		dst.Pix[i+1] = c.G
		dst.Pix[i+2] = c.B
		dst.Pix[i+3] = c.A
	}
	return dst
}

// Masks holds a threshold mask and its inverse.
//
// Mask is white where the source is dark (background) and black where it is
// bright; Inverse is the opposite. Both are fully opaque.
type Masks struct {
	Mask    *image.NRGBA
	Inverse *image.NRGBA
}

// CreateMask thresholds img at cutoff and returns the mask together with its
// channel-inverted counterpart.
func CreateMask(img image.Image, cutoff uint8) Masks {
	mask := Threshold(img, cutoff)
	return Masks{
		Mask:    mask,
		Inverse: imaging.Invert(mask),
	}
}

// BitwiseAnd combines src and mask with a per-pixel, per-channel bitwise AND
// across all four channels. Where mask is white src passes through; where it
// is black the color channels are cleared.
//
// src and mask must have identical dimensions; otherwise the returned error
// matches ErrDimensionMismatch.
func BitwiseAnd(src, mask image.Image) (*image.NRGBA, error) {
	if err := checkSameSize("bitwise and", src, mask); err != nil {
		return nil, err
	}
	a, b := imaging.Clone(src), imaging.Clone(mask)
	dst := image.NewNRGBA(a.Bounds())
	for i := range dst.Pix {
		dst.Pix[i] = a.Pix[i] & b.Pix[i]
	}
	return dst, nil
}

// Add sums two images channel by channel, saturating at 255 instead of
// wrapping (250+10 gives 255). All four channels are added.
//
// a and b must have identical dimensions; otherwise the returned error
// matches ErrDimensionMismatch.
func Add(a, b image.Image) (*image.NRGBA, error) {
	if err := checkSameSize("add", a, b); err != nil {
		return nil, err
	}
	pa, pb := imaging.Clone(a), imaging.Clone(b)
	dst := image.NewNRGBA(pa.Bounds())
	for i := range dst.Pix {
		sum := uint16(pa.Pix[i]) + uint16(pb.Pix[i])
		if sum > 255 {
			sum = 255
		}
		dst.Pix[i] = uint8(sum)
	}
	return dst, nil
}

// ResizeFrom copies canvas into the coordinate space of an image of the given
// size: pixel (x,y) of the result is pixel (x,y) of canvas. Coordinates that
// fall outside canvas are left transparent, and nothing outside size is ever
// written.
func ResizeFrom(canvas image.Image, size image.Point) *image.NRGBA {
	dst := imaging.New(size.X, size.Y, color.NRGBA{})
	return imaging.Paste(dst, canvas, image.Pt(0, 0))
}

// TransparentOverlay returns a copy of canvas with overlay drawn on top at the
// same coordinates. Fully transparent overlay pixels are skipped, as is any
// part of overlay that lies outside canvas.
func TransparentOverlay(canvas, overlay image.Image) *image.NRGBA {
	dst := imaging.Clone(canvas)
	src := imaging.Clone(overlay)

	area := dst.Bounds().Intersect(src.Bounds())
	for y := area.Min.Y; y < area.Max.Y; y++ {
		for x := area.Min.X; x < area.Max.X; x++ {
			si := src.PixOffset(x, y)
			if src.Pix[si+3] == 0 {
				continue
			}
			di := dst.PixOffset(x, y)
			copy(dst.Pix[di:di+4], src.Pix[si:si+4])
		}
	}
	return dst
}

// Composite places logo over the top-left corner of canvas using masked
// compositing:
//
//  1. the canvas region under the logo is cut out (ResizeFrom)
//  2. the logo is thresholded at cutoff into a mask and its inverse
//  3. the mask keeps the region's background, the inverse keeps the logo's
//     bright foreground (BitwiseAnd)
//  4. the two halves are merged (Add) and written back onto the canvas
//     (TransparentOverlay)
//
// The masks used are returned so callers can inspect or persist them.
func Composite(canvas, logo image.Image, cutoff uint8) (*image.NRGBA, Masks, error) {
	roi := ResizeFrom(canvas, logo.Bounds().Size())
	masks := CreateMask(logo, cutoff)

	background, err := BitwiseAnd(roi, masks.Mask)
	if err != nil {
		return nil, Masks{}, err
	}
	foreground, err := BitwiseAnd(logo, masks.Inverse)
	if err != nil {
		return nil, Masks{}, err
	}
	merged, err := Add(background, foreground)
	if err != nil {
		return nil, Masks{}, err
	}
	return TransparentOverlay(canvas, merged), masks, nil
}
