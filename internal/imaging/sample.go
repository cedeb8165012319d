package imaging

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"sort"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// RGBColor represents an RGB color with 8-bit components.
type RGBColor struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// RGBAColor represents an RGBA color with 8-bit components including alpha.
//
// The alpha component is straight (not premultiplied):
//   - 0 = fully transparent
//   - 255 = fully opaque
type RGBAColor struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-359 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// ColorResult contains a color value in multiple representations.
//
// The Hex form excludes alpha; use RGBA.A to get transparency information.
type ColorResult struct {
	Hex  string    `json:"hex"` // "#rrggbb"
	RGB  RGBColor  `json:"rgb"`
	RGBA RGBAColor `json:"rgba"`
	HSL  HSLColor  `json:"hsl"`
}

// SampleColor extracts the color value at a specific pixel coordinate.
//
// Coordinates are 0-based with origin at the top-left of img's bounds:
//   - Valid X range: 0 to width-1
//   - Valid Y range: 0 to height-1
//
// The color is read as straight 8-bit NRGBA, so a translucent pixel reports
// its own color rather than one darkened by its alpha.
func SampleColor(img image.Image, x, y int) (*ColorResult, error) {
	b := img.Bounds()
	if x < 0 || y < 0 || x >= b.Dx() || y >= b.Dy() {
		return nil, fmt.Errorf("%w: (%d,%d) in %dx%d", ErrOutOfBounds, x, y, b.Dx(), b.Dy())
	}
	c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
	return newColorResult(c), nil
}

func newColorResult(c color.NRGBA) *ColorResult {
	cf := toColorful(c.R, c.G, c.B)
	return &ColorResult{
		Hex:  cf.Hex(),
		RGB:  RGBColor{R: c.R, G: c.G, B: c.B},
		RGBA: RGBAColor{R: c.R, G: c.G, B: c.B, A: c.A},
		HSL:  toHSL(cf),
	}
}

func toColorful(r, g, b uint8) colorful.Color {
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}

// toHSL rounds go-colorful's HSL to whole degrees and percentages.
func toHSL(c colorful.Color) HSLColor {
	h, s, l := c.Hsl()
	hue := int(math.Round(h)) % 360
	return HSLColor{H: hue, S: int(math.Round(s * 100)), L: int(math.Round(l * 100))}
}

// LabeledPoint represents a pixel coordinate with an optional descriptive label.
type LabeledPoint struct {
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Label string `json:"label,omitempty"`
}

// LabeledColorResult combines a color sample with its location and optional label.
type LabeledColorResult struct {
	Label string      `json:"label,omitempty"`
	X     int         `json:"x"`
	Y     int         `json:"y"`
	Color ColorResult `json:"color"`
}

// MultiColorResult contains color samples from multiple points, in the
// order the points were given.
type MultiColorResult struct {
	Samples []LabeledColorResult `json:"samples"`
}

// SampleColors extracts colors at multiple pixel coordinates in one call.
// If any point is outside the image no partial result is returned.
func SampleColors(img image.Image, points []LabeledPoint) (*MultiColorResult, error) {
	results := make([]LabeledColorResult, 0, len(points))
	for i, p := range points {
		c, err := SampleColor(img, p.X, p.Y)
		if err != nil {
			return nil, fmt.Errorf("failed to sample point %d: %w", i, err)
		}
		results = append(results, LabeledColorResult{Label: p.Label, X: p.X, Y: p.Y, Color: *c})
	}
	return &MultiColorResult{Samples: results}, nil
}

// Region represents a rectangular region within an image.
//
// (X1, Y1) is the top-left corner (inclusive) and (X2, Y2) the bottom-right
// corner (exclusive), both relative to the image origin.
type Region struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// ColorFrequency represents a quantized color and its share of the pixels.
type ColorFrequency struct {
	Hex        string   `json:"hex"`
	Percentage float64  `json:"percentage"` // 0-100
	RGB        RGBColor `json:"rgb"`
}

// DominantColorsResult contains the most frequent colors, most common first.
type DominantColorsResult struct {
	Colors []ColorFrequency `json:"colors"`
}

// DominantColors returns up to count of the most common colors in img, or in
// region of it when region is non-nil.
//
// Colors are grouped by quantizing each channel down to a multiple of 16, so
// #F0F0F0 and #FAFAFA count as the same color. Fully transparent pixels are
// skipped. The region is clipped to the image; an empty region or a count
// below 1 yields no colors. Ties are ordered by hex value.
func DominantColors(img image.Image, count int, region *Region) *DominantColorsResult {
	b := img.Bounds()
	area := b
	if region != nil {
		area = image.Rect(region.X1, region.Y1, region.X2, region.Y2).Add(b.Min).Intersect(b)
	}

	counts := make(map[RGBColor]int)
	total := 0
	for y := area.Min.Y; y < area.Max.Y; y++ {
		for x := area.Min.X; x < area.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if c.A == 0 {
				continue
			}
			counts[RGBColor{R: c.R &^ 0x0F, G: c.G &^ 0x0F, B: c.B &^ 0x0F}]++
			total++
		}
	}

	colors := make([]ColorFrequency, 0, len(counts))
	for rgb, n := range counts {
		colors = append(colors, ColorFrequency{
			Hex:        toColorful(rgb.R, rgb.G, rgb.B).Hex(),
			Percentage: float64(n) / float64(total) * 100,
			RGB:        rgb,
		})
	}
	sort.Slice(colors, func(i, j int) bool {
		if colors[i].Percentage != colors[j].Percentage {
			return colors[i].Percentage > colors[j].Percentage
		}
		return colors[i].Hex < colors[j].Hex
	})

	if count < 0 {
		count = 0
	}
	if len(colors) > count {
		colors = colors[:count]
	}
	return &DominantColorsResult{Colors: colors}
}
