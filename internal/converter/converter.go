// Package converter chains image transforms through persisted artifacts.
//
// A Converter operation reads the image named by a Ref, runs one transform
// from the imaging package, writes the result as a new artifact and returns a
// Ref to it. Refs are plain values: the output of one operation is passed as
// the input of the next, and the original file is never written to.
//
//	gray, err := conv.Grayscale(converter.RefOf("photo.png"))
//	...
//	rotated, err := conv.Rotate(gray, 30)
//	...
//	err = conv.Save(rotated, "/out/photo-gray.jpg", imaging.JPEG)
//
// Session layers the mutable state of an interactive front end (current
// image, output format, last masks) on top of a Converter.
//
// Every operation returns an *Error carrying a Kind; nothing is retried.
package converter

import (
	"context"
	"image"

	"github.com/ironsheep/coffee-image/internal/artifact"
	"github.com/ironsheep/coffee-image/internal/imaging"
	"github.com/ironsheep/coffee-image/internal/textart"
)

// DefaultTextArtScale is the sampling stride used when none is configured.
const DefaultTextArtScale = 4

// Ref names an image file taking part in a conversion chain.
type Ref struct {
	path string
}

// RefOf returns a Ref for path.
func RefOf(path string) Ref {
	return Ref{path: path}
}

// Path returns the file the Ref names.
func (r Ref) Path() string { return r.path }

// IsZero reports whether r names no file.
func (r Ref) IsZero() bool { return r.path == "" }

func (r Ref) String() string { return r.path }

// Options configures a Converter.
type Options struct {
	// Format is the encoding of every image artifact.
	Format imaging.Format
	// Cutoff is the threshold luminance used when callers pass none.
	Cutoff uint8
	// TextArtScale is the sampling stride used when callers pass none.
	TextArtScale int
}

// DefaultOptions returns PNG output, a cutoff of 127 and a text-art scale of 4.
func DefaultOptions() Options {
	return Options{
		Format:       imaging.PNG,
		Cutoff:       imaging.DefaultCutoff,
		TextArtScale: DefaultTextArtScale,
	}
}

// Converter runs transforms and persists their results. It holds no
// per-chain state and is safe for concurrent use.
type Converter struct {
	store *artifact.Store
	cache *imaging.ImageCache
	opts  Options
}

// New returns a Converter writing artifacts to store and decoding through
// cache. A nil cache gets a private one.
func New(store *artifact.Store, cache *imaging.ImageCache, opts Options) *Converter {
	if cache == nil {
		cache = imaging.NewImageCache()
	}
	if opts.TextArtScale < 1 {
		opts.TextArtScale = DefaultTextArtScale
	}
	return &Converter{store: store, cache: cache, opts: opts}
}

// WithFormat returns a Converter sharing c's store and cache that writes
// artifacts in format.
func (c *Converter) WithFormat(format imaging.Format) *Converter {
	cp := *c
	cp.opts.Format = format
	return &cp
}

// Options returns the converter's configuration.
func (c *Converter) Options() Options { return c.opts }

// Store returns the artifact store results are written to.
func (c *Converter) Store() *artifact.Store { return c.store }

// Cache returns the decode cache.
func (c *Converter) Cache() *imaging.ImageCache { return c.cache }

func (c *Converter) load(src Ref) (*image.NRGBA, error) {
	if src.IsZero() {
		return nil, ErrNoSource
	}
	return c.cache.Load(src.path)
}

func (c *Converter) persist(img image.Image) (Ref, error) {
	path, err := c.store.PersistImage(img, c.opts.Format)
	if err != nil {
		return Ref{}, err
	}
	return RefOf(path), nil
}

// loadOperand decodes a second input that is not part of the chain. It is
// not kept in the cache.
func (c *Converter) loadOperand(ref Ref) (*image.NRGBA, error) {
	img, err := c.cache.Load(ref.path)
	c.cache.Evict(ref.path)
	return img, err
}

// apply decodes src, runs fn and persists its result. Once the result is
// persisted src is evicted from the cache: the chain has moved past it.
func (c *Converter) apply(op string, src Ref, fn func(*image.NRGBA) (*image.NRGBA, error)) (Ref, error) {
	img, err := c.load(src)
	if err != nil {
		return Ref{}, wrap(op, err)
	}
	out, err := fn(img)
	if err != nil {
		return Ref{}, wrap(op, err)
	}
	ref, err := c.persist(out)
	if err != nil {
		return Ref{}, wrap(op, err)
	}
	c.cache.Evict(src.path)
	return ref, nil
}

// Grayscale converts src to grayscale.
func (c *Converter) Grayscale(src Ref) (Ref, error) {
	return c.apply("grayscale", src, func(img *image.NRGBA) (*image.NRGBA, error) {
		return imaging.Grayscale(img), nil
	})
}

// Invert inverts the color channels of src; alpha is kept.
func (c *Converter) Invert(src Ref) (Ref, error) {
	return c.apply("invert", src, func(img *image.NRGBA) (*image.NRGBA, error) {
		return imaging.Invert(img), nil
	})
}

// HueRotate shifts the hue of src by degrees.
func (c *Converter) HueRotate(src Ref, degrees float64) (Ref, error) {
	return c.apply("hue rotate", src, func(img *image.NRGBA) (*image.NRGBA, error) {
		return imaging.HueRotate(img, degrees), nil
	})
}

// Blur applies a Gaussian blur of the given radius to src. ctx is checked
// before and after the blur itself, which cannot be interrupted.
func (c *Converter) Blur(ctx context.Context, src Ref, radius float64) (Ref, error) {
	return c.apply("blur", src, func(img *image.NRGBA) (*image.NRGBA, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out := imaging.Blur(img, radius)
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return out, nil
	})
}

// Rotate turns src about its center by degrees, growing the canvas to fit.
func (c *Converter) Rotate(src Ref, degrees float64) (Ref, error) {
	return c.apply("rotate", src, func(img *image.NRGBA) (*image.NRGBA, error) {
		return imaging.Rotate(img, degrees), nil
	})
}

// Add merges other into src with saturating per-channel addition. Both
// images must have the same size.
func (c *Converter) Add(src, other Ref) (Ref, error) {
	const op = "add"
	if other.IsZero() {
		return Ref{}, wrap(op, ErrDialogCancelled)
	}
	operand, err := c.loadOperand(other)
	if err != nil {
		return Ref{}, wrap(op, err)
	}
	return c.apply(op, src, func(img *image.NRGBA) (*image.NRGBA, error) {
		return imaging.Add(img, operand)
	})
}

// Threshold replaces src with its binary mask at cutoff. Masks are always
// persisted as PNG so every stored sample stays 0 or 255.
func (c *Converter) Threshold(src Ref, cutoff uint8) (Ref, error) {
	return c.WithFormat(imaging.PNG).apply("threshold", src, func(img *image.NRGBA) (*image.NRGBA, error) {
		return imaging.Threshold(img, cutoff), nil
	})
}

// MaskRefs names a persisted mask pair.
type MaskRefs struct {
	Mask    Ref
	Inverse Ref
}

// Mask builds the threshold mask of src and its inverse and persists both as
// PNG, whatever the configured format. The masks are also returned decoded
// so they can be reused without a round trip through disk.
func (c *Converter) Mask(src Ref, cutoff uint8) (MaskRefs, imaging.Masks, error) {
	const op = "mask"
	img, err := c.load(src)
	if err != nil {
		return MaskRefs{}, imaging.Masks{}, wrap(op, err)
	}
	masks := imaging.CreateMask(img, cutoff)

	asPNG := c.WithFormat(imaging.PNG)
	mask, err := asPNG.persist(masks.Mask)
	if err != nil {
		return MaskRefs{}, imaging.Masks{}, wrap(op, err)
	}
	inverse, err := asPNG.persist(masks.Inverse)
	if err != nil {
		return MaskRefs{}, imaging.Masks{}, wrap(op, err)
	}
	return MaskRefs{Mask: mask, Inverse: inverse}, masks, nil
}

// Composite overlays logo onto the top-left corner of canvas through a
// threshold mask of the logo at cutoff. The masks used are returned
// alongside the new Ref.
func (c *Converter) Composite(canvas, logo Ref, cutoff uint8) (Ref, imaging.Masks, error) {
	const op = "composite"
	if logo.IsZero() {
		return Ref{}, imaging.Masks{}, wrap(op, ErrDialogCancelled)
	}
	overlay, err := c.loadOperand(logo)
	if err != nil {
		return Ref{}, imaging.Masks{}, wrap(op, err)
	}

	var masks imaging.Masks
	ref, err := c.apply(op, canvas, func(img *image.NRGBA) (*image.NRGBA, error) {
		out, m, err := imaging.Composite(img, overlay, cutoff)
		masks = m
		return out, err
	})
	if err != nil {
		return Ref{}, imaging.Masks{}, err
	}
	return ref, masks, nil
}

// TextArt renders src as text art into a new text artifact. A scale of zero
// selects the configured default. The returned file is closed and can be
// read back with ReadAll.
func (c *Converter) TextArt(src Ref, scale int) (*artifact.TextFile, error) {
	const op = "text art"
	if scale == 0 {
		scale = c.opts.TextArtScale
	}
	if scale < 1 {
		return nil, wrap(op, textart.ErrInvalidScale)
	}

	img, err := c.load(src)
	if err != nil {
		return nil, wrap(op, err)
	}
	tf, err := c.store.CreateText()
	if err != nil {
		return nil, wrap(op, err)
	}
	if err := textart.Render(tf, img, scale); err != nil {
		tf.Close()
		return nil, wrap(op, err)
	}
	if err := tf.Close(); err != nil {
		return nil, wrap(op, err)
	}
	return tf, nil
}

// Save re-encodes src to dest in format. dest is written directly; it is not
// part of the artifact chain. An empty dest means the save was cancelled.
func (c *Converter) Save(src Ref, dest string, format imaging.Format) error {
	const op = "save"
	if dest == "" {
		return wrap(op, ErrDialogCancelled)
	}
	img, err := c.load(src)
	if err != nil {
		return wrap(op, err)
	}
	return wrap(op, imaging.EncodeFile(dest, img, format))
}

// SampleColors reads the colors of src at points. Nothing is persisted.
func (c *Converter) SampleColors(src Ref, points []imaging.LabeledPoint) (*imaging.MultiColorResult, error) {
	const op = "sample colors"
	img, err := c.load(src)
	if err != nil {
		return nil, wrap(op, err)
	}
	res, err := imaging.SampleColors(img, points)
	return res, wrap(op, err)
}

// DominantColors returns the count most common colors of src, or of region
// of it when region is non-nil. Nothing is persisted.
func (c *Converter) DominantColors(src Ref, count int, region *imaging.Region) (*imaging.DominantColorsResult, error) {
	img, err := c.load(src)
	if err != nil {
		return nil, wrap("dominant colors", err)
	}
	return imaging.DominantColors(img, count, region), nil
}

// Info returns the dimensions and format of the image src names.
func (c *Converter) Info(src Ref) (*imaging.ImageInfo, error) {
	if src.IsZero() {
		return nil, wrap("info", ErrNoSource)
	}
	info, err := imaging.LoadImageInfo(c.cache, src.path)
	return info, wrap("info", err)
}
