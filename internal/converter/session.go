package converter

import (
	"context"
	"sync"

	"github.com/ironsheep/coffee-image/internal/artifact"
	"github.com/ironsheep/coffee-image/internal/imaging"
)

// Session tracks the image an interactive user is working on. Each
// successful transform moves the session to the artifact it produced; a
// failed one leaves it where it was. Operations are serialized.
type Session struct {
	mu      sync.Mutex
	conv    *Converter
	format  imaging.Format
	current Ref
	history []Ref
	masks   *imaging.Masks
}

// NewSession returns a Session with no image selected, writing artifacts in
// conv's configured format.
func NewSession(conv *Converter) *Session {
	return &Session{conv: conv, format: conv.Options().Format}
}

// Converter returns the converter the session runs on.
func (s *Session) Converter() *Converter { return s.conv }

// Open selects path as the current image. An empty path means the picker
// was closed and leaves the session unchanged. The file is decoded once so
// an unreadable selection is reported here rather than by the first
// transform.
func (s *Session) Open(path string) (Ref, error) {
	if path == "" {
		return Ref{}, wrap("open", ErrDialogCancelled)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	// The user may have edited the file since it was last opened.
	s.conv.Cache().Evict(path)
	ref := RefOf(path)
	if _, err := s.conv.load(ref); err != nil {
		return Ref{}, wrap("open", err)
	}
	s.current = ref
	s.history = append(s.history[:0], ref)
	s.masks = nil
	return ref, nil
}

// Current returns the image the next operation reads, and whether one is
// selected.
func (s *Session) Current() (Ref, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, !s.current.IsZero()
}

// History returns every image the session has moved through since the last
// Open, oldest first.
func (s *Session) History() []Ref {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Ref, len(s.history))
	copy(out, s.history)
	return out
}

// SetFormat selects the encoding of later artifacts.
func (s *Session) SetFormat(format imaging.Format) {
	s.mu.Lock()
	s.format = format
	s.mu.Unlock()
}

// Format returns the encoding of later artifacts.
func (s *Session) Format() imaging.Format {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.format
}

// LastMasks returns the masks built by the most recent Mask or Composite.
func (s *Session) LastMasks() (imaging.Masks, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.masks == nil {
		return imaging.Masks{}, false
	}
	return *s.masks, true
}

// step runs fn against the current image and advances on success.
func (s *Session) step(op string, fn func(c *Converter, src Ref) (Ref, error)) (Ref, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current.IsZero() {
		return Ref{}, wrap(op, ErrNoSource)
	}
	ref, err := fn(s.conv.WithFormat(s.format), s.current)
	if err != nil {
		return Ref{}, err
	}
	s.current = ref
	s.history = append(s.history, ref)
	return ref, nil
}

// Grayscale converts the current image to grayscale.
func (s *Session) Grayscale() (Ref, error) {
	return s.step("grayscale", (*Converter).Grayscale)
}

// Invert inverts the current image.
func (s *Session) Invert() (Ref, error) {
	return s.step("invert", (*Converter).Invert)
}

// HueRotate shifts the hue of the current image by degrees.
func (s *Session) HueRotate(degrees float64) (Ref, error) {
	return s.step("hue rotate", func(c *Converter, src Ref) (Ref, error) {
		return c.HueRotate(src, degrees)
	})
}

// Blur blurs the current image with a Gaussian of the given radius.
func (s *Session) Blur(ctx context.Context, radius float64) (Ref, error) {
	return s.step("blur", func(c *Converter, src Ref) (Ref, error) {
		return c.Blur(ctx, src, radius)
	})
}

// Rotate rotates the current image by degrees.
func (s *Session) Rotate(degrees float64) (Ref, error) {
	return s.step("rotate", func(c *Converter, src Ref) (Ref, error) {
		return c.Rotate(src, degrees)
	})
}

// Add adds the image at otherPath to the current image.
func (s *Session) Add(otherPath string) (Ref, error) {
	return s.step("add", func(c *Converter, src Ref) (Ref, error) {
		return c.Add(src, RefOf(otherPath))
	})
}

// Threshold replaces the current image with its binary mask at cutoff.
func (s *Session) Threshold(cutoff uint8) (Ref, error) {
	return s.step("threshold", func(c *Converter, src Ref) (Ref, error) {
		return c.Threshold(src, cutoff)
	})
}

// Mask persists the threshold mask of the current image and its inverse
// without changing the current image.
func (s *Session) Mask(cutoff uint8) (MaskRefs, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current.IsZero() {
		return MaskRefs{}, wrap("mask", ErrNoSource)
	}
	refs, masks, err := s.conv.WithFormat(s.format).Mask(s.current, cutoff)
	if err != nil {
		return MaskRefs{}, err
	}
	s.masks = &masks
	return refs, nil
}

// Composite overlays the logo at logoPath onto the current image.
func (s *Session) Composite(logoPath string, cutoff uint8) (Ref, error) {
	return s.step("composite", func(c *Converter, src Ref) (Ref, error) {
		ref, masks, err := c.Composite(src, RefOf(logoPath), cutoff)
		if err != nil {
			return Ref{}, err
		}
		s.masks = &masks
		return ref, nil
	})
}

// TextArt renders the current image as text art. The current image is not
// changed; the returned artifact is closed and readable.
func (s *Session) TextArt(scale int) (*artifact.TextFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current.IsZero() {
		return nil, wrap("text art", ErrNoSource)
	}
	return s.conv.TextArt(s.current, scale)
}

// Save writes the current image to dest in format.
func (s *Session) Save(dest string, format imaging.Format) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current.IsZero() {
		return wrap("save", ErrNoSource)
	}
	return s.conv.Save(s.current, dest, format)
}

// SampleColors reads the colors of the current image at points.
func (s *Session) SampleColors(points []imaging.LabeledPoint) (*imaging.MultiColorResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current.IsZero() {
		return nil, wrap("sample colors", ErrNoSource)
	}
	return s.conv.SampleColors(s.current, points)
}

// DominantColors returns the most common colors of the current image.
func (s *Session) DominantColors(count int, region *imaging.Region) (*imaging.DominantColorsResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current.IsZero() {
		return nil, wrap("dominant colors", ErrNoSource)
	}
	return s.conv.DominantColors(s.current, count, region)
}

// Info describes the current image.
func (s *Session) Info() (*imaging.ImageInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current.IsZero() {
		return nil, wrap("info", ErrNoSource)
	}
	return s.conv.Info(s.current)
}
