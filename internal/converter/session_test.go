package converter

import (
	"context"
	"errors"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/ironsheep/coffee-image/internal/imaging"
)

func TestSession_BeforeOpen(t *testing.T) {
	s := NewSession(newTestConverter(t))

	if _, ok := s.Current(); ok {
		t.Fatal("new session should have no current image")
	}

	points := []imaging.LabeledPoint{{X: 0, Y: 0}}
	ops := map[string]func() error{
		"grayscale":       func() error { _, err := s.Grayscale(); return err },
		"rotate":          func() error { _, err := s.Rotate(10); return err },
		"mask":            func() error { _, err := s.Mask(imaging.DefaultCutoff); return err },
		"text art":        func() error { _, err := s.TextArt(1); return err },
		"save":            func() error { return s.Save(filepath.Join(t.TempDir(), "x.png"), imaging.PNG) },
		"info":            func() error { _, err := s.Info(); return err },
		"sample colors":   func() error { _, err := s.SampleColors(points); return err },
		"dominant colors": func() error { _, err := s.DominantColors(3, nil); return err },
	}
	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			err := op()
			if !errors.Is(err, ErrNoSource) {
				t.Fatalf("expected ErrNoSource, got %v", err)
			}
			if k := kindOf(t, err); k != KindInvalidArgument {
				t.Errorf("kind: got %v, want %v", k, KindInvalidArgument)
			}
		})
	}
}

func TestSession_OpenCancelled(t *testing.T) {
	s := NewSession(newTestConverter(t))
	src := writeTestImage(t, "src.png", primaries())
	if _, err := s.Open(src); err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	_, err := s.Open("")
	if k := kindOf(t, err); k != KindDialogCancelled {
		t.Errorf("kind: got %v, want %v", k, KindDialogCancelled)
	}
	if cur, _ := s.Current(); cur.Path() != src {
		t.Errorf("cancelled open changed the current image to %s", cur)
	}
}

func TestSession_OpenUnreadable(t *testing.T) {
	s := NewSession(newTestConverter(t))
	_, err := s.Open(filepath.Join(t.TempDir(), "missing.png"))
	if k := kindOf(t, err); k != KindIO {
		t.Errorf("kind: got %v, want %v", k, KindIO)
	}
	if _, ok := s.Current(); ok {
		t.Error("failed open should not select an image")
	}
}

func TestSession_ChainAdvancesCurrent(t *testing.T) {
	s := NewSession(newTestConverter(t))
	src := writeTestImage(t, "src.png", primaries())
	if _, err := s.Open(src); err != nil {
		t.Fatal(err)
	}

	gray, err := s.Grayscale()
	if err != nil {
		t.Fatalf("Grayscale failed: %v", err)
	}
	if cur, _ := s.Current(); cur != gray {
		t.Fatalf("current: got %s, want %s", cur, gray)
	}

	inv, err := s.Invert()
	if err != nil {
		t.Fatalf("Invert failed: %v", err)
	}
	if got := decodeRef(t, inv).NRGBAAt(0, 0); got.R != 255-76 {
		t.Errorf("invert did not read the grayscale result: %v", got)
	}

	history := s.History()
	if len(history) != 3 || history[0].Path() != src || history[1] != gray || history[2] != inv {
		t.Errorf("unexpected history %v", history)
	}
}

func TestSession_FailureKeepsCurrent(t *testing.T) {
	s := NewSession(newTestConverter(t))
	if _, err := s.Open(writeTestImage(t, "src.png", solid(3, 3, color.NRGBA{5, 5, 5, 255}))); err != nil {
		t.Fatal(err)
	}
	gray, err := s.Grayscale()
	if err != nil {
		t.Fatal(err)
	}

	other := writeTestImage(t, "other.png", solid(4, 4, color.NRGBA{5, 5, 5, 255}))
	if _, err := s.Add(other); kindOf(t, err) != KindDimensionMismatch {
		t.Fatalf("expected a dimension mismatch, got %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Blur(ctx, 3); kindOf(t, err) != KindCancelled {
		t.Fatalf("expected cancellation, got %v", err)
	}

	if cur, _ := s.Current(); cur != gray {
		t.Errorf("failed operations moved current from %s to %s", gray, cur)
	}
	if n := len(s.History()); n != 2 {
		t.Errorf("history length: got %d, want 2", n)
	}
}

func TestSession_SetFormat(t *testing.T) {
	s := NewSession(newTestConverter(t))
	if s.Format() != imaging.PNG {
		t.Fatalf("default format: got %v", s.Format())
	}
	if _, err := s.Open(writeTestImage(t, "src.png", primaries())); err != nil {
		t.Fatal(err)
	}

	s.SetFormat(imaging.JPEG)
	ref, err := s.HueRotate(45)
	if err != nil {
		t.Fatalf("HueRotate failed: %v", err)
	}
	if filepath.Ext(ref.Path()) != ".jpg" {
		t.Errorf("extension: got %s, want .jpg", filepath.Ext(ref.Path()))
	}
	if s.Converter().Options().Format != imaging.PNG {
		t.Error("SetFormat must not change the shared converter")
	}
}

func TestSession_MaskKeepsCurrent(t *testing.T) {
	s := NewSession(newTestConverter(t))
	src, err := s.Open(writeTestImage(t, "src.png", primaries()))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.LastMasks(); ok {
		t.Fatal("no masks expected before Mask")
	}

	refs, err := s.Mask(imaging.DefaultCutoff)
	if err != nil {
		t.Fatalf("Mask failed: %v", err)
	}
	if refs.Mask.IsZero() || refs.Inverse.IsZero() {
		t.Fatal("mask refs should name files")
	}
	if cur, _ := s.Current(); cur != src {
		t.Error("Mask must not change the current image")
	}
	if _, ok := s.LastMasks(); !ok {
		t.Error("Mask should record the masks")
	}
}

func TestSession_CompositeRecordsMasks(t *testing.T) {
	s := NewSession(newTestConverter(t))
	if _, err := s.Open(writeTestImage(t, "canvas.png", solid(5, 5, color.NRGBA{1, 2, 3, 255}))); err != nil {
		t.Fatal(err)
	}
	logo := writeTestImage(t, "logo.png", solid(2, 2, color.NRGBA{255, 255, 255, 255}))

	out, err := s.Composite(logo, imaging.DefaultCutoff)
	if err != nil {
		t.Fatalf("Composite failed: %v", err)
	}
	if cur, _ := s.Current(); cur != out {
		t.Error("Composite should advance the current image")
	}
	masks, ok := s.LastMasks()
	if !ok || masks.Mask.Bounds().Size() != (masks.Inverse.Bounds().Size()) {
		t.Errorf("unexpected masks %+v", masks)
	}
	if got := decodeRef(t, out).NRGBAAt(1, 1); got != (color.NRGBA{255, 255, 255, 255}) {
		t.Errorf("logo pixel: got %v, want white", got)
	}
}

func TestSession_TextArtKeepsCurrent(t *testing.T) {
	s := NewSession(newTestConverter(t))
	src, err := s.Open(writeTestImage(t, "black.png", solid(4, 4, color.NRGBA{0, 0, 0, 255})))
	if err != nil {
		t.Fatal(err)
	}

	tf, err := s.TextArt(1)
	if err != nil {
		t.Fatalf("TextArt failed: %v", err)
	}
	content, err := tf.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	// Dark samples map to the empty glyph; only the row breaks remain.
	if content != "\n\n" {
		t.Errorf("content: got %q", content)
	}
	if cur, _ := s.Current(); cur != src {
		t.Error("TextArt must not change the current image")
	}
}

func TestSession_Save(t *testing.T) {
	s := NewSession(newTestConverter(t))
	if _, err := s.Open(writeTestImage(t, "src.png", primaries())); err != nil {
		t.Fatal(err)
	}
	dest := filepath.Join(t.TempDir(), "final.png")
	if err := s.Save(dest, imaging.PNG); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	img, err := imaging.Decode(dest)
	if err != nil {
		t.Fatalf("saved file not decodable: %v", err)
	}
	if img.NRGBAAt(0, 0) != (color.NRGBA{255, 0, 0, 255}) {
		t.Errorf("saved pixel: got %v", img.NRGBAAt(0, 0))
	}
}

func TestSession_SampleColorsFollowCurrent(t *testing.T) {
	s := NewSession(newTestConverter(t))
	if _, err := s.Open(writeTestImage(t, "src.png", primaries())); err != nil {
		t.Fatal(err)
	}
	points := []imaging.LabeledPoint{{X: 0, Y: 0, Label: "red"}}

	before, err := s.SampleColors(points)
	if err != nil {
		t.Fatalf("SampleColors failed: %v", err)
	}
	if _, err := s.Invert(); err != nil {
		t.Fatal(err)
	}
	after, err := s.SampleColors(points)
	if err != nil {
		t.Fatal(err)
	}
	if before.Samples[0].Color.Hex != "#ff0000" || after.Samples[0].Color.Hex != "#00ffff" {
		t.Errorf("red then inverted: got %s and %s", before.Samples[0].Color.Hex, after.Samples[0].Color.Hex)
	}

	dominant, err := s.DominantColors(1, &imaging.Region{X1: 1, Y1: 1, X2: 2, Y2: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(dominant.Colors) != 1 || dominant.Colors[0].Hex != "#000000" {
		t.Errorf("inverted white corner: got %+v", dominant.Colors)
	}
}

func TestSession_CacheHoldsOnlyCurrent(t *testing.T) {
	s := NewSession(newTestConverter(t))
	if _, err := s.Open(writeTestImage(t, "src.png", primaries())); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		if _, err := s.HueRotate(30); err != nil {
			t.Fatal(err)
		}
		if _, err := s.Info(); err != nil {
			t.Fatal(err)
		}
		if n := s.Converter().Cache().Len(); n != 1 {
			t.Fatalf("step %d: cache holds %d images, want 1", i, n)
		}
	}
}
