package converter

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"strings"
	"testing"

	"github.com/ironsheep/coffee-image/internal/imaging"
	"github.com/ironsheep/coffee-image/internal/textart"
)

func TestClassify(t *testing.T) {
	_, parseErr := ParseFloat("abc")

	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"not found", &fs.PathError{Op: "open", Path: "x", Err: fs.ErrNotExist}, KindIO},
		{"permission", fmt.Errorf("write: %w", os.ErrPermission), KindIO},
		{"decode", &imaging.DecodeError{Path: "x.png", Err: errors.New("bad header")}, KindDecode},
		{"dimension", &imaging.DimensionError{Op: "add", Left: image.Pt(1, 1), Right: image.Pt(2, 2)}, KindDimensionMismatch},
		{"parse", parseErr, KindParse},
		{"dialog", ErrDialogCancelled, KindDialogCancelled},
		{"scale", fmt.Errorf("%w: got 0", textart.ErrInvalidScale), KindInvalidArgument},
		{"no source", ErrNoSource, KindInvalidArgument},
		{"out of bounds", fmt.Errorf("sample: %w", imaging.ErrOutOfBounds), KindInvalidArgument},
		{"cancelled", context.Canceled, KindCancelled},
		{"deadline", context.DeadlineExceeded, KindCancelled},
		{"already classified", &Error{Op: "x", Kind: KindParse, Err: errors.New("y")}, KindParse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got != tt.want {
				t.Errorf("Classify: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	if wrap("op", nil) != nil {
		t.Fatal("wrap(nil) should be nil")
	}

	inner := wrap("inner", ErrDialogCancelled)
	if outer := wrap("outer", inner); outer != inner {
		t.Error("wrap should not re-wrap an *Error")
	}

	err := wrap("open", &fs.PathError{Op: "open", Path: "a.png", Err: fs.ErrNotExist})
	msg := err.Error()
	for _, want := range []string{"open", "io_failure", "not found", "a.png"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q should contain %q", msg, want)
		}
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("wrapped error should still match fs.ErrNotExist")
	}
}

func TestIOKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{fs.ErrNotExist, "not found"},
		{fs.ErrPermission, "permission denied"},
		{fs.ErrExist, "already exists"},
		{errors.New("boom"), "other"},
	}
	for _, tt := range tests {
		if got := IOKind(tt.err); got != tt.want {
			t.Errorf("IOKind(%v): got %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestParseFloat(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"45", 45, false},
		{" -12.5 ", -12.5, false},
		{"1e2", 100, false},
		{"0", 0, false},
		{"", 0, true},
		{"abc", 0, true},
		{"12deg", 0, true},
		{"NaN", 0, true},
		{"Inf", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFloat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error: got %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var pe *ParseError
				if !errors.As(err, &pe) || pe.Input != tt.in {
					t.Errorf("expected *ParseError for %q, got %v", tt.in, err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseFloatOr(t *testing.T) {
	v, err := ParseFloatOr("oops", 0)
	if err == nil || v != 0 {
		t.Errorf("got %v, %v; want 0 and an error", v, err)
	}
	v, err = ParseFloatOr("30", 0)
	if err != nil || v != 30 {
		t.Errorf("got %v, %v; want 30", v, err)
	}
}
