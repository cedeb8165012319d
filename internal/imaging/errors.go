package imaging

import (
	"errors"
	"fmt"
	"image"
)

// ErrDimensionMismatch is matched (via errors.Is) by every error reporting
// operands of differing width or height.
var ErrDimensionMismatch = errors.New("image dimensions do not match")

// ErrOutOfBounds is matched (via errors.Is) by every error reporting a
// sample coordinate outside the image.
var ErrOutOfBounds = errors.New("coordinates outside image bounds")

// DimensionError reports the sizes of two operands that were required to
// match.
type DimensionError struct {
	Op    string
	Left  image.Point
	Right image.Point
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("%s: %v: %dx%d vs %dx%d", e.Op, ErrDimensionMismatch,
		e.Left.X, e.Left.Y, e.Right.X, e.Right.Y)
}

// Is reports whether target is ErrDimensionMismatch.
func (e *DimensionError) Is(target error) bool {
	return target == ErrDimensionMismatch
}

// DecodeError reports a file that was opened but could not be decoded as an
// image.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode image %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func checkSameSize(op string, a, b image.Image) error {
	sa, sb := a.Bounds().Size(), b.Bounds().Size()
	if sa != sb {
		return &DimensionError{Op: op, Left: sa, Right: sb}
	}
	return nil
}
