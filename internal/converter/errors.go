package converter

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"syscall"

	"github.com/ironsheep/coffee-image/internal/imaging"
	"github.com/ironsheep/coffee-image/internal/textart"
)

// Kind classifies a converter failure.
type Kind int

const (
	// KindIO is a filesystem failure: open, create, write, stat or remove.
	KindIO Kind = iota + 1
	// KindDecode is a file that exists but is not a decodable image.
	KindDecode
	// KindDimensionMismatch is a pair of operands with different sizes.
	KindDimensionMismatch
	// KindParse is a non-numeric value for a numeric parameter.
	KindParse
	// KindDialogCancelled is a path request the user abandoned.
	KindDialogCancelled
	// KindInvalidArgument is a well-formed but unusable parameter.
	KindInvalidArgument
	// KindCancelled is an operation abandoned through its context.
	KindCancelled
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io_failure"
	case KindDecode:
		return "image_decode_failure"
	case KindDimensionMismatch:
		return "dimension_mismatch"
	case KindParse:
		return "parse_failure"
	case KindDialogCancelled:
		return "dialog_cancelled"
	case KindInvalidArgument:
		return "invalid_argument"
	case KindCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// ErrDialogCancelled reports that no path was supplied where one was
// requested, the equivalent of closing a file picker.
var ErrDialogCancelled = errors.New("dialog closed without a selection")

// ErrNoSource is returned by session operations before any image was opened.
var ErrNoSource = errors.New("no source image selected")

// Error is returned by every Converter and Session operation.
type Error struct {
	Op   string
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Kind == KindIO {
		return fmt.Sprintf("%s: %s (%s): %v", e.Op, e.Kind, IOKind(e.Err), e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// wrap classifies err and attaches the operation name. Errors that are
// already *Error are returned unchanged.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var ce *Error
	if errors.As(err, &ce) {
		return err
	}
	return &Error{Op: op, Kind: Classify(err), Err: err}
}

// Classify maps an error from the engine, the artifact store or the OS to a
// Kind. Anything unrecognised is treated as an I/O failure.
func Classify(err error) Kind {
	var (
		ce     *Error
		decode *imaging.DecodeError
		parse  *ParseError
	)
	switch {
	case errors.As(err, &ce):
		return ce.Kind
	case errors.Is(err, ErrDialogCancelled):
		return KindDialogCancelled
	case errors.As(err, &parse):
		return KindParse
	case errors.Is(err, imaging.ErrDimensionMismatch):
		return KindDimensionMismatch
	case errors.As(err, &decode):
		return KindDecode
	case errors.Is(err, textart.ErrInvalidScale), errors.Is(err, ErrNoSource),
		errors.Is(err, imaging.ErrOutOfBounds):
		return KindInvalidArgument
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCancelled
	default:
		return KindIO
	}
}

// IOKind names the operating-system classification of an I/O error.
func IOKind(err error) string {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return "not found"
	case errors.Is(err, fs.ErrPermission):
		return "permission denied"
	case errors.Is(err, fs.ErrExist):
		return "already exists"
	case errors.Is(err, syscall.EISDIR):
		return "is a directory"
	case errors.Is(err, syscall.ENOTDIR):
		return "not a directory"
	case errors.Is(err, syscall.ENOSPC):
		return "no space left"
	default:
		return "other"
	}
}
