package converter

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseError reports a parameter that is not a finite number.
type ParseError struct {
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid number %q: %v", e.Input, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ParseFloat parses a user-entered numeric parameter such as an angle or a
// blur radius. Surrounding whitespace is ignored; NaN and infinities are
// rejected.
func ParseFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, &ParseError{Input: s, Err: err}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &ParseError{Input: s, Err: strconv.ErrRange}
	}
	return v, nil
}

// ParseFloatOr parses s like ParseFloat and falls back to def when it is not
// a number. The parse error is still returned so it can be shown.
func ParseFloatOr(s string, def float64) (float64, error) {
	v, err := ParseFloat(s)
	if err != nil {
		return def, err
	}
	return v, nil
}
