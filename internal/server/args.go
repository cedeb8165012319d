package server

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/ironsheep/coffee-image/internal/converter"
)

// Number is a numeric tool argument. Clients may send it as a JSON number or
// as a string such as "45"; anything that does not parse is kept as a parse
// error and reads as 0.
type Number struct {
	set   bool
	raw   string
	value float64
	err   error
}

// UnmarshalJSON implements json.Unmarshaler. It never fails, so a bad number
// does not reject the rest of the arguments.
func (n *Number) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*n = Number{}
		return nil
	}
	raw := string(b)
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(b, &s); err == nil {
			raw = s
		}
	}
	n.set = true
	n.raw = raw
	n.value, n.err = converter.ParseFloatOr(raw, 0)
	return nil
}

// Set reports whether the argument was present.
func (n Number) Set() bool { return n.set }

// Or returns the argument, def when it was absent, or 0 when it did not
// parse. A parse failure adds a warning naming the argument.
func (n Number) Or(name string, def float64, w *warnings) float64 {
	if !n.set {
		return def
	}
	if n.err != nil {
		w.add("%s: %v; using 0", name, n.err)
	}
	return n.value
}

type warnings []string

func (w *warnings) add(format string, args ...interface{}) {
	*w = append(*w, fmt.Sprintf(format, args...))
}

// cutoffArg resolves a threshold cutoff argument against the configured
// default.
func cutoffArg(op string, n Number, def uint8, w *warnings) (uint8, error) {
	v := n.Or("cutoff", float64(def), w)
	if v < 0 || v > 255 || v != math.Trunc(v) {
		return 0, invalidArgument(op, fmt.Errorf("cutoff must be an integer between 0 and 255, got %v", v))
	}
	return uint8(v), nil
}

// scaleArg resolves a text-art stride argument. Zero selects the configured
// default.
func scaleArg(op string, n Number, def int, w *warnings) (int, error) {
	v := n.Or("scale", float64(def), w)
	if v < 0 || v > math.MaxInt32 || v != math.Trunc(v) {
		return 0, invalidArgument(op, fmt.Errorf("scale must be an integer between 1 and %d, got %v", math.MaxInt32, v))
	}
	if v == 0 {
		return def, nil
	}
	return int(v), nil
}

func invalidArgument(op string, err error) error {
	return &converter.Error{Op: op, Kind: converter.KindInvalidArgument, Err: err}
}

// decodeArgs unmarshals tool arguments; absent arguments leave v at its zero
// value.
func decodeArgs(op string, args json.RawMessage, v interface{}) error {
	if len(args) == 0 || string(args) == "null" {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return invalidArgument(op, fmt.Errorf("invalid arguments: %w", err))
	}
	return nil
}
