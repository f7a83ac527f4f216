package svgicon

import (
	"errors"
	"fmt"
)

// ErrorMode is the for setting how the parser reacts to unparsed elements
type ErrorMode uint8

const (
	// IgnoreErrorMode skips unsupported elements
	IgnoreErrorMode ErrorMode = iota

	// WarnErrorMode logs a warning for each unsupported element
	WarnErrorMode

	// StrictErrorMode fails on the first unsupported element
	StrictErrorMode
)

func (m ErrorMode) String() string {
	switch m {
	case IgnoreErrorMode:
		return "ignore"
	case WarnErrorMode:
		return "warn"
	case StrictErrorMode:
		return "strict"
	default:
		return "<unknown ErrorMode>"
	}
}

// ParseErrorMode is the inverse of ErrorMode.String
func ParseErrorMode(s string) (ErrorMode, error) {
	switch s {
	case "", "ignore":
		return IgnoreErrorMode, nil
	case "warn":
		return WarnErrorMode, nil
	case "strict":
		return StrictErrorMode, nil
	}
	return 0, fmt.Errorf("invalid error mode %q", s)
}

var (
	errParamMismatch = errors.New("param mismatch")
	errZeroLengthID  = errors.New("zero length id")
	errNotSVG        = errors.New("invalid svg xml icon")
)

// ParseError is returned when the input is not a well-formed SVG document.
type ParseError struct {
	Offset int64 // position in the input, in bytes
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("svgicon: invalid svg at offset %d: %s", e.Offset, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// unsupported applies the error mode to an element the parser can't process
func (c *iconCursor) unsupported(tag string) error {
	switch c.errorMode {
	case StrictErrorMode:
		return fmt.Errorf("cannot process svg element %s", tag)
	case WarnErrorMode:
		c.logger.Warn("cannot process svg element", "element", tag)
	}
	return nil
}
