package svgsource

import "errors"

var (
	errNilReader   = errors.New("nil reader")
	errNoContainer = errors.New("no container")
)

// IOError is returned when the source stream can't be opened or read.
type IOError struct {
	Origin string // see Origin.String
	Err    error
}

func (e *IOError) Error() string { return "svgsource: " + e.Origin + ": " + e.Err.Error() }

func (e *IOError) Unwrap() error { return e.Err }
