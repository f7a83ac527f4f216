package svgicon

import (
	"math"
	"strings"

	"github.com/tdewolff/parse/v2/strconv"
)

// percentageReference selects the viewBox dimension
// a percentage is relative to.
type percentageReference uint8

const (
	widthPercentage percentageReference = iota
	heightPercentage
	diagPercentage
)

// unitToPx converts absolute CSS units to px, at 96 dpi
var unitToPx = map[string]float64{
	"":   1,
	"px": 1,
	"pt": 96. / 72,
	"pc": 16,
	"mm": 96. / 25.4,
	"cm": 96. / 2.54,
	"in": 96,
}

// parseBasicFloat parses a plain number, without unit
func parseBasicFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	f, n := strconv.ParseFloat([]byte(s))
	if n == 0 || n != len(s) {
		return 0, errParamMismatch
	}
	return f, nil
}

// parseLength reads a length with an optional unit, converted to px.
// For percentages, the raw value divided by 100 is returned.
func parseLength(s string) (value float64, isPercent bool, err error) {
	s = strings.TrimSpace(s)
	f, n := strconv.ParseFloat([]byte(s))
	if n == 0 {
		return 0, false, errParamMismatch
	}
	unit := strings.ToLower(strings.TrimSpace(s[n:]))
	if unit == "%" {
		return f / 100, true, nil
	}
	factor, ok := unitToPx[unit]
	if !ok {
		return 0, false, errParamMismatch
	}
	return f * factor, false, nil
}

// parseUnit reads a length, resolving percentages against the viewBox
func (c *iconCursor) parseUnit(s string, ref percentageReference) (float64, error) {
	f, isPercent, err := parseLength(s)
	if err != nil || !isPercent {
		return f, err
	}
	vb := c.icon.ViewBox
	switch ref {
	case widthPercentage:
		return f * vb.W, nil
	case heightPercentage:
		return f * vb.H, nil
	default:
		return f * vb.diagonal(), nil
	}
}

// diagonal is the normalized diagonal used for percentages
// of lengths that are neither horizontal nor vertical (like a radius).
func (b Bounds) diagonal() float64 {
	return math.Hypot(b.W, b.H) / math.Sqrt2
}
