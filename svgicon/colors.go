package svgicon

import (
	"image/color"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// Pattern is either a PlainColor or a Gradient
type Pattern interface {
	isPattern()
}

func (PlainColor) isPattern() {}
func (Gradient) isPattern()   {}

// PlainColor is an uniform color
type PlainColor struct {
	color.NRGBA
}

// NewPlainColor returns a PlainColor from the non premultiplied components.
func NewPlainColor(r, g, b, a uint8) PlainColor {
	return PlainColor{color.NRGBA{R: r, G: g, B: b, A: a}}
}

// PlainColorFromARGB unpacks `c`, given as 0xAARRGGBB.
func PlainColorFromARGB(c uint32) PlainColor {
	return NewPlainColor(uint8(c>>16), uint8(c>>8), uint8(c), uint8(c>>24))
}

// ARGB packs the color as 0xAARRGGBB.
func (c PlainColor) ARGB() uint32 {
	return uint32(c.A)<<24 | uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// white is used for all elements in white mode
var white = NewPlainColor(0xff, 0xff, 0xff, 0xff)

// palette remaps the colors read from the document.
// White mode takes precedence over the substitution table.
type palette struct {
	substitution map[uint32]uint32
	whiteMode    bool
}

func (p palette) remap(c PlainColor) PlainColor {
	if p.whiteMode {
		out := white
		out.A = c.A
		return out
	}
	if rep, ok := p.substitution[c.ARGB()]; ok {
		return PlainColorFromARGB(rep)
	}
	return c
}

// optionnalColor is the result of parsing a color attribute:
// "none" is valid and disables filling or stroking.
type optionnalColor struct {
	valid bool
	color PlainColor
}

func (o optionnalColor) asPattern() Pattern {
	if !o.valid {
		return nil
	}
	return o.color
}

func (o optionnalColor) asColor() color.Color {
	if !o.valid {
		return nil
	}
	return o.color
}

func (p palette) apply(o optionnalColor) optionnalColor {
	if o.valid {
		o.color = p.remap(o.color)
	}
	return o
}

// ParseColor parses an SVG color string in all forms
// including all SVG1.1 names, obtained from the colornames package.
// The boolean is false for "none".
func ParseColor(s string) (PlainColor, bool, error) {
	o, err := parseSVGColor(s)
	return o.color, o.valid, err
}

func parseSVGColor(colorStr string) (optionnalColor, error) {
	colorStr = strings.TrimSpace(colorStr)
	v := strings.ToLower(colorStr)
	switch v {
	case "none", "transparent", "":
		return optionnalColor{}, nil
	}
	if cn, ok := colornames.Map[v]; ok {
		return optionnalColor{valid: true, color: PlainColor{color.NRGBAModel.Convert(cn).(color.NRGBA)}}, nil
	}
	if cStr := strings.TrimPrefix(v, "rgb("); cStr != v {
		cStr = strings.TrimSuffix(cStr, ")")
		vals := strings.Split(cStr, ",")
		if len(vals) != 3 {
			return optionnalColor{}, errParamMismatch
		}
		var cvals [3]uint8
		for i := range cvals {
			var err error
			cvals[i], err = parseColorValue(vals[i])
			if err != nil {
				return optionnalColor{}, err
			}
		}
		return optionnalColor{valid: true, color: NewPlainColor(cvals[0], cvals[1], cvals[2], 0xff)}, nil
	}
	if cStr := strings.TrimPrefix(v, "hsl("); cStr != v {
		return parseHSL(strings.TrimSuffix(cStr, ")"))
	}
	if v[0] == '#' {
		r, g, b, err := parseSVGColorNum(v)
		if err != nil {
			return optionnalColor{}, err
		}
		return optionnalColor{valid: true, color: NewPlainColor(r, g, b, 0xff)}, nil
	}
	return optionnalColor{}, errParamMismatch
}

// parseSVGColorNum reads the SVG color string e.g. #FBD9BD
func parseSVGColorNum(colorStr string) (r, g, b uint8, err error) {
	colorStr = strings.TrimPrefix(colorStr, "#")
	switch len(colorStr) {
	case 3: // SVG specs say duplicate characters in case of 3 digit hex number
		colorStr = string([]byte{colorStr[0], colorStr[0],
			colorStr[1], colorStr[1], colorStr[2], colorStr[2]})
	case 6:
	default:
		return 0, 0, 0, errParamMismatch
	}
	for _, v := range []struct {
		c *uint8
		s string
	}{
		{&r, colorStr[0:2]},
		{&g, colorStr[2:4]},
		{&b, colorStr[4:6]},
	} {
		var t uint64
		t, err = strconv.ParseUint(v.s, 16, 8)
		if err != nil {
			return
		}
		*v.c = uint8(t)
	}
	return
}

// parseColorValue reads a color component, either as
// a number in [0, 255] or a percentage
func parseColorValue(v string) (uint8, error) {
	v = strings.TrimSpace(v)
	if strings.HasSuffix(v, "%") {
		n, err := strconv.ParseFloat(strings.TrimSuffix(v, "%"), 64)
		if err != nil {
			return 0, err
		}
		return uint8(math.Round(clamp(n, 0, 100) * 0xff / 100)), nil
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, err
	}
	return uint8(math.Round(clamp(n, 0, 0xff))), nil
}

func parseHSL(s string) (optionnalColor, error) {
	vals := strings.Split(s, ",")
	if len(vals) != 3 {
		return optionnalColor{}, errParamMismatch
	}
	h, err := strconv.ParseFloat(strings.TrimSpace(vals[0]), 64)
	if err != nil {
		return optionnalColor{}, err
	}
	sat, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(vals[1]), "%"), 64)
	if err != nil {
		return optionnalColor{}, err
	}
	l, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(vals[2]), "%"), 64)
	if err != nil {
		return optionnalColor{}, err
	}
	h = math.Mod(math.Mod(h, 360)+360, 360)
	sat, l = clamp(sat, 0, 100)/100, clamp(l, 0, 100)/100

	c := (1 - math.Abs(2*l-1)) * sat
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := l - c/2
	var rp, gp, bp float64
	switch {
	case h < 60:
		rp, gp, bp = c, x, 0
	case h < 120:
		rp, gp, bp = x, c, 0
	case h < 180:
		rp, gp, bp = 0, c, x
	case h < 240:
		rp, gp, bp = 0, x, c
	case h < 300:
		rp, gp, bp = x, 0, c
	default:
		rp, gp, bp = c, 0, x
	}
	to8 := func(f float64) uint8 { return uint8(math.Round(clamp((f+m)*0xff, 0, 0xff))) }
	return optionnalColor{valid: true, color: NewPlainColor(to8(rp), to8(gp), to8(bp), 0xff)}, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
