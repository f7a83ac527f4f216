package svgicon

import (
	"encoding/xml"
	"image/color"
	"strings"
)

// GradientUnits is the type for gradient units
type GradientUnits byte

// SVG bounds paremater constants
const (
	ObjectBoundingBox GradientUnits = iota
	UserSpaceOnUse
)

// SpreadMethod is the type for spread parameters
type SpreadMethod byte

// SVG spread parameter constants
const (
	PadSpread SpreadMethod = iota
	ReflectSpread
	RepeatSpread
)

// GradStop represents a stop in the SVG 2.0 gradient specification
type GradStop struct {
	StopColor color.Color // nil means the color of the painted element
	Offset    float64
	Opacity   float64
}

// Gradient holds a description of an SVG 2.0 gradient
type Gradient struct {
	Direction gradientDirecter
	Stops     []GradStop
	Bounds    Bounds
	Matrix    Matrix2D
	Spread    SpreadMethod
	Units     GradientUnits
}

// radial or linear
type gradientDirecter interface {
	isRadial() bool
}

// Linear stores x1, y1, x2, y2
type Linear [4]float64

// Radial stores cx, cy, fx, fy, r, fr
type Radial [6]float64

func (Linear) isRadial() bool { return false }
func (Radial) isRadial() bool { return true }

// colorOf returns the color used for gradient stops
// without explicit color.
func colorOf(p Pattern) color.Color {
	switch p := p.(type) {
	case Gradient:
		for _, s := range p.Stops {
			if s.StopColor != nil {
				return s.StopColor
			}
		}
	case PlainColor:
		return p
	}
	return NewPlainColor(0, 0, 0, 0xff)
}

// localize returns a copy of `g` where nil stop colors are replaced
// by the color of the element being painted.
func localize(g *Gradient, current Pattern) Gradient {
	grad := *g
	grad.Stops = make([]GradStop, len(g.Stops))
	copy(grad.Stops, g.Stops)
	for i, s := range grad.Stops {
		if s.StopColor == nil {
			grad.Stops[i].StopColor = colorOf(current)
		}
	}
	return grad
}

// readGradURL reads an SVG format gradient url, like url(#grad).
// Since the context of the gradient can affect the colors
// the current fill or line color is passed in and used in
// the case of a nil stop color
func (c *iconCursor) readGradURL(v string, current Pattern) (Gradient, bool) {
	if !strings.HasPrefix(v, "url(") || !strings.HasSuffix(v, ")") {
		return Gradient{}, false
	}
	urlStr := strings.TrimSpace(v[4 : len(v)-1])
	if !strings.HasPrefix(urlStr, "#") {
		return Gradient{}, false
	}
	g, ok := c.icon.grads[urlStr[1:]]
	if !ok {
		return Gradient{}, false
	}
	return localize(g, current), true
}

// readGradAttr reads an SVG gradient attribute
func (c *iconCursor) readGradAttr(attr xml.Attr) (err error) {
	switch attr.Name.Local {
	case "gradientTransform":
		c.grad.Matrix, err = c.parseTransform(Identity, attr.Value)
	case "gradientUnits":
		switch strings.TrimSpace(attr.Value) {
		case "userSpaceOnUse":
			c.grad.Units = UserSpaceOnUse
		case "objectBoundingBox":
			c.grad.Units = ObjectBoundingBox
		}
	case "spreadMethod":
		switch strings.TrimSpace(attr.Value) {
		case "pad":
			c.grad.Spread = PadSpread
		case "reflect":
			c.grad.Spread = ReflectSpread
		case "repeat":
			c.grad.Spread = RepeatSpread
		}
	}
	return
}
