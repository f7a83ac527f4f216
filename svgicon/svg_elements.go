package svgicon

import (
	"encoding/xml"
	"errors"
	"fmt"
	"math"
	"strings"
)

func init() {
	// avoids cyclical static declaration
	// called on package initialization
	drawFuncs["use"] = useF
}

// maxUseDepth bounds the nesting of use elements, which may be cyclic
const maxUseDepth = 16

type svgFunc func(c *iconCursor, attrs []xml.Attr) error

var drawFuncs = map[string]svgFunc{
	"svg":            svgF,
	"g":              gF,
	"line":           lineF,
	"stop":           stopF,
	"rect":           rectF,
	"circle":         circleF,
	"ellipse":        circleF, //circleF handles ellipse also
	"polyline":       polylineF,
	"polygon":        polygonF,
	"path":           pathF,
	"desc":           descF,
	"defs":           defsF,
	"title":          titleF,
	"style":          styleF,
	"linearGradient": linearGradientF,
	"radialGradient": radialGradientF,
}

// svgF resolves the size of the document from the root element.
// Nested svg elements only act as groups.
func svgF(c *iconCursor, attrs []xml.Attr) error {
	if c.seenRoot {
		return nil
	}
	c.seenRoot = true

	var (
		width, height     float64
		hasW, hasH, hasVB bool
		preserveAspect    = true
		vb                Bounds
	)
	for _, attr := range attrs {
		switch attr.Name.Local {
		case "viewBox":
			if err := c.getPoints(attr.Value); err != nil {
				return err
			}
			if len(c.points) != 4 {
				return errParamMismatch
			}
			vb = Bounds{X: c.points[0], Y: c.points[1], W: c.points[2], H: c.points[3]}
			if vb.W < 0 || vb.H < 0 {
				return fmt.Errorf("negative viewBox dimensions %v", c.points)
			}
			hasVB = vb.W > 0 && vb.H > 0
		case "width":
			v, isPercent, err := parseLength(attr.Value)
			if err != nil {
				return err
			}
			if !isPercent && v > 0 { // percentages are relative to an unknown viewport
				width, hasW = v, true
			}
		case "height":
			v, isPercent, err := parseLength(attr.Value)
			if err != nil {
				return err
			}
			if !isPercent && v > 0 {
				height, hasH = v, true
			}
		case "preserveAspectRatio":
			preserveAspect = strings.TrimSpace(attr.Value) != "none"
		}
	}

	switch {
	case hasW && hasH:
	case hasVB && hasW:
		height = width * vb.H / vb.W
	case hasVB && hasH:
		width = height * vb.W / vb.H
	case hasVB:
		width, height = vb.W, vb.H
	default:
		return nil // no usable viewport
	}
	c.icon.Bounds = &Bounds{W: width, H: height}
	if !hasVB {
		c.icon.ViewBox = *c.icon.Bounds
		return nil
	}
	c.icon.ViewBox = vb
	sx, sy := width/vb.W, height/vb.H
	if !preserveAspect {
		c.icon.Transform = Identity.Scale(sx, sy).Translate(-vb.X, -vb.Y)
		return nil
	}
	// xMidYMid meet
	s := math.Min(sx, sy)
	tx, ty := (width-vb.W*s)/2, (height-vb.H*s)/2
	c.icon.Transform = Identity.Translate(tx, ty).Scale(s, s).Translate(-vb.X, -vb.Y)
	return nil
}

func gF(*iconCursor, []xml.Attr) error { return nil } // g does nothing but push the style

func rectF(c *iconCursor, attrs []xml.Attr) error {
	var x, y, w, h, rx, ry float64
	var hasRx, hasRy bool
	var err error
	for _, attr := range attrs {
		switch attr.Name.Local {
		case "x":
			x, err = c.parseUnit(attr.Value, widthPercentage)
		case "y":
			y, err = c.parseUnit(attr.Value, heightPercentage)
		case "width":
			w, err = c.parseUnit(attr.Value, widthPercentage)
		case "height":
			h, err = c.parseUnit(attr.Value, heightPercentage)
		case "rx":
			hasRx = true
			rx, err = c.parseUnit(attr.Value, widthPercentage)
		case "ry":
			hasRy = true
			ry, err = c.parseUnit(attr.Value, heightPercentage)
		}
		if err != nil {
			return err
		}
	}
	if w <= 0 || h <= 0 { // not drawn, but not an error
		return nil
	}
	// a single radius applies to both axis
	if hasRx && !hasRy {
		ry = rx
	} else if hasRy && !hasRx {
		rx = ry
	}
	c.path.addRoundRect(x, y, x+w, y+h, rx, ry)
	return nil
}

func circleF(c *iconCursor, attrs []xml.Attr) error {
	var cx, cy, rx, ry float64
	var err error
	for _, attr := range attrs {
		switch attr.Name.Local {
		case "cx":
			cx, err = c.parseUnit(attr.Value, widthPercentage)
		case "cy":
			cy, err = c.parseUnit(attr.Value, heightPercentage)
		case "r":
			rx, err = c.parseUnit(attr.Value, diagPercentage)
			ry = rx
		case "rx":
			rx, err = c.parseUnit(attr.Value, widthPercentage)
		case "ry":
			ry, err = c.parseUnit(attr.Value, heightPercentage)
		}
		if err != nil {
			return err
		}
	}
	if rx <= 0 || ry <= 0 { // not drawn, but not an error
		return nil
	}
	c.path.addEllipse(cx, cy, rx, ry)
	return nil
}

func lineF(c *iconCursor, attrs []xml.Attr) error {
	var x1, x2, y1, y2 float64
	var err error
	for _, attr := range attrs {
		switch attr.Name.Local {
		case "x1":
			x1, err = c.parseUnit(attr.Value, widthPercentage)
		case "x2":
			x2, err = c.parseUnit(attr.Value, widthPercentage)
		case "y1":
			y1, err = c.parseUnit(attr.Value, heightPercentage)
		case "y2":
			y2, err = c.parseUnit(attr.Value, heightPercentage)
		}
		if err != nil {
			return err
		}
	}
	c.path.Start(toFixedP(x1, y1))
	c.path.Line(toFixedP(x2, y2))
	return nil
}

func polylineF(c *iconCursor, attrs []xml.Attr) error {
	c.points = c.points[:0] // without points, nothing is drawn
	var err error
	for _, attr := range attrs {
		switch attr.Name.Local {
		case "points":
			err = c.getPoints(attr.Value)
			if err == nil && len(c.points)%2 != 0 {
				return errors.New("polygon has odd number of points")
			}
		}
		if err != nil {
			return err
		}
	}
	if len(c.points) >= 4 {
		c.path.Start(toFixedP(c.points[0], c.points[1]))
		for i := 2; i < len(c.points)-1; i += 2 {
			c.path.Line(toFixedP(c.points[i], c.points[i+1]))
		}
	}
	return nil
}

func polygonF(c *iconCursor, attrs []xml.Attr) error {
	err := polylineF(c, attrs)
	if len(c.points) >= 4 {
		c.path.Stop(true)
	}
	return err
}

func pathF(c *iconCursor, attrs []xml.Attr) error {
	var err error
	for _, attr := range attrs {
		switch attr.Name.Local {
		case "d":
			err = c.compilePath(attr.Value)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func descF(c *iconCursor, attrs []xml.Attr) error {
	c.inDescText = true
	c.icon.Descriptions = append(c.icon.Descriptions, "")
	return nil
}

func titleF(c *iconCursor, attrs []xml.Attr) error {
	c.inTitleText = true
	c.icon.Titles = append(c.icon.Titles, "")
	return nil
}

func defsF(c *iconCursor, attrs []xml.Attr) error {
	c.inDefs = true
	return nil
}

func styleF(c *iconCursor, attrs []xml.Attr) error {
	c.inStyle = true
	c.styleText.Reset()
	return nil
}

func (c *iconCursor) newGradient(direction gradientDirecter, attrs []xml.Attr) error {
	c.inGrad = true
	c.grad = &Gradient{Direction: direction, Bounds: c.icon.ViewBox, Matrix: Identity}
	for _, attr := range attrs {
		if attr.Name.Local != "id" {
			continue
		}
		if len(attr.Value) == 0 {
			return errZeroLengthID
		}
		c.icon.grads[attr.Value] = c.grad
	}
	return nil
}

func linearGradientF(c *iconCursor, attrs []xml.Attr) error {
	direction := Linear{0, 0, 1, 0}
	if err := c.newGradient(direction, attrs); err != nil {
		return err
	}
	var err error
	for _, attr := range attrs {
		switch attr.Name.Local {
		case "id":
		case "x1":
			direction[0], err = readFraction(attr.Value)
		case "y1":
			direction[1], err = readFraction(attr.Value)
		case "x2":
			direction[2], err = readFraction(attr.Value)
		case "y2":
			direction[3], err = readFraction(attr.Value)
		default:
			err = c.readGradAttr(attr)
		}
		if err != nil {
			return err
		}
	}
	c.grad.Direction = direction
	return nil
}

func radialGradientF(c *iconCursor, attrs []xml.Attr) error {
	direction := Radial{0.5, 0.5, 0.5, 0.5, 0.5, 0}
	if err := c.newGradient(direction, attrs); err != nil {
		return err
	}
	var setFx, setFy bool
	var err error
	for _, attr := range attrs {
		switch attr.Name.Local {
		case "id":
		case "cx":
			direction[0], err = readFraction(attr.Value)
		case "cy":
			direction[1], err = readFraction(attr.Value)
		case "fx":
			setFx = true
			direction[2], err = readFraction(attr.Value)
		case "fy":
			setFy = true
			direction[3], err = readFraction(attr.Value)
		case "r":
			direction[4], err = readFraction(attr.Value)
		case "fr":
			direction[5], err = readFraction(attr.Value)
		default:
			err = c.readGradAttr(attr)
		}
		if err != nil {
			return err
		}
	}
	if !setFx { // set fx to cx by default
		direction[2] = direction[0]
	}
	if !setFy { // set fy to cy by default
		direction[3] = direction[1]
	}
	c.grad.Direction = direction
	return nil
}

func stopF(c *iconCursor, attrs []xml.Attr) error {
	if !c.inGrad {
		return nil
	}
	stop := GradStop{StopColor: c.palette.remap(NewPlainColor(0, 0, 0, 0xff)), Opacity: 1.0}
	read := func(k, v string) (err error) {
		switch k {
		case "offset":
			stop.Offset, err = readFraction(v)
		case "stop-color":
			if isCurrentColor(v) {
				stop.StopColor = colorOf(c.styleStack[len(c.styleStack)-1].currentColor)
				return nil
			}
			var optColor optionnalColor
			optColor, err = parseSVGColor(v)
			stop.StopColor = c.palette.apply(optColor).asColor()
		case "stop-opacity":
			stop.Opacity, err = readFraction(v)
		}
		return err
	}
	for _, attr := range attrs {
		var err error
		if attr.Name.Local == "style" {
			for _, pair := range strings.Split(attr.Value, ";") {
				if k, v, ok := strings.Cut(pair, ":"); ok {
					if err = read(strings.TrimSpace(k), strings.TrimSpace(v)); err != nil {
						break
					}
				}
			}
		} else {
			err = read(attr.Name.Local, strings.TrimSpace(attr.Value))
		}
		if err != nil {
			return err
		}
	}
	c.grad.Stops = append(c.grad.Stops, stop)
	return nil
}

func useF(c *iconCursor, attrs []xml.Attr) error {
	var (
		href string
		x, y float64
		err  error
	)
	for _, attr := range attrs {
		switch attr.Name.Local {
		case "href":
			href = attr.Value
		case "x":
			x, err = c.parseUnit(attr.Value, widthPercentage)
		case "y":
			y, err = c.parseUnit(attr.Value, heightPercentage)
		}
		if err != nil {
			return err
		}
	}
	if href == "" {
		return errors.New("only use tags with href is supported")
	}
	if !strings.HasPrefix(href, "#") {
		return errors.New("only the ID CSS selector is supported")
	}
	defs, ok := c.icon.defs[href[1:]]
	if !ok {
		return errors.New("href ID in use statement was not found in saved defs")
	}
	if c.useDepth >= maxUseDepth {
		return fmt.Errorf("use elements nested deeper than %d", maxUseDepth)
	}
	c.useDepth++
	defer func() { c.useDepth-- }()

	// the offset of the use element translates the referenced content
	top := &c.styleStack[len(c.styleStack)-1]
	top.transform = top.transform.Translate(x, y)

	openGroups := 0
	for _, def := range defs {
		if def.Tag == "endg" {
			if openGroups > 0 {
				c.popStyle()
				openGroups--
			}
			continue
		}
		if err = c.pushStyle(def.Attrs); err != nil {
			return err
		}
		df, ok := drawFuncs[def.Tag]
		if !ok {
			c.popStyle()
			if err = c.unsupported(def.Tag); err != nil {
				return err
			}
			continue
		}
		if err = df(c, def.Attrs); err != nil {
			return err
		}
		c.flushPath()
		if def.Tag == "g" {
			openGroups++
		} else {
			c.popStyle()
		}
	}
	for ; openGroups > 0; openGroups-- {
		c.popStyle()
	}
	return nil
}
