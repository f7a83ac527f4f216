package svgicon

import (
	"encoding/xml"
	"errors"
	"log/slog"
	"math"
	"strings"

	"golang.org/x/image/math/fixed"
)

type (
	// iconCursor is used while parsing SVG files
	iconCursor struct {
		pathCursor
		icon       *Document
		styleStack []PathStyle
		grad       *Gradient
		palette    palette

		inTitleText, inDescText, inGrad, inDefs, inStyle bool
		seenRoot                                         bool
		useDepth                                         int
		currentDef                                       []definition
		styleText                                        strings.Builder

		errorMode ErrorMode
		logger    *slog.Logger
	}

	// definition is used to store what's given in a def tag
	definition struct {
		ID, Tag string
		Attrs   []xml.Attr
	}

	// styleAttribute describes draw options, such as {"fill":"black"; "stroke":"white"},
	// in declaration order
	styleAttribute []styleProperty

	styleProperty struct{ key, value string }
)

func fToFixed(f float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(f * 64))
}

// DefaultStyle sets the default PathStyle to fill black, winding rule,
// full opacity, no stroke, ButtCap line end and Miter line connect,
// as defined by the SVG initial values.
var DefaultStyle = PathStyle{
	FillOpacity:       1.0,
	LineOpacity:       1.0,
	LineWidth:         1.0,
	UseNonZeroWinding: true,
	Join: JoinOptions{
		MiterLimit:   fToFixed(4),
		LineJoin:     Miter,
		TrailLineCap: ButtCap,
	},
	FillerColor: NewPlainColor(0x00, 0x00, 0x00, 0xff),
	transform:   Identity,
}

func (c *iconCursor) readTransformAttr(m1 Matrix2D, k string) (Matrix2D, error) {
	ln := len(c.points)
	switch k {
	case "rotate":
		if ln == 1 {
			m1 = m1.Rotate(c.points[0] * math.Pi / 180)
		} else if ln == 3 {
			m1 = m1.Translate(c.points[1], c.points[2]).
				Rotate(c.points[0]*math.Pi/180).
				Translate(-c.points[1], -c.points[2])
		} else {
			return m1, errParamMismatch
		}
	case "translate":
		if ln == 1 {
			m1 = m1.Translate(c.points[0], 0)
		} else if ln == 2 {
			m1 = m1.Translate(c.points[0], c.points[1])
		} else {
			return m1, errParamMismatch
		}
	case "skewx":
		if ln == 1 {
			m1 = m1.SkewX(c.points[0] * math.Pi / 180)
		} else {
			return m1, errParamMismatch
		}
	case "skewy":
		if ln == 1 {
			m1 = m1.SkewY(c.points[0] * math.Pi / 180)
		} else {
			return m1, errParamMismatch
		}
	case "scale":
		if ln == 1 {
			m1 = m1.Scale(c.points[0], c.points[0])
		} else if ln == 2 {
			m1 = m1.Scale(c.points[0], c.points[1])
		} else {
			return m1, errParamMismatch
		}
	case "matrix":
		if ln == 6 {
			m1 = m1.Mult(Matrix2D{
				A: c.points[0],
				B: c.points[1],
				C: c.points[2],
				D: c.points[3],
				E: c.points[4],
				F: c.points[5]})
		} else {
			return m1, errParamMismatch
		}
	default:
		return m1, errParamMismatch
	}
	return m1, nil
}

// parseTransform applies the transform list `v` on top of `m1`
func (c *iconCursor) parseTransform(m1 Matrix2D, v string) (Matrix2D, error) {
	ts := strings.Split(v, ")")
	for _, t := range ts {
		t = strings.TrimSpace(t)
		if len(t) == 0 {
			continue
		}
		t = strings.TrimLeft(t, ", \t\n")
		d := strings.Split(t, "(")
		if len(d) != 2 || len(d[1]) < 1 {
			return m1, errParamMismatch // badly formed transformation
		}
		err := c.getPoints(d[1])
		if err != nil {
			return m1, err
		}
		m1, err = c.readTransformAttr(m1, strings.ToLower(strings.TrimSpace(d[0])))
		if err != nil {
			return m1, err
		}
	}
	return m1, nil
}

// readPaint reads a fill or stroke value, which may be
// a gradient reference or a color.
func (c *iconCursor) readPaint(v string, current Pattern) (Pattern, error) {
	if gradient, ok := c.readGradURL(v, current); ok {
		return gradient, nil
	}
	if strings.HasPrefix(v, "url(") { // unknown reference: nothing is painted
		return nil, nil
	}
	optCol, err := parseSVGColor(v)
	if err != nil {
		return nil, err
	}
	return c.palette.apply(optCol).asPattern(), nil
}

func isCurrentColor(v string) bool { return strings.EqualFold(v, "currentColor") }

func (c *iconCursor) readStyleAttr(curStyle *PathStyle, k, v string) error {
	if v == "inherit" {
		return nil
	}
	switch k {
	case "color":
		optCol, err := parseSVGColor(v)
		if err != nil {
			return err
		}
		curStyle.currentColor = c.palette.apply(optCol).asPattern()
	case "fill":
		if curStyle.fillCurrent = isCurrentColor(v); curStyle.fillCurrent {
			return nil
		}
		p, err := c.readPaint(v, curStyle.FillerColor)
		if err != nil {
			return err
		}
		curStyle.FillerColor = p
	case "stroke":
		if curStyle.strokeCurrent = isCurrentColor(v); curStyle.strokeCurrent {
			return nil
		}
		p, err := c.readPaint(v, curStyle.LinerColor)
		if err != nil {
			return err
		}
		curStyle.LinerColor = p
	case "fill-rule":
		switch v {
		case "evenodd":
			curStyle.UseNonZeroWinding = false
		case "nonzero":
			curStyle.UseNonZeroWinding = true
		}
	case "stroke-linegap":
		switch v {
		case "flat":
			curStyle.Join.LineGap = FlatGap
		case "round":
			curStyle.Join.LineGap = RoundGap
		case "cubic":
			curStyle.Join.LineGap = CubicGap
		case "quadratic":
			curStyle.Join.LineGap = QuadraticGap
		}
	case "stroke-leadlinecap":
		curStyle.Join.LeadLineCap = readCap(v, curStyle.Join.LeadLineCap)
	case "stroke-linecap":
		curStyle.Join.TrailLineCap = readCap(v, curStyle.Join.TrailLineCap)
	case "stroke-linejoin":
		switch v {
		case "miter":
			curStyle.Join.LineJoin = Miter
		case "miter-clip":
			curStyle.Join.LineJoin = MiterClip
		case "arc-clip":
			curStyle.Join.LineJoin = ArcClip
		case "round":
			curStyle.Join.LineJoin = Round
		case "arc":
			curStyle.Join.LineJoin = Arc
		case "bevel":
			curStyle.Join.LineJoin = Bevel
		}
	case "stroke-miterlimit":
		mLimit, err := parseBasicFloat(v)
		if err != nil {
			return err
		}
		curStyle.Join.MiterLimit = fToFixed(mLimit)
	case "stroke-width":
		width, err := c.parseUnit(v, diagPercentage)
		if err != nil {
			return err
		}
		curStyle.LineWidth = width
	case "stroke-dashoffset":
		dashOffset, err := c.parseUnit(v, diagPercentage)
		if err != nil {
			return err
		}
		curStyle.Dash.DashOffset = dashOffset
	case "stroke-dasharray":
		if v == "none" {
			curStyle.Dash.Dash = nil
			break
		}
		dashes := splitOnCommaOrSpace(v)
		dList := make([]float64, len(dashes))
		for i, dstr := range dashes {
			d, err := c.parseUnit(dstr, diagPercentage)
			if err != nil {
				return err
			}
			dList[i] = d
		}
		curStyle.Dash.Dash = dList
	case "opacity", "stroke-opacity", "fill-opacity":
		op, err := readFraction(v)
		if err != nil {
			return err
		}
		if k != "stroke-opacity" {
			curStyle.FillOpacity *= op
		}
		if k != "fill-opacity" {
			curStyle.LineOpacity *= op
		}
	case "transform":
		m, err := c.parseTransform(curStyle.transform, v)
		if err != nil {
			return err
		}
		curStyle.transform = m
	}
	return nil
}

func readCap(v string, current CapMode) CapMode {
	switch v {
	case "butt":
		return ButtCap
	case "round":
		return RoundCap
	case "square":
		return SquareCap
	case "cubic":
		return CubicCap
	case "quadratic":
		return QuadraticCap
	}
	return current
}

// pushStyle parses the style of an element, and push it on the style stack.
// Presentation attributes are read first, then the rules of the
// classes of the element, then the content of the style attribute.
func (c *iconCursor) pushStyle(attrs []xml.Attr) error {
	// Make a copy of the top style
	curStyle := c.styleStack[len(c.styleStack)-1]
	var classes, pairs []string
	for _, attr := range attrs {
		switch k := strings.ToLower(attr.Name.Local); k {
		case "style":
			pairs = append(pairs, strings.Split(attr.Value, ";")...)
		case "class":
			classes = strings.Fields(attr.Value)
		default:
			if err := c.readStyleAttr(&curStyle, k, strings.TrimSpace(attr.Value)); err != nil {
				return err
			}
		}
	}
	for _, class := range classes {
		for _, prop := range c.icon.classes[class] {
			if err := c.readStyleAttr(&curStyle, prop.key, prop.value); err != nil {
				return err
			}
		}
	}
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, ":")
		if !ok {
			continue
		}
		k = strings.ToLower(strings.TrimSpace(k))
		if err := c.readStyleAttr(&curStyle, k, strings.TrimSpace(v)); err != nil {
			return err
		}
	}
	// currentColor is resolved once the color property is known,
	// and again for each descendant
	if curStyle.fillCurrent {
		curStyle.FillerColor = curStyle.currentColor
	}
	if curStyle.strokeCurrent {
		curStyle.LinerColor = curStyle.currentColor
	}
	c.styleStack = append(c.styleStack, curStyle) // Push style onto stack
	return nil
}

func (c *iconCursor) popStyle() {
	c.styleStack = c.styleStack[:len(c.styleStack)-1]
}

// splitOnCommaOrSpace returns a list of strings after splitting the input on comma and space delimiters
func splitOnCommaOrSpace(s string) []string {
	return strings.FieldsFunc(s,
		func(r rune) bool {
			return r == ',' || r == ' '
		})
}

// flushPath stores the path compiled by the last element, if any,
// with the current style.
func (c *iconCursor) flushPath() {
	if len(c.path) == 0 {
		return
	}
	pathCopy := append(Path{}, c.path...)
	c.icon.Paths = append(c.icon.Paths,
		SvgPath{Path: pathCopy, Style: c.styleStack[len(c.styleStack)-1]})
	c.path = c.path[:0]
}

func (c *iconCursor) readStartElement(se xml.StartElement) (err error) {
	var skipDef bool
	switch se.Name.Local {
	case "radialGradient", "linearGradient", "style":
		skipDef = true
	default:
		skipDef = c.inGrad
	}
	if c.inDefs && !skipDef {
		ID := ""
		for _, attr := range se.Attr {
			if attr.Name.Local == "id" {
				ID = attr.Value
			}
		}
		if ID != "" && len(c.currentDef) > 0 {
			c.icon.defs[c.currentDef[0].ID] = c.currentDef
			c.currentDef = make([]definition, 0)
		}
		c.currentDef = append(c.currentDef, definition{
			ID:    ID,
			Tag:   se.Name.Local,
			Attrs: se.Attr,
		})
		return nil
	}
	df, ok := drawFuncs[se.Name.Local]
	if !ok {
		return c.unsupported(se.Name.Local)
	}
	if err = df(c, se.Attr); err != nil {
		return err
	}
	c.flushPath()
	return nil
}

func (c *iconCursor) readEndElement(se xml.EndElement) error {
	c.popStyle()
	switch se.Name.Local {
	case "g":
		if c.inDefs {
			c.currentDef = append(c.currentDef, definition{
				Tag: "endg",
			})
		}
	case "title":
		c.inTitleText = false
	case "desc":
		c.inDescText = false
	case "defs":
		if len(c.currentDef) > 0 {
			c.icon.defs[c.currentDef[0].ID] = c.currentDef
			c.currentDef = make([]definition, 0)
		}
		c.inDefs = false
	case "radialGradient", "linearGradient":
		c.inGrad = false
	case "style":
		c.inStyle = false
		rules, err := parseClasses(c.styleText.String())
		c.styleText.Reset()
		if err != nil {
			return err
		}
		for class, attrs := range rules {
			c.icon.classes[class] = append(c.icon.classes[class], attrs...)
		}
	}
	return nil
}

func (c *iconCursor) readCharData(data xml.CharData) {
	if c.inTitleText {
		c.icon.Titles[len(c.icon.Titles)-1] += string(data)
	}
	if c.inDescText {
		c.icon.Descriptions[len(c.icon.Descriptions)-1] += string(data)
	}
	if c.inStyle {
		c.styleText.Write(data)
	}
}

// parseClasses reads the content of a <style> element.
// Only class selectors are supported, like .a, .b { fill: red; }
func parseClasses(data string) (map[string]styleAttribute, error) {
	res := map[string]styleAttribute{}
	arr := strings.Split(data, "}")
	for _, v := range arr {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		valueIndex := strings.Index(v, "{")
		if valueIndex == -1 || valueIndex == len(v)-1 {
			return res, errors.New(v + "}: invalid map format in class definitions")
		}
		classesStr := v[:valueIndex]
		attrs, err := parseAttrs(v[valueIndex+1:])
		if err != nil {
			return res, err
		}
		for _, class := range strings.Split(classesStr, ",") {
			class = strings.TrimSpace(class)
			if len(class) > 0 && class[0] == '.' {
				class = class[1:]
			}
			if class == "" {
				continue
			}
			res[class] = append(res[class], attrs...)
		}
	}
	return res, nil
}

func parseAttrs(attrStr string) (styleAttribute, error) {
	arr := strings.Split(attrStr, ";")
	res := make(styleAttribute, 0, len(arr))
	for _, kv := range arr {
		kv = strings.TrimSpace(kv)
		if kv == "" {
			continue
		}
		k, v, ok := strings.Cut(kv, ":")
		if !ok {
			return res, errors.New(kv + ": invalid attribute format")
		}
		res = append(res, styleProperty{
			key:   strings.ToLower(strings.TrimSpace(k)),
			value: strings.TrimSpace(v),
		})
	}
	return res, nil
}

// readFraction reads a number, or a percentage
func readFraction(v string) (f float64, err error) {
	v = strings.TrimSpace(v)
	d := 1.0
	if strings.HasSuffix(v, "%") {
		d = 100
		v = strings.TrimSuffix(v, "%")
	}
	f, err = parseBasicFloat(v)
	f /= d
	return
}
