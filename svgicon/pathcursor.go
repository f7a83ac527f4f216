package svgicon

import (
	"math"
	"strings"

	"github.com/tdewolff/parse/v2/strconv"
)

// pathCursor compiles the `d` attribute of path elements,
// and the number lists of other elements (points, viewBox, transforms).
type pathCursor struct {
	path                   Path
	placeX, placeY         float64 // current point
	cntlPtX, cntlPtY       float64 // last control point, used by smooth curves
	pathStartX, pathStartY float64
	points                 []float64
	lastKey                byte
	inPath                 bool
}

func (c *pathCursor) init() {
	c.placeX, c.placeY = 0, 0
	c.cntlPtX, c.cntlPtY = 0, 0
	c.pathStartX, c.pathStartY = 0, 0
	c.points = c.points[:0]
	c.lastKey = ' '
	c.path.Clear()
	c.inPath = false
}

func isSeparator(b byte) bool {
	switch b {
	case ' ', ',', '\t', '\n', '\r', '\f':
		return true
	}
	return false
}

// readNumbers replaces c.points by the numbers found in `data`.
// When `arc` is true, the 4th and 5th values of each group of 7 are
// flags, which may be written as single characters without separators.
func (c *pathCursor) readNumbers(data string, arc bool) error {
	c.points = c.points[:0]
	b := []byte(data)
	for i := 0; i < len(b); {
		if isSeparator(b[i]) {
			i++
			continue
		}
		if k := len(c.points) % 7; arc && (k == 3 || k == 4) {
			switch b[i] {
			case '0':
				c.points = append(c.points, 0)
			case '1':
				c.points = append(c.points, 1)
			default:
				return errParamMismatch
			}
			i++
			continue
		}
		f, n := strconv.ParseFloat(b[i:])
		if n == 0 {
			return errParamMismatch
		}
		c.points = append(c.points, f)
		i += n
	}
	return nil
}

// getPoints reads a list of numbers into c.points
func (c *pathCursor) getPoints(data string) error {
	return c.readNumbers(data, false)
}

func isPathCommand(b byte) bool {
	switch b {
	case 'M', 'm', 'L', 'l', 'H', 'h', 'V', 'v', 'C', 'c',
		'S', 's', 'Q', 'q', 'T', 't', 'A', 'a', 'Z', 'z':
		return true
	}
	return false
}

// compilePath translates the svgPath description string into a path.
// The resulting path element is stored in c.path.
func (c *pathCursor) compilePath(svgPath string) error {
	c.init()
	lastIndex := -1
	for i := 0; i < len(svgPath); i++ {
		if !isPathCommand(svgPath[i]) {
			continue
		}
		if lastIndex == -1 {
			if strings.TrimSpace(svgPath[:i]) != "" {
				return errParamMismatch
			}
		} else if err := c.addSeg(svgPath[lastIndex:i]); err != nil {
			return err
		}
		lastIndex = i
	}
	if lastIndex == -1 {
		if strings.TrimSpace(svgPath) != "" {
			return errParamMismatch
		}
		return nil
	}
	return c.addSeg(svgPath[lastIndex:])
}

// reflectControl returns the reflection of the last control point
// if the previous command is a curve of the same kind,
// or the current point otherwise.
func (c *pathCursor) reflectControl(curveKeys string) (float64, float64) {
	if strings.IndexByte(curveKeys, c.lastKey) >= 0 {
		return 2*c.placeX - c.cntlPtX, 2*c.placeY - c.cntlPtY
	}
	return c.placeX, c.placeY
}

// ensureStart begins a subpath at the current point if needed,
// for drawing commands following a close.
func (c *pathCursor) ensureStart() {
	if !c.inPath {
		c.path.Start(toFixedP(c.placeX, c.placeY))
		c.pathStartX, c.pathStartY = c.placeX, c.placeY
		c.inPath = true
	}
}

func (c *pathCursor) lineTo(x, y float64) {
	c.ensureStart()
	c.placeX, c.placeY = x, y
	c.path.Line(toFixedP(x, y))
}

// addSeg decodes an SVG seqment string into equivalent raster path commands saved
// in the cursor's Path
func (c *pathCursor) addSeg(segString string) error {
	k := segString[0]
	rel := k >= 'a' // lower case means relative coordinates
	key := k
	if rel {
		key = k - 'a' + 'A'
	}
	if err := c.readNumbers(segString[1:], key == 'A'); err != nil {
		return err
	}
	l := len(c.points)
	var offX, offY float64
	updateOffset := func() {
		if rel {
			offX, offY = c.placeX, c.placeY
		}
	}

	switch key {
	case 'Z':
		if l != 0 {
			return errParamMismatch
		}
		if c.inPath {
			c.path.Stop(true)
		}
		c.placeX, c.placeY = c.pathStartX, c.pathStartY
		c.inPath = false
	case 'M':
		if l < 2 || l%2 != 0 {
			return errParamMismatch
		}
		updateOffset()
		c.placeX, c.placeY = c.points[0]+offX, c.points[1]+offY
		c.pathStartX, c.pathStartY = c.placeX, c.placeY
		c.path.Start(toFixedP(c.placeX, c.placeY))
		c.inPath = true
		for i := 2; i < l-1; i += 2 { // implicit line to
			updateOffset()
			c.lineTo(c.points[i]+offX, c.points[i+1]+offY)
		}
		key = 'L'
	case 'L':
		if l == 0 || l%2 != 0 {
			return errParamMismatch
		}
		for i := 0; i < l-1; i += 2 {
			updateOffset()
			c.lineTo(c.points[i]+offX, c.points[i+1]+offY)
		}
	case 'H':
		if l == 0 {
			return errParamMismatch
		}
		for _, x := range c.points {
			updateOffset()
			c.lineTo(x+offX, c.placeY)
		}
	case 'V':
		if l == 0 {
			return errParamMismatch
		}
		for _, y := range c.points {
			updateOffset()
			c.lineTo(c.placeX, y+offY)
		}
	case 'Q':
		if l == 0 || l%4 != 0 {
			return errParamMismatch
		}
		c.ensureStart()
		for i := 0; i < l-3; i += 4 {
			updateOffset()
			c.cntlPtX, c.cntlPtY = c.points[i]+offX, c.points[i+1]+offY
			c.placeX, c.placeY = c.points[i+2]+offX, c.points[i+3]+offY
			c.path.QuadBezier(toFixedP(c.cntlPtX, c.cntlPtY), toFixedP(c.placeX, c.placeY))
		}
	case 'T':
		if l == 0 || l%2 != 0 {
			return errParamMismatch
		}
		c.ensureStart()
		for i := 0; i < l-1; i += 2 {
			updateOffset()
			c.cntlPtX, c.cntlPtY = c.reflectControl("QT")
			c.placeX, c.placeY = c.points[i]+offX, c.points[i+1]+offY
			c.path.QuadBezier(toFixedP(c.cntlPtX, c.cntlPtY), toFixedP(c.placeX, c.placeY))
			c.lastKey = 'T'
		}
	case 'C':
		if l == 0 || l%6 != 0 {
			return errParamMismatch
		}
		c.ensureStart()
		for i := 0; i < l-5; i += 6 {
			updateOffset()
			x1, y1 := c.points[i]+offX, c.points[i+1]+offY
			c.cntlPtX, c.cntlPtY = c.points[i+2]+offX, c.points[i+3]+offY
			c.placeX, c.placeY = c.points[i+4]+offX, c.points[i+5]+offY
			c.path.CubeBezier(toFixedP(x1, y1), toFixedP(c.cntlPtX, c.cntlPtY), toFixedP(c.placeX, c.placeY))
		}
	case 'S':
		if l == 0 || l%4 != 0 {
			return errParamMismatch
		}
		c.ensureStart()
		for i := 0; i < l-3; i += 4 {
			updateOffset()
			x1, y1 := c.reflectControl("CS")
			c.cntlPtX, c.cntlPtY = c.points[i]+offX, c.points[i+1]+offY
			c.placeX, c.placeY = c.points[i+2]+offX, c.points[i+3]+offY
			c.path.CubeBezier(toFixedP(x1, y1), toFixedP(c.cntlPtX, c.cntlPtY), toFixedP(c.placeX, c.placeY))
			c.lastKey = 'S'
		}
	case 'A':
		if l == 0 || l%7 != 0 {
			return errParamMismatch
		}
		c.ensureStart()
		for i := 0; i < l-6; i += 7 {
			updateOffset()
			c.arcTo(c.points[i:i+7], offX, offY)
		}
	default:
		return errParamMismatch
	}
	c.lastKey = key
	return nil
}

// arcTo adds an elliptical arc given by its 7 SVG parameters
func (c *pathCursor) arcTo(params []float64, offX, offY float64) {
	rx, ry := math.Abs(params[0]), math.Abs(params[1])
	x, y := params[5]+offX, params[6]+offY
	if x == c.placeX && y == c.placeY {
		return // an arc with identical end points is omitted
	}
	if rx == 0 || ry == 0 {
		c.lineTo(x, y)
		return
	}
	largeArc, sweep := params[3] != 0, params[4] != 0
	rotX := params[2] * math.Pi / 180
	cx, cy := findEllipseCenter(&rx, &ry, rotX, c.placeX, c.placeY, x, y, sweep, largeArc)
	arc := []float64{rx, ry, params[2], params[3], params[4], x, y}
	c.placeX, c.placeY = c.path.addArc(arc, cx, cy, c.placeX, c.placeY)
	c.cntlPtX, c.cntlPtY = c.placeX, c.placeY
}
