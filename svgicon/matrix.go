package svgicon

import (
	"math"

	"golang.org/x/image/math/fixed"
)

// Matrix2D represents an SVG style
// affine transformation matrix
//
//	[ A C E ]
//	[ B D F ]
//	[ 0 0 1 ]
type Matrix2D struct {
	A, B, C, D, E, F float64
}

// Identity is the identity transformation
var Identity = Matrix2D{1, 0, 0, 1, 0, 0}

// Transform multiples the input vector by matrix m and outputs the results
func (m Matrix2D) Transform(x1, y1 float64) (x2, y2 float64) {
	x2 = x1*m.A + y1*m.C + m.E
	y2 = x1*m.B + y1*m.D + m.F
	return
}

// TFixed transforms a fixed.Point26_6 by the matrix
func (m Matrix2D) TFixed(a fixed.Point26_6) fixed.Point26_6 {
	x, y := m.Transform(float64(a.X)/64, float64(a.Y)/64)
	return fixed.Point26_6{X: fixed.Int26_6(math.Round(x * 64)), Y: fixed.Int26_6(math.Round(y * 64))}
}

// Mult returns a*b
func (a Matrix2D) Mult(b Matrix2D) Matrix2D {
	return Matrix2D{
		A: a.A*b.A + a.C*b.B,
		B: a.B*b.A + a.D*b.B,
		C: a.A*b.C + a.C*b.D,
		D: a.B*b.C + a.D*b.D,
		E: a.A*b.E + a.C*b.F + a.E,
		F: a.B*b.E + a.D*b.F + a.F,
	}
}

// Scale matrix in x and y dimensions
func (a Matrix2D) Scale(x, y float64) Matrix2D {
	return a.Mult(Matrix2D{A: x, D: y})
}

// SkewY skews the matrix in the Y dimension
func (a Matrix2D) SkewY(theta float64) Matrix2D {
	return a.Mult(Matrix2D{A: 1, B: math.Tan(theta), D: 1})
}

// SkewX skews the matrix in the X dimension
func (a Matrix2D) SkewX(theta float64) Matrix2D {
	return a.Mult(Matrix2D{A: 1, C: math.Tan(theta), D: 1})
}

// Translate translates the matrix to the x, y point
func (a Matrix2D) Translate(x, y float64) Matrix2D {
	return a.Mult(Matrix2D{A: 1, D: 1, E: x, F: y})
}

// Rotate rotates the matrix by theta (in radians)
func (a Matrix2D) Rotate(theta float64) Matrix2D {
	sin, cos := math.Sincos(theta)
	return a.Mult(Matrix2D{A: cos, B: sin, C: -sin, D: cos})
}

// scaleFactor is the mean linear scaling of the matrix,
// used to scale stroke widths.
func (a Matrix2D) scaleFactor() float64 {
	return math.Sqrt(math.Abs(a.A*a.D - a.B*a.C))
}

func (m Matrix2D) trMove(op MoveTo) fixed.Point26_6 { return m.TFixed(fixed.Point26_6(op)) }

func (m Matrix2D) trLine(op LineTo) fixed.Point26_6 { return m.TFixed(fixed.Point26_6(op)) }

func (m Matrix2D) trQuad(op QuadTo) (fixed.Point26_6, fixed.Point26_6) {
	return m.TFixed(op[0]), m.TFixed(op[1])
}

func (m Matrix2D) trCubic(op CubicTo) (fixed.Point26_6, fixed.Point26_6, fixed.Point26_6) {
	return m.TFixed(op[0]), m.TFixed(op[1]), m.TFixed(op[2])
}
