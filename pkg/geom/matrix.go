package geom

import (
	"math"

	"golang.org/x/image/math/f64"
	"gonum.org/v1/gonum/spatial/r2"
)

// Matrix is a 2D affine transform in row-major order.
type Matrix f64.Aff3

// Identity is the transform that leaves every point unchanged.
var Identity = Matrix{1, 0, 0, 0, 1, 0}

// Translate returns a translation by (tx, ty).
func Translate(tx, ty float64) Matrix {
	return Matrix{1, 0, tx, 0, 1, ty}
}

// TranslateVec returns a translation by v.
func TranslateVec(v r2.Vec) Matrix { return Translate(v.X, v.Y) }

// Scale returns a scaling by sx horizontally and sy vertically.
func Scale(sx, sy float64) Matrix {
	return Matrix{sx, 0, 0, 0, sy, 0}
}

// Rotate returns a rotation by angle radians. With the y axis pointing
// down, as in SVG, positive angles turn clockwise on screen.
func Rotate(angle float64) Matrix {
	sin, cos := math.Sincos(angle)
	return Matrix{cos, -sin, 0, sin, cos, 0}
}

// Rotate90 is an exact quarter turn, mapping (x, y) to (-y, x).
var Rotate90 = Matrix{0, -1, 0, 1, 0, 0}

// SkewX returns a horizontal shear by angle radians.
func SkewX(angle float64) Matrix {
	return Matrix{1, math.Tan(angle), 0, 0, 1, 0}
}

// SkewY returns a vertical shear by angle radians.
func SkewY(angle float64) Matrix {
	return Matrix{1, 0, 0, math.Tan(angle), 1, 0}
}

// FromSVG builds a matrix from the six values of an SVG matrix(a b c d e f),
// which lists the coefficients column by column.
func FromSVG(a, b, c, d, e, f float64) Matrix {
	return Matrix{a, c, e, b, d, f}
}

// SVG returns the coefficients in SVG matrix(a b c d e f) order.
func (m Matrix) SVG() [6]float64 {
	return [6]float64{m[0], m[3], m[1], m[4], m[2], m[5]}
}

// Mul returns the product m·n: the transform that applies n, then m.
func (m Matrix) Mul(n Matrix) Matrix {
	return Matrix{
		m[0]*n[0] + m[1]*n[3],
		m[0]*n[1] + m[1]*n[4],
		m[0]*n[2] + m[1]*n[5] + m[2],
		m[3]*n[0] + m[4]*n[3],
		m[3]*n[1] + m[4]*n[4],
		m[3]*n[2] + m[4]*n[5] + m[5],
	}
}

// Apply transforms the point p.
func (m Matrix) Apply(p r2.Vec) r2.Vec {
	return r2.Vec{
		X: m[0]*p.X + m[1]*p.Y + m[2],
		Y: m[3]*p.X + m[4]*p.Y + m[5],
	}
}

// ApplyVector transforms the direction v, ignoring the translation part.
func (m Matrix) ApplyVector(v r2.Vec) r2.Vec {
	return r2.Vec{
		X: m[0]*v.X + m[1]*v.Y,
		Y: m[3]*v.X + m[4]*v.Y,
	}
}

// Offset returns the translation part of m.
func (m Matrix) Offset() r2.Vec { return r2.Vec{X: m[2], Y: m[5]} }

// IsIdentity reports whether m is exactly the identity.
func (m Matrix) IsIdentity() bool { return m == Identity }

// Compose resolves an element's transform in document space. The local
// transform is applied first, then each ancestor from innermost to
// outermost. Ancestors are listed outermost first, the order in which a
// tree walk encounters them. A zero Matrix in any position stands for the
// identity, so an element built without a transform keeps its geometry.
func Compose(local Matrix, ancestors ...Matrix) Matrix {
	ctm := Identity
	for _, a := range ancestors {
		ctm = ctm.Mul(a.orIdentity())
	}
	return ctm.Mul(local.orIdentity())
}

func (m Matrix) orIdentity() Matrix {
	if m == (Matrix{}) {
		return Identity
	}
	return m
}
