// Package geom provides the affine transforms and bounding-box arithmetic
// used by the layout engine.
//
// # Matrices
//
// [Matrix] is a 2×3 affine transform in row-major order, stored as an
// [f64.Aff3]:
//
//	| A  B  C |
//	| D  E  F |
//
// which maps (x, y) to (A·x + B·y + C, D·x + E·y + F). Products read right
// to left: a.Mul(b) applies b first, then a.
//
// # Composition
//
// Nested groups are resolved by [Compose]: an element's own transform is
// applied first, then each enclosing group's transform outward. The chain is
// an explicit list so sibling elements never share mutable state:
//
//	ctm := geom.Compose(local, outerGroup, innerGroup)
//
// # Boxes
//
// Points and boxes are [r2.Vec] and [r2.Box] from gonum. The helpers in this
// package treat zero-area boxes as valid (a single point, a horizontal line),
// unlike [r2.Box.Union], which drops them.
//
// [f64.Aff3]: https://pkg.go.dev/golang.org/x/image/math/f64#Aff3
// [r2.Vec]: https://pkg.go.dev/gonum.org/v1/gonum/spatial/r2#Vec
// [r2.Box]: https://pkg.go.dev/gonum.org/v1/gonum/spatial/r2#Box
// [r2.Box.Union]: https://pkg.go.dev/gonum.org/v1/gonum/spatial/r2#Box.Union
package geom
