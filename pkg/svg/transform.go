package svg

import (
	"math"
	"strings"

	"github.com/matzehuels/pagefit/pkg/errors"
	"github.com/matzehuels/pagefit/pkg/geom"
)

// parseTransform parses an SVG transform list. Functions apply right to
// left, so "translate(10) scale(2)" scales first.
func parseTransform(v string) (geom.Matrix, error) {
	m := geom.Identity
	sc := &scanner{s: v}
	for !sc.done() {
		start := sc.pos
		for sc.pos < len(sc.s) && isLetter(sc.s[sc.pos]) {
			sc.pos++
		}
		name := strings.ToLower(sc.s[start:sc.pos])
		if name == "" {
			return geom.Identity, sc.errorf("expected transform function")
		}
		sc.skipSpace()
		if sc.pos >= len(sc.s) || sc.s[sc.pos] != '(' {
			return geom.Identity, sc.errorf("expected ( after %s", name)
		}
		sc.pos++

		var args []float64
		for sc.peek() != ')' {
			if sc.pos >= len(sc.s) {
				return geom.Identity, sc.errorf("unterminated %s", name)
			}
			a, err := sc.number()
			if err != nil {
				return geom.Identity, err
			}
			args = append(args, a)
		}
		sc.pos++

		t, err := transformFunc(name, args)
		if err != nil {
			return geom.Identity, err
		}
		m = m.Mul(t)
	}
	return m, nil
}

func transformFunc(name string, a []float64) (geom.Matrix, error) {
	n := len(a)
	switch {
	case name == "matrix" && n == 6:
		return geom.FromSVG(a[0], a[1], a[2], a[3], a[4], a[5]), nil
	case name == "translate" && n == 1:
		return geom.Translate(a[0], 0), nil
	case name == "translate" && n == 2:
		return geom.Translate(a[0], a[1]), nil
	case name == "scale" && n == 1:
		return geom.Scale(a[0], a[0]), nil
	case name == "scale" && n == 2:
		return geom.Scale(a[0], a[1]), nil
	case name == "rotate" && n == 1:
		return geom.Rotate(radians(a[0])), nil
	case name == "rotate" && n == 3:
		return geom.Translate(a[1], a[2]).
			Mul(geom.Rotate(radians(a[0]))).
			Mul(geom.Translate(-a[1], -a[2])), nil
	case name == "skewx" && n == 1:
		return geom.SkewX(radians(a[0])), nil
	case name == "skewy" && n == 1:
		return geom.SkewY(radians(a[0])), nil
	}
	switch name {
	case "matrix", "translate", "scale", "rotate", "skewx", "skewy":
		return geom.Identity, errors.New(errors.ErrCodeInvalidInput, "%s takes a different number of arguments than %d", name, n)
	}
	return geom.Identity, errors.New(errors.ErrCodeInvalidInput, "unknown transform function %q", name)
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }

func isLetter(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
