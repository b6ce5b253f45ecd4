package svg

import (
	"math"
	"strings"

	"github.com/tdewolff/parse/v2/strconv"

	"github.com/matzehuels/pagefit/pkg/errors"
)

// Millimeters per unit for the absolute length units of CSS.
var unitMM = map[string]float64{
	"mm": 1,
	"cm": 10,
	"in": 25.4,
	"pt": 25.4 / 72,
	"pc": 25.4 / 6,
	"px": 25.4 / 96,
	"":   25.4 / 96,
}

// pxMM is the size of one user unit when the root element does not map its
// user space to physical units.
const pxMM = 25.4 / 96

// parseLength splits a length into its value and unit suffix.
func parseLength(s string) (float64, string, error) {
	s = strings.TrimSpace(s)
	v, n := strconv.ParseFloat([]byte(s))
	unit := strings.TrimSpace(s[n:])
	if n == 0 || math.IsInf(v, 0) || math.IsNaN(v) || strings.IndexFunc(unit, notUnit) >= 0 {
		return 0, "", errors.New(errors.ErrCodeInvalidInput, "bad length %q", s)
	}
	return v, strings.ToLower(unit), nil
}

func notUnit(r rune) bool {
	return r != '%' && !(r < 0x80 && isLetter(byte(r)))
}

// lengthMM converts an absolute length to millimeters.
func lengthMM(s string) (float64, error) {
	v, unit, err := parseLength(s)
	if err != nil {
		return 0, err
	}
	f, ok := unitMM[unit]
	if !ok {
		return 0, errors.New(errors.ErrCodeUnsupported, "unsupported unit %q in %q", unit, s)
	}
	return v * f, nil
}

// coordinate parses a length in user units. Only unitless and px values
// are user units.
func coordinate(s string) (float64, error) {
	v, unit, err := parseLength(s)
	if err != nil {
		return 0, err
	}
	if unit != "" && unit != "px" {
		return 0, errors.New(errors.ErrCodeUnsupported, "unsupported unit %q in coordinate %q", unit, s)
	}
	return v, nil
}

// viewport holds the root element's sizing attributes.
type viewport struct {
	width, height string
	viewBox       string
}

// unitFactor returns how many millimeters one user unit spans. Without a
// viewBox, user units are CSS pixels. With one, the physical width and
// height must scale both axes equally.
func (v viewport) unitFactor() (float64, error) {
	if v.viewBox == "" {
		return pxMM, nil
	}
	vb, err := parseNumbers(v.viewBox)
	if err != nil {
		return 0, err
	}
	if len(vb) != 4 {
		return 0, errors.New(errors.ErrCodeInvalidInput, "viewBox needs 4 numbers, got %q", v.viewBox)
	}
	if vb[2] <= 0 || vb[3] <= 0 {
		return 0, errors.New(errors.ErrCodeInvalidInput, "viewBox size must be positive, got %q", v.viewBox)
	}

	var scales []float64
	for _, d := range []struct {
		length string
		extent float64
	}{{v.width, vb[2]}, {v.height, vb[3]}} {
		if d.length == "" {
			continue
		}
		mm, err := lengthMM(d.length)
		if err != nil {
			return 0, err
		}
		if mm <= 0 {
			return 0, errors.New(errors.ErrCodeInvalidInput, "root size must be positive, got %q", d.length)
		}
		scales = append(scales, mm/d.extent)
	}

	switch len(scales) {
	case 0:
		return pxMM, nil
	case 1:
		return scales[0], nil
	}
	if math.Abs(scales[0]-scales[1]) > 1e-9*math.Max(scales[0], scales[1]) {
		return 0, errors.New(errors.ErrCodeUnsupported,
			"unequal X/Y scaling is not supported (%g vs %g mm per unit)", scales[0], scales[1])
	}
	return scales[0], nil
}
