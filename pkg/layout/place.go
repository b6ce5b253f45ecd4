package layout

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/pagefit/pkg/errors"
)

// Align is a position along one axis of the usable page area.
type Align int

const (
	AlignStart  Align = iota // left or top
	AlignCenter              // centered
	AlignEnd                 // right or bottom
)

// Anchor selects one of the nine placement positions on the page.
// The zero value is [TopLeft].
type Anchor struct {
	H, V Align
}

// The nine anchors, in reading order.
var (
	TopLeft      = Anchor{AlignStart, AlignStart}
	TopCenter    = Anchor{AlignCenter, AlignStart}
	TopRight     = Anchor{AlignEnd, AlignStart}
	CenterLeft   = Anchor{AlignStart, AlignCenter}
	CenterCenter = Anchor{AlignCenter, AlignCenter}
	CenterRight  = Anchor{AlignEnd, AlignCenter}
	BottomLeft   = Anchor{AlignStart, AlignEnd}
	BottomCenter = Anchor{AlignCenter, AlignEnd}
	BottomRight  = Anchor{AlignEnd, AlignEnd}
)

// Anchors returns all anchors in reading order (TL, TC, TR, CL, ... BR).
func Anchors() []Anchor {
	return []Anchor{
		TopLeft, TopCenter, TopRight,
		CenterLeft, CenterCenter, CenterRight,
		BottomLeft, BottomCenter, BottomRight,
	}
}

var (
	vertSymbols  = [...]byte{'T', 'C', 'B'}
	horizSymbols = [...]byte{'L', 'C', 'R'}
)

// Valid reports whether both alignments are known.
func (a Anchor) Valid() bool {
	return a.H >= AlignStart && a.H <= AlignEnd && a.V >= AlignStart && a.V <= AlignEnd
}

// String returns the two-letter symbol, vertical first: "TL", "CC", "BR".
func (a Anchor) String() string {
	if !a.Valid() {
		return fmt.Sprintf("Anchor(%d,%d)", a.H, a.V)
	}
	return string([]byte{vertSymbols[a.V], horizSymbols[a.H]})
}

// ParseAnchor parses a two-letter anchor symbol. Case is ignored.
func ParseAnchor(s string) (Anchor, error) {
	sym := strings.ToUpper(strings.TrimSpace(s))
	for _, a := range Anchors() {
		if a.String() == sym {
			return a, nil
		}
	}
	return Anchor{}, errors.InvalidConfig("unknown anchor %q (must be one of: TL, TC, TR, CL, CC, CR, BL, BC, BR)", s)
}

// MarshalText implements encoding.TextMarshaler.
func (a Anchor) MarshalText() ([]byte, error) {
	if !a.Valid() {
		return nil, errors.InvalidConfig("invalid anchor %v", a)
	}
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Anchor) UnmarshalText(text []byte) error {
	parsed, err := ParseAnchor(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Place returns where the min corner of content-sized geometry goes on the
// page. The usable area is the page shrunk by padding on all four sides.
// Content larger than the usable area overflows it; the result may then be
// negative.
func Place(content r2.Vec, page Page, padding float64, anchor Anchor) r2.Vec {
	usable := page.Usable(padding)
	return r2.Vec{
		X: align(usable.Min.X, usable.Max.X, content.X, anchor.H),
		Y: align(usable.Min.Y, usable.Max.Y, content.Y, anchor.V),
	}
}

func align(lo, hi, size float64, a Align) float64 {
	switch a {
	case AlignCenter:
		return lo + (hi-lo-size)/2
	case AlignEnd:
		return hi - size
	default:
		return lo
	}
}
