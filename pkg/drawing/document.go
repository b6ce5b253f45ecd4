package drawing

import (
	"slices"

	"github.com/matzehuels/pagefit/pkg/geom"
)

// Element is one primitive together with its transform chain and style.
type Element struct {
	// ID is the source element's id attribute, if any. Used for diagnostics.
	ID string

	Shape Shape

	// Local is the element's own transform.
	Local geom.Matrix

	// Ancestors are the transforms of the enclosing groups, outermost first.
	Ancestors []geom.Matrix

	Style Style
}

// NewElement returns an element with an identity transform and no ancestors.
func NewElement(s Shape, style Style) Element {
	return Element{Shape: s, Local: geom.Identity, Style: style}
}

// CTM returns the element's transform resolved into document space.
func (e Element) CTM() geom.Matrix {
	return geom.Compose(e.Local, e.Ancestors...)
}

// Transformed returns a copy of e with m applied after its current
// transform. The ancestor chain is flattened into Local.
func (e Element) Transformed(m geom.Matrix) Element {
	e.Local = m.Mul(e.CTM())
	e.Ancestors = nil
	return e
}

// Document is an ordered list of elements in a common coordinate space.
type Document struct {
	Elements []Element

	// Unit is the number of millimeters per document user unit.
	Unit float64

	// Source names where the document came from, for diagnostics.
	Source string
}

// Len returns the number of elements.
func (d Document) Len() int { return len(d.Elements) }

// Clone returns a copy that shares no element or transform slices with d.
func (d Document) Clone() Document {
	out := d
	out.Elements = make([]Element, len(d.Elements))
	for i, e := range d.Elements {
		e.Ancestors = slices.Clone(e.Ancestors)
		out.Elements[i] = e
	}
	return out
}

// Transform returns a new document with m applied to every element after
// its current transform. Order and styles are preserved.
func (d Document) Transform(m geom.Matrix) Document {
	out := d
	out.Elements = make([]Element, len(d.Elements))
	for i, e := range d.Elements {
		out.Elements[i] = e.Transformed(m)
	}
	return out
}

// Append returns a new document with el added after all existing elements.
func (d Document) Append(el Element) Document {
	out := d.Clone()
	out.Elements = append(out.Elements, el)
	return out
}

// Counts returns how many elements of each kind d holds.
func (d Document) Counts() map[Kind]int {
	counts := make(map[Kind]int)
	for _, e := range d.Elements {
		if e.Shape == nil {
			continue
		}
		counts[e.Shape.Kind()]++
	}
	return counts
}
