package layout

import (
	"strings"

	"gonum.org/v1/gonum/spatial/r2"
)

// Page is a sheet size in millimeters, portrait orientation.
type Page struct {
	Name          string
	Width, Height float64
}

// Standard sheet sizes.
var (
	A3     = Page{Name: "A3", Width: 297, Height: 420}
	A4     = Page{Name: "A4", Width: 210, Height: 297}
	A5     = Page{Name: "A5", Width: 148, Height: 210}
	Letter = Page{Name: "Letter", Width: 215.9, Height: 279.4}
	Legal  = Page{Name: "Legal", Width: 215.9, Height: 355.6}
)

// PageSizes lists the named sheets known to [LookupPage].
var PageSizes = []Page{A3, A4, A5, Letter, Legal}

// LookupPage finds a standard sheet by name, ignoring case.
func LookupPage(name string) (Page, bool) {
	for _, p := range PageSizes {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return Page{}, false
}

// Size returns the page dimensions.
func (p Page) Size() r2.Vec { return r2.Vec{X: p.Width, Y: p.Height} }

// Usable returns the page rectangle shrunk by padding on all four sides.
func (p Page) Usable(padding float64) r2.Box {
	return r2.Box{
		Min: r2.Vec{X: padding, Y: padding},
		Max: r2.Vec{X: p.Width - padding, Y: p.Height - padding},
	}
}
