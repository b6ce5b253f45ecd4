package layout

import (
	"io"
	"math"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pagefit/pkg/errors"
)

// Defaults used when no configuration overrides them.
const (
	DefaultRectWidth    = 5.0
	DefaultRectDistance = 1.5
	DefaultRectColor    = "#000000"
	DefaultPagePadding  = 10.0
)

// DefaultPage is the sheet used when none is configured.
var DefaultPage = A4

// Options configures a layout run. All lengths are in millimeters.
type Options struct {
	Border      Border
	PagePadding float64
	Anchor      Anchor
	Page        Page

	// Logger receives debug output for each stage. Nil discards it.
	Logger *log.Logger
}

// DefaultOptions returns a 5 mm black border 1.5 mm from the content,
// placed top-left on A4 with 10 mm padding.
func DefaultOptions() Options {
	return Options{
		Border: Border{
			Width:    DefaultRectWidth,
			Distance: DefaultRectDistance,
			Color:    DefaultRectColor,
		},
		PagePadding: DefaultPagePadding,
		Anchor:      TopLeft,
		Page:        DefaultPage,
	}
}

// Validate checks every option before any geometry is computed.
func (o Options) Validate() error {
	if err := errors.ValidateDimension("rect width", o.Border.Width); err != nil {
		return err
	}
	if err := errors.ValidateDimension("rect distance", o.Border.Distance); err != nil {
		return err
	}
	if err := errors.ValidateDimension("page padding", o.PagePadding); err != nil {
		return err
	}
	if !o.Anchor.Valid() {
		return errors.InvalidConfig("invalid anchor %v", o.Anchor)
	}
	return errors.ValidatePageSize(o.Page.Width, o.Page.Height)
}

func (o Options) logger() *log.Logger {
	if o.Logger == nil {
		return log.NewWithOptions(io.Discard, log.Options{})
	}
	return o.Logger
}

// unitFactor returns the millimeters per user unit, treating an unset unit
// as millimeters.
func unitFactor(unit float64) (float64, error) {
	switch {
	case unit == 0:
		return 1, nil
	case unit < 0 || math.IsNaN(unit) || math.IsInf(unit, 0):
		return 0, errors.New(errors.ErrCodeInvalidInput, "invalid unit factor %g", unit)
	default:
		return unit, nil
	}
}
