package errors

import (
	"math"
	"path/filepath"
	"strings"
	"unicode"
)

// ValidateDimension checks a millimeter option such as a border width or a
// page padding. Zero is allowed; negative, NaN and infinite values are not.
func ValidateDimension(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return InvalidConfig("%s must be a finite number, got %g", name, v)
	}
	if v < 0 {
		return InvalidConfig("%s must not be negative, got %g", name, v)
	}
	return nil
}

// ValidatePageSize checks that both page dimensions are positive and finite.
func ValidatePageSize(width, height float64) error {
	for _, d := range []struct {
		name string
		v    float64
	}{{"page width", width}, {"page height", height}} {
		if math.IsNaN(d.v) || math.IsInf(d.v, 0) || d.v <= 0 {
			return InvalidConfig("%s must be positive, got %g", d.name, d.v)
		}
	}
	return nil
}

// ValidateInputPath validates the path of an input drawing.
//
// Validation rules:
//   - Path cannot be empty
//   - No null bytes or control characters
//   - Extension must be .svg (case-insensitive)
func ValidateInputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "input path cannot be empty")
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if !strings.EqualFold(filepath.Ext(path), ".svg") {
		return New(ErrCodeInvalidPath, "invalid input %q: expected an .svg file", path)
	}

	return nil
}
