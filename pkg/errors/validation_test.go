package errors

import (
	"math"
	"testing"
)

func TestValidateDimension(t *testing.T) {
	tests := []struct {
		name    string
		value   float64
		wantErr bool
	}{
		{"zero", 0, false},
		{"positive", 1.5, false},
		{"negative", -0.1, true},
		{"negative zero", math.Copysign(0, -1), false},
		{"nan", math.NaN(), true},
		{"positive infinity", math.Inf(1), true},
		{"negative infinity", math.Inf(-1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDimension("rect width", tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateDimension(%v) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidConfig) {
				t.Errorf("error code = %v, want %v", GetCode(err), ErrCodeInvalidConfig)
			}
		})
	}
}

func TestValidatePageSize(t *testing.T) {
	tests := []struct {
		name          string
		width, height float64
		wantErr       bool
	}{
		{"a4", 210, 297, false},
		{"landscape", 297, 210, false},
		{"zero width", 0, 297, true},
		{"zero height", 210, 0, true},
		{"negative height", 210, -1, true},
		{"nan width", math.NaN(), 297, true},
		{"nan height", 210, math.NaN(), true},
		{"infinite width", math.Inf(1), 297, true},
		{"negative infinite height", 210, math.Inf(-1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePageSize(tt.width, tt.height)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidatePageSize(%v, %v) error = %v, wantErr %v", tt.width, tt.height, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidConfig) {
				t.Errorf("error code = %v, want %v", GetCode(err), ErrCodeInvalidConfig)
			}
		})
	}
}

func TestValidateInputPath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"relative svg", "board.svg", false},
		{"absolute svg", "/tmp/export/board.svg", false},
		{"upper case extension", "BOARD.SVG", false},
		{"dotted directory", "exports.v2/board.svg", false},
		{"empty", "", true},
		{"wrong extension", "board.pdf", true},
		{"svgz", "board.svgz", true},
		{"extension only in directory", "board.svg/notes.txt", true},
		{"no extension", "board", true},
		{"null byte", "bo\x00ard.svg", true},
		{"newline", "bo\nard.svg", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateInputPath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateInputPath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("error code = %v, want %v", GetCode(err), ErrCodeInvalidPath)
			}
		})
	}
}
