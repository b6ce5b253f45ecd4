package render

import (
	"bytes"
	"context"
	"os/exec"
	"strconv"
	"strings"

	"github.com/matzehuels/pagefit/pkg/errors"
)

// Tool is the external converter binary.
const Tool = "rsvg-convert"

// Available reports whether the converter binary can be found on PATH.
func Available() error {
	if _, err := exec.LookPath(Tool); err != nil {
		return errors.Wrap(errors.ErrCodeRenderFailed, err,
			"PDF and PNG export require librsvg. Install with:\n  macOS:  brew install librsvg\n  Linux:  apt install librsvg2-bin")
	}
	return nil
}

// ToPDF converts an SVG page to a single-page PDF.
func ToPDF(ctx context.Context, svg []byte) ([]byte, error) {
	return rsvgConvert(ctx, svg, "pdf")
}

// ToPNG converts an SVG page to PNG. A scale of 1 renders at 96 dpi.
func ToPNG(ctx context.Context, svg []byte, scale float64) ([]byte, error) {
	return rsvgConvert(ctx, svg, "png", "-z", strconv.FormatFloat(scale, 'f', 2, 64))
}

// rsvgConvert pipes svg through rsvg-convert. The process is killed when
// ctx is canceled.
func rsvgConvert(ctx context.Context, svg []byte, format string, extraArgs ...string) ([]byte, error) {
	if err := Available(); err != nil {
		return nil, err
	}

	args := append([]string{"-f", format}, extraArgs...)
	cmd := exec.CommandContext(ctx, Tool, args...)
	cmd.Stdin = bytes.NewReader(svg)

	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "%s: %s", Tool, strings.TrimSpace(stderr.String()))
	}
	return out.Bytes(), nil
}
