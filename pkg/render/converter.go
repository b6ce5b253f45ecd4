package render

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pagefit/pkg/cache"
	"github.com/matzehuels/pagefit/pkg/errors"
	"github.com/matzehuels/pagefit/pkg/observability"
)

// Format is an output file format.
type Format string

const (
	FormatSVG Format = "svg"
	FormatPDF Format = "pdf"
	FormatPNG Format = "png"
)

// Formats lists the supported output formats.
var Formats = []Format{FormatPDF, FormatSVG, FormatPNG}

// ParseFormat parses a format name, ignoring case and a leading dot.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "."))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unknown format %q (must be one of: pdf, svg, png)", s)
}

// Ext returns the file extension including the dot.
func (f Format) Ext() string { return "." + string(f) }

// DefaultTTL bounds how long converted pages stay in the cache.
const DefaultTTL = 7 * 24 * time.Hour

// ConverterOption configures a Converter.
type ConverterOption func(*Converter)

// WithCache stores conversions in c.
func WithCache(c cache.Cache) ConverterOption {
	return func(conv *Converter) { conv.cache = c }
}

// WithTTL sets how long cached conversions are kept (default [DefaultTTL]).
func WithTTL(ttl time.Duration) ConverterOption {
	return func(conv *Converter) { conv.ttl = ttl }
}

// DefaultScale renders PNG pages at 2x resolution.
const DefaultScale = 2.0

// WithScale sets the PNG scale factor (default [DefaultScale]).
func WithScale(s float64) ConverterOption {
	return func(conv *Converter) { conv.scale = s }
}

// WithLogger sets the logger for cache hits and conversions.
func WithLogger(l *log.Logger) ConverterOption {
	return func(conv *Converter) { conv.logger = l }
}

// Converter turns SVG pages into output files, consulting a cache first.
// It is safe for concurrent use when its cache is.
type Converter struct {
	cache  cache.Cache
	ttl    time.Duration
	scale  float64
	logger *log.Logger

	run func(ctx context.Context, svg []byte, f Format, scale float64) ([]byte, error)
}

// NewConverter returns a converter without a cache unless [WithCache] is given.
func NewConverter(opts ...ConverterOption) *Converter {
	c := &Converter{
		cache:  cache.NewNullCache(),
		ttl:    DefaultTTL,
		scale:  DefaultScale,
		logger: log.New(io.Discard),
		run:    convert,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Convert renders svg in format f. SVG output is returned unchanged.
func (c *Converter) Convert(ctx context.Context, svg []byte, f Format) ([]byte, error) {
	if f == FormatSVG {
		return svg, nil
	}

	key := cache.Key(string(f), cache.Hash(svg), c.scale)
	hooks := observability.Cache()
	if data, ok, err := c.cache.Get(ctx, key); err == nil && ok {
		hooks.OnCacheHit(ctx, string(f))
		c.logger.Debug("Conversion cache hit", "format", f, "bytes", len(data))
		return data, nil
	} else if err != nil {
		c.logger.Warn("Cache read failed", "error", err)
	}
	hooks.OnCacheMiss(ctx, string(f))

	start := time.Now()
	data, err := c.run(ctx, svg, f, c.scale)
	took := time.Since(start)
	observability.Convert().OnConvert(ctx, string(f), len(data), took, err)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("Converted page", "format", f, "bytes", len(data), "took", took.Round(time.Millisecond))

	if err := c.cache.Set(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Cache write failed", "error", err)
	} else {
		hooks.OnCacheSet(ctx, string(f), len(data))
	}
	return data, nil
}

func convert(ctx context.Context, svg []byte, f Format, scale float64) ([]byte, error) {
	switch f {
	case FormatPDF:
		return ToPDF(ctx, svg)
	case FormatPNG:
		return ToPNG(ctx, svg, scale)
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "cannot convert to %q", f)
}
