// Package render converts placed SVG pages into printable formats.
//
// Conversion shells out to rsvg-convert from librsvg, which renders the
// millimeter page size of the SVG exactly:
//
//	page := svg.RenderPage(placed, layout.A4)
//	pdf, err := render.ToPDF(ctx, page)
//	png, err := render.ToPNG(ctx, page, 2.0)  // 2x scale
//
// A [Converter] adds a [cache.Cache] in front of the external tool so
// unchanged pages are not converted twice:
//
//	conv := render.NewConverter(render.WithCache(c), render.WithLogger(logger))
//	out, err := conv.Convert(ctx, page, render.FormatPDF)
//
// Install librsvg with brew install librsvg (macOS) or
// apt install librsvg2-bin (Linux). Without it, PNG pages can still be
// produced in-process from the placed document:
//
//	png, err := render.RasterizePNG(placed, layout.A4, render.DefaultScale)
//
// The in-process rasterizer paints solid fills and strokes only.
//
// [cache.Cache]: github.com/matzehuels/pagefit/pkg/cache.Cache
package render
