package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/matzehuels/pagefit/pkg/cache"
	"github.com/matzehuels/pagefit/pkg/config"
	"github.com/matzehuels/pagefit/pkg/errors"
	"github.com/matzehuels/pagefit/pkg/layout"
	"github.com/matzehuels/pagefit/pkg/observability"
	"github.com/matzehuels/pagefit/pkg/render"
	"github.com/matzehuels/pagefit/pkg/svg"
)

// outputSuffix is appended to the input name when no output file is given.
const outputSuffix = "_page"

// placeOpts holds the flags of the place command.
type placeOpts struct {
	output       string
	format       string
	configPath   string
	page         string
	anchor       string
	rectWidth    float64
	rectDistance float64
	rectColor    string
	pagePadding  float64
	precision    int
	jobs         int
	pick         bool
	noCache      bool
	nativePNG    bool
}

// placeJob is the resolved work for one run of the place command.
type placeJob struct {
	layout    layout.Options
	format    render.Format
	jobs      int
	precision int
	nativePNG bool
}

func defaultPlaceOpts() placeOpts {
	defaults := layout.DefaultOptions()
	return placeOpts{
		format:       string(render.FormatPDF),
		page:         defaults.Page.Name,
		anchor:       defaults.Anchor.String(),
		rectWidth:    defaults.Border.Width,
		rectDistance: defaults.Border.Distance,
		rectColor:    defaults.Border.Color,
		pagePadding:  defaults.PagePadding,
		precision:    4,
		jobs:         4,
	}
}

func (o *placeOpts) bind(f *pflag.FlagSet) {
	f.StringVarP(&o.output, "output", "o", "", "output file, or directory for several inputs")
	f.StringVarP(&o.format, "format", "f", o.format, "output format: "+formatList())
	f.StringVar(&o.configPath, "config", "", "config file (default ./"+config.FileName+", then the user config dir)")
	f.StringVar(&o.page, "page", o.page, "page size: "+pageList())
	f.StringVarP(&o.anchor, "anchor", "a", o.anchor, "position on the page: TL TC TR CL CC CR BL BC BR")
	f.Float64VarP(&o.rectWidth, "rect-width", "w", o.rectWidth, "border stroke width in mm (0 disables the border)")
	f.Float64VarP(&o.rectDistance, "rect-distance", "d", o.rectDistance, "gap between drawing and border in mm")
	f.StringVarP(&o.rectColor, "rect-color", "c", o.rectColor, "border color")
	f.Float64VarP(&o.pagePadding, "page-padding", "p", o.pagePadding, "page margin in mm")
	f.IntVar(&o.precision, "precision", o.precision, "decimals written for SVG coordinates")
	f.IntVarP(&o.jobs, "jobs", "j", o.jobs, "files processed in parallel")
	f.BoolVar(&o.pick, "pick", false, "choose the anchor interactively")
	f.BoolVar(&o.noCache, "no-cache", false, "do not reuse cached PDF/PNG conversions")
	f.BoolVar(&o.nativePNG, "native-png", false, "rasterize PNG in-process instead of calling rsvg-convert")
	f.SetNormalizeFunc(flagAliases)
}

func (c *CLI) placeCommand() *cobra.Command {
	opts := defaultPlaceOpts()
	cmd := &cobra.Command{
		Use:   "place [flags] <input.svg>...",
		Short: "Trim, frame and place drawings on a page",
		Long: `Place trims each drawing to its content, rotates portrait drawings to
landscape, draws a border around them and places them on a page.

Values come from built-in defaults, then the config file, then flags.
Without --output, board.svg is written to board_page.pdf next to it.
With several inputs, --output names a directory.

PDF and PNG output use rsvg-convert. PNG falls back to a built-in
rasterizer when it is missing, or always with --native-png.`,
		Example: `  pagefit place board.svg
  pagefit place -a CC --page letter -o out.pdf board.svg
  pagefit place -f svg -w 0 -o pages/ *.svg`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			job, err := resolvePlaceJob(cmd.Flags(), &opts)
			if err != nil {
				return err
			}
			if opts.pick {
				if f, ok := cmd.InOrStdin().(*os.File); ok && !term.IsTerminal(int(f.Fd())) {
					return errors.InvalidConfig("--pick needs an interactive terminal")
				}
				a, err := pickAnchor(cmd.InOrStdin(), cmd.ErrOrStderr(), filepath.Base(args[0]), job.layout.Anchor)
				if err != nil {
					return err
				}
				job.layout.Anchor = a
			}
			return runPlace(cmd.Context(), args, opts.output, opts.noCache, job)
		},
	}
	opts.bind(cmd.Flags())

	_ = cmd.RegisterFlagCompletionFunc("anchor", fixedCompletion(anchorSymbols()))
	_ = cmd.RegisterFlagCompletionFunc("format", fixedCompletion(formatNames()))
	_ = cmd.RegisterFlagCompletionFunc("page", fixedCompletion(pageNames()))

	return cmd
}

// flagAliases accepts --position for --anchor.
func flagAliases(f *pflag.FlagSet, name string) pflag.NormalizedName {
	if name == "position" {
		name = "anchor"
	}
	return pflag.NormalizedName(name)
}

// resolvePlaceJob merges defaults, the config file and the flags that were
// set explicitly, in that order.
func resolvePlaceJob(flags *pflag.FlagSet, opts *placeOpts) (placeJob, error) {
	job := placeJob{
		layout:    layout.DefaultOptions(),
		format:    render.FormatPDF,
		jobs:      opts.jobs,
		precision: opts.precision,
		nativePNG: opts.nativePNG,
	}

	path, err := config.Find(opts.configPath)
	if err != nil {
		return job, err
	}
	if path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return job, err
		}
		if err := cfg.Apply(&job.layout); err != nil {
			return job, err
		}
		if cfg.Format != nil {
			if job.format, err = render.ParseFormat(*cfg.Format); err != nil {
				return job, err
			}
		}
		if cfg.Jobs != nil && !flags.Changed("jobs") {
			job.jobs = *cfg.Jobs
		}
	}

	if flags.Changed("rect-width") {
		job.layout.Border.Width = opts.rectWidth
	}
	if flags.Changed("rect-distance") {
		job.layout.Border.Distance = opts.rectDistance
	}
	if flags.Changed("rect-color") {
		job.layout.Border.Color = opts.rectColor
	}
	if flags.Changed("page-padding") {
		job.layout.PagePadding = opts.pagePadding
	}
	if flags.Changed("anchor") {
		if job.layout.Anchor, err = layout.ParseAnchor(opts.anchor); err != nil {
			return job, err
		}
	}
	if flags.Changed("page") {
		if job.layout.Page, err = config.ParsePage(opts.page); err != nil {
			return job, err
		}
	}
	switch {
	case flags.Changed("format"):
		if job.format, err = render.ParseFormat(opts.format); err != nil {
			return job, err
		}
	case opts.output != "":
		// -o board.png implies png
		if f, err := render.ParseFormat(filepath.Ext(opts.output)); err == nil && filepath.Ext(opts.output) != "" {
			job.format = f
		}
	}

	if job.jobs < 1 {
		return job, errors.InvalidConfig("jobs must be at least 1, got %d", job.jobs)
	}
	if job.precision < 0 || job.precision > 12 {
		return job, errors.InvalidConfig("precision must be between 0 and 12, got %d", job.precision)
	}
	return job, job.layout.Validate()
}

// runPlace processes every input and reports the results. A failing file
// does not stop the others; the command fails if any file failed.
func runPlace(ctx context.Context, inputs []string, output string, noCache bool, job placeJob) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	conv, err := newConverter(logger, noCache, job.format, job.nativePNG)
	if err != nil {
		return err
	}
	defer conv.close()

	stats := &placeStats{}
	defer stats.register()()

	batch := len(inputs) > 1
	if batch && output != "" {
		if err := os.MkdirAll(output, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	var spin *spinner
	if job.format != render.FormatSVG && logger.GetLevel() > log.DebugLevel && term.IsTerminal(int(os.Stderr.Fd())) {
		spin = newSpinner(ctx, os.Stderr, fmt.Sprintf("Placing %d file(s)", len(inputs)))
		spin.Start()
	}

	outcomes := make([]placeOutcome, len(inputs))
	var g errgroup.Group
	g.SetLimit(job.jobs)
	for i, input := range inputs {
		i, input := i, input
		g.Go(func() error {
			dest := outputPath(input, output, job.format, batch)
			outcomes[i] = placeFile(ctx, logger, conv, input, dest, job)
			return ctx.Err()
		})
	}
	werr := g.Wait()
	if spin != nil {
		spin.Stop()
	}
	if werr != nil {
		return werr
	}

	if !batch {
		o := outcomes[0]
		if o.err != nil {
			return o.err
		}
		printSuccess("Placed %s %s on %s (%s mm)", o.input, StyleHighlight.Render(o.anchor), job.layout.Page.Name, o.size)
		printFile(o.output)
		if o.rotated {
			printDetail("rotated to landscape")
		}
		if stats.cacheHits.Load() > 0 {
			printDetail("conversion served from cache")
		}
		if o.overflow {
			printWarning("drawing does not fit inside the page padding")
		}
		prog.done("Done")
		return nil
	}

	printSummary(outcomes)
	failed := stats.failed.Load()
	prog.done("Done", "files", len(inputs), "failed", failed, "rotated", stats.rotated.Load(), "cached", stats.cacheHits.Load())
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(inputs))
	}
	return nil
}

// placeFile runs the whole pipeline for one input. It never panics on bad
// input; failures are returned in the outcome.
func placeFile(ctx context.Context, logger *log.Logger, conv converter, input, dest string, job placeJob) (o placeOutcome) {
	o = placeOutcome{input: input, output: dest, anchor: job.layout.Anchor.String()}
	flog := logger.With("file", filepath.Base(input))

	hooks := observability.Place()
	hooks.OnPlaceStart(ctx, input)
	start := time.Now()
	defer func() { hooks.OnPlaceComplete(ctx, input, o.rotated, time.Since(start), o.err) }()

	doc, err := svg.ReadFile(input)
	if err != nil {
		o.err = err
		return o
	}
	flog.Debug("Read drawing", "elements", doc.Len(), "unit", doc.Unit)

	opts := job.layout
	opts.Logger = flog
	placed, res, err := layout.Run(doc, opts)
	if err != nil {
		o.err = err
		return o
	}
	size := res.Size()
	o.size = fmt.Sprintf("%.1f × %.1f", size.X, size.Y)
	o.rotated = res.Rotated
	o.overflow = res.Overflows(opts.PagePadding)
	if o.overflow {
		flog.Warn("Drawing overflows the usable page area", "size", o.size, "page", res.Page.Name)
	}

	page := svg.RenderPage(placed, res.Page,
		svg.WithPrecision(job.precision),
		svg.WithTitle(strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))))

	var data []byte
	if conv.native && job.format == render.FormatPNG {
		data, err = render.RasterizePNG(placed, res.Page, render.DefaultScale)
	} else {
		data, err = conv.Convert(ctx, page, job.format)
	}
	if err != nil {
		o.err = fmt.Errorf("%s: %w", input, err)
		return o
	}
	if err := writeFile(dest, data); err != nil {
		o.err = err
		return o
	}
	flog.Debug("Wrote page", "path", dest, "bytes", len(data))
	return o
}

// outputPath picks the destination for input. In batch mode output is a
// directory; otherwise it is the file itself unless it names an existing
// directory.
func outputPath(input, output string, f render.Format, batch bool) string {
	name := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input)) + outputSuffix + f.Ext()
	if output == "" {
		return filepath.Join(filepath.Dir(input), name)
	}
	if batch || strings.HasSuffix(output, string(filepath.Separator)) {
		return filepath.Join(output, name)
	}
	if fi, err := os.Stat(output); err == nil && fi.IsDir() {
		return filepath.Join(output, name)
	}
	return output
}

// writeFile writes data to path through a temporary file in the same
// directory so readers never see a partial page.
func writeFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".pagefit-*")
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// converter couples a render.Converter with the cache it owns. When native
// is set, PNG pages are rasterized in-process and never reach rsvg-convert.
type converter struct {
	*render.Converter
	close  func()
	native bool
}

func newConverter(logger *log.Logger, noCache bool, f render.Format, nativePNG bool) (converter, error) {
	native := nativePNG && f == render.FormatPNG
	if f != render.FormatSVG && !native {
		if err := render.Available(); err != nil {
			if f != render.FormatPNG {
				return converter{}, err
			}
			logger.Warn("rsvg-convert not found, rasterizing PNG in-process")
			native = true
		}
	}
	c, err := newCache(noCache)
	if err != nil {
		logger.Warn("Conversion cache disabled", "err", err)
		c = cache.NewNullCache()
	}
	return converter{
		Converter: render.NewConverter(render.WithCache(c), render.WithLogger(logger)),
		close:     func() { _ = c.Close() },
		native:    native,
	}, nil
}

// =============================================================================
// Completion Helpers
// =============================================================================

func fixedCompletion(values []string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return values, cobra.ShellCompDirectiveNoFileComp
	}
}

func anchorSymbols() []string {
	anchors := layout.Anchors()
	out := make([]string, len(anchors))
	for i, a := range anchors {
		out[i] = a.String()
	}
	return out
}

func formatNames() []string {
	out := make([]string, len(render.Formats))
	for i, f := range render.Formats {
		out[i] = string(f)
	}
	return out
}

func pageNames() []string {
	out := make([]string, len(layout.PageSizes))
	for i, p := range layout.PageSizes {
		out[i] = p.Name
	}
	return out
}

func formatList() string { return strings.Join(formatNames(), ", ") }
func pageList() string   { return strings.Join(pageNames(), ", ") }
