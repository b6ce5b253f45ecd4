package cli

import (
	"bytes"
	"context"
	stderrors "errors"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/matzehuels/pagefit/pkg/errors"
	"github.com/matzehuels/pagefit/pkg/layout"
	"github.com/matzehuels/pagefit/pkg/render"
	"github.com/matzehuels/pagefit/pkg/svg"
)

// strip is a 40x20 mm drawing holding one 20x5 mm rectangle at (10,5).
const strip = `<svg xmlns="http://www.w3.org/2000/svg" width="40mm" height="20mm" viewBox="0 0 40 20">
  <title>strip</title>
  <rect x="10" y="5" width="20" height="5" fill="none" stroke="black"/>
</svg>`

// isolate points the working, config and cache directories at fresh temp
// dirs and captures user output.
func isolate(t *testing.T) (dir string, stdout *bytes.Buffer) {
	t.Helper()
	dir = t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, ".config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, ".cache"))

	stdout = &bytes.Buffer{}
	saved := out
	out = stdout
	t.Cleanup(func() { out = saved })
	return dir, stdout
}

func quietContext() context.Context {
	return withLogger(context.Background(), newLogger(io.Discard, log.InfoLevel))
}

func writeInput(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func svgJob(t *testing.T) placeJob {
	t.Helper()
	opts := layout.DefaultOptions()
	opts.Border.Width = 0
	return placeJob{layout: opts, format: render.FormatSVG, jobs: 2, precision: 6}
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func TestRunPlaceSingle(t *testing.T) {
	dir, stdout := isolate(t)
	input := writeInput(t, dir, "strip.svg", strip)

	if err := runPlace(quietContext(), []string{input}, "", false, svgJob(t)); err != nil {
		t.Fatalf("runPlace: %v", err)
	}

	dest := filepath.Join(dir, "strip_page.svg")
	doc, err := svg.ReadFile(dest)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	b, err := layout.ExtractBounds(doc)
	if err != nil {
		t.Fatal(err)
	}
	if !near(b.Min.X, 10) || !near(b.Min.Y, 10) || !near(b.Max.X, 30) || !near(b.Max.Y, 15) {
		t.Errorf("placed bounds = %v, want (10,10)-(30,15)", b)
	}
	if doc.Unit != 1 {
		t.Errorf("output unit = %g, want 1", doc.Unit)
	}
	if !strings.Contains(stdout.String(), "Placed") || !strings.Contains(stdout.String(), dest) {
		t.Errorf("stdout = %q", stdout.String())
	}
}

func TestRunPlaceNativePNG(t *testing.T) {
	dir, _ := isolate(t)
	input := writeInput(t, dir, "strip.svg", strip)

	job := svgJob(t)
	job.format = render.FormatPNG
	job.nativePNG = true
	if err := runPlace(quietContext(), []string{input}, "", true, job); err != nil {
		t.Fatalf("runPlace: %v", err)
	}

	f, err := os.Open(filepath.Join(dir, "strip_page.png"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 1588 || b.Dy() != 2246 {
		t.Fatalf("image size = %dx%d, want 1588x2246", b.Dx(), b.Dy())
	}

	// The rectangle sits at (10,10)-(30,15) mm: its top edge is stroked,
	// its inside is left unfilled.
	px := func(x, y float64) uint32 {
		r, _, _, _ := img.At(int(x*render.PixelsPerMM*2), int(y*render.PixelsPerMM*2)).RGBA()
		return r >> 8
	}
	if v := px(20, 10); v > 64 {
		t.Errorf("edge pixel red = %d, want dark", v)
	}
	if v := px(20, 12.5); v < 250 {
		t.Errorf("inner pixel red = %d, want white", v)
	}
}

func TestRunPlaceBatch(t *testing.T) {
	dir, stdout := isolate(t)
	a := writeInput(t, dir, "a.svg", strip)
	b := writeInput(t, dir, "b.svg", strip)
	empty := writeInput(t, dir, "empty.svg", `<svg xmlns="http://www.w3.org/2000/svg"><title>t</title></svg>`)
	outDir := filepath.Join(dir, "pages")

	err := runPlace(quietContext(), []string{a, b, empty}, outDir, false, svgJob(t))
	if err == nil || !strings.Contains(err.Error(), "1 of 3 files failed") {
		t.Fatalf("runPlace error = %v, want 1 of 3 failed", err)
	}
	for _, name := range []string{"a_page.svg", "b_page.svg"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(outDir, "empty_page.svg")); err == nil {
		t.Error("failed input produced an output file")
	}
	for _, want := range []string{"a.svg", "b.svg", "empty.svg", "Anchor"} {
		if !strings.Contains(stdout.String(), want) {
			t.Errorf("summary missing %q:\n%s", want, stdout.String())
		}
	}
}

func TestRunPlaceEmptyDocument(t *testing.T) {
	dir, _ := isolate(t)
	input := writeInput(t, dir, "empty.svg", `<svg xmlns="http://www.w3.org/2000/svg"/>`)

	err := runPlace(quietContext(), []string{input}, "", false, svgJob(t))
	if !errors.Is(err, errors.ErrCodeEmptyDocument) {
		t.Fatalf("error = %v, want EMPTY_DOCUMENT", err)
	}
	if !strings.Contains(err.Error(), "empty.svg") {
		t.Errorf("error %q does not name the input", err)
	}
}

func TestRunPlaceCanceled(t *testing.T) {
	dir, _ := isolate(t)
	input := writeInput(t, dir, "strip.svg", strip)

	ctx, cancel := context.WithCancel(quietContext())
	cancel()
	if err := runPlace(ctx, []string{input}, "", false, svgJob(t)); !stderrors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func parsePlaceFlags(t *testing.T, args ...string) (*pflag.FlagSet, *placeOpts) {
	t.Helper()
	opts := defaultPlaceOpts()
	fs := pflag.NewFlagSet("place", pflag.ContinueOnError)
	opts.bind(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parse %v: %v", args, err)
	}
	return fs, &opts
}

func TestResolvePlaceJob(t *testing.T) {
	tests := []struct {
		name   string
		config string
		args   []string
		check  func(t *testing.T, job placeJob)
	}{
		{
			name: "defaults",
			check: func(t *testing.T, job placeJob) {
				if job.layout != layout.DefaultOptions() {
					t.Errorf("layout = %+v", job.layout)
				}
				if job.format != render.FormatPDF || job.jobs != 4 || job.precision != 4 {
					t.Errorf("job = %+v", job)
				}
			},
		},
		{
			name:   "config file",
			config: "rect_width = 2\nanchor = \"CC\"\nformat = \"PNG\"\njobs = 1\n",
			check: func(t *testing.T, job placeJob) {
				if job.layout.Border.Width != 2 || job.layout.Anchor != layout.CenterCenter {
					t.Errorf("layout = %+v", job.layout)
				}
				if job.format != render.FormatPNG || job.jobs != 1 {
					t.Errorf("job = %+v", job)
				}
			},
		},
		{
			name:   "flags override config",
			config: "rect_width = 2\nanchor = \"CC\"\npage = \"A3\"\n",
			args:   []string{"-w", "0", "--anchor", "br", "-f", "svg"},
			check: func(t *testing.T, job placeJob) {
				if job.layout.Border.Width != 0 || job.layout.Anchor != layout.BottomRight {
					t.Errorf("layout = %+v", job.layout)
				}
				if job.layout.Page != layout.A3 {
					t.Errorf("page = %+v, want A3 from config", job.layout.Page)
				}
				if job.format != render.FormatSVG {
					t.Errorf("format = %s", job.format)
				}
			},
		},
		{
			name: "position alias",
			args: []string{"--position", "TR"},
			check: func(t *testing.T, job placeJob) {
				if job.layout.Anchor != layout.TopRight {
					t.Errorf("anchor = %v, want TR", job.layout.Anchor)
				}
			},
		},
		{
			name: "format from output extension",
			args: []string{"-o", "out.png"},
			check: func(t *testing.T, job placeJob) {
				if job.format != render.FormatPNG {
					t.Errorf("format = %s, want png", job.format)
				}
			},
		},
		{
			name: "native png",
			args: []string{"--native-png", "-o", "out.png"},
			check: func(t *testing.T, job placeJob) {
				if !job.nativePNG || job.format != render.FormatPNG {
					t.Errorf("nativePNG = %v, format = %s; want true, png", job.nativePNG, job.format)
				}
			},
		},
		{
			name: "explicit format beats extension",
			args: []string{"-o", "out.png", "-f", "svg"},
			check: func(t *testing.T, job placeJob) {
				if job.format != render.FormatSVG {
					t.Errorf("format = %s, want svg", job.format)
				}
			},
		},
		{
			name: "page and padding",
			args: []string{"--page", "letter", "-p", "0", "-d", "3", "-c", "#ff0000"},
			check: func(t *testing.T, job placeJob) {
				want := layout.DefaultOptions()
				want.Page = layout.Letter
				want.PagePadding = 0
				want.Border.Distance = 3
				want.Border.Color = "#ff0000"
				if job.layout != want {
					t.Errorf("layout = %+v, want %+v", job.layout, want)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir, _ := isolate(t)
			if tt.config != "" {
				writeInput(t, dir, "pagefit.toml", tt.config)
			}
			fs, opts := parsePlaceFlags(t, tt.args...)
			job, err := resolvePlaceJob(fs, opts)
			if err != nil {
				t.Fatalf("resolvePlaceJob: %v", err)
			}
			tt.check(t, job)
		})
	}
}

func TestResolvePlaceJobErrors(t *testing.T) {
	tests := []struct {
		name   string
		config string
		args   []string
		code   errors.Code
	}{
		{"negative width", "", []string{"-w", "-1"}, errors.ErrCodeInvalidConfig},
		{"bad anchor", "", []string{"-a", "XY"}, errors.ErrCodeInvalidConfig},
		{"bad page", "", []string{"--page", "B4"}, errors.ErrCodeInvalidConfig},
		{"bad format", "", []string{"-f", "gif"}, errors.ErrCodeInvalidFormat},
		{"zero jobs", "", []string{"-j", "0"}, errors.ErrCodeInvalidConfig},
		{"bad precision", "", []string{"--precision", "20"}, errors.ErrCodeInvalidConfig},
		{"bad config", "rect_width = -3\n", nil, errors.ErrCodeInvalidConfig},
		{"missing config", "", []string{"--config", "nope.toml"}, errors.ErrCodeFileNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir, _ := isolate(t)
			if tt.config != "" {
				writeInput(t, dir, "pagefit.toml", tt.config)
			}
			fs, opts := parsePlaceFlags(t, tt.args...)
			_, err := resolvePlaceJob(fs, opts)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestOutputPath(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name   string
		input  string
		output string
		format render.Format
		batch  bool
		want   string
	}{
		{"next to input", "in/board.svg", "", render.FormatPDF, false, filepath.Join("in", "board_page.pdf")},
		{"svg next to input", "board.svg", "", render.FormatSVG, false, "board_page.svg"},
		{"explicit file", "board.svg", "out.pdf", render.FormatPDF, false, "out.pdf"},
		{"trailing separator", "board.svg", "pages" + string(filepath.Separator), render.FormatPNG, false, filepath.Join("pages", "board_page.png")},
		{"existing dir", "board.svg", dir, render.FormatPDF, false, filepath.Join(dir, "board_page.pdf")},
		{"batch", "x/board.svg", "pages", render.FormatPDF, true, filepath.Join("pages", "board_page.pdf")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outputPath(tt.input, tt.output, tt.format, tt.batch); got != tt.want {
				t.Errorf("outputPath = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "page.svg")
	for _, content := range []string{"first", "second"} {
		if err := writeFile(path, []byte(content)); err != nil {
			t.Fatalf("writeFile: %v", err)
		}
		got, err := os.ReadFile(path)
		if err != nil || string(got) != content {
			t.Fatalf("content = %q, %v; want %q", got, err, content)
		}
	}
	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("directory holds %d entries, want only the page", len(entries))
	}
}

func TestPlaceCommand(t *testing.T) {
	dir, _ := isolate(t)
	input := writeInput(t, dir, "strip.svg", strip)
	dest := filepath.Join(dir, "framed.svg")

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs([]string{"place", "-a", "CC", "-o", dest, input})
	root.SetErr(io.Discard)
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("execute: %v", err)
	}

	doc, err := svg.ReadFile(dest)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	b, err := layout.ExtractBounds(doc)
	if err != nil {
		t.Fatal(err)
	}
	// 20x5 content framed by 1.5 + 5 mm on each side is 33x18, centered on
	// A4. The border's centerline sits 2.5 mm inside that frame.
	minX, minY := (210-33)/2.0+2.5, (297-18)/2.0+2.5
	if !near(b.Min.X, minX) || !near(b.Min.Y, minY) {
		t.Errorf("bounds = %v, want min (%g, %g)", b, minX, minY)
	}
	if !near(b.Max.X-b.Min.X, 28) || !near(b.Max.Y-b.Min.Y, 13) {
		t.Errorf("size = %v x %v, want 28 x 13", b.Max.X-b.Min.X, b.Max.Y-b.Min.Y)
	}
}

func TestPlaceStats(t *testing.T) {
	dir, _ := isolate(t)
	portrait := `<svg xmlns="http://www.w3.org/2000/svg" width="10mm" height="30mm" viewBox="0 0 10 30">
  <line x1="1" y1="1" x2="5" y2="25" stroke="black"/>
</svg>`
	inputs := []string{
		writeInput(t, dir, "wide.svg", strip),
		writeInput(t, dir, "tall.svg", portrait),
		writeInput(t, dir, "broken.svg", "<svg"),
	}

	stats := &placeStats{}
	restore := stats.register()
	ctx := quietContext()
	job := svgJob(t)
	for _, in := range inputs {
		placeFile(ctx, loggerFromContext(ctx), converter{Converter: render.NewConverter(), close: func() {}}, in, outputPath(in, "", job.format, false), job)
	}
	restore()

	if got := stats.placed.Load(); got != 2 {
		t.Errorf("placed = %d, want 2", got)
	}
	if got := stats.failed.Load(); got != 1 {
		t.Errorf("failed = %d, want 1", got)
	}
	if got := stats.rotated.Load(); got != 1 {
		t.Errorf("rotated = %d, want 1", got)
	}
}
