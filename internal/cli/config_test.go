package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/pagefit/pkg/config"
	"github.com/matzehuels/pagefit/pkg/errors"
	"github.com/matzehuels/pagefit/pkg/layout"
)

func TestInitConfig(t *testing.T) {
	dir, _ := isolate(t)
	path := filepath.Join(dir, "sub", "pagefit.toml")

	if err := initConfig(path, false); err != nil {
		t.Fatalf("initConfig: %v", err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	opts := layout.DefaultOptions()
	if err := cfg.Apply(&opts); err != nil || opts != layout.DefaultOptions() {
		t.Errorf("written config applies as %+v, %v", opts, err)
	}

	if err := initConfig(path, false); !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("second init error = %v, want INVALID_PATH", err)
	}
	if err := initConfig(path, true); err != nil {
		t.Errorf("forced init: %v", err)
	}
}

func TestEffectiveConfig(t *testing.T) {
	dir, _ := isolate(t)

	cfg, err := effectiveConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Path != "" || *cfg.Anchor != "TL" {
		t.Errorf("defaults = %+v", cfg)
	}

	writeInput(t, dir, config.FileName, "anchor = \"BR\"\npage_width = 100\npage_height = 80\n")
	cfg, err = effectiveConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Path != config.FileName || *cfg.Anchor != "BR" || *cfg.RectWidth != layout.DefaultRectWidth {
		t.Errorf("merged = %+v", cfg)
	}
	if cfg.Page != nil || *cfg.PageWidth != 100 {
		t.Errorf("custom page not carried: page=%v width=%v", cfg.Page, cfg.PageWidth)
	}
}

func TestConfigShowCommand(t *testing.T) {
	dir, stdout := isolate(t)
	writeInput(t, dir, config.FileName, "rect_color = \"red\"\n")

	root := New(os.Stderr, LogInfo).RootCommand()
	root.SetArgs([]string{"config", "show"})
	if err := root.Execute(); err != nil {
		t.Fatalf("config show: %v", err)
	}
	for _, want := range []string{"# from pagefit.toml", `rect_color = "red"`, `page = "A4"`} {
		if !strings.Contains(stdout.String(), want) {
			t.Errorf("output missing %q:\n%s", want, stdout.String())
		}
	}
}

func TestBoundsCommand(t *testing.T) {
	dir, stdout := isolate(t)
	input := writeInput(t, dir, "strip.svg", strip)

	root := New(os.Stderr, LogInfo).RootCommand()
	root.SetArgs([]string{"bounds", "-e", input})
	if err := root.Execute(); err != nil {
		t.Fatalf("bounds: %v", err)
	}
	for _, want := range []string{
		"(10.00, 5.00) - (30.00, 10.00) mm",
		"20.00 × 5.00 mm",
		"33.00 × 18.00 mm",
		"1 rect",
		"A4",
	} {
		if !strings.Contains(stdout.String(), want) {
			t.Errorf("output missing %q:\n%s", want, stdout.String())
		}
	}
}
