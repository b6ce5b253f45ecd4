// Package config loads pagefit settings from TOML files.
//
// A config file sets defaults for the place command; flags given on the
// command line override it. All lengths are millimeters:
//
//	rect_width = 5        # border stroke, 0 disables the border
//	rect_distance = 1.5   # gap between drawing and border
//	rect_color = "#000000"
//	page_padding = 10
//	anchor = "TL"         # TL TC TR CL CC CR BL BC BR
//	page = "A4"           # A3 A4 A5 Letter Legal, or page_width/page_height
//	format = "pdf"        # pdf svg png
//	jobs = 4              # files processed in parallel
//
// Files are searched in the order given by [Find].
package config

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/pagefit/pkg/errors"
	"github.com/matzehuels/pagefit/pkg/layout"
	"github.com/matzehuels/pagefit/pkg/render"
)

// FileName is the config file looked up in the working directory.
const FileName = "pagefit.toml"

// Config holds the values of a config file. Nil fields were not set.
type Config struct {
	RectWidth    *float64 `toml:"rect_width"`
	RectDistance *float64 `toml:"rect_distance"`
	RectColor    *string  `toml:"rect_color"`
	PagePadding  *float64 `toml:"page_padding"`
	Anchor       *string  `toml:"anchor"`
	Page         *string  `toml:"page"`
	PageWidth    *float64 `toml:"page_width"`
	PageHeight   *float64 `toml:"page_height"`
	Format       *string  `toml:"format"`
	Jobs         *int     `toml:"jobs"`

	// Path is the file the values were read from; empty for defaults.
	Path string `toml:"-"`
}

// Default returns a config with every value set to its built-in default.
func Default() *Config {
	opts := layout.DefaultOptions()
	return &Config{
		RectWidth:    ptr(opts.Border.Width),
		RectDistance: ptr(opts.Border.Distance),
		RectColor:    ptr(opts.Border.Color),
		PagePadding:  ptr(opts.PagePadding),
		Anchor:       ptr(opts.Anchor.String()),
		Page:         ptr(opts.Page.Name),
		Format:       ptr(string(render.FormatPDF)),
		Jobs:         ptr(4),
	}
}

func ptr[T any](v T) *T { return &v }

// Load reads and validates the config file at path. Unknown keys are
// rejected so that typos do not silently fall back to defaults.
func Load(path string) (*Config, error) {
	var c Config
	md, err := toml.DecodeFile(path, &c)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s not found", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, errors.InvalidConfig("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	c.Path = path
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Find returns the config file to use. An explicit path must exist.
// Otherwise ./pagefit.toml and then $XDG_CONFIG_HOME/pagefit/config.toml
// are tried; the empty string means no file was found.
func Find(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s not found", explicit)
		}
		return explicit, nil
	}
	for _, p := range SearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", nil
}

// SearchPaths lists the implicit config locations in lookup order.
func SearchPaths() []string {
	paths := []string{FileName}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "pagefit", "config.toml"))
	}
	return paths
}

// Validate checks every set value.
func (c *Config) Validate() error {
	opts := layout.DefaultOptions()
	if err := c.Apply(&opts); err != nil {
		return err
	}
	if c.Format != nil {
		if _, err := render.ParseFormat(*c.Format); err != nil {
			return errors.InvalidConfig("format: %s", errors.UserMessage(err))
		}
	}
	if c.Jobs != nil && *c.Jobs < 1 {
		return errors.InvalidConfig("jobs must be at least 1, got %d", *c.Jobs)
	}
	return opts.Validate()
}

// Apply overwrites the options that c sets.
func (c *Config) Apply(opts *layout.Options) error {
	if c.RectWidth != nil {
		opts.Border.Width = *c.RectWidth
	}
	if c.RectDistance != nil {
		opts.Border.Distance = *c.RectDistance
	}
	if c.RectColor != nil {
		opts.Border.Color = *c.RectColor
	}
	if c.PagePadding != nil {
		opts.PagePadding = *c.PagePadding
	}
	if c.Anchor != nil {
		a, err := layout.ParseAnchor(*c.Anchor)
		if err != nil {
			return err
		}
		opts.Anchor = a
	}
	if c.Page != nil {
		p, err := ParsePage(*c.Page)
		if err != nil {
			return err
		}
		opts.Page = p
	}
	if c.PageWidth != nil || c.PageHeight != nil {
		if c.PageWidth == nil || c.PageHeight == nil {
			return errors.InvalidConfig("page_width and page_height must be set together")
		}
		opts.Page = layout.Page{Name: "custom", Width: *c.PageWidth, Height: *c.PageHeight}
	}
	return nil
}

// ParsePage looks up a named page size.
func ParsePage(name string) (layout.Page, error) {
	p, ok := layout.LookupPage(name)
	if !ok {
		names := make([]string, len(layout.PageSizes))
		for i, p := range layout.PageSizes {
			names[i] = p.Name
		}
		return layout.Page{}, errors.InvalidConfig("unknown page %q (must be one of: %s)", name, strings.Join(names, ", "))
	}
	return p, nil
}

// Write encodes c as TOML.
func (c *Config) Write(w io.Writer) error {
	enc := toml.NewEncoder(w)
	enc.Indent = ""
	return enc.Encode(c)
}
