package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pagefit/pkg/config"
	"github.com/matzehuels/pagefit/pkg/errors"
)

func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and create config files",
	}
	cmd.AddCommand(c.configPathCommand())
	cmd.AddCommand(c.configShowCommand())
	cmd.AddCommand(c.configInitCommand())
	return cmd
}

func (c *CLI) configPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file in use and the search order",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.Find("")
			if err != nil {
				return err
			}
			if path == "" {
				printInfo("No config file found, using defaults")
			} else {
				printKeyValue("Using", path)
			}
			for _, p := range config.SearchPaths() {
				printDetail("%s", p)
			}
			return nil
		},
	}
}

func (c *CLI) configShowCommand() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as TOML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := effectiveConfig(configPath)
			if err != nil {
				return err
			}
			if cfg.Path != "" {
				fmt.Fprintln(out, StyleDim.Render("# from "+cfg.Path))
			} else {
				fmt.Fprintln(out, StyleDim.Render("# built-in defaults"))
			}
			return cfg.Write(out)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "config file")
	return cmd
}

func (c *CLI) configInitCommand() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a config file with the default values",
		Long:  "Init writes the defaults to ./" + config.FileName + ", or to path if given.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.FileName
			if len(args) == 1 {
				path = args[0]
			}
			if err := initConfig(path, force); err != nil {
				return err
			}
			printSuccess("Wrote %s", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

// effectiveConfig returns the defaults overlaid with the config file found
// for explicit, if any.
func effectiveConfig(explicit string) (*config.Config, error) {
	merged := config.Default()
	path, err := config.Find(explicit)
	if err != nil || path == "" {
		return merged, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	overlay(merged, cfg)
	return merged, nil
}

func overlay(dst, src *config.Config) {
	set := func(d **float64, s *float64) {
		if s != nil {
			*d = s
		}
	}
	set(&dst.RectWidth, src.RectWidth)
	set(&dst.RectDistance, src.RectDistance)
	set(&dst.PagePadding, src.PagePadding)
	set(&dst.PageWidth, src.PageWidth)
	set(&dst.PageHeight, src.PageHeight)
	if src.RectColor != nil {
		dst.RectColor = src.RectColor
	}
	if src.Anchor != nil {
		dst.Anchor = src.Anchor
	}
	if src.Page != nil {
		dst.Page = src.Page
	}
	if src.PageWidth != nil {
		dst.Page = nil
	}
	if src.Format != nil {
		dst.Format = src.Format
	}
	if src.Jobs != nil {
		dst.Jobs = src.Jobs
	}
	dst.Path = src.Path
}

func initConfig(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return errors.New(errors.ErrCodeInvalidPath, "%s already exists (use --force to overwrite)", path)
	}
	var buf bytes.Buffer
	buf.WriteString("# pagefit configuration. Lengths are millimeters.\n")
	if err := config.Default().Write(&buf); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
