package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/pagefit/pkg/config"
	"github.com/matzehuels/pagefit/pkg/drawing"
	"github.com/matzehuels/pagefit/pkg/geom"
	"github.com/matzehuels/pagefit/pkg/layout"
	"github.com/matzehuels/pagefit/pkg/svg"
)

func (c *CLI) boundsCommand() *cobra.Command {
	var (
		configPath string
		elements   bool
	)
	cmd := &cobra.Command{
		Use:   "bounds [flags] <input.svg>...",
		Short: "Show the measured extent of drawings",
		Long: `Bounds reads each drawing and reports what place would do with it:
the content bounds in millimeters, whether it is rotated, the framed size
and whether it fits the configured page.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := layout.DefaultOptions()
			path, err := config.Find(configPath)
			if err != nil {
				return err
			}
			if path != "" {
				cfg, err := config.Load(path)
				if err != nil {
					return err
				}
				if err := cfg.Apply(&opts); err != nil {
					return err
				}
			}
			for i, input := range args {
				if i > 0 {
					fmt.Fprintln(out)
				}
				if err := runBounds(cmd.Context(), input, opts, elements); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "config file")
	cmd.Flags().BoolVarP(&elements, "elements", "e", false, "list the bounds of every element")
	return cmd
}

func runBounds(ctx context.Context, input string, opts layout.Options, elements bool) error {
	doc, err := svg.ReadFile(input)
	if err != nil {
		return err
	}
	opts.Logger = loggerFromContext(ctx).With("file", filepath.Base(input))
	_, res, err := layout.Run(doc, opts)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, StyleTitle.Render(input))
	printKeyValue("Unit", fmt.Sprintf("%g mm", unitOrOne(doc.Unit)))
	printKeyValue("Elements", describeCounts(doc.Counts()))
	printKeyValue("Bounds", formatBox(res.Source))
	printKeyValue("Content", formatSize(res.Trimmed.Size()))
	if res.Rotated {
		printKeyValue("Rotated", "yes")
	}
	printKeyValue("Framed", formatSize(res.Size()))
	printKeyValue("Page", fmt.Sprintf("%s %s at %s", res.Page.Name, formatSize(res.Page.Size()), res.Anchor))
	if res.Overflows(opts.PagePadding) {
		printWarning("does not fit inside the %g mm page padding", opts.PagePadding)
	}

	if elements {
		scale := geom.Scale(unitOrOne(doc.Unit), unitOrOne(doc.Unit))
		for i, el := range doc.Elements {
			b, ok := layout.ElementBounds(el)
			label := el.Shape.Kind().String()
			if el.ID != "" {
				label += "#" + el.ID
			}
			if !ok {
				printDetail("%3d %-16s (empty)", i, label)
				continue
			}
			printDetail("%3d %-16s %s", i, label, formatBox(geom.TransformBox(scale, b)))
		}
	}
	return nil
}

func unitOrOne(u float64) float64 {
	if u == 0 {
		return 1
	}
	return u
}

func describeCounts(counts map[drawing.Kind]int) string {
	kinds := make([]drawing.Kind, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	parts := make([]string, len(kinds))
	for i, k := range kinds {
		parts[i] = fmt.Sprintf("%d %s", counts[k], k)
	}
	return strings.Join(parts, ", ")
}

func formatBox(b r2.Box) string {
	return fmt.Sprintf("(%.2f, %.2f) - (%.2f, %.2f) mm", b.Min.X, b.Min.Y, b.Max.X, b.Max.Y)
}

func formatSize(v r2.Vec) string {
	return fmt.Sprintf("%.2f × %.2f mm", v.X, v.Y)
}
