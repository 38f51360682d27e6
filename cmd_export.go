package main

import (
	"fmt"
	"math/rand"
	"strings"

	"choopy/core"
	"choopy/demo"
	"choopy/export"
	"choopy/importer"
	"choopy/layout"
	"choopy/network"
	"choopy/render"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type exportFlags struct {
	format string
	width  int
	height int
	seed   int64
	script string
	output string
}

func (c *cli) exportCmd() *cobra.Command {
	var f exportFlags
	formats := make([]string, 0)
	for _, ft := range export.GetAvailableFormats() {
		formats = append(formats, string(ft))
	}

	cmd := &cobra.Command{
		Use:   "export [source]",
		Short: "Render the network without a terminal",
		Long: `Lay the papers out, optionally replay a demo script against them,
and write the result in one of: ` + strings.Join(formats, ", ") + `.`,
		Example: `  choopy export --format svg -o network.svg
  choopy export Papers.json --seed 7 --script demo.yaml --format dot`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExport(cmd, args, f)
		},
	}
	cmd.Flags().StringVarP(&f.format, "format", "f", string(export.FormatASCII), "output format")
	cmd.Flags().IntVar(&f.width, "width", export.DefaultWidth, "columns for the ascii layout")
	cmd.Flags().IntVar(&f.height, "height", export.DefaultHeight, "rows for the ascii layout")
	cmd.Flags().Int64Var(&f.seed, "seed", 1, "layout seed")
	cmd.Flags().StringVar(&f.script, "script", "", "demo script to replay before exporting")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "write to file instead of stdout")
	return cmd
}

func (c *cli) runExport(cmd *cobra.Command, args []string, f exportFlags) error {
	format, err := export.ParseFormat(f.format)
	if err != nil {
		return err
	}
	if f.width <= 0 || f.height <= 0 {
		return fmt.Errorf("invalid size %dx%d", f.width, f.height)
	}

	source := c.source(args)
	papers, err := importer.LoadPapers(cmd.Context(), source)
	if err != nil {
		return err
	}
	c.log.Debug("papers loaded", zap.String("source", source), zap.Int("count", len(papers)))

	// the headless layout measures the same area the terminal would
	viewport := c.viewport()
	r := render.NewRenderer(viewport)
	cols, rows := r.Area(f.width, f.height)
	bounds := viewport.Bounds(cols, rows)

	s := network.NewState(c.params())
	s, _ = network.Reduce(s, network.Resized{Bounds: bounds})
	nodes := layout.Scatter(papers, bounds, core.Size{}, s.Params.Size, rand.New(rand.NewSource(f.seed)))
	s, _ = network.Reduce(s, network.Loaded{Nodes: nodes})

	if f.script != "" {
		script, err := demo.LoadScript(f.script)
		if err != nil {
			return err
		}
		s = demo.Replay(s, script)
		c.log.Debug("script replayed", zap.String("name", script.Name), zap.Int("steps", len(script.Steps)))
	}

	exporter, err := export.NewExporter(format, export.Options{
		Width:    f.width,
		Height:   f.height,
		Viewport: viewport,
	})
	if err != nil {
		return err
	}
	out, err := exporter.Export(s)
	if err != nil {
		return err
	}
	if err := writeOutput(cmd.OutOrStdout(), f.output, out); err != nil {
		return err
	}
	if f.output != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", Good.Sprint("wrote"), f.output)
	}
	return nil
}
