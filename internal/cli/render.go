package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowgrid/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output        string // output file path ("-" or empty means stdout for text/dot)
	format        string // output format: text, dot, svg, png
	paddingX      int    // horizontal label padding, -1 = unset
	paddingY      int    // vertical label padding, -1 = unset
	borderPadding int    // outer margin, -1 = unset
	ascii         bool   // restrict output to 7-bit characters
	coords        bool   // overlay coordinate rulers
	refresh       bool   // bypass the artifact cache
	noCache       bool   // disable caching entirely
}

// renderCommand creates the render command for generating diagram artifacts.
//
// The input is a diagram file, or "-" for stdin. Geometry defaults come
// from the config file, then the diagram's own padding directives, then
// the built-in defaults.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{
		format:        pipeline.FormatText,
		paddingX:      -1,
		paddingY:      -1,
		borderPadding: -1,
	}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a diagram to text, DOT, SVG, or PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pipeline.ValidateFormat(opts.format); err != nil {
				return err
			}
			return c.runRender(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout for text and dot)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: text (default), dot, svg, png")
	cmd.Flags().IntVarP(&opts.paddingX, "padding-x", "x", opts.paddingX, "horizontal label padding")
	cmd.Flags().IntVarP(&opts.paddingY, "padding-y", "y", opts.paddingY, "vertical label padding")
	cmd.Flags().IntVarP(&opts.borderPadding, "border-padding", "p", opts.borderPadding, "outer margin width")
	cmd.Flags().BoolVarP(&opts.ascii, "ascii", "a", false, "draw with 7-bit characters only")
	cmd.Flags().BoolVarP(&opts.coords, "coords", "c", false, "overlay coordinate rulers")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even when cached")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, input string, opts *renderOpts) error {
	source, err := readSource(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	popts := pipeline.NewOptions(source)
	popts.Format = opts.format
	popts.PaddingX = opts.paddingX
	popts.PaddingY = opts.paddingY
	popts.BorderPadding = opts.borderPadding
	popts.ASCII = opts.ascii
	popts.Coords = opts.coords
	popts.Refresh = opts.refresh
	popts.Logger = c.Logger
	c.Config.apply(&popts)

	p := newProgress(c.Logger)
	result, err := runner.Execute(cmd.Context(), popts)
	if err != nil {
		return err
	}
	p.done(fmt.Sprintf("Rendered %d nodes, %d edges",
		result.Stats.NodeCount, result.Stats.EdgeCount))

	path := outputPath(opts.output, input, opts.format)
	if path == "" {
		_, err := cmd.OutOrStdout().Write(append(result.Artifact, '\n'))
		return err
	}

	if err := os.WriteFile(path, result.Artifact, 0o644); err != nil {
		return err
	}
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheHit)
	printFile(path)
	return nil
}

// outputPath decides where the artifact goes. Text and DOT default to
// stdout; binary formats derive a file name from the input.
func outputPath(output, input, format string) string {
	if output == "-" {
		return ""
	}
	if output != "" {
		return output
	}
	if format == pipeline.FormatText || format == pipeline.FormatDOT {
		return ""
	}
	if input == "-" {
		return "diagram." + format
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + "." + format
}
