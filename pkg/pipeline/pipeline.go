// Package pipeline provides the core rendering pipeline for flowgrid.
//
// This package implements the complete parse → layout → render pipeline that
// can be used by CLI and API components. By centralizing this logic, we
// ensure consistent behavior across all entry points and avoid code
// duplication.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.NewOptions("graph TD\na --> b")
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(string(result.Artifact))
package pipeline

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flowgrid/pkg/cache"
	"github.com/matzehuels/flowgrid/pkg/graph"
	"github.com/matzehuels/flowgrid/pkg/layout"
)

// Default geometry, applied when neither the options nor the diagram's own
// padding directives set a value. These match the CLI flag defaults.
const (
	DefaultPaddingX      = 5
	DefaultPaddingY      = 5
	DefaultBorderPadding = 1
)

// Format constants for output formats.
const (
	FormatText = "text"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatText: true,
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPNG:  true,
}

// Options contains all configuration for the rendering pipeline.
// This struct supports JSON serialization for API requests.
//
// Negative geometry values mean "unset": the diagram's padding directives
// apply, then the package defaults. Build Options with [NewOptions] to get
// that behavior; a zero geometry value asks for zero padding explicitly.
type Options struct {
	// Source is the diagram text to render.
	Source string `json:"source"`

	// Format selects the artifact: text, dot, svg, or png.
	Format string `json:"format,omitempty"`

	// Geometry options. Negative means unset.
	PaddingX      int `json:"padding_x,omitempty"`
	PaddingY      int `json:"padding_y,omitempty"`
	BorderPadding int `json:"border_padding,omitempty"`

	// ASCII restricts text output to 7-bit characters.
	ASCII bool `json:"ascii,omitempty"`

	// Coords overlays coordinate rulers on text output.
	Coords bool `json:"coords,omitempty"`

	// Refresh bypasses the cache and re-renders.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// NewOptions returns options for a text render of source with unset geometry.
func NewOptions(source string) Options {
	return Options{
		Source:        source,
		Format:        FormatText,
		PaddingX:      -1,
		PaddingY:      -1,
		BorderPadding: -1,
	}
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the parsed diagram.
	Graph *graph.Graph

	// SourceHash is the content hash of the diagram text.
	SourceHash string

	// Artifact is the rendered output in the requested format.
	Artifact []byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheHit reports whether the artifact came from cache.
	CacheHit bool
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	ParseTime  time.Duration
	RenderTime time.Duration
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: text, dot, svg, png)", format)
	}
	return nil
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect
// as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if strings.TrimSpace(o.Source) == "" {
		return fmt.Errorf("source is required")
	}
	if o.Format == "" {
		o.Format = FormatText
	}
	if err := ValidateFormat(o.Format); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// LayoutConfig resolves the effective geometry for a parsed diagram:
// explicit options win, then the diagram's padding directives, then the
// package defaults.
func (o *Options) LayoutConfig(g *graph.Graph) layout.Config {
	return layout.Config{
		PaddingX:      resolve(o.PaddingX, g.PaddingX, DefaultPaddingX),
		PaddingY:      resolve(o.PaddingY, g.PaddingY, DefaultPaddingY),
		BorderPadding: resolve(o.BorderPadding, -1, DefaultBorderPadding),
		ASCIIOnly:     o.ASCII,
		ShowCoords:    o.Coords,
		Logger:        o.Logger,
	}
}

func resolve(opt, directive, fallback int) int {
	if opt >= 0 {
		return opt
	}
	if directive >= 0 {
		return directive
	}
	return fallback
}

// ArtifactKeyOpts returns cache key options for the resolved geometry.
func (o *Options) ArtifactKeyOpts(cfg layout.Config) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:        o.Format,
		PaddingX:      cfg.PaddingX,
		PaddingY:      cfg.PaddingY,
		BorderPadding: cfg.BorderPadding,
		ASCII:         cfg.ASCIIOnly,
		Coords:        cfg.ShowCoords,
	}
}
