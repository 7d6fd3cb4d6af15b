package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flowgrid/pkg/cache"
	"github.com/matzehuels/flowgrid/pkg/export"
	"github.com/matzehuels/flowgrid/pkg/graph"
	"github.com/matzehuels/flowgrid/pkg/layout"
	"github.com/matzehuels/flowgrid/pkg/observability"
	"github.com/matzehuels/flowgrid/pkg/parser"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete parse → layout → render pipeline with caching.
// Parsing always runs (it is cheap and its result drives the cache key);
// only the rendered artifact is cached.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	// Install the runner's logger before validation, which would otherwise
	// fill the field with a discard logger.
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	// Stage 1: Parse
	observability.Pipeline().OnParseStart(ctx, len(opts.Source))
	parseStart := time.Now()
	g, err := parser.Parse(opts.Source)
	result.Stats.ParseTime = time.Since(parseStart)
	if err != nil {
		observability.Pipeline().OnParseComplete(ctx, 0, 0, result.Stats.ParseTime, err)
		return nil, fmt.Errorf("parse: %w", err)
	}
	result.Graph = g
	result.Stats.NodeCount = g.NodeCount()
	result.Stats.EdgeCount = g.EdgeCount()
	result.SourceHash = cache.Hash([]byte(opts.Source))
	observability.Pipeline().OnParseComplete(ctx, g.NodeCount(), g.EdgeCount(), result.Stats.ParseTime, nil)

	opts.Logger.Info("parsed diagram",
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"duration", result.Stats.ParseTime)

	// Resolve geometry before keying: directives in the source change the
	// artifact, so they must be baked into the key.
	cfg := opts.LayoutConfig(g)
	cacheKey := r.Keyer.ArtifactKey(result.SourceHash, opts.ArtifactKeyOpts(cfg))

	// Stage 2: Cache lookup (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, cacheKey)
			result.Artifact = data
			result.CacheHit = true
			opts.Logger.Info("artifact from cache", "format", opts.Format, "bytes", len(data))
			return result, nil
		}
		observability.Cache().OnCacheMiss(ctx, cacheKey)
	}

	// Stage 3: Render
	observability.Pipeline().OnRenderStart(ctx, opts.Format)
	renderStart := time.Now()
	artifact, err := r.render(g, cfg, opts.Format)
	result.Stats.RenderTime = time.Since(renderStart)
	observability.Pipeline().OnRenderComplete(ctx, opts.Format, len(artifact), result.Stats.RenderTime, err)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifact = artifact

	opts.Logger.Info("rendered diagram",
		"format", opts.Format,
		"bytes", len(artifact),
		"duration", result.Stats.RenderTime)

	// Stage 4: Cache the artifact
	if err := r.Cache.Set(ctx, cacheKey, artifact, cache.TTLArtifact); err != nil {
		opts.Logger.Warn("cache write failed", "error", err)
	} else {
		observability.Cache().OnCacheSet(ctx, cacheKey, len(artifact))
	}

	return result, nil
}

// render produces the artifact for one format.
func (r *Runner) render(g *graph.Graph, cfg layout.Config, format string) ([]byte, error) {
	switch format {
	case FormatText:
		eng, err := layout.New(cfg)
		if err != nil {
			return nil, err
		}
		text, err := eng.Render(g)
		if err != nil {
			return nil, err
		}
		return []byte(text), nil
	case FormatDOT:
		return []byte(export.ToDOT(g)), nil
	case FormatSVG:
		return export.RenderSVG(export.ToDOT(g))
	case FormatPNG:
		return export.RenderPNG(export.ToDOT(g))
	default:
		return nil, fmt.Errorf("invalid format: %q", format)
	}
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
