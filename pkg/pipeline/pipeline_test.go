package pipeline

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flowgrid/pkg/cache"
	"github.com/matzehuels/flowgrid/pkg/parser"
)

const simpleDiagram = "graph TD\na --> b\nb --> c"

func TestValidateAndSetDefaults(t *testing.T) {
	opts := NewOptions(simpleDiagram)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults error: %v", err)
	}
	if opts.Format != FormatText {
		t.Errorf("Format = %q, want %q", opts.Format, FormatText)
	}
	if opts.Logger == nil {
		t.Error("Logger should be defaulted")
	}

	// Idempotent
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("second call error: %v", err)
	}
}

func TestValidateAndSetDefaults_EmptySource(t *testing.T) {
	opts := NewOptions("   \n  ")
	if err := opts.ValidateAndSetDefaults(); err == nil {
		t.Error("blank source should be rejected")
	}
}

func TestValidateAndSetDefaults_BadFormat(t *testing.T) {
	opts := NewOptions(simpleDiagram)
	opts.Format = "pdf"
	if err := opts.ValidateAndSetDefaults(); err == nil {
		t.Error("unsupported format should be rejected")
	}
}

func TestNewOptions_GeometryUnset(t *testing.T) {
	opts := NewOptions(simpleDiagram)
	if opts.PaddingX != -1 || opts.PaddingY != -1 || opts.BorderPadding != -1 {
		t.Errorf("NewOptions geometry = (%d,%d,%d), want all -1",
			opts.PaddingX, opts.PaddingY, opts.BorderPadding)
	}
}

func TestLayoutConfig_Resolution(t *testing.T) {
	withDirective, err := parser.Parse("graph TD\npaddingX=2\na --> b")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	plain, err := parser.Parse(simpleDiagram)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	// Defaults apply when nothing is set.
	opts := NewOptions(simpleDiagram)
	cfg := opts.LayoutConfig(plain)
	if cfg.PaddingX != DefaultPaddingX || cfg.PaddingY != DefaultPaddingY {
		t.Errorf("defaults = (%d,%d), want (%d,%d)",
			cfg.PaddingX, cfg.PaddingY, DefaultPaddingX, DefaultPaddingY)
	}
	if cfg.BorderPadding != DefaultBorderPadding {
		t.Errorf("BorderPadding = %d, want %d", cfg.BorderPadding, DefaultBorderPadding)
	}

	// Directive beats the default.
	cfg = opts.LayoutConfig(withDirective)
	if cfg.PaddingX != 2 {
		t.Errorf("directive PaddingX = %d, want 2", cfg.PaddingX)
	}
	if cfg.PaddingY != DefaultPaddingY {
		t.Errorf("PaddingY = %d, want default %d", cfg.PaddingY, DefaultPaddingY)
	}

	// Explicit option beats the directive, including explicit zero.
	opts.PaddingX = 0
	cfg = opts.LayoutConfig(withDirective)
	if cfg.PaddingX != 0 {
		t.Errorf("explicit PaddingX = %d, want 0", cfg.PaddingX)
	}
}

func TestExecute_TextRender(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	defer runner.Close()

	result, err := runner.Execute(context.Background(), NewOptions(simpleDiagram))
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	out := string(result.Artifact)
	for _, want := range []string{"a", "b", "c"} {
		if !strings.Contains(out, want) {
			t.Errorf("artifact missing node %q:\n%s", want, out)
		}
	}
	if result.Stats.NodeCount != 3 || result.Stats.EdgeCount != 2 {
		t.Errorf("Stats = %d nodes, %d edges, want 3 and 2",
			result.Stats.NodeCount, result.Stats.EdgeCount)
	}
	if result.CacheHit {
		t.Error("null cache should never hit")
	}
	if result.SourceHash == "" {
		t.Error("SourceHash should be set")
	}
}

func TestExecute_DOTRender(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	defer runner.Close()

	opts := NewOptions(simpleDiagram)
	opts.Format = FormatDOT
	result, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if !strings.Contains(string(result.Artifact), "digraph") {
		t.Errorf("DOT artifact missing digraph:\n%s", result.Artifact)
	}
}

func TestExecute_RunnerLoggerFallback(t *testing.T) {
	var buf bytes.Buffer
	runner := NewRunner(nil, nil, log.NewWithOptions(&buf, log.Options{}))
	defer runner.Close()

	// Options without a logger of their own fall back to the runner's.
	if _, err := runner.Execute(context.Background(), NewOptions(simpleDiagram)); err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if !strings.Contains(buf.String(), "parsed diagram") {
		t.Errorf("pipeline logs should reach the runner's logger, got:\n%s", buf.String())
	}
}

func TestExecute_ParseError(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	defer runner.Close()

	if _, err := runner.Execute(context.Background(), NewOptions("a --> b")); err == nil {
		t.Error("missing header should fail")
	}
}

func TestExecute_CacheHit(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	runner := NewRunner(fc, nil, nil)
	defer runner.Close()

	first, err := runner.Execute(ctx, NewOptions(simpleDiagram))
	if err != nil {
		t.Fatalf("first Execute error: %v", err)
	}
	if first.CacheHit {
		t.Error("first run should miss")
	}

	second, err := runner.Execute(ctx, NewOptions(simpleDiagram))
	if err != nil {
		t.Fatalf("second Execute error: %v", err)
	}
	if !second.CacheHit {
		t.Error("second run should hit")
	}
	if string(first.Artifact) != string(second.Artifact) {
		t.Error("cached artifact should match rendered artifact")
	}

	// Refresh bypasses the cache.
	opts := NewOptions(simpleDiagram)
	opts.Refresh = true
	third, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("refresh Execute error: %v", err)
	}
	if third.CacheHit {
		t.Error("refresh run should not hit")
	}
}

func TestExecute_OptionsChangeKey(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	runner := NewRunner(fc, nil, nil)
	defer runner.Close()

	if _, err := runner.Execute(ctx, NewOptions(simpleDiagram)); err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	opts := NewOptions(simpleDiagram)
	opts.ASCII = true
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if result.CacheHit {
		t.Error("different options should miss the cache")
	}
}
