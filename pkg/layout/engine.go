package layout

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flowgrid/pkg/canvas"
	"github.com/matzehuels/flowgrid/pkg/graph"
	"github.com/matzehuels/flowgrid/pkg/observability"
)

// Config controls layout geometry and rendering mode.
type Config struct {
	// PaddingX is the horizontal padding between a label and its border,
	// and the base horizontal spacing between boxes.
	PaddingX int
	// PaddingY is the vertical equivalent of PaddingX.
	PaddingY int
	// BorderPadding is the outer margin and the subgraph border margin.
	BorderPadding int
	// ASCIIOnly restricts output to 7-bit characters.
	ASCIIOnly bool
	// ShowCoords overlays row/column rulers and per-node coordinates.
	ShowCoords bool
	// Logger receives progress and degradation warnings. Defaults to a
	// discard logger.
	Logger *log.Logger
}

// DefaultConfig returns the minimal sensible geometry.
func DefaultConfig() Config {
	return Config{PaddingX: 1, PaddingY: 1, BorderPadding: 1}
}

// Validate checks that all geometry values are non-negative.
func (c Config) Validate() error {
	if c.PaddingX < 0 {
		return fmt.Errorf("paddingX must be >= 0, got %d", c.PaddingX)
	}
	if c.PaddingY < 0 {
		return fmt.Errorf("paddingY must be >= 0, got %d", c.PaddingY)
	}
	if c.BorderPadding < 0 {
		return fmt.Errorf("borderPadding must be >= 0, got %d", c.BorderPadding)
	}
	return nil
}

// Route is a routed edge in canvas coordinates. Points run source to
// target; the last point is the arrowhead cell. Exit is the direction the
// edge travels when leaving the source border, which the first collapsed
// segment does not always preserve.
type Route struct {
	Edge   int
	Points []canvas.Point
	Arrow  canvas.Dir
	Exit   canvas.Dir
	Dotted bool

	Label    string
	LabelAt  canvas.Point
	HasLabel bool
}

// Layout is a computed diagram layout in canvas coordinates.
type Layout struct {
	Ranks     Ranks
	Order     map[int][]string
	Nodes     map[string]Box
	Subgraphs map[string]Box
	Routes    []Route
	Degraded  []Degradation
	Width     int
	Height    int
}

// Engine computes and renders layouts. An Engine is immutable after New
// and safe for concurrent use; every call computes from scratch.
type Engine struct {
	cfg    Config
	logger *log.Logger
}

// New creates an engine with a validated config.
func New(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Engine{cfg: cfg, logger: logger}, nil
}

// Layout validates the graph and computes box positions and edge routes.
func (e *Engine) Layout(g *graph.Graph) (*Layout, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}

	ranks, err := AssignRanks(g)
	if err != nil {
		return nil, err
	}

	order := OrderRanks(g, ranks)
	e.logger.Debug("ordered ranks",
		"ranks", ranks.Max+1,
		"crossings", CountCrossings(g, order))

	ax := axes{horizontal: g.Direction.Horizontal()}
	p := placeNodes(g, ranks, order, e.cfg, ax)
	routes, degraded := routeEdges(g, ranks, p, e.cfg, ax)

	for _, d := range degraded {
		e.logger.Warn("routing degraded: lane reused",
			"from", d.From, "to", d.To)
		observability.Hooks().OnRoutingDegraded(d.From, d.To)
	}

	lay := e.assemble(g, ranks, order, p, routes, ax)
	lay.Degraded = degraded
	placeEdgeLabels(g, lay)
	return lay, nil
}

// Render computes the layout and rasterizes it. Rendering is atomic: on
// error nothing is returned; on success the string is complete.
func (e *Engine) Render(g *graph.Graph) (string, error) {
	lay, err := e.Layout(g)
	if err != nil {
		return "", err
	}
	out, truncated := rasterize(g, lay, e.cfg)
	for _, id := range truncated {
		e.logger.Warn("label truncated to fit box", "node", id)
	}
	return out, nil
}

// assemble converts layout-space geometry to canvas coordinates,
// mirroring the primary axis for BT and RL.
func (e *Engine) assemble(g *graph.Graph, ranks Ranks, order map[int][]string, p placement, routes []route, ax axes) *Layout {
	primExtent, crossExtent := 0, 0
	grow := func(prim, cross int) {
		if prim+1 > primExtent {
			primExtent = prim + 1
		}
		if cross+1 > crossExtent {
			crossExtent = cross + 1
		}
	}
	for _, b := range p.nodes {
		grow(b.primEnd(), b.crossEnd())
	}
	for _, b := range p.subs {
		grow(b.primEnd(), b.crossEnd())
	}
	for _, rt := range routes {
		for _, pt := range rt.points {
			grow(pt.prim, pt.cross)
		}
	}
	primExtent += e.cfg.BorderPadding
	crossExtent += e.cfg.BorderPadding

	mirrored := g.Direction.Reversed()
	mirrorBox := func(b box) box {
		if mirrored {
			b.prim = primExtent - b.prim - b.primLen
		}
		return b
	}

	lay := &Layout{
		Ranks:     ranks,
		Order:     order,
		Nodes:     make(map[string]Box, len(p.nodes)),
		Subgraphs: make(map[string]Box, len(p.subs)),
	}
	for id, b := range p.nodes {
		lay.Nodes[id] = ax.box(mirrorBox(b))
	}
	for id, b := range p.subs {
		lay.Subgraphs[id] = ax.box(mirrorBox(b))
	}
	for _, rt := range routes {
		out := Route{
			Edge:   rt.edge,
			Points: make([]canvas.Point, len(rt.points)),
			Dotted: rt.dotted,
		}
		arrow, exit := rt.arrow, dirForward
		for i, pt := range rt.points {
			if mirrored {
				pt.prim = mirrorPrim(pt.prim, primExtent)
			}
			out.Points[i] = ax.point(pt)
		}
		if mirrored {
			exit = dirBackward
			if arrow == dirForward {
				arrow = dirBackward
			}
		}
		out.Arrow = ax.dir(arrow)
		out.Exit = ax.dir(exit)
		lay.Routes = append(lay.Routes, out)
	}

	if ax.horizontal {
		lay.Width, lay.Height = primExtent, crossExtent
	} else {
		lay.Width, lay.Height = crossExtent, primExtent
	}
	return lay
}
