package layout

import (
	"fmt"

	"github.com/matzehuels/flowgrid/pkg/canvas"
	"github.com/matzehuels/flowgrid/pkg/graph"
)

// rasterize draws a computed layout onto a canvas and serializes it.
// Returns the text and the IDs of nodes whose labels were truncated.
func rasterize(g *graph.Graph, lay *Layout, cfg Config) (string, []string) {
	gl := canvas.GlyphsFor(cfg.ASCIIOnly)
	c := canvas.New(lay.Width, lay.Height, cfg.ASCIIOnly)

	for _, sg := range g.Subgraphs {
		b, ok := lay.Subgraphs[sg.ID]
		if !ok {
			continue
		}
		title := sg.Label
		if title == "" {
			title = sg.ID
		}
		c.DrawFrame(gl, b.X, b.Y, b.W, b.H, title)
	}

	var truncated []string
	for _, n := range g.Nodes {
		b := lay.Nodes[n.ID]
		if c.DrawBox(gl, b.X, b.Y, b.W, b.H, n.Shape, n.Label) {
			truncated = append(truncated, n.ID)
		}
		if cfg.ShowCoords {
			c.DrawText(b.X+1, b.Y, fmt.Sprintf("%d,%d", b.X, b.Y), canvas.LayerBorder)
		}
	}

	for _, rt := range lay.Routes {
		if len(rt.Points) == 0 {
			continue
		}
		c.DrawPolyline(gl, rt.Points, rt.Dotted, true, rt.Arrow)
		c.DrawTee(gl, shift(rt.Points[0], rt.Exit.Opposite()), rt.Exit)

		if rt.HasLabel {
			c.DrawText(rt.LabelAt.X, rt.LabelAt.Y, rt.Label, canvas.LayerLabel)
		}
	}

	if cfg.ShowCoords {
		c = withRulers(c, cfg.ASCIIOnly)
	}
	return c.String(), truncated
}

// placeEdgeLabels anchors each edge label at the midpoint of the longest
// route segment, offset one cell perpendicular, shifting once to the
// other side when the spot collides with a node box or an earlier label.
// Grows the layout extents when a label pokes past them.
func placeEdgeLabels(g *graph.Graph, lay *Layout) {
	var placed []Box
	for i := range lay.Routes {
		rt := &lay.Routes[i]
		text := g.Edges[rt.Edge].Label
		if text == "" || len(rt.Points) == 0 {
			continue
		}
		width := len([]rune(text))

		a, b := longestSegment(rt.Points)
		var first, second canvas.Point
		if a.Y == b.Y && a.X != b.X {
			// Horizontal segment: center the text above it, fall back
			// below.
			mid := (a.X + b.X) / 2
			x := mid - width/2
			if x < 0 {
				x = 0
			}
			first = canvas.Point{X: x, Y: a.Y - 1}
			second = canvas.Point{X: x, Y: a.Y + 1}
		} else {
			// Vertical segment: text starts right of the midpoint.
			mid := (a.Y + b.Y) / 2
			first = canvas.Point{X: a.X + 1, Y: mid}
			second = canvas.Point{X: a.X + 1, Y: mid + 1}
		}

		at := first
		if r := (Box{X: at.X, Y: at.Y, W: width, H: 1}); collides(r, lay, placed) {
			if r2 := (Box{X: second.X, Y: second.Y, W: width, H: 1}); !collides(r2, lay, placed) {
				at = second
			}
		}

		rt.Label = text
		rt.LabelAt = at
		rt.HasLabel = true
		placed = append(placed, Box{X: at.X, Y: at.Y, W: width, H: 1})

		if at.X+width > lay.Width {
			lay.Width = at.X + width
		}
		if at.Y+1 > lay.Height {
			lay.Height = at.Y + 1
		}
	}
}

func collides(r Box, lay *Layout, placed []Box) bool {
	for _, b := range lay.Nodes {
		if r.Overlaps(b) {
			return true
		}
	}
	for _, b := range lay.Subgraphs {
		if overlapsFrameBorder(r, b) {
			return true
		}
	}
	for _, b := range placed {
		if r.Overlaps(b) {
			return true
		}
	}
	return false
}

// overlapsFrameBorder reports whether a one-row label box covers any cell
// of a subgraph frame's border. The frame interior stays usable: a label
// fully inside the frame only collides when it touches the border itself.
func overlapsFrameBorder(r, frame Box) bool {
	if !r.Overlaps(frame) {
		return false
	}
	if r.Y == frame.Y || r.Y == frame.Y+frame.H-1 {
		return true
	}
	return r.X <= frame.X || r.X+r.W > frame.X+frame.W-1
}

// longestSegment returns the endpoints of the longest polyline segment,
// first on ties.
func longestSegment(pts []canvas.Point) (canvas.Point, canvas.Point) {
	if len(pts) == 1 {
		return pts[0], pts[0]
	}
	bestA, bestB := pts[0], pts[1]
	best := segLen(pts[0], pts[1])
	for i := 1; i < len(pts)-1; i++ {
		if l := segLen(pts[i], pts[i+1]); l > best {
			best = l
			bestA, bestB = pts[i], pts[i+1]
		}
	}
	return bestA, bestB
}

func segLen(a, b canvas.Point) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func shift(p canvas.Point, d canvas.Dir) canvas.Point {
	switch d {
	case canvas.DirUp:
		return canvas.Point{X: p.X, Y: p.Y - 1}
	case canvas.DirDown:
		return canvas.Point{X: p.X, Y: p.Y + 1}
	case canvas.DirLeft:
		return canvas.Point{X: p.X - 1, Y: p.Y}
	}
	return canvas.Point{X: p.X + 1, Y: p.Y}
}

// withRulers copies the rendered grid one cell right and down and writes
// column/row digits along the top and left edges. The overlay never
// changes computed positions, only their presentation.
func withRulers(c *canvas.Canvas, ascii bool) *canvas.Canvas {
	out := canvas.New(c.Width()+1, c.Height()+1, ascii)
	for x := 0; x < c.Width(); x++ {
		out.Set(x+1, 0, rune('0'+x%10), canvas.LayerLabel)
	}
	for y := 0; y < c.Height(); y++ {
		out.Set(0, y+1, rune('0'+y%10), canvas.LayerLabel)
	}
	for y := 0; y < c.Height(); y++ {
		for x := 0; x < c.Width(); x++ {
			if r := c.Get(x, y); r != ' ' {
				out.Set(x+1, y+1, r, canvas.LayerBorder)
			}
		}
	}
	return out
}
