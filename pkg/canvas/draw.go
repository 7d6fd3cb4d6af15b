package canvas

import "github.com/matzehuels/flowgrid/pkg/graph"

// DrawBox draws a node box with its label centered on the middle row.
// Labels wider than the interior are truncated; the caller is expected to
// report that. Returns true when the label was truncated.
func (c *Canvas) DrawBox(g Glyphs, x, y, w, h int, shape graph.ShapeKind, label string) bool {
	if w < 2 || h < 2 {
		return false
	}
	c.drawBorder(g, x, y, w, h, shape)

	inner := w - 2
	runes := []rune(label)
	truncated := false
	if len(runes) > inner {
		if inner <= 0 {
			return true
		}
		runes = runes[:inner]
		truncated = true
	}
	start := x + 1 + (inner-len(runes))/2
	c.DrawText(start, y+h/2, string(runes), LayerLabel)
	return truncated
}

// DrawFrame draws a subgraph border with its title on the top border,
// just right of the corner. Titles wider than the frame are truncated.
func (c *Canvas) DrawFrame(g Glyphs, x, y, w, h int, title string) {
	if w < 2 || h < 2 {
		return
	}
	c.drawBorder(g, x, y, w, h, graph.ShapeRectangle)
	if title == "" {
		return
	}
	runes := []rune(title)
	if max := w - 4; len(runes) > max {
		if max <= 0 {
			return
		}
		runes = runes[:max]
	}
	c.DrawText(x+2, y, string(runes), LayerBorder)
}

func (c *Canvas) drawBorder(g Glyphs, x, y, w, h int, shape graph.ShapeKind) {
	tl, tr, bl, br := g.Corners(shape)
	for i := 1; i < w-1; i++ {
		c.Set(x+i, y, g.Horizontal, LayerBorder)
		c.Set(x+i, y+h-1, g.Horizontal, LayerBorder)
	}
	for j := 1; j < h-1; j++ {
		c.Set(x, y+j, g.Vertical, LayerBorder)
		c.Set(x+w-1, y+j, g.Vertical, LayerBorder)
	}
	c.Set(x, y, tl, LayerBorder)
	c.Set(x+w-1, y, tr, LayerBorder)
	c.Set(x, y+h-1, bl, LayerBorder)
	c.Set(x+w-1, y+h-1, br, LayerBorder)
}

// DrawPolyline draws an orthogonal polyline. Interior vertices become bend
// glyphs; collinear runs get straight glyphs. The final cell receives an
// arrowhead pointing in arrowDir when withArrow is true.
func (c *Canvas) DrawPolyline(g Glyphs, points []Point, dotted bool, withArrow bool, arrowDir Dir) {
	if len(points) == 0 {
		return
	}
	if len(points) == 1 {
		if withArrow {
			c.Set(points[0].X, points[0].Y, g.Arrow(arrowDir), LayerArrow)
		}
		return
	}

	for i := 0; i < len(points)-1; i++ {
		from, to := points[i], points[i+1]
		d := segmentDir(from, to)
		line := g.Line(d, dotted)

		// Walk the segment, leaving the shared vertex cells to the
		// bend pass below.
		cur := from
		for cur != to {
			if i == 0 || cur != from {
				c.Set(cur.X, cur.Y, line, LayerLine)
			}
			cur = step(cur, d)
		}
		if i+1 == len(points)-1 {
			c.Set(to.X, to.Y, line, LayerLine)
		}
	}

	// Bends at interior vertices.
	for i := 1; i < len(points)-1; i++ {
		in := segmentDir(points[i-1], points[i])
		out := segmentDir(points[i], points[i+1])
		if in == out {
			c.Set(points[i].X, points[i].Y, g.Line(in, dotted), LayerLine)
			continue
		}
		c.Set(points[i].X, points[i].Y, g.Bend(in, out), LayerLine)
	}

	if withArrow {
		last := points[len(points)-1]
		c.Set(last.X, last.Y, g.Arrow(arrowDir), LayerArrow)
	}
}

// DrawTee replaces a border cell with the junction for an edge leaving the
// box at that cell, traveling out. No-op in ASCII mode.
func (c *Canvas) DrawTee(g Glyphs, at Point, out Dir) {
	if r, ok := g.Tee(out); ok {
		c.Set(at.X, at.Y, r, LayerBorder)
	}
}

func segmentDir(from, to Point) Dir {
	switch {
	case to.X > from.X:
		return DirRight
	case to.X < from.X:
		return DirLeft
	case to.Y > from.Y:
		return DirDown
	default:
		return DirUp
	}
}

func step(p Point, d Dir) Point {
	switch d {
	case DirUp:
		return Point{p.X, p.Y - 1}
	case DirDown:
		return Point{p.X, p.Y + 1}
	case DirLeft:
		return Point{p.X - 1, p.Y}
	}
	return Point{p.X + 1, p.Y}
}
