// Package layout computes character-grid layouts for diagrams: it assigns
// nodes to ranks, orders them within ranks, places boxes on the grid,
// routes edges as orthogonal polylines, and rasterizes the result.
//
// All internal computation happens in primary/cross space: the primary
// axis is the flow axis (y for TD/BT, x for LR/RL) and the cross axis is
// perpendicular to it. BT and RL are computed as TD and LR and mirrored
// along the primary axis at the end, which keeps one placement code path.
package layout

import "github.com/matzehuels/flowgrid/pkg/canvas"

// point is a coordinate in layout (primary/cross) space.
type point struct {
	prim  int
	cross int
}

// box is an axis-aligned rectangle in layout space.
type box struct {
	prim     int
	cross    int
	primLen  int
	crossLen int
}

func (b box) primEnd() int  { return b.prim + b.primLen - 1 }
func (b box) crossEnd() int { return b.cross + b.crossLen - 1 }

func (b box) crossCenter() int { return b.cross + b.crossLen/2 }
func (b box) primCenter() int  { return b.prim + b.primLen/2 }

// axisDir is a travel direction in layout space.
type axisDir int

const (
	dirForward    axisDir = iota // toward increasing primary
	dirBackward                  // toward decreasing primary
	dirCrossPlus                 // toward increasing cross
	dirCrossMinus                // toward decreasing cross
)

// axes maps layout space onto the canvas for one flow orientation.
type axes struct {
	horizontal bool // primary axis is x (LR/RL)
}

func (a axes) point(p point) canvas.Point {
	if a.horizontal {
		return canvas.Point{X: p.prim, Y: p.cross}
	}
	return canvas.Point{X: p.cross, Y: p.prim}
}

func (a axes) box(b box) Box {
	if a.horizontal {
		return Box{X: b.prim, Y: b.cross, W: b.primLen, H: b.crossLen}
	}
	return Box{X: b.cross, Y: b.prim, W: b.crossLen, H: b.primLen}
}

func (a axes) dir(d axisDir) canvas.Dir {
	if a.horizontal {
		switch d {
		case dirForward:
			return canvas.DirRight
		case dirBackward:
			return canvas.DirLeft
		case dirCrossPlus:
			return canvas.DirDown
		default:
			return canvas.DirUp
		}
	}
	switch d {
	case dirForward:
		return canvas.DirDown
	case dirBackward:
		return canvas.DirUp
	case dirCrossPlus:
		return canvas.DirRight
	default:
		return canvas.DirLeft
	}
}

// mirror flips a layout-space primary coordinate within an extent.
func mirrorPrim(prim, extent int) int {
	return extent - 1 - prim
}

// Box is an axis-aligned rectangle in canvas coordinates.
type Box struct {
	X int
	Y int
	W int
	H int
}

// Overlaps reports whether two boxes share at least one cell.
func (b Box) Overlaps(o Box) bool {
	return b.X < o.X+o.W && o.X < b.X+b.W && b.Y < o.Y+o.H && o.Y < b.Y+b.H
}
