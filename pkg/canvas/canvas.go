// Package canvas implements the character grid that diagrams are drawn
// onto. Cells carry a draw layer so overlapping strokes resolve by a fixed
// precedence (border > arrowhead > line > label > blank), and overlapping
// Unicode box-drawing strokes merge into junction glyphs.
package canvas

import "strings"

// Point is a cell coordinate. X grows rightward, Y grows downward.
type Point struct {
	X int
	Y int
}

// Dir is a travel direction on the grid.
type Dir int

const (
	DirUp Dir = iota
	DirDown
	DirLeft
	DirRight
)

// Opposite returns the reverse direction.
func (d Dir) Opposite() Dir {
	switch d {
	case DirUp:
		return DirDown
	case DirDown:
		return DirUp
	case DirLeft:
		return DirRight
	}
	return DirLeft
}

// Layer orders cell contention. Higher layers win; equal layers overwrite
// in draw order, except that box-drawing strokes merge into junctions.
type Layer int

const (
	LayerBlank Layer = iota
	LayerLabel
	LayerLine
	LayerArrow
	LayerBorder
)

type cell struct {
	r     rune
	layer Layer
}

// Canvas is a fixed-size character grid.
type Canvas struct {
	width  int
	height int
	cells  []cell
	ascii  bool
}

// New creates a blank canvas. When ascii is true, stroke merging is
// disabled and contention resolves by layer precedence alone.
func New(width, height int, ascii bool) *Canvas {
	return &Canvas{
		width:  width,
		height: height,
		cells:  make([]cell, width*height),
		ascii:  ascii,
	}
}

// Width returns the canvas width in cells.
func (c *Canvas) Width() int { return c.width }

// Height returns the canvas height in cells.
func (c *Canvas) Height() int { return c.height }

// ASCII reports whether the canvas is in ASCII-only mode.
func (c *Canvas) ASCII() bool { return c.ascii }

// Set writes a rune at the given cell. Writes outside the grid are
// ignored. When both the existing and the new rune are box-drawing
// strokes (and the canvas is not in ASCII mode) the two merge into a
// junction glyph; otherwise the higher layer wins and equal layers
// overwrite.
func (c *Canvas) Set(x, y int, r rune, layer Layer) {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return
	}
	cur := &c.cells[y*c.width+x]
	if !c.ascii && layer >= LayerLine && cur.layer >= LayerLine {
		if merged, ok := mergeStrokes(cur.r, r); ok {
			cur.r = merged
			if layer > cur.layer {
				cur.layer = layer
			}
			return
		}
	}
	if layer >= cur.layer {
		cur.r = r
		cur.layer = layer
	}
}

// Get returns the rune at the given cell, or space for blank and
// out-of-range cells.
func (c *Canvas) Get(x, y int) rune {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return ' '
	}
	if cl := c.cells[y*c.width+x]; cl.layer > LayerBlank {
		return cl.r
	}
	return ' '
}

// DrawText writes a string left to right starting at (x, y).
func (c *Canvas) DrawText(x, y int, s string, layer Layer) {
	for i, r := range []rune(s) {
		c.Set(x+i, y, r, layer)
	}
}

// String serializes the grid. Trailing blanks are trimmed from each row
// and rows are joined with newlines; there is no trailing newline.
func (c *Canvas) String() string {
	var b strings.Builder
	for y := 0; y < c.height; y++ {
		var row strings.Builder
		for x := 0; x < c.width; x++ {
			row.WriteRune(c.Get(x, y))
		}
		b.WriteString(strings.TrimRight(row.String(), " "))
		if y < c.height-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Stroke arms, one bit per direction the glyph connects toward.
const (
	armUp = 1 << iota
	armDown
	armLeft
	armRight
)

var strokeMasks = map[rune]int{
	'─': armLeft | armRight,
	'│': armUp | armDown,
	'┌': armDown | armRight,
	'┐': armDown | armLeft,
	'└': armUp | armRight,
	'┘': armUp | armLeft,
	'├': armUp | armDown | armRight,
	'┤': armUp | armDown | armLeft,
	'┬': armDown | armLeft | armRight,
	'┴': armUp | armLeft | armRight,
	'┼': armUp | armDown | armLeft | armRight,
	'╭': armDown | armRight,
	'╮': armDown | armLeft,
	'╰': armUp | armRight,
	'╯': armUp | armLeft,
	'┄': armLeft | armRight,
	'┆': armUp | armDown,
}

var maskStrokes = map[int]rune{
	armLeft | armRight:                      '─',
	armUp | armDown:                         '│',
	armDown | armRight:                      '┌',
	armDown | armLeft:                       '┐',
	armUp | armRight:                        '└',
	armUp | armLeft:                         '┘',
	armUp | armDown | armRight:              '├',
	armUp | armDown | armLeft:               '┤',
	armDown | armLeft | armRight:            '┬',
	armUp | armLeft | armRight:              '┴',
	armUp | armDown | armLeft | armRight:    '┼',
}

// mergeStrokes combines two box-drawing runes by unioning their arms.
// Reports false when either rune is not a recognized stroke.
func mergeStrokes(a, b rune) (rune, bool) {
	ma, ok := strokeMasks[a]
	if !ok {
		return 0, false
	}
	mb, ok := strokeMasks[b]
	if !ok {
		return 0, false
	}
	r, ok := maskStrokes[ma|mb]
	return r, ok
}

// strokeForArms returns the glyph whose arms are exactly the given mask.
func strokeForArms(mask int) (rune, bool) {
	r, ok := maskStrokes[mask]
	return r, ok
}

func armFor(d Dir) int {
	switch d {
	case DirUp:
		return armUp
	case DirDown:
		return armDown
	case DirLeft:
		return armLeft
	}
	return armRight
}
