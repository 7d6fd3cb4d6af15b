package canvas

import "github.com/matzehuels/flowgrid/pkg/graph"

// Glyphs is a closed glyph table for one rendering mode. Both tables
// cover every ShapeKind and ArrowKind, so lookups never miss.
type Glyphs struct {
	Horizontal rune
	Vertical   rune
	DottedH    rune
	DottedV    rune

	RectTL, RectTR, RectBL, RectBR     rune
	RoundTL, RoundTR, RoundBL, RoundBR rune
	DiagDown, DiagUp                   rune

	ArrowUp, ArrowDown, ArrowLeft, ArrowRight rune

	Corner rune // ASCII bend fallback
	ascii  bool
}

// ASCIIGlyphs returns the 7-bit glyph set.
func ASCIIGlyphs() Glyphs {
	return Glyphs{
		Horizontal: '-',
		Vertical:   '|',
		DottedH:    '.',
		DottedV:    ':',
		RectTL:     '+', RectTR: '+', RectBL: '+', RectBR: '+',
		RoundTL: '+', RoundTR: '+', RoundBL: '+', RoundBR: '+',
		DiagDown: '\\', DiagUp: '/',
		ArrowUp: '^', ArrowDown: 'v', ArrowLeft: '<', ArrowRight: '>',
		Corner: '+',
		ascii:  true,
	}
}

// UnicodeGlyphs returns the box-drawing glyph set.
func UnicodeGlyphs() Glyphs {
	return Glyphs{
		Horizontal: '─',
		Vertical:   '│',
		DottedH:    '┄',
		DottedV:    '┆',
		RectTL:     '┌', RectTR: '┐', RectBL: '└', RectBR: '┘',
		RoundTL: '╭', RoundTR: '╮', RoundBL: '╰', RoundBR: '╯',
		DiagDown: '\\', DiagUp: '/',
		ArrowUp: '▲', ArrowDown: '▼', ArrowLeft: '◀', ArrowRight: '▶',
		Corner: '┼',
	}
}

// GlyphsFor selects the glyph set for a rendering mode.
func GlyphsFor(ascii bool) Glyphs {
	if ascii {
		return ASCIIGlyphs()
	}
	return UnicodeGlyphs()
}

// Corners returns the four corner glyphs for a node shape.
func (g Glyphs) Corners(shape graph.ShapeKind) (tl, tr, bl, br rune) {
	switch shape {
	case graph.ShapeRounded:
		return g.RoundTL, g.RoundTR, g.RoundBL, g.RoundBR
	case graph.ShapeDiamond:
		return g.DiagUp, g.DiagDown, g.DiagDown, g.DiagUp
	default:
		return g.RectTL, g.RectTR, g.RectBL, g.RectBR
	}
}

// Line returns the straight glyph for a travel direction.
func (g Glyphs) Line(d Dir, dotted bool) rune {
	horizontal := d == DirLeft || d == DirRight
	if dotted {
		if horizontal {
			return g.DottedH
		}
		return g.DottedV
	}
	if horizontal {
		return g.Horizontal
	}
	return g.Vertical
}

// Arrow returns the arrowhead glyph pointing in the given direction.
func (g Glyphs) Arrow(d Dir) rune {
	switch d {
	case DirUp:
		return g.ArrowUp
	case DirDown:
		return g.ArrowDown
	case DirLeft:
		return g.ArrowLeft
	}
	return g.ArrowRight
}

// Bend returns the corner glyph for a turn that arrives traveling in and
// leaves traveling out. In ASCII mode every bend is the corner fallback.
func (g Glyphs) Bend(in, out Dir) rune {
	if g.ascii {
		return g.Corner
	}
	if r, ok := strokeForArms(armFor(in.Opposite()) | armFor(out)); ok {
		return r
	}
	return g.Corner
}

// Tee returns the junction drawn where an edge leaves a box border
// traveling in the given direction. ASCII borders keep their own glyph,
// reported by ok=false.
func (g Glyphs) Tee(out Dir) (rune, bool) {
	if g.ascii {
		return 0, false
	}
	// Border runs perpendicular to the exit direction.
	var border int
	if out == DirUp || out == DirDown {
		border = armLeft | armRight
	} else {
		border = armUp | armDown
	}
	r, ok := strokeForArms(border | armFor(out))
	return r, ok
}
