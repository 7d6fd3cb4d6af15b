package canvas

import (
	"strings"
	"testing"

	"github.com/matzehuels/flowgrid/pkg/graph"
)

func TestSet_LayerPrecedence(t *testing.T) {
	c := New(3, 3, true)

	c.Set(1, 1, 'L', LayerLabel)
	c.Set(1, 1, '-', LayerLine)
	if got := c.Get(1, 1); got != '-' {
		t.Errorf("line over label: Get(1,1) = %q, want %q", got, '-')
	}

	c.Set(1, 1, '>', LayerArrow)
	if got := c.Get(1, 1); got != '>' {
		t.Errorf("arrow over line: Get(1,1) = %q, want %q", got, '>')
	}

	c.Set(1, 1, '+', LayerBorder)
	if got := c.Get(1, 1); got != '+' {
		t.Errorf("border over arrow: Get(1,1) = %q, want %q", got, '+')
	}

	// Lower layers never clobber higher ones.
	c.Set(1, 1, 'x', LayerLabel)
	if got := c.Get(1, 1); got != '+' {
		t.Errorf("label over border: Get(1,1) = %q, want %q", got, '+')
	}
}

func TestSet_JunctionMerge(t *testing.T) {
	tests := []struct {
		name string
		a, b rune
		want rune
	}{
		{"cross", '─', '│', '┼'},
		{"tee_down", '─', '┌', '┬'},
		{"tee_up", '─', '└', '┴'},
		{"tee_right", '│', '└', '├'},
		{"tee_left", '│', '┘', '┤'},
		{"corner_pair", '┌', '┘', '┼'},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(1, 1, false)
			c.Set(0, 0, tt.a, LayerLine)
			c.Set(0, 0, tt.b, LayerLine)
			if got := c.Get(0, 0); got != tt.want {
				t.Errorf("merge(%q, %q) = %q, want %q", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestSet_NoMergeInASCII(t *testing.T) {
	c := New(1, 1, true)
	c.Set(0, 0, '-', LayerLine)
	c.Set(0, 0, '|', LayerLine)
	if got := c.Get(0, 0); got != '|' {
		t.Errorf("ascii overwrite: Get(0,0) = %q, want %q", got, '|')
	}
}

func TestString_TrimsTrailingBlanks(t *testing.T) {
	c := New(5, 2, true)
	c.Set(0, 0, 'a', LayerLabel)
	c.Set(2, 1, 'b', LayerLabel)

	got := c.String()
	want := "a\n  b"
	if got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestDrawBox_Unicode(t *testing.T) {
	c := New(6, 3, false)
	g := UnicodeGlyphs()
	if truncated := c.DrawBox(g, 0, 0, 6, 3, graph.ShapeRectangle, "ab"); truncated {
		t.Fatal("DrawBox() truncated a fitting label")
	}

	got := c.String()
	want := "┌────┐\n│ ab │\n└────┘"
	if got != want {
		t.Errorf("DrawBox() =\n%s\nwant\n%s", got, want)
	}
}

func TestDrawBox_TruncatesWideLabel(t *testing.T) {
	c := New(5, 3, true)
	g := ASCIIGlyphs()
	if truncated := c.DrawBox(g, 0, 0, 5, 3, graph.ShapeRectangle, "abcdef"); !truncated {
		t.Error("DrawBox() = not truncated, want truncated")
	}
	if !strings.Contains(c.String(), "abc") {
		t.Errorf("DrawBox() output missing truncated label:\n%s", c.String())
	}
}

func TestDrawBox_RoundedCorners(t *testing.T) {
	c := New(4, 3, false)
	c.DrawBox(UnicodeGlyphs(), 0, 0, 4, 3, graph.ShapeRounded, "")
	for _, tt := range []struct {
		x, y int
		want rune
	}{
		{0, 0, '╭'}, {3, 0, '╮'}, {0, 2, '╰'}, {3, 2, '╯'},
	} {
		if got := c.Get(tt.x, tt.y); got != tt.want {
			t.Errorf("corner at (%d,%d) = %q, want %q", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestDrawPolyline_BendAndArrow(t *testing.T) {
	c := New(5, 4, false)
	g := UnicodeGlyphs()
	points := []Point{{0, 0}, {3, 0}, {3, 3}}
	c.DrawPolyline(g, points, false, true, DirDown)

	if got := c.Get(1, 0); got != '─' {
		t.Errorf("horizontal leg = %q, want %q", got, '─')
	}
	if got := c.Get(3, 0); got != '┐' {
		t.Errorf("bend = %q, want %q", got, '┐')
	}
	if got := c.Get(3, 2); got != '│' {
		t.Errorf("vertical leg = %q, want %q", got, '│')
	}
	if got := c.Get(3, 3); got != '▼' {
		t.Errorf("arrowhead = %q, want %q", got, '▼')
	}
}

func TestBend_Glyphs(t *testing.T) {
	g := UnicodeGlyphs()
	tests := []struct {
		in, out Dir
		want    rune
	}{
		{DirRight, DirDown, '┐'},
		{DirDown, DirRight, '└'},
		{DirRight, DirUp, '┘'},
		{DirUp, DirRight, '┌'},
		{DirLeft, DirDown, '┌'},
		{DirDown, DirLeft, '┘'},
	}
	for _, tt := range tests {
		if got := g.Bend(tt.in, tt.out); got != tt.want {
			t.Errorf("Bend(%v, %v) = %q, want %q", tt.in, tt.out, got, tt.want)
		}
	}
}

func TestTee_Glyphs(t *testing.T) {
	g := UnicodeGlyphs()
	tests := []struct {
		out  Dir
		want rune
	}{
		{DirDown, '┬'},
		{DirUp, '┴'},
		{DirRight, '├'},
		{DirLeft, '┤'},
	}
	for _, tt := range tests {
		got, ok := g.Tee(tt.out)
		if !ok || got != tt.want {
			t.Errorf("Tee(%v) = %q, %v, want %q, true", tt.out, got, ok, tt.want)
		}
	}
	if _, ok := ASCIIGlyphs().Tee(DirDown); ok {
		t.Error("ASCII Tee() = ok, want no junction")
	}
}
