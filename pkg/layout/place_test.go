package layout

import (
	"testing"

	"github.com/matzehuels/flowgrid/pkg/graph"
)

func boxesOverlap(a, b box) bool {
	return a.prim <= b.primEnd() && b.prim <= a.primEnd() &&
		a.cross <= b.crossEnd() && b.cross <= a.crossEnd()
}

func placeGraph(t *testing.T, g *graph.Graph, cfg Config, ax axes) (Ranks, placement) {
	t.Helper()
	r, err := AssignRanks(g)
	if err != nil {
		t.Fatalf("AssignRanks error: %v", err)
	}
	order := OrderRanks(g, r)
	return r, placeNodes(g, r, order, cfg, ax)
}

func TestNodeBoxSize(t *testing.T) {
	cfg := Config{PaddingX: 1, PaddingY: 1, BorderPadding: 1}
	n := graph.Node{ID: "n", Label: "ab"}

	// Width = label + 2*paddingX + borders; height = 1 + 2*paddingY + borders.
	b := nodeBoxSize(n, cfg, axes{})
	if b.crossLen != 6 || b.primLen != 5 {
		t.Errorf("vertical box = %dx%d (cross x prim), want 6x5", b.crossLen, b.primLen)
	}

	// Horizontal flow swaps the axes, the on-screen size stays the same.
	b = nodeBoxSize(n, cfg, axes{horizontal: true})
	if b.primLen != 6 || b.crossLen != 5 {
		t.Errorf("horizontal box = %dx%d (prim x cross), want 6x5", b.primLen, b.crossLen)
	}
}

func TestPlaceNodes_NoOverlap(t *testing.T) {
	g := mkGraph([]string{"a", "b", "c", "d"},
		[][2]string{{"a", "b"}, {"a", "c"}, {"b", "d"}, {"c", "d"}})
	_, p := placeGraph(t, g, DefaultConfig(), axes{})

	ids := []string{"a", "b", "c", "d"}
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			if boxesOverlap(p.nodes[ids[i]], p.nodes[ids[j]]) {
				t.Errorf("boxes %s and %s overlap: %+v vs %+v",
					ids[i], ids[j], p.nodes[ids[i]], p.nodes[ids[j]])
			}
		}
	}
}

func TestPlaceNodes_RankGap(t *testing.T) {
	g := mkGraph([]string{"a", "b"}, [][2]string{{"a", "b"}})
	cfg := DefaultConfig()
	_, p := placeGraph(t, g, cfg, axes{})

	// The gap must hold the exit stub, the vertical padding, and the
	// arrowhead of a straight edge.
	gap := p.rankStart[1] - p.rankEnd[0] - 1
	if want := cfg.PaddingY + 2; gap != want {
		t.Errorf("inter-rank gap = %d, want %d", gap, want)
	}
	if p.nodes["a"].prim != cfg.BorderPadding {
		t.Errorf("first rank starts at %d, want %d", p.nodes["a"].prim, cfg.BorderPadding)
	}
}

func TestPlaceNodes_CrossSpacing(t *testing.T) {
	g := mkGraph([]string{"r", "a", "b"}, [][2]string{{"r", "a"}, {"r", "b"}})
	cfg := DefaultConfig()
	_, p := placeGraph(t, g, cfg, axes{})

	first, second := p.nodes["a"], p.nodes["b"]
	if first.cross > second.cross {
		first, second = second, first
	}
	if gap := second.cross - first.crossEnd() - 1; gap != cfg.PaddingX {
		t.Errorf("sibling gap = %d, want %d", gap, cfg.PaddingX)
	}
}

func TestPlaceNodes_SubgraphContainsMembers(t *testing.T) {
	g := mkGraph([]string{"a", "b", "c"}, [][2]string{{"a", "b"}, {"b", "c"}})
	g.Subgraphs = append(g.Subgraphs, graph.Subgraph{ID: "grp", Label: "grp", Nodes: []string{"b", "c"}})

	cfg := DefaultConfig()
	_, p := placeGraph(t, g, cfg, axes{})

	sub, ok := p.subs["grp"]
	if !ok {
		t.Fatal("subgraph box missing")
	}
	levelPad := cfg.BorderPadding + 1
	for _, id := range []string{"b", "c"} {
		nb := p.nodes[id]
		if nb.prim-sub.prim < levelPad || sub.primEnd()-nb.primEnd() < levelPad {
			t.Errorf("node %s too close to subgraph border on primary axis: %+v in %+v", id, nb, sub)
		}
		if nb.cross-sub.cross < levelPad || sub.crossEnd()-nb.crossEnd() < levelPad {
			t.Errorf("node %s too close to subgraph border on cross axis: %+v in %+v", id, nb, sub)
		}
	}

	// The outside node stays outside.
	if boxesOverlap(p.nodes["a"], sub) {
		t.Errorf("node a overlaps subgraph box: %+v vs %+v", p.nodes["a"], sub)
	}
}

func TestPlaceNodes_NestedSubgraphBoxes(t *testing.T) {
	g := mkGraph([]string{"a", "b"}, [][2]string{{"a", "b"}})
	g.Subgraphs = append(g.Subgraphs,
		graph.Subgraph{ID: "outer", Nodes: []string{"a"}, Children: []string{"inner"}},
		graph.Subgraph{ID: "inner", Nodes: []string{"b"}, Parent: "outer"},
	)
	_, p := placeGraph(t, g, DefaultConfig(), axes{})

	outer, inner := p.subs["outer"], p.subs["inner"]
	if inner.prim <= outer.prim || inner.primEnd() >= outer.primEnd() {
		t.Errorf("inner box not strictly inside outer on primary axis: %+v vs %+v", inner, outer)
	}
	if inner.cross <= outer.cross || inner.crossEnd() >= outer.crossEnd() {
		t.Errorf("inner box not strictly inside outer on cross axis: %+v vs %+v", inner, outer)
	}
}

func TestPlaceNodes_CrossMax(t *testing.T) {
	g := mkGraph([]string{"a", "b"}, [][2]string{{"a", "b"}})
	_, p := placeGraph(t, g, DefaultConfig(), axes{})

	want := 0
	for _, b := range p.nodes {
		if b.crossEnd() > want {
			want = b.crossEnd()
		}
	}
	if p.crossMax != want {
		t.Errorf("crossMax = %d, want %d", p.crossMax, want)
	}
}
