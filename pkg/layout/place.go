package layout

import "github.com/matzehuels/flowgrid/pkg/graph"

// placement holds node and subgraph boxes in layout space, plus the
// primary-axis extent of every rank. Everything downstream (routing,
// rasterization) reads coordinates from here.
type placement struct {
	nodes     map[string]box
	subs      map[string]box
	subOrder  []string
	rankStart map[int]int
	rankEnd   map[int]int
	crossMax  int
}

// placeNodes assigns every node a box. Ranks advance along the primary
// axis; within a rank, boxes pack sequentially along the cross axis.
// Space for subgraph borders is reserved in the inter-rank and inter-node
// gaps: each nesting level adds borderPadding margin plus one border cell.
func placeNodes(g *graph.Graph, r Ranks, order map[int][]string, cfg Config, ax axes) placement {
	levelPad := cfg.BorderPadding + 1
	primPad, crossPad := cfg.PaddingY, cfg.PaddingX
	if ax.horizontal {
		primPad, crossPad = cfg.PaddingX, cfg.PaddingY
	}

	spans := subgraphSpans(g, r)
	opening := make(map[int]int)
	closing := make(map[int]int)
	for _, sp := range spans {
		opening[sp.lo]++
		closing[sp.hi]++
	}

	// Primary axis: cumulative rank placement. Every gap holds at least
	// the exit stub and the arrowhead of a straight edge, hence the +2.
	rankLen := make(map[int]int, r.Max+1)
	sizes := make(map[string]box, len(g.Nodes))
	for _, n := range g.Nodes {
		b := nodeBoxSize(n, cfg, ax)
		sizes[n.ID] = b
		if rank := r.ByNode[n.ID]; b.primLen > rankLen[rank] {
			rankLen[rank] = b.primLen
		}
	}

	rankStart := make(map[int]int, r.Max+1)
	rankEnd := make(map[int]int, r.Max+1)
	cursor := cfg.BorderPadding + levelPad*opening[0]
	for rank := 0; rank <= r.Max; rank++ {
		if rank > 0 {
			cursor += primPad + 2 + levelPad*(closing[rank-1]+opening[rank])
		}
		rankStart[rank] = cursor
		rankEnd[rank] = cursor + rankLen[rank] - 1
		cursor += rankLen[rank]
	}

	// Cross axis: sequential packing, widened where subgraph borders
	// must fit between or around neighbors.
	ancestry := make(map[string][]string, len(g.Nodes))
	for _, n := range g.Nodes {
		ancestry[n.ID] = g.Ancestry(n.ID)
	}

	nodes := make(map[string]box, len(g.Nodes))
	for rank := 0; rank <= r.Max; rank++ {
		prev := ""
		cursor := 0
		for _, id := range order[rank] {
			b := sizes[id]
			depth := len(ancestry[id])
			if prev == "" {
				cursor = cfg.BorderPadding + levelPad*depth
			} else {
				shared := sharedPrefix(ancestry[prev], ancestry[id])
				prevDepth := len(ancestry[prev])
				cursor += crossPad + levelPad*(prevDepth+depth-2*shared)
			}
			b.prim = rankStart[rank]
			b.cross = cursor
			nodes[id] = b
			cursor += b.crossLen
			prev = id
		}
	}

	// Subgraph boxes: union of member boxes, inflated one level outward.
	// Reverse declaration order visits children before parents.
	subs := make(map[string]box, len(g.Subgraphs))
	var subOrder []string
	for i := len(g.Subgraphs) - 1; i >= 0; i-- {
		sg := g.Subgraphs[i]
		var union box
		first := true
		for _, id := range sg.Nodes {
			if nb, ok := nodes[id]; ok {
				union = unionBox(union, nb, first)
				first = false
			}
		}
		for _, child := range sg.Children {
			if cb, ok := subs[child]; ok {
				union = unionBox(union, cb, first)
				first = false
			}
		}
		if first {
			continue
		}
		subs[sg.ID] = inflate(union, levelPad)
	}
	for _, sg := range g.Subgraphs {
		if _, ok := subs[sg.ID]; ok {
			subOrder = append(subOrder, sg.ID)
		}
	}

	crossMax := 0
	for _, b := range nodes {
		if b.crossEnd() > crossMax {
			crossMax = b.crossEnd()
		}
	}
	for _, b := range subs {
		if b.crossEnd() > crossMax {
			crossMax = b.crossEnd()
		}
	}

	return placement{
		nodes:     nodes,
		subs:      subs,
		subOrder:  subOrder,
		rankStart: rankStart,
		rankEnd:   rankEnd,
		crossMax:  crossMax,
	}
}

// nodeBoxSize returns a node's box dimensions. The label row is always
// horizontal on screen, so width follows the label regardless of flow
// orientation.
func nodeBoxSize(n graph.Node, cfg Config, ax axes) box {
	w := len([]rune(n.Label)) + 2*cfg.PaddingX + 2
	h := 1 + 2*cfg.PaddingY + 2
	if ax.horizontal {
		return box{primLen: w, crossLen: h}
	}
	return box{primLen: h, crossLen: w}
}

type rankSpan struct {
	id     string
	lo, hi int
}

// subgraphSpans returns the rank span of every subgraph that has at least
// one (transitive) member node, in declaration order.
func subgraphSpans(g *graph.Graph, r Ranks) []rankSpan {
	var spans []rankSpan
	for _, sg := range g.Subgraphs {
		members := transitiveMembers(g, sg.ID)
		if len(members) == 0 {
			continue
		}
		sp := rankSpan{id: sg.ID, lo: r.ByNode[members[0]], hi: r.ByNode[members[0]]}
		for _, id := range members[1:] {
			if rank := r.ByNode[id]; rank < sp.lo {
				sp.lo = rank
			} else if rank > sp.hi {
				sp.hi = rank
			}
		}
		spans = append(spans, sp)
	}
	return spans
}

// transitiveMembers lists a subgraph's nodes including nested subgraphs,
// declaration order.
func transitiveMembers(g *graph.Graph, id string) []string {
	idx := g.SubgraphIndex()
	var walk func(id string) []string
	walk = func(id string) []string {
		i, ok := idx[id]
		if !ok {
			return nil
		}
		out := append([]string(nil), g.Subgraphs[i].Nodes...)
		for _, child := range g.Subgraphs[i].Children {
			out = append(out, walk(child)...)
		}
		return out
	}
	return walk(id)
}

func sharedPrefix(a, b []string) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}

func unionBox(acc, b box, first bool) box {
	if first {
		return b
	}
	lo := acc
	if b.prim < lo.prim {
		lo.primLen = lo.primEnd() - b.prim + 1
		lo.prim = b.prim
	}
	if b.cross < lo.cross {
		lo.crossLen = lo.crossEnd() - b.cross + 1
		lo.cross = b.cross
	}
	if b.primEnd() > lo.primEnd() {
		lo.primLen = b.primEnd() - lo.prim + 1
	}
	if b.crossEnd() > lo.crossEnd() {
		lo.crossLen = b.crossEnd() - lo.cross + 1
	}
	return lo
}

func inflate(b box, by int) box {
	return box{
		prim:     b.prim - by,
		cross:    b.cross - by,
		primLen:  b.primLen + 2*by,
		crossLen: b.crossLen + 2*by,
	}
}
