package layout

import "github.com/matzehuels/flowgrid/pkg/graph"

// route is an edge path in layout space. Points run source to target;
// the final point is the arrowhead cell, adjacent to the target border.
type route struct {
	edge   int
	points []point
	arrow  axisDir
	dotted bool
}

// Degradation records an edge that had to reuse an occupied routing lane.
// It is a soft condition: the diagram still renders, with overlapping
// horizontal legs.
type Degradation struct {
	Edge int
	From string
	To   string
}

// routeEdges computes an orthogonal polyline for every edge, in edge
// declaration order.
//
// Adjacent-rank edges run through the gap between their ranks, claiming a
// free lane row when they need a cross leg. Everything else (feedback,
// multi-rank, self-loops) leaves the source's forward face, claims a lane
// to a side channel right of the content, runs along the channel, and
// enters the target's entry face from the row just before it.
func routeEdges(g *graph.Graph, r Ranks, p placement, cfg Config, ax axes) ([]route, []Degradation) {
	lanes := newLaneTable(r, p, cfg, ax)
	anchors := assignAnchors(g, p)

	channelBase := p.crossMax + 2
	channels := 0

	var routes []route
	var degraded []Degradation
	for i, e := range g.Edges {
		src, dst := p.nodes[e.From], p.nodes[e.To]
		srcCross, dstCross := anchors.out[i], anchors.in[i]
		startPrim := src.primEnd() + 1
		entryPrim := dst.prim - 1

		var pts []point
		clean := true
		if !r.Feedback[i] && r.RankDelta(e) == 1 {
			if srcCross == dstCross {
				pts = []point{{startPrim, srcCross}, {entryPrim, dstCross}}
			} else {
				var lane int
				lane, clean = lanes.claim(r.ByNode[e.From], srcCross, dstCross)
				pts = []point{
					{startPrim, srcCross},
					{lane, srcCross},
					{lane, dstCross},
					{entryPrim, dstCross},
				}
			}
		} else {
			channel := channelBase + 2*channels
			channels++
			var lane int
			lane, clean = lanes.claim(r.ByNode[e.From], srcCross, channel)
			if entryPrim < 0 {
				entryPrim = 0
			}
			pts = []point{
				{startPrim, srcCross},
				{lane, srcCross},
				{lane, channel},
				{entryPrim, channel},
				{entryPrim, dstCross},
			}
		}

		if !clean {
			degraded = append(degraded, Degradation{Edge: i, From: e.From, To: e.To})
		}
		routes = append(routes, route{
			edge:   i,
			points: collapse(pts),
			arrow:  dirForward,
			dotted: e.Arrow == graph.ArrowDotted,
		})
	}
	return routes, degraded
}

// edgeAnchors holds per-edge anchor cross coordinates on the source's
// forward face (out) and the target's entry face (in).
type edgeAnchors struct {
	out map[int]int
	in  map[int]int
}

// assignAnchors spreads edge endpoints across each box face so parallel
// edges get distinct slots. Slot offsets alternate around the face center
// (0, -1, +1, -2, ...) and clamp to the face interior.
func assignAnchors(g *graph.Graph, p placement) edgeAnchors {
	outSlot := make(map[int]int, len(g.Edges))
	inSlot := make(map[int]int, len(g.Edges))
	outCount := make(map[string]int)
	inCount := make(map[string]int)
	for i, e := range g.Edges {
		outSlot[i] = outCount[e.From]
		outCount[e.From]++
		inSlot[i] = inCount[e.To]
		inCount[e.To]++
	}

	anchors := edgeAnchors{
		out: make(map[int]int, len(g.Edges)),
		in:  make(map[int]int, len(g.Edges)),
	}
	for i, e := range g.Edges {
		anchors.out[i] = anchorCross(p.nodes[e.From], outSlot[i])
		anchors.in[i] = anchorCross(p.nodes[e.To], inSlot[i])
	}
	return anchors
}

func anchorCross(b box, slot int) int {
	c := b.crossCenter() + slotOffset(slot)
	if lo := b.cross + 1; c < lo {
		c = lo
	}
	if hi := b.crossEnd() - 1; c > hi {
		c = hi
	}
	return c
}

// slotOffset returns the alternating spread 0, -1, +1, -2, +2, ...
func slotOffset(slot int) int {
	if slot == 0 {
		return 0
	}
	mag := (slot + 1) / 2
	if slot%2 == 1 {
		return -mag
	}
	return mag
}

// collapse drops duplicate and collinear intermediate points.
func collapse(pts []point) []point {
	out := pts[:1]
	for _, p := range pts[1:] {
		if p == out[len(out)-1] {
			continue
		}
		if len(out) >= 2 {
			a, b := out[len(out)-2], out[len(out)-1]
			if (a.prim == b.prim && b.prim == p.prim) || (a.cross == b.cross && b.cross == p.cross) {
				out[len(out)-1] = p
				continue
			}
		}
		out = append(out, p)
	}
	return out
}
