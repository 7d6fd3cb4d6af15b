package layout

// span is an inclusive cross-axis interval.
type span struct {
	lo, hi int
}

// conflicts reports whether two spans touch, with one cell of clearance
// so adjacent horizontal legs never blend into one line.
func (s span) conflicts(o span) bool {
	return s.lo <= o.hi+1 && o.lo <= s.hi+1
}

func newSpan(a, b int) span {
	if a > b {
		a, b = b, a
	}
	return span{a, b}
}

// gapLanes tracks claimed horizontal legs in one inter-rank gap, one slot
// per grid row.
type gapLanes struct {
	lo, hi int
	rows   [][]span
}

// laneTable holds the lanes of every inter-rank gap, keyed by the rank
// above the gap. The gap below the last rank is virtual: it only exists
// when feedback or self-loop edges leave the bottom rank.
type laneTable struct {
	gaps map[int]*gapLanes
}

func newLaneTable(r Ranks, p placement, cfg Config, ax axes) *laneTable {
	primPad := cfg.PaddingY
	if ax.horizontal {
		primPad = cfg.PaddingX
	}

	t := &laneTable{gaps: make(map[int]*gapLanes, r.Max+1)}
	for rank := 0; rank <= r.Max; rank++ {
		lo := p.rankEnd[rank] + 1
		hi := p.rankStart[rank+1] - 1
		if rank == r.Max {
			hi = lo + primPad + 1
		}
		if hi < lo {
			hi = lo
		}
		t.gaps[rank] = &gapLanes{lo: lo, hi: hi, rows: make([][]span, hi-lo+1)}
	}

	// Subgraph borders run through the gaps; seed them as obstacles so
	// lanes never overwrite a frame line.
	for _, id := range p.subOrder {
		b := p.subs[id]
		t.obstruct(b.prim, span{b.cross, b.crossEnd()})
		t.obstruct(b.primEnd(), span{b.cross, b.crossEnd()})
	}
	return t
}

func (t *laneTable) obstruct(prim int, s span) {
	for _, gl := range t.gaps {
		if prim >= gl.lo && prim <= gl.hi {
			gl.rows[prim-gl.lo] = append(gl.rows[prim-gl.lo], s)
			return
		}
	}
}

// claim reserves a lane row in the gap below the given rank for a
// horizontal leg spanning the two cross coordinates. The first
// conflict-free row wins; when every row conflicts, the row with the
// fewest conflicts is reused and clean is false.
func (t *laneTable) claim(rank, crossA, crossB int) (prim int, clean bool) {
	gl := t.gaps[rank]
	s := newSpan(crossA, crossB)

	bestRow, bestConflicts := 0, -1
	for i := range gl.rows {
		conflicts := 0
		for _, occupied := range gl.rows[i] {
			if s.conflicts(occupied) {
				conflicts++
			}
		}
		if conflicts == 0 {
			gl.rows[i] = append(gl.rows[i], s)
			return gl.lo + i, true
		}
		if bestConflicts == -1 || conflicts < bestConflicts {
			bestRow, bestConflicts = i, conflicts
		}
	}
	gl.rows[bestRow] = append(gl.rows[bestRow], s)
	return gl.lo + bestRow, false
}
