// Package graph defines the parsed diagram model: nodes, edges, subgraphs,
// and the flow direction. The model is value-based and declaration-ordered;
// all adjacency is derived from the edge list on demand, so a Graph can be
// shared between concurrent renders without synchronization.
package graph

import (
	"errors"
	"fmt"
)

// ErrEmptyGraph is returned when a graph with no nodes is validated or laid out.
var ErrEmptyGraph = errors.New("graph has no nodes")

// DanglingEdgeError reports an edge whose endpoint is not a declared node.
type DanglingEdgeError struct {
	From    string
	To      string
	Missing string
}

func (e *DanglingEdgeError) Error() string {
	return fmt.Sprintf("edge %q -> %q references undeclared node %q", e.From, e.To, e.Missing)
}

// Direction is the primary flow direction of a diagram.
type Direction int

const (
	DirectionTD Direction = iota // top to bottom
	DirectionBT                  // bottom to top
	DirectionLR                  // left to right
	DirectionRL                  // right to left
)

// ParseDirection parses a direction token as written in diagram headers.
// TB is accepted as an alias for TD.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "TD", "TB":
		return DirectionTD, nil
	case "BT":
		return DirectionBT, nil
	case "LR":
		return DirectionLR, nil
	case "RL":
		return DirectionRL, nil
	}
	return DirectionTD, fmt.Errorf("unknown direction %q (want TD, BT, LR, or RL)", s)
}

func (d Direction) String() string {
	switch d {
	case DirectionTD:
		return "TD"
	case DirectionBT:
		return "BT"
	case DirectionLR:
		return "LR"
	case DirectionRL:
		return "RL"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// Horizontal reports whether ranks advance along the x axis.
func (d Direction) Horizontal() bool {
	return d == DirectionLR || d == DirectionRL
}

// Reversed reports whether ranks advance against the canonical axis
// (BT against TD, RL against LR).
func (d Direction) Reversed() bool {
	return d == DirectionBT || d == DirectionRL
}

// ShapeKind selects the border style of a node box.
type ShapeKind int

const (
	ShapeRectangle ShapeKind = iota
	ShapeRounded
	ShapeDiamond
)

func (s ShapeKind) String() string {
	switch s {
	case ShapeRectangle:
		return "rectangle"
	case ShapeRounded:
		return "rounded"
	case ShapeDiamond:
		return "diamond"
	}
	return fmt.Sprintf("ShapeKind(%d)", int(s))
}

// ArrowKind selects the line style of an edge.
type ArrowKind int

const (
	ArrowSolid ArrowKind = iota
	ArrowDotted
)

// Node is a diagram vertex. Label defaults to ID at parse time and is
// never empty in a valid graph.
type Node struct {
	ID    string
	Label string
	Shape ShapeKind
	Class string
}

// Edge is a directed connection between two nodes, identified by its
// position in Graph.Edges.
type Edge struct {
	From  string
	To    string
	Label string
	Arrow ArrowKind
}

// Subgraph is a named cluster of nodes. Subgraphs form a forest: Parent
// names the enclosing subgraph ("" for top level) and Children lists
// directly nested subgraphs in declaration order.
type Subgraph struct {
	ID       string
	Label    string
	Nodes    []string
	Children []string
	Parent   string
}

// Style is a set of presentation attributes declared with classDef.
type Style map[string]string

// Graph is a complete parsed diagram. Slices preserve declaration order,
// which fixes every ordering decision downstream.
//
// PaddingX and PaddingY carry padding directives from the diagram text;
// -1 means the text did not set one.
type Graph struct {
	Direction Direction
	Nodes     []Node
	Edges     []Edge
	Subgraphs []Subgraph
	Styles    map[string]Style
	PaddingX  int
	PaddingY  int
}

// New returns an empty graph with unset padding directives.
func New() *Graph {
	return &Graph{PaddingX: -1, PaddingY: -1}
}

// NodeCount returns the number of declared nodes.
func (g *Graph) NodeCount() int { return len(g.Nodes) }

// EdgeCount returns the number of declared edges.
func (g *Graph) EdgeCount() int { return len(g.Edges) }

// NodeIndex returns a lookup from node ID to its position in Nodes.
func (g *Graph) NodeIndex() map[string]int {
	idx := make(map[string]int, len(g.Nodes))
	for i, n := range g.Nodes {
		idx[n.ID] = i
	}
	return idx
}

// Node returns the node with the given ID.
func (g *Graph) Node(id string) (Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Children returns the targets of all edges leaving id, in edge
// declaration order. Duplicates are preserved.
func (g *Graph) Children(id string) []string {
	var out []string
	for _, e := range g.Edges {
		if e.From == id {
			out = append(out, e.To)
		}
	}
	return out
}

// Parents returns the sources of all edges entering id, in edge
// declaration order. Duplicates are preserved.
func (g *Graph) Parents(id string) []string {
	var out []string
	for _, e := range g.Edges {
		if e.To == id {
			out = append(out, e.From)
		}
	}
	return out
}

// SubgraphIndex returns a lookup from subgraph ID to its position in Subgraphs.
func (g *Graph) SubgraphIndex() map[string]int {
	idx := make(map[string]int, len(g.Subgraphs))
	for i, s := range g.Subgraphs {
		idx[s.ID] = i
	}
	return idx
}

// MemberOf returns the ID of the innermost subgraph containing the node,
// or "" when the node is top level.
func (g *Graph) MemberOf(nodeID string) string {
	for _, s := range g.Subgraphs {
		for _, id := range s.Nodes {
			if id == nodeID {
				return s.ID
			}
		}
	}
	return ""
}

// Ancestry returns the chain of subgraph IDs enclosing the node, outermost
// first. An empty slice means the node is top level.
func (g *Graph) Ancestry(nodeID string) []string {
	idx := g.SubgraphIndex()
	var chain []string
	for cur := g.MemberOf(nodeID); cur != ""; {
		chain = append([]string{cur}, chain...)
		i, ok := idx[cur]
		if !ok {
			break
		}
		cur = g.Subgraphs[i].Parent
	}
	return chain
}

// Depth returns the nesting depth of a subgraph: 1 for top level clusters,
// 2 for clusters nested once, and so on. Unknown IDs have depth 0.
func (g *Graph) Depth(subgraphID string) int {
	idx := g.SubgraphIndex()
	depth := 0
	for cur := subgraphID; cur != ""; {
		i, ok := idx[cur]
		if !ok {
			break
		}
		depth++
		cur = g.Subgraphs[i].Parent
	}
	return depth
}

// Validate checks structural invariants: the graph has at least one node
// and every edge endpoint names a declared node. Self-loops are legal.
func (g *Graph) Validate() error {
	if len(g.Nodes) == 0 {
		return ErrEmptyGraph
	}
	idx := g.NodeIndex()
	for _, e := range g.Edges {
		if _, ok := idx[e.From]; !ok {
			return &DanglingEdgeError{From: e.From, To: e.To, Missing: e.From}
		}
		if _, ok := idx[e.To]; !ok {
			return &DanglingEdgeError{From: e.From, To: e.To, Missing: e.To}
		}
	}
	return nil
}
