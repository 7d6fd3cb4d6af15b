// Package parser turns mermaid-flavored diagram text into a graph.Graph.
//
// The grammar is line oriented: an optional block of padding directives, a
// required "graph DIR" (or "flowchart DIR") header, then edge, node,
// subgraph, and classDef lines. "%%" starts a comment and "---" ends the
// diagram body.
package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/matzehuels/flowgrid/pkg/graph"
)

var (
	headerRe   = regexp.MustCompile(`^(?:graph|flowchart)\s+(\S+)\s*$`)
	paddingRe  = regexp.MustCompile(`(?i)^padding([xy])\s*=\s*(\d+)$`)
	classDefRe = regexp.MustCompile(`^classDef\s+(\S+)\s+(\S.*)$`)
	subgraphRe = regexp.MustCompile(`^subgraph\s+(\S.*)$`)
	arrowRe    = regexp.MustCompile(`\s+(-\.->|-->)(?:\|([^|]*)\|)?\s+`)
)

// Parse reads diagram text and returns the graph it declares.
// Errors name the offending line.
func Parse(src string) (*graph.Graph, error) {
	b := &builder{
		g:       graph.New(),
		nodeIdx: make(map[string]int),
		subIdx:  make(map[string]int),
	}
	b.g.Styles = make(map[string]graph.Style)

	// Accept literal \n sequences so one-line shell invocations work.
	src = strings.ReplaceAll(src, `\n`, "\n")

	headerSeen := false
	for lineNo, raw := range strings.Split(src, "\n") {
		line := raw
		if i := strings.Index(line, "%%"); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "---" {
			break
		}

		if m := paddingRe.FindStringSubmatch(line); m != nil {
			n, _ := strconv.Atoi(m[2])
			if strings.EqualFold(m[1], "x") {
				b.g.PaddingX = n
			} else {
				b.g.PaddingY = n
			}
			continue
		}

		if m := headerRe.FindStringSubmatch(line); m != nil {
			if headerSeen {
				return nil, lineErr(lineNo, line, "duplicate diagram header")
			}
			dir, err := graph.ParseDirection(m[1])
			if err != nil {
				return nil, lineErr(lineNo, line, err.Error())
			}
			b.g.Direction = dir
			headerSeen = true
			continue
		}

		if !headerSeen {
			return nil, lineErr(lineNo, line, "expected \"graph DIR\" header")
		}

		switch {
		case line == "end":
			if len(b.stack) == 0 {
				return nil, lineErr(lineNo, line, "\"end\" without open subgraph")
			}
			b.stack = b.stack[:len(b.stack)-1]

		case subgraphRe.MatchString(line):
			title := strings.TrimSpace(subgraphRe.FindStringSubmatch(line)[1])
			b.openSubgraph(title)

		case classDefRe.MatchString(line):
			m := classDefRe.FindStringSubmatch(line)
			b.g.Styles[m[1]] = parseStyle(m[2])

		default:
			if err := b.parseEdgeLine(line); err != nil {
				return nil, lineErr(lineNo, line, err.Error())
			}
		}
	}

	if len(b.stack) > 0 {
		return nil, fmt.Errorf("unclosed subgraph %q", b.stack[len(b.stack)-1])
	}
	if !headerSeen {
		return nil, fmt.Errorf("expected \"graph DIR\" header")
	}
	return b.g, nil
}

func lineErr(lineNo int, line, msg string) error {
	return fmt.Errorf("line %d (%q): %s", lineNo+1, line, msg)
}

type builder struct {
	g       *graph.Graph
	nodeIdx map[string]int
	subIdx  map[string]int
	stack   []string
}

// parseEdgeLine handles edge chains (A --> B -->|x| C), fan-out groups
// (A & B --> C), and standalone node declarations.
func (b *builder) parseEdgeLine(line string) error {
	matches := arrowRe.FindAllStringSubmatchIndex(line, -1)

	type arrow struct {
		label  string
		dotted bool
	}
	var groups [][]graph.Node
	var arrows []arrow

	prev := 0
	for _, m := range matches {
		group, err := b.parseNodeGroup(line[prev:m[0]])
		if err != nil {
			return err
		}
		groups = append(groups, group)

		a := arrow{dotted: line[m[2]:m[3]] == "-.->"}
		if m[4] >= 0 {
			a.label = strings.TrimSpace(line[m[4]:m[5]])
		}
		arrows = append(arrows, a)
		prev = m[1]
	}
	group, err := b.parseNodeGroup(line[prev:])
	if err != nil {
		return err
	}
	groups = append(groups, group)

	for _, g := range groups {
		for _, n := range g {
			b.ensureNode(n)
		}
	}
	for i, a := range arrows {
		kind := graph.ArrowSolid
		if a.dotted {
			kind = graph.ArrowDotted
		}
		for _, from := range groups[i] {
			for _, to := range groups[i+1] {
				b.g.Edges = append(b.g.Edges, graph.Edge{
					From:  from.ID,
					To:    to.ID,
					Label: a.label,
					Arrow: kind,
				})
			}
		}
	}
	return nil
}

// parseNodeGroup splits an &-separated node list.
func (b *builder) parseNodeGroup(s string) ([]graph.Node, error) {
	var nodes []graph.Node
	for _, tok := range strings.Split(s, "&") {
		n, err := parseNodeToken(tok)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

// parseNodeToken parses one node reference: an ID with an optional shaped
// label (id[text], id(text), id{text}) and an optional :::class suffix.
func parseNodeToken(tok string) (graph.Node, error) {
	tok = strings.TrimSpace(tok)

	var class string
	if i := strings.Index(tok, ":::"); i >= 0 {
		class = strings.TrimSpace(tok[i+3:])
		tok = strings.TrimSpace(tok[:i])
	}

	id, label := tok, ""
	shape := graph.ShapeRectangle
	for _, form := range []struct {
		open, close string
		shape       graph.ShapeKind
	}{
		{"[", "]", graph.ShapeRectangle},
		{"(", ")", graph.ShapeRounded},
		{"{", "}", graph.ShapeDiamond},
	} {
		if !strings.HasSuffix(tok, form.close) {
			continue
		}
		i := strings.Index(tok, form.open)
		if i <= 0 {
			continue
		}
		id = strings.TrimSpace(tok[:i])
		label = strings.TrimSpace(tok[i+1 : len(tok)-1])
		shape = form.shape
		break
	}

	if id == "" {
		return graph.Node{}, fmt.Errorf("empty node name")
	}
	if label == "" {
		label = id
	}
	return graph.Node{ID: id, Label: label, Shape: shape, Class: class}, nil
}

// ensureNode declares a node or upgrades an earlier declaration with the
// richer information from this one. New nodes join the innermost open
// subgraph.
func (b *builder) ensureNode(n graph.Node) {
	if i, ok := b.nodeIdx[n.ID]; ok {
		cur := &b.g.Nodes[i]
		if n.Label != n.ID {
			cur.Label = n.Label
		}
		if n.Shape != graph.ShapeRectangle {
			cur.Shape = n.Shape
		}
		if n.Class != "" {
			cur.Class = n.Class
		}
		return
	}
	b.nodeIdx[n.ID] = len(b.g.Nodes)
	b.g.Nodes = append(b.g.Nodes, n)

	if len(b.stack) > 0 {
		parent := b.stack[len(b.stack)-1]
		i := b.subIdx[parent]
		b.g.Subgraphs[i].Nodes = append(b.g.Subgraphs[i].Nodes, n.ID)
	}
}

func (b *builder) openSubgraph(title string) {
	parent := ""
	if len(b.stack) > 0 {
		parent = b.stack[len(b.stack)-1]
	}
	if _, ok := b.subIdx[title]; !ok {
		b.subIdx[title] = len(b.g.Subgraphs)
		b.g.Subgraphs = append(b.g.Subgraphs, graph.Subgraph{
			ID:     title,
			Label:  title,
			Parent: parent,
		})
		if parent != "" {
			i := b.subIdx[parent]
			b.g.Subgraphs[i].Children = append(b.g.Subgraphs[i].Children, title)
		}
	}
	b.stack = append(b.stack, title)
}

func parseStyle(attrs string) graph.Style {
	style := make(graph.Style)
	for _, pair := range strings.Split(attrs, ",") {
		kv := strings.SplitN(pair, ":", 2)
		if len(kv) != 2 {
			continue
		}
		style[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
	}
	return style
}
