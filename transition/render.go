// SPDX-License-Identifier: MIT
//
// File: render.go
// Role: export of a Graph for the rendering collaborators: a JSON-friendly
//       view, Graphviz DOT and Mermaid stateDiagram-v2 text.
// Determinism:
//   - nodes by id, edges by source then component; output is byte-stable.

package transition

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/katalvlaran/ctmc/combination"
)

// RenderOption configures Export, DOT and Mermaid.
type RenderOption func(*renderOptions)

type renderOptions struct {
	labels bool
	name   func(id int, s combination.Subset) string
}

func defaultRenderOptions() renderOptions {
	return renderOptions{
		name: func(id int, _ combination.Subset) string { return strconv.Itoa(id) },
	}
}

// WithEdgeLabels toggles the λ_{j+1} / μ_{j+1} labels on edges.
func WithEdgeLabels(on bool) RenderOption {
	return func(o *renderOptions) { o.labels = on }
}

// WithStateNames overrides the node caption; the default is the state id.
// A nil fn keeps the default.
func WithStateNames(fn func(id int, s combination.Subset) string) RenderOption {
	return func(o *renderOptions) {
		if fn != nil {
			o.name = fn
		}
	}
}

// SubsetNames captions every node with its failed set, e.g. "{0,2}".
func SubsetNames(_ int, s combination.Subset) string { return s.String() }

// Node is one state of a GraphView.
type Node struct {
	ID     int                `json:"id" yaml:"id"`
	Name   string             `json:"name" yaml:"name"`
	Failed combination.Subset `json:"failed" yaml:"failed"`
	Level  int                `json:"level" yaml:"level"`
}

// ViewEdge is one transition of a GraphView.
type ViewEdge struct {
	From      int    `json:"from" yaml:"from"`
	To        int    `json:"to" yaml:"to"`
	Component int    `json:"component" yaml:"component"`
	Kind      Kind   `json:"kind" yaml:"kind"`
	Label     string `json:"label,omitempty" yaml:"label,omitempty"`
}

// GraphView is the flattened, serialisable form of a Graph.
type GraphView struct {
	Components int        `json:"components" yaml:"components"`
	States     int        `json:"states" yaml:"states"`
	Nodes      []Node     `json:"nodes" yaml:"nodes"`
	Edges      []ViewEdge `json:"edges" yaml:"edges"`
}

// Export flattens g. A nil graph yields an empty view.
// Complexity: O(n·2^n).
func Export(g *Graph, opts ...RenderOption) GraphView {
	if g == nil {
		return GraphView{Nodes: []Node{}, Edges: []ViewEdge{}}
	}
	o := defaultRenderOptions()
	for _, opt := range opts {
		opt(&o)
	}

	total := g.Order()
	v := GraphView{
		Components: g.n,
		States:     total,
		Nodes:      make([]Node, total),
		Edges:      make([]ViewEdge, 0, g.Size()),
	}
	// BFS from state 0 cannot fail on a built graph without a deadline
	levels, _ := g.Levels(context.Background())
	var id int
	for id = 0; id < total; id++ {
		s, _ := g.idx.Subset(id)
		v.Nodes[id] = Node{ID: id, Name: o.name(id, s), Failed: s, Level: levels[id]}
	}
	for _, e := range g.Edges() {
		ve := ViewEdge{From: e.From, To: e.To, Component: e.Component, Kind: e.Kind}
		if o.labels {
			ve.Label = e.Label()
		}
		v.Edges = append(v.Edges, ve)
	}

	return v
}

var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// DOT renders g as a Graphviz digraph. States with the same number of failed
// components share a rank, so the cube is drawn level by level.
func DOT(g *Graph, opts ...RenderOption) string {
	v := Export(g, opts...)

	var sb strings.Builder
	sb.WriteString("digraph ctmc {\n")
	sb.WriteString("  rankdir=LR;\n")
	sb.WriteString("  node [shape=circle];\n\n")

	for _, nd := range v.Nodes {
		fmt.Fprintf(&sb, "  %d [label=\"%s\"];\n", nd.ID, dotEscaper.Replace(nd.Name))
	}
	sb.WriteString("\n")

	// nodes are sorted by level already (canonical order)
	for lo := 0; lo < len(v.Nodes); {
		hi := lo
		for hi < len(v.Nodes) && v.Nodes[hi].Level == v.Nodes[lo].Level {
			hi++
		}
		sb.WriteString("  { rank=same;")
		for _, nd := range v.Nodes[lo:hi] {
			fmt.Fprintf(&sb, " %d;", nd.ID)
		}
		sb.WriteString(" }\n")
		lo = hi
	}
	sb.WriteString("\n")

	for _, e := range v.Edges {
		if e.Label != "" {
			fmt.Fprintf(&sb, "  %d -> %d [label=\"%s\"];\n", e.From, e.To, e.Label)
		} else {
			fmt.Fprintf(&sb, "  %d -> %d;\n", e.From, e.To)
		}
	}
	sb.WriteString("}\n")

	return sb.String()
}

// Mermaid renders g as a Mermaid stateDiagram-v2 with state 0 as initial.
func Mermaid(g *Graph, opts ...RenderOption) string {
	v := Export(g, opts...)

	var sb strings.Builder
	sb.WriteString("stateDiagram-v2\n")
	if len(v.Nodes) == 0 {
		return sb.String()
	}
	fmt.Fprintf(&sb, "  [*] --> s%d\n", v.Nodes[0].ID)
	for _, nd := range v.Nodes {
		fmt.Fprintf(&sb, "  s%d : %s\n", nd.ID, strings.ReplaceAll(nd.Name, ":", "#58;"))
	}
	for _, e := range v.Edges {
		if e.Label != "" {
			fmt.Fprintf(&sb, "  s%d --> s%d : %s\n", e.From, e.To, e.Label)
		} else {
			fmt.Fprintf(&sb, "  s%d --> s%d\n", e.From, e.To)
		}
	}

	return sb.String()
}
