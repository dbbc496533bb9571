// Package diagram turns a process model into a styled, directed graph
// description and hands it to a Graphviz backend for rasterizing.
package diagram

import (
	"github.com/MalithGihan/pfdgen-service/internal/flow"
)

// Attrs are Graphviz attributes, unquoted; encoding takes care of escaping.
type Attrs map[string]string

func (a Attrs) clone() Attrs {
	out := make(Attrs, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

func merge(base, over Attrs) Attrs {
	out := base.clone()
	for k, v := range over {
		out[k] = v
	}
	return out
}

type NodeKind int

const (
	Plain NodeKind = iota
	Mixing
	Splitting
	// Implicit nodes stand in for stream endpoints that have no equipment record.
	Implicit
)

func (k NodeKind) String() string {
	switch k {
	case Mixing:
		return "mixing"
	case Splitting:
		return "splitting"
	case Implicit:
		return "implicit"
	default:
		return "plain"
	}
}

type Node struct {
	ID    string
	Label string
	Kind  NodeKind
	Attrs Attrs
}

type Edge struct {
	ID      string
	From    string
	To      string
	Label   string
	Recycle bool
	Attrs   Attrs
}

// Graph is the backend-neutral diagram description. Node and edge order
// follows the process model, so equal input gives an equal Graph.
type Graph struct {
	Name         string
	Attrs        Attrs
	NodeDefaults Attrs
	EdgeDefaults Attrs
	Nodes        []Node
	Edges        []Edge

	Analysis flow.Analysis
}

func (g *Graph) Node(id string) (Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

func (g *Graph) Empty() bool {
	return len(g.Nodes) == 0 && len(g.Edges) == 0
}
