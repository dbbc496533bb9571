package diagram

import (
	"fmt"
	"sort"
	"strings"

	"github.com/awalterschulze/gographviz"
)

func sortedKeys(a Attrs) []string {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var quoter = strings.NewReplacer(
	`\`, "&#92;",
	`"`, `\"`,
	"\r", "",
	"\n", `\n`,
)

// quote renders s as a double-quoted DOT string; every id and value goes
// through it, keywords and <...> text included. A literal backslash is
// written as &#92; since Graphviz reads \" as an escaped quote.
func quote(s string) string {
	return `"` + quoter.Replace(s) + `"`
}

func quoteAll(a Attrs) map[string]string {
	out := make(map[string]string, len(a))
	for k, v := range a {
		out[k] = quote(v)
	}
	return out
}

// EncodeDOT writes g as a Graphviz digraph. Node and edge defaults are
// folded into every statement so the output does not depend on how a
// consumer treats default attribute blocks.
func EncodeDOT(g *Graph) (string, error) {
	out := gographviz.NewGraph()
	if err := out.SetName(g.Name); err != nil {
		return "", err
	}
	if err := out.SetDir(true); err != nil {
		return "", err
	}
	for _, k := range sortedKeys(g.Attrs) {
		if err := out.AddAttr(g.Name, k, quote(g.Attrs[k])); err != nil {
			return "", fmt.Errorf("graph attribute %s: %w", k, err)
		}
	}

	for _, n := range g.Nodes {
		attrs := merge(g.NodeDefaults, n.Attrs)
		attrs["label"] = n.Label
		if err := out.AddNode(g.Name, quote(n.ID), quoteAll(attrs)); err != nil {
			return "", fmt.Errorf("node %s: %w", n.ID, err)
		}
	}
	for _, e := range g.Edges {
		attrs := merge(g.EdgeDefaults, e.Attrs)
		attrs["label"] = e.Label
		if err := out.AddEdge(quote(e.From), quote(e.To), true, quoteAll(attrs)); err != nil {
			return "", fmt.Errorf("edge %s: %w", e.ID, err)
		}
	}
	return out.String(), nil
}
