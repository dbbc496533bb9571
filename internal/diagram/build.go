package diagram

import (
	"github.com/MalithGihan/pfdgen-service/internal/flow"
	"github.com/MalithGihan/pfdgen-service/internal/style"
	"github.com/MalithGihan/pfdgen-service/pkg/types"
)

const graphName = "pfd"

// Build validates m and lays it out as a Graph. Records missing structural
// fields fail the whole build; streams naming unknown equipment get an
// implicit node instead.
func Build(m types.ProcessModel, opts Options) (*Graph, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	a := flow.Analyze(m)

	g := &Graph{
		Name:         graphName,
		Attrs:        opts.Graph.clone(),
		NodeDefaults: opts.NodeDefaults.clone(),
		EdgeDefaults: opts.EdgeDefaults.clone(),
		Analysis:     a,
	}

	index := make(map[string]int, len(m.Equipment))
	for _, e := range m.Equipment {
		st := style.Lookup(e.Type)
		look, kind := opts.Plain, Plain
		switch {
		case a.IsMixing(e.ID):
			look, kind = opts.Mixing, Mixing
		case a.IsSplitting(e.ID):
			look, kind = opts.Splitting, Splitting
		}
		n := Node{
			ID:    e.ID,
			Label: EquipmentLabel(e),
			Kind:  kind,
			Attrs: look.attrs(st.Shape, st.FillColor),
		}
		// a repeated id overwrites the earlier record in place
		if i, ok := index[e.ID]; ok {
			g.Nodes[i] = n
			continue
		}
		index[e.ID] = len(g.Nodes)
		g.Nodes = append(g.Nodes, n)
	}

	for _, id := range m.DanglingRefs() {
		g.Nodes = append(g.Nodes, Node{ID: id, Label: id, Kind: Implicit, Attrs: Attrs{}})
	}

	for _, s := range m.Streams {
		recycle := a.IsRecycle(s.From, s.To)
		look := opts.Stream
		if recycle {
			look = opts.Recycle
		}
		g.Edges = append(g.Edges, Edge{
			ID:      s.ID,
			From:    s.From,
			To:      s.To,
			Label:   StreamLabel(s),
			Recycle: recycle,
			Attrs:   look.clone(),
		})
	}
	return g, nil
}
