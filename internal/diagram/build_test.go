package diagram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MalithGihan/pfdgen-service/pkg/types"
)

func feedLoop() types.ProcessModel {
	return types.ProcessModel{
		Equipment: []types.Equipment{
			{ID: "T-101", Type: "tank"},
			{ID: "P-101", Type: "pump"},
			{ID: "C-301", Type: "distillation_column"},
		},
		Streams: []types.Stream{
			types.NewStream("S1", "T-101", "P-101", 100, nil),
			types.NewStream("S2", "P-101", "C-301", 100, nil),
			types.NewStream("S3", "C-301", "P-101", 15, nil),
		},
	}
}

func TestBuildFeedLoop(t *testing.T) {
	g, err := Build(feedLoop(), Standard())
	require.NoError(t, err)

	assert.Equal(t, "LR", g.Attrs["rankdir"])
	require.Len(t, g.Nodes, 3)

	tank, _ := g.Node("T-101")
	assert.Equal(t, Plain, tank.Kind)
	assert.Equal(t, "cylinder", tank.Attrs["shape"])
	assert.Equal(t, "lightgrey", tank.Attrs["fillcolor"])
	assert.Equal(t, "filled", tank.Attrs["style"])
	assert.Equal(t, "1.6", tank.Attrs["width"])
	assert.NotContains(t, tank.Attrs, "penwidth")

	pump, _ := g.Node("P-101")
	assert.Equal(t, Mixing, pump.Kind)
	assert.Equal(t, "invtriangle", pump.Attrs["shape"])
	assert.Equal(t, "filled,bold", pump.Attrs["style"])
	assert.Equal(t, "3.0", pump.Attrs["penwidth"])
	assert.Equal(t, "1.8", pump.Attrs["width"])

	column, _ := g.Node("C-301")
	assert.Equal(t, "C-301\nDistillation Co...", column.Label)

	require.Len(t, g.Edges, 3)
	assert.False(t, g.Edges[0].Recycle)
	assert.Equal(t, "true", g.Edges[0].Attrs["constraint"])
	for _, e := range g.Edges[1:] {
		assert.True(t, e.Recycle, e.ID)
		assert.Equal(t, "false", e.Attrs["constraint"])
		assert.Equal(t, "back", e.Attrs["dir"])
		assert.Equal(t, "dashed", e.Attrs["style"])
		assert.Equal(t, "red", e.Attrs["color"])
	}
	assert.Equal(t, "S3\nFlow: 15 kg/hr", g.Edges[2].Label)
}

func TestBuildEmptyModel(t *testing.T) {
	g, err := Build(types.ProcessModel{}, Standard())
	require.NoError(t, err)
	assert.True(t, g.Empty())
}

func TestBuildMixingBeatsSplitting(t *testing.T) {
	m := types.ProcessModel{
		Equipment: []types.Equipment{
			{ID: "M-1", Type: "mixer"},
			{ID: "SP-1", Type: "splitter"},
		},
		Streams: []types.Stream{
			types.NewStream("S1", "A", "M-1", 1, nil),
			types.NewStream("S2", "B", "M-1", 1, nil),
			types.NewStream("S3", "M-1", "C", 1, nil),
			types.NewStream("S4", "M-1", "D", 1, nil),
			types.NewStream("S5", "C", "SP-1", 1, nil),
			types.NewStream("S6", "SP-1", "E", 1, nil),
			types.NewStream("S7", "SP-1", "F", 1, nil),
		},
	}
	g, err := Build(m, Standard())
	require.NoError(t, err)

	mixer, _ := g.Node("M-1")
	assert.Equal(t, Mixing, mixer.Kind)
	assert.Equal(t, "filled,bold", mixer.Attrs["style"])

	splitter, _ := g.Node("SP-1")
	assert.Equal(t, Splitting, splitter.Kind)
	assert.Equal(t, "filled,dashed", splitter.Attrs["style"])
	assert.Equal(t, "2.5", splitter.Attrs["penwidth"])
}

func TestBuildSynthesizesImplicitNodes(t *testing.T) {
	m := types.ProcessModel{
		Equipment: []types.Equipment{{ID: "P-101", Type: "pump"}},
		Streams: []types.Stream{
			types.NewStream("S1", "T-101", "P-101", 100, nil),
			types.NewStream("S2", "P-101", "PROD", 100, nil),
		},
	}
	g, err := Build(m, Standard())
	require.NoError(t, err)

	require.Len(t, g.Nodes, 3)
	assert.Equal(t, "P-101", g.Nodes[0].ID)
	assert.Equal(t, Node{ID: "T-101", Label: "T-101", Kind: Implicit, Attrs: Attrs{}}, g.Nodes[1])
	assert.Equal(t, "PROD", g.Nodes[2].ID)
	assert.Equal(t, Implicit, g.Nodes[2].Kind)
}

func TestBuildDuplicateIDOverwritesInPlace(t *testing.T) {
	m := types.ProcessModel{Equipment: []types.Equipment{
		{ID: "X-1", Type: "tank"},
		{ID: "Y-1", Type: "pump"},
		{ID: "X-1", Type: "reactor"},
	}}
	g, err := Build(m, Standard())
	require.NoError(t, err)

	require.Len(t, g.Nodes, 2)
	assert.Equal(t, "X-1", g.Nodes[0].ID)
	assert.Equal(t, "rectangle", g.Nodes[0].Attrs["shape"])
}

func TestBuildRejectsMalformedRecords(t *testing.T) {
	m := feedLoop()
	m.Streams = append(m.Streams, types.Stream{ID: "S9", From: "C-301"})

	g, err := Build(m, Standard())
	assert.Nil(t, g)
	assert.ErrorIs(t, err, types.ErrMalformedRecord)
	assert.Contains(t, err.Error(), "streams[3]")
}

func TestBuildIsDeterministic(t *testing.T) {
	a, err := Build(feedLoop(), HighQuality())
	require.NoError(t, err)
	b, err := Build(feedLoop(), HighQuality())
	require.NoError(t, err)
	assert.Equal(t, a, b)

	srcA, err := EncodeDOT(a)
	require.NoError(t, err)
	srcB, err := EncodeDOT(b)
	require.NoError(t, err)
	assert.Equal(t, srcA, srcB)
}

func TestHighQualityPreset(t *testing.T) {
	g, err := Build(feedLoop(), OptionsFor(QualityHigh))
	require.NoError(t, err)
	assert.Equal(t, "600", g.Attrs["dpi"])
	pump, _ := g.Node("P-101")
	assert.Equal(t, "3.5", pump.Attrs["penwidth"])
	assert.Equal(t, "3.0", g.Edges[1].Attrs["penwidth"])
}
