package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MalithGihan/pfdgen-service/pkg/types"
)

func TestCleanLabel(t *testing.T) {
	assert.Equal(t, "P-101\nFeed Pump", cleanLabel("<div>P-101</div><div>Feed&nbsp;Pump</div>"))
	assert.Equal(t, "E-201\nHeater & Cooler", cleanLabel("E-201<br>Heater &amp; Cooler"))
	assert.Equal(t, "", cleanLabel("<br/>  "))
}

func TestEquipmentFromLabel(t *testing.T) {
	tests := []struct {
		label, style, fallback string
		want                   types.Equipment
	}{
		{"P-101<br>Feed Pump", "", "node-2", types.Equipment{ID: "P-101", Type: "pump", Spec: "Feed Pump"}},
		{"Main Column C-301", "", "node-3", types.Equipment{ID: "C-301", Type: "distillation_column", Spec: "Main Column"}},
		{"E-201", "shape=mxgraph.pid.heat_exchangers.shell_and_tube", "node-4", types.Equipment{ID: "E-201", Type: "heat_exchanger", Spec: ""}},
		{"K-401", "", "node-5", types.Equipment{ID: "K-401", Type: "compressor", Spec: ""}},
		{"Storage", "", "node-6", types.Equipment{ID: "node-6", Type: "equipment", Spec: "Storage"}},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.want, equipmentFromLabel(tt.label, tt.style, tt.fallback))
		})
	}
}

func TestStreamFromLabel(t *testing.T) {
	s, note := streamFromLabel("S3: 15 kg/hr", "C-301", "P-101", 9)
	assert.Empty(t, note)
	assert.Equal(t, "S3", s.ID)
	assert.Equal(t, "15", s.Flow.String())
	_, hasComp := s.Attrs["comp"]
	assert.False(t, hasComp)

	s, note = streamFromLabel("S1 100 kg/hr Water", "T-101", "P-101", 1)
	assert.Empty(t, note)
	assert.Equal(t, "Water", s.Attrs["comp"].String())

	s, note = streamFromLabel("", "A", "B", 4)
	assert.Equal(t, "S4", s.ID)
	assert.Equal(t, "0", s.Flow.String())
	assert.Equal(t, "stream S4 (A -> B): no flow in label, using 0", note)
}

func TestExtractTags(t *testing.T) {
	text := "T-101 feeds P-101 via S1\nP-101 -> E-201 (S2)\nS1 again"
	assert.Equal(t, []string{"T-101", "P-101", "E-201", "S1", "S2"}, ExtractTags(text))
	assert.Empty(t, ExtractTags("no tags here"))
}
