package ingest

import (
	"bytes"
	"compress/flate"
	"context"
	"encoding/base64"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const drawioDoc = `<mxfile><diagram name="Page-1"><mxGraphModel><root>
<mxCell id="0"/>
<mxCell id="1" parent="0"/>
<mxCell id="2" value="T-101&lt;br&gt;Feed Tank" style="shape=cylinder" vertex="1" parent="1"/>
<mxCell id="3" value="P-101&lt;br&gt;Feed Pump" vertex="1" parent="1"/>
<mxCell id="4" value="&lt;div&gt;C-301&lt;/div&gt;&lt;div&gt;Main Column&lt;/div&gt;" vertex="1" parent="1"/>
<mxCell id="5" value="S1 100 kg/hr Water" edge="1" source="2" target="3" parent="1"/>
<mxCell id="6" value="S2: 100" edge="1" source="3" target="4" parent="1"/>
<mxCell id="7" value="" edge="1" source="4" target="3" parent="1"/>
<mxCell id="8" value="loose" edge="1" source="4" parent="1"/>
</root></mxGraphModel></diagram></mxfile>`

func TestDetectType(t *testing.T) {
	tests := map[string]Kind{
		"model.json":   KindJSON,
		"model.YML":    KindYAML,
		"plant.yaml":   KindYAML,
		"pfd.drawio":   KindDrawIO,
		"pfd.puml":     KindPUML,
		"pfd.plantuml": KindPUML,
		"pfd.svg":      KindSVG,
		"scan.JPG":     KindRaster,
		"scan.png":     KindRaster,
		"notes.pdf":    KindUnknown,
		"README":       KindUnknown,
	}
	for name, want := range tests {
		assert.Equal(t, want, DetectType(name), name)
	}
}

func TestParseModelJSONAndYAML(t *testing.T) {
	p, err := ParseModel("m.json", []byte(`{"equipment":[{"id":"P-101","type":"pump","pressure":5}],
		"streams":[{"id":"S1","from":"T-101","to":"P-101","flow":100}]}`))
	require.NoError(t, err)
	require.Len(t, p.Model.Equipment, 1)
	assert.Equal(t, "5", p.Model.Equipment[0].Attrs["pressure"].String())

	yamlDoc := `
equipment:
  - id: T-101
    type: tank
    spec: Feed Tank
  - id: P-101
    type: pump
streams:
  - id: S1
    from: T-101
    to: P-101
    flow: 100
    comp: Water
`
	p, err = ParseModel("m.yaml", []byte(yamlDoc))
	require.NoError(t, err)
	require.Len(t, p.Model.Equipment, 2)
	assert.Equal(t, "Feed Tank", p.Model.Equipment[0].Spec)
	require.Len(t, p.Model.Streams, 1)
	assert.Equal(t, "Water", p.Model.Streams[0].Attrs["comp"].String())
}

func TestParseModelRejectsInvalidDocuments(t *testing.T) {
	_, err := ParseModel("m.json", []byte(`{"equipment":[{"id":"P-101"}],"streams":[]}`))
	assert.Error(t, err)

	_, err = ParseModel("m.yaml", []byte("equipment: [unclosed"))
	assert.Error(t, err)

	_, err = ParseModel("m.json", []byte(`not json`))
	assert.Error(t, err)
}

func TestParseDrawIO(t *testing.T) {
	p, err := ParseDrawIO("pfd.drawio", []byte(drawioDoc))
	require.NoError(t, err)

	require.Len(t, p.Model.Equipment, 3)
	assert.Equal(t, "T-101", p.Model.Equipment[0].ID)
	assert.Equal(t, "tank", p.Model.Equipment[0].Type)
	assert.Equal(t, "Feed Tank", p.Model.Equipment[0].Spec)
	assert.Equal(t, "distillation_column", p.Model.Equipment[2].Type)

	require.Len(t, p.Model.Streams, 3)
	assert.Equal(t, "S1", p.Model.Streams[0].ID)
	assert.Equal(t, "Water", p.Model.Streams[0].Attrs["comp"].String())
	assert.Equal(t, "P-101", p.Model.Streams[1].From)
	assert.Equal(t, "C-301", p.Model.Streams[1].To)
	assert.Equal(t, "S3", p.Model.Streams[2].ID)
	assert.Equal(t, "0", p.Model.Streams[2].Flow.String())

	assert.Len(t, p.Notes, 2)
	assert.Contains(t, p.Notes[0], "stream S3")
	assert.Contains(t, p.Notes[1], "connector 8")
	assert.NoError(t, p.Model.Validate())
}

func TestParseDrawIOCompressedPage(t *testing.T) {
	inner := `<mxGraphModel><root><mxCell id="0"/>` +
		`<mxCell id="2" value="R-201 Reactor" vertex="1" parent="0"/>` +
		`<mxCell id="3" value="V-301" vertex="1" parent="0"/>` +
		`<mxCell id="4" value="S7 40" edge="1" source="2" target="3" parent="0"/>` +
		`</root></mxGraphModel>`

	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.BestCompression)
	require.NoError(t, err)
	_, err = w.Write([]byte(url.PathEscape(inner)))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	doc := `<mxfile><diagram name="p">` + base64.StdEncoding.EncodeToString(buf.Bytes()) + `</diagram></mxfile>`
	p, err := ParseDrawIO("c.drawio", []byte(doc))
	require.NoError(t, err)

	require.Len(t, p.Model.Equipment, 2)
	assert.Equal(t, "reactor", p.Model.Equipment[0].Type)
	assert.Equal(t, "vessel", p.Model.Equipment[1].Type)
	require.Len(t, p.Model.Streams, 1)
	assert.Equal(t, "40", p.Model.Streams[0].Flow.String())
}

func TestParseDrawIOBadXML(t *testing.T) {
	_, err := ParseDrawIO("x.drawio", []byte("<mxfile"))
	assert.Error(t, err)
}

func TestParsePUML(t *testing.T) {
	src := `@startuml
' feed section
component "T-101 Feed Tank" as T101
component "P-101 Feed Pump" as P101
rectangle "E-201 Preheater"
T101 --> P101 : S1 100 kg/hr
P101 --> "E-201 Preheater" : S2 100
"E-201 Preheater" -> PROD
@enduml`
	p, err := ParsePUML("pfd.puml", []byte(src))
	require.NoError(t, err)

	require.Len(t, p.Model.Equipment, 3)
	assert.Equal(t, "tank", p.Model.Equipment[0].Type)
	assert.Equal(t, "heater", p.Model.Equipment[2].Type)

	require.Len(t, p.Model.Streams, 3)
	assert.Equal(t, "T-101", p.Model.Streams[0].From)
	assert.Equal(t, "P-101", p.Model.Streams[0].To)
	assert.Equal(t, "E-201", p.Model.Streams[1].To)
	assert.Equal(t, "PROD", p.Model.Streams[2].To)
	assert.Equal(t, []string{"stream S3 (E-201 -> PROD): no flow in label, using 0"}, p.Notes)

	_, err = ParsePUML("empty.puml", []byte("@startuml\n@enduml"))
	assert.Error(t, err)
}

func TestParseSVG(t *testing.T) {
	src := `<svg xmlns="http://www.w3.org/2000/svg"><g id="graph0"><title>pfd</title>
<g id="node1" class="node"><text x="10" y="20">T&#45;101</text><text x="10" y="30">Tank</text></g>
<g id="node2" class="node"><text x="50" y="20">P-101</text></g>
<g id="edge1" class="edge"><text x="30" y="15">S1</text><text x="30" y="25">Flow: 100 kg/hr</text></g>
</g></svg>`
	p, err := ParseSVG("pfd.svg", []byte(src))
	require.NoError(t, err)
	assert.Equal(t, []string{"T-101", "P-101", "S1"}, p.Tags)
	assert.Empty(t, p.Model.Equipment)
	assert.Equal(t, []string{"svg: 5 text elements, 3 tags; connections are not read from svg"}, p.Notes)
}

type fakeOCR struct {
	text string
	err  error
}

func (f fakeOCR) Text(context.Context, []byte) (string, error) { return f.text, f.err }

func TestParseRaster(t *testing.T) {
	ctx := context.Background()

	p, err := ParseRaster(ctx, "scan.png", []byte{1}, fakeOCR{text: "P-101 Pump\nS1 100\nE-201"})
	require.NoError(t, err)
	assert.Equal(t, []string{"P-101", "E-201", "S1"}, p.Tags)

	p, err = ParseRaster(ctx, "scan.png", []byte{1}, nil)
	require.NoError(t, err)
	assert.Empty(t, p.Tags)
	assert.Len(t, p.Notes, 1)

	_, err = ParseRaster(ctx, "scan.png", []byte{1}, fakeOCR{err: errors.New("bad image")})
	assert.ErrorContains(t, err, "bad image")
}

func TestParseDispatchAndMerge(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "pfd.drawio")
	require.NoError(t, os.WriteFile(path, []byte(drawioDoc), 0o644))

	a, err := ParseFile(ctx, path, nil)
	require.NoError(t, err)
	assert.Equal(t, KindDrawIO, a.Kind)
	assert.Equal(t, "pfd.drawio", a.Name)

	b, err := Parse(ctx, "scan.png", []byte{1}, fakeOCR{text: "P-101 K-401"})
	require.NoError(t, err)
	assert.Equal(t, KindRaster, b.Kind)

	_, err = Parse(ctx, "notes.pdf", []byte("%PDF"), nil)
	assert.Error(t, err)

	m := Merge([]ParsedFile{a, b, b})
	assert.Len(t, m.Model.Equipment, 3)
	assert.Len(t, m.Model.Streams, 3)
	assert.Equal(t, []string{"P-101", "K-401"}, m.Tags)
	assert.Len(t, m.Notes, 4)

	_, err = ParseFile(ctx, filepath.Join(dir, "missing.json"), nil)
	assert.Error(t, err)
}
