package ingest

import (
	"bytes"
	"compress/flate"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"io"
	"net/url"
	"strings"
)

type mxfile struct {
	Diagram []diagram `xml:"diagram"`
}
type diagram struct {
	Name         string       `xml:"name,attr"`
	MxGraphModel mxGraphModel `xml:"mxGraphModel"`
	Content      string       `xml:",chardata"`
}
type mxGraphModel struct {
	Root root `xml:"root"`
}
type root struct {
	Cells []mxCell `xml:"mxCell"`
}

type mxCell struct {
	ID     string `xml:"id,attr"`
	Value  string `xml:"value,attr"`
	Style  string `xml:"style,attr"`
	Vertex string `xml:"vertex,attr"` // "1" if shape
	Edge   string `xml:"edge,attr"`   // "1" if connector
	Source string `xml:"source,attr"`
	Target string `xml:"target,attr"`
	Parent string `xml:"parent,attr"`
}

// ParseDrawIO converts a draw.io drawing into a process model: shapes become
// equipment and connectors become streams. Connectors attached at only one
// end are skipped with a note.
func ParseDrawIO(name string, data []byte) (ParsedFile, error) {
	p := ParsedFile{Name: name}

	var doc mxfile
	if err := xml.Unmarshal(data, &doc); err != nil {
		return p, fmt.Errorf("ingest: %s: %w", name, err)
	}

	for _, d := range doc.Diagram {
		cells := d.MxGraphModel.Root.Cells
		if len(cells) == 0 && strings.TrimSpace(d.Content) != "" {
			m, err := inflateDiagram(d.Content)
			if err != nil {
				p.Notes = append(p.Notes, fmt.Sprintf("drawio: page %q: %v", d.Name, err))
				continue
			}
			cells = m.Root.Cells
		}
		convertCells(&p, cells)
	}
	return p, nil
}

func convertCells(p *ParsedFile, cells []mxCell) {
	ids := map[string]string{}
	var edges []mxCell

	for _, c := range cells {
		switch {
		case c.Vertex == "1":
			if cleanLabel(c.Value) == "" && !strings.Contains(c.Style, "shape=") {
				continue
			}
			e := equipmentFromLabel(c.Value, c.Style, "node-"+c.ID)
			ids[c.ID] = e.ID
			p.Model.Equipment = append(p.Model.Equipment, e)
		case c.Edge == "1":
			edges = append(edges, c)
		}
	}

	for _, c := range edges {
		from, okFrom := ids[c.Source]
		to, okTo := ids[c.Target]
		if !okFrom || !okTo {
			p.Notes = append(p.Notes, fmt.Sprintf("drawio: connector %s is not attached at both ends", c.ID))
			continue
		}
		s, note := streamFromLabel(c.Value, from, to, len(p.Model.Streams)+1)
		if note != "" {
			p.Notes = append(p.Notes, note)
		}
		p.Model.Streams = append(p.Model.Streams, s)
	}
}

// inflateDiagram decodes a compressed page: base64, raw deflate, then URL
// encoding around the mxGraphModel XML.
func inflateDiagram(content string) (mxGraphModel, error) {
	var m mxGraphModel
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(content))
	if err != nil {
		return m, err
	}
	b, err := io.ReadAll(flate.NewReader(bytes.NewReader(raw)))
	if err != nil {
		return m, err
	}
	xmlText, err := url.PathUnescape(string(b))
	if err != nil {
		return m, err
	}
	err = xml.Unmarshal([]byte(xmlText), &m)
	return m, err
}

