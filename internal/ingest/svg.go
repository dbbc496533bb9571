package ingest

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ParseSVG collects the text of every <text> element, at any depth, and the
// equipment and stream tags among them. SVG drawings carry no reliable
// connectivity, so no records are produced.
func ParseSVG(name string, data []byte) (ParsedFile, error) {
	p := ParsedFile{Name: name}

	dec := xml.NewDecoder(bytes.NewReader(data))
	var (
		texts []string
		cur   strings.Builder
		depth int
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return p, fmt.Errorf("ingest: %s: %w", name, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "text" {
				depth++
			}
		case xml.EndElement:
			if t.Name.Local == "text" && depth > 0 {
				depth--
				if depth == 0 {
					if s := strings.TrimSpace(cur.String()); s != "" {
						texts = append(texts, s)
					}
					cur.Reset()
				}
			}
		case xml.CharData:
			if depth > 0 {
				cur.Write(t)
			}
		}
	}

	p.Tags = ExtractTags(strings.Join(texts, "\n"))
	p.Notes = append(p.Notes, fmt.Sprintf("svg: %d text elements, %d tags; connections are not read from svg", len(texts), len(p.Tags)))
	return p, nil
}
