package ingest

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/MalithGihan/pfdgen-service/internal/validate"
)

// ParseModel reads a process model written as JSON or YAML. The document is
// checked against the process schema before it is decoded.
func ParseModel(name string, data []byte) (ParsedFile, error) {
	p := ParsedFile{Name: name}

	raw := data
	if DetectType(name) == KindYAML {
		var doc map[string]any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return p, fmt.Errorf("ingest: %s: %w", name, err)
		}
		b, err := json.Marshal(doc)
		if err != nil {
			return p, fmt.Errorf("ingest: %s: %w", name, err)
		}
		raw = b
	}

	if err := validate.ValidateJSON(raw); err != nil {
		return p, fmt.Errorf("ingest: %s: %w", name, err)
	}
	if err := json.Unmarshal(raw, &p.Model); err != nil {
		return p, fmt.Errorf("ingest: %s: %w", name, err)
	}
	return p, nil
}
