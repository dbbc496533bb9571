package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"github.com/MalithGihan/pfdgen-service/pkg/types"
)

// ExtractJSON returns the text between the first '{' and the last '}'.
func ExtractJSON(reply string) (string, error) {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start < 0 || end < start {
		return "", ErrNoJSON
	}
	return reply[start : end+1], nil
}

// DecodeDocument turns a model reply into a JSON object. Replies that are
// double-encoded strings or slightly malformed JSON are unwrapped and
// repaired before giving up.
func DecodeDocument(reply string) (map[string]any, error) {
	reply = strings.TrimSpace(reply)

	var unwrapped string
	if err := json.Unmarshal([]byte(reply), &unwrapped); err == nil {
		reply = unwrapped
	}

	raw, err := ExtractJSON(reply)
	if err != nil {
		return nil, err
	}

	var doc map[string]any
	if err := json.Unmarshal([]byte(raw), &doc); err == nil {
		return doc, nil
	}

	repaired, err := jsonrepair.JSONRepair(raw)
	if err != nil {
		return nil, fmt.Errorf("llm: json repair failed: %w", err)
	}
	if err := json.Unmarshal([]byte(repaired), &doc); err != nil {
		return nil, fmt.Errorf("llm: unmarshal after repair: %w", err)
	}
	return doc, nil
}

// DecodeProcessModel converts a sanitized document into the typed model.
func DecodeProcessModel(doc map[string]any) (types.ProcessModel, error) {
	var m types.ProcessModel
	b, err := json.Marshal(doc)
	if err != nil {
		return m, err
	}
	if err := json.Unmarshal(b, &m); err != nil {
		return m, fmt.Errorf("llm: decode process model: %w", err)
	}
	return m, nil
}
