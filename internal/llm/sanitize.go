package llm

import (
	"strconv"
	"strings"
)

// Sanitize normalizes a decoded process document in place: both sequences
// exist, non-object records are dropped, ids are trimmed strings and
// equipment types are lower_snake_case. Null values are removed so they do
// not trip schema validation.
func Sanitize(doc map[string]any) map[string]any {
	doc["equipment"] = records(doc["equipment"], func(m map[string]any) {
		normalizeID(m, "id")
		if t, ok := m["type"].(string); ok {
			m["type"] = normalizeType(t)
		}
	})
	doc["streams"] = records(doc["streams"], func(m map[string]any) {
		normalizeID(m, "id")
		normalizeID(m, "from")
		normalizeID(m, "to")
	})
	return doc
}

func records(v any, fix func(map[string]any)) []any {
	list, _ := v.([]any)
	out := make([]any, 0, len(list))
	for _, item := range list {
		m, ok := item.(map[string]any)
		if !ok || len(m) == 0 {
			continue
		}
		for k, val := range m {
			if val == nil {
				delete(m, k)
			}
		}
		fix(m)
		out = append(out, m)
	}
	return out
}

func normalizeID(m map[string]any, key string) {
	switch v := m[key].(type) {
	case string:
		m[key] = strings.TrimSpace(v)
	case float64:
		m[key] = strconv.FormatFloat(v, 'f', -1, 64)
	}
}

func normalizeType(t string) string {
	t = strings.ToLower(strings.TrimSpace(t))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(t)
}
