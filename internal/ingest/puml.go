package ingest

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	reComp = regexp.MustCompile(`(?i)^(component|rectangle|node|storage|entity|agent)\s+"?([^"]+?)"?\s*(?:as\s+([A-Za-z0-9_]+))?\s*(?:<<.*>>)?\s*$`)
	reLink = regexp.MustCompile(`^("[^"]+"|[A-Za-z0-9_]+)\s*[-\.]+>{1,2}\s*("[^"]+"|[A-Za-z0-9_]+)\s*(?::\s*(.+))?$`)
)

// ParsePUML converts a PlantUML block drawing into a process model.
// Declared elements become equipment and arrows become streams; arrows to
// undeclared names still produce streams, so the builder draws them as
// implicit nodes.
func ParsePUML(name string, data []byte) (ParsedFile, error) {
	p := ParsedFile{Name: name}
	idByAlias := map[string]string{}

	for _, ln := range strings.Split(string(data), "\n") {
		l := strings.TrimSpace(ln)
		if l == "" || strings.HasPrefix(l, "'") || strings.HasPrefix(l, "@") {
			continue
		}

		if m := reComp.FindStringSubmatch(l); m != nil {
			label := strings.ReplaceAll(strings.TrimSpace(m[2]), `\n`, "<br>")
			alias := m[3]
			e := equipmentFromLabel(label, m[1], sanitizeID(label))
			if alias == "" {
				alias = cleanLabel(label)
			}
			idByAlias[alias] = e.ID
			p.Model.Equipment = append(p.Model.Equipment, e)
			continue
		}
		if m := reLink.FindStringSubmatch(l); m != nil {
			from := cleanRef(m[1], idByAlias)
			to := cleanRef(m[2], idByAlias)
			s, note := streamFromLabel(m[3], from, to, len(p.Model.Streams)+1)
			if note != "" {
				p.Notes = append(p.Notes, note)
			}
			p.Model.Streams = append(p.Model.Streams, s)
		}
	}
	if len(p.Model.Equipment) == 0 && len(p.Model.Streams) == 0 {
		return p, fmt.Errorf("ingest: %s: no elements or arrows found", name)
	}
	return p, nil
}

func sanitizeID(s string) string {
	s = strings.ToUpper(strings.TrimSpace(cleanLabel(s)))
	return strings.NewReplacer(" ", "_", "\n", "_").Replace(s)
}

func cleanRef(s string, ids map[string]string) string {
	s = strings.TrimSpace(strings.Trim(s, `"`))
	if id, ok := ids[s]; ok {
		return id
	}
	if tag := reEquipTag.FindString(s); tag != "" {
		return tag
	}
	return sanitizeID(s)
}
