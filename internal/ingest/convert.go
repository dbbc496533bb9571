package ingest

import (
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"

	"github.com/MalithGihan/pfdgen-service/pkg/types"
)

var (
	reEquipTag  = regexp.MustCompile(`\b[A-Z]{1,3}-\d{2,4}[A-Z]?\b`)
	reStreamTag = regexp.MustCompile(`\bS-?\d{1,4}\b`)
	reNumber    = regexp.MustCompile(`-?\d+(?:\.\d+)?`)
	reMarkup    = regexp.MustCompile(`<[^>]*>`)
)

var typeKeywords = []struct {
	keyword, typ string
}{
	{"distillation", "distillation_column"},
	{"column", "distillation_column"},
	{"exchanger", "heat_exchanger"},
	{"condenser", "condenser"},
	{"reboiler", "heat_exchanger"},
	{"cooler", "cooler"},
	{"heater", "heater"},
	{"furnace", "heater"},
	{"reactor", "reactor"},
	{"compressor", "compressor"},
	{"pump", "pump"},
	{"separator", "separator"},
	{"drum", "vessel"},
	{"vessel", "vessel"},
	{"tank", "tank"},
	{"mixer", "mixer"},
	{"splitter", "splitter"},
	{"valve", "valve"},
}

var tagPrefixes = map[byte]string{
	'P': "pump",
	'E': "heat_exchanger",
	'C': "distillation_column",
	'T': "tank",
	'R': "reactor",
	'K': "compressor",
	'S': "separator",
	'V': "vessel",
	'M': "mixer",
}

// cleanLabel turns diagram markup into plain text, one line per break.
func cleanLabel(s string) string {
	s = strings.NewReplacer("<br>", "\n", "<br/>", "\n", "<br />", "\n", "</div>", "\n").Replace(s)
	s = html.UnescapeString(reMarkup.ReplaceAllString(s, ""))
	var lines []string
	for _, l := range strings.Split(s, "\n") {
		if l = strings.Join(strings.Fields(l), " "); l != "" {
			lines = append(lines, l)
		}
	}
	return strings.Join(lines, "\n")
}

func guessType(hints ...string) string {
	text := strings.ToLower(strings.ReplaceAll(strings.Join(hints, " "), "_", " "))
	for _, k := range typeKeywords {
		if strings.Contains(text, k.keyword) {
			return k.typ
		}
	}
	return ""
}

// equipmentFromLabel reads an equipment record out of a shape label such as
// "P-101<br>Feed Pump". fallbackID names shapes without a tag.
func equipmentFromLabel(label, style, fallbackID string) types.Equipment {
	text := cleanLabel(label)
	id := reEquipTag.FindString(text)
	spec := text
	if id == "" {
		id = fallbackID
	} else {
		spec = strings.Replace(spec, id, "", 1)
	}
	spec = strings.Join(strings.Fields(spec), " ")

	typ := guessType(text, style)
	if typ == "" {
		if t, ok := tagPrefixes[id[0]]; ok && reEquipTag.MatchString(id) {
			typ = t
		} else {
			typ = "equipment"
		}
	}
	return types.Equipment{ID: id, Type: typ, Spec: spec}
}

// streamFromLabel reads a connector label such as "S3: 15 kg/hr". The first
// number after the stream tag is the flow; without one the flow is 0 and a
// note says so.
func streamFromLabel(label, from, to string, n int) (types.Stream, string) {
	text := strings.Join(strings.Fields(cleanLabel(label)), " ")
	id := reStreamTag.FindString(text)
	rest := text
	if id == "" {
		id = fmt.Sprintf("S%d", n)
	} else {
		rest = strings.Replace(rest, id, "", 1)
	}

	var note string
	flow := 0.0
	if num := reNumber.FindString(rest); num != "" {
		flow, _ = strconv.ParseFloat(num, 64)
	} else {
		note = fmt.Sprintf("stream %s (%s -> %s): no flow in label, using 0", id, from, to)
	}

	var attrs types.Attributes
	if comp := composition(rest); comp != "" {
		attrs = types.Attributes{"comp": types.Text(comp)}
	}
	return types.NewStream(id, from, to, flow, attrs), note
}

// composition is whatever is left of a connector label once the tag, the
// first number and flow units are removed.
func composition(rest string) string {
	rest = strings.Replace(rest, reNumber.FindString(rest), "", 1)
	var words []string
	for _, w := range strings.Fields(rest) {
		w = strings.Trim(w, ":,;()")
		switch strings.ToLower(w) {
		case "", "kg/hr", "kg/h", "t/h", "kmol/h", "units", "flow", "flow:":
			continue
		}
		words = append(words, w)
	}
	return strings.Join(words, " ")
}

// ExtractTags returns the equipment tags found in text followed by the
// stream tags, each group in order of first appearance.
func ExtractTags(text string) []string {
	var tags []string
	seen := map[string]bool{}
	for _, re := range []*regexp.Regexp{reEquipTag, reStreamTag} {
		for _, t := range re.FindAllString(text, -1) {
			if !seen[t] {
				seen[t] = true
				tags = append(tags, t)
			}
		}
	}
	return tags
}
