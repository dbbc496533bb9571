package diagram

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/MalithGihan/pfdgen-service/pkg/types"
)

const (
	ellipsis   = "..."
	maxTypeLen = 15
	maxSpecLen = 20
	maxCompLen = 30
	maxParams  = 3
	paramSep   = " | "
	lineSep    = "\n"
)

// param is one label slot. The first set field decides the slot; a
// formatted string longer than max is dropped. clip > 0 truncates the value
// itself and never drops.
type param struct {
	fields []string
	format string
	max    int
	clip   int
}

var equipmentParams = []param{
	{fields: []string{"temperature", "temp", "operating_temp", "design_temp"}, format: "T: %s°C", max: 12},
	{fields: []string{"pressure", "pres", "operating_pres", "design_pres"}, format: "P: %s bar", max: 12},
	{fields: []string{"flow", "flow_rate", "capacity", "design_flow"}, format: "Flow: %s kg/hr", max: 15},
	{fields: []string{"duty", "heat_duty", "cooling_duty", "power"}, format: "Duty: %s kW", max: 15},
	{fields: []string{"efficiency", "eff", "design_eff"}, format: "Eff: %s%%", max: 12},
	{fields: []string{"stages", "trays", "number_of_trays"}, format: "Stages: %s", max: 12},
}

var streamParams = []param{
	{fields: []string{"temperature", "temp", "stream_temp"}, format: "T: %s°C", max: 12},
	{fields: []string{"pressure", "pres", "stream_pres"}, format: "P: %s bar", max: 12},
	{fields: []string{"flow", "flow_rate", "stream_flow"}, format: "Flow: %s kg/hr", max: 15},
	{fields: []string{"comp", "composition", "stream_comp"}, format: "Comp: %s", clip: maxCompLen},
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + ellipsis
}

// titleCase upper-cases the first letter of every word and lower-cases the rest;
// a word starts after any non-letter.
func titleCase(s string) string {
	var b strings.Builder
	prevLetter := false
	for _, r := range s {
		if prevLetter {
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(unicode.ToUpper(r))
		}
		prevLetter = unicode.IsLetter(r)
	}
	return b.String()
}

func selectParams(attrs types.Attributes, rules []param) []string {
	var out []string
	for _, p := range rules {
		v, ok := attrs.Lookup(p.fields...)
		if !ok {
			continue
		}
		text := v.String()
		if p.clip > 0 {
			text = truncate(text, p.clip)
		}
		s := fmt.Sprintf(p.format, text)
		if p.max > 0 && utf8.RuneCountInString(s) > p.max {
			continue
		}
		out = append(out, s)
		if len(out) == maxParams {
			break
		}
	}
	return out
}

// TypeLabel renders an equipment type for display: underscores become
// spaces, words are title-cased, and long names are cut at 15 runes.
func TypeLabel(equipType string) string {
	return truncate(titleCase(strings.ReplaceAll(equipType, "_", " ")), maxTypeLen)
}

func EquipmentLabel(e types.Equipment) string {
	parts := []string{e.ID, TypeLabel(e.Type)}
	if e.Spec != "" {
		parts = append(parts, truncate(e.Spec, maxSpecLen))
	}
	if params := selectParams(e.Attrs, equipmentParams); len(params) > 0 {
		parts = append(parts, strings.Join(params, paramSep))
	}
	return strings.Join(parts, lineSep)
}

func StreamLabel(s types.Stream) string {
	parts := append([]string{s.ID}, selectParams(streamAttrs(s), streamParams)...)
	return strings.Join(parts, lineSep)
}

func streamAttrs(s types.Stream) types.Attributes {
	if _, ok := s.Attrs["flow"]; ok || s.Flow == nil {
		return s.Attrs
	}
	a := make(types.Attributes, len(s.Attrs)+1)
	for k, v := range s.Attrs {
		a[k] = v
	}
	a["flow"] = *s.Flow
	return a
}
