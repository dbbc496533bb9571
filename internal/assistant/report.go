package assistant

import (
	"fmt"
	"strings"

	"github.com/MalithGihan/pfdgen-service/internal/flow"
	"github.com/MalithGihan/pfdgen-service/internal/llm"
	"github.com/MalithGihan/pfdgen-service/internal/session"
	"github.com/MalithGihan/pfdgen-service/pkg/types"
)

const (
	describeCompLen = 30
	detailCompLen   = 20
)

type paramLine struct {
	key    string
	format string
}

var equipmentLines = []paramLine{
	{"temperature", "T: %s°C"},
	{"pressure", "P: %s bar"},
	{"flow_rate", "Flow: %s kg/hr"},
	{"duty", "Duty: %s kW"},
	{"efficiency", "Eff: %s%%"},
	{"stages", "Stages: %s"},
}

var streamLines = []paramLine{
	{"temperature", "T: %s°C"},
	{"pressure", "P: %s bar"},
	{"flow_rate", "Flow: %s kg/hr"},
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

func params(attrs types.Attributes, lines []paramLine) []string {
	var out []string
	for _, l := range lines {
		if v, ok := attrs[l.key]; ok && v.IsSet() {
			out = append(out, fmt.Sprintf(l.format, v.String()))
		}
	}
	return out
}

func streamParams(s types.Stream, compLen int) []string {
	out := params(s.Attrs, streamLines)
	if v, ok := s.Attrs.Lookup("composition", "comp"); ok {
		out = append(out, "Comp: "+clip(v.String(), compLen))
	}
	return out
}

func flowText(s types.Stream) string {
	if s.Flow == nil {
		return ""
	}
	return s.Flow.String()
}

// Describe renders a model as the plain-text description used as chat
// context in place of the image.
func Describe(m types.ProcessModel) string {
	var b strings.Builder
	b.WriteString("Process Flow Diagram Description:\n\nEquipment:\n")
	for _, e := range m.Equipment {
		fmt.Fprintf(&b, "- %s: %s - %s\n", e.ID, e.Type, e.Spec)
		if p := params(e.Attrs, equipmentLines); len(p) > 0 {
			fmt.Fprintf(&b, "  Parameters: %s\n", strings.Join(p, ", "))
		}
	}
	b.WriteString("\nStreams:\n")
	for _, s := range m.Streams {
		fmt.Fprintf(&b, "- %s: %s → %s (%s units)\n", s.ID, s.From, s.To, flowText(s))
		if p := streamParams(s, describeCompLen); len(p) > 0 {
			fmt.Fprintf(&b, "  Parameters: %s\n", strings.Join(p, ", "))
		}
	}
	return b.String()
}

func writeEquipment(b *strings.Builder, m types.ProcessModel) {
	for _, e := range m.Equipment {
		fmt.Fprintf(b, "**%s**: %s - %s\n", e.ID, e.Type, e.Spec)
		if p := params(e.Attrs, equipmentLines); len(p) > 0 {
			fmt.Fprintf(b, "    Parameters: %s\n", strings.Join(p, ", "))
		}
	}
}

func SummaryText(m types.ProcessModel) string {
	a := flow.Analyze(m)
	var b strings.Builder
	b.WriteString("### Process Summary\n\n")
	fmt.Fprintf(&b, "Equipment Count: %d\nStream Count: %d\nRecycle Loops: %d\n\n",
		len(m.Equipment), len(m.Streams), len(a.Recycles))
	b.WriteString("#### Equipment\n")
	writeEquipment(&b, m)
	return b.String()
}

func EquipmentText(m types.ProcessModel) string {
	var b strings.Builder
	b.WriteString("### Equipment Details\n\n")
	writeEquipment(&b, m)
	return b.String()
}

func StreamText(m types.ProcessModel) string {
	a := flow.Analyze(m)
	var b strings.Builder
	b.WriteString("### Stream Details\n\n")
	for _, s := range m.Streams {
		if a.IsRecycle(s.From, s.To) {
			fmt.Fprintf(&b, "**%s**: %s → %s (%s units) [RECYCLE]\n", s.ID, s.From, s.To, flowText(s))
		} else {
			fmt.Fprintf(&b, "**%s**: %s → %s (%s units)\n", s.ID, s.From, s.To, flowText(s))
		}
		if p := streamParams(s, detailCompLen); len(p) > 0 {
			fmt.Fprintf(&b, "    Parameters: %s\n", strings.Join(p, ", "))
		}
	}
	return b.String()
}

func report(st session.State, request string, text func(types.ProcessModel) string) (session.State, error) {
	if !st.HasDiagram() {
		return st, ErrNoDiagram
	}
	return st.Append(
		session.NewMessage(llm.RoleUser, session.KindText, request),
		session.NewMessage(llm.RoleAssistant, session.KindSummary, text(*st.Model)),
	), nil
}

// Summary posts equipment and stream counts, the number of recycle loops and
// the equipment list.
func Summary(st session.State) (session.State, error) {
	return report(st, "Process Summary", SummaryText)
}

func EquipmentDetails(st session.State) (session.State, error) {
	return report(st, "Equipment", EquipmentText)
}

// StreamDetails lists every stream, flagging those on a recycle loop.
func StreamDetails(st session.State) (session.State, error) {
	return report(st, "Streams", StreamText)
}
