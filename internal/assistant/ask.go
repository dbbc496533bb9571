package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/MalithGihan/pfdgen-service/internal/llm"
	"github.com/MalithGihan/pfdgen-service/internal/session"
)

// visualKeywords mark questions about how the diagram looks rather than what
// the process does; those go to the vision model with the rendered image.
var visualKeywords = []string{
	// layout and position
	"layout", "position", "location", "top-left", "top-right", "bottom-left", "bottom-right",
	"left side", "right side", "top side", "bottom side", "middle", "center", "corner",
	"arranged", "placed", "situated", "oriented", "direction", "orientation",
	// appearance
	"visually", "appearance", "shape", "color", "colored", "look", "looks like",
	"appears", "seen", "saw", "see", "view", "perspective", "diagram",
	// spatial relationships
	"where is", "next to", "adjacent", "beside", "near", "close to", "far from",
	"above", "below", "under", "over", "across", "between", "surrounding",
	// patterns
	"pattern", "design", "configuration", "structure", "form",
	"alignment", "symmetry", "asymmetry", "proportion", "dimension",
	// elements
	"symbol", "icon", "marking", "label", "text", "font", "size", "scale",
	"line", "arrow", "connection", "link", "path", "route",
	// comparisons
	"bigger", "smaller", "larger", "taller", "wider", "narrower", "thicker", "thinner",
	"compare", "comparison", "difference", "similar", "resemble", "match",
	// explicit requests
	"analyze visually", "visual analysis", "visual inspection", "visual check",
	"examine visually", "visual examination", "visual review",
	"what does it look like", "how does it look", "visualize", "visualization",
	"show me", "point out", "indicate", "highlight", "circle", "mark",
	// directions
	"horizontal", "vertical", "diagonal", "parallel", "perpendicular", "angled",
	"upward", "downward", "forward", "backward", "sideways", "circular",
	// features
	"border", "outline", "edge", "surface", "face", "side",
	"front", "back", "top", "bottom", "interior", "exterior",
}

// NeedsVisual reports whether a question should be answered from the image.
// Matching is by substring, so "form" also matches "information".
func NeedsVisual(question string) bool {
	q := strings.ToLower(question)
	for _, k := range visualKeywords {
		if strings.Contains(q, k) {
			return true
		}
	}
	return false
}

// Ask answers a question about the generated diagram. Visual questions are
// answered from the rendered image; everything else from the text
// description plus the last turns of the chat.
func (a *Assistant) Ask(ctx context.Context, st session.State, question string) (session.State, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return st, ErrEmptyInput
	}
	if !st.HasDiagram() {
		return st, ErrNoDiagram
	}

	req := llm.Request{System: llm.AnalystSystem, Temperature: answerTemperature}
	if NeedsVisual(question) && len(st.Diagram) > 0 {
		req.Prompt = llm.ImageQuestionPrompt(question)
		req.Images = [][]byte{st.Diagram}
	} else {
		req.Prompt = llm.TextQuestionPrompt(st.Description, question)
		req.History = session.Recent(st.History, session.ContextTurns)
	}

	answer, err := a.llm.Complete(ctx, req)
	if err != nil {
		return st, fmt.Errorf("assistant: %s: %w", a.llm.Name(), err)
	}
	return st.Append(
		session.NewMessage(llm.RoleUser, session.KindText, question),
		session.NewMessage(llm.RoleAssistant, session.KindText, answer),
	), nil
}
