package session

import (
	"time"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/MalithGihan/pfdgen-service/internal/llm"
	"github.com/MalithGihan/pfdgen-service/pkg/types"
)

// ContextTurns is how many trailing messages are replayed to the model.
const ContextTurns = 12

type Kind string

const (
	KindText     Kind = "text"
	KindImage    Kind = "image"
	KindDownload Kind = "download"
	KindSuccess  Kind = "success"
	KindSummary  Kind = "summary"
)

type Message struct {
	ID       string    `json:"id"`
	Role     string    `json:"role"`
	Kind     Kind      `json:"kind"`
	Content  string    `json:"content"`
	Artifact string    `json:"artifact,omitempty"`
	At       time.Time `json:"at"`
}

func NewMessage(role string, kind Kind, content string) Message {
	return Message{
		ID:      gonanoid.Must(),
		Role:    role,
		Kind:    kind,
		Content: content,
		At:      time.Now().UTC(),
	}
}

// Conversation is an uploaded image and the questions asked about it.
type Conversation struct {
	Image       []byte    `json:"-"`
	HasImage    bool      `json:"has_image"`
	Description string    `json:"description,omitempty"`
	History     []Message `json:"history"`
}

// State is everything one user session owns. Handlers take a State and
// return the updated one; nothing here is shared between sessions.
type State struct {
	ID          string              `json:"id"`
	Model       *types.ProcessModel `json:"model,omitempty"`
	Diagram     []byte              `json:"-"`
	DiagramKey  string              `json:"diagram_key,omitempty"`
	Description string              `json:"description,omitempty"`
	History     []Message           `json:"history"`
	ShowForm    bool                `json:"show_form"`

	Analysis     Conversation `json:"analysis"`
	Verification Conversation `json:"verification"`

	UpdatedAt time.Time `json:"updated_at"`
}

func New() State {
	return State{
		ID:        uuid.NewString(),
		History:   []Message{},
		ShowForm:  true,
		UpdatedAt: time.Now().UTC(),
	}
}

func (s State) HasDiagram() bool { return s.Model != nil }

// NewDiagram drops the current diagram and shows the form again; the chat
// history is kept.
func (s State) NewDiagram() State {
	s.Model = nil
	s.Diagram = nil
	s.DiagramKey = ""
	s.Description = ""
	s.ShowForm = true
	return s.touch()
}

// Reset clears the generator: diagram, chat and form.
func (s State) Reset() State {
	s = s.NewDiagram()
	s.History = []Message{}
	return s
}

func (s State) ResetVerification() State {
	s.Verification = Conversation{}
	return s.touch()
}

func (s State) Append(msgs ...Message) State {
	s.History = append(cloneMessages(s.History), msgs...)
	return s.touch()
}

// Recent returns the last n messages as model context turns.
func Recent(history []Message, n int) []llm.Turn {
	if len(history) > n {
		history = history[len(history)-n:]
	}
	turns := make([]llm.Turn, 0, len(history))
	for _, m := range history {
		turns = append(turns, llm.Turn{Role: m.Role, Content: m.Content})
	}
	return turns
}

// Clone returns a copy that shares no history slices or model records with s.
// Image bytes are shared; they are never modified in place.
func (s State) Clone() State {
	s.History = cloneMessages(s.History)
	s.Analysis.History = cloneMessages(s.Analysis.History)
	s.Verification.History = cloneMessages(s.Verification.History)
	if s.Model != nil {
		m := s.Model.Clone()
		s.Model = &m
	}
	return s
}

func (s State) touch() State {
	s.UpdatedAt = time.Now().UTC()
	return s
}

func cloneMessages(in []Message) []Message {
	if in == nil {
		return nil
	}
	out := make([]Message, len(in))
	copy(out, in)
	return out
}
