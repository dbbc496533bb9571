package llm

import (
	"context"
	"errors"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

var ErrNoJSON = errors.New("llm: no JSON object in response")

// Turn is one prior message replayed to the model as conversation context.
type Turn struct {
	Role    string
	Content string
}

// Request is a single completion call. Images are raw PNG or JPEG bytes and
// switch providers to their vision model. When JSON is set the reply is
// constrained to a JSON object; Schema, if non-nil, is reflected into a JSON
// Schema and sent as the structured-output format.
type Request struct {
	System      string
	Prompt      string
	History     []Turn
	Images      [][]byte
	JSON        bool
	Schema      any
	Temperature float64
}

func (r Request) kind() string {
	switch {
	case len(r.Images) > 0:
		return "vision"
	case r.JSON:
		return "json"
	default:
		return "text"
	}
}

type Client interface {
	Name() string
	Complete(ctx context.Context, req Request) (string, error)
	Ping(ctx context.Context) error
}
